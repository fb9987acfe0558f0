package sales

import (
	"context"

	"github.com/crismard/ventapos-api/internal/domain"
	"github.com/crismard/ventapos-api/internal/domain/entity"
	"github.com/crismard/ventapos-api/internal/domain/repository"
)

// GetValeUseCase entrega el detalle completo de un vale (líneas, cliente, estado).
// Solo lectura: no toma locks ni abre transacción.
type GetValeUseCase struct {
	valeRepo     repository.ValeRepository
	customerRepo repository.CustomerRepository
}

// NewGetValeUseCase construye el caso de uso.
func NewGetValeUseCase(valeRepo repository.ValeRepository, customerRepo repository.CustomerRepository) *GetValeUseCase {
	return &GetValeUseCase{valeRepo: valeRepo, customerRepo: customerRepo}
}

// Get devuelve el vale con su cliente, si tiene.
func (uc *GetValeUseCase) Get(ctx context.Context, number string) (*entity.Vale, *entity.Customer, error) {
	vale, err := uc.valeRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, nil, err
	}
	if vale == nil {
		return nil, nil, domain.ErrValeNotFound
	}
	var customer *entity.Customer
	if vale.CustomerID != nil {
		customer, _ = uc.customerRepo.GetByID(ctx, *vale.CustomerID)
	}
	return vale, customer, nil
}
