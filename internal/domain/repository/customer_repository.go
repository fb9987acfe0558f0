package repository

import (
	"context"

	"github.com/crismard/ventapos-api/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para clientes (DIP).
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	GetByRUT(ctx context.Context, rut string) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
}
