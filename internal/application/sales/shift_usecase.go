package sales

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/crismard/ventapos-api/internal/domain"
	"github.com/crismard/ventapos-api/internal/domain/repository"
)

// ShiftUseCase expone el total teórico de efectivo de un turno de caja: la suma de
// pagos en efectivo de ventas no anuladas del turno. El cuadre de caja (colaborador
// externo) compara este valor contra el conteo físico. La lógica vive en el servicio,
// no en un procedimiento almacenado, detrás del mismo contrato de entrada/salida.
type ShiftUseCase struct {
	shiftRepo   repository.CashShiftRepository
	paymentRepo repository.PaymentRepository
}

// NewShiftUseCase construye el caso de uso.
func NewShiftUseCase(shiftRepo repository.CashShiftRepository, paymentRepo repository.PaymentRepository) *ShiftUseCase {
	return &ShiftUseCase{shiftRepo: shiftRepo, paymentRepo: paymentRepo}
}

// TheoreticalCashTotal calcula el efectivo teórico del turno.
func (uc *ShiftUseCase) TheoreticalCashTotal(ctx context.Context, shiftID string) (decimal.Decimal, error) {
	shift, err := uc.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		return decimal.Zero, err
	}
	if shift == nil {
		return decimal.Zero, domain.ErrNotFound
	}
	return uc.paymentRepo.SumCashByShift(ctx, shiftID)
}
