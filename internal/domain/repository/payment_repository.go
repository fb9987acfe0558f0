package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/crismard/ventapos-api/internal/domain/entity"
)

// PaymentRepository define el puerto de persistencia de pagos (DIP).
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	ListBySale(ctx context.Context, saleID string) ([]*entity.Payment, error)
	// SumCashByShift suma los pagos en efectivo de ventas no anuladas del turno:
	// el total teórico de caja que consume el cuadre de turno.
	SumCashByShift(ctx context.Context, shiftID string) (decimal.Decimal, error)
}
