package repository

import (
	"context"

	"github.com/crismard/ventapos-api/internal/domain/entity"
)

// CashShiftRepository define el puerto de lectura de turnos de caja.
type CashShiftRepository interface {
	GetByID(ctx context.Context, id string) (*entity.CashShift, error)
	GetOpenByCashier(ctx context.Context, cashierID string) (*entity.CashShift, error)
}
