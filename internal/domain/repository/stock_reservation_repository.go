package repository

import (
	"context"

	"github.com/crismard/ventapos-api/internal/domain/entity"
)

// StockReservationRepository define el puerto de persistencia de reservas de stock.
// MarkReleased y MarkCommitted solo afectan filas en estado active (guardia en el
// WHERE) y devuelven si la fila cambió: así release es idempotente por construcción.
type StockReservationRepository interface {
	Create(ctx context.Context, reservation *entity.StockReservation) error
	ListActiveByVale(ctx context.Context, valeID string) ([]*entity.StockReservation, error)
	MarkReleased(ctx context.Context, id string) (bool, error)
	MarkCommitted(ctx context.Context, id string) (bool, error)
}
