package repository

import (
	"context"
	"time"

	"github.com/crismard/ventapos-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia del log de movimientos
// (DIP). El log es append-only: no hay Update ni Delete.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	GetByID(ctx context.Context, id string) (*entity.StockMovement, error)
	ListByWarehouse(ctx context.Context, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	ListByVariant(ctx context.Context, variantID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
}
