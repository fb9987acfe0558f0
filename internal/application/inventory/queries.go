package inventory

import (
	"context"
	"time"

	"github.com/crismard/ventapos-api/internal/domain"
	"github.com/crismard/ventapos-api/internal/domain/entity"
	"github.com/crismard/ventapos-api/internal/domain/repository"
)

// StockQueryUseCase consultas de solo lectura sobre stock y log de movimientos.
// Corre sobre el pool, sin transacción ni locks.
type StockQueryUseCase struct {
	stockRepo    repository.WarehouseStockRepository
	movementRepo repository.StockMovementRepository
}

// NewStockQueryUseCase construye el caso de uso.
func NewStockQueryUseCase(stockRepo repository.WarehouseStockRepository, movementRepo repository.StockMovementRepository) *StockQueryUseCase {
	return &StockQueryUseCase{stockRepo: stockRepo, movementRepo: movementRepo}
}

// GetStock entrega la foto de stock de una variante en una bodega.
func (uc *StockQueryUseCase) GetStock(ctx context.Context, variantID, warehouseID string) (*entity.WarehouseStock, error) {
	if variantID == "" || warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.stockRepo.Get(ctx, variantID, warehouseID)
}

// ListStockByWarehouse lista el stock de una bodega; belowMin filtra lo bajo umbral.
func (uc *StockQueryUseCase) ListStockByWarehouse(ctx context.Context, warehouseID string, belowMin bool, limit, offset int) ([]*entity.WarehouseStock, error) {
	if warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return uc.stockRepo.ListByWarehouse(ctx, warehouseID, belowMin, limit, offset)
}

// ListMovements lista el log de movimientos por bodega o por variante, con rango de
// fechas opcional.
func (uc *StockQueryUseCase) ListMovements(ctx context.Context, warehouseID, variantID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	switch {
	case warehouseID != "":
		return uc.movementRepo.ListByWarehouse(ctx, warehouseID, from, to, limit, offset)
	case variantID != "":
		return uc.movementRepo.ListByVariant(ctx, variantID, from, to, limit, offset)
	default:
		return nil, domain.ErrInvalidInput
	}
}
