package repository

import (
	"context"

	"github.com/crismard/ventapos-api/internal/domain/entity"
)

// WarehouseStockRepository define el puerto para consultar/actualizar stock por
// bodega+variante (DIP). Las variantes ForUpdate bloquean la(s) fila(s) con
// SELECT FOR UPDATE; se usan dentro de transacciones del motor de inventario.
type WarehouseStockRepository interface {
	Get(ctx context.Context, variantID, warehouseID string) (*entity.WarehouseStock, error)
	GetForUpdate(ctx context.Context, variantID, warehouseID string) (*entity.WarehouseStock, error)
	// ListPointOfSaleForUpdate bloquea y devuelve las filas de stock de la variante
	// en bodegas punto de venta, insumo de la política de asignación.
	ListPointOfSaleForUpdate(ctx context.Context, variantID string) ([]*entity.WarehouseStock, error)
	Upsert(ctx context.Context, stock *entity.WarehouseStock) error
	// ListByWarehouse lista el stock de una bodega; belowMin filtra lo bajo umbral mínimo.
	ListByWarehouse(ctx context.Context, warehouseID string, belowMin bool, limit, offset int) ([]*entity.WarehouseStock, error)
}
