package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/crismard/ventapos-api/internal/domain/entity"
	"github.com/crismard/ventapos-api/internal/domain/repository"
)

var _ repository.WarehouseStockRepository = (*WarehouseStockRepo)(nil)

// WarehouseStockRepo implementación de WarehouseStockRepository sobre PostgreSQL
// (usable con pool o tx).
type WarehouseStockRepo struct {
	q Querier
}

// NewWarehouseStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewWarehouseStockRepository(q Querier) *WarehouseStockRepo {
	return &WarehouseStockRepo{q: q}
}

const stockColumns = `variant_id, warehouse_id, available, reserved, min_threshold, max_threshold, updated_at`

func scanStock(row pgx.Row) (*entity.WarehouseStock, error) {
	var s entity.WarehouseStock
	err := row.Scan(&s.VariantID, &s.WarehouseID, &s.Available, &s.Reserved,
		&s.MinThreshold, &s.MaxThreshold, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// emptyStock devuelve una foto en cero para pares (variante, bodega) sin registro.
// Solo para lecturas: las mutaciones pasan por GetForUpdate, que materializa la fila.
func emptyStock(variantID, warehouseID string) *entity.WarehouseStock {
	return &entity.WarehouseStock{
		VariantID:    variantID,
		WarehouseID:  warehouseID,
		Available:    decimal.Zero,
		Reserved:     decimal.Zero,
		MinThreshold: decimal.Zero,
		MaxThreshold: decimal.Zero,
	}
}

// Get obtiene el stock de una variante en una bodega.
func (r *WarehouseStockRepo) Get(ctx context.Context, variantID, warehouseID string) (*entity.WarehouseStock, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM warehouse_stock WHERE variant_id = $1 AND warehouse_id = $2`
	s, err := scanStock(r.q.QueryRow(ctx, query, variantID, warehouseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return emptyStock(variantID, warehouseID), nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return s, nil
}

// GetForUpdate obtiene el stock y bloquea la fila para update (SELECT FOR UPDATE).
// Si el par (variante, bodega) no tiene fila todavía, la materializa en cero y la
// bloquea: devolver una fila en cero sin lock dejaría que dos transacciones
// concurrentes partan del mismo cero y la última pise el delta de la primera.
func (r *WarehouseStockRepo) GetForUpdate(ctx context.Context, variantID, warehouseID string) (*entity.WarehouseStock, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM warehouse_stock WHERE variant_id = $1 AND warehouse_id = $2
		FOR UPDATE`
	s, err := scanStock(r.q.QueryRow(ctx, query, variantID, warehouseID))
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get stock for update: %w", err)
	}

	insert := `
		INSERT INTO warehouse_stock (variant_id, warehouse_id, available, reserved, min_threshold, max_threshold, updated_at)
		VALUES ($1, $2, 0, 0, 0, 0, now())
		ON CONFLICT (variant_id, warehouse_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, variantID, warehouseID); err != nil {
		return nil, fmt.Errorf("materializar fila de stock: %w", err)
	}
	// Relectura con lock: si otra tx ganó el insert, acá se espera su commit.
	s, err = scanStock(r.q.QueryRow(ctx, query, variantID, warehouseID))
	if err != nil {
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return s, nil
}

// ListPointOfSaleForUpdate bloquea y devuelve las filas de stock de la variante en
// bodegas punto de venta, en orden estable por bodega. Insumo de la política de
// asignación: el lock mantiene la asignación estable frente a reservas concurrentes.
func (r *WarehouseStockRepo) ListPointOfSaleForUpdate(ctx context.Context, variantID string) ([]*entity.WarehouseStock, error) {
	query := `
		SELECT s.variant_id, s.warehouse_id, s.available, s.reserved, s.min_threshold, s.max_threshold, s.updated_at
		FROM warehouse_stock s
		JOIN warehouses w ON w.id = s.warehouse_id
		WHERE s.variant_id = $1 AND w.is_point_of_sale
		ORDER BY s.warehouse_id
		FOR UPDATE OF s`
	rows, err := r.q.Query(ctx, query, variantID)
	if err != nil {
		return nil, fmt.Errorf("list stock for update: %w", err)
	}
	defer rows.Close()
	var list []*entity.WarehouseStock
	for rows.Next() {
		var s entity.WarehouseStock
		if err := rows.Scan(&s.VariantID, &s.WarehouseID, &s.Available, &s.Reserved,
			&s.MinThreshold, &s.MaxThreshold, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Upsert inserta o actualiza la fila de stock (por variante y bodega).
func (r *WarehouseStockRepo) Upsert(ctx context.Context, stock *entity.WarehouseStock) error {
	query := `
		INSERT INTO warehouse_stock (variant_id, warehouse_id, available, reserved, min_threshold, max_threshold, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (variant_id, warehouse_id)
		DO UPDATE SET available = EXCLUDED.available, reserved = EXCLUDED.reserved, updated_at = now()`
	_, err := r.q.Exec(ctx, query, stock.VariantID, stock.WarehouseID,
		stock.Available, stock.Reserved, stock.MinThreshold, stock.MaxThreshold)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// ListByWarehouse lista el stock de una bodega; belowMin filtra lo bajo umbral mínimo.
func (r *WarehouseStockRepo) ListByWarehouse(ctx context.Context, warehouseID string, belowMin bool, limit, offset int) ([]*entity.WarehouseStock, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM warehouse_stock WHERE warehouse_id = $1`
	if belowMin {
		query += ` AND min_threshold > 0 AND (available + reserved) < min_threshold`
	}
	query += ` ORDER BY variant_id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, warehouseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock by warehouse: %w", err)
	}
	defer rows.Close()
	var list []*entity.WarehouseStock
	for rows.Next() {
		var s entity.WarehouseStock
		if err := rows.Scan(&s.VariantID, &s.WarehouseID, &s.Available, &s.Reserved,
			&s.MinThreshold, &s.MaxThreshold, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
