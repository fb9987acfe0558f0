package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/crismard/ventapos-api/internal/domain/entity"
	"github.com/crismard/ventapos-api/internal/domain/repository"
)

var _ repository.StockReservationRepository = (*StockReservationRepo)(nil)

// StockReservationRepo implementación de reservas de stock sobre PostgreSQL (usable
// con pool o tx). Los cambios de estado llevan la guardia status = 'active' en el
// WHERE: así release/commit sobre una reserva ya procesada no afectan filas, y el
// caller lo detecta por el contador de filas.
type StockReservationRepo struct {
	q Querier
}

// NewStockReservationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockReservationRepository(q Querier) *StockReservationRepo {
	return &StockReservationRepo{q: q}
}

// Create persiste una reserva.
func (r *StockReservationRepo) Create(ctx context.Context, res *entity.StockReservation) error {
	if res.ID == "" {
		res.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_reservations (id, vale_id, line_id, variant_id, warehouse_id, quantity, oversold, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		res.ID, res.ValeID, res.LineID, res.VariantID, res.WarehouseID,
		res.Quantity, res.Oversold, res.Status, res.CreatedAt, res.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create reservation: %w", err)
	}
	return nil
}

// ListActiveByVale lista las reservas activas de un vale en orden estable.
func (r *StockReservationRepo) ListActiveByVale(ctx context.Context, valeID string) ([]*entity.StockReservation, error) {
	query := `
		SELECT id, vale_id, line_id, variant_id, warehouse_id, quantity, oversold, status, created_at, updated_at
		FROM stock_reservations
		WHERE vale_id = $1 AND status = 'active'
		ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, valeID)
	if err != nil {
		return nil, fmt.Errorf("list active reservations: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockReservation
	for rows.Next() {
		var res entity.StockReservation
		if err := rows.Scan(&res.ID, &res.ValeID, &res.LineID, &res.VariantID, &res.WarehouseID,
			&res.Quantity, &res.Oversold, &res.Status, &res.CreatedAt, &res.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		list = append(list, &res)
	}
	return list, rows.Err()
}

// MarkReleased pasa la reserva de active a released; devuelve si la fila cambió.
func (r *StockReservationRepo) MarkReleased(ctx context.Context, id string) (bool, error) {
	return r.transition(ctx, id, entity.ReservationReleased)
}

// MarkCommitted pasa la reserva de active a committed; devuelve si la fila cambió.
func (r *StockReservationRepo) MarkCommitted(ctx context.Context, id string) (bool, error) {
	return r.transition(ctx, id, entity.ReservationCommitted)
}

func (r *StockReservationRepo) transition(ctx context.Context, id, status string) (bool, error) {
	query := `
		UPDATE stock_reservations SET status = $2, updated_at = now()
		WHERE id = $1 AND status = 'active'`
	tag, err := r.q.Exec(ctx, query, id, status)
	if err != nil {
		return false, fmt.Errorf("transition reservation: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
