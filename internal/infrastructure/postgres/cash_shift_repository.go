package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/crismard/ventapos-api/internal/domain"
	"github.com/crismard/ventapos-api/internal/domain/entity"
	"github.com/crismard/ventapos-api/internal/domain/repository"
)

var _ repository.CashShiftRepository = (*CashShiftRepo)(nil)

// CashShiftRepo lectura de turnos de caja. La apertura/cierre de turnos la
// gestiona el módulo de cuadre de caja; aquí solo se consulta.
type CashShiftRepo struct {
	q Querier
}

// NewCashShiftRepository construye el adaptador de turnos. Pasar pool o tx (Querier).
func NewCashShiftRepository(q Querier) *CashShiftRepo {
	return &CashShiftRepo{q: q}
}

// GetByID obtiene un turno por ID.
func (r *CashShiftRepo) GetByID(ctx context.Context, id string) (*entity.CashShift, error) {
	query := `SELECT id, cashier_id, opened_at, closed_at FROM cash_shifts WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// GetOpenByCashier obtiene el turno abierto (sin cierre) de un cajero.
func (r *CashShiftRepo) GetOpenByCashier(ctx context.Context, cashierID string) (*entity.CashShift, error) {
	query := `
		SELECT id, cashier_id, opened_at, closed_at
		FROM cash_shifts
		WHERE cashier_id = $1 AND closed_at IS NULL
		ORDER BY opened_at DESC
		LIMIT 1`
	return r.scanOne(r.q.QueryRow(ctx, query, cashierID))
}

func (r *CashShiftRepo) scanOne(row pgx.Row) (*entity.CashShift, error) {
	var s entity.CashShift
	err := row.Scan(&s.ID, &s.CashierID, &s.OpenedAt, &s.ClosedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get cash shift: %w", err)
	}
	return &s, nil
}
