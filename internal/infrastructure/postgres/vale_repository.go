package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/crismard/ventapos-api/internal/domain"
	"github.com/crismard/ventapos-api/internal/domain/entity"
	"github.com/crismard/ventapos-api/internal/domain/repository"
)

var _ repository.ValeRepository = (*ValeRepo)(nil)

// ValeRepo implementación de ValeRepository sobre PostgreSQL (usable con pool o tx).
type ValeRepo struct {
	q Querier
}

// NewValeRepository construye el adaptador de vales. Pasar pool o tx (Querier).
func NewValeRepository(q Querier) *ValeRepo {
	return &ValeRepo{q: q}
}

const valeColumns = `id, number, daily_sequence, seller_id, customer_id, document_type, state,
	subtotal, discount, total, processing_by, reservation_expires_at, cancel_reason, created_at, updated_at`

// Create persiste la cabecera del vale. El número diario debe venir ya asignado.
func (r *ValeRepo) Create(ctx context.Context, vale *entity.Vale) error {
	query := `
		INSERT INTO vales (` + valeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		vale.ID, vale.Number, vale.DailySequence, vale.SellerID, vale.CustomerID,
		vale.DocumentType, vale.State, vale.Subtotal, vale.Discount, vale.Total,
		vale.ProcessingBy, vale.ReservationExpiresAt, vale.CancelReason,
		vale.CreatedAt, vale.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create vale: %w", err)
	}
	return nil
}

// CreateLine persiste una línea del vale.
func (r *ValeRepo) CreateLine(ctx context.Context, line *entity.ValeLine) error {
	query := `
		INSERT INTO vale_lines (id, vale_id, variant_id, price_modality_id, quantity, unit_price, price_kind, approved_by, subtotal, warehouse_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		line.ID, line.ValeID, line.VariantID, line.PriceModalityID,
		line.Quantity, line.UnitPrice, line.PriceKind, line.ApprovedBy,
		line.Subtotal, line.WarehouseID,
	)
	if err != nil {
		return fmt.Errorf("create vale line: %w", err)
	}
	return nil
}

// GetByNumber obtiene el vale con sus líneas, sin lock.
func (r *ValeRepo) GetByNumber(ctx context.Context, number string) (*entity.Vale, error) {
	return r.getByNumber(ctx, number, false)
}

// GetByNumberForUpdate obtiene el vale con sus líneas bloqueando la fila de la
// cabecera (SELECT FOR UPDATE): la primitiva de serialización entre cajeros.
func (r *ValeRepo) GetByNumberForUpdate(ctx context.Context, number string) (*entity.Vale, error) {
	return r.getByNumber(ctx, number, true)
}

func (r *ValeRepo) getByNumber(ctx context.Context, number string, forUpdate bool) (*entity.Vale, error) {
	query := `SELECT ` + valeColumns + ` FROM vales WHERE number = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var v entity.Vale
	err := r.q.QueryRow(ctx, query, number).Scan(
		&v.ID, &v.Number, &v.DailySequence, &v.SellerID, &v.CustomerID,
		&v.DocumentType, &v.State, &v.Subtotal, &v.Discount, &v.Total,
		&v.ProcessingBy, &v.ReservationExpiresAt, &v.CancelReason,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vale: %w", err)
	}
	lines, err := r.listLines(ctx, v.ID)
	if err != nil {
		return nil, err
	}
	v.Lines = lines
	return &v, nil
}

func (r *ValeRepo) listLines(ctx context.Context, valeID string) ([]*entity.ValeLine, error) {
	query := `
		SELECT id, vale_id, variant_id, price_modality_id, quantity, unit_price, price_kind, approved_by, subtotal, warehouse_id
		FROM vale_lines WHERE vale_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, valeID)
	if err != nil {
		return nil, fmt.Errorf("list vale lines: %w", err)
	}
	defer rows.Close()
	var lines []*entity.ValeLine
	for rows.Next() {
		var l entity.ValeLine
		if err := rows.Scan(&l.ID, &l.ValeID, &l.VariantID, &l.PriceModalityID,
			&l.Quantity, &l.UnitPrice, &l.PriceKind, &l.ApprovedBy,
			&l.Subtotal, &l.WarehouseID); err != nil {
			return nil, fmt.Errorf("scan vale line: %w", err)
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}

// Update persiste estado, totales, cajero en proceso y vigencia de reserva.
// updated_at se fija siempre: es la base del chequeo de abandono de caja.
func (r *ValeRepo) Update(ctx context.Context, vale *entity.Vale) error {
	query := `
		UPDATE vales SET customer_id = $2, document_type = $3, state = $4,
			subtotal = $5, discount = $6, total = $7, processing_by = $8,
			reservation_expires_at = $9, cancel_reason = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		vale.ID, vale.CustomerID, vale.DocumentType, vale.State,
		vale.Subtotal, vale.Discount, vale.Total, vale.ProcessingBy,
		vale.ReservationExpiresAt, vale.CancelReason, vale.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update vale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrValeNotFound
	}
	return nil
}

// NextDailySequence incrementa y devuelve el consecutivo diario de forma atómica:
// upsert sobre la fila del día con RETURNING, seguro ante vendedores concurrentes.
func (r *ValeRepo) NextDailySequence(ctx context.Context, day time.Time) (int, error) {
	query := `
		INSERT INTO daily_sequences (day, last_value)
		VALUES ($1::date, 1)
		ON CONFLICT (day)
		DO UPDATE SET last_value = daily_sequences.last_value + 1
		RETURNING last_value`
	var seq int
	if err := r.q.QueryRow(ctx, query, day).Scan(&seq); err != nil {
		return 0, fmt.Errorf("next daily sequence: %w", err)
	}
	return seq, nil
}

// ListExpiredReservations devuelve números de vales en voucher_pending cuya reserva
// venció antes de now.
func (r *ValeRepo) ListExpiredReservations(ctx context.Context, now time.Time, limit int) ([]string, error) {
	query := `
		SELECT number FROM vales
		WHERE state = $1 AND reservation_expires_at IS NOT NULL AND reservation_expires_at < $2
		ORDER BY reservation_expires_at
		LIMIT $3`
	rows, err := r.q.Query(ctx, query, entity.ValeStateVoucherPending, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list expired reservations: %w", err)
	}
	defer rows.Close()
	var numbers []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan vale number: %w", err)
		}
		numbers = append(numbers, n)
	}
	return numbers, rows.Err()
}
