package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/crismard/ventapos-api/internal/domain/entity"
	"github.com/crismard/ventapos-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo implementación de PaymentRepository sobre PostgreSQL (usable con pool o tx).
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador de pagos. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

// Create persiste un pago.
func (r *PaymentRepo) Create(ctx context.Context, payment *entity.Payment) error {
	query := `
		INSERT INTO payments (id, sale_id, method, amount, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query,
		payment.ID, payment.SaleID, payment.Method, payment.Amount, payment.CreatedAt)
	if err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

// ListBySale lista los pagos de una venta.
func (r *PaymentRepo) ListBySale(ctx context.Context, saleID string) ([]*entity.Payment, error) {
	query := `
		SELECT id, sale_id, method, amount, created_at
		FROM payments WHERE sale_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Payment
	for rows.Next() {
		var p entity.Payment
		if err := rows.Scan(&p.ID, &p.SaleID, &p.Method, &p.Amount, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// SumCashByShift suma los pagos en efectivo de ventas no anuladas del turno: el
// total teórico de caja para el cuadre.
func (r *PaymentRepo) SumCashByShift(ctx context.Context, shiftID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(p.amount), 0)
		FROM payments p
		JOIN sales s ON s.id = p.sale_id
		WHERE s.cash_shift_id = $1 AND p.method = $2 AND NOT s.cancelled`
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, shiftID, entity.PaymentCash).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum cash by shift: %w", err)
	}
	return total, nil
}
