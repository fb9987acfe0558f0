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

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de ventas. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, number, vale_id, cash_shift_id, cashier_id, customer_id, document_type,
	warehouse_id, subtotal, discount, tax, total, payments_total, cancelled, created_at`

// Create persiste la venta. El constraint único sobre vale_id ataja la doble venta
// de un mismo vale: la violación se reporta como ErrDuplicate.
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		sale.ID, sale.Number, sale.ValeID, sale.CashShiftID, sale.CashierID,
		sale.CustomerID, sale.DocumentType, sale.WarehouseID,
		sale.Subtotal, sale.Discount, sale.Tax, sale.Total, sale.PaymentsTotal,
		sale.Cancelled, sale.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create sale: %w", err)
	}
	return nil
}

// GetByValeID obtiene la venta de un vale, si existe.
func (r *SaleRepo) GetByValeID(ctx context.Context, valeID string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE vale_id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, valeID))
}

// GetByNumber obtiene una venta por su consecutivo.
func (r *SaleRepo) GetByNumber(ctx context.Context, number int64) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE number = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, number))
}

// NextSaleNumber consume la secuencia nativa sale_number_seq: atómica entre callers
// concurrentes, sin ruta de respaldo parse-e-incrementa.
func (r *SaleRepo) NextSaleNumber(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT nextval('sale_number_seq')`).Scan(&n); err != nil {
		return 0, fmt.Errorf("next sale number: %w", err)
	}
	return n, nil
}

func (r *SaleRepo) scanOne(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(
		&s.ID, &s.Number, &s.ValeID, &s.CashShiftID, &s.CashierID,
		&s.CustomerID, &s.DocumentType, &s.WarehouseID,
		&s.Subtotal, &s.Discount, &s.Tax, &s.Total, &s.PaymentsTotal,
		&s.Cancelled, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return &s, nil
}
