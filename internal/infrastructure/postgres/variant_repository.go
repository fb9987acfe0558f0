package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/crismard/ventapos-api/internal/domain/entity"
	"github.com/crismard/ventapos-api/internal/domain/repository"
)

var _ repository.VariantRepository = (*VariantRepo)(nil)

// VariantRepo lectura del catálogo de variantes. El catálogo se escribe desde otro
// sistema; este adaptador nunca hace INSERT/UPDATE.
type VariantRepo struct {
	q Querier
}

// NewVariantRepository construye el adaptador de catálogo. Pasar pool o tx (Querier).
func NewVariantRepository(q Querier) *VariantRepo {
	return &VariantRepo{q: q}
}

// GetByID obtiene una variante (SKU) por ID.
func (r *VariantRepo) GetByID(ctx context.Context, id string) (*entity.ProductVariant, error) {
	query := `
		SELECT id, sku, name, unit_measure, price, created_at, updated_at
		FROM product_variants WHERE id = $1`
	var v entity.ProductVariant
	err := r.q.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.SKU, &v.Name, &v.UnitMeasure, &v.Price, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get variant: %w", err)
	}
	return &v, nil
}
