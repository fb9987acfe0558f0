package repository

import (
	"context"

	"github.com/crismard/ventapos-api/internal/domain/entity"
)

// VariantRepository define el puerto de solo lectura hacia el catálogo de variantes.
// El catálogo es un colaborador externo: el núcleo nunca lo escribe.
type VariantRepository interface {
	GetByID(ctx context.Context, id string) (*entity.ProductVariant, error)
}
