package repository

import (
	"context"

	"github.com/crismard/ventapos-api/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia de ventas (DIP).
//
// NextSaleNumber consume la secuencia nativa de BD: atómica entre callers
// concurrentes. No existe ruta de respaldo parse-e-incrementa; si la secuencia
// falla, se propaga el error y la transacción se aborta.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByValeID(ctx context.Context, valeID string) (*entity.Sale, error)
	GetByNumber(ctx context.Context, number int64) (*entity.Sale, error)
	NextSaleNumber(ctx context.Context) (int64, error)
}
