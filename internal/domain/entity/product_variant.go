package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductVariant representa la unidad vendible (SKU) del catálogo. El catálogo es un
// colaborador externo: el núcleo solo lee el precio y los metadatos que le entregan,
// nunca los escribe.
type ProductVariant struct {
	ID          string
	SKU         string
	Name        string
	UnitMeasure string // MTR (metro), RLL (rollo), UND (unidad)
	Price       decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
