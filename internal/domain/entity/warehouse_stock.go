package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// WarehouseStock representa el stock de una variante en una bodega: cantidad disponible
// y cantidad reservada por vales pendientes. Una fila por (variante, bodega).
//
// Invariantes: available >= 0 y reserved >= 0 (salvo bodega virtual, donde available
// puede ser negativo por sobreventa). available + reserved solo disminuye en commit;
// reserve/release mueven cantidad entre los dos campos sin alterar la suma.
// Se muta únicamente a través del motor de inventario (reserve/release/commit/adjust),
// nunca por asignación directa desde rutas.
type WarehouseStock struct {
	VariantID    string
	WarehouseID  string
	Available    decimal.Decimal
	Reserved     decimal.Decimal
	MinThreshold decimal.Decimal
	MaxThreshold decimal.Decimal
	UpdatedAt    time.Time
}

// Total devuelve available + reserved (cantidad física en bodega).
func (s *WarehouseStock) Total() decimal.Decimal {
	return s.Available.Add(s.Reserved)
}

// BelowMinimum indica si la cantidad física está bajo el umbral mínimo configurado.
func (s *WarehouseStock) BelowMinimum() bool {
	return s.MinThreshold.GreaterThan(decimal.Zero) && s.Total().LessThan(s.MinThreshold)
}
