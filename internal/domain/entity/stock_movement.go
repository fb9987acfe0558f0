package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeEntry      = "entry"      // entrada
	MovementTypeExit       = "exit"       // salida (venta confirmada)
	MovementTypeAdjustment = "adjustment" // ajuste manual
	MovementTypeTransfer   = "transfer"   // traslado entre bodegas
)

// StockMovement representa un movimiento de inventario: registro de auditoría inmutable,
// una fila por mutación del motor de inventario. Nunca se actualiza ni se borra.
// Quantity es el delta aplicado (negativo en salidas); QuantityBefore/QuantityAfter son
// la cantidad física (available + reserved) antes y después del movimiento.
type StockMovement struct {
	ID              string
	VariantID       string
	WarehouseID     string
	Type            string // entry, exit, adjustment, transfer
	Quantity        decimal.Decimal
	QuantityBefore  decimal.Decimal
	QuantityAfter   decimal.Decimal
	Reference       string  // número de vale, venta o nota de ajuste
	Reason          string
	DestWarehouseID *string // solo en transfer: bodega destino
	CreatedBy       string  // UserID del actor
	CreatedAt       time.Time
}
