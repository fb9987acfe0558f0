package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una reserva de stock.
const (
	ReservationActive    = "active"    // cantidad movida de available a reserved
	ReservationReleased  = "released"  // devuelta a available (cancelación o expiración)
	ReservationCommitted = "committed" // consumida definitivamente por una venta
)

// StockReservation representa una reserva de stock contra una bodega concreta,
// creada por la política de asignación al emitir un vale. Una línea del vale puede
// generar varias reservas si la cantidad se reparte entre bodegas.
//
// release y commit solo actúan sobre reservas en estado active; por eso liberar
// una reserva ya liberada es un no-op y no un error.
type StockReservation struct {
	ID          string
	ValeID      string
	LineID      string
	VariantID   string
	WarehouseID string
	Quantity    decimal.Decimal
	Oversold    bool // la política permitió reservar más de lo disponible
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
