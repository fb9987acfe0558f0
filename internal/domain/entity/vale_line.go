package entity

import "github.com/shopspring/decimal"

// Tipos de precio aplicables a una línea de vale.
const (
	PriceKindStandard = "standard" // precio de lista de la modalidad
	PriceKindInvoice  = "invoice"  // precio factura (neto)
	PriceKindCustom   = "custom"   // precio pactado: requiere aprobador
)

// ValeLine representa una línea del vale: una cantidad de una variante a un precio
// unitario bajo una modalidad (metro, rollo, unidad).
//
// Invariantes: Quantity > 0, UnitPrice > 0 y Subtotal == round(Quantity * UnitPrice)
// en pesos enteros. WarehouseID queda asignado cuando la política de asignación
// eligió una bodega única para la línea; con reparto multi-bodega queda vacío y
// mandan las reservas.
type ValeLine struct {
	ID              string
	ValeID          string
	VariantID       string
	PriceModalityID string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	PriceKind       string
	ApprovedBy      *string // obligatorio cuando PriceKind es custom
	Subtotal        decimal.Decimal
	WarehouseID     *string
}

// LineSubtotal calcula round(quantity * unitPrice) en pesos enteros: toda derivación
// monetaria redondea, nunca acumula error flotante.
func LineSubtotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice).Round(0)
}
