package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// IVATax es la tasa de IVA chilena aplicada a facturas.
var IVATax = decimal.NewFromFloat(0.19)

// Sale representa la venta emitida al finalizar un vale. Se crea exactamente una vez
// por vale (constraint único sobre ValeID) e inmutable salvo la marca de anulación.
type Sale struct {
	ID            string
	Number        int64 // consecutivo global de venta (secuencia atómica de BD)
	ValeID        string
	CashShiftID   *string
	CashierID     string
	CustomerID    *string
	DocumentType  string
	WarehouseID   *string // bodega principal de despacho, si hubo una sola
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	PaymentsTotal decimal.Decimal
	Cancelled     bool
	CreatedAt     time.Time
}

// TaxFor calcula el impuesto para un total según tipo de documento: las facturas
// llevan IVA 19% redondeado a pesos enteros; boletas y tickets no desglosan impuesto.
func TaxFor(documentType string, total decimal.Decimal) decimal.Decimal {
	if documentType != DocumentFactura {
		return decimal.Zero
	}
	return total.Mul(IVATax).Round(0)
}
