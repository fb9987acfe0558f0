package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago aceptados en caja.
const (
	PaymentCash     = "cash"
	PaymentDebit    = "debit"
	PaymentCredit   = "credit"
	PaymentTransfer = "transfer"
)

// Payment representa un pago aplicado a una venta. Una venta puede tener varios pagos;
// la suma puede exceder el total (el excedente es vuelto, no se persiste como pago).
type Payment struct {
	ID        string
	SaleID    string
	Method    string
	Amount    decimal.Decimal
	CreatedAt time.Time
}
