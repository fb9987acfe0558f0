package entity

import "time"

// Customer representa un cliente. RUT y razón social son obligatorios para emitir factura.
type Customer struct {
	ID        string
	Name      string
	RUT       string // RUT chileno (obligatorio en factura)
	LegalName string // razón social (obligatoria en factura)
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanInvoice indica si el cliente tiene los datos tributarios mínimos para factura.
func (c *Customer) CanInvoice() bool {
	return c != nil && c.RUT != "" && c.LegalName != ""
}
