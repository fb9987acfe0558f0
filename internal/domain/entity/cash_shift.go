package entity

import "time"

// CashShift representa un turno de caja (apertura/cierre de un cajero). El cuadre de
// caja es un colaborador externo: el núcleo solo le provee el total teórico de efectivo.
type CashShift struct {
	ID        string
	CashierID string
	OpenedAt  time.Time
	ClosedAt  *time.Time
}

// IsOpen indica si el turno sigue abierto.
func (s *CashShift) IsOpen() bool {
	return s.ClosedAt == nil
}
