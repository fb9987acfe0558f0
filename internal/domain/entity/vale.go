package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de un vale (orden borrador del vendedor).
const (
	ValeStateDraft            = "draft"                  // en edición por el vendedor
	ValeStatePending          = "pending"                // listo, sin reserva de stock
	ValeStateVoucherPending   = "voucher_pending"        // vale pendiente: en cola de caja, stock reservado
	ValeStateProcessing       = "processing_at_register" // un cajero lo tiene tomado
	ValeStatePaidAwaitingData = "paid_awaiting_data"     // pagado, faltan datos de factura
	ValeStateCompleted        = "completed"              // venta emitida (terminal)
	ValeStateCancelled        = "cancelled"              // anulado (terminal)
)

// Tipos de documento de venta.
const (
	DocumentTicket  = "ticket"  // vale interno sin documento tributario
	DocumentBoleta  = "boleta"  // boleta electrónica
	DocumentFactura = "factura" // factura electrónica: exige RUT y razón social, lleva IVA
)

// StaleLockWindow es la ventana tras la cual un vale en processing_at_register sin
// actividad se considera abandonado y otro cajero puede retomarlo.
const StaleLockWindow = 5 * time.Minute

// valeTransitions define las transiciones legales del vale. Los estados terminales
// no aparecen como origen: un vale nunca se destruye ni revive.
var valeTransitions = map[string][]string{
	ValeStateDraft:            {ValeStatePending, ValeStateVoucherPending, ValeStateCancelled},
	ValeStatePending:          {ValeStateVoucherPending, ValeStateProcessing, ValeStateCancelled},
	ValeStateVoucherPending:   {ValeStateProcessing, ValeStatePending, ValeStateCancelled},
	ValeStateProcessing:       {ValeStateVoucherPending, ValeStatePaidAwaitingData, ValeStateCompleted, ValeStateCancelled},
	ValeStatePaidAwaitingData: {ValeStateCompleted, ValeStateCancelled},
}

// CanTransition indica si el cambio de estado from -> to es legal.
func CanTransition(from, to string) bool {
	for _, next := range valeTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminalState indica si el estado es terminal (completed o cancelled).
func IsTerminalState(state string) bool {
	return state == ValeStateCompleted || state == ValeStateCancelled
}

// Vale representa la orden borrador creada por un vendedor, a la espera de que un
// cajero la finalice. Number es el consecutivo diario legible (ej. VP20250602-0001).
type Vale struct {
	ID                    string
	Number                string
	DailySequence         int
	SellerID              string
	CustomerID            *string
	DocumentType          string
	State                 string
	Subtotal              decimal.Decimal
	Discount              decimal.Decimal
	Total                 decimal.Decimal
	ProcessingBy          *string    // UserID del cajero que lo tiene tomado
	ReservationExpiresAt  *time.Time // vigencia de la reserva de stock, si existe
	CancelReason          string
	Lines                 []*ValeLine
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// IsStaleLocked indica si el vale lleva en processing_at_register más que la ventana
// de abandono, medido contra UpdatedAt. Se evalúa antes de tomar el lock de fila para
// poder retomar un vale abandonado sin esperar indefinidamente.
func (v *Vale) IsStaleLocked(now time.Time) bool {
	return v.State == ValeStateProcessing && now.Sub(v.UpdatedAt) > StaleLockWindow
}

// ReservationExpired indica si la reserva de stock del vale ya venció.
func (v *Vale) ReservationExpired(now time.Time) bool {
	return v.ReservationExpiresAt != nil && now.After(*v.ReservationExpiresAt)
}
