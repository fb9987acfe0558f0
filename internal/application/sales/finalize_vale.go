package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/crismard/ventapos-api/internal/application/inventory"
	"github.com/crismard/ventapos-api/internal/application/settings"
	"github.com/crismard/ventapos-api/internal/domain"
	"github.com/crismard/ventapos-api/internal/domain/entity"
)

// FinalizeValeUseCase convierte un vale en venta: recalcula totales, consume las
// reservas definitivamente, asigna el consecutivo de venta y deja el vale en
// completed. Todo dentro de una transacción con lock exclusivo sobre la fila del
// vale: dos cajeros concurrentes producen exactamente una venta y un
// StaleLockConflict.
type FinalizeValeUseCase struct {
	txRunner TxRunner
	ledger   *inventory.Ledger
	settings *settings.Provider
	notifier Notifier
}

// NewFinalizeValeUseCase construye el caso de uso.
func NewFinalizeValeUseCase(txRunner TxRunner, ledger *inventory.Ledger, cfg *settings.Provider, notifier Notifier) *FinalizeValeUseCase {
	return &FinalizeValeUseCase{txRunner: txRunner, ledger: ledger, settings: cfg, notifier: notifier}
}

// FinalizeValeInput entrada de caja para finalizar un vale.
type FinalizeValeInput struct {
	Number        string
	CashierID     string
	ShiftID       *string
	DocumentType  string // vacío = el del vale
	Discount      decimal.Decimal
	PaymentMethod string
	AmountPaid    decimal.Decimal
	// Datos de cliente: ID existente, o RUT + razón social para resolver/crear.
	CustomerID        *string
	CustomerRUT       string
	CustomerLegalName string
	CustomerEmail     string
}

// FinalizeValeResult es la respuesta de caja.
type FinalizeValeResult struct {
	SaleNumber int64
	Subtotal   decimal.Decimal
	Discount   decimal.Decimal
	Tax        decimal.Decimal
	Total      decimal.Decimal
	Change     decimal.Decimal
}

// Finalize ejecuta el cierre de la venta. Si cualquier paso falla, la transacción
// completa se revierte: el vale conserva su estado y sus reservas, nunca quedan
// líneas consumidas a medias ni ventas sin pago.
func (uc *FinalizeValeUseCase) Finalize(ctx context.Context, input FinalizeValeInput) (*FinalizeValeResult, error) {
	if input.Number == "" || input.CashierID == "" || input.PaymentMethod == "" {
		return nil, domain.ErrInvalidInput
	}

	var result *FinalizeValeResult
	err := uc.txRunner.RunSales(ctx, func(r TxRepos) error {
		// Chequeo de abandono previo al lock: un vale tomado y vigente de otro cajero
		// falla rápido sin quedar bloqueado detrás de su transacción.
		preview, err := r.Vales.GetByNumber(ctx, input.Number)
		if err != nil {
			return err
		}
		if preview == nil {
			return domain.ErrValeNotFound
		}
		now := time.Now()
		if preview.State == entity.ValeStateProcessing && !preview.IsStaleLocked(now) &&
			preview.ProcessingBy != nil && *preview.ProcessingBy != input.CashierID {
			return domain.ErrStaleLockConflict
		}

		vale, err := r.Vales.GetByNumberForUpdate(ctx, input.Number)
		if err != nil {
			return err
		}
		if vale == nil {
			return domain.ErrValeNotFound
		}
		now = time.Now()

		// Releer estado tras el lock. Un vale pending (sin reserva inicial, o barrido
		// tras vencer su reserva) también se cierra aquí: la reserva se repone más
		// abajo, en esta misma transacción.
		switch vale.State {
		case entity.ValeStatePending, entity.ValeStateVoucherPending, entity.ValeStatePaidAwaitingData:
		case entity.ValeStateProcessing:
			if vale.ProcessingBy != nil && *vale.ProcessingBy != input.CashierID && !vale.IsStaleLocked(now) {
				return domain.ErrStaleLockConflict
			}
		case entity.ValeStateCompleted:
			// El perdedor de la carrera encuentra el vale ya vendido.
			return domain.ErrStaleLockConflict
		default:
			return &domain.InvalidTransitionError{From: vale.State, To: entity.ValeStateCompleted}
		}

		// El cierre pasa por caja: un vale que llega sin tomar se toma aquí mismo.
		if vale.State == entity.ValeStatePending || vale.State == entity.ValeStateVoucherPending {
			vale.State = entity.ValeStateProcessing
		}
		if vale.State == entity.ValeStateProcessing {
			vale.ProcessingBy = &input.CashierID
		}

		documentType := input.DocumentType
		if documentType == "" {
			documentType = vale.DocumentType
		}
		switch documentType {
		case entity.DocumentTicket, entity.DocumentBoleta, entity.DocumentFactura:
		default:
			return domain.ErrInvalidInput
		}

		// No se confía en los totales persistidos: se recalculan dentro de la tx.
		subtotal, err := RecomputeSubtotal(vale.Lines)
		if err != nil {
			return err
		}
		if err := ValidateDiscount(input.Discount, subtotal); err != nil {
			return err
		}
		total := subtotal.Sub(input.Discount)
		tax := entity.TaxFor(documentType, total)
		if input.AmountPaid.LessThan(total) {
			return domain.ErrInvalidInput
		}

		customerID, err := uc.resolveCustomer(ctx, r, vale, documentType, input)
		if err != nil {
			return err
		}

		// Cobertura de reservas: líneas sin reserva activa (vale pending o reserva
		// vencida ya barrida) se reservan aquí mismo, en la misma transacción.
		if err := uc.ensureReservations(ctx, r, vale); err != nil {
			return err
		}

		// Bodega de despacho: única si todas las reservas salen de la misma.
		warehouseID, err := dispatchWarehouse(ctx, r, vale.ID)
		if err != nil {
			return err
		}

		saleNumber, err := r.Sales.NextSaleNumber(ctx)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrSequenceGeneration, err)
		}

		if err := uc.ledger.CommitInTx(ctx, r.LedgerRepos, vale.ID, vale.Number, input.CashierID); err != nil {
			return err
		}

		sale := &entity.Sale{
			ID:            uuid.New().String(),
			Number:        saleNumber,
			ValeID:        vale.ID,
			CashShiftID:   input.ShiftID,
			CashierID:     input.CashierID,
			CustomerID:    customerID,
			DocumentType:  documentType,
			WarehouseID:   warehouseID,
			Subtotal:      subtotal,
			Discount:      input.Discount,
			Tax:           tax,
			Total:         total,
			PaymentsTotal: total,
			CreatedAt:     now,
		}
		if err := r.Sales.Create(ctx, sale); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				// El constraint único sobre vale_id atajó una doble venta.
				return domain.ErrStaleLockConflict
			}
			return err
		}
		// El pago se persiste neto (el vuelto se devuelve al cliente, no entra a caja).
		payment := &entity.Payment{
			ID:        uuid.New().String(),
			SaleID:    sale.ID,
			Method:    input.PaymentMethod,
			Amount:    total,
			CreatedAt: now,
		}
		if err := r.Payments.Create(ctx, payment); err != nil {
			return err
		}

		if !entity.CanTransition(vale.State, entity.ValeStateCompleted) {
			return &domain.InvalidTransitionError{From: vale.State, To: entity.ValeStateCompleted}
		}
		vale.State = entity.ValeStateCompleted
		vale.ProcessingBy = nil
		vale.ReservationExpiresAt = nil
		vale.CustomerID = customerID
		vale.DocumentType = documentType
		vale.Discount = input.Discount
		vale.Total = total
		vale.Subtotal = subtotal
		vale.UpdatedAt = now
		if err := r.Vales.Update(ctx, vale); err != nil {
			return err
		}

		result = &FinalizeValeResult{
			SaleNumber: saleNumber,
			Subtotal:   subtotal,
			Discount:   input.Discount,
			Tax:        tax,
			Total:      total,
			Change:     ChangeFor(input.AmountPaid, total),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.notifier.Publish(ctx, EventValeFinalized, map[string]any{
		"number":      input.Number,
		"sale_number": result.SaleNumber,
		"total":       result.Total,
	})
	return result, nil
}

// resolveCustomer entrega el cliente de la venta. La factura exige RUT y razón
// social: cliente existente con datos completos, o creación con los datos recibidos.
func (uc *FinalizeValeUseCase) resolveCustomer(ctx context.Context, r TxRepos, vale *entity.Vale, documentType string, input FinalizeValeInput) (*string, error) {
	customerID := vale.CustomerID
	if input.CustomerID != nil {
		customerID = input.CustomerID
	}

	var customer *entity.Customer
	var err error
	switch {
	case customerID != nil:
		customer, err = r.Customers.GetByID(ctx, *customerID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	case input.CustomerRUT != "":
		customer, err = r.Customers.GetByRUT(ctx, input.CustomerRUT)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	if customer == nil && input.CustomerRUT != "" && input.CustomerLegalName != "" {
		customer = &entity.Customer{
			ID:        uuid.New().String(),
			Name:      input.CustomerLegalName,
			RUT:       input.CustomerRUT,
			LegalName: input.CustomerLegalName,
			Email:     input.CustomerEmail,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := r.Customers.Create(ctx, customer); err != nil {
			return nil, err
		}
	}

	if documentType == entity.DocumentFactura && !customer.CanInvoice() {
		return nil, domain.ErrMissingCustomerData
	}
	if customer == nil {
		return nil, nil
	}
	return &customer.ID, nil
}

// ensureReservations reserva las cantidades de líneas sin cobertura activa (vale sin
// reserva inicial, o reserva vencida que el barrido ya liberó).
func (uc *FinalizeValeUseCase) ensureReservations(ctx context.Context, r TxRepos, vale *entity.Vale) error {
	active, err := r.Reservations.ListActiveByVale(ctx, vale.ID)
	if err != nil {
		return err
	}
	covered := make(map[string]decimal.Decimal, len(active))
	for _, res := range active {
		covered[res.LineID] = covered[res.LineID].Add(res.Quantity)
	}
	for _, line := range vale.Lines {
		missing := line.Quantity.Sub(covered[line.ID])
		if !missing.GreaterThan(decimal.Zero) {
			continue
		}
		preferred := ""
		if line.WarehouseID != nil {
			preferred = *line.WarehouseID
		}
		policy, err := buildAllocationPolicy(ctx, uc.settings, preferred)
		if err != nil {
			return err
		}
		if _, err := uc.ledger.ReserveInTx(ctx, r.LedgerRepos, vale.ID, line.ID, line.VariantID, missing, policy); err != nil {
			return err
		}
	}
	return nil
}

// dispatchWarehouse devuelve la bodega de despacho cuando todas las reservas activas
// del vale salen de la misma; con reparto multi-bodega queda sin asignar.
func dispatchWarehouse(ctx context.Context, r TxRepos, valeID string) (*string, error) {
	active, err := r.Reservations.ListActiveByVale(ctx, valeID)
	if err != nil {
		return nil, err
	}
	var warehouseID string
	for _, res := range active {
		if warehouseID == "" {
			warehouseID = res.WarehouseID
			continue
		}
		if warehouseID != res.WarehouseID {
			return nil, nil
		}
	}
	if warehouseID == "" {
		return nil, nil
	}
	return &warehouseID, nil
}
