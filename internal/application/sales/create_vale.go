package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/crismard/ventapos-api/internal/application/inventory"
	"github.com/crismard/ventapos-api/internal/application/settings"
	"github.com/crismard/ventapos-api/internal/domain"
	"github.com/crismard/ventapos-api/internal/domain/entity"
	"github.com/crismard/ventapos-api/internal/domain/repository"
)

// CreateValeUseCase crea el vale del vendedor y, si corresponde, reserva el stock de
// cada línea en la misma transacción: o queda todo el vale reservado o nada.
type CreateValeUseCase struct {
	txRunner    TxRunner
	ledger      *inventory.Ledger
	variantRepo repository.VariantRepository
	settings    *settings.Provider
	notifier    Notifier
}

// NewCreateValeUseCase construye el caso de uso.
func NewCreateValeUseCase(
	txRunner TxRunner,
	ledger *inventory.Ledger,
	variantRepo repository.VariantRepository,
	cfg *settings.Provider,
	notifier Notifier,
) *CreateValeUseCase {
	return &CreateValeUseCase{
		txRunner:    txRunner,
		ledger:      ledger,
		variantRepo: variantRepo,
		settings:    cfg,
		notifier:    notifier,
	}
}

// CreateValeLineInput es una línea solicitada por el vendedor. UnitPrice en cero
// toma el precio de catálogo de la variante.
type CreateValeLineInput struct {
	VariantID       string
	PriceModalityID string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	PriceKind       string
	ApprovedBy      *string
}

// CreateValeInput entrada para crear un vale.
type CreateValeInput struct {
	SellerID             string
	DocumentType         string
	CustomerID           *string
	PreferredWarehouseID string
	SkipReservation      bool // true = vale queda pending, sin stock reservado
	Lines                []CreateValeLineInput
}

// CreateVale valida las líneas contra el catálogo, numera el vale con el consecutivo
// diario y reserva el stock según la política de asignación. Falla con
// InsufficientStockError si no alcanza el stock y la sobreventa no está habilitada.
func (uc *CreateValeUseCase) CreateVale(ctx context.Context, input CreateValeInput) (*entity.Vale, []*entity.StockReservation, error) {
	if input.SellerID == "" || len(input.Lines) == 0 {
		return nil, nil, domain.ErrInvalidInput
	}
	switch input.DocumentType {
	case entity.DocumentTicket, entity.DocumentBoleta, entity.DocumentFactura:
	default:
		return nil, nil, domain.ErrInvalidInput
	}

	now := time.Now()
	vale := &entity.Vale{
		ID:           uuid.New().String(),
		SellerID:     input.SellerID,
		CustomerID:   input.CustomerID,
		DocumentType: input.DocumentType,
		State:        entity.ValeStatePending,
		Discount:     decimal.Zero,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Validar líneas contra el catálogo (solo lectura, fuera de la tx).
	subtotal := decimal.Zero
	for _, in := range input.Lines {
		variant, err := uc.variantRepo.GetByID(ctx, in.VariantID)
		if err != nil || variant == nil {
			return nil, nil, domain.ErrNotFound
		}
		quantity := in.Quantity.Round(2)
		if !quantity.GreaterThan(decimal.Zero) {
			return nil, nil, domain.ErrInvalidInput
		}
		unitPrice := in.UnitPrice
		if unitPrice.IsZero() {
			unitPrice = variant.Price
		}
		if !unitPrice.GreaterThan(decimal.Zero) {
			return nil, nil, domain.ErrInvalidInput
		}
		priceKind := in.PriceKind
		if priceKind == "" {
			priceKind = entity.PriceKindStandard
		}
		if priceKind == entity.PriceKindCustom && (in.ApprovedBy == nil || *in.ApprovedBy == "") {
			return nil, nil, domain.ErrInvalidInput
		}
		line := &entity.ValeLine{
			ID:              uuid.New().String(),
			ValeID:          vale.ID,
			VariantID:       in.VariantID,
			PriceModalityID: in.PriceModalityID,
			Quantity:        quantity,
			UnitPrice:       unitPrice,
			PriceKind:       priceKind,
			ApprovedBy:      in.ApprovedBy,
			Subtotal:        entity.LineSubtotal(quantity, unitPrice),
		}
		subtotal = subtotal.Add(line.Subtotal)
		vale.Lines = append(vale.Lines, line)
	}
	vale.Subtotal = subtotal
	vale.Total = subtotal

	// La política y la vigencia de reserva se resuelven una sola vez por vale.
	policy, err := buildAllocationPolicy(ctx, uc.settings, input.PreferredWarehouseID)
	if err != nil {
		return nil, nil, err
	}
	minutes, err := uc.settings.GetInt(ctx, entity.ConfigReservationMinutes, defaultReservationMinutes)
	if err != nil {
		return nil, nil, err
	}

	var reservations []*entity.StockReservation
	err = uc.txRunner.RunSales(ctx, func(r TxRepos) error {
		seq, err := r.Vales.NextDailySequence(ctx, now)
		if err != nil {
			return err
		}
		vale.DailySequence = seq
		vale.Number = FormatValeNumber(now, seq)

		if !input.SkipReservation {
			expires := now.Add(time.Duration(minutes) * time.Minute)
			vale.ReservationExpiresAt = &expires
			vale.State = entity.ValeStateVoucherPending
		}

		if err := r.Vales.Create(ctx, vale); err != nil {
			return err
		}
		for _, line := range vale.Lines {
			if !input.SkipReservation {
				splits, err := uc.ledger.ReserveInTx(ctx, r.LedgerRepos, vale.ID, line.ID, line.VariantID, line.Quantity, policy)
				if err != nil {
					return err
				}
				if len(splits) == 1 {
					line.WarehouseID = &splits[0].WarehouseID
				}
				reservations = append(reservations, splits...)
			}
			if err := r.Vales.CreateLine(ctx, line); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	uc.notifier.Publish(ctx, EventValeCreated, map[string]any{
		"number": vale.Number,
		"state":  vale.State,
		"total":  vale.Total,
	})
	return vale, reservations, nil
}
