package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/crismard/ventapos-api/internal/domain"
	"github.com/crismard/ventapos-api/internal/domain/entity"
	"github.com/crismard/ventapos-api/internal/domain/repository"
)

// AdjustStockUseCase registra correcciones manuales y entradas de mercadería de forma
// transaccional, con bloqueo de fila (SELECT FOR UPDATE) y movimiento de auditoría.
type AdjustStockUseCase struct {
	txRunner      TxRunner
	variantRepo   repository.VariantRepository
	warehouseRepo repository.WarehouseRepository
}

// NewAdjustStockUseCase construye el caso de uso.
func NewAdjustStockUseCase(
	txRunner TxRunner,
	variantRepo repository.VariantRepository,
	warehouseRepo repository.WarehouseRepository,
) *AdjustStockUseCase {
	return &AdjustStockUseCase{
		txRunner:      txRunner,
		variantRepo:   variantRepo,
		warehouseRepo: warehouseRepo,
	}
}

// AdjustResult resume el ajuste aplicado para la respuesta al caller.
type AdjustResult struct {
	Previous   decimal.Decimal
	New        decimal.Decimal
	MovementID string
}

// Adjust fija available de la variante en la bodega a newQuantity (reserved no se
// toca: las reservas vigentes siguen contando) y registra un movimiento adjustment
// con la cantidad física antes y después. newQuantity no puede ser negativo.
func (uc *AdjustStockUseCase) Adjust(ctx context.Context, variantID, warehouseID string, newQuantity decimal.Decimal, reason, actorID string) (*AdjustResult, error) {
	if newQuantity.LessThan(decimal.Zero) || reason == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.validateTarget(ctx, variantID, warehouseID); err != nil {
		return nil, err
	}

	var result *AdjustResult
	err := uc.txRunner.Run(ctx, func(r LedgerRepos) error {
		stock, err := r.Stock.GetForUpdate(ctx, variantID, warehouseID)
		if err != nil {
			return err
		}
		before := stock.Total()
		delta := newQuantity.Sub(stock.Available)
		now := time.Now()
		stock.Available = newQuantity
		stock.UpdatedAt = now
		if err := r.Stock.Upsert(ctx, stock); err != nil {
			return err
		}
		mov := &entity.StockMovement{
			ID:             uuid.New().String(),
			VariantID:      variantID,
			WarehouseID:    warehouseID,
			Type:           entity.MovementTypeAdjustment,
			Quantity:       delta,
			QuantityBefore: before,
			QuantityAfter:  stock.Total(),
			Reason:         reason,
			CreatedBy:      actorID,
			CreatedAt:      now,
		}
		if err := r.Movements.Create(ctx, mov); err != nil {
			return err
		}
		result = &AdjustResult{Previous: before, New: stock.Total(), MovementID: mov.ID}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RegisterEntry suma mercadería recibida a available y registra un movimiento entry.
func (uc *AdjustStockUseCase) RegisterEntry(ctx context.Context, variantID, warehouseID string, quantity decimal.Decimal, reference, actorID string) error {
	if !quantity.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	if err := uc.validateTarget(ctx, variantID, warehouseID); err != nil {
		return err
	}

	return uc.txRunner.Run(ctx, func(r LedgerRepos) error {
		stock, err := r.Stock.GetForUpdate(ctx, variantID, warehouseID)
		if err != nil {
			return err
		}
		before := stock.Total()
		now := time.Now()
		stock.Available = stock.Available.Add(quantity)
		stock.UpdatedAt = now
		if err := r.Stock.Upsert(ctx, stock); err != nil {
			return err
		}
		mov := &entity.StockMovement{
			ID:             uuid.New().String(),
			VariantID:      variantID,
			WarehouseID:    warehouseID,
			Type:           entity.MovementTypeEntry,
			Quantity:       quantity,
			QuantityBefore: before,
			QuantityAfter:  stock.Total(),
			Reference:      reference,
			Reason:         "recepción de mercadería",
			CreatedBy:      actorID,
			CreatedAt:      now,
		}
		return r.Movements.Create(ctx, mov)
	})
}

func (uc *AdjustStockUseCase) validateTarget(ctx context.Context, variantID, warehouseID string) error {
	variant, err := uc.variantRepo.GetByID(ctx, variantID)
	if err != nil || variant == nil {
		return domain.ErrNotFound
	}
	wh, err := uc.warehouseRepo.GetByID(ctx, warehouseID)
	if err != nil || wh == nil {
		return domain.ErrNotFound
	}
	return nil
}
