package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/crismard/ventapos-api/internal/domain"
	"github.com/crismard/ventapos-api/internal/domain/allocation"
	"github.com/crismard/ventapos-api/internal/domain/entity"
)

// Ledger es el motor de inventario: toda mutación de warehouse_stock pasa por sus
// tres operaciones (reserve/release/commit) más el ajuste manual, nunca por
// asignación directa de campos. Los métodos *InTx asumen que el caller ya abrió la
// transacción y pasan los repositorios atados a ella.
//
// reserve y release mueven cantidad entre available y reserved conservando la suma;
// solo commit reduce la cantidad física, y es el único que registra movimiento exit.
type Ledger struct{}

// NewLedger construye el motor de inventario.
func NewLedger() *Ledger {
	return &Ledger{}
}

// ReserveInTx asigna quantity de la variante entre bodegas punto de venta según la
// política, bloqueando las filas de stock candidatas (SELECT FOR UPDATE) para que la
// asignación sea estable frente a reservas concurrentes. Por cada porción asignada
// descuenta available, suma reserved y crea la fila de reserva.
//
// Retorna InsufficientStockError si no alcanza y la política no permite sobreventa.
func (l *Ledger) ReserveInTx(
	ctx context.Context,
	r LedgerRepos,
	valeID, lineID, variantID string,
	quantity decimal.Decimal,
	policy allocation.Policy,
) ([]*entity.StockReservation, error) {
	stocks, err := r.Stock.ListPointOfSaleForUpdate(ctx, variantID)
	if err != nil {
		return nil, fmt.Errorf("bloquear stock candidato: %w", err)
	}

	byWarehouse := make(map[string]*entity.WarehouseStock, len(stocks))
	candidates := make([]allocation.Candidate, 0, len(stocks))
	for _, s := range stocks {
		byWarehouse[s.WarehouseID] = s
		candidates = append(candidates, allocation.Candidate{
			WarehouseID: s.WarehouseID,
			Available:   s.Available,
		})
	}

	splits, err := allocation.Allocate(variantID, quantity, candidates, policy)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	reservations := make([]*entity.StockReservation, 0, len(splits))
	for _, split := range splits {
		stock, ok := byWarehouse[split.WarehouseID]
		if !ok {
			// Bodega de respaldo fuera de las candidatas (virtual): bloquear su fila aparte.
			stock, err = r.Stock.GetForUpdate(ctx, variantID, split.WarehouseID)
			if err != nil {
				return nil, fmt.Errorf("bloquear stock de respaldo: %w", err)
			}
			byWarehouse[split.WarehouseID] = stock
		}
		stock.Available = stock.Available.Sub(split.Quantity)
		stock.Reserved = stock.Reserved.Add(split.Quantity)
		stock.UpdatedAt = now
		if err := r.Stock.Upsert(ctx, stock); err != nil {
			return nil, err
		}

		res := &entity.StockReservation{
			ID:          uuid.New().String(),
			ValeID:      valeID,
			LineID:      lineID,
			VariantID:   variantID,
			WarehouseID: split.WarehouseID,
			Quantity:    split.Quantity,
			Oversold:    split.Oversold,
			Status:      entity.ReservationActive,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := r.Reservations.Create(ctx, res); err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}
	return reservations, nil
}

// ReleaseInTx devuelve a available todas las reservas activas del vale. Idempotente:
// las reservas ya liberadas o consumidas no aparecen como activas y liberar un vale
// sin reservas activas es un no-op. Retorna cuántas reservas se liberaron.
func (l *Ledger) ReleaseInTx(ctx context.Context, r LedgerRepos, valeID string) (int, error) {
	active, err := r.Reservations.ListActiveByVale(ctx, valeID)
	if err != nil {
		return 0, fmt.Errorf("listar reservas activas: %w", err)
	}
	released := 0
	now := time.Now()
	for _, res := range active {
		changed, err := r.Reservations.MarkReleased(ctx, res.ID)
		if err != nil {
			return released, err
		}
		if !changed {
			continue // otra tx la liberó o consumió primero
		}
		stock, err := r.Stock.GetForUpdate(ctx, res.VariantID, res.WarehouseID)
		if err != nil {
			return released, err
		}
		if stock.Reserved.LessThan(res.Quantity) {
			return released, fmt.Errorf("reserved (%s) menor que la reserva a liberar (%s) en bodega %s",
				stock.Reserved, res.Quantity, res.WarehouseID)
		}
		stock.Available = stock.Available.Add(res.Quantity)
		stock.Reserved = stock.Reserved.Sub(res.Quantity)
		stock.UpdatedAt = now
		if err := r.Stock.Upsert(ctx, stock); err != nil {
			return released, err
		}
		released++
	}
	return released, nil
}

// CommitInTx consume definitivamente todas las reservas activas del vale: descuenta
// reserved (la mercadería salió) y registra un movimiento exit por reserva. Si alguna
// reserva no puede consumirse (un ajuste externo dejó reserved corto), retorna error
// y el caller aborta la transacción completa: nunca se consumen líneas a medias.
func (l *Ledger) CommitInTx(ctx context.Context, r LedgerRepos, valeID, reference, actorID string) error {
	active, err := r.Reservations.ListActiveByVale(ctx, valeID)
	if err != nil {
		return fmt.Errorf("listar reservas activas: %w", err)
	}
	now := time.Now()
	for _, res := range active {
		changed, err := r.Reservations.MarkCommitted(ctx, res.ID)
		if err != nil {
			return err
		}
		if !changed {
			return fmt.Errorf("reserva %s ya no está activa: %w", res.ID, domain.ErrStaleLockConflict)
		}
		stock, err := r.Stock.GetForUpdate(ctx, res.VariantID, res.WarehouseID)
		if err != nil {
			return err
		}
		if stock.Reserved.LessThan(res.Quantity) {
			return &domain.InsufficientStockError{
				VariantID:   res.VariantID,
				WarehouseID: res.WarehouseID,
				Requested:   res.Quantity,
				Available:   stock.Reserved,
			}
		}
		before := stock.Total()
		stock.Reserved = stock.Reserved.Sub(res.Quantity)
		stock.UpdatedAt = now
		if err := r.Stock.Upsert(ctx, stock); err != nil {
			return err
		}
		mov := &entity.StockMovement{
			ID:             uuid.New().String(),
			VariantID:      res.VariantID,
			WarehouseID:    res.WarehouseID,
			Type:           entity.MovementTypeExit,
			Quantity:       res.Quantity.Neg(),
			QuantityBefore: before,
			QuantityAfter:  stock.Total(),
			Reference:      reference,
			Reason:         "venta",
			CreatedBy:      actorID,
			CreatedAt:      now,
		}
		if err := r.Movements.Create(ctx, mov); err != nil {
			return err
		}
	}
	return nil
}
