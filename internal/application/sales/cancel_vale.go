package sales

import (
	"context"
	"time"

	"github.com/crismard/ventapos-api/internal/application/inventory"
	"github.com/crismard/ventapos-api/internal/domain"
	"github.com/crismard/ventapos-api/internal/domain/entity"
)

// CancelValeUseCase anula un vale no terminal. La reserva vigente se libera dentro
// de la misma transacción que hace la transición: no queda limpieza asíncrona
// pendiente en este camino.
type CancelValeUseCase struct {
	txRunner TxRunner
	ledger   *inventory.Ledger
	notifier Notifier
}

// NewCancelValeUseCase construye el caso de uso.
func NewCancelValeUseCase(txRunner TxRunner, ledger *inventory.Ledger, notifier Notifier) *CancelValeUseCase {
	return &CancelValeUseCase{txRunner: txRunner, ledger: ledger, notifier: notifier}
}

// Cancel anula el vale con el motivo indicado. Un vale tomado y vigente por otro
// cajero no puede anularse por debajo (StaleLockConflict); uno terminal tampoco.
func (uc *CancelValeUseCase) Cancel(ctx context.Context, number, reason, actorID string) error {
	if number == "" || reason == "" {
		return domain.ErrInvalidInput
	}
	err := uc.txRunner.RunSales(ctx, func(r TxRepos) error {
		vale, err := r.Vales.GetByNumberForUpdate(ctx, number)
		if err != nil {
			return err
		}
		if vale == nil {
			return domain.ErrValeNotFound
		}
		if entity.IsTerminalState(vale.State) {
			return &domain.InvalidTransitionError{From: vale.State, To: entity.ValeStateCancelled}
		}
		now := time.Now()
		if vale.State == entity.ValeStateProcessing && !vale.IsStaleLocked(now) &&
			vale.ProcessingBy != nil && *vale.ProcessingBy != actorID {
			return domain.ErrStaleLockConflict
		}

		// Liberar la reserva antes de que la transición quede en firme (misma tx).
		if _, err := uc.ledger.ReleaseInTx(ctx, r.LedgerRepos, vale.ID); err != nil {
			return err
		}

		vale.State = entity.ValeStateCancelled
		vale.CancelReason = reason
		vale.ProcessingBy = nil
		vale.ReservationExpiresAt = nil
		vale.UpdatedAt = now
		return r.Vales.Update(ctx, vale)
	})
	if err != nil {
		return err
	}
	uc.notifier.Publish(ctx, EventValeCancelled, map[string]any{"number": number, "reason": reason})
	return nil
}
