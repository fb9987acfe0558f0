package sales

import (
	"context"
	"time"

	"github.com/crismard/ventapos-api/internal/application/inventory"
	"github.com/crismard/ventapos-api/internal/domain/entity"
)

// sweepBatchSize acota cuántos vales procesa cada corrida del barrido.
const sweepBatchSize = 100

// ExpireReservationsUseCase es el cuerpo del barrido de reservas vencidas: libera el
// stock de vales en voucher_pending cuya vigencia pasó y los regresa a pending. Si el
// cliente aparece después, finalize vuelve a reservar en el momento.
type ExpireReservationsUseCase struct {
	txRunner TxRunner
	ledger   *inventory.Ledger
}

// NewExpireReservationsUseCase construye el caso de uso.
func NewExpireReservationsUseCase(txRunner TxRunner, ledger *inventory.Ledger) *ExpireReservationsUseCase {
	return &ExpireReservationsUseCase{txRunner: txRunner, ledger: ledger}
}

// Sweep procesa un lote de vales con reserva vencida. Cada vale se revisa bajo su
// propio lock de fila y se relee el estado: si un cajero lo tomó entre el listado y
// el lock, el barrido lo deja en paz. Retorna cuántos vales liberó.
func (uc *ExpireReservationsUseCase) Sweep(ctx context.Context) (int, error) {
	now := time.Now()
	var numbers []string
	err := uc.txRunner.RunSales(ctx, func(r TxRepos) error {
		var err error
		numbers, err = r.Vales.ListExpiredReservations(ctx, now, sweepBatchSize)
		return err
	})
	if err != nil {
		return 0, err
	}

	released := 0
	for _, number := range numbers {
		err := uc.txRunner.RunSales(ctx, func(r TxRepos) error {
			vale, err := r.Vales.GetByNumberForUpdate(ctx, number)
			if err != nil {
				return err
			}
			if vale == nil || vale.State != entity.ValeStateVoucherPending || !vale.ReservationExpired(time.Now()) {
				return nil // lo tomaron o lo movieron entre el listado y el lock
			}
			if _, err := uc.ledger.ReleaseInTx(ctx, r.LedgerRepos, vale.ID); err != nil {
				return err
			}
			vale.State = entity.ValeStatePending
			vale.ReservationExpiresAt = nil
			vale.UpdatedAt = time.Now()
			if err := r.Vales.Update(ctx, vale); err != nil {
				return err
			}
			released++
			return nil
		})
		if err != nil {
			return released, err
		}
	}
	return released, nil
}
