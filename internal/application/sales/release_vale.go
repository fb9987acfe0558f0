package sales

import (
	"context"
	"time"

	"github.com/crismard/ventapos-api/internal/domain"
	"github.com/crismard/ventapos-api/internal/domain/entity"
)

// ReleaseValeUseCase devuelve un vale tomado en caja a la cola:
// processing_at_register -> voucher_pending. La reserva de stock no se toca.
type ReleaseValeUseCase struct {
	txRunner TxRunner
}

// NewReleaseValeUseCase construye el caso de uso.
func NewReleaseValeUseCase(txRunner TxRunner) *ReleaseValeUseCase {
	return &ReleaseValeUseCase{txRunner: txRunner}
}

// Release libera el vale. Solo el cajero que lo tiene tomado puede soltarlo, salvo
// que el lock esté vencido (entonces cualquiera puede destrabarlo).
func (uc *ReleaseValeUseCase) Release(ctx context.Context, number, cashierID string) error {
	if number == "" || cashierID == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.RunSales(ctx, func(r TxRepos) error {
		vale, err := r.Vales.GetByNumberForUpdate(ctx, number)
		if err != nil {
			return err
		}
		if vale == nil {
			return domain.ErrValeNotFound
		}
		if vale.State != entity.ValeStateProcessing {
			return &domain.InvalidTransitionError{From: vale.State, To: entity.ValeStateVoucherPending}
		}
		now := time.Now()
		if vale.ProcessingBy != nil && *vale.ProcessingBy != cashierID && !vale.IsStaleLocked(now) {
			return domain.ErrStaleLockConflict
		}
		vale.State = entity.ValeStateVoucherPending
		vale.ProcessingBy = nil
		vale.UpdatedAt = now
		return r.Vales.Update(ctx, vale)
	})
}
