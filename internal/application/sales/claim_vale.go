package sales

import (
	"context"
	"time"

	"github.com/crismard/ventapos-api/internal/domain"
	"github.com/crismard/ventapos-api/internal/domain/entity"
)

// ClaimValeUseCase toma un vale para caja: voucher_pending o pending (reserva barrida
// o nunca tomada) -> processing_at_register.
// Un vale abandonado en caja (más de StaleLockWindow sin actividad) puede retomarlo
// otro cajero; uno en proceso vigente produce StaleLockConflict.
type ClaimValeUseCase struct {
	txRunner TxRunner
}

// NewClaimValeUseCase construye el caso de uso.
func NewClaimValeUseCase(txRunner TxRunner) *ClaimValeUseCase {
	return &ClaimValeUseCase{txRunner: txRunner}
}

// Claim toma el vale para el cajero. El chequeo de abandono corre antes de tomar el
// lock de fila, para poder retomar un vale abandonado sin esperar indefinidamente a
// una transacción que nunca va a llegar; tras el lock se relee el estado y el que
// pierde la carrera recibe StaleLockConflict, nunca pérdida silenciosa.
func (uc *ClaimValeUseCase) Claim(ctx context.Context, number, cashierID string) (*entity.Vale, error) {
	if number == "" || cashierID == "" {
		return nil, domain.ErrInvalidInput
	}

	var vale *entity.Vale
	err := uc.txRunner.RunSales(ctx, func(r TxRepos) error {
		// Lectura previa sin lock: si otro cajero lo tiene tomado y no está vencido,
		// fallar rápido sin bloquearse detrás de su transacción.
		preview, err := r.Vales.GetByNumber(ctx, number)
		if err != nil {
			return err
		}
		if preview == nil {
			return domain.ErrValeNotFound
		}
		now := time.Now()
		if preview.State == entity.ValeStateProcessing && !preview.IsStaleLocked(now) {
			if preview.ProcessingBy == nil || *preview.ProcessingBy != cashierID {
				return domain.ErrStaleLockConflict
			}
		}

		vale, err = r.Vales.GetByNumberForUpdate(ctx, number)
		if err != nil {
			return err
		}
		if vale == nil {
			return domain.ErrValeNotFound
		}
		now = time.Now()
		switch vale.State {
		case entity.ValeStateVoucherPending, entity.ValeStatePending:
			// caso normal; un vale pending (reserva barrida o nunca tomada) se toma
			// igual y el cierre repone la reserva en su transacción
		case entity.ValeStateProcessing:
			if vale.ProcessingBy != nil && *vale.ProcessingBy == cashierID {
				return nil // ya lo tiene este cajero
			}
			if !vale.IsStaleLocked(now) {
				return domain.ErrStaleLockConflict
			}
			// Abandonado: se retoma. Ventana estrecha de doble procesamiento asumida;
			// el lock de fila en finalize sigue garantizando una sola venta.
		default:
			return &domain.InvalidTransitionError{From: vale.State, To: entity.ValeStateProcessing}
		}

		vale.State = entity.ValeStateProcessing
		vale.ProcessingBy = &cashierID
		vale.UpdatedAt = now
		return r.Vales.Update(ctx, vale)
	})
	if err != nil {
		return nil, err
	}
	return vale, nil
}
