// Package jobs ejecuta el trabajo en segundo plano sobre Asynq: el barrido de
// reservas vencidas que devuelve stock de vales abandonados.
package jobs

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"github.com/crismard/ventapos-api/internal/application/sales"
	"github.com/crismard/ventapos-api/pkg/logger"
)

const (
	// QueueDefault cola por defecto para trabajos en segundo plano.
	QueueDefault = "default"
	// TaskReservationSweep libera las reservas de stock vencidas.
	TaskReservationSweep = "reservations:sweep"
)

// ReservationSweepPayload metadatos de programación del barrido.
type ReservationSweepPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewReservationSweepTask construye la tarea de barrido de reservas.
func NewReservationSweepTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(ReservationSweepPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReservationSweep, body, asynq.Queue(QueueDefault)), nil
}

// NewReservationSweepHandler procesa TaskReservationSweep: libera las reservas de
// vales cuya vigencia venció y los deja en pending. Cada vale se procesa en su
// propia transacción, así un fallo puntual no detiene el barrido.
func NewReservationSweepHandler(uc *sales.ExpireReservationsUseCase, log *logger.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload ReservationSweepPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		released, err := uc.Sweep(ctx)
		if err != nil {
			log.Error().Err(err).Msg("jobs: barrido de reservas falló")
			return err
		}
		if released > 0 {
			log.Info().Int("vales", released).Msg("jobs: reservas vencidas liberadas")
		}
		return nil
	}
}
