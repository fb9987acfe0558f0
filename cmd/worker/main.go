package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/crismard/ventapos-api/internal/application/inventory"
	"github.com/crismard/ventapos-api/internal/application/sales"
	"github.com/crismard/ventapos-api/internal/infrastructure/jobs"
	"github.com/crismard/ventapos-api/internal/infrastructure/postgres"
	"github.com/crismard/ventapos-api/pkg/config"
	"github.com/crismard/ventapos-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Service: "ventapos-worker",
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
	})
	log.Info().Str("env", cfg.App.Env).Msg("iniciando worker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	txRunner := postgres.NewTxRunner(pool)
	ledger := inventory.NewLedger()
	expireUC := sales.NewExpireReservationsUseCase(txRunner, ledger)

	sweepTask, err := jobs.NewReservationSweepTask(time.Now())
	if err != nil {
		log.Fatal().Err(err).Msg("preparar tarea de barrido")
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		Logger: log,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskReservationSweep, Handler: jobs.NewReservationSweepHandler(expireUC, log)},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.Redis.SweepInterval, Task: sweepTask},
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("configurar worker")
	}

	if err := worker.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("worker finalizado con error")
	}
	log.Info().Msg("worker detenido")
}
