package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/crismard/ventapos-api/internal/application/inventory"
	"github.com/crismard/ventapos-api/internal/application/sales"
	"github.com/crismard/ventapos-api/internal/application/settings"
	"github.com/crismard/ventapos-api/internal/infrastructure/notify"
	"github.com/crismard/ventapos-api/internal/infrastructure/postgres"
	httpRouter "github.com/crismard/ventapos-api/internal/interfaces/http"
	"github.com/crismard/ventapos-api/pkg/config"
	"github.com/crismard/ventapos-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Service: "ventapos-api",
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repos de lectura sobre el pool; los de escritura van dentro del TxRunner.
	valeRepo := postgres.NewValeRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	variantRepo := postgres.NewVariantRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	stockRepo := postgres.NewWarehouseStockRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	shiftRepo := postgres.NewCashShiftRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	appConfigRepo := postgres.NewAppConfigRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	settingsProvider := settings.NewProvider(appConfigRepo, settings.DefaultTTL)
	ledger := inventory.NewLedger()

	// Notificador best-effort sobre Redis Pub/Sub (pantallas de caja / admin).
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	notifier := notify.NewRedisNotifier(rdb, cfg.Redis.NotifyChannel, log)

	createValeUC := sales.NewCreateValeUseCase(txRunner, ledger, variantRepo, settingsProvider, notifier)
	getValeUC := sales.NewGetValeUseCase(valeRepo, customerRepo)
	claimValeUC := sales.NewClaimValeUseCase(txRunner)
	finalizeValeUC := sales.NewFinalizeValeUseCase(txRunner, ledger, settingsProvider, notifier)
	releaseValeUC := sales.NewReleaseValeUseCase(txRunner)
	cancelValeUC := sales.NewCancelValeUseCase(txRunner, ledger, notifier)
	shiftUC := sales.NewShiftUseCase(shiftRepo, paymentRepo)
	adjustStockUC := inventory.NewAdjustStockUseCase(txRunner, variantRepo, warehouseRepo)
	stockQueryUC := inventory.NewStockQueryUseCase(stockRepo, movementRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "VentaPOS API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CreateVale:   createValeUC,
		GetVale:      getValeUC,
		ClaimVale:    claimValeUC,
		FinalizeVale: finalizeValeUC,
		ReleaseVale:  releaseValeUC,
		CancelVale:   cancelValeUC,
		ShiftUC:      shiftUC,
		AdjustStock:  adjustStockUC,
		StockQuery:   stockQueryUC,
		Settings:     settingsProvider,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
