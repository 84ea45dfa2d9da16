package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/kardex-api/internal/application/documents"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/kardex-api/internal/interfaces/http"
	"github.com/jhoicas/kardex-api/pkg/config"
	"github.com/jhoicas/kardex-api/pkg/logger"
	"github.com/jhoicas/kardex-api/pkg/metrics"
)

// runMigrations aplica las migraciones goose al arrancar (driver database/sql de pgx).
func runMigrations(cfg config.DBConfig) error {
	sqlDB, err := goose.OpenDBWithDriver("pgx", cfg.ConnectionString())
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, cfg.Migrations)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if err := runMigrations(cfg.DB); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	log.Info().Msg("migraciones aplicadas")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	met := metrics.New()

	itemRepo := postgres.NewItemRepository(pool)
	packagingRepo := postgres.NewPackagingRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	requestRepo := postgres.NewStockRequestRepository(pool)
	transformationRepo := postgres.NewTransformationOrderRepository(pool)
	receiptRepo := postgres.NewPurchaseReceiptRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	normalizer := inventory.NewNormalizeUseCase(itemRepo, packagingRepo)
	orchestrator := inventory.NewOrchestrator(txRunner, normalizer, warehouseRepo, stockRepo, met, log)
	reports := inventory.NewReportUseCase(itemRepo, warehouseRepo, ledgerRepo, stockRepo)
	locations := inventory.NewLocationUseCase(txRunner, warehouseRepo)
	packagings := inventory.NewPackagingUseCase(itemRepo, packagingRepo)
	stockRequests := documents.NewStockRequestUseCase(txRunner, orchestrator, requestRepo, warehouseRepo, met)
	transformations := documents.NewTransformationUseCase(txRunner, orchestrator, transformationRepo, warehouseRepo, met)
	receipts := documents.NewReceiptUseCase(txRunner, orchestrator, receiptRepo, warehouseRepo, met)

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
		Title:    "Kardex API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	if cfg.Metrics.Enabled {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Orchestrator:    orchestrator,
		Normalizer:      normalizer,
		Reports:         reports,
		Locations:       locations,
		Packagings:      packagings,
		StockRequests:   stockRequests,
		Transformations: transformations,
		Receipts:        receipts,
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
