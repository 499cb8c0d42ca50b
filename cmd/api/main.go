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
	"github.com/tu-usuario/tienda-ops/internal/application/alerts"
	"github.com/tu-usuario/tienda-ops/internal/application/inventory"
	appmetrics "github.com/tu-usuario/tienda-ops/internal/application/metrics"
	"github.com/tu-usuario/tienda-ops/internal/infrastructure/mail"
	"github.com/tu-usuario/tienda-ops/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/tienda-ops/internal/interfaces/http"
	"github.com/tu-usuario/tienda-ops/pkg/config"
	"github.com/tu-usuario/tienda-ops/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	loc, err := cfg.App.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("zona horaria de la aplicación")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	orderRepo := postgres.NewOrderRepository(pool)
	variantRepo := postgres.NewVariantRepository(pool)
	recipientRepo := postgres.NewRecipientRepository(pool)
	txRunner := postgres.NewTxRunner(pool)
	notifier := mail.New(cfg.SMTP)

	seriesUC := appmetrics.NewTimeSeriesUseCase(orderRepo, loc, nil)
	snapshotUC := appmetrics.NewSnapshotUseCase(orderRepo, variantRepo, loc, nil)
	dashboardUC := appmetrics.NewDashboardUseCase(seriesUC, snapshotUC, log)
	alertsUC := alerts.NewUseCase(txRunner, recipientRepo, notifier, log, nil)
	adjustUC := inventory.NewAdjustStockUseCase(txRunner, alertsUC, log)

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
		Title:    "Tienda Ops API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Metrics:   httpRouter.NewMetricsHandler(seriesUC, snapshotUC),
		Dashboard: httpRouter.NewDashboardHandler(dashboardUC),
		Inventory: httpRouter.NewInventoryHandler(adjustUC, alertsUC),
		JWTSecret: cfg.JWT.Secret,
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
