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
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/bodega-api/internal/application/alerts"
	appanalytics "github.com/jhoicas/bodega-api/internal/application/analytics"
	"github.com/jhoicas/bodega-api/internal/application/inventory"
	"github.com/jhoicas/bodega-api/internal/application/purchasing"
	"github.com/jhoicas/bodega-api/internal/application/usecase"
	"github.com/jhoicas/bodega-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/bodega-api/internal/interfaces/http"
	"github.com/jhoicas/bodega-api/internal/jobs"
	"github.com/jhoicas/bodega-api/pkg/config"
	"github.com/jhoicas/bodega-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: "api",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(cfg.DB.ConnectionString(), log.Component("migrate")); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	zl := log.Zerolog()
	productRepo := postgres.NewProductRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	orderRepo := postgres.NewPurchaseOrderRepository(pool)
	requestRepo := postgres.NewRequestRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	alertRepo := postgres.NewAlertRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	allocator := purchasing.NewSequenceAllocator(txRunner, nil, zl)
	orderUC := purchasing.NewOrderUseCase(txRunner, orderRepo, supplierRepo, allocator, cfg.Orders.StaleAfter, zl)
	requestUC := purchasing.NewRequestUseCase(txRunner, requestRepo, allocator, zl)
	movementUC := inventory.NewMovementUseCase(txRunner, movementRepo, zl,
		inventory.WithNegativeStock(cfg.Inventory.AllowNegativeStock))
	alertUC := alerts.NewUseCase(alertRepo, orderRepo, requestRepo, productRepo, alerts.Config{
		OrderAfter:   cfg.Alerts.OrderAfter,
		RequestAfter: cfg.Alerts.RequestAfter,
	}, zl)

	deps := httpRouter.RouterDeps{
		ProductUC:   usecase.NewProductUseCase(productRepo),
		SupplierUC:  usecase.NewSupplierUseCase(supplierRepo),
		MachineryUC: usecase.NewMachineryUseCase(postgres.NewMachineryRepository(pool)),
		OrderUC:     orderUC,
		RequestUC:   requestUC,
		Allocator:   allocator,
		MovementUC:  movementUC,
		AlertUC:     alertUC,
		DashboardUC: appanalytics.NewDashboardUseCase(analyticsRepo),
		JWTSecret:   cfg.JWT.Secret,
	}

	// Cola de trabajos opcional: sin Redis la revisión de alertas corre en la petición.
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	pingCtx, cancelPing := context.WithTimeout(ctx, 2*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, revisión de alertas síncrona")
	} else {
		jobClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer jobClient.Close()
		deps.AlertQueue = jobClient
	}
	cancelPing()
	_ = redisClient.Close()

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
		Title:    "Bodega API",
	}))

	httpRouter.Router(app, deps)

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
