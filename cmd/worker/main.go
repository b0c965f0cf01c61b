package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/bodega-api/internal/application/alerts"
	"github.com/jhoicas/bodega-api/internal/application/purchasing"
	"github.com/jhoicas/bodega-api/internal/infrastructure/postgres"
	"github.com/jhoicas/bodega-api/internal/jobs"
	"github.com/jhoicas/bodega-api/pkg/config"
	"github.com/jhoicas/bodega-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Service: "worker"})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Sin Redis el worker no puede recibir ni programar tareas.
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = redisClient.Close()
		log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible")
	}
	_ = redisClient.Close()

	zl := log.Zerolog()
	orderRepo := postgres.NewPurchaseOrderRepository(pool)
	txRunner := postgres.NewTxRunner(pool)
	allocator := purchasing.NewSequenceAllocator(txRunner, nil, zl)
	orderUC := purchasing.NewOrderUseCase(txRunner, orderRepo, postgres.NewSupplierRepository(pool), allocator, cfg.Orders.StaleAfter, zl)
	alertUC := alerts.NewUseCase(
		postgres.NewAlertRepository(pool), orderRepo, postgres.NewRequestRepository(pool), postgres.NewProductRepository(pool),
		alerts.Config{OrderAfter: cfg.Alerts.OrderAfter, RequestAfter: cfg.Alerts.RequestAfter}, zl,
	)

	scanTask, err := jobs.NewAlertScanTask("cron")
	if err != nil {
		log.Fatal().Err(err).Msg("construir tarea de alertas")
	}
	sweepTask, err := jobs.NewOrderSweepTask(nil)
	if err != nil {
		log.Fatal().Err(err).Msg("construir tarea de barrido")
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB},
		Logger:    log.Component("worker"),
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskAlertScan, Handler: jobs.NewAlertScanJob(alertUC, zl).Handle},
			{Type: jobs.TaskOrderSweep, Handler: jobs.NewOrderSweepJob(orderUC, zl).Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.Alerts.ScanCron, Task: scanTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: cfg.Orders.SweepCron, Task: sweepTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("iniciar worker")
	}

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("worker finalizado")
		os.Exit(1)
	}
	log.Info().Msg("worker detenido")
}
