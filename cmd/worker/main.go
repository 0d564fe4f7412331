package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/hibiken/asynq"

	"github.com/sellerdesk/sellerdesk/internal/app"
	jobmetrics "github.com/sellerdesk/sellerdesk/internal/jobs"
	"github.com/sellerdesk/sellerdesk/internal/marketplace"
	"github.com/sellerdesk/sellerdesk/internal/platform/db"
	"github.com/sellerdesk/sellerdesk/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)
	if cfg.Storage != "postgres" {
		logger.Error("worker requires STORAGE=postgres", slog.String("storage", cfg.Storage))
		os.Exit(1)
	}

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	client, err := jobs.NewClient(redisOpts)
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	services := app.NewServices(cfg, app.ServiceDeps{
		Stores:     app.PostgresStores(pool),
		Remote:     marketplace.NewClient(cfg.MarketplaceBaseURL, cfg.MarketplaceTimeout, logger),
		JobMetrics: jobmetrics.NewMetrics(nil),
		Logger:     logger,
	})
	syncJob := jobs.NewSyncJob(services.Sync, services.Integrations, client, logger)

	var cron []jobs.CronRegistration
	if cfg.SyncSchedule != "" {
		cron = append(cron, jobs.CronRegistration{Spec: cfg.SyncSchedule, Task: jobs.NewSyncAllTask()})
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   redisOpts,
		Logger:      logger,
		Concurrency: cfg.WorkerConcurrency,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskMarketplaceSync, Handler: syncJob.Handle},
			{Type: jobs.TaskMarketplaceSyncAll, Handler: syncJob.HandleAll},
		},
		Cron: cron,
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("starting worker", slog.Int("concurrency", cfg.WorkerConcurrency), slog.String("schedule", cfg.SyncSchedule))
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
