package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/sellerdesk/sellerdesk/internal/app"
	"github.com/sellerdesk/sellerdesk/internal/auth"
	"github.com/sellerdesk/sellerdesk/internal/dashboard"
	"github.com/sellerdesk/sellerdesk/internal/integrations"
	jobmetrics "github.com/sellerdesk/sellerdesk/internal/jobs"
	"github.com/sellerdesk/sellerdesk/internal/marketplace"
	"github.com/sellerdesk/sellerdesk/internal/observability"
	"github.com/sellerdesk/sellerdesk/internal/orders"
	"github.com/sellerdesk/sellerdesk/internal/platform/cache"
	"github.com/sellerdesk/sellerdesk/internal/platform/db"
	"github.com/sellerdesk/sellerdesk/internal/products"
	"github.com/sellerdesk/sellerdesk/internal/syncer"
	"github.com/sellerdesk/sellerdesk/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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
	metrics := observability.NewMetrics()
	jobMetrics := jobmetrics.NewMetrics(metrics.Registerer())

	stores := app.MemoryStores()
	if cfg.Storage == "postgres" {
		pool, err := db.New(ctx, cfg.PGDSN)
		if err != nil {
			logger.Error("connect postgres", slog.Any("error", err))
			os.Exit(1)
		}
		defer pool.Close()
		if err := db.Migrate(ctx, pool); err != nil {
			logger.Error("migrate", slog.Any("error", err))
			os.Exit(1)
		}
		stores = app.PostgresStores(pool)
	} else {
		logger.Warn("using in-memory storage, data is lost on restart")
	}

	var redisClient *redis.Client
	if cfg.DashboardCacheBackend == "redis" || cfg.AsyncSync {
		redisClient, err = cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Error("connect redis", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	var statsCache dashboard.Cache = dashboard.NewMemoryCache(cfg.DashboardCacheTTL, time.Now)
	if cfg.DashboardCacheBackend == "redis" {
		statsCache = dashboard.NewRedisCache(redisClient, cfg.DashboardCacheTTL, logger)
	}

	services := app.NewServices(cfg, app.ServiceDeps{
		Stores:     stores,
		Remote:     marketplace.NewClient(cfg.MarketplaceBaseURL, cfg.MarketplaceTimeout, logger),
		Cache:      statsCache,
		JobMetrics: jobMetrics,
		Logger:     logger,
	})

	var enqueuer syncer.Enqueuer
	var inspector *asynq.Inspector
	if cfg.AsyncSync {
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
		enqueuer = client
		inspector = asynq.NewInspector(redisOpts)
		defer func() {
			if err := inspector.Close(); err != nil {
				logger.Warn("inspector close", slog.Any("error", err))
			}
		}()
	}

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		Tokens:             services.Tokens,
		AuthHandler:        auth.NewHandler(logger, services.Auth),
		DashboardHandler:   dashboard.NewHandler(logger, services.Dashboard),
		OrdersHandler:      orders.NewHandler(logger, services.Orders),
		SyncHandler:        syncer.NewHandler(logger, services.Sync, enqueuer),
		ProductsHandler:    products.NewHandler(logger, services.Products),
		IntegrationHandler: integrations.NewHandler(logger, services.Integrations),
		JobHandler:         jobs.NewHandler(inspector, logger),
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("storage", cfg.Storage))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
