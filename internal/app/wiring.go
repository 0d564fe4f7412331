package app

import (
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sellerdesk/sellerdesk/internal/auth"
	"github.com/sellerdesk/sellerdesk/internal/dashboard"
	"github.com/sellerdesk/sellerdesk/internal/integrations"
	jobmetrics "github.com/sellerdesk/sellerdesk/internal/jobs"
	"github.com/sellerdesk/sellerdesk/internal/orders"
	"github.com/sellerdesk/sellerdesk/internal/pricing"
	"github.com/sellerdesk/sellerdesk/internal/products"
	"github.com/sellerdesk/sellerdesk/internal/syncer"
)

// Stores groups the repositories behind every service.
type Stores struct {
	Users        auth.Repository
	Orders       orders.Repository
	Products     products.Repository
	Integrations integrations.Repository
}

// PostgresStores returns pgx-backed repositories.
func PostgresStores(pool *pgxpool.Pool) Stores {
	return Stores{
		Users:        auth.NewRepository(pool),
		Orders:       orders.NewRepository(pool),
		Products:     products.NewRepository(pool),
		Integrations: integrations.NewRepository(pool),
	}
}

// MemoryStores returns in-process repositories for STORAGE=memory.
func MemoryStores() Stores {
	return Stores{
		Users:        auth.NewMemoryRepository(),
		Orders:       orders.NewMemoryRepository(),
		Products:     products.NewMemoryRepository(),
		Integrations: integrations.NewMemoryRepository(),
	}
}

// Services holds the domain services shared by the API and the worker.
type Services struct {
	Tokens       *auth.Tokens
	Auth         *auth.Service
	Orders       *orders.Service
	Products     *products.Service
	Integrations *integrations.Service
	Sync         *syncer.Engine
	Dashboard    *dashboard.Service
}

// ServiceDeps collects what NewServices needs beyond configuration.
type ServiceDeps struct {
	Stores     Stores
	Remote     syncer.Remote
	Cache      dashboard.Cache
	JobMetrics *jobmetrics.Metrics
	Logger     *slog.Logger
}

// NewServices wires the domain services from configuration.
func NewServices(cfg *Config, deps ServiceDeps) *Services {
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL)
	integrationService := integrations.NewService(deps.Stores.Integrations)

	engine := syncer.NewEngine(syncer.Dependencies{
		Remote:      deps.Remote,
		Credentials: integrationService,
		Orders:      deps.Stores.Orders,
		Products:    deps.Stores.Products,
		Logger:      deps.Logger,
		Metrics:     deps.JobMetrics,
	}, syncer.Config{
		PageSize:    cfg.SyncPageSize,
		Concurrency: cfg.SyncConcurrency,
		PageTimeout: cfg.MarketplaceTimeout + 10*time.Second,
	})

	aggregator := dashboard.NewAggregator(pricing.NewCalculator(cfg.Pricing()), cfg.Location(), cfg.LowStockThreshold)
	dashboardService := dashboard.NewService(dashboard.Dependencies{
		Remote:      deps.Remote,
		Credentials: integrationService,
		Orders:      deps.Stores.Orders,
		Products:    deps.Stores.Products,
		Cache:       deps.Cache,
		Aggregator:  aggregator,
		Logger:      deps.Logger,
		PageSize:    cfg.SyncPageSize,
	})

	return &Services{
		Tokens:       tokens,
		Auth:         auth.NewService(deps.Stores.Users, tokens),
		Orders:       orders.NewService(deps.Stores.Orders),
		Products:     products.NewService(deps.Stores.Products),
		Integrations: integrationService,
		Sync:         engine,
		Dashboard:    dashboardService,
	}
}
