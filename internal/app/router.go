package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/sellerdesk/sellerdesk/internal/auth"
	"github.com/sellerdesk/sellerdesk/internal/dashboard"
	"github.com/sellerdesk/sellerdesk/internal/integrations"
	"github.com/sellerdesk/sellerdesk/internal/observability"
	"github.com/sellerdesk/sellerdesk/internal/orders"
	"github.com/sellerdesk/sellerdesk/internal/products"
	"github.com/sellerdesk/sellerdesk/internal/syncer"
	"github.com/sellerdesk/sellerdesk/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	Tokens             *auth.Tokens
	AuthHandler        *auth.Handler
	DashboardHandler   *dashboard.Handler
	OrdersHandler      *orders.Handler
	SyncHandler        *syncer.Handler
	ProductsHandler    *products.Handler
	IntegrationHandler *integrations.Handler
	JobHandler         *jobs.Handler
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router with API defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	if params.Config == nil || !params.Config.IsProduction() {
		r.Use(chimw.Logger)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/auth", params.AuthHandler.MountRoutes)
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	r.Group(func(r chi.Router) {
		r.Use(params.Tokens.Middleware)
		params.DashboardHandler.MountRoutes(r)
		// Sync routes share the /orders and /products prefixes with the
		// listing handlers, so both mount on the same group.
		params.OrdersHandler.MountRoutes(r)
		params.SyncHandler.MountRoutes(r)
		params.ProductsHandler.MountRoutes(r)
		params.IntegrationHandler.MountRoutes(r)
	})

	return r
}
