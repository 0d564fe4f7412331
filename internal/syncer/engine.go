// Package syncer mirrors marketplace orders and products into local storage.
package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	jobmetrics "github.com/sellerdesk/sellerdesk/internal/jobs"
	"github.com/sellerdesk/sellerdesk/internal/marketplace"
	"github.com/sellerdesk/sellerdesk/internal/orders"
	"github.com/sellerdesk/sellerdesk/internal/products"
)

// Kind names what a sync run mirrors.
type Kind string

const (
	KindOrders   Kind = "orders"
	KindProducts Kind = "products"
)

// ParseKind validates a kind received from a queue payload.
func ParseKind(s string) (Kind, bool) {
	switch k := Kind(s); k {
	case KindOrders, KindProducts:
		return k, true
	}
	return "", false
}

// Remote is the marketplace read surface the engine needs.
type Remote interface {
	Orders(ctx context.Context, creds marketplace.Credentials, q marketplace.PageQuery) (marketplace.Page[marketplace.Order], error)
	Products(ctx context.Context, creds marketplace.Credentials, q marketplace.PageQuery) (marketplace.Page[marketplace.Product], error)
}

// CredentialSource resolves a seller's marketplace credentials.
type CredentialSource interface {
	Credentials(ctx context.Context, userID string) (marketplace.Credentials, error)
}

// OrderStore upserts mirrored orders.
type OrderStore interface {
	Upsert(ctx context.Context, o orders.Order) (bool, error)
}

// ProductStore upserts mirrored products.
type ProductStore interface {
	Upsert(ctx context.Context, p products.Product) (bool, error)
}

// Config tunes pagination and fan-out.
type Config struct {
	PageSize    int
	Concurrency int
	MaxPages    int
	PageTimeout time.Duration
}

// Dependencies collects the collaborators of an Engine.
type Dependencies struct {
	Remote      Remote
	Credentials CredentialSource
	Orders      OrderStore
	Products    ProductStore
	Logger      *slog.Logger
	Metrics     *jobmetrics.Metrics
}

// Result summarises one sync run.
type Result struct {
	Kind       Kind      `json:"kind"`
	Created    int       `json:"created"`
	Updated    int       `json:"updated"`
	Total      int       `json:"total"`
	Errors     []string  `json:"errors"`
	Complete   bool      `json:"complete"`
	Pages      int       `json:"pages"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Engine pulls marketplace pages and upserts them record by record.
type Engine struct {
	deps Dependencies
	cfg  Config
	now  func() time.Time
}

// NewEngine constructs an Engine.
func NewEngine(deps Dependencies, cfg Config) *Engine {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 200
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 8
	}
	if cfg.PageTimeout <= 0 {
		cfg.PageTimeout = 30 * time.Second
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Engine{deps: deps, cfg: cfg, now: time.Now}
}

// Run dispatches to SyncOrders or SyncProducts.
func (e *Engine) Run(ctx context.Context, userID string, kind Kind) (Result, error) {
	switch kind {
	case KindOrders:
		return e.SyncOrders(ctx, userID)
	case KindProducts:
		return e.SyncProducts(ctx, userID)
	}
	return Result{}, fmt.Errorf("syncer: unknown kind %q", kind)
}

// SyncOrders mirrors every order page of the seller.
func (e *Engine) SyncOrders(ctx context.Context, userID string) (Result, error) {
	fetch := func(ctx context.Context, creds marketplace.Credentials, page, size int) (marketplace.Page[marketplace.Order], error) {
		return e.deps.Remote.Orders(ctx, creds, marketplace.PageQuery{
			Page: page, Size: size, OrderByField: "PackageLastModifiedDate", OrderByDirection: "DESC",
		})
	}
	store := func(ctx context.Context, in marketplace.Order, at time.Time) (bool, error) {
		o, err := MapOrder(userID, in, at)
		if err != nil {
			return false, err
		}
		return e.deps.Orders.Upsert(ctx, o)
	}
	return run(ctx, e, KindOrders, userID, fetch, store, func(o marketplace.Order) string { return o.OrderNumber })
}

// SyncProducts mirrors every product page of the seller.
func (e *Engine) SyncProducts(ctx context.Context, userID string) (Result, error) {
	fetch := func(ctx context.Context, creds marketplace.Credentials, page, size int) (marketplace.Page[marketplace.Product], error) {
		return e.deps.Remote.Products(ctx, creds, marketplace.PageQuery{Page: page, Size: size})
	}
	store := func(ctx context.Context, in marketplace.Product, at time.Time) (bool, error) {
		p, err := MapProduct(userID, in, at)
		if err != nil {
			return false, err
		}
		return e.deps.Products.Upsert(ctx, p)
	}
	return run(ctx, e, KindProducts, userID, fetch, store, func(p marketplace.Product) string {
		if p.Barcode != "" {
			return p.Barcode
		}
		return p.ID
	})
}

type pageFetcher[T any] func(ctx context.Context, creds marketplace.Credentials, page, size int) (marketplace.Page[T], error)

type recordStore[T any] func(ctx context.Context, item T, at time.Time) (bool, error)

func run[T any](ctx context.Context, e *Engine, kind Kind, userID string, fetch pageFetcher[T], store recordStore[T], label func(T) string) (Result, error) {
	tracker := e.deps.Metrics.Track("sync_" + string(kind))
	res := Result{Kind: kind, Errors: []string{}, StartedAt: e.now().UTC()}
	logger := e.deps.Logger.With(slog.String("user", userID), slog.String("kind", string(kind)))

	creds, err := e.deps.Credentials.Credentials(ctx, userID)
	if err != nil {
		res.Errors = append(res.Errors, err.Error())
		res.FinishedAt = e.now().UTC()
		return res, tracker.End(err)
	}

	var mu sync.Mutex
	walk := marketplace.WalkPages(ctx, e.cfg.PageSize, e.cfg.MaxPages,
		func(ctx context.Context, page, size int) (marketplace.Page[T], error) {
			pageCtx, cancel := context.WithTimeout(ctx, e.cfg.PageTimeout)
			defer cancel()
			return fetch(pageCtx, creds, page, size)
		},
		func(page int, items []T) error {
			syncedAt := e.now().UTC()
			g, gctx := errgroup.WithContext(ctx)
			g.SetLimit(e.cfg.Concurrency)
			for _, item := range items {
				item := item
				g.Go(func() error {
					created, err := store(gctx, item, syncedAt)
					mu.Lock()
					defer mu.Unlock()
					if err != nil {
						msg := fmt.Sprintf("%s %s: %v", kind, label(item), err)
						res.Errors = append(res.Errors, msg)
						logger.Warn("sync record failed", slog.Int("page", page), slog.Any("error", err))
						return nil
					}
					if created {
						res.Created++
					} else {
						res.Updated++
					}
					return nil
				})
			}
			return g.Wait()
		})

	res.Pages = walk.Pages
	res.Total = walk.Items
	res.Complete = walk.Complete && walk.Err == nil
	res.FinishedAt = e.now().UTC()

	failed := len(res.Errors)
	e.deps.Metrics.AddRecords(string(kind), "created", res.Created)
	e.deps.Metrics.AddRecords(string(kind), "updated", res.Updated)
	e.deps.Metrics.AddRecords(string(kind), "failed", failed)

	if walk.Err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("page %d: %v", walk.Pages, walk.Err))
		logger.Warn("sync stopped early", slog.Int("pages", walk.Pages), slog.Any("error", walk.Err))
		if marketplace.IsFatal(walk.Err) {
			return res, tracker.End(walk.Err)
		}
		_ = tracker.End(walk.Err)
		return res, nil
	}

	logger.Info("sync finished",
		slog.Int("created", res.Created), slog.Int("updated", res.Updated),
		slog.Int("errors", failed), slog.Int("pages", res.Pages))
	return res, tracker.End(nil)
}
