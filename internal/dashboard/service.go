package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sellerdesk/sellerdesk/internal/marketplace"
	"github.com/sellerdesk/sellerdesk/internal/orders"
	"github.com/sellerdesk/sellerdesk/internal/products"
	"github.com/sellerdesk/sellerdesk/internal/syncer"
)

// OrderReader lists mirrored orders.
type OrderReader interface {
	ListByUser(ctx context.Context, userID string) ([]orders.Order, error)
}

// ProductReader lists mirrored products and cost settings.
type ProductReader interface {
	ListByUser(ctx context.Context, userID string) ([]products.Product, error)
	ListSettings(ctx context.Context, userID string) ([]products.Setting, error)
}

// Dependencies collects the collaborators of a Service.
type Dependencies struct {
	Remote      syncer.Remote
	Credentials syncer.CredentialSource
	Orders      OrderReader
	Products    ProductReader
	Cache       Cache
	Aggregator  *Aggregator
	Logger      *slog.Logger
	PageSize    int
}

// Service serves dashboard statistics.
type Service struct {
	deps Dependencies
	now  func() time.Time
}

// NewService constructs a Service.
func NewService(deps Dependencies) *Service {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.PageSize <= 0 {
		deps.PageSize = 200
	}
	return &Service{deps: deps, now: time.Now}
}

// GetStats returns the cached aggregate when fresh. Otherwise it aggregates
// live marketplace data, falling back to local storage when the seller has
// no integration or the live read is incomplete.
func (s *Service) GetStats(ctx context.Context, userID string) (Stats, error) {
	if s.deps.Cache != nil {
		if stats, ok := s.deps.Cache.Get(ctx, userID); ok {
			return stats, nil
		}
	}

	data, source, err := s.load(ctx, userID)
	if err != nil {
		return Stats{}, err
	}
	settings, err := s.deps.Products.ListSettings(ctx, userID)
	if err != nil {
		return Stats{}, fmt.Errorf("dashboard: load settings: %w", err)
	}
	data.Settings = settings

	stats := s.deps.Aggregator.Aggregate(data, s.now(), source)
	if s.deps.Cache != nil {
		s.deps.Cache.Set(ctx, userID, stats)
	}
	return stats, nil
}

func (s *Service) load(ctx context.Context, userID string) (Dataset, Source, error) {
	logger := s.deps.Logger.With(slog.String("user", userID))
	if s.deps.Remote != nil && s.deps.Credentials != nil {
		creds, err := s.deps.Credentials.Credentials(ctx, userID)
		switch {
		case err == nil:
			data, lerr := s.loadLive(ctx, userID, creds)
			if lerr == nil {
				return data, SourceLive, nil
			}
			logger.Warn("dashboard live read failed, using local data", slog.Any("error", lerr))
		case errors.Is(err, marketplace.ErrNotConfigured):
		default:
			logger.Warn("dashboard credentials lookup failed", slog.Any("error", err))
		}
	}

	data, err := s.loadLocal(ctx, userID)
	if err != nil {
		return Dataset{}, "", err
	}
	return data, SourceLocal, nil
}

func (s *Service) loadLive(ctx context.Context, userID string, creds marketplace.Credentials) (Dataset, error) {
	var (
		mu   sync.Mutex
		data Dataset
	)
	now := s.now()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var list []orders.Order
		walk := marketplace.WalkPages(gctx, s.deps.PageSize, 0,
			func(ctx context.Context, page, size int) (marketplace.Page[marketplace.Order], error) {
				return s.deps.Remote.Orders(ctx, creds, marketplace.PageQuery{Page: page, Size: size})
			},
			func(_ int, items []marketplace.Order) error {
				for _, item := range items {
					o, err := syncer.MapOrder(userID, item, now)
					if err != nil {
						continue
					}
					list = append(list, o)
				}
				return nil
			})
		if !walk.Complete {
			return incomplete("orders", walk)
		}
		mu.Lock()
		data.Orders = list
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		var list []products.Product
		walk := marketplace.WalkPages(gctx, s.deps.PageSize, 0,
			func(ctx context.Context, page, size int) (marketplace.Page[marketplace.Product], error) {
				return s.deps.Remote.Products(ctx, creds, marketplace.PageQuery{Page: page, Size: size})
			},
			func(_ int, items []marketplace.Product) error {
				for _, item := range items {
					p, err := syncer.MapProduct(userID, item, now)
					if err != nil {
						continue
					}
					list = append(list, p)
				}
				return nil
			})
		if !walk.Complete {
			return incomplete("products", walk)
		}
		mu.Lock()
		data.Products = list
		mu.Unlock()
		return nil
	})
	if err := g.Wait(); err != nil {
		return Dataset{}, err
	}
	return data, nil
}

func incomplete(kind string, w marketplace.Walk) error {
	if w.Err != nil {
		return fmt.Errorf("dashboard: live %s after %d pages: %w", kind, w.Pages, w.Err)
	}
	return fmt.Errorf("dashboard: live %s truncated after %d pages", kind, w.Pages)
}

func (s *Service) loadLocal(ctx context.Context, userID string) (Dataset, error) {
	orderList, err := s.deps.Orders.ListByUser(ctx, userID)
	if err != nil {
		return Dataset{}, fmt.Errorf("dashboard: load orders: %w", err)
	}
	productList, err := s.deps.Products.ListByUser(ctx, userID)
	if err != nil {
		return Dataset{}, fmt.Errorf("dashboard: load products: %w", err)
	}
	return Dataset{Orders: orderList, Products: productList}, nil
}
