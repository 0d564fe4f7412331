package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/sellerdesk/sellerdesk/internal/marketplace"
	"github.com/sellerdesk/sellerdesk/internal/syncer"
)

// SyncRunner executes one sync run.
type SyncRunner interface {
	Run(ctx context.Context, userID string, kind syncer.Kind) (syncer.Result, error)
}

// SellerLister enumerates sellers that have marketplace credentials.
type SellerLister interface {
	ListUserIDs(ctx context.Context) ([]string, error)
}

// TaskEnqueuer submits sync tasks.
type TaskEnqueuer interface {
	EnqueueSync(ctx context.Context, userID string, kind syncer.Kind) (string, error)
}

// SyncJob handles queued marketplace sync runs.
type SyncJob struct {
	Runner   SyncRunner
	Sellers  SellerLister
	Enqueuer TaskEnqueuer
	Logger   *slog.Logger
}

// NewSyncJob wires dependencies for the sync handlers.
func NewSyncJob(runner SyncRunner, sellers SellerLister, enqueuer TaskEnqueuer, logger *slog.Logger) *SyncJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &SyncJob{Runner: runner, Sellers: sellers, Enqueuer: enqueuer, Logger: logger}
}

// Handle processes TaskMarketplaceSync tasks. Credential problems are not
// retried; rate limiting and transient failures are.
func (j *SyncJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Runner == nil {
		return errors.New("sync job: handler not configured")
	}
	var payload SyncPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("sync job: decode payload: %v: %w", err, asynq.SkipRetry)
	}
	kind, ok := syncer.ParseKind(string(payload.Kind))
	if !ok || payload.UserID == "" {
		return fmt.Errorf("sync job: invalid payload: %w", asynq.SkipRetry)
	}

	res, err := j.Runner.Run(ctx, payload.UserID, kind)
	if err != nil {
		if errors.Is(err, marketplace.ErrUnauthorized) || errors.Is(err, marketplace.ErrNotConfigured) {
			j.Logger.Warn("sync job rejected", slog.String("user", payload.UserID), slog.Any("error", err))
			return fmt.Errorf("sync job: %v: %w", err, asynq.SkipRetry)
		}
		return err
	}
	if !res.Complete {
		return fmt.Errorf("sync job: %s for %s stopped after %d pages", kind, payload.UserID, res.Pages)
	}
	j.Logger.Info("sync job done",
		slog.String("user", payload.UserID), slog.String("kind", string(kind)),
		slog.Int("created", res.Created), slog.Int("updated", res.Updated))
	return nil
}

// HandleAll processes TaskMarketplaceSyncAll by enqueueing an order and a
// product sync for every integrated seller.
func (j *SyncJob) HandleAll(ctx context.Context, _ *asynq.Task) error {
	if j == nil || j.Sellers == nil || j.Enqueuer == nil {
		return errors.New("sync job: fan-out not configured")
	}
	users, err := j.Sellers.ListUserIDs(ctx)
	if err != nil {
		return err
	}
	var failed int
	for _, userID := range users {
		for _, kind := range []syncer.Kind{syncer.KindOrders, syncer.KindProducts} {
			if _, err := j.Enqueuer.EnqueueSync(ctx, userID, kind); err != nil && !errors.Is(err, asynq.ErrDuplicateTask) {
				failed++
				j.Logger.Warn("enqueue scheduled sync", slog.String("user", userID), slog.Any("error", err))
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("sync job: %d scheduled syncs not enqueued", failed)
	}
	return nil
}
