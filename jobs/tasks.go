package jobs

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/sellerdesk/sellerdesk/internal/syncer"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskMarketplaceSync mirrors one kind of marketplace data for one seller.
	TaskMarketplaceSync = "marketplace:sync"
	// TaskMarketplaceSyncAll fans out TaskMarketplaceSync to every integrated seller.
	TaskMarketplaceSyncAll = "marketplace:sync_all"
)

// SyncPayload describes one queued sync run.
type SyncPayload struct {
	UserID string      `json:"userId"`
	Kind   syncer.Kind `json:"kind"`
}

// NewSyncTask constructs an Asynq task. Runs for the same seller and kind are
// deduplicated while one is still queued.
func NewSyncTask(payload SyncPayload) (*asynq.Task, error) {
	if payload.UserID == "" {
		return nil, fmt.Errorf("jobs: sync task without user")
	}
	if _, ok := syncer.ParseKind(string(payload.Kind)); !ok {
		return nil, fmt.Errorf("jobs: unknown sync kind %q", payload.Kind)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskMarketplaceSync, data,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(3),
		asynq.Timeout(15*time.Minute),
		asynq.Unique(10*time.Minute),
	), nil
}

// NewSyncAllTask constructs the scheduled fan-out task.
func NewSyncAllTask() *asynq.Task {
	return asynq.NewTask(TaskMarketplaceSyncAll, nil, asynq.Queue(QueueDefault), asynq.MaxRetry(0))
}
