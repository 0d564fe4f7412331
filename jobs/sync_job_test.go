package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellerdesk/sellerdesk/internal/marketplace"
	"github.com/sellerdesk/sellerdesk/internal/shared"
	"github.com/sellerdesk/sellerdesk/internal/syncer"
)

type runnerFunc func(ctx context.Context, userID string, kind syncer.Kind) (syncer.Result, error)

func (f runnerFunc) Run(ctx context.Context, userID string, kind syncer.Kind) (syncer.Result, error) {
	return f(ctx, userID, kind)
}

type staticSellers []string

func (s staticSellers) ListUserIDs(context.Context) ([]string, error) { return s, nil }

type recordingEnqueuer struct {
	calls []SyncPayload
	err   func(userID string, kind syncer.Kind) error
}

func (r *recordingEnqueuer) EnqueueSync(_ context.Context, userID string, kind syncer.Kind) (string, error) {
	r.calls = append(r.calls, SyncPayload{UserID: userID, Kind: kind})
	if r.err != nil {
		if err := r.err(userID, kind); err != nil {
			return "", err
		}
	}
	return userID + ":" + string(kind), nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func syncTask(t *testing.T, userID string, kind syncer.Kind) *asynq.Task {
	t.Helper()
	task, err := NewSyncTask(SyncPayload{UserID: userID, Kind: kind})
	require.NoError(t, err)
	return task
}

func TestNewSyncTaskValidatesPayload(t *testing.T) {
	_, err := NewSyncTask(SyncPayload{Kind: syncer.KindOrders})
	require.Error(t, err)
	_, err = NewSyncTask(SyncPayload{UserID: "u1", Kind: "invoices"})
	require.Error(t, err)

	task := syncTask(t, "u1", syncer.KindProducts)
	assert.Equal(t, TaskMarketplaceSync, task.Type())
	var payload SyncPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, SyncPayload{UserID: "u1", Kind: syncer.KindProducts}, payload)
}

func TestSyncJobHandleRunsEngine(t *testing.T) {
	var gotUser string
	var gotKind syncer.Kind
	job := NewSyncJob(runnerFunc(func(_ context.Context, userID string, kind syncer.Kind) (syncer.Result, error) {
		gotUser, gotKind = userID, kind
		return syncer.Result{Kind: kind, Created: 2, Total: 2, Complete: true, Pages: 1}, nil
	}), nil, nil, discard())

	require.NoError(t, job.Handle(context.Background(), syncTask(t, "u1", syncer.KindOrders)))
	assert.Equal(t, "u1", gotUser)
	assert.Equal(t, syncer.KindOrders, gotKind)
}

func TestSyncJobHandleSkipsRetryOnCredentialErrors(t *testing.T) {
	for _, cause := range []error{marketplace.ErrUnauthorized, marketplace.ErrNotConfigured} {
		job := NewSyncJob(runnerFunc(func(context.Context, string, syncer.Kind) (syncer.Result, error) {
			return syncer.Result{}, cause
		}), nil, nil, discard())
		err := job.Handle(context.Background(), syncTask(t, "u1", syncer.KindOrders))
		require.Error(t, err)
		assert.ErrorIs(t, err, asynq.SkipRetry, "cause %v", cause)
	}
}

func TestSyncJobHandleRetriesRateLimit(t *testing.T) {
	job := NewSyncJob(runnerFunc(func(context.Context, string, syncer.Kind) (syncer.Result, error) {
		return syncer.Result{}, marketplace.ErrRateLimited
	}), nil, nil, discard())
	err := job.Handle(context.Background(), syncTask(t, "u1", syncer.KindProducts))
	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}

func TestSyncJobHandleIncompleteRunFails(t *testing.T) {
	job := NewSyncJob(runnerFunc(func(context.Context, string, syncer.Kind) (syncer.Result, error) {
		return syncer.Result{Total: 20, Pages: 2, Complete: false}, nil
	}), nil, nil, discard())
	err := job.Handle(context.Background(), syncTask(t, "u1", syncer.KindOrders))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stopped after 2 pages")
}

func TestSyncJobHandleRejectsBadPayload(t *testing.T) {
	job := NewSyncJob(runnerFunc(func(context.Context, string, syncer.Kind) (syncer.Result, error) {
		t.Fatal("runner must not be called")
		return syncer.Result{}, nil
	}), nil, nil, discard())

	for _, raw := range []string{`{`, `{"userId":"u1","kind":"invoices"}`, `{"kind":"orders"}`} {
		err := job.Handle(context.Background(), asynq.NewTask(TaskMarketplaceSync, []byte(raw)))
		assert.ErrorIs(t, err, asynq.SkipRetry, raw)
	}
}

func TestSyncJobHandleAllFansOut(t *testing.T) {
	enq := &recordingEnqueuer{err: func(userID string, kind syncer.Kind) error {
		if userID == "u2" && kind == syncer.KindOrders {
			return asynq.ErrDuplicateTask
		}
		return nil
	}}
	job := NewSyncJob(nil, staticSellers{"u1", "u2"}, enq, discard())

	require.NoError(t, job.HandleAll(context.Background(), NewSyncAllTask()))
	assert.Equal(t, []SyncPayload{
		{UserID: "u1", Kind: syncer.KindOrders},
		{UserID: "u1", Kind: syncer.KindProducts},
		{UserID: "u2", Kind: syncer.KindOrders},
		{UserID: "u2", Kind: syncer.KindProducts},
	}, enq.calls)
}

func TestSyncJobHandleAllReportsEnqueueFailures(t *testing.T) {
	enq := &recordingEnqueuer{err: func(string, syncer.Kind) error { return errors.New("redis down") }}
	job := NewSyncJob(nil, staticSellers{"u1"}, enq, discard())

	err := job.HandleAll(context.Background(), NewSyncAllTask())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 scheduled syncs")
}

func TestHealthWithoutInspector(t *testing.T) {
	r := chi.NewRouter()
	NewHandler(nil, discard()).MountRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"queue":"default","pending":0,"enabled":false}`, rec.Body.String())
}

func TestEnqueueErrorMarksDuplicates(t *testing.T) {
	err := enqueueError(fmt.Errorf("enqueue: %w", asynq.ErrDuplicateTask))
	assert.ErrorIs(t, err, shared.ErrDuplicate)
	assert.ErrorIs(t, err, asynq.ErrDuplicateTask)

	other := errors.New("redis down")
	assert.Equal(t, other, enqueueError(other))
}
