package syncer

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sellerdesk/sellerdesk/internal/platform/httpx"
	"github.com/sellerdesk/sellerdesk/internal/shared"
)

// Enqueuer hands a sync run to the background worker.
type Enqueuer interface {
	EnqueueSync(ctx context.Context, userID string, kind Kind) (string, error)
}

// Handler exposes the manual sync endpoints.
type Handler struct {
	logger   *slog.Logger
	engine   *Engine
	enqueuer Enqueuer
}

// NewHandler constructs a Handler. enqueuer may be nil, in which case every
// sync runs inline.
func NewHandler(logger *slog.Logger, engine *Engine, enqueuer Enqueuer) *Handler {
	return &Handler{logger: logger, engine: engine, enqueuer: enqueuer}
}

// MountRoutes registers sync routes on an authenticated router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/orders/sync", h.sync(KindOrders))
	r.Post("/products/sync", h.sync(KindProducts))
}

type enqueuedResponse struct {
	Kind          Kind   `json:"kind"`
	TaskID        string `json:"taskId,omitempty"`
	AlreadyQueued bool   `json:"alreadyQueued"`
}

func (h *Handler) sync(kind Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := shared.UserIDFromContext(r.Context())
		async, _ := strconv.ParseBool(r.URL.Query().Get("async"))
		if async && h.enqueuer != nil {
			id, err := h.enqueuer.EnqueueSync(r.Context(), userID, kind)
			if errors.Is(err, shared.ErrDuplicate) {
				httpx.JSON(w, http.StatusAccepted, enqueuedResponse{Kind: kind, AlreadyQueued: true})
				return
			}
			if err != nil {
				h.logger.Error("enqueue sync", slog.String("kind", string(kind)), slog.Any("error", err))
				httpx.RespondError(w, err)
				return
			}
			httpx.JSON(w, http.StatusAccepted, enqueuedResponse{Kind: kind, TaskID: id})
			return
		}

		res, err := h.engine.Run(r.Context(), userID, kind)
		if err != nil {
			h.logger.Warn("sync failed", slog.String("kind", string(kind)), slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, res)
	}
}
