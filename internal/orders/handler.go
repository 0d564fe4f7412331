package orders

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/sellerdesk/sellerdesk/internal/platform/httpx"
	"github.com/sellerdesk/sellerdesk/internal/shared"
)

// Handler exposes order listing and maintenance endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers order routes on an authenticated router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/orders", h.list)
	r.Patch("/orders/{orderNumber}/status", h.updateStatus)
	r.Delete("/orders/{orderNumber}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, perPage := shared.PageParams(r)
	filter := ListFilter{Page: page, PerPage: perPage}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, ok := ParseStatus(raw)
		if !ok {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "unknown status "+raw)
			return
		}
		filter.Status = status
	}
	res, err := h.service.List(r.Context(), shared.UserIDFromContext(r.Context()), filter)
	if err != nil {
		h.logger.Error("list orders", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

type statusRequest struct {
	Status string `json:"status" validate:"required,max=64"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if err := httpx.Validate(h.validator, req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	number := strings.TrimSpace(chi.URLParam(r, "orderNumber"))
	order, err := h.service.UpdateStatus(r.Context(), shared.UserIDFromContext(r.Context()), number, req.Status)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, OrderView{Order: *order, Bucket: order.Bucket()})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	number := strings.TrimSpace(chi.URLParam(r, "orderNumber"))
	if err := h.service.Delete(r.Context(), shared.UserIDFromContext(r.Context()), number); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
