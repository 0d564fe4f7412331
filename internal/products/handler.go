package products

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/sellerdesk/sellerdesk/internal/platform/httpx"
	"github.com/sellerdesk/sellerdesk/internal/shared"
)

// Handler exposes product listing and cost-setting endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers product routes on an authenticated router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/products", h.list)
	r.Get("/product-settings", h.listSettings)
	r.Post("/product-settings", h.saveSetting)
	r.Post("/update-product-costs", h.updateCosts)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, perPage := shared.PageParams(r)
	res, err := h.service.List(r.Context(), shared.UserIDFromContext(r.Context()), page, perPage)
	if err != nil {
		h.logger.Error("list products", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

func (h *Handler) listSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.Settings(r.Context(), shared.UserIDFromContext(r.Context()))
	if err != nil {
		h.logger.Error("list product settings", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"settings": settings})
}

func (h *Handler) saveSetting(w http.ResponseWriter, r *http.Request) {
	var req SettingInput
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if err := httpx.Validate(h.validator, req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	setting, err := h.service.SaveSetting(r.Context(), shared.UserIDFromContext(r.Context()), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, setting)
}

type costUpdateRequest struct {
	Items []CostUpdate `json:"items" validate:"required,min=1,max=5000,dive"`
}

func (h *Handler) updateCosts(w http.ResponseWriter, r *http.Request) {
	var req costUpdateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if err := httpx.Validate(h.validator, req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	userID := shared.UserIDFromContext(r.Context())
	res, err := h.service.UpdateCosts(r.Context(), userID, req.Items)
	if err != nil {
		h.logger.Warn("update product costs", slog.String("user", userID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}
