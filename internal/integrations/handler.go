package integrations

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/sellerdesk/sellerdesk/internal/platform/httpx"
	"github.com/sellerdesk/sellerdesk/internal/shared"
)

// Handler exposes the integration settings endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers integration routes on an authenticated router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/settings/integration", h.get)
	r.Put("/settings/integration", h.save)
}

type integrationView struct {
	Configured  bool         `json:"configured"`
	Integration *Integration `json:"integration,omitempty"`
	SecretHint  string       `json:"secretHint,omitempty"`
}

func viewOf(in *Integration) integrationView {
	if in == nil {
		return integrationView{}
	}
	return integrationView{Configured: true, Integration: in, SecretHint: maskSecret(in.APISecret)}
}

func maskSecret(secret string) string {
	if len(secret) <= 4 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	in, err := h.service.Get(r.Context(), shared.UserIDFromContext(r.Context()))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.JSON(w, http.StatusOK, viewOf(nil))
			return
		}
		h.logger.Error("get integration", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, viewOf(in))
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request) {
	var req SaveInput
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if err := httpx.Validate(h.validator, req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	in, err := h.service.Save(r.Context(), shared.UserIDFromContext(r.Context()), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, viewOf(in))
}
