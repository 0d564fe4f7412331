// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"

	"github.com/sellerdesk/sellerdesk/internal/marketplace"
	"github.com/sellerdesk/sellerdesk/internal/shared"
)

// ErrUnauthorized marks requests without a valid bearer token.
var ErrUnauthorized = errors.New("unauthorized")

// RespondError maps domain errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrDuplicate):
		Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, shared.ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, shared.ErrInvalidCredentials), errors.Is(err, ErrUnauthorized):
		Problem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	case errors.Is(err, marketplace.ErrNotConfigured):
		Problem(w, http.StatusPreconditionFailed, "Marketplace Not Configured", err.Error())
	case errors.Is(err, marketplace.ErrUnauthorized):
		Problem(w, http.StatusUnprocessableEntity, "Marketplace Credentials Rejected", err.Error())
	case errors.Is(err, marketplace.ErrRateLimited):
		Problem(w, http.StatusTooManyRequests, "Marketplace Rate Limited", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
