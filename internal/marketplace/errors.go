package marketplace

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured indicates the seller has no usable credentials.
	ErrNotConfigured = errors.New("marketplace integration not configured")
	// ErrUnauthorized indicates the marketplace rejected the credentials.
	ErrUnauthorized = errors.New("marketplace rejected credentials")
	// ErrRateLimited indicates the marketplace throttled the request.
	ErrRateLimited = errors.New("marketplace rate limit exceeded")
)

// APIError is any other non-2xx marketplace response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("marketplace: unexpected status %d: %s", e.StatusCode, e.Body)
}

// IsFatal reports whether err must abort a whole run rather than a page.
func IsFatal(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrRateLimited) || errors.Is(err, ErrNotConfigured)
}
