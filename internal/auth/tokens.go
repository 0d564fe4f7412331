package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/jwtauth/v5"

	"github.com/sellerdesk/sellerdesk/internal/platform/httpx"
	"github.com/sellerdesk/sellerdesk/internal/shared"
)

// Tokens issues and verifies HS256 bearer tokens.
type Tokens struct {
	ja  *jwtauth.JWTAuth
	ttl time.Duration
	now func() time.Time
}

// NewTokens constructs a Tokens signer.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{ja: jwtauth.New("HS256", []byte(secret), nil), ttl: ttl, now: time.Now}
}

// Issue signs a token whose subject is the user id.
func (t *Tokens) Issue(userID string) (string, time.Time, error) {
	now := t.now()
	expires := now.Add(t.ttl)
	claims := map[string]interface{}{
		"sub": userID,
		"iat": now.Unix(),
		"exp": expires.Unix(),
	}
	_, signed, err := t.ja.Encode(claims)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, time.Unix(expires.Unix(), 0).UTC(), nil
}

// Verify checks signature and expiry and returns the subject.
func (t *Tokens) Verify(raw string) (string, error) {
	token, err := jwtauth.VerifyToken(t.ja, raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", httpx.ErrUnauthorized, err)
	}
	if token.Subject() == "" {
		return "", fmt.Errorf("%w: token without subject", httpx.ErrUnauthorized)
	}
	return token.Subject(), nil
}

// Middleware rejects requests without a valid bearer token and stores the
// caller's user id in the request context.
func (t *Tokens) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := jwtauth.TokenFromHeader(r)
		if raw == "" {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
			return
		}
		userID, err := t.Verify(raw)
		if err != nil {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid or expired token")
			return
		}
		next.ServeHTTP(w, r.WithContext(shared.ContextWithUserID(r.Context(), userID)))
	})
}
