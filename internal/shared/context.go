package shared

import "context"

type userContextKey struct{}

// ContextWithUserID stores the authenticated seller id in context.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userContextKey{}, userID)
}

// UserIDFromContext extracts the authenticated seller id; empty when absent.
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userContextKey{}).(string)
	return id
}
