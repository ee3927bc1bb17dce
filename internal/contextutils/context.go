// file: internal/contextutils/context.go

// Package contextutils holds the request-scoped values shared between
// middleware and handlers: the request ID and the authenticated user ID.
// Unexported key types keep other packages from colliding with them.
package contextutils

import "context"

type requestIDKey struct{}
type userIDKey struct{}

// WithRequestID stores the request ID for downstream loggers and responses.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// GetRequestID returns the request ID, or "" when none was attached.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// WithUserID stores the authenticated user's ID.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// GetUserID returns the authenticated user's ID, or 0 for anonymous requests.
func GetUserID(ctx context.Context) int64 {
	id, _ := ctx.Value(userIDKey{}).(int64)
	return id
}
