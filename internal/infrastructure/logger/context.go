package logger

import "context"

// RequestIDContextKey is the gin context key holding the request ID
const RequestIDContextKey = "request_id"

type contextKey struct{}

// requestIDKey keys request IDs stored in a context.Context
var requestIDKey = contextKey{}

// WithRequestID returns a context carrying the request ID
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID returns the request ID stored in the context, or ""
func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}
