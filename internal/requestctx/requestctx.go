// Package requestctx carries the request correlation id through a context so
// audit trails and error envelopes can reference the same request.
package requestctx

import "context"

type contextKey int

const requestIDKey contextKey = iota

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestID returns the empty string when no id was attached, which only
// happens outside the HTTP middleware chain.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
