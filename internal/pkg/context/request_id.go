// Package context holds the request-scoped values that travel below the HTTP
// layer, such as the correlation id audit events are tagged with.
package context

import "context"

type requestIDKey struct{}

// WithRequestID returns ctx unchanged for an empty id.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
