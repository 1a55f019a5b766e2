package services

import "context"

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	locatorKey   contextKey = "locator"
)

// WithRequestID annotates context with the split request identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the request identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithLocator annotates context with the source locator being split.
func WithLocator(ctx context.Context, locator string) context.Context {
	if locator == "" {
		return ctx
	}
	return context.WithValue(ctx, locatorKey, locator)
}

// LocatorFromContext returns the source locator if present.
func LocatorFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(locatorKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
