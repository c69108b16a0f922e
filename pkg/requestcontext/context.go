// Package requestcontext provides HTTP-independent context accessors for request-scoped values.
//
// Middleware sets these values; services and handlers read them without pulling in
// net/http.
//
//	requestID := requestcontext.RequestID(ctx)
//	touchpoint := requestcontext.TouchpointID(ctx)
//	now := requestcontext.Now(ctx)
package requestcontext

import (
	"context"
	"time"
)

type (
	requestIDKey    struct{}
	touchpointIDKey struct{}
	callbackURLKey  struct{}
	requestTimeKey  struct{}
)

// Exported context keys for tests that need context.WithValue directly.
var (
	ContextKeyRequestID    = requestIDKey{}
	ContextKeyTouchpointID = touchpointIDKey{}
	ContextKeyCallbackURL  = callbackURLKey{}
	ContextKeyRequestTime  = requestTimeKey{}
)

// RequestID returns the correlation id for the request.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a correlation id into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// TouchpointID returns the calling channel's touchpoint identifier.
func TouchpointID(ctx context.Context) string {
	if tp, ok := ctx.Value(ContextKeyTouchpointID).(string); ok {
		return tp
	}
	return ""
}

// WithTouchpointID injects the caller's touchpoint identifier.
func WithTouchpointID(ctx context.Context, touchpointID string) context.Context {
	return context.WithValue(ctx, ContextKeyTouchpointID, touchpointID)
}

// CallbackURL returns the APIM base URL used to build notification links.
func CallbackURL(ctx context.Context) string {
	if u, ok := ctx.Value(ContextKeyCallbackURL).(string); ok {
		return u
	}
	return ""
}

// WithCallbackURL injects the APIM base URL.
func WithCallbackURL(ctx context.Context, url string) context.Context {
	return context.WithValue(ctx, ContextKeyCallbackURL, url)
}

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() outside HTTP requests (workers, CLI, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now().UTC()
}

// WithTime injects a specific time into a context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
