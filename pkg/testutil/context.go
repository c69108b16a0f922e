package testutil

import (
	"context"
	"net/http"
	"time"

	"digitalidentity/pkg/platform/middleware/metadata"
	"digitalidentity/pkg/requestcontext"
)

// CallerContext returns ctx carrying what the metadata and requesttime
// middleware would have stored for a request from touchpointID at now.
func CallerContext(ctx context.Context, touchpointID string, now time.Time) context.Context {
	ctx = requestcontext.WithRequestID(ctx, "test-request")
	ctx = requestcontext.WithTouchpointID(ctx, touchpointID)
	return requestcontext.WithTime(ctx, now)
}

// WithCaller sets the touchpoint and callback headers upstream callers send.
// Empty values leave the header unset.
func WithCaller(req *http.Request, touchpointID, callbackURL string) *http.Request {
	if touchpointID != "" {
		req.Header.Set(metadata.HeaderTouchpointID, touchpointID)
	}
	if callbackURL != "" {
		req.Header.Set(metadata.HeaderCallbackURL, callbackURL)
	}
	return req
}
