// Package metadata extracts the caller headers every identity endpoint relies on:
// the correlation id, the touchpoint id and the APIM callback URL.
package metadata

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	dErrors "digitalidentity/pkg/domain-errors"
	"digitalidentity/pkg/platform/httputil"
	"digitalidentity/pkg/requestcontext"
)

// Header names used by upstream callers.
const (
	HeaderCorrelationID = "DssCorrelationId"
	HeaderTouchpointID  = "TouchpointId"
	HeaderCallbackURL   = "apimurl"
)

// Correlation reads the correlation id header and stores it as the request id.
// A missing or non-GUID value is replaced with a fresh one.
func Correlation(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			raw := strings.TrimSpace(r.Header.Get(HeaderCorrelationID))
			correlationID, err := uuid.Parse(raw)
			if err != nil {
				correlationID = uuid.New()
				if raw == "" {
					logger.DebugContext(ctx, "correlation id header missing, generated one",
						"request_id", correlationID.String(),
					)
				} else {
					logger.InfoContext(ctx, "unable to parse correlation id header, generated one",
						"request_id", correlationID.String(),
						"header_value", raw,
					)
				}
			}

			ctx = requestcontext.WithRequestID(ctx, correlationID.String())
			w.Header().Set(HeaderCorrelationID, correlationID.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CallerMetadata copies the touchpoint and callback URL headers into the context.
// It does not enforce presence; see RequireTouchpoint and RequireCallbackURL.
func CallerMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if tp := strings.TrimSpace(r.Header.Get(HeaderTouchpointID)); tp != "" {
			ctx = requestcontext.WithTouchpointID(ctx, tp)
		}
		if u := strings.TrimSpace(r.Header.Get(HeaderCallbackURL)); u != "" {
			ctx = requestcontext.WithCallbackURL(ctx, u)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireTouchpoint rejects requests without a touchpoint id with 400.
func RequireTouchpoint(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if requestcontext.TouchpointID(ctx) == "" {
				logger.InfoContext(ctx, "unable to locate touchpoint id in request header",
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, HeaderTouchpointID+" header is required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireCallbackURL rejects requests without an APIM callback URL with 400.
func RequireCallbackURL(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if requestcontext.CallbackURL(ctx) == "" {
				logger.InfoContext(ctx, "unable to locate apimurl in request header",
					"request_id", requestcontext.RequestID(ctx),
					"touchpoint_id", requestcontext.TouchpointID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, HeaderCallbackURL+" header is required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
