package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"digitalidentity/internal/identity/models"
	id "digitalidentity/pkg/domain"
	dErrors "digitalidentity/pkg/domain-errors"
	"digitalidentity/pkg/platform/httputil"
	"digitalidentity/pkg/requestcontext"
)

func (h *Handler) customerIDParam(w http.ResponseWriter, r *http.Request) (id.CustomerID, bool) {
	customerID, err := id.ParseCustomerID(chi.URLParam(r, "customerId"))
	if err != nil {
		h.logger.WarnContext(r.Context(), "invalid customer id",
			"request_id", requestcontext.RequestID(r.Context()),
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInvalidInput, "customerId must be a valid UUID"))
		return id.CustomerID{}, false
	}
	return customerID, true
}

func (h *Handler) identityIDParam(w http.ResponseWriter, r *http.Request) (id.IdentityID, bool) {
	identityID, err := id.ParseIdentityID(chi.URLParam(r, "identityId"))
	if err != nil {
		h.logger.WarnContext(r.Context(), "invalid identity id",
			"request_id", requestcontext.RequestID(r.Context()),
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInvalidInput, "identityId must be a valid UUID"))
		return id.IdentityID{}, false
	}
	return identityID, true
}

// validate runs the validator and writes the response when it rejects the
// candidate. It reports whether the handler should continue.
func (h *Handler) validate(ctx context.Context, w http.ResponseWriter, candidate models.Candidate, forCreate bool, flow string) bool {
	issues, err := h.validator.ValidateResource(ctx, candidate, forCreate)
	if err != nil {
		h.writeServiceError(ctx, w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to validate request"), "validation failed")
		return false
	}
	if len(issues) == 0 {
		return true
	}
	h.metrics.IncrementValidationRejected(flow)
	h.logger.InfoContext(ctx, "request rejected by validation",
		"request_id", requestcontext.RequestID(ctx),
		"touchpoint_id", requestcontext.TouchpointID(ctx),
		"customer_id", candidate.CustomerID.String(),
		"issues", len(issues),
	)
	httputil.WriteIssues(w, issues)
	return false
}

func (h *Handler) rejectLastLogin(ctx context.Context, w http.ResponseWriter, touchpointID string) {
	h.metrics.IncrementValidationRejected("last_logged_in")
	h.logger.WarnContext(ctx, "touchpoint may not set LastLoggedInDateTime",
		"request_id", requestcontext.RequestID(ctx),
		"touchpoint_id", touchpointID,
	)
	httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "LastLoggedInDateTime is readonly"))
}

// writeServiceError maps CodeNotFound to 204 and everything else through the
// shared error body.
func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	if dErrors.HasCode(err, dErrors.CodeNotFound) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg,
			"request_id", requestcontext.RequestID(ctx),
			"touchpoint_id", requestcontext.TouchpointID(ctx),
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}

type sendFunc func(ctx context.Context, identity *models.DigitalIdentity, callbackURL string) error

// notify publishes after the write has committed. Failures are logged and
// never change the response.
func (h *Handler) notify(ctx context.Context, flow string, identity *models.DigitalIdentity, send sendFunc) {
	if err := send(ctx, identity, requestcontext.CallbackURL(ctx)); err != nil {
		h.logger.ErrorContext(ctx, "failed to publish notification",
			"request_id", requestcontext.RequestID(ctx),
			"touchpoint_id", requestcontext.TouchpointID(ctx),
			"identity_id", identity.IdentityID.String(),
			"flow", flow,
			"error", err,
		)
	}
}
