package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	identitymetrics "digitalidentity/internal/identity/metrics"
	"digitalidentity/internal/identity/models"
	id "digitalidentity/pkg/domain"
	dErrors "digitalidentity/pkg/domain-errors"
	"digitalidentity/pkg/platform/httputil"
	"digitalidentity/pkg/platform/middleware/metadata"
	"digitalidentity/pkg/requestcontext"
)

// Service is the identity lifecycle the handlers orchestrate.
type Service interface {
	DoesCustomerExist(ctx context.Context, customerID id.CustomerID) (bool, error)
	GetIdentityForCustomer(ctx context.Context, customerID id.CustomerID) (*models.DigitalIdentity, error)
	GetIdentity(ctx context.Context, identityID id.IdentityID) (*models.DigitalIdentity, error)
	GetCustomerProfile(ctx context.Context, customerID id.CustomerID) (*models.CustomerProfile, error)
	Create(ctx context.Context, identity *models.DigitalIdentity) (*models.DigitalIdentity, error)
	Patch(ctx context.Context, existing *models.DigitalIdentity, patch models.Patch) (*models.DigitalIdentity, error)
	Close(ctx context.Context, identity *models.DigitalIdentity) (*models.DigitalIdentity, bool, error)
}

// Validator checks a candidate against field and cross-entity rules.
type Validator interface {
	ValidateResource(ctx context.Context, candidate models.Candidate, forCreate bool) ([]models.ValidationIssue, error)
}

// Notifier publishes change notifications after a committed write.
type Notifier interface {
	SendPostMessage(ctx context.Context, identity *models.DigitalIdentity, callbackURL string) error
	SendPatchMessage(ctx context.Context, identity *models.DigitalIdentity, callbackURL string) error
	SendDeleteMessage(ctx context.Context, identity *models.DigitalIdentity, callbackURL string) error
}

// LastLoginPolicy decides which touchpoints may set LastLoggedInDateTime.
type LastLoginPolicy interface {
	CanUpdateLastLoggedIn(touchpointID string) bool
}

// Handler serves the digital identity HTTP surface.
type Handler struct {
	service   Service
	validator Validator
	notifier  Notifier
	policy    LastLoginPolicy
	logger    *slog.Logger
	metrics   *identitymetrics.Metrics
}

func New(
	service Service,
	validator Validator,
	notifier Notifier,
	policy LastLoginPolicy,
	logger *slog.Logger,
	metrics *identitymetrics.Metrics,
) *Handler {
	return &Handler{
		service:   service,
		validator: validator,
		notifier:  notifier,
		policy:    policy,
		logger:    logger,
		metrics:   metrics,
	}
}

// Register mounts the routes. Correlation and caller metadata middleware must
// already be installed on r.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(metadata.RequireTouchpoint(h.logger))

		r.Get("/customers/{customerId}", h.HandleGetByCustomer)
		r.Get("/identities/{identityId}", h.HandleGetByIdentity)

		r.Group(func(r chi.Router) {
			r.Use(metadata.RequireCallbackURL(h.logger))

			r.Post("/identity", h.HandlePost)
			r.Patch("/customer/{customerId}", h.HandlePatchByCustomer)
			r.Patch("/identity/{identityId}", h.HandlePatchByIdentity)
			r.Delete("/customer/{customerId}", h.HandleDeleteByCustomer)
			r.Delete("/identity/{identityId}", h.HandleDeleteByIdentity)
		})
	})
}

// HandleGetByCustomer returns the customer's identity, or 204 when either the
// customer or the identity is absent.
func (h *Handler) HandleGetByCustomer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	customerID, ok := h.customerIDParam(w, r)
	if !ok {
		return
	}

	exists, err := h.service.DoesCustomerExist(ctx, customerID)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to check customer")
		return
	}
	if !exists {
		h.logger.InfoContext(ctx, "customer not found",
			"request_id", requestID,
			"customer_id", customerID.String(),
		)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	identity, err := h.service.GetIdentityForCustomer(ctx, customerID)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to get identity for customer")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, identity)
}

func (h *Handler) HandleGetByIdentity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identityID, ok := h.identityIDParam(w, r)
	if !ok {
		return
	}

	identity, err := h.service.GetIdentity(ctx, identityID)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to get identity")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, identity)
}

// HandlePost creates an identity for a customer. The email used for the
// uniqueness check and the digital-account flags comes from the customer's
// contact record, not the request.
func (h *Handler) HandlePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	touchpointID := requestcontext.TouchpointID(ctx)

	req, ok := httputil.DecodeAndPrepare[PostRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	profile, err := h.service.GetCustomerProfile(ctx, *req.CustomerID)
	if err != nil && !dErrors.HasCode(err, dErrors.CodeNotFound) {
		h.writeServiceError(ctx, w, err, "failed to load customer")
		return
	}

	candidate := models.Candidate{
		CustomerID:               *req.CustomerID,
		LastModifiedTouchpointID: touchpointID,
		EmailAddress:             profile.Email(),
		LastLoggedInDateTime:     req.LastLoggedInDateTime,
	}
	if !h.validate(ctx, w, candidate, true, "create") {
		return
	}
	if req.LastLoggedInDateTime != nil && !h.policy.CanUpdateLastLoggedIn(touchpointID) {
		h.rejectLastLogin(ctx, w, touchpointID)
		return
	}

	identity := req.toIdentity(touchpointID)
	if profile != nil && profile.Customer != nil {
		identity.SetCreateDigitalIdentity(profile.Email(), profile.Customer.GivenName, profile.Customer.FamilyName)
	}

	created, err := h.service.Create(ctx, identity)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to create digital identity")
		return
	}

	if created.IsDigitalAccount {
		h.notify(ctx, "create", created, h.notifier.SendPostMessage)
	}
	httputil.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) HandlePatchByCustomer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	customerID, ok := h.customerIDParam(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[PatchRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if !h.validate(ctx, w, h.patchCandidate(ctx, customerID, req), false, "patch") {
		return
	}

	existing, err := h.service.GetIdentityForCustomer(ctx, customerID)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to get identity for customer")
		return
	}
	h.applyPatch(ctx, w, existing, req)
}

// HandlePatchByIdentity patches an identity addressed by its own id. Customer
// rules run against the identity's owner; a CustomerId in the body must match
// it.
func (h *Handler) HandlePatchByIdentity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	identityID, ok := h.identityIDParam(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[PatchRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	existing, err := h.service.GetIdentity(ctx, identityID)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to get identity")
		return
	}
	if bodyCustomer := req.customerID(); !bodyCustomer.IsNil() && bodyCustomer != existing.CustomerID {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "CustomerId does not match the digital identity"))
		return
	}
	if !h.validate(ctx, w, h.patchCandidate(ctx, existing.CustomerID, req), false, "patch") {
		return
	}
	h.applyPatch(ctx, w, existing, req)
}

func (h *Handler) applyPatch(ctx context.Context, w http.ResponseWriter, existing *models.DigitalIdentity, req *PatchRequest) {
	touchpointID := requestcontext.TouchpointID(ctx)
	patch := req.toPatch()

	if err := existing.CanPatch(requestcontext.Now(ctx)); err != nil {
		h.metrics.IncrementValidationRejected("patch")
		httputil.WriteError(w, err)
		return
	}
	if patch.TouchesLastLoggedIn() && !h.policy.CanUpdateLastLoggedIn(touchpointID) {
		h.rejectLastLogin(ctx, w, touchpointID)
		return
	}

	updated, err := h.service.Patch(ctx, existing, patch)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to patch digital identity")
		return
	}

	h.notify(ctx, "patch", updated, h.notifier.SendPatchMessage)
	httputil.WriteJSON(w, http.StatusOK, updated)
}

// HandleDeleteByCustomer closes the customer's identity. An unknown customer
// is a bad request; a customer without an identity is 204.
func (h *Handler) HandleDeleteByCustomer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	customerID, ok := h.customerIDParam(w, r)
	if !ok {
		return
	}

	exists, err := h.service.DoesCustomerExist(ctx, customerID)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to check customer")
		return
	}
	if !exists {
		h.logger.WarnContext(ctx, "delete for unknown customer",
			"request_id", requestID,
			"customer_id", customerID.String(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "customer does not exist"))
		return
	}

	identity, err := h.service.GetIdentityForCustomer(ctx, customerID)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to get identity for customer")
		return
	}
	h.close(ctx, w, identity)
}

func (h *Handler) HandleDeleteByIdentity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identityID, ok := h.identityIDParam(w, r)
	if !ok {
		return
	}

	identity, err := h.service.GetIdentity(ctx, identityID)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to get identity")
		return
	}
	h.close(ctx, w, identity)
}

func (h *Handler) close(ctx context.Context, w http.ResponseWriter, identity *models.DigitalIdentity) {
	closed, changed, err := h.service.Close(ctx, identity)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to delete digital identity")
		return
	}
	if changed {
		closed.SetDeleted()
		h.notify(ctx, "delete", closed, h.notifier.SendDeleteMessage)
	}
	httputil.WriteJSON(w, http.StatusOK, closed)
}

func (h *Handler) patchCandidate(ctx context.Context, customerID id.CustomerID, req *PatchRequest) models.Candidate {
	return models.Candidate{
		CustomerID:               customerID,
		LastModifiedTouchpointID: requestcontext.TouchpointID(ctx),
		LastLoggedInDateTime:     req.LastLoggedInDateTime,
	}
}
