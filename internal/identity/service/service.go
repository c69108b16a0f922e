package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	identitymetrics "digitalidentity/internal/identity/metrics"
	"digitalidentity/internal/identity/models"
	id "digitalidentity/pkg/domain"
	dErrors "digitalidentity/pkg/domain-errors"
	"digitalidentity/pkg/platform/sentinel"
	"digitalidentity/pkg/requestcontext"
)

// Store is the document store gateway. Lookups return sentinel.ErrNotFound
// when the document is absent; CreateIdentity returns sentinel.ErrConflict
// when the customer already has an identity.
type Store interface {
	GetIdentityForCustomer(ctx context.Context, customerID id.CustomerID) (*models.DigitalIdentity, error)
	GetIdentityByID(ctx context.Context, identityID id.IdentityID) (*models.DigitalIdentity, error)
	CreateIdentity(ctx context.Context, identity *models.DigitalIdentity) error
	UpdateIdentity(ctx context.Context, identity *models.DigitalIdentity) error
	DeleteIdentity(ctx context.Context, identityID id.IdentityID) error
	DoesCustomerResourceExist(ctx context.Context, customerID id.CustomerID) (bool, error)
	GetCustomer(ctx context.Context, customerID id.CustomerID) (*models.Customer, error)
	GetCustomerContact(ctx context.Context, customerID id.CustomerID) (*models.Contact, error)
}

// Service owns the identity lifecycle: create, patch-merge and closure.
type Service struct {
	store      Store
	logger     *slog.Logger
	metrics    *identitymetrics.Metrics
	tracer     trace.Tracer
	closureTTL time.Duration
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *identitymetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClosureTTL sets how long a closed identity is retained before the store
// purges it. Zero deletes the document as soon as it is closed.
func WithClosureTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.closureTTL = ttl
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("identity store is required")
	}
	s := &Service{
		store:  store,
		logger: slog.Default(),
		tracer: otel.Tracer("digitalidentity/identity"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) DoesCustomerExist(ctx context.Context, customerID id.CustomerID) (bool, error) {
	exists, err := s.store.DoesCustomerResourceExist(ctx, customerID)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check customer")
	}
	return exists, nil
}

func (s *Service) GetIdentityForCustomer(ctx context.Context, customerID id.CustomerID) (*models.DigitalIdentity, error) {
	defer s.metrics.ObserveStoreLatency("get_identity_for_customer", time.Now())
	identity, err := s.store.GetIdentityForCustomer(ctx, customerID)
	if err != nil {
		return nil, wrapStoreErr(err, "failed to get identity for customer")
	}
	return identity, nil
}

func (s *Service) GetIdentity(ctx context.Context, identityID id.IdentityID) (*models.DigitalIdentity, error) {
	defer s.metrics.ObserveStoreLatency("get_identity", time.Now())
	identity, err := s.store.GetIdentityByID(ctx, identityID)
	if err != nil {
		return nil, wrapStoreErr(err, "failed to get identity")
	}
	return identity, nil
}

// GetCustomerProfile loads the customer and its contact in parallel. A
// missing contact leaves Contact nil; a missing customer is CodeNotFound.
func (s *Service) GetCustomerProfile(ctx context.Context, customerID id.CustomerID) (*models.CustomerProfile, error) {
	g, gctx := errgroup.WithContext(ctx)
	profile := &models.CustomerProfile{}

	g.Go(func() error {
		customer, err := s.store.GetCustomer(gctx, customerID)
		if err != nil {
			return err
		}
		profile.Customer = customer
		return nil
	})
	g.Go(func() error {
		contact, err := s.store.GetCustomerContact(gctx, customerID)
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		profile.Contact = contact
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, wrapStoreErr(err, "failed to load customer profile")
	}
	return profile, nil
}

// Create assigns an id, fills defaults and persists identity. A second
// identity for the same customer is CodeConflict.
func (s *Service) Create(ctx context.Context, identity *models.DigitalIdentity) (*models.DigitalIdentity, error) {
	ctx, span := s.tracer.Start(ctx, "identity.Create",
		trace.WithAttributes(attribute.String("customer_id", identity.CustomerID.String())))
	defer span.End()

	if identity.IdentityID.IsNil() {
		identity.IdentityID = id.NewIdentityID()
	}
	identity.SetDefaultValues(requestcontext.Now(ctx))

	start := time.Now()
	err := s.store.CreateIdentity(ctx, identity)
	s.metrics.ObserveStoreLatency("create_identity", start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create failed")
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "digital identity for customer already exists")
		}
		s.logger.ErrorContext(ctx, "failed to create digital identity",
			"request_id", requestcontext.RequestID(ctx),
			"customer_id", identity.CustomerID.String(),
			"error", err,
		)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create digital identity")
	}

	span.SetAttributes(attribute.String("identity_id", identity.IdentityID.String()))
	s.metrics.IncrementTransition("created")
	s.logger.InfoContext(ctx, "digital identity created",
		"request_id", requestcontext.RequestID(ctx),
		"identity_id", identity.IdentityID.String(),
		"customer_id", identity.CustomerID.String(),
	)
	return identity, nil
}

// Patch merges patch into existing and persists the result. The caller's
// touchpoint comes from the request context. Terminated identities return
// CodeInvariantViolation and are left untouched.
func (s *Service) Patch(ctx context.Context, existing *models.DigitalIdentity, patch models.Patch) (*models.DigitalIdentity, error) {
	ctx, span := s.tracer.Start(ctx, "identity.Patch",
		trace.WithAttributes(attribute.String("identity_id", existing.IdentityID.String())))
	defer span.End()

	now := requestcontext.Now(ctx)
	if err := existing.CanPatch(now); err != nil {
		span.SetStatus(codes.Error, "identity terminated")
		return nil, err
	}

	updated := existing.Clone()
	updated.ApplyPatch(patch, requestcontext.TouchpointID(ctx), now)

	if err := s.persist(ctx, updated, "patch_identity"); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "patch failed")
		return nil, err
	}
	s.metrics.IncrementTransition("patched")
	return updated, nil
}

// Update persists a fully-formed identity as is.
func (s *Service) Update(ctx context.Context, identity *models.DigitalIdentity) (*models.DigitalIdentity, error) {
	if err := s.persist(ctx, identity, "update_identity"); err != nil {
		return nil, err
	}
	return identity, nil
}

// DeleteIdentity physically removes the document.
func (s *Service) DeleteIdentity(ctx context.Context, identityID id.IdentityID) error {
	defer s.metrics.ObserveStoreLatency("delete_identity", time.Now())
	if err := s.store.DeleteIdentity(ctx, identityID); err != nil {
		return wrapStoreErr(err, "failed to delete identity")
	}
	return nil
}

// Close soft-deletes identity by stamping DateOfClosure and ttl. It reports
// closed=false, and does nothing, when the identity was already terminated.
// With no retention configured the document is physically removed after the
// closure is stamped.
func (s *Service) Close(ctx context.Context, identity *models.DigitalIdentity) (*models.DigitalIdentity, bool, error) {
	ctx, span := s.tracer.Start(ctx, "identity.Close",
		trace.WithAttributes(attribute.String("identity_id", identity.IdentityID.String())))
	defer span.End()

	now := requestcontext.Now(ctx)
	if identity.IsTerminated(now) {
		span.SetAttributes(attribute.Bool("already_closed", true))
		return identity, false, nil
	}

	closed := identity.Clone()
	closed.ApplyClosure(requestcontext.TouchpointID(ctx), now, s.closureTTL)

	if _, err := s.Update(ctx, closed); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "close failed")
		return nil, false, err
	}
	if s.closureTTL <= 0 {
		if err := s.DeleteIdentity(ctx, closed.IdentityID); err != nil && !dErrors.HasCode(err, dErrors.CodeNotFound) {
			span.RecordError(err)
			return nil, false, err
		}
	}

	s.metrics.IncrementTransition("closed")
	s.logger.InfoContext(ctx, "digital identity closed",
		"request_id", requestcontext.RequestID(ctx),
		"identity_id", closed.IdentityID.String(),
		"customer_id", closed.CustomerID.String(),
	)
	return closed, true, nil
}

func (s *Service) persist(ctx context.Context, identity *models.DigitalIdentity, op string) error {
	start := time.Now()
	err := s.store.UpdateIdentity(ctx, identity)
	s.metrics.ObserveStoreLatency(op, start)
	if err == nil {
		return nil
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "digital identity not found")
	}
	s.logger.ErrorContext(ctx, "failed to persist digital identity",
		"request_id", requestcontext.RequestID(ctx),
		"identity_id", identity.IdentityID.String(),
		"operation", op,
		"error", err,
	)
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update digital identity")
}

func wrapStoreErr(err error, msg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeNotFound, msg)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
