package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/mock/gomock"

	"digitalidentity/internal/identity/models"
	"digitalidentity/internal/identity/service/mocks"
	id "digitalidentity/pkg/domain"
	dErrors "digitalidentity/pkg/domain-errors"
	"digitalidentity/pkg/platform/sentinel"
	"digitalidentity/pkg/testutil"
)

type ServiceSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	store   *mocks.MockStore
	service *Service
	ctx     context.Context
	now     time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = mocks.NewMockStore(s.ctrl)
	s.now = time.Date(2026, 4, 10, 8, 0, 0, 0, time.UTC)
	s.ctx = testutil.CallerContext(context.Background(), "0000000303", s.now)

	svc, err := New(s.store,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithClosureTTL(30*24*time.Hour),
		WithTracer(noop.NewTracerProvider().Tracer("service-test")),
	)
	s.Require().NoError(err)
	s.service = svc
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceSuite) existing() *models.DigitalIdentity {
	modified := s.now.Add(-time.Hour)
	return &models.DigitalIdentity{
		IdentityID:               id.NewIdentityID(),
		CustomerID:               id.CustomerID(uuid.New()),
		IDToken:                  "old",
		LegacyIdentity:           "legacy",
		LastModifiedDate:         &modified,
		LastModifiedTouchpointID: "0000000101",
	}
}

func (s *ServiceSuite) TestNewRequiresStore() {
	_, err := New(nil)
	s.Require().Error(err)
}

func (s *ServiceSuite) TestCreate() {
	s.Run("assigns id and default stamp", func() {
		identity := &models.DigitalIdentity{CustomerID: id.CustomerID(uuid.New()), LastModifiedTouchpointID: "0000000101"}
		s.store.EXPECT().CreateIdentity(gomock.Any(), identity).Return(nil)

		created, err := s.service.Create(s.ctx, identity)
		s.Require().NoError(err)
		s.False(created.IdentityID.IsNil())
		s.Require().NotNil(created.LastModifiedDate)
		s.True(created.LastModifiedDate.Equal(s.now))
	})

	s.Run("duplicate customer is a conflict", func() {
		s.store.EXPECT().CreateIdentity(gomock.Any(), gomock.Any()).Return(sentinel.ErrConflict)

		_, err := s.service.Create(s.ctx, &models.DigitalIdentity{CustomerID: id.CustomerID(uuid.New())})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("store failure is internal", func() {
		s.store.EXPECT().CreateIdentity(gomock.Any(), gomock.Any()).Return(errors.New("timeout"))

		_, err := s.service.Create(s.ctx, &models.DigitalIdentity{CustomerID: id.CustomerID(uuid.New())})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *ServiceSuite) TestPatch() {
	s.Run("merges and stamps the caller touchpoint", func() {
		existing := s.existing()
		var saved *models.DigitalIdentity
		s.store.EXPECT().UpdateIdentity(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, d *models.DigitalIdentity) error {
				saved = d
				return nil
			})

		updated, err := s.service.Patch(s.ctx, existing, models.Patch{IDToken: "new"})
		s.Require().NoError(err)
		s.Equal("new", updated.IDToken)
		s.Equal("legacy", updated.LegacyIdentity)
		s.Equal("0000000303", updated.LastModifiedTouchpointID)
		s.True(updated.LastModifiedDate.Equal(s.now))
		s.Same(updated, saved)
		s.Equal("old", existing.IDToken, "input record is not mutated")
	})

	s.Run("terminated identity is rejected without a write", func() {
		existing := s.existing()
		closed := s.now.Add(-time.Minute)
		existing.DateOfClosure = &closed

		_, err := s.service.Patch(s.ctx, existing, models.Patch{IDToken: "new"})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("vanished identity is not found", func() {
		s.store.EXPECT().UpdateIdentity(gomock.Any(), gomock.Any()).Return(sentinel.ErrNotFound)

		_, err := s.service.Patch(s.ctx, s.existing(), models.Patch{})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("store failure is internal", func() {
		s.store.EXPECT().UpdateIdentity(gomock.Any(), gomock.Any()).Return(errors.New("boom"))

		_, err := s.service.Patch(s.ctx, s.existing(), models.Patch{})
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *ServiceSuite) TestClose() {
	s.Run("stamps closure and ttl", func() {
		existing := s.existing()
		s.store.EXPECT().UpdateIdentity(gomock.Any(), gomock.Any()).Return(nil)

		closed, changed, err := s.service.Close(s.ctx, existing)
		s.Require().NoError(err)
		s.True(changed)
		s.True(closed.IsTerminated(s.now))
		s.Require().NotNil(closed.TTL)
		s.Equal(int((30 * 24 * time.Hour).Seconds()), *closed.TTL)
		s.Equal("0000000303", closed.LastModifiedTouchpointID)
	})

	s.Run("already closed is a no-op", func() {
		existing := s.existing()
		closedAt := s.now.Add(-time.Hour)
		existing.DateOfClosure = &closedAt

		closed, changed, err := s.service.Close(s.ctx, existing)
		s.Require().NoError(err)
		s.False(changed)
		s.Same(existing, closed)
	})

	s.Run("without retention the document is deleted", func() {
		svc, err := New(s.store, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
		s.Require().NoError(err)
		existing := s.existing()

		gomock.InOrder(
			s.store.EXPECT().UpdateIdentity(gomock.Any(), gomock.Any()).Return(nil),
			s.store.EXPECT().DeleteIdentity(gomock.Any(), existing.IdentityID).Return(nil),
		)

		closed, changed, err := svc.Close(s.ctx, existing)
		s.Require().NoError(err)
		s.True(changed)
		s.Nil(closed.TTL)
	})
}

func (s *ServiceSuite) TestUpdate() {
	s.Run("persists the record unchanged", func() {
		existing := s.existing()
		s.store.EXPECT().UpdateIdentity(gomock.Any(), existing).Return(nil)

		updated, err := s.service.Update(s.ctx, existing)
		s.Require().NoError(err)
		s.Same(existing, updated)
	})

	s.Run("missing document is not found", func() {
		s.store.EXPECT().UpdateIdentity(gomock.Any(), gomock.Any()).Return(sentinel.ErrNotFound)

		_, err := s.service.Update(s.ctx, s.existing())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestLookups() {
	s.Run("missing identity is not found", func() {
		customerID := id.CustomerID(uuid.New())
		s.store.EXPECT().GetIdentityForCustomer(gomock.Any(), customerID).Return(nil, sentinel.ErrNotFound)

		_, err := s.service.GetIdentityForCustomer(s.ctx, customerID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("customer existence failure is internal", func() {
		customerID := id.CustomerID(uuid.New())
		s.store.EXPECT().DoesCustomerResourceExist(gomock.Any(), customerID).Return(false, errors.New("down"))

		_, err := s.service.DoesCustomerExist(s.ctx, customerID)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *ServiceSuite) TestGetCustomerProfile() {
	customerID := id.CustomerID(uuid.New())

	s.Run("joins customer and contact", func() {
		s.store.EXPECT().GetCustomer(gomock.Any(), customerID).Return(&models.Customer{CustomerID: customerID, GivenName: "Jo"}, nil)
		s.store.EXPECT().GetCustomerContact(gomock.Any(), customerID).Return(&models.Contact{CustomerID: customerID, EmailAddress: "jo@example.com"}, nil)

		profile, err := s.service.GetCustomerProfile(s.ctx, customerID)
		s.Require().NoError(err)
		s.Equal("Jo", profile.Customer.GivenName)
		s.Equal("jo@example.com", profile.Email())
	})

	s.Run("missing contact is tolerated", func() {
		s.store.EXPECT().GetCustomer(gomock.Any(), customerID).Return(&models.Customer{CustomerID: customerID}, nil)
		s.store.EXPECT().GetCustomerContact(gomock.Any(), customerID).Return(nil, sentinel.ErrNotFound)

		profile, err := s.service.GetCustomerProfile(s.ctx, customerID)
		s.Require().NoError(err)
		s.Nil(profile.Contact)
		s.Empty(profile.Email())
	})

	s.Run("missing customer is not found", func() {
		s.store.EXPECT().GetCustomer(gomock.Any(), customerID).Return(nil, sentinel.ErrNotFound)
		s.store.EXPECT().GetCustomerContact(gomock.Any(), customerID).Return(nil, sentinel.ErrNotFound).AnyTimes()

		_, err := s.service.GetCustomerProfile(s.ctx, customerID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}
