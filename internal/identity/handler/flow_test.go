package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"digitalidentity/internal/identity/models"
	"digitalidentity/internal/identity/notify"
	"digitalidentity/internal/identity/service"
	"digitalidentity/internal/identity/store"
	"digitalidentity/internal/identity/validation"
	id "digitalidentity/pkg/domain"
	"digitalidentity/pkg/platform/middleware/metadata"
	"digitalidentity/pkg/testutil"
)

// FlowSuite drives the real validator, service and in-memory store through
// the router, with a recorder standing in for the queue.
type FlowSuite struct {
	suite.Suite
	ctx      context.Context
	store    *store.InMemoryStore
	recorder *notify.Recorder
	router   http.Handler
}

func TestFlowSuite(t *testing.T) {
	suite.Run(t, new(FlowSuite))
}

func (s *FlowSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = store.NewInMemoryStore()
	s.recorder = notify.NewRecorder()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := service.New(s.store, service.WithLogger(logger), service.WithClosureTTL(time.Hour))
	s.Require().NoError(err)

	h := New(svc, validation.New(s.store), notify.NewClient(s.recorder, notify.WithLogger(logger)), testPolicy, logger, nil)
	s.router = newTestRouter(h, logger)
}

func (s *FlowSuite) seedCustomer(email string) id.CustomerID {
	customerID := id.CustomerID(uuid.New())
	s.Require().NoError(s.store.SaveCustomer(s.ctx, &models.Customer{
		CustomerID: customerID,
		GivenName:  "Grace",
		FamilyName: "Hopper",
	}))
	s.Require().NoError(s.store.SaveContact(s.ctx, &models.Contact{
		ContactID:    id.ContactID(uuid.New()),
		CustomerID:   customerID,
		EmailAddress: email,
	}))
	return customerID
}

func (s *FlowSuite) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *FlowSuite) create(customerID id.CustomerID, body map[string]any) *models.DigitalIdentity {
	if body == nil {
		body = map[string]any{}
	}
	body["CustomerId"] = customerID
	w := s.serve(newRequest(s.T(), http.MethodPost, "/identity", body, testTouchpoint))
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	return testutil.UnmarshalResponse[models.DigitalIdentity](s.T(), w)
}

func (s *FlowSuite) TestPostPublishesExactlyOnce() {
	customerID := s.seedCustomer("grace@example.test")

	created := s.create(customerID, map[string]any{"LegacyIdentity": "legacy-1"})

	s.False(created.IdentityID.IsNil())
	s.Equal(customerID, created.CustomerID)
	s.Equal(testTouchpoint, created.CreatedBy)
	s.Require().NotNil(created.LastModifiedDate)

	messages := s.recorder.Messages()
	s.Require().Len(messages, 1)
	s.Equal(created.IdentityID.String(), messages[0].Key)

	var msg notify.Message
	s.Require().NoError(json.Unmarshal(messages[0].Body, &msg))
	s.True(msg.CreateDigitalIdentity)
	s.True(msg.IsDigitalAccount)
	s.Equal("grace@example.test", msg.EmailAddress)
	s.Equal(notify.ResourceURL(testCallbackURL, created.IdentityID), msg.URL)
}

func (s *FlowSuite) TestPostRejections() {
	s.Run("second identity for the customer", func() {
		customerID := s.seedCustomer("first@example.test")
		s.create(customerID, nil)
		published := len(s.recorder.Messages())

		w := s.serve(newRequest(s.T(), http.MethodPost, "/identity", map[string]any{"CustomerId": customerID}, testTouchpoint))
		s.Equal(http.StatusUnprocessableEntity, w.Code)
		s.Contains(w.Body.String(), "already exists")
		s.Len(s.recorder.Messages(), published)
	})

	s.Run("email held by another customer", func() {
		s.seedCustomer("shared@example.test")
		customerID := s.seedCustomer("SHARED@example.test")

		w := s.serve(newRequest(s.T(), http.MethodPost, "/identity", map[string]any{"CustomerId": customerID}, testTouchpoint))
		s.Equal(http.StatusUnprocessableEntity, w.Code)
		issues := *testutil.UnmarshalResponse[[]models.ValidationIssue](s.T(), w)
		s.Require().Len(issues, 1)
		s.Equal([]string{"EmailAddress"}, issues[0].MemberNames)

		_, err := s.store.GetIdentityForCustomer(s.ctx, customerID)
		s.Error(err)
	})

	s.Run("unknown customer", func() {
		w := s.serve(newRequest(s.T(), http.MethodPost, "/identity", map[string]any{"CustomerId": uuid.New()}, testTouchpoint))
		s.Equal(http.StatusUnprocessableEntity, w.Code)
		s.Contains(w.Body.String(), "does not exists")
	})
}

func (s *FlowSuite) TestPatchMergeIsFieldLocal() {
	customerID := s.seedCustomer("merge@example.test")
	storeID := uuid.New()
	created := s.create(customerID, map[string]any{
		"IdentityStoreId": storeID,
		"LegacyIdentity":  "legacy-1",
		"id_token":        "token-1",
	})

	w := s.serve(newRequest(s.T(), http.MethodPatch, "/customer/"+customerID.String(),
		map[string]any{"LegacyIdentity": "legacy-2"}, testTouchpoint))
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	stored, err := s.store.GetIdentityByID(s.ctx, created.IdentityID)
	s.Require().NoError(err)
	s.Equal("legacy-2", stored.LegacyIdentity)
	s.Equal("token-1", stored.IDToken)
	s.Require().NotNil(stored.IdentityStoreID)
	s.Equal(storeID.String(), stored.IdentityStoreID.String())
}

func (s *FlowSuite) TestPatchLastLoggedInAllowList() {
	customerID := s.seedCustomer("login@example.test")
	created := s.create(customerID, nil)
	lastLogin := time.Now().UTC().Add(-time.Minute).Truncate(time.Second)
	body := map[string]any{"LastLoggedInDateTime": lastLogin}

	s.Run("untrusted touchpoint is refused", func() {
		w := s.serve(newRequest(s.T(), http.MethodPatch, "/identity/"+created.IdentityID.String(), body, testTouchpoint))
		s.Equal(http.StatusUnprocessableEntity, w.Code)

		stored, err := s.store.GetIdentityByID(s.ctx, created.IdentityID)
		s.Require().NoError(err)
		s.Nil(stored.LastLoggedInDateTime)
	})

	s.Run("trusted touchpoint is applied", func() {
		w := s.serve(newRequest(s.T(), http.MethodPatch, "/identity/"+created.IdentityID.String(), body, testTrustedTouchpoint))
		s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

		stored, err := s.store.GetIdentityByID(s.ctx, created.IdentityID)
		s.Require().NoError(err)
		s.Require().NotNil(stored.LastLoggedInDateTime)
		s.True(lastLogin.Equal(*stored.LastLoggedInDateTime))
		s.Equal(testTrustedTouchpoint, stored.LastModifiedTouchpointID)
	})
}

func (s *FlowSuite) TestDeleteLifecycle() {
	customerID := s.seedCustomer("close@example.test")

	s.Run("no identity yet is 204 and publishes nothing", func() {
		w := s.serve(newRequest(s.T(), http.MethodDelete, "/customer/"+customerID.String(), nil, testTouchpoint))
		s.Equal(http.StatusNoContent, w.Code)
		s.Empty(s.recorder.Messages())
	})

	created := s.create(customerID, nil)
	published := len(s.recorder.Messages())

	s.Run("first delete closes and publishes", func() {
		w := s.serve(newRequest(s.T(), http.MethodDelete, "/customer/"+customerID.String(), nil, testTouchpoint))
		s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

		stored, err := s.store.GetIdentityByID(s.ctx, created.IdentityID)
		s.Require().NoError(err)
		s.NotNil(stored.DateOfClosure)
		s.Require().NotNil(stored.TTL)
		s.Equal(int(time.Hour/time.Second), *stored.TTL)

		messages := s.recorder.Messages()
		s.Require().Len(messages, published+1)
		var msg notify.Message
		s.Require().NoError(json.Unmarshal(messages[len(messages)-1].Body, &msg))
		s.True(msg.DeleteDigitalIdentity)
	})

	s.Run("second delete is an idempotent success", func() {
		w := s.serve(newRequest(s.T(), http.MethodDelete, "/identity/"+created.IdentityID.String(), nil, testTouchpoint))
		s.Equal(http.StatusOK, w.Code)
		s.Len(s.recorder.Messages(), published+1)
	})

	s.Run("closed identity refuses patches", func() {
		w := s.serve(newRequest(s.T(), http.MethodPatch, "/identity/"+created.IdentityID.String(),
			map[string]any{"LegacyIdentity": "late"}, testTouchpoint))
		s.Equal(http.StatusUnprocessableEntity, w.Code)
	})
}

func (s *FlowSuite) TestGetByIdentity() {
	customerID := s.seedCustomer("lookup@example.test")
	created := s.create(customerID, map[string]any{"LegacyIdentity": "legacy-9"})

	w := s.serve(newRequest(s.T(), http.MethodGet, "/identities/"+created.IdentityID.String(), nil, testTouchpoint))
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	got := testutil.UnmarshalResponse[models.DigitalIdentity](s.T(), w)
	s.Equal(created.IdentityID, got.IdentityID)
	s.Equal("legacy-9", got.LegacyIdentity)

	w = s.serve(newRequest(s.T(), http.MethodGet, "/identities/"+uuid.NewString(), nil, testTouchpoint))
	s.Equal(http.StatusNoContent, w.Code)

	w = s.serve(newRequest(s.T(), http.MethodGet, "/identities/not-a-guid", nil, testTouchpoint))
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *FlowSuite) TestGetWithoutTouchpointSkipsStore() {
	customerID := s.seedCustomer("get@example.test")
	s.create(customerID, nil)

	req := newRequest(s.T(), http.MethodGet, "/customers/"+customerID.String(), nil, "")
	req.Header.Del(metadata.HeaderCallbackURL)
	w := s.serve(req)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.serve(newRequest(s.T(), http.MethodGet, "/customers/"+customerID.String(), nil, testTouchpoint))
	s.Equal(http.StatusOK, w.Code)
}
