package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	identitymetrics "digitalidentity/internal/identity/metrics"
	"digitalidentity/internal/identity/models"
	id "digitalidentity/pkg/domain"
	"digitalidentity/pkg/platform/circuit"
	"digitalidentity/pkg/platform/sentinel"
	"digitalidentity/pkg/requestcontext"
)

type ClientSuite struct {
	suite.Suite
	ctx      context.Context
	now      time.Time
	recorder *Recorder
	metrics  *identitymetrics.Metrics
	client   *Client
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) SetupTest() {
	s.now = time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	s.recorder = NewRecorder()
	s.metrics = identitymetrics.NewWithRegisterer(prometheus.NewRegistry())
	s.client = NewClient(s.recorder,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMetrics(s.metrics),
		WithBreaker(circuit.New("notify", circuit.WithFailureThreshold(2), circuit.WithCooldown(time.Hour))),
	)
}

func (s *ClientSuite) identity() *models.DigitalIdentity {
	modified := s.now
	storeID := id.IdentityStoreID(uuid.New())
	d := &models.DigitalIdentity{
		IdentityID:               id.NewIdentityID(),
		CustomerID:               id.CustomerID(uuid.New()),
		IdentityStoreID:          &storeID,
		LastModifiedDate:         &modified,
		LastModifiedTouchpointID: "0000000101",
	}
	d.SetCreateDigitalIdentity("jo@example.com", "Jo", "Bloggs")
	return d
}

func (s *ClientSuite) decode(p Published) map[string]any {
	var out map[string]any
	s.Require().NoError(json.Unmarshal(p.Body, &out))
	return out
}

func (s *ClientSuite) TestPostMessage() {
	identity := s.identity()
	s.Require().NoError(s.client.SendPostMessage(s.ctx, identity, "https://apim.example.com/customers/api/"))

	msgs := s.recorder.Messages()
	s.Require().Len(msgs, 1)
	s.Equal(identity.IdentityID.String(), msgs[0].Key)

	body := s.decode(msgs[0])
	s.Equal("https://apim.example.com/customers/api/identity/"+identity.IdentityID.String(), body["URL"])
	s.Equal(identity.CustomerID.String(), body["CustomerGuid"])
	s.Equal(identity.CustomerID.String(), body["CustomerId"])
	s.Equal("0000000101", body["TouchpointId"])
	s.Equal(false, body["IsNewCustomer"])
	s.Equal(true, body["CreateDigitalIdentity"])
	s.Equal(true, body["IsDigitalAccount"])
	s.Equal("Jo", body["FirstName"])
	s.Equal("jo@example.com", body["EmailAddress"])
	s.Contains(body["TitleMessage"], "New Digital Identity record")
	s.Equal(1.0, testutil.ToFloat64(s.metrics.NotificationsPublished.WithLabelValues("created", "published")))
}

func (s *ClientSuite) TestDeleteMessage() {
	identity := s.identity()
	identity.SetDeleted()
	s.Require().NoError(s.client.SendDeleteMessage(s.ctx, identity, "https://apim.example.com"))

	body := s.decode(s.recorder.Messages()[0])
	s.Equal(true, body["DeleteDigitalIdentity"])
	s.Equal(false, body["CreateDigitalIdentity"])
	s.Contains(body["TitleMessage"], "Digital Identity deleted for")
}

func (s *ClientSuite) TestBreakerShortCircuitsAfterFailures() {
	s.recorder.Err = errors.New("broker down")

	s.Error(s.client.SendPatchMessage(s.ctx, s.identity(), "https://apim"))
	s.Error(s.client.SendPatchMessage(s.ctx, s.identity(), "https://apim"))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.NotifyCircuitOpen))

	err := s.client.SendPatchMessage(s.ctx, s.identity(), "https://apim")
	s.Require().ErrorIs(err, sentinel.ErrUnavailable)
	s.Equal(2.0, testutil.ToFloat64(s.metrics.NotificationsPublished.WithLabelValues("patched", "failed")))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.NotificationsPublished.WithLabelValues("patched", "skipped")))
}

func TestResourceURL(t *testing.T) {
	identityID := id.NewIdentityID()
	for _, base := range []string{"https://apim/api", "https://apim/api/"} {
		if got := ResourceURL(base, identityID); got != "https://apim/api/identity/"+identityID.String() {
			t.Fatalf("ResourceURL(%q) = %q", base, got)
		}
	}
}
