package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	identitymetrics "digitalidentity/internal/identity/metrics"
	"digitalidentity/internal/identity/models"
	"digitalidentity/pkg/platform/circuit"
	"digitalidentity/pkg/platform/sentinel"
	"digitalidentity/pkg/requestcontext"
)

const defaultPublishTimeout = 5 * time.Second

// Client turns identity changes into queue messages. Callers treat a returned
// error as informational: the change is already committed.
type Client struct {
	publisher Publisher
	breaker   *circuit.Breaker
	logger    *slog.Logger
	metrics   *identitymetrics.Metrics
	timeout   time.Duration
}

type Option func(*Client)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithMetrics(m *identitymetrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(c *Client) {
		c.breaker = b
	}
}

// WithPublishTimeout bounds a single publish attempt.
func WithPublishTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func NewClient(publisher Publisher, opts ...Option) *Client {
	c := &Client{
		publisher: publisher,
		logger:    slog.Default(),
		timeout:   defaultPublishTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.breaker == nil {
		c.breaker = circuit.New("notify")
	}
	return c
}

func (c *Client) SendPostMessage(ctx context.Context, identity *models.DigitalIdentity, callbackURL string) error {
	return c.send(ctx, KindCreated, identity, callbackURL)
}

func (c *Client) SendPatchMessage(ctx context.Context, identity *models.DigitalIdentity, callbackURL string) error {
	return c.send(ctx, KindPatched, identity, callbackURL)
}

func (c *Client) SendDeleteMessage(ctx context.Context, identity *models.DigitalIdentity, callbackURL string) error {
	return c.send(ctx, KindDeleted, identity, callbackURL)
}

func (c *Client) send(ctx context.Context, kind Kind, identity *models.DigitalIdentity, callbackURL string) error {
	if !c.breaker.Allow() {
		c.metrics.IncrementNotification(string(kind), "skipped")
		return fmt.Errorf("notification circuit open: %w", sentinel.ErrUnavailable)
	}

	body, err := json.Marshal(NewMessage(kind, identity, callbackURL, requestcontext.Now(ctx)))
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.publisher.Publish(publishCtx, identity.IdentityID.String(), body); err != nil {
		_, change := c.breaker.RecordFailure()
		if change.Opened {
			c.metrics.SetNotifyCircuitOpen(true)
			c.logger.WarnContext(ctx, "notification circuit opened",
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
		}
		c.metrics.IncrementNotification(string(kind), "failed")
		return err
	}

	if _, change := c.breaker.RecordSuccess(); change.Closed {
		c.metrics.SetNotifyCircuitOpen(false)
		c.logger.InfoContext(ctx, "notification circuit closed",
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	c.metrics.IncrementNotification(string(kind), "published")
	return nil
}
