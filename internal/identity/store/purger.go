package store

import (
	"context"
	"log/slog"
	"time"

	identitymetrics "digitalidentity/internal/identity/metrics"
)

// Expirer removes closed identities whose ttl has elapsed.
type Expirer interface {
	PurgeExpired(ctx context.Context, now time.Time) (int, error)
}

// Purger periodically removes expired identities from stores that cannot
// expire documents natively.
type Purger struct {
	store    Expirer
	interval time.Duration
	logger   *slog.Logger
	metrics  *identitymetrics.Metrics
	now      func() time.Time
}

// NewPurger builds a purger. m may be nil.
func NewPurger(store Expirer, interval time.Duration, logger *slog.Logger, m *identitymetrics.Metrics) *Purger {
	return &Purger{
		store:    store,
		interval: interval,
		logger:   logger,
		metrics:  m,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Run purges on every tick until ctx is cancelled. A failed pass is logged and
// retried on the next tick.
func (p *Purger) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := p.RunOnce(ctx); err != nil {
				p.logger.ErrorContext(ctx, "purge expired identities failed", "error", err)
			}
		}
	}
}

// RunOnce performs a single purge pass.
func (p *Purger) RunOnce(ctx context.Context) (int, error) {
	n, err := p.store.PurgeExpired(ctx, p.now())
	if err != nil {
		return 0, err
	}
	p.metrics.AddPurged(n)
	if n > 0 {
		p.logger.InfoContext(ctx, "purged expired identities", "count", n)
	}
	return n, nil
}
