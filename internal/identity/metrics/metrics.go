package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the identity module.
type Metrics struct {
	// Store round-trips by operation
	StoreLatency *prometheus.HistogramVec

	// Lifecycle transitions: created, patched, closed
	IdentityTransitions *prometheus.CounterVec

	// Validation rejections by flow
	ValidationRejected *prometheus.CounterVec

	// Notification publishes by kind and outcome
	NotificationsPublished *prometheus.CounterVec

	// 1 while the notification circuit is open
	NotifyCircuitOpen prometheus.Gauge

	// Identities removed by the purge worker
	IdentitiesPurged prometheus.Counter
}

// New registers the identity metrics on the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the identity metrics on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		StoreLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "digital_identity_store_duration_seconds",
			Help:    "Duration of document store operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),

		IdentityTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "digital_identity_transitions_total",
			Help: "Identity lifecycle transitions",
		}, []string{"transition"}), // transition: "created", "patched", "closed"

		ValidationRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "digital_identity_validation_rejected_total",
			Help: "Requests rejected by validation",
		}, []string{"flow"}),

		NotificationsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "digital_identity_notifications_total",
			Help: "Change notifications by kind and outcome",
		}, []string{"kind", "outcome"}), // outcome: "published", "failed", "skipped"

		NotifyCircuitOpen: factory.NewGauge(prometheus.GaugeOpts{
			Name: "digital_identity_notify_circuit_open",
			Help: "Whether the notification circuit breaker is open",
		}),

		IdentitiesPurged: factory.NewCounter(prometheus.CounterOpts{
			Name: "digital_identity_purged_total",
			Help: "Closed identities removed after their ttl elapsed",
		}),
	}
}

func (m *Metrics) ObserveStoreLatency(operation string, start time.Time) {
	if m != nil {
		m.StoreLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) IncrementTransition(transition string) {
	if m != nil {
		m.IdentityTransitions.WithLabelValues(transition).Inc()
	}
}

func (m *Metrics) IncrementValidationRejected(flow string) {
	if m != nil {
		m.ValidationRejected.WithLabelValues(flow).Inc()
	}
}

func (m *Metrics) IncrementNotification(kind, outcome string) {
	if m != nil {
		m.NotificationsPublished.WithLabelValues(kind, outcome).Inc()
	}
}

// SetNotifyCircuitOpen mirrors the breaker state.
func (m *Metrics) SetNotifyCircuitOpen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.NotifyCircuitOpen.Set(1)
		return
	}
	m.NotifyCircuitOpen.Set(0)
}

func (m *Metrics) AddPurged(n int) {
	if m != nil && n > 0 {
		m.IdentitiesPurged.Add(float64(n))
	}
}
