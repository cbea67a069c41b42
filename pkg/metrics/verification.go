package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Verification outcomes. Idempotent short-circuits are reported separately
// from fresh successes so duplicate-delivery volume stays visible.
const (
	OutcomeVerified        = "verified"
	OutcomeAlreadyVerified = "already_verified"
	OutcomeFailed          = "failed"
)

// VerificationMetrics records purchase verification attempts per outcome.
type VerificationMetrics struct {
	duration *prometheus.HistogramVec
	outcomes *prometheus.CounterVec
}

// NewVerificationMetrics registers the verification metrics on the provided registerer.
func NewVerificationMetrics(reg prometheus.Registerer) *VerificationMetrics {
	if reg == nil {
		return &VerificationMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "purchase_verification_duration_seconds",
		Help:    "Duration of purchase verification attempts in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"purchase_type"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "purchase_verification_total",
		Help: "Purchase verification attempts by purchase type and outcome.",
	}, []string{"purchase_type", "outcome"})
	reg.MustRegister(duration, outcomes)
	return &VerificationMetrics{
		duration: duration,
		outcomes: outcomes,
	}
}

// ObserveDuration records the duration of one verification attempt.
func (m *VerificationMetrics) ObserveDuration(purchaseType string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(purchaseType)).Observe(duration.Seconds())
}

// IncOutcome counts one verification attempt with its outcome.
func (m *VerificationMetrics) IncOutcome(purchaseType, outcome string) {
	if m == nil || m.outcomes == nil {
		return
	}
	m.outcomes.WithLabelValues(normalizeLabel(purchaseType), normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return "unknown"
	}
	return value
}
