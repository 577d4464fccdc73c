// Package metrics provides a Prometheus-based implementation of the
// registration metrics port.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sufield/dirreg/internal/core/ports"
)

var (
	registrationCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dirreg_registration_total",
		Help: "Total number of registration attempts by outcome",
	}, []string{"outcome"}) // outcome: accepted, expired, rejected, malformed, transport_error

	registrationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dirreg_registration_duration_seconds",
		Help:    "Duration of registration transactions",
		Buckets: prometheus.DefBuckets,
	})
)

// PrometheusMetrics implements ports.MetricsReporter using Prometheus.
type PrometheusMetrics struct{}

// NewPrometheusMetrics creates a new Prometheus metrics reporter.
func NewPrometheusMetrics() ports.MetricsReporter {
	return &PrometheusMetrics{}
}

// RecordRegistration records one completed registration attempt.
func (m *PrometheusMetrics) RecordRegistration(outcome string, seconds float64) {
	registrationCounter.WithLabelValues(outcome).Inc()
	registrationDuration.Observe(seconds)
}
