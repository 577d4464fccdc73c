package ports

// Registration outcome labels reported to MetricsReporter.
const (
	OutcomeAccepted       = "accepted"
	OutcomeExpired        = "expired"
	OutcomeRejected       = "rejected"
	OutcomeMalformed      = "malformed"
	OutcomeTransportError = "transport_error"
)

// MetricsReporter receives registration outcome signals. Implementations
// must be safe for concurrent use.
type MetricsReporter interface {
	// RecordRegistration records one completed registration attempt
	// with its outcome label and duration in seconds.
	RecordRegistration(outcome string, seconds float64)
}

// NoopMetrics discards all metrics. It is the default reporter.
type NoopMetrics struct{}

// RecordRegistration implements MetricsReporter.
func (NoopMetrics) RecordRegistration(string, float64) {}
