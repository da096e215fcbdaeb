package form

import "time"

// Submit outcomes reported to Metrics.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
	OutcomeInvalid   = "invalid"
	OutcomeBusy      = "busy"
)

// Metrics receives engine events. pkg/metrics provides a Prometheus
// implementation.
type Metrics interface {
	SubmitObserved(operation, outcome string, elapsed time.Duration)
	FieldChanged(operation string)
}

type nopMetrics struct{}

func (nopMetrics) SubmitObserved(string, string, time.Duration) {}
func (nopMetrics) FieldChanged(string)                          {}
