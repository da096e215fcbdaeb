// Package metrics exports form engine events as Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures Prometheus metrics.
type Option func(*options)

type options struct {
	namespace  string
	registerer prometheus.Registerer
	buckets    []float64
}

// WithNamespace overrides the metric name prefix. Defaults to "frontier".
func WithNamespace(namespace string) Option {
	return func(o *options) {
		o.namespace = namespace
	}
}

// WithRegisterer registers the collectors somewhere other than the default
// registry.
func WithRegisterer(registerer prometheus.Registerer) Option {
	return func(o *options) {
		if registerer != nil {
			o.registerer = registerer
		}
	}
}

// WithBuckets sets the submit duration histogram buckets.
func WithBuckets(buckets ...float64) Option {
	return func(o *options) {
		o.buckets = append([]float64(nil), buckets...)
	}
}

// Prometheus implements form.Metrics.
type Prometheus struct {
	submits  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	changes  *prometheus.CounterVec
}

// New creates and registers the collectors.
func New(opts ...Option) (*Prometheus, error) {
	cfg := options{
		namespace:  "frontier",
		registerer: prometheus.DefaultRegisterer,
		buckets:    prometheus.DefBuckets,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	p := &Prometheus{
		submits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.namespace,
				Name:      "submit_total",
				Help:      "Form submissions by operation and outcome.",
			},
			[]string{"operation", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.namespace,
				Name:      "submit_duration_seconds",
				Help:      "Time from submit to transport resolution.",
				Buckets:   cfg.buckets,
			},
			[]string{"operation", "outcome"},
		),
		changes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.namespace,
				Name:      "field_changes_total",
				Help:      "Field value changes by operation.",
			},
			[]string{"operation"},
		),
	}

	for _, collector := range []prometheus.Collector{p.submits, p.duration, p.changes} {
		if err := cfg.registerer.Register(collector); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// MustNew panics when registration fails.
func MustNew(opts ...Option) *Prometheus {
	p, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// SubmitObserved records a submit outcome.
func (p *Prometheus) SubmitObserved(operation, outcome string, elapsed time.Duration) {
	p.submits.WithLabelValues(operation, outcome).Inc()
	p.duration.WithLabelValues(operation, outcome).Observe(elapsed.Seconds())
}

// FieldChanged records a value change.
func (p *Prometheus) FieldChanged(operation string) {
	p.changes.WithLabelValues(operation).Inc()
}
