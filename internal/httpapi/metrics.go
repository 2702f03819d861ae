package httpapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	validations *prometheus.CounterVec
	violations  prometheus.Counter
	duration    prometheus.Histogram
}

// newMetrics registers the server's collectors on its own registry, so
// two servers in one process never fight over collector names.
func newMetrics(reg *prometheus.Registry) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		validations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "oneconfig_validations_total",
			Help: "Validation requests by outcome (valid, invalid, error).",
		}, []string{"outcome"}),
		violations: factory.NewCounter(prometheus.CounterOpts{
			Name: "oneconfig_violations_total",
			Help: "Total number of violations reported to clients.",
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "oneconfig_validation_duration_seconds",
			Help:    "Time spent validating one document.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
