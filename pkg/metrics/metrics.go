// Package metrics exports check outcomes as Prometheus series.
package metrics

import (
	schemachecker "github.com/bpkcongli/schema-checker"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector turns check events into Prometheus metrics.
type Collector struct {
	checks     *prometheus.CounterVec
	violations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// New creates an unregistered Collector.
func New() *Collector {
	return &Collector{
		checks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "schemachecker_checks_total",
				Help: "Total number of payload checks by stage and result",
			},
			[]string{"schema", "stage", "result"},
		),
		violations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "schemachecker_violations_total",
				Help: "Total number of failed checks by error code and field",
			},
			[]string{"schema", "code", "field"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "schemachecker_check_duration_seconds",
				Help:    "Duration of payload checks",
				Buckets: prometheus.ExponentialBuckets(1e-7, 10, 7),
			},
			[]string{"stage"},
		),
	}
}

// Register adds the collector's metrics to reg.
func (c *Collector) Register(reg prometheus.Registerer) error {
	for _, col := range []prometheus.Collector{c.checks, c.violations, c.duration} {
		if err := reg.Register(col); err != nil {
			return err
		}
	}
	return nil
}

// Hooks returns checker hooks that feed the collector.
func (c *Collector) Hooks() schemachecker.Hooks {
	return schemachecker.Hooks{OnCheck: c.Observe}
}

// Observe records a single check event.
func (c *Collector) Observe(e *schemachecker.CheckEvent) {
	result := "pass"
	if !e.Passed() {
		result = "fail"
		c.violations.WithLabelValues(e.Checker, string(e.Code), e.Field).Inc()
	}
	c.checks.WithLabelValues(e.Checker, string(e.Stage), result).Inc()
	c.duration.WithLabelValues(string(e.Stage)).Observe(e.Duration.Seconds())
}
