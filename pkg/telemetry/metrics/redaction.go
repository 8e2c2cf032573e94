package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RedactionMetrics tracks metrics for redaction runs.
//
// Metrics:
//   - blackout_configs_processed_total: record sets redacted, by status
//   - blackout_proposals_emitted_total: proposal-scoped outputs produced
//   - blackout_fibers_total: fibers seen, by state (masked/unmasked)
//   - blackout_consistency_failures_total: invariant-check failures
//   - blackout_run_duration_seconds: redaction run duration histogram
type RedactionMetrics struct {
	configsProcessed    *prometheus.CounterVec
	proposalsEmitted    prometheus.Counter
	fibersTotal         *prometheus.CounterVec
	consistencyFailures prometheus.Counter
	runDuration         prometheus.Histogram
}

// NewRedactionMetrics creates and registers redaction metrics with the
// provided registry.
func NewRedactionMetrics(cfg *Config, registry *prometheus.Registry) *RedactionMetrics {
	m := &RedactionMetrics{
		configsProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "configs_processed_total",
				Help:      "Total number of fiber configuration record sets processed",
			},
			[]string{"status"},
		),

		proposalsEmitted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "proposals_emitted_total",
				Help:      "Total number of proposal-scoped redacted outputs produced",
			},
		),

		fibersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "fibers_total",
				Help:      "Total number of fibers seen across all proposal outputs",
			},
			[]string{"state"},
		),

		consistencyFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "consistency_failures_total",
				Help:      "Total number of post-masking invariant check failures",
			},
		),

		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "run_duration_seconds",
				Help:      "Duration of redaction runs in seconds",
				Buckets:   cfg.RunDurationBuckets,
			},
		),
	}

	registry.MustRegister(
		m.configsProcessed,
		m.proposalsEmitted,
		m.fibersTotal,
		m.consistencyFailures,
		m.runDuration,
	)

	return m
}

// RecordRun records a completed redaction run.
func (m *RedactionMetrics) RecordRun(duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.configsProcessed.WithLabelValues(status).Inc()
	m.runDuration.Observe(duration.Seconds())
}

// RecordProposal records one proposal-scoped output.
func (m *RedactionMetrics) RecordProposal(masked, unmasked int) {
	m.proposalsEmitted.Inc()
	m.fibersTotal.WithLabelValues("masked").Add(float64(masked))
	m.fibersTotal.WithLabelValues("unmasked").Add(float64(unmasked))
}

// RecordConsistencyFailure records an invariant-check failure.
func (m *RedactionMetrics) RecordConsistencyFailure() {
	m.consistencyFailures.Inc()
}
