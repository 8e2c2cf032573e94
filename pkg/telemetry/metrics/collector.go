package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Config contains configuration for the metrics collector.
type Config struct {
	// Namespace is the prometheus namespace for all metrics.
	// Default: "blackout".
	Namespace string

	// RunDurationBuckets are the histogram buckets for redaction run
	// durations, in seconds.
	RunDurationBuckets []float64
}

// Collector owns the prometheus registry and all metric families for the
// blackout tool. It is exposed over HTTP only in watch mode; one-shot runs
// record metrics that are simply discarded at exit.
type Collector struct {
	config   *Config
	registry *prometheus.Registry

	redaction *RedactionMetrics
}

// NewCollector creates a metrics collector with the specified configuration
// and registry. If registry is nil, a fresh registry is used.
func NewCollector(cfg *Config, registry *prometheus.Registry) *Collector {
	if cfg == nil {
		cfg = &Config{}
	}
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = "blackout"
	}
	if len(cfg.RunDurationBuckets) == 0 {
		// A full record set is a few thousand fibers; runs are fast.
		cfg.RunDurationBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0}
	}

	return &Collector{
		config:    cfg,
		registry:  registry,
		redaction: NewRedactionMetrics(cfg, registry),
	}
}

// Redaction returns the redaction metric family.
func (c *Collector) Redaction() *RedactionMetrics {
	return c.redaction
}

// Registry returns the underlying prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
