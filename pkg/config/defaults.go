package config

import "time"

// Default values for configuration fields.
const (
	// Input/output defaults
	DefaultInputDir  = "."
	DefaultOutputDir = "."

	// Masking defaults
	DefaultMaskingStrategy = "hashed"

	// Audit defaults
	DefaultAuditPath        = "data/audit.db"
	DefaultAuditBusyTimeout = 5 * time.Second

	// Telemetry defaults
	DefaultLoggingLevel      = "info"
	DefaultLoggingFormat     = "json"
	DefaultMetricsListenAddr = "127.0.0.1:9090"
	DefaultMetricsPath       = "/metrics"

	// Watch defaults
	DefaultWatchDebounce = 500 * time.Millisecond
)

// ApplyDefaults applies default values to a Config struct. It sets defaults
// for any fields that have zero values. This function is idempotent and safe
// to call multiple times.
func ApplyDefaults(cfg *Config) {
	if cfg.Input.Dir == "" {
		cfg.Input.Dir = DefaultInputDir
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = DefaultOutputDir
	}

	if cfg.Masking.Strategy == "" {
		cfg.Masking.Strategy = DefaultMaskingStrategy
	}

	if cfg.Audit.Path == "" {
		cfg.Audit.Path = DefaultAuditPath
	}
	if cfg.Audit.BusyTimeout == 0 {
		cfg.Audit.BusyTimeout = DefaultAuditBusyTimeout
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.ListenAddress == "" {
		cfg.Telemetry.Metrics.ListenAddress = DefaultMetricsListenAddr
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}
}
