package config

import (
	"fmt"
	"time"

	"pfs-obs/blackout/pkg/redact"
)

// Config is the root configuration for the blackout tool.
type Config struct {
	// Input configures where source fiber configurations are read from.
	Input InputConfig `yaml:"input"`

	// Output configures where redacted copies are written.
	Output OutputConfig `yaml:"output"`

	// Masking configures the masking policy.
	Masking MaskingConfig `yaml:"masking"`

	// Workers bounds how many proposals are redacted concurrently.
	// Zero means one worker per CPU.
	Workers int `yaml:"workers"`

	// Audit configures the SQLite audit trail.
	Audit AuditConfig `yaml:"audit"`

	// Telemetry configures logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Watch configures watch mode.
	Watch WatchConfig `yaml:"watch"`
}

// InputConfig configures the input location.
type InputConfig struct {
	// Dir is the directory source fiber configurations are read from.
	Dir string `yaml:"dir"`
}

// OutputConfig configures the output location.
type OutputConfig struct {
	// Dir is the directory redacted copies are written to.
	Dir string `yaml:"dir"`
}

// MaskingConfig configures the masking policy. Unset fields fall back to the
// canonical policy defaults; pointer fields distinguish "not set" from an
// intentional zero.
type MaskingConfig struct {
	// Strategy selects the object ID derivation: "hashed" or
	// "negate-fiber".
	Strategy string `yaml:"strategy"`

	// Salt is the secret salt for the hashed strategy. Prefer the
	// BLACKOUT_MASKING_SALT environment variable over the file.
	Salt string `yaml:"salt"`

	// CatIDOverride is the catalog ID written to masked fibers.
	CatIDOverride *int32 `yaml:"cat_id_override"`

	// FluxFields lists the flux columns to fill-replace (datamodel names,
	// e.g. "fiberFlux"). Empty means all six.
	FluxFields []string `yaml:"flux_fields"`

	// FilterFill is the token written to masked filter names.
	FilterFill string `yaml:"filter_fill"`

	// Overrides customizes individual field-override values.
	Overrides OverridesConfig `yaml:"overrides"`
}

// OverridesConfig customizes the per-field replacement values for masked
// fibers. Nil fields keep the canonical defaults.
type OverridesConfig struct {
	Tract      *int32   `yaml:"tract"`
	Patch      *string  `yaml:"patch"`
	RA         *float64 `yaml:"ra"`
	Dec        *float64 `yaml:"dec"`
	PMRA       *float64 `yaml:"pm_ra"`
	PMDec      *float64 `yaml:"pm_dec"`
	Parallax   *float64 `yaml:"parallax"`
	ProposalID *string  `yaml:"proposal_id"`
	ObCode     *string  `yaml:"ob_code"`
}

// AuditConfig configures the audit trail.
type AuditConfig struct {
	// Enabled turns the audit trail on. Default: true.
	Enabled *bool `yaml:"enabled"`

	// Path is the SQLite database file path.
	Path string `yaml:"path"`

	// BusyTimeout is the SQLite busy timeout.
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// TelemetryConfig configures logging and metrics.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	Level string `yaml:"level"`

	// Format is the output format ("json", "text").
	Format string `yaml:"format"`

	// AddSource includes file and line number in logs.
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig configures the Prometheus endpoint served in watch mode.
type MetricsConfig struct {
	// Enabled turns the metrics endpoint on in watch mode. Default: true.
	Enabled *bool `yaml:"enabled"`

	// ListenAddress is the address the metrics server binds in watch mode.
	ListenAddress string `yaml:"listen_address"`

	// Path is the HTTP path metrics are served at.
	Path string `yaml:"path"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	// Debounce is how long to wait after a file event before processing,
	// so partially written files settle first.
	Debounce time.Duration `yaml:"debounce"`

	// RescanSchedule is an optional cron expression for periodically
	// rescanning the input directory. Catches files that arrive without
	// file system events (e.g. on network mounts). Empty disables it.
	RescanSchedule string `yaml:"rescan_schedule"`
}

// fluxFieldNames maps datamodel column names to flux field tags.
var fluxFieldNames = map[string]redact.FluxField{
	"fiberFlux":    redact.FluxFiber,
	"psfFlux":      redact.FluxPsf,
	"totalFlux":    redact.FluxTotal,
	"fiberFluxErr": redact.FluxFiberErr,
	"psfFluxErr":   redact.FluxPsfErr,
	"totalFluxErr": redact.FluxTotalErr,
}

// Policy builds the masking policy from the configuration: the canonical
// defaults with any configured overrides applied. The returned policy still
// goes through redact.New's validation.
func (m *MaskingConfig) Policy() (redact.MaskingPolicy, error) {
	p := redact.DefaultPolicy()

	if m.Strategy != "" {
		p.Strategy = redact.ObjIDStrategy(m.Strategy)
	}
	p.Salt = m.Salt

	if m.CatIDOverride != nil {
		p.CatIDOverride = *m.CatIDOverride
	}
	if m.FilterFill != "" {
		p.FilterFill = m.FilterFill
	}
	if len(m.FluxFields) > 0 {
		fields := make([]redact.FluxField, 0, len(m.FluxFields))
		for _, name := range m.FluxFields {
			f, ok := fluxFieldNames[name]
			if !ok {
				return redact.MaskingPolicy{}, fmt.Errorf("unknown flux field %q", name)
			}
			fields = append(fields, f)
		}
		p.FluxFields = fields
	}

	ov := m.Overrides
	if ov.Tract != nil {
		p.Overrides.Tract = *ov.Tract
	}
	if ov.Patch != nil {
		p.Overrides.Patch = *ov.Patch
	}
	if ov.RA != nil {
		p.Overrides.RA = *ov.RA
	}
	if ov.Dec != nil {
		p.Overrides.Dec = *ov.Dec
	}
	if ov.PMRA != nil {
		p.Overrides.PMRA = *ov.PMRA
	}
	if ov.PMDec != nil {
		p.Overrides.PMDec = *ov.PMDec
	}
	if ov.Parallax != nil {
		p.Overrides.Parallax = *ov.Parallax
	}
	if ov.ProposalID != nil {
		p.Overrides.ProposalID = *ov.ProposalID
	}
	if ov.ObCode != nil {
		p.Overrides.ObCode = *ov.ObCode
	}

	return p, nil
}

// AuditEnabled reports whether the audit trail is on.
func (c *Config) AuditEnabled() bool {
	return c.Audit.Enabled == nil || *c.Audit.Enabled
}

// MetricsEnabled reports whether the metrics endpoint is on.
func (c *Config) MetricsEnabled() bool {
	return c.Telemetry.Metrics.Enabled == nil || *c.Telemetry.Metrics.Enabled
}
