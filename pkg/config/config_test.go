package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pfs-obs/blackout/pkg/redact"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfigFile(t, "{}\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Input.Dir != "." || cfg.Output.Dir != "." {
		t.Errorf("input/output dirs = %q/%q, want ./.", cfg.Input.Dir, cfg.Output.Dir)
	}
	if cfg.Masking.Strategy != "hashed" {
		t.Errorf("masking strategy = %q, want hashed", cfg.Masking.Strategy)
	}
	if cfg.Audit.Path != "data/audit.db" {
		t.Errorf("audit path = %q, want data/audit.db", cfg.Audit.Path)
	}
	if cfg.Audit.BusyTimeout != 5*time.Second {
		t.Errorf("audit busy timeout = %v, want 5s", cfg.Audit.BusyTimeout)
	}
	if cfg.Telemetry.Logging.Level != "info" || cfg.Telemetry.Logging.Format != "json" {
		t.Errorf("logging = %q/%q, want info/json",
			cfg.Telemetry.Logging.Level, cfg.Telemetry.Logging.Format)
	}
	if cfg.Telemetry.Metrics.ListenAddress != "127.0.0.1:9090" {
		t.Errorf("metrics listen address = %q", cfg.Telemetry.Metrics.ListenAddress)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("watch debounce = %v, want 500ms", cfg.Watch.Debounce)
	}
	if !cfg.AuditEnabled() {
		t.Error("AuditEnabled() = false, want true by default")
	}
	if !cfg.MetricsEnabled() {
		t.Error("MetricsEnabled() = false, want true by default")
	}
}

func TestLoadConfig_FullFile(t *testing.T) {
	path := writeConfigFile(t, `
input:
  dir: /data/in
output:
  dir: /data/out
masking:
  strategy: negate-fiber
  cat_id_override: 8000
  filter_fill: hidden
  overrides:
    proposal_id: REDACTED
    tract: -2
workers: 4
audit:
  enabled: false
  path: /var/lib/blackout/audit.db
telemetry:
  logging:
    level: debug
    format: text
  metrics:
    enabled: false
watch:
  debounce: 2s
  rescan_schedule: "*/5 * * * *"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Input.Dir != "/data/in" || cfg.Output.Dir != "/data/out" {
		t.Errorf("dirs = %q/%q", cfg.Input.Dir, cfg.Output.Dir)
	}
	if cfg.Masking.Strategy != "negate-fiber" {
		t.Errorf("strategy = %q", cfg.Masking.Strategy)
	}
	if cfg.Masking.CatIDOverride == nil || *cfg.Masking.CatIDOverride != 8000 {
		t.Errorf("cat_id_override = %v, want 8000", cfg.Masking.CatIDOverride)
	}
	if cfg.Workers != 4 {
		t.Errorf("workers = %d, want 4", cfg.Workers)
	}
	if cfg.AuditEnabled() {
		t.Error("AuditEnabled() = true, want false")
	}
	if cfg.MetricsEnabled() {
		t.Error("MetricsEnabled() = true, want false")
	}
	if cfg.Watch.Debounce != 2*time.Second {
		t.Errorf("debounce = %v, want 2s", cfg.Watch.Debounce)
	}
	if cfg.Watch.RescanSchedule != "*/5 * * * *" {
		t.Errorf("rescan schedule = %q", cfg.Watch.RescanSchedule)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("LoadConfig() = nil, want error for missing file")
	}
}

func TestLoadConfigWithEnvOverrides_MissingFileOK(t *testing.T) {
	cfg, err := LoadConfigWithEnvOverrides(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error: %v", err)
	}
	if cfg.Masking.Strategy != "hashed" {
		t.Errorf("strategy = %q, want hashed defaults", cfg.Masking.Strategy)
	}
}

func TestLoadConfigWithEnvOverrides_Precedence(t *testing.T) {
	path := writeConfigFile(t, `
input:
  dir: /from-file
masking:
  salt: file-salt
workers: 2
`)

	t.Setenv("BLACKOUT_INPUT_DIR", "/from-env")
	t.Setenv("BLACKOUT_MASKING_SALT", "env-salt")
	t.Setenv("BLACKOUT_WORKERS", "8")
	t.Setenv("BLACKOUT_AUDIT_ENABLED", "false")
	t.Setenv("BLACKOUT_TELEMETRY_LOGGING_LEVEL", "warn")
	t.Setenv("BLACKOUT_WATCH_DEBOUNCE", "3s")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error: %v", err)
	}

	if cfg.Input.Dir != "/from-env" {
		t.Errorf("input dir = %q, want /from-env", cfg.Input.Dir)
	}
	if cfg.Masking.Salt != "env-salt" {
		t.Errorf("salt = %q, want env-salt", cfg.Masking.Salt)
	}
	if cfg.Workers != 8 {
		t.Errorf("workers = %d, want 8", cfg.Workers)
	}
	if cfg.AuditEnabled() {
		t.Error("AuditEnabled() = true, want false via env")
	}
	if cfg.Telemetry.Logging.Level != "warn" {
		t.Errorf("logging level = %q, want warn", cfg.Telemetry.Logging.Level)
	}
	if cfg.Watch.Debounce != 3*time.Second {
		t.Errorf("debounce = %v, want 3s", cfg.Watch.Debounce)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:   "valid defaults",
			mutate: func(cfg *Config) {},
		},
		{
			name: "unknown strategy",
			mutate: func(cfg *Config) {
				cfg.Masking.Strategy = "rot13"
			},
			wantField: "masking.strategy",
		},
		{
			name: "unknown flux field",
			mutate: func(cfg *Config) {
				cfg.Masking.FluxFields = []string{"fiberFlux", "bogusFlux"}
			},
			wantField: "masking.flux_fields",
		},
		{
			name: "negative workers",
			mutate: func(cfg *Config) {
				cfg.Workers = -1
			},
			wantField: "workers",
		},
		{
			name: "unknown log level",
			mutate: func(cfg *Config) {
				cfg.Telemetry.Logging.Level = "trace"
			},
			wantField: "telemetry.logging.level",
		},
		{
			name: "unknown log format",
			mutate: func(cfg *Config) {
				cfg.Telemetry.Logging.Format = "xml"
			},
			wantField: "telemetry.logging.format",
		},
		{
			name: "metrics path without slash",
			mutate: func(cfg *Config) {
				cfg.Telemetry.Metrics.Path = "metrics"
			},
			wantField: "telemetry.metrics.path",
		},
		{
			name: "negative debounce",
			mutate: func(cfg *Config) {
				cfg.Watch.Debounce = -time.Second
			},
			wantField: "watch.debounce",
		},
		{
			name: "bad cron expression",
			mutate: func(cfg *Config) {
				cfg.Watch.RescanSchedule = "not a schedule"
			},
			wantField: "watch.rescan_schedule",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			ApplyDefaults(&cfg)
			tt.mutate(&cfg)

			err := Validate(&cfg)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() error: %v", err)
				}
				return
			}
			valErr, ok := err.(ValidationError)
			if !ok {
				t.Fatalf("Validate() = %v, want ValidationError", err)
			}
			found := false
			for _, fe := range valErr.Errors {
				if fe.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("ValidationError missing field %q: %v", tt.wantField, valErr)
			}
		})
	}
}

func TestMaskingConfigPolicy(t *testing.T) {
	tract := int32(-5)
	proposal := "REDACTED"

	m := MaskingConfig{
		Strategy:      "negate-fiber",
		CatIDOverride: ptrInt32(8000),
		FluxFields:    []string{"fiberFlux", "psfFlux"},
		FilterFill:    "hidden",
		Overrides: OverridesConfig{
			Tract:      &tract,
			ProposalID: &proposal,
		},
	}

	p, err := m.Policy()
	if err != nil {
		t.Fatalf("Policy() error: %v", err)
	}

	if p.Strategy != redact.ObjIDNegateFiber {
		t.Errorf("strategy = %q, want negate-fiber", p.Strategy)
	}
	if p.CatIDOverride != 8000 {
		t.Errorf("CatIDOverride = %d, want 8000", p.CatIDOverride)
	}
	if len(p.FluxFields) != 2 || p.FluxFields[0] != redact.FluxFiber || p.FluxFields[1] != redact.FluxPsf {
		t.Errorf("FluxFields = %v", p.FluxFields)
	}
	if p.FilterFill != "hidden" {
		t.Errorf("FilterFill = %q, want hidden", p.FilterFill)
	}
	if p.Overrides.Tract != -5 {
		t.Errorf("Overrides.Tract = %d, want -5", p.Overrides.Tract)
	}
	if p.Overrides.ProposalID != "REDACTED" {
		t.Errorf("Overrides.ProposalID = %q, want REDACTED", p.Overrides.ProposalID)
	}
	// Unset fields keep canonical defaults.
	if p.Overrides.Patch != "-1,-1" {
		t.Errorf("Overrides.Patch = %q, want -1,-1", p.Overrides.Patch)
	}
	if !math.IsNaN(p.FluxFill) {
		t.Errorf("FluxFill = %v, want NaN", p.FluxFill)
	}
}

func TestMaskingConfigPolicy_UnknownFluxField(t *testing.T) {
	m := MaskingConfig{FluxFields: []string{"bogusFlux"}}
	if _, err := m.Policy(); err == nil {
		t.Fatal("Policy() = nil, want error for unknown flux field")
	}
}

func ptrInt32(v int32) *int32 { return &v }
