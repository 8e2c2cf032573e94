package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"DEBUG", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"ERROR", slog.LevelError, false},
		{"trace", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := parseLevel(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseLevel(%q) = %v, want error", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseLevel(%q) error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    LogFormat
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"JSON", FormatJSON, false},
		{"", FormatJSON, false},
		{"text", FormatText, false},
		{"xml", FormatJSON, true},
	}

	for _, tt := range tests {
		got, err := parseFormat(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseFormat(%q) = %v, want error", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseFormat(%q) error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseFormat(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer

	logger, err := New(Config{Level: "info", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	logger.Info("processing proposal", "proposal_id", "S25A-001QF")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v\n%s", err, buf.String())
	}
	if entry["msg"] != "processing proposal" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["proposal_id"] != "S25A-001QF" {
		t.Errorf("proposal_id = %v", entry["proposal_id"])
	}
}

func TestNew_TextOutput(t *testing.T) {
	var buf bytes.Buffer

	logger, err := New(Config{Level: "info", Format: "text", Writer: &buf})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	logger.Info("processing proposal")
	if !strings.Contains(buf.String(), "msg=\"processing proposal\"") {
		t.Errorf("unexpected text output: %s", buf.String())
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	logger, err := New(Config{Level: "warn", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	logger.Info("below threshold")
	if buf.Len() != 0 {
		t.Errorf("info entry emitted at warn level: %s", buf.String())
	}

	logger.Warn("at threshold")
	if buf.Len() == 0 {
		t.Error("warn entry not emitted at warn level")
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	if _, err := New(Config{Level: "trace"}); err == nil {
		t.Error("New() with bad level = nil, want error")
	}
	if _, err := New(Config{Format: "xml"}); err == nil {
		t.Error("New() with bad format = nil, want error")
	}
}
