package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Target != DefaultTarget {
		t.Errorf("Target = %q, expected %q", cfg.Target, DefaultTarget)
	}
	if cfg.ContinueOnError {
		t.Error("ContinueOnError should default to false (fail-fast)")
	}
	if cfg.Logging.RotationDays != 30 {
		t.Errorf("RotationDays = %d, expected 30", cfg.Logging.RotationDays)
	}
	if cfg.DatabasePath != "" || cfg.MetricsTextfile != "" {
		t.Error("history and metrics export should be disabled by default")
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
target: "-promo"
continue_on_error: true
database_path: /tmp/namescrub/../namescrub/history.db
metrics_textfile: /tmp/namescrub.prom
logging:
  rotation_days: 7
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Target != "-promo" {
		t.Errorf("Target = %q, expected -promo", cfg.Target)
	}
	if !cfg.ContinueOnError {
		t.Error("ContinueOnError should be true")
	}
	if cfg.DatabasePath != "/tmp/namescrub/history.db" {
		t.Errorf("DatabasePath = %q, expected cleaned path", cfg.DatabasePath)
	}
	if cfg.Logging.RotationDays != 7 {
		t.Errorf("RotationDays = %d, expected 7", cfg.Logging.RotationDays)
	}
}

func TestLoadEmptyFileUsesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Target != DefaultTarget {
		t.Errorf("Target = %q, expected default", cfg.Target)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"whitespace target", `target: "   "`, errEmptyTarget},
		{"separator in target", `target: "a/b"`, errTargetSeparator},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Load() error = %v, expected %v", err, tt.wantErr)
			}
		})
	}

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "target: [unterminated"))
		if err == nil || !strings.Contains(err.Error(), "decode yaml") {
			t.Errorf("Load() error = %v, expected decode error", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("Load() error = %v, expected not-exist", err)
		}
	})
}

func TestOverride(t *testing.T) {
	cfg := Default()
	if err := cfg.Override("[ad]", true); err != nil {
		t.Fatalf("Override failed: %v", err)
	}
	if cfg.Target != "[ad]" || !cfg.ContinueOnError {
		t.Errorf("Override not applied: %+v", cfg)
	}

	// Empty flag values keep what the file said
	if err := cfg.Override("", false); err != nil {
		t.Fatalf("Override failed: %v", err)
	}
	if cfg.Target != "[ad]" || !cfg.ContinueOnError {
		t.Errorf("Empty override should not reset values: %+v", cfg)
	}

	if err := cfg.Override("x/y", false); !errors.Is(err, errTargetSeparator) {
		t.Errorf("Override error = %v, expected %v", err, errTargetSeparator)
	}
}
