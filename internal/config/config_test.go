package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("DEBUG", "")
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.SampleData || cfg.ToastDuration != 3*time.Second || cfg.LogLevel != "info" || !cfg.Mouse {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if len(cfg.DefaultColumns) != 3 || cfg.DefaultColumns[1] != "In Progress" {
		t.Fatalf("unexpected default columns %v", cfg.DefaultColumns)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	t.Setenv("DEBUG", "")
	path := writeConfig(t, `
sample_data: false
default_columns: ["Backlog", "  ", "Doing", "Done"]
toast_duration: 5s
log_level: warn
mouse: false
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SampleData || cfg.Mouse {
		t.Fatalf("booleans not applied: %+v", cfg)
	}
	if cfg.ToastDuration != 5*time.Second {
		t.Fatalf("toast duration = %s", cfg.ToastDuration)
	}
	if strings.Join(cfg.DefaultColumns, ",") != "Backlog,Doing,Done" {
		t.Fatalf("blank titles should be dropped: %v", cfg.DefaultColumns)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	t.Setenv("DEBUG", "")
	tests := map[string]string{
		"zero toast":    "toast_duration: 0s\n",
		"bad level":     "log_level: loud\n",
		"no columns":    "sample_data: false\ndefault_columns: []\n",
		"malformed":     "sample_data: [\n",
		"blank columns": "sample_data: false\ndefault_columns: [\" \"]\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadFile(writeConfig(t, body)); err == nil {
				t.Fatalf("expected error for %q", body)
			}
		})
	}
}

func TestDebugEnvRaisesLevel(t *testing.T) {
	t.Setenv("DEBUG", "true")
	cfg, err := LoadFile(writeConfig(t, "log_level: warn\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected debug level, got %s", cfg.LogLevel)
	}
}

func TestPaths(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("KANBOARD_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", dir)
	path, err := Path()
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	if path != filepath.Join(dir, "kanboard", "config.yaml") {
		t.Fatalf("unexpected config path %s", path)
	}

	t.Setenv("KANBOARD_CONFIG", "/tmp/custom.yaml")
	if path, _ := Path(); path != "/tmp/custom.yaml" {
		t.Fatalf("env override ignored: %s", path)
	}

	t.Setenv("XDG_STATE_HOME", dir)
	cfg := Default()
	logPath, err := cfg.LogPath()
	if err != nil {
		t.Fatalf("log path: %v", err)
	}
	if logPath != filepath.Join(dir, "kanboard", "kanboard.log") {
		t.Fatalf("unexpected log path %s", logPath)
	}
	cfg.LogFile = "/var/tmp/kb.log"
	if logPath, _ := cfg.LogPath(); logPath != "/var/tmp/kb.log" {
		t.Fatalf("log_file override ignored: %s", logPath)
	}
}
