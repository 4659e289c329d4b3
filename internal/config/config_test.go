package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPPort != DefaultHTTPPort || cfg.TickRate != DefaultTickRate || cfg.LogLevel != DefaultLogLevel {
		t.Fatalf("Load returned non-default config with no file present: %+v", cfg)
	}
}

func TestLoadReadsJSONFile(t *testing.T) {
	dir := t.TempDir()
	data := `{"httpPort": 9090, "tickRate": "250ms", "treePath": "trees/demo.yaml"}`
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(data), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPPort != 9090 {
		t.Errorf("HTTPPort = %d, want 9090", cfg.HTTPPort)
	}
	if cfg.TickRate != "250ms" {
		t.Errorf("TickRate = %q, want %q", cfg.TickRate, "250ms")
	}
	if cfg.TreePath != "trees/demo.yaml" {
		t.Errorf("TreePath = %q, want %q", cfg.TreePath, "trees/demo.yaml")
	}
	// LogLevel was absent from the file, so the default should still apply.
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel = %q, want default %q", cfg.LogLevel, DefaultLogLevel)
	}
}

func TestLoadMalformedJSONIsError(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	if _, err := Load(dir); err == nil {
		t.Fatal("Load with malformed JSON: want error, got nil")
	}
}

func TestEnvOverridesTakePrecedenceOverFile(t *testing.T) {
	dir := t.TempDir()
	data := `{"httpPort": 9090, "tickRate": "250ms"}`
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(data), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv("FIBRE_HTTP_PORT", "7000")
	t.Setenv("FIBRE_LOG_LEVEL", "debug")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPPort != 7000 {
		t.Errorf("HTTPPort = %d, want env override 7000", cfg.HTTPPort)
	}
	if cfg.TickRate != "250ms" {
		t.Errorf("TickRate = %q, want file value %q (no env override set)", cfg.TickRate, "250ms")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want env override %q", cfg.LogLevel, "debug")
	}
}
