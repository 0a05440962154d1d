package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jpegtx.yml")
	raw := []byte(`tool: /usr/local/bin/jpegtran
max_memory: 32M
log_level: debug
log_format: json
workers: 3
recipe: archive
verify: true
`)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Tool != "/usr/local/bin/jpegtran" {
		t.Errorf("tool: got %q", cfg.Tool)
	}
	if cfg.MaxMemory != "32M" {
		t.Errorf("max_memory: got %q", cfg.MaxMemory)
	}
	if cfg.LogLevel != "debug" || cfg.LogFormat != "json" {
		t.Errorf("logging: got %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.Workers != 3 || cfg.Recipe != "archive" || !cfg.Verify {
		t.Errorf("batch: got workers=%d recipe=%q verify=%v", cfg.Workers, cfg.Recipe, cfg.Verify)
	}

	s := cfg.Settings()
	if s.Binary != cfg.Tool || s.MaxMemory != "32M" {
		t.Errorf("settings: got %+v", s)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jpegtx.yml")
	if err := os.WriteFile(path, []byte("max_memory: 32M\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("JPEGTX__MAX_MEMORY", "128M")
	t.Setenv("JPEGTX__WORKERS", "2")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxMemory != "128M" {
		t.Errorf("max_memory: got %q, want 128M", cfg.MaxMemory)
	}
	if cfg.Workers != 2 {
		t.Errorf("workers: got %d, want 2", cfg.Workers)
	}
}

func TestLoad_NamedFileMustExist(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yml")); err == nil {
		t.Fatal("expected error for a missing named config file")
	}
}

func TestLoadOptional_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadOptional(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Tool != "jpegtran" {
		t.Errorf("tool: got %q, want jpegtran", cfg.Tool)
	}
	if cfg.MaxMemory != "" {
		t.Errorf("max_memory: got %q, want empty", cfg.MaxMemory)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" || cfg.Recipe != "web" {
		t.Errorf("defaults: got %+v", cfg)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	if err := os.WriteFile(path, []byte("tool: [unclosed\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid yaml")
	}
}
