package config

import (
	"os"
	"path/filepath"
	"testing"
)

// --- DefaultConfig ---

func TestDefaultConfig_SetsDefaults(t *testing.T) {
	cfg := DefaultConfig()

	if filepath.Base(cfg.DataDir) != ".eudoxa" {
		t.Errorf("DataDir = %s, want ~/.eudoxa", cfg.DataDir)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %s, want info", cfg.Log.Level)
	}
	if cfg.Metrics.Addr != "" {
		t.Errorf("Metrics.Addr = %s, want empty", cfg.Metrics.Addr)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

// --- Load ---

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %s, want info", cfg.Log.Level)
	}
	if cfg.Closure.MaxPasses != 0 {
		t.Errorf("Closure.MaxPasses = %d, want 0", cfg.Closure.MaxPasses)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("EUDOXA_DATA_DIR", dir)
	t.Setenv("EUDOXA_LOG_LEVEL", "debug")
	t.Setenv("EUDOXA_METRICS_ADDR", "127.0.0.1:9464")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DataDir != dir {
		t.Errorf("DataDir = %s, want %s", cfg.DataDir, dir)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %s, want debug", cfg.Log.Level)
	}
	if cfg.Metrics.Addr != "127.0.0.1:9464" {
		t.Errorf("Metrics.Addr = %s, want 127.0.0.1:9464", cfg.Metrics.Addr)
	}
}

func TestLoad_TOMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "eudoxa.toml")
	content := `data_dir = "` + filepath.ToSlash(dir) + `"

[log]
level = "warn"
json = true

[closure]
max_passes = 12
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.Log.JSON {
		t.Error("Log.JSON should be true")
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %s, want warn", cfg.Log.Level)
	}
	if cfg.Closure.MaxPasses != 12 {
		t.Errorf("Closure.MaxPasses = %d, want 12", cfg.Closure.MaxPasses)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "eudoxa.yaml")
	content := "log:\n  level: error\nmetrics:\n  addr: \":9000\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("Log.Level = %s, want error", cfg.Log.Level)
	}
	if cfg.Metrics.Addr != ":9000" {
		t.Errorf("Metrics.Addr = %s, want :9000", cfg.Metrics.Addr)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoad_InvalidLevel(t *testing.T) {
	t.Setenv("EUDOXA_LOG_LEVEL", "chatty")
	_, err := Load("")
	if err == nil {
		t.Fatal("expected validation error for log level")
	}
}

// --- Validate ---

func TestValidate_NegativePasses(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Closure.MaxPasses = -1
	if err := cfg.Validate(); err == nil {
		t.Error("negative max_passes should fail validation")
	}
}

func TestValidate_EmptyDataDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = " "
	if err := cfg.Validate(); err == nil {
		t.Error("empty data_dir should fail validation")
	}
}
