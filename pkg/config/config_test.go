package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestDefault tests the default configuration values.
func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.ListenAddress != "127.0.0.1:8080" {
		t.Errorf("ListenAddress = %q", cfg.Server.ListenAddress)
	}
	if cfg.Server.ShutdownTimeout != 30*time.Second {
		t.Errorf("ShutdownTimeout = %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Storage.Path != "data/records.db" {
		t.Errorf("Storage.Path = %q", cfg.Storage.Path)
	}
	if !cfg.Storage.WALMode {
		t.Error("WALMode should default to true")
	}
	if cfg.Signing.KeyName != "dfx_test_key" {
		t.Errorf("Signing.KeyName = %q", cfg.Signing.KeyName)
	}
	if cfg.Signing.Timeout != 10*time.Second {
		t.Errorf("Signing.Timeout = %v", cfg.Signing.Timeout)
	}
	if cfg.Telemetry.Logging.Level != "info" || cfg.Telemetry.Logging.Format != "json" {
		t.Errorf("Logging defaults = %q/%q", cfg.Telemetry.Logging.Level, cfg.Telemetry.Logging.Format)
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("Metrics.Enabled should default to true")
	}
	if cfg.Telemetry.Metrics.Path != "/metrics" {
		t.Errorf("Metrics.Path = %q", cfg.Telemetry.Metrics.Path)
	}

	if err := Validate(cfg); err != nil {
		t.Errorf("Default configuration failed validation: %v", err)
	}
}

// TestLoad tests layering a YAML file over the defaults.
func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  listen_address: "0.0.0.0:9090"
storage:
  path: "/var/lib/caduceus/records.db"
signing:
  key_name: "prod_key"
telemetry:
  logging:
    level: "debug"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:9090" {
		t.Errorf("ListenAddress = %q", cfg.Server.ListenAddress)
	}
	if cfg.Storage.Path != "/var/lib/caduceus/records.db" {
		t.Errorf("Storage.Path = %q", cfg.Storage.Path)
	}
	if cfg.Signing.KeyName != "prod_key" {
		t.Errorf("Signing.KeyName = %q", cfg.Signing.KeyName)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", cfg.Telemetry.Logging.Level)
	}

	// Unspecified fields keep their defaults.
	if cfg.Server.ShutdownTimeout != 30*time.Second {
		t.Errorf("ShutdownTimeout = %v, want default 30s", cfg.Server.ShutdownTimeout)
	}
	if !cfg.Storage.WALMode {
		t.Error("WALMode should keep its default when unspecified")
	}
}

// TestLoad_Errors tests missing and malformed files.
func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load() succeeded for a missing file")
	}

	badPath := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(badPath, []byte("server: [not a mapping"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if _, err := Load(badPath); err == nil {
		t.Error("Load() succeeded for malformed YAML")
	}
}

// TestLoadOrDefault tests the missing-file fallback.
func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault() failed: %v", err)
	}
	if cfg.Server.ListenAddress != "127.0.0.1:8080" {
		t.Errorf("ListenAddress = %q, want default", cfg.Server.ListenAddress)
	}
}

// TestEnvOverrides tests that environment variables beat file values.
func TestEnvOverrides(t *testing.T) {
	t.Setenv("CADUCEUS_SERVER_LISTEN_ADDRESS", "127.0.0.1:7777")
	t.Setenv("CADUCEUS_STORAGE_PATH", "/tmp/test.db")
	t.Setenv("CADUCEUS_SIGNING_TIMEOUT", "3s")
	t.Setenv("CADUCEUS_LOG_LEVEL", "warn")

	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault() failed: %v", err)
	}

	if cfg.Server.ListenAddress != "127.0.0.1:7777" {
		t.Errorf("ListenAddress = %q", cfg.Server.ListenAddress)
	}
	if cfg.Storage.Path != "/tmp/test.db" {
		t.Errorf("Storage.Path = %q", cfg.Storage.Path)
	}
	if cfg.Signing.Timeout != 3*time.Second {
		t.Errorf("Signing.Timeout = %v", cfg.Signing.Timeout)
	}
	if cfg.Telemetry.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q", cfg.Telemetry.Logging.Level)
	}
}

// TestValidate tests rejection of inconsistent configurations.
func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty listen address", func(c *Config) { c.Server.ListenAddress = "" }},
		{"listen address without port", func(c *Config) { c.Server.ListenAddress = "localhost" }},
		{"zero shutdown timeout", func(c *Config) { c.Server.ShutdownTimeout = 0 }},
		{"zero max body bytes", func(c *Config) { c.Server.MaxBodyBytes = 0 }},
		{"empty storage path", func(c *Config) { c.Storage.Path = "" }},
		{"empty key name", func(c *Config) { c.Signing.KeyName = "" }},
		{"zero signing timeout", func(c *Config) { c.Signing.Timeout = 0 }},
		{"watch without key path", func(c *Config) { c.Signing.WatchKey = true; c.Signing.KeyPath = "" }},
		{"bad log level", func(c *Config) { c.Telemetry.Logging.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Telemetry.Logging.Format = "xml" }},
		{"relative metrics path", func(c *Config) { c.Telemetry.Metrics.Path = "metrics" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Error("Validate() accepted an invalid configuration")
			}
		})
	}
}
