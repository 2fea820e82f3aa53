package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML configuration file at path, layers it over the
// defaults, applies environment variable overrides, and validates the
// result.
//
// Environment variables follow the naming convention CADUCEUS_SECTION_FIELD
// (e.g. CADUCEUS_SERVER_LISTEN_ADDRESS) and always take precedence over
// file-based configuration.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault behaves like Load but falls back to the default
// configuration (plus environment overrides) when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		applyEnvOverrides(cfg)
		if err := Validate(cfg); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
		return cfg, nil
	}
	return Load(path)
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Unparseable values are ignored in favor of the configured
// value.
func applyEnvOverrides(cfg *Config) {
	// Server overrides
	if val := os.Getenv("CADUCEUS_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("CADUCEUS_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("CADUCEUS_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if val := os.Getenv("CADUCEUS_SERVER_SHUTDOWN_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ShutdownTimeout = d
		}
	}
	if val := os.Getenv("CADUCEUS_SERVER_MAX_BODY_BYTES"); val != "" {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Server.MaxBodyBytes = n
		}
	}

	// Storage overrides
	if val := os.Getenv("CADUCEUS_STORAGE_PATH"); val != "" {
		cfg.Storage.Path = val
	}
	if val := os.Getenv("CADUCEUS_STORAGE_BUSY_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Storage.BusyTimeout = d
		}
	}

	// Signing overrides
	if val := os.Getenv("CADUCEUS_SIGNING_KEY_NAME"); val != "" {
		cfg.Signing.KeyName = val
	}
	if val := os.Getenv("CADUCEUS_SIGNING_KEY_PATH"); val != "" {
		cfg.Signing.KeyPath = val
	}
	if val := os.Getenv("CADUCEUS_SIGNING_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Signing.Timeout = d
		}
	}

	// Integrity overrides
	if val := os.Getenv("CADUCEUS_INTEGRITY_SCHEDULE"); val != "" {
		cfg.Integrity.Schedule = val
	}

	// Telemetry overrides
	if val := os.Getenv("CADUCEUS_LOG_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("CADUCEUS_LOG_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
}
