package config

import (
	"fmt"
	"net"
	"strings"
)

// Validate checks the configuration for invalid or inconsistent values.
// It returns the first problem found.
func Validate(cfg *Config) error {
	// Server section
	if cfg.Server.ListenAddress == "" {
		return fmt.Errorf("server.listen_address must not be empty")
	}
	if _, _, err := net.SplitHostPort(cfg.Server.ListenAddress); err != nil {
		return fmt.Errorf("server.listen_address %q is not a valid host:port: %w",
			cfg.Server.ListenAddress, err)
	}
	if cfg.Server.ReadTimeout < 0 {
		return fmt.Errorf("server.read_timeout must not be negative")
	}
	if cfg.Server.WriteTimeout < 0 {
		return fmt.Errorf("server.write_timeout must not be negative")
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive")
	}
	if cfg.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be positive")
	}

	// Storage section
	if cfg.Storage.Path == "" {
		return fmt.Errorf("storage.path must not be empty")
	}
	if cfg.Storage.MaxOpenConns <= 0 {
		return fmt.Errorf("storage.max_open_conns must be positive")
	}
	if cfg.Storage.MaxIdleConns < 0 {
		return fmt.Errorf("storage.max_idle_conns must not be negative")
	}
	if cfg.Storage.BusyTimeout < 0 {
		return fmt.Errorf("storage.busy_timeout must not be negative")
	}

	// Signing section
	if cfg.Signing.KeyName == "" {
		return fmt.Errorf("signing.key_name must not be empty")
	}
	if cfg.Signing.Timeout <= 0 {
		return fmt.Errorf("signing.timeout must be positive")
	}
	if cfg.Signing.WatchKey && cfg.Signing.KeyPath == "" {
		return fmt.Errorf("signing.watch_key requires signing.key_path")
	}

	// Telemetry section
	level := strings.ToLower(cfg.Telemetry.Logging.Level)
	switch level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("telemetry.logging.level %q is not one of debug, info, warn, error",
			cfg.Telemetry.Logging.Level)
	}

	format := strings.ToLower(cfg.Telemetry.Logging.Format)
	switch format {
	case "json", "text":
	default:
		return fmt.Errorf("telemetry.logging.format %q is not one of json, text",
			cfg.Telemetry.Logging.Format)
	}

	if cfg.Telemetry.Metrics.Enabled {
		if !strings.HasPrefix(cfg.Telemetry.Metrics.Path, "/") {
			return fmt.Errorf("telemetry.metrics.path %q must start with '/'",
				cfg.Telemetry.Metrics.Path)
		}
	}

	return nil
}
