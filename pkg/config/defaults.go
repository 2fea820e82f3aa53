package config

import "time"

// Default returns the fully populated default configuration. Load
// unmarshals the configuration file over these values, so booleans like
// wal_mode and metrics.enabled default to true unless the file sets them
// to false explicitly.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddress:   "127.0.0.1:8080",
			ReadTimeout:     120 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			MaxBodyBytes:    75 * 1024 * 1024,
		},
		Storage: StorageConfig{
			Path:         "data/records.db",
			MaxOpenConns: 10,
			MaxIdleConns: 5,
			WALMode:      true,
			BusyTimeout:  5 * time.Second,
		},
		Signing: SigningConfig{
			KeyName: "dfx_test_key",
			Timeout: 10 * time.Second,
		},
		Integrity: IntegrityConfig{
			Schedule: "",
		},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{
				Level:  "info",
				Format: "json",
			},
			Metrics: MetricsConfig{
				Enabled:   true,
				Namespace: "caduceus",
				Subsystem: "records",
				Path:      "/metrics",
			},
		},
	}
}
