package config

import "time"

// Config is the root configuration structure for the Caduceus record
// service. It contains all configuration sections for the HTTP server,
// storage, signing, integrity sweeps, and telemetry.
type Config struct {
	// Server contains HTTP server configuration including listen address,
	// timeouts, and body size limits.
	Server ServerConfig `yaml:"server"`

	// Storage contains configuration for the SQLite store backing the
	// record and audit regions.
	Storage StorageConfig `yaml:"storage"`

	// Signing contains configuration for the signing oracle client and the
	// local oracle key.
	Signing SigningConfig `yaml:"signing"`

	// Integrity contains configuration for scheduled audit integrity
	// sweeps.
	Integrity IntegrityConfig `yaml:"integrity"`

	// Telemetry contains configuration for logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:8080").
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body.
	// Default: 120s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response.
	// Default: 60s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next
	// request when keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful
	// shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxBodyBytes caps the request body size. Creation requests carry the
	// base64-encoded image, so this must exceed the 50 MiB image bound
	// plus base64 and JSON overhead.
	// Default: 78643200 (75 MiB)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

// StorageConfig contains configuration for the SQLite storage backend.
type StorageConfig struct {
	// Path is the database file path.
	// Default: "data/records.db"
	Path string `yaml:"path"`

	// MaxOpenConns is the maximum number of open database connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns"`

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// SigningConfig contains configuration for the signing protocol.
type SigningConfig struct {
	// KeyName is the oracle-side key identifier.
	// Default: "dfx_test_key"
	KeyName string `yaml:"key_name"`

	// KeyPath is the PEM file holding the local oracle's private key. If
	// empty, an ephemeral key is generated at startup (records signed with
	// an ephemeral key cannot be re-verified after a restart).
	KeyPath string `yaml:"key_path"`

	// WatchKey enables hot-reloading the key file on change, so rotation
	// does not require a restart. Only meaningful when KeyPath is set.
	// Default: false
	WatchKey bool `yaml:"watch_key"`

	// Timeout bounds each oracle round trip.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}

// IntegrityConfig contains configuration for scheduled integrity sweeps.
type IntegrityConfig struct {
	// Schedule is a cron expression for periodic sweeps (e.g. "0 3 * * *").
	// Empty disables scheduled sweeps.
	Schedule string `yaml:"schedule"`
}

// TelemetryConfig contains configuration for logging and metrics.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format ("json", "text").
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log records.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether the /metrics endpoint is served.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix.
	// Default: "caduceus"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem label.
	// Default: "records"
	Subsystem string `yaml:"subsystem"`

	// Path is the HTTP path for the metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`
}
