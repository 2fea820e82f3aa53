package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"caduceus-hq/veritas/pkg/classify"
	"caduceus-hq/veritas/pkg/cli"
	"caduceus-hq/veritas/pkg/config"
	"caduceus-hq/veritas/pkg/record"
	"caduceus-hq/veritas/pkg/record/integrity"
	"caduceus-hq/veritas/pkg/record/storage"
	"caduceus-hq/veritas/pkg/server"
	"caduceus-hq/veritas/pkg/signing"
	"caduceus-hq/veritas/pkg/telemetry/logging"
	"caduceus-hq/veritas/pkg/telemetry/metrics"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the record service",
	Long: `Start the Caduceus record service with the specified configuration.

The server listens on the configured address and accepts medical image
submissions, classifying each image, signing the diagnosis, and recording
the result with an audit trail.

Examples:
  # Start with default config
  caduceus run

  # Start with custom config
  caduceus run --config /etc/caduceus/config.yaml

  # Override listen address
  caduceus run --listen 0.0.0.0:8080

  # Validate config without starting server
  caduceus run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	if _, err := logging.New(cfg.Telemetry.Logging, os.Stdout); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	if runFlags.dryRun {
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("configuration invalid: %w", err)
		}
		fmt.Println("✓ Configuration valid")
		return nil
	}

	fmt.Printf("Caduceus Veritas v%s\n", Version)
	fmt.Printf("Loading configuration from: %s\n", cfgFile)
	fmt.Println("✓ Configuration loaded")

	// Cancelled on SIGINT/SIGTERM; the server also watches signals, so
	// either path drains into the same graceful shutdown.
	ctx := cli.SetupSignalHandler()

	// Storage
	slog.Info("initializing storage", "path", cfg.Storage.Path)
	store, err := storage.NewSQLiteStore(&storage.SQLiteConfig{
		Path:         cfg.Storage.Path,
		MaxOpenConns: cfg.Storage.MaxOpenConns,
		MaxIdleConns: cfg.Storage.MaxIdleConns,
		WALMode:      cfg.Storage.WALMode,
		BusyTimeout:  cfg.Storage.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to open record store: %w", err)
	}
	defer store.Close()
	fmt.Println("✓ Record store initialized")

	// Signing oracle
	var oracle *signing.LocalOracle
	if cfg.Signing.KeyPath != "" {
		oracle, err = signing.NewLocalOracleFromFile(cfg.Signing.KeyPath)
		if err != nil {
			return fmt.Errorf("failed to load signing key: %w", err)
		}
		slog.Info("signing key loaded", "path", cfg.Signing.KeyPath)
	} else {
		oracle, err = signing.NewLocalOracle()
		if err != nil {
			return fmt.Errorf("failed to generate signing key: %w", err)
		}
		slog.Warn("using ephemeral signing key, signatures will not survive a restart")
	}

	if cfg.Signing.WatchKey && cfg.Signing.KeyPath != "" {
		watcher, err := signing.NewKeyWatcher(oracle, cfg.Signing.KeyPath)
		if err != nil {
			return fmt.Errorf("failed to watch signing key: %w", err)
		}
		if err := watcher.Start(ctx); err != nil {
			return fmt.Errorf("failed to start key watcher: %w", err)
		}
		defer watcher.Stop()
		slog.Info("signing key watcher started", "path", cfg.Signing.KeyPath)
	}

	signer := signing.NewClient(oracle, &signing.Config{
		KeyName: cfg.Signing.KeyName,
		Timeout: cfg.Signing.Timeout,
	})
	fmt.Println("✓ Signing oracle ready")

	// Metrics
	var collector *metrics.Collector
	var serviceMetrics record.Metrics
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
		serviceMetrics = collector
	}

	// Record service
	service, err := record.NewService(ctx,
		store.Records(),
		store.Audit(),
		classify.NewChestXRay(),
		signer,
		signing.CanonicalMessage,
		serviceMetrics,
	)
	if err != nil {
		return fmt.Errorf("failed to initialize record service: %w", err)
	}
	fmt.Println("✓ Record service initialized")

	// Integrity sweeps
	if cfg.Integrity.Schedule != "" {
		sweeper := integrity.NewSweeper(store.Records(), store.Audit())
		scheduler := integrity.NewScheduler(sweeper, &integrity.Config{
			Schedule: cfg.Integrity.Schedule,
		})
		if err := scheduler.Start(ctx); err != nil {
			slog.Warn("failed to start integrity scheduler", "error", err)
		} else {
			defer scheduler.Stop()
			slog.Info("integrity scheduler started", "schedule", cfg.Integrity.Schedule)
		}
	}

	srv := server.NewServer(&cfg.Server, &cfg.Telemetry.Metrics, service, collector)

	fmt.Println()
	fmt.Printf("✓ Server listening on %s\n", cfg.Server.ListenAddress)
	fmt.Printf("✓ Health endpoint: http://%s/health\n", cfg.Server.ListenAddress)
	if cfg.Telemetry.Metrics.Enabled {
		fmt.Printf("✓ Metrics endpoint: http://%s%s\n", cfg.Server.ListenAddress, cfg.Telemetry.Metrics.Path)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}

	fmt.Println("✓ Server stopped")
	return nil
}
