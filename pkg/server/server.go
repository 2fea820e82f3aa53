// Package server provides the HTTP server for the record service.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"caduceus-hq/veritas/pkg/config"
	"caduceus-hq/veritas/pkg/record"
	"caduceus-hq/veritas/pkg/server/handlers"
	"caduceus-hq/veritas/pkg/server/middleware"
	"caduceus-hq/veritas/pkg/telemetry/metrics"
)

// Server is the HTTP server for the record service.
type Server struct {
	config       *config.ServerConfig
	metricsCfg   *config.MetricsConfig
	service      *record.Service
	collector    *metrics.Collector
	httpServer   *http.Server
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates a new server. The collector may be nil when metrics
// are disabled.
func NewServer(cfg *config.ServerConfig, metricsCfg *config.MetricsConfig, service *record.Service, collector *metrics.Collector) *Server {
	return &Server{
		config:     cfg,
		metricsCfg: metricsCfg,
		service:    service,
		collector:  collector,
	}
}

// Start starts the HTTP server and blocks until the context is cancelled,
// a shutdown signal arrives, or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	handler := s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         s.config.ListenAddress,
		Handler:      handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting server", "address", s.config.ListenAddress)

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		slog.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("server stopped")
	})

	return shutdownErr
}

// setupRoutes configures the routes and middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	recordsHandler := handlers.NewRecordsHandler(s.service, s.config.MaxBodyBytes)
	auditHandler := handlers.NewAuditHandler(s.service)
	complianceHandler := handlers.NewComplianceHandler(s.service)
	healthHandler := handlers.NewHealthHandler(s.service)

	mux.HandleFunc("POST /v1/records", recordsHandler.Create)
	mux.HandleFunc("GET /v1/records", recordsHandler.List)
	mux.HandleFunc("GET /v1/records/{id}", recordsHandler.Get)
	mux.HandleFunc("GET /v1/records/{id}/audit", auditHandler.ListByRecord)
	mux.HandleFunc("GET /v1/records/{id}/signature", complianceHandler.VerifySignature)
	mux.HandleFunc("GET /v1/records/{id}/compliance-report", complianceHandler.Report)
	mux.HandleFunc("GET /v1/audit", auditHandler.List)
	mux.HandleFunc("GET /v1/health", healthHandler.Summary)
	mux.HandleFunc("GET /health", healthHandler.Live)
	mux.HandleFunc("GET /ready", healthHandler.Ready)

	if s.collector != nil && s.metricsCfg.Enabled {
		mux.Handle("GET "+s.metricsCfg.Path, s.collector.Handler())
	}

	var handler http.Handler = mux

	if s.collector != nil {
		handler = middleware.Metrics(s.collector.HTTP())(handler)
	}
	handler = middleware.Logging(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recovery(handler)

	return handler
}

// Handler returns the configured HTTP handler, for tests that drive the
// server without a listener.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}
