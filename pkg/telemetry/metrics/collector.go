package metrics

import (
	"caduceus-hq/veritas/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector owns all Prometheus metrics for the record service: metric
// registration, the registry, and the recording entry points consumed by
// the service and the HTTP middleware.
//
// Collector satisfies record.Metrics.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	recordMetrics *RecordMetrics
	httpMetrics   *HTTPMetrics
}

// NewCollector creates a metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a fresh registry is used so
// isolated instances (and tests) never collide on registration.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "caduceus"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "records"
	}

	return &Collector{
		config:        cfg,
		registry:      registry,
		recordMetrics: NewRecordMetrics(cfg, registry),
		httpMetrics:   NewHTTPMetrics(cfg, registry),
	}
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// HTTP returns the HTTP-level metrics.
func (c *Collector) HTTP() *HTTPMetrics {
	return c.httpMetrics
}
