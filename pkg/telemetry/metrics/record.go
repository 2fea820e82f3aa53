package metrics

import (
	"time"

	"caduceus-hq/veritas/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// RecordMetrics tracks metrics for the record lifecycle.
//
// Metrics:
//   - caduceus_records_created_total: Committed record count
//   - caduceus_record_creation_duration_seconds: End-to-end creation latency
//   - caduceus_record_creation_failures_total: Aborted creations by stage
//   - caduceus_audit_entries_total: Appended audit entries by action
//   - caduceus_compliance_reports_total: Generated compliance reports
type RecordMetrics struct {
	recordsCreated    prometheus.Counter
	creationDuration  prometheus.Histogram
	creationFailures  *prometheus.CounterVec
	auditEntries      *prometheus.CounterVec
	complianceReports prometheus.Counter
}

// NewRecordMetrics creates and registers record metrics with the provided
// registry.
func NewRecordMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RecordMetrics {
	rm := &RecordMetrics{
		recordsCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "records_created_total",
				Help:      "Total number of records committed",
			},
		),

		creationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "record_creation_duration_seconds",
				Help:      "End-to-end record creation latency in seconds",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
			},
		),

		creationFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "record_creation_failures_total",
				Help:      "Total number of aborted record creations by pipeline stage",
			},
			[]string{"stage"},
		),

		auditEntries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "audit_entries_total",
				Help:      "Total number of audit entries appended by action",
			},
			[]string{"action"},
		),

		complianceReports: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "compliance_reports_total",
				Help:      "Total number of compliance reports generated",
			},
		),
	}

	registry.MustRegister(
		rm.recordsCreated,
		rm.creationDuration,
		rm.creationFailures,
		rm.auditEntries,
		rm.complianceReports,
	)

	return rm
}

// RecordCreated implements record.Metrics.
func (c *Collector) RecordCreated(duration time.Duration) {
	c.recordMetrics.recordsCreated.Inc()
	c.recordMetrics.creationDuration.Observe(duration.Seconds())
}

// RecordCreationFailed implements record.Metrics.
func (c *Collector) RecordCreationFailed(stage string) {
	c.recordMetrics.creationFailures.WithLabelValues(stage).Inc()
}

// AuditEntryAppended implements record.Metrics.
func (c *Collector) AuditEntryAppended(action string) {
	c.recordMetrics.auditEntries.WithLabelValues(action).Inc()
}

// ComplianceReportGenerated implements record.Metrics.
func (c *Collector) ComplianceReportGenerated() {
	c.recordMetrics.complianceReports.Inc()
}
