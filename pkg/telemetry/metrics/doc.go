// Package metrics provides Prometheus instrumentation for the record
// service.
//
// The Collector bundles the registry and all metric families: record
// lifecycle counters and latencies (RecordMetrics) and HTTP surface
// metrics (HTTPMetrics). It satisfies the record.Metrics interface, so the
// service instruments itself without depending on this package.
package metrics
