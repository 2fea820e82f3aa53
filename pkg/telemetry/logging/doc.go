// Package logging configures the process-wide structured logger.
//
// All packages log through log/slog with per-component loggers
// (slog.Default().With("component", ...)); this package owns the handler
// setup: level, json/text format, and optional source locations.
package logging
