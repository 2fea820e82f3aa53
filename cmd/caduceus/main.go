// Caduceus Veritas is a regulated medical record-keeping service.
//
// It accepts medical image submissions over HTTP, classifies them,
// signs the resulting diagnosis through a signing oracle, and persists
// the record together with an immutable audit trail:
//   - Deterministic image classification with canned diagnosis profiles
//   - ECDSA signing of the canonical diagnosis message
//   - SQLite-backed record and audit persistence
//   - Per-record FDA/HIPAA compliance reports
//   - Scheduled audit integrity sweeps
//
// Usage:
//
//	# Start server with default configuration
//	caduceus run
//
//	# Start with custom configuration file
//	caduceus run --config /path/to/config.yaml
//
//	# Show version information
//	caduceus version
//
//	# Generate an ECDSA signing keypair
//	caduceus keys generate
//
//	# Query the audit trail directly from the database
//	caduceus audit query --record-id 42
package main

func main() {
	Execute()
}
