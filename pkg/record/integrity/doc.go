// Package integrity provides periodic verification of the audit
// subsystem's invariants.
//
// The Sweeper walks both stores and checks that every committed record
// carries a signature and has a matching RECORD_CREATED audit entry. The
// Scheduler runs sweeps on a cron schedule. Sweeps are read-only against
// the stores, so they never contend with record creation.
package integrity
