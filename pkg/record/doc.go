// Package record implements the record lifecycle and audit subsystem: a
// regulated record-keeping core that classifies content blobs, signs the
// results through an external oracle, persists them, and maintains an
// immutable, queryable audit trail.
//
// # Lifecycle
//
// Every record moves through a fixed pipeline:
//
//	Validating -> Classifying -> Signing -> Committed
//
// A failure in any of the first three states aborts the whole flow with no
// partial writes. Committed is the only state from which a record is ever
// observable, and committed records are read-only: there are no update or
// delete operations.
//
// Two invariants hold at all times:
//
//   - Observe implies signed: no query operation ever returns a record with
//     empty signature bytes, because signing completes before persistence.
//   - The audit trail is append-only: entries are created by exactly two
//     triggers (record creation, compliance-report generation) and are
//     permanent.
//
// # Identity
//
// Records and audit entries draw IDs from two independent monotonic
// counters, both starting at 1. A counter may advance for a creation that
// later aborts; the gap is accepted, IDs need not be contiguous. At startup
// the counters are seeded past the highest IDs in the backing stores, so a
// restart never reuses an ID.
//
// # Collaborators
//
// The Service owns the counters and both store handles and is injected
// into every handler. The classifier, the signing oracle, and the storage
// engine sit behind interfaces (Classifier, Signer, RecordStore,
// AuditStore) and are specified only at their boundary.
package record
