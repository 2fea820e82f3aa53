// Package storage provides the durable backends for the record and audit
// stores.
//
// Both stores are ordered key-value regions keyed by uint64 IDs. Values are
// stored in the versioned binary encoding defined by the record package,
// with a hard size cap per value (8 KiB for records, 4 KiB for audit
// entries). A value that fails to decode on read is surfaced as a
// CorruptionError; callers must treat that as fatal, not as user error.
//
// The SQLite backend is the production store: a single database file holds
// both regions, opened in WAL mode with a busy timeout, with the schema
// version verified at startup. Ordering-by-key iteration comes from the
// INTEGER PRIMARY KEY on each table.
//
// The memory backend mirrors the same contracts for tests.
package storage
