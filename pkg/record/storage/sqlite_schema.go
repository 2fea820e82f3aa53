package storage

// SchemaVersion is the current database schema version. The version is
// checked at startup; a mismatch means the database was written by an
// incompatible build.
const SchemaVersion = 1

// Schema holds the DDL for the two ordered key-value regions and the schema
// version table. Both regions are keyed by the entity's uint64 ID; values
// are the versioned binary encoding produced by the record package.
//
// There is deliberately no UPDATE or DELETE path over either table: records
// are immutable once committed, and the audit trail is append-only.
const Schema = `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS records (
	id    INTEGER PRIMARY KEY,
	value BLOB NOT NULL
);

CREATE TABLE IF NOT EXISTS audit_entries (
	id        INTEGER PRIMARY KEY,
	record_id INTEGER NOT NULL,
	value     BLOB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_record_id ON audit_entries(record_id);
`

// InsertSchemaVersion records the schema version, ignoring duplicates.
const InsertSchemaVersion = `INSERT OR IGNORE INTO schema_version (version) VALUES (?);`

// GetSchemaVersion retrieves the recorded schema version.
const GetSchemaVersion = `SELECT version FROM schema_version LIMIT 1;`
