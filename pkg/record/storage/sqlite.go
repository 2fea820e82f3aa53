package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"caduceus-hq/veritas/pkg/record"
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/records.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStore backs both persistent regions (records and audit entries)
// with a single SQLite database. Each region is an ordered mapping from
// uint64 ID to an encoded value, iterated in ascending key order.
type SQLiteStore struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) the database at the configured path,
// applies the schema, and verifies the schema version.
func NewSQLiteStore(config *SQLiteConfig) (*SQLiteStore, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	logger := slog.Default().With("component", "record.storage.sqlite")

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, record.NewStorageError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStore{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite store initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
		"max_open_conns", config.MaxOpenConns,
	)

	return s, nil
}

// initialize sets up the database schema and enables WAL mode.
func (s *SQLiteStore) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return record.NewStorageError("sqlite", "enable_wal", err)
		}
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return record.NewStorageError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return record.NewStorageError("sqlite", "create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return record.NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return record.NewStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return record.NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	return nil
}

// Records returns the record region of the store.
func (s *SQLiteStore) Records() record.RecordStore {
	return &sqliteRecordStore{db: s.db}
}

// Audit returns the audit entry region of the store.
func (s *SQLiteStore) Audit() record.AuditStore {
	return &sqliteAuditStore{db: s.db}
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return record.NewStorageError("sqlite", "close", err)
	}
	s.logger.Info("SQLite store closed")
	return nil
}

// sqliteRecordStore implements record.RecordStore over the records table.
type sqliteRecordStore struct {
	db *sql.DB
}

// Insert persists a record under its ID.
func (s *sqliteRecordStore) Insert(ctx context.Context, rec *record.Record) error {
	value, err := record.EncodeRecord(rec)
	if err != nil {
		return record.NewStorageError("sqlite", "encode_record", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO records (id, value) VALUES (?, ?)",
		int64(rec.ID), value,
	)
	if err != nil {
		return record.NewStorageError("sqlite", "insert_record", err)
	}
	return nil
}

// Get retrieves a record by ID.
func (s *sqliteRecordStore) Get(ctx context.Context, id uint64) (*record.Record, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM records WHERE id = ?", int64(id),
	).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, record.NewNotFoundError("record", id)
	}
	if err != nil {
		return nil, record.NewStorageError("sqlite", "get_record", err)
	}

	rec, err := record.DecodeRecord(value)
	if err != nil {
		return nil, record.NewCorruptionError("record", id, err)
	}
	return rec, nil
}

// List returns all records ordered by ascending ID.
func (s *sqliteRecordStore) List(ctx context.Context) ([]*record.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, value FROM records ORDER BY id ASC")
	if err != nil {
		return nil, record.NewStorageError("sqlite", "list_records", err)
	}
	defer rows.Close()

	records := []*record.Record{}
	for rows.Next() {
		var id int64
		var value []byte
		if err := rows.Scan(&id, &value); err != nil {
			return nil, record.NewStorageError("sqlite", "scan_record", err)
		}
		rec, err := record.DecodeRecord(value)
		if err != nil {
			return nil, record.NewCorruptionError("record", uint64(id), err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, record.NewStorageError("sqlite", "list_records", err)
	}

	return records, nil
}

// Count returns the number of stored records.
func (s *sqliteRecordStore) Count(ctx context.Context) (uint64, error) {
	return count(ctx, s.db, "SELECT COUNT(*) FROM records", "count_records")
}

// MaxID returns the highest stored record ID, or 0 if the store is empty.
func (s *sqliteRecordStore) MaxID(ctx context.Context) (uint64, error) {
	return count(ctx, s.db, "SELECT COALESCE(MAX(id), 0) FROM records", "max_record_id")
}

// sqliteAuditStore implements record.AuditStore over the audit_entries
// table. The record_id column is duplicated out of the encoded value so
// ListByRecord can filter in SQL.
type sqliteAuditStore struct {
	db *sql.DB
}

// Append persists an audit entry under its ID.
func (s *sqliteAuditStore) Append(ctx context.Context, entry *record.AuditEntry) error {
	value, err := record.EncodeAuditEntry(entry)
	if err != nil {
		return record.NewStorageError("sqlite", "encode_audit_entry", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO audit_entries (id, record_id, value) VALUES (?, ?, ?)",
		int64(entry.ID), int64(entry.RecordID), value,
	)
	if err != nil {
		return record.NewStorageError("sqlite", "append_audit_entry", err)
	}
	return nil
}

// Get retrieves an audit entry by ID.
func (s *sqliteAuditStore) Get(ctx context.Context, id uint64) (*record.AuditEntry, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM audit_entries WHERE id = ?", int64(id),
	).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, record.NewNotFoundError("audit entry", id)
	}
	if err != nil {
		return nil, record.NewStorageError("sqlite", "get_audit_entry", err)
	}

	entry, err := record.DecodeAuditEntry(value)
	if err != nil {
		return nil, record.NewCorruptionError("audit entry", id, err)
	}
	return entry, nil
}

// List returns all audit entries ordered by ascending ID.
func (s *sqliteAuditStore) List(ctx context.Context) ([]*record.AuditEntry, error) {
	return s.listWhere(ctx, "SELECT id, value FROM audit_entries ORDER BY id ASC")
}

// ListByRecord returns the audit entries referencing recordID, ordered by
// ascending entry ID.
func (s *sqliteAuditStore) ListByRecord(ctx context.Context, recordID uint64) ([]*record.AuditEntry, error) {
	return s.listWhere(ctx,
		"SELECT id, value FROM audit_entries WHERE record_id = ? ORDER BY id ASC",
		int64(recordID))
}

func (s *sqliteAuditStore) listWhere(ctx context.Context, query string, args ...interface{}) ([]*record.AuditEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, record.NewStorageError("sqlite", "list_audit_entries", err)
	}
	defer rows.Close()

	entries := []*record.AuditEntry{}
	for rows.Next() {
		var id int64
		var value []byte
		if err := rows.Scan(&id, &value); err != nil {
			return nil, record.NewStorageError("sqlite", "scan_audit_entry", err)
		}
		entry, err := record.DecodeAuditEntry(value)
		if err != nil {
			return nil, record.NewCorruptionError("audit entry", uint64(id), err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, record.NewStorageError("sqlite", "list_audit_entries", err)
	}

	return entries, nil
}

// Count returns the number of stored audit entries.
func (s *sqliteAuditStore) Count(ctx context.Context) (uint64, error) {
	return count(ctx, s.db, "SELECT COUNT(*) FROM audit_entries", "count_audit_entries")
}

// MaxID returns the highest stored audit entry ID, or 0 if empty.
func (s *sqliteAuditStore) MaxID(ctx context.Context) (uint64, error) {
	return count(ctx, s.db, "SELECT COALESCE(MAX(id), 0) FROM audit_entries", "max_audit_id")
}

func count(ctx context.Context, db *sql.DB, query, operation string) (uint64, error) {
	var n int64
	if err := db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, record.NewStorageError("sqlite", operation, err)
	}
	return uint64(n), nil
}
