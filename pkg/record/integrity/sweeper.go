package integrity

import (
	"context"
	"log/slog"
	"time"

	"caduceus-hq/veritas/pkg/record"
)

// Config contains configuration for the integrity sweeper.
type Config struct {
	// Schedule is a cron expression for periodic sweeps (e.g. "0 3 * * *"
	// for daily at 3 AM). Empty disables scheduled sweeps.
	Schedule string
}

// Report summarizes one integrity sweep over both stores.
type Report struct {
	// RecordCount and AuditCount are the store sizes at sweep time.
	RecordCount uint64 `json:"record_count"`
	AuditCount  uint64 `json:"audit_count"`

	// UnsignedRecords lists record IDs stored with empty signature bytes.
	// The creation pipeline makes this impossible; a non-empty list means
	// the store was tampered with or corrupted.
	UnsignedRecords []uint64 `json:"unsigned_records,omitempty"`

	// OrphanedRecords lists record IDs with no RECORD_CREATED audit entry.
	OrphanedRecords []uint64 `json:"orphaned_records,omitempty"`

	// SweptAt is when the sweep completed.
	SweptAt time.Time `json:"swept_at"`
}

// Clean reports whether the sweep found no violations.
func (r *Report) Clean() bool {
	return len(r.UnsignedRecords) == 0 && len(r.OrphanedRecords) == 0
}

// Sweeper walks both stores and checks the audit subsystem's invariants:
// every stored record is signed, and every record has its RECORD_CREATED
// audit entry. Sweeps only read the record store and audit store, so they
// can run concurrently with record creation.
type Sweeper struct {
	records record.RecordStore
	audit   record.AuditStore
	logger  *slog.Logger
}

// NewSweeper creates a sweeper over the given stores.
func NewSweeper(records record.RecordStore, audit record.AuditStore) *Sweeper {
	return &Sweeper{
		records: records,
		audit:   audit,
		logger:  slog.Default().With("component", "record.integrity"),
	}
}

// Sweep runs one integrity pass and returns its report. Storage errors
// abort the sweep; invariant violations are reported, not returned as
// errors, so the caller decides how loudly to escalate.
func (s *Sweeper) Sweep(ctx context.Context) (*Report, error) {
	records, err := s.records.List(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.audit.List(ctx)
	if err != nil {
		return nil, err
	}

	// Record IDs that have a RECORD_CREATED entry.
	created := make(map[uint64]bool, len(records))
	for _, entry := range entries {
		if entry.Action == record.ActionRecordCreated {
			created[entry.RecordID] = true
		}
	}

	report := &Report{
		RecordCount: uint64(len(records)),
		AuditCount:  uint64(len(entries)),
	}

	for _, rec := range records {
		if len(rec.Signature) == 0 {
			report.UnsignedRecords = append(report.UnsignedRecords, rec.ID)
		}
		if !created[rec.ID] {
			report.OrphanedRecords = append(report.OrphanedRecords, rec.ID)
		}
	}

	report.SweptAt = time.Now().UTC()

	if report.Clean() {
		s.logger.Info("integrity sweep clean",
			"records", report.RecordCount,
			"audit_entries", report.AuditCount,
		)
	} else {
		s.logger.Error("integrity sweep found violations",
			"unsigned_records", report.UnsignedRecords,
			"orphaned_records", report.OrphanedRecords,
		)
	}

	return report, nil
}
