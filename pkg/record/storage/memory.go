package storage

import (
	"context"
	"sort"
	"sync"

	"caduceus-hq/veritas/pkg/record"
)

// MemoryRecordStore implements record.RecordStore using an in-memory map.
// This implementation is intended for testing only and should not be used
// in production.
type MemoryRecordStore struct {
	mu      sync.RWMutex
	records map[uint64]*record.Record
}

// NewMemoryRecordStore creates a new in-memory record store.
func NewMemoryRecordStore() *MemoryRecordStore {
	return &MemoryRecordStore{records: make(map[uint64]*record.Record)}
}

// Insert persists a record in memory.
func (s *MemoryRecordStore) Insert(_ context.Context, rec *record.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Copy to avoid mutation through the caller's pointer.
	recCopy := *rec
	s.records[rec.ID] = &recCopy
	return nil
}

// Get retrieves a record by ID.
func (s *MemoryRecordStore) Get(_ context.Context, id uint64) (*record.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, record.NewNotFoundError("record", id)
	}
	recCopy := *rec
	return &recCopy, nil
}

// List returns all records ordered by ascending ID.
func (s *MemoryRecordStore) List(_ context.Context) ([]*record.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]uint64, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	results := make([]*record.Record, 0, len(ids))
	for _, id := range ids {
		recCopy := *s.records[id]
		results = append(results, &recCopy)
	}
	return results, nil
}

// Count returns the number of stored records.
func (s *MemoryRecordStore) Count(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return uint64(len(s.records)), nil
}

// MaxID returns the highest stored record ID, or 0 if the store is empty.
func (s *MemoryRecordStore) MaxID(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var max uint64
	for id := range s.records {
		if id > max {
			max = id
		}
	}
	return max, nil
}

// MemoryAuditStore implements record.AuditStore using an in-memory map.
// Testing only.
type MemoryAuditStore struct {
	mu      sync.RWMutex
	entries map[uint64]*record.AuditEntry
}

// NewMemoryAuditStore creates a new in-memory audit store.
func NewMemoryAuditStore() *MemoryAuditStore {
	return &MemoryAuditStore{entries: make(map[uint64]*record.AuditEntry)}
}

// Append persists an audit entry in memory.
func (s *MemoryAuditStore) Append(_ context.Context, entry *record.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entryCopy := *entry
	s.entries[entry.ID] = &entryCopy
	return nil
}

// Get retrieves an audit entry by ID.
func (s *MemoryAuditStore) Get(_ context.Context, id uint64) (*record.AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, record.NewNotFoundError("audit entry", id)
	}
	entryCopy := *entry
	return &entryCopy, nil
}

// List returns all audit entries ordered by ascending ID.
func (s *MemoryAuditStore) List(_ context.Context) ([]*record.AuditEntry, error) {
	return s.listFiltered(func(*record.AuditEntry) bool { return true })
}

// ListByRecord returns the audit entries referencing recordID, ordered by
// ascending entry ID.
func (s *MemoryAuditStore) ListByRecord(_ context.Context, recordID uint64) ([]*record.AuditEntry, error) {
	return s.listFiltered(func(e *record.AuditEntry) bool { return e.RecordID == recordID })
}

func (s *MemoryAuditStore) listFiltered(keep func(*record.AuditEntry) bool) ([]*record.AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]uint64, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	results := []*record.AuditEntry{}
	for _, id := range ids {
		if keep(s.entries[id]) {
			entryCopy := *s.entries[id]
			results = append(results, &entryCopy)
		}
	}
	return results, nil
}

// Count returns the number of stored audit entries.
func (s *MemoryAuditStore) Count(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return uint64(len(s.entries)), nil
}

// MaxID returns the highest stored audit entry ID, or 0 if empty.
func (s *MemoryAuditStore) MaxID(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var max uint64
	for id := range s.entries {
		if id > max {
			max = id
		}
	}
	return max, nil
}
