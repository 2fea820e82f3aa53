package record

import "sync"

// IDAllocator hands out monotonically increasing IDs from two independent
// counter spaces, one for records and one for audit entries. Both counters
// start at 1 and never reuse or skip values within the allocator's lifetime.
//
// A counter may advance for a creation that later aborts (validation or
// signing failure); the resulting gap is accepted, IDs need not be
// contiguous.
type IDAllocator struct {
	mu         sync.Mutex
	nextRecord uint64
	nextAudit  uint64
}

// NewIDAllocator creates an allocator with both counters starting at 1.
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{nextRecord: 1, nextAudit: 1}
}

// Seed advances the counters past the given high-water marks, typically the
// maximum IDs already present in the backing stores. Seeding below the
// current counter value is a no-op, so restarts never move a counter
// backwards.
func (a *IDAllocator) Seed(maxRecordID, maxAuditID uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if maxRecordID >= a.nextRecord {
		a.nextRecord = maxRecordID + 1
	}
	if maxAuditID >= a.nextAudit {
		a.nextAudit = maxAuditID + 1
	}
}

// NextRecordID returns the next record ID and advances the record counter.
func (a *IDAllocator) NextRecordID() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := a.nextRecord
	a.nextRecord++
	return id
}

// NextAuditID returns the next audit entry ID and advances the audit counter.
func (a *IDAllocator) NextAuditID() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := a.nextAudit
	a.nextAudit++
	return id
}
