package record

import (
	"sort"
	"sync"
	"testing"
)

// TestIDAllocator_Sequential tests that both counters start at 1 and
// advance by one per allocation.
func TestIDAllocator_Sequential(t *testing.T) {
	a := NewIDAllocator()

	for want := uint64(1); want <= 5; want++ {
		if got := a.NextRecordID(); got != want {
			t.Errorf("NextRecordID() = %d, want %d", got, want)
		}
	}
	for want := uint64(1); want <= 5; want++ {
		if got := a.NextAuditID(); got != want {
			t.Errorf("NextAuditID() = %d, want %d", got, want)
		}
	}
}

// TestIDAllocator_IndependentCounters verifies the record and audit spaces
// do not influence each other.
func TestIDAllocator_IndependentCounters(t *testing.T) {
	a := NewIDAllocator()

	a.NextRecordID()
	a.NextRecordID()
	a.NextRecordID()

	if got := a.NextAuditID(); got != 1 {
		t.Errorf("NextAuditID() = %d, want 1 after record allocations", got)
	}
}

// TestIDAllocator_Seed tests seeding from store high-water marks.
func TestIDAllocator_Seed(t *testing.T) {
	tests := []struct {
		name         string
		seedRecord   uint64
		seedAudit    uint64
		wantRecordID uint64
		wantAuditID  uint64
	}{
		{"empty stores", 0, 0, 1, 1},
		{"populated stores", 42, 99, 43, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewIDAllocator()
			a.Seed(tt.seedRecord, tt.seedAudit)

			if got := a.NextRecordID(); got != tt.wantRecordID {
				t.Errorf("NextRecordID() = %d, want %d", got, tt.wantRecordID)
			}
			if got := a.NextAuditID(); got != tt.wantAuditID {
				t.Errorf("NextAuditID() = %d, want %d", got, tt.wantAuditID)
			}
		})
	}
}

// TestIDAllocator_SeedNeverMovesBackwards verifies a lower seed cannot
// cause ID reuse.
func TestIDAllocator_SeedNeverMovesBackwards(t *testing.T) {
	a := NewIDAllocator()
	a.Seed(100, 100)
	a.Seed(10, 10)

	if got := a.NextRecordID(); got != 101 {
		t.Errorf("NextRecordID() = %d, want 101 after backwards seed", got)
	}
	if got := a.NextAuditID(); got != 101 {
		t.Errorf("NextAuditID() = %d, want 101 after backwards seed", got)
	}
}

// TestIDAllocator_Concurrent verifies concurrent allocations never hand
// out the same ID twice.
func TestIDAllocator_Concurrent(t *testing.T) {
	a := NewIDAllocator()

	const goroutines = 10
	const perGoroutine = 100

	var mu sync.Mutex
	var wg sync.WaitGroup
	ids := make([]uint64, 0, goroutines*perGoroutine)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				id := a.NextRecordID()
				mu.Lock()
				ids = append(ids, id)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for i, id := range ids {
		if id != uint64(i+1) {
			t.Fatalf("ID sequence has gap or duplicate at position %d: %d", i, id)
		}
	}
}
