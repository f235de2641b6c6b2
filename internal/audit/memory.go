package audit

import (
	"context"
	"sync"
	"time"
)

// DefaultMemoryCapacity bounds the in-memory trail.
const DefaultMemoryCapacity = 1000

// MemoryStore keeps the most recent entries in a ring buffer. It is the
// store used when no database is configured; entries are lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
	next    int
	full    bool
	now     func() time.Time
}

// NewMemoryStore creates a store holding at most capacity entries.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &MemoryStore{
		entries: make([]Entry, capacity),
		now:     time.Now,
	}
}

// Record appends e, evicting the oldest entry when full.
func (m *MemoryStore) Record(_ context.Context, e Entry) error {
	e = prepare(e, m.now())

	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[m.next] = e
	m.next = (m.next + 1) % len(m.entries)
	if m.next == 0 {
		m.full = true
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (m *MemoryStore) Recent(_ context.Context, limit int) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := m.next
	if m.full {
		n = len(m.entries)
	}
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]Entry, 0, limit)
	for i := 0; i < limit; i++ {
		idx := (m.next - 1 - i + len(m.entries)) % len(m.entries)
		out = append(out, m.entries[idx])
	}
	return out, nil
}

// Prune drops entries created before the cutoff.
func (m *MemoryStore) Prune(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := m.next
	if m.full {
		n = len(m.entries)
	}

	// Rebuild oldest-first, keeping entries at or after the cutoff.
	kept := make([]Entry, 0, n)
	for i := n - 1; i >= 0; i-- {
		idx := (m.next - 1 - i + len(m.entries)) % len(m.entries)
		if !m.entries[idx].CreatedAt.Before(before) {
			kept = append(kept, m.entries[idx])
		}
	}

	pruned := int64(n - len(kept))
	capacity := len(m.entries)
	m.entries = make([]Entry, capacity)
	copy(m.entries, kept)
	m.next = len(kept) % capacity
	m.full = len(kept) == capacity
	return pruned, nil
}
