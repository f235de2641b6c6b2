package core

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session owns the state of one comparison: the two snapshot slots and the
// last result. Loading a slot replaces it wholesale; comparing recomputes
// the result from scratch.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.RWMutex
	original *Snapshot
	updated  *Snapshot
	result   *Result
	lastSeen time.Time
}

func newSession(now time.Time) *Session {
	return &Session{
		ID:        uuid.New().String(),
		CreatedAt: now,
		lastSeen:  now,
	}
}

// NewSession creates a standalone session, used outside the web store.
func NewSession() *Session {
	return newSession(time.Now())
}

// Load replaces the snapshot of slot and drops the last result, which no
// longer describes the current slots.
func (s *Session) Load(slot Slot, snap *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch slot {
	case SlotOriginal:
		s.original = snap
	case SlotUpdated:
		s.updated = snap
	default:
		return ErrUnknownSlot
	}
	s.result = nil
	return nil
}

// Snapshot returns the snapshot in slot, nil when unset.
func (s *Session) Snapshot(slot Slot) *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch slot {
	case SlotOriginal:
		return s.original
	case SlotUpdated:
		return s.updated
	}
	return nil
}

// Compare reconciles the current slots and stores the result. An unset
// slot compares as an empty sequence.
func (s *Session) Compare() Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := Reconcile(s.original.records(), s.updated.records())
	s.result = &result
	return result
}

// Result returns the last comparison result, or ErrNoResult.
func (s *Session) Result() (Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.result == nil {
		return Result{}, ErrNoResult
	}
	return *s.result, nil
}

// Clear drops both snapshots and the result.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.original = nil
	s.updated = nil
	s.result = nil
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return now.Sub(s.lastSeen)
}
