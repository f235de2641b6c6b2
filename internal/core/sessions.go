package core

// sessions.go keeps comparison sessions in memory.
//
// Nothing here outlives the process. Sessions idle for longer than the
// configured TTL are dropped by a background sweeper, which runs until its
// context is cancelled.

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultSessionTTL is used when the store is created with a zero TTL.
const DefaultSessionTTL = 2 * time.Hour

// SessionStore maps session IDs to sessions.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore creates a store expiring sessions after ttl of inactivity.
func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create registers a new session.
func (st *SessionStore) Create() *Session {
	sess := newSession(st.now())

	st.mu.Lock()
	st.sessions[sess.ID] = sess
	st.mu.Unlock()

	return sess
}

// Get returns a live session and marks it as used.
func (st *SessionStore) Get(id string) (*Session, error) {
	st.mu.RLock()
	sess, ok := st.sessions[id]
	st.mu.RUnlock()

	now := st.now()
	if !ok || sess.idleSince(now) > st.ttl {
		return nil, ErrSessionNotFound
	}

	sess.touch(now)
	return sess, nil
}

// GetOrCreate returns the session for id, creating a fresh one when id is
// unknown or expired. The boolean reports whether a session was created.
func (st *SessionStore) GetOrCreate(id string) (*Session, bool) {
	if id != "" {
		if sess, err := st.Get(id); err == nil {
			return sess, false
		}
	}
	return st.Create(), true
}

// Delete removes a session.
func (st *SessionStore) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Len returns the number of tracked sessions.
func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep drops expired sessions and returns how many were removed.
func (st *SessionStore) Sweep() int {
	now := st.now()

	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, sess := range st.sessions {
		if sess.idleSince(now) > st.ttl {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// StartSweeper sweeps every interval until ctx is cancelled.
func (st *SessionStore) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}

	slog.Info("session sweeper started", "interval", interval, "ttl", st.ttl)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session sweeper stopped")
			return
		case <-ticker.C:
			if n := st.Sweep(); n > 0 {
				slog.Info("expired sessions removed", "count", n, "remaining", st.Len())
			}
		}
	}
}
