// Package audit records what users did with the reconciler: which files
// were loaded, when comparisons ran, what was exported. It never stores
// record contents, only counts and file names.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Action is the kind of activity being recorded.
type Action string

const (
	ActionSnapshotLoaded Action = "snapshot_loaded"
	ActionSnapshotFailed Action = "snapshot_failed"
	ActionCompared       Action = "compared"
	ActionExported       Action = "exported"
	ActionCleared        Action = "cleared"
	ActionClipboardError Action = "clipboard_failed"
)

// Severity mirrors how interesting an entry is to someone reading the trail.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// SeverityFor returns the severity recorded for an action.
func SeverityFor(action Action) Severity {
	switch action {
	case ActionSnapshotFailed, ActionClipboardError:
		return SeverityHigh
	case ActionCompared, ActionCleared:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// Entry is a single audit record.
type Entry struct {
	ID        string    `json:"id"`
	Action    Action    `json:"action"`
	Severity  Severity  `json:"severity"`
	SessionID string    `json:"sessionId"`
	Slot      string    `json:"slot,omitempty"`
	FileName  string    `json:"fileName,omitempty"`
	Partition string    `json:"partition,omitempty"`
	Records   int       `json:"records,omitempty"`
	Removed   int       `json:"removed,omitempty"`
	Added     int       `json:"added,omitempty"`
	Matching  int       `json:"matching,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	IPAddress string    `json:"ipAddress,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store persists audit entries.
type Store interface {
	Record(ctx context.Context, e Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
	Prune(ctx context.Context, before time.Time) (int64, error)
}

// prepare fills ID, severity and timestamp when unset.
func prepare(e Entry, now time.Time) Entry {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Severity == "" {
		e.Severity = SeverityFor(e.Action)
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now.UTC()
	}
	return e
}
