package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/JonMunkholm/IterDiff/internal/audit"
	"github.com/JonMunkholm/IterDiff/internal/config"
)

// ParseTimeout bounds a single snapshot load, including the wait for a slot.
var ParseTimeout = 2 * time.Minute

// Service ties sessions, parsing, reconciliation and the audit trail
// together. It is safe for concurrent use.
type Service struct {
	sessions    *SessionStore
	limiter     *UploadLimiter
	audit       audit.Store
	maxFileSize int64
}

// NewService creates a Service. auditLog may be nil to disable auditing.
func NewService(cfg *config.Config, auditLog audit.Store) *Service {
	return &Service{
		sessions:    NewSessionStore(cfg.Session.IdleTTL),
		limiter:     NewUploadLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime),
		audit:       auditLog,
		maxFileSize: cfg.Upload.MaxFileSize,
	}
}

// Session returns the session for id, creating one when id is empty,
// unknown or expired. The boolean reports whether it was created.
func (s *Service) Session(id string) (*Session, bool) {
	return s.sessions.GetOrCreate(id)
}

// LookupSession returns an existing session or ErrSessionNotFound.
func (s *Service) LookupSession(id string) (*Session, error) {
	return s.sessions.Get(id)
}

// SessionCount returns the number of live sessions.
func (s *Service) SessionCount() int {
	return s.sessions.Len()
}

// StartSessionSweeper drops idle sessions until ctx is cancelled.
func (s *Service) StartSessionSweeper(ctx context.Context, interval time.Duration) {
	s.sessions.StartSweeper(ctx, interval)
}

// LoadSnapshot parses data and stores the snapshot in slot. On any failure
// the slot keeps its previous snapshot.
func (s *Service) LoadSnapshot(ctx context.Context, sess *Session, slot Slot, fileName string, data []byte) (*Snapshot, error) {
	if _, err := ParseSlot(string(slot)); err != nil {
		return nil, err
	}

	snap, err := s.parse(ctx, fileName, data)
	if err != nil {
		slog.WarnContext(ctx, "snapshot load failed",
			"session_id", sess.ID,
			"slot", slot,
			"file", fileName,
			"error", err,
		)
		s.record(ctx, audit.Entry{
			Action:    audit.ActionSnapshotFailed,
			SessionID: sess.ID,
			Slot:      string(slot),
			FileName:  fileName,
			Detail:    MapError(err).Code,
		})
		return nil, err
	}

	if err := sess.Load(slot, snap); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "snapshot loaded",
		"session_id", sess.ID,
		"slot", slot,
		"file", fileName,
		"format", snap.Format,
		"records", snap.Len(),
		"duplicates", len(snap.Duplicates),
		"missing_id", snap.MissingID,
	)
	s.record(ctx, audit.Entry{
		Action:    audit.ActionSnapshotLoaded,
		SessionID: sess.ID,
		Slot:      string(slot),
		FileName:  fileName,
		Records:   snap.Len(),
	})

	return snap, nil
}

func (s *Service) parse(ctx context.Context, fileName string, data []byte) (*Snapshot, error) {
	if s.maxFileSize > 0 && int64(len(data)) > s.maxFileSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, len(data), s.maxFileSize)
	}

	format, err := FormatFromName(fileName)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, ParseTimeout)
	defer cancel()

	var records []Record
	err = s.limiter.Do(ctx, func() error {
		var perr error
		records, perr = ParseFile(fileName, data)
		return perr
	})
	if err != nil {
		return nil, err
	}

	return NewSnapshot(fileName, format, records), nil
}

// Compare reconciles the session's two slots.
func (s *Service) Compare(ctx context.Context, sess *Session) Result {
	start := time.Now()
	result := sess.Compare()

	slog.InfoContext(ctx, "comparison complete",
		"session_id", sess.ID,
		"removed", len(result.Removed),
		"added", len(result.Added),
		"matching", len(result.Matching),
		"duration", time.Since(start),
	)
	s.record(ctx, audit.Entry{
		Action:    audit.ActionCompared,
		SessionID: sess.ID,
		Removed:   len(result.Removed),
		Added:     len(result.Added),
		Matching:  len(result.Matching),
	})

	return result
}

// Partition returns the records of p from the last comparison.
func (s *Service) Partition(sess *Session, p Partition) ([]Record, error) {
	result, err := sess.Result()
	if err != nil {
		return nil, err
	}
	return result.Records(p)
}

// Export writes partition p of the last comparison to w.
func (s *Service) Export(ctx context.Context, sess *Session, p Partition, format ExportFormat, w io.Writer) error {
	records, err := s.Partition(sess, p)
	if err != nil {
		return err
	}

	if err := Export(w, records, format); err != nil {
		return fmt.Errorf("export %s: %w", p, err)
	}

	s.record(ctx, audit.Entry{
		Action:    audit.ActionExported,
		SessionID: sess.ID,
		Partition: string(p),
		Records:   len(records),
		Detail:    string(format),
	})
	return nil
}

// SummaryField selects Record.Summary in Cell.
const SummaryField = "summary"

// Cell returns one raw value of the record with the given id in partition p.
// field is a field key, column name or export label, or SummaryField.
func (s *Service) Cell(sess *Session, p Partition, id, field string) (string, error) {
	records, err := s.Partition(sess, p)
	if err != nil {
		return "", err
	}

	var getter func(Record) string
	if field == SummaryField {
		getter = Record.Summary
	} else {
		f, err := ParseField(field)
		if err != nil {
			return "", err
		}
		getter = func(r Record) string { return r.Get(f).OrEmpty() }
	}

	for _, rec := range records {
		if rec.Key() == id {
			return getter(rec), nil
		}
	}
	return "", fmt.Errorf("%w: %q in %s", ErrRecordNotFound, id, p)
}

// Clear empties both slots and the result.
func (s *Service) Clear(ctx context.Context, sess *Session) {
	sess.Clear()
	slog.InfoContext(ctx, "session cleared", "session_id", sess.ID)
	s.record(ctx, audit.Entry{Action: audit.ActionCleared, SessionID: sess.ID})
}

// ReportClipboardFailure records a clipboard write the browser rejected and
// returns the notification to show.
func (s *Service) ReportClipboardFailure(ctx context.Context, sess *Session, detail string) Notification {
	err := fmt.Errorf("%w: %s", ErrClipboard, detail)
	slog.WarnContext(ctx, "clipboard write failed", "session_id", sess.ID, "detail", detail)
	s.record(ctx, audit.Entry{
		Action:    audit.ActionClipboardError,
		SessionID: sess.ID,
		Detail:    detail,
	})
	return Failure(err)
}

// AuditLog returns the most recent audit entries.
func (s *Service) AuditLog(ctx context.Context, limit int) ([]audit.Entry, error) {
	if s.audit == nil {
		return []audit.Entry{}, nil
	}
	return s.audit.Recent(ctx, limit)
}

// UploadLimiterStatus returns the current parse slot usage.
func (s *Service) UploadLimiterStatus() UploadLimiterStatus {
	return s.limiter.Status()
}

// WaitForUploads blocks until in-flight parses finish or ctx ends.
func (s *Service) WaitForUploads(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// record writes an audit entry. Audit failures are logged and never fail
// the user's operation.
func (s *Service) record(ctx context.Context, e audit.Entry) {
	if s.audit == nil {
		return
	}
	if e.IPAddress == "" {
		e.IPAddress = IPAddressFromContext(ctx)
	}
	if e.UserAgent == "" {
		e.UserAgent = UserAgentFromContext(ctx)
	}
	if err := s.audit.Record(ctx, e); err != nil {
		slog.ErrorContext(ctx, "failed to record audit entry", "action", e.Action, "error", err)
	}
}
