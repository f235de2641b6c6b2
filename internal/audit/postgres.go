package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DBTX is the subset of pgx used by PGStore.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS reconcile_audit_log (
	id          UUID PRIMARY KEY,
	action      TEXT NOT NULL,
	severity    TEXT NOT NULL,
	session_id  TEXT NOT NULL,
	slot        TEXT,
	file_name   TEXT,
	partition   TEXT,
	records     INTEGER NOT NULL DEFAULT 0,
	removed     INTEGER NOT NULL DEFAULT 0,
	added       INTEGER NOT NULL DEFAULT 0,
	matching    INTEGER NOT NULL DEFAULT 0,
	detail      TEXT,
	ip_address  TEXT,
	user_agent  TEXT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS reconcile_audit_log_created_at_idx
	ON reconcile_audit_log (created_at DESC);
`

const insertSQL = `
INSERT INTO reconcile_audit_log (
	id, action, severity, session_id, slot, file_name, partition,
	records, removed, added, matching, detail, ip_address, user_agent, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

const recentSQL = `
SELECT id::text, action, severity, session_id, slot, file_name, partition,
	records, removed, added, matching, detail, ip_address, user_agent, created_at
FROM reconcile_audit_log
ORDER BY created_at DESC
LIMIT $1`

// PGStore writes the audit trail to PostgreSQL.
type PGStore struct {
	db  DBTX
	now func() time.Time
}

// NewPGStore creates a store over a pool or transaction.
func NewPGStore(db DBTX) *PGStore {
	return &PGStore{db: db, now: time.Now}
}

// Migrate creates the audit table if it does not exist.
func (s *PGStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("migrate audit log: %w", err)
	}
	return nil
}

// Record inserts e.
func (s *PGStore) Record(ctx context.Context, e Entry) error {
	e = prepare(e, s.now())

	_, err := s.db.Exec(ctx, insertSQL,
		e.ID, string(e.Action), string(e.Severity), e.SessionID,
		toPgText(e.Slot), toPgText(e.FileName), toPgText(e.Partition),
		e.Records, e.Removed, e.Added, e.Matching,
		toPgText(e.Detail), toPgText(e.IPAddress), toPgText(e.UserAgent),
		e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *PGStore) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.Query(ctx, recentSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e                                            Entry
			action, severity                             string
			slot, fileName, partition, detail, ip, agent pgtype.Text
		)
		if err := rows.Scan(
			&e.ID, &action, &severity, &e.SessionID, &slot, &fileName, &partition,
			&e.Records, &e.Removed, &e.Added, &e.Matching, &detail, &ip, &agent, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.Action = Action(action)
		e.Severity = Severity(severity)
		e.Slot = slot.String
		e.FileName = fileName.String
		e.Partition = partition.String
		e.Detail = detail.String
		e.IPAddress = ip.String
		e.UserAgent = agent.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit log: %w", err)
	}
	return entries, nil
}

// Prune deletes entries created before the cutoff.
func (s *PGStore) Prune(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM reconcile_audit_log WHERE created_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("prune audit log: %w", err)
	}
	return tag.RowsAffected(), nil
}

func toPgText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}
