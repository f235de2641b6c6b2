package core

import (
	"fmt"
	"time"
)

// Slot names one of the two snapshot positions of a session.
type Slot string

const (
	SlotOriginal Slot = "original"
	SlotUpdated  Slot = "updated"
)

// ParseSlot validates a slot name.
func ParseSlot(s string) (Slot, error) {
	switch slot := Slot(s); slot {
	case SlotOriginal, SlotUpdated:
		return slot, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSlot, s)
}

// Title is the heading shown for the slot.
func (s Slot) Title() string {
	if s == SlotOriginal {
		return "Original List"
	}
	return "New List"
}

// Snapshot is a labeled, ordered, immutable record sequence from one file.
//
// Ids are unique within a snapshot: the first occurrence of an id is kept
// and later occurrences are listed in Duplicates. Rows without an id
// cannot be reconciled and are only counted in MissingID.
type Snapshot struct {
	Label      string
	Format     Format
	Records    []Record
	Duplicates []string
	MissingID  int
	LoadedAt   time.Time
}

// NewSnapshot builds a snapshot from parsed records.
func NewSnapshot(label string, format Format, records []Record) *Snapshot {
	snap := &Snapshot{
		Label:    label,
		Format:   format,
		Records:  make([]Record, 0, len(records)),
		LoadedAt: time.Now(),
	}

	seen := make(map[string]bool, len(records))
	dupSeen := make(map[string]bool)

	for _, rec := range records {
		if !rec.ID.Valid || rec.ID.String == "" {
			snap.MissingID++
			continue
		}
		if seen[rec.ID.String] {
			if !dupSeen[rec.ID.String] {
				snap.Duplicates = append(snap.Duplicates, rec.ID.String)
				dupSeen[rec.ID.String] = true
			}
			continue
		}
		seen[rec.ID.String] = true
		snap.Records = append(snap.Records, rec)
	}

	return snap
}

// Len returns the number of records.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Records)
}

// Warnings describes records that were left out of the snapshot.
func (s *Snapshot) Warnings() []string {
	if s == nil {
		return nil
	}

	var out []string
	if n := len(s.Duplicates); n > 0 {
		shown := s.Duplicates
		if n > 5 {
			shown = shown[:5]
		}
		msg := fmt.Sprintf("%d duplicate ID(s) in %s, kept first occurrence: %v", n, s.Label, shown)
		if n > 5 {
			msg += " ..."
		}
		out = append(out, msg)
	}
	if s.MissingID > 0 {
		out = append(out, fmt.Sprintf("%d row(s) without an ID in %s were skipped", s.MissingID, s.Label))
	}
	return out
}

// records returns the snapshot's records, or nil for an unset slot.
func (s *Snapshot) records() []Record {
	if s == nil {
		return nil
	}
	return s.Records
}
