package output

import (
	"strings"

	"github.com/JonMunkholm/IterDiff/internal/core"
)

// RecordView is the machine-readable form of a record. Unset fields are
// omitted; set-but-empty fields are kept.
type RecordView struct {
	ID            *string `json:"id,omitempty" yaml:"id,omitempty"`
	Title         *string `json:"title,omitempty" yaml:"title,omitempty"`
	AssignedTo    *string `json:"assignedTo,omitempty" yaml:"assignedTo,omitempty"`
	DevTester     *string `json:"devTester,omitempty" yaml:"devTester,omitempty"`
	QATester      *string `json:"qaTester,omitempty" yaml:"qaTester,omitempty"`
	State         *string `json:"state,omitempty" yaml:"state,omitempty"`
	Escalation    *string `json:"escalation,omitempty" yaml:"escalation,omitempty"`
	TargetDate    *string `json:"targetDate,omitempty" yaml:"targetDate,omitempty"`
	FleetTracking *string `json:"fleetTracking,omitempty" yaml:"fleetTracking,omitempty"`
	ExternalRefID *string `json:"externalRefId,omitempty" yaml:"externalRefId,omitempty"`
}

func textPtr(t core.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

// NewRecordView converts r.
func NewRecordView(r core.Record) RecordView {
	return RecordView{
		ID:            textPtr(r.ID),
		Title:         textPtr(r.Title),
		AssignedTo:    textPtr(r.AssignedTo),
		DevTester:     textPtr(r.DevTester),
		QATester:      textPtr(r.QATester),
		State:         textPtr(r.State),
		Escalation:    textPtr(r.Escalation),
		TargetDate:    textPtr(r.TargetDate),
		FleetTracking: textPtr(r.FleetTracking),
		ExternalRefID: textPtr(r.ExternalRefID),
	}
}

// RecordViews converts a record slice; the result is never nil.
func RecordViews(records []core.Record) []RecordView {
	out := make([]RecordView, len(records))
	for i, r := range records {
		out[i] = NewRecordView(r)
	}
	return out
}

// Counts holds partition sizes.
type Counts struct {
	Removed  int `json:"removed" yaml:"removed"`
	Added    int `json:"added" yaml:"added"`
	Matching int `json:"matching" yaml:"matching"`
}

// ResultView is the machine-readable form of a comparison.
type ResultView struct {
	Original string       `json:"original,omitempty" yaml:"original,omitempty"`
	Updated  string       `json:"updated,omitempty" yaml:"updated,omitempty"`
	Counts   Counts       `json:"counts" yaml:"counts"`
	Removed  []RecordView `json:"removed" yaml:"removed"`
	Added    []RecordView `json:"added" yaml:"added"`
	Matching []RecordView `json:"matching" yaml:"matching"`
	Warnings []string     `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// NewResultView converts a result.
func NewResultView(original, updated string, res core.Result) ResultView {
	return ResultView{
		Original: original,
		Updated:  updated,
		Counts: Counts{
			Removed:  len(res.Removed),
			Added:    len(res.Added),
			Matching: len(res.Matching),
		},
		Removed:  RecordViews(res.Removed),
		Added:    RecordViews(res.Added),
		Matching: RecordViews(res.Matching),
	}
}

// SnapshotView describes a parsed file.
type SnapshotView struct {
	File       string       `json:"file" yaml:"file"`
	Format     string       `json:"format" yaml:"format"`
	Count      int          `json:"count" yaml:"count"`
	Duplicates []string     `json:"duplicates,omitempty" yaml:"duplicates,omitempty"`
	MissingID  int          `json:"missingId,omitempty" yaml:"missingId,omitempty"`
	Records    []RecordView `json:"records" yaml:"records"`
}

// NewSnapshotView converts a snapshot.
func NewSnapshotView(s *core.Snapshot) SnapshotView {
	return SnapshotView{
		File:       s.Label,
		Format:     string(s.Format),
		Count:      s.Len(),
		Duplicates: s.Duplicates,
		MissingID:  s.MissingID,
		Records:    RecordViews(s.Records),
	}
}

// RecordsTable lays records out under the export labels.
func RecordsTable(caption string, records []core.Record) Data {
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = r.Values()
	}
	return Data{
		Caption: caption,
		Headers: core.ExportLabels(),
		Rows:    rows,
	}
}

// ResultTables returns one table per partition, in display order.
func ResultTables(res core.Result) []Data {
	tables := make([]Data, 0, len(core.Partitions))
	for _, p := range core.Partitions {
		records, _ := res.Records(p)
		tables = append(tables, RecordsTable(p.Caption(), records))
	}
	return tables
}

// ColumnsTable lists the record schema.
func ColumnsTable() Data {
	specs := core.Fields()
	rows := make([][]string, len(specs))
	for i, spec := range specs {
		rows[i] = []string{spec.Key, spec.Column, spec.Label, strings.Join(spec.Aliases, ", ")}
	}
	return Data{
		Headers: []string{"Key", "Source Column", "Export Label", "Also Accepted"},
		Rows:    rows,
	}
}
