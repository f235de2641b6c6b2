package core

import "strings"

// Text is an optional string value. Valid=false means the attribute was
// absent from the source, which is distinct from an empty string.
type Text struct {
	String string
	Valid  bool
}

// Some returns a set Text holding s.
func Some(s string) Text {
	return Text{String: s, Valid: true}
}

// OrEmpty returns the value, or "" when unset.
func (t Text) OrEmpty() string {
	if !t.Valid {
		return ""
	}
	return t.String
}

// Field identifies one Record attribute.
type Field int

const (
	FieldID Field = iota
	FieldTitle
	FieldAssignedTo
	FieldDevTester
	FieldQATester
	FieldState
	FieldEscalation
	FieldTargetDate
	FieldFleetTracking
	FieldExternalRefID

	fieldCount
)

// FieldSpec describes how a Field is named in source files, in exports and
// in machine-readable output.
type FieldSpec struct {
	Field   Field    `json:"-" yaml:"-"`
	Key     string   `json:"key" yaml:"key"`                             // JSON/YAML key and URL parameter: "assignedTo"
	Column  string   `json:"column" yaml:"column"`                       // Header name in tracker exports: "Assigned To"
	Label   string   `json:"label" yaml:"label"`                         // Export/display label: "Assigned To"
	Aliases []string `json:"aliases,omitempty" yaml:"aliases,omitempty"` // Additional accepted header names
}

// fieldSpecs is in canonical export order.
var fieldSpecs = [fieldCount]FieldSpec{
	{Field: FieldID, Key: "id", Column: "ID", Label: "ID"},
	{Field: FieldTitle, Key: "title", Column: "Title", Label: "Title"},
	{Field: FieldAssignedTo, Key: "assignedTo", Column: "Assigned To", Label: "Assigned To"},
	{Field: FieldDevTester, Key: "devTester", Column: "DEV Tester", Label: "DEV Tester"},
	{Field: FieldQATester, Key: "qaTester", Column: "QA Tester", Label: "QA Tester"},
	{Field: FieldState, Key: "state", Column: "State", Label: "State"},
	{Field: FieldEscalation, Key: "escalation", Column: "Escalation", Label: "Escalation"},
	{Field: FieldTargetDate, Key: "targetDate", Column: "TargetDate", Label: "Target Date", Aliases: []string{"Target Date"}},
	{Field: FieldFleetTracking, Key: "fleetTracking", Column: "FleetTracking", Label: "FleetTracking"},
	{Field: FieldExternalRefID, Key: "externalRefId", Column: "MondayComID", Label: "MondayCom ID", Aliases: []string{"MondayCom ID"}},
}

// columnIndex maps every accepted header name (case-sensitive) to its Field.
var columnIndex = func() map[string]Field {
	idx := make(map[string]Field, int(fieldCount)*2)
	for _, spec := range fieldSpecs {
		idx[spec.Column] = spec.Field
		for _, alias := range spec.Aliases {
			idx[alias] = spec.Field
		}
	}
	return idx
}()

// Fields returns the field specs in canonical order.
func Fields() []FieldSpec {
	out := make([]FieldSpec, len(fieldSpecs))
	copy(out, fieldSpecs[:])
	return out
}

// Spec returns the FieldSpec for f.
func (f Field) Spec() FieldSpec {
	if f < 0 || f >= fieldCount {
		return FieldSpec{Field: f}
	}
	return fieldSpecs[f]
}

// String returns the field's key.
func (f Field) String() string {
	return f.Spec().Key
}

// FieldForColumn resolves a source header name. Matching is exact.
func FieldForColumn(name string) (Field, bool) {
	f, ok := columnIndex[name]
	return f, ok
}

// ParseField resolves a field key ("assignedTo") or label ("Assigned To").
func ParseField(name string) (Field, error) {
	for _, spec := range fieldSpecs {
		if strings.EqualFold(name, spec.Key) || name == spec.Label || name == spec.Column {
			return spec.Field, nil
		}
	}
	return 0, &UnknownFieldError{Name: name}
}

// ExportLabels returns the ten export column labels in canonical order.
func ExportLabels() []string {
	labels := make([]string, len(fieldSpecs))
	for i, spec := range fieldSpecs {
		labels[i] = spec.Label
	}
	return labels
}

// Record is one tracked work item at the time of a snapshot.
type Record struct {
	ID            Text
	Title         Text
	AssignedTo    Text
	DevTester     Text
	QATester      Text
	State         Text
	Escalation    Text
	TargetDate    Text
	FleetTracking Text
	ExternalRefID Text
}

// Key returns the reconciliation key. An unset ID keys as "".
func (r Record) Key() string {
	return r.ID.OrEmpty()
}

// Get returns the value of f.
func (r Record) Get(f Field) Text {
	if p := r.ptr(f); p != nil {
		return *p
	}
	return Text{}
}

// Set assigns v to f. Unknown fields are ignored.
func (r *Record) Set(f Field, v Text) {
	if p := r.ptr(f); p != nil {
		*p = v
	}
}

func (r *Record) ptr(f Field) *Text {
	switch f {
	case FieldID:
		return &r.ID
	case FieldTitle:
		return &r.Title
	case FieldAssignedTo:
		return &r.AssignedTo
	case FieldDevTester:
		return &r.DevTester
	case FieldQATester:
		return &r.QATester
	case FieldState:
		return &r.State
	case FieldEscalation:
		return &r.Escalation
	case FieldTargetDate:
		return &r.TargetDate
	case FieldFleetTracking:
		return &r.FleetTracking
	case FieldExternalRefID:
		return &r.ExternalRefID
	}
	return nil
}

// Values returns every attribute in canonical order, unset ones as "".
func (r Record) Values() []string {
	out := make([]string, fieldCount)
	for i := Field(0); i < fieldCount; i++ {
		out[i] = r.Get(i).OrEmpty()
	}
	return out
}

// Map returns the set attributes keyed by field key.
func (r Record) Map() map[string]string {
	out := make(map[string]string, fieldCount)
	for i := Field(0); i < fieldCount; i++ {
		if v := r.Get(i); v.Valid {
			out[fieldSpecs[i].Key] = v.String
		}
	}
	return out
}

// Summary is the "ID - Title" form used for quick copy.
func (r Record) Summary() string {
	return r.ID.OrEmpty() + " - " + r.Title.OrEmpty()
}
