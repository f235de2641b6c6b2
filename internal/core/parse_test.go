package core

import (
	"encoding/csv"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
)

func TestFormatFromName(t *testing.T) {
	tests := []struct {
		name    string
		want    Format
		wantErr bool
	}{
		{name: "sprint.csv", want: FormatCSV},
		{name: "SPRINT.CSV", want: FormatCSV},
		{name: "export.tsv", want: FormatTSV},
		{name: "paste.txt", want: FormatTSV},
		{name: "board.xlsx", want: FormatSpreadsheet},
		{name: "board.xlsm", want: FormatSpreadsheet},
		{name: "legacy.xls", wantErr: true},
		{name: "notes.pdf", wantErr: true},
		{name: "noext", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatFromName(tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Fatalf("FormatFromName(%q) error = %v, want ErrUnsupportedFormat", tt.name, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FormatFromName(%q) unexpected error: %v", tt.name, err)
			}
			if got != tt.want {
				t.Errorf("FormatFromName(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestParseDelimited(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		format  Format
		wantIDs []string
		check   func(t *testing.T, recs []Record)
	}{
		{
			name:    "byte order mark is stripped",
			input:   "\ufeffID,Title\n42,Fix bug\n",
			format:  FormatCSV,
			wantIDs: []string{"42"},
			check: func(t *testing.T, recs []Record) {
				if recs[0].Title != Some("Fix bug") {
					t.Errorf("Title = %+v, want Fix bug", recs[0].Title)
				}
			},
		},
		{
			name:    "header only yields no records",
			input:   "ID,Title,State\n",
			format:  FormatCSV,
			wantIDs: []string{},
		},
		{
			name:    "empty input yields no records",
			input:   "",
			format:  FormatCSV,
			wantIDs: []string{},
		},
		{
			name:    "blank lines are skipped",
			input:   "\n\nID,Title\n\n1,a\n   \n\t\n2,b\n\n",
			format:  FormatCSV,
			wantIDs: []string{"1", "2"},
		},
		{
			name:    "row of empty cells is data",
			input:   "ID,Title\n1,a\n,\n2,b\n",
			format:  FormatCSV,
			wantIDs: []string{"1", "", "2"},
			check: func(t *testing.T, recs []Record) {
				if recs[1].ID != Some("") || recs[1].Title != Some("") {
					t.Errorf("empty row = %+v, want set empty cells", recs[1])
				}
			},
		},
		{
			name:    "space after delimiter before quoted field",
			input:   "ID, Title\n42, \"Fix, bug\"\n",
			format:  FormatCSV,
			wantIDs: []string{"42"},
			check: func(t *testing.T, recs []Record) {
				if got := recs[0].Title.String; got != "Fix, bug" {
					t.Errorf("Title = %q, want Fix, bug", got)
				}
			},
		},
		{
			name:    "space after closing quote",
			input:   "ID,Title,State\n\"7\"  ,  \"Say \"\"hi\"\"\" \t, Active \r\n",
			format:  FormatCSV,
			wantIDs: []string{"7"},
			check: func(t *testing.T, recs []Record) {
				if got := recs[0].Title.String; got != `Say "hi"` {
					t.Errorf("Title = %q, want Say \"hi\"", got)
				}
				if got := recs[0].State.String; got != "Active" {
					t.Errorf("State = %q, want Active", got)
				}
			},
		},
		{
			name:    "padding inside quotes is trimmed like any field",
			input:   "ID,Title\n1,\"  spaced  \"\n",
			format:  FormatCSV,
			wantIDs: []string{"1"},
			check: func(t *testing.T, recs []Record) {
				if got := recs[0].Title.String; got != "spaced" {
					t.Errorf("Title = %q, want spaced", got)
				}
			},
		},
		{
			name:    "tab delimited keeps leading empty cell",
			input:   "ID\tTitle\tState\n5\t\tNew\n6\t \"quoted\" \tOld\n",
			format:  FormatTSV,
			wantIDs: []string{"5", "6"},
			check: func(t *testing.T, recs []Record) {
				if recs[0].Title != Some("") || recs[0].State != Some("New") {
					t.Errorf("row 1 = %+v", recs[0])
				}
				if recs[1].Title != Some("quoted") || recs[1].State != Some("Old") {
					t.Errorf("row 2 = %+v", recs[1])
				}
			},
		},
		{
			name:    "fields are trimmed",
			input:   "ID,Title\n  7  ,\t padded \t\n",
			format:  FormatCSV,
			wantIDs: []string{"7"},
			check: func(t *testing.T, recs []Record) {
				if got := recs[0].Title.String; got != "padded" {
					t.Errorf("Title = %q, want padded", got)
				}
			},
		},
		{
			name:    "empty cell is set, missing column is unset",
			input:   "ID,Title,State\n1,,Active\n",
			format:  FormatCSV,
			wantIDs: []string{"1"},
			check: func(t *testing.T, recs []Record) {
				if recs[0].Title != Some("") {
					t.Errorf("Title = %+v, want set empty", recs[0].Title)
				}
				if recs[0].AssignedTo.Valid {
					t.Errorf("AssignedTo = %+v, want unset", recs[0].AssignedTo)
				}
			},
		},
		{
			name:    "unknown columns are ignored",
			input:   "Priority,ID,Area\nP1,5,Core\n",
			format:  FormatCSV,
			wantIDs: []string{"5"},
			check: func(t *testing.T, recs []Record) {
				if len(recs[0].Map()) != 1 {
					t.Errorf("Map() = %v, want only id", recs[0].Map())
				}
			},
		},
		{
			name:    "column names are case sensitive",
			input:   "id,title\n1,x\n",
			format:  FormatCSV,
			wantIDs: []string{""},
		},
		{
			name:    "all ten columns",
			input:   "ID,Title,Assigned To,DEV Tester,QA Tester,State,Escalation,TargetDate,FleetTracking,MondayComID\n1,t,a,d,q,s,e,2024-05-01,f,m\n",
			format:  FormatCSV,
			wantIDs: []string{"1"},
			check: func(t *testing.T, recs []Record) {
				want := []string{"1", "t", "a", "d", "q", "s", "e", "2024-05-01", "f", "m"}
				got := recs[0].Values()
				for i := range want {
					if got[i] != want[i] {
						t.Errorf("Values()[%d] = %q, want %q", i, got[i], want[i])
					}
				}
			},
		},
		{
			name:    "export labels are accepted as aliases",
			input:   "ID,Target Date,MondayCom ID\n1,2024-01-01,99\n",
			format:  FormatCSV,
			wantIDs: []string{"1"},
			check: func(t *testing.T, recs []Record) {
				if recs[0].TargetDate != Some("2024-01-01") || recs[0].ExternalRefID != Some("99") {
					t.Errorf("aliases not mapped: %+v", recs[0])
				}
			},
		},
		{
			name:    "canonical column wins over alias",
			input:   "ID,Target Date,TargetDate\n1,alias,canonical\n",
			format:  FormatCSV,
			wantIDs: []string{"1"},
			check: func(t *testing.T, recs []Record) {
				if got := recs[0].TargetDate.String; got != "canonical" {
					t.Errorf("TargetDate = %q, want canonical", got)
				}
			},
		},
		{
			name:    "first duplicate header wins",
			input:   "ID,Title,Title\n1,first,second\n",
			format:  FormatCSV,
			wantIDs: []string{"1"},
			check: func(t *testing.T, recs []Record) {
				if got := recs[0].Title.String; got != "first" {
					t.Errorf("Title = %q, want first", got)
				}
			},
		},
		{
			name:    "quoted fields keep commas and newlines",
			input:   "ID,Title\n1,\"a, b\nc\"\n",
			format:  FormatCSV,
			wantIDs: []string{"1"},
			check: func(t *testing.T, recs []Record) {
				if got := recs[0].Title.String; got != "a, b\nc" {
					t.Errorf("Title = %q", got)
				}
			},
		},
		{
			name:    "tab delimited",
			input:   "ID\tTitle\n3\twith, comma\n",
			format:  FormatTSV,
			wantIDs: []string{"3"},
			check: func(t *testing.T, recs []Record) {
				if got := recs[0].Title.String; got != "with, comma" {
					t.Errorf("Title = %q", got)
				}
			},
		},
		{
			name:    "input order is preserved",
			input:   "ID\n3\n1\n2\n",
			format:  FormatCSV,
			wantIDs: []string{"3", "1", "2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := Parse([]byte(tt.input), tt.format)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if recs == nil {
				t.Fatal("Parse() returned nil slice")
			}
			if len(recs) != len(tt.wantIDs) {
				t.Fatalf("Parse() returned %d records, want %d", len(recs), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got := recs[i].Key(); got != id {
					t.Errorf("record %d key = %q, want %q", i, got, id)
				}
			}
			if tt.check != nil {
				tt.check(t, recs)
			}
		})
	}
}

func TestParseDelimited_UTF16(t *testing.T) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	data, err := enc.Bytes([]byte("ID,Title\n9,Überarbeitung\n"))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	recs, err := Parse(data, FormatCSV)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(recs) != 1 || recs[0].Key() != "9" || recs[0].Title.String != "Überarbeitung" {
		t.Errorf("Parse() = %+v", recs)
	}
}

func TestParseDelimited_Failures(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLine int
		wantErr  error
	}{
		{
			name:     "bare quote",
			input:    "ID,Title\n1,ab\"c\n",
			wantLine: 2,
			wantErr:  csv.ErrBareQuote,
		},
		{
			name:     "unterminated quote",
			input:    "ID,Title\n1,ok\n2,\"never closed\n",
			wantLine: 3,
			wantErr:  csv.ErrQuote,
		},
		{
			name:     "row wider than header",
			input:    "ID,Title\n1,a\n2,b,extra\n",
			wantLine: 3,
		},
		{
			name:     "row narrower than header",
			input:    "ID,Title,State\n1,a\n",
			wantLine: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := Parse([]byte(tt.input), FormatCSV)
			if err == nil {
				t.Fatal("expected error")
			}
			if recs != nil {
				t.Errorf("partial records returned: %v", recs)
			}

			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error %T is not *ParseError", err)
			}
			if pe.Line != tt.wantLine {
				t.Errorf("Line = %d, want %d", pe.Line, tt.wantLine)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if !IsParseFailure(err) {
				t.Error("IsParseFailure() = false")
			}
		})
	}
}

func TestParseFile_SetsFileName(t *testing.T) {
	_, err := ParseFile("sprint-12.csv", []byte("ID,Title\n1,\"x\n"))

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if pe.File != "sprint-12.csv" {
		t.Errorf("File = %q, want sprint-12.csv", pe.File)
	}
}

func TestParseFile_UnsupportedFormat(t *testing.T) {
	_, err := ParseFile("legacy.xls", []byte{0xD0, 0xCF})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("error = %v, want ErrUnsupportedFormat", err)
	}
	if IsParseFailure(err) {
		t.Error("unsupported format should not be a parse failure")
	}
}

func buildWorkbook(t *testing.T, rows map[string][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for cell, row := range rows {
		row := row
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("SetSheetRow(%s): %v", cell, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf.Bytes()
}

func TestParseSpreadsheet(t *testing.T) {
	data := buildWorkbook(t, map[string][]any{
		"A1": {"ID", "Title", "State", "Notes"},
		"A2": {"10", "First", "", "x"},
		"A4": {"11", "Second", "Closed"},
		"A5": {"12", " padded "},
	})

	recs, err := Parse(data, FormatSpreadsheet)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("got %d records, want 3", len(recs))
	}

	for i, id := range []string{"10", "11", "12"} {
		if recs[i].Key() != id {
			t.Errorf("record %d key = %q, want %q", i, recs[i].Key(), id)
		}
	}
	if recs[0].State.Valid {
		t.Errorf("empty cell should be unset, got %+v", recs[0].State)
	}
	if recs[1].State != Some("Closed") {
		t.Errorf("State = %+v, want Closed", recs[1].State)
	}
	if recs[2].Title != Some("padded") {
		t.Errorf("Title = %+v, want trimmed", recs[2].Title)
	}
}

func TestParseSpreadsheet_HeaderOnly(t *testing.T) {
	data := buildWorkbook(t, map[string][]any{"A1": {"ID", "Title"}})

	recs, err := Parse(data, FormatSpreadsheet)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if recs == nil || len(recs) != 0 {
		t.Errorf("Parse() = %v, want empty slice", recs)
	}
}

func TestParseSpreadsheet_Corrupt(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "not a zip", data: []byte("ID,Title\n1,a\n")},
		{name: "empty", data: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFile("board.xlsx", tt.data)
			if !IsParseFailure(err) {
				t.Fatalf("error = %v, want parse failure", err)
			}
			if code := MapError(err).Code; code != "XLSX001" {
				t.Errorf("code = %q, want XLSX001", code)
			}
		})
	}
}
