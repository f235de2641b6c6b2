package core

// export.go renders a partition as text.
//
// RenderTSV is the clipboard form: ten fixed columns joined by a tab, lines
// joined by a newline, no trailing newline and no escaping. Tabs or
// newlines inside a value pass through unchanged because spreadsheet
// software pasting the block expects raw cells.
//
// WriteCSV is the download form and quotes values per RFC 4180.

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ExportFormat selects the export encoding.
type ExportFormat string

const (
	ExportTSV ExportFormat = "tsv"
	ExportCSV ExportFormat = "csv"
)

// ParseExportFormat validates an export format name; "" means tsv.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(s)); f {
	case "":
		return ExportTSV, nil
	case ExportTSV, ExportCSV:
		return f, nil
	}
	return "", fmt.Errorf("%w: export format %q", ErrUnsupportedFormat, s)
}

// ContentType returns the MIME type of the export.
func (f ExportFormat) ContentType() string {
	if f == ExportCSV {
		return "text/csv; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

// RenderTSV renders records as a tab-delimited block with a header line.
func RenderTSV(records []Record) string {
	var b strings.Builder
	b.WriteString(strings.Join(ExportLabels(), "\t"))
	for _, rec := range records {
		b.WriteByte('\n')
		b.WriteString(strings.Join(rec.Values(), "\t"))
	}
	return b.String()
}

// WriteCSV writes records as quoted CSV with the export labels as header.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportLabels()); err != nil {
		return err
	}
	for _, rec := range records {
		if err := cw.Write(rec.Values()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Export writes records to w in the given format.
func Export(w io.Writer, records []Record, format ExportFormat) error {
	switch format {
	case ExportTSV, "":
		_, err := io.WriteString(w, RenderTSV(records))
		return err
	case ExportCSV:
		return WriteCSV(w, records)
	}
	return fmt.Errorf("%w: export format %q", ErrUnsupportedFormat, format)
}
