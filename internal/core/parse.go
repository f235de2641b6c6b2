package core

// parse.go turns a raw file into an ordered []Record.
//
// Parsing is two-step: every data row first becomes an untyped
// header -> value mapping, which is then projected onto the fixed Record
// schema. Unrecognized headers are dropped and missing ones stay unset.
//
// Failures are atomic. Either the whole sequence is returned or a
// *ParseError and no records.

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is the parse mode selected from a file name.
type Format string

const (
	FormatCSV         Format = "csv"  // comma-delimited text
	FormatTSV         Format = "tsv"  // tab-delimited text
	FormatSpreadsheet Format = "xlsx" // Office Open XML workbook
)

// FormatFromName derives the format hint from a file name's extension.
func FormatFromName(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".tsv", ".tab", ".txt":
		return FormatTSV, nil
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return FormatSpreadsheet, nil
	case ".xls":
		return "", fmt.Errorf("%w: legacy .xls workbooks are not supported, save as .xlsx", ErrUnsupportedFormat)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(name))
	}
}

// Parse converts data into records under the given format.
func Parse(data []byte, format Format) ([]Record, error) {
	var (
		records []Record
		err     error
	)

	switch format {
	case FormatCSV:
		records, err = parseDelimited(data, ',')
	case FormatTSV:
		records, err = parseDelimited(data, '\t')
	case FormatSpreadsheet:
		records, err = parseSpreadsheet(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if err != nil {
		return nil, err
	}
	return records, nil
}

// ParseFile derives the format from name and parses data. Parse errors
// carry the file name.
func ParseFile(name string, data []byte) ([]Record, error) {
	format, err := FormatFromName(name)
	if err != nil {
		return nil, err
	}

	records, err := Parse(data, format)
	if pe, ok := err.(*ParseError); ok {
		pe.File = name
	}
	return records, err
}

// rowMap builds the untyped header -> value mapping for one data row.
// Cells beyond the header are dropped; the first of duplicate header names wins.
func rowMap(header, row []string) map[string]string {
	m := make(map[string]string, len(header))
	for i, name := range header {
		if i >= len(row) {
			break
		}
		if _, seen := m[name]; seen {
			continue
		}
		m[name] = row[i]
	}
	return m
}

// project maps an untyped row onto the Record schema. When keepEmpty is
// false, empty cells are treated as absent.
func project(m map[string]string, keepEmpty bool) Record {
	var r Record
	for name, value := range m {
		f, ok := FieldForColumn(name)
		if !ok {
			continue
		}
		if value == "" && !keepEmpty {
			continue
		}
		// An alias must not override the canonical column.
		if r.Get(f).Valid && name != f.Spec().Column {
			continue
		}
		r.Set(f, Some(value))
	}
	return r
}

// trimRow trims surrounding whitespace from every cell in place.
func trimRow(row []string) {
	for i, v := range row {
		row[i] = strings.TrimSpace(v)
	}
}

// isEmptyRow reports whether every cell is blank. Workbooks do not keep a
// difference between a blank row and a row of empty cells.
func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
