package core

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// NewTextReader strips a UTF-8 byte-order mark, decodes UTF-16 input that
// starts with a BOM and replaces invalid UTF-8 with U+FFFD.
func NewTextReader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}

// parseDelimited reads delimited text whose first non-blank row is the header.
func parseDelimited(data []byte, comma rune) ([]Record, error) {
	format := FormatCSV
	if comma == '\t' {
		format = FormatTSV
	}

	text, err := io.ReadAll(NewTextReader(bytes.NewReader(data)))
	if err != nil {
		return nil, &ParseError{Format: format, Err: fmt.Errorf("encoding error: %w", err)}
	}

	reader := csv.NewReader(strings.NewReader(trimQuotePadding(string(text), comma)))
	reader.Comma = comma
	reader.FieldsPerRecord = -1 // width is checked against the header below
	// A leading tab is an empty cell in tab mode, so only comma mode trims.
	reader.TrimLeadingSpace = comma != '\t'

	var (
		header  []string
		records []Record
	)

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			pe := &ParseError{Format: format, Err: err}
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				pe.Line = csvErr.StartLine
				pe.Err = csvErr.Err
			}
			return nil, pe
		}

		trimRow(row)
		if isBlankLine(row) {
			continue
		}

		if header == nil {
			header = row
			continue
		}

		if len(row) != len(header) {
			line, _ := reader.FieldPos(0)
			return nil, &ParseError{
				Format: format,
				Line:   line,
				Err:    fmt.Errorf("row has %d fields, header has %d", len(row), len(header)),
			}
		}

		records = append(records, project(rowMap(header, row), true))
	}

	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// isBlankLine reports whether a row came from a line holding nothing but
// whitespace. A row of empty cells such as "," is data.
func isBlankLine(row []string) bool {
	return len(row) == 1 && row[0] == ""
}

// trimQuotePadding removes spaces (and tabs, outside tab mode) between a
// delimiter and an opening quote and between a closing quote and the next
// delimiter or line end, so ` "a, b" ` reads as a quoted field. Only
// whitespace is removed, so line numbers are unchanged.
func trimQuotePadding(s string, comma rune) string {
	isPad := func(c byte) bool {
		return c == ' ' || (c == '\t' && comma != '\t')
	}

	var b strings.Builder
	b.Grow(len(s))

	inQuotes := false
	fieldStart := true

	for i := 0; i < len(s); i++ {
		c := s[i]

		if inQuotes {
			b.WriteByte(c)
			if c != '"' {
				continue
			}
			if i+1 < len(s) && s[i+1] == '"' {
				b.WriteByte('"')
				i++
				continue
			}
			inQuotes = false
			for i+1 < len(s) && isPad(s[i+1]) {
				i++
			}
			continue
		}

		if fieldStart && isPad(c) {
			j := i
			for j < len(s) && isPad(s[j]) {
				j++
			}
			if j < len(s) && s[j] == '"' {
				i = j - 1
				continue
			}
			b.WriteString(s[i:j])
			i = j - 1
			continue
		}

		b.WriteByte(c)
		switch {
		case rune(c) == comma, c == '\n':
			fieldStart = true
		case c == '"' && fieldStart:
			inQuotes = true
			fieldStart = false
		case c != '\r':
			fieldStart = false
		}
	}

	return b.String()
}
