// Package output provides formatters for CLI output.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"

	"github.com/JonMunkholm/IterDiff/internal/core"
)

// Format types for output.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTSV   Format = "tsv"
	FormatCSV   Format = "csv"
)

// Formatter writes data in one output format.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// FormatterFunc allows functions to implement Formatter.
type FormatterFunc func(io.Writer, any) error

// Format implements the Formatter interface.
func (f FormatterFunc) Format(w io.Writer, data any) error {
	return f(w, data)
}

// NewFormatter creates the formatter for format. Unknown formats get a table.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: "  "}
	case FormatYAML:
		return &YAMLFormatter{}
	case FormatTSV:
		return FormatterFunc(formatTSV)
	case FormatCSV:
		return FormatterFunc(formatCSV)
	default:
		return &TableFormatter{}
	}
}

// JSONFormatter outputs JSON format.
type JSONFormatter struct {
	Indent string
}

// Format implements the Formatter interface for JSON output.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	if f.Indent != "" {
		encoder.SetIndent("", f.Indent)
	}
	return encoder.Encode(data)
}

// YAMLFormatter outputs YAML format.
type YAMLFormatter struct{}

// Format outputs data in YAML format.
func (f *YAMLFormatter) Format(w io.Writer, data any) error {
	yamlData, err := yaml.MarshalWithOptions(data,
		yaml.Indent(2),
		yaml.IndentSequence(false),
	)
	if err != nil {
		return err
	}
	_, err = w.Write(yamlData)
	return err
}

// Data represents data formatted for table output.
type Data struct {
	Caption string
	Headers []string
	Rows    [][]string
}

// TableFormatter outputs tables. It accepts Data, []Data and record slices;
// anything else is written as JSON.
type TableFormatter struct{}

// Format outputs data in table format.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case Data:
		return f.formatTable(w, v)
	case []Data:
		for i, d := range v {
			if i > 0 {
				if _, err := io.WriteString(w, "\n"); err != nil {
					return err
				}
			}
			if err := f.formatTable(w, d); err != nil {
				return err
			}
		}
		return nil
	case []core.Record:
		return f.formatTable(w, RecordsTable("", v))
	default:
		return (&JSONFormatter{Indent: "  "}).Format(w, data)
	}
}

func (f *TableFormatter) formatTable(w io.Writer, data Data) error {
	if data.Caption != "" {
		if _, err := fmt.Fprintf(w, "%s (%d)\n", data.Caption, len(data.Rows)); err != nil {
			return err
		}
	}

	table := tablewriter.NewTable(w)

	if len(data.Headers) > 0 {
		headers := make([]any, len(data.Headers))
		for i, h := range data.Headers {
			headers[i] = h
		}
		table.Header(headers...)
	}

	for _, row := range data.Rows {
		rowData := make([]any, len(row))
		for i, cell := range row {
			rowData[i] = cell
		}
		if err := table.Append(rowData...); err != nil {
			return err
		}
	}

	return table.Render()
}

// formatTSV writes records as the raw clipboard block, or Data rows joined
// by tabs. A trailing newline is added for terminals.
func formatTSV(w io.Writer, data any) error {
	var text string
	switch v := data.(type) {
	case []core.Record:
		text = core.RenderTSV(v)
	case Data:
		lines := make([]string, 0, len(v.Rows)+1)
		lines = append(lines, strings.Join(v.Headers, "\t"))
		for _, row := range v.Rows {
			lines = append(lines, strings.Join(row, "\t"))
		}
		text = strings.Join(lines, "\n")
	default:
		return fmt.Errorf("tsv output is not available for %T", data)
	}
	_, err := io.WriteString(w, text+"\n")
	return err
}

func formatCSV(w io.Writer, data any) error {
	switch v := data.(type) {
	case []core.Record:
		return core.WriteCSV(w, v)
	case Data:
		cw := csv.NewWriter(w)
		if err := cw.Write(v.Headers); err != nil {
			return err
		}
		if err := cw.WriteAll(v.Rows); err != nil {
			return err
		}
		return cw.Error()
	default:
		return fmt.Errorf("csv output is not available for %T", data)
	}
}

// DetectFormat auto-detects format based on terminal and environment.
func DetectFormat(explicitFormat string) Format {
	if explicitFormat != "" {
		return Format(strings.ToLower(explicitFormat))
	}

	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return FormatTable
	}

	// Pipes and redirects get the clipboard-compatible block.
	return FormatTSV
}

// ParseFormat converts string to Format with validation.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(s))
	switch format {
	case FormatTable, FormatJSON, FormatYAML, FormatTSV, FormatCSV, "":
		return format, nil
	default:
		return "", fmt.Errorf("invalid format %q: must be one of: table, json, yaml, tsv, csv", s)
	}
}
