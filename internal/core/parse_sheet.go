package core

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// parseSpreadsheet reads the first worksheet of an xlsx workbook. The first
// non-blank row is the header. Empty cells are treated as absent.
func parseSpreadsheet(data []byte) ([]Record, error) {
	fail := func(err error) ([]Record, error) {
		return nil, &ParseError{Format: FormatSpreadsheet, Err: err}
	}

	if len(data) == 0 {
		return fail(fmt.Errorf("corrupt workbook: %w", ErrEmptyFile))
	}

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return fail(fmt.Errorf("corrupt workbook: %w", err))
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return fail(ErrNoSheets)
	}

	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return fail(fmt.Errorf("read sheet %q: %w", sheets[0], err))
	}

	var header []string
	records := []Record{}

	for _, row := range rows {
		trimRow(row)
		if isEmptyRow(row) {
			continue
		}
		if header == nil {
			header = row
			continue
		}
		records = append(records, project(rowMap(header, row), false))
	}

	return records, nil
}
