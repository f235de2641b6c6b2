package core

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned when a file extension maps to no parser.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrNoSheets is returned for a workbook without any worksheet.
	ErrNoSheets = errors.New("workbook has no sheets")

	// ErrEmptyFile is returned when no bytes were supplied for a slot.
	ErrEmptyFile = errors.New("empty file")

	// ErrFileTooLarge is returned when an upload exceeds the configured size.
	ErrFileTooLarge = errors.New("file too large")

	// ErrNoFile is returned when a load request carries no file at all.
	ErrNoFile = errors.New("no file provided")

	// ErrUnknownSlot is returned for a slot name other than original/updated.
	ErrUnknownSlot = errors.New("unknown snapshot slot")

	// ErrUnknownPartition is returned for a partition other than removed/added/matching.
	ErrUnknownPartition = errors.New("unknown partition")

	// ErrNoResult is returned when a partition is requested before any comparison.
	ErrNoResult = errors.New("no comparison result")

	// ErrRecordNotFound is returned when a cell is requested for an id not in the partition.
	ErrRecordNotFound = errors.New("record not found")

	// ErrSessionNotFound is returned for an unknown or expired session.
	ErrSessionNotFound = errors.New("session not found")

	// ErrClipboard is the ClipboardFailure reported back by the presentation layer.
	ErrClipboard = errors.New("clipboard write failed")
)

// ParseError is a ParseFailure: the bytes could not be interpreted under
// the declared format. The snapshot slot is never modified when one occurs.
type ParseError struct {
	Format Format
	File   string
	Line   int // 0 when not tied to a line
	Err    error
}

func (e *ParseError) Error() string {
	loc := e.File
	if loc == "" {
		loc = "input"
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse %s %s line %d: %v", e.Format, loc, e.Line, e.Err)
	}
	return fmt.Sprintf("parse %s %s: %v", e.Format, loc, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsParseFailure reports whether err is (or wraps) a ParseError.
func IsParseFailure(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// UnknownFieldError is returned by ParseField.
type UnknownFieldError struct {
	Name string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field %q", e.Name)
}
