package core

// error_messages.go maps technical errors onto user-facing messages.
//
// # Error Codes Reference
//
// Every message carries a code users can quote when reporting a problem.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds the maximum upload size
//	          Patterns: "file too large"
//
//	FILE002 - Invalid text file: File is not valid delimited text
//	          Patterns: "parse csv", "parse tsv"
//
//	FILE003 - Encoding error: File contains invalid characters
//	          Patterns: "encoding error", "invalid utf"
//
//	FILE004 - No file: No file was selected
//	          Patterns: "no file provided"
//
//	FILE005 - Empty file: The uploaded file is empty
//	          Patterns: "empty file"
//
//	FILE006 - Unsupported format: File type is not supported
//	          Patterns: "unsupported file format"
//
// # Workbook Errors (XLSX001-XLSX099)
//
//	XLSX001 - Corrupt workbook: Workbook could not be opened
//	          Patterns: "corrupt workbook", "parse xlsx"
//
//	XLSX002 - No sheets: Workbook contains no worksheets
//	          Patterns: "workbook has no sheets"
//
// # Session and Result Errors (SES001, RES001-RES099)
//
//	SES001 - Session expired: Comparison session not found
//	RES001 - No result: Nothing has been compared yet
//	RES002 - Unknown partition: Partition is not removed, added or matching
//	RES003 - Record not found: No record with that ID in the partition
//	RES004 - Unknown field: Field name is not part of the record schema
//	RES005 - Unknown slot: Slot is not original or updated
//
// # Upload Errors (UPL002-UPL005)
//
//	UPL002 - System busy: Too many files are being parsed
//	UPL004 - Request cancelled
//	UPL005 - Request timeout
//
// # Other
//
//	CLIP001 - Clipboard: The browser refused the clipboard write
//	RATE001 - Rate limited: Too many requests
//	ERR000  - Unknown error: check the logs for the technical error
//
// Patterns are matched case-insensitively with strings.Contains. The first
// match wins, so specific patterns sit above general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var (
	msgCorruptWorkbook = UserMessage{
		Message: "The workbook could not be opened",
		Action:  "Open it in your spreadsheet program and save it again as .xlsx",
		Code:    "XLSX001",
	}
	msgInvalidText = UserMessage{
		Message: "File is not valid delimited text",
		Action:  "Check for unbalanced quotes and rows with a different number of columns than the header",
		Code:    "FILE002",
	}
	msgEncoding = UserMessage{
		Message: "File contains invalid characters",
		Action:  "Save the file as UTF-8",
		Code:    "FILE003",
	}
)

var errorPatterns = []errorPattern{
	// Workbook errors are checked first: a corrupt workbook may also wrap "empty file".
	{pattern: "corrupt workbook", msg: msgCorruptWorkbook},
	{
		pattern: "workbook has no sheets",
		msg: UserMessage{
			Message: "The workbook contains no worksheets",
			Action:  "Add the work items to the first sheet",
			Code:    "XLSX002",
		},
	},
	{pattern: "parse xlsx", msg: msgCorruptWorkbook},

	{pattern: "encoding error", msg: msgEncoding},
	{pattern: "invalid utf", msg: msgEncoding},
	{pattern: "parse csv", msg: msgInvalidText},
	{pattern: "parse tsv", msg: msgInvalidText},
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Export fewer columns or split the iteration",
			Code:    "FILE001",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Choose a .csv, .tsv or .xlsx file",
			Code:    "FILE004",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Upload a file with a header row",
			Code:    "FILE005",
		},
	},
	{
		pattern: "unsupported file format",
		msg: UserMessage{
			Message: "File type is not supported",
			Action:  "Use .csv, .tsv or .xlsx",
			Code:    "FILE006",
		},
	},

	{
		pattern: "session not found",
		msg: UserMessage{
			Message: "Comparison session not found",
			Action:  "Your session may have expired. Load both files again",
			Code:    "SES001",
		},
	},
	{
		pattern: "no comparison result",
		msg: UserMessage{
			Message: "Nothing has been compared yet",
			Action:  "Load both files and run the comparison",
			Code:    "RES001",
		},
	},
	{
		pattern: "unknown partition",
		msg: UserMessage{
			Message: "Unknown result table",
			Action:  "Use removed, added or matching",
			Code:    "RES002",
		},
	},
	{
		pattern: "record not found",
		msg: UserMessage{
			Message: "No item with that ID in this table",
			Action:  "Refresh the results and try again",
			Code:    "RES003",
		},
	},
	{
		pattern: "unknown field",
		msg: UserMessage{
			Message: "Unknown column",
			Action:  "Run the columns command to list valid names",
			Code:    "RES004",
		},
	},
	{
		pattern: "unknown snapshot slot",
		msg: UserMessage{
			Message: "Unknown file slot",
			Action:  "Use original or updated",
			Code:    "RES005",
		},
	},

	{
		pattern: "too many concurrent uploads",
		msg: UserMessage{
			Message: "System is busy parsing other files",
			Action:  "Please wait a moment and try again",
			Code:    "UPL002",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or check your connection",
			Code:    "UPL005",
		},
	},

	{
		pattern: "clipboard write failed",
		msg: UserMessage{
			Message: "Could not copy to the clipboard",
			Action:  "Allow clipboard access for this page or copy the text manually",
			Code:    "CLIP001",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message. The first
// matching pattern wins; unmatched errors map to ERR000.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific code rather than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
