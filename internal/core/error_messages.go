package core

// error_messages.go maps technical errors to user-facing messages with codes
// for support reference. Users can quote the code; the technical error is
// only ever logged.
//
// # Load Errors (LOAD001-LOAD099)
//
//	LOAD001 - Unsupported format: the file extension has no parser
//	LOAD002 - Parse failure: the parser rejected the content
//	LOAD003 - Empty file: the upload has no content
//
// # Selection Errors (SEL001-SEL099)
//
//	SEL001 - Empty selection: no column was chosen
//	SEL002 - No numeric columns: the table has nothing to chart
//	SEL003 - Unknown column: a chosen column is missing or not numeric
//
// # Chart Errors (CHART001-CHART099)
//
//	CHART001 - Too many categories: pie chart column has too many values
//	CHART002 - Render failure: drawing the chart failed unexpectedly
//	CHART003 - Invalid selection: the columns do not fit the chart type
//	CHART004 - No chart: a download was requested before rendering
//
// # Session, File, Upload and Rate Errors
//
//	SES001   - Session not found: expired or unknown dataset
//	FILE001  - File too large
//	FILE004  - No file provided
//	UPL002   - Too many uploads in progress
//	UPL004   - Request cancelled
//	UPL005   - Request timed out
//	RATE001  - Too many requests

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/datadash/internal/chart"
	"github.com/JonMunkholm/datadash/internal/dataset"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
	Detail  string // Specifics safe to show, set for correctable errors only
	Warning bool   // The user can fix this by changing the input
}

var (
	msgUnsupportedFormat = UserMessage{
		Message: "This file type is not supported",
		Action:  "Upload a .csv, .xlsx or .json file",
		Code:    "LOAD001",
		Warning: true,
	}
	msgParseFailure = UserMessage{
		Message: "The file could not be read as a table",
		Action:  "Check that the file is a valid CSV, Excel or JSON table with a header row",
		Code:    "LOAD002",
		Warning: true,
	}
	msgEmptyFile = UserMessage{
		Message: "The uploaded file is empty",
		Action:  "Upload a file with a header row and at least one data row",
		Code:    "LOAD003",
		Warning: true,
	}
	msgSelectionEmpty = UserMessage{
		Message: "No columns selected",
		Action:  "Select at least one column",
		Code:    "SEL001",
		Warning: true,
	}
	msgNoNumericColumns = UserMessage{
		Message: "The file has no numeric columns",
		Action:  "Upload a table with at least one numeric column",
		Code:    "SEL002",
		Warning: true,
	}
	msgSelectionUnknown = UserMessage{
		Message: "A selected column is not a numeric column of this file",
		Action:  "Choose columns from the list",
		Code:    "SEL003",
		Warning: true,
	}
	msgTooManyCategories = UserMessage{
		Message: "Too many categories for a pie chart",
		Action:  "Choose a column with fewer distinct values or another chart type",
		Code:    "CHART001",
		Warning: true,
	}
	msgRenderFailure = UserMessage{
		Message: "The chart could not be drawn",
		Action:  "Try another chart type or column",
		Code:    "CHART002",
	}
	msgInvalidChart = UserMessage{
		Message: "This chart cannot be drawn from the selected columns",
		Action:  "Check the chart type and column selection",
		Code:    "CHART003",
		Warning: true,
	}
	msgNoChart = UserMessage{
		Message: "No chart has been rendered yet",
		Action:  "Render a chart before downloading it",
		Code:    "CHART004",
		Warning: true,
	}
	msgSessionNotFound = UserMessage{
		Message: "This dataset is no longer available",
		Action:  "Upload the file again",
		Code:    "SES001",
	}
)

// typedErrors are checked before message patterns, in order.
var typedErrors = []struct {
	match func(error) bool
	msg   UserMessage
}{
	{dataset.IsUnsupportedFormat, msgUnsupportedFormat},
	{func(err error) bool { return errors.Is(err, ErrEmptyFile) }, msgEmptyFile},
	{dataset.IsParseFailure, msgParseFailure},
	{IsSelectionEmpty, msgSelectionEmpty},
	{func(err error) bool {
		var se *SelectionError
		return errors.As(err, &se) && se.Kind == SelectionUnknown
	}, msgSelectionUnknown},
	{func(err error) bool { return errors.Is(err, ErrNoNumericColumns) }, msgNoNumericColumns},
	{func(err error) bool { return chart.WarningCodeOf(err) == chart.TooManyCategories }, msgTooManyCategories},
	{func(err error) bool { return chart.WarningCodeOf(err) == chart.InvalidSelection }, msgInvalidChart},
	{func(err error) bool {
		var re *chart.RenderError
		return errors.As(err, &re)
	}, msgRenderFailure},
	{func(err error) bool { return errors.Is(err, ErrNoChart) }, msgNoChart},
	{func(err error) bool { return errors.Is(err, ErrSessionNotFound) }, msgSessionNotFound},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error text (case-insensitive) to user
// messages for errors that carry no type, such as those from net/http.
// The first matching pattern wins, so specific patterns come first.
var errorPatterns = []errorPattern{
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum size limit",
			Action:  "Split the file or remove unused columns before uploading",
			Code:    "FILE001",
			Warning: true,
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "File exceeds the maximum size limit",
			Action:  "Split the file or remove unused columns before uploading",
			Code:    "FILE001",
			Warning: true,
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a file to upload",
			Code:    "FILE004",
			Warning: true,
		},
	},
	{
		pattern: "too many concurrent uploads",
		msg: UserMessage{
			Message: "System is busy processing other uploads",
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
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000). Support staff
// should check the logs for the technical error when users report ERR000.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message. Typed
// errors are matched first; the text of anything else is searched for
// known patterns. Unmatched errors map to ERR000.
//
// Example:
//
//	_, err := dataset.Load("notes.txt", data)
//	msg := MapError(err)
//	// msg.Code == "LOAD001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, te := range typedErrors {
		if te.match(err) {
			msg := te.msg
			if msg.Warning {
				msg.Detail = err.Error()
			}
			return msg
		}
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

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message. Error()
// returns the user message; Unwrap returns the technical error for logging.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. It returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
