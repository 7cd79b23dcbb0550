package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSessionNotFound is returned for unknown or expired session IDs.
	ErrSessionNotFound = errors.New("session not found")

	// ErrNoChart is returned when exporting a chart before one was rendered.
	ErrNoChart = errors.New("no chart rendered yet")

	// ErrNoNumericColumns means the uploaded table has nothing to analyse.
	ErrNoNumericColumns = errors.New("no numeric columns")

	// ErrFileTooLarge is returned when an upload exceeds the size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrEmptyFile is returned for uploads with no content.
	ErrEmptyFile = errors.New("empty file")

	// ErrNoFile is returned when an upload has no file name.
	ErrNoFile = errors.New("no file provided")
)

// SelectionErrorKind distinguishes invalid column selections.
type SelectionErrorKind int

const (
	// SelectionEmpty means no column was chosen.
	SelectionEmpty SelectionErrorKind = iota + 1
	// SelectionUnknown means a chosen column is missing or not numeric.
	SelectionUnknown
)

// SelectionError reports an invalid column selection. The working table is
// left unchanged.
type SelectionError struct {
	Kind    SelectionErrorKind
	Columns []string
}

func (e *SelectionError) Error() string {
	if e.Kind == SelectionEmpty {
		return "select at least one column"
	}
	return fmt.Sprintf("unknown or non-numeric column: %s", strings.Join(e.Columns, ", "))
}

// IsSelectionEmpty reports whether err is an empty-selection error.
func IsSelectionEmpty(err error) bool {
	var se *SelectionError
	return errors.As(err, &se) && se.Kind == SelectionEmpty
}
