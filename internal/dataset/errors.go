package dataset

import (
	"errors"
	"fmt"
)

// LoadErrorKind distinguishes why a file could not be turned into a Table.
type LoadErrorKind int

const (
	// UnsupportedFormat means the file name has no registered parser.
	UnsupportedFormat LoadErrorKind = iota + 1
	// ParseFailure means the parser rejected the file content.
	ParseFailure
)

func (k LoadErrorKind) String() string {
	switch k {
	case UnsupportedFormat:
		return "unsupported format"
	case ParseFailure:
		return "parse failure"
	default:
		return "load error"
	}
}

// LoadError is returned by Load. Err is set for ParseFailure.
type LoadError struct {
	Kind     LoadErrorKind
	FileName string
	Err      error
}

func (e *LoadError) Error() string {
	if e.Kind == UnsupportedFormat {
		return fmt.Sprintf("unsupported format: %q (supported: %s)", e.FileName, SupportedExtensionsList())
	}
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("parse failure: %v", e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsUnsupportedFormat reports whether err is a LoadError for an unknown extension.
func IsUnsupportedFormat(err error) bool {
	var le *LoadError
	return errors.As(err, &le) && le.Kind == UnsupportedFormat
}

// IsParseFailure reports whether err is a LoadError raised by a parser.
func IsParseFailure(err error) bool {
	var le *LoadError
	return errors.As(err, &le) && le.Kind == ParseFailure
}

// ErrUnknownColumn is wrapped when a column name is not part of a table.
var ErrUnknownColumn = errors.New("column not found")

// ErrNotNumeric is wrapped when a numeric operation targets a non-numeric column.
var ErrNotNumeric = errors.New("column is not numeric")

// errEmptyFile is the parse failure for zero-byte or whitespace-only uploads.
var errEmptyFile = errors.New("empty file")
