package chart

import (
	"errors"
	"fmt"
)

// WarningCode classifies an expected, user-correctable chart condition.
type WarningCode int

const (
	// TooManyCategories means a pie chart column has more distinct values
	// than the configured maximum.
	TooManyCategories WarningCode = iota + 1
	// InvalidSelection means the selected columns do not fit the chart kind.
	InvalidSelection
)

func (c WarningCode) String() string {
	switch c {
	case TooManyCategories:
		return "too_many_categories"
	case InvalidSelection:
		return "invalid_selection"
	default:
		return "warning"
	}
}

// Warning is returned instead of a chart when the user should adjust the
// selection. No image is produced.
type Warning struct {
	Code    WarningCode
	Message string
}

func (w *Warning) Error() string {
	return w.Message
}

func warnf(code WarningCode, format string, args ...any) *Warning {
	return &Warning{Code: code, Message: fmt.Sprintf(format, args...)}
}

// RenderError wraps an unexpected failure while drawing a chart.
type RenderError struct {
	Kind Kind
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Kind.Label(), e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// IsWarning reports whether err is a *Warning.
func IsWarning(err error) bool {
	var w *Warning
	return errors.As(err, &w)
}

// WarningCodeOf returns the code of a *Warning in err's chain, or 0.
func WarningCodeOf(err error) WarningCode {
	var w *Warning
	if errors.As(err, &w) {
		return w.Code
	}
	return 0
}

// ErrNoImage is returned by EncodePNG for a result without an image.
var ErrNoImage = errors.New("chart has no image")
