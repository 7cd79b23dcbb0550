// Package chart renders the dashboard's chart kinds to images.
//
// Render validates a Request against a table, dispatches to the renderer
// for its Kind and returns a Result holding the finished image. Histograms
// and the line, pie, box and scatter charts are drawn with go-chart; the
// two heatmaps are rastered directly because go-chart has no heatmap series.
//
// Expected, user-correctable conditions (too many pie slices, a column that
// does not fit the chart) come back as *Warning. Anything else that goes
// wrong while drawing, including a panic inside a renderer, comes back as
// *RenderError. A failed render never returns a partial image.
package chart

import (
	"fmt"
	"strings"
)

// Kind identifies one of the supported chart types.
type Kind int

const (
	Histogram Kind = iota + 1
	Line
	Pie
	Box
	Scatter
	DensityHeatmap
	CorrelationHeatmap
)

// Arity is the number of columns a chart kind draws from.
type Arity int

const (
	// AllNumeric kinds ignore the selected columns and use every numeric
	// column of the table.
	AllNumeric Arity = 0
	OneColumn  Arity = 1
	TwoColumns Arity = 2
)

type kindInfo struct {
	name  string
	label string
	arity Arity
}

var kinds = map[Kind]kindInfo{
	Histogram:          {"histogram", "Histogram", OneColumn},
	Line:               {"line", "Line Chart", OneColumn},
	Pie:                {"pie", "Pie Chart", OneColumn},
	Box:                {"box", "Box Plot", OneColumn},
	Scatter:            {"scatter", "Scatter Plot", TwoColumns},
	DensityHeatmap:     {"density_heatmap", "Density Heatmap", TwoColumns},
	CorrelationHeatmap: {"correlation_heatmap", "Correlation Heatmap", AllNumeric},
}

// Kinds returns every chart kind in display order.
func Kinds() []Kind {
	return []Kind{Histogram, Line, Pie, Box, Scatter, DensityHeatmap, CorrelationHeatmap}
}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool {
	_, ok := kinds[k]
	return ok
}

// String returns the machine name used in forms, URLs and the CLI.
func (k Kind) String() string {
	if info, ok := kinds[k]; ok {
		return info.name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Label returns the human-readable name.
func (k Kind) Label() string {
	if info, ok := kinds[k]; ok {
		return info.label
	}
	return k.String()
}

// Arity returns how many selected columns the kind draws from.
func (k Kind) Arity() Arity {
	return kinds[k].arity
}

// NeedsY reports whether the kind plots one column against another.
func (k Kind) NeedsY() bool {
	return k.Arity() == TwoColumns
}

// ParseKind accepts a machine name or label in any case, with spaces or
// hyphens in place of underscores: "density-heatmap", "Box Plot", "pie".
func ParseKind(s string) (Kind, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	for _, k := range Kinds() {
		info := kinds[k]
		if norm == info.name || norm == strings.ReplaceAll(strings.ToLower(info.label), " ", "_") {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown chart kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid chart kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
