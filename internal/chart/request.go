package chart

import (
	"github.com/JonMunkholm/datadash/internal/dataset"
)

// Request selects a chart kind and the column or columns it plots.
// Y is only read for two-column kinds; neither is read for
// CorrelationHeatmap.
type Request struct {
	Kind Kind   `json:"kind"`
	X    string `json:"x,omitempty"`
	Y    string `json:"y,omitempty"`
}

// Validate checks the request against t. Every problem is reported as a
// *Warning with Code InvalidSelection.
func (r Request) Validate(t *dataset.Table) error {
	if !r.Kind.Valid() {
		return warnf(InvalidSelection, "choose a chart type")
	}

	switch r.Kind.Arity() {
	case AllNumeric:
		if len(t.NumericColumns()) == 0 {
			return warnf(InvalidSelection, "%s needs at least one numeric column", r.Kind.Label())
		}
	case OneColumn:
		return checkNumeric(t, r.Kind, r.X)
	case TwoColumns:
		if err := checkNumeric(t, r.Kind, r.X); err != nil {
			return err
		}
		return checkNumeric(t, r.Kind, r.Y)
	}
	return nil
}

// Columns returns the columns the request reads from t.
func (r Request) Columns(t *dataset.Table) []string {
	switch r.Kind.Arity() {
	case OneColumn:
		return []string{r.X}
	case TwoColumns:
		return []string{r.X, r.Y}
	default:
		return t.NumericColumns()
	}
}

func checkNumeric(t *dataset.Table, kind Kind, col string) error {
	switch {
	case col == "":
		return warnf(InvalidSelection, "%s needs %d column(s); select a column", kind.Label(), int(kind.Arity()))
	case !t.HasColumn(col):
		return warnf(InvalidSelection, "column %q is not in the selected data", col)
	case !t.IsNumeric(col):
		return warnf(InvalidSelection, "column %q is not numeric", col)
	}
	return nil
}
