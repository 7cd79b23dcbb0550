// Package dataset loads uploaded files into read-only tables and provides
// the column operations the dashboard runs on them: numeric column
// detection, projection, previews and descriptive statistics.
//
// A Table wraps a gota DataFrame. Tables are never modified after they are
// built; every operation returns a new Table, so a session can keep the
// original upload and a filtered working copy side by side.
package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// nanValues are the cell spellings treated as missing values on load.
var nanValues = []string{"", "NA", "N/A", "NaN", "nan", "null", "NULL", "<nil>"}

// loadOptions are shared by every parser so type inference is identical
// whichever format a table came from.
func loadOptions() []dataframe.LoadOption {
	return []dataframe.LoadOption{
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nanValues),
	}
}

// Table is an immutable, ordered collection of named columns.
type Table struct {
	df dataframe.DataFrame
}

// FromRecords builds a Table from a header row followed by data rows, with
// column types inferred from the cell text. A header without data rows
// gives a zero-row table of string columns.
func FromRecords(records [][]string) (*Table, error) {
	switch len(records) {
	case 0:
		return nil, errEmptyFile
	case 1:
		cols := make([]series.Series, len(records[0]))
		for i, name := range records[0] {
			cols[i] = series.New([]string{}, series.String, name)
		}
		return FromSeries(cols...)
	}
	return fromDataFrame(dataframe.LoadRecords(records, loadOptions()...))
}

// FromSeries builds a Table from already-typed columns.
func FromSeries(cols ...series.Series) (*Table, error) {
	if len(cols) == 0 {
		return nil, errEmptyFile
	}
	return fromDataFrame(dataframe.New(cols...))
}

func fromDataFrame(df dataframe.DataFrame) (*Table, error) {
	if df.Err != nil {
		return nil, df.Err
	}
	return &Table{df: df}, nil
}

// Names returns the column names in table order.
func (t *Table) Names() []string {
	return t.df.Names()
}

// Rows returns the number of rows.
func (t *Table) Rows() int {
	return t.df.Nrow()
}

// Cols returns the number of columns.
func (t *Table) Cols() int {
	return t.df.Ncol()
}

// HasColumn reports whether name is a column of t.
func (t *Table) HasColumn(name string) bool {
	return t.index(name) >= 0
}

func (t *Table) index(name string) int {
	for i, n := range t.df.Names() {
		if n == name {
			return i
		}
	}
	return -1
}

// ColumnType returns the inferred element type of a column
// ("int", "float", "string" or "bool").
func (t *Table) ColumnType(name string) (string, error) {
	i := t.index(name)
	if i < 0 {
		return "", fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	return string(t.df.Types()[i]), nil
}

// IsNumeric reports whether name is a column with an int or float type.
func (t *Table) IsNumeric(name string) bool {
	i := t.index(name)
	return i >= 0 && isNumericType(t.df.Types()[i])
}

func isNumericType(typ series.Type) bool {
	return typ == series.Int || typ == series.Float
}

// NumericColumns returns the names of the int and float columns, in table
// order. The result is empty, never nil, when there are none.
func (t *Table) NumericColumns() []string {
	names := t.df.Names()
	out := make([]string, 0, len(names))
	for i, typ := range t.df.Types() {
		if isNumericType(typ) {
			out = append(out, names[i])
		}
	}
	return out
}

// FilterColumns returns a new Table holding exactly the columns named in
// keep, in table order. Duplicates in keep are ignored; an unknown name is
// an error. Row order and values are unchanged.
func (t *Table) FilterColumns(keep []string) (*Table, error) {
	want := make(map[string]bool, len(keep))
	for _, name := range keep {
		if !t.HasColumn(name) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
		}
		want[name] = true
	}

	selected := make([]string, 0, len(want))
	for _, name := range t.df.Names() {
		if want[name] {
			selected = append(selected, name)
		}
	}
	if len(selected) == 0 {
		return &Table{df: dataframe.New()}, nil
	}
	return fromDataFrame(t.df.Select(selected))
}

// Head returns the first n rows, or the whole table when it is shorter.
func (t *Table) Head(n int) *Table {
	if n >= t.Rows() {
		return t
	}
	if n < 0 {
		n = 0
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return t.SubsetRows(idx)
}

// SubsetRows returns the rows at the given positions, in the order given.
// An empty index list yields a table with the same columns and no rows.
func (t *Table) SubsetRows(idx []int) *Table {
	if len(idx) == 0 {
		return t.emptyLike()
	}
	return &Table{df: t.df.Subset(idx)}
}

// emptyLike returns a zero-row table with the same column names and types.
func (t *Table) emptyLike() *Table {
	names := t.df.Names()
	cols := make([]series.Series, len(names))
	for i, typ := range t.df.Types() {
		cols[i] = series.New([]string{}, typ, names[i])
	}
	return &Table{df: dataframe.New(cols...)}
}

// Floats returns a numeric column as float64 values. Missing cells are NaN.
func (t *Table) Floats(name string) ([]float64, error) {
	i := t.index(name)
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	if !isNumericType(t.df.Types()[i]) {
		return nil, fmt.Errorf("%w: %q", ErrNotNumeric, name)
	}
	return t.df.Col(name).Float(), nil
}

// Records returns the header followed by every row formatted as text.
// Missing cells are empty strings.
func (t *Table) Records() [][]string {
	names := t.df.Names()
	out := make([][]string, 0, t.Rows()+1)
	out = append(out, append([]string(nil), names...))

	cols := make([]series.Series, len(names))
	for j, name := range names {
		cols[j] = t.df.Col(name)
	}
	for i := 0; i < t.Rows(); i++ {
		row := make([]string, len(cols))
		for j, col := range cols {
			row[j] = formatCell(col.Elem(i), col.Type())
		}
		out = append(out, row)
	}
	return out
}

func formatCell(e series.Element, typ series.Type) string {
	if e.IsNA() {
		return ""
	}
	if typ == series.Float {
		s := FormatFloat(e.Float())
		// Keep a decimal point so the column reloads as float, not int.
		if !strings.ContainsAny(s, ".eEIN") {
			s += ".0"
		}
		return s
	}
	return e.String()
}

// FormatFloat renders v with the fewest digits that read back to the same
// value. NaN is rendered as an empty string.
func FormatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
