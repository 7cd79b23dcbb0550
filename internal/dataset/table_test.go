package dataset

import (
	"errors"
	"testing"

	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTable(t *testing.T, records [][]string) *Table {
	t.Helper()
	tbl, err := FromRecords(records)
	require.NoError(t, err)
	return tbl
}

func TestNumericColumns(t *testing.T) {
	tests := []struct {
		name    string
		records [][]string
		want    []string
	}{
		{
			name:    "text and numeric",
			records: [][]string{{"id", "score"}, {"a", "1"}, {"b", "2.5"}},
			want:    []string{"score"},
		},
		{
			name:    "table order kept",
			records: [][]string{{"z", "label", "a"}, {"1", "x", "0.1"}},
			want:    []string{"z", "a"},
		},
		{
			name:    "booleans are not numeric",
			records: [][]string{{"flag", "n"}, {"true", "1"}, {"false", "2"}},
			want:    []string{"n"},
		},
		{
			name:    "none",
			records: [][]string{{"a", "b"}, {"x", "y"}},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustTable(t, tt.records).NumericColumns()
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterColumns(t *testing.T) {
	tbl := mustTable(t, [][]string{
		{"a", "b", "c"},
		{"1", "2", "3"},
		{"4", "5", "6"},
	})

	got, err := tbl.FilterColumns([]string{"c", "a", "c"})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "c"}, got.Names())
	assert.Equal(t, [][]string{{"a", "c"}, {"1", "3"}, {"4", "6"}}, got.Records())
	assert.Equal(t, []string{"a", "b", "c"}, tbl.Names(), "source table must not change")
}

func TestFilterColumns_Idempotent(t *testing.T) {
	tbl := mustTable(t, [][]string{
		{"id", "x", "y"},
		{"a", "1", "2.5"},
		{"b", "", "3"},
	})
	keep := []string{"y", "x"}

	once, err := tbl.FilterColumns(keep)
	require.NoError(t, err)
	twice, err := once.FilterColumns(keep)
	require.NoError(t, err)

	assert.Equal(t, once.Records(), twice.Records())
}

func TestFilterColumns_UnknownColumn(t *testing.T) {
	tbl := mustTable(t, [][]string{{"a"}, {"1"}})

	_, err := tbl.FilterColumns([]string{"a", "missing"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownColumn))
	assert.Contains(t, err.Error(), "missing")
}

func TestHead(t *testing.T) {
	tbl := mustTable(t, [][]string{{"n"}, {"1"}, {"2"}, {"3"}, {"4"}, {"5"}, {"6"}})

	assert.Equal(t, 5, tbl.Head(5).Rows())
	assert.Equal(t, [][]string{{"n"}, {"1"}, {"2"}}, tbl.Head(2).Records())
	assert.Equal(t, 6, tbl.Head(100).Rows())
	assert.Equal(t, 0, tbl.Head(0).Rows())
	assert.Equal(t, []string{"n"}, tbl.Head(0).Names())
}

func TestSubsetRows(t *testing.T) {
	tbl := mustTable(t, [][]string{{"k", "v"}, {"a", "1"}, {"b", "2"}, {"c", "3"}})

	got := tbl.SubsetRows([]int{2, 0})
	assert.Equal(t, [][]string{{"k", "v"}, {"c", "3"}, {"a", "1"}}, got.Records())

	empty := tbl.SubsetRows(nil)
	assert.Equal(t, 0, empty.Rows())
	assert.Equal(t, []string{"v"}, empty.NumericColumns())
}

func TestFloats(t *testing.T) {
	tbl, err := FromSeries(
		series.New([]int{1, 2, 3}, series.Int, "i"),
		series.New([]string{"x", "y", "z"}, series.String, "s"),
	)
	require.NoError(t, err)

	got, err := tbl.Floats("i")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, got)

	_, err = tbl.Floats("s")
	assert.True(t, errors.Is(err, ErrNotNumeric))

	_, err = tbl.Floats("nope")
	assert.True(t, errors.Is(err, ErrUnknownColumn))
}

func TestColumnType(t *testing.T) {
	tbl := mustTable(t, [][]string{{"i", "f", "s"}, {"1", "1.5", "x"}})

	for name, want := range map[string]string{"i": "int", "f": "float", "s": "string"} {
		got, err := tbl.ColumnType(name)
		require.NoError(t, err)
		assert.Equal(t, want, got, "column %s", name)
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.1, "0.1"},
		{2, "2"},
		{-3.25, "-3.25"},
		{1e21, "1000000000000000000000"},
	}
	for _, tt := range tests {
		if got := FormatFloat(tt.in); got != tt.want {
			t.Errorf("FormatFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
