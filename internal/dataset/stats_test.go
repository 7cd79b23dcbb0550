package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5, 100}

	tests := []struct {
		q    float64
		want float64
	}{
		{0, 1},
		{0.25, 2.25},
		{0.5, 3.5},
		{0.75, 4.75},
		{1, 100},
	}
	for _, tt := range tests {
		if got := Quantile(sorted, tt.q); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Quantile(%v) = %v, want %v", tt.q, got, tt.want)
		}
	}

	if got := Quantile(nil, 0.5); !math.IsNaN(got) {
		t.Errorf("Quantile(nil) = %v, want NaN", got)
	}
}

func TestFences(t *testing.T) {
	lower, upper, q1, q3 := Fences([]float64{100, 1, 2, math.NaN(), 3, 4, 5})

	assert.InDelta(t, 2.25, q1, 1e-12)
	assert.InDelta(t, 4.75, q3, 1e-12)
	assert.InDelta(t, -1.5, lower, 1e-12)
	assert.InDelta(t, 8.5, upper, 1e-12)
}

func TestSummarize(t *testing.T) {
	s := Summarize("v", []float64{2, 4, math.NaN(), 4, 4, 5, 5, 7, 9})

	assert.Equal(t, 8, s.Count)
	assert.InDelta(t, 5, s.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(32.0/7.0), s.Std, 1e-12)
	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 4.0, s.Q1)
	assert.Equal(t, 4.5, s.Median)
	assert.Equal(t, 5.5, s.Q3)
	assert.Equal(t, 9.0, s.Max)
}

func TestSummarize_EdgeCases(t *testing.T) {
	empty := Summarize("e", []float64{math.NaN()})
	assert.Equal(t, 0, empty.Count)
	assert.True(t, math.IsNaN(empty.Mean))

	single := Summarize("s", []float64{3})
	assert.Equal(t, 1, single.Count)
	assert.Equal(t, 3.0, single.Median)
	assert.True(t, math.IsNaN(single.Std), "sample std of one value is undefined")
}

func TestDescribe(t *testing.T) {
	tbl := mustTable(t, [][]string{{"name", "x", "y"}, {"a", "1", "10"}, {"b", "3", "30"}})

	got := Describe(tbl)
	require.Len(t, got, 2)
	assert.Equal(t, "x", got[0].Column)
	assert.Equal(t, 2.0, got[0].Mean)
	assert.Equal(t, "y", got[1].Column)
	assert.Equal(t, 20.0, got[1].Mean)
}

func TestValueCounts(t *testing.T) {
	got := ValueCounts([]float64{3, 1, 3, math.NaN(), 2, 1, 3})

	assert.Equal(t, []ValueCount{{3, 3}, {1, 2}, {2, 1}}, got)
	assert.Empty(t, ValueCounts([]float64{math.NaN()}))
}

func TestCorrelationMatrix(t *testing.T) {
	tbl := mustTable(t, [][]string{
		{"x", "y", "z", "label"},
		{"1", "2", "5", "a"},
		{"2", "4", "3", "b"},
		{"3", "6", "4", "c"},
		{"4", "8", "1", "d"},
	})

	m, err := CorrelationMatrix(tbl)
	require.NoError(t, err)

	assert.Equal(t, []string{"x", "y", "z"}, m.Columns)
	for i := range m.Columns {
		assert.Equal(t, 1.0, m.At(i, i))
	}
	assert.InDelta(t, 1.0, m.At(0, 1), 1e-12)
	assert.InDelta(t, -5.5/math.Sqrt(43.75), m.At(0, 2), 1e-12)
	assert.Equal(t, m.At(0, 2), m.At(2, 0))
}

func TestCorrelationMatrix_SingleColumn(t *testing.T) {
	tbl := mustTable(t, [][]string{{"id", "v"}, {"a", "1"}, {"b", "2"}, {"c", "4"}})

	m, err := CorrelationMatrix(tbl)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1.0}}, m.Values)
}

func TestCorrelationMatrix_ConstantColumn(t *testing.T) {
	tbl := mustTable(t, [][]string{{"c", "v"}, {"7", "1"}, {"7", "2"}, {"7", "4"}})

	m, err := CorrelationMatrix(tbl)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(m.At(0, 0)))
	assert.True(t, math.IsNaN(m.At(0, 1)))
	assert.Equal(t, 1.0, m.At(1, 1))
}

func TestCorrelationMatrix_PairwiseComplete(t *testing.T) {
	tbl := mustTable(t, [][]string{
		{"a", "b"},
		{"1", "1"},
		{"2", ""},
		{"3", "3"},
		{"100", ""},
		{"4", "4"},
	})

	m, err := CorrelationMatrix(tbl)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, m.At(0, 1), 1e-12)
}
