package dataset

import (
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

// Summary holds descriptive statistics for one numeric column. Std is the
// sample standard deviation. Count excludes missing values; every other
// field is NaN when Count is zero.
type Summary struct {
	Column string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// Describe summarizes every numeric column of t, in table order.
func Describe(t *Table) []Summary {
	cols := t.NumericColumns()
	out := make([]Summary, 0, len(cols))
	for _, name := range cols {
		values, _ := t.Floats(name)
		out = append(out, Summarize(name, values))
	}
	return out
}

// Summarize computes a Summary over values, ignoring NaN.
func Summarize(name string, values []float64) Summary {
	clean := DropNaN(values)
	s := Summary{Column: name, Count: len(clean)}
	if len(clean) == 0 {
		nan := math.NaN()
		s.Mean, s.Std, s.Min, s.Q1, s.Median, s.Q3, s.Max = nan, nan, nan, nan, nan, nan, nan
		return s
	}

	data := stats.Float64Data(clean)
	s.Mean, _ = data.Mean()
	s.Min, _ = data.Min()
	s.Max, _ = data.Max()
	if len(clean) > 1 {
		s.Std, _ = data.StandardDeviationSample()
	} else {
		s.Std = math.NaN()
	}

	sorted := sortedCopy(clean)
	s.Q1 = Quantile(sorted, 0.25)
	s.Median = Quantile(sorted, 0.5)
	s.Q3 = Quantile(sorted, 0.75)
	return s
}

// DropNaN returns the non-NaN values of values in their original order.
func DropNaN(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

func sortedCopy(values []float64) []float64 {
	out := append([]float64(nil), values...)
	sort.Float64s(out)
	return out
}

// Quantile returns the q-th quantile of sorted values using linear
// interpolation between the closest ranks: position q*(n-1).
func Quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 || q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[n-1]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// Fences returns the Tukey outlier fences Q1-1.5*IQR and Q3+1.5*IQR
// together with the quartiles. NaN values are ignored.
func Fences(values []float64) (lower, upper, q1, q3 float64) {
	sorted := sortedCopy(DropNaN(values))
	q1 = Quantile(sorted, 0.25)
	q3 = Quantile(sorted, 0.75)
	iqr := q3 - q1
	return q1 - 1.5*iqr, q3 + 1.5*iqr, q1, q3
}

// ValueCount is one distinct value and how often it occurs.
type ValueCount struct {
	Value float64
	Count int
}

// ValueCounts counts the distinct non-NaN values, most frequent first.
// Ties keep the order in which values first appear.
func ValueCounts(values []float64) []ValueCount {
	index := make(map[float64]int)
	var out []ValueCount
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if i, ok := index[v]; ok {
			out[i].Count++
			continue
		}
		index[v] = len(out)
		out = append(out, ValueCount{Value: v, Count: 1})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// CorrMatrix is a square Pearson correlation matrix over named columns.
// A cell is NaN when the pair has fewer than two complete observations or
// either column is constant over them.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64
}

// At returns the correlation between columns i and j.
func (m *CorrMatrix) At(i, j int) float64 {
	return m.Values[i][j]
}

// CorrelationMatrix computes pairwise Pearson correlations between all
// numeric columns of t, using only the rows where both values are present.
func CorrelationMatrix(t *Table) (*CorrMatrix, error) {
	cols := t.NumericColumns()
	data := make([][]float64, len(cols))
	for i, name := range cols {
		v, err := t.Floats(name)
		if err != nil {
			return nil, err
		}
		data[i] = v
	}

	m := &CorrMatrix{Columns: cols, Values: make([][]float64, len(cols))}
	for i := range cols {
		m.Values[i] = make([]float64, len(cols))
	}
	for i := range cols {
		m.Values[i][i] = selfCorrelation(data[i])
		for j := i + 1; j < len(cols); j++ {
			r, err := pearson(data[i], data[j])
			if err != nil {
				return nil, fmt.Errorf("correlate %q and %q: %w", cols[i], cols[j], err)
			}
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m, nil
}

// selfCorrelation is exactly 1 for any column with variation.
func selfCorrelation(a []float64) float64 {
	clean := DropNaN(a)
	if len(clean) < 2 {
		return math.NaN()
	}
	if sd, _ := stats.StandardDeviationPopulation(clean); sd == 0 {
		return math.NaN()
	}
	return 1
}

func pearson(a, b []float64) (float64, error) {
	var xs, ys []float64
	for k := range a {
		if math.IsNaN(a[k]) || math.IsNaN(b[k]) {
			continue
		}
		xs = append(xs, a[k])
		ys = append(ys, b[k])
	}
	if len(xs) < 2 {
		return math.NaN(), nil
	}

	sx, _ := stats.StandardDeviationPopulation(xs)
	sy, _ := stats.StandardDeviationPopulation(ys)
	if sx == 0 || sy == 0 {
		return math.NaN(), nil
	}

	r, err := stats.Correlation(xs, ys)
	if err != nil {
		return math.NaN(), err
	}
	// Rounding can push a perfect correlation just past the unit interval.
	return math.Max(-1, math.Min(1, r)), nil
}
