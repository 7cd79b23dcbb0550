package chart

import (
	"fmt"
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"

	"github.com/JonMunkholm/datadash/internal/dataset"
)

// BoxStats describes a Tukey box plot. Whiskers reach the most extreme
// values that still lie inside the fences.
type BoxStats struct {
	Q1, Median, Q3 float64
	LowerFence     float64
	UpperFence     float64
	WhiskerLow     float64
	WhiskerHigh    float64
	OutlierRows    []int
}

// IQR returns the interquartile range Q3-Q1.
func (b *BoxStats) IQR() float64 {
	return b.Q3 - b.Q1
}

// computeBox derives box statistics from a column. OutlierRows are the
// positions of values below Q1-1.5*IQR or above Q3+1.5*IQR, in row order.
// It returns nil when the column has no values.
func computeBox(values []float64) *BoxStats {
	clean := dataset.DropNaN(values)
	if len(clean) == 0 {
		return nil
	}

	lower, upper, q1, q3 := dataset.Fences(clean)
	s := &BoxStats{
		Q1:          q1,
		Q3:          q3,
		LowerFence:  lower,
		UpperFence:  upper,
		WhiskerLow:  math.Inf(1),
		WhiskerHigh: math.Inf(-1),
	}
	s.Median = dataset.Summarize("", clean).Median

	for i, v := range values {
		switch {
		case math.IsNaN(v):
		case v < lower || v > upper:
			s.OutlierRows = append(s.OutlierRows, i)
		default:
			s.WhiskerLow = math.Min(s.WhiskerLow, v)
			s.WhiskerHigh = math.Max(s.WhiskerHigh, v)
		}
	}
	return s
}

func renderBox(t *dataset.Table, req Request, opts Options) (*Result, error) {
	values, err := t.Floats(req.X)
	if err != nil {
		return nil, err
	}
	box := computeBox(values)
	if box == nil {
		return nil, warnf(InvalidSelection, "column %q has no values to plot", req.X)
	}

	const (
		center = 1.0
		half   = 0.25
		capW   = 0.1
	)
	left, right := center-half, center+half

	series := []gochart.Series{
		gochart.ContinuousSeries{
			Name:    "box",
			XValues: []float64{left, right, right, left, left},
			YValues: []float64{box.Q1, box.Q1, box.Q3, box.Q3, box.Q1},
			Style:   lineStyle(colorPrimary, 2),
		},
		segment("median", left, box.Median, right, box.Median, lineStyle(colorAccent, 2.5)),
		segment("lower whisker", center, box.WhiskerLow, center, box.Q1, lineStyle(colorInk, 1.5)),
		segment("upper whisker", center, box.Q3, center, box.WhiskerHigh, lineStyle(colorInk, 1.5)),
		segment("lower cap", center-capW, box.WhiskerLow, center+capW, box.WhiskerLow, lineStyle(colorInk, 1.5)),
		segment("upper cap", center-capW, box.WhiskerHigh, center+capW, box.WhiskerHigh, lineStyle(colorInk, 1.5)),
	}

	lo, hi := box.WhiskerLow, box.WhiskerHigh
	if len(box.OutlierRows) > 0 {
		xs := make([]float64, len(box.OutlierRows))
		ys := make([]float64, len(box.OutlierRows))
		for i, row := range box.OutlierRows {
			xs[i] = center
			ys[i] = values[row]
			lo, hi = math.Min(lo, ys[i]), math.Max(hi, ys[i])
		}
		series = append(series, gochart.ContinuousSeries{
			Name:    "outliers",
			XValues: xs,
			YValues: ys,
			Style:   pointStyle(colorOutlier, 4),
		})
	}

	title := fmt.Sprintf("Box Plot of %s", req.X)
	ch := newChart(title, opts)
	ch.XAxis = gochart.XAxis{
		Range: &gochart.ContinuousRange{Min: 0.5, Max: 1.5},
		Ticks: []gochart.Tick{{Value: 0.5, Label: ""}, {Value: center, Label: req.X}, {Value: 1.5, Label: ""}},
	}
	ch.YAxis = yAxis(req.X, axisRange(lo, hi))
	ch.Series = series

	img, err := renderPNG(ch)
	if err != nil {
		return nil, err
	}
	return &Result{
		Title:    title,
		Image:    img,
		Box:      box,
		Outliers: t.SubsetRows(box.OutlierRows),
	}, nil
}

func segment(name string, x0, y0, x1, y1 float64, style gochart.Style) gochart.ContinuousSeries {
	return gochart.ContinuousSeries{
		Name:    name,
		XValues: []float64{x0, x1},
		YValues: []float64{y0, y1},
		Style:   style,
	}
}
