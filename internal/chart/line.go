package chart

import (
	"fmt"
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"

	"github.com/JonMunkholm/datadash/internal/dataset"
)

// renderLine plots a column against its row position. Missing values
// break the line; an isolated value between two gaps is drawn as a dot.
func renderLine(t *dataset.Table, req Request, opts Options) (*Result, error) {
	values, err := t.Floats(req.X)
	if err != nil {
		return nil, err
	}

	var series []gochart.Series
	var xs, ys []float64
	flush := func() {
		switch len(xs) {
		case 0:
			return
		case 1:
			series = append(series, gochart.ContinuousSeries{XValues: xs, YValues: ys, Style: pointStyle(colorPrimary, 3)})
		default:
			series = append(series, gochart.ContinuousSeries{XValues: xs, YValues: ys, Style: lineStyle(colorPrimary, 1.5)})
		}
		xs, ys = nil, nil
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for i, v := range values {
		if math.IsNaN(v) {
			flush()
			continue
		}
		xs = append(xs, float64(i))
		ys = append(ys, v)
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	flush()

	if len(series) == 0 {
		return nil, warnf(InvalidSelection, "column %q has no values to plot", req.X)
	}

	title := fmt.Sprintf("Line Chart of %s", req.X)
	ch := newChart(title, opts)
	ch.XAxis = xAxis("Row", axisRange(0, float64(len(values)-1)))
	ch.YAxis = yAxis(req.X, axisRange(lo, hi))
	ch.Series = series

	img, err := renderPNG(ch)
	if err != nil {
		return nil, err
	}
	return &Result{Title: title, Image: img}, nil
}
