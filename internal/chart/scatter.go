package chart

import (
	"fmt"
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"

	"github.com/JonMunkholm/datadash/internal/dataset"
)

// pairs returns the rows where both columns have a value.
func pairs(t *dataset.Table, xcol, ycol string) (xs, ys []float64, err error) {
	xv, err := t.Floats(xcol)
	if err != nil {
		return nil, nil, err
	}
	yv, err := t.Floats(ycol)
	if err != nil {
		return nil, nil, err
	}
	for i := range xv {
		if math.IsNaN(xv[i]) || math.IsNaN(yv[i]) {
			continue
		}
		xs = append(xs, xv[i])
		ys = append(ys, yv[i])
	}
	return xs, ys, nil
}

func renderScatter(t *dataset.Table, req Request, opts Options) (*Result, error) {
	xs, ys, err := pairs(t, req.X, req.Y)
	if err != nil {
		return nil, err
	}
	if len(xs) == 0 {
		return nil, warnf(InvalidSelection, "columns %q and %q have no rows with both values", req.X, req.Y)
	}

	title := fmt.Sprintf("Scatter Plot: %s vs %s", req.Y, req.X)
	ch := newChart(title, opts)
	ch.XAxis = xAxis(req.X, axisRange(minMax(xs)))
	ch.YAxis = yAxis(req.Y, axisRange(minMax(ys)))
	ch.Series = []gochart.Series{
		gochart.ContinuousSeries{
			Name:    req.Y,
			XValues: xs,
			YValues: ys,
			Style:   pointStyle(colorPrimary, 3),
		},
	}

	img, err := renderPNG(ch)
	if err != nil {
		return nil, err
	}
	return &Result{Title: title, Image: img}, nil
}
