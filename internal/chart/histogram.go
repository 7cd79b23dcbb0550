package chart

import (
	"fmt"

	gochart "github.com/wcharczuk/go-chart/v2"

	"github.com/JonMunkholm/datadash/internal/dataset"
)

const kdePoints = 200

// binCounts splits [lo, hi] into n equal bins and counts values per bin.
// The last bin is closed on the right so hi is counted.
func binCounts(values []float64, lo, hi float64, n int) []int {
	counts := make([]int, n)
	width := (hi - lo) / float64(n)
	for _, v := range values {
		i := int((v - lo) / width)
		if i >= n {
			i = n - 1
		}
		if i < 0 {
			i = 0
		}
		counts[i]++
	}
	return counts
}

func renderHistogram(t *dataset.Table, req Request, opts Options) (*Result, error) {
	raw, err := t.Floats(req.X)
	if err != nil {
		return nil, err
	}
	values := dataset.DropNaN(raw)
	if len(values) == 0 {
		return nil, warnf(InvalidSelection, "column %q has no values to plot", req.X)
	}

	lo, hi := minMax(values)
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	bins := opts.HistogramBins
	counts := binCounts(values, lo, hi, bins)
	width := (hi - lo) / float64(bins)

	// Bars are one filled step outline: up, across, down for each bin.
	xs := make([]float64, 0, 2*bins+2)
	ys := make([]float64, 0, 2*bins+2)
	xs, ys = append(xs, lo), append(ys, 0)
	peak := 0.0
	for i, c := range counts {
		left := lo + float64(i)*width
		xs = append(xs, left, left+width)
		ys = append(ys, float64(c), float64(c))
		peak = max(peak, float64(c))
	}
	xs, ys = append(xs, hi), append(ys, 0)

	series := []gochart.Series{
		gochart.ContinuousSeries{
			Name:    "count",
			XValues: xs,
			YValues: ys,
			Style: gochart.Style{
				StrokeColor: colorPrimary,
				StrokeWidth: 1,
				FillColor:   colorPrimaryFill,
			},
		},
	}

	// Density overlay, scaled from probability density to expected counts.
	if bw := scottBandwidth(values, 1); bw > 0 {
		gx := linspace(lo, hi, kdePoints)
		dens := kde(values, bw, gx)
		scale := float64(len(values)) * width
		for i := range dens {
			dens[i] *= scale
			peak = max(peak, dens[i])
		}
		series = append(series, gochart.ContinuousSeries{
			Name:    "density",
			XValues: gx,
			YValues: dens,
			Style:   lineStyle(colorAccent, 2),
		})
	}

	title := fmt.Sprintf("Histogram of %s", req.X)
	ch := newChart(title, opts)
	ch.XAxis = xAxis(req.X, &gochart.ContinuousRange{Min: lo, Max: hi})
	ch.YAxis = yAxis("Count", &gochart.ContinuousRange{Min: 0, Max: peak * 1.08})
	ch.Series = series

	img, err := renderPNG(ch)
	if err != nil {
		return nil, err
	}
	return &Result{Title: title, Image: img}, nil
}
