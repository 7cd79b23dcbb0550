package chart

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"strconv"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	colorPrimary     = drawing.Color{R: 76, G: 114, B: 176, A: 255}
	colorPrimaryFill = drawing.Color{R: 76, G: 114, B: 176, A: 110}
	colorAccent      = drawing.Color{R: 221, G: 132, B: 82, A: 255}
	colorOutlier     = drawing.Color{R: 196, G: 78, B: 82, A: 255}
	colorInk         = drawing.Color{R: 40, G: 40, B: 40, A: 255}
)

// lineStyle draws a stroke without dots.
func lineStyle(col drawing.Color, width float64) gochart.Style {
	return gochart.Style{
		StrokeColor: col,
		StrokeWidth: width,
	}
}

// pointStyle renders points only, with no connecting line.
func pointStyle(col drawing.Color, size float64) gochart.Style {
	return gochart.Style{
		StrokeWidth: gochart.Disabled,
		DotWidth:    size,
		DotColor:    col,
	}
}

// axisRange returns [lo, hi] padded by 5% on each side. A degenerate range
// is widened around its value, since go-chart refuses zero-width ranges.
func axisRange(lo, hi float64) *gochart.ContinuousRange {
	if hi == lo {
		d := math.Max(math.Abs(lo)*0.1, 0.5)
		return &gochart.ContinuousRange{Min: lo - d, Max: hi + d}
	}
	pad := (hi - lo) * 0.05
	return &gochart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

// minMax returns the extremes of values, which must be non-empty and free
// of NaN.
func minMax(values []float64) (lo, hi float64) {
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func formatTick(v any) string {
	f, ok := v.(float64)
	if !ok {
		return fmt.Sprint(v)
	}
	return strconv.FormatFloat(f, 'g', 5, 64)
}

func xAxis(name string, rng *gochart.ContinuousRange) gochart.XAxis {
	return gochart.XAxis{Name: name, Range: rng, ValueFormatter: formatTick}
}

func yAxis(name string, rng *gochart.ContinuousRange) gochart.YAxis {
	return gochart.YAxis{Name: name, Range: rng, ValueFormatter: formatTick}
}

// newChart returns a chart canvas with the common title and padding.
func newChart(title string, opts Options) gochart.Chart {
	return gochart.Chart{
		Title:      title,
		Width:      opts.Width,
		Height:     opts.Height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 24, Bottom: 16}},
	}
}

// renderPNG renders ch to PNG and decodes it back so the Result always
// carries a plain image.Image regardless of which renderer produced it.
func renderPNG(ch interface {
	Render(gochart.RendererProvider, io.Writer) error
}) (image.Image, error) {
	var buf bytes.Buffer
	if err := ch.Render(gochart.PNG, &buf); err != nil {
		return nil, err
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode rendered chart: %w", err)
	}
	return img, nil
}
