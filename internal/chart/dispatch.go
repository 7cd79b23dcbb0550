package chart

import (
	"errors"
	"fmt"
	"image"

	"github.com/JonMunkholm/datadash/internal/dataset"
)

// Options control the size and policies of rendered charts.
type Options struct {
	Width            int
	Height           int
	HistogramBins    int
	PieMaxCategories int
}

// DefaultOptions returns an 800x500 canvas, 20 histogram bins and at most
// 10 pie slices.
func DefaultOptions() Options {
	return Options{Width: 800, Height: 500, HistogramBins: 20, PieMaxCategories: 10}
}

// WithDefaults fills every unset field from DefaultOptions.
func (o Options) WithDefaults() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.HistogramBins <= 0 {
		o.HistogramBins = d.HistogramBins
	}
	if o.PieMaxCategories <= 0 {
		o.PieMaxCategories = d.PieMaxCategories
	}
	return o
}

// Result is a rendered chart. Outliers and Box are set for box plots only;
// Matrix for correlation heatmaps only.
type Result struct {
	Kind     Kind
	Title    string
	Image    image.Image
	Outliers *dataset.Table
	Box      *BoxStats
	Matrix   *dataset.CorrMatrix
}

type renderFunc func(t *dataset.Table, req Request, opts Options) (*Result, error)

var renderers = map[Kind]renderFunc{
	Histogram:          renderHistogram,
	Line:               renderLine,
	Pie:                renderPie,
	Box:                renderBox,
	Scatter:            renderScatter,
	DensityHeatmap:     renderDensityHeatmap,
	CorrelationHeatmap: renderCorrelationHeatmap,
}

// Render draws req against t. It returns a *Warning when the selection
// must change and a *RenderError when drawing fails. It is safe to call
// concurrently; t is only read.
func Render(t *dataset.Table, req Request, opts Options) (res *Result, err error) {
	if err := req.Validate(t); err != nil {
		return nil, err
	}
	render, ok := renderers[req.Kind]
	if !ok {
		return nil, &RenderError{Kind: req.Kind, Err: errors.New("no renderer registered")}
	}

	defer func() {
		if p := recover(); p != nil {
			res = nil
			err = &RenderError{Kind: req.Kind, Err: fmt.Errorf("panic: %v", p)}
		}
	}()

	res, err = render(t, req, opts.WithDefaults())
	if err != nil {
		var w *Warning
		if errors.As(err, &w) {
			return nil, w
		}
		return nil, &RenderError{Kind: req.Kind, Err: err}
	}
	if res == nil || res.Image == nil {
		return nil, &RenderError{Kind: req.Kind, Err: ErrNoImage}
	}
	res.Kind = req.Kind
	return res, nil
}
