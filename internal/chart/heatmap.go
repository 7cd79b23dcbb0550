package chart

import (
	"fmt"
	"image"
	"math"

	"github.com/JonMunkholm/datadash/internal/dataset"
)

const densityGrid = 50

// heatFrame is the layout shared by both heatmaps.
type heatFrame struct {
	plot image.Rectangle
	bar  image.Rectangle
}

func newHeatFrame(w, h, leftMargin, bottomMargin int) heatFrame {
	const top, right, barWidth = 44, 96, 16
	plot := image.Rect(leftMargin, top, w-right, h-bottomMargin)
	bar := image.Rect(plot.Max.X+20, plot.Min.Y, plot.Max.X+20+barWidth, plot.Max.Y)
	return heatFrame{plot: plot, bar: bar}
}

func renderDensityHeatmap(t *dataset.Table, req Request, opts Options) (*Result, error) {
	xs, ys, err := pairs(t, req.X, req.Y)
	if err != nil {
		return nil, err
	}
	bwx, bwy := scottBandwidth(xs, 2), scottBandwidth(ys, 2)
	if len(xs) < 2 || bwx == 0 || bwy == 0 {
		return nil, warnf(InvalidSelection,
			"a density heatmap needs at least two rows where %q and %q both vary", req.X, req.Y)
	}

	xlo, xhi := minMax(xs)
	ylo, yhi := minMax(ys)
	xlo, xhi = xlo-bwx, xhi+bwx
	ylo, yhi = ylo-bwy, yhi+bwy

	// Grid rows run top to bottom, so y is sampled from high to low.
	gx := linspace(xlo, xhi, densityGrid)
	gy := linspace(yhi, ylo, densityGrid)
	grid := kde2D(xs, ys, bwx, bwy, gx, gy)

	peak := 0.0
	for _, row := range grid {
		for _, v := range row {
			peak = math.Max(peak, v)
		}
	}
	if peak == 0 || math.IsNaN(peak) {
		return nil, fmt.Errorf("density estimate is empty")
	}

	title := fmt.Sprintf("Density Heatmap: %s vs %s", req.Y, req.X)
	c := newCanvas(opts.Width, opts.Height)
	f := newHeatFrame(opts.Width, opts.Height, 72, 56)

	for r := range grid {
		for col, v := range grid[r] {
			c.fill(cellRect(f.plot, r, col, densityGrid, densityGrid), viridis.at(v/peak))
		}
	}
	c.outline(f.plot, muted)

	const ticks = 5
	for i := 0; i < ticks; i++ {
		frac := float64(i) / float64(ticks-1)
		x := f.plot.Min.X + int(frac*float64(f.plot.Dx()-1))
		c.fill(image.Rect(x, f.plot.Max.Y, x+1, f.plot.Max.Y+4), ink)
		c.text(formatTick(xlo+frac*(xhi-xlo)), x, f.plot.Max.Y+16, ink, alignCenter)

		y := f.plot.Max.Y - 1 - int(frac*float64(f.plot.Dy()-1))
		c.fill(image.Rect(f.plot.Min.X-4, y, f.plot.Min.X, y+1), ink)
		c.textMiddle(formatTick(ylo+frac*(yhi-ylo)), f.plot.Min.X-6, y, ink, alignRight)
	}

	c.text(title, opts.Width/2, 24, ink, alignCenter)
	c.text(c.fit(req.X, f.plot.Dx()), f.plot.Min.X+f.plot.Dx()/2, f.plot.Max.Y+38, ink, alignCenter)
	c.text(c.fit(req.Y, f.plot.Min.X-4), 4, f.plot.Min.Y-8, ink, alignLeft)
	c.colorbar(f.bar, viridis, 0, peak)

	return &Result{Title: title, Image: c.img}, nil
}

func renderCorrelationHeatmap(t *dataset.Table, req Request, opts Options) (*Result, error) {
	m, err := dataset.CorrelationMatrix(t)
	if err != nil {
		return nil, err
	}
	n := len(m.Columns)

	// Measure with a scratch canvas: the final size depends on the labels.
	measure := newCanvas(1, 1)
	labelW := 0
	for _, name := range m.Columns {
		labelW = max(labelW, measure.textWidth(name))
	}
	labelW = min(labelW, opts.Width/5)
	minCell := measure.textWidth("-0.00") + 4

	width, height := opts.Width, opts.Height
	f := newHeatFrame(width, height, labelW+16, 40)
	// Every cell carries its value, so the canvas grows until the cells fit.
	if grow := n*minCell - min(f.plot.Dx(), f.plot.Dy()); grow > 0 {
		width, height = width+grow, height+grow
		f = newHeatFrame(width, height, labelW+16, 40)
	}
	c := newCanvas(width, height)

	// Square cells: shrink the longer side of the plot area.
	side := min(f.plot.Dx(), f.plot.Dy())
	f.plot = image.Rect(f.plot.Min.X, f.plot.Min.Y, f.plot.Min.X+side, f.plot.Min.Y+side)
	f.bar = image.Rect(f.plot.Max.X+20, f.plot.Min.Y, f.plot.Max.X+36, f.plot.Max.Y)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := m.At(i, j)
			cell := cellRect(f.plot, i, j, n, n)
			col := coolwarm.at((v + 1) / 2)
			c.fill(cell, col)
			label := "nan"
			if !math.IsNaN(v) {
				label = fmt.Sprintf("%.2f", v)
			}
			textCol := ink
			if luminance(col) < 0.5 {
				textCol = white
			}
			center := cell.Min.Add(cell.Max).Div(2)
			c.textMiddle(label, center.X, center.Y, textCol, alignCenter)
		}
	}
	c.outline(f.plot, muted)

	for i, name := range m.Columns {
		cell := cellRect(f.plot, i, i, n, n)
		center := cell.Min.Add(cell.Max).Div(2)
		c.textMiddle(c.fit(name, labelW), f.plot.Min.X-6, center.Y, ink, alignRight)
		c.text(c.fit(name, cell.Dx()-2), center.X, f.plot.Max.Y+16, ink, alignCenter)
	}

	title := "Correlation Heatmap"
	c.text(title, width/2, 24, ink, alignCenter)
	c.colorbar(f.bar, coolwarm, -1, 1)

	return &Result{Title: title, Image: c.img, Matrix: m}, nil
}
