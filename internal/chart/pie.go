package chart

import (
	"fmt"

	gochart "github.com/wcharczuk/go-chart/v2"

	"github.com/JonMunkholm/datadash/internal/dataset"
)

// renderPie treats each distinct value of the column as a category and
// sizes its slice by how often it occurs.
func renderPie(t *dataset.Table, req Request, opts Options) (*Result, error) {
	values, err := t.Floats(req.X)
	if err != nil {
		return nil, err
	}

	counts := dataset.ValueCounts(values)
	if len(counts) == 0 {
		return nil, warnf(InvalidSelection, "column %q has no values to plot", req.X)
	}
	if len(counts) > opts.PieMaxCategories {
		return nil, warnf(TooManyCategories,
			"column %q has %d distinct values; a pie chart shows at most %d",
			req.X, len(counts), opts.PieMaxCategories)
	}

	total := 0
	for _, c := range counts {
		total += c.Count
	}
	slices := make([]gochart.Value, len(counts))
	for i, c := range counts {
		share := 100 * float64(c.Count) / float64(total)
		slices[i] = gochart.Value{
			Value: float64(c.Count),
			Label: fmt.Sprintf("%s (%.1f%%)", dataset.FormatFloat(c.Value), share),
		}
	}

	title := fmt.Sprintf("Pie Chart of %s", req.X)
	pc := gochart.PieChart{
		Title:  title,
		Width:  opts.Width,
		Height: opts.Height,
		Values: slices,
	}

	img, err := renderPNG(pc)
	if err != nil {
		return nil, err
	}
	return &Result{Title: title, Image: img}, nil
}
