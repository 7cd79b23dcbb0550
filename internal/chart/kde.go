package chart

import (
	"math"

	"github.com/montanaflynn/stats"
)

const invSqrt2Pi = 0.3989422804014327

// scottBandwidth returns the Gaussian kernel width for d-dimensional data:
// the sample standard deviation scaled by n^(-1/(d+4)). It returns 0 when
// the values have no spread.
func scottBandwidth(values []float64, d int) float64 {
	if len(values) < 2 {
		return 0
	}
	sd, err := stats.StandardDeviationSample(values)
	if err != nil || math.IsNaN(sd) {
		return 0
	}
	return sd * math.Pow(float64(len(values)), -1/float64(d+4))
}

// kde evaluates a Gaussian kernel density estimate of values at each x.
func kde(values []float64, bw float64, xs []float64) []float64 {
	out := make([]float64, len(xs))
	norm := invSqrt2Pi / (bw * float64(len(values)))
	for i, x := range xs {
		var sum float64
		for _, v := range values {
			u := (x - v) / bw
			sum += math.Exp(-0.5 * u * u)
		}
		out[i] = sum * norm
	}
	return out
}

// kde2D evaluates a product-kernel Gaussian density over a grid. The
// result is indexed [row][col] with row 0 at gy[0].
func kde2D(xs, ys []float64, bwx, bwy float64, gx, gy []float64) [][]float64 {
	grid := make([][]float64, len(gy))
	for r := range grid {
		grid[r] = make([]float64, len(gx))
	}

	kx := make([]float64, len(gx))
	ky := make([]float64, len(gy))
	for i := range xs {
		for c, x := range gx {
			u := (x - xs[i]) / bwx
			kx[c] = math.Exp(-0.5 * u * u)
		}
		for r, y := range gy {
			u := (y - ys[i]) / bwy
			ky[r] = math.Exp(-0.5 * u * u)
		}
		for r := range gy {
			if ky[r] == 0 {
				continue
			}
			row := grid[r]
			for c := range gx {
				row[c] += ky[r] * kx[c]
			}
		}
	}

	norm := invSqrt2Pi * invSqrt2Pi / (bwx * bwy * float64(len(xs)))
	for _, row := range grid {
		for c := range row {
			row[c] *= norm
		}
	}
	return grid
}

// linspace returns n evenly spaced values from lo to hi inclusive.
func linspace(lo, hi float64, n int) []float64 {
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}
