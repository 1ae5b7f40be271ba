package utils

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Linspace returns n values evenly spaced from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// Meshgrid2D returns every (x, y) pair of the grid as the rows of a len(ys)*len(xs) by 2 matrix. Rows run
// along x first, so row i*len(xs)+j holds (xs[j], ys[i]).
func Meshgrid2D(xs, ys []float64) *mat.Dense {
	if len(xs) == 0 || len(ys) == 0 {
		return nil
	}
	out := mat.NewDense(len(xs)*len(ys), 2, nil)
	for i, y := range ys {
		for j, x := range xs {
			row := i*len(xs) + j
			out.Set(row, 0, x)
			out.Set(row, 1, y)
		}
	}
	return out
}
