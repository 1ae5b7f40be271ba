// Package utils contains small numeric helpers and value errors shared by the other packages.
package utils

import "math"

// Square returns the square of the given value.
func Square(n float64) float64 {
	return n * n
}

// IsFinite reports whether v is neither NaN nor an infinity.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// StrictlyIncreasing returns the first index i such that values[i] <= values[i-1], or -1 if
// the slice is strictly increasing.
func StrictlyIncreasing(values []float64) int {
	for i := 1; i < len(values); i++ {
		if values[i] <= values[i-1] {
			return i
		}
	}
	return -1
}
