package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
)

const floatEpsilon = 1e-6

// R3VectorAlmostEqual compares two r3.Vector objects and returns if the all elementwise differences are less than epsilon.
func R3VectorAlmostEqual(a, b r3.Vector, epsilon float64) bool {
	return math.Abs(a.X-b.X) < epsilon && math.Abs(a.Y-b.Y) < epsilon && math.Abs(a.Z-b.Z) < epsilon
}

// VectorsApprox reports whether a and b agree up to a relative precision prec, with an absolute floor of prec
// for vectors near the origin.
func VectorsApprox(a, b r3.Vector, prec float64) bool {
	scale := math.Max(1, math.Min(a.Norm(), b.Norm()))
	return a.Sub(b).Norm() <= prec*scale
}

// PlaneNormal returns the normal to the plane defined by 3 points.
func PlaneNormal(p0, p1, p2 r3.Vector) r3.Vector {
	return p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
}

// safeNormalize returns v normalized, or fallback if v has no usable direction.
func safeNormalize(v, fallback r3.Vector) r3.Vector {
	n := v.Norm()
	if n < 1e-300 || math.IsNaN(n) {
		return fallback
	}
	return v.Mul(1 / n)
}
