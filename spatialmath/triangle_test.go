package spatialmath

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestTriangleClosestPoint(t *testing.T) {
	tri := NewTriangle(r3.Vector{}, r3.Vector{X: 2}, r3.Vector{Y: 2})
	test.That(t, R3VectorAlmostEqual(tri.Normal(), r3.Vector{Z: 1}, 1e-12), test.ShouldBeTrue)
	test.That(t, R3VectorAlmostEqual(tri.Centroid(), r3.Vector{X: 2. / 3, Y: 2. / 3}, 1e-12), test.ShouldBeTrue)
	test.That(t, len(tri.Points()), test.ShouldEqual, 3)

	for _, tc := range []struct {
		name     string
		pt       r3.Vector
		expected r3.Vector
		weights  [3]float64
	}{
		{"interior above", r3.Vector{X: 0.5, Y: 0.5, Z: 3}, r3.Vector{X: 0.5, Y: 0.5}, [3]float64{0.5, 0.25, 0.25}},
		{"vertex region p0", r3.Vector{X: -1, Y: -1, Z: 1}, r3.Vector{}, [3]float64{1, 0, 0}},
		{"vertex region p1", r3.Vector{X: 5, Y: -1}, r3.Vector{X: 2}, [3]float64{0, 1, 0}},
		{"vertex region p2", r3.Vector{X: -1, Y: 5}, r3.Vector{Y: 2}, [3]float64{0, 0, 1}},
		{"edge p0 p1", r3.Vector{X: 1, Y: -3}, r3.Vector{X: 1}, [3]float64{0.5, 0.5, 0}},
		{"edge p0 p2", r3.Vector{X: -3, Y: 1.5}, r3.Vector{Y: 1.5}, [3]float64{0.25, 0, 0.75}},
		{"hypotenuse", r3.Vector{X: 2, Y: 2, Z: -1}, r3.Vector{X: 1, Y: 1}, [3]float64{0, 0.5, 0.5}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			w0, w1, w2 := tri.Barycentric(tc.pt)
			test.That(t, w0, test.ShouldAlmostEqual, tc.weights[0], 1e-12)
			test.That(t, w1, test.ShouldAlmostEqual, tc.weights[1], 1e-12)
			test.That(t, w2, test.ShouldAlmostEqual, tc.weights[2], 1e-12)
			test.That(t, R3VectorAlmostEqual(tri.ClosestPointToPoint(tc.pt), tc.expected, 1e-12), test.ShouldBeTrue)
		})
	}
}

func TestTrianglePlane(t *testing.T) {
	tri := NewTriangle(r3.Vector{Z: 1}, r3.Vector{X: 1, Z: 1}, r3.Vector{Y: 1, Z: 2})
	plane := tri.Plane()
	for _, pt := range tri.Points() {
		test.That(t, plane.SignedDistance(pt), test.ShouldAlmostEqual, 0, 1e-12)
	}
	test.That(t, plane.Normal.Norm(), test.ShouldAlmostEqual, 1, 1e-12)
	test.That(t, plane.SignedDistance(r3.Vector{Z: 5}), test.ShouldBeGreaterThan, 0)
}
