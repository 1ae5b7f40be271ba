package collision

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/terrain/bvh"
	"go.viam.com/terrain/heightfield"
	"go.viam.com/terrain/spatialmath"
)

// unitGrid returns 0, 1, ..., n.
func unitGrid(n int) []float64 {
	g := make([]float64, n+1)
	for i := range g {
		g[i] = float64(i)
	}
	return g
}

func flatField(t *testing.T, cells int) *heightfield.HeightField[bvh.AABB] {
	t.Helper()
	heights := mat.NewDense(cells+1, cells+1, nil)
	hf, err := heightfield.New[bvh.AABB](bvh.AABBKind{}, unitGrid(cells), unitGrid(cells), heights, -1)
	test.That(t, err, test.ShouldBeNil)
	return hf.WithLabel("terrain")
}

// raisedCornerField is a single cell whose (x1, y1) corner is at height 2.
func raisedCornerField(t *testing.T) *heightfield.HeightField[bvh.AABB] {
	t.Helper()
	heights := mat.NewDense(2, 2, []float64{
		0, 0,
		0, 2,
	})
	hf, err := heightfield.New[bvh.AABB](bvh.AABBKind{}, []float64{0, 1}, []float64{0, 1}, heights, -1)
	test.That(t, err, test.ShouldBeNil)
	return hf.WithLabel("terrain")
}

func makeSphere(t *testing.T, radius float64) *spatialmath.Sphere {
	t.Helper()
	s, err := spatialmath.NewSphere(radius, "ball")
	test.That(t, err, test.ShouldBeNil)
	return s
}

func at(x, y, z float64) spatialmath.Pose {
	return spatialmath.NewPoseFromPoint(r3.Vector{X: x, Y: y, Z: z})
}

func vectorsClose(a, b r3.Vector) bool {
	return spatialmath.R3VectorAlmostEqual(a, b, 1e-6)
}
