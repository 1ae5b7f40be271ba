package collision

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/terrain/bvh"
	"go.viam.com/terrain/heightfield"
	"go.viam.com/terrain/spatialmath"
)

func TestBuildConvexTriangles(t *testing.T) {
	heights := mat.NewDense(2, 2, []float64{
		1, 2,
		3, 4,
	})
	hf, err := heightfield.New[bvh.AABB](bvh.AABBKind{}, []float64{0, 2}, []float64{10, 11}, heights, 0)
	test.That(t, err, test.ShouldBeNil)

	p1, p2, err := BuildConvexTriangles(hf, 0)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, p1.Points().Points(), test.ShouldResemble, []r3.Vector{
		{X: 0, Y: 10, Z: 0},
		{X: 0, Y: 11, Z: 0},
		{X: 2, Y: 10, Z: 0},
		{X: 0, Y: 10, Z: 1},
		{X: 0, Y: 11, Z: 3},
		{X: 2, Y: 10, Z: 2},
	})
	test.That(t, p2.Points().Points(), test.ShouldResemble, []r3.Vector{
		{X: 0, Y: 11, Z: 0},
		{X: 2, Y: 11, Z: 0},
		{X: 2, Y: 10, Z: 0},
		{X: 0, Y: 11, Z: 3},
		{X: 2, Y: 11, Z: 4},
		{X: 2, Y: 10, Z: 2},
	})

	t.Run("top triangles face up and share the diagonal", func(t *testing.T) {
		top1 := p1.Triangle(spatialmath.PrismTopFace)
		top2 := p2.Triangle(spatialmath.PrismTopFace)
		test.That(t, top1.Normal().Z, test.ShouldBeGreaterThan, 0)
		test.That(t, top2.Normal().Z, test.ShouldBeGreaterThan, 0)
		shared := 0
		for _, u := range top1.Points() {
			for _, v := range top2.Points() {
				if u == v {
					shared++
				}
			}
		}
		test.That(t, shared, test.ShouldEqual, 2)
	})

	t.Run("internal nodes are rejected", func(t *testing.T) {
		big, err := heightfield.New[bvh.AABB](bvh.AABBKind{}, unitGrid(2), unitGrid(1), mat.NewDense(2, 3, nil), -1)
		test.That(t, err, test.ShouldBeNil)
		_, _, err = BuildConvexTriangles(big, 0)
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, IsDegenerateCell(err), test.ShouldBeFalse)
	})
}

func TestConvexTrianglesFillTheColumn(t *testing.T) {
	heights := mat.NewDense(2, 2, []float64{
		0.3, 1.7,
		-0.4, 2.2,
	})
	hf, err := heightfield.New[bvh.AABB](bvh.AABBKind{}, unitGrid(1), unitGrid(1), heights, -1)
	test.That(t, err, test.ShouldBeNil)
	p1, p2, err := BuildConvexTriangles(hf, 0)
	test.That(t, err, test.ShouldBeNil)
	prisms := []*spatialmath.ConvexPrism{p1, p2}

	t.Run("faces point away from the center", func(t *testing.T) {
		for _, p := range prisms {
			for f := range p.Faces() {
				tri := p.Triangle(f)
				test.That(t, tri.Normal().Dot(p.Center().Sub(tri.Points()[0])), test.ShouldBeLessThan, 0)
			}
		}
	})

	// surface is the piecewise planar top of the cell, split along x + y = 1.
	surface := func(x, y float64) float64 {
		if x+y <= 1 {
			return 0.3 + 1.4*x - 0.7*y
		}
		return 2.2 + 2.6*(x-1) + 0.5*(y-1)
	}
	// depth is how far pt is inside every face of p. It is negative outside.
	depth := func(p *spatialmath.ConvexPrism, pt r3.Vector) float64 {
		d := math.Inf(1)
		for f := range p.Faces() {
			tri := p.Triangle(f)
			d = math.Min(d, -tri.Normal().Dot(pt.Sub(tri.Points()[0])))
		}
		return d
	}

	const (
		n      = 24
		eps    = 1e-9
		margin = 1e-6
	)
	var inBoth, gaps, above int
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			x, y := (float64(i)+0.5)/n, (float64(j)+0.5)/n
			top := surface(x, y)
			for k := 0; k < n; k++ {
				z := -1 + (float64(k)+0.5)/n*3.4
				pt := r3.Vector{X: x, Y: y, Z: z}
				d1, d2 := depth(p1, pt), depth(p2, pt)
				if d1 > eps && d2 > eps {
					inBoth++
				}
				switch {
				case z < top-margin:
					if d1 < -eps && d2 < -eps {
						gaps++
					}
				case z > top+margin:
					if d1 > -eps || d2 > -eps {
						above++
					}
				}
			}
		}
	}
	test.That(t, inBoth, test.ShouldEqual, 0)
	test.That(t, gaps, test.ShouldEqual, 0)
	test.That(t, above, test.ShouldEqual, 0)
}

func TestBuildConvexQuadrilateral(t *testing.T) {
	hf := raisedCornerField(t)
	q, err := BuildConvexQuadrilateral(hf, 0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, q.Points().Len(), test.ShouldEqual, 8)
	test.That(t, q.Points().At(6), test.ShouldResemble, r3.Vector{X: 1, Y: 1, Z: 2})
	for i := 0; i < 4; i++ {
		test.That(t, q.Points().At(i).Z, test.ShouldEqual, -1)
	}
}

func TestDegenerateCell(t *testing.T) {
	hf, err := heightfield.New[bvh.AABB](bvh.AABBKind{}, unitGrid(1), unitGrid(1), mat.NewDense(2, 2, nil), 0)
	test.That(t, err, test.ShouldBeNil)

	_, _, err = BuildConvexTriangles(hf, 0)
	test.That(t, IsDegenerateCell(err), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "cell (0, 0)")

	_, err = BuildConvexQuadrilateral(hf, 0)
	test.That(t, IsDegenerateCell(err), test.ShouldBeTrue)
}
