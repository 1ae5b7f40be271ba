package narrowphase

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.uber.org/multierr"
	"go.viam.com/test"

	"go.viam.com/terrain/spatialmath"
)

func makeSphere(t *testing.T, radius float64) *spatialmath.Sphere {
	t.Helper()
	s, err := spatialmath.NewSphere(radius, "")
	test.That(t, err, test.ShouldBeNil)
	return s
}

func makeBox(t *testing.T, dims r3.Vector) *spatialmath.Box {
	t.Helper()
	b, err := spatialmath.NewBox(dims, "")
	test.That(t, err, test.ShouldBeNil)
	return b
}

func at(x, y, z float64) spatialmath.Pose {
	return spatialmath.NewPoseFromPoint(r3.Vector{X: x, Y: y, Z: z})
}

func TestSphereSphereDistance(t *testing.T) {
	solver := NewDefaultSolver()
	a, b := makeSphere(t, 1), makeSphere(t, 1)

	t.Run("separated", func(t *testing.T) {
		out := solver.ShapeDistance(a, at(0, 0, 0), b, at(3, 0, 0))
		test.That(t, out.Distance, test.ShouldAlmostEqual, 1, 1e-9)
		test.That(t, spatialmath.R3VectorAlmostEqual(out.PointA, r3.Vector{X: 1}, 1e-9), test.ShouldBeTrue)
		test.That(t, spatialmath.R3VectorAlmostEqual(out.PointB, r3.Vector{X: 2}, 1e-9), test.ShouldBeTrue)
		test.That(t, spatialmath.R3VectorAlmostEqual(out.Normal, r3.Vector{X: 1}, 1e-9), test.ShouldBeTrue)
	})

	t.Run("overlapping", func(t *testing.T) {
		out := solver.ShapeDistance(a, at(0, 0, 0), b, at(0, 1.5, 0))
		test.That(t, out.Distance, test.ShouldAlmostEqual, -0.5, 1e-9)
		test.That(t, spatialmath.R3VectorAlmostEqual(out.Normal, r3.Vector{Y: 1}, 1e-9), test.ShouldBeTrue)
	})

	t.Run("concentric spheres have no direction", func(t *testing.T) {
		out := solver.ShapeDistance(a, at(1, 1, 1), b, at(1, 1, 1))
		test.That(t, out.Distance, test.ShouldBeLessThan, 0)

		hit := solver.ShapeIntersect(a, at(1, 1, 1), b, at(1, 1, 1), true)
		test.That(t, hit.Collision, test.ShouldBeTrue)
		test.That(t, hit.LowerBound, test.ShouldEqual, UnboundedLowerBound)
	})
}

func TestBoxBoxDistance(t *testing.T) {
	solver := NewDefaultSolver()
	unit := r3.Vector{X: 1, Y: 1, Z: 1}
	a, b := makeBox(t, unit), makeBox(t, unit)

	t.Run("face separated", func(t *testing.T) {
		out := solver.ShapeDistance(a, at(0, 0, 0), b, at(3, 0, 0))
		test.That(t, out.Distance, test.ShouldAlmostEqual, 2, 1e-9)
		test.That(t, out.PointA.X, test.ShouldAlmostEqual, 0.5, 1e-9)
		test.That(t, out.PointB.X, test.ShouldAlmostEqual, 2.5, 1e-9)
	})

	t.Run("corner separated", func(t *testing.T) {
		out := solver.ShapeDistance(a, at(0, 0, 0), b, at(2, 2, 2))
		test.That(t, out.Distance, test.ShouldAlmostEqual, math.Sqrt(3), 1e-9)
		test.That(t, spatialmath.R3VectorAlmostEqual(out.PointA, r3.Vector{X: 0.5, Y: 0.5, Z: 0.5}, 1e-9), test.ShouldBeTrue)
	})

	t.Run("rotated", func(t *testing.T) {
		pose := spatialmath.NewPose(r3.Vector{X: 2}, &spatialmath.R4AA{Theta: math.Pi / 4, RZ: 1})
		out := solver.ShapeDistance(a, at(0, 0, 0), b, pose)
		test.That(t, out.Distance, test.ShouldAlmostEqual, 1.5-math.Sqrt2/2, 1e-9)
	})

	t.Run("penetrating", func(t *testing.T) {
		out := solver.ShapeDistance(a, at(0, 0, 0), b, at(0.8, 0, 0.1))
		test.That(t, out.Distance, test.ShouldAlmostEqual, -0.2, 1e-6)
		test.That(t, spatialmath.R3VectorAlmostEqual(out.Normal, r3.Vector{X: 1}, 1e-6), test.ShouldBeTrue)
		test.That(t, out.PointA.Sub(out.PointB).Norm(), test.ShouldAlmostEqual, 0.2, 1e-6)
	})
}

func TestSphereBox(t *testing.T) {
	solver := NewDefaultSolver()
	box := makeBox(t, r3.Vector{X: 1, Y: 1, Z: 1})

	t.Run("center outside the box", func(t *testing.T) {
		out := solver.ShapeDistance(box, at(0, 0, 0), makeSphere(t, 0.5), at(0, 0, 0.8))
		test.That(t, out.Distance, test.ShouldAlmostEqual, -0.2, 1e-9)
		test.That(t, spatialmath.R3VectorAlmostEqual(out.Normal, r3.Vector{Z: 1}, 1e-9), test.ShouldBeTrue)
		test.That(t, spatialmath.R3VectorAlmostEqual(out.PointA, r3.Vector{Z: 0.5}, 1e-9), test.ShouldBeTrue)
		test.That(t, spatialmath.R3VectorAlmostEqual(out.PointB, r3.Vector{Z: 0.3}, 1e-9), test.ShouldBeTrue)
	})

	t.Run("center inside the box", func(t *testing.T) {
		out := solver.ShapeDistance(box, at(0, 0, 0), makeSphere(t, 0.1), at(0, 0, 0.4))
		test.That(t, out.Distance, test.ShouldAlmostEqual, -0.2, 1e-6)
		test.That(t, spatialmath.R3VectorAlmostEqual(out.Normal, r3.Vector{Z: 1}, 1e-6), test.ShouldBeTrue)
	})
}

func TestCapsuleSphere(t *testing.T) {
	capsule, err := spatialmath.NewCapsule(0.5, 3, "")
	test.That(t, err, test.ShouldBeNil)

	out := NewDefaultSolver().ShapeDistance(capsule, at(0, 0, 0), makeSphere(t, 0.5), at(2, 0, 1))
	test.That(t, out.Distance, test.ShouldAlmostEqual, 1, 1e-9)
	test.That(t, spatialmath.R3VectorAlmostEqual(out.PointA, r3.Vector{X: 0.5, Z: 1}, 1e-9), test.ShouldBeTrue)
}

func TestShapeIntersect(t *testing.T) {
	solver := NewDefaultSolver()
	unit := r3.Vector{X: 1, Y: 1, Z: 1}

	t.Run("apart", func(t *testing.T) {
		out := solver.ShapeIntersect(makeBox(t, unit), at(0, 0, 0), makeBox(t, unit), at(0, 0, 2), true)
		test.That(t, out.Collision, test.ShouldBeFalse)
		test.That(t, out.LowerBound, test.ShouldAlmostEqual, 1, 1e-9)
	})

	t.Run("overlapping with contact", func(t *testing.T) {
		out := solver.ShapeIntersect(makeBox(t, unit), at(0, 0, 0), makeSphere(t, 0.5), at(0, 0, 0.8), true)
		test.That(t, out.Collision, test.ShouldBeTrue)
		test.That(t, out.LowerBound, test.ShouldAlmostEqual, -0.2, 1e-9)
		test.That(t, spatialmath.R3VectorAlmostEqual(out.ContactPoint, r3.Vector{Z: 0.4}, 1e-9), test.ShouldBeTrue)
		test.That(t, spatialmath.R3VectorAlmostEqual(out.Normal, r3.Vector{Z: 1}, 1e-9), test.ShouldBeTrue)
	})

	t.Run("overlapping without contact", func(t *testing.T) {
		out := solver.ShapeIntersect(makeBox(t, unit), at(0, 0, 0), makeSphere(t, 0.5), at(0, 0, 0.8), false)
		test.That(t, out.Collision, test.ShouldBeTrue)
		test.That(t, out.ContactPoint, test.ShouldResemble, r3.Vector{})
	})
}

func TestPosedShapes(t *testing.T) {
	// moving both shapes by the same pose leaves the distance unchanged and moves the witnesses
	solver := NewDefaultSolver()
	box := makeBox(t, r3.Vector{X: 2, Y: 1, Z: 1})
	sphere := makeSphere(t, 0.25)

	base := solver.ShapeDistance(box, at(0, 0, 0), sphere, at(2, 0, 0))
	test.That(t, base.Distance, test.ShouldAlmostEqual, 0.75, 1e-9)

	shift := spatialmath.NewPose(r3.Vector{X: 1, Y: -2, Z: 3}, &spatialmath.R4AA{Theta: 1.1, RX: 1, RY: 2, RZ: 0.5})
	moved := solver.ShapeDistance(box, shift, sphere, spatialmath.Compose(shift, at(2, 0, 0)))
	test.That(t, moved.Distance, test.ShouldAlmostEqual, base.Distance, 1e-9)
	test.That(t, spatialmath.R3VectorAlmostEqual(moved.PointA, spatialmath.TransformPoint(shift, base.PointA), 1e-9), test.ShouldBeTrue)
	test.That(t, spatialmath.R3VectorAlmostEqual(moved.Normal, spatialmath.RotateVector(shift, base.Normal), 1e-9), test.ShouldBeTrue)
}

func TestSupportHint(t *testing.T) {
	pts := spatialmath.NewPointBuffer(
		r3.Vector{}, r3.Vector{X: 1}, r3.Vector{Y: 1}, r3.Vector{X: 1, Y: 1},
		r3.Vector{Z: 1}, r3.Vector{X: 1, Z: 1}, r3.Vector{Y: 1, Z: 1}, r3.Vector{X: 1, Y: 1, Z: 1},
	)
	quad, err := spatialmath.NewConvexQuad(pts, [6][4]int{
		{0, 2, 3, 1}, {4, 5, 7, 6}, {0, 1, 5, 4}, {1, 3, 7, 5}, {3, 2, 6, 7}, {2, 0, 4, 6},
	}, "cube")
	test.That(t, err, test.ShouldBeNil)

	hint := 0
	pt := Support(quad, r3.Vector{X: 1, Y: 1, Z: 1}, true, &hint)
	test.That(t, pt, test.ShouldResemble, r3.Vector{X: 1, Y: 1, Z: 1})
	test.That(t, hint, test.ShouldEqual, 7)

	// same answer with a stale hint or none
	test.That(t, Support(quad, r3.Vector{X: 1, Y: 1, Z: 1}, true, &hint), test.ShouldResemble, pt)
	test.That(t, Support(quad, r3.Vector{X: 1, Y: 1, Z: 1}, false, nil), test.ShouldResemble, pt)
}

func TestOptions(t *testing.T) {
	test.That(t, DefaultOptions().Validate(), test.ShouldBeNil)

	err := Options{}.Validate()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, len(multierr.Errors(err)), test.ShouldEqual, 4)

	_, err = NewSolver(Options{GJKMaxIterations: 1})
	test.That(t, err, test.ShouldNotBeNil)

	solver, err := NewSolver(DefaultOptions())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, solver.Options(), test.ShouldResemble, DefaultOptions())
}
