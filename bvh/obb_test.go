package bvh

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/terrain/spatialmath"
)

func unitCube(center r3.Vector) OBB {
	return OBBKind{}.FromAABB(center.Sub(r3.Vector{X: 0.5, Y: 0.5, Z: 0.5}), center.Add(r3.Vector{X: 0.5, Y: 0.5, Z: 0.5}))
}

func TestOBBOverlap(t *testing.T) {
	t.Run("overlapping cubes", func(t *testing.T) {
		overlap, sqr := unitCube(r3.Vector{}).Overlap(unitCube(r3.Vector{X: 0.5, Y: 0.5}))
		test.That(t, overlap, test.ShouldBeTrue)
		test.That(t, sqr, test.ShouldEqual, 0)
	})

	t.Run("separated along X", func(t *testing.T) {
		a := unitCube(r3.Vector{})
		b := unitCube(r3.Vector{X: 3})
		overlap, sqr := a.Overlap(b)
		test.That(t, overlap, test.ShouldBeFalse)
		test.That(t, sqr, test.ShouldAlmostEqual, 4, 1e-6)
		test.That(t, a.Distance(b), test.ShouldAlmostEqual, 2, 1e-6)
	})

	t.Run("rotated cube", func(t *testing.T) {
		box, err := spatialmath.NewBox(r3.Vector{X: 1, Y: 1, Z: 1}, "")
		test.That(t, err, test.ShouldBeNil)
		pose := spatialmath.NewPose(r3.Vector{X: 2}, &spatialmath.R4AA{Theta: math.Pi / 4, RZ: 1})
		rotated := OBBKind{}.FromShape(box, pose)

		// the rotated cube reaches sqrt(2)/2 back toward the origin
		want := 2 - 0.5 - math.Sqrt2/2
		test.That(t, unitCube(r3.Vector{}).Distance(rotated), test.ShouldAlmostEqual, want, 1e-6)
		test.That(t, rotated.Distance(unitCube(r3.Vector{})), test.ShouldAlmostEqual, want, 1e-6)
	})
}

func TestOBBOverlapPose(t *testing.T) {
	a := unitCube(r3.Vector{})
	b := unitCube(r3.Vector{X: 5})

	overlap, _ := a.OverlapPose(spatialmath.NewZeroPose(), b)
	test.That(t, overlap, test.ShouldBeFalse)

	overlap, sqr := a.OverlapPose(spatialmath.NewPoseFromPoint(r3.Vector{X: 4.5}), b)
	test.That(t, overlap, test.ShouldBeTrue)
	test.That(t, sqr, test.ShouldEqual, 0)

	pose := spatialmath.NewPose(r3.Vector{X: 3}, &spatialmath.R4AA{Theta: math.Pi / 4, RZ: 1})
	_, sqr = a.OverlapPose(pose, b)
	want := 5 - 0.5 - 3 - math.Sqrt2/2
	test.That(t, math.Sqrt(sqr), test.ShouldAlmostEqual, want, 1e-6)
}

func TestOBBLowerBoundsAABB(t *testing.T) {
	// for world aligned boxes both kinds agree
	lo1, hi1 := r3.Vector{}, r3.Vector{X: 1, Y: 2, Z: 3}
	lo2, hi2 := r3.Vector{X: 4, Y: 6, Z: 3}, r3.Vector{X: 5, Y: 7, Z: 4}
	aabbDist := AABBKind{}.FromAABB(lo1, hi1).Distance(AABBKind{}.FromAABB(lo2, hi2))
	obbDist := OBBKind{}.FromAABB(lo1, hi1).Distance(OBBKind{}.FromAABB(lo2, hi2))
	test.That(t, obbDist, test.ShouldBeLessThanOrEqualTo, aabbDist+1e-9)
	test.That(t, obbDist, test.ShouldBeGreaterThan, 0)
}
