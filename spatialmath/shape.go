package spatialmath

import (
	"github.com/golang/geo/r3"
)

// Shape is a convex solid described by its support function in its own local frame.
//
// Curved shapes are modeled as a core (a point or a segment) swept by a sphere of radius Inflation, so that
// solvers can run on the exact polytope-like core and add the radius back analytically.
type Shape interface {
	Label() string

	// Support returns the point of the shape that is extreme along dir. dir does not need to be normalized.
	// hint, if non nil, is a vertex index used to start the search and is updated to the index found.
	Support(dir r3.Vector, hint *int) r3.Vector

	// CoreSupport is Support for the shape with its inflation removed.
	CoreSupport(dir r3.Vector, hint *int) r3.Vector

	// Inflation is the radius swept around the core.
	Inflation() float64
}

// ShapeExtents returns the axis aligned bounds of s placed at pose, computed from its support function.
func ShapeExtents(s Shape, pose Pose) (r3.Vector, r3.Vector) {
	axes := [3]r3.Vector{{X: 1}, {Y: 1}, {Z: 1}}
	var lo, hi [3]float64
	for i, axis := range axes {
		up := TransformPoint(pose, s.Support(InverseRotateVector(pose, axis), nil))
		down := TransformPoint(pose, s.Support(InverseRotateVector(pose, axis.Mul(-1)), nil))
		hi[i] = up.Dot(axis)
		lo[i] = down.Dot(axis)
	}
	return r3.Vector{X: lo[0], Y: lo[1], Z: lo[2]}, r3.Vector{X: hi[0], Y: hi[1], Z: hi[2]}
}

// LocalExtents returns the bounds of s along its own axes.
func LocalExtents(s Shape) (r3.Vector, r3.Vector) {
	return ShapeExtents(s, NewZeroPose())
}
