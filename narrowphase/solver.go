// Package narrowphase computes exact distances and penetrations between pairs of posed convex shapes.
//
// Both GJK and EPA run on the shape cores, with the inflation radii accounted for afterwards, so curved shapes
// such as spheres and capsules are handled exactly.
package narrowphase

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/terrain/spatialmath"
)

// UnboundedLowerBound is reported by ShapeIntersect when shapes overlap but no penetration estimate exists.
const UnboundedLowerBound = -math.MaxFloat64

// degeneratePenetrationEstimate is the depth reported when EPA cannot measure an overlap.
const degeneratePenetrationEstimate = 1e-4

// DistanceOutcome is the result of a distance query, in world coordinates.
type DistanceOutcome struct {
	// Distance is the signed distance. Negative values are penetration depths.
	Distance float64
	PointA   r3.Vector
	PointB   r3.Vector
	// Normal is the unit direction from A to B.
	Normal r3.Vector
}

// IntersectOutcome is the result of a boolean intersection query, in world coordinates.
type IntersectOutcome struct {
	Collision bool
	// LowerBound is a lower bound on the signed distance, UnboundedLowerBound when none is known.
	LowerBound   float64
	ContactPoint r3.Vector
	Normal       r3.Vector
}

// Solver runs GJK and EPA with fixed options. It holds no per query state and may be shared.
type Solver struct {
	opts Options
}

// NewSolver validates opts and returns a solver using them.
func NewSolver(opts Options) (*Solver, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Solver{opts: opts}, nil
}

// NewDefaultSolver returns a solver with DefaultOptions.
func NewDefaultSolver() *Solver {
	return &Solver{opts: DefaultOptions()}
}

// Options returns the options the solver runs with.
func (s *Solver) Options() Options {
	return s.opts
}

// Support returns the support point of shape along dir in its local frame. With useHint set, hint seeds the
// search and receives the vertex found.
func Support(shape spatialmath.Shape, dir r3.Vector, useHint bool, hint *int) r3.Vector {
	if !useHint {
		return shape.Support(dir, nil)
	}
	return shape.Support(dir, hint)
}

// local is the outcome of a query in A's frame.
type local struct {
	dist     float64
	pa, pb   r3.Vector
	normal   r3.Vector
	measured bool
}

func (s *Solver) query(a spatialmath.Shape, poseA spatialmath.Pose, b spatialmath.Shape, poseB spatialmath.Pose) local {
	m := newMinkowski(a, poseA, b, poseB)
	res := gjk(m, s.opts.GJKMaxIterations, s.opts.GJKTolerance)
	inflation := a.Inflation() + b.Inflation()

	if !res.overlap {
		pa, pb := res.witnesses()
		coreDist := res.v.Norm()
		normal := res.v.Mul(-1 / coreDist)
		return local{
			dist:     coreDist - inflation,
			pa:       pa.Add(normal.Mul(a.Inflation())),
			pb:       pb.Sub(normal.Mul(b.Inflation())),
			normal:   normal,
			measured: true,
		}
	}

	// Cores overlap. Penetration of the inflated shapes is the penetration of the cores plus the inflation.
	if found, ok := epa(m, res.simplex, s.opts.EPAMaxIterations, s.opts.EPATolerance); ok {
		return local{
			dist:     -found.depth - inflation,
			pa:       found.pa.Add(found.normal.Mul(a.Inflation())),
			pb:       found.pb.Sub(found.normal.Mul(b.Inflation())),
			normal:   found.normal,
			measured: true,
		}
	}

	normal := m.trans
	if normal.Norm2() < 1e-24 {
		normal = r3.Vector{Z: 1}
	}
	normal = normal.Normalize()
	center := m.trans.Mul(0.5)
	return local{dist: -math.Max(inflation, degeneratePenetrationEstimate), pa: center, pb: center, normal: normal}
}

// ShapeDistance returns the signed distance between a and b.
func (s *Solver) ShapeDistance(a spatialmath.Shape, poseA spatialmath.Pose, b spatialmath.Shape, poseB spatialmath.Pose) DistanceOutcome {
	res := s.query(a, poseA, b, poseB)
	return DistanceOutcome{
		Distance: res.dist,
		PointA:   spatialmath.TransformPoint(poseA, res.pa),
		PointB:   spatialmath.TransformPoint(poseA, res.pb),
		Normal:   spatialmath.RotateVector(poseA, res.normal),
	}
}

// ShapeIntersect reports whether a and b overlap. The contact point and normal are only filled in when
// needContact is set and the shapes collide.
func (s *Solver) ShapeIntersect(
	a spatialmath.Shape, poseA spatialmath.Pose,
	b spatialmath.Shape, poseB spatialmath.Pose,
	needContact bool,
) IntersectOutcome {
	res := s.query(a, poseA, b, poseB)
	if res.dist > 0 {
		return IntersectOutcome{LowerBound: res.dist}
	}
	out := IntersectOutcome{Collision: true, LowerBound: res.dist}
	if !res.measured {
		out.LowerBound = UnboundedLowerBound
	}
	if needContact {
		out.ContactPoint = spatialmath.TransformPoint(poseA, res.pa.Add(res.pb).Mul(0.5))
		out.Normal = spatialmath.RotateVector(poseA, res.normal)
	}
	return out
}
