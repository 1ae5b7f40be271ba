package collision

import (
	"github.com/golang/geo/r3"

	"go.viam.com/terrain/narrowphase"
	"go.viam.com/terrain/spatialmath"
)

// approxPrecision is the relative precision used to decide whether two points or normals coincide.
const approxPrecision = 1e-9

// Outcome is the result of a narrow phase query between one prism and the other shape.
type Outcome struct {
	// Distance is signed, negative values are penetration depths.
	Distance float64 `json:"distance"`
	// Witness1 lies on the height field, Witness2 on the other shape.
	Witness1 r3.Vector `json:"witness1"`
	Witness2 r3.Vector `json:"witness2"`
	// Normal points from the height field to the other shape.
	Normal r3.Vector `json:"normal"`
	// NormalTop is the upward normal of the prism's top triangle.
	NormalTop        r3.Vector `json:"normal_top"`
	Collision        bool      `json:"collision"`
	WitnessOnBinSide bool      `json:"witness_on_bin_side"`
}

// transform maps every point and direction of o by pose.
func (o Outcome) transform(pose spatialmath.Pose) Outcome {
	o.Witness1 = spatialmath.TransformPoint(pose, o.Witness1)
	o.Witness2 = spatialmath.TransformPoint(pose, o.Witness2)
	o.Normal = spatialmath.RotateVector(pose, o.Normal)
	o.NormalTop = spatialmath.RotateVector(pose, o.NormalTop)
	return o
}

// prismDistance queries one prism against shape, both in the height field frame, and corrects the result for
// contacts on the bin walls.
func prismDistance(
	solver *narrowphase.Solver,
	prism *spatialmath.ConvexPrism,
	shape spatialmath.Shape,
	shapePose spatialmath.Pose,
) Outcome {
	res := solver.ShapeDistance(prism, spatialmath.NewZeroPose(), shape, shapePose)
	out := Outcome{
		Distance:  res.Distance,
		Witness1:  res.PointA,
		Witness2:  res.PointB,
		Normal:    res.Normal,
		Collision: res.Distance < 0,
	}
	out.WitnessOnBinSide = binCorrection(prism, shape, shapePose, &out)
	return out
}

// binCorrection keeps contact geometry on the top triangle of prism, the only face that is real terrain.
//
// A witness that is not on the top triangle is flagged as lying on a bin side. A witness on the top triangle
// gets the top normal. On collision, the contact is rebuilt from the deepest point of shape below the top plane,
// so the penetration is always measured along the top normal.
func binCorrection(
	prism *spatialmath.ConvexPrism,
	shape spatialmath.Shape,
	shapePose spatialmath.Pose,
	out *Outcome,
) bool {
	top := prism.Triangle(spatialmath.PrismTopFace)
	normalTop := top.Normal()
	if normalTop.Z < 0 {
		normalTop = normalTop.Mul(-1)
	}
	out.NormalTop = normalTop

	onBinSide := !spatialmath.VectorsApprox(top.ClosestPointToPoint(out.Witness1), out.Witness1, approxPrecision)
	if !onBinSide {
		out.Normal = normalTop
	}

	if out.Collision {
		hint := 0
		local := narrowphase.Support(shape, spatialmath.InverseRotateVector(shapePose, normalTop.Mul(-1)), true, &hint)
		support := spatialmath.TransformPoint(shapePose, local)

		plane := spatialmath.NewPlaneFromPoint(normalTop, top.Points()[0])
		planeDist := plane.SignedDistance(support)
		c1 := top.ClosestPointToPoint(plane.Project(support))
		c2 := c1.Add(normalTop.Mul(planeDist))

		out.Witness1 = c1
		out.Witness2 = c2
		out.Normal = normalTop
		out.Distance = -c1.Sub(c2).Norm()
	}
	return onBinSide
}

// mergeDistance picks one of the two prism outcomes of a cell. Collisions win over separations, then the
// smaller distance wins, and ties keep the first prism.
func mergeDistance(o1, o2 Outcome) (Outcome, bool) {
	switch {
	case o1.Collision && o2.Collision:
		if o1.Distance > o2.Distance {
			return o2, true
		}
		return o1, true
	case o1.Collision:
		return o1, true
	case o2.Collision:
		return o2, true
	}
	if o1.Distance > o2.Distance {
		return o2, false
	}
	return o1, false
}

// intersectOutcome is the result of a boolean query between one prism and the other shape.
type intersectOutcome struct {
	collision    bool
	lowerBound   float64
	contactPoint r3.Vector
	normal       r3.Vector
}

// mergeIntersect is mergeDistance for boolean queries. A lower bound equal to narrowphase.UnboundedLowerBound
// never wins a comparison against a known bound.
func mergeIntersect(r1, r2 intersectOutcome) (intersectOutcome, bool) {
	switch {
	case r1.collision && r2.collision:
		if preferSecond(r1.lowerBound, r2.lowerBound) {
			return r2, true
		}
		return r1, true
	case r1.collision:
		return r1, true
	case r2.collision:
		return r2, true
	}
	if preferSecond(r1.lowerBound, r2.lowerBound) {
		return r2, false
	}
	return r1, false
}

func preferSecond(lb1, lb2 float64) bool {
	unbounded1 := lb1 == narrowphase.UnboundedLowerBound
	unbounded2 := lb2 == narrowphase.UnboundedLowerBound
	switch {
	case unbounded1 && !unbounded2:
		return true
	case unbounded2 && !unbounded1:
		return false
	default:
		return lb1 > lb2
	}
}
