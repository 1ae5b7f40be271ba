package spatialmath

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Pose represents a rigid transform: a position and an orientation.
type Pose interface {
	Point() r3.Vector
	Orientation() Orientation
}

type basicPose struct {
	point r3.Vector
	q     quat.Number
	rot   *RotationMatrix
}

// NewZeroPose returns a pose at (0,0,0) with no rotation.
func NewZeroPose() Pose {
	return &basicPose{q: quat.Number{Real: 1}, rot: NewIdentityRotationMatrix()}
}

// NewPoseFromPoint returns a pose at the given point with no rotation.
func NewPoseFromPoint(point r3.Vector) Pose {
	return &basicPose{point: point, q: quat.Number{Real: 1}, rot: NewIdentityRotationMatrix()}
}

// NewPose returns a pose at the given point with the given orientation.
func NewPose(point r3.Vector, o Orientation) Pose {
	if o == nil {
		return NewPoseFromPoint(point)
	}
	q := o.Quaternion()
	return &basicPose{point: point, q: q, rot: QuatToRotationMatrix(q)}
}

func (p *basicPose) Point() r3.Vector {
	return p.point
}

func (p *basicPose) Orientation() Orientation {
	return NewOrientationFromQuaternion(p.q)
}

func rotationOf(p Pose) *RotationMatrix {
	if bp, ok := p.(*basicPose); ok {
		return bp.rot
	}
	return p.Orientation().RotationMatrix()
}

// Compose returns the pose obtained by applying b in the frame of a, i.e. a*b.
func Compose(a, b Pose) Pose {
	q := quat.Mul(a.Orientation().Quaternion(), b.Orientation().Quaternion())
	return &basicPose{
		point: a.Point().Add(rotationOf(a).Mul(b.Point())),
		q:     q,
		rot:   QuatToRotationMatrix(q),
	}
}

// PoseInverse returns the inverse transform of p.
func PoseInverse(p Pose) Pose {
	q := quat.Conj(p.Orientation().Quaternion())
	return &basicPose{
		point: rotationOf(p).MulT(p.Point()).Mul(-1),
		q:     q,
		rot:   QuatToRotationMatrix(q),
	}
}

// TransformPoint maps a point expressed in the pose's local frame to the parent frame.
func TransformPoint(p Pose, pt r3.Vector) r3.Vector {
	return rotationOf(p).Mul(pt).Add(p.Point())
}

// InverseTransformPoint maps a point expressed in the parent frame to the pose's local frame.
func InverseTransformPoint(p Pose, pt r3.Vector) r3.Vector {
	return rotationOf(p).MulT(pt.Sub(p.Point()))
}

// RotateVector applies only the rotation of the pose to v.
func RotateVector(p Pose, v r3.Vector) r3.Vector {
	return rotationOf(p).Mul(v)
}

// InverseRotateVector applies the inverse rotation of the pose to v.
func InverseRotateVector(p Pose, v r3.Vector) r3.Vector {
	return rotationOf(p).MulT(v)
}

// PoseAlmostEqualEps returns whether two poses are within eps in position and orientation.
func PoseAlmostEqualEps(a, b Pose, eps float64) bool {
	return R3VectorAlmostEqual(a.Point(), b.Point(), eps) &&
		QuaternionAlmostEqual(a.Orientation().Quaternion(), b.Orientation().Quaternion(), eps)
}

// PoseAlmostEqual returns whether two poses are approximately equal.
func PoseAlmostEqual(a, b Pose) bool {
	return PoseAlmostEqualEps(a, b, 1e-6)
}

// IsIdentityPose reports whether p is, up to floating point noise, the identity transform.
func IsIdentityPose(p Pose) bool {
	return PoseAlmostEqualEps(p, NewZeroPose(), 1e-12)
}
