package bvh

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/terrain/spatialmath"
)

// OBB is an oriented bounding box. Axes are unit and mutually orthogonal.
type OBB struct {
	Center   r3.Vector
	Axes     [3]r3.Vector
	HalfSize r3.Vector
}

// OBBKind builds OBB volumes.
type OBBKind struct{}

// FromAABB returns the box [lo, hi] with world axes.
func (OBBKind) FromAABB(lo, hi r3.Vector) OBB {
	return OBB{
		Center:   lo.Add(hi).Mul(0.5),
		Axes:     [3]r3.Vector{{X: 1}, {Y: 1}, {Z: 1}},
		HalfSize: hi.Sub(lo).Mul(0.5),
	}
}

// FromShape fits a box along the shape's own axes and places it at pose.
func (OBBKind) FromShape(shape spatialmath.Shape, pose spatialmath.Pose) OBB {
	lo, hi := spatialmath.LocalExtents(shape)
	rm := pose.Orientation().RotationMatrix()
	return OBB{
		Center:   spatialmath.TransformPoint(pose, lo.Add(hi).Mul(0.5)),
		Axes:     [3]r3.Vector{rm.Col(0), rm.Col(1), rm.Col(2)},
		HalfSize: hi.Sub(lo).Mul(0.5),
	}
}

func (o OBB) String() string {
	return fmt.Sprintf("OBB{center: %v, half: %v}", o.Center, o.HalfSize)
}

// Overlap runs a separating axis test. When the boxes are apart, the largest gap over the 15 axes is a lower
// bound on their distance.
func (o OBB) Overlap(other OBB) (bool, float64) {
	gap := separatingGap(&o, &other)
	if gap > 0 {
		return false, gap * gap
	}
	return true, 0
}

// OverlapPose moves the receiver by pose before testing.
func (o OBB) OverlapPose(pose spatialmath.Pose, other OBB) (bool, float64) {
	if spatialmath.IsIdentityPose(pose) {
		return o.Overlap(other)
	}
	moved := OBB{
		Center:   spatialmath.TransformPoint(pose, o.Center),
		HalfSize: o.HalfSize,
	}
	for i, axis := range o.Axes {
		moved.Axes[i] = spatialmath.RotateVector(pose, axis)
	}
	return moved.Overlap(other)
}

// Distance returns the separating axis lower bound on the distance, 0 when the boxes overlap.
func (o OBB) Distance(other OBB) float64 {
	return math.Max(0, separatingGap(&o, &other))
}

// separatingGap computes the maximum separation gap across all 15 SAT axes of two oriented boxes using
// Ericson's precomputed R-matrix formulation ("Real-Time Collision Detection" Ch. 4.4).
// Positive: the boxes are apart by at least this distance. Negative: they overlap.
func separatingGap(a, b *OBB) float64 {
	const eps = 1e-10

	ha := [3]float64{a.HalfSize.X, a.HalfSize.Y, a.HalfSize.Z}
	hb := [3]float64{b.HalfSize.X, b.HalfSize.Y, b.HalfSize.Z}
	d := b.Center.Sub(a.Center)

	// t is the center offset in a's frame, r the rotation of b's axes in a's frame.
	var t [3]float64
	var r, absR [3][3]float64
	for i := 0; i < 3; i++ {
		t[i] = a.Axes[i].Dot(d)
		for j := 0; j < 3; j++ {
			r[i][j] = a.Axes[i].Dot(b.Axes[j])
			// epsilon prevents issues with near-parallel edges
			absR[i][j] = math.Abs(r[i][j]) + eps
		}
	}

	best := math.Inf(-1)

	// face axes of a
	for i := 0; i < 3; i++ {
		rb := hb[0]*absR[i][0] + hb[1]*absR[i][1] + hb[2]*absR[i][2]
		best = max(best, math.Abs(t[i])-ha[i]-rb)
	}

	// face axes of b
	for j := 0; j < 3; j++ {
		ra := ha[0]*absR[0][j] + ha[1]*absR[1][j] + ha[2]*absR[2][j]
		tb := t[0]*r[0][j] + t[1]*r[1][j] + t[2]*r[2][j]
		best = max(best, math.Abs(tb)-hb[j]-ra)
	}

	// edge axes a_i x b_j, normalized by sqrt(1 - R[i][j]^2). Near-parallel edges have no usable axis.
	for i := 0; i < 3; i++ {
		i1, i2 := (i+1)%3, (i+2)%3
		for j := 0; j < 3; j++ {
			l2 := 1 - r[i][j]*r[i][j]
			if l2 <= eps {
				continue
			}
			j1, j2 := (j+1)%3, (j+2)%3
			raw := math.Abs(t[i2]*r[i1][j]-t[i1]*r[i2][j]) -
				(ha[i1]*absR[i2][j] + ha[i2]*absR[i1][j]) -
				(hb[j1]*absR[i][j2] + hb[j2]*absR[i][j1])
			best = max(best, raw/math.Sqrt(l2))
		}
	}
	return best
}
