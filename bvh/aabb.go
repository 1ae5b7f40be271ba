package bvh

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/terrain/spatialmath"
)

// AABB is an axis aligned bounding box.
type AABB struct {
	Min r3.Vector
	Max r3.Vector
}

// AABBKind builds AABB volumes.
type AABBKind struct{}

// FromAABB returns the box [lo, hi].
func (AABBKind) FromAABB(lo, hi r3.Vector) AABB {
	return AABB{Min: lo, Max: hi}
}

// FromShape returns the world aligned extents of shape at pose.
func (AABBKind) FromShape(shape spatialmath.Shape, pose spatialmath.Pose) AABB {
	lo, hi := spatialmath.ShapeExtents(shape, pose)
	return AABB{Min: lo, Max: hi}
}

func (a AABB) String() string {
	return fmt.Sprintf("AABB{min: %v, max: %v}", a.Min, a.Max)
}

// Center returns the midpoint of the box.
func (a AABB) Center() r3.Vector {
	return a.Min.Add(a.Max).Mul(0.5)
}

// HalfSize returns the half extents of the box.
func (a AABB) HalfSize() r3.Vector {
	return a.Max.Sub(a.Min).Mul(0.5)
}

// Contains reports whether pt lies inside or on the box.
func (a AABB) Contains(pt r3.Vector) bool {
	return pt.X >= a.Min.X && pt.X <= a.Max.X &&
		pt.Y >= a.Min.Y && pt.Y <= a.Max.Y &&
		pt.Z >= a.Min.Z && pt.Z <= a.Max.Z
}

// Overlap reports whether the boxes touch or intersect. Touching faces count as overlap.
func (a AABB) Overlap(other AABB) (bool, float64) {
	sqr := aabbSqrDistance(a, other)
	return sqr == 0, sqr
}

// OverlapPose moves the receiver by pose, refits an axis aligned box around it and tests overlap.
func (a AABB) OverlapPose(pose spatialmath.Pose, other AABB) (bool, float64) {
	return transformAABB(a, pose).Overlap(other)
}

// Distance returns the exact distance between the boxes, 0 when they overlap.
func (a AABB) Distance(other AABB) float64 {
	return math.Sqrt(aabbSqrDistance(a, other))
}

func aabbSqrDistance(a, b AABB) float64 {
	gap := func(minA, maxA, minB, maxB float64) float64 {
		return math.Max(0, math.Max(minA-maxB, minB-maxA))
	}
	dx := gap(a.Min.X, a.Max.X, b.Min.X, b.Max.X)
	dy := gap(a.Min.Y, a.Max.Y, b.Min.Y, b.Max.Y)
	dz := gap(a.Min.Z, a.Max.Z, b.Min.Z, b.Max.Z)
	return dx*dx + dy*dy + dz*dz
}

// transformAABB returns the axis aligned box around the eight corners of a moved by pose.
func transformAABB(a AABB, pose spatialmath.Pose) AABB {
	if spatialmath.IsIdentityPose(pose) {
		return a
	}
	lo := r3.Vector{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	hi := r3.Vector{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for i := 0; i < 8; i++ {
		corner := a.Min
		if i&1 != 0 {
			corner.X = a.Max.X
		}
		if i&2 != 0 {
			corner.Y = a.Max.Y
		}
		if i&4 != 0 {
			corner.Z = a.Max.Z
		}
		pt := spatialmath.TransformPoint(pose, corner)
		lo = r3.Vector{X: math.Min(lo.X, pt.X), Y: math.Min(lo.Y, pt.Y), Z: math.Min(lo.Z, pt.Z)}
		hi = r3.Vector{X: math.Max(hi.X, pt.X), Y: math.Max(hi.Y, pt.Y), Z: math.Max(hi.Z, pt.Z)}
	}
	return AABB{Min: lo, Max: hi}
}
