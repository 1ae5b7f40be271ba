// Package bvh defines the bounding volumes used to prune hierarchical queries and the depth first
// traversal that drives them.
package bvh

import (
	"github.com/golang/geo/r3"

	"go.viam.com/terrain/spatialmath"
)

// Volume is a bounding volume that can be tested against another volume of the same kind.
type Volume[T any] interface {
	// Overlap reports whether the two volumes overlap, along with a lower bound on the squared distance
	// between them. The bound is zero when they overlap and may be loose when they do not.
	Overlap(other T) (bool, float64)

	// OverlapPose is Overlap with the receiver first moved by pose.
	OverlapPose(pose spatialmath.Pose, other T) (bool, float64)

	// Distance returns a lower bound on the distance between the two volumes.
	Distance(other T) float64
}

// Kind builds volumes of one type. It is how generic code such as a height field fits its nodes.
type Kind[T Volume[T]] interface {
	// FromAABB returns the volume bounding the axis aligned box [lo, hi].
	FromAABB(lo, hi r3.Vector) T

	// FromShape returns a volume bounding shape placed at pose.
	FromShape(shape spatialmath.Shape, pose spatialmath.Pose) T
}
