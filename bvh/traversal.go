package bvh

import "math"

// Tree exposes the shape of a binary hierarchy by node index.
type Tree interface {
	IsLeaf(b int) bool
	LeftChild(b int) int
	RightChild(b int) int
}

// CollisionNode is the per query state of a collision descent.
type CollisionNode interface {
	Tree

	// Prune returns true when node b cannot hold a contact, along with a lower bound on the squared
	// distance to it.
	Prune(b int) (bool, float64)

	// LeafTest runs the exact test on leaf b and returns a lower bound on the squared distance.
	LeafTest(b int) (float64, error)

	// CanStop reports whether enough has been found to end the descent.
	CanStop() bool
}

// DistanceNode is the per query state of a distance descent.
type DistanceNode interface {
	Tree

	// DistanceLowerBound bounds from below the distance between node b and the query object.
	DistanceLowerBound(b int) float64

	LeafTest(b int) error

	// CanStop reports whether a subtree at distance c or more cannot improve the result.
	CanStop(c float64) bool
}

// CollisionRecurse descends the hierarchy from node b depth first, left child before right, and returns the
// smallest squared distance lower bound seen. Leaves skip the volume test and go straight to the exact test.
// The first leaf error aborts the descent.
func CollisionRecurse(node CollisionNode, b int) (float64, error) {
	if node.IsLeaf(b) {
		return node.LeafTest(b)
	}
	if disjoint, sqrLowerBound := node.Prune(b); disjoint {
		return sqrLowerBound, nil
	}

	left, err := CollisionRecurse(node, node.LeftChild(b))
	if err != nil {
		return 0, err
	}
	if node.CanStop() {
		return left, nil
	}
	right, err := CollisionRecurse(node, node.RightChild(b))
	if err != nil {
		return 0, err
	}
	return math.Min(left, right), nil
}

// DistanceRecurse descends the hierarchy from node b, visiting the child with the smaller lower bound first
// and skipping any child whose bound cannot improve the result.
func DistanceRecurse(node DistanceNode, b int) error {
	if node.IsLeaf(b) {
		return node.LeafTest(b)
	}

	first, second := node.LeftChild(b), node.RightChild(b)
	d1, d2 := node.DistanceLowerBound(first), node.DistanceLowerBound(second)
	if d2 < d1 {
		first, second = second, first
		d1, d2 = d2, d1
	}

	if !node.CanStop(d1) {
		if err := DistanceRecurse(node, first); err != nil {
			return err
		}
	}
	if !node.CanStop(d2) {
		if err := DistanceRecurse(node, second); err != nil {
			return err
		}
	}
	return nil
}
