package collision

import (
	"context"

	"go.viam.com/terrain/bvh"
	"go.viam.com/terrain/heightfield"
	"go.viam.com/terrain/narrowphase"
	"go.viam.com/terrain/spatialmath"
)

// DistanceTraversalNode finds the minimum distance between a height field and a convex shape. Cells are
// tested as single convex hulls, so bin walls are not corrected here.
type DistanceTraversalNode[T bvh.Volume[T]] struct {
	shapeQuery[T]

	request DistanceRequest
	result  *DistanceResult
	// shapeBV is in the height field frame.
	shapeBV T
}

// NewDistanceTraversalNode prepares a distance query of hf at tf1 against shape at tf2.
func NewDistanceTraversalNode[T bvh.Volume[T]](
	ctx context.Context,
	solver *narrowphase.Solver,
	hf *heightfield.HeightField[T],
	tf1 spatialmath.Pose,
	shape spatialmath.Shape,
	tf2 spatialmath.Pose,
	request DistanceRequest,
	result *DistanceResult,
) *DistanceTraversalNode[T] {
	q := newShapeQuery(ctx, solver, hf, tf1, shape, tf2)
	return &DistanceTraversalNode[T]{
		shapeQuery: q,
		request:    request,
		result:     result,
		shapeBV:    hf.Kind().FromShape(shape, q.rel),
	}
}

// DistanceLowerBound returns the distance between the volume of node b and the shape's volume.
func (n *DistanceTraversalNode[T]) DistanceLowerBound(b int) float64 {
	n.result.Stats.bvTest()
	return n.hf.Node(b).BV.Distance(n.shapeBV)
}

// LeafTest measures the distance from cell b to the shape and keeps it if it beats the current minimum.
func (n *DistanceTraversalNode[T]) LeafTest(b int) error {
	if err := n.ctx.Err(); err != nil {
		return err
	}
	n.result.Stats.leafTest()

	quad, err := BuildConvexQuadrilateral(n.hf, b)
	if err != nil {
		return err
	}
	res := n.solver.ShapeDistance(quad, n.tf1, n.shape, n.tf2)
	n.result.Update(res.Distance, n.hf.Label(), n.shape.Label(), b, NoPrimitive, res.PointA, res.PointB, res.Normal)
	return nil
}

// CanStop reports whether a subtree at distance c or more is within both tolerances of the current minimum.
func (n *DistanceTraversalNode[T]) CanStop(c float64) bool {
	minDist := n.result.MinDistance
	return c >= minDist-n.request.AbsErr && c*(1+n.request.RelErr) >= minDist
}
