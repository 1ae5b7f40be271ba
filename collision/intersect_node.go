package collision

import (
	"context"

	"go.viam.com/terrain/bvh"
	"go.viam.com/terrain/heightfield"
	"go.viam.com/terrain/narrowphase"
	"go.viam.com/terrain/spatialmath"
	"go.viam.com/terrain/utils"
)

// IntersectTraversalNode answers whether a height field and a shape overlap, without correcting contacts for
// bin walls. It prunes like CollisionTraversalNode.
type IntersectTraversalNode[T bvh.Volume[T]] struct {
	shapeQuery[T]

	request CollisionRequest
	result  *CollisionResult
	shapeBV T
}

// NewIntersectTraversalNode prepares an intersection query of hf at tf1 against shape at tf2.
func NewIntersectTraversalNode[T bvh.Volume[T]](
	ctx context.Context,
	solver *narrowphase.Solver,
	hf *heightfield.HeightField[T],
	tf1 spatialmath.Pose,
	shape spatialmath.Shape,
	tf2 spatialmath.Pose,
	request CollisionRequest,
	result *CollisionResult,
) *IntersectTraversalNode[T] {
	return &IntersectTraversalNode[T]{
		shapeQuery: newShapeQuery(ctx, solver, hf, tf1, shape, tf2),
		request:    request,
		result:     result,
		shapeBV:    hf.Kind().FromShape(shape, tf2),
	}
}

// Prune is CollisionTraversalNode.Prune.
func (n *IntersectTraversalNode[T]) Prune(b int) (bool, float64) {
	n.result.Stats.bvTest()
	return prune(&n.shapeQuery, b, n.shapeBV, n.request, n.result)
}

func (n *IntersectTraversalNode[T]) prismIntersect(prism *spatialmath.ConvexPrism) intersectOutcome {
	res := n.solver.ShapeIntersect(prism, spatialmath.NewZeroPose(), n.shape, n.rel, true)
	return intersectOutcome{
		collision:    res.Collision,
		lowerBound:   res.LowerBound,
		contactPoint: res.ContactPoint,
		normal:       res.Normal,
	}
}

// LeafTest intersects both prisms of cell b with the shape and records a contact at the solver's contact
// point when either overlaps.
func (n *IntersectTraversalNode[T]) LeafTest(b int) (float64, error) {
	if err := n.ctx.Err(); err != nil {
		return 0, err
	}
	n.result.Stats.leafTest()

	p1, p2, err := BuildConvexTriangles(n.hf, b)
	if err != nil {
		return 0, err
	}
	out, collision := mergeIntersect(n.prismIntersect(p1), n.prismIntersect(p2))
	n.result.UpdateDistanceLowerBound(out.lowerBound)
	if !collision {
		return utils.Square(out.lowerBound), nil
	}

	if n.result.NumContacts() < n.request.NumMaxContacts {
		p := spatialmath.TransformPoint(n.tf1, out.contactPoint)
		n.result.AddContact(NewContact(
			n.hf.Label(), n.shape.Label(), b, NoPrimitive,
			p, p, spatialmath.RotateVector(n.tf1, out.normal), out.lowerBound,
		))
	}
	return 0, nil
}

// CanStop reports whether the requested number of contacts has been found.
func (n *IntersectTraversalNode[T]) CanStop() bool {
	return n.result.IsCollision() && n.result.NumContacts() >= n.request.NumMaxContacts
}

// unboundedPenetration reports whether some overlap in result could not be measured.
func unboundedPenetration(result *CollisionResult) bool {
	return result.DistanceLowerBound == narrowphase.UnboundedLowerBound
}
