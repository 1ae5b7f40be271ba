package collision

import (
	"context"
	"math"

	"go.viam.com/terrain/bvh"
	"go.viam.com/terrain/heightfield"
	"go.viam.com/terrain/narrowphase"
	"go.viam.com/terrain/spatialmath"
	"go.viam.com/terrain/utils"
)

// PoseKind tells a traversal node whether the height field sits at the world origin, which lets volume tests
// skip moving the hierarchy.
type PoseKind int

const (
	// PoseIdentity means the height field pose is the identity.
	PoseIdentity PoseKind = iota
	// PoseGeneral means the height field pose is an arbitrary rigid transform.
	PoseGeneral
)

func (k PoseKind) String() string {
	if k == PoseIdentity {
		return "identity"
	}
	return "general"
}

// PoseKindOf classifies pose.
func PoseKindOf(pose spatialmath.Pose) PoseKind {
	if spatialmath.IsIdentityPose(pose) {
		return PoseIdentity
	}
	return PoseGeneral
}

// shapeQuery holds what every traversal node knows about its two objects.
type shapeQuery[T bvh.Volume[T]] struct {
	ctx    context.Context
	solver *narrowphase.Solver

	hf    *heightfield.HeightField[T]
	tf1   spatialmath.Pose
	shape spatialmath.Shape
	tf2   spatialmath.Pose

	// rel is the shape pose expressed in the height field frame.
	rel      spatialmath.Pose
	poseKind PoseKind
}

func newShapeQuery[T bvh.Volume[T]](
	ctx context.Context,
	solver *narrowphase.Solver,
	hf *heightfield.HeightField[T],
	tf1 spatialmath.Pose,
	shape spatialmath.Shape,
	tf2 spatialmath.Pose,
) shapeQuery[T] {
	return shapeQuery[T]{
		ctx:      ctx,
		solver:   solver,
		hf:       hf,
		tf1:      tf1,
		shape:    shape,
		tf2:      tf2,
		rel:      spatialmath.Compose(spatialmath.PoseInverse(tf1), tf2),
		poseKind: PoseKindOf(tf1),
	}
}

func (q *shapeQuery[T]) IsLeaf(b int) bool {
	return q.hf.Node(b).IsLeaf()
}

func (q *shapeQuery[T]) LeftChild(b int) int {
	return q.hf.Node(b).LeftChild()
}

func (q *shapeQuery[T]) RightChild(b int) int {
	return q.hf.Node(b).RightChild()
}

// overlapWorld tests node b against a shape volume given in world coordinates.
func (q *shapeQuery[T]) overlapWorld(b int, shapeBV T) (bool, float64) {
	bv := q.hf.Node(b).BV
	if q.poseKind == PoseIdentity {
		return bv.Overlap(shapeBV)
	}
	return bv.OverlapPose(q.tf1, shapeBV)
}

// CollisionTraversalNode finds contacts between a height field and a convex shape. Each node serves a single
// query and must not be shared between goroutines.
type CollisionTraversalNode[T bvh.Volume[T]] struct {
	shapeQuery[T]

	request CollisionRequest
	result  *CollisionResult
	shapeBV T
}

// NewCollisionTraversalNode prepares a collision query of hf at tf1 against shape at tf2. Contacts and bounds
// are written to result in world coordinates.
func NewCollisionTraversalNode[T bvh.Volume[T]](
	ctx context.Context,
	solver *narrowphase.Solver,
	hf *heightfield.HeightField[T],
	tf1 spatialmath.Pose,
	shape spatialmath.Shape,
	tf2 spatialmath.Pose,
	request CollisionRequest,
	result *CollisionResult,
) *CollisionTraversalNode[T] {
	return &CollisionTraversalNode[T]{
		shapeQuery: newShapeQuery(ctx, solver, hf, tf1, shape, tf2),
		request:    request,
		result:     result,
		shapeBV:    hf.Kind().FromShape(shape, tf2),
	}
}

// Prune reports whether node b is farther from the shape than the contact threshold. When it is, the squared
// separation also tightens the result's distance lower bound.
func (n *CollisionTraversalNode[T]) Prune(b int) (bool, float64) {
	n.result.Stats.bvTest()
	return prune(&n.shapeQuery, b, n.shapeBV, n.request, n.result)
}

func prune[T bvh.Volume[T]](q *shapeQuery[T], b int, shapeBV T, req CollisionRequest, result *CollisionResult) (bool, float64) {
	// Overlapping volumes report a zero gap, so the margin and threshold decide alone.
	_, sqrDist := q.overlapWorld(b, shapeBV)
	d := math.Sqrt(sqrDist) - req.SecurityMargin
	if d <= req.CollisionDistanceThreshold {
		return false, 0
	}
	sqrLowerBound := utils.Square(d)
	result.updateFromVolume(sqrLowerBound)
	return true, sqrLowerBound
}

// LeafTest splits cell b into two prisms, queries both against the shape and records a contact when the
// closer one is within the threshold. It returns the squared distance to collision, zero for a contact.
func (n *CollisionTraversalNode[T]) LeafTest(b int) (float64, error) {
	if err := n.ctx.Err(); err != nil {
		return 0, err
	}
	n.result.Stats.leafTest()

	p1, p2, err := BuildConvexTriangles(n.hf, b)
	if err != nil {
		return 0, err
	}
	o1 := prismDistance(n.solver, p1, n.shape, n.rel)
	o2 := prismDistance(n.solver, p2, n.shape, n.rel)
	out, collision := mergeDistance(o1, o2)
	out = out.transform(n.tf1)

	distToCollision := out.Distance - n.request.SecurityMargin*out.NormalTop.Dot(out.Normal)
	var sqrDist float64
	if distToCollision <= n.request.CollisionDistanceThreshold {
		if n.result.NumContacts() < n.request.NumMaxContacts &&
			spatialmath.VectorsApprox(out.NormalTop, out.Normal, approxPrecision) &&
			(collision || !out.WitnessOnBinSide) {
			n.result.AddContact(NewContact(
				n.hf.Label(), n.shape.Label(), b, NoPrimitive,
				out.Witness1, out.Witness2, out.Normal, out.Distance,
			))
		}
	} else {
		sqrDist = utils.Square(distToCollision)
	}
	n.result.updateFromLeaf(distToCollision, out.Witness1, out.Witness2, out.Normal)
	return sqrDist, nil
}

// CanStop reports whether the requested number of contacts has been found.
func (n *CollisionTraversalNode[T]) CanStop() bool {
	return n.result.IsCollision() && n.result.NumContacts() >= n.request.NumMaxContacts
}
