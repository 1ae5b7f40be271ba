package collision

import (
	"context"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"go.viam.com/terrain/bvh"
	"go.viam.com/terrain/heightfield"
	"go.viam.com/terrain/logging"
	"go.viam.com/terrain/narrowphase"
	"go.viam.com/terrain/spatialmath"
)

// Engine runs queries between height fields fitted with volumes of type T and convex shapes. It holds no per
// query state, so one engine may serve many goroutines.
type Engine[T bvh.Volume[T]] struct {
	solver *narrowphase.Solver
	logger logging.Logger
}

// NewEngine returns an engine using solver, or a default solver when solver is nil.
func NewEngine[T bvh.Volume[T]](solver *narrowphase.Solver, logger logging.Logger) *Engine[T] {
	if solver == nil {
		solver = narrowphase.NewDefaultSolver()
	}
	if logger == nil {
		logger = logging.NewBlankLogger("collision")
	}
	return &Engine[T]{solver: solver, logger: logger}
}

// Solver returns the narrow phase solver used for leaf tests.
func (e *Engine[T]) Solver() *narrowphase.Solver {
	return e.solver
}

func checkQuery[T bvh.Volume[T]](hf *heightfield.HeightField[T], shape spatialmath.Shape) error {
	if hf == nil {
		return errors.New("height field must not be nil")
	}
	if shape == nil {
		return errors.New("shape must not be nil")
	}
	return nil
}

func orIdentity(pose spatialmath.Pose) spatialmath.Pose {
	if pose == nil {
		return spatialmath.NewZeroPose()
	}
	return pose
}

// Collide finds up to req.NumMaxContacts contacts between hf at tf1 and shape at tf2. A nil pose is the
// identity.
func (e *Engine[T]) Collide(
	ctx context.Context,
	hf *heightfield.HeightField[T],
	tf1 spatialmath.Pose,
	shape spatialmath.Shape,
	tf2 spatialmath.Pose,
	req CollisionRequest,
) (*CollisionResult, error) {
	if err := checkQuery(hf, shape); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid collision request")
	}
	tf1, tf2 = orIdentity(tf1), orIdentity(tf2)

	result := NewCollisionResult()
	if req.EnableStatistics {
		result.Stats = &Stats{}
	}
	node := NewCollisionTraversalNode(ctx, e.solver, hf, tf1, shape, tf2, req, result)
	start := time.Now()
	if _, err := bvh.CollisionRecurse(node, 0); err != nil {
		return nil, errors.Wrapf(err, "colliding %q with %q", hf.Label(), shape.Label())
	}
	e.finish(result.Stats, start)

	e.logger.Debugw("collision query done",
		"heightfield", hf.Label(),
		"shape", shape.Label(),
		"pose_kind", node.poseKind.String(),
		"contacts", result.NumContacts(),
		"distance_lower_bound", result.DistanceLowerBound,
	)
	return result, nil
}

// Intersect reports whether hf at tf1 and shape at tf2 overlap, recording the solver's contact points.
func (e *Engine[T]) Intersect(
	ctx context.Context,
	hf *heightfield.HeightField[T],
	tf1 spatialmath.Pose,
	shape spatialmath.Shape,
	tf2 spatialmath.Pose,
	req CollisionRequest,
) (*CollisionResult, error) {
	if err := checkQuery(hf, shape); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid collision request")
	}
	tf1, tf2 = orIdentity(tf1), orIdentity(tf2)

	result := NewCollisionResult()
	if req.EnableStatistics {
		result.Stats = &Stats{}
	}
	node := NewIntersectTraversalNode(ctx, e.solver, hf, tf1, shape, tf2, req, result)
	start := time.Now()
	if _, err := bvh.CollisionRecurse(node, 0); err != nil {
		return nil, errors.Wrapf(err, "intersecting %q with %q", hf.Label(), shape.Label())
	}
	e.finish(result.Stats, start)

	if unboundedPenetration(result) {
		e.logger.Warnw("overlap found but penetration could not be measured",
			"heightfield", hf.Label(), "shape", shape.Label())
	}
	e.logger.Debugw("intersection query done",
		"heightfield", hf.Label(),
		"shape", shape.Label(),
		"pose_kind", node.poseKind.String(),
		"collision", result.IsCollision(),
	)
	return result, nil
}

// Distance returns the minimum distance between hf at tf1 and shape at tf2, negative when they overlap.
func (e *Engine[T]) Distance(
	ctx context.Context,
	hf *heightfield.HeightField[T],
	tf1 spatialmath.Pose,
	shape spatialmath.Shape,
	tf2 spatialmath.Pose,
	req DistanceRequest,
) (*DistanceResult, error) {
	if err := checkQuery(hf, shape); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid distance request")
	}
	tf1, tf2 = orIdentity(tf1), orIdentity(tf2)

	result := NewDistanceResult()
	if req.EnableStatistics {
		result.Stats = &Stats{}
	}
	node := NewDistanceTraversalNode(ctx, e.solver, hf, tf1, shape, tf2, req, result)
	start := time.Now()
	if err := bvh.DistanceRecurse(node, 0); err != nil {
		return nil, errors.Wrapf(err, "measuring %q to %q", hf.Label(), shape.Label())
	}
	e.finish(result.Stats, start)

	e.logger.Debugw("distance query done",
		"heightfield", hf.Label(),
		"shape", shape.Label(),
		"min_distance", result.MinDistance,
		"cell", result.B1,
	)
	return result, nil
}

func (e *Engine[T]) finish(stats *Stats, start time.Time) {
	if stats != nil {
		stats.QueryTime = time.Since(start)
	}
}

// CollisionQuery is one entry of a batch. Nil poses are the identity.
type CollisionQuery[T bvh.Volume[T]] struct {
	HeightField     *heightfield.HeightField[T]
	HeightFieldPose spatialmath.Pose
	Shape           spatialmath.Shape
	ShapePose       spatialmath.Pose
	Request         CollisionRequest
}

// CollideBatch runs every query concurrently, each with its own traversal node and result. Results are in
// query order. The first error cancels the remaining queries.
func (e *Engine[T]) CollideBatch(ctx context.Context, queries []CollisionQuery[T]) ([]*CollisionResult, error) {
	results := make([]*CollisionResult, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			res, err := e.Collide(gctx, q.HeightField, q.HeightFieldPose, q.Shape, q.ShapePose, q.Request)
			if err != nil {
				return errors.Wrapf(err, "query %d", i)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
