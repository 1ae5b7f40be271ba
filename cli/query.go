package cli

import (
	"fmt"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/terrain/bvh"
	"go.viam.com/terrain/collision"
	"go.viam.com/terrain/config"
	"go.viam.com/terrain/heightfield"
	"go.viam.com/terrain/logging"
	"go.viam.com/terrain/narrowphase"
)

const (
	queryCollide   = "collide"
	queryIntersect = "intersect"
	queryDistance  = "distance"
	queryInfo      = "info"
)

// CollideAction prints the contacts between the scene's height field and shape.
func CollideAction(c *cli.Context) error {
	return runScene(c, queryCollide)
}

// IntersectAction prints whether the scene's height field and shape overlap.
func IntersectAction(c *cli.Context) error {
	return runScene(c, queryIntersect)
}

// DistanceAction prints the distance between the scene's height field and shape.
func DistanceAction(c *cli.Context) error {
	return runScene(c, queryDistance)
}

// InfoAction prints the size and bounds of the scene's height field.
func InfoAction(c *cli.Context) error {
	return runScene(c, queryInfo)
}

// SchemaAction prints the JSON schema scene files follow.
func SchemaAction(c *cli.Context) error {
	return printJSON(c, config.Schema())
}

func runScene(c *cli.Context, query string) error {
	path := c.String(flagScene)
	if path == "" {
		return errors.Errorf("--%s is required", flagScene)
	}
	scene, err := config.ReadScene(path)
	if err != nil {
		return err
	}
	logger, err := newLogger(c)
	if err != nil {
		return err
	}
	//nolint:errcheck
	defer logger.Sync()

	solver, err := scene.NewSolver()
	if err != nil {
		return err
	}
	switch scene.HeightField.VolumeKind() {
	case config.VolumeOBB:
		return runWithKind(c, scene, bvh.Kind[bvh.OBB](bvh.OBBKind{}), solver, logger, query)
	default:
		return runWithKind(c, scene, bvh.Kind[bvh.AABB](bvh.AABBKind{}), solver, logger, query)
	}
}

// heightFieldInfo summarizes a height field for the info command.
type heightFieldInfo struct {
	Label     string  `json:"label"`
	Volume    string  `json:"volume"`
	Cells     int     `json:"cells"`
	Nodes     int     `json:"nodes"`
	MinHeight float64 `json:"min_height"`
	MaxHeight float64 `json:"max_height"`

	// MeanHeight and HeightStdDev are over every sample.
	MeanHeight   float64 `json:"mean_height"`
	HeightStdDev float64 `json:"height_std_dev"`

	Root string `json:"root"`
}

func runWithKind[T bvh.Volume[T]](
	c *cli.Context,
	scene *config.Scene,
	kind bvh.Kind[T],
	solver *narrowphase.Solver,
	logger logging.Logger,
	query string,
) error {
	hf, err := config.BuildHeightField(&scene.HeightField, kind)
	if err != nil {
		return errors.Wrap(err, "building height field")
	}
	if query == queryInfo {
		info, err := describe(hf, scene.HeightField.VolumeKind())
		if err != nil {
			return err
		}
		return printResult(c, info, func() string { return renderInfo(info) })
	}

	shape, err := scene.Shape.Build()
	if err != nil {
		return errors.Wrap(err, "building shape")
	}
	tf1, tf2 := scene.HeightField.Pose.Pose(), scene.Shape.Pose.Pose()
	engine := collision.NewEngine[T](solver, logger)

	switch query {
	case queryCollide:
		res, err := engine.Collide(c.Context, hf, tf1, shape, tf2, scene.Collision())
		if err != nil {
			return err
		}
		return printResult(c, res, func() string { return renderCollision(res) })
	case queryIntersect:
		res, err := engine.Intersect(c.Context, hf, tf1, shape, tf2, scene.Collision())
		if err != nil {
			return err
		}
		if res.DistanceLowerBound == narrowphase.UnboundedLowerBound {
			warningf(c.App.ErrWriter, "penetration depth could not be measured")
		}
		return printResult(c, res, func() string { return renderCollision(res) })
	case queryDistance:
		res, err := engine.Distance(c.Context, hf, tf1, shape, tf2, scene.Distance())
		if err != nil {
			return err
		}
		return printResult(c, res, func() string { return renderDistance(res) })
	default:
		return errors.Errorf("unknown query %q", query)
	}
}

func describe[T bvh.Volume[T]](hf *heightfield.HeightField[T], volume string) (heightFieldInfo, error) {
	samples := mat.DenseCopyOf(hf.Heights()).RawMatrix().Data
	mean, err := stats.Mean(samples)
	if err != nil {
		return heightFieldInfo{}, errors.Wrap(err, "height mean")
	}
	stdDev, err := stats.StandardDeviation(samples)
	if err != nil {
		return heightFieldInfo{}, errors.Wrap(err, "height standard deviation")
	}
	return heightFieldInfo{
		Label:        hf.Label(),
		Volume:       volume,
		Cells:        hf.NumCells(),
		Nodes:        hf.NumNodes(),
		MinHeight:    hf.MinHeight(),
		MaxHeight:    hf.MaxHeight(),
		MeanHeight:   mean,
		HeightStdDev: stdDev,
		Root:         fmt.Sprint(hf.Node(0).BV),
	}, nil
}
