// Package config reads scene files describing a height field, a shape and the queries to run between them.
package config

import (
	"bytes"
	"io"
	"strings"

	"github.com/a8m/envsubst"
	"github.com/go-viper/mapstructure/v2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"go.viam.com/terrain/collision"
	"go.viam.com/terrain/narrowphase"
	"go.viam.com/terrain/spatialmath"
)

// Volume kinds a height field hierarchy can be fitted with.
const (
	VolumeAABB = "aabb"
	VolumeOBB  = "obb"
)

// Shape types a scene can hold.
const (
	ShapeSphere    = "sphere"
	ShapeBox       = "box"
	ShapeCapsule   = "capsule"
	ShapeCylinder  = "cylinder"
	ShapeCone      = "cone"
	ShapeEllipsoid = "ellipsoid"
)

// Translation is a position in the parent frame.
type Translation struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// PoseConfig places an object in the world. A missing orientation is no rotation.
type PoseConfig struct {
	Translation Translation `json:"translation" yaml:"translation"`
	// Orientation is an axis and an angle in radians.
	Orientation *spatialmath.R4AA `json:"orientation,omitempty" yaml:"orientation,omitempty"`
}

// Pose returns the pose described by cfg. A nil cfg is the identity.
func (cfg *PoseConfig) Pose() spatialmath.Pose {
	if cfg == nil {
		return spatialmath.NewZeroPose()
	}
	pt := r3.Vector{X: cfg.Translation.X, Y: cfg.Translation.Y, Z: cfg.Translation.Z}
	if cfg.Orientation == nil {
		return spatialmath.NewPoseFromPoint(pt)
	}
	return spatialmath.NewPose(pt, cfg.Orientation)
}

// HeightFieldConfig describes a height field. Either both grids or both dimensions must be given.
type HeightFieldConfig struct {
	Label  string `json:"label" yaml:"label"`
	Volume string `json:"volume" yaml:"volume"`

	XGrid []float64 `json:"x_grid,omitempty" yaml:"x_grid,omitempty"`
	YGrid []float64 `json:"y_grid,omitempty" yaml:"y_grid,omitempty"`
	XDim  float64   `json:"x_dim,omitempty" yaml:"x_dim,omitempty"`
	YDim  float64   `json:"y_dim,omitempty" yaml:"y_dim,omitempty"`

	// Heights holds one row per y grid value.
	Heights   [][]float64 `json:"heights" yaml:"heights"`
	MinHeight float64     `json:"min_height" yaml:"min_height"`

	Pose *PoseConfig `json:"pose,omitempty" yaml:"pose,omitempty"`
}

// HeightMatrix packs Heights into a dense matrix.
func (cfg *HeightFieldConfig) HeightMatrix() (*mat.Dense, error) {
	if len(cfg.Heights) == 0 || len(cfg.Heights[0]) == 0 {
		return nil, errors.New("heights must not be empty")
	}
	rows, cols := len(cfg.Heights), len(cfg.Heights[0])
	data := make([]float64, 0, rows*cols)
	for i, row := range cfg.Heights {
		if len(row) != cols {
			return nil, errors.Errorf("heights row %d has %d values, expected %d", i, len(row), cols)
		}
		data = append(data, row...)
	}
	return mat.NewDense(rows, cols, data), nil
}

// UsesDimensions reports whether the grids are derived from XDim and YDim.
func (cfg *HeightFieldConfig) UsesDimensions() bool {
	return len(cfg.XGrid) == 0 && len(cfg.YGrid) == 0
}

// Validate checks the parts of the height field that do not need the grids built.
func (cfg *HeightFieldConfig) Validate() error {
	var err error
	switch strings.ToLower(cfg.Volume) {
	case "", VolumeAABB, VolumeOBB:
	default:
		err = multierr.Append(err, errors.Errorf("unknown volume kind %q", cfg.Volume))
	}
	if _, hErr := cfg.HeightMatrix(); hErr != nil {
		err = multierr.Append(err, hErr)
	}
	if cfg.UsesDimensions() {
		if cfg.XDim <= 0 || cfg.YDim <= 0 {
			err = multierr.Append(err, errors.New("height field needs either x_grid and y_grid or positive x_dim and y_dim"))
		}
	} else if len(cfg.XGrid) == 0 || len(cfg.YGrid) == 0 {
		err = multierr.Append(err, errors.New("x_grid and y_grid must be given together"))
	}
	return err
}

// VolumeKind returns the normalized volume kind, AABB by default.
func (cfg *HeightFieldConfig) VolumeKind() string {
	if cfg.Volume == "" {
		return VolumeAABB
	}
	return strings.ToLower(cfg.Volume)
}

// ShapeConfig describes the convex shape queried against the height field. Attributes depend on Type.
type ShapeConfig struct {
	Type       string                 `json:"type" yaml:"type"`
	Label      string                 `json:"label" yaml:"label"`
	Attributes map[string]interface{} `json:"attributes" yaml:"attributes"`
	Pose       *PoseConfig            `json:"pose,omitempty" yaml:"pose,omitempty"`
}

type sphereAttributes struct {
	Radius float64 `mapstructure:"radius"`
}

type boxAttributes struct {
	X float64 `mapstructure:"x"`
	Y float64 `mapstructure:"y"`
	Z float64 `mapstructure:"z"`
}

// axialAttributes size the shapes built around the local z axis.
type axialAttributes struct {
	Radius float64 `mapstructure:"radius"`
	Length float64 `mapstructure:"length"`
}

// ellipsoidAttributes are the semi axis lengths.
type ellipsoidAttributes struct {
	X float64 `mapstructure:"x"`
	Y float64 `mapstructure:"y"`
	Z float64 `mapstructure:"z"`
}

func decodeAttributes(attrs map[string]interface{}, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		ErrorUnused: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(attrs)
}

// Build constructs the shape in its local frame.
func (cfg *ShapeConfig) Build() (spatialmath.Shape, error) {
	switch strings.ToLower(cfg.Type) {
	case ShapeSphere:
		var attrs sphereAttributes
		if err := decodeAttributes(cfg.Attributes, &attrs); err != nil {
			return nil, errors.Wrap(err, "sphere attributes")
		}
		return spatialmath.NewSphere(attrs.Radius, cfg.Label)
	case ShapeBox:
		var attrs boxAttributes
		if err := decodeAttributes(cfg.Attributes, &attrs); err != nil {
			return nil, errors.Wrap(err, "box attributes")
		}
		return spatialmath.NewBox(r3.Vector{X: attrs.X, Y: attrs.Y, Z: attrs.Z}, cfg.Label)
	case ShapeCapsule, ShapeCylinder, ShapeCone:
		var attrs axialAttributes
		if err := decodeAttributes(cfg.Attributes, &attrs); err != nil {
			return nil, errors.Wrapf(err, "%s attributes", strings.ToLower(cfg.Type))
		}
		switch strings.ToLower(cfg.Type) {
		case ShapeCylinder:
			return spatialmath.NewCylinder(attrs.Radius, attrs.Length, cfg.Label)
		case ShapeCone:
			return spatialmath.NewCone(attrs.Radius, attrs.Length, cfg.Label)
		default:
			return spatialmath.NewCapsule(attrs.Radius, attrs.Length, cfg.Label)
		}
	case ShapeEllipsoid:
		var attrs ellipsoidAttributes
		if err := decodeAttributes(cfg.Attributes, &attrs); err != nil {
			return nil, errors.Wrap(err, "ellipsoid attributes")
		}
		return spatialmath.NewEllipsoid(r3.Vector{X: attrs.X, Y: attrs.Y, Z: attrs.Z}, cfg.Label)
	default:
		return nil, errors.Errorf("unknown shape type %q", cfg.Type)
	}
}

// Scene is the top level of a scene file. Missing requests and solver options take their defaults.
type Scene struct {
	HeightField HeightFieldConfig `json:"heightfield" yaml:"heightfield"`
	Shape       ShapeConfig       `json:"shape" yaml:"shape"`

	CollisionRequest *collision.CollisionRequest `json:"collision_request,omitempty" yaml:"collision_request,omitempty"`
	DistanceRequest  *collision.DistanceRequest  `json:"distance_request,omitempty" yaml:"distance_request,omitempty"`
	Solver           *narrowphase.Options        `json:"solver,omitempty" yaml:"solver,omitempty"`
}

// ReadScene reads a scene file, expanding environment variables first. JSON files are read as YAML.
func ReadScene(path string) (*Scene, error) {
	buf, err := envsubst.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading scene %q", path)
	}
	scene, err := FromReader(bytes.NewReader(buf))
	if err != nil {
		return nil, errors.Wrapf(err, "scene %q", path)
	}
	return scene, nil
}

// FromReader decodes and validates a scene.
func FromReader(r io.Reader) (*Scene, error) {
	var scene Scene
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&scene); err != nil {
		return nil, errors.Wrap(err, "decoding scene")
	}
	if err := scene.Validate(); err != nil {
		return nil, err
	}
	return &scene, nil
}

// Validate reports every problem found in the scene.
func (s *Scene) Validate() error {
	var err error
	err = appendWrapped(err, "heightfield", s.HeightField.Validate())
	if _, sErr := s.Shape.Build(); sErr != nil {
		err = appendWrapped(err, "shape", sErr)
	}
	if s.CollisionRequest != nil {
		err = appendWrapped(err, "collision_request", s.CollisionRequest.Validate())
	}
	if s.DistanceRequest != nil {
		err = appendWrapped(err, "distance_request", s.DistanceRequest.Validate())
	}
	if s.Solver != nil {
		err = appendWrapped(err, "solver", s.Solver.Validate())
	}
	return err
}

// appendWrapped appends each error in errs to err, prefixed with section.
func appendWrapped(err error, section string, errs error) error {
	for _, e := range multierr.Errors(errs) {
		err = multierr.Append(err, errors.Wrap(e, section))
	}
	return err
}

// Collision returns the scene's collision request or the default one.
func (s *Scene) Collision() collision.CollisionRequest {
	if s.CollisionRequest == nil {
		return collision.NewCollisionRequest()
	}
	return *s.CollisionRequest
}

// Distance returns the scene's distance request or the default one.
func (s *Scene) Distance() collision.DistanceRequest {
	if s.DistanceRequest == nil {
		return collision.NewDistanceRequest()
	}
	return *s.DistanceRequest
}

// NewSolver returns a solver with the scene's options or the defaults.
func (s *Scene) NewSolver() (*narrowphase.Solver, error) {
	if s.Solver == nil {
		return narrowphase.NewDefaultSolver(), nil
	}
	return narrowphase.NewSolver(*s.Solver)
}
