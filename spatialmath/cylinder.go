package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// Cylinder is a solid cylinder aligned with its local z axis and centered on the origin.
type Cylinder struct {
	radius     float64
	halfLength float64
	label      string
}

// NewCylinder instantiates a new cylinder from its radius and its full length along z.
func NewCylinder(radius, length float64, label string) (*Cylinder, error) {
	if radius <= 0 || length <= 0 {
		return nil, NewBadGeometryDimensionsError(&Cylinder{})
	}
	return &Cylinder{radius: radius, halfLength: length / 2, label: label}, nil
}

// String returns a human readable string that represents the cylinder.
func (c *Cylinder) String() string {
	return fmt.Sprintf("Type: Cylinder | Radius: %.3f | Length: %.3f", c.radius, 2*c.halfLength)
}

// Label returns the label of this cylinder.
func (c *Cylinder) Label() string {
	return c.label
}

// Radius returns the radius of the cylinder.
func (c *Cylinder) Radius() float64 {
	return c.radius
}

// Length returns the length of the cylinder along its axis.
func (c *Cylinder) Length() float64 {
	return 2 * c.halfLength
}

// Support returns the point on the rim of the cap facing dir. Directions along the axis return the cap center.
func (c *Cylinder) Support(dir r3.Vector, _ *int) r3.Vector {
	pt := rimPoint(dir, c.radius)
	pt.Z = c.halfLength
	if dir.Z < 0 {
		pt.Z = -c.halfLength
	}
	return pt
}

func (c *Cylinder) CoreSupport(dir r3.Vector, hint *int) r3.Vector {
	return c.Support(dir, hint)
}

func (c *Cylinder) Inflation() float64 {
	return 0
}

// Cone is a solid cone aligned with its local z axis. Its base disk is at z = -length/2 and its apex at
// z = length/2.
type Cone struct {
	radius     float64
	halfLength float64
	label      string
}

// NewCone instantiates a new cone from its base radius and its full length along z.
func NewCone(radius, length float64, label string) (*Cone, error) {
	if radius <= 0 || length <= 0 {
		return nil, NewBadGeometryDimensionsError(&Cone{})
	}
	return &Cone{radius: radius, halfLength: length / 2, label: label}, nil
}

// String returns a human readable string that represents the cone.
func (c *Cone) String() string {
	return fmt.Sprintf("Type: Cone | Radius: %.3f | Length: %.3f", c.radius, 2*c.halfLength)
}

// Label returns the label of this cone.
func (c *Cone) Label() string {
	return c.label
}

// Radius returns the radius of the base of the cone.
func (c *Cone) Radius() float64 {
	return c.radius
}

// Length returns the distance from the base to the apex.
func (c *Cone) Length() float64 {
	return 2 * c.halfLength
}

// Support returns either the apex or a point on the base rim, whichever is farther along dir.
// Ties keep the apex.
func (c *Cone) Support(dir r3.Vector, _ *int) r3.Vector {
	apex := r3.Vector{Z: c.halfLength}
	rim := rimPoint(dir, c.radius)
	rim.Z = -c.halfLength
	if rim.Dot(dir) > apex.Dot(dir) {
		return rim
	}
	return apex
}

func (c *Cone) CoreSupport(dir r3.Vector, hint *int) r3.Vector {
	return c.Support(dir, hint)
}

func (c *Cone) Inflation() float64 {
	return 0
}

// rimPoint returns the point of the circle of the given radius in the xy plane farthest along dir.
// The center is returned when dir is parallel to z.
func rimPoint(dir r3.Vector, radius float64) r3.Vector {
	xy := math.Hypot(dir.X, dir.Y)
	if xy < 1e-12 {
		return r3.Vector{}
	}
	return r3.Vector{X: radius * dir.X / xy, Y: radius * dir.Y / xy}
}

// Ellipsoid is a solid ellipsoid centered on the origin with its semi axes along the local axes.
type Ellipsoid struct {
	radii r3.Vector
	label string
}

// NewEllipsoid instantiates a new ellipsoid from its three semi axis lengths.
func NewEllipsoid(radii r3.Vector, label string) (*Ellipsoid, error) {
	if radii.X <= 0 || radii.Y <= 0 || radii.Z <= 0 {
		return nil, NewBadGeometryDimensionsError(&Ellipsoid{})
	}
	return &Ellipsoid{radii: radii, label: label}, nil
}

// String returns a human readable string that represents the ellipsoid.
func (e *Ellipsoid) String() string {
	return fmt.Sprintf("Type: Ellipsoid | Radii: X:%.3f, Y:%.3f, Z:%.3f", e.radii.X, e.radii.Y, e.radii.Z)
}

// Label returns the label of this ellipsoid.
func (e *Ellipsoid) Label() string {
	return e.label
}

// Radii returns the semi axis lengths.
func (e *Ellipsoid) Radii() r3.Vector {
	return e.radii
}

// Support maps dir through the squared radii: the extreme point along d is D²d / |Dd| with D = diag(radii).
func (e *Ellipsoid) Support(dir r3.Vector, _ *int) r3.Vector {
	scaled := r3.Vector{X: e.radii.X * e.radii.X * dir.X, Y: e.radii.Y * e.radii.Y * dir.Y, Z: e.radii.Z * e.radii.Z * dir.Z}
	norm := r3.Vector{X: e.radii.X * dir.X, Y: e.radii.Y * dir.Y, Z: e.radii.Z * dir.Z}.Norm()
	if norm < 1e-12 {
		return r3.Vector{Z: e.radii.Z}
	}
	return scaled.Mul(1 / norm)
}

func (e *Ellipsoid) CoreSupport(dir r3.Vector, hint *int) r3.Vector {
	return e.Support(dir, hint)
}

func (e *Ellipsoid) Inflation() float64 {
	return 0
}
