package spatialmath

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// Capsule is a collision geometry that represents a capsule aligned with its local z axis and centered on the origin.
//
// ....___________________
// .../                   \
// .x|  |-------O-------|  |x
// ...\___________________/
//
// Length is the distance between the x's, or internal segment length + 2*radius.
type Capsule struct {
	radius float64
	length float64 // total length of the capsule, tip to tip
	label  string

	halfSegment float64 // half length of the internal segment
}

// NewCapsule instantiates a new capsule.
func NewCapsule(radius, length float64, label string) (*Capsule, error) {
	if radius <= 0 || length <= 0 {
		return nil, NewBadGeometryDimensionsError(&Capsule{})
	}
	if length < radius*2 {
		return nil, newBadCapsuleLengthError(length, radius)
	}
	return &Capsule{radius: radius, length: length, label: label, halfSegment: length/2 - radius}, nil
}

// String returns a human readable string that represents the capsule.
func (c *Capsule) String() string {
	return fmt.Sprintf("Type: Capsule | Radius: %.3f | Length: %.3f", c.radius, c.length)
}

// Label returns the label of this capsule.
func (c *Capsule) Label() string {
	return c.label
}

// Radius returns the radius of the capsule.
func (c *Capsule) Radius() float64 {
	return c.radius
}

// Length returns the tip to tip length of the capsule.
func (c *Capsule) Length() float64 {
	return c.length
}

func (c *Capsule) Support(dir r3.Vector, hint *int) r3.Vector {
	return c.CoreSupport(dir, hint).Add(safeNormalize(dir, r3.Vector{Z: 1}).Mul(c.radius))
}

func (c *Capsule) CoreSupport(dir r3.Vector, _ *int) r3.Vector {
	if dir.Z < 0 {
		return r3.Vector{Z: -c.halfSegment}
	}
	return r3.Vector{Z: c.halfSegment}
}

func (c *Capsule) Inflation() float64 {
	return c.radius
}
