package spatialmath

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// Box is a collision geometry that represents a 3D rectangular prism centered on the origin of its local frame.
type Box struct {
	halfSize [3]float64
	label    string
}

// NewBox instantiates a new box from its full dimensions.
func NewBox(dims r3.Vector, label string) (*Box, error) {
	// Zero dimensions are allowed for flat boxes.
	if dims.X < 0 || dims.Y < 0 || dims.Z < 0 {
		return nil, NewBadGeometryDimensionsError(&Box{})
	}
	halfSize := dims.Mul(0.5)
	return &Box{
		halfSize: [3]float64{halfSize.X, halfSize.Y, halfSize.Z},
		label:    label,
	}, nil
}

// String returns a human readable string that represents the box.
func (b *Box) String() string {
	return fmt.Sprintf("Type: Box | Dims: X:%.3f, Y:%.3f, Z:%.3f", 2*b.halfSize[0], 2*b.halfSize[1], 2*b.halfSize[2])
}

// Label returns the label of this box.
func (b *Box) Label() string {
	return b.label
}

// HalfSize returns the half extents of the box along its local axes.
func (b *Box) HalfSize() r3.Vector {
	return r3.Vector{X: b.halfSize[0], Y: b.halfSize[1], Z: b.halfSize[2]}
}

// Support returns the vertex of the box farthest along d.
func (b *Box) Support(d r3.Vector, _ *int) r3.Vector {
	result := r3.Vector{X: b.halfSize[0], Y: b.halfSize[1], Z: b.halfSize[2]}
	if d.X < 0 {
		result.X = -result.X
	}
	if d.Y < 0 {
		result.Y = -result.Y
	}
	if d.Z < 0 {
		result.Z = -result.Z
	}
	return result
}

func (b *Box) CoreSupport(d r3.Vector, hint *int) r3.Vector {
	return b.Support(d, hint)
}

func (b *Box) Inflation() float64 {
	return 0
}
