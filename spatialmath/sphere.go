package spatialmath

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// Sphere is a ball centered on the origin of its local frame.
type Sphere struct {
	radius float64
	label  string
}

// NewSphere instantiates a new sphere.
func NewSphere(radius float64, label string) (*Sphere, error) {
	if radius <= 0 {
		return nil, NewBadGeometryDimensionsError(&Sphere{})
	}
	return &Sphere{radius: radius, label: label}, nil
}

// String returns a human readable string that represents the sphere.
func (s *Sphere) String() string {
	return fmt.Sprintf("Type: Sphere | Radius: %.3f", s.radius)
}

// Label returns the label of this sphere.
func (s *Sphere) Label() string {
	return s.label
}

// Radius returns the radius of the sphere.
func (s *Sphere) Radius() float64 {
	return s.radius
}

func (s *Sphere) Support(dir r3.Vector, _ *int) r3.Vector {
	return safeNormalize(dir, r3.Vector{Z: 1}).Mul(s.radius)
}

func (s *Sphere) CoreSupport(r3.Vector, *int) r3.Vector {
	return r3.Vector{}
}

func (s *Sphere) Inflation() float64 {
	return s.radius
}
