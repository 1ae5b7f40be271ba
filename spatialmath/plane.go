package spatialmath

import (
	"github.com/golang/geo/r3"
)

// Plane is the set of points x such that Normal.Dot(x) == Offset. The normal is kept unit length.
type Plane struct {
	Normal r3.Vector
	Offset float64
}

// NewPlane returns a plane with a normalized normal. A zero normal yields the plane x == 0.
func NewPlane(normal r3.Vector, offset float64) Plane {
	l := normal.Norm()
	if l > 0 {
		return Plane{Normal: normal.Mul(1 / l), Offset: offset / l}
	}
	return Plane{Normal: r3.Vector{X: 1}}
}

// NewPlaneFromPoint returns the plane with the given normal passing through pt.
func NewPlaneFromPoint(normal, pt r3.Vector) Plane {
	n := NewPlane(normal, 0).Normal
	return Plane{Normal: n, Offset: n.Dot(pt)}
}

// SignedDistance returns the distance from pt to the plane, positive on the side the normal points to.
func (p Plane) SignedDistance(pt r3.Vector) float64 {
	return p.Normal.Dot(pt) - p.Offset
}

// Project returns the orthogonal projection of pt onto the plane.
func (p Plane) Project(pt r3.Vector) r3.Vector {
	return pt.Sub(p.Normal.Mul(p.SignedDistance(pt)))
}
