package spatialmath

import (
	"github.com/golang/geo/r3"
)

// Triangle is three points and their plane normal, in the order given.
type Triangle struct {
	p0 r3.Vector
	p1 r3.Vector
	p2 r3.Vector

	normal r3.Vector
}

// NewTriangle creates a triangle. The normal follows the right hand rule over p0, p1, p2.
func NewTriangle(p0, p1, p2 r3.Vector) *Triangle {
	return &Triangle{
		p0:     p0,
		p1:     p1,
		p2:     p2,
		normal: PlaneNormal(p0, p1, p2),
	}
}

// Points returns the vertices of the triangle.
func (t *Triangle) Points() []r3.Vector {
	return []r3.Vector{t.p0, t.p1, t.p2}
}

// Normal returns the unit normal of the triangle.
func (t *Triangle) Normal() r3.Vector {
	return t.normal
}

// Centroid returns the centroid of the triangle.
func (t *Triangle) Centroid() r3.Vector {
	return t.p0.Add(t.p1).Add(t.p2).Mul(1. / 3.)
}

// Barycentric returns the barycentric weights (w0, w1, w2) of the point of the triangle closest to pt.
// The weights are non-negative and sum to one.
// Reference: Ericson, "Real-Time Collision Detection", 5.1.5.
func (t *Triangle) Barycentric(pt r3.Vector) (float64, float64, float64) {
	ab := t.p1.Sub(t.p0)
	ac := t.p2.Sub(t.p0)
	ap := pt.Sub(t.p0)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return 1, 0, 0
	}

	bp := pt.Sub(t.p1)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return 0, 1, 0
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return 1 - v, v, 0
	}

	cp := pt.Sub(t.p2)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return 0, 0, 1
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return 1 - w, 0, w
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return 0, 1 - w, w
	}

	denom := 1.0 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return 1 - v - w, v, w
}

// ClosestPointToPoint takes a point, and returns the closest point on the triangle to the given point.
func (t *Triangle) ClosestPointToPoint(pt r3.Vector) r3.Vector {
	w0, w1, w2 := t.Barycentric(pt)
	return t.p0.Mul(w0).Add(t.p1.Mul(w1)).Add(t.p2.Mul(w2))
}

// Plane returns the plane containing the triangle, with the triangle's normal.
func (t *Triangle) Plane() Plane {
	return NewPlaneFromPoint(t.normal, t.p0)
}
