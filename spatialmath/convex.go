package spatialmath

import (
	"github.com/golang/geo/r3"
)

// PrismTopFace is the index of the sloped top triangle in a ConvexPrism's faces.
const PrismTopFace = 1

// PointBuffer is an immutable list of vertices. Copies of a convex shape share one buffer.
type PointBuffer struct {
	points []r3.Vector
}

// NewPointBuffer copies the given points into a new buffer.
func NewPointBuffer(points ...r3.Vector) *PointBuffer {
	pts := make([]r3.Vector, len(points))
	copy(pts, points)
	return &PointBuffer{points: pts}
}

// Len returns the number of points.
func (pb *PointBuffer) Len() int {
	return len(pb.points)
}

// At returns the i'th point.
func (pb *PointBuffer) At(i int) r3.Vector {
	return pb.points[i]
}

// Points returns a copy of the points.
func (pb *PointBuffer) Points() []r3.Vector {
	pts := make([]r3.Vector, len(pb.points))
	copy(pts, pb.points)
	return pts
}

// convexBase implements the support function shared by every convex polytope.
type convexBase struct {
	points *PointBuffer
	center r3.Vector
	label  string
}

func newConvexBase(points *PointBuffer, label string) convexBase {
	var center r3.Vector
	for _, pt := range points.points {
		center = center.Add(pt)
	}
	if n := points.Len(); n > 0 {
		center = center.Mul(1 / float64(n))
	}
	return convexBase{points: points, center: center, label: label}
}

// Label returns the label of the convex shape.
func (c *convexBase) Label() string {
	return c.label
}

// Points returns the shared vertex buffer.
func (c *convexBase) Points() *PointBuffer {
	return c.points
}

// Center returns the average of the vertices.
func (c *convexBase) Center() r3.Vector {
	return c.center
}

// Support scans every vertex, starting from the hint if one is given. Ties keep the first vertex found so that
// results only depend on the inputs and the hint.
func (c *convexBase) Support(dir r3.Vector, hint *int) r3.Vector {
	pts := c.points.points
	start := 0
	if hint != nil && *hint >= 0 && *hint < len(pts) {
		start = *hint
	}
	best := start
	bestDot := pts[start].Dot(dir)
	for k := 1; k < len(pts); k++ {
		i := (start + k) % len(pts)
		if d := pts[i].Dot(dir); d > bestDot {
			best, bestDot = i, d
		}
	}
	if hint != nil {
		*hint = best
	}
	return pts[best]
}

func (c *convexBase) CoreSupport(dir r3.Vector, hint *int) r3.Vector {
	return c.Support(dir, hint)
}

func (c *convexBase) Inflation() float64 {
	return 0
}

// ConvexPrism is a convex polytope with six vertices and eight triangular faces: a bottom cap (face 0),
// a top cap (face 1) and six triangles forming the three side walls.
type ConvexPrism struct {
	convexBase
	faces [8][3]int
}

// NewConvexPrism builds a prism over a shared point buffer. Faces must be wound counter clockwise seen from outside.
func NewConvexPrism(points *PointBuffer, faces [8][3]int, label string) (*ConvexPrism, error) {
	if points.Len() != 6 {
		return nil, newBadConvexError("prism", points.Len(), 6)
	}
	for f, face := range faces {
		for _, idx := range face {
			if idx < 0 || idx >= points.Len() {
				return nil, newBadFaceIndexError(f, idx, points.Len())
			}
		}
	}
	return &ConvexPrism{convexBase: newConvexBase(points, label), faces: faces}, nil
}

// Faces returns the triangle topology. The returned array is a copy.
func (p *ConvexPrism) Faces() [8][3]int {
	return p.faces
}

// Triangle returns face i as a triangle.
func (p *ConvexPrism) Triangle(i int) *Triangle {
	f := p.faces[i]
	return NewTriangle(p.points.At(f[0]), p.points.At(f[1]), p.points.At(f[2]))
}


// ConvexQuad is a convex polytope with eight vertices and six quadrilateral faces.
type ConvexQuad struct {
	convexBase
	faces [6][4]int
}

// NewConvexQuad builds a hexahedron over a shared point buffer.
func NewConvexQuad(points *PointBuffer, faces [6][4]int, label string) (*ConvexQuad, error) {
	if points.Len() != 8 {
		return nil, newBadConvexError("quadrilateral convex", points.Len(), 8)
	}
	for f, face := range faces {
		for _, idx := range face {
			if idx < 0 || idx >= points.Len() {
				return nil, newBadFaceIndexError(f, idx, points.Len())
			}
		}
	}
	return &ConvexQuad{convexBase: newConvexBase(points, label), faces: faces}, nil
}

// Faces returns the quadrilateral topology. The returned array is a copy.
func (q *ConvexQuad) Faces() [6][4]int {
	return q.faces
}
