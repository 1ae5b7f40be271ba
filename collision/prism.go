package collision

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/terrain/bvh"
	"go.viam.com/terrain/heightfield"
	"go.viam.com/terrain/spatialmath"
)

// Both prisms share the topology: face 0 is the bottom cap, face 1 the sloped top, the rest are bin walls.
var (
	prism1Faces = [8][3]int{
		{0, 1, 2},
		{3, 5, 4},
		{0, 3, 1},
		{3, 4, 1},
		{1, 5, 2},
		{1, 4, 5},
		{0, 2, 5},
		{5, 3, 0},
	}
	prism2Faces = [8][3]int{
		{2, 0, 1},
		{3, 5, 4},
		{0, 3, 1},
		{3, 4, 1},
		{0, 2, 5},
		{0, 5, 3},
		{1, 5, 2},
		{4, 2, 1},
	}
	quadFaces = [6][4]int{
		{0, 3, 2, 1},
		{0, 1, 5, 4},
		{1, 2, 6, 5},
		{2, 3, 7, 6},
		{3, 0, 4, 7},
		{4, 5, 6, 7},
	}
)

// BuildConvexTriangles splits leaf node i of hf along the diagonal from (x0, y1) to (x1, y0) into two convex
// prisms standing on the base plane. The first covers corner (x0, y0), the second corner (x1, y1).
func BuildConvexTriangles[T bvh.Volume[T]](hf *heightfield.HeightField[T], i int) (*spatialmath.ConvexPrism, *spatialmath.ConvexPrism, error) {
	cell, err := leafCell(hf, i)
	if err != nil {
		return nil, nil, err
	}
	return cellPrisms(cell, i)
}

// BuildConvexQuadrilateral returns the single convex hull of leaf node i of hf.
func BuildConvexQuadrilateral[T bvh.Volume[T]](hf *heightfield.HeightField[T], i int) (*spatialmath.ConvexQuad, error) {
	cell, err := leafCell(hf, i)
	if err != nil {
		return nil, err
	}
	return cellQuad(cell, i)
}

func leafCell[T bvh.Volume[T]](hf *heightfield.HeightField[T], i int) (heightfield.Cell, error) {
	cell, err := hf.Cell(i)
	if err != nil {
		return heightfield.Cell{}, err
	}
	if cell.MaxHeight <= cell.MinHeight {
		node := hf.Node(i)
		return heightfield.Cell{}, &DegenerateCellError{X: node.XID, Y: node.YID, MaxHeight: cell.MaxHeight, MinHeight: cell.MinHeight}
	}
	return cell, nil
}

func cellPrisms(c heightfield.Cell, i int) (*spatialmath.ConvexPrism, *spatialmath.ConvexPrism, error) {
	m := c.MinHeight
	pts1 := spatialmath.NewPointBuffer(
		r3.Vector{X: c.X0, Y: c.Y0, Z: m},
		r3.Vector{X: c.X0, Y: c.Y1, Z: m},
		r3.Vector{X: c.X1, Y: c.Y0, Z: m},
		r3.Vector{X: c.X0, Y: c.Y0, Z: c.H00},
		r3.Vector{X: c.X0, Y: c.Y1, Z: c.H10},
		r3.Vector{X: c.X1, Y: c.Y0, Z: c.H01},
	)
	pts2 := spatialmath.NewPointBuffer(
		r3.Vector{X: c.X0, Y: c.Y1, Z: m},
		r3.Vector{X: c.X1, Y: c.Y1, Z: m},
		r3.Vector{X: c.X1, Y: c.Y0, Z: m},
		r3.Vector{X: c.X0, Y: c.Y1, Z: c.H10},
		r3.Vector{X: c.X1, Y: c.Y1, Z: c.H11},
		r3.Vector{X: c.X1, Y: c.Y0, Z: c.H01},
	)
	p1, err := spatialmath.NewConvexPrism(pts1, prism1Faces, "")
	if err != nil {
		return nil, nil, errors.Wrapf(err, "cell %d", i)
	}
	p2, err := spatialmath.NewConvexPrism(pts2, prism2Faces, "")
	if err != nil {
		return nil, nil, errors.Wrapf(err, "cell %d", i)
	}
	return p1, p2, nil
}

func cellQuad(c heightfield.Cell, i int) (*spatialmath.ConvexQuad, error) {
	m := c.MinHeight
	pts := spatialmath.NewPointBuffer(
		r3.Vector{X: c.X0, Y: c.Y0, Z: m},
		r3.Vector{X: c.X0, Y: c.Y1, Z: m},
		r3.Vector{X: c.X1, Y: c.Y1, Z: m},
		r3.Vector{X: c.X1, Y: c.Y0, Z: m},
		r3.Vector{X: c.X0, Y: c.Y0, Z: c.H00},
		r3.Vector{X: c.X0, Y: c.Y1, Z: c.H10},
		r3.Vector{X: c.X1, Y: c.Y1, Z: c.H11},
		r3.Vector{X: c.X1, Y: c.Y0, Z: c.H01},
	)
	q, err := spatialmath.NewConvexQuad(pts, quadFaces, "")
	if err != nil {
		return nil, errors.Wrapf(err, "cell %d", i)
	}
	return q, nil
}
