// Package heightfield stores elevation samples over a rectilinear grid and organizes its cells into a
// bounding volume hierarchy.
package heightfield

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/terrain/bvh"
	"go.viam.com/terrain/utils"
)

// Node is one node of the hierarchy. It covers XSize by YSize cells starting at cell (XID, YID).
type Node[T bvh.Volume[T]] struct {
	BV         T
	XID, YID   int
	XSize      int
	YSize      int
	MaxHeight  float64
	FirstChild int
}

// IsLeaf reports whether the node covers a single cell.
func (n *Node[T]) IsLeaf() bool {
	return n.XSize == 1 && n.YSize == 1
}

// LeftChild returns the index of the first child. Meaningless on leaves.
func (n *Node[T]) LeftChild() int {
	return n.FirstChild
}

// RightChild returns the index of the second child. Meaningless on leaves.
func (n *Node[T]) RightChild() int {
	return n.FirstChild + 1
}

// Cell is the footprint and corner heights of one grid cell. Hij is the height at (x_j, y_i).
type Cell struct {
	X0, X1 float64
	Y0, Y1 float64

	H00, H01, H10, H11 float64

	MaxHeight float64
	MinHeight float64
}

// HeightField is an immutable grid of heights. Rows of the height matrix follow the y grid, columns the x grid.
type HeightField[T bvh.Volume[T]] struct {
	kind      bvh.Kind[T]
	xGrid     []float64
	yGrid     []float64
	heights   *mat.Dense
	minHeight float64
	nodes     []Node[T]
	label     string
}

// New copies the grids and heights and builds the hierarchy. The base plane of every cell is the smaller of
// minHeight and the lowest sample.
func New[T bvh.Volume[T]](kind bvh.Kind[T], xGrid, yGrid []float64, heights mat.Matrix, minHeight float64) (*HeightField[T], error) {
	if err := validate(xGrid, yGrid, heights, minHeight); err != nil {
		return nil, err
	}

	hf := &HeightField[T]{
		kind:    kind,
		xGrid:   append([]float64(nil), xGrid...),
		yGrid:   append([]float64(nil), yGrid...),
		heights: mat.DenseCopyOf(heights),
	}
	hf.minHeight = math.Min(minHeight, mat.Min(hf.heights))

	numCells := (len(xGrid) - 1) * (len(yGrid) - 1)
	hf.nodes = make([]Node[T], 1, 2*numCells-1)
	hf.build(0, 0, len(xGrid)-1, 0, len(yGrid)-1)
	return hf, nil
}

// NewFromDimensions centers a grid of the given size on the origin, with one sample per entry of heights.
func NewFromDimensions[T bvh.Volume[T]](kind bvh.Kind[T], xDim, yDim float64, heights mat.Matrix, minHeight float64) (*HeightField[T], error) {
	if xDim <= 0 || yDim <= 0 {
		return nil, errors.Errorf("height field dimensions must be positive, got %v by %v", xDim, yDim)
	}
	rows, cols := heights.Dims()
	return New(kind, utils.Linspace(-xDim/2, xDim/2, cols), utils.Linspace(-yDim/2, yDim/2, rows), heights, minHeight)
}

// NewFromFunc samples elevation(x, y) at every grid point.
func NewFromFunc[T bvh.Volume[T]](
	kind bvh.Kind[T],
	xGrid, yGrid []float64,
	elevation func(x, y float64) float64,
	minHeight float64,
) (*HeightField[T], error) {
	points := utils.Meshgrid2D(xGrid, yGrid)
	if points == nil {
		return nil, errors.New("height field grids must not be empty")
	}
	heights := mat.NewDense(len(yGrid), len(xGrid), nil)
	for i := range yGrid {
		for j := range xGrid {
			pt := points.RawRowView(i*len(xGrid) + j)
			heights.Set(i, j, elevation(pt[0], pt[1]))
		}
	}
	return New(kind, xGrid, yGrid, heights, minHeight)
}

func validate(xGrid, yGrid []float64, heights mat.Matrix, minHeight float64) error {
	var err error
	for _, g := range []struct {
		name string
		grid []float64
	}{{"x", xGrid}, {"y", yGrid}} {
		if len(g.grid) < 2 {
			err = multierr.Append(err, errors.Errorf("%s grid needs at least 2 values, got %d", g.name, len(g.grid)))
			continue
		}
		if floats.HasNaN(g.grid) {
			err = multierr.Append(err, errors.Errorf("%s grid contains NaN", g.name))
			continue
		}
		if i := utils.StrictlyIncreasing(g.grid); i >= 0 {
			err = multierr.Append(err, errors.Errorf("%s grid must be strictly increasing, index %d is %v after %v",
				g.name, i, g.grid[i], g.grid[i-1]))
		}
	}
	if heights == nil {
		return multierr.Append(err, errors.New("heights must not be nil"))
	}
	rows, cols := heights.Dims()
	if rows != len(yGrid) || cols != len(xGrid) {
		err = multierr.Append(err, errors.Errorf("heights are %dx%d but the grids need %dx%d", rows, cols, len(yGrid), len(xGrid)))
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v := heights.At(i, j); !utils.IsFinite(v) {
				err = multierr.Append(err, utils.NewNonFiniteValueError("height", v))
			}
		}
	}
	if !utils.IsFinite(minHeight) {
		err = multierr.Append(err, utils.NewNonFiniteValueError("min height", minHeight))
	}
	return err
}

// build fills node idx for the block of cells starting at (x, y) and returns its maximum height. Children of a
// node are stored next to each other, the longer side of the block is split in half.
func (hf *HeightField[T]) build(idx, x, xSize, y, ySize int) float64 {
	node := Node[T]{XID: x, YID: y, XSize: xSize, YSize: ySize, FirstChild: -1}

	if xSize == 1 && ySize == 1 {
		node.MaxHeight = mat.Max(hf.heights.Slice(y, y+2, x, x+2))
	} else {
		node.FirstChild = len(hf.nodes)
		hf.nodes = append(hf.nodes, Node[T]{}, Node[T]{})
		var left, right float64
		if xSize >= ySize {
			half := xSize / 2
			left = hf.build(node.FirstChild, x, half, y, ySize)
			right = hf.build(node.FirstChild+1, x+half, xSize-half, y, ySize)
		} else {
			half := ySize / 2
			left = hf.build(node.FirstChild, x, xSize, y, half)
			right = hf.build(node.FirstChild+1, x, xSize, y+half, ySize-half)
		}
		node.MaxHeight = math.Max(left, right)
	}

	node.BV = hf.kind.FromAABB(
		r3.Vector{X: hf.xGrid[x], Y: hf.yGrid[y], Z: hf.minHeight},
		r3.Vector{X: hf.xGrid[x+xSize], Y: hf.yGrid[y+ySize], Z: node.MaxHeight},
	)
	hf.nodes[idx] = node
	return node.MaxHeight
}

// Node returns node i. The root is node 0.
func (hf *HeightField[T]) Node(i int) *Node[T] {
	return &hf.nodes[i]
}

// NumNodes returns the number of nodes in the hierarchy.
func (hf *HeightField[T]) NumNodes() int {
	return len(hf.nodes)
}

// NumCells returns the number of grid cells.
func (hf *HeightField[T]) NumCells() int {
	return (len(hf.xGrid) - 1) * (len(hf.yGrid) - 1)
}

// Heights returns a read only view of the samples.
func (hf *HeightField[T]) Heights() mat.Matrix {
	return hf.heights
}

// XGrid returns a copy of the x coordinates.
func (hf *HeightField[T]) XGrid() []float64 {
	return append([]float64(nil), hf.xGrid...)
}

// YGrid returns a copy of the y coordinates.
func (hf *HeightField[T]) YGrid() []float64 {
	return append([]float64(nil), hf.yGrid...)
}

// MinHeight returns the base plane shared by every cell.
func (hf *HeightField[T]) MinHeight() float64 {
	return hf.minHeight
}

// MaxHeight returns the highest sample.
func (hf *HeightField[T]) MaxHeight() float64 {
	return hf.nodes[0].MaxHeight
}

// Label returns the name reported in contacts.
func (hf *HeightField[T]) Label() string {
	return hf.label
}

// WithLabel returns a copy of hf named label. The copy shares the samples and hierarchy with hf.
func (hf *HeightField[T]) WithLabel(label string) *HeightField[T] {
	named := *hf
	named.label = label
	return &named
}

// Kind returns the volume kind the hierarchy was fitted with.
func (hf *HeightField[T]) Kind() bvh.Kind[T] {
	return hf.kind
}

// Cell returns the geometry of leaf node i.
func (hf *HeightField[T]) Cell(i int) (Cell, error) {
	if i < 0 || i >= len(hf.nodes) {
		return Cell{}, errors.Errorf("node %d out of range [0, %d)", i, len(hf.nodes))
	}
	node := &hf.nodes[i]
	if !node.IsLeaf() {
		return Cell{}, errors.Errorf("node %d covers %dx%d cells, not a single cell", i, node.XSize, node.YSize)
	}
	x, y := node.XID, node.YID
	return Cell{
		X0:        hf.xGrid[x],
		X1:        hf.xGrid[x+1],
		Y0:        hf.yGrid[y],
		Y1:        hf.yGrid[y+1],
		H00:       hf.heights.At(y, x),
		H01:       hf.heights.At(y, x+1),
		H10:       hf.heights.At(y+1, x),
		H11:       hf.heights.At(y+1, x+1),
		MaxHeight: node.MaxHeight,
		MinHeight: hf.minHeight,
	}, nil
}
