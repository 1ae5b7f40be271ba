package heightfield

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.uber.org/multierr"
	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/terrain/bvh"
)

func TestBuildHierarchy(t *testing.T) {
	heights := mat.NewDense(3, 4, []float64{
		0, 1, 2, 3,
		1, 2, 3, 4,
		2, 3, 4, 9,
	})
	hf, err := New[bvh.AABB](bvh.AABBKind{}, []float64{0, 1, 2, 3}, []float64{0, 1, 2}, heights, 0.5)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, hf.NumCells(), test.ShouldEqual, 6)
	test.That(t, hf.NumNodes(), test.ShouldEqual, 2*6-1)
	test.That(t, hf.MinHeight(), test.ShouldEqual, 0)
	test.That(t, hf.MaxHeight(), test.ShouldEqual, 9)

	root := hf.Node(0)
	test.That(t, root.IsLeaf(), test.ShouldBeFalse)
	test.That(t, root.BV.Min, test.ShouldResemble, r3.Vector{X: 0, Y: 0, Z: 0})
	test.That(t, root.BV.Max, test.ShouldResemble, r3.Vector{X: 3, Y: 2, Z: 9})

	// the wider side is split first
	test.That(t, hf.Node(root.LeftChild()).XSize, test.ShouldEqual, 1)
	test.That(t, hf.Node(root.RightChild()).XSize, test.ShouldEqual, 2)

	t.Run("every cell is covered by exactly one leaf", func(t *testing.T) {
		seen := map[[2]int]int{}
		for i := 0; i < hf.NumNodes(); i++ {
			node := hf.Node(i)
			if !node.IsLeaf() {
				continue
			}
			seen[[2]int{node.XID, node.YID}]++

			cell, err := hf.Cell(i)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, node.MaxHeight, test.ShouldEqual, max(cell.H00, cell.H01, cell.H10, cell.H11))
			test.That(t, node.BV.Contains(r3.Vector{X: (cell.X0 + cell.X1) / 2, Y: (cell.Y0 + cell.Y1) / 2, Z: cell.H11}),
				test.ShouldBeTrue)
		}
		test.That(t, len(seen), test.ShouldEqual, 6)
		for _, n := range seen {
			test.That(t, n, test.ShouldEqual, 1)
		}
	})

	t.Run("parents bound their children", func(t *testing.T) {
		for i := 0; i < hf.NumNodes(); i++ {
			node := hf.Node(i)
			if node.IsLeaf() {
				continue
			}
			for _, c := range []int{node.LeftChild(), node.RightChild()} {
				child := hf.Node(c)
				test.That(t, child.MaxHeight, test.ShouldBeLessThanOrEqualTo, node.MaxHeight)
				test.That(t, node.BV.Contains(child.BV.Min), test.ShouldBeTrue)
				test.That(t, node.BV.Contains(child.BV.Max), test.ShouldBeTrue)
			}
		}
	})
}

func TestCell(t *testing.T) {
	heights := mat.NewDense(2, 2, []float64{
		1, 2,
		3, 4,
	})
	hf, err := New[bvh.OBB](bvh.OBBKind{}, []float64{0, 1}, []float64{5, 7}, heights, -1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, hf.NumNodes(), test.ShouldEqual, 1)
	test.That(t, hf.Node(0).IsLeaf(), test.ShouldBeTrue)

	cell, err := hf.Cell(0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cell, test.ShouldResemble, Cell{
		X0: 0, X1: 1, Y0: 5, Y1: 7,
		H00: 1, H01: 2, H10: 3, H11: 4,
		MaxHeight: 4, MinHeight: -1,
	})

	_, err = hf.Cell(3)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestNewFromDimensions(t *testing.T) {
	hf, err := NewFromDimensions[bvh.AABB](bvh.AABBKind{}, 4, 2, mat.NewDense(3, 5, nil), -1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, hf.XGrid(), test.ShouldResemble, []float64{-2, -1, 0, 1, 2})
	test.That(t, hf.YGrid(), test.ShouldResemble, []float64{-1, 0, 1})
	test.That(t, hf.NumCells(), test.ShouldEqual, 8)

	_, err = NewFromDimensions[bvh.AABB](bvh.AABBKind{}, 0, 2, mat.NewDense(3, 5, nil), -1)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestNewFromFunc(t *testing.T) {
	hf, err := NewFromFunc[bvh.AABB](bvh.AABBKind{}, []float64{0, 1, 2}, []float64{0, 1}, func(x, y float64) float64 {
		return x + 10*y
	}, 0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, hf.Heights().At(1, 2), test.ShouldEqual, 12)
	test.That(t, hf.Heights().At(0, 1), test.ShouldEqual, 1)
}

func TestValidation(t *testing.T) {
	t.Run("every problem is reported", func(t *testing.T) {
		_, err := New[bvh.AABB](bvh.AABBKind{}, []float64{0, 2, 1}, []float64{0}, mat.NewDense(2, 2, nil), 0)
		test.That(t, err, test.ShouldNotBeNil)
		errs := multierr.Errors(err)
		// x not increasing, y too short, shape mismatch
		test.That(t, len(errs), test.ShouldEqual, 3)
		test.That(t, err.Error(), test.ShouldContainSubstring, "strictly increasing")
	})

	t.Run("non finite samples", func(t *testing.T) {
		heights := mat.NewDense(2, 2, []float64{0, 0, 0, 0})
		heights.Set(1, 1, 1.0/zero())
		_, err := New[bvh.AABB](bvh.AABBKind{}, []float64{0, 1}, []float64{0, 1}, heights, 0)
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "height must be finite")
	})

	t.Run("nil heights", func(t *testing.T) {
		_, err := New[bvh.AABB](bvh.AABBKind{}, []float64{0, 1}, []float64{0, 1}, nil, 0)
		test.That(t, err, test.ShouldNotBeNil)
	})
}

func zero() float64 { return 0 }
