package narrowphase

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/terrain/spatialmath"
)

// vertex is a point of the Minkowski difference A - B together with the points of A and B that produced it,
// all expressed in A's frame.
type vertex struct {
	w, a, b r3.Vector
}

// minkowski evaluates supports of the difference of the cores of A and B, with B placed in A's frame.
type minkowski struct {
	a, b  spatialmath.Shape
	rot   *spatialmath.RotationMatrix
	trans r3.Vector

	hintA, hintB int
}

func newMinkowski(a spatialmath.Shape, poseA spatialmath.Pose, b spatialmath.Shape, poseB spatialmath.Pose) *minkowski {
	rel := spatialmath.Compose(spatialmath.PoseInverse(poseA), poseB)
	return &minkowski{
		a:     a,
		b:     b,
		rot:   rel.Orientation().RotationMatrix(),
		trans: rel.Point(),
	}
}

// support returns the vertex of A - B farthest along d.
func (m *minkowski) support(d r3.Vector) vertex {
	pa := m.a.CoreSupport(d, &m.hintA)
	pb := m.rot.Mul(m.b.CoreSupport(m.rot.MulT(d.Mul(-1)), &m.hintB)).Add(m.trans)
	return vertex{w: pa.Sub(pb), a: pa, b: pb}
}

// gjkResult is the state GJK ends in.
type gjkResult struct {
	// overlap is set when the origin was found inside the current simplex.
	overlap bool
	// v is the point of A - B closest to the origin when there is no overlap.
	v       r3.Vector
	simplex []vertex
	weights []float64
}

// witnesses returns the points on A and B, in A's frame, matching v.
func (g *gjkResult) witnesses() (r3.Vector, r3.Vector) {
	var pa, pb r3.Vector
	for i, vert := range g.simplex {
		pa = pa.Add(vert.a.Mul(g.weights[i]))
		pb = pb.Add(vert.b.Mul(g.weights[i]))
	}
	return pa, pb
}

// gjk finds the point of the Minkowski difference closest to the origin.
func gjk(m *minkowski, maxIter int, tol float64) gjkResult {
	d := m.trans
	if d.Norm2() < 1e-12 {
		d = r3.Vector{X: 1}
	}

	w := m.support(d)
	res := gjkResult{v: w.w, simplex: []vertex{w}, weights: []float64{1}}

	for iter := 0; iter < maxIter; iter++ {
		vv := res.v.Norm2()
		if vv < 1e-20 {
			res.overlap = true
			return res
		}

		w = m.support(res.v.Mul(-1))

		// Convergence: new support point can't improve distance significantly.
		if vv-res.v.Dot(w.w) <= tol*vv {
			return res
		}
		if containsPoint(res.simplex, w.w) {
			return res
		}

		pts := append(append(make([]vertex, 0, len(res.simplex)+1), res.simplex...), w)
		switch len(pts) {
		case 2:
			res.v, res.simplex, res.weights = closestOnSegment(pts[0], pts[1])
		case 3:
			res.v, res.simplex, res.weights = closestOnTriangle(pts[0], pts[1], pts[2])
		case 4:
			var inside bool
			res.v, res.simplex, res.weights, inside = closestOnTetrahedron(pts)
			if inside {
				res.overlap = true
				return res
			}
		}
	}
	return res
}

func containsPoint(simplex []vertex, w r3.Vector) bool {
	for _, s := range simplex {
		if s.w.Sub(w).Norm2() < 1e-24 {
			return true
		}
	}
	return false
}

// closestOnSegment returns the closest point on segment [p,q] to the origin, along with the reduced simplex and
// the weights of its vertices.
func closestOnSegment(p, q vertex) (r3.Vector, []vertex, []float64) {
	ab := q.w.Sub(p.w)
	denom := ab.Norm2()
	if denom < 1e-30 {
		return p.w, []vertex{p}, []float64{1}
	}
	t := p.w.Mul(-1).Dot(ab) / denom
	if t <= 0 {
		return p.w, []vertex{p}, []float64{1}
	}
	if t >= 1 {
		return q.w, []vertex{q}, []float64{1}
	}
	return p.w.Add(ab.Mul(t)), []vertex{p, q}, []float64{1 - t, t}
}

// closestOnTriangle returns the closest point on triangle [a,b,c] to the origin, along with the reduced simplex
// and weights. Uses Ericson's Voronoi region method from "Real-Time Collision Detection".
func closestOnTriangle(a, b, c vertex) (r3.Vector, []vertex, []float64) {
	ab := b.w.Sub(a.w)
	ac := c.w.Sub(a.w)
	ao := a.w.Mul(-1)

	d1 := ab.Dot(ao)
	d2 := ac.Dot(ao)
	if d1 <= 0 && d2 <= 0 {
		return a.w, []vertex{a}, []float64{1}
	}

	bo := b.w.Mul(-1)
	d3 := ab.Dot(bo)
	d4 := ac.Dot(bo)
	if d3 >= 0 && d4 <= d3 {
		return b.w, []vertex{b}, []float64{1}
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return a.w.Add(ab.Mul(v)), []vertex{a, b}, []float64{1 - v, v}
	}

	co := c.w.Mul(-1)
	d5 := ab.Dot(co)
	d6 := ac.Dot(co)
	if d6 >= 0 && d5 <= d6 {
		return c.w, []vertex{c}, []float64{1}
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return a.w.Add(ac.Mul(w)), []vertex{a, c}, []float64{1 - w, w}
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.w.Add(c.w.Sub(b.w).Mul(w)), []vertex{b, c}, []float64{1 - w, w}
	}

	sum := va + vb + vc
	if sum <= 0 {
		// collinear points, keep the best edge
		return closestOnEdges(a, b, c)
	}
	v := vb / sum
	w := vc / sum
	return a.w.Add(ab.Mul(v)).Add(ac.Mul(w)), []vertex{a, b, c}, []float64{1 - v - w, v, w}
}

func closestOnEdges(a, b, c vertex) (r3.Vector, []vertex, []float64) {
	bestV, bestS, bestW := closestOnSegment(a, b)
	for _, e := range [2][2]vertex{{a, c}, {b, c}} {
		if v, s, w := closestOnSegment(e[0], e[1]); v.Norm2() < bestV.Norm2() {
			bestV, bestS, bestW = v, s, w
		}
	}
	return bestV, bestS, bestW
}

// originInTetrahedron checks whether the origin is inside the tetrahedron by verifying it is on the interior
// side of every face. Flat tetrahedra contain nothing.
func originInTetrahedron(pts []vertex) bool {
	p0 := pts[0].w
	e1, e2, e3 := pts[1].w.Sub(p0), pts[2].w.Sub(p0), pts[3].w.Sub(p0)
	scale := math.Max(e1.Norm2(), math.Max(e2.Norm2(), e3.Norm2()))
	if vol := e1.Dot(e2.Cross(e3)); math.Abs(vol) <= 1e-12*scale*math.Sqrt(scale) {
		return false
	}

	type face struct{ v0, v1, v2, opp int }
	faces := [4]face{
		{0, 1, 2, 3},
		{0, 1, 3, 2},
		{0, 2, 3, 1},
		{1, 2, 3, 0},
	}
	for _, f := range faces {
		q0, q1, q2 := pts[f.v0].w, pts[f.v1].w, pts[f.v2].w
		normal := q1.Sub(q0).Cross(q2.Sub(q0))
		dOrigin := normal.Dot(q0.Mul(-1))
		dOpp := normal.Dot(pts[f.opp].w.Sub(q0))
		if dOrigin*dOpp < 0 {
			return false
		}
	}
	return true
}

// closestOnTetrahedron returns the closest point on the tetrahedron to the origin. The last value reports
// whether the origin is inside, in which case the full simplex is returned with no weights.
func closestOnTetrahedron(pts []vertex) (r3.Vector, []vertex, []float64, bool) {
	if originInTetrahedron(pts) {
		return r3.Vector{}, pts, nil, true
	}
	faces := [4][3]int{{0, 1, 2}, {0, 1, 3}, {0, 2, 3}, {1, 2, 3}}
	bestDist := math.Inf(1)
	var bestV r3.Vector
	var bestS []vertex
	var bestW []float64
	for _, f := range faces {
		v, s, w := closestOnTriangle(pts[f[0]], pts[f[1]], pts[f[2]])
		if d := v.Norm2(); d < bestDist {
			bestDist, bestV, bestS, bestW = d, v, s, w
		}
	}
	return bestV, bestS, bestW, false
}
