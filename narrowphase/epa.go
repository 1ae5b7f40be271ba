package narrowphase

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/terrain/spatialmath"
)

// epaFace is a triangle of the expanding polytope, wound counter clockwise seen from outside.
type epaFace struct {
	idx    [3]int
	normal r3.Vector
	dist   float64
}

// polytope is the expanding hull around the origin in Minkowski space.
type polytope struct {
	verts    []vertex
	faces    []epaFace
	interior r3.Vector
}

// epaResult is the penetration found by EPA, in A's frame.
type epaResult struct {
	depth  float64
	normal r3.Vector
	pa, pb r3.Vector
}

// newFace orients the triangle (i, j, k) away from the polytope interior.
func (p *polytope) newFace(i, j, k int) epaFace {
	a, b, c := p.verts[i].w, p.verts[j].w, p.verts[k].w
	n := b.Sub(a).Cross(c.Sub(a))
	if n.Dot(a.Sub(p.interior)) < 0 {
		j, k = k, j
		n = n.Mul(-1)
	}
	if norm := n.Norm(); norm > 1e-300 {
		n = n.Mul(1 / norm)
	} else {
		// zero area, use the direction from the interior
		n = a.Sub(p.interior).Normalize()
	}
	return epaFace{idx: [3]int{i, j, k}, normal: n, dist: n.Dot(a)}
}

func (p *polytope) closestFace() int {
	best := 0
	for i := 1; i < len(p.faces); i++ {
		if p.faces[i].dist < p.faces[best].dist {
			best = i
		}
	}
	return best
}

// expand adds vertex w to the hull, replacing every face that sees it with a fan around the horizon.
func (p *polytope) expand(w vertex, eps float64) {
	p.verts = append(p.verts, w)
	newIdx := len(p.verts) - 1

	type edge struct{ a, b int }
	var horizon []edge
	kept := p.faces[:0:0]
	for _, f := range p.faces {
		if f.normal.Dot(w.w.Sub(p.verts[f.idx[0]].w)) <= eps {
			kept = append(kept, f)
			continue
		}
		for e := 0; e < 3; e++ {
			cur := edge{f.idx[e], f.idx[(e+1)%3]}
			shared := false
			for h, other := range horizon {
				if other.a == cur.b && other.b == cur.a {
					horizon = append(horizon[:h], horizon[h+1:]...)
					shared = true
					break
				}
			}
			if !shared {
				horizon = append(horizon, cur)
			}
		}
	}
	for _, e := range horizon {
		kept = append(kept, p.newFace(e.a, e.b, newIdx))
	}
	p.faces = kept
}

// witnesses returns the points of A and B matching the projection of the origin on face f.
func (p *polytope) witnesses(f epaFace) (r3.Vector, r3.Vector) {
	v0, v1, v2 := p.verts[f.idx[0]], p.verts[f.idx[1]], p.verts[f.idx[2]]
	l0, l1, l2 := spatialmath.NewTriangle(v0.w, v1.w, v2.w).Barycentric(f.normal.Mul(f.dist))
	pa := v0.a.Mul(l0).Add(v1.a.Mul(l1)).Add(v2.a.Mul(l2))
	pb := v0.b.Mul(l0).Add(v1.b.Mul(l1)).Add(v2.b.Mul(l2))
	return pa, pb
}

// blowUp grows a simplex of fewer than four points into a tetrahedron using support queries.
// It returns false when the Minkowski difference is too flat to hold one.
func blowUp(m *minkowski, simplex []vertex) ([]vertex, bool) {
	const eps = 1e-10
	pts := append(make([]vertex, 0, 4), simplex...)
	axes := [6]r3.Vector{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}, {Z: 1}, {Z: -1}}

	if len(pts) == 1 {
		for _, axis := range axes {
			if w := m.support(axis); w.w.Sub(pts[0].w).Norm() > eps {
				pts = append(pts, w)
				break
			}
		}
	}
	if len(pts) == 2 {
		line := pts[1].w.Sub(pts[0].w).Normalize()
		dir := line.Cross(leastAlignedAxis(line)).Normalize()
		for k := 0; k < 6; k++ {
			w := m.support(dir)
			off := w.w.Sub(pts[0].w)
			if off.Sub(line.Mul(off.Dot(line))).Norm() > eps {
				pts = append(pts, w)
				break
			}
			dir = rotateAround(dir, line, math.Pi/3)
		}
	}
	if len(pts) == 3 {
		n := pts[1].w.Sub(pts[0].w).Cross(pts[2].w.Sub(pts[0].w)).Normalize()
		for _, dir := range [2]r3.Vector{n, n.Mul(-1)} {
			if w := m.support(dir); math.Abs(w.w.Sub(pts[0].w).Dot(n)) > eps {
				pts = append(pts, w)
				break
			}
		}
	}
	return pts, len(pts) == 4
}

func leastAlignedAxis(v r3.Vector) r3.Vector {
	ax, ay, az := math.Abs(v.X), math.Abs(v.Y), math.Abs(v.Z)
	switch {
	case ax <= ay && ax <= az:
		return r3.Vector{X: 1}
	case ay <= az:
		return r3.Vector{Y: 1}
	default:
		return r3.Vector{Z: 1}
	}
}

// rotateAround applies Rodrigues' rotation of v about the unit axis k.
func rotateAround(v, k r3.Vector, theta float64) r3.Vector {
	c, s := math.Cos(theta), math.Sin(theta)
	return v.Mul(c).Add(k.Cross(v).Mul(s)).Add(k.Mul(k.Dot(v) * (1 - c)))
}

// epa expands the simplex GJK ended with until it reaches the boundary of the Minkowski difference nearest the
// origin. The second value is false when the polytope degenerates or the iteration budget runs out.
func epa(m *minkowski, simplex []vertex, maxIter int, tol float64) (epaResult, bool) {
	pts, ok := blowUp(m, simplex)
	if !ok {
		return epaResult{}, false
	}

	poly := &polytope{verts: pts}
	for _, pt := range pts {
		poly.interior = poly.interior.Add(pt.w.Mul(0.25))
	}
	poly.faces = []epaFace{
		poly.newFace(0, 1, 2),
		poly.newFace(0, 3, 1),
		poly.newFace(0, 2, 3),
		poly.newFace(1, 3, 2),
	}

	var best epaFace
	for iter := 0; iter < maxIter; iter++ {
		if len(poly.faces) == 0 {
			return epaResult{}, false
		}
		best = poly.faces[poly.closestFace()]

		w := m.support(best.normal)
		if w.w.Dot(best.normal)-best.dist < tol {
			pa, pb := poly.witnesses(best)
			return epaResult{depth: best.dist, normal: best.normal, pa: pa, pb: pb}, true
		}
		poly.expand(w, tol*1e-3)
	}
	return epaResult{}, false
}
