package mesh

import (
	"math"

	"github.com/adfgl/3Ugolnik-sub000/internal/geom"
	"github.com/golang/geo/r2"
	"go.uber.org/zap"
)

// edgeRef names an edge by its vertices, with a hint of which triangle held it
// when the reference was made. Worklists hold these rather than Edge values,
// because the slot an Edge points at may be reused by the time it is popped.
type edgeRef struct {
	a, b int
	t    int
}

// resolve finds the edge a ref names, if it still exists.
func (m *Mesh) resolve(ref edgeRef) (Edge, bool) {
	if ref.t >= 0 && ref.t < len(m.tris) && !m.tris[ref.t].dead {
		if i := m.tris[ref.t].edgeSlot(ref.a, ref.b); i >= 0 {
			return Edge{ref.t, i}, true
		}
	}
	return m.FindEdge(ref.a, ref.b)
}

// Insert adds a vertex at p and returns its id. Inserting on top of an
// existing vertex returns that vertex instead.
func (m *Mesh) Insert(p r2.Point) int {
	v, _ := m.insert(p, m.last)
	return v
}

// insert returns the new vertex along with every triangle created while
// inserting it. Some of those may be retired again by the time it returns.
func (m *Mesh) insert(p r2.Point, start int) (int, []int) {
	if item, ok := m.index.Nearest(p, m.eps); ok {
		return item.ID, nil
	}
	return m.insertAt(p, m.Locate(p, start))
}

func (m *Mesh) insertAt(p r2.Point, loc Location) (int, []int) {
	switch loc.Kind {
	case OnVertex:
		return loc.Vertex, nil
	case OnEdge:
		return m.splitEdge(Edge{loc.Tri, loc.Slot}, p)
	default:
		return m.splitTriangle(loc.Tri, p)
	}
}

// splitTriangle fans a new vertex at p out to the corners of t.
func (m *Mesh) splitTriangle(t int, p r2.Point) (int, []int) {
	tri := m.tris[t]
	v := m.addVertex(p)
	a, b, c := tri.V[0], tri.V[1], tri.V[2]

	ids := m.replace([]int{t}, []Triangle{
		newTriangle(a, b, v, tri.Region),
		newTriangle(b, c, v, tri.Region),
		newTriangle(c, a, v, tri.Region),
	})
	m.log.Debug("split triangle", zap.Int("triangle", t), zap.Int("vertex", v))

	return v, m.legalize([]edgeRef{{a, b, ids[0]}, {b, c, ids[1]}, {c, a, ids[2]}}, ids)
}

// splitEdge puts a new vertex at p on edge e, splitting the triangles on both
// sides of it. Both halves keep the edge's constraint.
//
// p only has to be near the edge. If splicing it in as given would fold a
// triangle over, it is moved onto the edge, or inserted into whichever of the
// two triangles contains it instead.
func (m *Mesh) splitEdge(e Edge, p r2.Point) (int, []int) {
	tri := m.tris[e.T]
	i := e.I
	a, b, c := tri.V[i], tri.V[(i+1)%3], tri.V[(i+2)%3]
	kind := tri.C[i]
	u := tri.N[i]
	d := -1
	if u >= 0 {
		j := m.tris[u].edgeSlot(b, a)
		if j < 0 {
			fatalf("triangle %d is not linked back to %d", u, e.T)
		}
		d = m.tris[u].V[(j+2)%3]
	}

	if !m.splitsCleanly(a, b, c, d, p) {
		proj := project(p, m.point(a), m.point(b))
		switch {
		case kind != None && m.splitsCleanly(a, b, c, d, proj):
			p = proj
		case m.strictlyInside(e.T, p):
			return m.splitTriangle(e.T, p)
		case u >= 0 && m.strictlyInside(u, p):
			return m.splitTriangle(u, p)
		case m.splitsCleanly(a, b, c, d, proj):
			p = proj
		default:
			fatalf("cannot place %v on edge %d->%d", p, a, b)
		}
		m.log.Debug("moved split point onto edge", zap.Int("from", a), zap.Int("to", b))
	}

	v := m.addVertex(p)
	t1 := newTriangle(a, v, c, tri.Region)
	t2 := newTriangle(v, b, c, tri.Region)
	t1.C[0], t2.C[0] = kind, kind

	var (
		ids  []int
		work []edgeRef
	)
	if u < 0 {
		ids = m.replace([]int{e.T}, []Triangle{t1, t2})
		work = []edgeRef{{c, a, ids[0]}, {b, c, ids[1]}}
	} else {
		nb := m.tris[u]
		t3 := newTriangle(b, v, d, nb.Region)
		t4 := newTriangle(v, a, d, nb.Region)
		t3.C[0], t4.C[0] = kind, kind

		ids = m.replace([]int{e.T, u}, []Triangle{t1, t2, t3, t4})
		work = []edgeRef{{c, a, ids[0]}, {b, c, ids[1]}, {d, b, ids[2]}, {a, d, ids[3]}}
	}
	if kind != None {
		m.splitSegment(a, b, v)
	}
	m.log.Debug("split edge",
		zap.Int("from", a), zap.Int("to", b),
		zap.Int("vertex", v), zap.Stringer("constraint", kind))

	return v, m.legalize(work, ids)
}

// splitsCleanly reports whether splitting edge a-b at p leaves every new
// triangle counterclockwise. c is opposite the edge, d across it or -1.
func (m *Mesh) splitsCleanly(a, b, c, d int, p r2.Point) bool {
	pa, pb, pc := m.point(a), m.point(b), m.point(c)
	if geom.Orient(pa, p, pc) <= 0 || geom.Orient(p, pb, pc) <= 0 {
		return false
	}
	if d < 0 {
		return true
	}
	pd := m.point(d)
	return geom.Orient(pb, p, pd) > 0 && geom.Orient(p, pa, pd) > 0
}

func (m *Mesh) strictlyInside(t int, p r2.Point) bool {
	tri := &m.tris[t]
	for i := 0; i < 3; i++ {
		if geom.Orient(m.point(tri.V[i]), m.point(tri.V[(i+1)%3]), p) <= 0 {
			return false
		}
	}
	return true
}

// project returns the point of segment a-b closest to p.
func project(p, a, b r2.Point) r2.Point {
	ab := b.Sub(a)
	t := p.Sub(a).Dot(ab) / ab.Dot(ab)
	return a.Add(ab.Mul(math.Max(0, math.Min(1, t))))
}

// flip swaps the diagonal of the quad formed by the two triangles sharing e.
func (m *Mesh) flip(e Edge) []int {
	tri := m.tris[e.T]
	i := e.I
	a, b, c := tri.V[i], tri.V[(i+1)%3], tri.V[(i+2)%3]
	u := tri.N[i]
	if u < 0 {
		fatalf("flipping boundary edge %d->%d", a, b)
	}
	nb := m.tris[u]
	j := nb.edgeSlot(b, a)
	if j < 0 {
		fatalf("triangle %d is not linked back to %d", u, e.T)
	}
	d := nb.V[(j+2)%3]

	return m.replace([]int{e.T, u}, []Triangle{
		newTriangle(c, a, d, tri.Region),
		newTriangle(d, b, c, tri.Region),
	})
}

// legalize restores the Delaunay property around the edges in work by
// flipping. It returns touched with every triangle it created appended.
func (m *Mesh) legalize(work []edgeRef, touched []int) []int {
	flips := 0
	for len(work) > 0 {
		ref := work[len(work)-1]
		work = work[:len(work)-1]

		e, ok := m.resolve(ref)
		if !ok {
			continue
		}
		tri := &m.tris[e.T]
		u := tri.N[e.I]
		if u < 0 || tri.C[e.I] != None {
			continue
		}
		a, b, c := tri.V[e.I], tri.V[(e.I+1)%3], tri.V[(e.I+2)%3]
		nb := &m.tris[u]
		d := nb.V[(nb.edgeSlot(b, a)+2)%3]

		pa, pb, pc, pd := m.point(a), m.point(b), m.point(c), m.point(d)
		if !geom.InCircle(pa, pb, pc, pd) || !geom.QuadConvex(pa, pd, pb, pc) {
			continue
		}

		ids := m.flip(e)
		flips++
		touched = append(touched, ids...)
		work = append(work,
			edgeRef{c, a, ids[0]}, edgeRef{a, d, ids[0]},
			edgeRef{d, b, ids[1]}, edgeRef{b, c, ids[1]})
	}
	if flips > 0 {
		m.log.Debug("legalized", zap.Int("flips", flips))
	}
	return touched
}
