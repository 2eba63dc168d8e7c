package mesh

import (
	"github.com/adfgl/3Ugolnik-sub000/internal/geom"
	"github.com/golang/geo/r2"
	"go.uber.org/zap"
)

// InsertConstraint forces the segment a-b into the mesh as a chain of edges
// marked kind. Vertices lying on the segment split it, and so do crossings
// with other constrained edges, which get a new vertex at the intersection.
func (m *Mesh) InsertConstraint(a, b int, kind Kind) {
	work := [][2]int{{a, b}}
	for len(work) > 0 {
		s := work[len(work)-1]
		work = work[:len(work)-1]
		work = append(work, m.insertSegment(s[0], s[1], kind)...)
	}
}

func (m *Mesh) markConstraint(e Edge, kind Kind) {
	kind = m.tris[e.T].C[e.I].merge(kind)
	m.tris[e.T].C[e.I] = kind
	if twin, ok := m.Twin(e); ok {
		m.tris[twin.T].C[twin.I] = kind
	}
	a, b := m.Endpoints(e)
	m.addSegment(a, b, kind)
}

// onSegment reports whether vertex w lies on the open segment pa-pb, within
// epsilon of its line.
func (m *Mesh) onSegment(w int, pa, pb r2.Point) bool {
	if IsSuper(w) {
		return false
	}
	pw := m.point(w)
	if geom.DistToLine(pw, pa, pb) > m.eps {
		return false
	}
	dir := pb.Sub(pa)
	t := pw.Sub(pa).Dot(dir) / dir.Dot(dir)
	return t > 0 && t < 1
}

// insertSegment makes a-b an edge. If a-b has to be cut into pieces first, it
// returns the pieces still to be inserted instead.
func (m *Mesh) insertSegment(a, b int, kind Kind) [][2]int {
	if a == b {
		return nil
	}
	pa, pb := m.point(a), m.point(b)
	if geom.Dist2(pa, pb) <= m.eps*m.eps {
		return nil
	}
	if e, ok := m.FindEdge(a, b); ok {
		m.markConstraint(e, kind)
		return nil
	}

	t, i, on := m.entrance(a, b)
	if on >= 0 {
		return [][2]int{{a, on}, {on, b}}
	}

	walk := m.walkSegment(a, b, t, i)
	switch {
	case walk.vertex >= 0:
		return [][2]int{{a, walk.vertex}, {walk.vertex, b}}
	case walk.blocked:
		v := m.splitCrossing(a, b, walk.block)
		return [][2]int{{a, v}, {v, b}}
	}

	created := m.flipCrossings(a, b, walk.crossed)
	e, ok := m.FindEdge(a, b)
	if !ok {
		fatalf("segment %d-%d is missing after removing its crossings", a, b)
	}
	m.markConstraint(e, kind)

	// Any edge of a triangle the flips created may now fail the Delaunay
	// test, including those on the rim of the cleared region.
	var work []edgeRef
	for _, t := range created {
		tri := &m.tris[t]
		if tri.dead {
			continue
		}
		for i := 0; i < 3; i++ {
			work = append(work, edgeRef{tri.V[i], tri.V[(i+1)%3], t})
		}
	}
	m.legalize(work, nil)
	m.log.Debug("inserted constraint",
		zap.Int("from", a), zap.Int("to", b),
		zap.Int("crossings", len(walk.crossed)))
	return nil
}

// entrance finds the triangle around a whose corner at a contains the
// direction toward b, returning it and a's slot. If instead a neighbor of a
// lies on the segment, it is returned as the third value.
func (m *Mesh) entrance(a, b int) (int, int, int) {
	pa, pb := m.point(a), m.point(b)
	found, slot, on := -1, -1, -1

	m.Around(a, func(t, i int) bool {
		tri := &m.tris[t]
		q, r := tri.V[(i+1)%3], tri.V[(i+2)%3]
		if m.onSegment(q, pa, pb) {
			on = q
			return false
		}
		if m.onSegment(r, pa, pb) {
			on = r
			return false
		}
		if geom.Orient(pa, m.point(q), pb) > 0 && geom.Orient(pa, m.point(r), pb) < 0 {
			found, slot = t, i
			return false
		}
		return true
	})
	if on >= 0 || found >= 0 {
		return found, slot, on
	}

	// Nothing contains the direction strictly. Accept a corner it grazes.
	m.Around(a, func(t, i int) bool {
		tri := &m.tris[t]
		q, r := tri.V[(i+1)%3], tri.V[(i+2)%3]
		if geom.Orient(pa, m.point(q), pb) >= 0 && geom.Orient(pa, m.point(r), pb) <= 0 {
			found, slot = t, i
			return false
		}
		return true
	})
	if found < 0 {
		fatalf("no entrance triangle at vertex %d toward %d", a, b)
	}
	return found, slot, -1
}

// crossing is an edge the segment being inserted passes through.
type crossing [2]int

type segmentWalk struct {
	crossed []crossing
	vertex  int // a vertex found on the segment, or -1
	blocked bool
	block   Edge // the constrained edge crossing the segment, if blocked
}

// walkSegment collects the edges crossed by a-b, starting with the edge
// opposite a in its entrance triangle t (a sits in slot i). It stops early at
// a vertex on the segment or a constrained edge across it.
func (m *Mesh) walkSegment(a, b, t, i int) segmentWalk {
	pa, pb := m.point(a), m.point(b)
	walk := segmentWalk{vertex: -1}

	// q is always the endpoint of the current edge right of a->b, r the one
	// left of it; the edge runs q->r in triangle t at slot.
	tri := &m.tris[t]
	q, r := tri.V[(i+1)%3], tri.V[(i+2)%3]
	slot := (i + 1) % 3

	limit := len(m.tris)
	for step := 0; ; step++ {
		if step > limit {
			fatalf("segment %d-%d: walk does not reach its end", a, b)
		}
		tri := &m.tris[t]
		if tri.C[slot] != None {
			walk.blocked, walk.block = true, Edge{t, slot}
			return walk
		}
		walk.crossed = append(walk.crossed, crossing{q, r})

		u := tri.N[slot]
		if u < 0 {
			fatalf("segment %d-%d leaves the mesh across %d-%d", a, b, q, r)
		}
		nb := &m.tris[u]
		j := nb.edgeSlot(r, q)
		if j < 0 {
			fatalf("triangle %d is not linked back to %d", u, t)
		}
		d := nb.V[(j+2)%3]
		if d == b {
			return walk
		}
		if m.onSegment(d, pa, pb) {
			walk.vertex = d
			return walk
		}
		if geom.Orient(pa, pb, m.point(d)) > 0 {
			r, slot = d, (j+1)%3
		} else {
			q, slot = d, (j+2)%3
		}
		t = u
	}
}

// splitCrossing puts a vertex where a-b crosses the constrained edge e,
// splitting that edge, and returns the vertex.
func (m *Mesh) splitCrossing(a, b int, e Edge) int {
	q, r := m.Endpoints(e)
	pa, pb, pq, pr := m.point(a), m.point(b), m.point(q), m.point(r)

	x, ok := geom.SegmentIntersect(pa, pb, pq, pr)
	if !ok {
		if x, ok = geom.LineIntersect(pa, pb, pq, pr); !ok {
			fatalf("segment %d-%d crosses %d-%d but does not intersect it", a, b, q, r)
		}
	}
	eps2 := m.eps * m.eps
	switch {
	case geom.Dist2(x, pq) <= eps2:
		return q
	case geom.Dist2(x, pr) <= eps2:
		return r
	}
	if v, ok := m.FindVertex(x); ok {
		return v
	}
	v, _ := m.splitEdge(e, x)
	m.log.Debug("split crossing constraint",
		zap.Int("from", q), zap.Int("to", r), zap.Int("vertex", v))
	return v
}

// flipCrossings flips the crossed edges away until a-b is an edge. Edges whose
// quad is not convex are retried later, as are new diagonals that still cross
// the segment. It returns the triangles the flips created.
func (m *Mesh) flipCrossings(a, b int, crossed []crossing) []int {
	pa, pb := m.point(a), m.point(b)
	queue := append([]crossing(nil), crossed...)
	var created []int

	limit := 8*len(queue)*len(queue) + 64
	for n := 0; len(queue) > 0; n++ {
		if n > limit {
			fatalf("segment %d-%d: no flippable edge among %d crossings", a, b, len(queue))
		}
		cr := queue[0]
		queue = queue[1:]

		e, ok := m.FindEdge(cr[0], cr[1])
		if !ok {
			fatalf("crossed edge %d-%d is missing", cr[0], cr[1])
		}
		tri := &m.tris[e.T]
		x, y, c := tri.V[e.I], tri.V[(e.I+1)%3], tri.V[(e.I+2)%3]
		u := tri.N[e.I]
		if u < 0 {
			fatalf("crossed edge %d-%d is on the boundary", x, y)
		}
		nb := &m.tris[u]
		d := nb.V[(nb.edgeSlot(y, x)+2)%3]

		pc, pd := m.point(c), m.point(d)
		if !geom.QuadConvex(m.point(x), pd, m.point(y), pc) {
			queue = append(queue, cr)
			continue
		}
		created = append(created, m.flip(e)...)
		if geom.SegmentsCross(pa, pb, pc, pd) {
			queue = append(queue, crossing{c, d})
		}
	}
	return created
}
