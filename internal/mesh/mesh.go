// Package mesh is a constrained Delaunay triangulation engine with Ruppert
// refinement.
//
// The mesh is an arena of triangles addressed by index. Each triangle stores
// its three vertex ids, the three triangles across its edges and the
// constraint carried by each edge. Every mutation goes through replace, which
// swaps a set of triangles for a new set covering the same area and relinks
// the neighbors, so adjacency is consistent whenever control returns to the
// caller. Retired triangles are tombstoned and their slots reused.
//
// Invariant violations panic with an error wrapping ErrTopology; see
// HandlePanicRecover.
package mesh

import (
	"math"

	"github.com/adfgl/3Ugolnik-sub000/dbg"
	"github.com/adfgl/3Ugolnik-sub000/internal/geom"
	"github.com/adfgl/3Ugolnik-sub000/internal/quadtree"
	"github.com/golang/geo/r2"
	"go.uber.org/zap"
)

// superScale is how far the super triangle reaches beyond the input, in units
// of the input's largest extent.
const superScale = 20

type Config struct {
	// Epsilon is the absolute distance under which points are merged and a
	// point is considered to lie on an edge. Zero picks 1e-9 of the input's
	// largest extent.
	Epsilon float64

	QuadtreeCapacity int
	QuadtreeDepth    int

	Logger *zap.Logger
}

type Mesh struct {
	verts []Vertex
	super [3]Vertex
	tris  []Triangle
	last  int // most recently created triangle

	bounds r2.Rect // padded input bounds
	eps    float64
	index  *quadtree.Tree

	segs     []Segment
	segIDs   map[[2]int]int
	segIndex *quadtree.Tree // diametral circle centers of live segments
	maxSegR2 float64

	log *zap.Logger
}

// New creates an empty mesh whose super triangle encloses bounds with room to
// spare. All vertices inserted later must lie inside bounds.
func New(bounds r2.Rect, cfg Config) *Mesh {
	size := bounds.Size()
	extent := math.Max(size.X, size.Y)
	if extent <= 0 {
		extent = 1
	}
	padded := bounds.Expanded(r2.Point{X: extent / 10, Y: extent / 10})

	eps := cfg.Epsilon
	if eps <= 0 {
		eps = 1e-9 * extent
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	m := &Mesh{
		bounds:   padded,
		eps:      eps,
		index:    quadtree.New(padded, cfg.QuadtreeCapacity, cfg.QuadtreeDepth),
		segIDs:   make(map[[2]int]int),
		segIndex: quadtree.New(padded, cfg.QuadtreeCapacity, cfg.QuadtreeDepth),
	}
	m.log = log.With(zap.String("mesh", dbg.Fresh()))

	c := bounds.Center()
	r := superScale * extent
	m.super = [3]Vertex{
		{ID: -1, Point: r2.Point{X: c.X - r, Y: c.Y - r/2}},
		{ID: -2, Point: r2.Point{X: c.X + r, Y: c.Y - r/2}},
		{ID: -3, Point: r2.Point{X: c.X, Y: c.Y + r}},
	}
	super := newTriangle(-1, -2, -3, Exterior)
	super.Circle = geom.Circumcircle(m.super[0].Point, m.super[1].Point, m.super[2].Point)
	m.tris = []Triangle{super}

	m.log.Debug("created mesh",
		zap.Float64("epsilon", eps),
		zap.Float64("extent", extent))
	return m
}

func (m *Mesh) vertex(id int) *Vertex {
	if id < 0 {
		return &m.super[-id-1]
	}
	return &m.verts[id]
}

func (m *Mesh) point(id int) r2.Point {
	return m.vertex(id).Point
}

func (m *Mesh) Vertex(id int) Vertex {
	return *m.vertex(id)
}

func (m *Mesh) Point(id int) r2.Point {
	return m.point(id)
}

// NumVertices counts the inserted vertices, not including the super triangle.
func (m *Mesh) NumVertices() int {
	return len(m.verts)
}

// NumTriangles is the size of the triangle table, including retired slots.
func (m *Mesh) NumTriangles() int {
	return len(m.tris)
}

func (m *Mesh) Triangle(t int) Triangle {
	return m.tris[t]
}

// Each calls fn for every live triangle in index order.
func (m *Mesh) Each(fn func(t int, tri *Triangle)) {
	for t := range m.tris {
		if !m.tris[t].dead {
			fn(t, &m.tris[t])
		}
	}
}

func (m *Mesh) Epsilon() float64 {
	return m.eps
}

func (m *Mesh) Bounds() r2.Rect {
	return m.bounds
}

func (m *Mesh) Logger() *zap.Logger {
	return m.log
}

// FindVertex returns the vertex within epsilon of p.
func (m *Mesh) FindVertex(p r2.Point) (int, bool) {
	item, ok := m.index.Nearest(p, m.eps)
	return item.ID, ok
}

func (m *Mesh) addVertex(p r2.Point) int {
	id := len(m.verts)
	m.verts = append(m.verts, Vertex{ID: id, Point: p, Tri: -1})
	m.index.Insert(id, p)
	return id
}

// incident finds a live triangle using v by scanning the whole table. It only
// runs when a back-reference has gone stale.
func (m *Mesh) incident(v int) int {
	for t := range m.tris {
		if !m.tris[t].dead && m.tris[t].slotOf(v) >= 0 {
			return t
		}
	}
	return -1
}

// Around calls fn for each triangle incident to v, with the slot v occupies in
// it. Iteration stops when fn returns false.
func (m *Mesh) Around(v int, fn func(t, slot int) bool) {
	start := m.vertex(v).Tri
	if start < 0 || start >= len(m.tris) || m.tris[start].dead || m.tris[start].slotOf(v) < 0 {
		start = m.incident(v)
		if start < 0 {
			return
		}
		m.vertex(v).Tri = start
	}
	limit := len(m.tris)

	// Rotate across the edge leaving v until we come back around or reach the
	// boundary.
	t := start
	for steps := 0; ; steps++ {
		if steps > limit {
			fatalf("fan around vertex %d does not close", v)
		}
		i := m.slotIn(t, v)
		if !fn(t, i) {
			return
		}
		n := m.tris[t].N[i]
		if n == start {
			return
		}
		if n < 0 {
			break
		}
		t = n
	}

	// The fan is open, so cover the part on the other side of start.
	t = start
	for steps := 0; ; steps++ {
		if steps > limit {
			fatalf("fan around vertex %d does not close", v)
		}
		i := m.slotIn(t, v)
		n := m.tris[t].N[(i+2)%3]
		if n < 0 {
			return
		}
		t = n
		if !fn(t, m.slotIn(t, v)) {
			return
		}
	}
}

func (m *Mesh) slotIn(t, v int) int {
	i := m.tris[t].slotOf(v)
	if i < 0 {
		fatalf("triangle %d %v does not contain vertex %d", t, m.tris[t].V, v)
	}
	return i
}

// FindEdge returns the edge a->b if a triangle has it, or else the edge b->a.
func (m *Mesh) FindEdge(a, b int) (Edge, bool) {
	var (
		forward, reverse Edge
		hasFwd, hasRev   bool
	)
	m.Around(a, func(t, i int) bool {
		tri := &m.tris[t]
		if tri.V[(i+1)%3] == b {
			forward, hasFwd = Edge{t, i}, true
			return false
		}
		if tri.V[(i+2)%3] == b && !hasRev {
			reverse, hasRev = Edge{t, (i + 2) % 3}, true
		}
		return true
	})
	if hasFwd {
		return forward, true
	}
	return reverse, hasRev
}

// FindEdgeBrute is FindEdge by scanning every triangle.
func (m *Mesh) FindEdgeBrute(a, b int) (Edge, bool) {
	var (
		reverse Edge
		hasRev  bool
	)
	for t := range m.tris {
		tri := &m.tris[t]
		if tri.dead {
			continue
		}
		if i := tri.edgeSlot(a, b); i >= 0 {
			return Edge{t, i}, true
		}
		if i := tri.edgeSlot(b, a); i >= 0 && !hasRev {
			reverse, hasRev = Edge{t, i}, true
		}
	}
	return reverse, hasRev
}

// Endpoints returns the origin and destination of e.
func (m *Mesh) Endpoints(e Edge) (int, int) {
	tri := &m.tris[e.T]
	return tri.V[e.I], tri.V[(e.I+1)%3]
}

// Twin returns the same edge seen from the neighboring triangle.
func (m *Mesh) Twin(e Edge) (Edge, bool) {
	tri := &m.tris[e.T]
	n := tri.N[e.I]
	if n < 0 {
		return Edge{}, false
	}
	j := m.tris[n].edgeSlot(tri.V[(e.I+1)%3], tri.V[e.I])
	if j < 0 {
		fatalf("triangle %d is not linked back to %d", n, e.T)
	}
	return Edge{n, j}, true
}

// Constraint returns the constraint marker of e.
func (m *Mesh) Constraint(e Edge) Kind {
	return m.tris[e.T].C[e.I]
}
