package mesh

import (
	"math"
	"math/rand"
	"testing"

	"github.com/adfgl/3Ugolnik-sub000/internal/geom"
	"github.com/adfgl/3Ugolnik-sub000/internal/quadtree"
	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func pt(x, y float64) r2.Point { return r2.Point{X: x, Y: y} }

// fromTriangles builds a mesh with no super triangle out of explicit
// triangles, linking neighbors by shared edges.
func fromTriangles(points []r2.Point, tris [][3]int) *Mesh {
	bounds := r2.RectFromPoints(points...)
	m := &Mesh{
		bounds:   bounds.Expanded(r2.Point{X: 1, Y: 1}),
		eps:      1e-9,
		segIDs:   make(map[[2]int]int),
		log:      zap.NewNop(),
		index:    quadtree.New(bounds.Expanded(r2.Point{X: 1, Y: 1}), 0, 0),
		segIndex: quadtree.New(bounds.Expanded(r2.Point{X: 1, Y: 1}), 0, 0),
	}
	for _, p := range points {
		m.addVertex(p)
	}
	edges := make(map[[2]int]int)
	for t, v := range tris {
		tri := newTriangle(v[0], v[1], v[2], Interior)
		tri.Circle = geom.Circumcircle(points[v[0]], points[v[1]], points[v[2]])
		m.tris = append(m.tris, tri)
		for i := 0; i < 3; i++ {
			edges[[2]int{v[i], v[(i+1)%3]}] = t
			m.verts[v[i]].Tri = t
		}
	}
	for t := range m.tris {
		tri := &m.tris[t]
		for i := 0; i < 3; i++ {
			if n, ok := edges[[2]int{tri.V[(i+1)%3], tri.V[i]}]; ok {
				tri.N[i] = n
			}
		}
	}
	return m
}

func square(size float64) *Mesh {
	return New(r2.RectFromPoints(pt(0, 0), pt(size, size)), Config{})
}

// insertContour inserts a closed polygon and its edges as constraints of kind.
func insertContour(m *Mesh, points []r2.Point, kind Kind) []int {
	ids := make([]int, len(points))
	for i, p := range points {
		ids[i] = m.Insert(p)
	}
	for i := range ids {
		m.InsertConstraint(ids[i], ids[(i+1)%len(ids)], kind)
	}
	return ids
}

func liveTriangles(m *Mesh) int {
	n := 0
	m.Each(func(int, *Triangle) { n++ })
	return n
}

func totalArea(m *Mesh, region Region) float64 {
	sum := 0.0
	m.Each(func(_ int, tri *Triangle) {
		if tri.Region == region {
			sum += geom.Area(m.point(tri.V[0]), m.point(tri.V[1]), m.point(tri.V[2]))
		}
	})
	return sum
}

func randomPoints(seed int64, n int, lo, hi float64) []r2.Point {
	rng := rand.New(rand.NewSource(seed))
	points := make([]r2.Point, n)
	for i := range points {
		points[i] = pt(lo+rng.Float64()*(hi-lo), lo+rng.Float64()*(hi-lo))
	}
	return points
}

// requireDelaunay checks every unconstrained edge between two triangles made
// of real vertices.
func requireDelaunay(t *testing.T, m *Mesh) {
	m.Each(func(id int, tri *Triangle) {
		if tri.hasSuper() {
			return
		}
		for i, n := range tri.N {
			if n < 0 || tri.C[i] != None || m.tris[n].hasSuper() {
				continue
			}
			nb := &m.tris[n]
			d := nb.V[(nb.edgeSlot(tri.V[(i+1)%3], tri.V[i])+2)%3]
			require.False(t,
				geom.InCircle(m.point(tri.V[0]), m.point(tri.V[1]), m.point(tri.V[2]), m.point(d)),
				"vertex %d is inside the circumcircle of triangle %d %v", d, id, tri.V)
		}
	})
}

// requireNoEncroachment checks that no vertex is strictly inside the
// diametral circle of a live segment.
func requireNoEncroachment(t *testing.T, m *Mesh) {
	for _, s := range m.Segments() {
		for _, v := range m.verts {
			if v.ID == s.A || v.ID == s.B {
				continue
			}
			require.False(t, s.Circle.Contains(v.Point),
				"vertex %d encroaches segment %d-%d", v.ID, s.A, s.B)
		}
	}
}

func minAngle(m *Mesh, tri *Triangle) float64 {
	a, b, c := m.point(tri.V[0]), m.point(tri.V[1]), m.point(tri.V[2])
	return math.Min(geom.Angle(a, b, c), math.Min(geom.Angle(b, c, a), geom.Angle(c, a, b)))
}
