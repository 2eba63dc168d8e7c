package mesh

import (
	"math"

	"github.com/adfgl/3Ugolnik-sub000/internal/geom"
	"github.com/golang/geo/r2"
)

// onEdgeRel caps the on-edge tolerance at this fraction of the edge's length,
// so a short edge never claims points further off it than its neighbors are.
const onEdgeRel = 1e-3

func (m *Mesh) onEdgeTolerance(length float64) float64 {
	return math.Min(m.eps, onEdgeRel*length)
}

// Locate walks from start (or the most recently created triangle when start
// is not a live triangle) toward p. At each triangle it leaves through the edge
// p is furthest outside of, never re-testing the edge it just came through.
//
// A walk that runs into the edge of the mesh, or takes more than three steps
// per triangle in the table, means the topology is broken.
func (m *Mesh) Locate(p r2.Point, start int) Location {
	t := start
	if t < 0 || t >= len(m.tris) || m.tris[t].dead {
		t = m.last
	}
	if m.tris[t].dead {
		for t = range m.tris {
			if !m.tris[t].dead {
				break
			}
		}
	}

	eps2 := m.eps * m.eps
	prev := -1
	limit := 3 * len(m.tris)
	for step := 0; step <= limit; step++ {
		tri := &m.tris[t]
		for i, v := range tri.V {
			if geom.Dist2(m.point(v), p) <= eps2 {
				return Location{Kind: OnVertex, Tri: t, Slot: i, Vertex: v}
			}
		}

		exit, exitO := -1, 0.0
		near, nearD := -1, math.Inf(1)
		for i := 0; i < 3; i++ {
			if prev >= 0 && tri.N[i] == prev {
				continue
			}
			a, b := m.point(tri.V[i]), m.point(tri.V[(i+1)%3])
			o := geom.Orient(a, b, p)
			l := b.Sub(a).Norm()
			if d := math.Abs(o) / l; d <= m.onEdgeTolerance(l) {
				if d < nearD {
					near, nearD = i, d
				}
				continue
			}
			if o < exitO {
				exit, exitO = i, o
			}
		}

		if exit >= 0 {
			n := tri.N[exit]
			if n < 0 {
				fatalf("point %v is outside the triangulated domain", p)
			}
			prev, t = t, n
			continue
		}
		if near >= 0 {
			return Location{Kind: OnEdge, Tri: t, Slot: near, Vertex: -1}
		}
		return Location{Kind: Inside, Tri: t, Slot: -1, Vertex: -1}
	}

	fatalf("locating %v took more than %d steps", p, limit)
	return Location{}
}
