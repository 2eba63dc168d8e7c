package mesh

import (
	"github.com/adfgl/3Ugolnik-sub000/internal/geom"
	"github.com/pkg/errors"
)

// Validate checks the invariants every mutation is supposed to preserve:
// winding, neighbor symmetry, constraint agreement between twins, vertex
// back-references and that every live segment is a marked edge.
func (m *Mesh) Validate() error {
	for t := range m.tris {
		tri := &m.tris[t]
		if tri.dead {
			continue
		}
		a, b, c := m.point(tri.V[0]), m.point(tri.V[1]), m.point(tri.V[2])
		if geom.Orient(a, b, c) <= 0 {
			return errors.Errorf("triangle %d %v is not counterclockwise", t, tri.V)
		}
		for i, n := range tri.N {
			if n < 0 {
				continue
			}
			if n >= len(m.tris) || m.tris[n].dead {
				return errors.Errorf("triangle %d links to retired triangle %d", t, n)
			}
			nb := &m.tris[n]
			j := nb.edgeSlot(tri.V[(i+1)%3], tri.V[i])
			if j < 0 || nb.N[j] != t {
				return errors.Errorf("triangle %d is not linked back to %d", n, t)
			}
			if nb.C[j] != tri.C[i] {
				return errors.Errorf("edge %d->%d is %v in triangle %d but %v in %d",
					tri.V[i], tri.V[(i+1)%3], tri.C[i], t, nb.C[j], n)
			}
		}
	}

	for id := range m.verts {
		tr := m.verts[id].Tri
		if tr < 0 || tr >= len(m.tris) || m.tris[tr].dead || m.tris[tr].slotOf(id) < 0 {
			return errors.Errorf("vertex %d has a stale triangle reference %d", id, tr)
		}
	}

	for _, s := range m.Segments() {
		e, ok := m.FindEdge(s.A, s.B)
		if !ok {
			return errors.Errorf("segment %d-%d is not an edge", s.A, s.B)
		}
		if k := m.Constraint(e); k != s.Kind {
			return errors.Errorf("segment %d-%d is %v but its edge is %v", s.A, s.B, s.Kind, k)
		}
	}
	return nil
}
