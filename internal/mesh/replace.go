package mesh

import "github.com/adfgl/3Ugolnik-sub000/internal/geom"

// outerEdge is what replace remembers about one side of a triangle it retires.
type outerEdge struct {
	n    int  // triangle across the edge
	c    Kind // constraint on the edge
	from int  // retired triangle the edge belonged to
}

// replace retires the triangles in old and installs fresh in their place. The
// fresh triangles must cover exactly the area of the old ones. Their vertex
// ids and regions come from the caller; neighbors are derived here. An edge of
// a fresh triangle whose directed vertex pair matches an edge of an old
// triangle takes over that edge's neighbor and (unless the caller set one)
// its constraint. Edges shared by two fresh triangles are linked to each
// other, and their constraint markers synced.
//
// Old slots are reused first, then new ones appended. Slots left over are
// tombstoned. The returned ids are in the order of fresh.
func (m *Mesh) replace(old []int, fresh []Triangle) []int {
	outside := make(map[[2]int]outerEdge, 3*len(old))
	retired := make(map[int]bool, len(old))
	for _, t := range old {
		tri := &m.tris[t]
		if tri.dead {
			fatalf("replacing retired triangle %d", t)
		}
		retired[t] = true
		for i := 0; i < 3; i++ {
			key := [2]int{tri.V[i], tri.V[(i+1)%3]}
			outside[key] = outerEdge{n: tri.N[i], c: tri.C[i], from: t}
		}
	}

	ids := make([]int, len(fresh))
	for k := range fresh {
		if k < len(old) {
			ids[k] = old[k]
		} else {
			m.tris = append(m.tris, Triangle{dead: true})
			ids[k] = len(m.tris) - 1
		}
	}
	for k := len(fresh); k < len(old); k++ {
		m.tris[old[k]] = Triangle{V: m.tris[old[k]].V, N: [3]int{-1, -1, -1}, dead: true}
	}

	inner := make(map[[2]int]int, 3*len(fresh))
	for k := range fresh {
		for i := 0; i < 3; i++ {
			inner[[2]int{fresh[k].V[i], fresh[k].V[(i+1)%3]}] = 3*k + i
		}
	}

	for k := range fresh {
		f := fresh[k]
		a, b, c := m.point(f.V[0]), m.point(f.V[1]), m.point(f.V[2])
		if geom.Orient(a, b, c) <= 0 {
			fatalf("triangle %v is not counterclockwise", f.V)
		}
		f.Circle = geom.Circumcircle(a, b, c)
		f.dead = false

		for i := 0; i < 3; i++ {
			u, v := f.V[i], f.V[(i+1)%3]
			if j, ok := inner[[2]int{v, u}]; ok {
				f.N[i] = ids[j/3]
				if f.C[i] == None {
					f.C[i] = fresh[j/3].C[j%3]
				}
				continue
			}
			o, ok := outside[[2]int{u, v}]
			if !ok {
				f.N[i] = -1
				continue
			}
			if retired[o.n] {
				fatalf("edge %d->%d of triangle %v is interior to the replaced region", u, v, f.V)
			}
			f.N[i] = o.n
			if f.C[i] == None {
				f.C[i] = o.c
			}
			if o.n < 0 {
				continue
			}
			nb := &m.tris[o.n]
			j := nb.edgeSlot(v, u)
			if j < 0 || nb.N[j] != o.from {
				fatalf("triangle %d is not linked back across %d->%d", o.n, u, v)
			}
			nb.N[j] = ids[k]
			nb.C[j] = f.C[i]
		}

		m.tris[ids[k]] = f
		for _, v := range f.V {
			m.vertex(v).Tri = ids[k]
		}
	}

	m.last = ids[len(ids)-1]
	return ids
}
