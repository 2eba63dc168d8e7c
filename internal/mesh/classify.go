package mesh

import "go.uber.org/zap"

const (
	inContour uint8 = 1 << iota
	inHole
	visited
)

// Classify tags every live triangle as interior or exterior by flooding out
// from the super triangle. Contour and hole crossings are counted separately:
// a triangle is interior when it has crossed the contour an odd number of
// times and the holes an even number of times, so a hole poking out of the
// contour does not turn the outside into domain. User constraints are
// ignored. Triangles created later inherit the region of the ones they
// replace.
func (m *Mesh) Classify() {
	state := make([]uint8, len(m.tris))
	var queue []int
	for t := range m.tris {
		tri := &m.tris[t]
		if tri.dead {
			continue
		}
		tri.Region = Unknown
		if tri.hasSuper() {
			tri.Region = Exterior
			state[t] = visited
			queue = append(queue, t)
		}
	}

	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]
		tri := &m.tris[t]
		for i, n := range tri.N {
			if n < 0 || state[n]&visited != 0 {
				continue
			}
			s := state[t]
			switch tri.C[i] {
			case Contour:
				s ^= inContour
			case Hole:
				s ^= inHole
			}
			state[n] = s
			m.tris[n].Region = Exterior
			if s&(inContour|inHole) == inContour {
				m.tris[n].Region = Interior
			}
			queue = append(queue, n)
		}
	}

	interior := 0
	m.Each(func(_ int, tri *Triangle) {
		if tri.Region == Interior {
			interior++
		}
	})
	m.log.Info("classified triangles", zap.Int("interior", interior))
}
