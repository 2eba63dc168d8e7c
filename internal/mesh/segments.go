package mesh

import (
	"math"

	"github.com/adfgl/3Ugolnik-sub000/internal/geom"
	"github.com/adfgl/3Ugolnik-sub000/internal/quadtree"
	"github.com/golang/geo/r2"
)

// addSegment registers a-b as a live constrained segment. Registering an
// existing segment only updates its kind.
func (m *Mesh) addSegment(a, b int, kind Kind) int {
	key := segKey(a, b)
	if id, ok := m.segIDs[key]; ok {
		m.segs[id].Kind = kind
		return id
	}
	s := Segment{
		A:      key[0],
		B:      key[1],
		Kind:   kind,
		Circle: geom.DiametralCircle(m.point(key[0]), m.point(key[1])),
	}
	id := len(m.segs)
	m.segs = append(m.segs, s)
	m.segIDs[key] = id
	m.segIndex.Insert(id, s.Circle.Center)
	m.maxSegR2 = math.Max(m.maxSegR2, s.Circle.R2)
	return id
}

// splitSegment replaces the live segment a-b with a-v and v-b.
func (m *Mesh) splitSegment(a, b, v int) (int, int, bool) {
	key := segKey(a, b)
	id, ok := m.segIDs[key]
	if !ok {
		return -1, -1, false
	}
	s := m.segs[id]
	m.segs[id].dead = true
	delete(m.segIDs, key)
	m.segIndex.Remove(id, s.Circle.Center)
	return m.addSegment(s.A, v, s.Kind), m.addSegment(v, s.B, s.Kind), true
}

// Segments returns the live constrained segments.
func (m *Mesh) Segments() []Segment {
	var live []Segment
	for _, s := range m.segs {
		if !s.dead {
			live = append(live, s)
		}
	}
	return live
}

// SegmentBetween looks up the live segment joining a and b.
func (m *Mesh) SegmentBetween(a, b int) (Segment, bool) {
	id, ok := m.segIDs[segKey(a, b)]
	if !ok {
		return Segment{}, false
	}
	return m.segs[id], true
}

// Encroached reports whether a vertex other than the segment's endpoints lies
// strictly inside its diametral circle and can see the segment.
func (m *Mesh) Encroached(s Segment) bool {
	id, ok := m.segIDs[segKey(s.A, s.B)]
	return ok && m.encroached(id)
}

func (m *Mesh) encroached(id int) bool {
	s := &m.segs[id]
	found := false
	_ = m.index.Query(s.Circle.Bound(), func(item quadtree.Item) error {
		if item.ID == s.A || item.ID == s.B || !s.Circle.Contains(item.Point) {
			return nil
		}
		if !m.visible(item.Point, id) {
			return nil
		}
		found = true
		return quadtree.Stop
	})
	return found
}

// visible reports whether the probe from p to the middle of segment id is
// clear of every other live segment.
func (m *Mesh) visible(p r2.Point, id int) bool {
	mid := m.segs[id].Circle.Center
	for k := range m.segs {
		s := &m.segs[k]
		if k == id || s.dead {
			continue
		}
		if geom.SegmentsCross(p, mid, m.point(s.A), m.point(s.B)) {
			return false
		}
	}
	return true
}

// encroachedBy returns the live segments whose diametral circle strictly
// contains p. Segments ending at vertex skip are ignored.
func (m *Mesh) encroachedBy(p r2.Point, skip int) []int {
	if m.maxSegR2 == 0 {
		return nil
	}
	r := math.Sqrt(m.maxSegR2)
	rect := r2.RectFromCenterSize(p, r2.Point{X: 2 * r, Y: 2 * r})

	var ids []int
	_ = m.segIndex.Query(rect, func(item quadtree.Item) error {
		s := &m.segs[item.ID]
		if s.dead || s.A == skip || s.B == skip {
			return nil
		}
		if s.Circle.Contains(p) {
			ids = append(ids, item.ID)
		}
		return nil
	})
	return ids
}
