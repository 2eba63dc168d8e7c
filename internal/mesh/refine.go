package mesh

import (
	"math"

	"github.com/adfgl/3Ugolnik-sub000/internal/geom"
	"github.com/golang/geo/r2"
	"go.uber.org/zap"
)

// DefaultMaxRatio bounds circumradius² / shortest edge², which keeps the
// smallest angle above roughly 20.7 degrees.
const DefaultMaxRatio = 2

// maxDeferrals caps how often one triangle may hand its circumcenter off to
// blocking segments before it is given up on.
const maxDeferrals = 8

// Quality is the target of Refine. Zero fields are not enforced.
type Quality struct {
	MaxArea    float64
	MaxRatio   float64 // circumradius² / shortest edge²
	MaxEdge    float64
	MaxSteiner int // cap on inserted vertices
}

// RatioForAngle converts a minimum angle in degrees into the equivalent bound
// on circumradius² / shortest edge².
func RatioForAngle(degrees float64) float64 {
	s := math.Sin(degrees * math.Pi / 180)
	return 1 / (4 * s * s)
}

func (q Quality) Active() bool {
	return q.MaxArea > 0 || q.MaxRatio > 0 || q.MaxEdge > 0
}

// Bad reports whether interior triangle t misses the quality target.
func (m *Mesh) Bad(t int, q Quality) bool {
	tri := &m.tris[t]
	if tri.dead || tri.Region != Interior {
		return false
	}
	a, b, c := m.point(tri.V[0]), m.point(tri.V[1]), m.point(tri.V[2])
	if q.MaxArea > 0 && geom.Area(a, b, c) > q.MaxArea {
		return true
	}
	l0, l1, l2 := geom.Dist2(a, b), geom.Dist2(b, c), geom.Dist2(c, a)
	if q.MaxEdge > 0 && math.Max(l0, math.Max(l1, l2)) > q.MaxEdge*q.MaxEdge {
		return true
	}
	return q.MaxRatio > 0 && tri.Circle.R2 > q.MaxRatio*math.Min(l0, math.Min(l1, l2))
}

// triRef pins a queued triangle to its vertices, so a slot reused by another
// triangle is recognized as stale.
type triRef struct {
	t int
	v [3]int
}

type refiner struct {
	m         *Mesh
	q         Quality
	segQ      []int
	triQ      []triRef
	defers    map[triRef]int
	steiner   int
	abandoned int
}

// RefineStats reports what Refine did. Abandoned counts work given up on:
// segments too short to split and triangles that kept deferring. Unresolved
// counts the bad triangles and encroached or overlong segments left at the
// end; it is zero when the quality target was met.
type RefineStats struct {
	Inserted   int
	Abandoned  int
	Unresolved int
	Stalled    bool // stopped because no vertex was inserted for too long
}

// Refine inserts vertices until no segment is encroached and no interior
// triangle is bad. Only triangles Classify tagged interior are refined.
func (m *Mesh) Refine(q Quality) RefineStats {
	r := &refiner{m: m, q: q, defers: make(map[triRef]int)}

	for id := range m.segs {
		if !m.segs[id].dead && (m.encroached(id) || r.tooLong(id)) {
			r.segQ = append(r.segQ, id)
		}
	}
	for t := range m.tris {
		r.queueIfBad(t)
	}
	m.log.Info("refining",
		zap.Int("segments", len(r.segQ)),
		zap.Int("triangles", len(r.triQ)))

	var stats RefineStats
	idle, budget := 0, r.idleBudget()
	for len(r.segQ) > 0 || len(r.triQ) > 0 {
		if q.MaxSteiner > 0 && r.steiner >= q.MaxSteiner {
			m.log.Warn("stopped refining at the vertex cap", zap.Int("cap", q.MaxSteiner))
			break
		}
		if idle > budget {
			m.log.Warn("stopped refining, no progress",
				zap.Int("iterations", idle),
				zap.Int("queued", len(r.segQ)+len(r.triQ)))
			stats.Stalled = true
			break
		}

		before := r.steiner
		if len(r.segQ) > 0 {
			id := r.segQ[0]
			r.segQ = r.segQ[1:]
			r.splitSegment(id)
		} else {
			ref := r.triQ[0]
			r.triQ = r.triQ[1:]
			r.splitTriangle(ref)
		}
		if r.steiner > before {
			idle, budget = 0, r.idleBudget()
		} else {
			idle++
		}
	}

	stats.Inserted = r.steiner
	stats.Abandoned = r.abandoned
	stats.Unresolved = m.Unresolved(q)
	if stats.Abandoned > 0 || stats.Unresolved > 0 {
		m.log.Warn("quality target not met",
			zap.Int("abandoned", stats.Abandoned),
			zap.Int("unresolved", stats.Unresolved))
	}
	m.log.Info("refined", zap.Int("inserted", r.steiner))
	return stats
}

// idleBudget bounds the iterations allowed in a row without inserting a
// vertex. Without insertions every queued triangle comes back at most
// maxDeferrals times, each time with some segments, so this is only reached
// when the queues cycle.
func (r *refiner) idleBudget() int {
	return (maxDeferrals + 2) * (len(r.segQ) + len(r.triQ) + len(r.m.segs) + 64)
}

// Unresolved counts interior triangles that miss q and live segments that are
// encroached or longer than q.MaxEdge.
func (m *Mesh) Unresolved(q Quality) int {
	n := 0
	for t := range m.tris {
		if m.Bad(t, q) {
			n++
		}
	}
	r := &refiner{m: m, q: q}
	for id := range m.segs {
		if !m.segs[id].dead && (m.encroached(id) || r.tooLong(id)) {
			n++
		}
	}
	return n
}

func (r *refiner) tooLong(id int) bool {
	return r.q.MaxEdge > 0 && 4*r.m.segs[id].Circle.R2 > r.q.MaxEdge*r.q.MaxEdge
}

func (r *refiner) queueIfBad(t int) {
	m := r.m
	if t < 0 || t >= len(m.tris) || !m.Bad(t, r.q) {
		return
	}
	r.triQ = append(r.triQ, triRef{t, m.tris[t].V})
}

func (r *refiner) current(ref triRef) bool {
	tri := &r.m.tris[ref.t]
	return !tri.dead && tri.V == ref.v
}

func (r *refiner) abandon(msg string, fields ...zap.Field) {
	r.abandoned++
	r.m.log.Debug(msg, fields...)
}

// splittable reports whether splitting segment id at its midpoint would add a
// vertex.
func (r *refiner) splittable(id int) bool {
	m := r.m
	s := &m.segs[id]
	if s.dead {
		return false
	}
	if _, ok := m.FindEdge(s.A, s.B); !ok {
		return false
	}
	_, exists := m.FindVertex(s.Circle.Center)
	return !exists
}

// splitSegment splits a queued segment at its midpoint. It reports whether a
// vertex was inserted.
func (r *refiner) splitSegment(id int) bool {
	m := r.m
	s := m.segs[id]
	if s.dead {
		return false
	}
	e, ok := m.FindEdge(s.A, s.B)
	if !ok {
		r.abandon("segment is no longer an edge", zap.Int("from", s.A), zap.Int("to", s.B))
		return false
	}
	mid := s.Circle.Center
	if _, exists := m.FindVertex(mid); exists {
		r.abandon("segment is too short to split", zap.Int("from", s.A), zap.Int("to", s.B))
		return false
	}
	v, touched := m.splitEdge(e, mid)
	r.steiner++
	r.inserted(v, touched)
	return true
}

// splitTriangle inserts the circumcenter of a queued bad triangle, unless the
// circumcenter encroaches a segment or lies outside the domain, in which case
// a segment is split first.
func (r *refiner) splitTriangle(ref triRef) {
	m := r.m
	if !r.current(ref) || !m.Bad(ref.t, r.q) {
		return
	}
	c := m.tris[ref.t].Circle.Center

	if ids := m.encroachedBy(c, -1); len(ids) > 0 {
		r.handOff(ref, ids...)
		return
	}
	if !m.bounds.ContainsPoint(c) {
		r.deferTo(ref, c)
		return
	}
	loc := m.Locate(c, ref.t)
	if m.tris[loc.Tri].Region != Interior {
		r.deferTo(ref, c)
		return
	}
	switch loc.Kind {
	case OnVertex:
		r.abandon("circumcenter is an existing vertex", zap.Int("triangle", ref.t))
		return
	case OnEdge:
		if m.tris[loc.Tri].C[loc.Slot] != None {
			a, b := m.Endpoints(Edge{loc.Tri, loc.Slot})
			if id, ok := m.segIDs[segKey(a, b)]; ok {
				r.handOff(ref, id)
			} else {
				r.abandon("circumcenter is on an unregistered constrained edge", zap.Int("triangle", ref.t))
			}
			return
		}
	}

	v, touched := m.insertAt(c, loc)
	r.steiner++
	r.inserted(v, touched)
}

// handOff queues the segments blocking a triangle ahead of it, then the
// triangle again. Segments that cannot be split are dropped, and a triangle
// with nothing left to wait for, or that has been handed off too often, is
// given up on.
func (r *refiner) handOff(ref triRef, ids ...int) {
	m := r.m
	var open []int
	for _, id := range ids {
		if r.splittable(id) {
			open = append(open, id)
		}
	}
	if len(open) == 0 {
		r.abandon("blocking segments are too short to split", zap.Int("triangle", ref.t))
		return
	}
	r.defers[ref]++
	if r.defers[ref] > maxDeferrals {
		r.abandon("giving up on triangle", zap.Int("triangle", ref.t))
		return
	}
	m.log.Debug("deferring triangle", zap.Int("triangle", ref.t), zap.Ints("segments", open))
	r.segQ = append(r.segQ, open...)
	r.triQ = append(r.triQ, ref)
}

// deferTo hands a triangle off to the segment separating it from its
// circumcenter.
func (r *refiner) deferTo(ref triRef, c r2.Point) {
	m := r.m
	a, b, cc := m.point(ref.v[0]), m.point(ref.v[1]), m.point(ref.v[2])
	from := a.Add(b).Add(cc).Mul(1.0 / 3)

	best, bestD := -1, math.Inf(1)
	for id := range m.segs {
		s := &m.segs[id]
		if s.dead {
			continue
		}
		if x, ok := geom.SegmentIntersect(from, c, m.point(s.A), m.point(s.B)); ok {
			if d := geom.Dist2(from, x); d < bestD {
				best, bestD = id, d
			}
		}
	}
	if best < 0 {
		r.abandon("no segment separates triangle from its circumcenter", zap.Int("triangle", ref.t))
		return
	}
	r.handOff(ref, best)
}

// inserted queues the work a new vertex creates: segments it encroaches,
// segments ending at it, and bad triangles among those just created.
func (r *refiner) inserted(v int, touched []int) {
	m := r.m
	p := m.point(v)

	m.Around(v, func(t, i int) bool {
		tri := &m.tris[t]
		for _, k := range [2]int{i, (i + 2) % 3} {
			if tri.C[k] == None {
				continue
			}
			id, ok := m.segIDs[segKey(tri.V[k], tri.V[(k+1)%3])]
			if ok && (m.encroached(id) || r.tooLong(id)) {
				r.segQ = append(r.segQ, id)
			}
		}
		return true
	})
	for _, id := range m.encroachedBy(p, v) {
		if m.visible(p, id) {
			r.segQ = append(r.segQ, id)
		}
	}

	seen := make(map[int]bool, len(touched))
	for _, t := range touched {
		if !seen[t] {
			seen[t] = true
			r.queueIfBad(t)
		}
	}
}
