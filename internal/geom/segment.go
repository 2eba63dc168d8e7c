package geom

import (
	"math"

	"github.com/golang/geo/r2"
)

// SegmentIntersect returns the point where p1-p2 meets q1-q2, restricted to
// both segments. Parallel segments never intersect here.
func SegmentIntersect(p1, p2, q1, q2 r2.Point) (r2.Point, bool) {
	r := p2.Sub(p1)
	s := q2.Sub(q1)
	denom := r.Cross(s)
	if denom == 0 {
		return r2.Point{}, false
	}
	qp := q1.Sub(p1)
	t := qp.Cross(s) / denom
	u := qp.Cross(r) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return r2.Point{}, false
	}
	return p1.Add(r.Mul(t)), true
}

// LineIntersect intersects the infinite lines through p1-p2 and q1-q2.
func LineIntersect(p1, p2, q1, q2 r2.Point) (r2.Point, bool) {
	r := p2.Sub(p1)
	s := q2.Sub(q1)
	denom := r.Cross(s)
	if denom == 0 {
		return r2.Point{}, false
	}
	t := q1.Sub(p1).Cross(s) / denom
	return p1.Add(r.Mul(t)), true
}

// SegmentsCross reports a proper crossing: each segment has its endpoints
// strictly on opposite sides of the other. Touching at an endpoint or
// overlapping collinearly does not count.
func SegmentsCross(p1, p2, q1, q2 r2.Point) bool {
	return opposite(Orient(p1, p2, q1), Orient(p1, p2, q2)) &&
		opposite(Orient(q1, q2, p1), Orient(q1, q2, p2))
}

func opposite(a, b float64) bool {
	return (a > 0 && b < 0) || (a < 0 && b > 0)
}

// Area is the signed area of the triangle a, b, c.
func Area(a, b, c r2.Point) float64 {
	return Orient(a, b, c) / 2
}

// DistToLine is the distance from p to the infinite line through a and b.
func DistToLine(p, a, b r2.Point) float64 {
	l := b.Sub(a).Norm()
	if l == 0 {
		return p.Sub(a).Norm()
	}
	return math.Abs(Orient(a, b, p)) / l
}

// Angle is the angle at o between the rays o->a and o->b, in radians.
func Angle(o, a, b r2.Point) float64 {
	u := a.Sub(o)
	v := b.Sub(o)
	return math.Atan2(math.Abs(u.Cross(v)), u.Dot(v))
}

// Dist2 is the squared distance between a and b.
func Dist2(a, b r2.Point) float64 {
	d := b.Sub(a)
	return d.Dot(d)
}
