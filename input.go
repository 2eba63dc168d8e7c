package ugolnik

import (
	"math"

	"github.com/adfgl/3Ugolnik-sub000/internal/geom"
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var ErrInvalidInput = errors.New("invalid input")

// Input describes the domain. The contour and each hole are closed rings in
// either orientation; the closing edge is implied. Points and Constraints are
// extra vertices and segments to keep in the mesh, and Curves are flattened
// into chains of user constraints.
type Input struct {
	Contour     []Point
	Holes       [][]Point
	Points      []Point
	Constraints [][2]Point
	Curves      []Curve
}

// prepared is the input after cleanup: duplicate vertices collapsed,
// unusable holes and stray points dropped, curves flattened.
type prepared struct {
	contour     []Point
	holes       [][]Point
	points      []Point
	constraints [][2]Point
	bounds      r2.Rect
	eps         float64
}

func prepare(in Input, opts Options, log *zap.Logger) (*prepared, error) {
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrapf(ErrInvalidInput, "%v", err)
	}
	if len(in.Contour) == 0 {
		return nil, errors.Wrap(ErrInvalidInput, "empty contour")
	}
	for _, p := range in.Contour {
		if !finite(p) {
			return nil, errors.Wrapf(ErrInvalidInput, "contour point %v is not finite", p)
		}
	}

	bounds := r2.RectFromPoints(in.Contour...)
	extent := math.Max(bounds.Size().X, bounds.Size().Y)
	eps := opts.Epsilon
	if eps <= 0 {
		eps = DefaultEpsilon
	}
	eps *= math.Max(extent, 1)

	out := &prepared{eps: eps}
	out.contour = cleanRing(in.Contour, eps)
	if len(out.contour) < 3 {
		return nil, errors.Wrapf(ErrInvalidInput, "contour needs at least 3 unique points, got %d", len(out.contour))
	}
	if math.Abs(ringArea(out.contour)) <= eps*extent {
		return nil, errors.Wrap(ErrInvalidInput, "contour has zero area")
	}

	for i, hole := range in.Holes {
		ring := cleanRing(hole, eps)
		reason := ""
		switch {
		case !allFinite(ring):
			reason = "not finite"
		case len(ring) < 3:
			reason = "fewer than 3 unique points"
		case math.Abs(ringArea(ring)) <= eps*extent:
			reason = "zero area"
		case !overlaps(ring, out.contour, eps):
			reason = "outside the contour"
		}
		if reason == "" {
			for _, kept := range out.holes {
				if overlaps(ring, kept, eps) {
					reason = "overlaps an earlier hole"
					break
				}
			}
		}
		if reason != "" {
			log.Warn("dropping hole", zap.Int("hole", i), zap.String("reason", reason))
			continue
		}
		out.holes = append(out.holes, ring)
	}

	for _, p := range in.Points {
		if finite(p) && out.inside(p) {
			out.points = append(out.points, p)
		} else {
			log.Debug("dropping point outside the domain", zap.Stringer("point", p))
		}
	}

	all := append([]Point(nil), out.contour...)
	for _, hole := range out.holes {
		all = append(all, hole...)
	}
	for _, c := range in.Constraints {
		if !finite(c[0]) || !finite(c[1]) {
			return nil, errors.Wrapf(ErrInvalidInput, "constraint %v is not finite", c)
		}
		out.constraints = append(out.constraints, c)
		all = append(all, c[0], c[1])
	}
	for i, c := range in.Curves {
		if c == nil {
			return nil, errors.Wrapf(ErrInvalidInput, "curve %d is nil", i)
		}
		chain := SplitIntoLines(c, curveSegments(c, opts))
		if !allFinite(chain) {
			return nil, errors.Wrapf(ErrInvalidInput, "curve %d is not finite", i)
		}
		for j := 1; j < len(chain); j++ {
			out.constraints = append(out.constraints, [2]Point{chain[j-1], chain[j]})
		}
		all = append(all, chain...)
	}
	out.bounds = r2.RectFromPoints(all...)
	return out, nil
}

func curveSegments(c Curve, opts Options) int {
	if _, ok := c.(Line); ok {
		return 1
	}
	if opts.MaxEdge > 0 {
		return int(math.Max(1, math.Ceil(c.Length()/opts.MaxEdge)))
	}
	if opts.CurveSegments > 0 {
		return opts.CurveSegments
	}
	return DefaultCurveSegments
}

// inside reports whether p is in the contour and outside every hole.
// Points on a boundary count as inside.
func (in *prepared) inside(p Point) bool {
	if !onRing(p, in.contour, in.eps) && !inRing(p, in.contour) {
		return false
	}
	for _, hole := range in.holes {
		if !onRing(p, hole, in.eps) && inRing(p, hole) {
			return false
		}
	}
	return true
}

func finite(p Point) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

func allFinite(points []Point) bool {
	for _, p := range points {
		if !finite(p) {
			return false
		}
	}
	return true
}

// cleanRing drops consecutive points within eps of each other, including a
// repeated first point at the end.
func cleanRing(points []Point, eps float64) []Point {
	out := make([]Point, 0, len(points))
	for _, p := range points {
		if len(out) > 0 && near(out[len(out)-1], p, eps) {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && near(out[0], out[len(out)-1], eps) {
		out = out[:len(out)-1]
	}
	return out
}

func near(a, b Point, eps float64) bool {
	return a.Sub(b).Norm() <= eps
}

// ringArea is the signed shoelace area, positive for counterclockwise rings.
func ringArea(ring []Point) float64 {
	var sum float64
	for i, p := range ring {
		sum += p.Cross(ring[(i+1)%len(ring)])
	}
	return sum / 2
}

// inRing is an even-odd ray cast. Results for points on the ring itself are
// arbitrary.
func inRing(p Point, ring []Point) bool {
	in := false
	for i, a := range ring {
		b := ring[(i+1)%len(ring)]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := a.X + (p.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if p.X < x {
				in = !in
			}
		}
	}
	return in
}

func onRing(p Point, ring []Point, eps float64) bool {
	for i, a := range ring {
		b := ring[(i+1)%len(ring)]
		ab := b.Sub(a)
		t := p.Sub(a).Dot(ab) / ab.Dot(ab)
		t = math.Max(0, math.Min(1, t))
		if near(p, a.Add(ab.Mul(t)), eps) {
			return true
		}
	}
	return false
}

// overlaps reports whether ring a shares any area with ring b: a vertex of
// one strictly inside the other, or a proper edge crossing.
func overlaps(a, b []Point, eps float64) bool {
	for _, p := range a {
		if !onRing(p, b, eps) && inRing(p, b) {
			return true
		}
	}
	for _, p := range b {
		if !onRing(p, a, eps) && inRing(p, a) {
			return true
		}
	}
	for i := range a {
		for j := range b {
			if geom.SegmentsCross(a[i], a[(i+1)%len(a)], b[j], b[(j+1)%len(b)]) {
				return true
			}
		}
	}
	return false
}
