package ugolnik

import "math"

// Curve is a path that gets flattened into user constraints. It is
// implemented by Line, Arc and Bezier.
type Curve interface {
	// PointAt maps t in [0, 1] onto the curve.
	PointAt(t float64) Point
	Length() float64
	curve()
}

type Line struct {
	From, To Point
}

func (l Line) PointAt(t float64) Point {
	return l.From.Add(l.To.Sub(l.From).Mul(t))
}

func (l Line) Length() float64 {
	return l.To.Sub(l.From).Norm()
}

func (Line) curve() {}

// Arc runs around Center from From to To, counterclockwise unless Clockwise
// is set. From == To is a full circle. If From and To are at different
// distances from Center the radius is interpolated.
type Arc struct {
	Center    Point
	From, To  Point
	Clockwise bool
}

func (a Arc) sweep() (start, delta float64) {
	u, v := a.From.Sub(a.Center), a.To.Sub(a.Center)
	start = math.Atan2(u.Y, u.X)
	delta = math.Atan2(v.Y, v.X) - start
	if a.Clockwise {
		delta = -delta
	}
	delta = math.Mod(delta, 2*math.Pi)
	if delta <= 0 {
		delta += 2 * math.Pi
	}
	if a.Clockwise {
		delta = -delta
	}
	return start, delta
}

func (a Arc) PointAt(t float64) Point {
	start, delta := a.sweep()
	r0 := a.From.Sub(a.Center).Norm()
	r1 := a.To.Sub(a.Center).Norm()
	r := r0 + (r1-r0)*t
	angle := start + delta*t
	return a.Center.Add(Point{X: math.Cos(angle), Y: math.Sin(angle)}.Mul(r))
}

func (a Arc) Length() float64 {
	_, delta := a.sweep()
	r := (a.From.Sub(a.Center).Norm() + a.To.Sub(a.Center).Norm()) / 2
	return math.Abs(delta) * r
}

func (Arc) curve() {}

// Bezier is a Bézier curve of any degree given by its control points.
type Bezier struct {
	Points []Point
}

// PointAt evaluates with de Casteljau's algorithm.
func (b Bezier) PointAt(t float64) Point {
	if len(b.Points) == 0 {
		return Point{}
	}
	work := append([]Point(nil), b.Points...)
	for n := len(work) - 1; n > 0; n-- {
		for i := 0; i < n; i++ {
			work[i] = work[i].Add(work[i+1].Sub(work[i]).Mul(t))
		}
	}
	return work[0]
}

// Length is approximated by a fine polyline.
func (b Bezier) Length() float64 {
	return polylineLength(SplitIntoLines(b, 64))
}

func (Bezier) curve() {}

// SplitIntoLines samples n+1 evenly spaced parameters of c, giving a chain of
// n segments. Both ends of the curve are included.
func SplitIntoLines(c Curve, n int) []Point {
	if n < 1 {
		n = 1
	}
	points := make([]Point, n+1)
	for i := range points {
		points[i] = c.PointAt(float64(i) / float64(n))
	}
	return points
}

func polylineLength(points []Point) float64 {
	var sum float64
	for i := 1; i < len(points); i++ {
		sum += points[i].Sub(points[i-1]).Norm()
	}
	return sum
}
