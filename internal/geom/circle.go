package geom

import (
	"math"

	"github.com/golang/geo/r2"
)

// circleTolerance shrinks circles slightly for the strict containment test, so
// that points sitting on a circle up to rounding are not counted as inside.
const circleTolerance = 1e-12

type Circle struct {
	Center r2.Point
	R2     float64 // squared radius
}

// Circumcircle returns the circle through a, b and c. A degenerate triangle
// yields an infinite radius.
func Circumcircle(a, b, c r2.Point) Circle {
	bx, by := b.X-a.X, b.Y-a.Y
	cx, cy := c.X-a.X, c.Y-a.Y
	d := 2 * (bx*cy - by*cx)
	if d == 0 {
		return Circle{Center: a, R2: math.Inf(1)}
	}
	b2 := bx*bx + by*by
	c2 := cx*cx + cy*cy
	ux := (cy*b2 - by*c2) / d
	uy := (bx*c2 - cx*b2) / d
	return Circle{
		Center: r2.Point{X: a.X + ux, Y: a.Y + uy},
		R2:     ux*ux + uy*uy,
	}
}

// DiametralCircle is the smallest circle enclosing the segment a-b.
func DiametralCircle(a, b r2.Point) Circle {
	d := b.Sub(a)
	return Circle{
		Center: a.Add(b).Mul(0.5),
		R2:     d.Dot(d) / 4,
	}
}

// Contains reports whether p lies strictly inside the circle.
func (c Circle) Contains(p r2.Point) bool {
	d := p.Sub(c.Center)
	return d.Dot(d) < c.R2*(1-circleTolerance)
}

// Bound returns the bounding rectangle of the circle.
func (c Circle) Bound() r2.Rect {
	r := math.Sqrt(c.R2)
	return r2.RectFromCenterSize(c.Center, r2.Point{X: 2 * r, Y: 2 * r})
}
