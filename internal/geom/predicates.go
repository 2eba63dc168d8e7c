// Package geom holds the geometric predicates the mesh is built on. Every
// predicate that makes a topological decision (orientation, in-circle) is
// computed in floating point first and recomputed exactly when the float
// result is too close to zero to trust.
package geom

import (
	"math"
	"math/big"

	"github.com/golang/geo/r2"
)

// Error bound coefficients for the float filters, from Shewchuk's "Adaptive
// Precision Floating-Point Arithmetic and Fast Robust Geometric Predicates".
const (
	epsilon        = 1.0 / (1 << 53)
	orientErrBound = (3 + 16*epsilon) * epsilon
	circleErrBound = (10 + 96*epsilon) * epsilon
)

// Orient returns twice the signed area of the triangle a, b, c. It is positive
// when c lies to the left of the directed line a->b, negative when it lies to
// the right, and zero only when the three points are exactly collinear.
func Orient(a, b, c r2.Point) float64 {
	detLeft := (b.X - a.X) * (c.Y - a.Y)
	detRight := (b.Y - a.Y) * (c.X - a.X)
	det := detLeft - detRight

	bound := orientErrBound * (math.Abs(detLeft) + math.Abs(detRight))
	if det > bound || -det > bound {
		return det
	}
	return withSign(det, exactOrient(a, b, c))
}

// InCircle reports whether d lies strictly inside the circumcircle of the
// counterclockwise triangle a, b, c. Cocircular points are not inside.
func InCircle(a, b, c, d r2.Point) bool {
	adx, ady := a.X-d.X, a.Y-d.Y
	bdx, bdy := b.X-d.X, b.Y-d.Y
	cdx, cdy := c.X-d.X, c.Y-d.Y

	bdxcdy, cdxbdy := bdx*cdy, cdx*bdy
	cdxady, adxcdy := cdx*ady, adx*cdy
	adxbdy, bdxady := adx*bdy, bdx*ady

	alift := adx*adx + ady*ady
	blift := bdx*bdx + bdy*bdy
	clift := cdx*cdx + cdy*cdy

	det := alift*(bdxcdy-cdxbdy) + blift*(cdxady-adxcdy) + clift*(adxbdy-bdxady)
	permanent := (math.Abs(bdxcdy)+math.Abs(cdxbdy))*alift +
		(math.Abs(cdxady)+math.Abs(adxcdy))*blift +
		(math.Abs(adxbdy)+math.Abs(bdxady))*clift

	bound := circleErrBound * permanent
	if det > bound || -det > bound {
		return det > 0
	}
	return exactInCircle(a, b, c, d) > 0
}

// QuadConvex reports whether the quadrilateral a-b-c-d is strictly convex. An
// edge flip is only valid across a strictly convex quad.
func QuadConvex(a, b, c, d r2.Point) bool {
	o1 := Orient(a, b, c)
	o2 := Orient(b, c, d)
	o3 := Orient(c, d, a)
	o4 := Orient(d, a, b)
	return (o1 > 0 && o2 > 0 && o3 > 0 && o4 > 0) ||
		(o1 < 0 && o2 < 0 && o3 < 0 && o4 < 0)
}

// withSign returns a float carrying the exact sign. The float determinant is
// kept when it already agrees, so callers still see a meaningful magnitude.
func withSign(det float64, sign int) float64 {
	switch {
	case sign == 0:
		return 0
	case sign > 0 && det > 0, sign < 0 && det < 0:
		return det
	case sign > 0:
		return math.SmallestNonzeroFloat64
	default:
		return -math.SmallestNonzeroFloat64
	}
}

// The exact versions below evaluate the same determinants over the rationals.
// Every float64 is exactly representable as a big.Rat, so the sign is exact.

func exactOrient(a, b, c r2.Point) int {
	ax, ay := rat(a.X), rat(a.Y)
	left := mul(sub(rat(b.X), ax), sub(rat(c.Y), ay))
	right := mul(sub(rat(b.Y), ay), sub(rat(c.X), ax))
	return left.Cmp(right)
}

func exactInCircle(a, b, c, d r2.Point) int {
	dx, dy := rat(d.X), rat(d.Y)
	adx, ady := sub(rat(a.X), dx), sub(rat(a.Y), dy)
	bdx, bdy := sub(rat(b.X), dx), sub(rat(b.Y), dy)
	cdx, cdy := sub(rat(c.X), dx), sub(rat(c.Y), dy)

	alift := add(mul(adx, adx), mul(ady, ady))
	blift := add(mul(bdx, bdx), mul(bdy, bdy))
	clift := add(mul(cdx, cdx), mul(cdy, cdy))

	det := mul(alift, sub(mul(bdx, cdy), mul(cdx, bdy)))
	det = add(det, mul(blift, sub(mul(cdx, ady), mul(adx, cdy))))
	det = add(det, mul(clift, sub(mul(adx, bdy), mul(bdx, ady))))
	return det.Sign()
}

func rat(f float64) *big.Rat {
	r := new(big.Rat)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return r
	}
	return r.SetFloat64(f)
}

func add(a, b *big.Rat) *big.Rat { return new(big.Rat).Add(a, b) }
func sub(a, b *big.Rat) *big.Rat { return new(big.Rat).Sub(a, b) }
func mul(a, b *big.Rat) *big.Rat { return new(big.Rat).Mul(a, b) }
