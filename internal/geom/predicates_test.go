package geom

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pt(x, y float64) r2.Point { return r2.Point{X: x, Y: y} }

func TestOrient(t *testing.T) {
	t.Run("left, right and collinear", func(t *testing.T) {
		assert.Greater(t, Orient(pt(0, 0), pt(1, 0), pt(0, 1)), 0.0)
		assert.Less(t, Orient(pt(0, 0), pt(0, 1), pt(1, 0)), 0.0)
		assert.Equal(t, 0.0, Orient(pt(0, 0), pt(1, 1), pt(2, 2)))
	})

	t.Run("magnitude is twice the area", func(t *testing.T) {
		assert.InDelta(t, 16.0, Orient(pt(0, 0), pt(4, 0), pt(0, 4)), 1e-12)
		assert.InDelta(t, 8.0, Area(pt(0, 0), pt(4, 0), pt(0, 4)), 1e-12)
	})

	t.Run("exact on nearly collinear input", func(t *testing.T) {
		a, b := pt(0.5, 0.5), pt(12, 12)
		assert.Equal(t, 0.0, Orient(a, b, pt(24, 24)))

		above := pt(24, math.Nextafter(24, 25))
		below := pt(24, math.Nextafter(24, 23))
		assert.Greater(t, Orient(a, b, above), 0.0)
		assert.Less(t, Orient(a, b, below), 0.0)
	})

	t.Run("rotation invariant sign", func(t *testing.T) {
		a, b, c := pt(0.1, 0.3), pt(7.7, 0.2), pt(3.3, 9.1)
		s := Orient(a, b, c)
		require.Greater(t, s, 0.0)
		assert.Greater(t, Orient(b, c, a), 0.0)
		assert.Greater(t, Orient(c, a, b), 0.0)
		assert.Less(t, Orient(a, c, b), 0.0)
	})
}

func TestInCircle(t *testing.T) {
	a, b, c := pt(0, 0), pt(1, 0), pt(0, 1)
	assert.True(t, InCircle(a, b, c, pt(0.5, 0.5)))
	assert.False(t, InCircle(a, b, c, pt(2, 2)))
	// (1,1) is cocircular with the other three
	assert.False(t, InCircle(a, b, c, pt(1, 1)))

	t.Run("exact near the circle", func(t *testing.T) {
		assert.True(t, InCircle(a, b, c, pt(1, math.Nextafter(1, 0))))
		assert.False(t, InCircle(a, b, c, pt(1, math.Nextafter(1, 2))))
	})
}

func TestQuadConvex(t *testing.T) {
	assert.True(t, QuadConvex(pt(0, 0), pt(1, 0), pt(1, 1), pt(0, 1)))
	assert.True(t, QuadConvex(pt(0, 1), pt(1, 1), pt(1, 0), pt(0, 0)))
	// dart: the fourth point is pulled inside the triangle of the others
	assert.False(t, QuadConvex(pt(0, 0), pt(4, 0), pt(0.5, 0.5), pt(0, 4)))
	// a collinear corner is not strictly convex
	assert.False(t, QuadConvex(pt(0, 0), pt(1, 0), pt(2, 0), pt(1, 1)))
}

func TestCircumcircle(t *testing.T) {
	c := Circumcircle(pt(0, 0), pt(2, 0), pt(0, 2))
	assert.InDelta(t, 1.0, c.Center.X, 1e-12)
	assert.InDelta(t, 1.0, c.Center.Y, 1e-12)
	assert.InDelta(t, 2.0, c.R2, 1e-12)

	degenerate := Circumcircle(pt(0, 0), pt(1, 1), pt(2, 2))
	assert.True(t, math.IsInf(degenerate.R2, 1))
}

func TestDiametralCircle(t *testing.T) {
	c := DiametralCircle(pt(0, 0), pt(4, 0))
	assert.Equal(t, pt(2, 0), c.Center)
	assert.InDelta(t, 4.0, c.R2, 1e-12)

	assert.True(t, c.Contains(pt(2, 1)))
	assert.False(t, c.Contains(pt(2, 2)), "points on the circle are not inside")
	assert.False(t, c.Contains(pt(0, 0)), "endpoints are on the circle")
	assert.False(t, c.Contains(pt(5, 0)))

	bound := c.Bound()
	assert.InDelta(t, 0.0, bound.X.Lo, 1e-12)
	assert.InDelta(t, 4.0, bound.X.Hi, 1e-12)
	assert.InDelta(t, -2.0, bound.Y.Lo, 1e-12)
}

func TestSegmentIntersect(t *testing.T) {
	testCases := []struct {
		name           string
		p1, p2, q1, q2 r2.Point
		want           r2.Point
		ok             bool
	}{
		{"crossing", pt(0, 0), pt(2, 2), pt(0, 2), pt(2, 0), pt(1, 1), true},
		{"touching at endpoint", pt(0, 0), pt(2, 0), pt(2, 0), pt(2, 2), pt(2, 0), true},
		{"disjoint", pt(0, 0), pt(1, 1), pt(3, 0), pt(2, 1), r2.Point{}, false},
		{"parallel", pt(0, 0), pt(2, 0), pt(0, 1), pt(2, 1), r2.Point{}, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := SegmentIntersect(tc.p1, tc.p2, tc.q1, tc.q2)
			require.Equal(t, tc.ok, ok)
			assert.InDelta(t, tc.want.X, got.X, 1e-12)
			assert.InDelta(t, tc.want.Y, got.Y, 1e-12)
		})
	}
}

func TestSegmentsCross(t *testing.T) {
	assert.True(t, SegmentsCross(pt(0, 0), pt(2, 2), pt(0, 2), pt(2, 0)))
	assert.False(t, SegmentsCross(pt(0, 0), pt(2, 0), pt(2, 0), pt(2, 2)), "shared endpoint")
	assert.False(t, SegmentsCross(pt(0, 0), pt(2, 0), pt(1, 0), pt(3, 0)), "collinear overlap")
	assert.False(t, SegmentsCross(pt(0, 0), pt(1, 0), pt(2, -1), pt(2, 1)))
}

func TestLineIntersect(t *testing.T) {
	p, ok := LineIntersect(pt(0, 0), pt(1, 0), pt(3, -1), pt(3, 1))
	require.True(t, ok)
	assert.InDelta(t, 3.0, p.X, 1e-12)
	assert.InDelta(t, 0.0, p.Y, 1e-12)

	_, ok = LineIntersect(pt(0, 0), pt(1, 0), pt(0, 1), pt(1, 1))
	assert.False(t, ok)
}

func TestMeasures(t *testing.T) {
	assert.InDelta(t, 1.0, DistToLine(pt(0, 1), pt(-1, 0), pt(1, 0)), 1e-12)
	assert.InDelta(t, math.Pi/2, Angle(pt(0, 0), pt(1, 0), pt(0, 3)), 1e-12)
	assert.InDelta(t, math.Pi/4, Angle(pt(0, 0), pt(1, 0), pt(1, 1)), 1e-12)
	assert.InDelta(t, 25.0, Dist2(pt(0, 0), pt(3, 4)), 1e-12)
}
