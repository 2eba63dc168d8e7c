package ugolnik

// Helpers for checking a result against the input it came from.

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var nopLogger = zap.NewNop()

// AssertValidResult checks that:
// 1. Every triangle is counterclockwise with positive area.
// 2. Adjacency is symmetric and adjacent triangles share the edge.
// 3. Every boundary edge of the result is a contour or hole constraint.
// 4. The areas add up to the contour minus the holes, which must lie inside
//    the contour.
// 5. Sampled points inside the domain are covered and points outside are not.
func AssertValidResult(t *testing.T, in Input, r *Result) {
	t.Helper()
	require.NotNil(t, r)

	for k, tri := range r.Triangles {
		require.Greater(t, tri.Area, 0.0, "triangle %d is not counterclockwise", k)
		for i, e := range tri.Edges {
			a, b := tri.V[i], tri.V[(i+1)%3]
			if e.Adjacent < 0 {
				assert.Contains(t, []Constraint{Contour, Hole}, e.Constraint,
					"boundary edge %d-%d of triangle %d is not on the contour or a hole", a, b, k)
				continue
			}
			other := r.Triangles[e.Adjacent]
			back := -1
			for j := 0; j < 3; j++ {
				if other.V[j] == b && other.V[(j+1)%3] == a {
					back = j
				}
			}
			require.NotEqual(t, -1, back, "triangle %d does not share edge %d-%d with %d", e.Adjacent, a, b, k)
			assert.Equal(t, k, other.Edges[back].Adjacent)
			assert.Equal(t, e.Constraint, other.Edges[back].Constraint)
		}
	}

	domain, total := domainOf(in)
	assert.InDelta(t, domain, totalArea(r), 1e-6*math.Max(1, math.Abs(domain)))

	rng := rand.New(rand.NewSource(1))
	bounds := total.bounds
	for i := 0; i < 500; i++ {
		p := Point{
			X: bounds.X.Lo + rng.Float64()*bounds.X.Length(),
			Y: bounds.Y.Lo + rng.Float64()*bounds.Y.Length(),
		}
		if total.nearBoundary(p) {
			continue
		}
		if total.inside(p) {
			assert.True(t, covered(r, p, -1e-9), "%v is inside the domain but not covered", p)
		} else {
			assert.False(t, covered(r, p, 1e-9), "%v is outside the domain but covered", p)
		}
	}
}

func domainOf(in Input) (float64, *prepared) {
	p, err := prepare(in, DefaultOptions(), nopLogger)
	if err != nil {
		panic(err)
	}
	area := math.Abs(ringArea(p.contour))
	for _, hole := range p.holes {
		area -= math.Abs(ringArea(hole))
	}
	return area, p
}

func (in *prepared) nearBoundary(p Point) bool {
	margin := 1e-6 * math.Max(in.bounds.Size().X, in.bounds.Size().Y)
	if onRing(p, in.contour, margin) {
		return true
	}
	for _, hole := range in.holes {
		if onRing(p, hole, margin) {
			return true
		}
	}
	return false
}

func totalArea(r *Result) float64 {
	var sum float64
	for _, tri := range r.Triangles {
		sum += tri.Area
	}
	return sum
}

// covered reports whether some triangle contains p, with every edge test
// passing at least tol.
func covered(r *Result, p Point, tol float64) bool {
	for _, tri := range r.Triangles {
		in := true
		for i := 0; i < 3; i++ {
			a, b := r.Vertices[tri.V[i]], r.Vertices[tri.V[(i+1)%3]]
			if b.Sub(a).Cross(p.Sub(a)) < tol*b.Sub(a).Norm() {
				in = false
				break
			}
		}
		if in {
			return true
		}
	}
	return false
}
