package ugolnik

import (
	"fmt"
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(lo, hi float64) []Point {
	return []Point{{X: lo, Y: lo}, {X: hi, Y: lo}, {X: hi, Y: hi}, {X: lo, Y: hi}}
}

func star(cx, cy, outer, inner float64) []Point {
	var points []Point
	for i := 0; i < 10; i++ {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		angle := 2 * math.Pi * float64(i) / 10
		points = append(points, Point{X: cx + r*math.Cos(angle), Y: cy + r*math.Sin(angle)})
	}
	return points
}

func reversed(points []Point) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[len(points)-1-i] = p
	}
	return out
}

// edgeLength sums the lengths of edges carrying kind. Edges between two
// triangles are seen from both sides.
func edgeLength(r *Result, kind Constraint) float64 {
	var sum float64
	for _, tri := range r.Triangles {
		for _, e := range tri.Edges {
			if e.Constraint == kind {
				sum += e.Length
			}
		}
	}
	return sum
}

// Smoke test.
func TestTriangulate(t *testing.T) {
	in := Input{Contour: []Point{{X: 1, Y: -1}, {X: 1, Y: 1}, {X: -1, Y: 1}, {X: -1, Y: -1}}}
	result, err := Triangulate(in, DefaultOptions())
	require.NoError(t, err)
	assert.Len(t, result.Triangles, 2)
	assert.Len(t, result.Vertices, 4)
	AssertValidResult(t, in, result)

	s := result.Summary
	assert.Equal(t, 4, s.Vertices)
	assert.Equal(t, 2, s.Triangles)
	assert.Equal(t, 5, s.Edges)
	assert.InDelta(t, 2, s.MinArea, 1e-12)
	assert.InDelta(t, 2, s.AvgArea, 1e-12)
	assert.InDelta(t, 2, s.MinEdge, 1e-12)
	assert.InDelta(t, 2*math.Sqrt2, s.MaxEdge, 1e-12)
	assert.InDelta(t, 45, s.MinAngle, 1e-9)
	assert.InDelta(t, 90, s.MaxAngle, 1e-9)
	assert.InDelta(t, 60, s.AvgAngle, 1e-9)
	assert.Greater(t, int64(s.Elapsed), int64(0))
}

func TestTriangulate_EdgeInfo(t *testing.T) {
	in := Input{Contour: square(0, 4)}
	result, err := Triangulate(in, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, result.Triangles, 2)

	shared := 0
	for k, tri := range result.Triangles {
		var angles float64
		for i, e := range tri.Edges {
			a, b := result.Vertices[tri.V[i]], result.Vertices[tri.V[(i+1)%3]]
			assert.InDelta(t, b.Sub(a).Norm(), e.Length, 1e-12)
			angles += e.Angle
			if e.Adjacent >= 0 {
				shared++
				assert.Equal(t, 1-k, e.Adjacent)
				assert.Equal(t, None, e.Constraint)
			} else {
				assert.Equal(t, Contour, e.Constraint)
			}
		}
		assert.InDelta(t, 180, angles, 1e-9)
		assert.InDelta(t, 8, tri.Area, 1e-12)
	}
	assert.Equal(t, 2, shared)
}

func TestTriangulate_Orientation(t *testing.T) {
	cw := reversed(star(0, 0, 5, 2))
	result, err := Triangulate(Input{Contour: cw}, DefaultOptions())
	require.NoError(t, err)
	AssertValidResult(t, Input{Contour: cw}, result)
	assert.Len(t, result.Triangles, 8)
}

func TestTriangulate_SquareWithHole(t *testing.T) {
	in := Input{
		Contour: square(-5, 5),
		Holes:   [][]Point{reversed(square(-2, 2))},
	}
	result, err := Triangulate(in, DefaultOptions())
	require.NoError(t, err)
	AssertValidResult(t, in, result)
	assert.InDelta(t, 84, totalArea(result), 1e-9)
	assert.Len(t, result.Vertices, 8)
	assert.InDelta(t, 16, edgeLength(result, Hole), 1e-9)
	assert.InDelta(t, 40, edgeLength(result, Contour), 1e-9)
}

func TestTriangulate_StarOutline(t *testing.T) {
	in := Input{
		Contour: star(0, 0, 10, 5),
		Holes:   [][]Point{star(0, 0, 8, 3)},
	}
	result, err := Triangulate(in, DefaultOptions())
	require.NoError(t, err)
	AssertValidResult(t, in, result)
	assert.Len(t, result.Triangles, 20)
}

func TestTriangulate_Constraints(t *testing.T) {
	in := Input{
		Contour:     square(0, 10),
		Constraints: [][2]Point{{{X: 1, Y: 1}, {X: 9, Y: 9}}, {{X: 1, Y: 9}, {X: 9, Y: 1}}},
	}
	result, err := Triangulate(in, DefaultOptions())
	require.NoError(t, err)
	AssertValidResult(t, in, result)

	// The constraints cross at the center, which becomes a vertex.
	assert.Len(t, result.Vertices, 9)
	assert.Contains(t, result.Vertices, Point{X: 5, Y: 5})
	assert.InDelta(t, 2*2*8*math.Sqrt2, edgeLength(result, User), 1e-9)
}

func TestTriangulate_Points(t *testing.T) {
	in := Input{
		Contour: square(0, 10),
		Holes:   [][]Point{square(4, 6)},
		Points: []Point{
			{X: 2, Y: 2},
			{X: 5, Y: 5},   // in the hole
			{X: 20, Y: 20}, // outside
			{X: 2, Y: 2},   // duplicate
		},
	}
	result, err := Triangulate(in, DefaultOptions())
	require.NoError(t, err)
	AssertValidResult(t, in, result)
	assert.Len(t, result.Vertices, 9)
	assert.Contains(t, result.Vertices, Point{X: 2, Y: 2})
	assert.NotContains(t, result.Vertices, Point{X: 5, Y: 5})
}

func TestTriangulate_Holes(t *testing.T) {
	t.Run("outside", func(t *testing.T) {
		in := Input{Contour: square(0, 10), Holes: [][]Point{square(20, 30)}}
		result, err := Triangulate(in, DefaultOptions())
		require.NoError(t, err)
		assert.InDelta(t, 100, totalArea(result), 1e-9)
		assert.Zero(t, edgeLength(result, Hole))
	})

	t.Run("nested", func(t *testing.T) {
		in := Input{Contour: square(0, 10), Holes: [][]Point{square(2, 8), square(4, 6)}}
		result, err := Triangulate(in, DefaultOptions())
		require.NoError(t, err)
		assert.InDelta(t, 64, totalArea(result), 1e-9)
	})

	t.Run("degenerate", func(t *testing.T) {
		in := Input{Contour: square(0, 10), Holes: [][]Point{
			{{X: 2, Y: 2}, {X: 3, Y: 3}},
			{{X: 2, Y: 2}, {X: 3, Y: 3}, {X: 4, Y: 4}},
		}}
		result, err := Triangulate(in, DefaultOptions())
		require.NoError(t, err)
		assert.InDelta(t, 100, totalArea(result), 1e-9)
	})

	t.Run("crossing the contour", func(t *testing.T) {
		hole := []Point{{X: 8, Y: 4}, {X: 12, Y: 4}, {X: 12, Y: 6}, {X: 8, Y: 6}}
		in := Input{Contour: square(0, 10), Holes: [][]Point{hole}}
		result, err := Triangulate(in, DefaultOptions())
		require.NoError(t, err)
		assert.InDelta(t, 96, totalArea(result), 1e-9)
		assert.Contains(t, result.Vertices, Point{X: 10, Y: 4})
		assert.Contains(t, result.Vertices, Point{X: 10, Y: 6})
		assert.NotContains(t, result.Vertices, Point{X: 12, Y: 4})
		for _, tri := range result.Triangles {
			for _, v := range tri.V {
				assert.LessOrEqual(t, result.Vertices[v].X, 10.0)
			}
		}
	})
}

func TestTriangulate_Curves(t *testing.T) {
	in := Input{
		Contour: square(-10, 10),
		Curves: []Curve{
			Arc{Center: Point{}, From: Point{X: 5}, To: Point{X: 5}},
			Line{From: Point{X: -9, Y: -9}, To: Point{X: -9, Y: 9}},
		},
	}
	opts := DefaultOptions()
	opts.CurveSegments = 12
	result, err := Triangulate(in, opts)
	require.NoError(t, err)
	AssertValidResult(t, in, result)

	assert.Len(t, result.Vertices, 4+12+2)
	// The circle is a closed chain of 12 chords, each seen from both sides.
	chord := 2 * 5 * math.Sin(math.Pi/12)
	assert.InDelta(t, 2*(12*chord+18), edgeLength(result, User), 1e-9)
}

func TestTriangulate_CurvesFollowMaxEdge(t *testing.T) {
	in := Input{
		Contour: square(0, 10),
		Curves:  []Curve{Bezier{Points: []Point{{X: 1, Y: 1}, {X: 5, Y: 9}, {X: 9, Y: 1}}}},
	}
	opts := DefaultOptions()
	opts.MaxEdge = 2
	result, err := Triangulate(in, opts)
	require.NoError(t, err)
	AssertValidResult(t, in, result)
	for _, tri := range result.Triangles {
		for _, e := range tri.Edges {
			assert.LessOrEqual(t, e.Length, 2+1e-9)
		}
	}
}

func TestTriangulate_Refine(t *testing.T) {
	in := Input{Contour: square(0, 100)}
	opts := DefaultOptions()
	opts.MaxArea = 25
	result, err := Triangulate(in, opts)
	require.NoError(t, err)
	AssertValidResult(t, in, result)

	assert.GreaterOrEqual(t, len(result.Triangles), 400)
	assert.LessOrEqual(t, result.Summary.MaxArea, 25+1e-9)
	assert.InDelta(t, 10000, totalArea(result), 1e-6)
}

func TestTriangulate_MinAngle(t *testing.T) {
	in := Input{
		Contour:     square(0, 10),
		Holes:       [][]Point{{{X: 3, Y: 3}, {X: 7, Y: 3}, {X: 7, Y: 6}, {X: 3, Y: 6}}},
		Constraints: [][2]Point{{{X: 1, Y: 1}, {X: 9, Y: 2}}},
	}
	opts := DefaultOptions()
	opts.MinAngle = 20
	opts.MaxArea = 2
	result, err := Triangulate(in, opts)
	require.NoError(t, err)
	AssertValidResult(t, in, result)

	assert.GreaterOrEqual(t, result.Summary.MinAngle, 20-1e-9)
	assert.LessOrEqual(t, result.Summary.MaxArea, 2+1e-9)
	assert.InDelta(t, 88, totalArea(result), 1e-6)
}

func TestTriangulate_MaxSteiner(t *testing.T) {
	in := Input{Contour: square(0, 100)}
	opts := DefaultOptions()
	opts.MaxArea = 1
	opts.MaxSteiner = 7
	result, err := Triangulate(in, opts)
	require.NoError(t, err)
	assert.Len(t, result.Vertices, 4+7)
	assert.Equal(t, 7, result.Summary.Steiner)
	assert.Greater(t, result.Summary.Unresolved, 0)
}

func TestTriangulate_AcuteSpike(t *testing.T) {
	for _, deg := range []float64{10, 5} {
		t.Run(fmt.Sprintf("%gdeg", deg), func(t *testing.T) {
			theta := deg * math.Pi / 180
			in := Input{
				Contour: []Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10 * math.Cos(theta), Y: 10 * math.Sin(theta)}},
				Holes:   [][]Point{{{X: 6, Y: 0.1}, {X: 7, Y: 0.1}, {X: 6.5, Y: 0.25}}},
				Constraints: [][2]Point{
					{{X: 2, Y: 0.02}, {X: 5.5, Y: 0.3}},
					{{X: 4, Y: 0.3}, {X: 5.5, Y: 0.02}},
				},
			}
			opts := DefaultOptions()
			opts.MinAngle = 20
			opts.MaxArea = 0.5
			opts.MaxSteiner = 500

			result, err := Triangulate(in, opts)
			require.NoError(t, err)
			AssertValidResult(t, in, result)
			assert.LessOrEqual(t, result.Summary.Steiner, opts.MaxSteiner)
		})
	}
}

func TestTriangulate_InvalidInput(t *testing.T) {
	nan := math.NaN()
	for name, in := range map[string]Input{
		"empty":      {},
		"two points": {Contour: []Point{{X: 0, Y: 0}, {X: 1, Y: 1}}},
		"duplicates": {Contour: []Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 0}, {X: 1, Y: 1}}},
		"collinear":  {Contour: []Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}}},
		"nan":        {Contour: []Point{{X: 0, Y: 0}, {X: nan, Y: 1}, {X: 2, Y: 0}}},
		"constraint": {Contour: square(0, 1), Constraints: [][2]Point{{{X: nan}, {}}}},
		"nil curve":  {Contour: square(0, 1), Curves: []Curve{nil}},
	} {
		t.Run(name, func(t *testing.T) {
			result, err := Triangulate(in, DefaultOptions())
			assert.Nil(t, result)
			assert.True(t, errors.Is(err, ErrInvalidInput), "got %v", err)
		})
	}

	opts := DefaultOptions()
	opts.MinAngle = 70
	_, err := Triangulate(Input{Contour: square(0, 1)}, opts)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestTriangulate_ClosedRing(t *testing.T) {
	ring := append(square(0, 2), Point{X: 0, Y: 0})
	result, err := Triangulate(Input{Contour: ring}, DefaultOptions())
	require.NoError(t, err)
	assert.Len(t, result.Vertices, 4)
}
