package ugolnik

import (
	"math"
	"time"
)

type Result struct {
	Vertices  []Point
	Triangles []Triangle
	Summary   Summary
}

// Triangle indexes into Result.Vertices, counterclockwise. Edge i runs from
// V[i] to V[(i+1)%3].
type Triangle struct {
	V     [3]int
	Area  float64
	Edges [3]EdgeInfo
}

type EdgeInfo struct {
	Adjacent   int // index of the triangle across the edge, or -1
	Constraint Constraint
	Length     float64
	Angle      float64 // interior angle at the edge's origin, in degrees
}

// Summary aggregates the result. Edges shared by two triangles are counted
// once.
type Summary struct {
	Vertices  int
	Triangles int
	Edges     int

	MinArea, MaxArea, AvgArea    float64
	MinEdge, MaxEdge, AvgEdge    float64
	MinAngle, MaxAngle, AvgAngle float64

	// Refinement outcome. Unresolved is nonzero when the quality target
	// was not met, either because of MaxSteiner or because refinement
	// gave up on Abandoned pieces of work.
	Steiner    int
	Abandoned  int
	Unresolved int

	Elapsed time.Duration
}

type stat struct {
	min, max, sum float64
	n             int
}

func newStat() stat {
	return stat{min: math.Inf(1), max: math.Inf(-1)}
}

func (s *stat) add(v float64) {
	s.min = math.Min(s.min, v)
	s.max = math.Max(s.max, v)
	s.sum += v
	s.n++
}

func (s *stat) values() (float64, float64, float64) {
	if s.n == 0 {
		return 0, 0, 0
	}
	return s.min, s.max, s.sum / float64(s.n)
}

func summarize(r *Result) Summary {
	area, edge, angle := newStat(), newStat(), newStat()
	for k, tri := range r.Triangles {
		area.add(tri.Area)
		for _, e := range tri.Edges {
			angle.add(e.Angle)
			if e.Adjacent < 0 || e.Adjacent > k {
				edge.add(e.Length)
			}
		}
	}

	s := Summary{
		Vertices:  len(r.Vertices),
		Triangles: len(r.Triangles),
		Edges:     edge.n,
	}
	s.MinArea, s.MaxArea, s.AvgArea = area.values()
	s.MinEdge, s.MaxEdge, s.AvgEdge = edge.values()
	s.MinAngle, s.MaxAngle, s.AvgAngle = angle.values()
	return s
}
