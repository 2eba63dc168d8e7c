// Package ugolnik builds constrained Delaunay triangulations of polygons with
// holes, and refines them into quality meshes with Ruppert's algorithm.
//
// The outer contour, the holes and any user constraints become edges of the
// mesh. Triangles outside the contour or inside a hole are dropped from the
// result. Refinement adds vertices until every triangle meets the area, edge
// length and angle bounds in Options.
package ugolnik

import (
	"math"
	"time"

	"github.com/adfgl/3Ugolnik-sub000/internal/mesh"
	"github.com/golang/geo/r2"
	"go.uber.org/zap"
)

type Point = r2.Point

// Constraint tells which kind of constraint an output edge lies on.
type Constraint = mesh.Kind

const (
	None    = mesh.None
	Contour = mesh.Contour
	Hole    = mesh.Hole
	User    = mesh.User
)

// Scale of the PNG written when DumpOnFailure is set, in pixels per unit.
const dumpScale = 20

// Triangulate meshes the input. Invalid input is reported with an error
// wrapping ErrInvalidInput before any mesh work starts. A broken mesh
// invariant aborts the whole call with an error wrapping mesh.ErrTopology.
func Triangulate(in Input, opts Options) (result *Result, err error) {
	start := time.Now()
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	prepared, err := prepare(in, opts, log)
	if err != nil {
		return nil, err
	}

	m := mesh.New(prepared.bounds, mesh.Config{
		Epsilon:          prepared.eps,
		QuadtreeCapacity: opts.QuadtreeCapacity,
		QuadtreeDepth:    opts.QuadtreeDepth,
		Logger:           log,
	})
	defer func() {
		recoveredErr := mesh.HandlePanicRecover(recover())
		if recoveredErr != nil {
			log.Error("triangulation failed", zap.Error(recoveredErr))
			if opts.DumpOnFailure != "" {
				if dumpErr := m.DebugDraw(opts.DumpOnFailure, dumpScale); dumpErr != nil {
					log.Warn("could not dump mesh", zap.Error(dumpErr))
				}
			}
			result = nil
			err = recoveredErr
		}
	}()

	build(m, prepared)
	m.Classify()
	var refined mesh.RefineStats
	if q := opts.quality(); q.Active() {
		refined = m.Refine(q)
	}

	result = export(m)
	result.Summary.Steiner = refined.Inserted
	result.Summary.Abandoned = refined.Abandoned
	result.Summary.Unresolved = refined.Unresolved
	result.Summary.Elapsed = time.Since(start)
	log.Info("triangulated",
		zap.Int("vertices", len(result.Vertices)),
		zap.Int("triangles", len(result.Triangles)),
		zap.Duration("elapsed", result.Summary.Elapsed))
	return result, nil
}

// build inserts every vertex before any constraint, so constraint insertion
// only ever connects existing vertices.
func build(m *mesh.Mesh, in *prepared) {
	contour := insertAll(m, in.contour)
	holes := make([][]int, len(in.holes))
	for i, hole := range in.holes {
		holes[i] = insertAll(m, hole)
	}
	constraints := make([][2]int, len(in.constraints))
	for i, c := range in.constraints {
		constraints[i] = [2]int{m.Insert(c[0]), m.Insert(c[1])}
	}
	for _, p := range in.points {
		m.Insert(p)
	}

	insertRing(m, contour, mesh.Contour)
	for _, hole := range holes {
		insertRing(m, hole, mesh.Hole)
	}
	for _, c := range constraints {
		m.InsertConstraint(c[0], c[1], mesh.User)
	}
}

func insertAll(m *mesh.Mesh, points []Point) []int {
	ids := make([]int, len(points))
	for i, p := range points {
		ids[i] = m.Insert(p)
	}
	return ids
}

func insertRing(m *mesh.Mesh, ids []int, kind mesh.Kind) {
	for i := range ids {
		m.InsertConstraint(ids[i], ids[(i+1)%len(ids)], kind)
	}
}

// export keeps the interior triangles and the vertices they use, renumbered
// in order of insertion.
func export(m *mesh.Mesh) *Result {
	var interior []int
	used := make([]bool, m.NumVertices())
	m.Each(func(t int, tri *mesh.Triangle) {
		if tri.Region != mesh.Interior {
			return
		}
		interior = append(interior, t)
		for _, v := range tri.V {
			used[v] = true
		}
	})

	result := &Result{}
	remap := make([]int, len(used))
	for v, ok := range used {
		remap[v] = -1
		if ok {
			remap[v] = len(result.Vertices)
			result.Vertices = append(result.Vertices, m.Point(v))
		}
	}

	index := make(map[int]int, len(interior))
	for k, t := range interior {
		index[t] = k
	}

	result.Triangles = make([]Triangle, len(interior))
	for k, t := range interior {
		tri := m.Triangle(t)
		out := &result.Triangles[k]
		var p [3]Point
		for i, v := range tri.V {
			out.V[i] = remap[v]
			p[i] = m.Point(v)
		}
		out.Area = p[1].Sub(p[0]).Cross(p[2].Sub(p[0])) / 2
		for i := 0; i < 3; i++ {
			edge := &out.Edges[i]
			edge.Adjacent = -1
			if n, ok := index[tri.N[i]]; ok {
				edge.Adjacent = n
			}
			edge.Constraint = tri.C[i]
			edge.Length = p[(i+1)%3].Sub(p[i]).Norm()
			edge.Angle = angle(p[i], p[(i+1)%3], p[(i+2)%3])
		}
	}
	result.Summary = summarize(result)
	return result
}

// angle at o between o->a and o->b, in degrees.
func angle(o, a, b Point) float64 {
	u, v := a.Sub(o), b.Sub(o)
	return math.Atan2(math.Abs(u.Cross(v)), u.Dot(v)) * 180 / math.Pi
}
