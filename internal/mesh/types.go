package mesh

import (
	"fmt"

	"github.com/adfgl/3Ugolnik-sub000/internal/geom"
	"github.com/golang/geo/r2"
	"github.com/logrusorgru/aurora"
)

// Kind marks an edge as part of a constraint.
type Kind uint8

const (
	None Kind = iota
	Contour
	Hole
	User
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Contour:
		return "contour"
	case Hole:
		return "hole"
	case User:
		return "user"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// merge picks the kind an edge keeps when it is constrained twice. The
// contour wins over holes, and both win over user constraints.
func (k Kind) merge(o Kind) Kind {
	if k == None || (o != None && o < k) {
		return o
	}
	return k
}

type Region uint8

const (
	Unknown Region = iota
	Exterior
	Interior
)

// Vertex ids are stable. Ids -1, -2 and -3 belong to the super triangle.
type Vertex struct {
	ID    int
	Point r2.Point
	Tri   int // some live triangle using this vertex
}

// IsSuper reports whether id names one of the super triangle's vertices.
func IsSuper(id int) bool {
	return id < 0
}

// Triangle vertices wind counterclockwise. Edge slot i runs from V[i] to
// V[(i+1)%3]; N[i] is the triangle across it (or -1) and C[i] its constraint.
type Triangle struct {
	V      [3]int
	N      [3]int
	C      [3]Kind
	Circle geom.Circle
	Region Region
	dead   bool
}

func newTriangle(a, b, c int, region Region) Triangle {
	return Triangle{
		V:      [3]int{a, b, c},
		N:      [3]int{-1, -1, -1},
		Region: region,
	}
}

func (t *Triangle) Dead() bool {
	return t.dead
}

func (t *Triangle) slotOf(v int) int {
	for i, w := range t.V {
		if w == v {
			return i
		}
	}
	return -1
}

// edgeSlot returns the slot of the directed edge a->b, or -1.
func (t *Triangle) edgeSlot(a, b int) int {
	for i := 0; i < 3; i++ {
		if t.V[i] == a && t.V[(i+1)%3] == b {
			return i
		}
	}
	return -1
}

func (t *Triangle) hasSuper() bool {
	return IsSuper(t.V[0]) || IsSuper(t.V[1]) || IsSuper(t.V[2])
}

// Edge is a view of one side of a triangle.
type Edge struct {
	T, I int
}

func (e Edge) String() string {
	return fmt.Sprintf("(%d:%d)", e.T, e.I)
}

type LocationKind uint8

const (
	Inside LocationKind = iota
	OnEdge
	OnVertex
)

// Location is the result of a point location walk. Slot is set for OnEdge,
// and Vertex for OnVertex.
type Location struct {
	Kind   LocationKind
	Tri    int
	Slot   int
	Vertex int
}

func (l Location) String() string {
	switch l.Kind {
	case OnVertex:
		return aurora.Cyan(fmt.Sprintf("vertex %d", l.Vertex)).String()
	case OnEdge:
		return aurora.Yellow(fmt.Sprintf("edge %v", Edge{l.Tri, l.Slot})).String()
	}
	return aurora.Green(fmt.Sprintf("triangle %d", l.Tri)).String()
}

// Segment is a constrained edge tracked for refinement. A is always the
// smaller vertex id.
type Segment struct {
	A, B   int
	Kind   Kind
	Circle geom.Circle // diametral circle
	dead   bool
}

func segKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}
