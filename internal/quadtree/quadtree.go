// Package quadtree is a point region quadtree. It is used by the mesh to find
// existing vertices near a coordinate and to gather candidates for
// encroachment tests.
package quadtree

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

const (
	DefaultCapacity = 8
	DefaultMaxDepth = 24
)

// Stop can be returned from a Query callback to end the search early without
// an error.
var Stop = errors.New("stop")

// Item is a point stored in the tree along with the caller's id for it.
type Item struct {
	ID    int
	Point r2.Point
}

// node is either a leaf holding items, or an interior node with four
// children. Children are ordered by quadrant: bit 0 is set for the high X half
// and bit 1 for the high Y half.
type node struct {
	bounds   r2.Rect
	items    []Item
	children [4]int
	depth    int
}

func (n *node) isLeaf() bool {
	return n.children[0] == 0
}

// Tree is a region quadtree. Its bounds are fixed at construction; points
// outside of them are still accepted, but kept in a flat overflow list that
// every query scans.
type Tree struct {
	nodes    []node // 1-indexed, allowing 0 to represent "nil"
	root     int
	capacity int
	maxDepth int
	outside  []Item
	size     int
}

// New creates a tree covering bounds. Non-positive capacity or depth select
// the defaults.
func New(bounds r2.Rect, capacity, maxDepth int) *Tree {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	t := &Tree{capacity: capacity, maxDepth: maxDepth}
	t.root = t.newNode(bounds, 0)
	return t
}

func (t *Tree) node(idx int) *node {
	return &t.nodes[idx-1]
}

func (t *Tree) newNode(bounds r2.Rect, depth int) int {
	t.nodes = append(t.nodes, node{bounds: bounds, depth: depth})
	return len(t.nodes)
}

// Len is the number of items in the tree.
func (t *Tree) Len() int {
	return t.size
}

// Bounds returns the region covered by the tree's nodes.
func (t *Tree) Bounds() r2.Rect {
	return t.node(t.root).bounds
}

func quadrant(bounds r2.Rect, p r2.Point) int {
	c := bounds.Center()
	q := 0
	if p.X >= c.X {
		q |= 1
	}
	if p.Y >= c.Y {
		q |= 2
	}
	return q
}

// leaf descends to the leaf whose region holds p.
func (t *Tree) leaf(p r2.Point) int {
	idx := t.root
	for {
		n := t.node(idx)
		if n.isLeaf() {
			return idx
		}
		idx = n.children[quadrant(n.bounds, p)]
	}
}

func (t *Tree) Insert(id int, p r2.Point) {
	t.size++
	if !t.Bounds().ContainsPoint(p) {
		t.outside = append(t.outside, Item{id, p})
		return
	}
	idx := t.leaf(p)
	n := t.node(idx)
	n.items = append(n.items, Item{id, p})
	if len(n.items) > t.capacity && n.depth < t.maxDepth {
		t.subdivide(idx)
	}
}

func (t *Tree) subdivide(idx int) {
	n := t.node(idx)
	bounds, depth, items := n.bounds, n.depth, n.items
	c := bounds.Center()
	lo, hi := bounds.Lo(), bounds.Hi()

	var children [4]int
	for q := range children {
		child := r2.RectFromPoints(lo, c)
		if q&1 != 0 {
			child.X.Lo, child.X.Hi = c.X, hi.X
		}
		if q&2 != 0 {
			child.Y.Lo, child.Y.Hi = c.Y, hi.Y
		}
		// newNode may grow the arena, so n is refetched after the loop.
		children[q] = t.newNode(child, depth+1)
	}

	n = t.node(idx)
	n.children = children
	n.items = nil
	for _, item := range items {
		child := t.node(children[quadrant(bounds, item.Point)])
		child.items = append(child.items, item)
	}
	for _, childIdx := range children {
		child := t.node(childIdx)
		if len(child.items) > t.capacity && child.depth < t.maxDepth {
			t.subdivide(childIdx)
		}
	}
}

// Remove deletes the item with the given id stored at p. It reports whether
// the item was found.
func (t *Tree) Remove(id int, p r2.Point) bool {
	if !t.Bounds().ContainsPoint(p) {
		for i, item := range t.outside {
			if item.ID == id {
				t.outside = append(t.outside[:i], t.outside[i+1:]...)
				t.size--
				return true
			}
		}
		return false
	}
	n := t.node(t.leaf(p))
	for i, item := range n.items {
		if item.ID == id {
			n.items = append(n.items[:i], n.items[i+1:]...)
			t.size--
			return true
		}
	}
	return false
}

// Query calls fn for every item whose point lies in rect (boundary
// inclusive). If fn returns an error the search ends and the error is
// returned, except for Stop, which ends the search and returns nil.
func (t *Tree) Query(rect r2.Rect, fn func(Item) error) error {
	err := t.query(t.root, rect, fn)
	if err == nil {
		for _, item := range t.outside {
			if rect.ContainsPoint(item.Point) {
				if err = fn(item); err != nil {
					break
				}
			}
		}
	}
	if err == Stop {
		return nil
	}
	return err
}

func (t *Tree) query(idx int, rect r2.Rect, fn func(Item) error) error {
	n := t.node(idx)
	if !n.bounds.Intersects(rect) {
		return nil
	}
	if n.isLeaf() {
		for _, item := range n.items {
			if rect.ContainsPoint(item.Point) {
				if err := fn(item); err != nil {
					return err
				}
			}
		}
		return nil
	}
	for _, child := range n.children {
		if err := t.query(child, rect, fn); err != nil {
			return err
		}
	}
	return nil
}

// Nearest returns the item closest to p, provided it lies within eps.
func (t *Tree) Nearest(p r2.Point, eps float64) (Item, bool) {
	var (
		best  Item
		bestD = math.Inf(1)
	)
	rect := r2.RectFromCenterSize(p, r2.Point{X: 2 * eps, Y: 2 * eps})
	_ = t.Query(rect, func(item Item) error {
		d := item.Point.Sub(p).Norm()
		if d <= eps && d < bestD {
			best, bestD = item, d
		}
		return nil
	})
	return best, !math.IsInf(bestD, 1)
}
