// Package quadtree implements the spatial index used by the flock to find
// neighbours: a region quadtree over points, rebuilt from scratch every tick.
//
// Nodes live in a single arena slice and refer to their children by index,
// so a tree can be Reset and refilled without reallocating its nodes.
// Items are identified by an int chosen by the caller, usually the index of
// the agent in the caller's slice; the tree never holds a pointer to the agent.
//
// A node keeps the items it received before it split. They are not pushed down
// into the new children, so a query has to look at the items of every node it
// visits, not only at the leaves.
package quadtree

import (
	"github.com/lao-tseu-is-alive/go-flock-quadtree/pkg/geometry"
)

// DefaultCapacity is the number of items a node holds before it splits.
const DefaultCapacity = 1

// noChild marks an unused slot of node.children.
const noChild = -1

// Item is a point stored in the tree.
type Item struct {
	ID  int
	Pos geometry.Vector2D
}

type node struct {
	bounds   Rect
	items    []Item
	split    bool
	depth    int
	children [4]int32 // top-left, top-right, bottom-left, bottom-right
}

// NodeInfo is the read-only view of a node handed to Walk.
// Items aliases the node storage and must not be retained after the callback.
type NodeInfo struct {
	Bounds Rect
	Depth  int
	Split  bool
	Items  []Item
}

// Tree is a point quadtree covering a fixed root boundary.
// It is not safe for concurrent writes, concurrent queries are fine once
// every Insert has returned.
type Tree struct {
	nodes    []node
	capacity int
	count    int
}

// New creates an empty tree over bounds with DefaultCapacity.
func New(bounds Rect) *Tree {
	return NewWithCapacity(bounds, DefaultCapacity)
}

// NewWithCapacity creates an empty tree whose nodes split once they hold capacity items.
// A capacity below 1 is raised to 1.
func NewWithCapacity(bounds Rect, capacity int) *Tree {
	if capacity < 1 {
		capacity = 1
	}
	t := &Tree{capacity: capacity}
	t.Reset(bounds)
	return t
}

// Reset empties the tree and gives it a new root boundary.
// The node arena and the per-node item slices keep their capacity,
// so rebuilding every tick does not allocate once the tree has warmed up.
func (t *Tree) Reset(bounds Rect) {
	t.nodes = t.nodes[:0]
	t.count = 0
	t.newNode(bounds, 0)
}

// Bounds returns the root boundary.
func (t *Tree) Bounds() Rect {
	return t.nodes[0].bounds
}

// Len returns the number of items accepted by Insert since the last Reset.
func (t *Tree) Len() int {
	return t.count
}

// Nodes returns the number of nodes currently in the arena.
func (t *Tree) Nodes() int {
	return len(t.nodes)
}

// Depth returns the depth of the deepest node, the root being at depth 0.
func (t *Tree) Depth() int {
	deepest := 0
	for i := range t.nodes {
		if t.nodes[i].depth > deepest {
			deepest = t.nodes[i].depth
		}
	}
	return deepest
}

// Insert stores the item id at position pos.
// A position outside the root boundary is ignored and Insert returns false:
// the item will not show up in any query until the next Reset.
func (t *Tree) Insert(id int, pos geometry.Vector2D) bool {
	if !t.nodes[0].bounds.Contains(pos) {
		return false
	}

	idx := int32(0)
	for {
		n := &t.nodes[idx]
		if len(n.items) < t.capacity {
			n.items = append(n.items, Item{ID: id, Pos: pos})
			t.count++
			return true
		}

		if !n.split {
			t.split(idx)
			// split grows the arena, n may point to the old backing array
			n = &t.nodes[idx]
		}

		next := int32(noChild)
		for _, c := range n.children {
			if t.nodes[c].bounds.Contains(pos) {
				next = c
				break
			}
		}
		if next == noChild {
			return false
		}
		idx = next
	}
}

// QueryCircle appends to dst the id of every item whose position lies in the
// closed disk of the given center and radius, and returns the extended slice.
// The item sitting at center, if any, is part of the result.
func (t *Tree) QueryCircle(center geometry.Vector2D, radius float64, dst []int) []int {
	if radius < 0 {
		return dst
	}
	return t.queryCircle(0, center, radius, radius*radius, dst)
}

func (t *Tree) queryCircle(idx int32, c geometry.Vector2D, radius, radiusSq float64, dst []int) []int {
	n := &t.nodes[idx]
	if !n.bounds.IntersectsCircle(c, radius) {
		return dst
	}

	for _, it := range n.items {
		dx := it.Pos.X - c.X
		dy := it.Pos.Y - c.Y
		if dx*dx+dy*dy <= radiusSq {
			dst = append(dst, it.ID)
		}
	}

	if n.split {
		for _, child := range n.children {
			dst = t.queryCircle(child, c, radius, radiusSq, dst)
		}
	}
	return dst
}

// QueryRect appends to dst the id of every item whose position lies in area,
// edges included, and returns the extended slice.
func (t *Tree) QueryRect(area Rect, dst []int) []int {
	return t.queryRect(0, area, dst)
}

func (t *Tree) queryRect(idx int32, area Rect, dst []int) []int {
	n := &t.nodes[idx]
	if !n.bounds.Intersects(area) {
		return dst
	}

	for _, it := range n.items {
		if area.Contains(it.Pos) {
			dst = append(dst, it.ID)
		}
	}

	if n.split {
		for _, child := range n.children {
			dst = t.queryRect(child, area, dst)
		}
	}
	return dst
}

// Walk calls fn for every node in depth-first order, parents before children.
func (t *Tree) Walk(fn func(NodeInfo)) {
	t.walk(0, fn)
}

func (t *Tree) walk(idx int32, fn func(NodeInfo)) {
	n := &t.nodes[idx]
	fn(NodeInfo{Bounds: n.bounds, Depth: n.depth, Split: n.split, Items: n.items})
	if n.split {
		for _, child := range n.children {
			t.walk(child, fn)
		}
	}
}

// split creates the four quadrant children of the node at idx.
// The items already held by the node stay where they are.
func (t *Tree) split(idx int32) {
	quads := t.nodes[idx].bounds.Quadrants()
	depth := t.nodes[idx].depth + 1

	var children [4]int32
	for i, q := range quads {
		children[i] = t.newNode(q, depth)
	}

	n := &t.nodes[idx]
	n.children = children
	n.split = true
}

// newNode appends a node to the arena, recycling the item slice left in the
// slot by a previous tick when there is one.
func (t *Tree) newNode(bounds Rect, depth int) int32 {
	idx := len(t.nodes)
	if idx < cap(t.nodes) {
		t.nodes = t.nodes[:idx+1]
		recycled := t.nodes[idx].items[:0]
		t.nodes[idx] = node{bounds: bounds, items: recycled, depth: depth}
	} else {
		t.nodes = append(t.nodes, node{bounds: bounds, depth: depth})
	}
	t.nodes[idx].children = [4]int32{noChild, noChild, noChild, noChild}
	return int32(idx)
}
