package quadtree

import (
	"fmt"
	"math"

	"github.com/lao-tseu-is-alive/go-flock-quadtree/pkg/geometry"
)

// Rect is an axis-aligned rectangle, closed on all four edges.
// (X1, Y1) is the top-left corner and (X2, Y2) the bottom-right one, in screen coordinates.
type Rect struct {
	X1, Y1 float64
	X2, Y2 float64
}

// NewRect returns the rectangle spanning [x1,x2] x [y1,y2].
func NewRect(x1, y1, x2, y2 float64) Rect {
	return Rect{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// RectAround returns the square of half side 'radius' centered on c.
func RectAround(c geometry.Vector2D, radius float64) Rect {
	return Rect{X1: c.X - radius, Y1: c.Y - radius, X2: c.X + radius, Y2: c.Y + radius}
}

func (r Rect) String() string {
	return fmt.Sprintf("[%.2f,%.2f - %.2f,%.2f]", r.X1, r.Y1, r.X2, r.Y2)
}

// Width of the rectangle.
func (r Rect) Width() float64 { return r.X2 - r.X1 }

// Height of the rectangle.
func (r Rect) Height() float64 { return r.Y2 - r.Y1 }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() geometry.Vector2D {
	return geometry.Vector2D{X: r.X1 + (r.X2-r.X1)/2, Y: r.Y1 + (r.Y2-r.Y1)/2}
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p geometry.Vector2D) bool {
	return p.X >= r.X1 && p.X <= r.X2 && p.Y >= r.Y1 && p.Y <= r.Y2
}

// Intersects reports whether r and other share at least one point.
// Touching edges count as an intersection.
func (r Rect) Intersects(other Rect) bool {
	leftOf := r.X2 < other.X1
	rightOf := r.X1 > other.X2
	above := r.Y1 > other.Y2
	below := r.Y2 < other.Y1
	return !(leftOf || rightOf || above || below)
}

// IntersectsCircle reports whether the closed disk of center c and radius
// overlaps r. A disk tangent to an edge or a corner counts as overlapping.
// The test measures the distance from c to its clamped projection on r, so a
// rectangle holding a point p with |p-c| <= radius is never rejected.
func (r Rect) IntersectsCircle(c geometry.Vector2D, radius float64) bool {
	if radius < 0 {
		return false
	}
	nearestX := math.Max(r.X1, math.Min(c.X, r.X2))
	nearestY := math.Max(r.Y1, math.Min(c.Y, r.Y2))
	dx := c.X - nearestX
	dy := c.Y - nearestY
	return dx*dx+dy*dy <= radius*radius
}

// Quadrants splits r about its midpoint into top-left, top-right,
// bottom-left and bottom-right, in that order.
// Neighbouring quadrants share their common edge.
func (r Rect) Quadrants() [4]Rect {
	m := r.Center()
	return [4]Rect{
		{X1: r.X1, Y1: r.Y1, X2: m.X, Y2: m.Y},
		{X1: m.X, Y1: r.Y1, X2: r.X2, Y2: m.Y},
		{X1: r.X1, Y1: m.Y, X2: m.X, Y2: r.Y2},
		{X1: m.X, Y1: m.Y, X2: r.X2, Y2: r.Y2},
	}
}
