package flock

import (
	"slices"

	"github.com/lao-tseu-is-alive/go-flock-quadtree/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-flock-quadtree/pkg/quadtree"
)

// Neighborhood answers the neighbour queries of one tick.
// It reads positions and velocities of the boids and only ever writes the
// steering fields of the boid passed to Steer.
// A Neighborhood keeps a query buffer, so it must not be shared between goroutines;
// several of them can work on the same boids and tree at the same time.
type Neighborhood struct {
	boids []Boid
	tree  *quadtree.Tree
	buf   []int
}

// NewNeighborhood returns a Neighborhood over boids, indexed by tree.
// The ids stored in tree must be indexes into boids.
func NewNeighborhood(boids []Boid, tree *quadtree.Tree) *Neighborhood {
	return &Neighborhood{boids: boids, tree: tree, buf: make([]int, 0, 32)}
}

func (n *Neighborhood) reset(boids []Boid, tree *quadtree.Tree) {
	n.boids = boids
	n.tree = tree
}

// Steer computes the three steering vectors of boid self and stores them on it.
func (n *Neighborhood) Steer(self int, p Params) {
	b := &n.boids[self]
	b.Alignment = n.Alignment(self, p.AlignmentRadius, p.AlignmentForce)
	b.Cohesion = n.Cohesion(self, p.CohesionRadius, p.CohesionForce)
	b.Separation = n.Separation(self, p.SeparationRadius, p.SeparationForce)
}

// Alignment steers boid self toward the average velocity of its neighbours within radius.
// Returns the zero vector when it has no neighbour.
func (n *Neighborhood) Alignment(self int, radius, force float64) geometry.Vector2D {
	me := n.boids[self]

	var sum geometry.Vector2D
	total := 0
	for _, id := range n.neighbors(self, radius) {
		sum = sum.Add(n.boids[id].Velocity)
		total++
	}
	if total == 0 {
		return geometry.Zero
	}

	avg := sum.Div(float64(total))
	return avg.Sub(me.Velocity).Normalize().Mul(force)
}

// Cohesion steers boid self toward the average position of its neighbours within radius.
// Returns the zero vector when it has no neighbour.
func (n *Neighborhood) Cohesion(self int, radius, force float64) geometry.Vector2D {
	me := n.boids[self]

	var sum geometry.Vector2D
	total := 0
	for _, id := range n.neighbors(self, radius) {
		sum = sum.Add(n.boids[id].Position)
		total++
	}
	if total == 0 {
		return geometry.Zero
	}

	center := sum.Div(float64(total))
	direction := center.Sub(me.Position)
	return direction.Sub(me.Velocity).Normalize().Mul(force)
}

// Separation steers boid self away from its neighbours within radius.
// Each neighbour contributes the unit vector pointing from it to self.
// A neighbour sitting exactly on self has no direction: it is left out of
// the average instead of turning the result into NaN.
func (n *Neighborhood) Separation(self int, radius, force float64) geometry.Vector2D {
	me := n.boids[self]

	var sum geometry.Vector2D
	total := 0
	for _, id := range n.neighbors(self, radius) {
		away := me.Position.Sub(n.boids[id].Position)
		dist := away.Len()
		if dist == 0 {
			continue
		}
		sum = sum.Add(away.Div(dist))
		total++
	}
	if total == 0 {
		return geometry.Zero
	}

	avg := sum.Div(float64(total))
	return avg.Sub(me.Velocity).Normalize().Mul(force)
}

// neighbors returns the ids of the boids within radius of boid self, self excluded,
// in increasing order. Sorting makes the floating point sums above independent
// of the shape of the tree.
// The returned slice is only valid until the next call.
func (n *Neighborhood) neighbors(self int, radius float64) []int {
	n.buf = n.tree.QueryCircle(n.boids[self].Position, radius, n.buf[:0])
	n.buf = slices.DeleteFunc(n.buf, func(id int) bool { return id == self })
	slices.Sort(n.buf)
	return n.buf
}
