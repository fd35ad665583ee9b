// Package flock simulates boids in a bounded 2D world.
//
// Boids is an artificial life program, developed by Craig Reynolds in 1986,
// which simulates the flocking behaviour of birds, and related group motion.
// The name "boid" corresponds to a shortened version of "bird-oid object".
// https://en.wikipedia.org/wiki/Boids
//
// One tick runs in three phases that never overlap:
//  1. build a quadtree over the current positions,
//  2. compute alignment, cohesion and separation of every boid (read only),
//  3. integrate acceleration, velocity and position of every boid and wrap it at the world edges.
//
// Speed is constant: steering only ever rotates the unit velocity.
package flock

import (
	"math"
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-flock-quadtree/pkg/geometry"
)

// Boid represents a single entity in the flock.
// Alignment, Cohesion and Separation are scratch values written by the
// steering phase of a tick and consumed by its integration phase, they mean
// nothing between two ticks.
type Boid struct {
	Position     geometry.Vector2D `json:"position"`
	Velocity     geometry.Vector2D `json:"velocity"`
	Acceleration geometry.Vector2D `json:"acceleration"`

	Alignment  geometry.Vector2D `json:"-"`
	Cohesion   geometry.Vector2D `json:"-"`
	Separation geometry.Vector2D `json:"-"`
}

// NewBoid creates a boid with a random position in [0,width] x [0,height]
// and a unit velocity pointing in a random direction.
func NewBoid(rng *rand.Rand, width, height float64) Boid {
	return Boid{
		Position: geometry.Vector2D{X: rng.Float64() * width, Y: rng.Float64() * height},
		Velocity: geometry.NewVectorPolar(1, rng.Float64()*2*math.Pi),
	}
}

// NewBoids creates n boids with NewBoid.
func NewBoids(rng *rand.Rand, n int, width, height float64) []Boid {
	if n < 0 {
		n = 0
	}
	boids := make([]Boid, n)
	for i := range boids {
		boids[i] = NewBoid(rng, width, height)
	}
	return boids
}

// Heading returns the direction of travel in radians, the renderer uses it to orient the sprite.
func (b *Boid) Heading() float64 {
	return b.Velocity.Angle()
}

// integrate applies the steering computed for this tick and moves the boid one step.
// Once out of [0,width] the boid is put back on the opposite edge,
// the overshoot is dropped on purpose (x = width + 0.5 becomes 0, not 0.5).
func (b *Boid) integrate(width, height float64) {
	b.Acceleration = b.Alignment.Add(b.Cohesion).Add(b.Separation)
	b.Velocity = b.Velocity.Add(b.Acceleration).Normalize()
	b.Position = wrap(b.Position.Add(b.Velocity), width, height)
}

func wrap(p geometry.Vector2D, width, height float64) geometry.Vector2D {
	if p.X > width {
		p.X = 0
	} else if p.X < 0 {
		p.X = width
	}

	if p.Y > height {
		p.Y = 0
	} else if p.Y < 0 {
		p.Y = height
	}
	return p
}
