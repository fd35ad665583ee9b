package flock

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/lao-tseu-is-alive/go-flock-quadtree/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-flock-quadtree/pkg/quadtree"
	"google.golang.org/protobuf/types/known/structpb"
)

// BoidState is what a renderer needs to draw one boid.
type BoidState struct {
	Position geometry.Vector2D `json:"position"`
	Velocity geometry.Vector2D `json:"velocity"`
}

// Snapshot is an immutable copy of the flock taken between two ticks.
// It shares no memory with the Flock and can be handed to another goroutine.
type Snapshot struct {
	Tick        uint64
	Width       float64
	Height      float64
	Boids       []BoidState
	Partition   []quadtree.Rect
	Fingerprint uint64
}

// Snapshot copies the current state of the flock.
func (f *Flock) Snapshot() *Snapshot {
	s := &Snapshot{
		Tick:        f.tick,
		Width:       f.width,
		Height:      f.height,
		Boids:       make([]BoidState, len(f.boids)),
		Fingerprint: f.Fingerprint(),
	}
	for i := range f.boids {
		s.Boids[i] = BoidState{Position: f.boids[i].Position, Velocity: f.boids[i].Velocity}
	}
	if len(f.partition) > 0 {
		s.Partition = append([]quadtree.Rect(nil), f.partition...)
	}
	return s
}

// Fingerprint hashes the exact bits of every position and velocity.
// Two flocks with the same fingerprint are, for all practical purposes, in the same state,
// which makes it a cheap way to check that two runs stayed deterministic.
func (f *Flock) Fingerprint() uint64 {
	d := xxhash.New()
	var buf [32]byte
	for i := range f.boids {
		b := &f.boids[i]
		binary.LittleEndian.PutUint64(buf[0:], math.Float64bits(b.Position.X))
		binary.LittleEndian.PutUint64(buf[8:], math.Float64bits(b.Position.Y))
		binary.LittleEndian.PutUint64(buf[16:], math.Float64bits(b.Velocity.X))
		binary.LittleEndian.PutUint64(buf[24:], math.Float64bits(b.Velocity.Y))
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}

// ToProto converts the snapshot into a protobuf Struct, ready for protojson.
// The fingerprint is written as a hex string because JSON numbers cannot hold a uint64.
func (s *Snapshot) ToProto() (*structpb.Struct, error) {
	boids := make([]interface{}, len(s.Boids))
	for i, b := range s.Boids {
		boids[i] = map[string]interface{}{
			"x":       b.Position.X,
			"y":       b.Position.Y,
			"vx":      b.Velocity.X,
			"vy":      b.Velocity.Y,
			"heading": b.Velocity.Angle(),
		}
	}

	st, err := structpb.NewStruct(map[string]interface{}{
		"tick":        s.Tick,
		"width":       s.Width,
		"height":      s.Height,
		"fingerprint": fmt.Sprintf("%016x", s.Fingerprint),
		"boids":       boids,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to convert snapshot of tick %d: %w", s.Tick, err)
	}
	return st, nil
}
