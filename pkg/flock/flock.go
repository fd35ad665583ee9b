package flock

import (
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-flock-quadtree/pkg/quadtree"
	"github.com/tochemey/goakt/v3/log"
	"golang.org/x/sync/errgroup"
)

// Step advances boids by exactly one tick inside a world of the given size,
// updating every boid in place. It is the sequential, allocate-per-call form
// of Flock.Step.
//
// Boids outside [0,width] x [0,height] when the tick starts (the world may
// have shrunk since the last tick) are left out of the index, so nobody sees
// them during this tick, but they still steer and move, and are wrapped
// against the new bounds.
func Step(boids []Boid, width, height float64, p Params) {
	tree := quadtree.New(quadtree.NewRect(0, 0, width, height))
	index(tree, boids)

	hood := NewNeighborhood(boids, tree)
	for i := range boids {
		hood.Steer(i, p)
	}

	for i := range boids {
		boids[i].integrate(width, height)
	}
}

func index(tree *quadtree.Tree, boids []Boid) int {
	dropped := 0
	for i := range boids {
		if !tree.Insert(i, boids[i].Position) {
			dropped++
		}
	}
	return dropped
}

// Flock owns a population of boids and the spatial index rebuilt for each tick.
// It is driven from a single goroutine: Step, Reset and SetParams must not be
// called concurrently.
type Flock struct {
	boids  []Boid
	params Params
	tree   *quadtree.Tree
	hoods  []*Neighborhood

	workers        int
	tracePartition bool
	partition      []quadtree.Rect

	tick          uint64
	width, height float64
	logger        log.Logger
}

// Option configures a Flock.
type Option func(*Flock)

// WithWorkers runs the steering phase on n goroutines. n <= 1 keeps it sequential.
func WithWorkers(n int) Option {
	return func(f *Flock) {
		if n < 1 {
			n = 1
		}
		f.workers = n
	}
}

// WithLogger sets the logger used for lifecycle and per tick debug messages.
func WithLogger(logger log.Logger) Option {
	return func(f *Flock) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithPartitionTrace makes every Step record the node boundaries of its quadtree,
// available from Partition until the next Step.
func WithPartitionTrace(enabled bool) Option {
	return func(f *Flock) {
		f.tracePartition = enabled
	}
}

// New creates a Flock owning boids.
func New(boids []Boid, params Params, opts ...Option) *Flock {
	f := &Flock{
		boids:   boids,
		params:  params,
		tree:    quadtree.New(quadtree.NewRect(0, 0, 0, 0)),
		workers: 1,
		logger:  log.DiscardLogger,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger.Infof("🐦 flock of %d boids created (workers: %d)", len(f.boids), f.workers)
	return f
}

// NewFromConfig creates a Flock of cfg.FlockSize random boids spread over the configured world.
func NewFromConfig(cfg *Config, logger log.Logger) *Flock {
	f := New(
		NewBoids(NewRand(cfg.Seed), cfg.FlockSize, cfg.WorldWidth, cfg.WorldHeight),
		cfg.Steering,
		WithWorkers(cfg.Workers),
		WithLogger(logger),
		WithPartitionTrace(cfg.DisplayPartition),
	)
	f.width, f.height = cfg.WorldWidth, cfg.WorldHeight
	return f
}

// NewRand returns a PCG generator seeded with seed, or with a random seed when seed is 0.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Reset replaces the whole population with n random boids, and restarts the tick counter.
func (f *Flock) Reset(rng *rand.Rand, n int, width, height float64) {
	f.boids = NewBoids(rng, n, width, height)
	f.tick = 0
	f.width, f.height = width, height
	f.partition = f.partition[:0]
	f.logger.Infof("🔄 flock reset with %d boids in %.0fx%.0f", n, width, height)
}

// Boids returns the population. The slice is owned by the Flock and is
// rewritten by the next Step.
func (f *Flock) Boids() []Boid { return f.boids }

// Len returns the number of boids.
func (f *Flock) Len() int { return len(f.boids) }

// Tick returns the number of Step calls since creation or the last Reset.
func (f *Flock) Tick() uint64 { return f.tick }

// Params returns the steering parameters used by the next Step.
func (f *Flock) Params() Params { return f.params }

// SetParams changes the steering parameters from the next Step on.
func (f *Flock) SetParams(p Params) { f.params = p }

// SetPartitionTrace turns the recording of quadtree boundaries on or off.
func (f *Flock) SetPartitionTrace(enabled bool) {
	f.tracePartition = enabled
	if !enabled {
		f.partition = f.partition[:0]
	}
}

// Partition returns the node boundaries of the quadtree built by the last Step,
// parents before children. Empty unless partition tracing is on.
func (f *Flock) Partition() []quadtree.Rect { return f.partition }

// Bounds returns the world size given to the last Step.
func (f *Flock) Bounds() (width, height float64) { return f.width, f.height }

// Step advances the flock by one tick in a world of the given size.
// The world size may change from one tick to the next.
func (f *Flock) Step(width, height float64) {
	// 1. Index
	f.tree.Reset(quadtree.NewRect(0, 0, width, height))
	dropped := index(f.tree, f.boids)

	// 2. Steering, read only on positions and velocities
	if f.workers > 1 && len(f.boids) > f.workers {
		f.steerParallel()
	} else {
		f.steerSequential()
	}

	// 3. Integration, only once every boid has its steering
	for i := range f.boids {
		f.boids[i].integrate(width, height)
	}

	if f.tracePartition {
		f.recordPartition()
	}
	f.tick++
	f.width, f.height = width, height

	f.logger.Debugf("tick %d: %d boids, %d nodes, depth %d, %d outside %.0fx%.0f",
		f.tick, len(f.boids), f.tree.Nodes(), f.tree.Depth(), dropped, width, height)
}

func (f *Flock) steerSequential() {
	hood := f.neighborhood(0)
	for i := range f.boids {
		hood.Steer(i, f.params)
	}
}

// steerParallel splits the boids into one contiguous chunk per worker.
// Each boid is written by exactly one goroutine and only its steering fields
// are written, so the result is the same as steerSequential.
func (f *Flock) steerParallel() {
	n := len(f.boids)
	chunk := (n + f.workers - 1) / f.workers
	params := f.params

	var g errgroup.Group
	g.SetLimit(f.workers)
	for w, start := 0, 0; start < n; w, start = w+1, start+chunk {
		end := min(start+chunk, n)
		hood := f.neighborhood(w)
		g.Go(func() error {
			for i := start; i < end; i++ {
				hood.Steer(i, params)
			}
			return nil
		})
	}
	// workers never fail
	_ = g.Wait()
}

// neighborhood returns the w-th reusable Neighborhood, pointed at the current boids and tree.
func (f *Flock) neighborhood(w int) *Neighborhood {
	for len(f.hoods) <= w {
		f.hoods = append(f.hoods, NewNeighborhood(nil, nil))
	}
	hood := f.hoods[w]
	hood.reset(f.boids, f.tree)
	return hood
}

func (f *Flock) recordPartition() {
	f.partition = f.partition[:0]
	f.tree.Walk(func(n quadtree.NodeInfo) {
		f.partition = append(f.partition, n.Bounds)
	})
}
