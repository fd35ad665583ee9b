package simulation

import (
	"math/rand/v2"
	"time"

	"github.com/lao-tseu-is-alive/go-flock-quadtree/pkg/flock"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"google.golang.org/protobuf/types/known/structpb"
)

// FlockActor owns the authoritative flock. Every tick message advances it by
// one step and pushes a snapshot to the renderer, so the flock itself is only
// ever touched from the actor's goroutine.
type FlockActor struct {
	flock      *flock.Flock
	rng        *rand.Rand
	snapshotCh chan<- *flock.Snapshot

	// --- Benchmark Stats ---
	ticks       int
	dropped     int
	lastLogTime time.Time
}

// Enforce interface compliance
var _ actor.Actor = (*FlockActor)(nil)

// NewFlockActor wraps f. rng is used to draw the new population on reset.
func NewFlockActor(f *flock.Flock, rng *rand.Rand, snapshotCh chan<- *flock.Snapshot) *FlockActor {
	return &FlockActor{
		flock:       f,
		rng:         rng,
		snapshotCh:  snapshotCh,
		lastLogTime: time.Now(),
	}
}

func (a *FlockActor) PreStart(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Infof("Flock actor starting with %d boids", a.flock.Len())
	return nil
}

func (a *FlockActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *goaktpb.PostStart:
		ctx.Logger().Infof("🐦 %s started", ctx.Self().Name())
		a.pushSnapshot()

	case *structpb.Struct:
		switch messageKind(msg) {
		case kindTick:
			req, err := decodeTick(msg)
			if err != nil {
				ctx.Logger().Warnf("dropping tick: %v", err)
				return
			}
			a.step(req)
			a.logBenchmarks(ctx)
			a.pushSnapshot()

		case kindReset:
			req, err := decodeReset(msg)
			if err != nil {
				ctx.Logger().Warnf("dropping reset: %v", err)
				return
			}
			a.flock.Reset(a.rng, req.Size, req.Width, req.Height)
			a.pushSnapshot()

		default:
			ctx.Unhandled()
		}

	default:
		ctx.Unhandled()
	}
}

func (a *FlockActor) step(req TickRequest) {
	a.flock.SetParams(req.Params)
	a.flock.SetPartitionTrace(req.ShowPartition)
	a.flock.Step(req.Width, req.Height)
	a.ticks++
}

func (a *FlockActor) logBenchmarks(ctx *actor.ReceiveContext) {
	if time.Since(a.lastLogTime) >= time.Second {
		ctx.Logger().Infof("📊 TICK RATE: %d/sec | Boids: %d | Tick: %d | Snapshots skipped: %d",
			a.ticks, a.flock.Len(), a.flock.Tick(), a.dropped)
		a.ticks = 0
		a.dropped = 0
		a.lastLogTime = time.Now()
	}
}

func (a *FlockActor) pushSnapshot() {
	select {
	case a.snapshotCh <- a.flock.Snapshot():
	default:
		// renderer busy, skip frame
		a.dropped++
	}
}

func (a *FlockActor) PostStop(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Info("Flock actor stopped")
	return nil
}
