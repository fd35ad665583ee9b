package simulation

import (
	"context"
	"testing"
	"time"

	"github.com/lao-tseu-is-alive/go-flock-quadtree/pkg/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/types/known/structpb"
)

func testConfig() *flock.Config {
	cfg := flock.DefaultConfig()
	cfg.Seed = 2025
	cfg.FlockSize = 80
	cfg.WorldWidth, cfg.WorldHeight = 300, 200
	return cfg
}

func startFlock(t *testing.T, cfg *flock.Config) (context.Context, *actor.PID, chan *flock.Snapshot) {
	t.Helper()
	ctx := context.Background()
	system, err := StartSystem(ctx, golog.DiscardLogger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = system.Stop(ctx) })

	snapshots := make(chan *flock.Snapshot, 16)
	pid, err := SpawnFlock(ctx, system, cfg, snapshots)
	require.NoError(t, err)
	return ctx, pid, snapshots
}

// waitFor drains snapshots until one satisfies match.
func waitFor(t *testing.T, ch <-chan *flock.Snapshot, match func(*flock.Snapshot) bool) *flock.Snapshot {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case snap := <-ch:
			if match(snap) {
				return snap
			}
		case <-timeout:
			t.Fatal("timed out waiting for snapshot")
			return nil
		}
	}
}

func atTick(tick uint64) func(*flock.Snapshot) bool {
	return func(s *flock.Snapshot) bool { return s.Tick == tick }
}

func TestFlockActor_TickMatchesDirectStep(t *testing.T) {
	cfg := testConfig()
	ctx, pid, snapshots := startFlock(t, cfg)

	local := flock.NewFromConfig(cfg, golog.DiscardLogger)
	for i := 0; i < 3; i++ {
		local.Step(cfg.WorldWidth, cfg.WorldHeight)
		require.NoError(t, actor.Tell(ctx, pid, NewTick(TickRequest{
			Width: cfg.WorldWidth, Height: cfg.WorldHeight, Params: cfg.Steering,
		})))
	}

	snap := waitFor(t, snapshots, atTick(3))
	assert.Equal(t, local.Fingerprint(), snap.Fingerprint)
	assert.Len(t, snap.Boids, cfg.FlockSize)
	assert.Equal(t, cfg.WorldWidth, snap.Width)
	assert.Empty(t, snap.Partition)
}

func TestFlockActor_FollowsWorldSizeAndPartitionFlag(t *testing.T) {
	cfg := testConfig()
	ctx, pid, snapshots := startFlock(t, cfg)

	require.NoError(t, actor.Tell(ctx, pid, NewTick(TickRequest{
		Width: 150, Height: 100, Params: cfg.Steering, ShowPartition: true,
	})))
	snap := waitFor(t, snapshots, atTick(1))

	assert.Equal(t, 150.0, snap.Width)
	assert.Equal(t, 100.0, snap.Height)
	require.NotEmpty(t, snap.Partition)
	for _, b := range snap.Boids {
		assert.True(t, b.Position.X >= 0 && b.Position.X <= 150, "x=%v", b.Position.X)
		assert.True(t, b.Position.Y >= 0 && b.Position.Y <= 100, "y=%v", b.Position.Y)
	}
}

func TestFlockActor_Reset(t *testing.T) {
	cfg := testConfig()
	ctx, pid, snapshots := startFlock(t, cfg)

	tick := NewTick(TickRequest{Width: cfg.WorldWidth, Height: cfg.WorldHeight, Params: cfg.Steering})
	require.NoError(t, actor.Tell(ctx, pid, tick))
	waitFor(t, snapshots, atTick(1))

	require.NoError(t, actor.Tell(ctx, pid, NewReset(ResetRequest{Size: 12, Width: 400, Height: 400})))
	snap := waitFor(t, snapshots, func(s *flock.Snapshot) bool { return s.Tick == 0 && len(s.Boids) == 12 })
	assert.Equal(t, 400.0, snap.Width)
}

func TestFlockActor_IgnoresInvalidMessages(t *testing.T) {
	cfg := testConfig()
	ctx, pid, snapshots := startFlock(t, cfg)

	require.NoError(t, actor.Tell(ctx, pid, NewTick(TickRequest{Width: -1, Height: 10})))
	require.NoError(t, actor.Tell(ctx, pid, &structpb.Struct{}))
	require.NoError(t, actor.Tell(ctx, pid, NewReset(ResetRequest{Size: -1, Width: 10, Height: 10})))
	require.NoError(t, actor.Tell(ctx, pid, NewTick(TickRequest{
		Width: cfg.WorldWidth, Height: cfg.WorldHeight, Params: cfg.Steering,
	})))

	// only the valid tick moved the flock
	snap := waitFor(t, snapshots, func(s *flock.Snapshot) bool { return s.Tick > 0 })
	assert.Equal(t, uint64(1), snap.Tick)
	assert.Len(t, snap.Boids, cfg.FlockSize)
}

func TestLogLevel(t *testing.T) {
	assert.Equal(t, golog.DebugLevel, LogLevel("debug"))
	assert.Equal(t, golog.WarningLevel, LogLevel("warn"))
	assert.Equal(t, golog.ErrorLevel, LogLevel("error"))
	assert.Equal(t, golog.InfoLevel, LogLevel("info"))
	assert.Equal(t, golog.InfoLevel, LogLevel(""))
}
