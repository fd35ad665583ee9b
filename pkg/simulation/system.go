package simulation

import (
	"context"
	"fmt"

	"github.com/lao-tseu-is-alive/go-flock-quadtree/pkg/flock"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
)

const (
	systemName = "FlockWorld"
	flockName  = "flock"
)

// StartSystem starts the actor system hosting the flock.
func StartSystem(ctx context.Context, logger golog.Logger) (actor.ActorSystem, error) {
	system, err := actor.NewActorSystem(systemName,
		actor.WithLogger(logger),
		actor.WithActorInitMaxRetries(3))
	if err != nil {
		return nil, fmt.Errorf("failed to create actor system: %w", err)
	}
	if err := system.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start actor system: %w", err)
	}
	return system, nil
}

// SpawnFlock builds the flock described by cfg and spawns its actor.
// Snapshots are pushed to snapshotCh without blocking.
func SpawnFlock(ctx context.Context, system actor.ActorSystem, cfg *flock.Config, snapshotCh chan<- *flock.Snapshot) (*actor.PID, error) {
	f := flock.NewFromConfig(cfg, system.Logger())
	// draw reset populations from a stream of their own, so a reset never
	// depends on how many boids the first population had
	resetSeed := cfg.Seed
	if resetSeed != 0 {
		resetSeed++
	}
	rng := flock.NewRand(resetSeed)
	pid, err := system.Spawn(ctx, flockName, NewFlockActor(f, rng, snapshotCh))
	if err != nil {
		return nil, fmt.Errorf("failed to spawn flock: %w", err)
	}
	return pid, nil
}

// LogLevel maps a config log level onto the goakt one, defaulting to info.
func LogLevel(level string) golog.Level {
	switch level {
	case "debug":
		return golog.DebugLevel
	case "warn":
		return golog.WarningLevel
	case "error":
		return golog.ErrorLevel
	default:
		return golog.InfoLevel
	}
}
