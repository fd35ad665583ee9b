package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/lao-tseu-is-alive/go-flock-quadtree/pkg/flock"
	"github.com/lao-tseu-is-alive/go-flock-quadtree/pkg/simulation"
	golog "github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

func main() {
	configFile := flag.String("config", "", "flock config file (.json, .yaml or .toml)")
	ticks := flag.Int("ticks", 1000, "number of ticks to run")
	out := flag.String("out", "", "write the final snapshot as JSON to this file")
	flag.Parse()

	if err := run(*configFile, *ticks, *out); err != nil {
		log.Fatalf("💥 %v", err)
	}
}

// run steps the flock without a window and reports its final fingerprint,
// two runs with the same config and seed end with the same one.
func run(configFile string, ticks int, out string) error {
	cfg := flock.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = flock.LoadConfig(configFile); err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
	}

	runID := uuid.NewString()
	logger := golog.New(simulation.LogLevel(cfg.LogLevel), os.Stdout)
	logger.Infof("🚀 run %s: %d boids in %.0fx%.0f for %d ticks (seed %d, workers %d)",
		runID, cfg.FlockSize, cfg.WorldWidth, cfg.WorldHeight, ticks, cfg.Seed, cfg.Workers)

	f := flock.NewFromConfig(cfg, logger)
	start := time.Now()
	every := max(ticks/10, 1)
	for i := 1; i <= ticks; i++ {
		f.Step(cfg.WorldWidth, cfg.WorldHeight)
		if i%every == 0 {
			logger.Infof("📊 tick %d/%d, %.1f ticks/sec", i, ticks, float64(i)/time.Since(start).Seconds())
		}
	}

	snap := f.Snapshot()
	logger.Infof("✅ run %s done in %s, fingerprint %016x", runID, time.Since(start).Round(time.Millisecond), snap.Fingerprint)

	if out == "" {
		return nil
	}
	st, err := snap.ToProto()
	if err != nil {
		return err
	}
	st.Fields["runId"] = structpb.NewStringValue(runID)
	b, err := protojson.MarshalOptions{Indent: "  "}.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := os.WriteFile(out, b, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	logger.Infof("💾 snapshot written to %s", out)
	return nil
}
