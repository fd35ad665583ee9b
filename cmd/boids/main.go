package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lao-tseu-is-alive/go-flock-quadtree/pkg/flock"
	"github.com/lao-tseu-is-alive/go-flock-quadtree/pkg/game"
	"github.com/lao-tseu-is-alive/go-flock-quadtree/pkg/simulation"
	golog "github.com/tochemey/goakt/v3/log"
)

func main() {
	configFile := flag.String("config", "", "flock config file (.json, .yaml or .toml)")
	flag.Parse()

	cfg := flock.DefaultConfig()
	if *configFile != "" {
		var err error
		if cfg, err = flock.LoadConfig(*configFile); err != nil {
			log.Fatalf("💥 error loading config: %v", err)
		}
	}

	ctx := context.Background()
	logger := golog.New(simulation.LogLevel(cfg.LogLevel), os.Stdout)
	system, err := simulation.StartSystem(ctx, logger)
	if err != nil {
		log.Fatalf("💥 %v", err)
	}
	defer func() { _ = system.Stop(ctx) }()

	g, err := game.NewGame(ctx, cfg, system)
	if err != nil {
		log.Fatalf("💥 %v", err)
	}

	ebiten.SetWindowSize(int(cfg.WorldWidth), int(cfg.WorldHeight))
	ebiten.SetWindowTitle("Boids: quadtree flocking")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
