// Package game is the interactive ebiten front end of the flock.
// It never touches the flock directly: every frame it tells the flock actor
// to step in the current window and draws the latest snapshot it got back.
package game

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lao-tseu-is-alive/go-flock-quadtree/pkg/flock"
	"github.com/lao-tseu-is-alive/go-flock-quadtree/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-flock-quadtree/pkg/ui"
	"github.com/tochemey/goakt/v3/actor"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"
)

const (
	panelWidth = 260
	// boids per DrawTriangles call, three vertices each must fit in uint16 indices
	trianglesPerBatch = 65535 / 3
)

var (
	backgroundColor = colornames.Midnightblue
	boidColor       = colornames.Lightskyblue
	partitionColor  = color.RGBA{R: 70, G: 90, B: 120, A: 160}
)

type Game struct {
	ctx        context.Context
	System     actor.ActorSystem
	flockPID   *actor.PID
	snapshotCh chan *flock.Snapshot
	lastState  *flock.Snapshot

	// world size, follows the window through Layout
	width, height int

	panel *ui.UIPanel

	widgetAlignmentRadius  *ui.Slider
	widgetCohesionRadius   *ui.Slider
	widgetSeparationRadius *ui.Slider
	widgetAlignmentForce   *ui.Slider
	widgetCohesionForce    *ui.Slider
	widgetSeparationForce  *ui.Slider
	widgetFlockSize        *ui.Slider
	widgetShowPartition    *ui.Checkbox
	resetRequested         bool
	showPanel              bool // toggled with P

	pixel    *ebiten.Image
	vertices []ebiten.Vertex
	indices  []uint16

	// Timing instrumentation
	updateAvg float64 // rolling average in ms
	drawAvg   float64
}

// NewGame spawns the flock actor in system and builds the control panel.
func NewGame(ctx context.Context, cfg *flock.Config, system actor.ActorSystem) (*Game, error) {
	// buffered so the actor rarely has to skip a frame
	snapshotCh := make(chan *flock.Snapshot, 4)
	pid, err := simulation.SpawnFlock(ctx, system, cfg, snapshotCh)
	if err != nil {
		return nil, err
	}

	g := &Game{
		ctx:        ctx,
		System:     system,
		flockPID:   pid,
		snapshotCh: snapshotCh,
		lastState:  &flock.Snapshot{}, // avoid nil checks in Draw
		width:      int(cfg.WorldWidth),
		height:     int(cfg.WorldHeight),
		showPanel:  true,
	}

	panel := ui.NewUIPanel("Flock", 10, 10, panelWidth, cfg.WorldHeight-20)
	p := cfg.Steering

	panel.AddSection("Alignment")
	g.widgetAlignmentRadius = panel.AddSlider("Radius", 0, 150, p.AlignmentRadius)
	g.widgetAlignmentForce = panel.AddSlider("Force", 0, 0.2, p.AlignmentForce)

	panel.AddSection("Cohesion")
	g.widgetCohesionRadius = panel.AddSlider("Radius", 0, 150, p.CohesionRadius)
	g.widgetCohesionForce = panel.AddSlider("Force", 0, 0.2, p.CohesionForce)

	panel.AddSection("Separation")
	g.widgetSeparationRadius = panel.AddSlider("Radius", 0, 150, p.SeparationRadius)
	g.widgetSeparationForce = panel.AddSlider("Force", 0, 0.2, p.SeparationForce)

	panel.AddSection("Population")
	g.widgetFlockSize = panel.AddIntSlider("Boids (on reset)", 0, 3000, cfg.FlockSize)
	panel.AddButton("Reset flock", func() { g.resetRequested = true })

	panel.AddSection("Display")
	g.widgetShowPartition = panel.AddCheckbox("Show quadtree", cfg.DisplayPartition)

	g.panel = panel
	return g, nil
}

func (g *Game) params() flock.Params {
	return flock.Params{
		AlignmentRadius:  g.widgetAlignmentRadius.Value,
		CohesionRadius:   g.widgetCohesionRadius.Value,
		SeparationRadius: g.widgetSeparationRadius.Value,
		AlignmentForce:   g.widgetAlignmentForce.Value,
		CohesionForce:    g.widgetCohesionForce.Value,
		SeparationForce:  g.widgetSeparationForce.Value,
	}
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		g.updateAvg = g.updateAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.showPanel = !g.showPanel
	}
	if g.showPanel {
		g.panel.Update()
	}

	// take the latest snapshot, older ones are stale
Loop:
	for {
		select {
		case snap := <-g.snapshotCh:
			g.lastState = snap
		default:
			break Loop
		}
	}

	w, h := float64(g.width), float64(g.height)
	if g.resetRequested {
		g.resetRequested = false
		if err := actor.Tell(g.ctx, g.flockPID, simulation.NewReset(simulation.ResetRequest{
			Size: int(g.widgetFlockSize.Value), Width: w, Height: h,
		})); err != nil {
			return fmt.Errorf("failed to reset flock: %w", err)
		}
	}

	if err := actor.Tell(g.ctx, g.flockPID, simulation.NewTick(simulation.TickRequest{
		Width:         w,
		Height:        h,
		Params:        g.params(),
		ShowPartition: g.widgetShowPartition.Value,
	})); err != nil {
		return fmt.Errorf("failed to tick flock: %w", err)
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.drawAvg = g.drawAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	screen.Fill(backgroundColor)

	if g.widgetShowPartition.Value {
		for _, r := range g.lastState.Partition {
			vector.StrokeRect(screen,
				float32(r.X1), float32(r.Y1),
				float32(r.Width()), float32(r.Height()),
				1, partitionColor, false)
		}
	}

	g.drawBoids(screen)

	if g.showPanel {
		g.panel.Draw(screen)
	}
	g.drawStats(screen)
}

// drawBoids draws every boid as a triangle pointing along its velocity,
// batching as many triangles as the index type allows per call.
func (g *Game) drawBoids(screen *ebiten.Image) {
	if g.pixel == nil {
		g.pixel = ebiten.NewImage(3, 3)
		g.pixel.Fill(color.White)
	}
	boids := g.lastState.Boids
	for start := 0; start < len(boids); start += trianglesPerBatch {
		end := min(start+trianglesPerBatch, len(boids))
		g.vertices = g.vertices[:0]
		g.indices = g.indices[:0]
		for i, b := range boids[start:end] {
			g.vertices = appendTriangle(g.vertices, b, boidColor)
			base := uint16(i * 3)
			g.indices = append(g.indices, base, base+1, base+2)
		}
		screen.DrawTriangles(g.vertices, g.indices, g.pixel, &ebiten.DrawTrianglesOptions{})
	}
}

func appendTriangle(dst []ebiten.Vertex, b flock.BoidState, clr color.RGBA) []ebiten.Vertex {
	angle := b.Velocity.Angle()
	x, y := b.Position.X, b.Position.Y
	r := float32(clr.R) / 255
	gr := float32(clr.G) / 255
	bl := float32(clr.B) / 255
	a := float32(clr.A) / 255

	vertex := func(dist, offset float64) ebiten.Vertex {
		return ebiten.Vertex{
			DstX:   float32(x + math.Cos(angle+offset)*dist),
			DstY:   float32(y + math.Sin(angle+offset)*dist),
			SrcX:   1,
			SrcY:   1,
			ColorR: r,
			ColorG: gr,
			ColorB: bl,
			ColorA: a,
		}
	}
	// tip, then the two back corners
	return append(dst, vertex(6, 0), vertex(5, 2.5), vertex(5, -2.5))
}

func (g *Game) drawStats(screen *ebiten.Image) {
	msg := fmt.Sprintf("Boids: %d  Tick: %d  Nodes: %d\nFPS: %.1f  TPS: %.1f\nUpdate: %.2fms  Draw: %.2fms",
		len(g.lastState.Boids), g.lastState.Tick, len(g.lastState.Partition),
		ebiten.ActualFPS(), ebiten.ActualTPS(), g.updateAvg, g.drawAvg)
	text.Draw(screen, msg, basicfont.Face7x13, g.width-260, 20, colornames.White)
}

// Layout makes the world follow the window, boids outside a shrunk window
// are wrapped back in on the next tick.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 && (outsideWidth != g.width || outsideHeight != g.height) {
		g.width, g.height = outsideWidth, outsideHeight
		g.panel.SetHeight(float64(outsideHeight) - 20)
	}
	return g.width, g.height
}
