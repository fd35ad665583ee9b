package ui

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const sliderHeight = 12

// Slider is a horizontal bar the user drags to pick a value in [Min, Max].
type Slider struct {
	Label    string
	Value    float64
	Min, Max float64
	// Step > 0 snaps the value to multiples of Step above Min
	Step float64
	X, Y float64
	W, H float64
}

// NewSlider creates a slider with its value clamped into [min, max].
func NewSlider(x, y, w float64, label string, min, max, value float64) *Slider {
	s := &Slider{
		Label: label,
		Min:   min,
		Max:   max,
		X:     x,
		Y:     y,
		W:     w,
		H:     sliderHeight,
	}
	s.SetValue(value)
	return s
}

// SetValue clamps v into the slider range, snapping it when Step is set.
func (s *Slider) SetValue(v float64) {
	if s.Step > 0 {
		v = s.Min + math.Round((v-s.Min)/s.Step)*s.Step
	}
	s.Value = math.Max(s.Min, math.Min(s.Max, v))
}

// valueAt maps a cursor abscissa onto the slider range.
func (s *Slider) valueAt(mx float64) float64 {
	if s.W <= 0 {
		return s.Min
	}
	p := (mx - s.X) / s.W
	return s.Min + p*(s.Max-s.Min)
}

func (s *Slider) ratio() float64 {
	if s.Max == s.Min {
		return 0
	}
	return (s.Value - s.Min) / (s.Max - s.Min)
}

func (s *Slider) Update() {
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	if hit(float64(mx), float64(my), s.X, s.Y, s.W, s.H) {
		s.SetValue(s.valueAt(float64(mx)))
	}
}

func (s *Slider) Draw(screen *ebiten.Image) {
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W), float32(s.H), color.RGBA{R: 80, G: 80, B: 80, A: 255}, true)
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W*s.ratio()), float32(s.H), color.RGBA{R: 200, G: 200, B: 200, A: 255}, true)

	// value on the right end of the label line
	txt := s.formatValue()
	ebitenutil.DebugPrintAt(screen, txt, int(s.X+s.W)-len(txt)*6, int(s.Y)-15)
}

func (s *Slider) formatValue() string {
	switch {
	case s.Step >= 1:
		return fmt.Sprintf("%.0f", s.Value)
	case s.Max <= 1:
		return fmt.Sprintf("%.3f", s.Value)
	default:
		return fmt.Sprintf("%.1f", s.Value)
	}
}

func (s *Slider) Height() float64 { return s.H + 25 }

func (s *Slider) SetY(y float64) { s.Y = y }
