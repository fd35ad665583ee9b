package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	titleHeight   = 30.0
	sectionHeight = 25.0
	labelOffset   = 15.0
)

// Widget is anything the panel can stack.
type Widget interface {
	Update()
	Draw(screen *ebiten.Image)
	// Height is the vertical space taken, label included
	Height() float64
	SetY(y float64)
}

type entry struct {
	label  string
	widget Widget
	top    float64 // label line, set by layout
}

type section struct {
	title   string
	entries []entry
}

// UIPanel stacks widgets in titled sections inside a scrollable box.
type UIPanel struct {
	Title         string
	X, Y          float64
	Width, Height float64
	ScrollOffset  float64

	BGColor     color.RGBA
	BorderColor color.RGBA

	sections []section
}

func NewUIPanel(title string, x, y, width, height float64) *UIPanel {
	return &UIPanel{
		Title:       title,
		X:           x,
		Y:           y,
		Width:       width,
		Height:      height,
		BGColor:     color.RGBA{R: 40, G: 40, B: 45, A: 230},
		BorderColor: color.RGBA{R: 100, G: 100, B: 110, A: 255},
	}
}

// AddSection starts a new section, widgets added next go below its header.
func (p *UIPanel) AddSection(title string) {
	p.sections = append(p.sections, section{title: title})
}

func (p *UIPanel) add(label string, w Widget) {
	if len(p.sections) == 0 {
		p.AddSection("")
	}
	last := &p.sections[len(p.sections)-1]
	last.entries = append(last.entries, entry{label: label, widget: w})
	p.layout()
}

func (p *UIPanel) AddSlider(label string, min, max, value float64) *Slider {
	s := NewSlider(p.X+10, 0, p.Width-20, label, min, max, value)
	p.add(label, s)
	return s
}

// AddIntSlider adds a slider snapping to whole numbers.
func (p *UIPanel) AddIntSlider(label string, min, max, value int) *Slider {
	s := NewSlider(p.X+10, 0, p.Width-20, label, float64(min), float64(max), float64(value))
	s.Step = 1
	s.SetValue(float64(value))
	p.add(label, s)
	return s
}

func (p *UIPanel) AddCheckbox(label string, value bool) *Checkbox {
	c := NewCheckbox(p.X+10, 0, label, value)
	p.add(label, c)
	return c
}

func (p *UIPanel) AddButton(label string, onClick func()) *Button {
	b := NewButton(p.X+10, 0, p.Width-20, 24, label, onClick)
	p.add("", b)
	return b
}

// layout places every widget according to the current scroll offset.
func (p *UIPanel) layout() {
	y := p.Y + titleHeight - p.ScrollOffset
	for i := range p.sections {
		y += sectionHeight
		entries := p.sections[i].entries
		for j := range entries {
			e := &entries[j]
			e.top = y
			if e.label != "" {
				e.widget.SetY(y + labelOffset)
			} else {
				e.widget.SetY(y)
			}
			y += e.widget.Height()
		}
	}
}

// ContentHeight is the height of everything the panel holds, title included.
func (p *UIPanel) ContentHeight() float64 {
	h := titleHeight
	for _, s := range p.sections {
		h += sectionHeight
		for _, e := range s.entries {
			h += e.widget.Height()
		}
	}
	return h
}

// Scroll moves the content by dy pixels, clamped to the content.
func (p *UIPanel) Scroll(dy float64) {
	maxScroll := max(p.ContentHeight()-p.Height+10, 0)
	p.ScrollOffset = min(max(p.ScrollOffset+dy, 0), maxScroll)
	p.layout()
}

// Contains reports whether the point lies on the panel.
func (p *UIPanel) Contains(x, y float64) bool {
	return hit(x, y, p.X, p.Y, p.Width, p.Height)
}

// SetHeight resizes the panel, typically to follow the window.
func (p *UIPanel) SetHeight(h float64) {
	p.Height = h
	p.Scroll(0)
}

func (p *UIPanel) Update() {
	if _, dy := ebiten.Wheel(); dy != 0 {
		mx, my := ebiten.CursorPosition()
		if p.Contains(float64(mx), float64(my)) {
			p.Scroll(-dy * 20)
		}
	}
	for _, s := range p.sections {
		for _, e := range s.entries {
			if p.visible(e) {
				e.widget.Update()
			}
		}
	}
}

// visible reports whether the entry fits between the title and the bottom edge.
func (p *UIPanel) visible(e entry) bool {
	return e.top >= p.Y+titleHeight && e.top+e.widget.Height() <= p.Y+p.Height
}

func (p *UIPanel) Draw(screen *ebiten.Image) {
	vector.FillRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		p.BGColor, true)
	vector.StrokeRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		2, p.BorderColor, true)
	ebitenutil.DebugPrintAt(screen, p.Title, int(p.X+10), int(p.Y+5))

	top := p.Y + titleHeight
	bottom := p.Y + p.Height
	y := top - p.ScrollOffset
	for _, s := range p.sections {
		if y >= top-sectionHeight && y+20 <= bottom {
			vector.FillRect(screen,
				float32(p.X+5), float32(y),
				float32(p.Width-10), 20,
				color.RGBA{R: 60, G: 60, B: 70, A: 255}, true)
			ebitenutil.DebugPrintAt(screen, s.title, int(p.X+10), int(y+3))
		}
		y += sectionHeight

		for _, e := range s.entries {
			if p.visible(e) {
				if e.label != "" {
					ebitenutil.DebugPrintAt(screen, e.label, int(p.X+10), int(e.top))
				}
				e.widget.Draw(screen)
			}
			y += e.widget.Height()
		}
	}
}

func hit(px, py, x, y, w, h float64) bool {
	return px >= x && px <= x+w && py >= y && py <= y+h
}
