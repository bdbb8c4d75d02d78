package rlbackend

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

var (
	colorPanel = rl.NewColor(30, 30, 40, 230)
	colorText  = rl.NewColor(220, 220, 220, 255)
)

// Overlay is the F1 debug panel: frame stats, a time scale slider and a
// physics pause toggle. While it is shown the cursor is released.
type Overlay struct {
	Visible bool
	Paused  bool
	styled  bool
}

func NewOverlay() *Overlay { return &Overlay{} }

func (o *Overlay) Toggle() {
	o.Visible = !o.Visible
	if o.Visible {
		rl.EnableCursor()
	} else {
		rl.DisableCursor()
	}
}

// Stats is what the overlay reports about a frame.
type Stats struct {
	Worlds   int
	Entities int
	Drawn    int
	Lights   int
	Sounds   int
	Steps    int
	Scale    float32
}

func (b *Backend) stats() Stats {
	s := Stats{
		Worlds:   len(b.Scene.worlds),
		Entities: len(b.Scene.entities),
		Sounds:   b.Mixer.Playing(),
		Steps:    b.steps,
		Scale:    b.scale,
	}
	if w, ok := b.Scene.worlds[b.Scene.current]; ok {
		s.Drawn = len(w.entities)
		s.Lights = len(w.lights)
	}
	return s
}

// Lines formats s for display.
func (s Stats) Lines() []string {
	return []string{
		fmt.Sprintf("Worlds:   %d", s.Worlds),
		fmt.Sprintf("Entities: %d (%d in current world)", s.Entities, s.Drawn),
		fmt.Sprintf("Lights:   %d", s.Lights),
		fmt.Sprintf("Sounds:   %d playing", s.Sounds),
		fmt.Sprintf("Physics:  %d steps this frame", s.Steps),
	}
}

func (o *Overlay) Draw(b *Backend) {
	rl.DrawFPS(10, 10)
	if !o.Visible {
		rl.DrawText("F1 for debug overlay", 10, 35, 16, rl.DarkGray)
		return
	}
	if !o.styled {
		gui.SetStyle(gui.DEFAULT, gui.BACKGROUND_COLOR, gui.NewColorPropertyValue(colorPanel))
		gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_NORMAL, gui.NewColorPropertyValue(colorText))
		o.styled = true
	}

	const x, y, width = 10, 35, 300
	lines := b.stats().Lines()
	height := int32(len(lines)*20 + 70)
	rl.DrawRectangle(x, y, width, height, colorPanel)
	for i, line := range lines {
		rl.DrawText(line, x+10, y+10+int32(i*20), 16, colorText)
	}

	row := float32(y + 10 + len(lines)*20)
	scale := gui.Slider(rl.Rectangle{X: x + 90, Y: row, Width: 150, Height: 16},
		"Time scale", fmt.Sprintf("%.2f", b.scale), b.scale, 0, 2)
	b.SetTimeScale(scale)
	o.Paused = gui.CheckBox(rl.Rectangle{X: x + 10, Y: row + 26, Width: 16, Height: 16}, "Pause physics", o.Paused)
}
