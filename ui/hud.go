package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/morph/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	Points       int
	Drawn        int
	Tick         int
	FPS          float64
	ScreenHeight int32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD in the bottom-left corner.
func (h *HUD) Draw(data HUDData) {
	y := data.ScreenHeight - 60
	rl.DrawText(data.Title, 10, y, 20, rl.White)
	rl.DrawText(
		fmt.Sprintf("Points: %d (%d drawn) | Tick: %d | FPS: %.0f", data.Points, data.Drawn, data.Tick, data.FPS),
		10, y+25, 16, rl.LightGray,
	)
}

// DrawControls renders the key legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-15, 12, rl.Gray)
}

// PerfPanel renders the per-phase frame timing breakdown.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
	visible  bool
}

// NewPerfPanel creates a hidden performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Toggle switches panel visibility.
func (p *PerfPanel) Toggle() bool {
	p.visible = !p.visible
	return p.visible
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	if !p.visible {
		return
	}
	r := p.renderer
	pad := r.Theme.Padding
	width := int32(230)
	r.DrawPanel(p.x, p.y, width, pad*2+20+16+int32(len(telemetry.Phases()))*(r.Theme.LineHeight+2))

	x := p.x + pad
	y := p.y + pad
	rl.DrawText("Frame Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Tick: %s (max %s)",
		stats.AvgTickDuration.Round(time.Microsecond),
		stats.MaxTickDuration.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 16

	for _, ph := range telemetry.Phases() {
		pct := float32(stats.PhasePct[ph] / 100)
		label := ph.String()
		if pct > 0.5 {
			label += "!"
		}
		y = r.DrawBar(x, y, label, pct, width-pad*2)
	}
}
