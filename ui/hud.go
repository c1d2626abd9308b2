package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/commons/systems"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title           string
	Rabbits         int
	Predators       int
	Day             int64
	DaysPerSecond   float64
	MeanNourishment float64
	MaxNourishment  float64
	LastPool        float64
	LastShare       float64
	FPS             int32
	Paused          bool
}

// HUD renders the population panel.
type HUD struct {
	renderer *Renderer
	x, y     int32
	width    int32

	// Bars are scaled to the largest count seen so far.
	peakRabbits   int
	peakPredators int
}

// NewHUD creates a new HUD renderer.
func NewHUD(x, y, width int32) *HUD {
	return &HUD{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Draw renders the HUD and returns the Y below it.
func (h *HUD) Draw(data HUDData) int32 {
	r := h.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	h.peakRabbits = max(h.peakRabbits, data.Rabbits)
	h.peakPredators = max(h.peakPredators, data.Predators)

	height := lineHeight*10 + padding*2
	r.DrawPanel(h.x, h.y, h.width, height)

	x := h.x + padding
	inner := h.width - padding*2
	y := h.y + padding

	rl.DrawText(data.Title, x, y, 20, rl.White)
	y += 26

	y = r.DrawCountBar(x, y, "Rabbits", data.Rabbits, h.peakRabbits, r.Theme.RabbitColor, inner)
	y = r.DrawCountBar(x, y, "Predators", data.Predators, h.peakPredators, r.Theme.PredatorColor, inner)

	if data.Predators > 0 {
		y = r.DrawNourishmentBar(x, y, "Nourishment", data.MeanNourishment, data.MaxNourishment, inner)
		y = r.DrawLabelValue(x, y, "Pool/share", fmt.Sprintf("%.2f / %.2f", data.LastPool, data.LastShare))
	} else {
		y = r.DrawLabelValue(x, y, "Nourishment", "-")
		y = r.DrawLabelValue(x, y, "Pool/share", "-")
	}

	y = r.DrawLabelValue(x, y, "Day", fmt.Sprintf("%d (year %.1f)", data.Day, float64(data.Day)/365))
	y = r.DrawLabelValue(x, y, "Speed", fmt.Sprintf("%.0f days/s | FPS %d", data.DaysPerSecond, data.FPS))

	status, color := "Running", rl.Green
	if data.Paused {
		status, color = "PAUSED", rl.Yellow
	}
	rl.DrawText(status, x, y, 16, color)

	return h.y + height
}

// DrawControls renders the key legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanelData holds performance metrics for display.
type PerfPanelData struct {
	PhaseAvg    map[string]time.Duration
	Total       time.Duration
	DaysPerTick float64
	Registry    *systems.PhaseRegistry
}

// PerfPanel renders per-phase tick timings.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
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

// Draw renders the performance panel in phase order.
func (p *PerfPanel) Draw(data PerfPanelData) {
	x := p.x
	y := p.y

	rl.DrawText("Tick Phases", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Total: %s  (%.1f days/tick)", data.Total.Round(time.Microsecond), data.DaysPerTick), x, y, 14, rl.Yellow)
	y += 16

	for _, info := range data.Registry.All() {
		avg := data.PhaseAvg[info.ID]
		pct := float64(0)
		if data.Total > 0 {
			pct = float64(avg) / float64(data.Total) * 100
		}

		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", info.Name, avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
