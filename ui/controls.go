package ui

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Action is a user request collected from one frame of input.
type Action uint8

const (
	ActionTogglePause Action = 1 << iota
	ActionSpawnPredator
	ActionTogglePerf
)

// Has reports whether a includes action.
func (a Action) Has(action Action) bool {
	return a&action != 0
}

// ControlsLegend is the key legend drawn at the bottom of the screen.
const ControlsLegend = "[Space] pause/resume  [S] spawn predator  [P] phase timings"

// Controls collects keyboard and button input.
type Controls struct {
	x, y float32
}

// NewControls creates the button row at x, y.
func NewControls(x, y float32) *Controls {
	return &Controls{x: x, y: y}
}

// SetPosition updates the button row position.
func (c *Controls) SetPosition(x, y float32) {
	c.x = x
	c.y = y
}

// Poll draws the buttons and returns the actions requested this frame.
// Must be called between BeginDrawing and EndDrawing.
func (c *Controls) Poll(paused bool) Action {
	var a Action

	if rl.IsKeyPressed(rl.KeySpace) {
		a |= ActionTogglePause
	}
	if rl.IsKeyPressed(rl.KeyS) {
		a |= ActionSpawnPredator
	}
	if rl.IsKeyPressed(rl.KeyP) {
		a |= ActionTogglePerf
	}

	label := "Pause"
	if paused {
		label = "Resume"
	}
	if gui.Button(rl.Rectangle{X: c.x, Y: c.y, Width: 120, Height: 30}, label) {
		a |= ActionTogglePause
	}
	if gui.Button(rl.Rectangle{X: c.x + 130, Y: c.y, Width: 140, Height: 30}, "Spawn Predator") {
		a |= ActionSpawnPredator
	}

	return a
}
