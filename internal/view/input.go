package view

import (
	"math"

	"github.com/Garsondee/tuer/internal/game"
	"github.com/hajimehoshi/ebiten/v2"
)

// controls maps held keys to the engine's control state.
func controls(pressed func(ebiten.Key) bool) game.Input {
	held := func(keys ...ebiten.Key) bool {
		for _, k := range keys {
			if pressed(k) {
				return true
			}
		}
		return false
	}
	return game.Input{
		RunningForward:  held(ebiten.KeyW, ebiten.KeyArrowUp),
		RunningBackward: held(ebiten.KeyS, ebiten.KeyArrowDown),
		LeftStepping:    held(ebiten.KeyA),
		RightStepping:   held(ebiten.KeyD),
		TurningLeft:     held(ebiten.KeyArrowLeft, ebiten.KeyQ),
		TurningRight:    held(ebiten.KeyArrowRight, ebiten.KeyE),
		RunningFast:     held(ebiten.KeyShiftLeft, ebiten.KeyShiftRight),
		Firing:          held(ebiten.KeySpace, ebiten.KeyControlLeft, ebiten.KeyControlRight),
	}
}

// edgeKeys are the toggles that fire once per press.
var edgeKeys = []ebiten.Key{
	ebiten.KeyEnter, ebiten.KeyP, ebiten.KeyN, ebiten.KeyC, ebiten.KeyH,
	ebiten.KeyL, ebiten.KeyM, ebiten.KeyF2, ebiten.KeyEqual, ebiten.KeyMinus,
	ebiten.KeyTab, ebiten.KeyI, ebiten.KeyEscape,
}

// handleInput reads the keyboard and mouse once per tick. It returns true
// when the player asked to quit.
func (g *Game) handleInput() bool {
	in := controls(ebiten.IsKeyPressed)
	mx, my := ebiten.CursorPosition()
	mouseLeft := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	dx := 0.0
	if g.captured {
		dx = float64(mx - g.cursorX)
		in.Firing = in.Firing || mouseLeft
	}
	g.cursorX = mx

	g.mu.Lock()
	g.input = in
	g.mouseDX += dx
	g.mu.Unlock()

	current := make(map[ebiten.Key]bool, len(edgeKeys))
	pressed := func(k ebiten.Key) bool { return current[k] && !g.prevKeys[k] }
	for _, k := range edgeKeys {
		current[k] = ebiten.IsKeyPressed(k)
	}
	defer func() { g.prevKeys = current }()

	if pressed(ebiten.KeyEscape) {
		return true
	}
	if pressed(ebiten.KeyEnter) && g.ctl.State() == game.StateAtMenu {
		g.ctl.SetCycle(game.CycleGame)
	}
	if pressed(ebiten.KeyP) {
		if g.ctl.Paused() {
			g.ctl.ResumeGame()
		} else {
			g.ctl.Pause()
		}
	}
	if pressed(ebiten.KeyN) {
		g.ctl.NewGame()
		g.setStatus("new game")
	}
	if pressed(ebiten.KeyC) {
		on := !g.snap.Cheat
		g.ctl.SetCheat(on)
		g.setStatus(map[bool]string{true: "cheat on", false: "cheat off"}[on])
	}
	if pressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	if pressed(ebiten.KeyL) {
		g.showLog = !g.showLog
	}
	if pressed(ebiten.KeyM) && g.muter != nil {
		g.muter.SetMuted(!g.muter.Muted())
	}
	if pressed(ebiten.KeyF2) {
		g.copyReport()
	}
	if pressed(ebiten.KeyEqual) {
		g.cam.zoomBy(1.25)
	}
	if pressed(ebiten.KeyMinus) {
		g.cam.zoomBy(1 / 1.25)
	}
	if _, wy := ebiten.Wheel(); wy != 0 {
		g.cam.zoomBy(math.Pow(1.12, wy))
	}
	if pressed(ebiten.KeyTab) {
		g.captured = !g.captured
		if g.captured {
			ebiten.SetCursorMode(ebiten.CursorModeCaptured)
		} else {
			ebiten.SetCursorMode(ebiten.CursorModeVisible)
		}
	}
	if pressed(ebiten.KeyI) {
		g.inspector.rawView = !g.inspector.rawView
	}

	if !g.captured && mouseLeft && !g.prevMouse {
		g.handleInspectorClick(mx, my)
	}
	g.prevMouse = mouseLeft
	return false
}
