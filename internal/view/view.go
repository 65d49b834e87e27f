// Package view is the ebiten window: a top-down map of the party, a HUD, an
// event panel and a bot inspector. It is the engine's Display, InputSource
// and InfoSink.
package view

import (
	"slices"
	"sync"
	"time"

	"github.com/Garsondee/tuer/internal/game"
	"github.com/Garsondee/tuer/internal/logger"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"
)

// borderWidth is the pixel gap between the window edge and the map viewport.
const borderWidth = 16

// hudScale is the integer upscale applied to HUD text.
const hudScale = 2

// displayWait bounds how long the engine waits for the next window tick, so a
// hidden window does not stall the simulation for good.
const displayWait = 100 * time.Millisecond

// messageLinger is how long a live HUD message stays after its last push.
const messageLinger = 250 * time.Millisecond

// Controller is the part of the engine the window drives.
type Controller interface {
	Snapshot() game.Snapshot
	World() *game.World
	Log() *game.SimLog
	State() game.LoopState
	SetCycle(c game.GameCycle)
	Pause()
	ResumeGame()
	Paused() bool
	NewGame()
	SetCheat(on bool)
	PerformAtExit()
	Resolve(h game.Handle) (game.Entity, bool)
}

// Muter is a sound backend the window can silence.
type Muter interface {
	SetMuted(m bool)
	Muted() bool
}

// Option configures a Game.
type Option func(*Game)

// WithViewport sets the map viewport size in pixels.
func WithViewport(w, h int) Option {
	return func(g *Game) { g.viewW, g.viewH = w, h }
}

// WithTilePixels sets how many pixels one tile spans at zoom 1.
func WithTilePixels(px int) Option {
	return func(g *Game) {
		if px > 0 {
			g.tilePx = px
		}
	}
}

// WithMuter lets the M key toggle the sound.
func WithMuter(m Muter) Option {
	return func(g *Game) { g.muter = m }
}

// Game is the ebiten.Game of the window.
type Game struct {
	ctl      Controller
	world    *game.World
	muter    Muter
	reporter *game.PartyReporter
	events   *EventLog
	log      *logrus.Entry

	width, height int
	viewW, viewH  int
	offX, offY    int
	tilePx        int

	// Offscreen buffers: tiles holds one pixel per tile, worldBuf the map at
	// tilePx per tile, hudBuf the HUD text at 1x.
	tiles     *ebiten.Image
	tilePix   []byte
	lastCells game.CollisionMap
	tilesOK   bool
	worldBuf  *ebiten.Image
	hudBuf    *ebiten.Image
	inspBuf   *ebiten.Image

	cam       camera
	showHUD   bool
	showLog   bool
	inspector Inspector
	prevKeys  map[ebiten.Key]bool
	prevMouse bool
	cursorX   int
	captured  bool
	status    string
	statusAt  time.Time
	lastFrame int
	logSeen   int
	running   bool
	snap      game.Snapshot

	// Engine-facing state, shared with the simulation goroutine.
	mu       sync.Mutex
	input    game.Input
	mouseDX  float64
	messages map[string]time.Time
	tick     chan struct{}
	done     chan struct{}
	doneOnce sync.Once
}

// New returns a window that is not yet attached to an engine.
func New(opts ...Option) *Game {
	g := &Game{
		viewW:     768,
		viewH:     768,
		tilePx:    4,
		offX:      borderWidth,
		offY:      borderWidth,
		showHUD:   true,
		showLog:   true,
		events:    NewEventLog(),
		prevKeys:  map[ebiten.Key]bool{},
		messages:  map[string]time.Time{},
		tick:      make(chan struct{}, 1),
		done:      make(chan struct{}),
		lastFrame: -1,
		log:       logger.Component("view"),
	}
	for _, o := range opts {
		o(g)
	}
	g.width = borderWidth + g.viewW + borderWidth + logPanelWidth
	g.height = borderWidth + g.viewH + borderWidth
	g.cam = camera{zoom: 1, viewW: float64(g.viewW), viewH: float64(g.viewH)}
	return g
}

// Attach binds the window to an engine built with it as display, input and
// info sink.
func (g *Game) Attach(ctl Controller) {
	g.ctl = ctl
	g.world = ctl.World()
	g.reporter = game.NewPartyReporter(g.world, 0, true)
	g.cam.mapPx = float64(game.MapEdgeSize * g.tilePx)
}

// Size returns the window size in pixels.
func (g *Game) Size() (int, int) { return g.width, g.height }

// Display implements game.Display. It paces the engine to the window's tick.
func (g *Game) Display() {
	select {
	case <-g.tick:
	case <-g.done:
	case <-time.After(displayWait):
	}
}

// PollInput implements game.InputSource. The mouse delta accumulates between
// polls.
func (g *Game) PollInput() game.Input {
	g.mu.Lock()
	defer g.mu.Unlock()
	in := g.input
	in.MouseDeltaX = g.mouseDX
	g.mouseDX = 0
	return in
}

// PushInfoMessage implements game.InfoSink.
func (g *Game) PushInfoMessage(msg string) {
	g.mu.Lock()
	g.messages[msg] = time.Now()
	g.mu.Unlock()
}

// liveMessages returns the messages pushed recently, dropping the stale ones.
func (g *Game) liveMessages(now time.Time) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []string
	for m, at := range g.messages {
		if now.Sub(at) > messageLinger {
			delete(g.messages, m)
			continue
		}
		out = append(out, m)
	}
	slices.Sort(out)
	return out
}

// Close releases an engine blocked in Display.
func (g *Game) Close() {
	g.doneOnce.Do(func() { close(g.done) })
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if g.ctl == nil {
		return nil
	}
	if g.handleInput() {
		g.ctl.PerformAtExit()
		g.Close()
		return ebiten.Termination
	}
	switch st := g.ctl.State(); {
	case st != game.StateStopped:
		g.running = true
	case g.running:
		// the engine loop has ended
		g.Close()
		return ebiten.Termination
	}

	s := g.ctl.Snapshot()
	g.snap = s
	if s.Frame != g.lastFrame && s.State != game.StateAtMenu {
		g.lastFrame = s.Frame
		g.reporter.Collect(s)
	}
	g.cam.follow(s.Player.X, s.Player.Z, g.tilePx)
	for _, e := range g.ctl.Log().Since(g.logSeen) {
		g.events.Add(e)
		g.logSeen++
	}

	select {
	case g.tick <- struct{}{}:
	default:
	}
	return nil
}

// Layout implements ebiten.Game.
func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}

func (g *Game) setStatus(msg string) {
	g.status = msg
	g.statusAt = time.Now()
	g.log.Info(msg)
}
