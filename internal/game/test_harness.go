package game

import (
	"fmt"
	"time"
)

// TestSim is a headless party harness used by tests and the headless report.
// It paints a level into a pixmap, builds the world and runs the real
// engine loop frame by frame on a manual clock.
type TestSim struct {
	Pix     *Pixmap
	World   *World
	Engine  *Engine
	Time    *ManualTime
	Sound   *SoundRecorder
	Info    *MessageRecorder
	SimLog  *SimLog
	Input   Input // controls applied every frame
	FrameMs int64

	cfg   Config
	items []ItemSpec
	level LevelAssets
	frame int
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra   simOptionKind = iota // config, seed, verbose, arena walls
	simOptFeature                      // areas, bots and objects painted onto the arena
	simOptEngine                       // applied after the engine exists
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// WithArena walls the rectangle (x0,z0)-(x1,z1) inclusive.
func WithArena(x0, z0, x1, z1 int) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		for x := x0; x <= x1; x++ {
			ts.Pix.Set(x, z0, 0, 0, 0xFF)
			ts.Pix.Set(x, z1, 0, 0, 0xFF)
		}
		for z := z0; z <= z1; z++ {
			ts.Pix.Set(x0, z, 0, 0, 0xFF)
			ts.Pix.Set(x1, z, 0, 0, 0xFF)
		}
	}}
}

// WithArea paints the rectangle (x0,z0)-(x1,z1) as area id.
func WithArea(id, x0, z0, x1, z1 int) SimOption {
	return SimOption{simOptFeature, func(ts *TestSim) {
		g := uint8(0xFE - id) // #nosec G115 -- test ids are small
		for z := z0; z <= z1; z++ {
			for x := x0; x <= x1; x++ {
				ts.Pix.Set(x, z, 0, g, 0)
			}
		}
	}}
}

// WithPixel paints one raw colour. Later options overwrite earlier ones.
func WithPixel(x, z int, r, g, b uint8) SimOption {
	return SimOption{simOptFeature, func(ts *TestSim) { ts.Pix.Set(x, z, r, g, b) }}
}

// WithPlayerStart places the player start tile.
func WithPlayerStart(x, z int) SimOption { return WithPixel(x, z, 0xFF, 0, 0) }

// WithBot places a bot spawn. It must touch an area tile.
func WithBot(x, z int, kind BotKind) SimOption {
	if kind == BotDistance {
		return WithPixel(x, z, 0, 200, 200)
	}
	return WithPixel(x, z, 0, 0xFF, 0xFF)
}

// WithDeco places a breakable decoration.
func WithDeco(x, z int, kind DecoKind) SimOption {
	r, g, b := DecoRGB(kind)
	return WithPixel(x, z, r, g, b)
}

// WithBush places an unbreakable obstacle.
func WithBush(x, z int) SimOption { return WithPixel(x, z, 0, 0, 0xE0) }

// WithWall places a single wall tile.
func WithWall(x, z int) SimOption { return WithPixel(x, z, 0, 0, 0xFF) }

// WithRespawn places an area respawn point.
func WithRespawn(x, z int) SimOption { return WithPixel(x, z, 100, 100, 100) }

// WithExit places an exit tile.
func WithExit(x, z int) SimOption { return WithPixel(x, z, 0xFF, 0, 0xFF) }

// WithLevel starts from a loaded level instead of an empty map. Painted
// features are applied on top of its pixmap.
func WithLevel(a LevelAssets) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		if a.Pixmap != nil {
			*ts.Pix = *a.Pixmap
		}
		ts.items = append(ts.items, a.Items...)
		ts.level = a
	}}
}

// WithItem adds a collectible.
func WithItem(spec ItemSpec) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.items = append(ts.items, spec) }}
}

// WithCheat makes the player immune and silences bot launchers.
func WithCheat() SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.cfg.Cheat = true }}
}

// WithSeed sets the bot hesitation seed.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.cfg.BotSeed = seed }}
}

// WithVerbose enables per-frame verbose logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.cfg.Verbose = v }}
}

// WithFrameMs sets the simulated frame duration.
func WithFrameMs(ms int64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.FrameMs = ms }}
}

// WithPlayerDirection turns the player once the party has started.
func WithPlayerDirection(dir float64) SimOption {
	return SimOption{simOptEngine, func(ts *TestSim) {
		ts.Engine.mu.Lock()
		ts.Engine.player.Direction = wrapDirection(dir)
		ts.Engine.mu.Unlock()
	}}
}

// WithPlayerAt moves the player to the centre of tile (x,z) once the party
// has started.
func WithPlayerAt(x, z int, dir float64) SimOption {
	return SimOption{simOptEngine, func(ts *TestSim) {
		ts.Engine.mu.Lock()
		ts.Engine.player.PlaceAt(TilePos{X: x, Z: z}, dir)
		ts.Engine.mu.Unlock()
	}}
}

// WithSimDisplay installs a display hook for tests that drive Run.
func WithSimDisplay(d Display) SimOption {
	return SimOption{simOptEngine, func(ts *TestSim) { ts.Engine.display = d }}
}

// NewTestSim constructs a TestSim from the given options in ordered passes:
//  1. Infrastructure (config, arena walls, items)
//  2. Painted features
//  3. World build, engine construction and party start
//  4. Engine tweaks
//
// It panics when the painted level does not build; a test level is code.
func NewTestSim(opts ...SimOption) *TestSim {
	ts := &TestSim{
		Pix:     &Pixmap{},
		Time:    NewManualTime(time.Unix(0, 0)),
		Sound:   &SoundRecorder{},
		Info:    &MessageRecorder{},
		FrameMs: 20,
		cfg:     DefaultConfig(),
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(ts)
		}
	}
	for _, o := range opts {
		if o.kind == simOptFeature {
			o.fn(ts)
		}
	}
	ts.level.Pixmap = ts.Pix
	w, err := ts.level.BuildWorld(ts.cfg)
	if err != nil {
		panic(fmt.Sprintf("test level: %v", err))
	}
	ts.World = w
	ts.SimLog = NewSimLog(ts.cfg.Verbose)
	ts.Engine = NewEngine(w, ts.cfg,
		WithTimeSource(ts.Time),
		WithSound(ts.Sound),
		WithInfoSink(ts.Info),
		WithItems(ts.items),
		WithVertexBuffers(ts.level.Buffers),
		WithSimLog(ts.SimLog),
		WithInput(InputFunc(func() Input { return ts.Input })),
	)
	ts.Start()
	for _, o := range opts {
		if o.kind == simOptEngine {
			o.fn(ts)
		}
	}
	return ts
}

// Start enters a party the way Run does after the menu.
func (ts *TestSim) Start() {
	e := ts.Engine
	e.gameRunning.Store(true)
	e.SetCycle(CycleGame)
	e.enterParty(false)
}

// RunFrames advances the party n frames of FrameMs each.
func (ts *TestSim) RunFrames(n int) {
	for i := 0; i < n; i++ {
		ts.runOneFrame()
	}
}

// RunUntil advances up to maxFrames, stopping early once predicate holds.
// It returns the frame at which the predicate was satisfied, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxFrames int) int {
	for i := 0; i < maxFrames; i++ {
		ts.runOneFrame()
		if predicate(ts) {
			return ts.frame
		}
	}
	return -1
}

func (ts *TestSim) runOneFrame() {
	ts.frame++
	ts.Info.BeginFrame()
	ts.Time.Advance(time.Duration(ts.FrameMs) * time.Millisecond)
	if ts.Engine.runFrame() {
		ts.Engine.mu.Lock()
		ts.Engine.reinit(true)
		ts.Engine.mu.Unlock()
	}
}

// CurrentFrame returns the number of frames run.
func (ts *TestSim) CurrentFrame() int { return ts.frame }

// Snapshot returns the engine state.
func (ts *TestSim) Snapshot() Snapshot { return ts.Engine.Snapshot() }

// Player returns the live player. Only use it between frames.
func (ts *TestSim) Player() *Player { return ts.Engine.player }

// Slot returns the live entity in slot i. Only use it between frames.
func (ts *TestSim) Slot(i int) *Entity { return ts.Engine.objects.At(i) }

// FirstBot returns the slot of the first live bot, or -1.
func (ts *TestSim) FirstBot() int {
	lo, hi := CategoryBot.Range()
	for i := lo; i < hi; i++ {
		if ts.Engine.objects.slots[i].Shape == ShapeBot {
			return i
		}
	}
	return -1
}

// SoundCall is one recorded sound request.
type SoundCall struct {
	ID         SoundID
	SrcX, SrcZ int
}

// SoundRecorder is a SoundTrigger that remembers every request.
type SoundRecorder struct {
	Calls       []SoundCall
	BotHits     int
	AreaCleared int
	Term        int
	Started     []int
	Stopped     []int
}

func (r *SoundRecorder) PlaySound(id SoundID, srcX, srcZ, _, _ int) {
	r.Calls = append(r.Calls, SoundCall{ID: id, SrcX: srcX, SrcZ: srcZ})
}

func (r *SoundRecorder) PlayBotHit(int, int, int, int) { r.BotHits++ }
func (r *SoundRecorder) PlayAreaCleared()              { r.AreaCleared++ }
func (r *SoundRecorder) PlayTermSound()                { r.Term++ }
func (r *SoundRecorder) StartMovingSound(mask int)     { r.Started = append(r.Started, mask) }
func (r *SoundRecorder) StopMovingSound(mask int)      { r.Stopped = append(r.Stopped, mask) }

// Count returns how many times id was played.
func (r *SoundRecorder) Count(id SoundID) int {
	n := 0
	for _, c := range r.Calls {
		if c.ID == id {
			n++
		}
	}
	return n
}
