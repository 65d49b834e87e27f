package game

import (
	"sync"
	"sync/atomic"

	"github.com/Garsondee/tuer/internal/logger"
	"github.com/sirupsen/logrus"
)

// Engine owns one level's simulation: the world, the entity table, the
// player and the loop flags. All mutation happens on the goroutine running
// Run (or calling Step); views read through Snapshot.
type Engine struct {
	mu sync.RWMutex

	cfg     Config
	world   *World
	objects *EntityTable
	player  *Player
	clock   *Clock

	rockets    *RocketBook
	impacts    []Impact
	explosions []*Explosion
	items      []*HealthPowerUp
	messages   messageBoard
	botWalk    BotWalkGate
	buffers    map[string][]float32

	explosionFactory *ExplosionFactory
	itemFactory      *HealthPowerUpFactory

	sound   SoundTrigger
	display Display
	input   InputSource
	info    InfoSink
	log     *logrus.Entry
	simLog  *SimLog

	frame           int
	fcf             int
	lastShot        int64
	lastBotShotTime int64
	falling         bool
	fallStart       int64
	playerMoving    bool
	lastArea        int
	exitPosted      bool

	gameRunning atomic.Bool
	innerLoop   atomic.Bool
	paused      atomic.Bool
	cycle       atomic.Int32
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithSound routes sound requests to s.
func WithSound(s SoundTrigger) Option {
	return func(e *Engine) { e.sound = s }
}

// WithDisplay installs the per-iteration display hook.
func WithDisplay(d Display) Option {
	return func(e *Engine) { e.display = d }
}

// WithInput installs the control source polled each frame.
func WithInput(in InputSource) Option {
	return func(e *Engine) { e.input = in }
}

// WithInfoSink installs the HUD message sink.
func WithInfoSink(s InfoSink) Option {
	return func(e *Engine) { e.info = s }
}

// WithTimeSource drives the party clock from ts instead of the wall clock.
func WithTimeSource(ts TimeSource) Option {
	return func(e *Engine) { e.clock = NewClock(ts) }
}

// WithItems sets the collectibles spawned at every (re)start.
func WithItems(specs []ItemSpec) Option {
	return func(e *Engine) { e.itemFactory = NewHealthPowerUpFactory(specs) }
}

// WithVertexBuffers hands the static geometry through to views.
func WithVertexBuffers(b map[string][]float32) Option {
	return func(e *Engine) { e.buffers = b }
}

// WithSimLog records party events into l.
func WithSimLog(l *SimLog) Option {
	return func(e *Engine) { e.simLog = l }
}

// NewEngine builds an engine over a built world and prepares the first
// party. The engine sits at the main menu until SetCycle(CycleGame).
func NewEngine(w *World, cfg Config, opts ...Option) *Engine {
	cfg = cfg.withDefaults()
	e := &Engine{
		cfg:      cfg,
		world:    w,
		objects:  NewEntityTable(),
		player:   NewPlayer(),
		rockets:  NewRocketBook(),
		sound:    NopSound{},
		display:  NopDisplay{},
		input:    IdleInput{},
		info:     NopInfo{},
		log:      logger.Component("engine"),
		lastArea: NoArea,
	}
	for _, o := range opts {
		o(e)
	}
	if e.clock == nil {
		e.clock = NewClock(SystemTime)
	}
	if e.itemFactory == nil {
		e.itemFactory = NewHealthPowerUpFactory(nil)
	}
	if e.simLog == nil {
		e.simLog = NewSimLog(cfg.Verbose)
	}
	e.explosionFactory = NewExplosionFactory(e.clock)
	e.reinit(false)
	return e
}

// Load reads every asset from src, builds the world and returns an engine.
// Any asset failure is fatal for the level.
func Load(src AssetSource, cfg Config, opts ...Option) (*Engine, error) {
	a, err := ReadAssets(src)
	if err != nil {
		return nil, err
	}
	w, err := a.BuildWorld(cfg)
	if err != nil {
		return nil, err
	}
	base := []Option{WithItems(a.Items), WithVertexBuffers(a.Buffers)}
	return NewEngine(w, cfg, append(base, opts...)...), nil
}

// reinit puts every slot back to its level placement. The player keeps a
// zero health after a death so the respawn happens when the next party
// actually starts.
func (e *Engine) reinit(killed bool) {
	if !killed {
		e.player.Respawn()
	}
	e.player.SetLoser()
	e.paused.Store(false)
	e.resetPlayerPosition()
	e.resetLevel()
	e.playerMoving = false
	e.falling = false
	e.fallStart = 0
	e.sound.StopMovingSound(0xFFFF)
	e.botWalk.Reset()
	e.log.WithFields(logrus.Fields{
		"killed": killed,
		"bots":   e.objects.Count(CategoryBot),
	}).Debug("reinit")
}

// resetLevel restores the mutable world and respawns the placements. Bots of
// cleared areas stay dead until a new game.
func (e *Engine) resetLevel() {
	e.world.ResetCollision()
	e.world.Areas.resetLights()
	e.objects.Reset()
	e.world.Areas.clearAllMembers()
	e.applyPlacements()
	e.rockets.Reset()
	e.impacts = e.impacts[:0]
	for _, ex := range e.explosions {
		ex.Dispose()
	}
	e.explosions = e.explosions[:0]
	for _, it := range e.items {
		it.Dispose()
	}
	e.items = e.itemFactory.Spawn()
	e.messages.purge()
	e.lastArea = NoArea
	e.exitPosted = false
}

func (e *Engine) applyPlacements() {
	for _, p := range e.world.Placements {
		if p.Shape == ShapeBot && e.world.Areas.IsCleared(p.Area) {
			continue
		}
		var c Category
		switch p.Shape {
		case ShapeBot:
			c = CategoryBot
		case ShapeBush:
			c = CategoryBush
		default:
			c = CategoryDeco
		}
		slot, ok := e.objects.Alloc(c)
		if !ok {
			e.log.WithFields(logrus.Fields{"category": c, "x": p.Tile.X, "z": p.Tile.Z}).Warn("object pool exhausted")
			continue
		}
		o := e.objects.At(slot)
		o.X, o.Z = p.Tile.Center()
		o.Shape = p.Shape
		o.Face = p.Face
		if p.Shape == ShapeBot {
			o.Speed = 1
			o.Sleep = p.Sleep
			o.Kind = p.Kind
			o.Area = p.Area
			o.Health = botMaxHealth
			e.world.Areas.Get(p.Area).AddMember(slot)
		}
	}
}

func (e *Engine) resetPlayerPosition() {
	e.player.PlaceAt(e.world.Start, FullCircle/2)
}

// respawnAfterDeath restores the player at the spawn point of the last
// cleared area, or at the level start.
func (e *Engine) respawnAfterDeath() {
	e.player.Respawn()
	if a, ok := e.world.Areas.LastSpawn(); ok {
		e.player.PlaceAt(TilePos{X: a.SpawnX, Z: a.SpawnZ}, a.SpawnDir)
	} else {
		e.resetPlayerPosition()
	}
	e.log.WithFields(logrus.Fields{"x": e.player.Tile().X, "z": e.player.Tile().Z}).Info("player respawned")
}

// NewGame forgets cleared areas, restores the level and ends the current
// party. Safe from any goroutine.
func (e *Engine) NewGame() {
	e.mu.Lock()
	e.world.Areas.ResetCleared()
	e.resetLevel()
	e.player.SetLoser()
	e.mu.Unlock()
	e.innerLoop.Store(false)
	e.log.Info("new game")
}

// ResumeGame lifts the pause.
func (e *Engine) ResumeGame() { e.paused.Store(false) }

// Pause freezes the party clock from the next frame on.
func (e *Engine) Pause() { e.paused.Store(true) }

// Paused reports whether a pause was requested.
func (e *Engine) Paused() bool { return e.paused.Load() }

// SetCycle switches between menu and party. The outer loop waits for
// CycleGame before starting a party.
func (e *Engine) SetCycle(c GameCycle) { e.cycle.Store(int32(c)) }

// Cycle returns the current phase.
func (e *Engine) Cycle() GameCycle { return GameCycle(e.cycle.Load()) }

// IsGameRunning reports whether the outer loop is alive.
func (e *Engine) IsGameRunning() bool { return e.gameRunning.Load() }

// InParty reports whether the inner loop is active.
func (e *Engine) InParty() bool { return e.innerLoop.Load() }

// SetCheat toggles the cheat flag.
func (e *Engine) SetCheat(on bool) {
	e.mu.Lock()
	e.cfg.Cheat = on
	e.mu.Unlock()
}

// World returns the static world. Its collision map changes while a party
// runs; read it through Snapshot from other goroutines.
func (e *Engine) World() *World { return e.world }

// Buffers returns the static vertex buffers of the level.
func (e *Engine) Buffers() map[string][]float32 { return e.buffers }

// Log returns the party event log.
func (e *Engine) Log() *SimLog { return e.simLog }

// Clock returns the party clock.
func (e *Engine) Clock() *Clock { return e.clock }

// CurrentTime is the party time in ms, 0 before the first party.
func (e *Engine) CurrentTime() int64 { return e.clock.CurrentTime() }

// Handle returns a stable reference to the occupant of slot i.
func (e *Engine) Handle(i int) Handle {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.objects.Handle(i)
}

// Resolve returns a copy of the entity h refers to.
func (e *Engine) Resolve(h Handle) (Entity, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	o, ok := e.objects.Resolve(h)
	if !ok {
		return Entity{}, false
	}
	return *o, true
}

func (e *Engine) pushInfoMessage(msg string, duration int64) {
	e.messages.push(msg, duration, e.clock.CurrentTime())
}

func (e *Engine) playSound(id SoundID, x, z float64) {
	e.sound.PlaySound(id, int(x), int(z), int(e.player.X), int(e.player.Z))
}
