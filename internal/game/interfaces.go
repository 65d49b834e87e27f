package game

import "fmt"

// GameCycle is the externally driven phase the outer loop waits on.
type GameCycle int32

const (
	CycleMainMenu GameCycle = iota
	CycleGame
)

func (c GameCycle) String() string {
	if c == CycleGame {
		return "game"
	}
	return "main_menu"
}

// Display is called once per loop iteration, after the simulation step, so
// the view can present the current state. It must not mutate the engine.
type Display interface {
	Display()
}

// Input is the control state polled once per frame.
type Input struct {
	RunningForward  bool
	RunningBackward bool
	LeftStepping    bool
	RightStepping   bool
	TurningLeft     bool
	TurningRight    bool
	RunningFast     bool
	Firing          bool
	MouseDeltaX     float64
}

// InputSource supplies the control state.
type InputSource interface {
	PollInput() Input
}

// InfoSink shows short HUD messages. Live messages are pushed every frame
// until they expire.
type InfoSink interface {
	PushInfoMessage(msg string)
}

// AssetSource supplies the static level data. A nil collision map means it is
// derived from the pixmap; a missing start tile means the pixmap's is used.
type AssetSource interface {
	Pixmap() (*Pixmap, error)
	CollisionMap() (*CollisionMap, error)
	Items() ([]ItemSpec, error)
	VertexBuffers() (map[string][]float32, error)
	StartTile() (TilePos, bool, error)
}

// LevelAssets is everything an AssetSource supplies, read in one go.
type LevelAssets struct {
	Pixmap    *Pixmap
	Collision *CollisionMap
	Items     []ItemSpec
	Buffers   map[string][]float32
	Start     TilePos
	HasStart  bool
}

// ReadAssets pulls every asset from src. Any failure is fatal for the level.
func ReadAssets(src AssetSource) (LevelAssets, error) {
	var a LevelAssets
	var err error
	if a.Pixmap, err = src.Pixmap(); err != nil {
		return a, fmt.Errorf("load pixmap: %w", err)
	}
	if a.Collision, err = src.CollisionMap(); err != nil {
		return a, fmt.Errorf("load collision map: %w", err)
	}
	if a.Items, err = src.Items(); err != nil {
		return a, fmt.Errorf("load items: %w", err)
	}
	if a.Buffers, err = src.VertexBuffers(); err != nil {
		return a, fmt.Errorf("load vertex buffers: %w", err)
	}
	if a.Start, a.HasStart, err = src.StartTile(); err != nil {
		return a, fmt.Errorf("load start tile: %w", err)
	}
	return a, nil
}

// BuildWorld builds the world of the assets, honouring an explicit start.
func (a LevelAssets) BuildWorld(cfg Config) (*World, error) {
	w, err := BuildWorld(a.Pixmap, a.Collision, cfg)
	if err != nil {
		return nil, err
	}
	if a.HasStart {
		w.Start, w.HasStart = a.Start, true
	}
	return w, nil
}

// DisplayFunc adapts a function to Display.
type DisplayFunc func()

func (f DisplayFunc) Display() { f() }

// NopDisplay renders nothing.
type NopDisplay struct{}

func (NopDisplay) Display() {}

// IdleInput reports no controls pressed.
type IdleInput struct{}

func (IdleInput) PollInput() Input { return Input{} }

// InputFunc adapts a function to InputSource.
type InputFunc func() Input

func (f InputFunc) PollInput() Input { return f() }

// NopInfo drops messages.
type NopInfo struct{}

func (NopInfo) PushInfoMessage(string) {}

// MessageRecorder keeps the messages pushed during the last frame and the
// distinct messages seen overall.
type MessageRecorder struct {
	Frame []string
	seen  map[string]bool
	order []string
}

func (r *MessageRecorder) PushInfoMessage(msg string) {
	r.Frame = append(r.Frame, msg)
	if r.seen == nil {
		r.seen = make(map[string]bool)
	}
	if !r.seen[msg] {
		r.seen[msg] = true
		r.order = append(r.order, msg)
	}
}

// Seen returns every distinct message in first-seen order.
func (r *MessageRecorder) Seen() []string { return r.order }

// BeginFrame drops the messages of the previous frame.
func (r *MessageRecorder) BeginFrame() { r.Frame = r.Frame[:0] }
