package game

// PlayerView is the player as the views see it.
type PlayerView struct {
	X, Y, Z   float64
	Direction float64
	Health    int
	Alive     bool
	Winning   bool
}

// BotView is the display-facing state of one bot slot.
type BotView struct {
	Handle  Handle
	X, Z    float64
	Dir     float64
	Face    int
	Health  int
	Damaged bool
	Running bool
	Area    int
	Kind    BotKind
}

// ObjectView is a static obstacle or decoration.
type ObjectView struct {
	Slot  int
	Shape Shape
	X, Z  float64
	Face  int
}

// ExplosionView is an explosion frame to draw.
type ExplosionView struct {
	X, Z    float32
	Heading float32
	Frame   int
}

// ItemView is a collectible still on the floor.
type ItemView struct {
	Name  string
	X, Z  float64
	Frame int
}

// Snapshot is a consistent copy of everything a view draws. Taking one
// never blocks the simulation for longer than the copy.
type Snapshot struct {
	Frame    int
	Time     int64
	State    LoopState
	Cheat    bool
	Player   PlayerView
	Bots     []BotView
	Objects  []ObjectView
	Rockets  []RocketRecord
	Impacts  []Impact
	Explodes []ExplosionView
	Items    []ItemView
	Cleared  []int
	Messages []string

	Collision CollisionMap
}

// Snapshot copies the current state for a view.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	p := e.player
	s := Snapshot{
		Frame: e.frame,
		Time:  e.clock.CurrentTime(),
		State: e.loopState(e.falling),
		Cheat: e.cfg.Cheat,
		Player: PlayerView{
			X:         p.X,
			Y:         p.Y,
			Z:         p.Z,
			Direction: p.Direction,
			Health:    p.Health(),
			Alive:     p.Alive(),
			Winning:   p.Winning(),
		},
		Rockets:   e.rockets.Records(),
		Impacts:   append([]Impact(nil), e.impacts...),
		Cleared:   e.world.Areas.Cleared(),
		Messages:  e.messages.pending(),
		Collision: e.world.Collision,
	}
	for i := 0; i < NumObjects; i++ {
		o := &e.objects.slots[i]
		switch o.Shape {
		case ShapeBot:
			s.Bots = append(s.Bots, BotView{
				Handle:  Handle{Index: i, Gen: o.gen},
				X:       o.X,
				Z:       o.Z,
				Dir:     o.Dir,
				Face:    o.Face,
				Health:  o.Health,
				Damaged: o.Damage != 0,
				Running: o.Running,
				Area:    o.Area,
				Kind:    o.Kind,
			})
		case ShapeBush, ShapeDeco:
			s.Objects = append(s.Objects, ObjectView{Slot: i, Shape: o.Shape, X: o.X, Z: o.Z, Face: o.Face})
		}
	}
	for _, ex := range e.explosions {
		s.Explodes = append(s.Explodes, ExplosionView{X: ex.X, Z: ex.Z, Heading: ex.Heading, Frame: ex.Frame})
	}
	for _, it := range e.items {
		s.Items = append(s.Items, ItemView{Name: it.Name, X: it.X, Z: it.Z, Frame: it.Frame})
	}
	return s
}
