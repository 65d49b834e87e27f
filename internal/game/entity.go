package game

// Shape tags what an entity slot holds.
type Shape int8

const (
	ShapeNone   Shape = -1 // free slot
	ShapeRocket Shape = 0
	ShapeBot    Shape = 2
	ShapeBush   Shape = 3
	ShapeDeco   Shape = 4
)

func (s Shape) String() string {
	switch s {
	case ShapeNone:
		return "none"
	case ShapeRocket:
		return "rocket"
	case ShapeBot:
		return "bot"
	case ShapeBush:
		return "bush"
	case ShapeDeco:
		return "deco"
	default:
		return "unknown"
	}
}

// Slot layout. Each category owns a fixed contiguous range and an entity
// never leaves its range.
const (
	MaxPlayerRockets = 10
	MaxBotRockets    = 10
	MaxBots          = 200
	MaxBushes        = 800
	MaxDeco          = 450

	IndexPlayerRockets = 0
	IndexBotRockets    = IndexPlayerRockets + MaxPlayerRockets
	IndexBots          = IndexBotRockets + MaxBotRockets
	IndexBushes        = IndexBots + MaxBots
	IndexDeco          = IndexBushes + MaxBushes
	NumObjects         = IndexDeco + MaxDeco
)

// Category names a slot range.
type Category uint8

const (
	CategoryPlayerRocket Category = iota
	CategoryBotRocket
	CategoryBot
	CategoryBush
	CategoryDeco
)

func (c Category) String() string {
	switch c {
	case CategoryPlayerRocket:
		return "player_rocket"
	case CategoryBotRocket:
		return "bot_rocket"
	case CategoryBot:
		return "bot"
	case CategoryBush:
		return "bush"
	case CategoryDeco:
		return "deco"
	default:
		return "unknown"
	}
}

// Range returns the half-open slot range of the category.
func (c Category) Range() (lo, hi int) {
	switch c {
	case CategoryPlayerRocket:
		return IndexPlayerRockets, IndexBotRockets
	case CategoryBotRocket:
		return IndexBotRockets, IndexBots
	case CategoryBot:
		return IndexBots, IndexBushes
	case CategoryBush:
		return IndexBushes, IndexDeco
	default:
		return IndexDeco, NumObjects
	}
}

// CategoryOf returns the category owning slot i.
func CategoryOf(i int) Category {
	switch {
	case i < IndexBotRockets:
		return CategoryPlayerRocket
	case i < IndexBots:
		return CategoryBotRocket
	case i < IndexBushes:
		return CategoryBot
	case i < IndexDeco:
		return CategoryBush
	default:
		return CategoryDeco
	}
}

// BotKind separates short-range from long-range bots.
type BotKind uint8

const (
	BotStandard BotKind = iota // holds fire beyond botNearRange
	BotDistance                // fires at any range it can see
)

func (k BotKind) String() string {
	if k == BotDistance {
		return "distance"
	}
	return "standard"
}

// Entity is one slot of the table. Bots keep all their state here, including
// the health and running flag the view displays.
type Entity struct {
	X, Z  float64
	Dir   float64
	Speed int // 0 = inactive
	Shape Shape

	Face     int
	FaceSkip int
	Anim     int
	Damage   int

	Sleep      int // initial hesitation before a bot opens fire
	Sleep2     int // frames a bot stands still after launching
	SeenPlayer bool

	Area    int
	Health  int
	Running bool
	Kind    BotKind

	gen uint32
}

// Active reports whether the slot holds a moving entity.
func (e *Entity) Active() bool { return e.Speed != 0 && e.Shape != ShapeNone }

// Handle is a stable reference to a slot occupant. It goes stale once the
// slot is freed.
type Handle struct {
	Index int
	Gen   uint32
}

// EntityTable is the fixed slot array.
type EntityTable struct {
	slots [NumObjects]Entity
}

// NewEntityTable returns a table with every slot free.
func NewEntityTable() *EntityTable {
	t := &EntityTable{}
	t.Reset()
	return t
}

// Reset frees every slot.
func (t *EntityTable) Reset() {
	for i := range t.slots {
		t.Free(i)
	}
}

// At returns slot i. An index outside the table is fatal.
func (t *EntityTable) At(i int) *Entity {
	if i < 0 || i >= NumObjects {
		fatalf("entity", "slot %d outside [0,%d)", i, NumObjects)
	}
	return &t.slots[i]
}

// Alloc claims the first free slot of the category.
func (t *EntityTable) Alloc(c Category) (int, bool) {
	lo, hi := c.Range()
	for i := lo; i < hi; i++ {
		if t.slots[i].Shape == ShapeNone {
			return i, true
		}
	}
	return -1, false
}

// IsFree reports whether slot i is available.
func (t *EntityTable) IsFree(i int) bool {
	return t.At(i).Shape == ShapeNone
}

// Free releases slot i and invalidates handles to its occupant.
func (t *EntityTable) Free(i int) {
	e := t.At(i)
	gen := e.gen + 1
	*e = Entity{Shape: ShapeNone, Area: NoArea, gen: gen}
}

// Handle returns a stable reference to slot i.
func (t *EntityTable) Handle(i int) Handle {
	return Handle{Index: i, Gen: t.At(i).gen}
}

// Resolve returns the entity a handle points to, or false when stale.
func (t *EntityTable) Resolve(h Handle) (*Entity, bool) {
	if h.Index < 0 || h.Index >= NumObjects {
		return nil, false
	}
	e := &t.slots[h.Index]
	if e.gen != h.Gen || e.Shape == ShapeNone {
		return nil, false
	}
	return e, true
}

// Count returns the occupied slots of a category.
func (t *EntityTable) Count(c Category) int {
	lo, hi := c.Range()
	n := 0
	for i := lo; i < hi; i++ {
		if t.slots[i].Shape != ShapeNone {
			n++
		}
	}
	return n
}

// CountActive returns the number of slots the step would visit.
func (t *EntityTable) CountActive() int {
	n := 0
	for i := range t.slots {
		if t.slots[i].Active() {
			n++
		}
	}
	return n
}
