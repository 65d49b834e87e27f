package game

import (
	"math"

	"github.com/Garsondee/tuer/internal/logger"
	"github.com/sirupsen/logrus"
)

// areaCapacity bounds members, lights and images of one area.
const areaCapacity = 40

// Lighting presets written by the world builder.
const (
	defaultLight      = 255
	defaultFogLevel   = 100
	defaultLightLevel = 256

	darkLight          = 96
	darkLightLevel     = 128
	darkFogLevel       = 160
	halfDarkLight      = 176
	halfDarkLightLevel = 192
)

var areaNames = []string{
	"first contact",
	"double trouble",
	"ambush",
	"junction",
	"sub junction",
	"oops",
	"waterloo",
	"stereo",
	"smallfield",
	"battlefield",
	"bad area",
	"area11",
	"area12",
	"area13",
	"area14",
	"area15",
	"area16",
	"area17",
	"area18",
	"", // goal
	"", // start point
}

// Area is a designer-defined region. Member, light and image tables keep
// holes on removal so indices held elsewhere stay valid.
type Area struct {
	ID         int
	Light      int
	FogLevel   int
	LightLevel int
	Announced  bool

	SpawnX, SpawnZ int // -1 when the area has no respawn point
	SpawnDir       float64

	members  [areaCapacity]int // entity slot index, -1 for a hole
	nmembers int
	everHeld bool

	lights  [areaCapacity]TilePos
	hasLit  [areaCapacity]bool
	nlights int

	images []TilePos

	baseLights []TilePos
}

func newArea(id int) *Area {
	a := &Area{
		ID:         id,
		Light:      defaultLight,
		FogLevel:   defaultFogLevel,
		LightLevel: defaultLightLevel,
		SpawnX:     -1,
		SpawnZ:     -1,
		SpawnDir:   math.Pi,
	}
	for i := range a.members {
		a.members[i] = -1
	}
	return a
}

func (a *Area) log() *logrus.Entry {
	return logger.Component("area").WithField("area", a.ID)
}

// Name is the display name, empty for the goal and start areas.
func (a *Area) Name() string {
	return areaNames[a.ID%len(areaNames)]
}

// Members returns the number of member entities.
func (a *Area) Members() int { return a.nmembers }

// MemberSlots returns the entity slots of all members, skipping holes.
func (a *Area) MemberSlots() []int {
	out := make([]int, 0, a.nmembers)
	for _, s := range a.members {
		if s >= 0 {
			out = append(out, s)
		}
	}
	return out
}

// HasMember reports whether slot belongs to the area.
func (a *Area) HasMember(slot int) bool {
	for _, s := range a.members {
		if s == slot {
			return true
		}
	}
	return false
}

// AddMember stores slot in the first hole. A full area drops the member with
// a warning.
func (a *Area) AddMember(slot int) bool {
	for i, s := range a.members {
		if s < 0 {
			a.members[i] = slot
			a.nmembers++
			a.everHeld = true
			return true
		}
	}
	a.log().WithField("slot", slot).Warn("too many bots in area")
	return false
}

// RemoveMember punches a hole where slot was stored.
func (a *Area) RemoveMember(slot int) bool {
	for i, s := range a.members {
		if s == slot {
			a.members[i] = -1
			a.nmembers--
			return true
		}
	}
	a.log().WithField("slot", slot).Warn("removing a bot that is not a member")
	return false
}

func (a *Area) clearMembers() {
	for i := range a.members {
		a.members[i] = -1
	}
	a.nmembers = 0
}

// AddImage registers a switchable picture wall.
func (a *Area) AddImage(x, z int) bool {
	if len(a.images) >= areaCapacity-1 {
		a.log().Warn("too many images in area")
		return false
	}
	a.images = append(a.images, TilePos{X: x, Z: z})
	return true
}

// Images returns the picture wall tiles.
func (a *Area) Images() []TilePos { return a.images }

// AddLight registers a light source in the first free entry.
func (a *Area) AddLight(x, z int) bool {
	for i := 0; i < areaCapacity-1; i++ {
		if !a.hasLit[i] {
			a.lights[i] = TilePos{X: x, Z: z}
			a.hasLit[i] = true
			a.nlights++
			return true
		}
	}
	a.log().Warn("too many lights in area")
	return false
}

// TryRemoveLight removes the light at (x,z) if there is one.
func (a *Area) TryRemoveLight(x, z int) bool {
	for i := range a.lights {
		if a.hasLit[i] && a.lights[i].X == x && a.lights[i].Z == z {
			a.hasLit[i] = false
			a.nlights--
			return true
		}
	}
	return false
}

// Lights returns the active light tiles.
func (a *Area) Lights() []TilePos {
	out := make([]TilePos, 0, a.nlights)
	for i, p := range a.lights {
		if a.hasLit[i] {
			out = append(out, p)
		}
	}
	return out
}

// snapshotLights remembers the loaded lights so a new game can restore the
// ones rockets destroyed.
func (a *Area) snapshotLights() {
	a.baseLights = a.Lights()
}

func (a *Area) resetLights() {
	a.hasLit = [areaCapacity]bool{}
	a.nlights = 0
	for _, p := range a.baseLights {
		a.AddLight(p.X, p.Z)
	}
}

// SetSpawnPoint records where the player restarts within the area.
func (a *Area) SetSpawnPoint(x, z int) {
	a.SpawnX = x
	a.SpawnZ = z
}

// HasSpawn reports whether a respawn point is set.
func (a *Area) HasSpawn() bool { return a.SpawnX >= 0 && a.SpawnZ >= 0 }

// AreaRegistry holds every area of the level and the order they were cleared.
type AreaRegistry struct {
	areas   [256]*Area
	cleared []int
}

// NewAreaRegistry returns an empty registry.
func NewAreaRegistry() *AreaRegistry {
	return &AreaRegistry{}
}

// Get returns area id, creating it on first use.
func (r *AreaRegistry) Get(id int) *Area {
	id &= 0xFF
	if r.areas[id] == nil {
		r.areas[id] = newArea(id)
	}
	return r.areas[id]
}

// Lookup returns area id without creating it.
func (r *AreaRegistry) Lookup(id int) (*Area, bool) {
	if id < 0 || id > 0xFF || r.areas[id] == nil {
		return nil, false
	}
	return r.areas[id], true
}

// All returns the existing areas in id order.
func (r *AreaRegistry) All() []*Area {
	var out []*Area
	for _, a := range r.areas {
		if a != nil {
			out = append(out, a)
		}
	}
	return out
}

// MarkCleared appends id to the cleared list once. It reports whether the
// area was newly cleared.
func (r *AreaRegistry) MarkCleared(id int) bool {
	if r.IsCleared(id) {
		return false
	}
	r.cleared = append(r.cleared, id)
	return true
}

// IsCleared reports whether id is in the cleared list.
func (r *AreaRegistry) IsCleared(id int) bool {
	for _, c := range r.cleared {
		if c == id {
			return true
		}
	}
	return false
}

// Cleared returns the cleared area ids in clearing order.
func (r *AreaRegistry) Cleared() []int {
	out := make([]int, len(r.cleared))
	copy(out, r.cleared)
	return out
}

// ResetCleared forgets cleared areas and announcements. Used on new game.
func (r *AreaRegistry) ResetCleared() {
	r.cleared = r.cleared[:0]
	for _, a := range r.areas {
		if a != nil {
			a.Announced = false
		}
	}
}

// AllCleared reports whether every area that ever held a bot is cleared.
// A level without bots is never won this way.
func (r *AreaRegistry) AllCleared() bool {
	held := 0
	for _, a := range r.areas {
		if a == nil || !a.everHeld {
			continue
		}
		held++
		if !r.IsCleared(a.ID) {
			return false
		}
	}
	return held > 0
}

// LastSpawn returns the spawn point of the most recently cleared area that
// has one.
func (r *AreaRegistry) LastSpawn() (*Area, bool) {
	for i := len(r.cleared) - 1; i >= 0; i-- {
		if a, ok := r.Lookup(r.cleared[i]); ok && a.HasSpawn() {
			return a, true
		}
	}
	return nil, false
}

func (r *AreaRegistry) resetLights() {
	for _, a := range r.areas {
		if a != nil {
			a.resetLights()
		}
	}
}

func (r *AreaRegistry) clearAllMembers() {
	for _, a := range r.areas {
		if a != nil {
			a.clearMembers()
		}
	}
}
