package game

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/Garsondee/tuer/internal/logger"
	"github.com/sirupsen/logrus"
)

// Placement is an entity the level spawns at every (re)start.
type Placement struct {
	Shape Shape
	Tile  TilePos
	Face  int
	Sleep int
	Kind  BotKind
	Area  int
}

// World is the static level data plus the mutable collision and move maps.
type World struct {
	Pixmap *Pixmap

	Collision CollisionMap
	MoveMap   [MapSize]MoveFlag
	BotMap    [MapSize]uint8
	WallArt   [MapSize]uint8
	HighWall  [MapSize]bool
	Inside    [MapSize]bool

	Exits      []TilePos
	Start      TilePos
	HasStart   bool
	Areas      *AreaRegistry
	Placements []Placement
	Warnings   []string

	initial     CollisionMap
	initialMove [MapSize]MoveFlag
}

// Initial returns a copy of the collision map as loaded.
func (w *World) Initial() CollisionMap { return w.initial }

// InitialAt returns the loaded kind of tile (x,z).
func (w *World) InitialAt(x, z int) CellKind { return w.initial.At(x, z) }

// ResetCollision restores the collision and move maps to their loaded state.
func (w *World) ResetCollision() {
	w.Collision = w.initial
	w.MoveMap = w.initialMove
}

// AreaAt returns the area owning tile (x,z), or NoArea.
func (w *World) AreaAt(x, z int) int {
	return int(w.BotMap[TileIndex(x, z)])
}

// IsExit reports whether (x,z) is an exit tile.
func (w *World) IsExit(x, z int) bool {
	for _, e := range w.Exits {
		if e.X == x && e.Z == z {
			return true
		}
	}
	return false
}

// Walkable reports whether a bot may step onto (x,z).
func (w *World) Walkable(x, z int) bool {
	i := TileIndex(x, z)
	return w.MoveMap[i] == MoveFree && w.Collision[i] == CellEmpty
}

type worldBuilder struct {
	w    *World
	cfg  Config
	rng  *rand.Rand
	log  *logrus.Entry
	nbot int
	nbsh int
	ndek int
}

// BuildWorld decodes a pixmap into the static world. A nil collision map is
// derived from the pixmap.
func BuildWorld(pix *Pixmap, collision *CollisionMap, cfg Config) (*World, error) {
	if pix == nil {
		return nil, fmt.Errorf("%w: no pixmap", ErrCorruptLevel)
	}
	cfg = cfg.withDefaults()
	if collision == nil {
		collision = DeriveCollisionMap(pix)
	}
	b := &worldBuilder{
		w: &World{
			Pixmap: pix,
			Areas:  NewAreaRegistry(),
		},
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.BotSeed)), // #nosec G404 -- deterministic level jitter
		log: logger.Component("world"),
	}
	b.w.initial = *collision
	for i := range b.w.BotMap {
		b.w.BotMap[i] = NoArea
	}
	b.scan()
	for i, k := range b.w.initial {
		if k == CellBotSpawn {
			b.w.initial[i] = CellEmpty
		}
	}
	b.w.initialMove = b.w.MoveMap
	for _, a := range b.w.Areas.All() {
		a.snapshotLights()
	}
	b.w.ResetCollision()
	b.log.WithFields(logrus.Fields{
		"bots":     b.nbot,
		"bushes":   b.nbsh,
		"deco":     b.ndek,
		"areas":    len(b.w.Areas.All()),
		"warnings": len(b.w.Warnings),
	}).Info("world built")
	return b.w, nil
}

func (b *worldBuilder) warn(x, z int, msg string) {
	b.log.WithFields(logrus.Fields{"x": x, "z": z}).Warn(msg)
	b.w.Warnings = append(b.w.Warnings, fmt.Sprintf("(%d,%d) %s", x, z, msg))
}

// withinAnArea returns the area of the first area marker among (cx,cz) and
// its 8 neighbours, or -1. Tiles on rows or columns 0, 1 and 255 never
// belong to an area.
func (b *worldBuilder) withinAnArea(cx, cz int) int {
	if cx <= 1 || cx >= MapEdgeSize-1 || cz <= 1 || cz >= MapEdgeSize-1 {
		return -1
	}
	for sx := -1; sx <= 1; sx++ {
		for sz := -1; sz <= 1; sz++ {
			if a, ok := areaOfPixel(b.w.Pixmap.RGB(cx+sx, cz+sz)); ok {
				return a
			}
		}
	}
	return -1
}

func (b *worldBuilder) scan() {
	w := b.w
	ceilingInside := true
	for cz := 0; cz < MapEdgeSize; cz++ {
		skip := false
		for cx := 0; cx < MapEdgeSize; cx++ {
			idx := TileIndex(cx, cz)
			if skip {
				skip = false
				w.Inside[idx] = ceilingInside
				continue
			}
			r, g, bl := w.Pixmap.RGB(cx, cz)
			f := ClassifyPixel(r, g, bl)
			if f == FeatureCeilingToggle {
				ceilingInside = !ceilingInside
			}
			w.Inside[idx] = ceilingInside
			if f.isWall() {
				b.wall(cx, cz, f, bl)
				continue
			}
			switch f {
			case FeatureExit:
				w.Exits = append(w.Exits, TilePos{X: cx, Z: cz})
			case FeatureInsideFloor:
				w.Inside[idx] = true
			case FeatureOutsideFloor:
				w.Inside[idx] = false
			case FeatureDeco:
				b.deco(cx, cz, decoKindFromRed(r))
			case FeatureBush:
				b.bush(cx, cz)
			case FeaturePlayerStart:
				w.Start = TilePos{X: cx, Z: cz}
				w.HasStart = true
			case FeatureArea:
				a, _ := areaOfPixel(r, g, bl)
				w.BotMap[idx] = uint8(a) // #nosec G115 -- area index is at most 0x5E
				w.Areas.Get(a)
			case FeatureAreaPreload:
			case FeatureBotStandard, FeatureBotDistance:
				kind := BotStandard
				if f == FeatureBotDistance {
					kind = BotDistance
				}
				b.bot(cx, cz, kind)
			case FeatureDarkPreset:
				b.darkPreset(cx, cz)
			case FeatureRespawn:
				skip = b.respawn(cx, cz)
			case FeatureHalfDark:
				if a := b.areaFor(cx, cz, "half-dark marker outside any area"); a != nil {
					a.Light = halfDarkLight
					a.LightLevel = halfDarkLightLevel
				}
			case FeatureLight:
				if a := b.areaFor(cx, cz, "light source outside any area"); a != nil {
					a.AddLight(cx, cz)
				}
			}
		}
	}
}

func (b *worldBuilder) areaFor(cx, cz int, missing string) *Area {
	id := b.withinAnArea(cx, cz)
	if id < 0 {
		b.warn(cx, cz, missing)
		return nil
	}
	return b.w.Areas.Get(id)
}

func (b *worldBuilder) wall(cx, cz int, f PixelFeature, blue uint8) {
	idx := TileIndex(cx, cz)
	b.w.MoveMap[idx] = MoveWall
	count := b.cfg.WallImageCount
	switch f {
	case FeatureHighWall:
		b.w.HighWall[idx] = true
		b.w.WallArt[idx] = uint8((int(blue) - 0xA0) % count) // #nosec G115 -- bounded by count
	case FeatureImageWall:
		b.w.WallArt[idx] = blue - 100
		if a := b.areaFor(cx, cz, "picture wall outside any area"); a != nil {
			a.AddImage(cx, cz)
		}
	default:
		area := b.withinAnArea(cx, cz)
		if area < 0 {
			area = 0
		}
		b.w.WallArt[idx] = uint8(area % count) // #nosec G115 -- bounded by count
	}
}

func (b *worldBuilder) deco(cx, cz int, kind DecoKind) {
	if b.ndek >= MaxDeco {
		b.warn(cx, cz, "decoration pool exhausted")
		return
	}
	b.ndek++
	b.w.MoveMap[TileIndex(cx, cz)] = MoveObstacle
	b.w.Placements = append(b.w.Placements, Placement{
		Shape: ShapeDeco,
		Tile:  TilePos{X: cx, Z: cz},
		Face:  int(kind),
		Area:  NoArea,
	})
}

func (b *worldBuilder) bush(cx, cz int) {
	if b.nbsh >= MaxBushes {
		b.warn(cx, cz, "bush pool exhausted")
		return
	}
	b.nbsh++
	idx := TileIndex(cx, cz)
	b.w.MoveMap[idx] = MoveObstacle
	// bushes fill their tile in the bot map so areas have no holes
	area := b.withinAnArea(cx, cz)
	if area >= 0 {
		b.w.BotMap[idx] = uint8(area) // #nosec G115 -- area index is at most 0x5E
	}
	b.w.Placements = append(b.w.Placements, Placement{
		Shape: ShapeBush,
		Tile:  TilePos{X: cx, Z: cz},
		Area:  NoArea,
	})
}

func (b *worldBuilder) bot(cx, cz int, kind BotKind) {
	area := b.withinAnArea(cx, cz)
	if area < 0 {
		b.warn(cx, cz, "bot must be within an area")
		return
	}
	if b.nbot >= MaxBots {
		b.warn(cx, cz, "bot pool exhausted")
		return
	}
	b.nbot++
	b.w.BotMap[TileIndex(cx, cz)] = uint8(area) // #nosec G115 -- area index is at most 0x5E
	b.w.Areas.Get(area)
	jitter := int(b.rng.Int63() & 65535)
	sleep := jitter%6 + 3
	if kind == BotDistance {
		sleep = jitter % 10
	}
	b.w.Placements = append(b.w.Placements, Placement{
		Shape: ShapeBot,
		Tile:  TilePos{X: cx, Z: cz},
		Sleep: sleep,
		Kind:  kind,
		Area:  area,
	})
}

// darkPreset darkens the area whose marker colour is the next pixel.
func (b *worldBuilder) darkPreset(cx, cz int) {
	if cx+1 >= MapEdgeSize {
		b.warn(cx, cz, "dark marker on the map edge")
		return
	}
	id, ok := areaOfPixel(b.w.Pixmap.RGB(cx+1, cz))
	if !ok {
		b.warn(cx, cz, "dark marker not followed by an area colour")
		return
	}
	a := b.w.Areas.Get(id)
	a.Light = darkLight
	a.LightLevel = darkLightLevel
	a.FogLevel = darkFogLevel
}

// respawn records the spawn point. A second respawn pixel right after it
// turns the spawn facing around and is consumed.
func (b *worldBuilder) respawn(cx, cz int) bool {
	a := b.areaFor(cx, cz, "respawn point outside any area")
	twin := cx+1 < MapEdgeSize && ClassifyPixel(b.w.Pixmap.RGB(cx+1, cz)) == FeatureRespawn
	if a == nil {
		return twin
	}
	a.SetSpawnPoint(cx, cz)
	if twin {
		a.SpawnDir = 0
	}
	return twin
}

// DeriveCollisionMap synthesises a collision grid from the pixmap. Walls get
// the edge variant of their sides that face a non-wall tile.
func DeriveCollisionMap(pix *Pixmap) *CollisionMap {
	var m CollisionMap
	isWall := func(x, z int) bool {
		if x < 0 || x >= MapEdgeSize || z < 0 || z >= MapEdgeSize {
			return true
		}
		return ClassifyPixel(pix.RGB(x, z)).isWall()
	}
	for z := 0; z < MapEdgeSize; z++ {
		for x := 0; x < MapEdgeSize; x++ {
			r, g, b := pix.RGB(x, z)
			f := ClassifyPixel(r, g, b)
			var k CellKind
			switch {
			case f.isWall():
				var e Edge
				if !isWall(x, z-1) {
					e |= EdgeUp
				}
				if !isWall(x, z+1) {
					e |= EdgeDown
				}
				if !isWall(x-1, z) {
					e |= EdgeLeft
				}
				if !isWall(x+1, z) {
					e |= EdgeRight
				}
				k = wallKindForEdges(e)
			case f == FeatureDeco:
				k = decoCell(decoKindFromRed(r))
			case f == FeatureBush:
				k = CellAvoidable
			case f == FeatureBotStandard, f == FeatureBotDistance:
				k = CellBotSpawn
			default:
				k = CellEmpty
			}
			m.Set(x, z, k)
		}
	}
	return &m
}

// IsCorrupt reports whether err means the level cannot be used.
func IsCorrupt(err error) bool {
	return errors.Is(err, ErrCorruptLevel)
}
