package game

import "fmt"

// Pixmap is the designer-authored level image: one packed 0xRRGGBB colour
// per tile, row-major.
type Pixmap [MapSize]uint32

// NewPixmap copies packed colours into a Pixmap.
func NewPixmap(data []uint32) (*Pixmap, error) {
	if len(data) != MapSize {
		return nil, fmt.Errorf("%w: pixmap has %d pixels, want %d", ErrCorruptLevel, len(data), MapSize)
	}
	var p Pixmap
	copy(p[:], data)
	return &p, nil
}

// RGB returns the colour channels of tile (x,z).
func (p *Pixmap) RGB(x, z int) (r, g, b uint8) {
	return splitRGB(p[TileIndex(x, z)])
}

// Set stores a colour at tile (x,z).
func (p *Pixmap) Set(x, z int, r, g, b uint8) {
	p[TileIndex(x, z)] = PackRGB(r, g, b)
}

// PackRGB builds a packed colour.
func PackRGB(r, g, b uint8) uint32 {
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

func splitRGB(c uint32) (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c) // #nosec G115 -- masked by the conversion
}

// PixelFeature is what a pixmap colour means to the world builder.
type PixelFeature uint8

const (
	FeatureFloor         PixelFeature = iota // anything unrecognised
	FeatureCeilingToggle                     // pure yellow: flips the ceiling default, then a wall
	FeatureExit                              // level exit
	FeatureInsideFloor                       // floor under a ceiling
	FeatureOutsideFloor                      // floor under open sky
	FeatureDeco                              // breakable decoration
	FeatureBush                              // unbreakable obstacle
	FeatureWall                              // plain wall
	FeatureImageWall                         // switchable picture wall
	FeatureHighWall                          // tall picture wall
	FeaturePlayerStart                       // player start tile
	FeatureArea                              // area membership marker
	FeatureAreaPreload                       // reserved, no effect
	FeatureBotStandard                       // standard bot spawn
	FeatureBotDistance                       // long-range bot spawn
	FeatureDarkPreset                        // dark lighting for the area named by the next pixel
	FeatureRespawn                           // respawn point of the surrounding area
	FeatureHalfDark                          // half-dark lighting for the surrounding area
	FeatureLight                             // point light source
)

func (f PixelFeature) String() string {
	switch f {
	case FeatureFloor:
		return "floor"
	case FeatureCeilingToggle:
		return "ceiling_toggle"
	case FeatureExit:
		return "exit"
	case FeatureInsideFloor:
		return "inside"
	case FeatureOutsideFloor:
		return "outside"
	case FeatureDeco:
		return "deco"
	case FeatureBush:
		return "bush"
	case FeatureWall:
		return "wall"
	case FeatureImageWall:
		return "image_wall"
	case FeatureHighWall:
		return "high_wall"
	case FeaturePlayerStart:
		return "player_start"
	case FeatureArea:
		return "area"
	case FeatureAreaPreload:
		return "area_preload"
	case FeatureBotStandard:
		return "bot_standard"
	case FeatureBotDistance:
		return "bot_distance"
	case FeatureDarkPreset:
		return "dark"
	case FeatureRespawn:
		return "respawn"
	case FeatureHalfDark:
		return "half_dark"
	case FeatureLight:
		return "light"
	default:
		return "unknown"
	}
}

// isWall reports whether the feature produces a wall tile.
func (f PixelFeature) isWall() bool {
	switch f {
	case FeatureCeilingToggle, FeatureWall, FeatureImageWall, FeatureHighWall:
		return true
	default:
		return false
	}
}

// colourRule matches one colour pattern. Rules are tried in order and the
// first match wins, so overlapping ranges (bush inside the high wall blue
// range, black inside the decoration pattern) resolve by position.
type colourRule struct {
	feature PixelFeature
	match   func(r, g, b uint8) bool
}

func exact(rr, gg, bb uint8) func(r, g, b uint8) bool {
	return func(r, g, b uint8) bool { return r == rr && g == gg && b == bb }
}

var colourRules = []colourRule{
	{FeatureCeilingToggle, exact(0xFF, 0xFF, 0)},
	{FeatureExit, exact(0xFF, 0, 0xFF)},
	{FeatureInsideFloor, exact(100, 100, 0)},
	{FeatureOutsideFloor, exact(0, 0, 0)},
	{FeatureDeco, func(r, g, b uint8) bool { return r <= 200 && g == 0 && b <= 200 && r == b }},
	{FeatureBush, exact(0, 0, 0xE0)},
	{FeatureWall, exact(0, 0, 0xFF)},
	{FeatureImageWall, func(r, g, b uint8) bool { return r == 0 && g == 0 && (b == 100 || b == 101) }},
	{FeatureHighWall, func(r, g, b uint8) bool { return r == 0 && g == 0 && b >= 0xA0 && b < 0xF0 }},
	{FeaturePlayerStart, exact(0xFF, 0, 0)},
	{FeatureArea, func(r, g, b uint8) bool { return r == 0 && b == 0 && g >= 0xA0 && g <= 0xFE }},
	{FeatureAreaPreload, func(r, g, b uint8) bool { return g == 0 && b == 0 && r >= 0xA0 && r <= 0xFE }},
	{FeatureBotStandard, exact(0, 0xFF, 0xFF)},
	{FeatureBotDistance, exact(0, 200, 200)},
	{FeatureDarkPreset, exact(50, 50, 50)},
	{FeatureRespawn, exact(100, 100, 100)},
	{FeatureHalfDark, exact(150, 150, 150)},
	{FeatureLight, exact(0xFF, 0xFF, 0xFF)},
}

// ClassifyPixel maps a colour to its feature.
func ClassifyPixel(r, g, b uint8) PixelFeature {
	for _, rule := range colourRules {
		if rule.match(r, g, b) {
			return rule.feature
		}
	}
	return FeatureFloor
}

// areaOfPixel returns the area index encoded by an area marker colour.
func areaOfPixel(r, g, b uint8) (int, bool) {
	if r == 0 && b == 0 && g >= 0xA0 && g <= 0xFE {
		return 0xFE - int(g), true
	}
	return 0, false
}

// DecoKind is the decoration subtype selected by the red channel.
type DecoKind uint8

const (
	DecoFlowers DecoKind = iota
	DecoTable
	DecoVending
	DecoChairs
	DecoTree
	DecoLamp
)

func (d DecoKind) String() string {
	switch d {
	case DecoFlowers:
		return "flowers"
	case DecoTable:
		return "table"
	case DecoVending:
		return "vending"
	case DecoChairs:
		return "chairs"
	case DecoTree:
		return "tree"
	case DecoLamp:
		return "lamp"
	default:
		return "unknown"
	}
}

func decoKindFromRed(r uint8) DecoKind {
	switch r {
	case 200:
		return DecoFlowers
	case 100:
		return DecoTable
	case 150:
		return DecoVending
	case 151:
		return DecoChairs
	case 152:
		return DecoTree
	case 153:
		return DecoLamp
	default:
		return DecoFlowers
	}
}

// decoCell is the collision kind a decoration occupies.
func decoCell(d DecoKind) CellKind {
	switch d {
	case DecoTable:
		return CellTable
	case DecoVending:
		return CellBig
	case DecoChairs:
		return CellChair
	case DecoTree:
		return CellBonsai
	case DecoLamp:
		return CellLight
	default:
		return CellFlower
	}
}

// DecoRGB returns the colour a level editor uses for a decoration.
func DecoRGB(d DecoKind) (r, g, b uint8) {
	switch d {
	case DecoTable:
		return 100, 0, 100
	case DecoVending:
		return 150, 0, 150
	case DecoChairs:
		return 151, 0, 151
	case DecoTree:
		return 152, 0, 152
	case DecoLamp:
		return 153, 0, 153
	default:
		return 200, 0, 200
	}
}
