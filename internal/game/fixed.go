package game

import (
	"fmt"
	"math"
)

// World geometry. Positions are float64 fixed-point values where one tile
// spans Factor units, so TileOf(pos) always lands in [0,255].
const (
	Factor      = 65536
	MapEdgeSize = 256
	MapSize     = MapEdgeSize * MapEdgeSize

	FullCircle = 2 * math.Pi
)

// TilePos is an integer tile coordinate.
type TilePos struct {
	X, Z int
}

// Index returns the row-major map index of the tile.
func (t TilePos) Index() int { return TileIndex(t.X, t.Z) }

func (t TilePos) String() string { return fmt.Sprintf("(%d,%d)", t.X, t.Z) }

// Center returns the fixed-point centre of the tile.
func (t TilePos) Center() (float64, float64) { return TileCenter(t.X), TileCenter(t.Z) }

// TileOf converts a fixed-point coordinate to its tile index.
func TileOf(v float64) int {
	return (int(v) / Factor) & 0xFF
}

// TileIndex returns the row-major index of tile (x,z), wrapping both axes.
func TileIndex(x, z int) int {
	return (z&0xFF)*MapEdgeSize + (x & 0xFF)
}

// TileCenter returns the fixed-point coordinate of a tile's centre.
func TileCenter(t int) float64 {
	return float64(t*Factor + Factor/2)
}

// tileAt returns the tile containing a fixed-point position.
func tileAt(x, z float64) TilePos {
	return TilePos{X: TileOf(x), Z: TileOf(z)}
}

// wrapDirection folds an angle into [0, 2π).
func wrapDirection(d float64) float64 {
	d = math.Mod(d, FullCircle)
	if d < 0 {
		d += FullCircle
	}
	if d >= FullCircle {
		d = 0
	}
	return d
}

// radToDeg is used for the heading stored in rocket and explosion records.
func radToDeg(r float64) float32 {
	return float32(r * (180 / math.Pi))
}
