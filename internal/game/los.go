package game

// losStepShift sets the march resolution: eight samples per tile of the
// longer axis.
const losStepShift = 16 - 3

// lineClear marches from (x1,z1) to (x2,z2) and reports whether every
// sampled tile lets sight through. Both endpoints are sampled.
func (w *World) lineClear(x1, z1, x2, z2 float64) bool {
	ddx := x2 - x1
	ddz := z2 - z1
	steps := max(1, absInt(int(ddx)>>losStepShift), absInt(int(ddz)>>losStepShift))
	for i := 0; i <= steps; i++ {
		cx := TileOf(x1 + float64(i)*ddx/float64(steps))
		cz := TileOf(z1 + float64(i)*ddz/float64(steps))
		if !cellSeeThrough(w.Collision.At(cx, cz)) {
			return false
		}
	}
	return true
}

// HasLineOfSight reports whether sight passes between two fixed-point
// positions over the current collision map.
func (w *World) HasLineOfSight(x1, z1, x2, z2 float64) bool {
	return w.lineClear(x1, z1, x2, z2)
}

// playerVisibleFrom reports whether bot obj can see the player: the player
// must stand in the bot's area and the line between them must be clear.
func (e *Engine) playerVisibleFrom(obj *Entity) bool {
	pt := e.player.Tile()
	if e.world.AreaAt(pt.X, pt.Z) != obj.Area {
		return false
	}
	return e.world.lineClear(obj.X, obj.Z, e.player.X, e.player.Z)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
