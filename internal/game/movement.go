package game

import "math"

// Turn rates: milliseconds for a full circle.
const (
	turnSpeedNormal = 5952
	turnSpeedFast   = 2976
)

func (e *Engine) stepPlayer(cycleDuration int64, speed int, in Input) {
	p := e.player
	if in.TurningLeft {
		e.turnLeft(cycleDuration, in.RunningFast)
	}
	if in.TurningRight {
		e.turnRight(cycleDuration, in.RunningFast)
	}
	p.Direction = wrapDirection(p.Direction - in.MouseDeltaX/e.cfg.MouseSensitivity)

	xnew, znew := p.X, p.Z
	s := float64(speed)
	d := p.Direction
	if in.RightStepping {
		xnew += math.Sin(d-FullCircle/4) * s
		znew += math.Cos(d-FullCircle/4) * s
	}
	if in.LeftStepping {
		xnew += math.Sin(d+FullCircle/4) * s
		znew += math.Cos(d+FullCircle/4) * s
	}
	if in.RunningForward {
		xnew += math.Sin(d) * s
		znew += math.Cos(d) * s
	}
	if in.RunningBackward {
		xnew -= math.Sin(d) * s
		znew -= math.Cos(d) * s
	}

	moved := false
	if xnew != p.X || znew != p.Z {
		moved = e.hasPlayerMoved(xnew, znew)
	}
	switch {
	case moved && !e.playerMoving:
		e.playerMoving = true
		e.sound.StartMovingSound(MovingPlayer)
	case !moved && e.playerMoving:
		e.playerMoving = false
		e.sound.StopMovingSound(MovingPlayer)
	}

	if in.Firing {
		e.tryLaunchPlayerRocket()
	}
	e.trackArea()
}

func turnSpeed(fast bool) float64 {
	if fast {
		return turnSpeedFast
	}
	return turnSpeedNormal
}

func (e *Engine) turnLeft(cycleDuration int64, fast bool) {
	e.player.Direction = wrapDirection(e.player.Direction + FullCircle*float64(cycleDuration)/turnSpeed(fast))
}

func (e *Engine) turnRight(cycleDuration int64, fast bool) {
	e.player.Direction = wrapDirection(e.player.Direction - FullCircle*float64(cycleDuration)/turnSpeed(fast))
}

// hasPlayerMoved moves the player to (xnew,znew) unless the bounding square
// overlaps an occupied tile. On a collision it retries each axis alone so
// the player slides along walls.
func (e *Engine) hasPlayerMoved(xnew, znew float64) bool {
	p := e.player
	horizontal := p.Z != znew
	vertical := p.X != xnew
	if !horizontal && !vertical {
		return false
	}
	if !e.playerCollides(xnew, znew) {
		p.X, p.Z = xnew, znew
		return true
	}
	if horizontal && e.hasPlayerMoved(xnew, p.Z) {
		return true
	}
	if vertical {
		return e.hasPlayerMoved(p.X, znew)
	}
	return false
}

// playerCollides tests the player square centred on (x,z) against the 2x2
// block of tiles around it. Occupied tiles block a centred square scaled by
// their cell factor.
func (e *Engine) playerCollides(x, z float64) bool {
	bs := e.player.BoundingSize()
	player := box{x: x - bs/2, z: z - bs/2, w: bs, h: bs}
	xi := int(math.Round(x/Factor)) - 1
	zi := int(math.Round(z/Factor)) - 1
	for i := 0; i < 4; i++ {
		tx, tz := xi+i%2, zi+i/2
		k := e.world.Collision.checked("player move", tx, tz)
		if k == CellEmpty {
			continue
		}
		cf := cellFactor(k)
		wall := box{
			x: (float64(tx) + (1-cf)/2) * Factor,
			z: (float64(tz) + (1-cf)/2) * Factor,
			w: cf * Factor,
			h: cf * Factor,
		}
		if player.intersects(wall) {
			return true
		}
	}
	return false
}

// box is an axis-aligned rectangle in fixed-point units.
type box struct {
	x, z, w, h float64
}

// intersects reports whether the interiors overlap. Touching edges do not
// count.
func (b box) intersects(o box) bool {
	if b.w <= 0 || b.h <= 0 || o.w <= 0 || o.h <= 0 {
		return false
	}
	return o.x+o.w > b.x && o.z+o.h > b.z && o.x < b.x+b.w && o.z < b.z+b.h
}

// trackArea announces an area when the player first walks into it and
// flags the exit once the level is won.
func (e *Engine) trackArea() {
	t := e.player.Tile()
	if area := e.world.AreaAt(t.X, t.Z); area != e.lastArea {
		e.lastArea = area
		if a, ok := e.world.Areas.Lookup(area); ok && !a.Announced && a.Name() != "" && !e.world.Areas.IsCleared(area) {
			a.Announced = true
			e.pushInfoMessage(a.Name(), infoMessageMillis)
			e.simLog.Add(e.frame, "P", "area", "entered", a.Name(), float64(area))
		}
	}
	if e.player.Winning() && !e.exitPosted && e.world.IsExit(t.X, t.Z) {
		e.exitPosted = true
		e.pushInfoMessage("exit reached", infoMessageMillis)
		e.simLog.Add(e.frame, "P", "party", "exit", "exit reached", 0)
		e.log.Info("exit reached")
	}
}
