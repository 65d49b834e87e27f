package game

import (
	"fmt"
	"math"
)

// Bot tuning.
const (
	botMaxHealth     = 40
	botFireInterval  = 500 // ms between any two bot shots
	botNearRange     = 3 * Factor
	botLaunchPause   = 10 // frames a bot stands still after firing
	botRunSpeed      = 8
	botDamagedFace   = 11
	botIdleFaceSkip  = 3
	botIdleFaces     = 5
	botSeparation    = 2 * Factor
	botPlayerSpacing = Factor

	standardRocketSlots = 5
	distanceRocketSlots = 4
	distanceRocketBase  = IndexBotRockets + standardRocketSlots
)

var botWalkCycle = [...]int{0, 5, 6, 7, 6, 5, 0, 8, 9, 10, 9, 8}

// stepBot runs one frame of bot i and reports whether it walked.
func (e *Engine) stepBot(i int, obj *Entity) bool {
	e.stepBotFace(obj)
	dx := e.player.X - obj.X
	dz := e.player.Z - obj.Z
	if !e.playerVisibleFrom(obj) {
		return false
	}
	if !obj.SeenPlayer {
		obj.SeenPlayer = true
		e.playSound(SoundBotSpotted, obj.X, obj.Z)
		e.simLog.Add(e.frame, slotLabel(i), "vision", "spotted", fmt.Sprintf("player at (%d,%d)", e.player.Tile().X, e.player.Tile().Z), 0)
	}
	if obj.Sleep > 0 {
		obj.Sleep--
		return false
	}
	obj.Dir = ReverseDir(dx, dz)
	now := e.clock.CurrentTime()
	if e.player.Alive() && !e.player.Winning() && now > e.lastBotShotTime+botFireInterval && inFiringRange(obj, dx, dz) {
		if e.tryLaunchBotRocket(i, obj) {
			obj.Sleep2 = botLaunchPause
			e.lastBotShotTime = now
		}
	}
	return e.tryStepBot(i, obj, dx, dz)
}

// stepBotFace cycles the idle animation of a standing bot.
func (e *Engine) stepBotFace(obj *Entity) {
	if obj.FaceSkip > 0 {
		obj.FaceSkip--
		return
	}
	if obj.Speed >= 2 {
		return
	}
	obj.FaceSkip = botIdleFaceSkip
	obj.Anim++
	obj.Face = obj.Anim % botIdleFaces
	if obj.Damage != 0 {
		obj.Face += botDamagedFace
	}
}

// inFiringRange keeps standard bots from shooting across the map.
func inFiringRange(obj *Entity, dx, dz float64) bool {
	if obj.Kind == BotDistance {
		return true
	}
	return math.Abs(dx) <= botNearRange && math.Abs(dz) <= botNearRange
}

// botRocketSlot picks the rocket slot of bot i from its kind's pool.
func botRocketSlot(i int, kind BotKind) int {
	ord := i - IndexBots
	if kind == BotDistance {
		return distanceRocketBase + ord%distanceRocketSlots
	}
	return IndexBotRockets + ord%standardRocketSlots
}

func (e *Engine) tryLaunchBotRocket(i int, obj *Entity) bool {
	if e.cfg.Cheat {
		return false
	}
	slot := botRocketSlot(i, obj.Kind)
	if !e.objects.IsFree(slot) {
		return false
	}
	r := e.objects.At(slot)
	r.X = obj.X + math.Sin(obj.Dir)*minimalRocketLaunchDistance
	r.Z = obj.Z + math.Cos(obj.Dir)*minimalRocketLaunchDistance
	r.Shape = ShapeRocket
	r.Face = 0
	r.Dir = obj.Dir
	r.Speed = rocketSpeed
	e.rockets.Add(slot, &RocketRecord{X: float32(r.X), Z: float32(r.Z), Heading: radToDeg(obj.Dir)})
	e.playSound(SoundRocketLaunch, r.X, r.Z)
	e.simLog.Add(e.frame, slotLabel(i), "combat", "bot_fire", fmt.Sprintf("slot %d", slot), float64(slot))
	return true
}

// tryStepBot walks bot i along its heading unless the step would leave its
// area, enter an occupied tile or crowd another bot or the player.
func (e *Engine) tryStepBot(i int, obj *Entity, dxp, dzp float64) bool {
	xnew, znew := obj.X, obj.Z
	if obj.Sleep2 > 0 {
		obj.Sleep2--
	} else if obj.Speed >= 1 {
		ispeed := 1
		if obj.Speed >= 2 {
			ispeed = obj.Speed - 1
		}
		step := float64(e.fcf) * float64(ispeed) / 10
		xnew += math.Sin(obj.Dir) * step
		znew += math.Cos(obj.Dir) * step
	}

	moved := false
	if xnew != obj.X || znew != obj.Z {
		tx, tz := TileOf(xnew), TileOf(znew)
		stop := e.world.Collision.At(tx, tz) != CellEmpty ||
			e.world.AreaAt(tx, tz) != obj.Area ||
			!e.world.Walkable(tx, tz) ||
			e.crowded(i, obj.Area, xnew, znew) ||
			(math.Abs(dxp) < botPlayerSpacing && math.Abs(dzp) < botPlayerSpacing)
		if !stop {
			obj.X, obj.Z = xnew, znew
			moved = true
		}
	}

	if moved {
		if obj.Speed < 2 {
			obj.Speed = botRunSpeed
			obj.Anim = 0
			e.simLog.AddVerbose(e.frame, slotLabel(i), "move", "run", fmt.Sprintf("heading %.2f", obj.Dir), obj.Dir)
		}
		obj.Running = true
		obj.FaceSkip = 0
		obj.Anim++
		obj.Face = botWalkCycle[obj.Anim%len(botWalkCycle)]
		if obj.Damage != 0 {
			obj.Face += botDamagedFace
		}
		return true
	}
	if obj.Speed >= 2 {
		obj.Speed = 1
		obj.Anim = 0
		obj.Running = false
		obj.FaceSkip = 0
		e.simLog.AddVerbose(e.frame, slotLabel(i), "move", "halt", fmt.Sprintf("at %s", tileAt(obj.X, obj.Z)), 0)
	}
	return false
}

// crowded reports whether another bot of the same area stands within
// botSeparation of (x,z) on both axes.
func (e *Engine) crowded(self, area int, x, z float64) bool {
	a, ok := e.world.Areas.Lookup(area)
	if !ok {
		return false
	}
	for _, s := range a.MemberSlots() {
		if s == self {
			continue
		}
		o := &e.objects.slots[s]
		if math.Abs(o.X-x) < botSeparation && math.Abs(o.Z-z) < botSeparation {
			return true
		}
	}
	return false
}
