package game

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// Combat tuning.
const (
	hitRange                    = 0.3 * Factor
	rocketRange                 = 0.10 * Factor
	minimalRocketLaunchDistance = 1.5 * hitRange

	rocketSpeed            = 3
	rocketDamage           = 20
	timeBetweenShots       = 500 // ms
	maxActivePlayerRockets = 6
	playerRocketY          = -8192

	fallTotalDuration = 3000 // ms
)

// Step advances the party by one frame of cycleDuration milliseconds with
// the given controls. It reports whether the player finished dying during
// the frame.
func (e *Engine) Step(cycleDuration int64, in Input) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.step(cycleDuration, in)
}

func (e *Engine) step(cycleDuration int64, in Input) bool {
	e.frame++
	e.fcf = int(16 * cycleDuration * 10)
	speed := e.fcf
	if in.RunningFast {
		speed *= 3
	}
	now := e.clock.CurrentTime()
	e.messages.post(e.info, now)
	e.updateExplosions()
	e.updateItems()
	killed := e.stepObjects()
	e.botWalk.Step(now, e.sound)
	if !e.player.Alive() {
		return killed
	}
	e.stepPlayer(cycleDuration, speed, in)
	return killed
}

func (e *Engine) updateExplosions() {
	kept := e.explosions[:0]
	for _, ex := range e.explosions {
		ex.updateFrameIndex()
		if ex.Finished() {
			ex.Dispose()
			continue
		}
		kept = append(kept, ex)
	}
	e.explosions = kept
}

func (e *Engine) updateItems() {
	kept := e.items[:0]
	for _, it := range e.items {
		if e.player.IntersectsWith(it) && e.player.Collects(it) {
			e.pushInfoMessage(it.AfterCollectName, infoMessageMillis)
			e.simLog.Add(e.frame, "P", "item", "collected", it.AfterCollectName, float64(e.player.Health()))
			it.Dispose()
			continue
		}
		it.updateFrameIndex()
		kept = append(kept, it)
	}
	e.items = kept
}

// stepObjects moves every active slot once and reports whether the death
// fall completed.
func (e *Engine) stepObjects() bool {
	e.rockets.sync(e.objects)
	walkers := 0
	for i := 0; i < NumObjects; i++ {
		obj := &e.objects.slots[i]
		if !obj.Active() {
			continue
		}
		if obj.Shape == ShapeBot {
			if e.stepBot(i, obj) {
				walkers++
			}
			continue
		}
		e.stepRocket(i, obj)
	}
	e.botWalk.update(walkers)
	e.rockets.sync(e.objects)
	return e.stepFall()
}

func (e *Engine) stepRocket(i int, obj *Entity) {
	step := float64(e.fcf * obj.Speed)
	nx := obj.X + math.Sin(obj.Dir)*step
	nz := obj.Z + math.Cos(obj.Dir)*step
	tx, tz := TileOf(nx), TileOf(nz)
	hit := false

	for j := 0; j < NumObjects; j++ {
		o := &e.objects.slots[j]
		if j == i || o.Shape == ShapeNone || o.Shape == ShapeBush {
			continue
		}
		xd := math.Abs(o.X - nx)
		zd := math.Abs(o.Z - nz)
		if xd >= hitRange || zd >= hitRange {
			continue
		}
		if o.Shape == ShapeRocket && (xd >= rocketRange || zd >= rocketRange) {
			continue
		}
		e.blastObject(j)
		hit = true
	}

	bs := e.player.BoundingSize()
	if math.Abs(e.player.X-nx) < bs && math.Abs(e.player.Z-nz) < bs && e.player.Alive() {
		hit = true
		e.playerHit(nx, nz)
	}

	if k := e.world.Collision.At(tx, tz); k.IsWall() {
		hit = true
		e.impacts = append(e.impacts, wallImpacts(k, tx, tz, obj.X, obj.Z, nx, nz)...)
		e.playSound(SoundWallHit, nx, nz)
	}

	if hit {
		e.explodeSlot(i)
		return
	}
	obj.X, obj.Z = nx, nz
}

func (e *Engine) playerHit(x, z float64) {
	if !e.cfg.Cheat {
		e.player.DecreaseHealth(rocketDamage)
	}
	e.sound.StopMovingSound(MovingPlayer)
	e.playSound(SoundHit, x, z)
	e.simLog.Add(e.frame, "P", "combat", "player_hit", fmt.Sprintf("health %d", e.player.Health()), float64(e.player.Health()))
	if !e.player.Alive() && !e.falling {
		e.falling = true
		e.fallStart = e.clock.CurrentTime()
		e.simLog.Add(e.frame, "P", "party", "falling", "player down", 0)
		e.log.Info("player killed")
	}
}

// blastObject destroys (or, for a fresh bot, wounds) the occupant of slot j.
func (e *Engine) blastObject(j int) {
	o := e.objects.At(j)
	switch o.Shape {
	case ShapeBot:
		e.playSound(SoundHit, o.X, o.Z)
		o.Health -= rocketDamage
		if o.Health < 0 {
			o.Health = 0
		}
		if o.Damage == 0 {
			o.Damage = 1
			e.simLog.Add(e.frame, slotLabel(j), "combat", "bot_wounded", fmt.Sprintf("area %d", o.Area), float64(o.Health))
			return
		}
		e.sound.PlayBotHit(int(o.X), int(o.Z), int(e.player.X), int(e.player.Z))
		e.botKilled(j, o)
	case ShapeDeco:
		if o.Face == int(DecoFlowers) || o.Face >= int(DecoChairs) {
			e.playSound(SoundDecoBreak, o.X, o.Z)
		} else {
			e.playSound(SoundTableBreak, o.X, o.Z)
		}
		e.simLog.Add(e.frame, slotLabel(j), "combat", "deco_broken", DecoKind(o.Face).String(), 0)
	default:
		e.playSound(SoundWallHit, o.X, o.Z)
	}
	if o.Shape != ShapeRocket {
		e.clearTile(int(o.X/Factor), int(o.Z/Factor))
	}
	e.explodeSlot(j)
}

// clearTile reopens a tile whose occupant was destroyed.
func (e *Engine) clearTile(tx, tz int) {
	e.world.Collision.checked("blast", tx, tz)
	e.world.Collision.Set(tx, tz, CellEmpty)
	e.world.MoveMap[TileIndex(tx, tz)] = MoveFree
	for _, a := range e.world.Areas.All() {
		if a.TryRemoveLight(tx, tz) {
			e.log.WithFields(logrus.Fields{"area": a.ID, "x": tx, "z": tz}).Debug("light destroyed")
		}
	}
}

func (e *Engine) botKilled(j int, o *Entity) {
	e.simLog.Add(e.frame, slotLabel(j), "combat", "bot_killed", fmt.Sprintf("area %d", o.Area), 0)
	a, ok := e.world.Areas.Lookup(o.Area)
	if !ok {
		e.log.WithFields(logrus.Fields{"slot": j, "area": o.Area}).Warn("killed bot has no area")
		return
	}
	a.RemoveMember(j)
	if a.Members() > 0 || !e.world.Areas.MarkCleared(a.ID) {
		return
	}
	e.sound.PlayAreaCleared()
	name := a.Name()
	if name == "" {
		name = fmt.Sprintf("area %d", a.ID)
	}
	e.pushInfoMessage(name+" cleared", infoMessageMillis)
	e.simLog.Add(e.frame, "--", "area", "cleared", name, float64(a.ID))
	e.log.WithFields(logrus.Fields{"area": a.ID, "name": name}).Info("area cleared")
	if e.world.Areas.AllCleared() && !e.player.Winning() {
		e.player.SetWinner()
		e.pushInfoMessage("all areas cleared", infoMessageMillis)
		e.simLog.Add(e.frame, "P", "party", "victory", "all areas cleared", 0)
		e.log.Info("player wins")
	}
}

// explodeSlot frees slot i and leaves an explosion where it stood.
func (e *Engine) explodeSlot(i int) {
	o := e.objects.At(i)
	ex := e.explosionFactory.New(float32(o.X), 0, float32(o.Z), radToDeg(o.Dir), 0)
	e.explosions = append(e.explosions, ex)
	e.objects.Free(i)
}

func (e *Engine) stepFall() bool {
	if e.player.Alive() || !e.falling {
		return false
	}
	d := e.clock.CurrentTime() - e.fallStart
	if d > fallTotalDuration {
		e.SetCycle(CycleMainMenu)
		e.innerLoop.Store(false)
		e.sound.PlayTermSound()
		e.falling = false
		e.fallStart = 0
		e.simLog.Add(e.frame, "P", "party", "killed", "fall complete", 0)
		return true
	}
	coef := float64(d) / fallTotalDuration
	e.player.Y = -(coef * coef) * (Factor / 2)
	return false
}

// TryLaunchPlayerRocket fires from the player's launcher. It is a no-op
// within timeBetweenShots of the previous shot or while six rockets fly.
func (e *Engine) TryLaunchPlayerRocket() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tryLaunchPlayerRocket()
}

func (e *Engine) tryLaunchPlayerRocket() bool {
	now := e.clock.CurrentTime()
	if now-e.lastShot < timeBetweenShots {
		return false
	}
	slot := -1
	for i := IndexPlayerRockets; i < IndexPlayerRockets+maxActivePlayerRockets; i++ {
		if e.objects.IsFree(i) {
			slot = i
			break
		}
	}
	if slot < 0 {
		return false
	}
	p := e.player
	bs := p.BoundingSize()
	d := p.Direction
	r := e.objects.At(slot)
	r.X = p.X + math.Sin(d)*bs*1.5 + math.Sin(d-FullCircle/4)*bs*0.5
	r.Z = p.Z + math.Cos(d)*bs*1.5 + math.Cos(d-FullCircle/4)*bs*0.5
	r.Shape = ShapeRocket
	r.Face = 0
	r.Dir = d
	r.Speed = rocketSpeed
	e.rockets.Add(slot, &RocketRecord{X: float32(r.X), Y: playerRocketY, Z: float32(r.Z), Heading: radToDeg(d)})
	e.playSound(SoundRocketLaunch, p.X, p.Z)
	e.lastShot = now
	e.simLog.Add(e.frame, "P", "combat", "launch", fmt.Sprintf("slot %d", slot), float64(slot))
	return true
}

// slotLabel names a slot in the party log.
func slotLabel(slot int) string {
	prefix := "O"
	switch CategoryOf(slot) {
	case CategoryPlayerRocket, CategoryBotRocket:
		prefix = "R"
	case CategoryBot:
		prefix = "B"
	case CategoryDeco:
		prefix = "D"
	}
	return fmt.Sprintf("%s%d", prefix, slot)
}
