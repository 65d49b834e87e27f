package game

import (
	"math"
	"slices"
	"testing"
	"time"
)

// arena is a walled 21x21 room whose interior is area 0 ("first contact").
// The player start tile at (12,12) carries no area marker.
func arena(extra ...SimOption) []SimOption {
	return append([]SimOption{
		WithArena(10, 10, 30, 30),
		WithArea(0, 11, 11, 29, 29),
		WithPlayerStart(12, 12),
	}, extra...)
}

// duel puts one standard bot at (20,20) and the player three tiles west of
// it, facing it.
func duel(extra ...SimOption) []SimOption {
	return append(arena(WithBot(20, 20, BotStandard), WithPlayerAt(17, 20, FullCircle/4)), extra...)
}

func blast(ts *TestSim, slot int) {
	ts.Engine.mu.Lock()
	defer ts.Engine.mu.Unlock()
	ts.Engine.blastObject(slot)
}

func TestStep_ZeroDurationKeepsPlayerStill(t *testing.T) {
	ts := NewTestSim(arena()...)
	x, z := ts.Player().X, ts.Player().Z
	if killed := ts.Engine.Step(0, Input{}); killed {
		t.Fatal("nothing should die in an empty arena")
	}
	ts.Engine.Step(0, Input{RunningForward: true, LeftStepping: true})
	if ts.Player().X != x || ts.Player().Z != z {
		t.Fatalf("player moved to (%v,%v) from (%v,%v)", ts.Player().X, ts.Player().Z, x, z)
	}
	if !ts.Engine.IsGameRunning() {
		t.Fatal("game should still be running")
	}
}

func TestBlastObject_BotNeedsTwoHits(t *testing.T) {
	ts := NewTestSim(arena(WithBot(20, 20, BotStandard))...)
	slot := ts.FirstBot()
	if slot != IndexBots {
		t.Fatalf("bot slot = %d", slot)
	}
	area := ts.World.Areas.Get(0)

	blast(ts, slot)
	bot := ts.Slot(slot)
	if bot.Shape != ShapeBot || bot.Damage != 1 || bot.Health != botMaxHealth-rocketDamage {
		t.Fatalf("after first hit: %+v", *bot)
	}
	if !area.HasMember(slot) {
		t.Fatal("wounded bot must stay in its area")
	}
	if ts.Sound.BotHits != 0 {
		t.Fatal("first hit must not play the bot hit voice")
	}
	if ts.Sound.Count(SoundHit) != 1 {
		t.Fatalf("hit sounds = %d", ts.Sound.Count(SoundHit))
	}

	blast(ts, slot)
	if ts.Slot(slot).Shape != ShapeNone {
		t.Fatal("slot should be free after the second hit")
	}
	if area.HasMember(slot) || area.Members() != 0 {
		t.Fatal("killed bot must leave its area")
	}
	if ts.Sound.BotHits != 1 || ts.Sound.AreaCleared != 1 {
		t.Fatalf("bot hits = %d, area cleared = %d", ts.Sound.BotHits, ts.Sound.AreaCleared)
	}
	if got := ts.World.Areas.Cleared(); len(got) != 1 || got[0] != 0 {
		t.Fatalf("cleared = %v", got)
	}
	if len(ts.Engine.explosions) != 1 {
		t.Fatalf("explosions = %d", len(ts.Engine.explosions))
	}
	ex := ts.Engine.explosions[0]
	if ex.X != float32(TileCenter(20)) || ex.Z != float32(TileCenter(20)) {
		t.Fatalf("explosion at (%v,%v)", ex.X, ex.Z)
	}
	pending := ts.Engine.messages.pending()
	if !slices.Contains(pending, "first contact cleared") || !slices.Contains(pending, "all areas cleared") {
		t.Fatalf("messages = %v", pending)
	}
	if !ts.Player().Winning() {
		t.Fatal("clearing the only bot area wins the level")
	}
}

func TestBlastObject_AreaClearedExactlyOnce(t *testing.T) {
	ts := NewTestSim(arena(WithBot(20, 20, BotStandard), WithBot(24, 20, BotDistance))...)
	lo, hi := CategoryBot.Range()
	for i := lo; i < hi; i++ {
		if ts.Slot(i).Shape == ShapeBot {
			blast(ts, i)
			blast(ts, i)
		}
	}
	if got := ts.World.Areas.Cleared(); len(got) != 1 || got[0] != 0 {
		t.Fatalf("cleared = %v", got)
	}
	if ts.Sound.AreaCleared != 1 {
		t.Fatalf("area cleared sound played %d times", ts.Sound.AreaCleared)
	}
	if n := ts.SimLog.CountCategory("area", "cleared"); n != 1 {
		t.Fatalf("cleared log entries = %d", n)
	}
	if n := ts.SimLog.CountCategory("combat", "bot_killed"); n != 2 {
		t.Fatalf("killed log entries = %d", n)
	}
}

func TestBlastObject_DecoClearsTileOnly(t *testing.T) {
	ts := NewTestSim(arena(WithDeco(20, 22, DecoFlowers), WithDeco(22, 22, DecoTable))...)
	lo, _ := CategoryDeco.Range()
	if ts.World.Collision.At(20, 22) != CellFlower {
		t.Fatalf("flower tile = %s", ts.World.Collision.At(20, 22))
	}
	blast(ts, lo)
	blast(ts, lo+1)
	if ts.World.Collision.At(20, 22) != CellEmpty || ts.World.Collision.At(22, 22) != CellEmpty {
		t.Fatal("blasted tiles should be empty")
	}
	if ts.World.MoveMap[TileIndex(20, 22)] != MoveFree {
		t.Fatal("move map should be free")
	}
	if ts.World.InitialAt(20, 22) != CellFlower {
		t.Fatal("initial map must never change")
	}
	if ts.Sound.Count(SoundDecoBreak) != 1 || ts.Sound.Count(SoundTableBreak) != 1 {
		t.Fatalf("deco break = %d, table break = %d", ts.Sound.Count(SoundDecoBreak), ts.Sound.Count(SoundTableBreak))
	}
	if ts.Slot(lo).Shape != ShapeNone || ts.Slot(lo).Active() {
		t.Fatal("blasted slot should be free")
	}
	if ts.Engine.objects.Count(CategoryDeco) != 0 {
		t.Fatal("both decorations should be gone")
	}
}

func TestNewGame_RestoresCollisionAndBots(t *testing.T) {
	ts := NewTestSim(arena(WithBot(20, 20, BotStandard), WithDeco(20, 22, DecoChairs))...)
	lo, _ := CategoryDeco.Range()
	blast(ts, lo)
	blast(ts, ts.FirstBot())
	blast(ts, ts.FirstBot())
	if ts.Engine.objects.Count(CategoryBot) != 0 {
		t.Fatal("bot should be dead")
	}
	ts.Engine.NewGame()
	if ts.World.Collision != ts.World.Initial() {
		t.Fatal("collision map differs from the initial map after a new game")
	}
	if len(ts.World.Areas.Cleared()) != 0 {
		t.Fatal("a new game forgets cleared areas")
	}
	if ts.Engine.objects.Count(CategoryBot) != 1 || ts.Engine.objects.Count(CategoryDeco) != 1 {
		t.Fatal("placements should be restored")
	}
	if ts.Player().Winning() {
		t.Fatal("a new game is not won")
	}
	if ts.Engine.InParty() {
		t.Fatal("a new game ends the current party")
	}
}

func TestTryLaunchPlayerRocket_Cooldown(t *testing.T) {
	ts := NewTestSim(arena()...)
	e := ts.Engine
	if e.TryLaunchPlayerRocket() {
		t.Fatal("launch right after the party start should be refused")
	}
	ts.Time.Advance(499 * time.Millisecond)
	e.Clock().Sync()
	if e.TryLaunchPlayerRocket() {
		t.Fatal("launch within 500ms should be refused")
	}
	if e.objects.Count(CategoryPlayerRocket) != 0 {
		t.Fatal("a refused launch must not consume a slot")
	}
	ts.Time.Advance(time.Millisecond)
	e.Clock().Sync()
	if !e.TryLaunchPlayerRocket() {
		t.Fatal("launch at 500ms should succeed")
	}
	if e.TryLaunchPlayerRocket() {
		t.Fatal("second launch in the same instant should be refused")
	}
	if e.objects.Count(CategoryPlayerRocket) != 1 || e.rockets.Len() != 1 {
		t.Fatalf("rockets = %d, records = %d", e.objects.Count(CategoryPlayerRocket), e.rockets.Len())
	}
	if ts.Sound.Count(SoundRocketLaunch) != 1 {
		t.Fatal("launch sound not played")
	}
	r := e.objects.At(IndexPlayerRockets)
	if r.Speed != rocketSpeed || r.Dir != ts.Player().Direction {
		t.Fatalf("rocket %+v", *r)
	}
	rec, _ := e.rockets.Get(IndexPlayerRockets)
	if rec.Y != playerRocketY {
		t.Fatalf("rocket record Y = %v", rec.Y)
	}
}

func TestPlayerMove_LampAllowsCloserApproachThanBush(t *testing.T) {
	approach := func(opt SimOption) bool {
		ts := NewTestSim(WithPlayerStart(5, 5), opt, WithPlayerAt(20, 19, 0))
		e := ts.Engine
		e.mu.Lock()
		defer e.mu.Unlock()
		target := 20*Factor + 0.1*Factor
		return e.hasPlayerMoved(TileCenter(20), target) && e.player.Z == target
	}
	if !approach(WithDeco(20, 20, DecoLamp)) {
		t.Fatal("a lamp only blocks the centre of its tile")
	}
	if approach(WithBush(20, 20)) {
		t.Fatal("a bush blocks its whole tile")
	}
}

func TestPlayerMove_SlidesAlongWall(t *testing.T) {
	ts := NewTestSim(arena(WithPlayerAt(15, 11, 0))...)
	e := ts.Engine
	e.mu.Lock()
	defer e.mu.Unlock()
	x0 := e.player.X
	// diagonal push into the wall row at z=10 keeps the x component
	if !e.hasPlayerMoved(x0+Factor/8, TileCenter(11)-Factor/2) {
		t.Fatal("player should slide along the wall")
	}
	if e.player.X != x0+Factor/8 || e.player.Z != TileCenter(11) {
		t.Fatalf("player at (%v,%v)", e.player.X, e.player.Z)
	}
}

func TestTurning_DirectionStaysWrapped(t *testing.T) {
	ts := NewTestSim(arena()...)
	bad := func(ts *TestSim) bool {
		d := ts.Player().Direction
		return d < 0 || d >= FullCircle || math.IsNaN(d)
	}
	ts.Input = Input{TurningLeft: true, RunningFast: true, MouseDeltaX: -4000}
	if f := ts.RunUntil(bad, 200); f >= 0 {
		t.Fatalf("direction out of range at frame %d", f)
	}
	ts.Input = Input{TurningRight: true, MouseDeltaX: 9000}
	if f := ts.RunUntil(bad, 200); f >= 0 {
		t.Fatalf("direction out of range at frame %d", f)
	}
}

func TestRockets_BookkeepingMatchesSlots(t *testing.T) {
	ts := NewTestSim(arena()...)
	ts.Input = Input{Firing: true}
	e := ts.Engine
	for i := 0; i < 300; i++ {
		ts.RunFrames(1)
		if e.rockets.Len() != len(e.rockets.Slots()) {
			t.Fatalf("frame %d: %d records for %d slots", i, e.rockets.Len(), len(e.rockets.Slots()))
		}
		for _, s := range e.rockets.Slots() {
			if e.objects.At(s).Shape != ShapeRocket {
				t.Fatalf("frame %d: slot %d has a record but holds %s", i, s, e.objects.At(s).Shape)
			}
		}
	}
	if ts.Sound.Count(SoundRocketLaunch) < 10 {
		t.Fatalf("launches = %d", ts.Sound.Count(SoundRocketLaunch))
	}
	if ts.Sound.Count(SoundWallHit) == 0 || len(e.impacts) == 0 {
		t.Fatal("rockets should hit the arena wall and leave impacts")
	}
}

func TestBot_ShootsPlayerInSight(t *testing.T) {
	ts := NewTestSim(duel()...)
	if f := ts.RunUntil(func(ts *TestSim) bool { return ts.Player().Health() < PlayerMaxHealth }, 300); f < 0 {
		t.Fatal("bot never hit the player")
	}
	if ts.Player().Health() != PlayerMaxHealth-rocketDamage {
		t.Fatalf("health = %d", ts.Player().Health())
	}
	if ts.Sound.Count(SoundBotSpotted) != 1 {
		t.Fatalf("spotted sound played %d times", ts.Sound.Count(SoundBotSpotted))
	}
	if ts.SimLog.CountCategory("combat", "bot_fire") == 0 {
		t.Fatal("bot_fire not logged")
	}
	if !slices.Contains(ts.Sound.Stopped, MovingPlayer) {
		t.Fatal("a hit stops the player's moving sound")
	}
}

func TestBot_CheatKeepsPlayerSafe(t *testing.T) {
	ts := NewTestSim(duel(WithCheat())...)
	ts.RunFrames(150)
	if ts.Player().Health() != PlayerMaxHealth {
		t.Fatalf("health = %d", ts.Player().Health())
	}
	if ts.SimLog.CountCategory("combat", "bot_fire") != 0 {
		t.Fatal("bots must not fire in cheat mode")
	}
	if ts.SimLog.CountCategory("vision", "spotted") != 1 {
		t.Fatal("bot should still spot the player")
	}
}

func TestBot_DoesNotSeeAcrossAreas(t *testing.T) {
	ts := NewTestSim(arena(WithBot(20, 20, BotDistance))...)
	ts.RunFrames(100)
	if ts.SimLog.CountCategory("vision", "spotted") != 0 {
		t.Fatal("player outside the bot's area must stay unseen")
	}
	if ts.Player().Health() != PlayerMaxHealth {
		t.Fatal("player outside the bot's area must not be hit")
	}
}

func TestBot_WalksTowardPlayer(t *testing.T) {
	ts := NewTestSim(arena(WithBot(25, 20, BotStandard), WithPlayerAt(15, 20, 0), WithCheat())...)
	x0 := ts.Slot(ts.FirstBot()).X
	ts.RunFrames(60)
	bot := ts.Slot(ts.FirstBot())
	if bot.X >= x0 {
		t.Fatalf("bot did not approach: x %v -> %v", x0, bot.X)
	}
	if bot.Z != TileCenter(20) {
		t.Fatalf("bot drifted off its row: z=%v", bot.Z)
	}
	if len(ts.Sound.Started) == 0 || ts.Sound.Started[0] != BotWalkMask(0) {
		t.Fatalf("walk channel not started: %v", ts.Sound.Started)
	}
}

func TestPlayer_KillsBotAndWins(t *testing.T) {
	ts := NewTestSim(duel(WithCheat())...)
	ts.Input = Input{Firing: true}
	if f := ts.RunUntil(func(ts *TestSim) bool { return ts.Player().Winning() }, 400); f < 0 {
		t.Fatalf("player never won; log:\n%s", ts.SimLog.Format())
	}
	ts.RunFrames(1)
	seen := ts.Info.Seen()
	if !slices.Contains(seen, "first contact cleared") || !slices.Contains(seen, "all areas cleared") {
		t.Fatalf("messages = %v", seen)
	}
	if ts.SimLog.CountCategory("combat", "bot_wounded") != 1 {
		t.Fatal("bot should be wounded exactly once before dying")
	}
	if !ts.SimLog.HasEntry("party", "victory", "") {
		t.Fatal("victory not logged")
	}
}

func TestPlayer_DiesFallsAndReturnsToMenu(t *testing.T) {
	ts := NewTestSim(duel()...)
	if f := ts.RunUntil(func(ts *TestSim) bool { return !ts.Player().Alive() }, 1000); f < 0 {
		t.Fatal("player never died")
	}
	if ts.Snapshot().State != StateFalling {
		t.Fatalf("state = %s, want falling", ts.Snapshot().State)
	}
	if f := ts.RunUntil(func(ts *TestSim) bool { return ts.Sound.Term > 0 }, 300); f < 0 {
		t.Fatal("fall never completed")
	}
	if ts.Engine.Cycle() != CycleMainMenu || ts.Engine.InParty() {
		t.Fatal("death should return to the main menu")
	}
	if !ts.SimLog.HasEntry("party", "killed", "") {
		t.Fatal("death not logged")
	}

	ts.Engine.SetCycle(CycleGame)
	ts.Engine.enterParty(true)
	if ts.Player().Health() != PlayerMaxHealth || ts.Player().Tile() != (TilePos{X: 12, Z: 12}) {
		t.Fatalf("respawn health=%d tile=%v", ts.Player().Health(), ts.Player().Tile())
	}
	if ts.Player().Y != 0 {
		t.Fatal("respawned player should stand on the floor")
	}
}

func TestRespawn_AtLastClearedAreaSpawn(t *testing.T) {
	ts := NewTestSim(arena(WithBot(20, 20, BotStandard), WithRespawn(25, 25))...)
	e := ts.Engine
	e.mu.Lock()
	e.world.Areas.MarkCleared(0)
	e.player.DecreaseHealth(PlayerMaxHealth)
	e.reinit(true)
	e.mu.Unlock()
	if e.objects.Count(CategoryBot) != 0 {
		t.Fatal("bots of a cleared area stay dead")
	}
	e.enterParty(true)
	if ts.Player().Tile() != (TilePos{X: 25, Z: 25}) {
		t.Fatalf("respawned at %v", ts.Player().Tile())
	}
	if ts.Player().Direction != math.Pi {
		t.Fatalf("spawn direction = %v", ts.Player().Direction)
	}
}

func TestPause_FreezesPartyTime(t *testing.T) {
	ts := NewTestSim(arena()...)
	ts.RunFrames(5)
	before := ts.Engine.CurrentTime()
	ts.Engine.Pause()
	ts.RunFrames(10)
	if ts.Snapshot().State != StatePaused {
		t.Fatalf("state = %s", ts.Snapshot().State)
	}
	paused := ts.Engine.CurrentTime()
	if paused > before+ts.FrameMs {
		t.Fatalf("time ran while paused: %d -> %d", before, paused)
	}
	ts.Engine.ResumeGame()
	ts.RunFrames(2)
	if got := ts.Engine.CurrentTime() - paused; got != ts.FrameMs {
		t.Fatalf("time after resume advanced %dms, want %d", got, ts.FrameMs)
	}
}

func TestItems_CollectedWhenHurt(t *testing.T) {
	ts := NewTestSim(arena(WithItem(ItemSpec{Name: "medkit", Tile: TilePos{X: 15, Z: 20}}), WithPlayerAt(15, 20, 0))...)
	ts.RunFrames(2)
	if len(ts.Snapshot().Items) != 1 {
		t.Fatal("a healthy player leaves the item on the floor")
	}
	ts.Engine.mu.Lock()
	ts.Engine.player.DecreaseHealth(50)
	ts.Engine.mu.Unlock()
	ts.RunFrames(2)
	if ts.Player().Health() != PlayerMaxHealth-50+healthItemGain {
		t.Fatalf("health = %d", ts.Player().Health())
	}
	if len(ts.Snapshot().Items) != 0 {
		t.Fatal("collected item should be gone")
	}
	if !slices.Contains(ts.Info.Seen(), "health +20") {
		t.Fatalf("messages = %v", ts.Info.Seen())
	}
}

func TestTrackArea_AnnouncesOnceAndExit(t *testing.T) {
	ts := NewTestSim(arena(WithExit(14, 14), WithPlayerAt(15, 15, 0))...)
	ts.RunFrames(3)
	ts.Engine.mu.Lock()
	ts.Engine.player.PlaceAt(TilePos{X: 12, Z: 12}, 0)
	ts.Engine.mu.Unlock()
	ts.RunFrames(1)
	ts.Engine.mu.Lock()
	ts.Engine.player.PlaceAt(TilePos{X: 16, Z: 16}, 0)
	ts.Engine.mu.Unlock()
	ts.RunFrames(1)
	if n := ts.SimLog.CountCategory("area", "entered"); n != 1 {
		t.Fatalf("area announced %d times", n)
	}
	if !slices.Contains(ts.Info.Seen(), "first contact") {
		t.Fatalf("messages = %v", ts.Info.Seen())
	}

	ts.Engine.mu.Lock()
	ts.Engine.player.PlaceAt(TilePos{X: 14, Z: 14}, 0)
	ts.Engine.mu.Unlock()
	ts.RunFrames(1)
	if slices.Contains(ts.Info.Seen(), "exit reached") {
		t.Fatal("the exit means nothing before the level is won")
	}
	ts.Engine.mu.Lock()
	ts.Engine.player.SetWinner()
	ts.Engine.mu.Unlock()
	ts.RunFrames(2)
	if ts.SimLog.CountCategory("party", "exit") != 1 {
		t.Fatal("exit should be reported once")
	}
}

func TestSnapshot_ListsBotsAndObjects(t *testing.T) {
	ts := NewTestSim(arena(WithBot(20, 20, BotDistance), WithBush(22, 22), WithDeco(23, 23, DecoTree))...)
	s := ts.Snapshot()
	if len(s.Bots) != 1 || s.Bots[0].Kind != BotDistance || s.Bots[0].Health != botMaxHealth || s.Bots[0].Area != 0 {
		t.Fatalf("bots = %+v", s.Bots)
	}
	if len(s.Objects) != 2 {
		t.Fatalf("objects = %+v", s.Objects)
	}
	if _, ok := ts.Engine.Resolve(s.Bots[0].Handle); !ok {
		t.Fatal("bot handle should resolve")
	}
	blast(ts, ts.FirstBot())
	blast(ts, ts.FirstBot())
	if _, ok := ts.Engine.Resolve(s.Bots[0].Handle); ok {
		t.Fatal("handle of a killed bot must go stale")
	}
	if s.Collision.At(22, 22) != CellAvoidable {
		t.Fatal("snapshot carries the collision map")
	}
}
