package game

import (
	"testing"
	"time"
)

func TestBotWalkGate_StartsOneChannelPerWalker(t *testing.T) {
	var g BotWalkGate
	rec := &SoundRecorder{}
	g.update(2)
	g.Step(0, rec)
	if len(rec.Started) != 2 || rec.Started[0] != BotWalkMask(0) || rec.Started[1] != BotWalkMask(1) {
		t.Fatalf("started = %v", rec.Started)
	}
	g.update(10)
	g.Step(10, rec)
	if len(rec.Started) != 3 || rec.Started[2] != BotWalkMask(2) {
		t.Fatalf("third channel not started: %v", rec.Started)
	}
}

func TestBotWalkGate_MinimumPlayTime(t *testing.T) {
	var g BotWalkGate
	rec := &SoundRecorder{}
	g.update(1)
	g.Step(100, rec)
	g.update(0)
	g.Step(500, rec)
	if len(rec.Stopped) != 0 || !g.Playing(0) {
		t.Fatal("channel stopped before its minimum play time")
	}
	g.Step(100+botWalkMinPlay+1, rec)
	if len(rec.Stopped) != 1 || rec.Stopped[0] != BotWalkMask(0) {
		t.Fatalf("stopped = %v", rec.Stopped)
	}
	if g.Playing(0) {
		t.Fatal("channel should be silent")
	}
}

func TestBotWalkGate_ResetIsSilent(t *testing.T) {
	var g BotWalkGate
	rec := &SoundRecorder{}
	g.update(3)
	g.Step(0, rec)
	g.Reset()
	g.Step(5000, rec)
	if len(rec.Stopped) != 0 || g.Walkers() != 0 {
		t.Fatalf("reset should not emit stops, got %v", rec.Stopped)
	}
}

func TestExplosion_RunsItsCourse(t *testing.T) {
	src := NewManualTime(time.Unix(0, 0))
	c := NewClock(src)
	c.Start()
	f := NewExplosionFactory(c)
	ex := f.New(1, 0, 2, 90, 0)
	src.Advance(500 * time.Millisecond)
	c.Sync()
	ex.updateFrameIndex()
	if ex.Frame != 4 || ex.Finished() {
		t.Fatalf("frame = %d finished = %v at 500ms", ex.Frame, ex.Finished())
	}
	src.Advance(explosionDuration * time.Millisecond)
	c.Sync()
	ex.updateFrameIndex()
	if ex.Frame != explosionFrames-1 || !ex.Finished() {
		t.Fatalf("frame = %d finished = %v at the end", ex.Frame, ex.Finished())
	}
	if f.Created() != 1 {
		t.Fatalf("created = %d", f.Created())
	}
}

func TestHealthPowerUpFactory_Defaults(t *testing.T) {
	f := NewHealthPowerUpFactory([]ItemSpec{
		{Name: "medkit", Tile: TilePos{X: 3, Z: 4}},
		{Name: "big medkit", AfterCollectName: "much better", Tile: TilePos{X: 5, Z: 5}, HealthGain: 50},
	})
	items := f.Spawn()
	if len(items) != 2 {
		t.Fatalf("items = %d", len(items))
	}
	if items[0].HealthGain != healthItemGain || items[0].AfterCollectName != "health +20" {
		t.Fatalf("defaults not applied: %+v", items[0])
	}
	if items[0].X != TileCenter(3) || items[0].Z != TileCenter(4) {
		t.Fatal("item not at the tile centre")
	}
	if items[1].AfterCollectName != "much better" || items[1].HealthGain != 50 {
		t.Fatalf("explicit item settings overridden: %+v", items[1])
	}
}

func TestPlayer_CollectsOnlyWhenHurt(t *testing.T) {
	p := NewPlayer()
	p.PlaceAt(TilePos{X: 3, Z: 4}, 0)
	it := NewHealthPowerUpFactory([]ItemSpec{{Tile: TilePos{X: 3, Z: 4}}}).Spawn()[0]
	if !p.IntersectsWith(it) {
		t.Fatal("player on the item tile should touch it")
	}
	if p.Collects(it) {
		t.Fatal("a healthy player leaves the item")
	}
	p.DecreaseHealth(30)
	if !p.Collects(it) || p.Health() != 90 || !it.Collected() {
		t.Fatalf("health = %d collected = %v", p.Health(), it.Collected())
	}
	if p.Collects(it) {
		t.Fatal("an item is collected once")
	}
}

func TestMessageBoard_ExpiresAfterDuration(t *testing.T) {
	var b messageBoard
	rec := &MessageRecorder{}
	b.push("hello", 2000, 100)
	b.post(rec, 2100)
	if len(rec.Frame) != 1 {
		t.Fatalf("frame = %v", rec.Frame)
	}
	rec.BeginFrame()
	b.post(rec, 2101)
	if len(rec.Frame) != 0 || len(b.pending()) != 0 {
		t.Fatal("message should expire after its window")
	}
	if len(rec.Seen()) != 1 {
		t.Fatalf("seen = %v", rec.Seen())
	}
}

func TestSoundID_Names(t *testing.T) {
	if SoundCount != 11 {
		t.Fatalf("sound bank size = %d", SoundCount)
	}
	if SoundBotHit2.String() != "bot_hit" || SoundTerm.String() != "term" {
		t.Fatal("unexpected sound names")
	}
	if BotWalkMask(0) != 1<<6 {
		t.Fatalf("first bot walk mask = %b", BotWalkMask(0))
	}
}
