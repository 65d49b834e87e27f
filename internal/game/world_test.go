package game

import (
	"errors"
	"testing"
)

func TestClassifyPixel(t *testing.T) {
	cases := []struct {
		r, g, b uint8
		want    PixelFeature
	}{
		{0xFF, 0xFF, 0, FeatureCeilingToggle},
		{0xFF, 0, 0xFF, FeatureExit},
		{100, 100, 0, FeatureInsideFloor},
		{0, 0, 0, FeatureOutsideFloor},
		{200, 0, 200, FeatureDeco},
		{100, 0, 100, FeatureDeco},
		{0, 0, 0xE0, FeatureBush},
		{0, 0, 0xFF, FeatureWall},
		{0, 0, 100, FeatureImageWall},
		{0, 0, 0xA0, FeatureHighWall},
		{0xFF, 0, 0, FeaturePlayerStart},
		{0, 0xFE, 0, FeatureArea},
		{0xA0, 0, 0, FeatureAreaPreload},
		{0, 0xFF, 0xFF, FeatureBotStandard},
		{0, 200, 200, FeatureBotDistance},
		{50, 50, 50, FeatureDarkPreset},
		{100, 100, 100, FeatureRespawn},
		{150, 150, 150, FeatureHalfDark},
		{0xFF, 0xFF, 0xFF, FeatureLight},
		{12, 34, 56, FeatureFloor},
	}
	for _, c := range cases {
		if got := ClassifyPixel(c.r, c.g, c.b); got != c.want {
			t.Fatalf("(%d,%d,%d) = %s, want %s", c.r, c.g, c.b, got, c.want)
		}
	}
}

func TestBuildWorld_NilPixmapIsCorrupt(t *testing.T) {
	_, err := BuildWorld(nil, nil, DefaultConfig())
	if !IsCorrupt(err) {
		t.Fatalf("expected corrupt level error, got %v", err)
	}
}

func TestNewPixmap_WrongSize(t *testing.T) {
	_, err := NewPixmap(make([]uint32, 10))
	if !errors.Is(err, ErrCorruptLevel) {
		t.Fatalf("expected ErrCorruptLevel, got %v", err)
	}
}

func TestBuildWorld_Features(t *testing.T) {
	var pix Pixmap
	for x := 10; x <= 14; x++ {
		for z := 10; z <= 14; z++ {
			pix.Set(x, z, 0, 0xFE-3, 0)
		}
	}
	pix.Set(12, 12, 0, 0xFF, 0xFF)
	pix.Set(11, 11, 100, 100, 100)
	pix.Set(13, 13, 0xFF, 0xFF, 0xFF)
	pix.Set(40, 40, 0xFF, 0, 0)
	pix.Set(41, 40, 0xFF, 0, 0xFF)
	r, g, b := DecoRGB(DecoTable)
	pix.Set(50, 50, r, g, b)
	pix.Set(51, 50, 0, 0, 0xE0)

	w, err := BuildWorld(&pix, nil, DefaultConfig())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !w.HasStart || w.Start != (TilePos{X: 40, Z: 40}) {
		t.Fatalf("start = %v (%v), want (40,40)", w.Start, w.HasStart)
	}
	if !w.IsExit(41, 40) {
		t.Fatal("expected exit at (41,40)")
	}
	if w.AreaAt(12, 12) != 3 {
		t.Fatalf("bot tile area = %d, want 3", w.AreaAt(12, 12))
	}
	if w.Collision.At(12, 12) != CellEmpty {
		t.Fatalf("bot spawn tile should be extracted, got %s", w.Collision.At(12, 12))
	}
	if w.InitialAt(12, 12) != CellEmpty {
		t.Fatal("initial map should not keep the spawn marker")
	}
	a := w.Areas.Get(3)
	if !a.HasSpawn() || a.SpawnX != 11 || a.SpawnZ != 11 {
		t.Fatalf("spawn = (%d,%d), want (11,11)", a.SpawnX, a.SpawnZ)
	}
	if len(a.Lights()) != 1 {
		t.Fatalf("lights = %d, want 1", len(a.Lights()))
	}
	if w.Collision.At(50, 50) != CellTable {
		t.Fatalf("table tile = %s", w.Collision.At(50, 50))
	}
	if w.Collision.At(51, 50) != CellAvoidable {
		t.Fatalf("bush tile = %s", w.Collision.At(51, 50))
	}
	var bots, decos, bushes int
	for _, p := range w.Placements {
		switch p.Shape {
		case ShapeBot:
			bots++
			if p.Area != 3 || p.Sleep < 3 || p.Sleep > 8 {
				t.Fatalf("bot placement %+v", p)
			}
		case ShapeDeco:
			decos++
			if p.Face != int(DecoTable) {
				t.Fatalf("deco face = %d", p.Face)
			}
		case ShapeBush:
			bushes++
		}
	}
	if bots != 1 || decos != 1 || bushes != 1 {
		t.Fatalf("placements bots=%d decos=%d bushes=%d", bots, decos, bushes)
	}
}

func TestBuildWorld_BotOutsideAreaWarns(t *testing.T) {
	var pix Pixmap
	pix.Set(60, 60, 0, 0xFF, 0xFF)
	w, err := BuildWorld(&pix, nil, DefaultConfig())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(w.Placements) != 0 {
		t.Fatalf("a bot outside any area must not be placed, got %d", len(w.Placements))
	}
	if len(w.Warnings) != 1 {
		t.Fatalf("warnings = %v", w.Warnings)
	}
}

func TestBuildWorld_BorderTilesHaveNoArea(t *testing.T) {
	var pix Pixmap
	pix.Set(2, 5, 0, 0xFE, 0)
	pix.Set(1, 5, 0, 0xFF, 0xFF)
	pix.Set(3, 5, 0, 0xFF, 0xFF)
	w, err := BuildWorld(&pix, nil, DefaultConfig())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(w.Placements) != 1 || w.Placements[0].Tile != (TilePos{X: 3, Z: 5}) {
		t.Fatalf("placements = %+v, want only the bot at (3,5)", w.Placements)
	}
}

func TestDeriveCollisionMap_WallEdges(t *testing.T) {
	var pix Pixmap
	pix.Set(20, 20, 0, 0, 0xFF)
	pix.Set(21, 20, 0, 0, 0xFF)
	m := DeriveCollisionMap(&pix)
	if got := wallEdges(m.At(20, 20)); got != EdgeUp|EdgeDown|EdgeLeft {
		t.Fatalf("left block edges = %s", got)
	}
	if got := wallEdges(m.At(21, 20)); got != EdgeUp|EdgeDown|EdgeRight {
		t.Fatalf("right block edges = %s", got)
	}
}

func TestBuildWorld_DarkPreset(t *testing.T) {
	var pix Pixmap
	pix.Set(30, 30, 50, 50, 50)
	pix.Set(31, 30, 0, 0xFE-5, 0)
	w, err := BuildWorld(&pix, nil, DefaultConfig())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	a := w.Areas.Get(5)
	if a.Light != darkLight || a.FogLevel != darkFogLevel {
		t.Fatalf("area 5 light=%d fog=%d", a.Light, a.FogLevel)
	}
}

func TestWorld_ResetCollisionRestoresInitial(t *testing.T) {
	var pix Pixmap
	r, g, b := DecoRGB(DecoChairs)
	pix.Set(9, 9, r, g, b)
	w, err := BuildWorld(&pix, nil, DefaultConfig())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	w.Collision.Set(9, 9, CellEmpty)
	w.MoveMap[TileIndex(9, 9)] = MoveFree
	if w.InitialAt(9, 9) != CellChair {
		t.Fatal("initial map must not change with the live map")
	}
	w.ResetCollision()
	if w.Collision != w.Initial() {
		t.Fatal("collision map differs from the initial map after reset")
	}
	if w.MoveMap[TileIndex(9, 9)] != MoveObstacle {
		t.Fatal("move map not restored")
	}
}
