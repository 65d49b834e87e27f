package game

import "testing"

func losWorld(t *testing.T, paint func(p *Pixmap)) *World {
	t.Helper()
	var pix Pixmap
	paint(&pix)
	w, err := BuildWorld(&pix, nil, DefaultConfig())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return w
}

func TestLOS_ClearLine(t *testing.T) {
	w := losWorld(t, func(*Pixmap) {})
	x1, z1 := TileCenter(10), TileCenter(10)
	x2, z2 := TileCenter(20), TileCenter(14)
	if !w.HasLineOfSight(x1, z1, x2, z2) {
		t.Fatal("expected clear LOS over open floor")
	}
}

func TestLOS_BlockedByWall(t *testing.T) {
	w := losWorld(t, func(p *Pixmap) {
		for z := 0; z < 30; z++ {
			p.Set(15, z, 0, 0, 0xFF)
		}
	})
	if w.HasLineOfSight(TileCenter(10), TileCenter(10), TileCenter(20), TileCenter(10)) {
		t.Fatal("expected LOS blocked by the wall column")
	}
}

func TestLOS_BushAndLampDoNotBlock(t *testing.T) {
	w := losWorld(t, func(p *Pixmap) {
		p.Set(13, 10, 0, 0, 0xE0)
		r, g, b := DecoRGB(DecoLamp)
		p.Set(16, 10, r, g, b)
	})
	if !w.HasLineOfSight(TileCenter(10), TileCenter(10), TileCenter(20), TileCenter(10)) {
		t.Fatal("bushes and lamps should let sight through")
	}
}

func TestLOS_FlowersBlock(t *testing.T) {
	w := losWorld(t, func(p *Pixmap) {
		r, g, b := DecoRGB(DecoFlowers)
		p.Set(13, 10, r, g, b)
	})
	if w.HasLineOfSight(TileCenter(10), TileCenter(10), TileCenter(20), TileCenter(10)) {
		t.Fatal("flowers should block sight")
	}
}

func TestLOS_BlastedObstacleOpensSight(t *testing.T) {
	w := losWorld(t, func(p *Pixmap) {
		r, g, b := DecoRGB(DecoVending)
		p.Set(13, 10, r, g, b)
	})
	if w.HasLineOfSight(TileCenter(10), TileCenter(10), TileCenter(20), TileCenter(10)) {
		t.Fatal("vending machine should block sight")
	}
	w.Collision.Set(13, 10, CellEmpty)
	if !w.HasLineOfSight(TileCenter(10), TileCenter(10), TileCenter(20), TileCenter(10)) {
		t.Fatal("sight should pass once the tile is cleared")
	}
}

func TestLOS_SameTile(t *testing.T) {
	w := losWorld(t, func(*Pixmap) {})
	x, z := TileCenter(40), TileCenter(40)
	if !w.HasLineOfSight(x, z, x, z) {
		t.Fatal("a point should see itself")
	}
}

func TestLOS_DiagonalThroughCorner(t *testing.T) {
	w := losWorld(t, func(p *Pixmap) {
		p.Set(12, 12, 0, 0, 0xFF)
	})
	if w.HasLineOfSight(TileCenter(10), TileCenter(10), TileCenter(14), TileCenter(14)) {
		t.Fatal("diagonal through a wall tile should be blocked")
	}
}

func TestLOS_EndpointsSampled(t *testing.T) {
	w := losWorld(t, func(p *Pixmap) {
		p.Set(20, 10, 0, 0, 0xFF)
	})
	if w.HasLineOfSight(TileCenter(10), TileCenter(10), TileCenter(20), TileCenter(10)) {
		t.Fatal("the target tile itself is part of the line")
	}
}
