package view

import (
	"image"
	"image/color"
	"math"

	"github.com/Garsondee/tuer/internal/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	colBackground = color.RGBA{R: 12, G: 12, B: 16, A: 255}
	colFloorIn    = color.RGBA{R: 46, G: 44, B: 40, A: 255}
	colFloorOut   = color.RGBA{R: 30, G: 48, B: 30, A: 255}
	colWall       = color.RGBA{R: 120, G: 120, B: 150, A: 255}
	colSolid      = color.RGBA{R: 70, G: 70, B: 90, A: 255}
	colBush       = color.RGBA{R: 40, G: 110, B: 40, A: 255}
	colDeco       = color.RGBA{R: 170, G: 110, B: 60, A: 255}
	colExit       = color.RGBA{R: 200, G: 60, B: 200, A: 255}
	colPlayer     = color.RGBA{R: 80, G: 230, B: 110, A: 255}
	colBot        = color.RGBA{R: 220, G: 60, B: 60, A: 255}
	colBotFar     = color.RGBA{R: 220, G: 60, B: 200, A: 255}
	colHurt       = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	colRocket     = color.RGBA{R: 255, G: 220, B: 60, A: 255}
	colImpact     = color.RGBA{R: 150, G: 150, B: 150, A: 200}
	colExplosion  = color.RGBA{R: 255, G: 140, B: 30, A: 200}
	colItem       = color.RGBA{R: 80, G: 200, B: 240, A: 255}
)

// tileColour is the map colour of one collision cell.
func tileColour(k game.CellKind, inside, exit bool) color.RGBA {
	switch {
	case exit:
		return colExit
	case k.IsWall():
		return colWall
	case k == game.CellSolid:
		return colSolid
	case k == game.CellAvoidable:
		return colBush
	case k == game.CellEmpty, k == game.CellBotSpawn:
		if inside {
			return colFloorIn
		}
		return colFloorOut
	default:
		return colDeco
	}
}

// fillTilePixels writes one RGBA pixel per tile into pix.
func fillTilePixels(pix []byte, cells *game.CollisionMap, w *game.World) {
	for z := 0; z < game.MapEdgeSize; z++ {
		for x := 0; x < game.MapEdgeSize; x++ {
			i := game.TileIndex(x, z)
			inside, exit := false, false
			if w != nil {
				inside, exit = w.Inside[i], w.IsExit(x, z)
			}
			c := tileColour(cells[i], inside, exit)
			pix[4*i], pix[4*i+1], pix[4*i+2], pix[4*i+3] = c.R, c.G, c.B, c.A
		}
	}
}

func (g *Game) ensureBuffers() {
	if g.worldBuf != nil {
		return
	}
	g.tiles = ebiten.NewImage(game.MapEdgeSize, game.MapEdgeSize)
	g.tilePix = make([]byte, 4*game.MapSize)
	side := game.MapEdgeSize * g.tilePx
	g.worldBuf = ebiten.NewImage(side, side)
	g.hudBuf = ebiten.NewImage(g.width/hudScale, g.height/hudScale)
	g.inspBuf = ebiten.NewImage(inspBufW, inspBufH)
}

// refreshTiles rewrites the tile image when the collision map changed.
func (g *Game) refreshTiles(cells *game.CollisionMap) {
	if g.tilesOK && *cells == g.lastCells {
		return
	}
	fillTilePixels(g.tilePix, cells, g.world)
	g.tiles.WritePixels(g.tilePix)
	g.lastCells = *cells
	g.tilesOK = true
}

// mapPos converts a fixed-point world position to map pixels.
func (g *Game) mapPos(x, z float64) (float32, float32) {
	px := float64(g.tilePx)
	return float32(x / game.Factor * px), float32(z / game.Factor * px)
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colBackground)
	if g.ctl == nil {
		ebitenutil.DebugPrintAt(screen, "loading...", g.offX+8, g.offY+8)
		return
	}
	g.ensureBuffers()
	s := g.snap
	g.refreshTiles(&s.Collision)

	g.worldBuf.Clear()
	var tileOpts ebiten.DrawImageOptions
	tileOpts.GeoM.Scale(float64(g.tilePx), float64(g.tilePx))
	g.worldBuf.DrawImage(g.tiles, &tileOpts)
	g.drawEntities(g.worldBuf, &s)

	vp := screen.SubImage(image.Rect(g.offX, g.offY, g.offX+g.viewW, g.offY+g.viewH)).(*ebiten.Image)
	var blit ebiten.DrawImageOptions
	blit.GeoM = g.cam.geoM()
	blit.GeoM.Translate(float64(g.offX), float64(g.offY))
	vp.DrawImage(g.worldBuf, &blit)
	g.drawStateOverlay(vp, &s)

	ox, oy := float32(g.offX), float32(g.offY)
	vw, vh := float32(g.viewW), float32(g.viewH)
	vector.StrokeRect(screen, ox-1, oy-1, vw+2, vh+2, 2, color.RGBA{R: 70, G: 70, B: 100, A: 255}, false)

	if g.showLog {
		g.events.Draw(screen, g.offX+g.viewW+g.offX, g.height)
	}
	if g.showHUD {
		g.drawHUD(screen, &s)
	}
	g.drawInspector(screen, &s)
}

func (g *Game) drawEntities(dst *ebiten.Image, s *game.Snapshot) {
	px := float32(g.tilePx)

	for _, im := range s.Impacts {
		x, z := g.mapPos(float64(im.X), float64(im.Z))
		vector.FillRect(dst, x-1, z-1, 2, 2, colImpact, false)
	}
	for _, it := range s.Items {
		x, z := g.mapPos(it.X, it.Z)
		vector.FillRect(dst, x-px/3, z-px/3, 2*px/3, 2*px/3, colItem, false)
	}
	for _, r := range s.Rockets {
		x, z := g.mapPos(float64(r.X), float64(r.Z))
		h := float64(r.Heading) * math.Pi / 180
		tx, tz := x-float32(math.Sin(h))*px, z-float32(math.Cos(h))*px
		vector.StrokeLine(dst, tx, tz, x, z, 1, colRocket, false)
		vector.FillCircle(dst, x, z, max(1.5, px/4), colRocket, true)
	}
	for _, ex := range s.Explodes {
		x, z := g.mapPos(float64(ex.X), float64(ex.Z))
		r := px * (0.5 + float32(ex.Frame)/8)
		vector.FillCircle(dst, x, z, r, colExplosion, true)
	}
	sel := g.inspector.selected
	for _, b := range s.Bots {
		x, z := g.mapPos(b.X, b.Z)
		c := colBot
		if b.Kind == game.BotDistance {
			c = colBotFar
		}
		if b.Damaged {
			c = colHurt
		}
		vector.FillCircle(dst, x, z, px*0.45, c, true)
		fx, fz := x+float32(math.Sin(b.Dir))*px, z+float32(math.Cos(b.Dir))*px
		vector.StrokeLine(dst, x, z, fx, fz, 1, c, true)
		if b.Handle == sel {
			vector.StrokeCircle(dst, x, z, px, 1, colHurt, true)
		}
	}
	if p := s.Player; p.Alive || s.State == game.StateFalling {
		x, z := g.mapPos(p.X, p.Z)
		vector.FillCircle(dst, x, z, px*0.5, colPlayer, true)
		fx, fz := x+float32(math.Sin(p.Direction))*px*1.5, z+float32(math.Cos(p.Direction))*px*1.5
		vector.StrokeLine(dst, x, z, fx, fz, 2, colPlayer, true)
	}
}

// drawStateOverlay dims the viewport and names the loop state when the party
// is not simply running.
func (g *Game) drawStateOverlay(vp *ebiten.Image, s *game.Snapshot) {
	var lines []string
	tint := color.RGBA{A: 150}
	switch s.State {
	case game.StateAtMenu:
		lines = menuLines(s)
	case game.StatePaused:
		lines = []string{"PAUSED", "P to resume"}
	case game.StateFalling:
		tint = color.RGBA{R: 120, A: 110}
		lines = []string{"YOU WERE HIT"}
	default:
		return
	}
	b := vp.Bounds()
	vector.FillRect(vp, float32(b.Min.X), float32(b.Min.Y), float32(b.Dx()), float32(b.Dy()), tint, false)
	y := b.Min.Y + b.Dy()/2 - len(lines)*8
	for _, l := range lines {
		x := b.Min.X + b.Dx()/2 - len(l)*3
		ebitenutil.DebugPrintAt(vp, l, x, y)
		y += 16
	}
}

// menuLines is the main menu text for the state the last party ended in.
func menuLines(s *game.Snapshot) []string {
	head := "TUER"
	switch {
	case s.Player.Winning:
		head = "ALL AREAS CLEARED"
	case !s.Player.Alive:
		head = "YOU WERE KILLED"
	}
	return []string{
		head,
		"",
		"Enter  play",
		"N      new game",
		"Esc    quit",
	}
}
