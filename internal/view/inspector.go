package view

import (
	"fmt"
	"image/color"
	"math"

	"github.com/Garsondee/tuer/internal/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Inspector panel, rendered into an offscreen buffer at 1x then blitted at
// inspScale.
const (
	inspScale = 2
	inspBufW  = 200
	inspBufH  = 190
	inspPad   = 4
	inspLineH = 13
)

// Inspector holds the selected bot and the view toggle.
type Inspector struct {
	selected game.Handle
	has      bool
	rawView  bool // false = curated, true = slot dump
}

// pickBot returns the bot nearest to map pixel (mx,my) within radius pixels.
func pickBot(bots []game.BotView, mx, my, radius float64, tilePx int) (game.Handle, bool) {
	best := radius * radius
	var hit game.Handle
	found := false
	scale := float64(tilePx) / game.Factor
	for _, b := range bots {
		dx := b.X*scale - mx
		dy := b.Z*scale - my
		if d2 := dx*dx + dy*dy; d2 <= best {
			best, hit, found = d2, b.Handle, true
		}
	}
	return hit, found
}

// handleInspectorClick selects the bot under a window click, or clears the
// selection on empty ground.
func (g *Game) handleInspectorClick(sx, sy int) {
	vx, vy := float64(sx-g.offX), float64(sy-g.offY)
	if vx < 0 || vy < 0 || vx >= float64(g.viewW) || vy >= float64(g.viewH) {
		return
	}
	mx, my := g.cam.toMap(vx, vy)
	g.inspector.selected, g.inspector.has = pickBot(g.snap.Bots, mx, my, 12/g.cam.zoom, g.tilePx)
}

func (g *Game) selectedBot(s *game.Snapshot) (game.BotView, bool) {
	if !g.inspector.has {
		return game.BotView{}, false
	}
	for _, b := range s.Bots {
		if b.Handle == g.inspector.selected {
			return b, true
		}
	}
	return game.BotView{}, false
}

// inspectorLines is the panel text for bot b. ent is the live slot for the
// raw view.
func inspectorLines(b game.BotView, area string, ent *game.Entity, raw bool) []string {
	if raw && ent != nil {
		return []string{
			fmt.Sprintf("slot %d gen %d", b.Handle.Index, b.Handle.Gen),
			fmt.Sprintf("x=%.0f z=%.0f", ent.X, ent.Z),
			fmt.Sprintf("dir=%.3f speed=%d", ent.Dir, ent.Speed),
			fmt.Sprintf("face=%d skip=%d anim=%d", ent.Face, ent.FaceSkip, ent.Anim),
			fmt.Sprintf("damage=%d health=%d", ent.Damage, ent.Health),
			fmt.Sprintf("sleep=%d sleep2=%d", ent.Sleep, ent.Sleep2),
			fmt.Sprintf("seen=%v running=%v", ent.SeenPlayer, ent.Running),
		}
	}
	state := "standing"
	switch {
	case b.Damaged:
		state = "hit"
	case b.Running:
		state = "running"
	}
	dirDeg := math.Mod(b.Dir*180/math.Pi+360, 360)
	return []string{
		fmt.Sprintf("kind:   %s", b.Kind),
		fmt.Sprintf("area:   %s", area),
		fmt.Sprintf("tile:   (%d,%d)", game.TileOf(b.X), game.TileOf(b.Z)),
		fmt.Sprintf("facing: %.0f deg", dirDeg),
		fmt.Sprintf("health: %d", b.Health),
		fmt.Sprintf("state:  %s", state),
	}
}

// drawInspector renders the selected bot's panel bottom-left of the viewport.
func (g *Game) drawInspector(screen *ebiten.Image, s *game.Snapshot) {
	b, ok := g.selectedBot(s)
	if !ok {
		return
	}
	buf := g.inspBuf
	buf.Clear()
	bw, bh := float32(inspBufW), float32(inspBufH)
	border := color.RGBA{R: 80, G: 60, B: 60, A: 255}
	vector.FillRect(buf, 0, 0, bw, bh, color.RGBA{R: 16, G: 12, B: 12, A: 230}, false)
	vector.StrokeRect(buf, 0, 0, bw, bh, 1, border, false)

	lx, ly := inspPad, inspPad
	ebitenutil.DebugPrintAt(buf, fmt.Sprintf("[ BOT %d ]", b.Handle.Index), lx, ly)
	ly += inspLineH + 2
	viewName := "CURATED"
	if g.inspector.rawView {
		viewName = "RAW"
	}
	ebitenutil.DebugPrintAt(buf, fmt.Sprintf("view: %s  [I] toggle", viewName), lx, ly)
	ly += inspLineH + 4
	vector.StrokeLine(buf, float32(lx), float32(ly), bw-inspPad, float32(ly), 1, border, false)
	ly += 4

	area := areaLabel(g.world, b.Area)
	var ent *game.Entity
	if g.inspector.rawView {
		if e, ok := g.ctl.Resolve(b.Handle); ok {
			ent = &e
		}
	}
	for _, l := range inspectorLines(b, area, ent, g.inspector.rawView) {
		ebitenutil.DebugPrintAt(buf, l, lx, ly)
		ly += inspLineH
	}

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(inspScale, inspScale)
	opts.GeoM.Translate(float64(g.offX+8), float64(g.offY+g.viewH-inspBufH*inspScale-8))
	screen.DrawImage(buf, opts)
}

// areaLabel names an area for display.
func areaLabel(w *game.World, id int) string {
	if id == game.NoArea || w == nil {
		return "none"
	}
	if a, ok := w.Areas.Lookup(id); ok && a.Name() != "" {
		return fmt.Sprintf("%d %s", id, a.Name())
	}
	return fmt.Sprint(id)
}
