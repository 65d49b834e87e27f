package view

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/Garsondee/tuer/internal/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// statusLinger is how long a key acknowledgement stays on the HUD.
const statusLinger = 2 * time.Second

// healthBar draws a text bar of width cells for health out of full.
func healthBar(health, full, width int) string {
	filled := 0
	if full > 0 {
		filled = health * width / full
	}
	filled = min(width, filled)
	filled = max(0, filled)
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

// hudLines is the HUD text for a snapshot.
func hudLines(s *game.Snapshot, w *game.World, messages []string, status string) []string {
	lines := []string{
		fmt.Sprintf("HEALTH %s %d", healthBar(s.Player.Health, game.PlayerMaxHealth, 20), s.Player.Health),
	}
	total := 0
	if w != nil {
		total = w.BotAreas()
	}
	lines = append(lines, fmt.Sprintf("AREAS %d/%d cleared  BOTS %d  ROCKETS %d",
		len(s.Cleared), total, len(s.Bots), len(s.Rockets)))
	flags := []string{s.State.String()}
	if s.Cheat {
		flags = append(flags, "cheat")
	}
	if s.Player.Winning {
		flags = append(flags, "winner")
	}
	lines = append(lines, fmt.Sprintf("F=%d  t=%.1fs  %s", s.Frame, float64(s.Time)/1000, strings.Join(flags, " ")))
	for _, m := range messages {
		lines = append(lines, "> "+m)
	}
	if status != "" {
		lines = append(lines, "* "+status)
	}
	lines = append(lines,
		"WASD/arrows move  Q/E turn  Space fire  Shift run",
		"P pause  N new  C cheat  M mute  Tab mouse  F2 report",
		"H hud  L log  +/- zoom  click=inspect  Esc quit",
	)
	return lines
}

func (g *Game) drawHUD(screen *ebiten.Image, s *game.Snapshot) {
	status := ""
	if time.Since(g.statusAt) < statusLinger {
		status = g.status
	}
	lines := hudLines(s, g.world, g.liveMessages(time.Now()), status)

	const lineH = 12 // debug font line height at 1x
	const charW = 6  // debug font char width at 1x
	const padX = 5
	const padY = 4

	maxLen := 0
	for _, l := range lines {
		maxLen = max(maxLen, len(l))
	}
	boxW := float32(maxLen*charW + padX*2)
	boxH := float32(len(lines)*lineH + padY*2)
	bx := float32(g.offX/hudScale + 2)
	by := float32(g.offY/hudScale + 2)

	g.hudBuf.Clear()
	vector.FillRect(g.hudBuf, bx, by, boxW, boxH, color.RGBA{R: 8, G: 8, B: 12, A: 190}, false)
	vector.StrokeRect(g.hudBuf, bx, by, boxW, boxH, 1, color.RGBA{R: 70, G: 70, B: 110, A: 180}, false)
	hp := float32(s.Player.Health) / game.PlayerMaxHealth
	vector.FillRect(g.hudBuf, bx+1, by+boxH-2, (boxW-2)*min(1, max(0, hp)), 1, colPlayer, false)
	for i, line := range lines {
		ebitenutil.DebugPrintAt(g.hudBuf, line, int(bx)+padX, int(by)+padY+i*lineH)
	}

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(hudScale, hudScale)
	screen.DrawImage(g.hudBuf, opts)
}
