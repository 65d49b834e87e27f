// Package termview draws the party top-down in a terminal, one cell per tile,
// centred on the player.
package termview

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Garsondee/tuer/internal/game"
	"github.com/Garsondee/tuer/internal/logger"
	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
)

var (
	styleDefault = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	styleHeader  = styleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleWall    = styleDefault.Foreground(tcell.ColorSlateGray)
	styleFloor   = styleDefault.Foreground(tcell.ColorDarkGray)
	styleOutside = styleDefault.Foreground(tcell.ColorDarkGreen)
	styleBush    = styleDefault.Foreground(tcell.ColorGreen)
	styleDeco    = styleDefault.Foreground(tcell.ColorOrange)
	styleExit    = styleDefault.Foreground(tcell.ColorFuchsia).Bold(true)
	stylePlayer  = styleDefault.Foreground(tcell.ColorLime).Bold(true)
	styleBot     = styleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleHurt    = styleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
	styleRocket  = styleDefault.Foreground(tcell.ColorYellow)
	styleBlast   = styleDefault.Foreground(tcell.ColorOrangeRed).Bold(true)
	styleItem    = styleDefault.Foreground(tcell.ColorSkyblue)
	styleMessage = styleDefault.Foreground(tcell.ColorYellow)
)

// headerRows and footerRows frame the map area.
const (
	headerRows    = 2
	footerRows    = 3
	messageFrames = 25
)

// SnapshotSource is anything that can hand out the party state.
type SnapshotSource interface {
	Snapshot() game.Snapshot
}

// View renders snapshots onto a tcell screen. It implements game.Display and
// game.InfoSink.
type View struct {
	mu       sync.Mutex
	screen   tcell.Screen
	world    *game.World
	src      SnapshotSource
	delay    time.Duration
	messages map[string]int // text -> frame it was last pushed
	frame    int
	log      *logrus.Entry
}

// Option configures a View.
type Option func(*View)

// WithFrameDelay sleeps after each rendered frame so a person can follow it.
func WithFrameDelay(d time.Duration) Option {
	return func(v *View) { v.delay = d }
}

// WithSource sets the engine Display pulls snapshots from.
func WithSource(src SnapshotSource) Option {
	return func(v *View) { v.src = src }
}

// New wraps an initialised screen. w supplies the inside and exit flags and
// may be nil.
func New(screen tcell.Screen, w *game.World, opts ...Option) *View {
	v := &View{
		screen:   screen,
		world:    w,
		messages: make(map[string]int),
		log:      logger.Component("termview"),
	}
	for _, o := range opts {
		o(v)
	}
	screen.SetStyle(styleDefault)
	screen.HideCursor()
	return v
}

// Open creates and initialises the terminal screen. The caller owns Close.
func Open() (tcell.Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	return s, nil
}

// Display renders the source's current snapshot.
func (v *View) Display() {
	if v.src == nil {
		return
	}
	v.Render(v.src.Snapshot())
}

// PushInfoMessage keeps msg on the footer for a short while.
func (v *View) PushInfoMessage(msg string) {
	v.mu.Lock()
	v.messages[msg] = v.frame
	v.mu.Unlock()
}

// Close restores the terminal.
func (v *View) Close() {
	v.screen.Fini()
}

// Render draws one snapshot and shows it.
func (v *View) Render(s game.Snapshot) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.frame = s.Frame

	v.screen.Clear()
	w, h := v.screen.Size()
	if w < 40 || h < headerRows+footerRows+5 {
		v.log.WithFields(logrus.Fields{"w": w, "h": h}).Debug("terminal too small")
		drawText(v.screen, 0, 0, "terminal too small", styleHeader)
		v.screen.Show()
		return
	}

	drawText(v.screen, 0, 0, fmt.Sprintf("TUER  F=%d  t=%.1fs  %s", s.Frame, float64(s.Time)/1000, s.State), styleHeader)
	areas := 0
	if v.world != nil {
		areas = v.world.BotAreas()
	}
	drawText(v.screen, 0, 1, fmt.Sprintf("HP %3d  areas %d/%d  bots %d  rockets %d",
		s.Player.Health, len(s.Cleared), areas, len(s.Bots), len(s.Rockets)), styleDefault)

	mapH := h - headerRows - footerRows
	originX := game.TileOf(s.Player.X) - w/2
	originZ := game.TileOf(s.Player.Z) - mapH/2
	v.drawTiles(&s.Collision, originX, originZ, w, mapH)
	v.drawEntities(&s, originX, originZ, w, mapH)

	row := h - footerRows
	for _, m := range v.liveMessages() {
		if row >= h {
			break
		}
		drawText(v.screen, 0, row, "> "+m, styleMessage)
		row++
	}
	v.screen.Show()

	if v.delay > 0 {
		time.Sleep(v.delay)
	}
}

func (v *View) liveMessages() []string {
	out := make([]string, 0, len(v.messages))
	for m, at := range v.messages {
		if v.frame-at > messageFrames {
			delete(v.messages, m)
			continue
		}
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// tileGlyph is the character and style for one collision cell.
func tileGlyph(k game.CellKind, inside, exit bool) (rune, tcell.Style) {
	switch {
	case exit:
		return 'E', styleExit
	case k.IsWall():
		return '#', styleWall
	case k == game.CellSolid:
		return 'O', styleWall
	case k == game.CellAvoidable:
		return '"', styleBush
	case k == game.CellEmpty, k == game.CellBotSpawn:
		if inside {
			return '.', styleFloor
		}
		return ',', styleOutside
	default:
		return '%', styleDeco
	}
}

func (v *View) drawTiles(cells *game.CollisionMap, ox, oz, w, h int) {
	for row := 0; row < h; row++ {
		z := oz + row
		if z < 0 || z >= game.MapEdgeSize {
			continue
		}
		for col := 0; col < w; col++ {
			x := ox + col
			if x < 0 || x >= game.MapEdgeSize {
				continue
			}
			i := game.TileIndex(x, z)
			inside, exit := false, false
			if v.world != nil {
				inside, exit = v.world.Inside[i], v.world.IsExit(x, z)
			}
			r, st := tileGlyph(cells[i], inside, exit)
			v.screen.SetContent(col, headerRows+row, r, nil, st)
		}
	}
}

func (v *View) drawEntities(s *game.Snapshot, ox, oz, w, h int) {
	put := func(x, z float64, r rune, st tcell.Style) {
		col, row := game.TileOf(x)-ox, game.TileOf(z)-oz
		if col < 0 || col >= w || row < 0 || row >= h {
			return
		}
		v.screen.SetContent(col, headerRows+row, r, nil, st)
	}
	for _, it := range s.Items {
		put(it.X, it.Z, '+', styleItem)
	}
	for _, r := range s.Rockets {
		put(float64(r.X), float64(r.Z), '*', styleRocket)
	}
	for _, ex := range s.Explodes {
		put(float64(ex.X), float64(ex.Z), 'x', styleBlast)
	}
	for _, b := range s.Bots {
		r := 'b'
		if b.Kind == game.BotDistance {
			r = 'd'
		}
		st := styleBot
		if b.Damaged {
			st = styleHurt
		}
		put(b.X, b.Z, r, st)
	}
	if s.Player.Alive || s.State == game.StateFalling {
		put(s.Player.X, s.Player.Z, '@', stylePlayer)
	}
}

func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, r := range text {
		s.SetContent(x+i, y, r, nil, style)
	}
}
