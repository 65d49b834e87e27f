package view

import (
	"fmt"
	"image/color"

	"github.com/Garsondee/tuer/internal/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	logPanelWidth = 320
	logMaxEntries = 60
	logLineHeight = 11
)

// EventLog is a ring buffer of party log entries rendered on the right of
// the window.
type EventLog struct {
	entries []game.SimLogEntry
	head    int
	count   int
}

// NewEventLog creates an event log with a fixed capacity.
func NewEventLog() *EventLog {
	return &EventLog{entries: make([]game.SimLogEntry, logMaxEntries)}
}

// Add appends an entry, dropping the oldest once full.
func (l *EventLog) Add(e game.SimLogEntry) {
	l.entries[l.head] = e
	l.head = (l.head + 1) % logMaxEntries
	if l.count < logMaxEntries {
		l.count++
	}
}

// Recent returns entries oldest first.
func (l *EventLog) Recent() []game.SimLogEntry {
	out := make([]game.SimLogEntry, l.count)
	for i := 0; i < l.count; i++ {
		out[i] = l.entries[(l.head-l.count+i+logMaxEntries)%logMaxEntries]
	}
	return out
}

// categoryColour tints the row marker of an entry.
func categoryColour(category string) color.RGBA {
	switch category {
	case "combat":
		return color.RGBA{R: 210, G: 70, B: 70, A: 255}
	case "area":
		return color.RGBA{R: 90, G: 200, B: 90, A: 255}
	case "vision":
		return color.RGBA{R: 220, G: 180, B: 60, A: 255}
	case "item":
		return color.RGBA{R: 80, G: 170, B: 230, A: 255}
	case "party":
		return color.RGBA{R: 230, G: 230, B: 230, A: 255}
	default:
		return color.RGBA{R: 120, G: 120, B: 120, A: 255}
	}
}

// eventLine is the panel text of an entry, trimmed to the panel width.
func eventLine(e game.SimLogEntry) string {
	line := fmt.Sprintf("%5d %-4s %s %s", e.Frame, e.Actor, e.Key, e.Value)
	const maxChars = (logPanelWidth - 16) / 6
	if len(line) > maxChars {
		line = line[:maxChars]
	}
	return line
}

// Draw renders the panel at panelX, newest entries at the bottom.
func (l *EventLog) Draw(screen *ebiten.Image, panelX, panelH int) {
	px := float32(panelX)
	vector.FillRect(screen, px, 0, logPanelWidth, float32(panelH), color.RGBA{R: 10, G: 10, B: 14, A: 248}, false)
	vector.StrokeLine(screen, px, 0, px, float32(panelH), 1, color.RGBA{R: 60, G: 60, B: 80, A: 255}, false)
	vector.FillRect(screen, px, 0, logPanelWidth, 16, color.RGBA{R: 24, G: 24, B: 34, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "PARTY LOG", panelX+8, 2)
	vector.StrokeLine(screen, px, 16, px+logPanelWidth, 16, 1, color.RGBA{R: 60, G: 60, B: 90, A: 200}, false)

	entries := l.Recent()
	if maxVisible := (panelH - 24) / logLineHeight; len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}
	const highlighted = 3
	y := 20
	for i, e := range entries {
		if i >= len(entries)-highlighted {
			vector.FillRect(screen, px+2, float32(y), logPanelWidth-4, logLineHeight, color.RGBA{R: 34, G: 34, B: 48, A: 160}, false)
		}
		vector.FillRect(screen, px+5, float32(y+3), 3, 5, categoryColour(e.Category), false)
		ebitenutil.DebugPrintAt(screen, eventLine(e), panelX+12, y)
		y += logLineHeight
	}
}
