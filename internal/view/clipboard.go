package view

import (
	"errors"

	"github.com/Garsondee/tuer/internal/game"
	"github.com/atotto/clipboard"
)

var errNoClipboard = errors.New("no clipboard on this system")

// writeClipboard is swapped out by tests.
var writeClipboard = func(text string) error {
	if clipboard.Unsupported {
		return errNoClipboard
	}
	return clipboard.WriteAll(text)
}

// copyReport puts the debug report of the party so far on the clipboard.
func (g *Game) copyReport() {
	report := game.DebugReport(g.reporter, g.ctl.Log(), 0)
	if err := writeClipboard(report); err != nil {
		g.log.WithError(err).Warn("clipboard write failed")
		g.setStatus("report not copied: " + err.Error())
		return
	}
	g.setStatus("debug report copied")
}
