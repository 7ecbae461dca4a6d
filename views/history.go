package views

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"wlanmon/buffer"
	"wlanmon/ui"
)

const (
	historyFloorDBm = -100
	historyCeilDBm  = -20
)

// History plots signal and noise of the most recent packets, newest on the
// right.
type History struct {
	*tview.Box
	hist    *buffer.HistoryBuffer
	samples []buffer.Sample
}

func NewHistory(hist *buffer.HistoryBuffer) *History {
	h := &History{Box: tview.NewBox(), hist: hist}
	ui.StyleBox(h.Box, "Signal history")
	return h
}

// Refresh snapshots as many samples as fit the current width.
func (h *History) Refresh() {
	_, _, width, _ := h.GetInnerRect()
	h.samples = h.hist.GetRecent(width)
}

func (h *History) Draw(screen tcell.Screen) {
	h.Box.DrawForSubclass(screen, h)
	x, y, width, height := h.GetInnerRect()
	if width <= 0 || height <= 1 {
		return
	}
	plot := height - 1
	if len(h.samples) == 0 {
		ui.PrintCentered(screen, x, y+plot/2, width, tcell.StyleDefault, "no packets yet")
		return
	}

	signal := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	noise := tcell.StyleDefault.Foreground(tcell.ColorRed)
	for i, s := range h.samples {
		col := x + width - 1 - i
		top := scaleDBm(s.Signal, plot)
		for row := plot - 1; row >= plot-top; row-- {
			screen.SetContent(col, y+row, '|', nil, signal)
		}
		if s.Noise != 0 {
			screen.SetContent(col, y+plot-scaleDBm(s.Noise, plot), '-', nil, noise)
		}
		screen.SetContent(col, y+plot, rune(s.Type.Char()), nil, tcell.StyleDefault)
	}
	ui.PrintCentered(screen, x, y, width, tcell.StyleDefault.Foreground(tcell.ColorHotPink),
		"%d..%d dBm, %d packets", historyFloorDBm, historyCeilDBm, h.hist.GetCount())
}

// scaleDBm maps a dBm reading to a bar height in [0, rows].
func scaleDBm(dbm, rows int) int {
	dbm = min(max(dbm, historyFloorDBm), historyCeilDBm)
	return (dbm - historyFloorDBm) * rows / (historyCeilDBm - historyFloorDBm)
}
