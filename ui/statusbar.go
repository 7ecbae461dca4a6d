package ui

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"wlanmon/config"
)

// Status line columns, counted back from the right edge.
const (
	statusIfaceCol   = 15
	statusPauseCol   = 28
	statusFilterCol  = 24
	statusChannelCol = 20
	statusClockCol   = 9
)

var statusStyle = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)

type hotkeySegment struct {
	text   string
	hotkey bool
}

var statusHotkeys = []hotkeySegment{
	{"Q", true}, {"uit ", false},
	{"P", true}, {"ause s", false},
	{"O", true}, {"rt ", false},
	{"F", true}, {"ilter ", false},
	{"H", true}, {"istory ", false},
	{"E", true}, {"SSIDs St", false},
	{"a", true}, {"ts ", false},
	{"R", true}, {"eset ", false},
	{"S", true}, {"pectrum ", false},
	{"?", true}, {"Help", false},
}

// StatusBar paints the bottom line: the static hot-key frame, the mini
// status indicators and the clock. Each part is a separate Panel so the
// scheduler can repaint only what changed.
type StatusBar struct {
	cfg *config.Config
}

func NewStatusBar(cfg *config.Config) *StatusBar {
	return &StatusBar{cfg: cfg}
}

// Frame is the static part, painted once per (re)initialisation.
func (s *StatusBar) Frame() Panel {
	return PanelFunc(func(screen tcell.Screen) {
		cols, lines := screen.Size()
		if cols <= 0 || lines <= 0 {
			return
		}
		row := lines - 1
		for x := 0; x < cols; x++ {
			screen.SetContent(x, row, ' ', nil, statusStyle)
		}
		x := 0
		for _, seg := range statusHotkeys {
			style := statusStyle
			if seg.hotkey {
				style = style.Underline(true)
			}
			x = PrintAt(screen, x, row, seg.text, style)
		}
		iface := ""
		if s.cfg != nil {
			iface = s.cfg.Capture.Interface
		}
		s.put(screen, statusIfaceCol, "|"+iface)
	})
}

// Mini shows pause, filter and channel indicators.
func (s *StatusBar) Mini() Panel {
	return PanelFunc(func(screen tcell.Screen) {
		if s.cfg == nil {
			return
		}
		pause := "|   "
		if s.cfg.Paused {
			pause = "|PAU"
		}
		filter := "|   "
		if s.cfg.FilterActive() {
			filter = "|FIL"
		}
		s.put(screen, statusPauseCol, pause)
		s.put(screen, statusFilterCol, filter)
		s.put(screen, statusChannelCol, fmt.Sprintf("|Ch%02d", s.cfg.CurrentChannel()))
	})
}

// Clock shows now as |HH:MM:SS.
func (s *StatusBar) Clock(now time.Time) Panel {
	return PanelFunc(func(screen tcell.Screen) {
		s.put(screen, statusClockCol, "|"+now.Format("15:04:05"))
	})
}

func (s *StatusBar) put(screen tcell.Screen, fromRight int, text string) {
	cols, lines := screen.Size()
	x := cols - fromRight
	if lines <= 0 || x < 0 {
		return
	}
	row := lines - 1
	for _, r := range text {
		if x >= cols {
			return
		}
		screen.SetContent(x, row, r, nil, statusStyle)
		x++
	}
}
