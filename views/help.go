package views

import (
	"strings"

	"github.com/rivo/tview"

	"wlanmon/ui"
)

// Help is the static key reference.
type Help struct {
	*tview.TextView
}

func NewHelp() *Help {
	h := &Help{TextView: ui.NewBoxedTextView("Help")}
	h.SetText(strings.TrimSpace(helpText()))
	return h
}

// Refresh is a no-op; the help text never changes.
func (h *Help) Refresh() {}

func helpText() string {
	k := ui.AccentText
	return `
KEYBOARD HELP

WINDOWS
  ` + k("e") + ` ESSIDs   ` + k("h") + ` History   ` + k("a") + ` Statistics   ` + k("s") + ` Spectrum   ` + k("?") + ` Help
  Pressing the key of the open window returns to the node table

CONTROL
  ` + k("p") + ` / Space Pause   ` + k("r") + ` Reset statistics   ` + k("f") + ` Filter   ` + k("q") + ` / Ctrl+C Quit

NODE TABLE
  ` + k("o") + ` Cycle sort order   Up/Down PageUp/PageDown Home/End Scroll packet log

SPECTRUM
  Left/Right Select channel   ` + k("n") + ` Show nodes on channel   Up/Down Scroll

FILTER
  Type letters toggle packet types   ` + k("m") + ` MAC filter   ` + k("o") + ` Filter off
  ` + k("!") + ` Accept all   Enter / Esc Close
`
}
