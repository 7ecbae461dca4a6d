package views

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"wlanmon/aggregate"
	"wlanmon/ui"
)

const spectrumBarWidth = 40

// Spectrum shows per-channel usage. Left/Right move the selection, 'n'
// lists the nodes seen on the selected channel and the remaining navigation
// keys scroll.
type Spectrum struct {
	*tview.TextView
	table     *aggregate.SpectrumTable
	selected  int
	showNodes bool
}

func NewSpectrum(table *aggregate.SpectrumTable) *Spectrum {
	return &Spectrum{TextView: ui.NewBoxedTextView("Spectrum"), table: table}
}

func (v *Spectrum) HandleKey(event *tcell.EventKey) bool {
	switch event.Key() {
	case tcell.KeyLeft:
		v.move(-1)
		return true
	case tcell.KeyRight:
		v.move(1)
		return true
	case tcell.KeyRune:
		if event.Rune() == 'n' || event.Rune() == 'N' {
			v.showNodes = !v.showNodes
			return true
		}
		return false
	}
	return ui.ScrollTextView(v.TextView, event)
}

func (v *Spectrum) move(step int) {
	chans := v.table.Channels()
	if len(chans) == 0 {
		return
	}
	idx := v.index(chans)
	if idx < 0 {
		v.selected = chans[0].Number
		return
	}
	idx = min(max(idx+step, 0), len(chans)-1)
	v.selected = chans[idx].Number
}

func (v *Spectrum) index(chans []*aggregate.Channel) int {
	for i, c := range chans {
		if c.Number == v.selected {
			return i
		}
	}
	return -1
}

func (v *Spectrum) Refresh() {
	chans := v.table.Channels()
	if len(chans) == 0 {
		v.SetText(" (no traffic)")
		return
	}
	if v.index(chans) < 0 {
		v.selected = chans[0].Number
	}
	var busiest uint64
	for _, c := range chans {
		busiest = max(busiest, c.Duration)
	}

	var b strings.Builder
	var current *aggregate.Channel
	for _, c := range chans {
		marker := "  "
		if c.Number == v.selected {
			marker = "[yellow]> "
			current = c
		}
		bar := 0
		if busiest > 0 {
			bar = int(c.Duration * spectrumBarWidth / busiest)
		}
		fmt.Fprintf(&b, "%sch %3d [green]%-*s[-] %8s pkts %4d dBm %3d nodes[-]\n",
			marker, c.Number, spectrumBarWidth, strings.Repeat("#", bar),
			humanize.Comma(int64(c.Packets)), c.AvgSignal(), len(c.Nodes))
	}
	if v.showNodes && current != nil {
		fmt.Fprintf(&b, "\n Nodes on channel %d:\n", current.Number)
		for _, n := range current.Nodes {
			fmt.Fprintf(&b, "   %s %4d dBm  %s\n", n.MAC, n.AvgSignal(), tview.Escape(n.ESSID))
		}
	}
	v.SetText(b.String())
}
