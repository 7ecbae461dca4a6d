package views

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rivo/tview"

	"wlanmon/aggregate"
	"wlanmon/ui"
)

// ESSIDs lists every network name with its member nodes.
type ESSIDs struct {
	*tview.TextView
	table *aggregate.ESSIDTable
}

func NewESSIDs(table *aggregate.ESSIDTable) *ESSIDs {
	return &ESSIDs{TextView: ui.NewBoxedTextView("ESSIDs"), table: table}
}

func (v *ESSIDs) Refresh() {
	list := v.table.List()
	if len(list) == 0 {
		v.SetText(" (no networks seen)")
		return
	}
	var b strings.Builder
	for _, e := range list {
		fmt.Fprintf(&b, " [::b]'%s'[::-]  %d nodes  ch %s",
			tview.Escape(e.Name), len(e.Nodes), channelList(e.Channels))
		if e.Split {
			b.WriteString("  [red]*** SPLIT ***[-]")
		}
		b.WriteByte('\n')
		for _, n := range e.Nodes {
			kind := "STA"
			if n.IsAP() {
				kind = "AP "
			}
			fmt.Fprintf(&b, "     %s %s  bssid %s  %4d dBm  ch %2d\n",
				kind, n.MAC, n.BSSID, n.AvgSignal(), n.Channel)
		}
	}
	v.SetText(b.String())
}

func channelList(set map[int]struct{}) string {
	if len(set) == 0 {
		return "-"
	}
	chans := make([]int, 0, len(set))
	for ch := range set {
		chans = append(chans, ch)
	}
	sort.Ints(chans)
	parts := make([]string, len(chans))
	for i, ch := range chans {
		parts[i] = fmt.Sprint(ch)
	}
	return strings.Join(parts, ",")
}
