// Package views holds the default windows drawn by the dashboard: the node
// table, the full-screen overlays and the filter editor. They read from the
// aggregate store and never flush the terminal themselves.
package views

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"wlanmon/aggregate"
	"wlanmon/packet"
	"wlanmon/stats"
	"wlanmon/ui"
)

var mainColumns = []string{"T", "Source", "BSSID", "Sig", "Avg", "Ch", "Rate", "Pkts", "Bytes", "ESSID"}

// Main is the node table shown when no overlay is active.
type Main struct {
	*tview.Table

	store *aggregate.Store
	rates *stats.RateMeter
	order aggregate.SortOrder
}

func NewMain(store *aggregate.Store, rates *stats.RateMeter) *Main {
	m := &Main{
		Table: tview.NewTable().SetFixed(1, 0),
		store: store,
		rates: rates,
	}
	ui.StyleBox(m.Box, "Nodes")
	m.renderHeader()
	return m
}

// HandleKey cycles the sort order on 'o'.
func (m *Main) HandleKey(event *tcell.EventKey) bool {
	if event.Key() != tcell.KeyRune {
		return false
	}
	switch event.Rune() {
	case 'o', 'O':
		m.order = m.order.Next()
		return true
	}
	return false
}

// Update rebuilds the table. The node that sent pkt, if any, is highlighted.
func (m *Main) Update(pkt *packet.Event, node *aggregate.Node) {
	m.Clear()
	m.renderHeader()
	for i, n := range m.store.Nodes.Sorted(m.order) {
		color := tcell.ColorWhite
		if n == node {
			color = tcell.ColorYellow
		} else if n.IsAP() {
			color = tcell.ColorGreen
		}
		row := i + 1
		cells := []string{
			string(n.LastType.Char()),
			n.MAC.String(),
			bssidText(n),
			strconv.Itoa(n.Signal),
			strconv.Itoa(n.AvgSignal()),
			strconv.Itoa(n.Channel),
			(&packet.Event{Rate: n.Rate}).RateString(),
			humanize.Comma(int64(n.Packets)),
			humanize.Bytes(n.Bytes),
			n.ESSID,
		}
		for col, text := range cells {
			m.SetCell(row, col, tview.NewTableCell(text).SetTextColor(color))
		}
	}

	bps, dps := m.rates.Rates()
	title := fmt.Sprintf("Nodes %d | sort %s | %s/s | air %d%%",
		m.store.Nodes.Len(), m.order, humanize.Bytes(uint64(max(bps, 0))), airtimePercent(dps))
	if pkt != nil && !pkt.Time.IsZero() {
		title += " | last " + pkt.Time.Format(time.TimeOnly)
	}
	m.SetTitle(ui.AccentText(title))
}

func (m *Main) renderHeader() {
	for col, title := range mainColumns {
		m.SetCell(0, col, tview.NewTableCell(title).
			SetTextColor(tcell.ColorHotPink).
			SetSelectable(false))
	}
}

func bssidText(n *aggregate.Node) string {
	if n.BSSID.IsZero() || n.BSSID == n.MAC {
		return ""
	}
	return n.BSSID.Short()
}

// airtimePercent converts airtime microseconds per second to percent.
func airtimePercent(dps int) int {
	return max(dps, 0) / 10000
}
