package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rivo/tview"

	"wlanmon/stats"
	"wlanmon/ui"
)

// Stats shows the packet-type table, totals and the display's own counters.
type Stats struct {
	*tview.TextView
	tracker *stats.Tracker
	rates   *stats.RateMeter
	metrics *ui.Metrics
}

func NewStats(tracker *stats.Tracker, rates *stats.RateMeter, metrics *ui.Metrics) *Stats {
	return &Stats{
		TextView: ui.NewBoxedTextView("Statistics"),
		tracker:  tracker,
		rates:    rates,
		metrics:  metrics,
	}
}

func (v *Stats) Refresh() {
	var b strings.Builder
	total := v.tracker.TotalPackets()
	bytes, airtime := v.tracker.Totals()
	bps, dps := v.rates.Rates()

	fmt.Fprintf(&b, " Packets  %s   Bytes %s   Bad FCS %s\n",
		humanize.Comma(int64(total)), humanize.Bytes(bytes), humanize.Comma(int64(v.tracker.BadFCS())))
	fmt.Fprintf(&b, " Rate     %s/s   Airtime %s (%d%%)\n",
		humanize.Bytes(uint64(max(bps, 0))), formatAirtime(airtime), airtimePercent(dps))
	fmt.Fprintf(&b, " Uptime   %s\n\n", v.tracker.GetUptime().Truncate(time.Second))

	fmt.Fprintf(&b, " [::b]%-8s %10s %6s %10s %7s[::-]\n", "TYPE", "PACKETS", "%", "BYTES", "AIR%")
	for _, row := range v.tracker.Counts() {
		fmt.Fprintf(&b, " %-8s %10s %5.1f%% %10s %6.1f%%\n",
			row.Type.Name(),
			humanize.Comma(int64(row.Packets)),
			share(row.Packets, total),
			humanize.Bytes(row.Bytes),
			share(row.Duration, airtime))
	}

	snap := v.metrics.Snapshot()
	fmt.Fprintf(&b, "\n Display  redraws %s  coalesced %s  flushes %s  modes %d  rebuilds %d\n",
		humanize.Comma(int64(snap.FullRedraws)),
		humanize.Comma(int64(snap.Coalesced)),
		humanize.Comma(int64(snap.Flushes)),
		snap.ModeSwitches, snap.Rebuilds)
	if snap.Render.N > 0 {
		fmt.Fprintf(&b, " Render   p50 %s  p99 %s  (n=%d)\n", snap.Render.P50, snap.Render.P99, snap.Render.N)
	}
	v.SetText(b.String())
}

func share(part, whole uint64) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) * 100 / float64(whole)
}

func formatAirtime(us uint64) string {
	return (time.Duration(us) * time.Microsecond).Truncate(time.Millisecond).String()
}
