package ui

import (
	"time"

	"wlanmon/aggregate"
	"wlanmon/packet"
)

// RefreshScheduler decides, per event, between appending to the packet log
// only and running a full redraw. Full redraws are spaced at least
// Display.IntervalMicros apart within a second; the first event of every new
// second always redraws so the clock keeps ticking. Each full redraw ends in
// exactly one Terminal.Flush, and nothing else in the package flushes.
//
// Rates are sampled on full redraws once the first packet has been seen, so
// the estimator baseline is taken on the capture timebase.
type RefreshScheduler struct {
	d          *Display
	seenPacket bool
}

// OnEvent handles one packet (pkt != nil) or a forced refresh (pkt == nil).
func (s *RefreshScheduler) OnEvent(now time.Time, pkt *packet.Event, node *aggregate.Node) {
	d := s.d
	if d.closed {
		return
	}
	if pkt != nil {
		s.seenPacket = true
		d.log.Append(packet.LogLine(pkt))
		if s.withinInterval(now) {
			d.metrics.Coalesced()
			return
		}
	}

	start := time.Now()
	d.term.DrawPanel(d.status.Mini())
	if now.Unix() > d.lastRefresh.Unix() {
		d.term.DrawPanel(d.status.Clock(now))
	}
	d.lastRefresh = now
	if s.seenPacket {
		d.rates.Sample(now)
	}

	if ov := d.activeOverlay(); ov != nil {
		ov.Refresh()
		d.term.DrawPanel(ov)
	} else {
		if d.main != nil {
			d.main.Update(pkt, node)
			d.term.DrawPanel(d.main)
		}
		d.term.DrawPanel(d.log)
	}
	if d.machine.FilterOpen() && d.filter != nil {
		d.term.DrawPanel(d.filter)
	}

	d.term.Flush()
	d.metrics.Flush()
	d.metrics.FullRedraw()
	d.metrics.ObserveRender(time.Since(start))
}

// withinInterval reports whether now falls in the same second as the last
// redraw and less than the configured interval after it.
func (s *RefreshScheduler) withinInterval(now time.Time) bool {
	last := s.d.lastRefresh
	if now.Unix() != last.Unix() {
		return false
	}
	elapsed := int64(now.Nanosecond()/1000) - int64(last.Nanosecond()/1000)
	return elapsed < int64(s.d.cfg.Display.IntervalMicros)
}
