// Package stats tracks per-packet-type counters and cumulative byte/airtime
// totals, and provides the 1 Hz rate estimator and fixed-point averaging
// helpers used by the display.
package stats

import (
	"fmt"
	"math/bits"
	"strings"
	"sync/atomic"
	"time"

	"wlanmon/packet"
)

const typeSlots = 24

// TypeCount is one row of the packet-type statistics table.
type TypeCount struct {
	Type     packet.Type
	Packets  uint64
	Bytes    uint64
	Duration uint64
}

// Tracker is the packet-type statistics table. Counters are atomics so the
// stats overlay can read them without coordinating with the capture path.
type Tracker struct {
	packets  [typeSlots]atomic.Uint64
	bytes    [typeSlots]atomic.Uint64
	duration [typeSlots]atomic.Uint64

	totalPackets  atomic.Uint64
	totalBytes    atomic.Uint64
	totalDuration atomic.Uint64
	badFCS        atomic.Uint64
	start         atomic.Int64
}

// NewTracker creates a new stats tracker
func NewTracker() *Tracker {
	t := &Tracker{}
	t.start.Store(time.Now().UnixNano())
	return t
}

// Add accounts one packet against every type bit it carries and against the
// cumulative totals.
func (t *Tracker) Add(e *packet.Event) {
	if t == nil || e == nil {
		return
	}
	length := uint64(max(e.Len, 0))
	airtime := uint64(max(e.Duration, 0))
	t.totalPackets.Add(1)
	t.totalBytes.Add(length)
	t.totalDuration.Add(airtime)
	if e.Type.Has(packet.TypeBadFCS) {
		t.badFCS.Add(1)
	}
	mask := uint32(e.Type & packet.MaskAll)
	for mask != 0 {
		slot := bits.TrailingZeros32(mask)
		mask &^= 1 << slot
		t.packets[slot].Add(1)
		t.bytes[slot].Add(length)
		t.duration[slot].Add(airtime)
	}
}

// Totals returns the cumulative byte and airtime counters fed to the rate
// estimator.
func (t *Tracker) Totals() (bytes, duration uint64) {
	if t == nil {
		return 0, 0
	}
	return t.totalBytes.Load(), t.totalDuration.Load()
}

// TotalPackets returns the number of packets seen since the last Clear.
func (t *Tracker) TotalPackets() uint64 {
	if t == nil {
		return 0
	}
	return t.totalPackets.Load()
}

// BadFCS returns the number of packets with a failed checksum.
func (t *Tracker) BadFCS() uint64 {
	if t == nil {
		return 0
	}
	return t.badFCS.Load()
}

// Counts returns the non-empty rows in packet.Types() order.
func (t *Tracker) Counts() []TypeCount {
	if t == nil {
		return nil
	}
	out := make([]TypeCount, 0, typeSlots)
	for _, typ := range packet.Types() {
		slot := bits.TrailingZeros32(uint32(typ))
		n := t.packets[slot].Load()
		if n == 0 {
			continue
		}
		out = append(out, TypeCount{
			Type:     typ,
			Packets:  n,
			Bytes:    t.bytes[slot].Load(),
			Duration: t.duration[slot].Load(),
		})
	}
	return out
}

// GetUptime returns how long the tracker has been counting since creation or
// the last Clear.
func (t *Tracker) GetUptime() time.Duration {
	start := t.start.Load()
	return time.Since(time.Unix(0, start))
}

// Clear zeroes every counter and restarts the uptime clock.
func (t *Tracker) Clear() {
	if t == nil {
		return
	}
	for i := 0; i < typeSlots; i++ {
		t.packets[i].Store(0)
		t.bytes[i].Store(0)
		t.duration[i].Store(0)
	}
	t.totalPackets.Store(0)
	t.totalBytes.Store(0)
	t.totalDuration.Store(0)
	t.badFCS.Store(0)
	t.start.Store(time.Now().UnixNano())
}

// SnapshotLines returns human-readable stats ready for log output.
func (t *Tracker) SnapshotLines() []string {
	counts := t.Counts()
	var builder strings.Builder
	builder.WriteString("Packets by type: ")
	if len(counts) == 0 {
		builder.WriteString("(none)")
	}
	for i, row := range counts {
		if i > 0 {
			builder.WriteString(", ")
		}
		fmt.Fprintf(&builder, "%s=%d", row.Type.Name(), row.Packets)
	}
	bytes, airtime := t.Totals()
	return []string{
		builder.String(),
		fmt.Sprintf("Totals: packets=%d bytes=%d airtime=%dus", t.TotalPackets(), bytes, airtime),
	}
}
