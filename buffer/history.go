// Package buffer provides the bounded history ring behind the history
// overlay. Samples are appended once per captured packet and read back
// newest-first; old samples are overwritten once the ring wraps.
package buffer

import (
	"time"

	"wlanmon/packet"
)

// Sample is the per-packet slice of state the history graph needs.
type Sample struct {
	ID     uint64
	Time   time.Time
	Signal int
	Noise  int
	Rate   int
	Type   packet.Type
}

// HistoryBuffer is a fixed-capacity circular buffer of samples. Each sample
// carries a monotonic ID so readers can tell a live slot from one that was
// overwritten after wraparound.
type HistoryBuffer struct {
	slots    []Sample
	capacity int
	total    uint64 // samples added since the last Clear (may exceed capacity)
}

// NewHistoryBuffer allocates a ring with the given capacity. Non-positive
// capacities fall back to 1.
func NewHistoryBuffer(capacity int) *HistoryBuffer {
	if capacity <= 0 {
		capacity = 1
	}
	return &HistoryBuffer{
		slots:    make([]Sample, capacity),
		capacity: capacity,
	}
}

// Add records one packet.
func (hb *HistoryBuffer) Add(e *packet.Event) {
	if hb == nil || e == nil {
		return
	}
	hb.total++
	idx := (hb.total - 1) % uint64(hb.capacity)
	hb.slots[idx] = Sample{
		ID:     hb.total,
		Time:   e.Time,
		Signal: e.Signal,
		Noise:  e.Noise,
		Rate:   e.Rate,
		Type:   e.Type,
	}
}

// GetRecent returns up to n samples, newest first.
func (hb *HistoryBuffer) GetRecent(n int) []Sample {
	if hb == nil || n <= 0 {
		return []Sample{}
	}
	available := hb.Len()
	if n > available {
		n = available
	}
	result := make([]Sample, 0, n)
	minIndex := hb.total - uint64(available)
	for idx := hb.total; idx > minIndex && len(result) < n; {
		idx--
		slot := hb.slots[idx%uint64(hb.capacity)]
		if slot.ID == idx+1 {
			result = append(result, slot)
		}
	}
	return result
}

// Len returns the number of retained samples.
func (hb *HistoryBuffer) Len() int {
	if hb == nil {
		return 0
	}
	if hb.total > uint64(hb.capacity) {
		return hb.capacity
	}
	return int(hb.total)
}

// GetCount returns the total number of samples added (may be > capacity)
func (hb *HistoryBuffer) GetCount() uint64 {
	if hb == nil {
		return 0
	}
	return hb.total
}

// Capacity returns the ring size.
func (hb *HistoryBuffer) Capacity() int {
	if hb == nil {
		return 0
	}
	return hb.capacity
}

// Clear drops every sample.
func (hb *HistoryBuffer) Clear() {
	if hb == nil {
		return
	}
	for i := range hb.slots {
		hb.slots[i] = Sample{}
	}
	hb.total = 0
}
