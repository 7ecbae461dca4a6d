package ui

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// LatencyTracker keeps a bounded ring of durations for percentile estimates.
type LatencyTracker struct {
	mu      sync.Mutex
	samples []time.Duration
	count   int
	idx     int
}

func NewLatencyTracker(size int) *LatencyTracker {
	if size <= 0 {
		size = 256
	}
	return &LatencyTracker{samples: make([]time.Duration, size)}
}

func (t *LatencyTracker) Observe(d time.Duration) {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.samples[t.idx] = d
	t.idx = (t.idx + 1) % len(t.samples)
	if t.count < len(t.samples) {
		t.count++
	}
	t.mu.Unlock()
}

type LatencySnapshot struct {
	P50 time.Duration
	P99 time.Duration
	N   int
}

func (t *LatencyTracker) Snapshot() LatencySnapshot {
	if t == nil {
		return LatencySnapshot{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.count == 0 {
		return LatencySnapshot{}
	}
	values := make([]time.Duration, t.count)
	copy(values, t.samples[:t.count])
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
	p50 := values[t.count/2]
	p99 := values[int(float64(t.count-1)*0.99)]
	return LatencySnapshot{P50: p50, P99: p99, N: t.count}
}

// Metrics counts what the refresh scheduler did with each event. Readers
// may run on other goroutines.
type Metrics struct {
	renderLatency *LatencyTracker
	fullRedraws   atomic.Uint64
	coalesced     atomic.Uint64
	flushes       atomic.Uint64
	modeSwitches  atomic.Uint64
	rebuilds      atomic.Uint64
}

func NewMetrics() *Metrics {
	return &Metrics{renderLatency: NewLatencyTracker(512)}
}

func (m *Metrics) ObserveRender(d time.Duration) {
	if m == nil {
		return
	}
	m.renderLatency.Observe(d)
}

func (m *Metrics) FullRedraw() {
	if m == nil {
		return
	}
	m.fullRedraws.Add(1)
}

func (m *Metrics) Coalesced() {
	if m == nil {
		return
	}
	m.coalesced.Add(1)
}

func (m *Metrics) Flush() {
	if m == nil {
		return
	}
	m.flushes.Add(1)
}

func (m *Metrics) ModeSwitch() {
	if m == nil {
		return
	}
	m.modeSwitches.Add(1)
}

func (m *Metrics) Rebuild() {
	if m == nil {
		return
	}
	m.rebuilds.Add(1)
}

// MetricsSnapshot is a point-in-time copy of the counters.
type MetricsSnapshot struct {
	FullRedraws  uint64
	Coalesced    uint64
	Flushes      uint64
	ModeSwitches uint64
	Rebuilds     uint64
	Render       LatencySnapshot
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	return MetricsSnapshot{
		FullRedraws:  m.fullRedraws.Load(),
		Coalesced:    m.coalesced.Load(),
		Flushes:      m.flushes.Load(),
		ModeSwitches: m.modeSwitches.Load(),
		Rebuilds:     m.rebuilds.Load(),
		Render:       m.renderLatency.Snapshot(),
	}
}
