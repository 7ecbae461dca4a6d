package stats

import "time"

// Totaler exposes cumulative byte and airtime counters.
type Totaler interface {
	Totals() (bytes, duration uint64)
}

// RateMeter samples a Totaler through a RateEstimator and caches the last
// result for readers that have no timestamp of their own.
type RateMeter struct {
	src Totaler
	est RateEstimator
	bps int
	dps int
}

func NewRateMeter(src Totaler) *RateMeter {
	return &RateMeter{src: src}
}

// Sample feeds the current totals to the estimator at now.
func (m *RateMeter) Sample(now time.Time) (bps, dps int) {
	if m == nil || m.src == nil {
		return 0, 0
	}
	bytes, duration := m.src.Totals()
	m.bps, m.dps = m.est.Compute(bytes, duration, now)
	return m.bps, m.dps
}

// Rates returns the most recent sample.
func (m *RateMeter) Rates() (bps, dps int) {
	if m == nil {
		return 0, 0
	}
	return m.bps, m.dps
}

// Clear drops the baseline; reads return zero until the next resample.
func (m *RateMeter) Clear() {
	if m == nil {
		return
	}
	m.est.Clear()
	m.bps, m.dps = 0, 0
}
