package stats

import "time"

// RateEstimator turns cumulative byte/airtime counters into per-second
// rates, resampled at most once per second of event time. Packets arrive at
// irregular sub-millisecond intervals, so a per-packet rate would be noise.
//
// The estimator never reads the system clock; callers pass the capture
// timestamp so replays are deterministic. A timestamp earlier than the
// baseline starts a new baseline.
type RateEstimator struct {
	lastBytes    uint64
	lastDuration uint64
	lastBps      int
	lastDps      int
	lastSample   time.Time
}

// Compute returns (bytes per second, airtime microseconds per second). The
// first call after construction or Clear only records the baseline and
// returns zeros.
func (r *RateEstimator) Compute(bytes, duration uint64, now time.Time) (bps, dps int) {
	if r == nil {
		return 0, 0
	}
	if r.lastSample.IsZero() || now.Before(r.lastSample) {
		r.rebase(bytes, duration, now)
		return 0, 0
	}
	elapsed := now.Sub(r.lastSample).Seconds()
	if elapsed < 1.0 {
		return r.lastBps, r.lastDps
	}
	if bytes < r.lastBytes || duration < r.lastDuration {
		// counters were cleared underneath us
		r.rebase(bytes, duration, now)
		return 0, 0
	}
	r.lastBps = int(float64(bytes-r.lastBytes) / elapsed)
	r.lastDps = int(float64(duration-r.lastDuration) / elapsed)
	r.lastSample = now
	r.lastBytes = bytes
	r.lastDuration = duration
	return r.lastBps, r.lastDps
}

// Clear forgets the baseline and cached rates.
func (r *RateEstimator) Clear() {
	if r == nil {
		return
	}
	*r = RateEstimator{}
}

func (r *RateEstimator) rebase(bytes, duration uint64, now time.Time) {
	r.lastBytes = bytes
	r.lastDuration = duration
	r.lastBps = 0
	r.lastDps = 0
	r.lastSample = now
}
