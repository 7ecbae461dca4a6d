package source

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"wlanmon/packet"
)

const syntheticBuffer = 1024

// SyntheticOptions shapes the generated traffic.
type SyntheticOptions struct {
	Seed       int64
	RatePerSec int
	Channels   []int
	Networks   int
	Stations   int
}

type synthNode struct {
	mac     packet.MAC
	bssid   packet.MAC
	essid   string
	channel int
	signal  int
	ap      bool
}

// Synthetic emits plausible 802.11 traffic from a fixed, seeded population
// of access points and stations.
type Synthetic struct {
	opts  SyntheticOptions
	rng   *rand.Rand
	nodes []synthNode
	seq   uint64

	sent    atomic.Uint64
	dropped atomic.Uint64
}

func NewSynthetic(opts SyntheticOptions) *Synthetic {
	if opts.RatePerSec <= 0 {
		opts.RatePerSec = 200
	}
	if len(opts.Channels) == 0 {
		opts.Channels = []int{1, 6, 11}
	}
	if opts.Networks <= 0 {
		opts.Networks = 6
	}
	if opts.Stations <= 0 {
		opts.Stations = 24
	}
	s := &Synthetic{opts: opts, rng: rand.New(rand.NewSource(opts.Seed))}
	s.populate()
	return s
}

func (s *Synthetic) populate() {
	for i := 0; i < s.opts.Networks; i++ {
		mac := packet.MAC{0x02, 0x00, 0x5e, 0x00, byte(i >> 8), byte(i)}
		s.nodes = append(s.nodes, synthNode{
			mac:     mac,
			bssid:   mac,
			essid:   fmt.Sprintf("net-%02d", i),
			channel: s.opts.Channels[i%len(s.opts.Channels)],
			signal:  -40 - s.rng.Intn(45),
			ap:      true,
		})
	}
	for i := 0; i < s.opts.Stations; i++ {
		ap := s.nodes[s.rng.Intn(s.opts.Networks)]
		s.nodes = append(s.nodes, synthNode{
			mac:     packet.MAC{0x02, 0x11, 0x22, 0x00, byte(i >> 8), byte(i)},
			bssid:   ap.bssid,
			essid:   ap.essid,
			channel: ap.channel,
			signal:  -50 - s.rng.Intn(40),
		})
	}
}

var synthRates = []int{10, 20, 55, 110, 60, 120, 240, 360, 540}

// Next builds one packet stamped with now.
func (s *Synthetic) Next(now time.Time) *packet.Event {
	s.seq++
	n := s.nodes[s.rng.Intn(len(s.nodes))]
	ev := &packet.Event{
		Time:    now,
		Src:     n.mac,
		BSSID:   n.bssid,
		Channel: n.channel,
		Signal:  n.signal + s.rng.Intn(7) - 3,
		Noise:   -95,
		Rate:    synthRates[s.rng.Intn(len(synthRates))],
	}
	switch {
	case n.ap && s.seq%4 == 0:
		ev.Type = packet.TypeMgmt | packet.TypeBeacon
		ev.Dst = packet.MAC{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
		ev.ESSID = n.essid
		ev.Len = 120 + s.rng.Intn(80)
		ev.Rate = 10
	case !n.ap && s.seq%9 == 0:
		ev.Type = packet.TypeMgmt | packet.TypeProbe
		ev.ESSID = n.essid
		ev.Len = 60 + s.rng.Intn(40)
	default:
		ev.Type = packet.TypeData | packet.TypeIP
		switch s.rng.Intn(3) {
		case 0:
			ev.Type |= packet.TypeUDP
		case 1:
			ev.Type |= packet.TypeTCP
		default:
			ev.Type |= packet.TypeICMP
		}
		ev.Dst = n.bssid
		ev.Len = 80 + s.rng.Intn(1400)
	}
	if s.rng.Intn(200) == 0 {
		ev.Type |= packet.TypeBadFCS
	}
	// airtime in microseconds at the packet's rate (100 kbit/s units)
	ev.Duration = ev.Len * 8 * 10 / ev.Rate
	return ev
}

// Start emits RatePerSec packets per second in 10ms batches until ctx is
// cancelled. Packets are dropped, and counted, when the consumer lags.
func (s *Synthetic) Start(ctx context.Context) <-chan *packet.Event {
	out := make(chan *packet.Event, syntheticBuffer)
	go func() {
		defer close(out)
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		var carry int
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				carry += s.opts.RatePerSec
				batch := carry / 100
				carry %= 100
				for i := 0; i < batch; i++ {
					select {
					case out <- s.Next(now):
						s.sent.Add(1)
					default:
						s.dropped.Add(1)
					}
				}
			}
		}
	}()
	return out
}

// Stats returns delivered and dropped packet counts.
func (s *Synthetic) Stats() (sent, dropped uint64) {
	return s.sent.Load(), s.dropped.Load()
}
