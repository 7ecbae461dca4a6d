package aggregate

import (
	"sort"

	"wlanmon/packet"
	"wlanmon/stats"
)

// Channel accumulates traffic seen on one radio channel.
type Channel struct {
	Number   int
	Packets  uint64
	Bytes    uint64
	Duration uint64
	Signal   int
	Nodes    []*Node

	avg     stats.FixedPointAverager
	members map[packet.MAC]struct{}
}

// AvgSignal returns the IIR-smoothed signal on the channel.
func (c *Channel) AvgSignal() int {
	if c == nil {
		return 0
	}
	return c.avg.Value()
}

// SpectrumTable holds per-channel usage for the spectrum overlay.
type SpectrumTable struct {
	byNumber map[int]*Channel
}

func NewSpectrumTable() *SpectrumTable {
	return &SpectrumTable{byNumber: make(map[int]*Channel)}
}

// Update adds e to its channel. Events without a channel are ignored.
func (t *SpectrumTable) Update(e *packet.Event, n *Node) {
	if t == nil || e == nil || e.Channel <= 0 {
		return
	}
	c, ok := t.byNumber[e.Channel]
	if !ok {
		c = &Channel{Number: e.Channel, members: make(map[packet.MAC]struct{})}
		t.byNumber[e.Channel] = c
	}
	c.Packets++
	c.Bytes += uint64(max(e.Len, 0))
	c.Duration += uint64(max(e.Duration, 0))
	c.Signal = e.Signal
	c.avg.Add(e.Signal)
	if n != nil {
		if _, seen := c.members[n.MAC]; !seen {
			c.members[n.MAC] = struct{}{}
			c.Nodes = append(c.Nodes, n)
		}
	}
}

// Channels returns every channel with traffic, ascending.
func (t *SpectrumTable) Channels() []*Channel {
	if t == nil {
		return nil
	}
	out := make([]*Channel, 0, len(t.byNumber))
	for _, c := range t.byNumber {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

func (t *SpectrumTable) Clear() {
	if t == nil {
		return
	}
	t.byNumber = make(map[int]*Channel)
}
