// Package aggregate keeps the per-node, per-network and per-channel tables
// the dashboard views read from. Tables are owned by the main loop and are
// not safe for concurrent use.
package aggregate

import (
	"sort"
	"strings"
	"time"

	"wlanmon/packet"
	"wlanmon/stats"
)

// Node is one transmitter seen on the air, keyed by source MAC.
type Node struct {
	MAC       packet.MAC
	BSSID     packet.MAC
	ESSID     string
	Channel   int
	FirstSeen time.Time
	LastSeen  time.Time
	Packets   uint64
	Bytes     uint64
	Types     packet.Type // union of every type seen from this node
	LastType  packet.Type
	Rate      int
	Signal    int
	MaxSignal int

	avg stats.FixedPointAverager
}

// AvgSignal returns the IIR-smoothed signal in dBm.
func (n *Node) AvgSignal() int {
	if n == nil {
		return 0
	}
	return n.avg.Value()
}

// IsAP reports whether the node has been seen sending beacons.
func (n *Node) IsAP() bool {
	return n != nil && n.Types.Has(packet.TypeBeacon)
}

func (n *Node) update(e *packet.Event) {
	if n.Packets == 0 {
		n.FirstSeen = e.Time
		n.MaxSignal = e.Signal
	}
	n.Packets++
	n.Bytes += uint64(max(e.Len, 0))
	n.LastSeen = e.Time
	n.Types |= e.Type
	n.LastType = e.Type
	if e.Rate > 0 {
		n.Rate = e.Rate
	}
	if e.Channel > 0 {
		n.Channel = e.Channel
	}
	if !e.BSSID.IsZero() {
		n.BSSID = e.BSSID
	}
	if e.ESSID != "" {
		n.ESSID = e.ESSID
	}
	n.Signal = e.Signal
	if e.Signal > n.MaxSignal {
		n.MaxSignal = e.Signal
	}
	n.avg.Add(e.Signal)
}

// SortOrder selects how NodeTable.Sorted orders its rows.
type SortOrder int

const (
	SortNone SortOrder = iota // first-seen order
	SortSignal
	SortChannel
	SortESSID
	sortOrderCount
)

// Next cycles to the following order, wrapping back to SortNone.
func (o SortOrder) Next() SortOrder {
	return (o + 1) % sortOrderCount
}

func (o SortOrder) String() string {
	switch o {
	case SortSignal:
		return "signal"
	case SortChannel:
		return "channel"
	case SortESSID:
		return "essid"
	default:
		return "none"
	}
}

// NodeTable tracks nodes by source MAC.
type NodeTable struct {
	byMAC map[packet.MAC]*Node
	order []*Node
}

func NewNodeTable() *NodeTable {
	return &NodeTable{byMAC: make(map[packet.MAC]*Node)}
}

// Update folds e into the node for its source address and returns that node.
// Events without a source address (CTS/ACK frames) return nil.
func (t *NodeTable) Update(e *packet.Event) *Node {
	if t == nil || e == nil || e.Src.IsZero() {
		return nil
	}
	n, ok := t.byMAC[e.Src]
	if !ok {
		n = &Node{MAC: e.Src}
		t.byMAC[e.Src] = n
		t.order = append(t.order, n)
	}
	n.update(e)
	return n
}

func (t *NodeTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// Sorted returns a copy of the node list in the requested order. Ties keep
// first-seen order.
func (t *NodeTable) Sorted(order SortOrder) []*Node {
	if t == nil {
		return nil
	}
	out := make([]*Node, len(t.order))
	copy(out, t.order)
	switch order {
	case SortSignal:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Signal > out[j].Signal })
	case SortChannel:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Channel < out[j].Channel })
	case SortESSID:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].ESSID) < strings.ToLower(out[j].ESSID)
		})
	}
	return out
}

func (t *NodeTable) Clear() {
	if t == nil {
		return
	}
	t.byMAC = make(map[packet.MAC]*Node)
	t.order = nil
}
