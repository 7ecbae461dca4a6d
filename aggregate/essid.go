package aggregate

import (
	"sort"

	"wlanmon/packet"
)

// ESSID groups the nodes announcing or joining one network name.
type ESSID struct {
	Name     string
	Nodes    []*Node
	Channels map[int]struct{}
	// Split is set once two different BSSIDs announce the name on the same
	// channel, which usually means an IBSS split.
	Split bool

	members map[packet.MAC]struct{}
	bssids  map[int]packet.MAC
}

// ESSIDTable indexes nodes by the network name they reported.
type ESSIDTable struct {
	byName map[string]*ESSID
}

func NewESSIDTable() *ESSIDTable {
	return &ESSIDTable{byName: make(map[string]*ESSID)}
}

// Update registers n under its current ESSID. Nodes without a name are
// ignored.
func (t *ESSIDTable) Update(n *Node) {
	if t == nil || n == nil || n.ESSID == "" {
		return
	}
	e, ok := t.byName[n.ESSID]
	if !ok {
		e = &ESSID{
			Name:     n.ESSID,
			Channels: make(map[int]struct{}),
			members:  make(map[packet.MAC]struct{}),
			bssids:   make(map[int]packet.MAC),
		}
		t.byName[n.ESSID] = e
	}
	if _, seen := e.members[n.MAC]; !seen {
		e.members[n.MAC] = struct{}{}
		e.Nodes = append(e.Nodes, n)
	}
	if n.Channel > 0 {
		e.Channels[n.Channel] = struct{}{}
		if !n.BSSID.IsZero() {
			if prev, ok := e.bssids[n.Channel]; !ok {
				e.bssids[n.Channel] = n.BSSID
			} else if prev != n.BSSID {
				e.Split = true
			}
		}
	}
}

func (t *ESSIDTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.byName)
}

// List returns networks sorted by name.
func (t *ESSIDTable) List() []*ESSID {
	if t == nil {
		return nil
	}
	out := make([]*ESSID, 0, len(t.byName))
	for _, e := range t.byName {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (t *ESSIDTable) Clear() {
	if t == nil {
		return
	}
	t.byName = make(map[string]*ESSID)
}
