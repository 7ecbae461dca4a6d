package aggregate

import (
	"wlanmon/buffer"
	"wlanmon/packet"
	"wlanmon/stats"
)

// Store bundles every table fed from the capture stream.
type Store struct {
	Nodes    *NodeTable
	ESSIDs   *ESSIDTable
	Spectrum *SpectrumTable
	History  *buffer.HistoryBuffer
	Stats    *stats.Tracker
}

// NewStore builds empty tables. historySize bounds the history ring.
func NewStore(historySize int) *Store {
	return &Store{
		Nodes:    NewNodeTable(),
		ESSIDs:   NewESSIDTable(),
		Spectrum: NewSpectrumTable(),
		History:  buffer.NewHistoryBuffer(historySize),
		Stats:    stats.NewTracker(),
	}
}

// Update feeds e to every table and returns the node it was attributed to,
// or nil when the frame carries no source address.
func (s *Store) Update(e *packet.Event) *Node {
	if s == nil || e == nil {
		return nil
	}
	s.Stats.Add(e)
	s.History.Add(e)
	node := s.Nodes.Update(e)
	s.ESSIDs.Update(node)
	s.Spectrum.Update(e, node)
	return node
}

// Clear empties every table.
func (s *Store) Clear() {
	if s == nil {
		return
	}
	s.Nodes.Clear()
	s.ESSIDs.Clear()
	s.Spectrum.Clear()
	s.History.Clear()
	s.Stats.Clear()
}
