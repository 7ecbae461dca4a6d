// Package filter implements the capture packet filter applied before packets
// reach the display.
//
// Filters allow users to restrict what the dashboard shows based on:
//   - Packet type (e.g., BEACON, PROBE, DATA|UDP)
//   - Source MAC address (an explicit allow list)
//
// Filter Logic:
//   - Type and MAC criteria use AND logic (both must match)
//   - Default state: every type enabled, MAC list disabled (no filtering)
//   - Off bypasses every criterion without forgetting it
//   - A packet passes the type criterion if any of its bits are enabled
//
// The filter is edited from the UI goroutine and consulted by the same
// goroutine, so it carries no locking.
package filter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"wlanmon/config"
	"wlanmon/packet"
)

// DefaultPath is where SaveFile stores the filter when no path is given.
const DefaultPath = "data/filter.yaml"

// Filter represents the active packet filter.
//
// Default Behavior:
//   - Mask=packet.MaskAll: accept every packet type
//   - MACFilter=false: MACs list ignored
//   - Off=false
type Filter struct {
	Mask      packet.Type  `yaml:"packet_mask"`
	MACFilter bool         `yaml:"mac_filter"`
	MACs      []packet.MAC `yaml:"macs"`
	Off       bool         `yaml:"off"`
}

// New creates a filter accepting every packet.
func New() *Filter {
	return &Filter{Mask: packet.MaskAll}
}

// FromConfig builds a filter from the loaded configuration. MAC strings were
// validated by config.Load, so parse failures here are reported as-is.
func FromConfig(cfg config.FilterConfig) (*Filter, error) {
	f := &Filter{
		Mask:      packet.Type(cfg.PacketMask) & packet.MaskAll,
		MACFilter: cfg.MACFilter,
		Off:       cfg.Off,
	}
	for _, raw := range cfg.MACs {
		mac, err := packet.ParseMAC(raw)
		if err != nil {
			return nil, fmt.Errorf("filter: %w", err)
		}
		if !mac.IsZero() {
			f.AddMAC(mac)
		}
	}
	return f, nil
}

// Active reports whether the filter can reject anything.
func (f *Filter) Active() bool {
	if f == nil || f.Off {
		return false
	}
	return f.Mask != packet.MaskAll || (f.MACFilter && len(f.MACs) > 0)
}

// Matches returns true if the packet passes every enabled criterion.
func (f *Filter) Matches(e *packet.Event) bool {
	if e == nil {
		return false
	}
	if f == nil || f.Off {
		return true
	}
	if e.Type&f.Mask == 0 && f.Mask != packet.MaskAll {
		return false
	}
	if f.MACFilter && len(f.MACs) > 0 && !slices.Contains(f.MACs, e.Src) {
		return false
	}
	return true
}

// ToggleType flips every bit of t in the mask. An empty mask would hide
// everything, so it reverts to accepting all types.
func (f *Filter) ToggleType(t packet.Type) {
	f.Mask ^= t & packet.MaskAll
	if f.Mask == 0 {
		f.Mask = packet.MaskAll
	}
}

// SetType enables or disables a single type bit.
func (f *Filter) SetType(t packet.Type, enabled bool) {
	if enabled {
		f.Mask |= t & packet.MaskAll
		return
	}
	f.Mask &^= t
	if f.Mask == 0 {
		f.Mask = packet.MaskAll
	}
}

// AddMAC appends mac to the allow list unless it is already present.
func (f *Filter) AddMAC(mac packet.MAC) {
	if slices.Contains(f.MACs, mac) {
		return
	}
	f.MACs = append(f.MACs, mac)
}

// RemoveMAC drops mac from the allow list.
func (f *Filter) RemoveMAC(mac packet.MAC) {
	f.MACs = slices.DeleteFunc(f.MACs, func(m packet.MAC) bool { return m == mac })
}

// Reset accepts every packet again and clears the MAC list.
func (f *Filter) Reset() {
	*f = *New()
}

// Describe returns a one-line summary for the log panel.
func (f *Filter) Describe() string {
	if f == nil || !f.Active() {
		if f != nil && f.Off {
			return "filter off"
		}
		return "no filter"
	}
	desc := fmt.Sprintf("mask 0x%06x", uint32(f.Mask))
	if f.MACFilter && len(f.MACs) > 0 {
		desc += fmt.Sprintf(", %d MACs", len(f.MACs))
	}
	return desc
}

// SaveFile persists the filter as YAML. An empty path means DefaultPath.
func SaveFile(path string, f *Filter) error {
	if f == nil {
		return errors.New("nil filter")
	}
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	bs, err := yaml.Marshal(f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, bs, 0o644)
}

// LoadFile loads a filter saved by SaveFile.
// Returns os.ErrNotExist if no saved file is found.
func LoadFile(path string) (*Filter, error) {
	if path == "" {
		path = DefaultPath
	}
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f := New()
	if err := yaml.Unmarshal(bs, f); err != nil {
		return nil, fmt.Errorf("filter: parse %s: %w", path, err)
	}
	if f.Mask&packet.MaskAll == 0 {
		f.Mask = packet.MaskAll
	}
	return f, nil
}
