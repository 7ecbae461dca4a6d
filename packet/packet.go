// Package packet defines the decoded 802.11 packet events delivered to the
// display core, plus the type bitmask and formatting helpers shared by the
// aggregate stores and the views.
package packet

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Type is a 24-bit packet classification bitmask. A single packet usually
// carries several bits (e.g. MGMT|BEACON or DATA|IP|UDP).
type Type uint32

const (
	TypeCtrl Type = 1 << iota
	TypeMgmt
	TypeData
	TypeBadFCS
	TypeBeacon
	TypeProbe
	TypeAssoc
	TypeAuth
	TypeRTS
	TypeCTS
	TypeACK
	TypeNull
	TypeARP
	TypeIP
	TypeICMP
	TypeUDP
	TypeTCP
	TypeOLSR
	TypeOLSRLQ
	TypeOLSRGW
	TypeBATMAN
	TypeMeshZ
)

// MaskAll selects every packet type; a filter mask equal to MaskAll means
// "no type filtering".
const MaskAll Type = 0xffffff

type typeInfo struct {
	bit  Type
	char byte
	name string
}

// typeTable is ordered from most to least specific so Char/Name pick the
// most descriptive bit of a combined mask.
var typeTable = []typeInfo{
	{TypeBadFCS, '*', "BADFCS"},
	{TypeBeacon, 'B', "BEACON"},
	{TypeProbe, 'P', "PROBE"},
	{TypeAssoc, 'A', "ASSOC"},
	{TypeAuth, 'U', "AUTH"},
	{TypeRTS, 'R', "RTS"},
	{TypeCTS, 'C', "CTS"},
	{TypeACK, 'K', "ACK"},
	{TypeNull, 'N', "NULL"},
	{TypeARP, 'a', "ARP"},
	{TypeICMP, 'i', "ICMP"},
	{TypeUDP, 'u', "UDP"},
	{TypeTCP, 't', "TCP"},
	{TypeOLSR, 'O', "OLSR"},
	{TypeOLSRLQ, 'Q', "OLSR_LQ"},
	{TypeOLSRGW, 'G', "OLSR_GW"},
	{TypeBATMAN, 'b', "BATMAN"},
	{TypeMeshZ, 'z', "MESHZ"},
	{TypeIP, 'I', "IP"},
	{TypeData, 'D', "DATA"},
	{TypeMgmt, 'M', "MGMT"},
	{TypeCtrl, 'c', "CTRL"},
}

// Types returns every single-bit type in display order.
func Types() []Type {
	out := make([]Type, 0, len(typeTable))
	for _, info := range typeTable {
		out = append(out, info.bit)
	}
	return out
}

// Has reports whether all bits of other are set in t.
func (t Type) Has(other Type) bool {
	return other != 0 && t&other == other
}

// Char returns the one-character code of the most specific bit in t.
func (t Type) Char() byte {
	for _, info := range typeTable {
		if t&info.bit != 0 {
			return info.char
		}
	}
	return '?'
}

// Name returns the name of the most specific bit in t.
func (t Type) Name() string {
	for _, info := range typeTable {
		if t&info.bit != 0 {
			return info.name
		}
	}
	return "UNKNOWN"
}

// MAC is a 48-bit hardware address. It marshals as the usual colon form.
type MAC [6]byte

func (m MAC) IsZero() bool {
	return m == MAC{}
}

func (m MAC) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", m[0], m[1], m[2], m[3], m[4], m[5])
}

// Short returns the last three octets, used where columns are tight.
func (m MAC) Short() string {
	return fmt.Sprintf("%02x:%02x:%02x", m[3], m[4], m[5])
}

func (m MAC) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *MAC) UnmarshalText(text []byte) error {
	parsed, err := ParseMAC(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMAC accepts "aa:bb:cc:dd:ee:ff", "aa-bb-..." or a bare 12-digit hex
// string. An empty string yields the zero MAC.
func ParseMAC(s string) (MAC, error) {
	var m MAC
	s = strings.TrimSpace(s)
	if s == "" {
		return m, nil
	}
	clean := strings.NewReplacer(":", "", "-", "", ".", "").Replace(s)
	if len(clean) != 12 {
		return m, fmt.Errorf("invalid MAC %q", s)
	}
	raw, err := hex.DecodeString(clean)
	if err != nil {
		return m, fmt.Errorf("invalid MAC %q: %w", s, err)
	}
	copy(m[:], raw)
	return m, nil
}

// Event is one decoded packet as handed over by the capture engine. Time is
// the capture timestamp and is the only clock the display core consults.
type Event struct {
	Time     time.Time `json:"time"`
	Type     Type      `json:"type"`
	Len      int       `json:"len"`
	Duration int       `json:"duration_us"` // airtime in microseconds
	Signal   int       `json:"signal_dbm"`
	Noise    int       `json:"noise_dbm"`
	Rate     int       `json:"rate"` // in 100 kbit/s units
	Channel  int       `json:"channel"`
	Src      MAC       `json:"src"`
	Dst      MAC       `json:"dst"`
	BSSID    MAC       `json:"bssid"`
	ESSID    string    `json:"essid,omitempty"`
}

// RateString renders Rate as Mbit/s with one decimal when needed.
func (e *Event) RateString() string {
	if e == nil || e.Rate <= 0 {
		return "-"
	}
	if e.Rate%10 == 0 {
		return fmt.Sprintf("%dM", e.Rate/10)
	}
	return fmt.Sprintf("%d.%dM", e.Rate/10, e.Rate%10)
}
