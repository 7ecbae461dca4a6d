package ui

import (
	"github.com/gdamore/tcell/v2"

	"wlanmon/aggregate"
	"wlanmon/packet"
)

// MainView is the default screen: the node table above the packet log.
type MainView interface {
	Placeable
	Update(pkt *packet.Event, node *aggregate.Node)
	HandleKey(event *tcell.EventKey) bool
}

// Overlay is a full-screen window that rebuilds its content on Refresh.
type Overlay interface {
	Placeable
	Refresh()
}

// SpectrumView is an overlay with its own local keys.
type SpectrumView interface {
	Overlay
	HandleKey(event *tcell.EventKey) bool
}

// FilterEditor is the modal filter window. HandleKey reports done when the
// user leaves the editor.
type FilterEditor interface {
	Placeable
	Open()
	HandleKey(event *tcell.EventKey) (done bool)
}

// Clearable is any store emptied by the reset key.
type Clearable interface {
	Clear()
}
