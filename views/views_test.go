package views

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"wlanmon/aggregate"
	"wlanmon/filter"
	"wlanmon/packet"
	"wlanmon/stats"
	"wlanmon/ui"
)

var epoch = time.Date(2026, time.March, 4, 12, 0, 0, 0, time.UTC)

func mac(last byte) packet.MAC { return packet.MAC{2, 0, 0, 0, 0, last} }

func beacon(src byte, ch, signal int, essid string) *packet.Event {
	return &packet.Event{
		Time:    epoch,
		Type:    packet.TypeMgmt | packet.TypeBeacon,
		Len:     120,
		Signal:  signal,
		Channel: ch,
		Src:     mac(src),
		BSSID:   mac(src),
		ESSID:   essid,
	}
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func specialKey(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func TestMainSortsAndHighlightsCurrentNode(t *testing.T) {
	store := aggregate.NewStore(16)
	store.Update(beacon(1, 6, -70, "zulu"))
	pkt := beacon(2, 1, -40, "alpha")
	node := store.Update(pkt)

	m := NewMain(store, stats.NewRateMeter(store.Stats))
	m.Update(pkt, node)
	if m.GetRowCount() != 3 {
		t.Fatalf("expected header plus two rows, got %d", m.GetRowCount())
	}

	if !m.HandleKey(runeKey('o')) || m.order != aggregate.SortSignal {
		t.Fatalf("expected 'o' to select signal order, got %s", m.order)
	}
	m.Update(pkt, node)
	if got := m.GetCell(1, 1).Text; got != mac(2).String() {
		t.Fatalf("strongest node should come first, got %s", got)
	}
	if m.GetCell(1, 0).Color != tcell.ColorYellow {
		t.Fatalf("expected current node highlighted")
	}
	if m.GetCell(2, 0).Color != tcell.ColorGreen {
		t.Fatalf("expected access point row in green")
	}
	if !strings.Contains(m.GetTitle(), "Nodes 2") || !strings.Contains(m.GetTitle(), "last 12:00:00") {
		t.Fatalf("unexpected title %q", m.GetTitle())
	}
	if m.HandleKey(runeKey('x')) {
		t.Fatalf("unexpected key consumed")
	}
}

func TestESSIDsMarksSplit(t *testing.T) {
	store := aggregate.NewStore(16)
	v := NewESSIDs(store.ESSIDs)
	v.Refresh()
	if !strings.Contains(v.GetText(true), "no networks") {
		t.Fatalf("expected empty state, got %q", v.GetText(true))
	}
	store.Update(beacon(1, 6, -50, "mesh"))
	store.Update(beacon(2, 6, -60, "mesh"))
	v.Refresh()
	text := v.GetText(true)
	if !strings.Contains(text, "'mesh'") || !strings.Contains(text, "2 nodes") || !strings.Contains(text, "SPLIT") {
		t.Fatalf("unexpected ESSID text %q", text)
	}
}

func TestSpectrumSelection(t *testing.T) {
	store := aggregate.NewStore(16)
	v := NewSpectrum(store.Spectrum)
	if !v.HandleKey(specialKey(tcell.KeyRight)) || v.selected != 0 {
		t.Fatalf("moving without traffic should keep no selection")
	}
	for i, ch := range []int{11, 1, 6} {
		store.Update(beacon(byte(i+1), ch, -50, "net"))
	}
	v.Refresh()
	if v.selected != 1 {
		t.Fatalf("expected lowest channel selected, got %d", v.selected)
	}
	v.HandleKey(specialKey(tcell.KeyRight))
	v.HandleKey(specialKey(tcell.KeyRight))
	v.HandleKey(specialKey(tcell.KeyRight))
	if v.selected != 11 {
		t.Fatalf("expected selection clamped at channel 11, got %d", v.selected)
	}
	v.HandleKey(specialKey(tcell.KeyLeft))
	if v.selected != 6 {
		t.Fatalf("expected channel 6, got %d", v.selected)
	}
	v.HandleKey(runeKey('n'))
	v.Refresh()
	if !strings.Contains(v.GetText(true), "Nodes on channel 6") {
		t.Fatalf("expected node listing, got %q", v.GetText(true))
	}
	if !v.HandleKey(specialKey(tcell.KeyDown)) {
		t.Fatalf("expected Down to scroll")
	}
	if v.HandleKey(runeKey('z')) || v.HandleKey(specialKey(tcell.KeyTab)) {
		t.Fatalf("unexpected key consumed")
	}
}

func TestFilterEditorTogglesTypes(t *testing.T) {
	f := filter.New()
	changes := 0
	e := NewFilterEditor(f, func(*filter.Filter) { changes++ })
	e.Open()

	if e.HandleKey(runeKey('B')) {
		t.Fatalf("type key should not close the editor")
	}
	if f.Mask&packet.TypeBeacon != 0 {
		t.Fatalf("expected beacon bit cleared")
	}
	e.HandleKey(runeKey('m'))
	e.HandleKey(runeKey('o'))
	if !f.MACFilter || !f.Off {
		t.Fatalf("expected MAC filter and off toggled: %+v", f)
	}
	e.HandleKey(runeKey('!'))
	if f.Mask != packet.MaskAll {
		t.Fatalf("expected all types restored")
	}
	if changes != 4 {
		t.Fatalf("expected 4 change callbacks, got %d", changes)
	}
	if e.HandleKey(runeKey('#')) || changes != 4 {
		t.Fatalf("unknown key should be ignored")
	}
	if !e.HandleKey(specialKey(tcell.KeyEscape)) || !e.HandleKey(specialKey(tcell.KeyEnter)) {
		t.Fatalf("Esc and Enter should close the editor")
	}
	if !strings.Contains(e.GetText(true), "[x] B BEACON") {
		t.Fatalf("unexpected editor text %q", e.GetText(true))
	}
}

func TestStatsOverlay(t *testing.T) {
	store := aggregate.NewStore(16)
	store.Update(beacon(1, 6, -50, "net"))
	store.Update(&packet.Event{Type: packet.TypeData | packet.TypeBadFCS, Len: 1500, Src: mac(3)})
	metrics := ui.NewMetrics()
	metrics.FullRedraw()
	metrics.Coalesced()

	v := NewStats(store.Stats, stats.NewRateMeter(store.Stats), metrics)
	v.Refresh()
	text := v.GetText(true)
	for _, want := range []string{"Packets  2", "Bad FCS 1", "BEACON", "DATA", "redraws 1", "coalesced 1"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in %q", want, text)
		}
	}
}

func TestHistoryDrawsBars(t *testing.T) {
	screen := tcell.NewSimulationScreen("")
	if err := screen.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer screen.Fini()
	screen.SetSize(20, 10)

	store := aggregate.NewStore(16)
	h := NewHistory(store.History)
	h.SetRect(0, 0, 20, 10)
	h.Refresh()
	h.Draw(screen)

	store.Update(beacon(1, 6, -20, "net"))
	h.Refresh()
	h.Draw(screen)
	// inner area is 18x8: plot rows 1..7, type row 8, newest sample at column 18
	if r, _, _, _ := screen.GetContent(18, 8); r != 'B' {
		t.Fatalf("expected beacon marker, got %q", r)
	}
	if r, _, _, _ := screen.GetContent(18, 2); r != '|' {
		t.Fatalf("expected full-height bar, got %q", r)
	}
}

func TestHelpIsStatic(t *testing.T) {
	h := NewHelp()
	before := h.GetText(true)
	h.Refresh()
	if h.GetText(true) != before || !strings.Contains(before, "KEYBOARD HELP") {
		t.Fatalf("help text changed or missing")
	}
}
