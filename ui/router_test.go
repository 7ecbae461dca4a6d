package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"wlanmon/packet"
)

func TestOverlayKeysToggleAndSwitchDirectly(t *testing.T) {
	f := newFixture()
	f.init(t)
	machine := f.display.Machine()

	f.press('e')
	if machine.Mode() != ModeESSID {
		t.Fatalf("expected ESSID overlay, got %s", machine.Mode())
	}
	f.press('E')
	if machine.Mode() != ModeMain {
		t.Fatalf("expected same key to close the overlay, got %s", machine.Mode())
	}

	f.press('h')
	var seen []WindowMode
	for _, r := range []rune{'a', 's', '?'} {
		f.press(r)
		seen = append(seen, machine.Mode())
	}
	want := []WindowMode{ModeStats, ModeSpectrum, ModeHelp}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("step %d: expected %s, got %s", i, want[i], seen[i])
		}
	}
	if f.term.flushes != 6 {
		t.Fatalf("expected one refresh per key, got %d", f.term.flushes)
	}
}

func TestFilterFreezesOverlayAxis(t *testing.T) {
	f := newFixture()
	f.init(t)
	machine := f.display.Machine()
	f.press('s')

	f.press('f')
	if !machine.FilterOpen() || f.filter.opens != 1 {
		t.Fatalf("expected filter editor to open once")
	}
	for _, r := range []rune{'e', 'h', 'a', 's', '?', 'q', 'f', 'r'} {
		if quit := f.press(r); quit {
			t.Fatalf("key %q must not reach the global table while the filter is open", r)
		}
		if machine.Mode() != ModeSpectrum {
			t.Fatalf("key %q changed mode to %s while filter open", r, machine.Mode())
		}
	}
	if f.filter.opens != 1 || f.filter.keys != 8 {
		t.Fatalf("expected all keys routed to the editor, opens=%d keys=%d", f.filter.opens, f.filter.keys)
	}
	if f.store.clears != 0 {
		t.Fatalf("reset must not run while the filter is open")
	}
	if !f.term.drew(f.filter) {
		t.Fatalf("expected filter window drawn on top")
	}

	f.pressKey(tcell.KeyEsc)
	if machine.FilterOpen() {
		t.Fatalf("expected editor exit to close the filter")
	}
	f.press('e')
	if machine.Mode() != ModeESSID {
		t.Fatalf("expected overlay switching to resume, got %s", machine.Mode())
	}
}

func TestModeMachineDirect(t *testing.T) {
	var m ModeMachine
	if m.Toggle(ModeMain) {
		t.Fatalf("ModeMain is not a toggle target")
	}
	if !m.OpenFilter() || m.OpenFilter() {
		t.Fatalf("OpenFilter must only report the transition")
	}
	if m.Toggle(ModeHelp) || m.Mode() != ModeMain {
		t.Fatalf("toggle must be refused while the filter is open")
	}
	m.CloseFilter()
	if !m.Toggle(ModeHelp) || m.Mode() != ModeHelp {
		t.Fatalf("expected help after closing filter")
	}
}

func TestResetKeepsModeAndClearsStores(t *testing.T) {
	f := newFixture()
	f.init(t)
	f.press('s')
	f.press('f')
	f.pressKey(tcell.KeyEsc)
	f.press('r')

	if f.store.clears != 1 {
		t.Fatalf("expected one clear, got %d", f.store.clears)
	}
	if f.display.Machine().Mode() != ModeSpectrum || f.display.Machine().FilterOpen() {
		t.Fatalf("reset must keep mode and modal state, got %s filter=%t",
			f.display.Machine().Mode(), f.display.Machine().FilterOpen())
	}
}

func TestResetClearsRateBaseline(t *testing.T) {
	f := newFixture()
	f.cfg.Display.IntervalMicros = 0
	f.init(t)

	f.packet(epoch, 1000, 100)
	f.packet(epoch.Add(time.Second), 4000, 400)
	if bps, dps := f.rates.Rates(); bps != 4000 || dps != 400 {
		t.Fatalf("expected sampled rates 4000/400, got %d/%d", bps, dps)
	}

	f.now = epoch.Add(time.Second)
	f.press('r')
	if bps, dps := f.rates.Rates(); bps != 0 || dps != 0 {
		t.Fatalf("expected zero rates after reset, got %d/%d", bps, dps)
	}
	f.packet(epoch.Add(1500*time.Millisecond), 3000, 300)
	if bps, dps := f.rates.Rates(); bps != 0 || dps != 0 {
		t.Fatalf("expected zero until the next resample, got %d/%d", bps, dps)
	}
	f.packet(epoch.Add(2*time.Second), 2000, 200)
	if bps, dps := f.rates.Rates(); bps != 5000 || dps != 500 {
		t.Fatalf("expected 5000/500 after the resample, got %d/%d", bps, dps)
	}
}

func TestRatesFollowCaptureTimeAfterLaterRefresh(t *testing.T) {
	f := newFixture()
	f.cfg.Display.IntervalMicros = 0
	f.now = epoch.Add(48 * time.Hour)
	f.init(t)
	f.press('?')
	f.press('?')

	f.packet(epoch, 1000, 100)
	f.packet(epoch.Add(time.Second), 2000, 300)
	if bps, dps := f.rates.Rates(); bps != 2000 || dps != 300 {
		t.Fatalf("expected rates on the capture timebase, got %d/%d", bps, dps)
	}

	f.now = epoch.Add(96 * time.Hour)
	f.press('a')
	f.packet(epoch.Add(2*time.Second), 1000, 100)
	f.packet(epoch.Add(3*time.Second), 1000, 100)
	if bps, _ := f.rates.Rates(); bps != 1000 {
		t.Fatalf("expected rates to recover after a wall-clock refresh, got %d", bps)
	}
}

func TestPauseTogglesAndLogs(t *testing.T) {
	f := newFixture()
	f.init(t)
	f.press(' ')
	if !f.cfg.Paused {
		t.Fatalf("expected paused")
	}
	w, h := f.term.Size()
	if row := f.term.row(h - 1); row[w-28:w-24] != "|PAU" {
		t.Fatalf("expected |PAU indicator, got %q", row[w-28:w-24])
	}
	f.press('P')
	if f.cfg.Paused {
		t.Fatalf("expected resumed")
	}
	lines := f.display.Log().Lines()
	want := []string{"", "- PAUSED -", "", "- RESUME -"}
	if len(lines) < len(want) {
		t.Fatalf("expected pause/resume log lines, got %q", lines)
	}
	for i, line := range lines[len(lines)-len(want):] {
		if line != want[i] {
			t.Fatalf("expected %q at log tail position %d, got %q (log %q)", want[i], i, line, lines)
		}
	}
}

func TestLocalHandlersConsumeFirst(t *testing.T) {
	f := newFixture()
	f.init(t)

	f.press('o')
	if f.main.keys != 1 || f.term.flushes != 1 {
		t.Fatalf("expected main view to consume 'o' and refresh, keys=%d flushes=%d", f.main.keys, f.term.flushes)
	}

	f.press('s')
	f.pressKey(tcell.KeyLeft)
	if f.spectrum.keys != 1 {
		t.Fatalf("expected spectrum to consume Left")
	}
	f.press('o')
	if f.main.keys != 1 {
		t.Fatalf("main view keys must not be offered under an overlay")
	}
	f.press('s')
	if f.display.Machine().Mode() != ModeMain {
		t.Fatalf("unconsumed spectrum key must fall through to the global table")
	}
}

func TestUnmappedKeyStillRefreshes(t *testing.T) {
	f := newFixture()
	f.init(t)
	if quit := f.press('z'); quit {
		t.Fatalf("unmapped key must not quit")
	}
	if f.term.flushes != 1 || f.display.Machine().Mode() != ModeMain {
		t.Fatalf("expected a harmless refresh, flushes=%d", f.term.flushes)
	}
}

func TestQuitTearsDownWithoutFlush(t *testing.T) {
	f := newFixture()
	f.init(t)
	if !f.press('q') {
		t.Fatalf("expected quit")
	}
	if f.term.teardowns != 1 || f.term.flushes != 0 {
		t.Fatalf("expected teardown and no refresh, teardowns=%d flushes=%d", f.term.teardowns, f.term.flushes)
	}
	f.display.Scheduler().OnEvent(f.now, &packet.Event{}, nil)
	if f.term.flushes != 0 {
		t.Fatalf("no drawing after shutdown")
	}
	f.display.Shutdown()
	if f.term.teardowns != 1 {
		t.Fatalf("Shutdown must be idempotent")
	}
	if quit, _ := f.router.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'e', tcell.ModNone)); !quit {
		t.Fatalf("events after shutdown report quit")
	}
}

func TestCtrlCQuits(t *testing.T) {
	f := newFixture()
	f.init(t)
	if !f.pressKey(tcell.KeyCtrlC) {
		t.Fatalf("expected Ctrl-C to quit")
	}
}

func TestResizeThenPacketKeepsState(t *testing.T) {
	f := newFixture()
	f.init(t)
	sched := f.display.Scheduler()
	sched.OnEvent(f.now, &packet.Event{Time: f.now, Len: 1}, nil)
	sched.OnEvent(f.now, &packet.Event{Time: f.now, Len: 2}, nil)
	f.press('h')
	f.press('f')

	f.term.width, f.term.height = 60, 20
	f.term.resetCounts()
	quit, err := f.router.HandleEvent(tcell.NewEventResize(60, 20))
	if quit || err != nil {
		t.Fatalf("resize must not quit: quit=%t err=%v", quit, err)
	}
	if f.term.teardowns != 1 || f.term.rebuilds != 2 {
		t.Fatalf("expected full teardown and rebuild, teardowns=%d rebuilds=%d", f.term.teardowns, f.term.rebuilds)
	}
	if f.term.flushes != 1 {
		t.Fatalf("expected one forced redraw after rebuild, got %d", f.term.flushes)
	}
	layout := f.display.Layout()
	if layout.Width != 60 || layout.Overlay.Height != 19 {
		t.Fatalf("expected layout for 60x20, got %+v", layout)
	}
	history := f.overlays[ModeHistory].(*fakeOverlay)
	if _, _, w, h := history.GetRect(); w != 60 || h != 19 {
		t.Fatalf("expected overlay re-placed to 60x19, got %dx%d", w, h)
	}

	sched.OnEvent(f.now.Add(2*time.Second), &packet.Event{Time: f.now, Len: 3}, nil)
	if f.display.Machine().Mode() != ModeHistory || !f.display.Machine().FilterOpen() {
		t.Fatalf("resize must keep mode and modal flag")
	}
	if f.display.Log().Len() != 3 {
		t.Fatalf("expected log lines to survive the resize, got %d", f.display.Log().Len())
	}
	if !f.term.drew(history) || !f.term.drew(f.filter) {
		t.Fatalf("expected rebuilt display to show the history overlay under the filter")
	}
}

func TestResizeRebuildFailureQuits(t *testing.T) {
	f := newFixture()
	f.init(t)
	f.term.rebuildErr = errRebuild
	quit, err := f.router.HandleEvent(tcell.NewEventResize(10, 10))
	if !quit || !errors.Is(err, errRebuild) {
		t.Fatalf("expected quit with wrapped rebuild error, got quit=%t err=%v", quit, err)
	}
}

func TestChangeChannelOnStartOpensSpectrumOnce(t *testing.T) {
	f := newFixture()
	f.cfg.Capture.ChangeChannelOnStart = true
	f.init(t)
	if f.display.Machine().Mode() != ModeSpectrum {
		t.Fatalf("expected spectrum at start, got %s", f.display.Machine().Mode())
	}
	f.press('s')
	if _, err := f.router.HandleEvent(tcell.NewEventResize(100, 40)); err != nil {
		t.Fatalf("resize: %v", err)
	}
	if f.display.Machine().Mode() != ModeMain {
		t.Fatalf("resize must not reopen the spectrum, got %s", f.display.Machine().Mode())
	}
}

func TestStatusFrame(t *testing.T) {
	f := newFixture()
	f.cfg.Capture.Interface = "mon0"
	f.cfg.Capture.Channels = []int{1, 6, 11}
	f.cfg.Capture.CurrentChannelIndex = 1
	f.cfg.Filter.PacketMask = uint32(packet.TypeBeacon)
	f.init(t)
	w, h := f.term.Size()
	row := f.term.row(h - 1)
	if !strings.HasPrefix(row, "Quit Pause sOrt Filter History ESSIDs Stats Reset Spectrum ?Help") {
		t.Fatalf("unexpected status frame %q", row)
	}
	if got := row[w-15 : w-10]; got != "|mon0" {
		t.Fatalf("expected interface name, got %q", got)
	}
	if got := row[w-24 : w-20]; got != "|FIL" {
		t.Fatalf("expected filter indicator, got %q", got)
	}
	if got := row[w-20 : w-15]; got != "|Ch06" {
		t.Fatalf("expected channel indicator, got %q", got)
	}
	cells, cw, _ := f.term.screen.GetContents()
	_, _, attrs := cells[(h-1)*cw].Style.Decompose()
	if attrs&tcell.AttrUnderline == 0 {
		t.Fatalf("expected hot-key Q underlined")
	}
}
