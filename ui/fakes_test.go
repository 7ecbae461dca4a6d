package ui

import (
	"errors"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"wlanmon/aggregate"
	"wlanmon/config"
	"wlanmon/packet"
	"wlanmon/stats"
)

// fakeTerminal draws onto a simulation screen and counts calls.
type fakeTerminal struct {
	screen     tcell.SimulationScreen
	width      int
	height     int
	flushes    int
	draws      []Panel
	teardowns  int
	rebuilds   int
	rebuildErr error
	events     chan tcell.Event
}

func newFakeTerminal(width, height int) *fakeTerminal {
	return &fakeTerminal{width: width, height: height, events: make(chan tcell.Event, 8)}
}

func (t *fakeTerminal) Size() (int, int) { return t.width, t.height }

func (t *fakeTerminal) DrawPanel(p Panel) {
	t.draws = append(t.draws, p)
	if t.screen != nil {
		p.Draw(t.screen)
	}
}

func (t *fakeTerminal) Flush() {
	t.flushes++
	if t.screen != nil {
		t.screen.Show()
	}
}

func (t *fakeTerminal) Teardown() {
	t.teardowns++
	if t.screen != nil {
		t.screen.Fini()
		t.screen = nil
	}
}

func (t *fakeTerminal) Rebuild() error {
	t.rebuilds++
	if t.rebuildErr != nil {
		return t.rebuildErr
	}
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		return err
	}
	screen.SetSize(t.width, t.height)
	t.screen = screen
	return nil
}

func (t *fakeTerminal) Events() <-chan tcell.Event { return t.events }

func (t *fakeTerminal) resetCounts() {
	t.flushes = 0
	t.draws = nil
}

// row returns the text of one screen row.
func (t *fakeTerminal) row(y int) string {
	cells, w, _ := t.screen.GetContents()
	out := make([]rune, 0, w)
	for x := 0; x < w; x++ {
		cell := cells[y*w+x]
		if len(cell.Runes) == 0 {
			out = append(out, ' ')
			continue
		}
		out = append(out, cell.Runes[0])
	}
	return string(out)
}

func (t *fakeTerminal) drew(p Panel) bool {
	for _, d := range t.draws {
		if _, fn := d.(PanelFunc); fn {
			continue
		}
		if d == p {
			return true
		}
	}
	return false
}

var errRebuild = errors.New("no tty")

type fakeMain struct {
	*tview.Box
	updates  int
	lastPkt  *packet.Event
	lastNode *aggregate.Node
	consume  rune
	keys     int
}

func newFakeMain() *fakeMain { return &fakeMain{Box: tview.NewBox(), consume: 'o'} }

func (m *fakeMain) Update(pkt *packet.Event, node *aggregate.Node) {
	m.updates++
	m.lastPkt = pkt
	m.lastNode = node
}

func (m *fakeMain) HandleKey(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyRune && ev.Rune() == m.consume {
		m.keys++
		return true
	}
	return false
}

type fakeOverlay struct {
	*tview.Box
	refreshes int
}

func newFakeOverlay() *fakeOverlay { return &fakeOverlay{Box: tview.NewBox()} }

func (o *fakeOverlay) Refresh() { o.refreshes++ }

type fakeSpectrum struct {
	fakeOverlay
	keys int
}

func (s *fakeSpectrum) HandleKey(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyLeft || ev.Key() == tcell.KeyRight {
		s.keys++
		return true
	}
	return false
}

type fakeFilter struct {
	*tview.Box
	opens int
	keys  int
}

func (f *fakeFilter) Open() { f.opens++ }

func (f *fakeFilter) HandleKey(ev *tcell.EventKey) bool {
	f.keys++
	return ev.Key() == tcell.KeyEsc
}

// fakeStore is a clearable aggregate that also feeds the rate meter.
type fakeStore struct {
	clears   int
	bytes    uint64
	duration uint64
}

func (s *fakeStore) Clear() {
	s.clears++
	s.bytes, s.duration = 0, 0
}

func (s *fakeStore) Totals() (uint64, uint64) { return s.bytes, s.duration }

type fixture struct {
	cfg      *config.Config
	term     *fakeTerminal
	main     *fakeMain
	overlays map[WindowMode]Overlay
	spectrum *fakeSpectrum
	filter   *fakeFilter
	store    *fakeStore
	rates    *stats.RateMeter
	metrics  *Metrics
	display  *Display
	router   *InputRouter
	now      time.Time
}

var epoch = time.Date(2026, time.March, 4, 12, 0, 0, 0, time.UTC)

func newFixture() *fixture {
	f := &fixture{
		cfg:      config.Default(),
		term:     newFakeTerminal(100, 40),
		main:     newFakeMain(),
		spectrum: &fakeSpectrum{fakeOverlay: fakeOverlay{Box: tview.NewBox()}},
		filter:   &fakeFilter{Box: tview.NewBox()},
		store:    &fakeStore{},
		metrics:  NewMetrics(),
		now:      epoch,
	}
	f.rates = stats.NewRateMeter(f.store)
	f.overlays = map[WindowMode]Overlay{
		ModeESSID:    newFakeOverlay(),
		ModeHistory:  newFakeOverlay(),
		ModeStats:    newFakeOverlay(),
		ModeSpectrum: f.spectrum,
		ModeHelp:     newFakeOverlay(),
	}
	f.display = NewDisplay(DisplayOptions{
		Config:     f.cfg,
		Terminal:   f.term,
		Main:       f.main,
		Overlays:   f.overlays,
		Filter:     f.filter,
		Clearables: []Clearable{f.store},
		Rates:      f.rates,
		Metrics:    f.metrics,
		Clock:      func() time.Time { return f.now },
	})
	f.router = NewInputRouter(f.display, nil)
	return f
}

func (f *fixture) init(t interface{ Fatalf(string, ...any) }) {
	if err := f.display.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	f.term.resetCounts()
}

func (f *fixture) press(r rune) bool {
	quit, _ := f.router.HandleEvent(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	return quit
}

// packet runs one captured packet through the scheduler after growing the
// store totals.
func (f *fixture) packet(at time.Time, bytes, airtime uint64) {
	f.store.bytes += bytes
	f.store.duration += airtime
	f.display.Scheduler().OnEvent(at, &packet.Event{Time: at, Type: packet.TypeData, Len: int(bytes)}, nil)
}

func (f *fixture) pressKey(k tcell.Key) bool {
	quit, _ := f.router.HandleEvent(tcell.NewEventKey(k, 0, tcell.ModNone))
	return quit
}
