package ui

import (
	"fmt"
	"log"
	"time"

	"wlanmon/config"
	"wlanmon/stats"
)

const defaultLogLines = 500

// DisplayOptions wires a Display to its terminal and collaborators.
type DisplayOptions struct {
	Config   *config.Config
	Terminal Terminal
	Main     MainView
	// Overlays maps each overlay mode to its window. The ModeSpectrum entry
	// receives local keys when it also implements SpectrumView.
	Overlays   map[WindowMode]Overlay
	Filter     FilterEditor
	Clearables []Clearable
	Rates      *stats.RateMeter
	Metrics    *Metrics
	// Clock supplies the timestamp for forced refreshes. Defaults to time.Now.
	Clock func() time.Time
}

// Display is the dashboard state: the mode machine, the panels and the
// timestamp of the last full redraw. It is owned by a single goroutine.
type Display struct {
	cfg        *config.Config
	term       Terminal
	machine    ModeMachine
	status     *StatusBar
	log        *LogPanel
	main       MainView
	overlays   map[WindowMode]Overlay
	filter     FilterEditor
	clearables []Clearable
	rates      *stats.RateMeter
	metrics    *Metrics
	clock      func() time.Time

	layout      Layout
	lastRefresh time.Time
	sched       *RefreshScheduler
	closed      bool
}

func NewDisplay(opts DisplayOptions) *Display {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logLines := cfg.Display.LogLines
	if logLines <= 0 {
		logLines = defaultLogLines
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	overlays := make(map[WindowMode]Overlay, len(opts.Overlays))
	for mode, ov := range opts.Overlays {
		if ov != nil && mode.IsOverlay() {
			overlays[mode] = ov
		}
	}
	d := &Display{
		cfg:        cfg,
		term:       opts.Terminal,
		status:     NewStatusBar(cfg),
		log:        NewLogPanel("Packets", logLines),
		main:       opts.Main,
		overlays:   overlays,
		filter:     opts.Filter,
		clearables: opts.Clearables,
		rates:      opts.Rates,
		metrics:    opts.Metrics,
		clock:      clock,
	}
	d.sched = &RefreshScheduler{d: d}
	return d
}

// Scheduler returns the refresh scheduler bound to this display.
func (d *Display) Scheduler() *RefreshScheduler { return d.sched }

// Machine exposes the window mode state.
func (d *Display) Machine() *ModeMachine { return &d.machine }

// Log exposes the packet log panel.
func (d *Display) Log() *LogPanel { return d.log }

// Layout returns the geometry computed at the last (re)build.
func (d *Display) Layout() Layout { return d.layout }

// LastRefresh returns the time of the last full redraw.
func (d *Display) LastRefresh() time.Time { return d.lastRefresh }

// Init takes over the terminal, paints the status frame and draws the first
// frame. With ChangeChannelOnStart the spectrum overlay opens first.
func (d *Display) Init() error {
	if err := d.term.Rebuild(); err != nil {
		return fmt.Errorf("ui init: %w", err)
	}
	d.relayout()
	if d.cfg.Capture.ChangeChannelOnStart {
		d.machine.Toggle(ModeSpectrum)
	}
	w, h := d.term.Size()
	log.Printf("UI: terminal %dx%d, redraw interval %s", w, h, d.cfg.Display.Interval())
	d.sched.OnEvent(d.clock(), nil, nil)
	return nil
}

// Rebuild recreates the terminal after a resize and re-places every panel.
// Mode, filter state, log lines and aggregates are kept; the clock is
// repainted because lastRefresh starts over.
func (d *Display) Rebuild() error {
	d.term.Teardown()
	if err := d.term.Rebuild(); err != nil {
		return fmt.Errorf("ui rebuild: %w", err)
	}
	d.lastRefresh = time.Time{}
	d.relayout()
	d.metrics.Rebuild()
	d.sched.OnEvent(d.clock(), nil, nil)
	return nil
}

func (d *Display) relayout() {
	w, h := d.term.Size()
	d.layout = ComputeLayout(w, h)
	d.layout.Main.apply(d.main)
	d.layout.Log.apply(d.log)
	for _, ov := range d.overlays {
		d.layout.Overlay.apply(ov)
	}
	d.layout.Filter.apply(d.filter)
	d.term.DrawPanel(d.status.Frame())
}

// Reset empties every registered store and the rate estimator. The window
// mode and the filter editor are left as they are.
func (d *Display) Reset() {
	for _, c := range d.clearables {
		if c != nil {
			c.Clear()
		}
	}
	d.rates.Clear()
	log.Printf("UI: statistics reset")
}

// TogglePause flips the paused flag and notes it in the packet log after a
// blank separator line.
func (d *Display) TogglePause() {
	d.cfg.Paused = !d.cfg.Paused
	d.log.Append("")
	if d.cfg.Paused {
		d.log.Append("- PAUSED -")
	} else {
		d.log.Append("- RESUME -")
	}
}

// Shutdown restores the terminal. Safe to call more than once.
func (d *Display) Shutdown() {
	if d == nil || d.closed {
		return
	}
	d.closed = true
	d.term.Teardown()
}

// Closed reports whether Shutdown ran.
func (d *Display) Closed() bool {
	return d == nil || d.closed
}

func (d *Display) activeOverlay() Overlay {
	mode := d.machine.Mode()
	if !mode.IsOverlay() {
		return nil
	}
	return d.overlays[mode]
}

func (d *Display) forceRefresh() {
	d.sched.OnEvent(d.clock(), nil, nil)
}
