package ui

import (
	"github.com/gdamore/tcell/v2"
)

// InputRouter dispatches terminal events. Keys go, in priority order, to the
// open filter editor, the spectrum overlay's local keys, the main view's
// local keys, and finally the global key table. Every handled key except
// quit ends with a forced refresh, which is how local handlers get their
// changes on screen.
type InputRouter struct {
	d    *Display
	keys KeyTable
}

func NewInputRouter(d *Display, keys KeyTable) *InputRouter {
	if keys == nil {
		keys = DefaultKeyTable()
	}
	return &InputRouter{d: d, keys: keys}
}

// HandleEvent processes one event. quit is true once the display has been
// shut down; err is set when a resize could not rebuild the terminal.
func (r *InputRouter) HandleEvent(ev tcell.Event) (quit bool, err error) {
	if r.d.Closed() {
		return true, nil
	}
	switch ev := ev.(type) {
	case *tcell.EventResize:
		if err := r.d.Rebuild(); err != nil {
			return true, err
		}
		return false, nil
	case *tcell.EventKey:
		return r.handleKey(ev), nil
	}
	return false, nil
}

func (r *InputRouter) handleKey(ev *tcell.EventKey) (quit bool) {
	d := r.d
	if d.machine.FilterOpen() {
		if d.filter == nil || d.filter.HandleKey(ev) {
			d.machine.CloseFilter()
		}
		d.forceRefresh()
		return false
	}

	switch d.machine.Mode() {
	case ModeSpectrum:
		if sv, ok := d.overlays[ModeSpectrum].(SpectrumView); ok && sv.HandleKey(ev) {
			d.forceRefresh()
			return false
		}
	case ModeMain:
		if (d.main != nil && d.main.HandleKey(ev)) || d.log.HandleScroll(ev) {
			d.forceRefresh()
			return false
		}
	}

	action := ActionNone
	switch ev.Key() {
	case tcell.KeyRune:
		action = r.keys.Lookup(ev.Rune())
	case tcell.KeyCtrlC:
		action = ActionQuit
	}

	switch action {
	case ActionQuit:
		d.Shutdown()
		return true
	case ActionPause:
		d.TogglePause()
	case ActionReset:
		d.Reset()
	case ActionOpenFilter:
		if d.filter != nil && d.machine.OpenFilter() {
			d.filter.Open()
		}
	default:
		if mode, ok := toggleModes[action]; ok && d.machine.Toggle(mode) {
			d.metrics.ModeSwitch()
		}
	}
	d.forceRefresh()
	return false
}
