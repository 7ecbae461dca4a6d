package ui

// WindowMode selects what occupies the area above the status line: the main
// view or exactly one full-screen overlay.
type WindowMode int

const (
	ModeMain WindowMode = iota
	ModeESSID
	ModeHistory
	ModeStats
	ModeSpectrum
	ModeHelp
)

func (m WindowMode) String() string {
	switch m {
	case ModeMain:
		return "main"
	case ModeESSID:
		return "essid"
	case ModeHistory:
		return "history"
	case ModeStats:
		return "stats"
	case ModeSpectrum:
		return "spectrum"
	case ModeHelp:
		return "help"
	default:
		return "unknown"
	}
}

// IsOverlay reports whether m is one of the full-screen overlays.
func (m WindowMode) IsOverlay() bool {
	return m > ModeMain && m <= ModeHelp
}

// ModeMachine tracks the active window mode and the modal filter editor.
// The two are independent: the filter can sit on top of any mode, but while
// it is open the mode cannot change.
type ModeMachine struct {
	mode       WindowMode
	filterOpen bool
}

func (m *ModeMachine) Mode() WindowMode {
	return m.mode
}

func (m *ModeMachine) FilterOpen() bool {
	return m.filterOpen
}

// Toggle switches to target, or back to ModeMain if target is already
// active. It refuses, returning false, while the filter editor is open.
func (m *ModeMachine) Toggle(target WindowMode) bool {
	if m.filterOpen || !target.IsOverlay() {
		return false
	}
	if m.mode == target {
		m.mode = ModeMain
	} else {
		m.mode = target
	}
	return true
}

// OpenFilter opens the modal editor. Returns true only on the transition.
func (m *ModeMachine) OpenFilter() bool {
	if m.filterOpen {
		return false
	}
	m.filterOpen = true
	return true
}

// CloseFilter is called once the editor reports it is done.
func (m *ModeMachine) CloseFilter() {
	m.filterOpen = false
}
