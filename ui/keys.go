package ui

import "unicode"

// Action is a global key binding outcome.
type Action int

const (
	ActionNone Action = iota
	ActionPause
	ActionQuit
	ActionReset
	ActionToggleESSID
	ActionToggleHistory
	ActionToggleStats
	ActionToggleSpectrum
	ActionToggleHelp
	ActionOpenFilter
)

// KeyTable maps lowercased runes to global actions.
type KeyTable map[rune]Action

// DefaultKeyTable is the dashboard's global key map. Letters match in either
// case.
func DefaultKeyTable() KeyTable {
	return KeyTable{
		' ': ActionPause,
		'p': ActionPause,
		'q': ActionQuit,
		'r': ActionReset,
		'e': ActionToggleESSID,
		'h': ActionToggleHistory,
		'a': ActionToggleStats,
		's': ActionToggleSpectrum,
		'?': ActionToggleHelp,
		'f': ActionOpenFilter,
	}
}

// Lookup returns the action bound to r, or ActionNone.
func (k KeyTable) Lookup(r rune) Action {
	return k[unicode.ToLower(r)]
}

var toggleModes = map[Action]WindowMode{
	ActionToggleESSID:    ModeESSID,
	ActionToggleHistory:  ModeHistory,
	ActionToggleStats:    ModeStats,
	ActionToggleSpectrum: ModeSpectrum,
	ActionToggleHelp:     ModeHelp,
}
