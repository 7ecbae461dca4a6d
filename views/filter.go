package views

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"wlanmon/filter"
	"wlanmon/packet"
	"wlanmon/ui"
)

// FilterEditor is the modal window that edits the live packet filter.
type FilterEditor struct {
	*tview.TextView
	filter   *filter.Filter
	onChange func(*filter.Filter)
}

// NewFilterEditor edits f in place. onChange, if set, runs after every
// modification.
func NewFilterEditor(f *filter.Filter, onChange func(*filter.Filter)) *FilterEditor {
	e := &FilterEditor{
		TextView: ui.NewBoxedTextView("Filter"),
		filter:   f,
		onChange: onChange,
	}
	e.render()
	return e
}

func (e *FilterEditor) Open() {
	e.render()
}

// HandleKey toggles filter settings and reports done on Enter or Esc. Keys
// the editor does not know are swallowed so they cannot leak to the
// global table while the editor is open.
func (e *FilterEditor) HandleKey(event *tcell.EventKey) bool {
	switch event.Key() {
	case tcell.KeyEnter, tcell.KeyEscape:
		return true
	case tcell.KeyRune:
	default:
		return false
	}
	r := event.Rune()
	switch r {
	case 'm':
		e.filter.MACFilter = !e.filter.MACFilter
	case 'o':
		e.filter.Off = !e.filter.Off
	case '!':
		e.filter.Mask = packet.MaskAll
	default:
		t, ok := typeForChar(r)
		if !ok {
			return false
		}
		e.filter.ToggleType(t)
	}
	e.render()
	if e.onChange != nil {
		e.onChange(e.filter)
	}
	return false
}

func typeForChar(r rune) (packet.Type, bool) {
	for _, t := range packet.Types() {
		if rune(t.Char()) == r {
			return t, true
		}
	}
	return 0, false
}

func (e *FilterEditor) render() {
	var b strings.Builder
	types := packet.Types()
	half := (len(types) + 1) / 2
	for i := 0; i < half; i++ {
		b.WriteString(typeEntry(types[i], e.filter.Mask))
		if j := i + half; j < len(types) {
			b.WriteString(typeEntry(types[j], e.filter.Mask))
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	fmt.Fprintf(&b, " [%s[] %s MAC filter (%d)\n", check(e.filter.MACFilter), ui.AccentText("m"), len(e.filter.MACs))
	fmt.Fprintf(&b, " [%s[] %s Filter off\n", check(e.filter.Off), ui.AccentText("o"))
	fmt.Fprintf(&b, "     %s Accept all types\n", ui.AccentText("!"))
	e.SetText(b.String())
}

func typeEntry(t, mask packet.Type) string {
	return fmt.Sprintf(" [%s[] %s %-10s", check(mask&t != 0), ui.AccentText(string(t.Char())), t.Name())
}

func check(on bool) string {
	if on {
		return "x"
	}
	return " "
}
