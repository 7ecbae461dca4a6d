package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/tview"
)

const (
	accentTag   = "[#ff69b4]"
	accentReset = "[-]"
)

var (
	uiBorderColor = tcell.ColorGray
	uiTitleColor  = tcell.ColorHotPink
)

// AccentText wraps text in the dashboard accent color tag.
func AccentText(text string) string {
	if text == "" {
		return ""
	}
	return accentTag + text + accentReset
}

// NewBoxedTextView returns the bordered, titled text view used by overlays.
func NewBoxedTextView(title string) *tview.TextView {
	tv := tview.NewTextView().SetDynamicColors(true).SetWrap(false)
	tv.SetBorder(true)
	if title != "" {
		tv.SetTitle(AccentText(title)).SetTitleAlign(tview.AlignLeft)
	}
	tv.SetBorderColor(uiBorderColor)
	tv.SetTitleColor(uiTitleColor)
	return tv
}

// StyleBox applies the dashboard border and title colors to any box.
func StyleBox(box *tview.Box, title string) {
	if box == nil {
		return
	}
	box.SetBorder(true)
	if title != "" {
		box.SetTitle(AccentText(title)).SetTitleAlign(tview.AlignLeft)
	}
	box.SetBorderColor(uiBorderColor)
	box.SetTitleColor(uiTitleColor)
}

// ScrollTextView applies arrow/page/home/end scrolling to a text view.
// Returns false for keys it does not handle.
func ScrollTextView(target *tview.TextView, event *tcell.EventKey) bool {
	if target == nil || event == nil {
		return false
	}
	row, col := target.GetScrollOffset()
	page := 10
	_, _, _, height := target.GetInnerRect()
	if height > 0 {
		page = height - 1
		if page < 1 {
			page = 1
		}
	}
	switch event.Key() {
	case tcell.KeyUp:
		if row > 0 {
			row--
		}
	case tcell.KeyDown:
		row++
	case tcell.KeyPgUp:
		row -= page
		if row < 0 {
			row = 0
		}
	case tcell.KeyPgDn:
		row += page
	case tcell.KeyHome:
		row = 0
	case tcell.KeyEnd:
		row = 1 << 30
	default:
		return false
	}
	target.ScrollTo(row, col)
	return true
}

// PrintAt writes text starting at (x, y) and returns the column after the
// last cell written. Wide runes take two cells.
func PrintAt(screen tcell.Screen, x, y int, text string, style tcell.Style) int {
	return printCells(screen, x, y, -1, text, style)
}

// PrintClipped is PrintAt limited to width cells. A wide rune that would
// cross the limit is not drawn.
func PrintClipped(screen tcell.Screen, x, y, width int, text string, style tcell.Style) int {
	if width <= 0 {
		return x
	}
	return printCells(screen, x, y, width, text, style)
}

func printCells(screen tcell.Screen, x, y, width int, text string, style tcell.Style) int {
	if screen == nil {
		return x
	}
	end := x + width
	for _, r := range text {
		w := max(runewidth.RuneWidth(r), 1)
		if width >= 0 && x+w > end {
			break
		}
		screen.SetContent(x, y, r, nil, style)
		x += w
	}
	return x
}

// PrintCentered formats a line and centers it within [x, x+width) on row y.
// Output is cut to width-1 cells; nothing is drawn when width <= 0 or the
// formatted text is empty.
func PrintCentered(screen tcell.Screen, x, y, width int, style tcell.Style, format string, args ...any) {
	if screen == nil || width <= 0 {
		return
	}
	text := runewidth.Truncate(fmt.Sprintf(format, args...), width-1, "")
	if text == "" {
		return
	}
	PrintAt(screen, x+width/2-runewidth.StringWidth(text)/2, y, text, style)
}
