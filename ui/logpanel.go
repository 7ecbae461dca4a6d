package ui

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// LogPanel is the scrolling packet log under the main view. It keeps a ring
// of the most recent lines and renders only the rows that fit. Appending
// never draws; the refresh scheduler decides when the panel is painted.
type LogPanel struct {
	*tview.Box

	lines []string
	head  int
	count int
	max   int
	total uint64

	offset int
	follow bool

	renderRows []string

	cachedOverflowCount int
	cachedOverflowText  string
}

func NewLogPanel(title string, max int) *LogPanel {
	if max <= 0 {
		max = 1
	}
	p := &LogPanel{
		Box:                 tview.NewBox(),
		lines:               make([]string, max),
		max:                 max,
		follow:              true,
		cachedOverflowCount: -1,
	}
	StyleBox(p.Box, title)
	return p
}

func (p *LogPanel) Append(line string) {
	if p == nil {
		return
	}
	if p.count < p.max {
		pos := (p.head + p.count) % p.max
		p.lines[pos] = line
		p.count++
	} else {
		p.lines[p.head] = line
		p.head = (p.head + 1) % p.max
	}
	p.total++
}

// Len returns the number of retained lines.
func (p *LogPanel) Len() int {
	if p == nil {
		return 0
	}
	return p.count
}

// Lines returns the retained lines, oldest first.
func (p *LogPanel) Lines() []string {
	if p == nil {
		return nil
	}
	rows := make([]string, 0, p.count)
	for i := 0; i < p.count; i++ {
		rows = append(rows, p.lines[(p.head+i)%p.max])
	}
	return rows
}

func (p *LogPanel) Draw(screen tcell.Screen) {
	if p == nil {
		return
	}
	p.Box.DrawForSubclass(screen, p)

	x, y, width, height := p.GetInnerRect()
	if width <= 0 || height <= 0 {
		return
	}
	for i, row := range p.visibleRows(height) {
		drawPlainLine(screen, x, y+i, width, row, p.GetBackgroundColor())
	}
}

// HandleScroll moves the view through the retained lines. Scrolling to the
// bottom re-enables follow mode.
func (p *LogPanel) HandleScroll(event *tcell.EventKey) bool {
	if p == nil || event == nil {
		return false
	}
	_, _, _, height := p.GetInnerRect()
	if height < 1 {
		height = 1
	}
	page := max(height-1, 1)

	totalRows := p.count
	if int(p.total) > p.count {
		totalRows++
	}
	maxOffset := max(totalRows-height, 0)

	next := p.offset
	switch event.Key() {
	case tcell.KeyUp:
		next--
	case tcell.KeyDown:
		next++
	case tcell.KeyPgUp:
		next -= page
	case tcell.KeyPgDn:
		next += page
	case tcell.KeyHome:
		next = 0
	case tcell.KeyEnd:
		next = maxOffset
	default:
		return false
	}
	next = min(max(next, 0), maxOffset)
	p.follow = next == maxOffset
	p.offset = next
	return true
}

// SnapshotText joins the retained lines, plus the overflow marker.
func (p *LogPanel) SnapshotText() string {
	if p == nil {
		return ""
	}
	rows := p.Lines()
	if overflow := int(p.total) - p.count; overflow > 0 {
		rows = append(rows, p.overflowLine(overflow))
	}
	return strings.Join(rows, "\n")
}

func (p *LogPanel) visibleRows(height int) []string {
	totalRows := p.count
	overflow := int(p.total) - p.count
	if overflow > 0 {
		totalRows++
	}
	maxOffset := max(totalRows-height, 0)
	if p.follow {
		p.offset = maxOffset
	}
	p.offset = min(max(p.offset, 0), maxOffset)

	start := p.offset
	end := min(start+height, totalRows)
	needed := max(end-start, 0)

	if cap(p.renderRows) < needed {
		p.renderRows = make([]string, needed)
	} else {
		p.renderRows = p.renderRows[:needed]
	}
	for i := 0; i < needed; i++ {
		row := start + i
		if row < p.count {
			p.renderRows[i] = p.lines[(p.head+row)%p.max]
			continue
		}
		p.renderRows[i] = p.overflowLine(overflow)
	}
	return p.renderRows
}

func (p *LogPanel) overflowLine(overflow int) string {
	if overflow == p.cachedOverflowCount {
		return p.cachedOverflowText
	}
	var buf [32]byte
	b := buf[:0]
	b = append(b, '.', '.', '.', ' ', '+')
	b = strconv.AppendInt(b, int64(overflow), 10)
	b = append(b, ' ', 'm', 'o', 'r', 'e')
	p.cachedOverflowCount = overflow
	p.cachedOverflowText = string(b)
	return p.cachedOverflowText
}

func drawPlainLine(screen tcell.Screen, x, y, width int, text string, bg tcell.Color) {
	if width <= 0 {
		return
	}
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(bg)
	screen.SetContent(x, y, ' ', nil, style)
	if cut := strings.IndexAny(text, "\r\n"); cut >= 0 {
		text = text[:cut]
	}
	PrintClipped(screen, x+1, y, width-1, strings.ReplaceAll(text, "\t", " "), style)
}
