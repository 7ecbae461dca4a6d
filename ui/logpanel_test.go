package ui

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestLogPanelMaintainsBoundedHistory(t *testing.T) {
	p := NewLogPanel("Packets", 3)
	for _, line := range []string{"one", "two", "three", "four"} {
		p.Append(line)
	}
	got := p.SnapshotText()
	if strings.Contains(got, "one") {
		t.Fatalf("expected oldest line to be evicted, got %q", got)
	}
	for _, line := range []string{"two", "three", "four", "... +1 more"} {
		if !strings.Contains(got, line) {
			t.Fatalf("expected %q in snapshot, got %q", line, got)
		}
	}
	if p.Len() != 3 || p.total != 4 {
		t.Fatalf("expected len=3 total=4, got %d/%d", p.Len(), p.total)
	}
}

func TestLogPanelScrollAndFollow(t *testing.T) {
	p := NewLogPanel("Packets", 8)
	p.SetRect(0, 0, 40, 5)
	for i := 0; i < 8; i++ {
		p.Append("line")
	}

	if !p.HandleScroll(tcell.NewEventKey(tcell.KeyHome, 0, tcell.ModNone)) {
		t.Fatalf("expected home key to be handled")
	}
	if p.offset != 0 || p.follow {
		t.Fatalf("expected top of log without follow, offset=%d follow=%t", p.offset, p.follow)
	}
	if !p.HandleScroll(tcell.NewEventKey(tcell.KeyEnd, 0, tcell.ModNone)) {
		t.Fatalf("expected end key to be handled")
	}
	if p.offset == 0 || !p.follow {
		t.Fatalf("expected end to re-enable follow, offset=%d", p.offset)
	}
	end := p.offset
	p.HandleScroll(tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone))
	if p.offset != end-1 || p.follow {
		t.Fatalf("expected up to scroll back one row, offset=%d", p.offset)
	}
	if p.HandleScroll(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)) {
		t.Fatalf("runes are not scroll keys")
	}
}

func TestLogPanelDrawsNewestRows(t *testing.T) {
	s := simScreen(t, 30, 6)
	p := NewLogPanel("Packets", 10)
	p.SetRect(0, 0, 30, 4) // two inner rows
	for _, line := range []string{"a1", "b2", "c3"} {
		p.Append(line)
	}
	p.Draw(s)
	if row := rowText(s, 1); !strings.Contains(row, "b2") {
		t.Fatalf("expected b2 on first inner row, got %q", row)
	}
	if row := rowText(s, 2); !strings.Contains(row, "c3") {
		t.Fatalf("expected c3 on second inner row, got %q", row)
	}
}

func TestLogPanelDrawsWideRunesInTwoCells(t *testing.T) {
	s := simScreen(t, 30, 4)
	p := NewLogPanel("Packets", 4)
	p.SetRect(0, 0, 30, 3) // one inner row starting at x=1
	p.Append("a日本b")
	p.Draw(s)

	want := map[int]rune{2: 'a', 3: '日', 5: '本', 7: 'b'}
	for x, r := range want {
		if got, _, _, _ := s.GetContent(x, 1); got != r {
			t.Fatalf("expected %q at column %d, got %q", r, x, got)
		}
	}
}

func TestLogPanelClipsWideRuneAtEdge(t *testing.T) {
	s := simScreen(t, 10, 4)
	p := NewLogPanel("Packets", 4)
	p.SetRect(0, 0, 6, 3) // inner columns 1..4
	p.Append("a日本b")
	p.Draw(s)

	if got, _, _, _ := s.GetContent(3, 1); got != '日' {
		t.Fatalf("expected first wide rune at column 3, got %q", got)
	}
	if row := rowText(s, 1); strings.ContainsAny(row, "本b") {
		t.Fatalf("expected clipping at the border, got %q", row)
	}
}
