package ui

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func simScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

func rowText(s tcell.SimulationScreen, y int) string {
	s.Show()
	cells, w, _ := s.GetContents()
	out := make([]rune, 0, w)
	for x := 0; x < w; x++ {
		if r := cells[y*w+x].Runes; len(r) > 0 {
			out = append(out, r[0])
		} else {
			out = append(out, ' ')
		}
	}
	return string(out)
}

func TestPrintCentered(t *testing.T) {
	s := simScreen(t, 20, 2)
	PrintCentered(s, 0, 0, 20, tcell.StyleDefault, "%s", "abcd")
	if got := rowText(s, 0)[8:12]; got != "abcd" {
		t.Fatalf("expected centered text at column 8, got row %q", rowText(s, 0))
	}
}

func TestPrintCenteredSkipsWhenNothingFits(t *testing.T) {
	s := simScreen(t, 10, 2)
	PrintCentered(s, 0, 1, 0, tcell.StyleDefault, "text")
	PrintCentered(s, 0, 1, 10, tcell.StyleDefault, "")
	if got := rowText(s, 1); got != "          " {
		t.Fatalf("expected untouched row, got %q", got)
	}
}

func TestPrintCenteredTruncates(t *testing.T) {
	s := simScreen(t, 10, 1)
	PrintCentered(s, 0, 0, 6, tcell.StyleDefault, "%s", "abcdefghij")
	if got := rowText(s, 0)[:6]; got != " abcde" {
		t.Fatalf("expected text cut to width-1, got %q", got)
	}
}

func TestComputeLayout(t *testing.T) {
	l := ComputeLayout(80, 25)
	if l.Overlay != (Rect{0, 0, 80, 24}) {
		t.Fatalf("unexpected overlay rect %+v", l.Overlay)
	}
	if l.Main.Height+l.Log.Height != 24 || l.Log.Y != l.Main.Height {
		t.Fatalf("main and log must tile the body: %+v %+v", l.Main, l.Log)
	}
	if l.Filter.Width != 57 || l.Filter.X+l.Filter.Width > 80 || l.Filter.Y+l.Filter.Height > 24 {
		t.Fatalf("filter window must be clamped on screen: %+v", l.Filter)
	}

	big := ComputeLayout(200, 60)
	if big.Filter != (Rect{85, 15, 57, 25}) {
		t.Fatalf("expected filter at (COLS/2-15, LINES/2-15), got %+v", big.Filter)
	}

	tiny := ComputeLayout(10, 3)
	if tiny.Log.Height > 2 || tiny.Main.Height < 0 {
		t.Fatalf("unexpected tiny layout %+v", tiny)
	}
}
