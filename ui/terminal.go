package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Panel is anything that can paint itself onto a screen. Every tview
// primitive satisfies it.
type Panel interface {
	Draw(screen tcell.Screen)
}

// PanelFunc adapts a plain function to Panel.
type PanelFunc func(screen tcell.Screen)

func (f PanelFunc) Draw(screen tcell.Screen) { f(screen) }

// Placeable is a Panel with a geometry assigned by the layout.
type Placeable interface {
	Panel
	SetRect(x, y, width, height int)
}

// Terminal is the drawing surface the display core renders into. Draws are
// staged; nothing becomes visible until Flush.
type Terminal interface {
	Size() (width, height int)
	DrawPanel(p Panel)
	Flush()
	Teardown()
	Rebuild() error
	Events() <-chan tcell.Event
}

const terminalEventBuffer = 64

// TcellTerminal is the Terminal backed by a tcell screen. Rebuild creates a
// fresh screen, so a resize can tear the old one down completely.
type TcellTerminal struct {
	newScreen func() (tcell.Screen, error)
	screen    tcell.Screen
	events    chan tcell.Event
	quit      chan struct{}
}

// NewTcellTerminal returns an unopened terminal. newScreen defaults to
// tcell.NewScreen; tests pass a simulation screen factory.
func NewTcellTerminal(newScreen func() (tcell.Screen, error)) *TcellTerminal {
	if newScreen == nil {
		newScreen = tcell.NewScreen
	}
	return &TcellTerminal{
		newScreen: newScreen,
		events:    make(chan tcell.Event, terminalEventBuffer),
	}
}

// Rebuild opens a new screen and starts pumping its events. Any previous
// screen must have been torn down first.
func (t *TcellTerminal) Rebuild() error {
	if t.screen != nil {
		t.Teardown()
	}
	screen, err := t.newScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	screen.HideCursor()
	screen.Clear()
	t.screen = screen
	t.quit = make(chan struct{})
	w, h := screen.Size()
	go t.pump(screen, t.quit, w, h)
	return nil
}

func (t *TcellTerminal) pump(screen tcell.Screen, quit <-chan struct{}, initW, initH int) {
	first := true
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		if first {
			first = false
			// Init announces the starting size; only later resizes are real.
			if rz, ok := ev.(*tcell.EventResize); ok {
				if w, h := rz.Size(); w == initW && h == initH {
					continue
				}
			}
		}
		select {
		case t.events <- ev:
		case <-quit:
			return
		}
	}
}

// Teardown restores the terminal. Safe to call repeatedly.
func (t *TcellTerminal) Teardown() {
	if t == nil || t.screen == nil {
		return
	}
	close(t.quit)
	t.screen.Fini()
	t.screen = nil
}

func (t *TcellTerminal) Size() (int, int) {
	if t == nil || t.screen == nil {
		return 0, 0
	}
	return t.screen.Size()
}

func (t *TcellTerminal) DrawPanel(p Panel) {
	if t == nil || t.screen == nil || p == nil {
		return
	}
	p.Draw(t.screen)
}

func (t *TcellTerminal) Flush() {
	if t == nil || t.screen == nil {
		return
	}
	t.screen.Show()
}

// Events delivers key and resize events from whichever screen is current.
// The channel stays open across rebuilds.
func (t *TcellTerminal) Events() <-chan tcell.Event {
	return t.events
}
