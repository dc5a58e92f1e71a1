// internal/tui/tui.go

// Package tui owns the demo host's tcell screen and renders complete
// frames: the document viewport followed by the status line.
package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/inklet/inklet/internal/config"
	"github.com/inklet/inklet/internal/editor"
	"github.com/inklet/inklet/internal/statusbar"
)

// TUI manages the terminal screen using tcell.
type TUI struct {
	screen tcell.Screen
}

// New creates and initializes a new TUI instance.
func New() (*TUI, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create tcell screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize tcell screen: %w", err)
	}
	s.SetStyle(tcell.StyleDefault)
	return &TUI{screen: s}, nil
}

// Close finalizes the tcell screen.
func (t *TUI) Close() {
	if t.screen != nil {
		t.screen.Fini()
	}
}

// PollEvent retrieves the next event.
func (t *TUI) PollEvent() tcell.Event {
	return t.screen.PollEvent()
}

// Sync forces a full repaint, needed after a terminal resize.
func (t *TUI) Sync() {
	t.screen.Sync()
}

// Size returns the width and height of the terminal screen.
func (t *TUI) Size() (int, int) {
	return t.screen.Size()
}

// RenderFrame clears the screen, draws the document viewport starting
// at topLine (0-based) with the status bar below it, and flushes.
func (t *TUI) RenderFrame(doc *editor.Document, topLine int, bar *statusbar.StatusBar) {
	t.screen.Clear()
	width, height := t.screen.Size()
	t.drawDocument(doc, topLine, width, height-config.StatusBarHeight)
	bar.Draw(t.screen, width, height)
	t.screen.Show()
}
