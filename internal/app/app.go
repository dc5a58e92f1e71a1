// internal/app/app.go
package app

import (
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"

	"github.com/inklet/inklet/internal/change"
	"github.com/inklet/inklet/internal/config"
	"github.com/inklet/inklet/internal/dispatch"
	"github.com/inklet/inklet/internal/editor"
	"github.com/inklet/inklet/internal/event"
	"github.com/inklet/inklet/internal/format"
	"github.com/inklet/inklet/internal/logger"
	"github.com/inklet/inklet/internal/statusbar"
	"github.com/inklet/inklet/internal/tui"
	"github.com/inklet/inklet/internal/types"
)

// The document is the engine's surface; keep the boundary honest.
var _ dispatch.Surface = (*editor.Document)(nil)

// App encapsulates the core components and main loop of the editor.
type App struct {
	tuiManager   *tui.TUI
	doc          *editor.Document
	dispatcher   *dispatch.Dispatcher
	controller   *change.Controller
	statusBar    *statusbar.StatusBar
	eventManager *event.Manager
	cfg          *config.Config
	filePath     string

	// topLine is the 0-based first visible line of the viewport.
	topLine int

	// Channels managed by the App
	quit          chan struct{}
	redrawRequest chan struct{}
}

// NewApp creates and initializes a new application instance.
func NewApp(filePath string, cfg *config.Config) (*App, error) {
	tuiManager, err := tui.New()
	if err != nil {
		return nil, fmt.Errorf("TUI initialization failed: %w", err)
	}

	doc, err := editor.Load(filePath)
	if err != nil {
		tuiManager.Close()
		return nil, err
	}

	eventManager := event.NewManager()
	statusBar := statusbar.New(statusbar.DefaultConfig())

	a := &App{
		tuiManager:    tuiManager,
		doc:           doc,
		dispatcher:    dispatch.New(doc, eventManager),
		statusBar:     statusBar,
		eventManager:  eventManager,
		cfg:           cfg,
		filePath:      filePath,
		quit:          make(chan struct{}),
		redrawRequest: make(chan struct{}, 1),
	}

	// The autosave callback runs on a timer goroutine, so it writes the
	// snapshot it was handed and never touches the document.
	a.controller = change.New(change.Options{
		InitialContent:  doc.Content(),
		Debounce:        cfg.Editor.Debounce(),
		AutosaveEnabled: cfg.Editor.AutosaveEnabled,
		AutosaveDelay:   cfg.Editor.AutosaveDelayDuration(),
		Target:          change.TargetLocal,
		OnAutoSave:      a.autosaveSnapshot,
		ResetContent:    a.resetDocument,
		OnSaveState:     a.handleSaveState,
		Events:          eventManager,
	})

	statusBar.SetFileInfo(filePath)
	return a, nil
}

// Run starts the application's main event and drawing loops.
func (a *App) Run() error {
	defer a.tuiManager.Close()
	defer a.controller.Close()

	go a.eventLoop()

	a.statusBar.SetTemporaryMessage("Inklet - Ctrl+S Save | Ctrl+Q Quit")
	a.requestRedraw()

	for {
		select {
		case <-a.quit:
			if a.doc.IsModified() {
				logger.Warnf("app: exited with unsaved changes")
			}
			logger.Infof("app: exiting")
			return nil
		case <-a.redrawRequest:
			a.draw()
		}
	}
}

// eventLoop handles TUI events, delegating key events to the handler.
func (a *App) eventLoop() {
	for {
		ev := a.tuiManager.PollEvent()
		if ev == nil {
			return
		}

		needsRedraw := false

		switch eventData := ev.(type) {
		case *tcell.EventResize:
			a.tuiManager.Sync()
			needsRedraw = true
		case *tcell.EventKey:
			needsRedraw = a.handleKeyEvent(eventData)
		}

		if needsRedraw {
			a.requestRedraw()
		}
	}
}

// handleKeyEvent routes one key event: engine chords first, then the
// host's own editing keys. Returns whether a redraw is needed.
func (a *App) handleKeyEvent(ev *tcell.EventKey) bool {
	if ch, ok := chordFromEvent(ev); ok {
		handled, err := a.dispatcher.HandleChord(ch)
		if err != nil {
			logger.Errorf("app: command failed: %v", err)
			a.statusBar.SetTemporaryMessage("Error: %v", err)
			return true
		}
		if handled {
			a.controller.HandleContent(a.doc.Content())
			return true
		}
	}

	shift := ev.Modifiers()&tcell.ModShift != 0

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlQ:
		close(a.quit)
		return false
	case tcell.KeyCtrlS:
		a.saveDocument()
		return true
	case tcell.KeyCtrlC:
		a.copySelection()
		return true
	case tcell.KeyUp:
		a.doc.MoveCursor(-1, 0, shift)
		return true
	case tcell.KeyDown:
		a.doc.MoveCursor(1, 0, shift)
		return true
	case tcell.KeyLeft:
		a.doc.MoveCursor(0, -1, shift)
		return true
	case tcell.KeyRight:
		a.doc.MoveCursor(0, 1, shift)
		return true
	case tcell.KeyHome:
		a.doc.MoveLineStart()
		return true
	case tcell.KeyEnd:
		a.doc.MoveLineEnd()
		return true
	case tcell.KeyEnter:
		return a.insert("\n")
	case tcell.KeyTab:
		return a.insert("\t")
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if err := a.doc.DeleteBackward(); err != nil {
			logger.Warnf("app: backspace failed: %v", err)
			return false
		}
		a.controller.HandleContent(a.doc.Content())
		return true
	case tcell.KeyRune:
		return a.insert(string(ev.Rune()))
	}
	return false
}

func (a *App) insert(text string) bool {
	if err := a.doc.InsertText(text); err != nil {
		logger.Warnf("app: insert failed: %v", err)
		return false
	}
	a.controller.HandleContent(a.doc.Content())
	return true
}

// chordFromEvent translates a tcell key event into an engine chord.
// Only Ctrl/Alt combinations qualify; plain typing stays with the host.
func chordFromEvent(ev *tcell.EventKey) (dispatch.Chord, bool) {
	mods := ev.Modifiers()
	ch := dispatch.Chord{
		Ctrl:  mods&tcell.ModCtrl != 0,
		Alt:   mods&tcell.ModAlt != 0,
		Shift: mods&tcell.ModShift != 0,
	}

	key := ev.Key()
	switch {
	case key == tcell.KeyUp:
		ch.Key = "up"
	case key == tcell.KeyDown:
		ch.Key = "down"
	case key == tcell.KeyRune:
		r := ev.Rune()
		if r >= 'A' && r <= 'Z' {
			ch.Shift = true
			r += 'a' - 'A'
		}
		ch.Key = string(r)
	case key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ:
		// Ctrl-letter arrives as a dedicated key code, not a rune.
		ch.Ctrl = true
		ch.Key = string(rune('a' + key - tcell.KeyCtrlA))
	default:
		return dispatch.Chord{}, false
	}

	if !ch.Ctrl && !ch.Alt {
		return dispatch.Chord{}, false
	}
	return ch, true
}

// saveDocument is the manual Ctrl+S path: optional formatting pass,
// write to disk, settle the controller.
func (a *App) saveDocument() {
	if a.cfg.Editor.FormatOnSave {
		formatted := format.Spacing(a.doc.Content())
		if formatted != a.doc.Content() {
			a.resetDocument(formatted)
		}
	}
	if err := a.doc.Save(""); err != nil {
		logger.Errorf("app: save failed: %v", err)
		a.statusBar.SetTemporaryMessage("Save failed: %v", err)
		return
	}
	a.controller.MarkSaved(a.doc.Content())
	a.statusBar.SetTemporaryMessage("Saved %s", a.doc.FilePath())
}

// copySelection puts the selected text on the system clipboard.
func (a *App) copySelection() {
	if !a.cfg.Editor.SystemClipboard {
		return
	}
	text := a.doc.SelectedText()
	if text == "" {
		return
	}
	if err := clipboard.WriteAll(text); err != nil {
		logger.Warnf("app: clipboard write failed: %v", err)
		return
	}
	a.statusBar.SetTemporaryMessage("Copied %d characters", len([]rune(text)))
}

// autosaveSnapshot persists a content snapshot. It runs off the main
// goroutine, so it must not read the live document.
func (a *App) autosaveSnapshot(content string) error {
	if a.filePath == "" {
		logger.Debugf("app: autosave skipped, no file path")
		return nil
	}
	if err := os.WriteFile(a.filePath, []byte(content), 0644); err != nil {
		return fmt.Errorf("autosave '%s': %w", a.filePath, err)
	}
	logger.Debugf("app: autosaved %d bytes to %s", len(content), a.filePath)
	return nil
}

// resetDocument rewrites the whole document, preserving the cursor as
// well as the new content allows.
func (a *App) resetDocument(content string) {
	cursor := a.doc.Cursor()
	last := a.doc.LineCount()
	whole := types.Range(
		types.Position{Line: 1, Col: 0},
		types.Position{Line: last, Col: len([]rune(a.doc.LineText(last - 1)))},
	)
	if err := a.doc.ReplaceRange(whole, content); err != nil {
		logger.Errorf("app: content reset failed: %v", err)
		return
	}
	if cursor.Line > a.doc.LineCount() {
		cursor.Line = a.doc.LineCount()
	}
	if err := a.doc.SetSelection(types.Caret(cursor)); err != nil {
		logger.Warnf("app: cursor restore failed: %v", err)
	}
}

// draw pushes current state to the status bar and renders one frame.
func (a *App) draw() {
	a.statusBar.SetCursorInfo(a.doc.Cursor())
	a.statusBar.SetSaveState(a.controller.SaveState())
	a.statusBar.SetFileInfo(a.doc.FilePath())

	_, height := a.tuiManager.Size()
	a.scrollToCursor(height - config.StatusBarHeight)

	a.tuiManager.RenderFrame(a.doc, a.topLine, a.statusBar)
}

// scrollToCursor keeps the cursor line inside the viewport.
func (a *App) scrollToCursor(viewHeight int) {
	if viewHeight <= 0 {
		return
	}
	cursorLine := a.doc.Cursor().Line - 1
	if cursorLine < a.topLine {
		a.topLine = cursorLine
	} else if cursorLine >= a.topLine+viewHeight {
		a.topLine = cursorLine - viewHeight + 1
	}
}

// handleSaveState runs on controller goroutines; the status bar is
// mutex-guarded and the redraw request is non-blocking.
func (a *App) handleSaveState(state change.SaveState) {
	a.statusBar.SetSaveState(state)
	a.requestRedraw()
}

// requestRedraw sends a redraw signal non-blockingly.
func (a *App) requestRedraw() {
	select {
	case a.redrawRequest <- struct{}{}:
	default: // Don't block if a redraw is already pending
	}
}
