// internal/statusbar/statusbar.go
package statusbar

import (
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/inklet/inklet/internal/change"
	"github.com/inklet/inklet/internal/types"
)

// Config defines the appearance and behavior of the status bar.
type Config struct {
	StyleDefault   tcell.Style
	StyleUnsaved   tcell.Style
	StyleMessage   tcell.Style
	MessageTimeout time.Duration
}

// DefaultConfig provides sensible defaults.
func DefaultConfig() Config {
	return Config{
		StyleDefault:   tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorBlue),
		StyleUnsaved:   tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.ColorBlue).Bold(true),
		StyleMessage:   tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlue).Bold(true),
		MessageTimeout: 4 * time.Second,
	}
}

// StatusBar renders the status line: file path, cursor position, and
// the save-status indicator fed by the change controller.
type StatusBar struct {
	config Config
	mu     sync.RWMutex

	filePath  string
	cursorPos types.Position
	saveState change.SaveState

	tempMessage     string
	tempMessageTime time.Time
}

// New creates a StatusBar with the given configuration.
func New(config Config) *StatusBar {
	return &StatusBar{config: config}
}

// SetFileInfo updates the file path shown in the status bar.
func (sb *StatusBar) SetFileInfo(path string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.filePath = path
}

// SetCursorInfo updates the cursor position shown.
func (sb *StatusBar) SetCursorInfo(pos types.Position) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.cursorPos = pos
}

// SetSaveState updates the save-status indicator.
func (sb *StatusBar) SetSaveState(state change.SaveState) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.saveState = state
}

// SetTemporaryMessage displays a message for a configured duration.
func (sb *StatusBar) SetTemporaryMessage(format string, args ...interface{}) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = fmt.Sprintf(format, args...)
	sb.tempMessageTime = time.Now()
}

func (sb *StatusBar) saveIndicator() string {
	switch sb.saveState {
	case change.StateSaving:
		return " [saving...]"
	case change.StateUnsaved:
		return " [+]"
	default:
		return ""
	}
}

// displayText builds the status line text. Caller holds the lock.
func (sb *StatusBar) displayText() (string, tcell.Style) {
	if sb.tempMessage != "" && time.Since(sb.tempMessageTime) < sb.config.MessageTimeout {
		return sb.tempMessage, sb.config.StyleMessage
	}

	fPath := sb.filePath
	if fPath == "" {
		fPath = "[No Name]"
	}
	style := sb.config.StyleDefault
	if sb.saveState == change.StateUnsaved {
		style = sb.config.StyleUnsaved
	}
	text := fmt.Sprintf("%s%s -- Line: %d, Col: %d",
		fPath, sb.saveIndicator(), sb.cursorPos.Line, sb.cursorPos.Col+1)
	return text, style
}

// Draw renders the status bar onto the bottom row, walking grapheme
// clusters so CJK file names occupy their true visual width.
func (sb *StatusBar) Draw(screen tcell.Screen, width, height int) {
	sb.mu.RLock()
	text, style := sb.displayText()
	sb.mu.RUnlock()

	y := height - 1
	for x := 0; x < width; x++ {
		screen.SetContent(x, y, ' ', nil, style)
	}

	x := 0
	gr := uniseg.NewGraphemes(text)
	for gr.Next() && x < width {
		runes := gr.Runes()
		cellWidth := gr.Width()
		screen.SetContent(x, y, runes[0], runes[1:], style)
		x += cellWidth
	}
}
