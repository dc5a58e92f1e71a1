// internal/event/event.go
package event

import "github.com/inklet/inklet/internal/types"

// Type identifies the kind of event.
type Type int

const (
	TypeUnknown Type = iota

	// TypeContentChanged fires after the debounce window closes with
	// the final coalesced content.
	TypeContentChanged

	// TypeSaveStateChanged fires on every autosave state transition.
	TypeSaveStateChanged

	// TypeCommandApplied fires when a dispatched command changed the
	// document. Boundary no-ops do not fire it.
	TypeCommandApplied

	// TypeFormatApplied fires when an explicit format-spacing run
	// rewrote the document.
	TypeFormatApplied
)

// Event is the structure passed through the event bus.
type Event struct {
	Type Type
	Data interface{}
}

// ContentChangedData carries the coalesced document content.
type ContentChangedData struct {
	Content string
}

// SaveStateChangedData carries the new save state as a string (the
// change package owns the typed state; the bus stays dependency-free).
type SaveStateChangedData struct {
	State string
}

// CommandAppliedData describes an applied engine command.
type CommandAppliedData struct {
	Command   string
	Selection types.Selection
}

// FormatAppliedData reports how a format run changed the document size.
type FormatAppliedData struct {
	BytesBefore int
	BytesAfter  int
}
