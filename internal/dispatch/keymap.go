// internal/dispatch/keymap.go
package dispatch

// Chord is a widget-neutral modifier+key combination. Key is a
// lowercase letter or a named key ("up", "down"); the host adapter
// translates its own event type into a Chord.
type Chord struct {
	Ctrl  bool
	Alt   bool
	Shift bool
	Key   string
}

// Keymap maps chords to commands.
type Keymap map[Chord]Command

// DefaultKeymap is the fixed shortcut table documented to the user:
//
//	Ctrl+Shift+K  delete line
//	Ctrl+D        duplicate line
//	Alt+Up        move line up
//	Alt+Down      move line down
//	Ctrl+Shift+H  toggle highlight
//	Ctrl+Shift+F  format spacing
func DefaultKeymap() Keymap {
	return Keymap{
		{Ctrl: true, Shift: true, Key: "k"}: CommandDeleteLine,
		{Ctrl: true, Key: "d"}:              CommandDuplicateLine,
		{Alt: true, Key: "up"}:              CommandMoveLineUp,
		{Alt: true, Key: "down"}:            CommandMoveLineDown,
		{Ctrl: true, Shift: true, Key: "h"}: CommandToggleHighlight,
		{Ctrl: true, Shift: true, Key: "f"}: CommandFormatSpacing,
	}
}
