// internal/dispatch/command.go
package dispatch

// Command identifies an engine operation a shortcut can invoke.
type Command int

const (
	CommandUnknown Command = iota
	CommandDeleteLine
	CommandDuplicateLine
	CommandMoveLineUp
	CommandMoveLineDown
	CommandToggleHighlight
	CommandFormatSpacing
)

func (c Command) String() string {
	switch c {
	case CommandDeleteLine:
		return "delete-line"
	case CommandDuplicateLine:
		return "duplicate-line"
	case CommandMoveLineUp:
		return "move-line-up"
	case CommandMoveLineDown:
		return "move-line-down"
	case CommandToggleHighlight:
		return "toggle-highlight"
	case CommandFormatSpacing:
		return "format-spacing"
	default:
		return "unknown"
	}
}
