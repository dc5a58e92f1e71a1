// internal/types/selection.go
package types

// SelectionMode distinguishes the two addressing schemes host surfaces use.
type SelectionMode int

const (
	// ModeLineColumn addresses the selection with (line, col) Positions.
	ModeLineColumn SelectionMode = iota
	// ModeOffset addresses the selection with absolute rune offsets,
	// as contiguous-offset (WYSIWYG-style) surfaces report it.
	ModeOffset
)

func (m SelectionMode) String() string {
	switch m {
	case ModeLineColumn:
		return "line-column"
	case ModeOffset:
		return "offset"
	default:
		return "unknown"
	}
}

// Selection is a (start, end) pair in a single addressing mode.
// Hosts do not guarantee start <= end; callers must use Normalized()
// before interpreting the range.
type Selection struct {
	Mode SelectionMode

	// Valid when Mode == ModeLineColumn.
	Start Position
	End   Position

	// Valid when Mode == ModeOffset.
	StartOff int
	EndOff   int
}

// Caret returns a zero-width line/column selection at pos.
func Caret(pos Position) Selection {
	return Selection{Mode: ModeLineColumn, Start: pos, End: pos}
}

// Range returns a line/column selection spanning [start, end).
func Range(start, end Position) Selection {
	return Selection{Mode: ModeLineColumn, Start: start, End: end}
}

// OffsetRange returns a flat-offset selection spanning [start, end).
func OffsetRange(start, end int) Selection {
	return Selection{Mode: ModeOffset, StartOff: start, EndOff: end}
}

// Normalized returns the selection with start and end swapped if the
// host reported them in reverse order.
func (s Selection) Normalized() Selection {
	switch s.Mode {
	case ModeLineColumn:
		if s.End.Before(s.Start) {
			s.Start, s.End = s.End, s.Start
		}
	case ModeOffset:
		if s.EndOff < s.StartOff {
			s.StartOff, s.EndOff = s.EndOff, s.StartOff
		}
	}
	return s
}

// IsEmpty reports whether the selection spans zero characters.
func (s Selection) IsEmpty() bool {
	switch s.Mode {
	case ModeLineColumn:
		return s.Start == s.End
	case ModeOffset:
		return s.StartOff == s.EndOff
	default:
		return true
	}
}

// IsMultiLine reports whether a line/column selection spans more than one line.
func (s Selection) IsMultiLine() bool {
	return s.Mode == ModeLineColumn && s.Start.Line != s.End.Line
}
