// internal/linecmd/engine.go

// Package linecmd implements the stateless line-oriented commands:
// delete-line, duplicate-line, move-line-up and move-line-down. Each
// command consumes an immutable LineBuffer plus a cursor position and
// produces an EditResult; the host applies the replacement.
package linecmd

import (
	"fmt"
	"strings"

	"github.com/inklet/inklet/internal/buffer"
	"github.com/inklet/inklet/internal/types"
)

// validateCursor checks the cursor line and returns the 0-based index.
func validateCursor(buf buffer.LineBuffer, cursor types.Position) (int, error) {
	if cursor.Line < 1 || cursor.Line > buf.LineCount() {
		return 0, fmt.Errorf("cursor line %d outside 1-%d: %w", cursor.Line, buf.LineCount(), types.ErrOutOfRange)
	}
	return cursor.Line - 1, nil
}

// DeleteLine removes the line containing the cursor.
//
// On a single-line document the buffer becomes the empty string and the
// cursor moves to (1,0). On the last line the preceding newline is
// removed with the line and the cursor lands at the end of the new last
// line. Otherwise the trailing newline goes with the line and the
// cursor stays at the start of the same line index, now occupied by the
// old next line.
func DeleteLine(buf buffer.LineBuffer, cursor types.Position) (buffer.EditResult, error) {
	idx, err := validateCursor(buf, cursor)
	if err != nil {
		return buffer.EditResult{}, err
	}
	lines := buf.Lines()

	if len(lines) == 1 {
		return buffer.EditResult{
			Buffer:    buffer.FromText(""),
			Selection: types.Caret(types.Position{Line: 1, Col: 0}),
		}, nil
	}

	remaining := make([]string, 0, len(lines)-1)
	remaining = append(remaining, lines[:idx]...)
	remaining = append(remaining, lines[idx+1:]...)
	newBuf := buffer.FromText(strings.Join(remaining, "\n"))

	var newCursor types.Position
	if idx == len(lines)-1 {
		// Deleted the last line: cursor to the end of the new last line.
		lastLine := remaining[len(remaining)-1]
		newCursor = types.Position{Line: len(remaining), Col: len([]rune(lastLine))}
	} else {
		newCursor = types.Position{Line: cursor.Line, Col: 0}
	}
	return buffer.EditResult{Buffer: newBuf, Selection: types.Caret(newCursor)}, nil
}

// DuplicateLine inserts a copy of the current line immediately below
// it. The cursor moves to the start of the duplicate.
func DuplicateLine(buf buffer.LineBuffer, cursor types.Position) (buffer.EditResult, error) {
	idx, err := validateCursor(buf, cursor)
	if err != nil {
		return buffer.EditResult{}, err
	}
	lines := buf.Lines()

	duplicated := make([]string, 0, len(lines)+1)
	duplicated = append(duplicated, lines[:idx+1]...)
	duplicated = append(duplicated, lines[idx])
	duplicated = append(duplicated, lines[idx+1:]...)

	return buffer.EditResult{
		Buffer:    buffer.FromText(strings.Join(duplicated, "\n")),
		Selection: types.Caret(types.Position{Line: cursor.Line + 1, Col: 0}),
	}, nil
}

// MoveLineUp swaps the current line with the line above. On line 1 it
// is a boundary no-op, reported via Unchanged rather than an error.
// The cursor follows the line; its column is clamped to the moved
// line's length.
func MoveLineUp(buf buffer.LineBuffer, cursor types.Position) (buffer.EditResult, error) {
	idx, err := validateCursor(buf, cursor)
	if err != nil {
		return buffer.EditResult{}, err
	}
	if idx == 0 {
		return buffer.UnchangedResult(buf, types.Caret(cursor)), nil
	}
	return swapLines(buf, idx-1, idx, cursor, cursor.Line-1)
}

// MoveLineDown is symmetric to MoveLineUp; no-op on the last line.
func MoveLineDown(buf buffer.LineBuffer, cursor types.Position) (buffer.EditResult, error) {
	idx, err := validateCursor(buf, cursor)
	if err != nil {
		return buffer.EditResult{}, err
	}
	if idx == buf.LineCount()-1 {
		return buffer.UnchangedResult(buf, types.Caret(cursor)), nil
	}
	return swapLines(buf, idx, idx+1, cursor, cursor.Line+1)
}

// swapLines exchanges two adjacent 0-based line indices and places the
// cursor on newLine with its column clamped.
func swapLines(buf buffer.LineBuffer, a, b int, cursor types.Position, newLine int) (buffer.EditResult, error) {
	lines := make([]string, buf.LineCount())
	copy(lines, buf.Lines())
	lines[a], lines[b] = lines[b], lines[a]

	newBuf := buffer.FromText(strings.Join(lines, "\n"))
	newCursor, err := newBuf.ClampColumn(types.Position{Line: newLine, Col: cursor.Col})
	if err != nil {
		return buffer.EditResult{}, err
	}
	return buffer.EditResult{Buffer: newBuf, Selection: types.Caret(newCursor)}, nil
}
