// internal/buffer/line_buffer.go
package buffer

import (
	"fmt"
	"strings"

	"github.com/inklet/inklet/internal/types"
)

// LineBuffer is an immutable, read-only view of document text as an
// ordered sequence of lines. Commands never mutate it; they build a new
// one, which makes results directly comparable in tests.
//
// Invariant: strings.Join(lines, "\n") == the original text, exactly.
// The buffer introduces no trailing-newline normalization.
type LineBuffer struct {
	text  string
	lines []string
}

// FromText builds a LineBuffer by splitting on '\n'. It never fails;
// empty input yields a single empty line.
func FromText(text string) LineBuffer {
	return LineBuffer{
		text:  text,
		lines: strings.Split(text, "\n"),
	}
}

// Text returns the exact document content.
func (b LineBuffer) Text() string {
	return b.text
}

// LineCount returns the number of lines. It is always >= 1, since
// splitting any string (including "") yields at least one element.
func (b LineBuffer) LineCount() int {
	return len(b.lines)
}

// Line returns the content of line n (1-based, without the trailing
// newline). Fails with types.ErrOutOfRange outside [1, LineCount].
func (b LineBuffer) Line(n int) (string, error) {
	if n < 1 || n > len(b.lines) {
		return "", fmt.Errorf("line %d outside 1-%d: %w", n, len(b.lines), types.ErrOutOfRange)
	}
	return b.lines[n-1], nil
}

// Lines returns the line slice. Callers must not modify it.
func (b LineBuffer) Lines() []string {
	return b.lines
}

// lineRuneLen returns the rune length of a 0-based line index.
func (b LineBuffer) lineRuneLen(idx int) int {
	return len([]rune(b.lines[idx]))
}

// ToOffset converts a (line, col) position to an absolute rune offset.
// The column may equal the line's rune length (caret past the last
// character); anything beyond that, or an invalid line, fails with
// types.ErrOutOfRange.
func (b LineBuffer) ToOffset(pos types.Position) (int, error) {
	if pos.Line < 1 || pos.Line > len(b.lines) {
		return 0, fmt.Errorf("line %d outside 1-%d: %w", pos.Line, len(b.lines), types.ErrOutOfRange)
	}
	lineLen := b.lineRuneLen(pos.Line - 1)
	if pos.Col < 0 || pos.Col > lineLen {
		return 0, fmt.Errorf("column %d outside 0-%d on line %d: %w", pos.Col, lineLen, pos.Line, types.ErrOutOfRange)
	}
	offset := 0
	for i := 0; i < pos.Line-1; i++ {
		offset += b.lineRuneLen(i) + 1 // +1 for the newline
	}
	return offset + pos.Col, nil
}

// ToPosition converts an absolute rune offset to a (line, col)
// position. Offsets addressing a newline resolve to the caret past the
// end of the line before it. The offset one past the final rune is
// valid (end-of-document caret).
func (b LineBuffer) ToPosition(offset int) (types.Position, error) {
	if offset < 0 {
		return types.Position{}, fmt.Errorf("offset %d negative: %w", offset, types.ErrOutOfRange)
	}
	remaining := offset
	for i, line := range b.lines {
		lineLen := len([]rune(line))
		if remaining <= lineLen {
			return types.Position{Line: i + 1, Col: remaining}, nil
		}
		remaining -= lineLen + 1
	}
	return types.Position{}, fmt.Errorf("offset %d past end of document: %w", offset, types.ErrOutOfRange)
}

// ClampColumn returns pos with its column clamped to the target line's
// rune length. The line itself must be valid.
func (b LineBuffer) ClampColumn(pos types.Position) (types.Position, error) {
	if pos.Line < 1 || pos.Line > len(b.lines) {
		return types.Position{}, fmt.Errorf("line %d outside 1-%d: %w", pos.Line, len(b.lines), types.ErrOutOfRange)
	}
	if lineLen := b.lineRuneLen(pos.Line - 1); pos.Col > lineLen {
		pos.Col = lineLen
	}
	if pos.Col < 0 {
		pos.Col = 0
	}
	return pos, nil
}
