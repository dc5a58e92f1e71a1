// internal/highlight/toggle.go

// Package highlight toggles inline <mark> highlighting on a selection.
package highlight

import (
	"fmt"
	"strings"

	"github.com/inklet/inklet/internal/buffer"
	"github.com/inklet/inklet/internal/types"
)

const (
	openTag  = "<mark>"
	closeTag = "</mark>"
)

// Toggle computes the minimal edit that wraps the selection in
// <mark>...</mark>, or removes the tags if the selection is already
// wrapped. Detection is exact: the opening tag must end exactly at the
// selection start and the closing tag begin exactly at the selection
// end. A host that reports skewed selection indices should be fixed in
// its adapter, not absorbed here.
//
// Known limitation: a multi-line selection always wraps; there is no
// multi-line unwrap detection.
func Toggle(buf buffer.LineBuffer, sel types.Selection) (buffer.EditResult, error) {
	if sel.Mode != types.ModeLineColumn {
		return buffer.EditResult{}, fmt.Errorf("highlight toggle requires line/column addressing, got %s: %w",
			sel.Mode, types.ErrUnsupportedSelectionMode)
	}
	sel = sel.Normalized()
	if sel.IsEmpty() {
		return buffer.EditResult{}, fmt.Errorf("highlight toggle: %w", types.ErrEmptySelection)
	}
	if sel.IsMultiLine() {
		return wrapMultiLine(buf, sel)
	}
	return toggleSingleLine(buf, sel)
}

func toggleSingleLine(buf buffer.LineBuffer, sel types.Selection) (buffer.EditResult, error) {
	line, err := buf.Line(sel.Start.Line)
	if err != nil {
		return buffer.EditResult{}, err
	}
	runes := []rune(line)
	startCol, endCol := sel.Start.Col, sel.End.Col
	if startCol < 0 || endCol > len(runes) {
		return buffer.EditResult{}, fmt.Errorf("selection %d-%d outside line of length %d: %w",
			startCol, endCol, len(runes), types.ErrOutOfRange)
	}

	selected := string(runes[startCol:endCol])
	before := string(runes[:startCol])
	after := string(runes[endCol:])

	if strings.HasSuffix(before, openTag) && strings.HasPrefix(after, closeTag) {
		// Already highlighted: drop both tags, keep the bare text.
		newLine := before[:len(before)-len(openTag)] + selected + after[len(closeTag):]
		newSel := types.Range(
			types.Position{Line: sel.Start.Line, Col: startCol - len(openTag)},
			types.Position{Line: sel.Start.Line, Col: endCol - len(openTag)},
		)
		return buffer.EditResult{Buffer: replaceLine(buf, sel.Start.Line, newLine), Selection: newSel}, nil
	}

	newLine := before + openTag + selected + closeTag + after
	newSel := types.Range(
		types.Position{Line: sel.Start.Line, Col: startCol + len(openTag)},
		types.Position{Line: sel.Start.Line, Col: endCol + len(openTag)},
	)
	return buffer.EditResult{Buffer: replaceLine(buf, sel.Start.Line, newLine), Selection: newSel}, nil
}

// wrapMultiLine inserts the opening tag before the selection start and
// the closing tag after the selection end, on their respective lines.
func wrapMultiLine(buf buffer.LineBuffer, sel types.Selection) (buffer.EditResult, error) {
	startLine, err := buf.Line(sel.Start.Line)
	if err != nil {
		return buffer.EditResult{}, err
	}
	endLine, err := buf.Line(sel.End.Line)
	if err != nil {
		return buffer.EditResult{}, err
	}
	startRunes := []rune(startLine)
	endRunes := []rune(endLine)
	if sel.Start.Col < 0 || sel.Start.Col > len(startRunes) || sel.End.Col < 0 || sel.End.Col > len(endRunes) {
		return buffer.EditResult{}, fmt.Errorf("multi-line selection %v-%v out of bounds: %w",
			sel.Start, sel.End, types.ErrOutOfRange)
	}

	lines := copyLines(buf)
	lines[sel.Start.Line-1] = string(startRunes[:sel.Start.Col]) + openTag + string(startRunes[sel.Start.Col:])
	lines[sel.End.Line-1] = string(endRunes[:sel.End.Col]) + closeTag + string(endRunes[sel.End.Col:])

	newSel := types.Range(
		types.Position{Line: sel.Start.Line, Col: sel.Start.Col + len(openTag)},
		sel.End, // text before the end column is untouched on the end line
	)
	return buffer.EditResult{Buffer: buffer.FromText(strings.Join(lines, "\n")), Selection: newSel}, nil
}

func replaceLine(buf buffer.LineBuffer, lineNo int, newLine string) buffer.LineBuffer {
	lines := copyLines(buf)
	lines[lineNo-1] = newLine
	return buffer.FromText(strings.Join(lines, "\n"))
}

func copyLines(buf buffer.LineBuffer) []string {
	lines := make([]string, buf.LineCount())
	copy(lines, buf.Lines())
	return lines
}
