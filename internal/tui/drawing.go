// internal/tui/drawing.go
package tui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/inklet/inklet/internal/editor"
	"github.com/inklet/inklet/internal/types"
)

// visualColumn converts a rune index into the visual cell column,
// walking grapheme clusters so wide CJK characters count double.
func visualColumn(line string, runeIndex int) int {
	if runeIndex <= 0 {
		return 0
	}
	visualWidth := 0
	currentRuneIndex := 0

	gr := uniseg.NewGraphemes(line)
	for gr.Next() {
		if currentRuneIndex >= runeIndex {
			break
		}
		visualWidth += gr.Width()
		currentRuneIndex += len(gr.Runes())
	}
	return visualWidth
}

// isPositionWithin checks if pos is within [start, end). The end
// position is exclusive; a character exactly at end is not selected.
func isPositionWithin(pos, start, end types.Position) bool {
	if pos.Line < start.Line || pos.Line > end.Line {
		return false
	}
	if pos.Line == start.Line && pos.Col < start.Col {
		return false
	}
	if pos.Line == end.Line && pos.Col >= end.Col {
		return false
	}
	return true
}

// drawDocument renders the visible window of doc into the top
// viewHeight rows.
func (t *TUI) drawDocument(doc *editor.Document, topLine, width, viewHeight int) {
	defaultStyle := tcell.StyleDefault
	selectionStyle := tcell.StyleDefault.Reverse(true)

	sel := doc.Selection().Normalized()
	hasSelection := !sel.IsEmpty()

	for row := 0; row < viewHeight; row++ {
		lineIdx := topLine + row
		if lineIdx >= doc.LineCount() {
			break
		}
		lineStr := doc.LineText(lineIdx)

		x := 0
		col := 0
		gr := uniseg.NewGraphemes(lineStr)
		for gr.Next() && x < width {
			runes := gr.Runes()
			style := defaultStyle
			if hasSelection && isPositionWithin(types.Position{Line: lineIdx + 1, Col: col}, sel.Start, sel.End) {
				style = selectionStyle
			}
			t.screen.SetContent(x, row, runes[0], runes[1:], style)
			x += gr.Width()
			col += len(runes)
		}
	}

	cursor := doc.Cursor()
	if cursorRow := cursor.Line - 1 - topLine; cursorRow >= 0 && cursorRow < viewHeight {
		t.screen.ShowCursor(visualColumn(doc.LineText(cursor.Line-1), cursor.Col), cursorRow)
	} else {
		t.screen.HideCursor()
	}
}
