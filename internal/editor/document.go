// internal/editor/document.go

// Package editor is the demo host's text surface: a mutable document
// with a cursor and an optional selection anchor. It implements the
// dispatch.Surface boundary and the primitive editing operations the
// terminal host needs (typing, backspace, cursor movement).
package editor

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/inklet/inklet/internal/buffer"
	"github.com/inklet/inklet/internal/types"
)

// Document holds the host-owned buffer. Positions follow the engine
// convention: 1-based lines, 0-based rune columns.
type Document struct {
	lines    []string
	cursor   types.Position
	anchor   *types.Position // selection anchor; nil when nothing is selected
	filePath string
	modified bool
}

// New creates an empty single-line document.
func New() *Document {
	return &Document{
		lines:  []string{""},
		cursor: types.Position{Line: 1, Col: 0},
	}
}

// Load reads a file into the document. A missing file yields an empty
// document bound to that path, ready to be created on first save.
func Load(filePath string) (*Document, error) {
	d := New()
	d.filePath = filePath

	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return d, nil
		}
		return nil, fmt.Errorf("failed to read '%s': %w", filePath, err)
	}
	d.lines = strings.Split(string(data), "\n")
	return d, nil
}

// Save writes the document to path, or to its own path when empty.
func (d *Document) Save(path string) error {
	if path == "" {
		path = d.filePath
	}
	if path == "" {
		return errors.New("no file path specified for saving")
	}
	if err := os.WriteFile(path, []byte(d.Content()), 0644); err != nil {
		return fmt.Errorf("failed to write '%s': %w", path, err)
	}
	d.filePath = path
	d.modified = false
	return nil
}

func (d *Document) FilePath() string { return d.filePath }
func (d *Document) IsModified() bool { return d.modified }
func (d *Document) LineCount() int   { return len(d.lines) }

// LineText returns the content of a 0-based line index for drawing.
func (d *Document) LineText(idx int) string {
	if idx < 0 || idx >= len(d.lines) {
		return ""
	}
	return d.lines[idx]
}

func (d *Document) Cursor() types.Position { return d.cursor }

// --- dispatch.Surface ---

// Content returns the document joined with '\n', exactly.
func (d *Document) Content() string {
	return strings.Join(d.lines, "\n")
}

// Selection reports the anchored range, or a caret at the cursor.
func (d *Document) Selection() types.Selection {
	if d.anchor != nil {
		return types.Range(*d.anchor, d.cursor)
	}
	return types.Caret(d.cursor)
}

// ReplaceRange substitutes text for the given range. Both addressing
// modes are accepted; the range is normalized first.
func (d *Document) ReplaceRange(sel types.Selection, text string) error {
	content := d.Content()
	buf := buffer.FromText(content)
	sel = sel.Normalized()

	var startOff, endOff int
	var err error
	switch sel.Mode {
	case types.ModeLineColumn:
		if startOff, err = buf.ToOffset(sel.Start); err != nil {
			return err
		}
		if endOff, err = buf.ToOffset(sel.End); err != nil {
			return err
		}
	case types.ModeOffset:
		limit := len([]rune(content))
		startOff, endOff = sel.StartOff, sel.EndOff
		if startOff < 0 || endOff > limit {
			return fmt.Errorf("offset range %d-%d outside 0-%d: %w", startOff, endOff, limit, types.ErrOutOfRange)
		}
	}

	runes := []rune(content)
	d.lines = strings.Split(string(runes[:startOff])+text+string(runes[endOff:]), "\n")
	d.modified = true
	return nil
}

// SetSelection moves the cursor (and anchor, for a non-empty range).
func (d *Document) SetSelection(sel types.Selection) error {
	sel = sel.Normalized()
	if sel.Mode == types.ModeOffset {
		buf := buffer.FromText(d.Content())
		start, err := buf.ToPosition(sel.StartOff)
		if err != nil {
			return err
		}
		end, err := buf.ToPosition(sel.EndOff)
		if err != nil {
			return err
		}
		sel = types.Range(start, end)
	}

	buf := buffer.FromText(d.Content())
	start, err := buf.ClampColumn(sel.Start)
	if err != nil {
		return err
	}
	end, err := buf.ClampColumn(sel.End)
	if err != nil {
		return err
	}

	if start == end {
		d.anchor = nil
		d.cursor = end
	} else {
		d.anchor = &start
		d.cursor = end
	}
	return nil
}

// --- host editing primitives ---

// InsertText inserts at the cursor, replacing any active selection.
func (d *Document) InsertText(text string) error {
	sel := d.Selection().Normalized()
	if err := d.ReplaceRange(sel, text); err != nil {
		return err
	}
	d.anchor = nil

	// Cursor lands after the inserted text.
	inserted := strings.Split(text, "\n")
	if len(inserted) == 1 {
		d.cursor = types.Position{Line: sel.Start.Line, Col: sel.Start.Col + len([]rune(text))}
	} else {
		d.cursor = types.Position{
			Line: sel.Start.Line + len(inserted) - 1,
			Col:  len([]rune(inserted[len(inserted)-1])),
		}
	}
	return nil
}

// DeleteBackward removes the selection, or the rune before the cursor.
// At the start of a line it joins with the previous line; at the start
// of the document it does nothing.
func (d *Document) DeleteBackward() error {
	if d.anchor != nil {
		sel := d.Selection().Normalized()
		if err := d.ReplaceRange(sel, ""); err != nil {
			return err
		}
		d.anchor = nil
		d.cursor = sel.Start
		return nil
	}

	cur := d.cursor
	var start types.Position
	switch {
	case cur.Col > 0:
		start = types.Position{Line: cur.Line, Col: cur.Col - 1}
	case cur.Line > 1:
		prev := d.lines[cur.Line-2]
		start = types.Position{Line: cur.Line - 1, Col: len([]rune(prev))}
	default:
		return nil
	}
	if err := d.ReplaceRange(types.Range(start, cur), ""); err != nil {
		return err
	}
	d.cursor = start
	return nil
}

// MoveCursor shifts the cursor by (dLine, dCol), clamping to the
// document. When selecting is false any active selection collapses;
// when true the anchor is planted on first use and kept.
func (d *Document) MoveCursor(dLine, dCol int, selecting bool) {
	if selecting && d.anchor == nil {
		anchor := d.cursor
		d.anchor = &anchor
	}
	if !selecting {
		d.anchor = nil
	}

	pos := d.cursor
	if dCol != 0 && dLine == 0 {
		pos.Col += dCol
		// Wrap across line boundaries like a plain text widget.
		if pos.Col < 0 && pos.Line > 1 {
			pos.Line--
			pos.Col = len([]rune(d.lines[pos.Line-1]))
		} else if pos.Col > len([]rune(d.lines[pos.Line-1])) && pos.Line < len(d.lines) {
			pos.Line++
			pos.Col = 0
		}
	}
	pos.Line += dLine

	if pos.Line < 1 {
		pos.Line = 1
	}
	if pos.Line > len(d.lines) {
		pos.Line = len(d.lines)
	}
	if lineLen := len([]rune(d.lines[pos.Line-1])); pos.Col > lineLen {
		pos.Col = lineLen
	}
	if pos.Col < 0 {
		pos.Col = 0
	}
	d.cursor = pos
}

// MoveLineStart and MoveLineEnd jump within the current line.
func (d *Document) MoveLineStart() { d.cursor.Col = 0; d.anchor = nil }
func (d *Document) MoveLineEnd() {
	d.cursor.Col = len([]rune(d.lines[d.cursor.Line-1]))
	d.anchor = nil
}

// ClearSelection drops the anchor without moving the cursor.
func (d *Document) ClearSelection() { d.anchor = nil }

// SelectedText returns the text covered by the active selection.
func (d *Document) SelectedText() string {
	if d.anchor == nil {
		return ""
	}
	sel := d.Selection().Normalized()
	buf := buffer.FromText(d.Content())
	startOff, err := buf.ToOffset(sel.Start)
	if err != nil {
		return ""
	}
	endOff, err := buf.ToOffset(sel.End)
	if err != nil {
		return ""
	}
	return string([]rune(d.Content())[startOff:endOff])
}

// MarkSaved resets the modified flag after an external save completed.
func (d *Document) MarkSaved() { d.modified = false }
