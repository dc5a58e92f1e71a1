// internal/dispatch/dispatcher.go

// Package dispatch routes keyboard chords to engine commands and
// applies their results to a host text surface.
package dispatch

import (
	"errors"
	"fmt"

	"github.com/inklet/inklet/internal/buffer"
	"github.com/inklet/inklet/internal/event"
	"github.com/inklet/inklet/internal/format"
	"github.com/inklet/inklet/internal/highlight"
	"github.com/inklet/inklet/internal/linecmd"
	"github.com/inklet/inklet/internal/logger"
	"github.com/inklet/inklet/internal/types"
)

// Surface is the boundary to the host text widget: a buffer, a
// selection, and primitive replace/select operations. The engine never
// reaches past it.
type Surface interface {
	Content() string
	Selection() types.Selection
	// ReplaceRange substitutes text for the given (normalized) range.
	ReplaceRange(sel types.Selection, text string) error
	SetSelection(sel types.Selection) error
}

// Dispatcher executes commands against one Surface.
type Dispatcher struct {
	surface Surface
	keymap  Keymap
	events  *event.Manager // optional
}

// New creates a Dispatcher with the default shortcut table.
func New(surface Surface, events *event.Manager) *Dispatcher {
	return &Dispatcher{
		surface: surface,
		keymap:  DefaultKeymap(),
		events:  events,
	}
}

// HandleChord resolves a chord through the shortcut table and executes
// the bound command. Unbound chords report (false, nil) so the host can
// fall through to its own handling.
func (d *Dispatcher) HandleChord(ch Chord) (bool, error) {
	cmd, ok := d.keymap[ch]
	if !ok {
		return false, nil
	}
	return d.Execute(cmd)
}

// Execute runs one command against the surface. The returned bool
// reports whether the document changed, so the caller knows whether to
// mark it dirty.
//
// The engine's recoverable errors (out-of-range, unsupported selection
// mode, empty selection) are caught here: no mutation, one warn-level
// log, nil error. Host application failures propagate.
func (d *Dispatcher) Execute(cmd Command) (bool, error) {
	buf := buffer.FromText(d.surface.Content())
	sel := d.surface.Selection().Normalized()

	var res buffer.EditResult
	var cmdErr error

	switch cmd {
	case CommandDeleteLine, CommandDuplicateLine, CommandMoveLineUp, CommandMoveLineDown:
		res, cmdErr = d.runLineCommand(cmd, buf, sel)
	case CommandToggleHighlight:
		res, cmdErr = highlight.Toggle(buf, sel)
	case CommandFormatSpacing:
		return d.runFormat(buf, sel)
	default:
		logger.Warnf("dispatch: unknown command %d", cmd)
		return false, nil
	}

	if cmdErr != nil {
		if recoverable(cmdErr) {
			logger.Warnf("dispatch: %s declined: %v", cmd, cmdErr)
			return false, nil
		}
		return false, cmdErr
	}
	if res.Unchanged {
		logger.Debugf("dispatch: %s inapplicable at %v, document untouched", cmd, sel.Start)
		return false, nil
	}
	if err := d.apply(buf, res); err != nil {
		return false, fmt.Errorf("applying %s: %w", cmd, err)
	}
	if d.events != nil {
		d.events.Dispatch(event.TypeCommandApplied, event.CommandAppliedData{
			Command:   cmd.String(),
			Selection: res.Selection,
		})
	}
	return true, nil
}

// runLineCommand requires line/column addressing; a flat-offset
// selection is declined, never silently coerced.
func (d *Dispatcher) runLineCommand(cmd Command, buf buffer.LineBuffer, sel types.Selection) (buffer.EditResult, error) {
	if sel.Mode != types.ModeLineColumn {
		return buffer.EditResult{}, fmt.Errorf("%s requires line/column addressing, got %s: %w",
			cmd, sel.Mode, types.ErrUnsupportedSelectionMode)
	}
	cursor := sel.Start
	switch cmd {
	case CommandDeleteLine:
		return linecmd.DeleteLine(buf, cursor)
	case CommandDuplicateLine:
		return linecmd.DuplicateLine(buf, cursor)
	case CommandMoveLineUp:
		return linecmd.MoveLineUp(buf, cursor)
	default:
		return linecmd.MoveLineDown(buf, cursor)
	}
}

// runFormat rewrites the whole document through the spacing formatter.
// Formatting is mode-agnostic; the selection is clamped to the new
// buffer afterwards.
func (d *Dispatcher) runFormat(buf buffer.LineBuffer, sel types.Selection) (bool, error) {
	formatted := format.Spacing(buf.Text())
	if formatted == buf.Text() {
		return false, nil
	}
	newBuf := buffer.FromText(formatted)
	res := buffer.EditResult{
		Buffer:    newBuf,
		Selection: clampSelection(newBuf, sel),
	}
	if err := d.apply(buf, res); err != nil {
		return false, fmt.Errorf("applying format-spacing: %w", err)
	}
	if d.events != nil {
		d.events.Dispatch(event.TypeFormatApplied, event.FormatAppliedData{
			BytesBefore: len(buf.Text()),
			BytesAfter:  len(formatted),
		})
	}
	return true, nil
}

// apply replaces the whole old document with the result and restores
// the selection, using only the surface's two primitives.
func (d *Dispatcher) apply(oldBuf buffer.LineBuffer, res buffer.EditResult) error {
	lastLine := oldBuf.LineCount()
	lastText, err := oldBuf.Line(lastLine)
	if err != nil {
		return err
	}
	whole := types.Range(
		types.Position{Line: 1, Col: 0},
		types.Position{Line: lastLine, Col: len([]rune(lastText))},
	)
	if err := d.surface.ReplaceRange(whole, res.Buffer.Text()); err != nil {
		return err
	}
	return d.surface.SetSelection(res.Selection)
}

// clampSelection pulls a selection inside the bounds of buf.
func clampSelection(buf buffer.LineBuffer, sel types.Selection) types.Selection {
	switch sel.Mode {
	case types.ModeLineColumn:
		sel.Start = clampPosition(buf, sel.Start)
		sel.End = clampPosition(buf, sel.End)
	case types.ModeOffset:
		limit := len([]rune(buf.Text()))
		if sel.StartOff > limit {
			sel.StartOff = limit
		}
		if sel.EndOff > limit {
			sel.EndOff = limit
		}
	}
	return sel
}

func clampPosition(buf buffer.LineBuffer, pos types.Position) types.Position {
	if pos.Line < 1 {
		pos.Line = 1
	}
	if pos.Line > buf.LineCount() {
		pos.Line = buf.LineCount()
	}
	clamped, err := buf.ClampColumn(pos)
	if err != nil {
		return types.Position{Line: 1, Col: 0}
	}
	return clamped
}

// recoverable reports whether err belongs to the engine's local,
// recoverable taxonomy.
func recoverable(err error) bool {
	return errors.Is(err, types.ErrOutOfRange) ||
		errors.Is(err, types.ErrUnsupportedSelectionMode) ||
		errors.Is(err, types.ErrEmptySelection)
}
