package dispatch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inklet/inklet/internal/event"
	"github.com/inklet/inklet/internal/types"
)

// fakeSurface is a minimal in-memory host: whole-document replaces only,
// which is exactly how the dispatcher drives it.
type fakeSurface struct {
	content    string
	selection  types.Selection
	replaceErr error
	replaces   int
}

func (f *fakeSurface) Content() string            { return f.content }
func (f *fakeSurface) Selection() types.Selection { return f.selection }

func (f *fakeSurface) ReplaceRange(sel types.Selection, text string) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.replaces++
	f.content = text
	return nil
}

func (f *fakeSurface) SetSelection(sel types.Selection) error {
	f.selection = sel
	return nil
}

func caretAt(line, col int) types.Selection {
	return types.Caret(types.Position{Line: line, Col: col})
}

func TestExecuteDuplicateLine(t *testing.T) {
	s := &fakeSurface{content: "a\nb", selection: caretAt(1, 0)}
	d := New(s, nil)

	applied, err := d.Execute(CommandDuplicateLine)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, "a\na\nb", s.content)
	assert.Equal(t, caretAt(2, 0), s.selection)
}

func TestExecuteDeleteLine(t *testing.T) {
	s := &fakeSurface{content: "a\nb\nc", selection: caretAt(2, 1)}
	d := New(s, nil)

	applied, err := d.Execute(CommandDeleteLine)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, "a\nc", s.content)
	assert.Equal(t, caretAt(2, 0), s.selection)
}

func TestExecuteMoveBoundaryNoOpNotDirty(t *testing.T) {
	s := &fakeSurface{content: "a\nb", selection: caretAt(1, 0)}
	d := New(s, nil)

	applied, err := d.Execute(CommandMoveLineUp)
	require.NoError(t, err)
	assert.False(t, applied, "boundary no-op must not mark the document dirty")
	assert.Equal(t, "a\nb", s.content)
	assert.Zero(t, s.replaces, "no mutation on a no-op")
}

func TestExecuteToggleHighlight(t *testing.T) {
	s := &fakeSurface{
		content: "hello world",
		selection: types.Range(
			types.Position{Line: 1, Col: 6},
			types.Position{Line: 1, Col: 11},
		),
	}
	d := New(s, nil)

	applied, err := d.Execute(CommandToggleHighlight)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, "hello <mark>world</mark>", s.content)

	applied, err = d.Execute(CommandToggleHighlight)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, "hello world", s.content)
}

func TestExecuteFormatSpacing(t *testing.T) {
	s := &fakeSurface{content: "我爱Python编程", selection: caretAt(1, 9)}
	d := New(s, nil)

	applied, err := d.Execute(CommandFormatSpacing)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, "我爱 Python 编程", s.content)

	// Already formatted: nothing to do, not dirty.
	applied, err = d.Execute(CommandFormatSpacing)
	require.NoError(t, err)
	assert.False(t, applied)
}

func TestExecuteDeclinesOffsetModeForLineCommands(t *testing.T) {
	s := &fakeSurface{content: "a\nb", selection: types.OffsetRange(0, 0)}
	d := New(s, nil)

	applied, err := d.Execute(CommandDeleteLine)
	require.NoError(t, err, "unsupported mode is recoverable, not an error")
	assert.False(t, applied)
	assert.Equal(t, "a\nb", s.content)
	assert.Zero(t, s.replaces)
}

func TestExecuteFormatAcceptsOffsetMode(t *testing.T) {
	s := &fakeSurface{content: "我爱Python编程", selection: types.OffsetRange(2, 8)}
	d := New(s, nil)

	applied, err := d.Execute(CommandFormatSpacing)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, "我爱 Python 编程", s.content)
}

func TestExecuteSwallowsEmptySelectionToggle(t *testing.T) {
	s := &fakeSurface{content: "hello", selection: caretAt(1, 3)}
	d := New(s, nil)

	applied, err := d.Execute(CommandToggleHighlight)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, "hello", s.content)
}

func TestExecuteSwallowsOutOfRangeCursor(t *testing.T) {
	s := &fakeSurface{content: "hello", selection: caretAt(9, 0)}
	d := New(s, nil)

	applied, err := d.Execute(CommandDeleteLine)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, "hello", s.content)
}

func TestExecutePropagatesHostFailure(t *testing.T) {
	hostErr := errors.New("widget detached")
	s := &fakeSurface{content: "a\nb", selection: caretAt(1, 0), replaceErr: hostErr}
	d := New(s, nil)

	applied, err := d.Execute(CommandDuplicateLine)
	assert.ErrorIs(t, err, hostErr)
	assert.False(t, applied)
}

func TestHandleChordRoutesThroughDefaultKeymap(t *testing.T) {
	s := &fakeSurface{content: "a\nb", selection: caretAt(1, 0)}
	d := New(s, nil)

	applied, err := d.HandleChord(Chord{Ctrl: true, Key: "d"})
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, "a\na\nb", s.content)

	applied, err = d.HandleChord(Chord{Ctrl: true, Key: "z"}) // unbound
	require.NoError(t, err)
	assert.False(t, applied)
}

func TestExecutePublishesEvents(t *testing.T) {
	events := event.NewManager()
	var appliedCmds []string
	events.Subscribe(event.TypeCommandApplied, func(e event.Event) bool {
		appliedCmds = append(appliedCmds, e.Data.(event.CommandAppliedData).Command)
		return true
	})
	var formats int
	events.Subscribe(event.TypeFormatApplied, func(e event.Event) bool {
		formats++
		return true
	})

	s := &fakeSurface{content: "中文a\nb", selection: caretAt(1, 0)}
	d := New(s, events)

	_, err := d.Execute(CommandDuplicateLine)
	require.NoError(t, err)
	_, err = d.Execute(CommandFormatSpacing)
	require.NoError(t, err)

	assert.Equal(t, []string{"duplicate-line"}, appliedCmds)
	assert.Equal(t, 1, formats)
}

func TestReversedSelectionNormalizedBeforeCommand(t *testing.T) {
	s := &fakeSurface{
		content: "hello world",
		selection: types.Range(
			types.Position{Line: 1, Col: 11},
			types.Position{Line: 1, Col: 6},
		),
	}
	d := New(s, nil)

	applied, err := d.Execute(CommandToggleHighlight)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, "hello <mark>world</mark>", s.content)
}
