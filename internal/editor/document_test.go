package editor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inklet/inklet/internal/types"
)

func TestInsertText(t *testing.T) {
	d := New()
	require.NoError(t, d.InsertText("hello"))
	assert.Equal(t, "hello", d.Content())
	assert.Equal(t, types.Position{Line: 1, Col: 5}, d.Cursor())

	require.NoError(t, d.InsertText("\nworld"))
	assert.Equal(t, "hello\nworld", d.Content())
	assert.Equal(t, types.Position{Line: 2, Col: 5}, d.Cursor())
	assert.True(t, d.IsModified())
}

func TestInsertReplacesSelection(t *testing.T) {
	d := New()
	require.NoError(t, d.InsertText("hello world"))
	require.NoError(t, d.SetSelection(types.Range(
		types.Position{Line: 1, Col: 6},
		types.Position{Line: 1, Col: 11},
	)))
	require.NoError(t, d.InsertText("there"))
	assert.Equal(t, "hello there", d.Content())
}

func TestDeleteBackward(t *testing.T) {
	d := New()
	require.NoError(t, d.InsertText("ab\nc"))

	require.NoError(t, d.DeleteBackward())
	assert.Equal(t, "ab\n", d.Content())

	// At column zero the line joins upward.
	require.NoError(t, d.DeleteBackward())
	assert.Equal(t, "ab", d.Content())
	assert.Equal(t, types.Position{Line: 1, Col: 2}, d.Cursor())

	require.NoError(t, d.DeleteBackward())
	require.NoError(t, d.DeleteBackward())
	assert.Equal(t, "", d.Content())
	// Start of document: nothing left to delete.
	require.NoError(t, d.DeleteBackward())
	assert.Equal(t, "", d.Content())
}

func TestReplaceRangeOffsetMode(t *testing.T) {
	d := New()
	require.NoError(t, d.InsertText("我爱编程"))
	require.NoError(t, d.ReplaceRange(types.OffsetRange(2, 4), "Go"))
	assert.Equal(t, "我爱Go", d.Content())

	err := d.ReplaceRange(types.OffsetRange(0, 99), "x")
	assert.ErrorIs(t, err, types.ErrOutOfRange)
}

func TestSelectionReporting(t *testing.T) {
	d := New()
	require.NoError(t, d.InsertText("abc"))
	assert.True(t, d.Selection().IsEmpty())

	d.MoveCursor(0, -2, true)
	sel := d.Selection().Normalized()
	assert.Equal(t, types.Position{Line: 1, Col: 1}, sel.Start)
	assert.Equal(t, types.Position{Line: 1, Col: 3}, sel.End)
	assert.Equal(t, "bc", d.SelectedText())

	d.ClearSelection()
	assert.True(t, d.Selection().IsEmpty())
}

func TestCursorWrapsAcrossLines(t *testing.T) {
	d := New()
	require.NoError(t, d.InsertText("ab\ncd"))
	require.NoError(t, d.SetSelection(types.Caret(types.Position{Line: 2, Col: 0})))

	d.MoveCursor(0, -1, false)
	assert.Equal(t, types.Position{Line: 1, Col: 2}, d.Cursor())

	d.MoveCursor(0, 1, false)
	assert.Equal(t, types.Position{Line: 2, Col: 0}, d.Cursor())
}

func TestLoadAndSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.md")
	require.NoError(t, os.WriteFile(path, []byte("# 标题\nbody\n"), 0644))

	d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "# 标题\nbody\n", d.Content(), "no trailing-newline normalization")

	require.NoError(t, d.InsertText("x"))
	require.NoError(t, d.Save(""))
	assert.False(t, d.IsModified())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, d.Content(), string(data))
}

func TestLoadMissingFileStartsEmpty(t *testing.T) {
	d, err := Load(filepath.Join(t.TempDir(), "absent.md"))
	require.NoError(t, err)
	assert.Equal(t, "", d.Content())
	assert.Equal(t, 1, d.LineCount())
}
