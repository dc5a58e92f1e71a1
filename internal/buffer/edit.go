// internal/buffer/edit.go
package buffer

import "github.com/inklet/inklet/internal/types"

// EditResult is the sole output of every engine command. The input
// buffer is never mutated; the host applies Buffer/Selection itself.
//
// Unchanged marks a boundary no-op (move-up on line 1, move-down on the
// last line). Those are not errors; the flag tells the dispatcher not
// to mark the document dirty.
type EditResult struct {
	Buffer    LineBuffer
	Selection types.Selection
	Unchanged bool
}

// UnchangedResult returns a no-op result echoing buf and sel.
func UnchangedResult(buf LineBuffer, sel types.Selection) EditResult {
	return EditResult{Buffer: buf, Selection: sel, Unchanged: true}
}
