// internal/types/errors.go
package types

import "errors"

// The engine's error taxonomy. All three are local, recoverable
// conditions: the dispatcher catches them, performs no mutation, and
// logs at warn level. None of them should reach the user as a crash.
var (
	// ErrOutOfRange reports an invalid line or column.
	ErrOutOfRange = errors.New("position out of range")

	// ErrUnsupportedSelectionMode reports a flat-offset selection given
	// to a command that only understands line/column addressing. The
	// command declines; there is no silent coercion.
	ErrUnsupportedSelectionMode = errors.New("unsupported selection mode")

	// ErrEmptySelection reports a zero-length selection where a span is
	// required (highlight toggling).
	ErrEmptySelection = errors.New("empty selection")
)
