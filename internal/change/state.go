// internal/change/state.go
package change

// SaveState is the autosave status owned exclusively by the Controller.
//
// Transitions: Saved -> Unsaved (on edit) -> Saving (on timer fire)
// -> Saved | Unsaved (on save success/failure). Initial state is Saved.
type SaveState int

const (
	StateSaved SaveState = iota
	StateSaving
	StateUnsaved
)

func (s SaveState) String() string {
	switch s {
	case StateSaved:
		return "saved"
	case StateSaving:
		return "saving"
	case StateUnsaved:
		return "unsaved"
	default:
		return "unknown"
	}
}

// SaveTarget selects who owns the Saved confirmation after a
// successful save callback.
type SaveTarget int

const (
	// TargetLocal: the callback completes the save; the controller
	// transitions to Saved itself.
	TargetLocal SaveTarget = iota
	// TargetServer: the callback only starts a network round trip; the
	// caller reports completion through MarkSaved.
	TargetServer
)
