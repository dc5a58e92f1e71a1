package change

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inklet/inklet/internal/event"
)

// recorder collects callback invocations across goroutines.
type recorder struct {
	mu     sync.Mutex
	values []string
}

func (r *recorder) add(v string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, v)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.values...)
}

func TestInitialStateIsSaved(t *testing.T) {
	c := New(Options{InitialContent: "doc"})
	defer c.Close()
	assert.Equal(t, StateSaved, c.SaveState())
}

func TestDebounceDeliversOnlyFinalValue(t *testing.T) {
	var changes recorder
	c := New(Options{
		Debounce: 30 * time.Millisecond,
		OnChange: changes.add,
	})
	defer c.Close()

	c.HandleContent("a")
	c.HandleContent("ab")
	c.HandleContent("abc")

	assert.Eventually(t, func() bool {
		return len(changes.snapshot()) > 0
	}, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond) // no further deliveries
	assert.Equal(t, []string{"abc"}, changes.snapshot())
}

func TestDebounceTimerResetsNotStacks(t *testing.T) {
	var changes recorder
	c := New(Options{
		Debounce: 40 * time.Millisecond,
		OnChange: changes.add,
	})
	defer c.Close()

	// Keep editing faster than the debounce window.
	for i := 0; i < 4; i++ {
		c.HandleContent("v")
		time.Sleep(15 * time.Millisecond)
	}
	assert.Empty(t, changes.snapshot(), "nothing delivered while activity continues")

	assert.Eventually(t, func() bool {
		return len(changes.snapshot()) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestLeakSuppressionOnFirstNotification(t *testing.T) {
	var changes, resets recorder
	c := New(Options{
		InitialContent: "# my note",
		Debounce:       10 * time.Millisecond,
		OnChange:       changes.add,
		ResetContent:   resets.add,
	})
	defer c.Close()

	c.HandleContent("Type '/' for commands")
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, []string{"# my note"}, resets.snapshot(), "host buffer reset to initial value")
	assert.Empty(t, changes.snapshot(), "leaked update must not be forwarded")

	// Subsequent updates flow normally even if they quote a marker.
	c.HandleContent("discussing the Type '/' for commands placeholder in a long enough real document that it cannot be mistaken for leaked chrome from the half-initialized widget")
	assert.Eventually(t, func() bool {
		return len(changes.snapshot()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"# my note"}, resets.snapshot())
}

func TestLeakCheckRunsOnlyOnce(t *testing.T) {
	var changes, resets recorder
	c := New(Options{
		InitialContent: "note",
		Debounce:       10 * time.Millisecond,
		OnChange:       changes.add,
		ResetContent:   resets.add,
	})
	defer c.Close()

	c.HandleContent("real first edit")
	c.HandleContent("Start writing...") // short and marker-laden, but not first
	assert.Eventually(t, func() bool {
		return len(changes.snapshot()) > 0
	}, time.Second, 5*time.Millisecond)
	assert.Empty(t, resets.snapshot())
}

func TestAutosaveLocalSuccess(t *testing.T) {
	var saved recorder
	var states recorder
	c := New(Options{
		InitialContent:  "orig",
		Debounce:        5 * time.Millisecond,
		AutosaveEnabled: true,
		AutosaveDelay:   30 * time.Millisecond,
		Target:          TargetLocal,
		OnAutoSave: func(content string) error {
			saved.add(content)
			return nil
		},
		OnSaveState: func(s SaveState) { states.add(s.String()) },
	})
	defer c.Close()

	c.HandleContent("edited")
	assert.Equal(t, StateUnsaved, c.SaveState(), "edit marks the document dirty immediately")

	assert.Eventually(t, func() bool {
		return c.SaveState() == StateSaved
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"edited"}, saved.snapshot())
	assert.Equal(t, []string{"unsaved", "saving", "saved"}, states.snapshot())
}

func TestAutosaveFailureFallsBackToUnsavedWithoutRetry(t *testing.T) {
	var calls recorder
	c := New(Options{
		InitialContent:  "orig",
		AutosaveEnabled: true,
		AutosaveDelay:   25 * time.Millisecond,
		Target:          TargetLocal,
		OnAutoSave: func(content string) error {
			calls.add(content)
			return errors.New("disk full")
		},
	})
	defer c.Close()

	c.HandleContent("edited")
	assert.Eventually(t, func() bool {
		return len(calls.snapshot()) == 1 && c.SaveState() == StateUnsaved
	}, time.Second, 5*time.Millisecond)

	// No automatic retry is scheduled.
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, 1, len(calls.snapshot()))

	// The next qualifying edit re-arms the timer.
	c.HandleContent("edited again")
	assert.Eventually(t, func() bool {
		return len(calls.snapshot()) == 2
	}, time.Second, 5*time.Millisecond)
}

func TestEditDuringInFlightSaveStaysUnsaved(t *testing.T) {
	release := make(chan struct{})
	var calls recorder
	c := New(Options{
		InitialContent:  "orig",
		AutosaveEnabled: true,
		AutosaveDelay:   20 * time.Millisecond,
		Target:          TargetLocal,
		OnAutoSave: func(content string) error {
			calls.add(content)
			if content == "one" {
				<-release
			}
			return nil
		},
	})
	defer c.Close()

	c.HandleContent("one")
	assert.Eventually(t, func() bool {
		return c.SaveState() == StateSaving
	}, time.Second, time.Millisecond)

	// Edit while the first save is in flight.
	c.HandleContent("two")
	assert.Equal(t, StateUnsaved, c.SaveState())
	close(release)

	// The completed save of "one" must not report Saved; the new diff
	// triggers a second save cycle that eventually does.
	assert.Eventually(t, func() bool {
		snap := calls.snapshot()
		return len(snap) == 2 && snap[1] == "two" && c.SaveState() == StateSaved
	}, time.Second, 5*time.Millisecond)
}

func TestServerTargetWaitsForMarkSaved(t *testing.T) {
	c := New(Options{
		InitialContent:  "orig",
		AutosaveEnabled: true,
		AutosaveDelay:   20 * time.Millisecond,
		Target:          TargetServer,
		OnAutoSave:      func(content string) error { return nil },
	})
	defer c.Close()

	c.HandleContent("edited")
	assert.Eventually(t, func() bool {
		return c.SaveState() == StateSaving
	}, time.Second, time.Millisecond)

	// The controller holds Saving until the collaborator confirms.
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, StateSaving, c.SaveState())

	c.MarkSaved("edited")
	assert.Equal(t, StateSaved, c.SaveState())
}

func TestSaveStateEventsPublished(t *testing.T) {
	events := event.NewManager()
	var states recorder
	events.Subscribe(event.TypeSaveStateChanged, func(e event.Event) bool {
		states.add(e.Data.(event.SaveStateChangedData).State)
		return true
	})

	c := New(Options{
		InitialContent:  "orig",
		AutosaveEnabled: true,
		AutosaveDelay:   20 * time.Millisecond,
		Target:          TargetLocal,
		OnAutoSave:      func(content string) error { return nil },
		Events:          events,
	})
	defer c.Close()

	c.HandleContent("edited")
	assert.Eventually(t, func() bool {
		snap := states.snapshot()
		return len(snap) == 3 && snap[2] == "saved"
	}, time.Second, 5*time.Millisecond)
}

func TestCloseCancelsPendingTimers(t *testing.T) {
	var changes, saves recorder
	c := New(Options{
		InitialContent:  "orig",
		Debounce:        20 * time.Millisecond,
		AutosaveEnabled: true,
		AutosaveDelay:   20 * time.Millisecond,
		OnChange:        changes.add,
		OnAutoSave: func(content string) error {
			saves.add(content)
			return nil
		},
	})

	c.HandleContent("edited")
	c.Close()
	time.Sleep(80 * time.Millisecond)

	assert.Empty(t, changes.snapshot(), "debounced change must not fire after teardown")
	assert.Empty(t, saves.snapshot(), "autosave must not fire after teardown")
	require.NotPanics(t, func() { c.HandleContent("late") })
}

func TestNilAutosaveCallbackNeverReportsSaved(t *testing.T) {
	c := New(Options{
		InitialContent:  "orig",
		AutosaveEnabled: true,
		AutosaveDelay:   15 * time.Millisecond,
		Target:          TargetLocal,
	})
	defer c.Close()

	c.HandleContent("edited")
	assert.Equal(t, StateUnsaved, c.SaveState())

	// Nothing can persist, so the state must not advance on its own.
	assert.Never(t, func() bool {
		return c.SaveState() != StateUnsaved
	}, 80*time.Millisecond, 5*time.Millisecond)

	c.MarkSaved("edited")
	assert.Equal(t, StateSaved, c.SaveState())
}

func TestUnchangedContentDoesNotArmAutosave(t *testing.T) {
	var saves recorder
	c := New(Options{
		InitialContent:  "same",
		AutosaveEnabled: true,
		AutosaveDelay:   20 * time.Millisecond,
		OnAutoSave: func(content string) error {
			saves.add(content)
			return nil
		},
	})
	defer c.Close()

	c.HandleContent("same")
	time.Sleep(80 * time.Millisecond)
	assert.Empty(t, saves.snapshot())
	assert.Equal(t, StateSaved, c.SaveState())
}
