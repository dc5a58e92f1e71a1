// internal/change/controller.go

// Package change wraps a host editor surface with debounced change
// propagation, first-notification placeholder-leak suppression, and an
// autosave scheduler with observable save state.
package change

import (
	"sync"
	"time"

	"github.com/inklet/inklet/internal/event"
	"github.com/inklet/inklet/internal/logger"
)

const (
	// DefaultDebounce coalesces rapid keystrokes into one onChange.
	DefaultDebounce = 40 * time.Millisecond
	// DefaultAutosaveDelay is the quiet period before an autosave fires.
	DefaultAutosaveDelay = 3 * time.Second
)

// Options configures a Controller. Zero durations fall back to the
// package defaults; nil callbacks are simply skipped.
type Options struct {
	// InitialContent is the caller-supplied document; the host buffer
	// is reset to it when a placeholder leak is suppressed.
	InitialContent string

	Debounce        time.Duration
	AutosaveEnabled bool
	AutosaveDelay   time.Duration
	Target          SaveTarget

	// OnChange receives the coalesced content after each debounce window.
	OnChange func(content string)
	// OnAutoSave persists the content. May be backed by a network call;
	// the controller only transitions state on its return.
	OnAutoSave func(content string) error
	// ResetContent rewrites the host buffer (leak suppression only).
	ResetContent func(content string)
	// OnSaveState observes save-state transitions.
	OnSaveState func(state SaveState)

	// Events, when set, receives TypeContentChanged and
	// TypeSaveStateChanged alongside the callbacks.
	Events *event.Manager
}

// Controller tracks save state for one editor lifetime. All entry
// points are safe for the timer goroutines the controller itself
// spawns. Overlapping saves are not serialized beyond last-write-wins
// timers; the single-user, local-edit scenario tolerates that.
type Controller struct {
	mu sync.Mutex

	opts Options

	state     SaveState
	lastSaved string
	latest    string

	debounce      debouncer
	autosaveTimer *time.Timer

	leakChecked bool
	closed      bool
}

// New creates a Controller in state Saved with lastSaved set to the
// initial content, so opening a document never reports it dirty.
func New(opts Options) *Controller {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.AutosaveDelay <= 0 {
		opts.AutosaveDelay = DefaultAutosaveDelay
	}
	return &Controller{
		opts:      opts,
		state:     StateSaved,
		lastSaved: opts.InitialContent,
		latest:    opts.InitialContent,
	}
}

// SaveState returns the current save state.
func (c *Controller) SaveState() SaveState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// HandleContent is the entry point for every raw content update from
// the host surface.
func (c *Controller) HandleContent(content string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	// The leak check runs at most once per controller lifetime, on the
	// very first notification after mount.
	if !c.leakChecked {
		c.leakChecked = true
		if content != c.opts.InitialContent && looksLikeChromeLeak(content) {
			reset := c.opts.ResetContent
			initial := c.opts.InitialContent
			c.mu.Unlock()
			logger.Warnf("change: suppressed placeholder leak (%d bytes), resetting host buffer", len(content))
			if reset != nil {
				reset(initial)
			}
			return
		}
	}

	c.latest = content

	var notify SaveState
	notifyState := false
	if c.opts.AutosaveEnabled && content != c.lastSaved {
		notifyState = c.setStateLocked(StateUnsaved, &notify)
		c.armAutosaveLocked()
	}
	debounceDelay := c.opts.Debounce
	c.mu.Unlock()

	if notifyState {
		c.notifyState(notify)
	}

	c.debounce.trigger(debounceDelay, func() {
		if c.opts.OnChange != nil {
			c.opts.OnChange(content)
		}
		if c.opts.Events != nil {
			c.opts.Events.Dispatch(event.TypeContentChanged, event.ContentChangedData{Content: content})
		}
	})
}

// MarkSaved is the caller's completion signal for server-target saves,
// where the network round trip is owned by the collaborator.
func (c *Controller) MarkSaved(content string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.lastSaved = content
	var notify SaveState
	notifyState := false
	if c.latest == content {
		notifyState = c.setStateLocked(StateSaved, &notify)
	} else {
		// A newer edit is already queued behind the debounce timer.
		notifyState = c.setStateLocked(StateUnsaved, &notify)
	}
	c.mu.Unlock()
	if notifyState {
		c.notifyState(notify)
	}
}

// Close cancels pending timers. A closed controller ignores further
// updates; call on component teardown so no stale callback fires after
// the buffer is gone.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	if c.autosaveTimer != nil {
		c.autosaveTimer.Stop()
		c.autosaveTimer = nil
	}
	c.mu.Unlock()
	c.debounce.stop()
}

// armAutosaveLocked (re)arms the autosave timer, last write wins. With
// no save callback there is nothing to fire: the timer stays off and
// the document stays Unsaved until MarkSaved, rather than advancing to
// Saved without anything having persisted.
func (c *Controller) armAutosaveLocked() {
	if c.opts.OnAutoSave == nil {
		return
	}
	if c.autosaveTimer != nil {
		c.autosaveTimer.Stop()
	}
	c.autosaveTimer = time.AfterFunc(c.opts.AutosaveDelay, c.fireAutosave)
}

func (c *Controller) fireAutosave() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	content := c.latest
	if content == c.lastSaved {
		c.mu.Unlock()
		return
	}
	var notify SaveState
	notifyState := c.setStateLocked(StateSaving, &notify)
	save := c.opts.OnAutoSave
	target := c.opts.Target
	c.mu.Unlock()
	if notifyState {
		c.notifyState(notify)
	}

	var err error
	if save != nil {
		err = save(content)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	notifyState = false
	switch {
	case err != nil:
		// No automatic retry; the next qualifying edit re-arms the timer.
		notifyState = c.setStateLocked(StateUnsaved, &notify)
	case target == TargetLocal:
		c.lastSaved = content
		if c.latest == content {
			notifyState = c.setStateLocked(StateSaved, &notify)
		} else {
			// Edited during the in-flight save: the new diff keeps the
			// document dirty and the re-armed timer will catch it.
			notifyState = c.setStateLocked(StateUnsaved, &notify)
		}
	default:
		// Server target: stay in Saving until MarkSaved.
	}
	c.mu.Unlock()

	if err != nil {
		logger.Errorf("change: autosave failed: %v", err)
	}
	if notifyState {
		c.notifyState(notify)
	}
}

// setStateLocked updates the state and reports whether it changed,
// writing the new value to out for post-unlock notification.
func (c *Controller) setStateLocked(state SaveState, out *SaveState) bool {
	if c.state == state {
		return false
	}
	c.state = state
	*out = state
	return true
}

// notifyState runs observers outside the lock so a handler reading
// SaveState() cannot deadlock.
func (c *Controller) notifyState(state SaveState) {
	logger.Debugf("change: save state -> %s", state)
	if c.opts.OnSaveState != nil {
		c.opts.OnSaveState(state)
	}
	if c.opts.Events != nil {
		c.opts.Events.Dispatch(event.TypeSaveStateChanged, event.SaveStateChangedData{State: state.String()})
	}
}
