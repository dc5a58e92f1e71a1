package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatchReachesAllSubscribers(t *testing.T) {
	m := NewManager()

	var got []string
	m.Subscribe(TypeContentChanged, func(e Event) bool {
		got = append(got, "first:"+e.Data.(ContentChangedData).Content)
		return false
	})
	m.Subscribe(TypeContentChanged, func(e Event) bool {
		got = append(got, "second:"+e.Data.(ContentChangedData).Content)
		return false
	})

	m.Dispatch(TypeContentChanged, ContentChangedData{Content: "hello"})
	assert.Equal(t, []string{"first:hello", "second:hello"}, got)
}

func TestDispatchIgnoresOtherTypes(t *testing.T) {
	m := NewManager()

	called := false
	m.Subscribe(TypeSaveStateChanged, func(e Event) bool {
		called = true
		return false
	})

	m.Dispatch(TypeContentChanged, ContentChangedData{Content: "x"})
	assert.False(t, called)
}

func TestSubscribeDuringDispatchDoesNotFireImmediately(t *testing.T) {
	m := NewManager()

	lateCalls := 0
	m.Subscribe(TypeCommandApplied, func(e Event) bool {
		m.Subscribe(TypeCommandApplied, func(e Event) bool {
			lateCalls++
			return false
		})
		return false
	})

	m.Dispatch(TypeCommandApplied, CommandAppliedData{Command: "delete-line"})
	assert.Zero(t, lateCalls, "handler added mid-dispatch waits for the next event")

	m.Dispatch(TypeCommandApplied, CommandAppliedData{Command: "delete-line"})
	assert.Equal(t, 1, lateCalls)
}
