package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventInvokesInOrder(t *testing.T) {
	var e Event
	var got []int
	e.AddListener(func() { got = append(got, 1) })
	e.AddListener(func() { got = append(got, 2) })

	e.Invoke()

	assert.Equal(t, []int{1, 2}, got)
	assert.Equal(t, 2, e.ListenerCount())
}

func TestEventNilListenerIgnored(t *testing.T) {
	var e Event

	id := e.AddListener(nil)

	assert.Zero(t, id)
	assert.Zero(t, e.ListenerCount())
	assert.False(t, e.RemoveListener(id))
}

func TestEventRemoveListener(t *testing.T) {
	var e Event
	calls := 0
	id := e.AddListener(func() { calls++ })

	assert.True(t, e.RemoveListener(id))
	assert.False(t, e.RemoveListener(id))
	e.Invoke()

	assert.Zero(t, calls)
}

func TestEventRemoveDuringInvokeSkipsRemoved(t *testing.T) {
	var e Event
	var second ListenerID
	var got []string
	e.AddListener(func() {
		got = append(got, "first")
		e.RemoveListener(second)
	})
	second = e.AddListener(func() { got = append(got, "second") })
	e.AddListener(func() { got = append(got, "third") })

	e.Invoke()

	assert.Equal(t, []string{"first", "third"}, got)
	assert.Equal(t, 2, e.ListenerCount())
}

func TestEventWithArg(t *testing.T) {
	var m EventManager
	var sizes []Size
	id := m.FramebufferResize.AddListener(func(s Size) { sizes = append(sizes, s) })

	m.FireFramebufferResize(800, 600)
	m.FramebufferResize.RemoveListener(id)
	m.FireFramebufferResize(1, 1)

	assert.Equal(t, []Size{{Width: 800, Height: 600}}, sizes)
	assert.Zero(t, m.FramebufferResize.ListenerCount())
}

func TestRemoveAllListeners(t *testing.T) {
	var e Event
	calls := 0
	e.AddListener(func() { calls++ })
	e.AddListener(func() { calls++ })

	e.RemoveAllListeners()
	e.Invoke()

	assert.Zero(t, calls)
	assert.Zero(t, e.ListenerCount())
}
