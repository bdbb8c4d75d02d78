package engine

// ListenerID identifies a subscription so it can be removed later.
// Zero is never issued.
type ListenerID uint64

type listener[F any] struct {
	id ListenerID
	fn F
	on bool
}

// Event is a multi-cast event with no argument.
type Event struct {
	listeners []*listener[func()]
	next      ListenerID
}

// AddListener adds a callback to be invoked when the event fires.
// A nil callback is ignored and yields the zero ID.
func (e *Event) AddListener(callback func()) ListenerID {
	if callback == nil {
		return 0
	}
	e.next++
	e.listeners = append(e.listeners, &listener[func()]{id: e.next, fn: callback, on: true})
	return e.next
}

// RemoveListener unsubscribes id. It is safe to call from inside a callback
// of the same event; the removed listener is not invoked afterwards.
func (e *Event) RemoveListener(id ListenerID) bool {
	var ok bool
	e.listeners, ok = without(e.listeners, id)
	return ok
}

func (e *Event) RemoveAllListeners() {
	for _, l := range e.listeners {
		l.on = false
	}
	e.listeners = nil
}

// Invoke calls every listener registered at the time of the call.
func (e *Event) Invoke() {
	for _, l := range e.listeners {
		if l.on {
			l.fn()
		}
	}
}

func (e *Event) ListenerCount() int {
	return len(e.listeners)
}

// EventWithArg is a generic event with one argument
type EventWithArg[T any] struct {
	listeners []*listener[func(T)]
	next      ListenerID
}

func (e *EventWithArg[T]) AddListener(callback func(T)) ListenerID {
	if callback == nil {
		return 0
	}
	e.next++
	e.listeners = append(e.listeners, &listener[func(T)]{id: e.next, fn: callback, on: true})
	return e.next
}

func (e *EventWithArg[T]) RemoveListener(id ListenerID) bool {
	var ok bool
	e.listeners, ok = without(e.listeners, id)
	return ok
}

func (e *EventWithArg[T]) RemoveAllListeners() {
	for _, l := range e.listeners {
		l.on = false
	}
	e.listeners = nil
}

func (e *EventWithArg[T]) Invoke(arg T) {
	for _, l := range e.listeners {
		if l.on {
			l.fn(arg)
		}
	}
}

func (e *EventWithArg[T]) ListenerCount() int {
	return len(e.listeners)
}

// without returns a fresh slice so an Invoke already ranging over the old one
// is not disturbed.
func without[F any](ls []*listener[F], id ListenerID) ([]*listener[F], bool) {
	for i, l := range ls {
		if l.id != id {
			continue
		}
		l.on = false
		out := make([]*listener[F], 0, len(ls)-1)
		out = append(out, ls[:i]...)
		return append(out, ls[i+1:]...), true
	}
	return ls, false
}

// Size is a framebuffer size in pixels.
type Size struct {
	Width, Height int
}

// EventManager fans the engine's callbacks out to the object model.
type EventManager struct {
	Update            Event
	PhysicsUpdate     Event
	FramebufferResize EventWithArg[Size]
}

func (m *EventManager) FireUpdate() {
	m.Update.Invoke()
}

func (m *EventManager) FirePhysicsUpdate() {
	m.PhysicsUpdate.Invoke()
}

func (m *EventManager) FireFramebufferResize(width, height int) {
	m.FramebufferResize.Invoke(Size{Width: width, Height: height})
}
