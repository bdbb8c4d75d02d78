package engine

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Entity is an ordered collection of components with an optional world.
type Entity struct {
	Name string

	id         uuid.UUID
	ctx        *Context
	components []Component
	slots      [capCount]Component
	world      *World
}

// NewEntity creates an empty entity bound to ctx.
func (ctx *Context) NewEntity(name string) *Entity {
	return &Entity{
		Name:       name,
		id:         uuid.New(),
		ctx:        ctx,
		components: make([]Component, 0, 4),
	}
}

// NewEntityWith creates an entity holding a freshly constructed T.
func NewEntityWith[T any, PT interface {
	*T
	Component
}](ctx *Context, name string) (*Entity, PT, error) {
	e := ctx.NewEntity(name)
	c, err := Add[T, PT](e)
	if err != nil {
		return nil, nil, err
	}
	return e, c, nil
}

func (e *Entity) ID() uuid.UUID { return e.id }

func (e *Entity) World() *World { return e.world }

func (e *Entity) Context() *Context { return e.ctx }

func (e *Entity) String() string {
	return fmt.Sprintf("%s(%s)", e.Name, e.id.String()[:8])
}

// AddComponent appends c, assigns its owner and, when the entity is already
// in a world, fires OnWorldAdd on c immediately.
func (e *Entity) AddComponent(c Component) error {
	b := c.base()
	switch {
	case b.ctx == nil:
		return ErrNotConstructed
	case b.ctx != e.ctx:
		return fmt.Errorf("%w: %T on %s", ErrForeignContext, c, e)
	case b.destroyed:
		return ErrComponentDestroyed
	case b.owner != nil:
		return fmt.Errorf("%w: %T on %s", ErrComponentOwned, c, b.owner)
	}

	e.components = append(e.components, c)
	b.owner = e
	e.ctx.adopt(c)
	if err := c.OnEntityAddOwner(); err != nil {
		if i := e.indexOf(c); i >= 0 {
			e.components = slices.Delete(e.components, i, i+1)
		}
		b.owner = nil
		e.ctx.orphan(c)
		return fmt.Errorf("attach %T to %s: %w", c, e, err)
	}
	e.index(c)

	if e.world != nil {
		c.OnWorldAdd(e.world)
	}
	return nil
}

// Add constructs a T in the entity's context and adds it. A component the
// entity refuses is destroyed before the error is returned.
func Add[T any, PT interface {
	*T
	Component
}](e *Entity) (PT, error) {
	c := New[T, PT](e.ctx)
	if err := e.AddComponent(c); err != nil {
		c.base().Destroy()
		return nil, err
	}
	return c, nil
}

// RemoveComponent fires OnWorldRemove (if in a world), then
// OnEntityRemoveOwner, then drops c from the list. c becomes an orphan.
// A component another one depends on is refused with ErrRequiredBy.
func (e *Entity) RemoveComponent(c Component) error {
	if e.indexOf(c) < 0 {
		return fmt.Errorf("%w: %T on %s", ErrNotOwner, c, e)
	}
	if deps := e.dependentsOf(c); len(deps) > 0 {
		return fmt.Errorf("%w: %T is needed by %T on %s", ErrRequiredBy, c, deps[0], e)
	}
	e.detach(c)
	return nil
}

// forceRemove detaches c after detaching everything that depends on it.
func (e *Entity) forceRemove(c Component) {
	for _, d := range e.dependentsOf(c) {
		e.ctx.log.Warn("detaching dependent component",
			zap.Stringer("entity", e),
			zap.String("component", fmt.Sprintf("%T", d)),
			zap.String("requires", fmt.Sprintf("%T", c)))
		e.forceRemove(d)
	}
	e.detach(c)
}

func (e *Entity) detach(c Component) {
	if e.world != nil {
		c.OnWorldRemove(e.world)
		e.world.releaseComponent(c)
	}
	c.OnEntityRemoveOwner()
	c.base().owner = nil
	if i := e.indexOf(c); i >= 0 {
		e.components = slices.Delete(e.components, i, i+1)
	}
	e.reindex()
	e.ctx.orphan(c)
}

// dependentsOf returns the other components bound to the capability slot c
// fills.
func (e *Entity) dependentsOf(c Component) []Component {
	cp, ok := c.(Capable)
	if !ok {
		return nil
	}
	kind := cp.Capability()
	if kind <= CapNone || kind >= capCount || e.slots[kind] != c {
		return nil
	}
	var out []Component
	for _, x := range e.components {
		if d, ok := x.(Dependent); ok && x != c && slices.Contains(d.Requires(), kind) {
			out = append(out, x)
		}
	}
	return out
}

// Components returns a copy of the component list in insertion order.
func (e *Entity) Components() []Component {
	return slices.Clone(e.components)
}

// Lookup returns the first component that declared capability kind.
func (e *Entity) Lookup(kind Capability) (Component, bool) {
	if kind >= capCount {
		return nil, false
	}
	c := e.slots[kind]
	return c, c != nil
}

// Transform returns the entity's transform capability.
func (e *Entity) Transform() (Posed, bool) {
	c, ok := e.Lookup(CapTransform)
	if !ok {
		return nil, false
	}
	p, ok := c.(Posed)
	return p, ok
}

// GetComponent returns the first component of type T, in insertion order.
// T may be a concrete pointer type or an interface.
func GetComponent[T any](e *Entity) (T, bool) {
	for _, c := range e.components {
		if typed, ok := c.(T); ok {
			return typed, true
		}
	}
	var zero T
	return zero, false
}

func HasComponent[T any](e *Entity) bool {
	_, ok := GetComponent[T](e)
	return ok
}

// ComponentsOf returns every component of type T.
func ComponentsOf[T any](e *Entity) []T {
	var out []T
	for _, c := range e.components {
		if typed, ok := c.(T); ok {
			out = append(out, typed)
		}
	}
	return out
}

// Update runs OnUpdate over the components, then OnLateUpdate.
func (e *Entity) Update() {
	cs := slices.Clone(e.components)
	for _, c := range cs {
		if c.Owner() == e {
			c.OnUpdate()
		}
	}
	for _, c := range cs {
		if lu, ok := c.(LateUpdater); ok && c.Owner() == e {
			lu.OnLateUpdate()
		}
	}
}

// setWorld reassigns the world. Per component, in order: OnWorldRemove(prev)
// when there was a previous world, then OnWorldAdd(w) when w is non-nil.
func (e *Entity) setWorld(w *World) {
	prev := e.world
	e.world = w
	for _, c := range slices.Clone(e.components) {
		if prev != nil {
			c.OnWorldRemove(prev)
		}
		if w != nil {
			c.OnWorldAdd(w)
		}
	}
}

func (e *Entity) indexOf(c Component) int {
	for i, x := range e.components {
		if x == c {
			return i
		}
	}
	return -1
}

func (e *Entity) index(c Component) {
	cp, ok := c.(Capable)
	if !ok {
		return
	}
	if kind := cp.Capability(); kind > CapNone && kind < capCount && e.slots[kind] == nil {
		e.slots[kind] = c
	}
}

func (e *Entity) reindex() {
	e.slots = [capCount]Component{}
	for _, c := range e.components {
		e.index(c)
	}
}
