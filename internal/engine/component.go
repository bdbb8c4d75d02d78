package engine

// Component is a capability unit attached to at most one Entity.
//
// Implementations embed BaseComponent and override the hooks they need. A
// component is only usable after Context.Construct (or New) has run; hooks
// are fired by the Entity and World transition functions, never by the
// component on itself.
type Component interface {
	// OnInit runs once, during construction. Owner is nil here.
	OnInit()
	// OnEntityAddOwner runs after the owner is assigned. Returning an error
	// refuses the attachment and the add is rolled back.
	OnEntityAddOwner() error
	// OnEntityRemoveOwner runs before the owner is cleared.
	OnEntityRemoveOwner()
	OnWorldAdd(w *World)
	OnWorldRemove(w *World)
	OnUpdate()
	OnPhysicsUpdate()
	OnDestroy()

	Owner() *Entity
	Destroy()
	Destroyed() bool
	base() *BaseComponent
}

// LateUpdater is implemented by components that need to run after every
// component of their entity has updated this frame.
type LateUpdater interface {
	OnLateUpdate()
}

// BaseComponent provides default implementations for Component.
type BaseComponent struct {
	ctx       *Context
	self      Component
	owner     *Entity
	physics   ListenerID
	destroyed bool
}

func (b *BaseComponent) OnInit()                 {}
func (b *BaseComponent) OnEntityAddOwner() error { return nil }
func (b *BaseComponent) OnEntityRemoveOwner()    {}
func (b *BaseComponent) OnWorldAdd(w *World)     {}
func (b *BaseComponent) OnWorldRemove(w *World)  {}
func (b *BaseComponent) OnUpdate()               {}
func (b *BaseComponent) OnPhysicsUpdate()        {}
func (b *BaseComponent) OnDestroy()              {}

func (b *BaseComponent) base() *BaseComponent { return b }

// Owner returns the owning entity or nil for an orphan.
func (b *BaseComponent) Owner() *Entity {
	return b.owner
}

// World returns the owner's world, or nil.
func (b *BaseComponent) World() *World {
	if b.owner == nil {
		return nil
	}
	return b.owner.world
}

func (b *BaseComponent) Context() *Context {
	return b.ctx
}

// IsOrphan reports whether the component sits in its context's orphan registry.
func (b *BaseComponent) IsOrphan() bool {
	return b.ctx != nil && b.ctx.isOrphan(b.self)
}

func (b *BaseComponent) Destroyed() bool {
	return b.destroyed
}

// Destroy detaches the component from its owner, drops it from the orphan
// registry, cancels its physics-update subscription and runs OnDestroy.
// Calling it again is a no-op.
func (b *BaseComponent) Destroy() {
	if b.destroyed || b.ctx == nil {
		return
	}
	if b.owner != nil {
		b.owner.forceRemove(b.self)
	}
	b.destroyed = true
	b.ctx.forget(b.self)
	b.ctx.events.PhysicsUpdate.RemoveListener(b.physics)
	b.physics = 0
	b.self.OnDestroy()
}
