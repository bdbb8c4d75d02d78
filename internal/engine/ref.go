package engine

import "github.com/google/uuid"

// EntityRef is a by-ID reference to an entity, resolved against a world.
// Scene files and scripts use it where holding a pointer would outlive the
// entity's membership.
//
// Example:
//
//	type Follow struct {
//	    engine.BaseComponent
//	    Target engine.EntityRef
//	}
//
//	func (f *Follow) OnUpdate() {
//	    if t := f.Target.Get(f.World()); t != nil {
//	        // ...
//	    }
//	}
type EntityRef struct {
	ID uuid.UUID
}

// Get resolves the reference. It returns nil for an empty reference, a nil
// world, or an entity that is not a member of w.
func (r EntityRef) Get(w *World) *Entity {
	if r.ID == uuid.Nil || w == nil {
		return nil
	}
	return w.FindByID(r.ID)
}

// IsValid reports whether the reference points at something. It does not
// check membership.
func (r EntityRef) IsValid() bool {
	return r.ID != uuid.Nil
}

// Set points the reference at e. nil clears it.
func (r *EntityRef) Set(e *Entity) {
	if e == nil {
		r.ID = uuid.Nil
		return
	}
	r.ID = e.id
}
