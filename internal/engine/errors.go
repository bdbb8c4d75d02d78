package engine

import "errors"

var (
	ErrComponentOwned     = errors.New("component already has an owner")
	ErrComponentDestroyed = errors.New("component destroyed")
	ErrNotConstructed     = errors.New("component not constructed through a context")
	ErrForeignContext     = errors.New("component and entity belong to different contexts")
	ErrNotOwner           = errors.New("component not owned by entity")
	ErrRequiredBy         = errors.New("component required by another component")
	ErrNilEntity          = errors.New("nil entity")
	ErrNotMember          = errors.New("entity not in world")
	ErrWorldDestroyed     = errors.New("world destroyed")
	ErrUnknownWorld       = errors.New("world not managed by this context")
	ErrNoPhysicsProvider  = errors.New("physics requested but no physics provider installed")
)
