package physics

import "errors"

var (
	ErrMissingTransform = errors.New("physics body requires a transform on its entity")
	ErrNotSupported     = errors.New("not supported")
	ErrNotAttached      = errors.New("body has no native proxy")
	ErrAlreadyAttached  = errors.New("shape already proxied on this body")
	ErrShapeInUse       = errors.New("shape proxied on another body")
	ErrShapeNotAttached = errors.New("shape not proxied on this body")
	ErrNoPhysicsWorld   = errors.New("body was not created by a physics world")
	ErrWorldClosed      = errors.New("physics world closed")
)
