package engine

import (
	"fmt"

	"lava/internal/native"

	"go.uber.org/zap"
)

// Context owns everything that would otherwise be process-wide: the native
// engine, the event fan-out, the world registry, the orphan registry and the
// main camera. All access happens on the thread driving the native loop.
type Context struct {
	log     *zap.Logger
	native  native.Engine
	events  *EventManager
	worlds  *WorldManager
	orphans map[Component]struct{}
	camera  CameraView
	physics PhysicsProvider
	closed  bool
}

func NewContext(eng native.Engine, log *zap.Logger) *Context {
	if log == nil {
		log = zap.NewNop()
	}
	ctx := &Context{
		log:     log,
		native:  eng,
		events:  &EventManager{},
		orphans: make(map[Component]struct{}),
	}
	ctx.worlds = &WorldManager{ctx: ctx}
	return ctx
}

func (ctx *Context) Logger() *zap.Logger   { return ctx.log }
func (ctx *Context) Native() native.Engine { return ctx.native }
func (ctx *Context) Events() *EventManager { return ctx.events }
func (ctx *Context) Worlds() *WorldManager { return ctx.worlds }

func (ctx *Context) PhysicsProvider() PhysicsProvider { return ctx.physics }

// SetPhysicsProvider installs the factory used for worlds created with physics.
func (ctx *Context) SetPhysicsProvider(p PhysicsProvider) {
	ctx.physics = p
}

// SetMainCamera selects the camera worlds push to the renderer. nil clears it.
func (ctx *Context) SetMainCamera(c CameraView) {
	ctx.camera = c
}

func (ctx *Context) MainCamera() CameraView {
	return ctx.camera
}

// Construct binds c to the context: it subscribes OnPhysicsUpdate, registers
// c as an orphan and runs OnInit. Constructing a component twice panics.
func (ctx *Context) Construct(c Component) {
	b := c.base()
	if b.ctx != nil {
		panic(fmt.Sprintf("component %T constructed twice", c))
	}
	b.ctx = ctx
	b.self = c
	b.physics = ctx.events.PhysicsUpdate.AddListener(c.OnPhysicsUpdate)
	ctx.orphans[c] = struct{}{}
	c.OnInit()
}

// New allocates and constructs a T.
func New[T any, PT interface {
	*T
	Component
}](ctx *Context) PT {
	c := PT(new(T))
	ctx.Construct(c)
	return c
}

// OrphanCount reports how many live components have no owner.
func (ctx *Context) OrphanCount() int {
	return len(ctx.orphans)
}

func (ctx *Context) isOrphan(c Component) bool {
	_, ok := ctx.orphans[c]
	return ok
}

func (ctx *Context) orphan(c Component) {
	if !c.base().destroyed {
		ctx.orphans[c] = struct{}{}
	}
}

func (ctx *Context) adopt(c Component)  { delete(ctx.orphans, c) }
func (ctx *Context) forget(c Component) { delete(ctx.orphans, c) }

// Close destroys every world, then reports and destroys components that were
// never destroyed by their users. Physics-update subscriptions still present
// after that belong to components owned by entities outside any world.
func (ctx *Context) Close() {
	if ctx.closed {
		return
	}
	ctx.closed = true
	ctx.worlds.close()

	if n := len(ctx.orphans); n > 0 {
		ctx.log.Warn("orphan components leaked", zap.Int("count", n))
		for c := range ctx.orphans {
			ctx.log.Debug("destroying leaked orphan", zap.String("type", fmt.Sprintf("%T", c)))
			c.base().Destroy()
		}
	}
	if n := ctx.events.PhysicsUpdate.ListenerCount(); n > 0 {
		ctx.log.Warn("physics update subscriptions outlive context", zap.Int("count", n))
	}
	ctx.camera = nil
}
