// Package scripting runs Lua behaviours as components.
//
// A script is a Lua chunk that may define any of these globals:
//
//	on_init()                   after the chunk ran
//	on_world_add()              the entity joined a world
//	on_world_remove()           the entity left its world
//	on_update(dt)               every frame while in a world
//	on_physics_update(step)     every fixed physics step
//	on_trigger(x, y, z)         a trigger on the entity was touched
//	on_destroy()                the component is being destroyed
//
// The global `self` is the scripted entity; see api.go for what it offers.
package scripting

import (
	"errors"
	"fmt"
	"os"

	"lava/internal/assets"
	"lava/internal/engine"
	"lava/internal/physics"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

var ErrNoSource = errors.New("script has no source")

func init() {
	engine.RegisterComponent("LuaScript", func(ctx *engine.Context, props map[string]any) (engine.Component, error) {
		s := engine.New[LuaScript](ctx)
		path, _ := props["path"].(string)
		if path == "" {
			s.Destroy()
			return nil, ErrNoSource
		}
		if p, ok := props["props"].(map[string]any); ok {
			s.SetProps(p)
		}
		if err := s.Load(path); err != nil {
			s.Destroy()
			return nil, err
		}
		return s, nil
	})
}

// LuaScript is a component whose hooks are Lua functions. Each script has
// its own Lua state.
type LuaScript struct {
	engine.BaseComponent

	name   string
	vm     *lua.LState
	self   *lua.LTable
	broken map[string]bool
	log    *zap.Logger
}

func (s *LuaScript) OnInit() {
	s.log = s.Context().Logger().Named("lua")
	s.broken = make(map[string]bool)
	s.vm = lua.NewState()
	s.self = s.vm.NewTable()
	s.self.RawSetString("props", s.vm.NewTable())
	s.vm.SetGlobal("self", s.self)
	s.vm.SetGlobal("lava", s.apiTable())
	s.installSelf()
}

func (s *LuaScript) Capability() engine.Capability { return engine.CapScript }

// Name is the file or chunk name the script was loaded from.
func (s *LuaScript) Name() string { return s.name }

// SetProps exposes values to the script as self.props. Call before Load so
// the chunk sees them.
func (s *LuaScript) SetProps(props map[string]any) {
	t := s.vm.NewTable()
	for k, v := range props {
		t.RawSetString(k, toLua(s.vm, v))
	}
	s.self.RawSetString("props", t)
}

// Load runs the Lua file at path, then on_init. Relative paths go through
// the engine's script root when it has one.
func (s *LuaScript) Load(path string) error {
	if r, ok := s.Context().Native().(assets.ScriptResolver); ok {
		path = r.ScriptPath(path)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load script %s: %w", path, err)
	}
	return s.LoadString(path, string(src))
}

// LoadString runs src as the script body, then on_init.
func (s *LuaScript) LoadString(name, src string) error {
	s.name = name
	fn, err := s.vm.Load(stringReader(src), name)
	if err != nil {
		return fmt.Errorf("compile script %s: %w", name, err)
	}
	s.vm.Push(fn)
	if err := s.vm.PCall(0, lua.MultRet, nil); err != nil {
		return fmt.Errorf("run script %s: %w", name, err)
	}
	s.log.Debug("loaded lua script", zap.String("script", name))
	s.call("on_init")
	return nil
}

// Field returns a value the script stored on self.
func (s *LuaScript) Field(name string) lua.LValue {
	return s.self.RawGetString(name)
}

// call runs a hook if the script defines it. A hook that raises an error is
// logged once and not called again.
func (s *LuaScript) call(hook string, args ...lua.LValue) {
	if s.vm == nil || s.vm.IsClosed() || s.broken[hook] {
		return
	}
	fn := s.vm.GetGlobal(hook)
	if fn.Type() != lua.LTFunction {
		return
	}
	if err := s.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, args...); err != nil {
		s.broken[hook] = true
		s.log.Error("lua hook failed, disabling it",
			zap.String("script", s.name),
			zap.String("hook", hook),
			zap.Error(err))
	}
}

func (s *LuaScript) OnWorldAdd(w *engine.World)    { s.call("on_world_add") }
func (s *LuaScript) OnWorldRemove(w *engine.World) { s.call("on_world_remove") }

func (s *LuaScript) OnUpdate() {
	s.call("on_update", lua.LNumber(s.Context().Native().DeltaTime()))
}

func (s *LuaScript) OnPhysicsUpdate() {
	// Fixed steps arrive for every constructed component; only scripts in
	// a world take part.
	if s.World() == nil {
		return
	}
	s.call("on_physics_update", lua.LNumber(s.Context().Native().FixedDeltaTime()))
}

func (s *LuaScript) OnTrigger(info physics.CollisionInfo) {
	p := info.PointOfContact
	s.call("on_trigger", lua.LNumber(p.X), lua.LNumber(p.Y), lua.LNumber(p.Z))
}

func (s *LuaScript) OnDestroy() {
	s.call("on_destroy")
	s.vm.Close()
}

var _ physics.TriggerHandler = (*LuaScript)(nil)
