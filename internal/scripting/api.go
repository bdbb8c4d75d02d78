package scripting

import (
	"io"
	"strings"

	"lava/internal/components"
	"lava/internal/engine"
	"lava/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

var namedKeys = map[string]int32{
	"SPACE":         rl.KeySpace,
	"ESCAPE":        rl.KeyEscape,
	"ENTER":         rl.KeyEnter,
	"TAB":           rl.KeyTab,
	"LEFT":          rl.KeyLeft,
	"RIGHT":         rl.KeyRight,
	"UP":            rl.KeyUp,
	"DOWN":          rl.KeyDown,
	"LEFT_SHIFT":    rl.KeyLeftShift,
	"LEFT_CONTROL":  rl.KeyLeftControl,
	"RIGHT_SHIFT":   rl.KeyRightShift,
	"RIGHT_CONTROL": rl.KeyRightControl,
}

// keyCode accepts a raylib key code, a single letter or digit, or one of
// namedKeys. It returns -1 for anything else.
func keyCode(v lua.LValue) int32 {
	switch k := v.(type) {
	case lua.LNumber:
		return int32(k)
	case lua.LString:
		name := strings.ToUpper(string(k))
		if code, ok := namedKeys[name]; ok {
			return code
		}
		if len(name) == 1 && (name[0] >= 'A' && name[0] <= 'Z' || name[0] >= '0' && name[0] <= '9') {
			return int32(name[0])
		}
	}
	return -1
}

// apiTable builds the `lava` global.
func (s *LuaScript) apiTable() *lua.LTable {
	ctx := s.Context()
	return s.vm.SetFuncs(s.vm.NewTable(), map[string]lua.LGFunction{
		"log": func(L *lua.LState) int {
			s.log.Info(L.CheckString(1), zap.String("script", s.name))
			return 0
		},
		"time": func(L *lua.LState) int {
			L.Push(lua.LNumber(ctx.Native().Time()))
			return 1
		},
		"dt": func(L *lua.LState) int {
			L.Push(lua.LNumber(ctx.Native().DeltaTime()))
			return 1
		},
		"key_down": func(L *lua.LState) int {
			code := keyCode(L.CheckAny(1))
			L.Push(lua.LBool(code >= 0 && ctx.Native().KeyDown(code)))
			return 1
		},
		"key_pressed": func(L *lua.LState) int {
			code := keyCode(L.CheckAny(1))
			L.Push(lua.LBool(code >= 0 && ctx.Native().KeyPressed(code)))
			return 1
		},
	})
}

// installSelf adds the entity functions to the `self` table. Each one looks
// the owner up at call time, so the script keeps working across owner
// changes and does nothing while orphaned.
func (s *LuaScript) installSelf() {
	s.vm.SetFuncs(s.self, map[string]lua.LGFunction{
		"name": func(L *lua.LState) int {
			if e := s.Owner(); e != nil {
				L.Push(lua.LString(e.Name))
			} else {
				L.Push(lua.LNil)
			}
			return 1
		},
		"position": func(L *lua.LState) int {
			t, ok := s.transform()
			if !ok {
				return 0
			}
			p := t.Position()
			L.Push(lua.LNumber(p.X))
			L.Push(lua.LNumber(p.Y))
			L.Push(lua.LNumber(p.Z))
			return 3
		},
		"set_position": func(L *lua.LState) int {
			if t, ok := s.transform(); ok {
				t.SetPosition(checkVec3(L, 1))
			}
			return 0
		},
		"translate": func(L *lua.LState) int {
			if t, ok := s.transform(); ok {
				t.SetPosition(rl.Vector3Add(t.Position(), checkVec3(L, 1)))
			}
			return 0
		},
		"rotate": func(L *lua.LState) int {
			deg := float32(L.CheckNumber(1))
			axis := checkVec3(L, 2)
			if rl.Vector3Length(axis) == 0 {
				L.ArgError(2, "zero rotation axis")
				return 0
			}
			if t, ok := s.transform(); ok {
				q := rl.QuaternionFromAxisAngle(rl.Vector3Normalize(axis), deg*rl.Deg2rad)
				t.SetRotation(rl.QuaternionNormalize(rl.QuaternionMultiply(q, t.Rotation())))
			}
			return 0
		},
		"apply_force": func(L *lua.LState) int {
			rb, ok := s.rigidBody()
			if !ok {
				L.Push(lua.LFalse)
				return 1
			}
			if err := rb.ApplyForceToCenterOfMass(checkVec3(L, 1)); err != nil {
				L.Push(lua.LFalse)
				L.Push(lua.LString(err.Error()))
				return 2
			}
			L.Push(lua.LTrue)
			return 1
		},
		"play": func(L *lua.LState) int {
			if a, ok := s.clip(); ok {
				a.Play()
			}
			return 0
		},
		"stop": func(L *lua.LState) int {
			if a, ok := s.clip(); ok {
				a.Stop()
			}
			return 0
		},
	})
}

func (s *LuaScript) transform() (engine.Posed, bool) {
	e := s.Owner()
	if e == nil {
		return nil, false
	}
	return e.Transform()
}

func (s *LuaScript) rigidBody() (*physics.RigidBody, bool) {
	e := s.Owner()
	if e == nil {
		return nil, false
	}
	return engine.GetComponent[*physics.RigidBody](e)
}

func (s *LuaScript) clip() (*components.AudioClip, bool) {
	e := s.Owner()
	if e == nil {
		return nil, false
	}
	return engine.GetComponent[*components.AudioClip](e)
}

func checkVec3(L *lua.LState, first int) rl.Vector3 {
	return rl.Vector3{
		X: float32(L.CheckNumber(first)),
		Y: float32(L.CheckNumber(first + 1)),
		Z: float32(L.CheckNumber(first + 2)),
	}
}

// toLua converts scene property values. Unknown types become nil.
func toLua(L *lua.LState, v any) lua.LValue {
	switch x := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(x)
	case string:
		return lua.LString(x)
	case int:
		return lua.LNumber(x)
	case int64:
		return lua.LNumber(x)
	case float32:
		return lua.LNumber(x)
	case float64:
		return lua.LNumber(x)
	case []any:
		t := L.NewTable()
		for _, item := range x {
			t.Append(toLua(L, item))
		}
		return t
	case map[string]any:
		t := L.NewTable()
		for k, item := range x {
			t.RawSetString(k, toLua(L, item))
		}
		return t
	}
	return lua.LNil
}

func stringReader(src string) io.Reader { return strings.NewReader(src) }
