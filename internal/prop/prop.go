// Package prop reads loosely typed component properties from scene files.
// YAML and TOML decode numbers as int or float64 depending on how they were
// written; every reader here accepts either and falls back to a default.
package prop

import rl "github.com/gen2brain/raylib-go/raylib"

func Number(v any) (float32, bool) {
	switch n := v.(type) {
	case float64:
		return float32(n), true
	case float32:
		return n, true
	case int:
		return float32(n), true
	case int64:
		return float32(n), true
	}
	return 0, false
}

func Float(props map[string]any, key string, def float32) float32 {
	if f, ok := Number(props[key]); ok {
		return f
	}
	return def
}

func Bool(props map[string]any, key string, def bool) bool {
	if b, ok := props[key].(bool); ok {
		return b
	}
	return def
}

func String(props map[string]any, key, def string) string {
	if s, ok := props[key].(string); ok {
		return s
	}
	return def
}

// Vec3 reads a three element list.
func Vec3(props map[string]any, key string, def rl.Vector3) rl.Vector3 {
	list, ok := props[key].([]any)
	if !ok || len(list) != 3 {
		return def
	}
	var out [3]float32
	for i, v := range list {
		f, ok := Number(v)
		if !ok {
			return def
		}
		out[i] = f
	}
	return rl.Vector3{X: out[0], Y: out[1], Z: out[2]}
}

// Color reads an RGB or RGBA list of 0-255 channels. Alpha defaults to 255.
func Color(props map[string]any, key string, def rl.Color) rl.Color {
	list, ok := props[key].([]any)
	if !ok || (len(list) != 3 && len(list) != 4) {
		return def
	}
	c := rl.Color{A: 255}
	ch := []*uint8{&c.R, &c.G, &c.B, &c.A}
	for i, v := range list {
		f, ok := Number(v)
		if !ok {
			return def
		}
		*ch[i] = uint8(f)
	}
	return c
}

// List returns the maps in a list property, skipping other elements.
func List(props map[string]any, key string) []map[string]any {
	raw, _ := props[key].([]any)
	var out []map[string]any
	for _, v := range raw {
		if m, ok := v.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}
