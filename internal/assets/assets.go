// Package assets resolves asset paths against the configured roots and
// caches what the native engine loads, so every caller asking for the same
// file gets the same handle.
package assets

import (
	"path/filepath"
	"strings"

	"lava/internal/config"
	"lava/internal/native"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"
)

type textureKey struct {
	path string
	mips bool
	hdr  bool
}

// Library implements native.Assets on top of another native.Assets.
// Failed loads (zero handles) are logged and never cached.
type Library struct {
	native native.Assets
	paths  config.PathsConfig
	log    *zap.Logger

	textures  map[textureKey]native.TextureHandle
	colors    map[rl.Color]native.TextureHandle
	meshes    map[string]native.MeshHandle
	materials map[string]native.MaterialHandle
}

func NewLibrary(n native.Assets, paths config.PathsConfig, log *zap.Logger) *Library {
	if log == nil {
		log = zap.NewNop()
	}
	return &Library{
		native:    n,
		paths:     paths,
		log:       log.Named("assets"),
		textures:  make(map[textureKey]native.TextureHandle),
		colors:    make(map[rl.Color]native.TextureHandle),
		meshes:    make(map[string]native.MeshHandle),
		materials: make(map[string]native.MaterialHandle),
	}
}

// Resolve joins path onto root unless it is absolute or already under root.
func Resolve(root, path string) string {
	if root == "" || filepath.IsAbs(path) {
		return path
	}
	clean := filepath.Clean(path)
	if clean == filepath.Clean(root) || strings.HasPrefix(clean, filepath.Clean(root)+string(filepath.Separator)) {
		return clean
	}
	return filepath.Join(root, path)
}

func (l *Library) texture(key textureKey, load func(string, bool) native.TextureHandle) native.TextureHandle {
	if h, ok := l.textures[key]; ok {
		return h
	}
	h := load(key.path, key.mips)
	if h == 0 {
		l.log.Warn("texture failed to load", zap.String("path", key.path))
		return 0
	}
	l.textures[key] = h
	return h
}

func (l *Library) LoadTexture(path string, genMips bool) native.TextureHandle {
	key := textureKey{path: Resolve(l.paths.Textures, path), mips: genMips}
	return l.texture(key, l.native.LoadTexture)
}

func (l *Library) LoadTextureHDR(path string, genMips bool) native.TextureHandle {
	key := textureKey{path: Resolve(l.paths.Textures, path), mips: genMips, hdr: true}
	return l.texture(key, l.native.LoadTextureHDR)
}

// TextureFromColor returns a 1x1 texture of c, one per distinct colour.
func (l *Library) TextureFromColor(c rl.Color) native.TextureHandle {
	if h, ok := l.colors[c]; ok {
		return h
	}
	h := l.native.TextureFromColor(c)
	if h != 0 {
		l.colors[c] = h
	}
	return h
}

func (l *Library) LoadMesh(path string) native.MeshHandle {
	path = Resolve(l.paths.Models, path)
	if h, ok := l.meshes[path]; ok {
		return h
	}
	h := l.native.LoadMesh(path)
	if h == 0 {
		l.log.Warn("mesh failed to load", zap.String("path", path))
		return 0
	}
	l.meshes[path] = h
	return h
}

// NewMaterial always creates a fresh material so callers can set their own
// textures on it.
func (l *Library) NewMaterial(pipeline string) native.MaterialHandle {
	return l.native.NewMaterial(Resolve(l.paths.Pipelines, pipeline))
}

// LoadMaterial returns the shared material described by descriptorPath.
func (l *Library) LoadMaterial(descriptorPath string) native.MaterialHandle {
	path := Resolve(l.paths.Materials, descriptorPath)
	if h, ok := l.materials[path]; ok {
		return h
	}
	h := l.native.LoadMaterial(path)
	if h == 0 {
		l.log.Warn("material failed to load", zap.String("path", path))
		return 0
	}
	l.materials[path] = h
	return h
}

func (l *Library) SetMaterialTexture(m native.MaterialHandle, slot int, tex native.TextureHandle) {
	l.native.SetMaterialTexture(m, slot, tex)
}

// Len reports the number of cached handles.
func (l *Library) Len() int {
	return len(l.textures) + len(l.colors) + len(l.meshes) + len(l.materials)
}

var _ native.Assets = (*Library)(nil)

// cachedEngine routes the asset calls of an engine through a Library.
type cachedEngine struct {
	native.Engine
	lib *Library
}

// Wrap returns eng with its asset loading served by lib.
func Wrap(eng native.Engine, lib *Library) native.Engine {
	return cachedEngine{Engine: eng, lib: lib}
}

func (c cachedEngine) LoadTexture(path string, genMips bool) native.TextureHandle {
	return c.lib.LoadTexture(path, genMips)
}

func (c cachedEngine) LoadTextureHDR(path string, genMips bool) native.TextureHandle {
	return c.lib.LoadTextureHDR(path, genMips)
}

func (c cachedEngine) TextureFromColor(col rl.Color) native.TextureHandle {
	return c.lib.TextureFromColor(col)
}

func (c cachedEngine) LoadMesh(path string) native.MeshHandle { return c.lib.LoadMesh(path) }

func (c cachedEngine) NewMaterial(pipeline string) native.MaterialHandle {
	return c.lib.NewMaterial(pipeline)
}

func (c cachedEngine) LoadMaterial(descriptorPath string) native.MaterialHandle {
	return c.lib.LoadMaterial(descriptorPath)
}

// LoadSound resolves path but does not cache: each clip owns its sound so
// stopping one never silences another.
func (c cachedEngine) LoadSound(path string) native.SoundHandle {
	return c.Engine.LoadSound(Resolve(c.lib.paths.Sounds, path))
}

// ScriptResolver is implemented by engines returned from Wrap.
type ScriptResolver interface {
	ScriptPath(path string) string
}

// ScriptPath resolves path against the scripts root. Scripts are read by the
// caller, not by the engine.
func (c cachedEngine) ScriptPath(path string) string {
	return Resolve(c.lib.paths.Scripts, path)
}
