package rlbackend

import (
	"fmt"
	"os"
	"strings"

	"lava/internal/native"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Built-in mesh names LoadMesh understands without a file.
const (
	MeshCube   = "builtin:cube"
	MeshSphere = "builtin:sphere"
	MeshPlane  = "builtin:plane"
)

// MaterialDef is the descriptor format for material files. Descriptors are
// JSON or YAML.
type MaterialDef struct {
	Name      string  `yaml:"name"`
	Color     string  `yaml:"color"`
	Texture   string  `yaml:"texture"`
	Metallic  float32 `yaml:"metallic"`
	Roughness float32 `yaml:"roughness"`
	Emissive  float32 `yaml:"emissive"`
}

// Color name mapping for materials
var colorByName = map[string]rl.Color{
	"Red":       rl.Red,
	"Blue":      rl.Blue,
	"Green":     rl.Green,
	"Purple":    rl.Purple,
	"Orange":    rl.Orange,
	"Yellow":    rl.Yellow,
	"Gold":      rl.Gold,
	"White":     rl.White,
	"Gray":      rl.Gray,
	"LightGray": rl.LightGray,
	"DarkGray":  rl.DarkGray,
	"Black":     rl.Black,
	"Pink":      rl.Pink,
	"Maroon":    rl.Maroon,
	"Brown":     rl.Brown,
	"Beige":     rl.Beige,
	"SkyBlue":   rl.SkyBlue,
	"DarkBlue":  rl.DarkBlue,
	"Lime":      rl.Lime,
	"DarkGreen": rl.DarkGreen,
}

// LookupColor returns a named colour or a #rrggbb colour, white otherwise.
func LookupColor(name string) rl.Color {
	if c, ok := colorByName[name]; ok {
		return c
	}
	var r, g, b uint8
	if n, _ := fmt.Sscanf(strings.TrimSpace(name), "#%02x%02x%02x", &r, &g, &b); n == 3 {
		return rl.Color{R: r, G: g, B: b, A: 255}
	}
	return rl.White
}

func ParseMaterialDef(data []byte) (MaterialDef, error) {
	def := MaterialDef{Color: "White", Roughness: 0.5}
	if err := yaml.Unmarshal(data, &def); err != nil {
		return MaterialDef{}, err
	}
	return def, nil
}

type material struct {
	name     string
	pipeline string
	color    rl.Color
	emissive float32
	mat      rl.Material
}

// Assets owns GPU resources. Loads need an open window; before that they
// fail with a zero handle.
type Assets struct {
	log   *zap.Logger
	ready func() bool
	next  uint64

	textures  map[native.TextureHandle]rl.Texture2D
	models    map[native.MeshHandle]rl.Model
	materials map[native.MaterialHandle]*material
	fallback  *material
}

func NewAssets(ready func() bool, log *zap.Logger) *Assets {
	if log == nil {
		log = zap.NewNop()
	}
	return &Assets{
		log:       log.Named("assets"),
		ready:     ready,
		textures:  make(map[native.TextureHandle]rl.Texture2D),
		models:    make(map[native.MeshHandle]rl.Model),
		materials: make(map[native.MaterialHandle]*material),
	}
}

func (a *Assets) id() uint64 {
	a.next++
	return a.next
}

func (a *Assets) usable(what, path string) bool {
	if a.ready != nil && !a.ready() {
		a.log.Warn("asset load before window open", zap.String("kind", what), zap.String("path", path))
		return false
	}
	return true
}

func (a *Assets) addTexture(tex rl.Texture2D, genMips bool) native.TextureHandle {
	if !rl.IsTextureValid(tex) {
		return 0
	}
	if genMips {
		rl.GenTextureMipmaps(&tex)
	}
	h := native.TextureHandle(a.id())
	a.textures[h] = tex
	return h
}

func (a *Assets) LoadTexture(path string, genMips bool) native.TextureHandle {
	if !a.usable("texture", path) {
		return 0
	}
	return a.addTexture(rl.LoadTexture(path), genMips)
}

// LoadTextureHDR relies on raylib loading .hdr files as float textures.
func (a *Assets) LoadTextureHDR(path string, genMips bool) native.TextureHandle {
	if !a.usable("hdr texture", path) {
		return 0
	}
	return a.addTexture(rl.LoadTexture(path), genMips)
}

func (a *Assets) TextureFromColor(c rl.Color) native.TextureHandle {
	if !a.usable("color texture", "") {
		return 0
	}
	img := rl.GenImageColor(1, 1, c)
	defer rl.UnloadImage(img)
	return a.addTexture(rl.LoadTextureFromImage(img), false)
}

func (a *Assets) LoadMesh(path string) native.MeshHandle {
	if !a.usable("mesh", path) {
		return 0
	}
	var model rl.Model
	switch {
	case strings.HasSuffix(path, MeshCube):
		model = rl.LoadModelFromMesh(rl.GenMeshCube(1, 1, 1))
	case strings.HasSuffix(path, MeshSphere):
		model = rl.LoadModelFromMesh(rl.GenMeshSphere(0.5, 16, 16))
	case strings.HasSuffix(path, MeshPlane):
		model = rl.LoadModelFromMesh(rl.GenMeshPlane(1, 1, 1, 1))
	default:
		model = rl.LoadModel(path)
	}
	if !rl.IsModelValid(model) || model.MeshCount == 0 {
		return 0
	}
	h := native.MeshHandle(a.id())
	a.models[h] = model
	return h
}

func (a *Assets) newMaterial(name, pipeline string) native.MaterialHandle {
	h := native.MaterialHandle(a.id())
	a.materials[h] = &material{
		name:     name,
		pipeline: pipeline,
		color:    rl.White,
		mat:      rl.LoadMaterialDefault(),
	}
	return h
}

// NewMaterial creates a default-shaded material. raylib has no pipeline
// objects; the name is kept for the overlay.
func (a *Assets) NewMaterial(pipeline string) native.MaterialHandle {
	if !a.usable("material", pipeline) {
		return 0
	}
	return a.newMaterial(pipeline, pipeline)
}

func (a *Assets) LoadMaterial(descriptorPath string) native.MaterialHandle {
	if !a.usable("material", descriptorPath) {
		return 0
	}
	data, err := os.ReadFile(descriptorPath)
	if err != nil {
		a.log.Warn("material descriptor", zap.Error(err))
		return 0
	}
	def, err := ParseMaterialDef(data)
	if err != nil {
		a.log.Warn("material descriptor", zap.String("path", descriptorPath), zap.Error(err))
		return 0
	}
	h := a.newMaterial(def.Name, "")
	m := a.materials[h]
	m.color = LookupColor(def.Color)
	m.emissive = def.Emissive
	if def.Texture != "" {
		a.SetMaterialTexture(h, 0, a.LoadTexture(def.Texture, true))
	}
	return h
}

// SetMaterialTexture binds tex to map slot (0 is albedo).
func (a *Assets) SetMaterialTexture(m native.MaterialHandle, slot int, tex native.TextureHandle) {
	mat, ok := a.materials[m]
	t, tok := a.textures[tex]
	if !ok || !tok {
		a.log.Warn("material texture on unknown handle",
			zap.Uint64("material", uint64(m)), zap.Uint64("texture", uint64(tex)))
		return
	}
	rl.SetMaterialTexture(&mat.mat, int32(rl.MapAlbedo+slot), t)
}

// Unload frees every GPU resource.
func (a *Assets) Unload() {
	for _, m := range a.models {
		rl.UnloadModel(m)
	}
	for _, t := range a.textures {
		rl.UnloadTexture(t)
	}
	clear(a.models)
	clear(a.textures)
	clear(a.materials)
}

var _ native.Assets = (*Assets)(nil)
