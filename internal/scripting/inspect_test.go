package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspectFindsHooksAndProps(t *testing.T) {
	src := []byte(`
		local speed = self.props.speed or 1
		on_trigger = function(x, y, z) end

		function on_update(dt)
			if self.props["axis"] then
				self.rotate(speed * dt, 0, 1, 0)
			end
		end

		function on_upadte(dt) end
		function helper() return self.props.unused end
	`)
	info, err := Inspect("spin.lua", src)
	require.NoError(t, err)

	assert.Equal(t, "spin.lua", info.Name)
	assert.Equal(t, Hash(src), info.Hash)
	assert.Equal(t, []string{"on_trigger", "on_update"}, info.Hooks)
	assert.Equal(t, []string{"axis", "speed", "unused"}, info.Props)
	assert.Equal(t, []string{"on_upadte"}, info.Unknown)
}

func TestInspectIgnoresLocalsAndMethods(t *testing.T) {
	info, err := Inspect("x.lua", []byte(`
		local function on_update() end
		local t = {}
		function t:on_init() end
		function t.on_destroy() end
	`))
	require.NoError(t, err)
	assert.Empty(t, info.Hooks)
	assert.Empty(t, info.Unknown)
}

func TestInspectReportsSyntaxErrors(t *testing.T) {
	_, err := Inspect("broken.lua", []byte("function on_init("))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.lua")
}

func TestHashChangesWithSource(t *testing.T) {
	assert.Equal(t, Hash([]byte("a")), Hash([]byte("a")))
	assert.NotEqual(t, Hash([]byte("a")), Hash([]byte("b")))
	assert.Len(t, Hash(nil), 64)
}

func TestBundledScriptsLoad(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "..", "assets", "scripts", "*.lua"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	f := newFixture(t)
	for _, path := range files {
		t.Run(filepath.Base(path), func(t *testing.T) {
			src, err := os.ReadFile(path)
			require.NoError(t, err)
			info, err := Inspect(path, src)
			require.NoError(t, err)
			assert.NotEmpty(t, info.Hooks)
			assert.Empty(t, info.Unknown)

			e, _, s := f.scripted(t, "")
			require.NoError(t, s.Load(path))
			require.NoError(t, f.world.AddEntity(e))
			f.world.Update()
			assert.Empty(t, s.broken, "no hook should fail")
		})
	}
}
