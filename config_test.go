package forest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 600, cfg.Window.Height)
	assert.Equal(t, "LearnOpenGL", cfg.Window.Title)
	assert.Equal(t, [3]float32{0, 0, 3}, cfg.Camera.Position)
	assert.Equal(t, float32(64), cfg.Lighting.Shininess)
	assert.Len(t, cfg.Scene.Notes, 5)
	assert.Equal(t, 10, cfg.Forest.Placement.Columns)
}

func TestDecodeConfig_OverridesDefaults(t *testing.T) {
	cfg, err := DecodeConfig(strings.NewReader(`
window:
  width: 1024
forest:
  trees: 42
  placement:
    jitter_radius: 1.5
render:
  renderer: headless
logging:
  encoding: json
`))
	require.NoError(t, err)

	assert.Equal(t, 1024, cfg.Window.Width)
	assert.Equal(t, 600, cfg.Window.Height, "unset fields keep defaults")
	assert.Equal(t, 42, cfg.Forest.Trees)
	assert.Equal(t, float32(1.5), cfg.Forest.Placement.JitterRadius)
	assert.Equal(t, float32(15), cfg.Forest.Placement.CellSize)
	assert.Equal(t, string(RendererHeadless), cfg.Render.Renderer)
	assert.Equal(t, "json", cfg.Logging.Encoding)
}

func TestDecodeConfig_Empty(t *testing.T) {
	cfg, err := DecodeConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestDecodeConfig_Malformed(t *testing.T) {
	_, err := DecodeConfig(strings.NewReader("window: [unterminated"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidConfig)
}

func TestConfigValidate_ReportsEveryProblem(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Window.Width = 0
	cfg.Forest.Trees = -1
	cfg.Lighting.SpotInnerDeg = 20
	cfg.Render.Renderer = "vulkan"

	err := cfg.Validate()
	require.ErrorIs(t, err, ErrInvalidConfig)
	for _, want := range []string{"window size", "tree count", "spot cone", `unknown renderer "vulkan"`} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestConfigValidate_SpotConeNeedsSoftEdge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Lighting.SpotInnerDeg = 15
	cfg.Lighting.SpotOuterDeg = 15

	err := cfg.Validate()
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "spot cone")
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forest.yaml")
	require.NoError(t, os.WriteFile(path, []byte("forest:\n  trees: 7\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Forest.Trees)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
