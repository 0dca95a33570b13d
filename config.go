package forest

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gekko3d/forest/forestrt/rt/core"
)

var ErrInvalidConfig = errors.New("invalid config")

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type CameraConfig struct {
	Position [3]float32 `yaml:"position"`
}

type ForestConfig struct {
	Trees     int                `yaml:"trees"`
	Placement core.PlacementSpec `yaml:"placement"`
}

type LightingConfig struct {
	DayNight     core.DayNightCycle `yaml:"day_night"`
	SpotInnerDeg float32            `yaml:"spot_inner_deg"`
	SpotOuterDeg float32            `yaml:"spot_outer_deg"`
	Shininess    float32            `yaml:"shininess"`
	ToastSeconds float32            `yaml:"toast_seconds"`
}

type AssetsConfig struct {
	TreeModel    string  `yaml:"tree_model"`
	TreeTexture  string  `yaml:"tree_texture"`
	FloorTexture string  `yaml:"floor_texture"`
	WallTexture  string  `yaml:"wall_texture"`
	NoteTexture  string  `yaml:"note_texture"`
	Font         string  `yaml:"font"`
	FontSize     float64 `yaml:"font_size"`
}

type SceneConfig struct {
	FloorHalf     float32      `yaml:"floor_half"`
	FloorY        float32      `yaml:"floor_y"`
	FloorUVRepeat float32      `yaml:"floor_uv_repeat"`
	FloorScale    float32      `yaml:"floor_scale"`
	WallHeight    float32      `yaml:"wall_height"`
	Notes         [][3]float32 `yaml:"notes"`
}

type RenderConfig struct {
	Renderer   string     `yaml:"renderer"`
	ClearColor [4]float32 `yaml:"clear_color"`
	SkyDay     [3]float32 `yaml:"sky_day"`
	SkyNight   [3]float32 `yaml:"sky_night"`
}

type LoggingConfig struct {
	Debug    bool   `yaml:"debug"`
	Encoding string `yaml:"encoding"`
}

// Config is the whole runtime configuration. Fields missing from a file keep
// their DefaultConfig value.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Camera   CameraConfig   `yaml:"camera"`
	Forest   ForestConfig   `yaml:"forest"`
	Lighting LightingConfig `yaml:"lighting"`
	Assets   AssetsConfig   `yaml:"assets"`
	Scene    SceneConfig    `yaml:"scene"`
	Render   RenderConfig   `yaml:"render"`
	Logging  LoggingConfig  `yaml:"logging"`
}

func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{Width: 800, Height: 600, Title: "LearnOpenGL"},
		Camera: CameraConfig{Position: [3]float32{0, 0, 3}},
		Forest: ForestConfig{
			Trees:     100,
			Placement: core.DefaultPlacementSpec(),
		},
		Lighting: LightingConfig{
			DayNight:     core.DefaultDayNightCycle(),
			SpotInnerDeg: 12.5,
			SpotOuterDeg: 15,
			Shininess:    64,
			ToastSeconds: 1.5,
		},
		Assets: AssetsConfig{
			TreeModel:    "resources/objects/Tree3/Tree.obj",
			TreeTexture:  "resources/objects/Tree3/Tree.png",
			FloorTexture: "resources/textures/Plants/bottom.jpg",
			WallTexture:  "resources/textures/Plants/bottom.jpg",
			NoteTexture:  "resources/textures/grass.png",
			FontSize:     18,
		},
		Scene: SceneConfig{
			FloorHalf:     5,
			FloorY:        -0.2,
			FloorUVRepeat: 5,
			FloorScale:    20,
			WallHeight:    20,
			Notes: [][3]float32{
				{-1.5, -3, -0.48},
				{1.5, -3, 0.51},
				{0, -3, 0.7},
				{-0.3, -3, -2.3},
				{0.5, -3, -0.6},
			},
		},
		Render: RenderConfig{
			Renderer:   string(RendererWGPU),
			ClearColor: [4]float32{0, 0, 0, 1},
			SkyDay:     [3]float32{0.45, 0.65, 0.9},
			SkyNight:   [3]float32{0.01, 0.01, 0.04},
		},
		Logging: LoggingConfig{Encoding: "console"},
	}
}

// LoadConfig reads a YAML file over DefaultConfig and validates the result.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()

	cfg, err := DecodeConfig(f)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func DecodeConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Forest.Trees < 0 {
		errs = append(errs, fmt.Errorf("tree count %d is negative", c.Forest.Trees))
	}
	if c.Forest.Placement.Columns <= 0 {
		errs = append(errs, fmt.Errorf("placement columns %d must be positive", c.Forest.Placement.Columns))
	}
	if c.Forest.Placement.CellSize <= 0 {
		errs = append(errs, fmt.Errorf("placement cell size %v must be positive", c.Forest.Placement.CellSize))
	}
	if c.Lighting.DayNight.TimeScale <= 0 {
		errs = append(errs, fmt.Errorf("day-night time scale %v must be positive", c.Lighting.DayNight.TimeScale))
	}
	if c.Lighting.SpotInnerDeg <= 0 || c.Lighting.SpotInnerDeg >= c.Lighting.SpotOuterDeg || c.Lighting.SpotOuterDeg >= 90 {
		errs = append(errs, fmt.Errorf("spot cone %v..%v must satisfy 0 < inner < outer < 90", c.Lighting.SpotInnerDeg, c.Lighting.SpotOuterDeg))
	}
	if c.Assets.FontSize <= 0 {
		errs = append(errs, fmt.Errorf("font size %v must be positive", c.Assets.FontSize))
	}
	switch RendererName(c.Render.Renderer) {
	case RendererWGPU, RendererHeadless:
	default:
		errs = append(errs, fmt.Errorf("unknown renderer %q", c.Render.Renderer))
	}
	switch c.Logging.Encoding {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log encoding %q", c.Logging.Encoding))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
