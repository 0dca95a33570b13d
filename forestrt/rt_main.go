package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/gekko3d/forest"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults are used when empty)")
	debug := flag.Bool("debug", false, "Enable debug logging and renderer timings in the HUD")
	headless := flag.Bool("headless", false, "Run without a window, recording frames instead of drawing")
	frames := flag.Uint64("frames", 0, "Exit after this many frames (0 runs until closed)")
	trees := flag.Int("trees", -1, "Override the number of trees")
	flag.Parse()

	if err := run(*configPath, *debug, *headless, *frames, *trees); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string, debug, headless bool, frames uint64, trees int) error {
	cfg := forest.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = forest.LoadConfig(configPath); err != nil {
			return err
		}
	}
	if trees >= 0 {
		cfg.Forest.Trees = trees
	}
	if headless {
		cfg.Render.Renderer = string(forest.RendererHeadless)
	}

	logger, err := forest.NewDefaultLogger("forest", debug || cfg.Logging.Debug, cfg.Logging.Encoding)
	if err != nil {
		return err
	}
	defer logger.Sync()

	builder := forest.NewAppBuilder().
		UseStates(forest.StateLoading, forest.StateExit).
		UseModule(
			forest.LoggingModule{Logger: logger},
			forest.TimeModule{},
		)
	if headless {
		builder.UseModule(forest.InputModule{Source: forest.StaticInput{Width: cfg.Window.Width, Height: cfg.Window.Height}})
	} else {
		builder.UseModule(
			forest.NewPlatformWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title),
			forest.InputModule{},
		)
	}
	builder.UseModule(
		forest.AssetServerModule{},
		forest.ForestModule{Config: cfg, MaxFrames: frames},
		forest.DayNightModule{},
		forest.FlyingCameraModule{},
		forest.FlashlightModule{},
		forest.LifecycleModule{},
		forest.HudModule{},
	)
	app := builder.Build()

	name := forest.RendererName(cfg.Render.Renderer)
	renderer, err := forest.NewRenderer(name, forest.Resource[forest.WindowState](app), cfg, logger)
	if err != nil {
		return err
	}
	app.UseRenderer(name, renderer, debug)

	logger.Infof("forest: %d trees, renderer %s", cfg.Forest.Trees, name)
	app.Run()
	return nil
}
