package forest

import (
	"fmt"

	rtapp "github.com/gekko3d/forest/forestrt/rt/app"
)

// RendererName identifies a concrete renderer.
type RendererName string

const (
	RendererWGPU     RendererName = "wgpu"
	RendererHeadless RendererName = "headless"
)

// NewRenderer builds the named renderer. The wgpu renderer needs a window.
func NewRenderer(name RendererName, ws *WindowState, cfg Config, logger Logger) (SceneRenderer, error) {
	switch name {
	case RendererHeadless:
		return NewHeadlessRenderer(0), nil
	case RendererWGPU:
		if ws == nil {
			return nil, fmt.Errorf("renderer %s needs a window", name)
		}
		r := rtapp.NewApp(ws.Glfw(), logger)
		r.FontPath = cfg.Assets.Font
		r.FontSize = cfg.Assets.FontSize
		if err := r.Init(); err != nil {
			r.Release()
			return nil, fmt.Errorf("init %s renderer: %w", name, err)
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown renderer %q", name)
	}
}

// UseRenderer installs exactly one renderer module.
func (app *App) UseRenderer(name RendererName, r SceneRenderer, debug bool) *App {
	ensureSingleRenderer(app, string(name))
	app.Logger().Infof("Renderer selected: %s", name)
	app.UseModules(RenderModule{Renderer: r, Debug: debug})
	return app
}
