package forest

import (
	"slices"

	"github.com/gekko3d/forest/forestrt/rt/core"
)

// SceneRenderer draws a StaticScene uploaded once and a Frame per tick.
type SceneRenderer interface {
	Load(scene core.StaticScene) error
	RenderFrame(frame core.Frame) error
	Resize(width, height int)
	Release()
}

// RenderState is the renderer resource plus the frame synced for this tick.
type RenderState struct {
	Renderer SceneRenderer
	Frame    core.Frame
	Debug    bool

	loaded   bool
	rendered uint64
	failures uint64
}

// Rendered counts frames the renderer accepted.
func (rs *RenderState) Rendered() uint64 {
	return rs.rendered
}

type RenderModule struct {
	Renderer SceneRenderer
	Debug    bool
}

func (m RenderModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&RenderState{Renderer: m.Renderer, Debug: m.Debug})

	app.UseSystem(
		System(renderLoadSystem).
			InStage(Render).
			InState(OnEnter(StateRunning)),
	)
	app.UseSystem(
		System(renderSyncSystem).
			InStage(PreRender).
			InState(OnExecute(StateRunning)),
	)
	app.UseSystem(
		System(renderSystem).
			InStage(Render).
			InState(OnExecute(StateRunning)),
	)
	app.UseSystem(
		System(renderReleaseSystem).
			InStage(Render).
			InState(OnExit(StateExit)),
	)
}

func renderLoadSystem(cmd *Commands, rs *RenderState, forest *ForestScene) {
	if err := rs.Renderer.Load(forest.Static); err != nil {
		cmd.Logger().Errorf("renderer load: %v", err)
		cmd.ChangeState(StateExit)
		return
	}
	rs.loaded = true
}

// BuildFrame snapshots the scene for the renderer and culls trees against
// the camera frustum.
func BuildFrame(scene *SceneState, forest *ForestScene, t *Time, cfg *Config, width, height int) core.Frame {
	if width <= 0 || height <= 0 {
		width, height = cfg.Window.Width, cfg.Window.Height
	}
	aspect := float32(width) / float32(height)

	cam := scene.Camera
	view := cam.GetViewMatrix()
	proj := cam.GetProjectionMatrix(aspect)
	planes := cam.ExtractFrustum(proj.Mul4(view))

	return core.Frame{
		Index:        t.Frame,
		Elapsed:      t.Elapsed(),
		View:         view,
		Projection:   proj,
		CameraPos:    cam.Position,
		Sun:          scene.Sun,
		Spot:         scene.Spot,
		Shininess:    scene.Shininess,
		Daylight:     scene.Daylight,
		ClearColor:   scene.ClearColor,
		SkyDay:       cfg.Render.SkyDay,
		SkyNight:     cfg.Render.SkyNight,
		VisibleTrees: core.CullTransforms(forest.Static.Trees, forest.TreeBounds, planes),
	}
}

func renderSyncSystem(rs *RenderState, scene *SceneState, forest *ForestScene, t *Time, cfg *Config, input *Input, hud *Hud) {
	frame := BuildFrame(scene, forest, t, cfg, input.Frame.Width, input.Frame.Height)
	frame.Text = slices.Clone(hud.Items)
	frame.Debug = rs.Debug
	rs.Frame = frame
}

func renderSystem(cmd *Commands, rs *RenderState, input *Input) {
	if !rs.loaded {
		return
	}
	if input.Frame.Width > 0 && input.Frame.Height > 0 {
		rs.Renderer.Resize(input.Frame.Width, input.Frame.Height)
	}

	if err := rs.Renderer.RenderFrame(rs.Frame); err != nil {
		rs.failures++
		if rs.failures == 1 || rs.failures%300 == 0 {
			cmd.Logger().Warnf("render frame %d: %v (%d failures)", rs.Frame.Index, err, rs.failures)
		}
		return
	}
	rs.rendered++
}

func renderReleaseSystem(cmd *Commands, rs *RenderState) {
	cmd.Logger().Infof("releasing renderer after %d frames", rs.rendered)
	rs.Renderer.Release()
}
