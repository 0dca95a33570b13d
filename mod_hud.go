package forest

import (
	"fmt"

	"github.com/gekko3d/forest/forestrt/rt/core"
)

const (
	hudLineHeight = 18
	hudScale      = 0.75
	fpsWindow     = 0.5 // seconds
)

// Hud is the text submitted with the next frame.
type Hud struct {
	Items []core.TextItem

	FPS        float32
	FrameMs    float32
	accumTime  float32
	accumCount int
}

// HudModule toggles the overlay on F1 and gathers on-screen text.
type HudModule struct{}

func (HudModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Hud{})
	app.UseSystem(
		System(overlayToggleSystem).
			InStage(Update).
			InState(OnExecute(StateRunning)),
	)
	app.UseSystem(
		System(hudSystem).
			InStage(PreRender).
			InState(OnExecute(StateRunning)),
	)
}

func overlayToggleSystem(input *Input, scene *SceneState) {
	if input.Frame.JustPressed(KeyF1) {
		scene.Overlay = !scene.Overlay
	}
	input.CaptureMouse = !scene.Overlay
}

func (h *Hud) sample(dt float32) {
	h.accumTime += dt
	h.accumCount++
	if h.accumTime >= fpsWindow {
		h.FPS = float32(h.accumCount) / h.accumTime
		h.FrameMs = 1000 * h.accumTime / float32(h.accumCount)
		h.accumTime = 0
		h.accumCount = 0
	}
}

func hudSystem(cmd *Commands, hud *Hud, t *Time, scene *SceneState) {
	hud.sample(t.DtSeconds())
	hud.Items = hud.Items[:0]

	MakeQuery1[TextComponent](cmd).Map(func(eid EntityId, text *TextComponent) bool {
		hud.Items = append(hud.Items, text.Item())
		return true
	})

	if !scene.Overlay {
		return
	}
	white := [4]float32{1, 1, 1, 1}
	for i, line := range overlayLines(hud, t, scene) {
		hud.Items = append(hud.Items, core.TextItem{
			Text:     line,
			Position: [2]float32{20, float32(50 + i*hudLineHeight)},
			Scale:    hudScale,
			Color:    white,
		})
	}
}

func overlayLines(hud *Hud, t *Time, scene *SceneState) []string {
	light := "Night"
	if !scene.Sun.IsNight() {
		light = fmt.Sprintf("Day, light %.2f", scene.Sun.Diffuse.X())
	}
	flashlight := "Flashlight off"
	if scene.SpotlightEnabled() {
		flashlight = "Flashlight on"
	}
	pos := scene.Camera.Position
	c := scene.ClearColor

	return []string{
		fmt.Sprintf("%.1f FPS (%.3f ms/frame)", hud.FPS, hud.FrameMs),
		fmt.Sprintf("Time %.1f s", t.Elapsed()),
		light,
		flashlight,
		fmt.Sprintf("Camera %.2f %.2f %.2f", pos.X(), pos.Y(), pos.Z()),
		fmt.Sprintf("Clear %.2f %.2f %.2f %.2f", c[0], c[1], c[2], c[3]),
	}
}
