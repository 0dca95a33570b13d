package forest

import (
	"github.com/gekko3d/forest/forestrt/rt/core"
)

// FlyingCameraModule moves the scene camera with WASD and turns it with the
// mouse while the cursor is captured.
type FlyingCameraModule struct{}

func (m FlyingCameraModule) Install(app *App, cmd *Commands) {
	app.UseSystem(
		System(flyingCameraMoveSystem).
			InStage(Update).
			InState(OnExecute(StateRunning)),
	)
	app.UseSystem(
		System(flyingCameraLookSystem).
			InStage(Update).
			InState(OnExecute(StateRunning)),
	)
}

var cameraKeys = []struct {
	key Key
	dir core.CameraMovement
}{
	{KeyW, core.Forward},
	{KeyS, core.Backward},
	{KeyA, core.Left},
	{KeyD, core.Right},
}

func flyingCameraMoveSystem(input *Input, t *Time, scene *SceneState) {
	dt := t.DtSeconds()
	if dt <= 0 {
		return
	}
	for _, k := range cameraKeys {
		if input.Frame.Pressed(k.key) {
			scene.Camera.ProcessKeyboard(k.dir, dt)
		}
	}
}

func flyingCameraLookSystem(input *Input, scene *SceneState) {
	x, y := input.Frame.MouseX, input.Frame.MouseY

	// The overlay owns the cursor. Re-seed on return so the camera does not jump.
	if scene.Overlay {
		scene.FirstMouse = true
		return
	}
	if scene.FirstMouse {
		scene.LastX, scene.LastY = x, y
		scene.FirstMouse = false
		return
	}

	xOffset := float32(x - scene.LastX)
	yOffset := float32(scene.LastY - y)
	scene.LastX, scene.LastY = x, y
	if xOffset == 0 && yOffset == 0 {
		return
	}
	scene.Camera.ProcessMouseMovement(xOffset, yOffset, true)
}
