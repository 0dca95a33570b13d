package forest

// DayNightModule moves the sun from elapsed time. It runs in PreUpdate so
// every Update system sees this frame's light.
type DayNightModule struct{}

func (DayNightModule) Install(app *App, cmd *Commands) {
	app.UseSystem(
		System(dayNightSystem).
			InStage(PreUpdate).
			InState(OnExecute(StateRunning)),
	)
}

func dayNightSystem(t *Time, scene *SceneState) {
	scene.UpdateLights(t.Elapsed())
}
