package forest

// FlashlightModule toggles the spotlight on F, shows a short toast and keeps
// the light aimed along the camera every frame.
type FlashlightModule struct{}

func (FlashlightModule) Install(app *App, cmd *Commands) {
	app.UseSystem(
		System(flashlightToggleSystem).
			InStage(Update).
			InState(OnExecute(StateRunning)),
	)
	app.UseSystem(
		System(flashlightAimSystem).
			InStage(PostUpdate).
			InState(OnExecute(StateRunning)),
	)
}

func flashlightToggleSystem(cmd *Commands, input *Input, scene *SceneState, cfg *Config) {
	if !input.Frame.JustPressed(KeyF) {
		return
	}

	text := "Flashlight off"
	if scene.Spot.Toggle() {
		text = "Flashlight on"
	}
	cmd.Logger().Debugf("%s", text)

	MakeQuery1[ToastComponent](cmd).Map(func(eid EntityId, _ *ToastComponent) bool {
		cmd.RemoveEntity(eid)
		return true
	})
	cmd.AddEntity(
		ToastComponent{},
		TextComponent{
			Text:     text,
			Position: [2]float32{20, 20},
			Scale:    1,
			Color:    [4]float32{1, 1, 0.6, 1},
		},
		LifetimeComponent{TimeLeft: cfg.Lighting.ToastSeconds},
	)
}

func flashlightAimSystem(scene *SceneState) {
	scene.AimSpotlight()
}
