package forest

import (
	"reflect"
)

type AppBuilder struct {
	app     *App
	modules []Module
}

func NewAppBuilder() *AppBuilder {
	ecs := MakeEcs()
	return &AppBuilder{app: &App{
		resources:        make(map[reflect.Type]any),
		systems:          make(map[string]map[State]map[statePhase][]systemFn),
		systemsStateless: make(map[string][]systemFn),
		ecs:              &ecs,
	}}
}

func (b *AppBuilder) UseStates(initialState State, finalState State) *AppBuilder {
	b.app.stateful = true
	b.app.initialState = initialState
	b.app.finalState = finalState
	return b
}

func (b *AppBuilder) UseModule(modules ...Module) *AppBuilder {
	b.modules = append(b.modules, modules...)
	return b
}

// Build lays out the default stages and installs modules in registration order.
func (b *AppBuilder) Build() *App {
	app := b.app
	app.build()

	commands := &Commands{app: app}
	for _, module := range b.modules {
		module.Install(app, commands)
	}
	return app
}

func (app *App) build() {
	app.state = app.initialState
	for _, stage := range defaultStages() {
		app.stages = append(app.stages, stage)
		app.initStatefulStage(stage)
	}
}

// UseModules installs modules into an already built app.
func (app *App) UseModules(modules ...Module) *App {
	commands := &Commands{app: app}
	for _, module := range modules {
		module.Install(app, commands)
	}
	return app
}
