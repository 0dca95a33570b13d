package forest

import (
	"fmt"
	"reflect"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// WindowState owns the GLFW window. It must only be touched from the thread
// that created it.
type WindowState struct {
	windowGlfw   *glfw.Window
	WindowWidth  int
	WindowHeight int
	windowTitle  string
}

func createWindowState(width int, height int, title string) (*WindowState, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("init glfw: %w", err)
	}

	// The surface is driven by WebGPU, not a GL context.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}

	return &WindowState{
		windowGlfw:   win,
		WindowWidth:  width,
		WindowHeight: height,
		windowTitle:  title,
	}, nil
}

// Glfw exposes the native window for surface creation.
func (s *WindowState) Glfw() *glfw.Window {
	return s.windowGlfw
}

func (s *WindowState) Title() string {
	return s.windowTitle
}

// Poll pumps the event queue and samples keyboard, cursor and window state.
func (s *WindowState) Poll() RawInput {
	glfw.PollEvents()

	var raw RawInput
	for key, glfwKey := range keyToGlfw {
		raw.Keys[key] = s.windowGlfw.GetKey(glfwKey) == glfw.Press
	}
	raw.MouseX, raw.MouseY = s.windowGlfw.GetCursorPos()
	raw.CloseRequested = s.windowGlfw.ShouldClose()
	raw.Width, raw.Height = s.windowGlfw.GetFramebufferSize()

	s.WindowWidth, s.WindowHeight = s.windowGlfw.GetSize()
	return raw
}

func (s *WindowState) SetCursorCaptured(captured bool) {
	if captured {
		s.windowGlfw.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	} else {
		s.windowGlfw.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	}
}

func (s *WindowState) Close() {
	s.windowGlfw.SetShouldClose(true)
}

func (s *WindowState) Destroy() {
	s.windowGlfw.Destroy()
	glfw.Terminate()
}

// PlatformWindowModule provides the single shared WindowState resource.
// Install is a no-op if one already exists.
type PlatformWindowModule struct {
	Width  int
	Height int
	Title  string
}

func NewPlatformWindow(width, height int, title string) *PlatformWindowModule {
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 600
	}
	if title == "" {
		title = "Forest"
	}
	return &PlatformWindowModule{Width: width, Height: height, Title: title}
}

func (m PlatformWindowModule) Install(app *App, cmd *Commands) {
	if _, ok := app.resources[reflect.TypeFor[WindowState]()]; ok {
		return
	}

	ws, err := createWindowState(m.Width, m.Height, m.Title)
	if err != nil {
		panic(err)
	}
	app.addResources(ws)
	app.UseSystem(
		System(windowTeardownSystem).
			InStage(Finale).
			InState(OnExit(app.finalState)),
	)
}

func windowTeardownSystem(ws *WindowState) {
	ws.Destroy()
}
