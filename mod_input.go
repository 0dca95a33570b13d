package forest

import (
	"reflect"

	"github.com/go-gl/glfw/v3.3/glfw"
)

type Key int

const (
	KeyA Key = iota
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	KeySpace
	KeyEnter
	KeyEscape
	KeyTab
	KeyRight
	KeyLeft
	KeyDown
	KeyUp
	KeyF1
	KeyF2
	KeyF3
	KeyShift
	KeyControl
	keyCount
)

var keyToGlfw = map[Key]glfw.Key{
	KeyA:       glfw.KeyA,
	KeyB:       glfw.KeyB,
	KeyC:       glfw.KeyC,
	KeyD:       glfw.KeyD,
	KeyE:       glfw.KeyE,
	KeyF:       glfw.KeyF,
	KeyG:       glfw.KeyG,
	KeyH:       glfw.KeyH,
	KeyI:       glfw.KeyI,
	KeyJ:       glfw.KeyJ,
	KeyK:       glfw.KeyK,
	KeyL:       glfw.KeyL,
	KeyM:       glfw.KeyM,
	KeyN:       glfw.KeyN,
	KeyO:       glfw.KeyO,
	KeyP:       glfw.KeyP,
	KeyQ:       glfw.KeyQ,
	KeyR:       glfw.KeyR,
	KeyS:       glfw.KeyS,
	KeyT:       glfw.KeyT,
	KeyU:       glfw.KeyU,
	KeyV:       glfw.KeyV,
	KeyW:       glfw.KeyW,
	KeyX:       glfw.KeyX,
	KeyY:       glfw.KeyY,
	KeyZ:       glfw.KeyZ,
	KeySpace:   glfw.KeySpace,
	KeyEnter:   glfw.KeyEnter,
	KeyEscape:  glfw.KeyEscape,
	KeyTab:     glfw.KeyTab,
	KeyRight:   glfw.KeyRight,
	KeyLeft:    glfw.KeyLeft,
	KeyDown:    glfw.KeyDown,
	KeyUp:      glfw.KeyUp,
	KeyF1:      glfw.KeyF1,
	KeyF2:      glfw.KeyF2,
	KeyF3:      glfw.KeyF3,
	KeyShift:   glfw.KeyLeftShift,
	KeyControl: glfw.KeyLeftControl,
}

// RawInput is one sample of the platform: which keys are down right now,
// where the cursor is and whether the user asked to close the window.
type RawInput struct {
	Keys           [keyCount]bool
	MouseX, MouseY float64
	CloseRequested bool
	Width, Height  int
}

// InputSource is polled once per frame on the loop thread.
type InputSource interface {
	Poll() RawInput
	SetCursorCaptured(captured bool)
}

// FrameInput is the immutable input snapshot for one frame.
type FrameInput struct {
	pressed      [keyCount]bool
	justPressed  [keyCount]bool
	justReleased [keyCount]bool

	MouseX, MouseY float64
	CloseRequested bool
	Width, Height  int
}

func (f FrameInput) Pressed(k Key) bool      { return f.pressed[k] }
func (f FrameInput) JustPressed(k Key) bool  { return f.justPressed[k] }
func (f FrameInput) JustReleased(k Key) bool { return f.justReleased[k] }

// NextFrameInput derives edge flags by comparing raw with the previous frame.
func NextFrameInput(prev FrameInput, raw RawInput) FrameInput {
	next := FrameInput{
		pressed:        raw.Keys,
		MouseX:         raw.MouseX,
		MouseY:         raw.MouseY,
		CloseRequested: raw.CloseRequested,
		Width:          raw.Width,
		Height:         raw.Height,
	}
	for k := range keyCount {
		next.justPressed[k] = raw.Keys[k] && !prev.pressed[k]
		next.justReleased[k] = !raw.Keys[k] && prev.pressed[k]
	}
	return next
}

// Input is the resource systems read the current frame from. Systems ask for
// cursor capture through CaptureMouse; it is applied on the next poll.
type Input struct {
	Frame        FrameInput
	CaptureMouse bool

	source   InputSource
	captured bool
	applied  bool
}

// Poll samples the source and replaces Frame.
func (in *Input) Poll() FrameInput {
	if !in.applied || in.captured != in.CaptureMouse {
		in.source.SetCursorCaptured(in.CaptureMouse)
		in.captured = in.CaptureMouse
		in.applied = true
	}
	in.Frame = NextFrameInput(in.Frame, in.source.Poll())
	return in.Frame
}

// InputModule polls Source, or the WindowState resource when Source is nil.
type InputModule struct {
	Source InputSource
}

func (mod InputModule) Install(app *App, cmd *Commands) {
	source := mod.Source
	if source == nil {
		ws, ok := app.resources[reflect.TypeFor[WindowState]()]
		if !ok {
			panic("InputModule needs an InputSource or a WindowState resource")
		}
		source = ws.(*WindowState)
	}

	cmd.AddResources(&Input{source: source, CaptureMouse: true})
	app.UseSystem(
		System(inputSystem).
			InStage(PreUpdate).
			RunAlways(),
	)
}

func inputSystem(input *Input) {
	input.Poll()
}

// StaticInput is an InputSource with no user: nothing is ever pressed and the
// framebuffer keeps a fixed size. It drives headless runs.
type StaticInput struct {
	Width, Height int
}

func (s StaticInput) Poll() RawInput {
	return RawInput{Width: s.Width, Height: s.Height}
}

func (StaticInput) SetCursorCaptured(bool) {}
