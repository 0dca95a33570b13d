package forest

import (
	rtapp "github.com/gekko3d/forest/forestrt/rt/app"
	"github.com/gekko3d/forest/forestrt/rt/core"
)

// HeadlessRenderer records what would have been drawn.
type HeadlessRenderer struct {
	Scene    core.StaticScene
	Loaded   bool
	Frames   []core.Frame
	Width    int
	Height   int
	Released bool

	// keep bounds Frames to the most recent entries; zero keeps all.
	keep int
}

func NewHeadlessRenderer(keep int) *HeadlessRenderer {
	return &HeadlessRenderer{keep: keep}
}

func (h *HeadlessRenderer) Load(scene core.StaticScene) error {
	for _, m := range []*core.Mesh{scene.Tree, scene.Floor, scene.Wall, scene.Note} {
		if err := m.Validate(); err != nil {
			return err
		}
	}
	h.Scene = scene
	h.Loaded = true
	return nil
}

func (h *HeadlessRenderer) RenderFrame(frame core.Frame) error {
	if !h.Loaded {
		return rtapp.ErrNotLoaded
	}
	h.Frames = append(h.Frames, frame)
	if h.keep > 0 && len(h.Frames) > h.keep {
		h.Frames = h.Frames[len(h.Frames)-h.keep:]
	}
	return nil
}

func (h *HeadlessRenderer) Resize(width, height int) {
	h.Width, h.Height = width, height
}

func (h *HeadlessRenderer) Release() {
	h.Released = true
	h.Loaded = false
}

// Last returns the most recent frame, if any.
func (h *HeadlessRenderer) Last() (core.Frame, bool) {
	if len(h.Frames) == 0 {
		return core.Frame{}, false
	}
	return h.Frames[len(h.Frames)-1], true
}
