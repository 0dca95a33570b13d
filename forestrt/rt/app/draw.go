package app

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/forest/forestrt/rt/core"
)

type drawCall struct {
	Kind          core.MeshKind
	FirstInstance uint32
	Count         uint32
	Blended       bool
}

// buildDrawList packs one frame's instance matrices into a single buffer.
// Opaque calls come first; blended notes follow, farthest first.
func buildDrawList(scene core.StaticScene, treeModels []mgl32.Mat4, frame core.Frame) ([]mgl32.Mat4, []drawCall) {
	models := make([]mgl32.Mat4, 0, len(frame.VisibleTrees)+len(scene.Floors)+len(scene.Walls)+len(scene.Notes))
	var calls []drawCall

	push := func(kind core.MeshKind, blended bool, batch []mgl32.Mat4) {
		if len(batch) == 0 {
			return
		}
		calls = append(calls, drawCall{
			Kind:          kind,
			FirstInstance: uint32(len(models)),
			Count:         uint32(len(batch)),
			Blended:       blended,
		})
		models = append(models, batch...)
	}

	trees := make([]mgl32.Mat4, 0, len(frame.VisibleTrees))
	for _, i := range frame.VisibleTrees {
		if i >= 0 && i < len(treeModels) {
			trees = append(trees, treeModels[i])
		}
	}
	push(core.MeshTree, false, trees)
	push(core.MeshFloor, false, core.InstanceMatrices(scene.Floors))
	push(core.MeshWall, false, core.InstanceMatrices(scene.Walls))
	push(core.MeshNote, true, core.InstanceMatrices(core.SortBackToFront(frame.CameraPos, scene.Notes)))

	return models, calls
}

const profilerScale = 0.6

// hudItems appends the profiler overlay below the lowest line of the frame's
// own text. tr may be nil, in which case text has no measured height.
func hudItems(frame core.Frame, profiler *Profiler, tr *core.TextRenderer) []core.TextItem {
	if !frame.Debug || profiler == nil {
		return frame.Text
	}
	items := make([]core.TextItem, 0, len(frame.Text)+8)
	items = append(items, frame.Text...)

	y := float32(10)
	for _, item := range frame.Text {
		_, h := tr.MeasureText(item.Text, item.Scale)
		y = max(y, item.Position[1]+h+4)
	}
	_, lineHeight := tr.MeasureText("Ag", profilerScale)
	if lineHeight == 0 {
		lineHeight = 14
	}

	for _, line := range profiler.Lines() {
		items = append(items, core.TextItem{
			Text:     line,
			Position: [2]float32{10, y},
			Scale:    profilerScale,
			Color:    [4]float32{0.8, 0.9, 1, 1},
		})
		y += lineHeight
	}
	return items
}
