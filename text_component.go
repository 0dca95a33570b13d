package forest

import (
	"github.com/gekko3d/forest/forestrt/rt/core"
)

type TextComponent struct {
	Text     string
	Position [2]float32 // Pixels, top-left
	Scale    float32
	Color    [4]float32
}

func (t TextComponent) Item() core.TextItem {
	return core.TextItem{Text: t.Text, Position: t.Position, Scale: t.Scale, Color: t.Color}
}

// ToastComponent marks the single transient status message.
type ToastComponent struct{}
