package forest

import (
	"github.com/gekko3d/forest/forestrt/rt/core"
)

// TransformComponent places a static prop in world space.
type TransformComponent struct {
	core.Transform
}

// MeshComponent selects which shared mesh and material draw the entity.
// Order keeps instances of one kind in spawn order.
type MeshComponent struct {
	Kind  core.MeshKind
	Order int
}
