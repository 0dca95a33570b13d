package core

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Transform places one instance in world space. Rotation is kept as a
// quaternion and the scale is uniform for every placed instance.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func NewTransform() Transform {
	return Transform{
		Position: mgl32.Vec3{0, 0, 0},
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

func (t Transform) ObjectToWorld() mgl32.Mat4 {
	// M = T * R * S
	translate := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	rotate := t.Rotation.Mat4()
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())

	return translate.Mul4(rotate).Mul4(scale)
}

// WorldAABB transforms a local-space box and returns the enclosing world box.
func (t Transform) WorldAABB(local [2]mgl32.Vec3) [2]mgl32.Vec3 {
	m := t.ObjectToWorld()
	inf := float32(math32.MaxFloat32)
	minV := mgl32.Vec3{inf, inf, inf}
	maxV := mgl32.Vec3{-inf, -inf, -inf}
	for i := 0; i < 8; i++ {
		corner := mgl32.Vec3{
			local[i&1][0],
			local[(i>>1)&1][1],
			local[(i>>2)&1][2],
		}
		w := m.Mul4x1(corner.Vec4(1)).Vec3()
		for k := 0; k < 3; k++ {
			if w[k] < minV[k] {
				minV[k] = w[k]
			}
			if w[k] > maxV[k] {
				maxV[k] = w[k]
			}
		}
	}
	return [2]mgl32.Vec3{minV, maxV}
}
