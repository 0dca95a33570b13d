package core

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

type CameraMovement int

const (
	Forward CameraMovement = iota
	Backward
	Left
	Right
)

// CameraState is a Y-up fly camera driven by Euler angles in degrees.
type CameraState struct {
	Position mgl32.Vec3
	Front    mgl32.Vec3
	Up       mgl32.Vec3
	Right    mgl32.Vec3
	WorldUp  mgl32.Vec3

	Yaw         float32
	Pitch       float32
	Speed       float32
	Sensitivity float32
	Zoom        float32

	Near float32
	Far  float32
}

func NewCameraState(position mgl32.Vec3) *CameraState {
	c := &CameraState{
		Position:    position,
		WorldUp:     mgl32.Vec3{0, 1, 0},
		Yaw:         -90,
		Pitch:       0,
		Speed:       2.5,
		Sensitivity: 0.1,
		Zoom:        45,
		Near:        0.1,
		Far:         100,
	}
	c.updateVectors()
	return c
}

func (c *CameraState) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Front), c.Up)
}

// GetProjectionMatrix returns a GL-style (-1..1 depth) perspective matrix.
func (c *CameraState) GetProjectionMatrix(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(c.Zoom), aspect, c.Near, c.Far)
}

func (c *CameraState) ProcessKeyboard(direction CameraMovement, dt float32) {
	velocity := c.Speed * dt
	switch direction {
	case Forward:
		c.Position = c.Position.Add(c.Front.Mul(velocity))
	case Backward:
		c.Position = c.Position.Sub(c.Front.Mul(velocity))
	case Left:
		c.Position = c.Position.Sub(c.Right.Mul(velocity))
	case Right:
		c.Position = c.Position.Add(c.Right.Mul(velocity))
	}
}

// ProcessMouseMovement expects yOffset to already point up (screen y inverted).
func (c *CameraState) ProcessMouseMovement(xOffset, yOffset float32, constrainPitch bool) {
	c.Yaw += xOffset * c.Sensitivity
	c.Pitch += yOffset * c.Sensitivity

	if constrainPitch {
		c.Pitch = mgl32.Clamp(c.Pitch, -89, 89)
	}
	c.updateVectors()
}

func (c *CameraState) updateVectors() {
	yaw := mgl32.DegToRad(c.Yaw)
	pitch := mgl32.DegToRad(c.Pitch)
	front := mgl32.Vec3{
		math32.Cos(yaw) * math32.Cos(pitch),
		math32.Sin(pitch),
		math32.Sin(yaw) * math32.Cos(pitch),
	}
	c.Front = front.Normalize()
	c.Right = c.Front.Cross(c.WorldUp).Normalize()
	c.Up = c.Right.Cross(c.Front).Normalize()
}

// ExtractFrustum extracts the 6 planes of the frustum from the view-projection matrix.
// Returns planes in order: Left, Right, Bottom, Top, Near, Far.
// Plane is Ax + By + Cz + D = 0 with the normal pointing inside.
func (c *CameraState) ExtractFrustum(vp mgl32.Mat4) [6]mgl32.Vec4 {
	var planes [6]mgl32.Vec4
	row := func(r int) mgl32.Vec4 {
		return mgl32.Vec4{vp.At(r, 0), vp.At(r, 1), vp.At(r, 2), vp.At(r, 3)}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	planes[0] = r3.Add(r0)
	planes[1] = r3.Sub(r0)
	planes[2] = r3.Add(r1)
	planes[3] = r3.Sub(r1)
	planes[4] = r3.Add(r2)
	planes[5] = r3.Sub(r2)

	for i := range planes {
		length := planes[i].Vec3().Len()
		if length > 0 {
			planes[i] = planes[i].Mul(1.0 / length)
		}
	}
	return planes
}

// AABBInFrustum checks if an AABB is visible within the frustum defined by 6 planes.
func AABBInFrustum(aabb [2]mgl32.Vec3, planes [6]mgl32.Vec4) bool {
	for _, plane := range planes {
		// Most-inside corner; if even that is behind the plane, the box is out.
		var p mgl32.Vec3
		for k := 0; k < 3; k++ {
			if plane[k] > 0 {
				p[k] = aabb[1][k]
			} else {
				p[k] = aabb[0][k]
			}
		}
		if plane.Vec3().Dot(p)+plane[3] < 0 {
			return false
		}
	}
	return true
}

// CullTransforms returns the indices of transforms whose world box, built
// from a shared local box, intersects the frustum.
func CullTransforms(transforms []Transform, local [2]mgl32.Vec3, planes [6]mgl32.Vec4) []int {
	visible := make([]int, 0, len(transforms))
	for i, t := range transforms {
		if AABBInFrustum(t.WorldAABB(local), planes) {
			visible = append(visible, i)
		}
	}
	return visible
}
