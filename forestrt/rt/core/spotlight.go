package core

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// SpotLightState is the flashlight carried by the camera.
type SpotLightState struct {
	Position  mgl32.Vec3
	Direction mgl32.Vec3
	Ambient   mgl32.Vec3
	Diffuse   mgl32.Vec3
	Specular  mgl32.Vec3

	Constant  float32
	Linear    float32
	Quadratic float32

	// Cosines of the inner and outer cone half-angles.
	CutOff      float32
	OuterCutOff float32

	On bool
}

func NewSpotLight(innerDeg, outerDeg float32) SpotLightState {
	return SpotLightState{
		Ambient:     mgl32.Vec3{0, 0, 0},
		Diffuse:     mgl32.Vec3{1, 1, 1},
		Specular:    mgl32.Vec3{1, 1, 1},
		Constant:    1.0,
		Linear:      0.09,
		Quadratic:   0.032,
		CutOff:      math32.Cos(mgl32.DegToRad(innerDeg)),
		OuterCutOff: math32.Cos(mgl32.DegToRad(outerDeg)),
	}
}

// Toggle flips the flashlight and returns the new value.
func (s *SpotLightState) Toggle() bool {
	s.On = !s.On
	return s.On
}

// Aim mirrors the camera pose.
func (s *SpotLightState) Aim(position, front mgl32.Vec3) {
	s.Position = position
	s.Direction = front
}
