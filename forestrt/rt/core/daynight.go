package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// DirectionalLightState is the sun. Direction is not unit length: during the
// day its magnitude follows the sun arc, at night it is exactly zero.
type DirectionalLightState struct {
	Direction mgl32.Vec3
	Ambient   mgl32.Vec3
	Diffuse   mgl32.Vec3
	Specular  mgl32.Vec3
}

// DayNightCycle maps elapsed seconds to a directional light.
// One full day lasts 2π·TimeScale seconds.
type DayNightCycle struct {
	TimeScale     float64 `yaml:"time_scale"`
	BaseIntensity float32 `yaml:"base_intensity"`
	Ambient       float32 `yaml:"ambient"`
}

func DefaultDayNightCycle() DayNightCycle {
	return DayNightCycle{
		TimeScale:     10,
		BaseIntensity: 0.5,
		Ambient:       0.2,
	}
}

// UpdateLight evaluates the default cycle at t seconds.
func UpdateLight(t float64) DirectionalLightState {
	return DefaultDayNightCycle().At(t)
}

// At evaluates the cycle. While sin(t/scale) > 0 the sun sweeps an arc with
// intensity proportional to the sine; otherwise the direction collapses to
// the zero vector and only ambient remains.
func (c DayNightCycle) At(t float64) DirectionalLightState {
	scale := c.TimeScale
	if scale == 0 {
		scale = 1
	}
	s, co := math.Sincos(t / scale)

	state := DirectionalLightState{
		Ambient: mgl32.Vec3{c.Ambient, c.Ambient, c.Ambient},
	}
	if s > 0 {
		k := c.BaseIntensity * float32(s)
		state.Direction = mgl32.Vec3{float32(-co), float32(-s), float32(co - 1)}
		state.Diffuse = mgl32.Vec3{k, k, k}
		state.Specular = mgl32.Vec3{k, k, k}
	}
	return state
}

// Daylight returns the 0..1 daylight factor at t, used to tint the sky.
func (c DayNightCycle) Daylight(t float64) float32 {
	scale := c.TimeScale
	if scale == 0 {
		scale = 1
	}
	s := math.Sin(t / scale)
	if s <= 0 {
		return 0
	}
	return float32(s)
}

func (l DirectionalLightState) IsNight() bool {
	return l.Direction == (mgl32.Vec3{})
}

// NormalizedDirection returns the unit direction, or zero at night.
func (l DirectionalLightState) NormalizedDirection() mgl32.Vec3 {
	if l.IsNight() {
		return mgl32.Vec3{}
	}
	return l.Direction.Normalize()
}
