package forest

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/forest/forestrt/rt/core"
)

// SceneState is the mutable per-run scene: camera, lights, toggles and the
// last cursor position. Systems receive it as a resource.
type SceneState struct {
	Camera   *core.CameraState
	Cycle    core.DayNightCycle
	Sun      core.DirectionalLightState
	Spot     core.SpotLightState
	Daylight float32

	Shininess  float32
	ClearColor [4]float32

	// Overlay shows the HUD and releases the cursor.
	Overlay bool

	LastX, LastY float64
	FirstMouse   bool
}

func NewSceneState(cfg Config) *SceneState {
	return &SceneState{
		Camera:     core.NewCameraState(mgl32.Vec3(cfg.Camera.Position)),
		Cycle:      cfg.Lighting.DayNight,
		Sun:        cfg.Lighting.DayNight.At(0),
		Spot:       core.NewSpotLight(cfg.Lighting.SpotInnerDeg, cfg.Lighting.SpotOuterDeg),
		Shininess:  cfg.Lighting.Shininess,
		ClearColor: cfg.Render.ClearColor,
		FirstMouse: true,
	}
}

// LightState is the directional light computed for the current frame.
func (s *SceneState) LightState() core.DirectionalLightState {
	return s.Sun
}

func (s *SceneState) SpotlightEnabled() bool {
	return s.Spot.On
}

// UpdateLights advances the day-night cycle to t seconds.
func (s *SceneState) UpdateLights(t float64) {
	s.Sun = s.Cycle.At(t)
	s.Daylight = s.Cycle.Daylight(t)
}

// AimSpotlight makes the flashlight follow the camera pose.
func (s *SceneState) AimSpotlight() {
	s.Spot.Aim(s.Camera.Position, s.Camera.Front)
}
