package gpu

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"github.com/gekko3d/forest/forestrt/rt/core"
)

func TestUniformSizesMatchShaderStructs(t *testing.T) {
	assert.Len(t, ToBytes(CameraUniform{}), 80)
	assert.Len(t, ToBytes(LightsUniform{}), 11*16)
	assert.Len(t, ToBytes(SkyUniform{}), 48)
}

func TestDepthRemap_MapsGLDepthToUnitRange(t *testing.T) {
	near := DepthRemap.Mul4x1(mgl32.Vec4{0, 0, -1, 1})
	far := DepthRemap.Mul4x1(mgl32.Vec4{0, 0, 1, 1})
	assert.InDelta(t, 0, near.Z()/near.W(), 1e-6)
	assert.InDelta(t, 1, far.Z()/far.W(), 1e-6)
}

func TestNewCameraUniform(t *testing.T) {
	frame := core.Frame{
		View:       mgl32.Ident4(),
		Projection: mgl32.Ident4(),
		CameraPos:  mgl32.Vec3{1, 2, 3},
	}
	u := NewCameraUniform(frame)
	assert.Equal(t, [16]float32(DepthRemap), u.ViewProj)
	assert.Equal(t, [4]float32{1, 2, 3, 1}, u.ViewPos)
}

func TestNewLightsUniform(t *testing.T) {
	spot := core.NewSpotLight(12.5, 15)
	spot.Aim(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, -1})

	frame := core.Frame{
		Sun:       core.UpdateLight(5 * 3.14159265),
		Spot:      spot,
		Shininess: 64,
	}

	u := NewLightsUniform(frame)
	assert.Equal(t, float32(0), u.SpotParams[2], "flashlight starts off")
	assert.Equal(t, float32(64), u.SpotParams[1])
	assert.Equal(t, spot.OuterCutOff, u.SpotParams[0])
	assert.Equal(t, [4]float32{1, 0.09, 0.032, spot.CutOff}, u.SpotAttenuation)
	assert.Equal(t, [4]float32{0, 1, 0, 1}, u.SpotPosition)
	assert.Equal(t, float32(0), u.DirDirection[3])
	assert.InDelta(t, 1, mgl32.Vec3{u.DirDirection[0], u.DirDirection[1], u.DirDirection[2]}.Len(), 1e-5)
	assert.InDelta(t, 0.5, u.DirDiffuse[0], 1e-4)

	frame.Spot.Toggle()
	assert.Equal(t, float32(1), NewLightsUniform(frame).SpotParams[2])
}

func TestNewSkyUniform(t *testing.T) {
	frame := core.Frame{
		SkyDay:   [3]float32{0.5, 0.7, 0.9},
		SkyNight: [3]float32{0, 0, 0.05},
		Daylight: 0.25,
	}
	u := NewSkyUniform(frame)
	assert.Equal(t, [4]float32{0.5, 0.7, 0.9, 1}, u.Day)
	assert.Equal(t, [4]float32{0, 0, 0.05, 1}, u.Night)
	assert.Equal(t, float32(0.25), u.Params[0])
}

func TestNewLightsUniform_NightSendsZeroDirection(t *testing.T) {
	u := NewLightsUniform(core.Frame{Sun: core.UpdateLight(0)})
	assert.Equal(t, [4]float32{0, 0, 0, 0}, u.DirDirection)
}
