package gpu

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/forest/forestrt/rt/core"
)

// DepthRemap maps OpenGL clip depth [-1,1] onto the WebGPU range [0,1].
var DepthRemap = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// CameraUniform mirrors `Camera` in lit.wgsl and blend.wgsl.
type CameraUniform struct {
	ViewProj [16]float32
	ViewPos  [4]float32
}

// LightsUniform mirrors `Lights` in lit.wgsl. Every member is a vec4 so the
// Go layout matches WGSL uniform alignment without explicit padding.
type LightsUniform struct {
	DirDirection [4]float32
	DirAmbient   [4]float32
	DirDiffuse   [4]float32
	DirSpecular  [4]float32

	SpotPosition  [4]float32
	SpotDirection [4]float32
	SpotAmbient   [4]float32
	SpotDiffuse   [4]float32
	SpotSpecular  [4]float32
	// constant, linear, quadratic, cut-off cosine
	SpotAttenuation [4]float32
	// outer cut-off cosine, shininess, enabled, unused
	SpotParams [4]float32
}

// SkyUniform mirrors `Sky` in sky.wgsl.
type SkyUniform struct {
	Day    [4]float32
	Night  [4]float32
	Params [4]float32 // daylight, unused...
}

func vec4(v mgl32.Vec3, w float32) [4]float32 {
	return [4]float32{v[0], v[1], v[2], w}
}

func NewCameraUniform(frame core.Frame) CameraUniform {
	vp := DepthRemap.Mul4(frame.Projection).Mul4(frame.View)
	return CameraUniform{
		ViewProj: vp,
		ViewPos:  vec4(frame.CameraPos, 1),
	}
}

func NewLightsUniform(frame core.Frame) LightsUniform {
	sun := frame.Sun
	spot := frame.Spot

	enabled := float32(0)
	if spot.On {
		enabled = 1
	}

	return LightsUniform{
		DirDirection: vec4(sun.NormalizedDirection(), 0),
		DirAmbient:   vec4(sun.Ambient, 0),
		DirDiffuse:   vec4(sun.Diffuse, 0),
		DirSpecular:  vec4(sun.Specular, 0),

		SpotPosition:    vec4(spot.Position, 1),
		SpotDirection:   vec4(spot.Direction, 0),
		SpotAmbient:     vec4(spot.Ambient, 0),
		SpotDiffuse:     vec4(spot.Diffuse, 0),
		SpotSpecular:    vec4(spot.Specular, 0),
		SpotAttenuation: [4]float32{spot.Constant, spot.Linear, spot.Quadratic, spot.CutOff},
		SpotParams:      [4]float32{spot.OuterCutOff, frame.Shininess, enabled, 0},
	}
}

func NewSkyUniform(frame core.Frame) SkyUniform {
	return SkyUniform{
		Day:    [4]float32{frame.SkyDay[0], frame.SkyDay[1], frame.SkyDay[2], 1},
		Night:  [4]float32{frame.SkyNight[0], frame.SkyNight[1], frame.SkyNight[2], 1},
		Params: [4]float32{frame.Daylight, 0, 0, 0},
	}
}
