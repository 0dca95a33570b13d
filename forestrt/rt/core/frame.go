package core

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// MipLevel is one RGBA8 level of a texture.
type MipLevel struct {
	Width  uint32
	Height uint32
	Pixels []byte
}

// TextureImage is a decoded texture with its full mip chain, base level first.
type TextureImage struct {
	Name   string
	Levels []MipLevel
	// Mirrored selects mirrored-repeat addressing instead of plain repeat.
	Mirrored bool
}

func (t TextureImage) Width() uint32 {
	if len(t.Levels) == 0 {
		return 0
	}
	return t.Levels[0].Width
}

func (t TextureImage) Height() uint32 {
	if len(t.Levels) == 0 {
		return 0
	}
	return t.Levels[0].Height
}

// MeshKind tags which static mesh a draw refers to.
type MeshKind int

const (
	MeshTree MeshKind = iota
	MeshFloor
	MeshWall
	MeshNote
)

func (k MeshKind) String() string {
	switch k {
	case MeshTree:
		return "tree"
	case MeshFloor:
		return "floor"
	case MeshWall:
		return "wall"
	case MeshNote:
		return "note"
	}
	return "unknown"
}

// StaticScene is everything uploaded once before the first frame.
type StaticScene struct {
	Tree  *Mesh
	Floor *Mesh
	Wall  *Mesh
	Note  *Mesh

	TreeTexture  TextureImage
	FloorTexture TextureImage
	WallTexture  TextureImage
	NoteTexture  TextureImage

	// Trees are static instances; their matrices never change after upload.
	Trees []Transform

	Floors []Transform
	Walls  []Transform
	Notes  []Transform
}

// Frame is the per-frame, read-only view of the scene handed to a renderer.
type Frame struct {
	Index   uint64
	Elapsed float64

	View       mgl32.Mat4
	Projection mgl32.Mat4
	CameraPos  mgl32.Vec3

	Sun       DirectionalLightState
	Spot      SpotLightState
	Shininess float32
	Daylight  float32

	ClearColor [4]float32
	SkyDay     [3]float32
	SkyNight   [3]float32

	// VisibleTrees indexes StaticScene.Trees.
	VisibleTrees []int
	Text         []TextItem
	// Debug asks the renderer to overlay its own timings.
	Debug bool
}

// SortBackToFront orders transforms by decreasing distance from eye.
// Blended geometry must be drawn in this order.
func SortBackToFront(eye mgl32.Vec3, transforms []Transform) []Transform {
	out := make([]Transform, len(transforms))
	copy(out, transforms)
	sort.SliceStable(out, func(i, j int) bool {
		di := out[i].Position.Sub(eye)
		dj := out[j].Position.Sub(eye)
		return di.Dot(di) > dj.Dot(dj)
	})
	return out
}
