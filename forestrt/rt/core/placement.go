package core

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// PlacementSpec describes how repeated scene elements are laid out on a
// square grid with a deterministic per-index jitter. Identical specs give
// bit-identical transforms for the same index.
type PlacementSpec struct {
	Columns         int     `yaml:"columns"`
	CellSize        float32 `yaml:"cell_size"`
	HalfExtent      float32 `yaml:"half_extent"`
	JitterRadius    float32 `yaml:"jitter_radius"`
	JitterStepDeg   float32 `yaml:"jitter_step_deg"`
	RotationStepDeg float32 `yaml:"rotation_step_deg"`
	GroundY         float32 `yaml:"ground_y"`
	Scale           float32 `yaml:"scale"`
}

func DefaultPlacementSpec() PlacementSpec {
	return PlacementSpec{
		Columns:         10,
		CellSize:        15,
		HalfExtent:      75,
		JitterRadius:    3,
		JitterStepDeg:   10,
		RotationStepDeg: 15,
		GroundY:         -4.2,
		Scale:           4,
	}
}

// Cell returns the grid column and row of index i.
func (s PlacementSpec) Cell(i int) (column, row int) {
	cols := s.Columns
	if cols <= 0 {
		cols = 1
	}
	return i % cols, i / cols
}

// Base returns the cell-centred x/z position of index i before jitter.
func (s PlacementSpec) Base(i int) (x, z float32) {
	column, row := s.Cell(i)
	halfCell := s.CellSize / 2
	x = float32(column)*s.CellSize - s.HalfExtent + halfCell
	z = float32(row)*s.CellSize - s.HalfExtent + halfCell
	return x, z
}

// Jitter returns the pseudo-random x/z offset of index i. The angle grows
// quadratically with the index, which scatters neighbours without any RNG.
func (s PlacementSpec) Jitter(i int) (x, z float32) {
	fi := float32(i)
	angle := mgl32.DegToRad(s.JitterStepDeg*fi) * fi
	sin, cos := math32.Sincos(angle)
	return cos * s.JitterRadius, sin * s.JitterRadius
}

// RotationY returns the yaw of index i in degrees, wrapped to [0, 360).
func (s PlacementSpec) RotationY(i int) float32 {
	deg := math32.Mod(s.RotationStepDeg*float32(i), 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// Place computes the transform of a single index.
func (s PlacementSpec) Place(i int) Transform {
	bx, bz := s.Base(i)
	jx, jz := s.Jitter(i)
	return Transform{
		Position: mgl32.Vec3{bx + jx, s.GroundY, bz + jz},
		Rotation: mgl32.QuatRotate(mgl32.DegToRad(s.RotationY(i)), mgl32.Vec3{0, 1, 0}),
		Scale:    mgl32.Vec3{s.Scale, s.Scale, s.Scale},
	}
}

// GeneratePlacements returns exactly count transforms in index order.
// A non-positive count yields an empty, non-nil slice.
func GeneratePlacements(spec PlacementSpec, count int) []Transform {
	if count <= 0 {
		return []Transform{}
	}
	out := make([]Transform, count)
	for i := range out {
		out[i] = spec.Place(i)
	}
	return out
}

// InstanceMatrices flattens transforms into the per-instance model matrices
// consumed by the renderer.
func InstanceMatrices(transforms []Transform) []mgl32.Mat4 {
	out := make([]mgl32.Mat4, len(transforms))
	for i, t := range transforms {
		out[i] = t.ObjectToWorld()
	}
	return out
}
