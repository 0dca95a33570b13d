package core

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePlacements_Length(t *testing.T) {
	spec := DefaultPlacementSpec()
	for _, n := range []int{0, 1, 7, 10, 100, 137} {
		assert.Len(t, GeneratePlacements(spec, n), n)
	}
}

func TestGeneratePlacements_Empty(t *testing.T) {
	out := GeneratePlacements(DefaultPlacementSpec(), 0)
	require.NotNil(t, out)
	assert.Empty(t, out)

	assert.Empty(t, GeneratePlacements(DefaultPlacementSpec(), -3))
}

func TestGeneratePlacements_Reproducible(t *testing.T) {
	spec := DefaultPlacementSpec()
	a := GeneratePlacements(spec, 100)
	b := GeneratePlacements(spec, 100)
	require.Equal(t, len(a), len(b))
	for i := range a {
		ma, mb := a[i].ObjectToWorld(), b[i].ObjectToWorld()
		for k := 0; k < 16; k++ {
			assert.Equal(t, math.Float32bits(ma[k]), math.Float32bits(mb[k]), "index %d element %d", i, k)
		}
	}
}

func TestGeneratePlacements_PrefixStable(t *testing.T) {
	spec := DefaultPlacementSpec()
	short := GeneratePlacements(spec, 10)
	long := GeneratePlacements(spec, 50)
	assert.Equal(t, short, long[:10])
}

func TestPlacementSpec_DistinctCells(t *testing.T) {
	spec := DefaultPlacementSpec()
	seen := make(map[[2]int]int)
	for i := 0; i < 100; i++ {
		col, row := spec.Cell(i)
		assert.Equal(t, i%10, col)
		assert.Equal(t, i/10, row)
		if prev, ok := seen[[2]int{col, row}]; ok {
			t.Fatalf("indices %d and %d share cell (%d,%d)", prev, i, col, row)
		}
		seen[[2]int{col, row}] = i
	}
	assert.Len(t, seen, 100)
}

func TestPlacementSpec_IndexZero(t *testing.T) {
	spec := DefaultPlacementSpec()

	bx, bz := spec.Base(0)
	assert.Equal(t, float32(-67.5), bx)
	assert.Equal(t, float32(-67.5), bz)

	jx, jz := spec.Jitter(0)
	assert.Equal(t, spec.JitterRadius, jx)
	assert.Equal(t, float32(0), jz)

	assert.Equal(t, float32(0), spec.RotationY(0))

	tr := spec.Place(0)
	assert.InDelta(t, -67.5+spec.JitterRadius, tr.Position.X(), 1e-5)
	assert.Equal(t, spec.GroundY, tr.Position.Y())
	assert.InDelta(t, -67.5, tr.Position.Z(), 1e-5)
	assert.Equal(t, mgl32.Vec3{4, 4, 4}, tr.Scale)
}

func TestPlacementSpec_RotationWraps(t *testing.T) {
	spec := DefaultPlacementSpec()
	assert.Equal(t, float32(15), spec.RotationY(1))
	assert.Equal(t, float32(345), spec.RotationY(23))
	assert.Equal(t, float32(0), spec.RotationY(24))
	assert.Equal(t, float32(30), spec.RotationY(26))
	for i := 0; i < 500; i++ {
		r := spec.RotationY(i)
		assert.GreaterOrEqual(t, r, float32(0))
		assert.Less(t, r, float32(360))
	}
}

func TestPlacementSpec_JitterBounded(t *testing.T) {
	spec := DefaultPlacementSpec()
	for i := 0; i < 100; i++ {
		jx, jz := spec.Jitter(i)
		assert.InDelta(t, spec.JitterRadius, math.Hypot(float64(jx), float64(jz)), 1e-4, "index %d", i)

		bx, bz := spec.Base(i)
		p := spec.Place(i).Position
		assert.InDelta(t, bx+jx, p.X(), 1e-4)
		assert.InDelta(t, bz+jz, p.Z(), 1e-4)
	}
}

func TestPlacementSpec_MatrixOrder(t *testing.T) {
	spec := DefaultPlacementSpec()
	i := 6 // 90 degrees
	tr := spec.Place(i)
	m := tr.ObjectToWorld()

	// Local +X is scaled by 4, rotated 90° about Y to -Z, then translated.
	got := m.Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3()
	want := tr.Position.Add(mgl32.Vec3{0, 0, -4})
	assert.InDelta(t, want.X(), got.X(), 1e-4)
	assert.InDelta(t, want.Y(), got.Y(), 1e-4)
	assert.InDelta(t, want.Z(), got.Z(), 1e-4)

	// The origin maps to the translation.
	origin := m.Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
	assert.True(t, origin.ApproxEqual(tr.Position))
}

func TestInstanceMatrices(t *testing.T) {
	placements := GeneratePlacements(DefaultPlacementSpec(), 3)
	mats := InstanceMatrices(placements)
	require.Len(t, mats, 3)
	for i := range placements {
		assert.Equal(t, placements[i].ObjectToWorld(), mats[i])
	}
}
