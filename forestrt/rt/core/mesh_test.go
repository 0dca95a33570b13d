package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkIndices(t *testing.T, m *Mesh) {
	t.Helper()
	require.NoError(t, m.Validate())
	assert.Zero(t, len(m.Indices)%3)
	for _, idx := range m.Indices {
		assert.Less(t, int(idx), len(m.Vertices))
	}
}

func TestNewFloorMesh(t *testing.T) {
	m := NewFloorMesh(5, -0.2, 5)
	checkIndices(t, m)
	b := m.Bounds()
	assert.Equal(t, mgl32.Vec3{-5, -0.2, -5}, b[0])
	assert.Equal(t, mgl32.Vec3{5, -0.2, 5}, b[1])
	for _, v := range m.Vertices {
		assert.Equal(t, [3]float32{0, 1, 0}, v.Normal)
	}
}

func TestNewNoteQuadMesh(t *testing.T) {
	m := NewNoteQuadMesh()
	checkIndices(t, m)
	b := m.Bounds()
	assert.Equal(t, mgl32.Vec3{0, -0.5, 0}, b[0])
	assert.Equal(t, mgl32.Vec3{1, 0.5, 0}, b[1])
}

func TestNewCubeMesh(t *testing.T) {
	m := NewCubeMesh()
	checkIndices(t, m)
	assert.Len(t, m.Vertices, 24)
	assert.Len(t, m.Indices, 36)
	b := m.Bounds()
	assert.True(t, b[0].ApproxEqual(mgl32.Vec3{-0.5, -0.5, -0.5}))
	assert.True(t, b[1].ApproxEqual(mgl32.Vec3{0.5, 0.5, 0.5}))
}

func TestNewProceduralTreeMesh(t *testing.T) {
	m := NewProceduralTreeMesh(2)
	checkIndices(t, m)

	b := m.Bounds()
	assert.InDelta(t, 0, b[0].Y(), 1e-6)
	assert.InDelta(t, 1, b[1].Y(), 1e-6)
	for _, v := range m.Vertices {
		assert.InDelta(t, 1, mgl32.Vec3(v.Normal).Len(), 1e-4)
	}
}

func TestMesh_ValidateEmpty(t *testing.T) {
	var m *Mesh
	assert.ErrorIs(t, m.Validate(), ErrEmptyMesh)
	assert.ErrorIs(t, (&Mesh{}).Validate(), ErrEmptyMesh)
}

func TestSortBackToFront(t *testing.T) {
	eye := mgl32.Vec3{0, 0, 3}
	in := []Transform{
		{Position: mgl32.Vec3{0, 0, 2}},
		{Position: mgl32.Vec3{0, 0, -10}},
		{Position: mgl32.Vec3{0, 0, -1}},
	}
	out := SortBackToFront(eye, in)
	require.Len(t, out, 3)
	assert.Equal(t, float32(-10), out[0].Position.Z())
	assert.Equal(t, float32(-1), out[1].Position.Z())
	assert.Equal(t, float32(2), out[2].Position.Z())
	assert.Equal(t, float32(2), in[0].Position.Z(), "input is left untouched")
}
