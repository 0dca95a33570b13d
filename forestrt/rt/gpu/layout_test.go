package gpu

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/forest/forestrt/rt/core"
)

func TestVertexBufferLayout_MeshVertex(t *testing.T) {
	layout := VertexBufferLayout(core.Vertex{}, wgpu.VertexStepModeVertex)

	assert.Equal(t, uint64(32), layout.ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeVertex, layout.StepMode)
	require.Len(t, layout.Attributes, 3)

	assert.Equal(t, wgpu.VertexAttribute{ShaderLocation: 0, Offset: 0, Format: wgpu.VertexFormatFloat32x3}, layout.Attributes[0])
	assert.Equal(t, wgpu.VertexAttribute{ShaderLocation: 1, Offset: 12, Format: wgpu.VertexFormatFloat32x3}, layout.Attributes[1])
	assert.Equal(t, wgpu.VertexAttribute{ShaderLocation: 2, Offset: 24, Format: wgpu.VertexFormatFloat32x2}, layout.Attributes[2])
}

func TestVertexBufferLayout_InstanceMatrixSpansFourLocations(t *testing.T) {
	layout := VertexBufferLayout(InstanceData{}, wgpu.VertexStepModeInstance)

	assert.Equal(t, uint64(64), layout.ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeInstance, layout.StepMode)
	require.Len(t, layout.Attributes, 4)
	for i, attr := range layout.Attributes {
		assert.Equal(t, uint32(3+i), attr.ShaderLocation)
		assert.Equal(t, uint64(16*i), attr.Offset)
		assert.Equal(t, wgpu.VertexFormatFloat32x4, attr.Format)
	}
}

func TestVertexBufferLayout_TextVertex(t *testing.T) {
	layout := VertexBufferLayout(core.TextVertex{}, wgpu.VertexStepModeVertex)
	assert.Equal(t, uint64(32), layout.ArrayStride)
	require.Len(t, layout.Attributes, 3)
	assert.Equal(t, uint64(8), layout.Attributes[1].Offset)
	assert.Equal(t, uint64(16), layout.Attributes[2].Offset)
	assert.Equal(t, wgpu.VertexFormatFloat32x4, layout.Attributes[2].Format)
}

func TestVertexBufferLayout_UntaggedFieldsAdvanceOffset(t *testing.T) {
	type padded struct {
		Skip float32
		Pos  [2]float32 `gekko:"layout" location:"0" format:"float2"`
	}
	layout := VertexBufferLayout(padded{}, wgpu.VertexStepModeVertex)
	assert.Equal(t, uint64(12), layout.ArrayStride)
	require.Len(t, layout.Attributes, 1)
	assert.Equal(t, uint64(4), layout.Attributes[0].Offset)
}

func TestVertexBufferLayout_Panics(t *testing.T) {
	assert.Panics(t, func() { VertexBufferLayout(1, wgpu.VertexStepModeVertex) })

	type bad struct {
		X float32 `gekko:"layout" location:"0" format:"half"`
	}
	assert.Panics(t, func() { VertexBufferLayout(bad{}, wgpu.VertexStepModeVertex) })
}

func TestMeshLayouts(t *testing.T) {
	layouts := MeshLayouts()
	require.Len(t, layouts, 2)
	assert.Equal(t, wgpu.VertexStepModeVertex, layouts[0].StepMode)
	assert.Equal(t, wgpu.VertexStepModeInstance, layouts[1].StepMode)
}

func TestToBytes_LittleEndianFloats(t *testing.T) {
	data := ToBytes(struct {
		A float32
		B [2]uint32
	}{A: 1.5, B: [2]uint32{7, 9}})

	require.Len(t, data, 12)
	assert.Equal(t, float32(1.5), math.Float32frombits(binary.LittleEndian.Uint32(data[0:])))
	assert.Equal(t, uint32(7), binary.LittleEndian.Uint32(data[4:]))
	assert.Equal(t, uint32(9), binary.LittleEndian.Uint32(data[8:]))
}

func TestToBytes_UnsupportedKindPanics(t *testing.T) {
	assert.Panics(t, func() { ToBytes(struct{ S string }{"x"}) })
}

func TestInstanceBytes(t *testing.T) {
	m := mgl32.Translate3D(1, 2, 3)
	data := InstanceBytes([]mgl32.Mat4{mgl32.Ident4(), m})
	require.Len(t, data, 128)
	// Column-major: translation lives in elements 12..14 of the second matrix.
	assert.Equal(t, float32(2), math.Float32frombits(binary.LittleEndian.Uint32(data[64+13*4:])))
}

func TestAddressMode(t *testing.T) {
	assert.Equal(t, wgpu.AddressModeMirrorRepeat, addressMode(true))
	assert.Equal(t, wgpu.AddressModeRepeat, addressMode(false))
}
