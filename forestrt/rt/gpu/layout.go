package gpu

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"reflect"
	"strconv"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/forest/forestrt/rt/core"
)

// InstanceData is one per-instance model matrix, fed to locations 3..6.
type InstanceData struct {
	Model [16]float32 `gekko:"layout" location:"3" format:"mat4"`
}

func parseFormat(name string) (wgpu.VertexFormat, int) {
	switch name {
	case "float2":
		return wgpu.VertexFormatFloat32x2, 1
	case "float3":
		return wgpu.VertexFormatFloat32x3, 1
	case "float4":
		return wgpu.VertexFormatFloat32x4, 1
	case "mat4":
		// Four consecutive vec4 columns.
		return wgpu.VertexFormatFloat32x4, 4
	default:
		panic("unsupported vertex layout format: " + name)
	}
}

// VertexBufferLayout builds a buffer layout from the gekko layout tags of a struct.
// Fields without the tag still advance the offset.
func VertexBufferLayout(vertexType any, stepMode wgpu.VertexStepMode) wgpu.VertexBufferLayout {
	t := reflect.TypeOf(vertexType)
	if t.Kind() != reflect.Struct {
		panic("vertex must be a struct")
	}

	var attributes []wgpu.VertexAttribute
	var offset uint64

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Tag.Get("gekko") == "layout" {
			format, slots := parseFormat(field.Tag.Get("format"))
			location, err := strconv.Atoi(field.Tag.Get("location"))
			if err != nil {
				panic(err)
			}

			columnSize := uint64(field.Type.Size()) / uint64(slots)
			for s := 0; s < slots; s++ {
				attributes = append(attributes, wgpu.VertexAttribute{
					ShaderLocation: uint32(location + s),
					Offset:         offset + uint64(s)*columnSize,
					Format:         format,
				})
			}
		}

		offset += uint64(field.Type.Size())
	}

	return wgpu.VertexBufferLayout{
		ArrayStride: offset,
		StepMode:    stepMode,
		Attributes:  attributes,
	}
}

// MeshLayouts returns the vertex and instance layouts shared by every mesh pipeline.
func MeshLayouts() []wgpu.VertexBufferLayout {
	return []wgpu.VertexBufferLayout{
		VertexBufferLayout(core.Vertex{}, wgpu.VertexStepModeVertex),
		VertexBufferLayout(InstanceData{}, wgpu.VertexStepModeInstance),
	}
}

// ToBytes serialises fixed-size scalars, arrays, slices and structs little endian.
func ToBytes(data any) []byte {
	buf := new(bytes.Buffer)
	writeBytes(reflect.ValueOf(data), buf)
	return buf.Bytes()
}

func writeBytes(field reflect.Value, buf *bytes.Buffer) {
	switch field.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < field.Len(); i++ {
			elem := field.Index(i)
			if elem.Kind() == reflect.Ptr {
				elem = elem.Elem()
			}
			writeBytes(elem, buf)
		}

	case reflect.Struct:
		for i := 0; i < field.NumField(); i++ {
			writeBytes(field.Field(i), buf)
		}

	case reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Int8, reflect.Int16, reflect.Int32,
		reflect.Float32:
		if err := binary.Write(buf, binary.LittleEndian, field.Interface()); err != nil {
			panic(fmt.Errorf("failed to write scalar field: %w", err))
		}

	default:
		panic(fmt.Errorf("unsupported buffer field type: %v", field.Type()))
	}
}

// InstanceBytes packs model matrices in the InstanceData layout.
func InstanceBytes(models []mgl32.Mat4) []byte {
	data := make([]InstanceData, len(models))
	for i, m := range models {
		data[i].Model = m
	}
	return ToBytes(data)
}

func addressMode(mirrored bool) wgpu.AddressMode {
	if mirrored {
		return wgpu.AddressModeMirrorRepeat
	}
	return wgpu.AddressModeRepeat
}
