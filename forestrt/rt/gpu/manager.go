package gpu

import (
	"fmt"
	"image"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/forest/forestrt/rt/core"
)

const (
	HeadroomInstances = 64 * 1024
	HeadroomText      = 16 * 1024
)

// MeshBuffers holds an uploaded mesh.
type MeshBuffers struct {
	Vertices   *wgpu.Buffer
	Indices    *wgpu.Buffer
	IndexCount uint32
}

func (b *MeshBuffers) Release() {
	if b == nil {
		return
	}
	if b.Vertices != nil {
		b.Vertices.Release()
	}
	if b.Indices != nil {
		b.Indices.Release()
	}
}

// Material is a texture bound with its sampler at group 1.
type Material struct {
	Texture   *wgpu.Texture
	View      *wgpu.TextureView
	Sampler   *wgpu.Sampler
	BindGroup *wgpu.BindGroup
}

func (m *Material) Release() {
	if m == nil {
		return
	}
	if m.BindGroup != nil {
		m.BindGroup.Release()
	}
	if m.Sampler != nil {
		m.Sampler.Release()
	}
	if m.View != nil {
		m.View.Release()
	}
	if m.Texture != nil {
		m.Texture.Release()
	}
}

type GpuBufferManager struct {
	Device *wgpu.Device
	Queue  *wgpu.Queue

	FrameLayout    *wgpu.BindGroupLayout
	MaterialLayout *wgpu.BindGroupLayout
	SkyLayout      *wgpu.BindGroupLayout

	CameraBuf    *wgpu.Buffer
	LightsBuf    *wgpu.Buffer
	SkyBuf       *wgpu.Buffer
	InstancesBuf *wgpu.Buffer
	TextBuf      *wgpu.Buffer

	FrameBindGroup *wgpu.BindGroup
	SkyBindGroup   *wgpu.BindGroup
}

func NewGpuBufferManager(device *wgpu.Device) (*GpuBufferManager, error) {
	m := &GpuBufferManager{
		Device: device,
		Queue:  device.GetQueue(),
	}
	if err := m.createLayouts(); err != nil {
		return nil, err
	}

	m.ensureBuffer("CameraUB", &m.CameraBuf, make([]byte, len(ToBytes(CameraUniform{}))), wgpu.BufferUsageUniform, 0)
	m.ensureBuffer("LightsUB", &m.LightsBuf, make([]byte, len(ToBytes(LightsUniform{}))), wgpu.BufferUsageUniform, 0)
	m.ensureBuffer("SkyUB", &m.SkyBuf, make([]byte, len(ToBytes(SkyUniform{}))), wgpu.BufferUsageUniform, 0)

	var err error
	m.FrameBindGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "FrameBG",
		Layout: m.FrameLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: m.CameraBuf, Size: wgpu.WholeSize},
			{Binding: 1, Buffer: m.LightsBuf, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("frame bind group: %w", err)
	}

	m.SkyBindGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "SkyBG",
		Layout:  m.SkyLayout,
		Entries: []wgpu.BindGroupEntry{{Binding: 0, Buffer: m.SkyBuf, Size: wgpu.WholeSize}},
	})
	if err != nil {
		return nil, fmt.Errorf("sky bind group: %w", err)
	}
	return m, nil
}

func (m *GpuBufferManager) createLayouts() error {
	camera := wgpu.BindGroupLayoutEntry{Binding: 0, Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment}
	camera.Buffer.Type = wgpu.BufferBindingTypeUniform
	lights := wgpu.BindGroupLayoutEntry{Binding: 1, Visibility: wgpu.ShaderStageFragment}
	lights.Buffer.Type = wgpu.BufferBindingTypeUniform

	var err error
	m.FrameLayout, err = m.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "FrameBGL",
		Entries: []wgpu.BindGroupLayoutEntry{camera, lights},
	})
	if err != nil {
		return fmt.Errorf("frame layout: %w", err)
	}

	tex := wgpu.BindGroupLayoutEntry{Binding: 0, Visibility: wgpu.ShaderStageFragment}
	tex.Texture.SampleType = wgpu.TextureSampleTypeFloat
	tex.Texture.ViewDimension = wgpu.TextureViewDimension2D
	smp := wgpu.BindGroupLayoutEntry{Binding: 1, Visibility: wgpu.ShaderStageFragment}
	smp.Sampler.Type = wgpu.SamplerBindingTypeFiltering

	m.MaterialLayout, err = m.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "MaterialBGL",
		Entries: []wgpu.BindGroupLayoutEntry{tex, smp},
	})
	if err != nil {
		return fmt.Errorf("material layout: %w", err)
	}

	sky := wgpu.BindGroupLayoutEntry{Binding: 0, Visibility: wgpu.ShaderStageFragment}
	sky.Buffer.Type = wgpu.BufferBindingTypeUniform
	m.SkyLayout, err = m.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "SkyBGL",
		Entries: []wgpu.BindGroupLayoutEntry{sky},
	})
	if err != nil {
		return fmt.Errorf("sky layout: %w", err)
	}
	return nil
}

// ensureBuffer grows buf when data does not fit and writes data at offset 0.
// It reports whether the buffer was recreated, which invalidates bind groups.
func (m *GpuBufferManager) ensureBuffer(name string, buf **wgpu.Buffer, data []byte, usage wgpu.BufferUsage, headroom int) bool {
	neededSize := uint64(len(data) + headroom)
	if neededSize%4 != 0 {
		neededSize += 4 - (neededSize % 4)
	}
	if neededSize == 0 {
		neededSize = 4
	}

	recreated := false
	current := *buf
	if current == nil || current.GetSize() < neededSize {
		if current != nil {
			current.Release()
		}
		newBuf, err := m.Device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: name,
			Size:  neededSize,
			Usage: usage | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			panic(err)
		}
		*buf = newBuf
		recreated = true
	}

	if len(data) > 0 {
		m.Queue.WriteBuffer(*buf, 0, data)
	}
	return recreated
}

// UpdateFrame uploads the camera, light and sky uniforms for one frame.
func (m *GpuBufferManager) UpdateFrame(frame core.Frame) {
	m.ensureBuffer("CameraUB", &m.CameraBuf, ToBytes(NewCameraUniform(frame)), wgpu.BufferUsageUniform, 0)
	m.ensureBuffer("LightsUB", &m.LightsBuf, ToBytes(NewLightsUniform(frame)), wgpu.BufferUsageUniform, 0)
	m.ensureBuffer("SkyUB", &m.SkyBuf, ToBytes(NewSkyUniform(frame)), wgpu.BufferUsageUniform, 0)
}

// UpdateInstances replaces the shared instance buffer contents.
func (m *GpuBufferManager) UpdateInstances(data []byte) {
	m.ensureBuffer("InstancesVB", &m.InstancesBuf, data, wgpu.BufferUsageVertex, HeadroomInstances)
}

// UpdateText replaces the HUD vertex buffer contents.
func (m *GpuBufferManager) UpdateText(data []byte) {
	m.ensureBuffer("TextVB", &m.TextBuf, data, wgpu.BufferUsageVertex, HeadroomText)
}

func (m *GpuBufferManager) UploadMesh(mesh *core.Mesh) (*MeshBuffers, error) {
	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	vb, err := m.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    mesh.Name + " VB",
		Contents: ToBytes(mesh.Vertices),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		return nil, fmt.Errorf("vertex buffer %q: %w", mesh.Name, err)
	}
	ib, err := m.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    mesh.Name + " IB",
		Contents: wgpu.ToBytes(mesh.Indices),
		Usage:    wgpu.BufferUsageIndex,
	})
	if err != nil {
		vb.Release()
		return nil, fmt.Errorf("index buffer %q: %w", mesh.Name, err)
	}
	return &MeshBuffers{Vertices: vb, Indices: ib, IndexCount: uint32(len(mesh.Indices))}, nil
}

// UploadTexture creates an sRGB texture with every mip level of img.
func (m *GpuBufferManager) UploadTexture(img core.TextureImage) (*Material, error) {
	return m.uploadMaterial(img.Name, wgpu.TextureFormatRGBA8UnormSrgb, 4, img.Levels, addressMode(img.Mirrored))
}

// UploadAtlas creates a single-channel coverage texture for the HUD font.
func (m *GpuBufferManager) UploadAtlas(name string, atlas *image.Alpha) (*Material, error) {
	b := atlas.Bounds()
	level := core.MipLevel{Width: uint32(b.Dx()), Height: uint32(b.Dy()), Pixels: atlas.Pix}
	return m.uploadMaterial(name, wgpu.TextureFormatR8Unorm, 1, []core.MipLevel{level}, wgpu.AddressModeClampToEdge)
}

func (m *GpuBufferManager) uploadMaterial(name string, format wgpu.TextureFormat, bytesPerPixel uint32, levels []core.MipLevel, mode wgpu.AddressMode) (*Material, error) {
	if len(levels) == 0 || levels[0].Width == 0 || levels[0].Height == 0 {
		return nil, fmt.Errorf("texture %q has no pixels", name)
	}
	tex, err := m.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label: name,
		Size: wgpu.Extent3D{
			Width:              levels[0].Width,
			Height:             levels[0].Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: uint32(len(levels)),
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("texture %q: %w", name, err)
	}

	for i, level := range levels {
		m.Queue.WriteTexture(
			&wgpu.ImageCopyTexture{
				Texture:  tex,
				MipLevel: uint32(i),
				Origin:   wgpu.Origin3D{},
				Aspect:   wgpu.TextureAspectAll,
			},
			level.Pixels,
			&wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  bytesPerPixel * level.Width,
				RowsPerImage: level.Height,
			},
			&wgpu.Extent3D{Width: level.Width, Height: level.Height, DepthOrArrayLayers: 1},
		)
	}

	mat := &Material{Texture: tex}
	mat.View, err = tex.CreateView(nil)
	if err != nil {
		mat.Release()
		return nil, fmt.Errorf("texture view %q: %w", name, err)
	}
	mat.Sampler, err = m.Device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         name + " Sampler",
		AddressModeU:  mode,
		AddressModeV:  mode,
		AddressModeW:  mode,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0,
		LodMaxClamp:   float32(len(levels)),
		MaxAnisotropy: 1,
	})
	if err != nil {
		mat.Release()
		return nil, fmt.Errorf("sampler %q: %w", name, err)
	}
	mat.BindGroup, err = m.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  name + " BG",
		Layout: m.MaterialLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: mat.View},
			{Binding: 1, Sampler: mat.Sampler},
		},
	})
	if err != nil {
		mat.Release()
		return nil, fmt.Errorf("material bind group %q: %w", name, err)
	}
	return mat, nil
}

func (m *GpuBufferManager) Release() {
	for _, b := range []*wgpu.Buffer{m.CameraBuf, m.LightsBuf, m.SkyBuf, m.InstancesBuf, m.TextBuf} {
		if b != nil {
			b.Release()
		}
	}
	for _, bg := range []*wgpu.BindGroup{m.FrameBindGroup, m.SkyBindGroup} {
		if bg != nil {
			bg.Release()
		}
	}
	for _, l := range []*wgpu.BindGroupLayout{m.FrameLayout, m.MaterialLayout, m.SkyLayout} {
		if l != nil {
			l.Release()
		}
	}
}
