package app

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/forest/forestrt/rt/core"
	"github.com/gekko3d/forest/forestrt/rt/gpu"
	"github.com/gekko3d/forest/forestrt/rt/shaders"
)

const depthFormat = wgpu.TextureFormatDepth24Plus

var ErrNotLoaded = errors.New("scene not loaded")

// Logger is the subset of the engine logger the renderer reports through.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
}

// App renders the forest into a GLFW window surface.
type App struct {
	Window   *glfw.Window
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Surface  *wgpu.Surface
	Config   *wgpu.SurfaceConfiguration

	DepthTexture *wgpu.Texture
	DepthView    *wgpu.TextureView

	LitPipeline   *wgpu.RenderPipeline
	BlendPipeline *wgpu.RenderPipeline
	SkyPipeline   *wgpu.RenderPipeline
	TextPipeline  *wgpu.RenderPipeline

	BufferManager *gpu.GpuBufferManager

	Scene      core.StaticScene
	Meshes     map[core.MeshKind]*gpu.MeshBuffers
	Materials  map[core.MeshKind]*gpu.Material
	treeModels []mgl32.Mat4
	loaded     bool

	// FontPath empty selects the built-in Go font.
	FontPath        string
	FontSize        float64
	TextRenderer    *core.TextRenderer
	TextMaterial    *gpu.Material
	TextVertexCount uint32

	Profiler *Profiler
	Logger   Logger
}

func NewApp(window *glfw.Window, logger Logger) *App {
	return &App{
		Window:    window,
		Meshes:    make(map[core.MeshKind]*gpu.MeshBuffers),
		Materials: make(map[core.MeshKind]*gpu.Material),
		Profiler:  NewProfiler(),
		Logger:    logger,
	}
}

func (a *App) Init() error {
	a.Instance = wgpu.CreateInstance(nil)
	a.Surface = a.Instance.CreateSurface(GetSurfaceDescriptor(a.Window))

	adapter, err := a.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: a.Surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("request adapter: %w", err)
	}
	a.Adapter = adapter

	a.Device, err = adapter.RequestDevice(&wgpu.DeviceDescriptor{Label: "Forest Device"})
	if err != nil {
		return fmt.Errorf("request device: %w", err)
	}
	a.Queue = a.Device.GetQueue()

	width, height := a.Window.GetFramebufferSize()
	caps := a.Surface.GetCapabilities(adapter)
	if len(caps.Formats) == 0 || len(caps.AlphaModes) == 0 {
		return errors.New("surface reports no usable formats")
	}
	a.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(max(width, 1)),
		Height:      uint32(max(height, 1)),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	a.Surface.Configure(adapter, a.Device, a.Config)

	if err := a.setupDepth(); err != nil {
		return err
	}

	a.BufferManager, err = gpu.NewGpuBufferManager(a.Device)
	if err != nil {
		return err
	}

	if err := a.setupPipelines(); err != nil {
		return err
	}

	if a.FontSize <= 0 {
		a.FontSize = 24
	}
	a.TextRenderer, err = core.NewTextRenderer(a.FontPath, a.FontSize)
	if err != nil {
		a.Logger.Warnf("text renderer disabled: %v", err)
	} else if a.TextMaterial, err = a.BufferManager.UploadAtlas("Text Atlas", a.TextRenderer.AtlasImage); err != nil {
		a.Logger.Warnf("text atlas upload failed: %v", err)
		a.TextRenderer = nil
	}

	a.Logger.Infof("renderer ready: %dx%d format=%v", a.Config.Width, a.Config.Height, a.Config.Format)
	return nil
}

func (a *App) setupDepth() error {
	if a.DepthView != nil {
		a.DepthView.Release()
	}
	if a.DepthTexture != nil {
		a.DepthTexture.Release()
	}

	var err error
	a.DepthTexture, err = a.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              a.Config.Width,
			Height:             a.Config.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        depthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("depth texture: %w", err)
	}
	a.DepthView, err = a.DepthTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("depth view: %w", err)
	}
	return nil
}

func depthState(write bool, compare wgpu.CompareFunction) *wgpu.DepthStencilState {
	return &wgpu.DepthStencilState{
		Format:            depthFormat,
		DepthWriteEnabled: write,
		DepthCompare:      compare,
		StencilFront: wgpu.StencilFaceState{
			Compare: wgpu.CompareFunctionAlways,
		},
		StencilBack: wgpu.StencilFaceState{
			Compare: wgpu.CompareFunctionAlways,
		},
	}
}

var alphaBlend = &wgpu.BlendState{
	Color: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorSrcAlpha,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
	Alpha: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
}

type pipelineSpec struct {
	label   string
	code    string
	layouts []*wgpu.BindGroupLayout
	buffers []wgpu.VertexBufferLayout
	blend   *wgpu.BlendState
	depth   *wgpu.DepthStencilState
}

func (a *App) createPipeline(spec pipelineSpec) (*wgpu.RenderPipeline, error) {
	module, err := a.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          spec.label + " Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: spec.code},
	})
	if err != nil {
		return nil, fmt.Errorf("%s shader: %w", spec.label, err)
	}
	defer module.Release()

	layout, err := a.Device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            spec.label + " Layout",
		BindGroupLayouts: spec.layouts,
	})
	if err != nil {
		return nil, fmt.Errorf("%s layout: %w", spec.label, err)
	}
	defer layout.Release()

	pipeline, err := a.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  spec.label + " Pipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers:    spec.buffers,
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    a.Config.Format,
				Blend:     spec.blend,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: spec.depth,
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%s pipeline: %w", spec.label, err)
	}
	return pipeline, nil
}

func (a *App) setupPipelines() error {
	bm := a.BufferManager
	var err error

	a.LitPipeline, err = a.createPipeline(pipelineSpec{
		label:   "Lit",
		code:    shaders.LitWGSL,
		layouts: []*wgpu.BindGroupLayout{bm.FrameLayout, bm.MaterialLayout},
		buffers: gpu.MeshLayouts(),
		depth:   depthState(true, wgpu.CompareFunctionLess),
	})
	if err != nil {
		return err
	}

	a.BlendPipeline, err = a.createPipeline(pipelineSpec{
		label:   "Blend",
		code:    shaders.BlendWGSL,
		layouts: []*wgpu.BindGroupLayout{bm.FrameLayout, bm.MaterialLayout},
		buffers: gpu.MeshLayouts(),
		blend:   alphaBlend,
		depth:   depthState(false, wgpu.CompareFunctionLess),
	})
	if err != nil {
		return err
	}

	a.SkyPipeline, err = a.createPipeline(pipelineSpec{
		label:   "Sky",
		code:    shaders.SkyWGSL,
		layouts: []*wgpu.BindGroupLayout{bm.SkyLayout},
		depth:   depthState(false, wgpu.CompareFunctionAlways),
	})
	if err != nil {
		return err
	}

	a.TextPipeline, err = a.createPipeline(pipelineSpec{
		label:   "Text",
		code:    shaders.TextWGSL,
		layouts: []*wgpu.BindGroupLayout{bm.MaterialLayout},
		buffers: []wgpu.VertexBufferLayout{gpu.VertexBufferLayout(core.TextVertex{}, wgpu.VertexStepModeVertex)},
		blend:   alphaBlend,
		depth:   depthState(false, wgpu.CompareFunctionAlways),
	})
	return err
}

// Load uploads static meshes, textures and tree matrices. It replaces any previous scene.
func (a *App) Load(scene core.StaticScene) error {
	a.releaseScene()

	meshes := map[core.MeshKind]*core.Mesh{
		core.MeshTree:  scene.Tree,
		core.MeshFloor: scene.Floor,
		core.MeshWall:  scene.Wall,
		core.MeshNote:  scene.Note,
	}
	textures := map[core.MeshKind]core.TextureImage{
		core.MeshTree:  scene.TreeTexture,
		core.MeshFloor: scene.FloorTexture,
		core.MeshWall:  scene.WallTexture,
		core.MeshNote:  scene.NoteTexture,
	}

	for kind, mesh := range meshes {
		if mesh == nil {
			continue
		}
		buffers, err := a.BufferManager.UploadMesh(mesh)
		if err != nil {
			return fmt.Errorf("upload %s mesh: %w", kind, err)
		}
		a.Meshes[kind] = buffers

		mat, err := a.BufferManager.UploadTexture(textures[kind])
		if err != nil {
			return fmt.Errorf("upload %s texture: %w", kind, err)
		}
		a.Materials[kind] = mat
	}

	a.Scene = scene
	a.treeModels = core.InstanceMatrices(scene.Trees)
	a.loaded = true
	a.Logger.Infof("scene uploaded: %d trees, %d notes", len(scene.Trees), len(scene.Notes))
	return nil
}

func (a *App) releaseScene() {
	for kind, m := range a.Meshes {
		m.Release()
		delete(a.Meshes, kind)
	}
	for kind, m := range a.Materials {
		m.Release()
		delete(a.Materials, kind)
	}
	a.loaded = false
}

func (a *App) Resize(w, h int) {
	if w <= 0 || h <= 0 || a.Config == nil {
		return
	}
	if a.Config.Width == uint32(w) && a.Config.Height == uint32(h) {
		return
	}
	a.Config.Width = uint32(w)
	a.Config.Height = uint32(h)
	a.Surface.Configure(a.Adapter, a.Device, a.Config)
	if err := a.setupDepth(); err != nil {
		a.Logger.Warnf("resize: %v", err)
	}
}

func (a *App) updateText(items []core.TextItem) {
	a.TextVertexCount = 0
	if a.TextRenderer == nil || len(items) == 0 {
		return
	}
	vertices := a.TextRenderer.BuildVertices(items, int(a.Config.Width), int(a.Config.Height))
	if len(vertices) == 0 {
		return
	}
	a.BufferManager.UpdateText(gpu.ToBytes(vertices))
	a.TextVertexCount = uint32(len(vertices))
}

func (a *App) RenderFrame(frame core.Frame) error {
	if !a.loaded {
		return ErrNotLoaded
	}

	a.Profiler.BeginScope("Upload")
	a.BufferManager.UpdateFrame(frame)
	models, calls := buildDrawList(a.Scene, a.treeModels, frame)
	if len(models) > 0 {
		a.BufferManager.UpdateInstances(gpu.InstanceBytes(models))
	}
	a.updateText(hudItems(frame, a.Profiler, a.TextRenderer))
	a.Profiler.EndScope("Upload")
	a.Profiler.SetCount("Trees", len(frame.VisibleTrees))
	a.Profiler.SetCount("Instances", len(models))

	nextTexture, err := a.Surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("acquire surface texture: %w", err)
	}
	defer nextTexture.Release()

	view, err := nextTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("surface view: %w", err)
	}
	defer view.Release()

	encoder, err := a.Device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("command encoder: %w", err)
	}
	defer encoder.Release()

	a.Profiler.BeginScope("Encode")
	c := frame.ClearColor
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2]), A: float64(c[3])},
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            a.DepthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1,
		},
	})

	pass.SetPipeline(a.SkyPipeline)
	pass.SetBindGroup(0, a.BufferManager.SkyBindGroup, nil)
	pass.Draw(3, 1, 0, 0)

	for _, call := range calls {
		mesh, mat := a.Meshes[call.Kind], a.Materials[call.Kind]
		if mesh == nil || mat == nil {
			continue
		}
		if call.Blended {
			pass.SetPipeline(a.BlendPipeline)
		} else {
			pass.SetPipeline(a.LitPipeline)
		}
		pass.SetBindGroup(0, a.BufferManager.FrameBindGroup, nil)
		pass.SetBindGroup(1, mat.BindGroup, nil)
		pass.SetVertexBuffer(0, mesh.Vertices, 0, wgpu.WholeSize)
		pass.SetVertexBuffer(1, a.BufferManager.InstancesBuf, 0, wgpu.WholeSize)
		pass.SetIndexBuffer(mesh.Indices, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		pass.DrawIndexed(mesh.IndexCount, call.Count, 0, 0, call.FirstInstance)
	}

	if a.TextVertexCount > 0 && a.TextMaterial != nil {
		pass.SetPipeline(a.TextPipeline)
		pass.SetBindGroup(0, a.TextMaterial.BindGroup, nil)
		pass.SetVertexBuffer(0, a.BufferManager.TextBuf, 0, wgpu.WholeSize)
		pass.Draw(a.TextVertexCount, 1, 0, 0)
	}

	if err := pass.End(); err != nil {
		return fmt.Errorf("end render pass: %w", err)
	}
	a.Profiler.EndScope("Encode")

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish encoder: %w", err)
	}
	defer cmd.Release()

	a.Profiler.BeginScope("Present")
	a.Queue.Submit(cmd)
	a.Surface.Present()
	a.Profiler.EndScope("Present")
	return nil
}

func (a *App) Release() {
	a.releaseScene()
	a.TextMaterial.Release()
	for _, p := range []*wgpu.RenderPipeline{a.LitPipeline, a.BlendPipeline, a.SkyPipeline, a.TextPipeline} {
		if p != nil {
			p.Release()
		}
	}
	if a.BufferManager != nil {
		a.BufferManager.Release()
	}
	if a.DepthView != nil {
		a.DepthView.Release()
	}
	if a.DepthTexture != nil {
		a.DepthTexture.Release()
	}
	if a.Surface != nil {
		a.Surface.Release()
	}
	if a.Device != nil {
		a.Device.Release()
	}
	if a.Adapter != nil {
		a.Adapter.Release()
	}
	if a.Instance != nil {
		a.Instance.Release()
	}
}

func GetSurfaceDescriptor(w *glfw.Window) *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(w)
}
