package forest

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"

	"github.com/google/uuid"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/gekko3d/forest/forestrt/rt/core"
)

type AssetId string

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}

// TextureRequest names a texture file and its wrap mode.
type TextureRequest struct {
	Path     string
	Mirrored bool
	// Fallback replaces the texture when the file cannot be decoded.
	// Nil selects a checker pattern.
	Fallback func() core.TextureImage
}

// AssetServer decodes and caches CPU-side textures and meshes. Missing files
// are replaced by procedural stand-ins so loading never fails on content.
type AssetServer struct {
	mu       sync.Mutex
	logger   Logger
	textures map[AssetId]core.TextureImage
	meshes   map[AssetId]*core.Mesh
	paths    map[textureKey]AssetId
}

type textureKey struct {
	path     string
	mirrored bool
}

func NewAssetServer(logger Logger) *AssetServer {
	if logger == nil {
		logger = NewNopLogger()
	}
	return &AssetServer{
		logger:   logger,
		textures: make(map[AssetId]core.TextureImage),
		meshes:   make(map[AssetId]*core.Mesh),
		paths:    make(map[textureKey]AssetId),
	}
}

// AssetServerModule installs a shared AssetServer. ForestModule installs one
// itself when none is present.
type AssetServerModule struct{}

func (AssetServerModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(NewAssetServer(app.Logger()))
}

func (server *AssetServer) Texture(id AssetId) (core.TextureImage, bool) {
	server.mu.Lock()
	defer server.mu.Unlock()
	t, ok := server.textures[id]
	return t, ok
}

// TextureCount is the number of distinct textures held.
func (server *AssetServer) TextureCount() int {
	server.mu.Lock()
	defer server.mu.Unlock()
	return len(server.textures)
}

func (server *AssetServer) Mesh(id AssetId) (*core.Mesh, bool) {
	server.mu.Lock()
	defer server.mu.Unlock()
	m, ok := server.meshes[id]
	return m, ok
}

// AddTexture registers an already decoded texture.
func (server *AssetServer) AddTexture(tex core.TextureImage) AssetId {
	id := makeAssetId()
	server.mu.Lock()
	server.textures[id] = tex
	server.mu.Unlock()
	return id
}

func (server *AssetServer) AddMesh(mesh *core.Mesh) AssetId {
	id := makeAssetId()
	server.mu.Lock()
	server.meshes[id] = mesh
	server.mu.Unlock()
	return id
}

// LoadTextures decodes every request in parallel. The returned ids are in
// request order. Only context cancellation is reported as an error; unreadable
// files fall back to a checker texture with a warning.
func (server *AssetServer) LoadTextures(ctx context.Context, reqs ...TextureRequest) ([]AssetId, error) {
	ids := make([]AssetId, len(reqs))
	g, ctx := errgroup.WithContext(ctx)

	for i, req := range reqs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ids[i] = server.loadTexture(req)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load textures: %w", err)
	}
	return ids, nil
}

func (server *AssetServer) loadTexture(req TextureRequest) AssetId {
	key := textureKey{path: req.Path, mirrored: req.Mirrored}
	server.mu.Lock()
	if id, ok := server.paths[key]; ok {
		server.mu.Unlock()
		return id
	}
	server.mu.Unlock()

	tex, err := DecodeTextureFile(req.Path, req.Mirrored)
	if err != nil {
		server.logger.Warnf("texture %s: %v, using fallback", req.Path, err)
		if req.Fallback != nil {
			tex = req.Fallback()
		} else {
			tex = CheckerTexture(req.Path, 64, 8, req.Mirrored)
		}
	}

	server.mu.Lock()
	defer server.mu.Unlock()
	// Another request for the same key may have finished first.
	if id, ok := server.paths[key]; ok {
		return id
	}
	id := makeAssetId()
	server.textures[id] = tex
	server.paths[key] = id
	return id
}

// LoadMesh parses an OBJ file, or registers fallback() when it cannot.
func (server *AssetServer) LoadMesh(path string, fallback func() *core.Mesh) AssetId {
	mesh, err := core.LoadOBJ(path)
	if err != nil {
		server.logger.Warnf("model %s: %v, using procedural mesh", path, err)
		mesh = fallback()
	}
	return server.AddMesh(mesh)
}

// DecodeTextureFile reads a PNG, JPEG or BMP and builds its full mip chain.
func DecodeTextureFile(path string, mirrored bool) (core.TextureImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return core.TextureImage{}, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return core.TextureImage{}, fmt.Errorf("decode: %w", err)
	}

	rgba := toRGBA(img)
	tex := core.TextureImage{Name: path, Levels: BuildMipChain(rgba), Mirrored: mirrored}
	return tex, nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// BuildMipChain halves the image down to 1x1 with bilinear filtering.
func BuildMipChain(base *image.RGBA) []core.MipLevel {
	w, h := base.Rect.Dx(), base.Rect.Dy()
	levels := []core.MipLevel{{Width: uint32(w), Height: uint32(h), Pixels: base.Pix}}

	prev := base
	for w > 1 || h > 1 {
		w, h = max(w/2, 1), max(h/2, 1)
		next := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.BiLinear.Scale(next, next.Rect, prev, prev.Rect, draw.Src, nil)
		levels = append(levels, core.MipLevel{Width: uint32(w), Height: uint32(h), Pixels: next.Pix})
		prev = next
	}
	return levels
}
