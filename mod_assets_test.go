package forest

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	rtcore "github.com/gekko3d/forest/forestrt/rt/core"
)

func writePNG(t *testing.T, w, h int, c color.RGBA) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetRGBA(x, y, c)
		}
	}
	path := filepath.Join(t.TempDir(), "tex.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestBuildMipChain(t *testing.T) {
	levels := BuildMipChain(image.NewRGBA(image.Rect(0, 0, 8, 2)))

	sizes := make([][2]uint32, len(levels))
	for i, l := range levels {
		sizes[i] = [2]uint32{l.Width, l.Height}
		assert.Len(t, l.Pixels, int(l.Width*l.Height*4))
	}
	assert.Equal(t, [][2]uint32{{8, 2}, {4, 1}, {2, 1}, {1, 1}}, sizes)
}

func TestDecodeTextureFile(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	path := writePNG(t, 4, 4, red)

	tex, err := DecodeTextureFile(path, true)
	require.NoError(t, err)
	assert.True(t, tex.Mirrored)
	assert.Equal(t, uint32(4), tex.Width())
	assert.Equal(t, uint32(4), tex.Height())
	require.Len(t, tex.Levels, 3)
	last := tex.Levels[2].Pixels
	require.Len(t, last, 4)
	assert.InDelta(t, 255, last[0], 1, "a flat image keeps its color down the chain")
	assert.InDelta(t, 0, last[1], 1)
	assert.InDelta(t, 255, last[3], 1)

	_, err = DecodeTextureFile(filepath.Join(t.TempDir(), "missing.png"), false)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestAssetServer_LoadTexturesInOrderWithFallback(t *testing.T) {
	obs, logs := observer.New(zapcore.DebugLevel)
	server := NewAssetServer(NewLoggerWithCore(obs, false))

	good := writePNG(t, 2, 2, color.RGBA{G: 255, A: 255})
	missing := filepath.Join(t.TempDir(), "nope.jpg")
	custom := func() rtcore.TextureImage { return NoteTexture(8) }

	ids, err := server.LoadTextures(context.Background(),
		TextureRequest{Path: good},
		TextureRequest{Path: missing, Mirrored: true},
		TextureRequest{Path: missing + ".2", Fallback: custom},
		TextureRequest{Path: good},
	)
	require.NoError(t, err)
	require.Len(t, ids, 4)

	first, ok := server.Texture(ids[0])
	require.True(t, ok)
	assert.Equal(t, uint32(2), first.Width())

	checker, _ := server.Texture(ids[1])
	assert.Equal(t, uint32(64), checker.Width())
	assert.True(t, checker.Mirrored)

	note, _ := server.Texture(ids[2])
	assert.Equal(t, "note", note.Name)

	assert.Equal(t, ids[0], ids[3], "the same file is decoded once")
	assert.Equal(t, 3, server.TextureCount())
	assert.Equal(t, 2, logs.FilterLevelExact(zapcore.WarnLevel).Len())
}

func TestAssetServer_ConcurrentSameKeyKeepsOneTexture(t *testing.T) {
	server := NewAssetServer(nil)
	good := writePNG(t, 4, 4, color.RGBA{R: 255, A: 255})

	reqs := make([]TextureRequest, 16)
	for i := range reqs {
		reqs[i] = TextureRequest{Path: good}
	}
	ids, err := server.LoadTextures(context.Background(), reqs...)
	require.NoError(t, err)

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	assert.Equal(t, 1, server.TextureCount(), "racing loads leave no orphaned textures")
}

func TestAssetServer_LoadTexturesCancelled(t *testing.T) {
	server := NewAssetServer(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := server.LoadTextures(ctx, TextureRequest{Path: "x.png"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAssetServer_LoadMeshFallback(t *testing.T) {
	server := NewAssetServer(nil)
	id := server.LoadMesh(filepath.Join(t.TempDir(), "Tree.obj"), func() *rtcore.Mesh {
		return rtcore.NewProceduralTreeMesh(6)
	})

	mesh, ok := server.Mesh(id)
	require.True(t, ok)
	assert.NoError(t, mesh.Validate())

	_, ok = server.Mesh("unknown")
	assert.False(t, ok)
}

func TestCheckerTexture(t *testing.T) {
	tex := CheckerTexture("c", 16, 4, false)
	require.NotEmpty(t, tex.Levels)
	px := tex.Levels[0].Pixels
	assert.NotEqual(t, px[0:4], px[4*4:4*4+4], "neighbouring cells differ")
}
