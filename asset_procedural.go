package forest

import (
	"image"
	"image/color"

	"github.com/gekko3d/forest/forestrt/rt/core"
)

// CheckerTexture is the stand-in for textures that failed to load.
func CheckerTexture(name string, size, cells int, mirrored bool) core.TextureImage {
	if cells <= 0 {
		cells = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	cell := max(size/cells, 1)
	light := color.RGBA{R: 200, G: 200, B: 200, A: 255}
	dark := color.RGBA{R: 60, G: 90, B: 50, A: 255}
	for y := range size {
		for x := range size {
			if (x/cell+y/cell)%2 == 0 {
				img.SetRGBA(x, y, light)
			} else {
				img.SetRGBA(x, y, dark)
			}
		}
	}
	return core.TextureImage{Name: name, Levels: BuildMipChain(img), Mirrored: mirrored}
}

// NoteTexture is an opaque disc on a transparent square, used when the
// note texture is missing so alpha discard still has something to cut.
func NoteTexture(size int) core.TextureImage {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	r := float32(size) / 2
	for y := range size {
		for x := range size {
			dx, dy := float32(x)+0.5-r, float32(y)+0.5-r
			if dx*dx+dy*dy <= r*r {
				img.SetRGBA(x, y, color.RGBA{R: 90, G: 160, B: 60, A: 255})
			}
		}
	}
	return core.TextureImage{Name: "note", Levels: BuildMipChain(img)}
}
