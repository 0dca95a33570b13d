package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextRenderer_EmbeddedFont(t *testing.T) {
	tr, err := NewTextRenderer("", 16)
	require.NoError(t, err)

	assert.Contains(t, tr.Glyphs, 'A')
	assert.Contains(t, tr.Glyphs, '~')
	assert.NotContains(t, tr.Glyphs, 'é')

	w1, h1 := tr.MeasureText("FPS", 1)
	w2, h2 := tr.MeasureText("FPS", 2)
	assert.Greater(t, w1, float32(0))
	assert.InDelta(t, 2*w1, w2, 1e-3)
	assert.InDelta(t, 2*h1, h2, 1e-3)

	_, hTwo := tr.MeasureText("a\nb", 1)
	assert.InDelta(t, 2*h1, hTwo, 1e-3)
}

func TestTextRenderer_BuildVertices(t *testing.T) {
	tr, err := NewTextRenderer("", 16)
	require.NoError(t, err)

	items := []TextItem{
		{Text: "ab c", Position: [2]float32{10, 10}, Scale: 1, Color: [4]float32{1, 1, 1, 1}},
	}
	verts := tr.BuildVertices(items, 800, 600)
	glyphs := 0
	for _, r := range items[0].Text {
		if _, ok := tr.Glyphs[r]; ok {
			glyphs++
		}
	}
	assert.GreaterOrEqual(t, glyphs, 3)
	assert.Len(t, verts, glyphs*6)
	for _, v := range verts {
		assert.GreaterOrEqual(t, v.Pos[0], float32(-1))
		assert.LessOrEqual(t, v.Pos[0], float32(1))
		assert.Equal(t, [4]float32{1, 1, 1, 1}, v.Color)
	}

	assert.Empty(t, tr.BuildVertices(items, 0, 600))
}

func TestTextRenderer_MissingFontFile(t *testing.T) {
	_, err := NewTextRenderer("/does/not/exist.ttf", 16)
	assert.Error(t, err)
}
