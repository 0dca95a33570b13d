package core

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quadOBJ = `# unit quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
f 1/1/1 2/2/1 3/3/1 4/4/1
`

func TestParseOBJ_QuadIsFanTriangulated(t *testing.T) {
	mesh, err := ParseOBJ(strings.NewReader(quadOBJ))
	require.NoError(t, err)

	assert.Len(t, mesh.Vertices, 4, "shared refs are deduplicated")
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, mesh.Indices)
	assert.Equal(t, [3]float32{0, 0, 1}, mesh.Vertices[0].Normal)
	// V is flipped.
	assert.Equal(t, [2]float32{0, 1}, mesh.Vertices[0].UV)
	assert.Equal(t, [2]float32{1, 0}, mesh.Vertices[2].UV)
}

func TestParseOBJ_NegativeIndicesAndFaceNormals(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
v 0 0 -1
f -3 -2 -1
`
	mesh, err := ParseOBJ(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, mesh.Indices, 3)
	require.Len(t, mesh.Vertices, 3)

	n := mgl32.Vec3(mesh.Vertices[0].Normal)
	assert.True(t, n.ApproxEqual(mgl32.Vec3{0, 1, 0}), "got %v", n)
}

func TestParseOBJ_PositionAndNormalOnly(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 2
f 1//1 2//1 3//1
`
	mesh, err := ParseOBJ(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, [3]float32{0, 0, 1}, mesh.Vertices[1].Normal, "normals are normalized")
	assert.Equal(t, [2]float32{0, 0}, mesh.Vertices[1].UV)
}

func TestParseOBJ_Errors(t *testing.T) {
	cases := map[string]string{
		"out of range":  "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 9\n",
		"zero index":    "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n",
		"bad float":     "v 0 x 0\n",
		"short face":    "v 0 0 0\nv 1 0 0\nf 1 2\n",
		"too many refs": "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1/1/1/1 2 3\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseOBJ(strings.NewReader(src))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrBadOBJ), "got %v", err)
		})
	}
}

func TestParseOBJ_NoFacesIsEmptyMesh(t *testing.T) {
	_, err := ParseOBJ(strings.NewReader("v 0 0 0\n# nothing else\n"))
	assert.ErrorIs(t, err, ErrEmptyMesh)
}

func TestLoadOBJ_FromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quad.obj")
	require.NoError(t, os.WriteFile(path, []byte(quadOBJ), 0o644))

	mesh, err := LoadOBJ(path)
	require.NoError(t, err)
	assert.Equal(t, path, mesh.Name)

	_, err = LoadOBJ(filepath.Join(dir, "missing.obj"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
