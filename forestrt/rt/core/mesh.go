package core

import (
	"errors"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

var ErrEmptyMesh = errors.New("mesh has no triangles")

// Vertex is the shared vertex format of every lit and blended mesh.
// The tags drive the GPU vertex buffer layout.
type Vertex struct {
	Position [3]float32 `gekko:"layout" location:"0" format:"float3"`
	Normal   [3]float32 `gekko:"layout" location:"1" format:"float3"`
	UV       [2]float32 `gekko:"layout" location:"2" format:"float2"`
}

type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
}

func (m *Mesh) Validate() error {
	if m == nil || len(m.Vertices) == 0 || len(m.Indices) < 3 {
		return ErrEmptyMesh
	}
	return nil
}

// Bounds returns the local-space AABB of the mesh.
func (m *Mesh) Bounds() [2]mgl32.Vec3 {
	if len(m.Vertices) == 0 {
		return [2]mgl32.Vec3{}
	}
	minV := mgl32.Vec3(m.Vertices[0].Position)
	maxV := minV
	for _, v := range m.Vertices[1:] {
		for k := 0; k < 3; k++ {
			minV[k] = math32.Min(minV[k], v.Position[k])
			maxV[k] = math32.Max(maxV[k], v.Position[k])
		}
	}
	return [2]mgl32.Vec3{minV, maxV}
}

func (m *Mesh) addQuad(a, b, c, d Vertex) {
	base := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, a, b, c, d)
	m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
}

// NewFloorMesh is a square at height y spanning ±half with the texture
// repeated uvRepeat times across it.
func NewFloorMesh(half, y, uvRepeat float32) *Mesh {
	up := [3]float32{0, 1, 0}
	m := &Mesh{Name: "floor"}
	m.addQuad(
		Vertex{Position: [3]float32{half, y, half}, Normal: up, UV: [2]float32{uvRepeat, 0}},
		Vertex{Position: [3]float32{half, y, -half}, Normal: up, UV: [2]float32{uvRepeat, uvRepeat}},
		Vertex{Position: [3]float32{-half, y, -half}, Normal: up, UV: [2]float32{0, uvRepeat}},
		Vertex{Position: [3]float32{-half, y, half}, Normal: up, UV: [2]float32{0, 0}},
	)
	return m
}

// NewNoteQuadMesh is a unit quad standing on its left edge at the origin,
// x in [0,1] and y in [-0.5,0.5], with flipped V.
func NewNoteQuadMesh() *Mesh {
	n := [3]float32{0, 0, 1}
	m := &Mesh{Name: "note"}
	m.addQuad(
		Vertex{Position: [3]float32{0, 0.5, 0}, Normal: n, UV: [2]float32{0, 0}},
		Vertex{Position: [3]float32{0, -0.5, 0}, Normal: n, UV: [2]float32{0, 1}},
		Vertex{Position: [3]float32{1, -0.5, 0}, Normal: n, UV: [2]float32{1, 1}},
		Vertex{Position: [3]float32{1, 0.5, 0}, Normal: n, UV: [2]float32{1, 0}},
	)
	return m
}

// NewCubeMesh is an axis-aligned unit cube centred on the origin.
func NewCubeMesh() *Mesh {
	m := &Mesh{Name: "cube"}
	type face struct {
		n, u, v mgl32.Vec3
	}
	faces := []face{
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
	}
	for _, f := range faces {
		c := f.n.Mul(0.5)
		corner := func(su, sv float32, uv [2]float32) Vertex {
			p := c.Add(f.u.Mul(su * 0.5)).Add(f.v.Mul(sv * 0.5))
			return Vertex{Position: p, Normal: f.n, UV: uv}
		}
		m.addQuad(
			corner(-1, -1, [2]float32{0, 1}),
			corner(1, -1, [2]float32{1, 1}),
			corner(1, 1, [2]float32{1, 0}),
			corner(-1, 1, [2]float32{0, 0}),
		)
	}
	return m
}

// NewProceduralTreeMesh builds a cylinder trunk topped by a cone crown,
// standing on y=0 with a total height of one unit.
func NewProceduralTreeMesh(segments int) *Mesh {
	if segments < 3 {
		segments = 3
	}
	m := &Mesh{Name: "tree"}

	const (
		trunkRadius = 0.06
		trunkHeight = 0.3
		crownRadius = 0.35
		crownBase   = 0.25
		crownTop    = 1.0
	)

	step := 2 * math32.Pi / float32(segments)
	for i := 0; i < segments; i++ {
		a0 := float32(i) * step
		a1 := float32(i+1) * step
		s0, c0 := math32.Sincos(a0)
		s1, c1 := math32.Sincos(a1)
		u0 := float32(i) / float32(segments)
		u1 := float32(i+1) / float32(segments)

		// Trunk side.
		m.addQuad(
			Vertex{Position: [3]float32{c0 * trunkRadius, 0, s0 * trunkRadius}, Normal: [3]float32{c0, 0, s0}, UV: [2]float32{u0, 1}},
			Vertex{Position: [3]float32{c1 * trunkRadius, 0, s1 * trunkRadius}, Normal: [3]float32{c1, 0, s1}, UV: [2]float32{u1, 1}},
			Vertex{Position: [3]float32{c1 * trunkRadius, trunkHeight, s1 * trunkRadius}, Normal: [3]float32{c1, 0, s1}, UV: [2]float32{u1, 0.7}},
			Vertex{Position: [3]float32{c0 * trunkRadius, trunkHeight, s0 * trunkRadius}, Normal: [3]float32{c0, 0, s0}, UV: [2]float32{u0, 0.7}},
		)

		// Crown side; the normal leans up by the cone slope.
		slope := float32(crownRadius / (crownTop - crownBase))
		n0 := mgl32.Vec3{c0, slope, s0}.Normalize()
		n1 := mgl32.Vec3{c1, slope, s1}.Normalize()
		nm := n0.Add(n1).Normalize()
		base := uint32(len(m.Vertices))
		m.Vertices = append(m.Vertices,
			Vertex{Position: [3]float32{c0 * crownRadius, crownBase, s0 * crownRadius}, Normal: n0, UV: [2]float32{u0, 0.6}},
			Vertex{Position: [3]float32{c1 * crownRadius, crownBase, s1 * crownRadius}, Normal: n1, UV: [2]float32{u1, 0.6}},
			Vertex{Position: [3]float32{0, crownTop, 0}, Normal: nm, UV: [2]float32{(u0 + u1) / 2, 0}},
		)
		m.Indices = append(m.Indices, base, base+2, base+1)

		// Crown underside.
		down := [3]float32{0, -1, 0}
		base = uint32(len(m.Vertices))
		m.Vertices = append(m.Vertices,
			Vertex{Position: [3]float32{0, crownBase, 0}, Normal: down, UV: [2]float32{0.5, 0.65}},
			Vertex{Position: [3]float32{c0 * crownRadius, crownBase, s0 * crownRadius}, Normal: down, UV: [2]float32{u0, 0.65}},
			Vertex{Position: [3]float32{c1 * crownRadius, crownBase, s1 * crownRadius}, Normal: down, UV: [2]float32{u1, 0.65}},
		)
		m.Indices = append(m.Indices, base, base+1, base+2)
	}
	return m
}
