package core

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

var ErrBadOBJ = errors.New("malformed obj")

// LoadOBJ reads a Wavefront OBJ file from disk.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model: %w", err)
	}
	defer f.Close()

	mesh, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	mesh.Name = path
	return mesh, nil
}

// ParseOBJ reads positions, texture coordinates, normals and faces.
// Polygons are fan-triangulated, negative indices are resolved relative to
// the current list and missing normals are replaced by face normals.
// Materials, groups and smoothing directives are ignored.
func ParseOBJ(r io.Reader) (*Mesh, error) {
	var (
		positions []mgl32.Vec3
		uvs       []mgl32.Vec2
		normals   []mgl32.Vec3
	)
	mesh := &Mesh{}
	dedup := make(map[[3]int]uint32)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			positions = append(positions, mgl32.Vec3{v[0], v[1], v[2]})
		case "vt":
			v, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			// OBJ has V up, textures are stored top-down.
			uvs = append(uvs, mgl32.Vec2{v[0], 1 - v[1]})
		case "vn":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			normals = append(normals, mgl32.Vec3{v[0], v[1], v[2]}.Normalize())
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs 3 vertices: %w", lineNo, ErrBadOBJ)
			}
			refs := make([][3]int, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				ref, err := parseFaceRef(tok, len(positions), len(uvs), len(normals))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				refs = append(refs, ref)
			}
			for i := 1; i+1 < len(refs); i++ {
				tri := [3][3]int{refs[0], refs[i], refs[i+1]}
				faceNormal := triangleNormal(positions[tri[0][0]], positions[tri[1][0]], positions[tri[2][0]])
				for _, ref := range tri {
					if ref[2] < 0 {
						// No shared vertex: face normals differ per face.
						mesh.Indices = append(mesh.Indices, uint32(len(mesh.Vertices)))
						mesh.Vertices = append(mesh.Vertices, objVertex(ref, positions, uvs, normals, faceNormal))
						continue
					}
					idx, ok := dedup[ref]
					if !ok {
						idx = uint32(len(mesh.Vertices))
						mesh.Vertices = append(mesh.Vertices, objVertex(ref, positions, uvs, normals, faceNormal))
						dedup[ref] = idx
					}
					mesh.Indices = append(mesh.Indices, idx)
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	return mesh, nil
}

func objVertex(ref [3]int, positions []mgl32.Vec3, uvs []mgl32.Vec2, normals []mgl32.Vec3, faceNormal mgl32.Vec3) Vertex {
	v := Vertex{Position: positions[ref[0]], Normal: faceNormal}
	if ref[1] >= 0 {
		v.UV = uvs[ref[1]]
	}
	if ref[2] >= 0 {
		v.Normal = normals[ref[2]]
	}
	return v
}

func triangleNormal(a, b, c mgl32.Vec3) mgl32.Vec3 {
	n := b.Sub(a).Cross(c.Sub(a))
	if n.Len() == 0 {
		return mgl32.Vec3{0, 1, 0}
	}
	return n.Normalize()
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("expected %d values, got %d: %w", n, len(fields), ErrBadOBJ)
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", fields[i], ErrBadOBJ)
		}
		out[i] = float32(f)
	}
	return out, nil
}

// parseFaceRef parses "v", "v/vt", "v//vn" or "v/vt/vn" into zero-based
// indices, -1 marking an absent element.
func parseFaceRef(tok string, nPos, nUV, nNorm int) ([3]int, error) {
	ref := [3]int{-1, -1, -1}
	parts := strings.Split(tok, "/")
	if len(parts) > 3 {
		return ref, fmt.Errorf("face ref %q: %w", tok, ErrBadOBJ)
	}
	counts := [3]int{nPos, nUV, nNorm}
	for i, p := range parts {
		if p == "" {
			if i == 0 {
				return ref, fmt.Errorf("face ref %q: %w", tok, ErrBadOBJ)
			}
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil || n == 0 {
			return ref, fmt.Errorf("face ref %q: %w", tok, ErrBadOBJ)
		}
		if n < 0 {
			n = counts[i] + n
		} else {
			n--
		}
		if n < 0 || n >= counts[i] {
			return ref, fmt.Errorf("face ref %q out of range: %w", tok, ErrBadOBJ)
		}
		ref[i] = n
	}
	return ref, nil
}
