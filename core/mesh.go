package core

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// FloatsPerVertex is the interleaved stride: position(3) color(4) normal(3).
const FloatsPerVertex = 10

// Vertex is one corner record of the render buffer.
type Vertex struct {
	Position Vec3
	Color    mgl32.Vec4
	Normal   Vec3
}

// Stats summarizes a generated mesh.
type Stats struct {
	Triangles       int     `json:"triangles"`
	UniqueVertices  int     `json:"uniqueVertices"`
	MaxHeight       float32 `json:"maxHeight"`
	DegenerateFaces int     `json:"degenerateFaces"`
}

// Mesh is a flat triangle list: every face owns three fresh vertices and
// Indices[i] == i.
type Mesh struct {
	Kind     Kind
	Vertices []Vertex
	Indices  []uint32
	Stats    Stats
}

// TriangleCount returns len(Vertices)/3.
func (m *Mesh) TriangleCount() int {
	return len(m.Vertices) / 3
}

// Interleaved packs the vertices into the float layout expected by the
// render-buffer upload.
func (m *Mesh) Interleaved() []float32 {
	out := make([]float32, 0, len(m.Vertices)*FloatsPerVertex)
	for _, v := range m.Vertices {
		out = append(out,
			v.Position[0], v.Position[1], v.Position[2],
			v.Color[0], v.Color[1], v.Color[2], v.Color[3],
			v.Normal[0], v.Normal[1], v.Normal[2],
		)
	}
	return out
}

// Translucent reports whether any vertex has alpha below one.
func (m *Mesh) Translucent() bool {
	for _, v := range m.Vertices {
		if v.Color[3] < 1 {
			return true
		}
	}
	return false
}

// Assemble expands every face of sphere into three vertex records with colors
// from colorizer and normals per mode. Welded vertex identities are not reused
// in the output; they only exist to keep displacement seam-free.
func Assemble(kind Kind, sphere *Icosphere, colorizer Colorizer, mode NormalMode) (*Mesh, error) {
	n := len(sphere.Triangles)
	m := &Mesh{
		Kind:     kind,
		Vertices: make([]Vertex, 0, 3*n),
		Indices:  make([]uint32, 3*n),
		Stats: Stats{
			Triangles:      n,
			UniqueVertices: len(sphere.Vertices),
		},
	}

	for i := range sphere.Triangles {
		a, b, c := sphere.Corners(i)
		corners := [3]Vec3{a, b, c}

		normals, fellBack, err := cornerNormals(mode, a, b, c)
		if err != nil {
			return nil, fmt.Errorf("triangle %d: %w", i, err)
		}
		if fellBack {
			m.Stats.DegenerateFaces++
		}

		colors := colorizer.Colorize(corners)
		for k := 0; k < 3; k++ {
			m.Vertices = append(m.Vertices, Vertex{
				Position: corners[k],
				Color:    colors[k],
				Normal:   normals[k],
			})
		}
	}

	for i := range m.Indices {
		m.Indices[i] = uint32(i)
	}
	return m, nil
}
