package core

import "fmt"

const (
	// Phi is the golden ratio approximation used for the base icosahedron.
	Phi float32 = 1.618

	// MaxDepth bounds subdivision; depth 9 already yields ~5.2M triangles.
	MaxDepth = 9
)

// Triangle is one leaf face. A, B and C index Icosphere.Vertices.
type Triangle struct {
	A, B, C int
}

// Icosphere is a subdivided icosahedron whose corners are welded: triangles that
// share a corner share the same slot in Vertices, so moving a vertex moves it
// for every face that uses it.
type Icosphere struct {
	Radius    float32
	Depth     int
	Vertices  []Vec3
	Triangles []Triangle
}

// Corners returns the current positions of triangle i.
func (s *Icosphere) Corners(i int) (Vec3, Vec3, Vec3) {
	t := s.Triangles[i]
	return s.Vertices[t.A], s.Vertices[t.B], s.Vertices[t.C]
}

// Clone deep-copies the sphere so the copy can be displaced independently.
func (s *Icosphere) Clone() *Icosphere {
	c := &Icosphere{
		Radius:    s.Radius,
		Depth:     s.Depth,
		Vertices:  make([]Vec3, len(s.Vertices)),
		Triangles: make([]Triangle, len(s.Triangles)),
	}
	copy(c.Vertices, s.Vertices)
	copy(c.Triangles, s.Triangles)
	return c
}

// TriangleCount returns 20·4^depth
func TriangleCount(depth int) int {
	return 20 << (2 * uint(depth))
}

// VertexCount returns the closed icosphere vertex count 10·4^depth + 2
func VertexCount(depth int) int {
	return 10<<(2*uint(depth)) + 2
}

// icosahedronFaces is the fixed outward-wound face table.
var icosahedronFaces = [20][3]int{
	{0, 2, 10}, {0, 10, 5}, {0, 5, 4}, {0, 4, 8}, {0, 8, 2},
	{3, 1, 11}, {3, 11, 7}, {3, 7, 6}, {3, 6, 9}, {3, 9, 1},
	{2, 6, 7}, {2, 7, 10}, {10, 7, 11}, {10, 11, 5}, {5, 11, 1},
	{5, 1, 4}, {4, 1, 9}, {4, 9, 8}, {8, 9, 6}, {8, 6, 2},
}

// icosahedronVertices builds the 12 corners from three orthogonal golden
// rectangles scaled by radius.
func icosahedronVertices(radius float32) [12]Vec3 {
	h := 0.5 * radius
	p := Phi / 2 * radius
	return [12]Vec3{
		{h, 0, p},
		{h, 0, -p},
		{-h, 0, p},
		{-h, 0, -p},
		{p, h, 0},
		{p, -h, 0},
		{-p, h, 0},
		{-p, -h, 0},
		{0, p, h},
		{0, p, -h},
		{0, -p, h},
		{0, -p, -h},
	}
}

// GenerateTriangles subdivides an icosahedron of the given radius depth times and
// welds shared corners. Output order is fixed: base faces in table order, and
// within a face the three corner children before the center child.
func GenerateTriangles(radius float32, depth int) (*Icosphere, error) {
	if depth < 0 || depth > MaxDepth {
		return nil, fmt.Errorf("%w: %d (want 0..%d)", ErrInvalidDepth, depth, MaxDepth)
	}
	if !(radius > 0) || !isFinite(radius) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRadius, radius)
	}

	b := &subdivider{
		radius:    radius,
		registry:  newWeldRegistry(VertexCount(depth)),
		triangles: make([]Triangle, 0, TriangleCount(depth)),
	}

	corners := icosahedronVertices(radius)
	for _, f := range icosahedronFaces {
		b.subdivide(corners[f[0]], corners[f[1]], corners[f[2]], depth)
	}

	return &Icosphere{
		Radius:    radius,
		Depth:     depth,
		Vertices:  b.registry.vertices,
		Triangles: b.triangles,
	}, nil
}

type subdivider struct {
	radius    float32
	registry  *weldRegistry
	triangles []Triangle
}

func (b *subdivider) subdivide(v1, v2, v3 Vec3, depth int) {
	if depth == 0 {
		b.triangles = append(b.triangles, Triangle{
			A: b.registry.resolve(NormalizeTo(v1, b.radius)),
			B: b.registry.resolve(NormalizeTo(v2, b.radius)),
			C: b.registry.resolve(NormalizeTo(v3, b.radius)),
		})
		return
	}

	// Sum before normalizing: a+b == b+a exactly, so both faces sharing an
	// edge produce bit-identical midpoints.
	v12 := NormalizeTo(Add(v1, v2), b.radius)
	v23 := NormalizeTo(Add(v2, v3), b.radius)
	v31 := NormalizeTo(Add(v3, v1), b.radius)

	b.subdivide(v1, v12, v31, depth-1)
	b.subdivide(v2, v23, v12, depth-1)
	b.subdivide(v3, v31, v23, depth-1)
	b.subdivide(v12, v23, v31, depth-1)
}
