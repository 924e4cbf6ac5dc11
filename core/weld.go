package core

import "math"

// weldKey identifies a position by its exact float bit patterns.
type weldKey [3]uint32

// weldRegistry resolves geometrically equal vertices emitted during subdivision
// to a single arena slot. It lives for one GenerateTriangles call.
type weldRegistry struct {
	index    map[weldKey]int
	vertices []Vec3
}

func newWeldRegistry(capacity int) *weldRegistry {
	return &weldRegistry{
		index:    make(map[weldKey]int, capacity),
		vertices: make([]Vec3, 0, capacity),
	}
}

func keyOf(v Vec3) weldKey {
	var k weldKey
	for i, c := range v {
		// -0 and +0 compare equal, so they must share a key
		if c == 0 {
			c = 0
		}
		k[i] = math.Float32bits(c)
	}
	return k
}

// resolve returns the arena index for v, registering it when unseen.
func (r *weldRegistry) resolve(v Vec3) int {
	k := keyOf(v)
	if idx, ok := r.index[k]; ok {
		return idx
	}
	idx := len(r.vertices)
	r.vertices = append(r.vertices, v)
	r.index[k] = idx
	return idx
}
