package core

import (
	"math"

	"github.com/chewxy/math32"
)

// pickEpsilon rejects rays parallel to a face and hits behind the origin.
const pickEpsilon = 1e-7

// Hit describes the nearest triangle a ray struck.
type Hit struct {
	Triangle int     // face index; vertices 3*Triangle .. 3*Triangle+2
	Distance float32 // along dir, in units of |dir|
	Point    Vec3
}

// Geographic returns the hit point in geographic coordinates relative to radius.
func (h Hit) Geographic(radius float32) Geographic {
	return CartesianToGeographic(h.Point, radius)
}

// RaySphere intersects a ray with a sphere centered at the origin and returns
// the closest non-negative t.
func RaySphere(origin, dir Vec3, radius float32) (float32, bool) {
	a := dir.Dot(dir)
	if a == 0 {
		return 0, false
	}
	b := 2.0 * origin.Dot(dir)
	c := origin.Dot(origin) - radius*radius
	discriminant := b*b - 4*a*c

	if discriminant < 0 {
		return 0, false
	}

	sqrtD := math32.Sqrt(discriminant)
	t0 := (-b - sqrtD) / (2.0 * a)
	t1 := (-b + sqrtD) / (2.0 * a)

	// Use the closer positive intersection
	t := t0
	if t < 0 {
		t = t1
		if t < 0 {
			return 0, false
		}
	}
	return t, true
}

// PickTriangle returns the nearest triangle of m hit by the ray origin+t·dir
// for t > 0. Rays that miss the bounding sphere of the mesh skip the
// per-triangle test.
func PickTriangle(m *Mesh, origin, dir Vec3) (Hit, bool) {
	if m == nil || len(m.Vertices) < 3 {
		return Hit{}, false
	}
	bound := m.Stats.MaxHeight
	if bound <= 0 {
		bound = boundingRadius(m)
	}
	// inside the bound the ray always crosses the sphere
	if Length(origin) > bound {
		if _, ok := RaySphere(origin, dir, bound*1.001); !ok {
			return Hit{}, false
		}
	}

	best := Hit{Triangle: -1}
	for i := 0; i+2 < len(m.Vertices); i += 3 {
		t, ok := intersectTriangle(origin, dir,
			m.Vertices[i].Position, m.Vertices[i+1].Position, m.Vertices[i+2].Position)
		if !ok {
			continue
		}
		if best.Triangle < 0 || t < best.Distance {
			best = Hit{Triangle: i / 3, Distance: t}
		}
	}
	if best.Triangle < 0 {
		return Hit{}, false
	}
	best.Point = origin.Add(dir.Mul(best.Distance))
	return best, true
}

// intersectTriangle is the Möller–Trumbore test; it accepts both windings.
func intersectTriangle(origin, dir, a, b, c Vec3) (float32, bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := dir.Cross(e2)
	det := e1.Dot(p)
	if math32.Abs(det) < pickEpsilon {
		return 0, false
	}
	inv := 1 / det

	s := origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := e2.Dot(q) * inv
	if t <= pickEpsilon {
		return 0, false
	}
	return t, true
}

func boundingRadius(m *Mesh) float32 {
	var r float32
	for _, v := range m.Vertices {
		if l := Length(v.Position); l > r {
			r = l
		}
	}
	return r
}

// PickScene returns the index of the mesh holding the nearest opaque hit.
// Translucent meshes are skipped so clicks reach the ground below a shell.
func PickScene(meshes []*Mesh, origin, dir Vec3) (int, Hit, bool) {
	index := -1
	var best Hit
	for i, m := range meshes {
		if m == nil || m.Translucent() {
			continue
		}
		hit, ok := PickTriangle(m, origin, dir)
		if !ok || index >= 0 && hit.Distance >= best.Distance {
			continue
		}
		index, best = i, hit
	}
	return index, best, index >= 0
}

// PickGeographic casts a ray from outside m toward the center through the
// surface direction g and returns the first triangle it strikes. Latitude is
// clamped and longitude wrapped first; non-finite coordinates never hit.
func PickGeographic(m *Mesh, g Geographic) (Hit, bool) {
	if m == nil {
		return Hit{}, false
	}
	g = NormalizeCoordinates(g)
	if math.IsNaN(g.Lat) || math.IsNaN(g.Lon) {
		return Hit{}, false
	}
	g.Alt = 0
	target := GeographicToCartesian(g, 1)
	bound := m.Stats.MaxHeight
	if bound <= 0 {
		bound = 1
	}
	return PickTriangle(m, target.Mul(bound*2), target.Mul(-1))
}
