package core

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Vec3 is the position/normal type used throughout mesh generation.
// Equality is exact component comparison, which vertex welding relies on.
type Vec3 = mgl32.Vec3

// Length returns the euclidean length of v
func Length(v Vec3) float32 {
	return math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// NormalizeTo rescales v to the given length while keeping its direction.
// A zero vector stays zero.
func NormalizeTo(v Vec3, length float32) Vec3 {
	l := Length(v)
	if l == 0 {
		return Vec3{}
	}
	s := length / l
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Sub returns a - b
func Sub(a, b Vec3) Vec3 {
	return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// Add returns a + b
func Add(a, b Vec3) Vec3 {
	return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// Cross returns the right-handed cross product a × b
func Cross(a, b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Centroid returns the arithmetic mean of three points
func Centroid(a, b, c Vec3) Vec3 {
	return Vec3{
		(a[0] + b[0] + c[0]) / 3,
		(a[1] + b[1] + c[1]) / 3,
		(a[2] + b[2] + c[2]) / 3,
	}
}

func isFinite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}
