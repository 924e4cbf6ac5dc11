package core

import "fmt"

// degenerateEpsilon is the smallest cross-product length treated as a real face.
const degenerateEpsilon = 1e-12

// NormalMode selects how corner normals are produced.
type NormalMode int

const (
	// NormalsFlat gives all three corners the face normal.
	NormalsFlat NormalMode = iota
	// NormalsRadial gives each corner its own direction from the sphere center.
	NormalsRadial
)

func (m NormalMode) String() string {
	switch m {
	case NormalsFlat:
		return "flat"
	case NormalsRadial:
		return "radial"
	default:
		return fmt.Sprintf("NormalMode(%d)", int(m))
	}
}

// ParseNormalMode accepts "flat", "radial" or "" (flat).
func ParseNormalMode(s string) (NormalMode, error) {
	switch s {
	case "", "flat":
		return NormalsFlat, nil
	case "radial":
		return NormalsRadial, nil
	default:
		return NormalsFlat, fmt.Errorf("unknown normal mode %q", s)
	}
}

// FlatNormal returns the unit normal of triangle (a, b, c) under right-hand
// winding. Zero-area faces yield ErrDegenerateGeometry.
func FlatNormal(a, b, c Vec3) (Vec3, error) {
	n := Cross(Sub(b, a), Sub(c, a))
	l := Length(n)
	if !(l > degenerateEpsilon) || !isFinite(l) {
		return Vec3{}, fmt.Errorf("%w: zero-area face %v %v %v", ErrDegenerateGeometry, a, b, c)
	}
	return Vec3{n[0] / l, n[1] / l, n[2] / l}, nil
}

// radialNormal is the unit direction of p from the origin.
func radialNormal(p Vec3) (Vec3, error) {
	l := Length(p)
	if !(l > degenerateEpsilon) || !isFinite(l) {
		return Vec3{}, fmt.Errorf("%w: point %v has no direction", ErrDegenerateGeometry, p)
	}
	return Vec3{p[0] / l, p[1] / l, p[2] / l}, nil
}

// cornerNormals computes normals for one face. Flat faces that collapse fall
// back to the radial direction of their centroid; fellBack reports that.
func cornerNormals(mode NormalMode, a, b, c Vec3) (normals [3]Vec3, fellBack bool, err error) {
	if mode == NormalsRadial {
		for i, p := range [3]Vec3{a, b, c} {
			if normals[i], err = radialNormal(p); err != nil {
				return normals, false, err
			}
		}
		return normals, false, nil
	}

	n, err := FlatNormal(a, b, c)
	if err != nil {
		n, err = radialNormal(Centroid(a, b, c))
		if err != nil {
			return normals, false, err
		}
		fellBack = true
	}
	return [3]Vec3{n, n, n}, fellBack, nil
}
