// Package noise provides seeded coherent noise fields used to displace and tint
// generated meshes. Every field is deterministic for a given seed and safe for
// concurrent use once built.
package noise

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownAlgorithm is returned by New for unsupported algorithm names.
	ErrUnknownAlgorithm = errors.New("unknown noise algorithm")
	// ErrInvalidParams is returned for out-of-range field parameters.
	ErrInvalidParams = errors.New("invalid noise parameters")
)

// Field is a continuous scalar field over 3D space.
type Field interface {
	Eval(x, y, z float64) float64
}

// FieldFunc adapts a plain function to Field.
type FieldFunc func(x, y, z float64) float64

// Eval calls f(x, y, z).
func (f FieldFunc) Eval(x, y, z float64) float64 {
	return f(x, y, z)
}

// Algorithm names a Field implementation.
type Algorithm string

const (
	AlgorithmPerlin  Algorithm = "perlin"
	AlgorithmSimplex Algorithm = "simplex"
)

// Params selects and seeds a field. LargestFeature and Persistence only apply
// to simplex.
type Params struct {
	Algorithm      Algorithm
	Seed           int64
	LargestFeature float64
	Persistence    float64
}

// New builds the field described by p.
func New(p Params) (Field, error) {
	switch Algorithm(strings.ToLower(string(p.Algorithm))) {
	case AlgorithmPerlin, "":
		return NewPerlin(p.Seed), nil
	case AlgorithmSimplex:
		s, err := NewSimplex(p.LargestFeature, p.Persistence, p.Seed)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, p.Algorithm)
	}
}
