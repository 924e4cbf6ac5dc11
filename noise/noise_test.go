package noise

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestPerlinZeroAtLatticePoints(t *testing.T) {
	p := NewPerlin(0)
	for _, c := range [][3]float64{{0, 0, 0}, {1, 2, 3}, {-4, 7, -1}, {255, 256, 257}} {
		if got := p.Eval(c[0], c[1], c[2]); got != 0 {
			t.Fatalf("Eval(%v) = %v, want 0 at lattice point", c, got)
		}
	}
}

func TestFieldsDeterministicForSeed(t *testing.T) {
	tests := []struct {
		name   string
		params Params
	}{
		{"perlin reference", Params{Algorithm: AlgorithmPerlin}},
		{"perlin seeded", Params{Algorithm: AlgorithmPerlin, Seed: 424242}},
		{"simplex", Params{Algorithm: AlgorithmSimplex, Seed: 10, LargestFeature: 11, Persistence: 0.6}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a, err := New(tc.params)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			b, err := New(tc.params)
			if err != nil {
				t.Fatalf("New: %v", err)
			}

			rng := rand.New(rand.NewSource(1337))
			for i := 0; i < 1000; i++ {
				x := rng.Float64()*200 - 100
				y := rng.Float64()*200 - 100
				z := rng.Float64()*200 - 100
				va, vb := a.Eval(x, y, z), b.Eval(x, y, z)
				if va != vb {
					t.Fatalf("sample %d (%f,%f,%f): %v vs %v", i, x, y, z, va, vb)
				}
				if math.IsNaN(va) || va < -1.05 || va > 1.05 {
					t.Fatalf("sample %d out of range: %v", i, va)
				}
			}
		})
	}
}

func TestSeedsChangeTheField(t *testing.T) {
	a := NewPerlin(1)
	b := NewPerlin(2)
	differs := false
	for i := 0; i < 50 && !differs; i++ {
		x := float64(i)*0.37 + 0.11
		if a.Eval(x, x*0.5, x*0.25) != b.Eval(x, x*0.5, x*0.25) {
			differs = true
		}
	}
	if !differs {
		t.Fatal("expected different seeds to produce different fields")
	}
}

func TestPerlinIsContinuous(t *testing.T) {
	p := NewPerlin(0)
	const step = 1e-4
	for i := 0; i < 200; i++ {
		x := float64(i) * 0.173
		d := math.Abs(p.Eval(x, 0.5, 0.25) - p.Eval(x+step, 0.5, 0.25))
		if d > 0.01 {
			t.Fatalf("jump of %v at x=%v", d, x)
		}
	}
}

func TestSimplexOctaveCount(t *testing.T) {
	tests := []struct {
		feature float64
		want    int
	}{
		{0.5, 1},
		{2, 1},
		{11, 4},
		{16, 4},
		{17, 5},
		{1 << MaxOctaves, MaxOctaves},
	}
	for _, tc := range tests {
		s, err := NewSimplex(tc.feature, 0.5, 1)
		if err != nil {
			t.Fatalf("NewSimplex(%v): %v", tc.feature, err)
		}
		if s.Octaves() != tc.want {
			t.Fatalf("feature %v: octaves = %d, want %d", tc.feature, s.Octaves(), tc.want)
		}
	}
}

func TestNewRejectsBadParams(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		want   error
	}{
		{"unknown", Params{Algorithm: "worley"}, ErrUnknownAlgorithm},
		{"zero feature", Params{Algorithm: AlgorithmSimplex, Persistence: 0.5}, ErrInvalidParams},
		{"zero persistence", Params{Algorithm: AlgorithmSimplex, LargestFeature: 8}, ErrInvalidParams},
		{"persistence above one", Params{Algorithm: AlgorithmSimplex, LargestFeature: 8, Persistence: 1.5}, ErrInvalidParams},
		{"huge feature", Params{Algorithm: AlgorithmSimplex, LargestFeature: 1e300, Persistence: 0.5}, ErrInvalidParams},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, err := New(tc.params)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			if f != nil {
				t.Fatalf("expected nil field on error, got %T", f)
			}
		})
	}
}

func TestFieldFunc(t *testing.T) {
	var f Field = FieldFunc(func(x, y, z float64) float64 { return x + y + z })
	if got := f.Eval(1, 2, 3); got != 6 {
		t.Fatalf("Eval = %v, want 6", got)
	}
}
