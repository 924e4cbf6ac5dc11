package noise

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/ojrac/opensimplex-go"
)

// MaxOctaves bounds the layers of a Simplex field, so LargestFeature may be
// at most 2^MaxOctaves.
const MaxOctaves = 24

// Simplex layers several OpenSimplex octaves. The coarsest octave has a feature
// size of roughly LargestFeature units and the largest weight.
type Simplex struct {
	octaves     []opensimplex.Noise
	frequencies []float64
	amplitudes  []float64
	totalWeight float64
}

// NewSimplex builds an octave simplex field. The number of octaves is
// ceil(log2(largestFeature)), at least one and at most MaxOctaves. Octave i is sampled at p/2^i and
// weighted by persistence^(octaves-i).
func NewSimplex(largestFeature, persistence float64, seed int64) (*Simplex, error) {
	if !(largestFeature > 0) || math.IsInf(largestFeature, 0) {
		return nil, fmt.Errorf("%w: largest feature %v", ErrInvalidParams, largestFeature)
	}
	if !(persistence > 0 && persistence <= 1) {
		return nil, fmt.Errorf("%w: persistence %v (want (0, 1])", ErrInvalidParams, persistence)
	}

	count := int(math.Ceil(math.Log2(largestFeature)))
	if count > MaxOctaves {
		return nil, fmt.Errorf("%w: largest feature %v needs %d octaves (max %d)", ErrInvalidParams, largestFeature, count, MaxOctaves)
	}
	if count < 1 {
		count = 1
	}

	rng := rand.New(rand.NewSource(seed))
	s := &Simplex{
		octaves:     make([]opensimplex.Noise, count),
		frequencies: make([]float64, count),
		amplitudes:  make([]float64, count),
	}
	for i := 0; i < count; i++ {
		s.octaves[i] = opensimplex.New(rng.Int63())
		s.frequencies[i] = math.Pow(2, float64(i))
		s.amplitudes[i] = math.Pow(persistence, float64(count-i))
		s.totalWeight += s.amplitudes[i]
	}
	return s, nil
}

// Octaves reports how many layers the field sums.
func (s *Simplex) Octaves() int {
	return len(s.octaves)
}

// Eval samples the field at (x, y, z). The weighted sum is divided by the total
// weight so the result stays within [-1, 1].
func (s *Simplex) Eval(x, y, z float64) float64 {
	var sum float64
	for i, o := range s.octaves {
		f := s.frequencies[i]
		sum += o.Eval3(x/f, y/f, z/f) * s.amplitudes[i]
	}
	return sum / s.totalWeight
}
