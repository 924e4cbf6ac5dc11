package core

import (
	"math/rand"

	"planetgen/noise"
)

func rgb(r, g, b int) Vec3 {
	return Vec3{float32(r) / 255, float32(g) / 255, float32(b) / 255}
}

// DefaultTerrain is the blue-violet test planet.
func DefaultTerrain() Params {
	return Params{
		Kind:      KindTerrain,
		Radius:    1,
		Depth:     3,
		Normals:   NormalsFlat,
		Amplitude: 2.5,
		Scale:     50,
		Offset:    1.5,
		Noise:     noise.Params{Algorithm: noise.AlgorithmPerlin},
		Colors: []Vec3{
			rgb(118, 143, 184),
			rgb(15, 17, 92),
			rgb(162, 102, 227),
		},
		Blend: true,
	}
}

// DefaultAtmosphere is a cloud shell around a planet of the given radius. The
// shell is displaced by the same simplex field that drives its alpha, and
// corner normals point away from the center.
func DefaultAtmosphere(radius float32) Params {
	return Params{
		Kind:      KindAtmosphere,
		Radius:    radius,
		Depth:     5,
		Normals:   NormalsRadial,
		Amplitude: 1,
		Scale:     0.7,
		Offset:    2,
		Noise: noise.Params{
			Algorithm:      noise.AlgorithmSimplex,
			Seed:           int64(radius),
			LargestFeature: 11,
			Persistence:    0.6,
		},
		AlphaScale:     0.7,
		AlphaAmplitude: 1,
	}
}

// DefaultColorShell is the large tinted shell seen from inside.
func DefaultColorShell() Params {
	rng := rand.New(rand.NewSource(140))
	base := Vec3{float32(rng.Intn(255)), float32(rng.Intn(255)), float32(rng.Intn(255))}
	return Params{
		Kind:        KindColorShell,
		Radius:      14,
		Depth:       3,
		Normals:     NormalsFlat,
		Noise:       noise.Params{Algorithm: noise.AlgorithmPerlin},
		ShellBase:   base,
		ShellJitter: 200,
		ShellScale:  0.3,
	}
}

// RandomTerrain draws colors and displacement settings from seed. The same
// seed always yields the same Params.
func RandomTerrain(seed int64) Params {
	rng := rand.New(rand.NewSource(seed))
	colors := make([]Vec3, 3)
	for i := range colors {
		colors[i] = rgb(rng.Intn(255), rng.Intn(255), rng.Intn(255))
	}
	return Params{
		Kind:      KindTerrain,
		Radius:    2,
		Depth:     4,
		Normals:   NormalsFlat,
		Scale:     3.5 * rng.Float32(),
		Offset:    2 * rng.Float32(),
		Amplitude: 3.5 * rng.Float32(),
		Noise:     noise.Params{Algorithm: noise.AlgorithmPerlin, Seed: seed},
		Colors:    colors,
		Blend:     true,
	}
}

// Preset returns a named preset. Known names are "terrain", "atmosphere",
// "colorshell" and "random".
func Preset(name string, seed int64) (Params, bool) {
	switch name {
	case "terrain":
		return DefaultTerrain(), true
	case "atmosphere":
		return DefaultAtmosphere(1.2), true
	case "colorshell":
		return DefaultColorShell(), true
	case "random":
		return RandomTerrain(seed), true
	}
	return Params{}, false
}
