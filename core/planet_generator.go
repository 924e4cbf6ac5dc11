package core

import (
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"planetgen/noise"
)

// Kind selects which colorizer a generation uses.
type Kind string

const (
	KindTerrain    Kind = "terrain"
	KindAtmosphere Kind = "atmosphere"
	KindColorShell Kind = "colorshell"
)

// ParseKind is case-insensitive; "" means terrain.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return KindTerrain, nil
	case KindTerrain, KindAtmosphere, KindColorShell:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Params controls a single mesh generation
type Params struct {
	Kind    Kind
	Radius  float32
	Depth   int
	Normals NormalMode

	// Displacement. Amplitude 0 leaves the sphere round.
	Amplitude float32
	Scale     float32
	Offset    float32
	// Noise is shared by displacement and the shell/atmosphere colorizers.
	Noise noise.Params

	// Terrain gradient, RGB in 0..1.
	Colors []Vec3
	Blend  bool

	// Color shell. ShellBase is RGB in 0..255.
	ShellBase   Vec3
	ShellJitter float32
	ShellScale  float32

	// Atmosphere alpha.
	AlphaScale     float32
	AlphaOffset    float32
	AlphaAmplitude float32
	AlphaCutoff    float32
}

// Generator turns Params into meshes. It holds no per-call state, so one
// Generator may be shared across goroutines.
type Generator struct {
	logger *log.Logger
}

// NewGenerator creates a generator that reports to logger; nil discards output.
func NewGenerator(logger *log.Logger) *Generator {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Generator{logger: logger}
}

// Generate runs subdivision, displacement, coloring and assembly for p.
// Identical params produce bit-identical meshes.
func (g *Generator) Generate(p Params) (*Mesh, error) {
	start := time.Now()

	kind := p.Kind
	if kind == "" {
		kind = KindTerrain
	}
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}

	sphere, err := GenerateTriangles(p.Radius, p.Depth)
	if err != nil {
		return nil, err
	}

	field, err := noise.New(p.Noise)
	if err != nil {
		return nil, fmt.Errorf("%s noise: %w", kind, err)
	}

	var displacement noise.Field
	if p.Amplitude != 0 {
		displacement = field
	}
	maxHeight := Displace(sphere, Displacement{
		Radius:    p.Radius,
		Amplitude: p.Amplitude,
		Scale:     p.Scale,
		Offset:    p.Offset,
	}, displacement)

	// an undisplaced sphere colors everything at the gradient start
	colorHeight := maxHeight
	if displacement == nil {
		colorHeight = p.Radius
	}
	colorizer, err := p.colorizer(kind, field, colorHeight)
	if err != nil {
		return nil, err
	}

	mesh, err := Assemble(kind, sphere, colorizer, p.Normals)
	if err != nil {
		return nil, fmt.Errorf("assemble %s mesh: %w", kind, err)
	}
	mesh.Stats.MaxHeight = maxHeight

	g.logger.Printf("generated %s mesh: depth=%d triangles=%d vertices=%d maxHeight=%.3f degenerate=%d in %v",
		kind, p.Depth, mesh.Stats.Triangles, mesh.Stats.UniqueVertices, maxHeight,
		mesh.Stats.DegenerateFaces, time.Since(start).Round(time.Microsecond))
	if mesh.Stats.DegenerateFaces > 0 {
		g.logger.Printf("warning: %d degenerate faces used radial normals", mesh.Stats.DegenerateFaces)
	}
	return mesh, nil
}

func (p Params) colorizer(kind Kind, field noise.Field, maxHeight float32) (Colorizer, error) {
	switch kind {
	case KindAtmosphere:
		return AtmosphereColorizer{
			Field:     field,
			Scale:     p.AlphaScale,
			Offset:    p.AlphaOffset,
			Amplitude: p.AlphaAmplitude,
			Cutoff:    p.AlphaCutoff,
		}, nil
	case KindColorShell:
		return ShellColorizer{
			Base:   p.ShellBase,
			Jitter: p.ShellJitter,
			Scale:  p.ShellScale,
			Field:  field,
		}, nil
	default:
		fader, err := NewColorFaderN(p.Colors...)
		if err != nil {
			return nil, fmt.Errorf("terrain gradient: %w", err)
		}
		return GradientColorizer{
			Fader:     fader,
			Radius:    p.Radius,
			MaxHeight: maxHeight,
			Blend:     p.Blend,
		}, nil
	}
}
