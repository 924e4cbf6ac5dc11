package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"planetgen/core"
	"planetgen/noise"
)

// ErrInvalidSettings is returned by Validate and anything that validates.
var ErrInvalidSettings = errors.New("invalid settings")

type Settings struct {
	Meshes  []MeshSettings  `json:"meshes" yaml:"meshes"`
	Server  ServerSettings  `json:"server" yaml:"server"`
	Preview PreviewSettings `json:"preview" yaml:"preview"`
	// Workers bounds concurrent generations; 0 means one per CPU.
	Workers int `json:"workers" yaml:"workers"`
}

// MeshSettings describes one generated body. Preset picks the starting
// parameters; every set field overrides it. Pointer fields distinguish an
// explicit zero from an absent key.
type MeshSettings struct {
	Name    string `json:"name" yaml:"name"`
	Preset  string `json:"preset" yaml:"preset"`
	Seed    int64  `json:"seed" yaml:"seed"`
	Kind    string `json:"kind,omitempty" yaml:"kind,omitempty"`
	Normals string `json:"normals,omitempty" yaml:"normals,omitempty"`

	Radius    *float32 `json:"radius,omitempty" yaml:"radius,omitempty"`
	Depth     *int     `json:"depth,omitempty" yaml:"depth,omitempty"`
	Amplitude *float32 `json:"amplitude,omitempty" yaml:"amplitude,omitempty"`
	Scale     *float32 `json:"scale,omitempty" yaml:"scale,omitempty"`
	Offset    *float32 `json:"offset,omitempty" yaml:"offset,omitempty"`

	Noise *NoiseSettings `json:"noise,omitempty" yaml:"noise,omitempty"`

	// Colors are 0..255 RGB gradient stops. Palette is an image path whose
	// middle row is sampled into PaletteStops stops instead.
	Colors       [][3]int `json:"colors,omitempty" yaml:"colors,omitempty"`
	Palette      string   `json:"palette,omitempty" yaml:"palette,omitempty"`
	PaletteStops int      `json:"paletteStops,omitempty" yaml:"paletteStops,omitempty"`
	Blend        *bool    `json:"blend,omitempty" yaml:"blend,omitempty"`

	ShellBase   *[3]int  `json:"shellBase,omitempty" yaml:"shellBase,omitempty"`
	ShellJitter *float32 `json:"shellJitter,omitempty" yaml:"shellJitter,omitempty"`
	ShellScale  *float32 `json:"shellScale,omitempty" yaml:"shellScale,omitempty"`

	AlphaScale     *float32 `json:"alphaScale,omitempty" yaml:"alphaScale,omitempty"`
	AlphaOffset    *float32 `json:"alphaOffset,omitempty" yaml:"alphaOffset,omitempty"`
	AlphaAmplitude *float32 `json:"alphaAmplitude,omitempty" yaml:"alphaAmplitude,omitempty"`
	AlphaCutoff    *float32 `json:"alphaCutoff,omitempty" yaml:"alphaCutoff,omitempty"`
}

type NoiseSettings struct {
	Algorithm      string  `json:"algorithm" yaml:"algorithm"`
	Seed           int64   `json:"seed" yaml:"seed"`
	LargestFeature float64 `json:"largestFeature,omitempty" yaml:"largestFeature,omitempty"`
	Persistence    float64 `json:"persistence,omitempty" yaml:"persistence,omitempty"`
}

type ServerSettings struct {
	Port int `json:"port" yaml:"port"`
	// UpdateIntervalMs > 0 re-rolls a random terrain and pushes it to every
	// client at that interval.
	UpdateIntervalMs int `json:"updateIntervalMs" yaml:"updateIntervalMs"`
}

type PreviewSettings struct {
	Width       int     `json:"width" yaml:"width"`
	Height      int     `json:"height" yaml:"height"`
	Supersample int     `json:"supersample" yaml:"supersample"`
	Format      string  `json:"format" yaml:"format"`
	Yaw         float32 `json:"yaw" yaml:"yaw"`
	Pitch       float32 `json:"pitch" yaml:"pitch"`
	Background  [3]int  `json:"background" yaml:"background"`
}

// Default returns the settings used when no file is present: the default
// terrain wrapped in its atmosphere.
func Default() *Settings {
	return &Settings{
		Meshes: DefaultMeshes(),
		Server: ServerSettings{
			Port: 8080,
		},
		Preview: PreviewSettings{
			Width:       512,
			Height:      512,
			Supersample: 2,
			Format:      "webp",
			Yaw:         30,
			Pitch:       20,
			Background:  [3]int{8, 8, 16},
		},
	}
}

// DefaultMeshes is the planet and atmosphere pair.
func DefaultMeshes() []MeshSettings {
	return []MeshSettings{
		{Name: "planet", Preset: "terrain"},
		{Name: "atmosphere", Preset: "atmosphere"},
	}
}

// Load reads settings from a .json, .yaml or .yml file over the defaults. A
// missing file is not an error: the defaults are returned and logged.
func Load(path string, logger *log.Logger) (*Settings, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	s := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Printf("No %s found, using defaults", path)
			return s, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	// decoding into a populated slice would merge with the default entries
	s.Meshes = nil
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, s)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, s)
	default:
		return nil, fmt.Errorf("%w: unsupported settings format %q", ErrInvalidSettings, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}
	if len(s.Meshes) == 0 {
		s.Meshes = DefaultMeshes()
	}

	// palettes are relative to the settings file
	dir := filepath.Dir(path)
	for i := range s.Meshes {
		if p := s.Meshes[i].Palette; p != "" && !filepath.IsAbs(p) {
			s.Meshes[i].Palette = filepath.Join(dir, p)
		}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	logger.Printf("Loaded settings: %d meshes, preview %dx%d", len(s.Meshes), s.Preview.Width, s.Preview.Height)
	for _, m := range s.Meshes {
		if m.Depth != nil {
			logger.Printf("  %s: level %d (~%d vertices)", m.Name, *m.Depth, core.VertexCount(*m.Depth))
		}
	}
	return s, nil
}

// Save writes s as JSON or YAML depending on the extension of path.
func (s *Settings) Save(path string) error {
	var (
		data []byte
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		data, err = json.MarshalIndent(s, "", "  ")
	case ".yaml", ".yml":
		data, err = yaml.Marshal(s)
	default:
		return fmt.Errorf("%w: unsupported settings format %q", ErrInvalidSettings, ext)
	}
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks ranges without touching the filesystem.
func (s *Settings) Validate() error {
	if len(s.Meshes) == 0 {
		return fmt.Errorf("%w: no meshes", ErrInvalidSettings)
	}
	for i, m := range s.Meshes {
		if err := m.validate(); err != nil {
			return fmt.Errorf("%w: mesh %d (%s): %v", ErrInvalidSettings, i, m.Name, err)
		}
	}
	if s.Workers < 0 {
		return fmt.Errorf("%w: workers %d", ErrInvalidSettings, s.Workers)
	}
	if s.Server.Port < 0 || s.Server.Port > 65535 {
		return fmt.Errorf("%w: port %d", ErrInvalidSettings, s.Server.Port)
	}
	if s.Server.UpdateIntervalMs < 0 {
		return fmt.Errorf("%w: updateIntervalMs %d", ErrInvalidSettings, s.Server.UpdateIntervalMs)
	}
	p := s.Preview
	if p.Width <= 0 || p.Height <= 0 || p.Supersample < 1 {
		return fmt.Errorf("%w: preview size %dx%d x%d", ErrInvalidSettings, p.Width, p.Height, p.Supersample)
	}
	if f := strings.ToLower(p.Format); f != "webp" && f != "png" {
		return fmt.Errorf("%w: preview format %q", ErrInvalidSettings, p.Format)
	}
	if !validRGB(p.Background) {
		return fmt.Errorf("%w: background %v", ErrInvalidSettings, p.Background)
	}
	return nil
}

func (m MeshSettings) validate() error {
	if m.Preset != "" {
		if _, ok := core.Preset(m.Preset, m.Seed); !ok {
			return fmt.Errorf("unknown preset %q", m.Preset)
		}
	} else if m.Kind == "" {
		return errors.New("needs a preset or a kind")
	}
	if _, err := core.ParseKind(m.Kind); err != nil {
		return err
	}
	if _, err := core.ParseNormalMode(m.Normals); err != nil {
		return err
	}
	if m.Radius != nil && !(*m.Radius > 0) {
		return fmt.Errorf("radius %v", *m.Radius)
	}
	if m.Depth != nil && (*m.Depth < 0 || *m.Depth > core.MaxDepth) {
		return fmt.Errorf("depth %d outside 0..%d", *m.Depth, core.MaxDepth)
	}
	for _, c := range m.Colors {
		if !validRGB(c) {
			return fmt.Errorf("color %v outside 0..255", c)
		}
	}
	if m.Colors != nil && m.Palette != "" {
		return errors.New("colors and palette are exclusive")
	}
	if m.ShellBase != nil && !validRGB(*m.ShellBase) {
		return fmt.Errorf("shell base %v outside 0..255", *m.ShellBase)
	}
	if m.PaletteStops < 0 {
		return fmt.Errorf("paletteStops %d", m.PaletteStops)
	}
	return nil
}

func validRGB(c [3]int) bool {
	for _, v := range c {
		if v < 0 || v > 255 {
			return false
		}
	}
	return true
}

// Params converts every mesh entry, in order.
func (s *Settings) Params() ([]core.Params, error) {
	out := make([]core.Params, 0, len(s.Meshes))
	for _, m := range s.Meshes {
		p, err := m.Params()
		if err != nil {
			return nil, fmt.Errorf("mesh %s: %w", m.Name, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// Params resolves the preset and applies overrides.
func (m MeshSettings) Params() (core.Params, error) {
	if err := m.validate(); err != nil {
		return core.Params{}, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}

	var p core.Params
	if m.Preset != "" {
		p, _ = core.Preset(m.Preset, m.Seed)
	} else {
		// start shells and atmospheres from their presets so unset fields
		// still make sense
		kind, _ := core.ParseKind(m.Kind)
		switch kind {
		case core.KindAtmosphere:
			p = core.DefaultAtmosphere(1)
		case core.KindColorShell:
			p = core.DefaultColorShell()
		default:
			p = core.DefaultTerrain()
		}
	}

	if m.Kind != "" {
		p.Kind, _ = core.ParseKind(m.Kind)
	}
	if m.Normals != "" {
		p.Normals, _ = core.ParseNormalMode(m.Normals)
	}
	if m.Radius != nil {
		p.Radius = *m.Radius
	}
	if m.Depth != nil {
		p.Depth = *m.Depth
	}
	if m.Amplitude != nil {
		p.Amplitude = *m.Amplitude
	}
	if m.Scale != nil {
		p.Scale = *m.Scale
	}
	if m.Offset != nil {
		p.Offset = *m.Offset
	}
	if m.Noise != nil {
		p.Noise = noise.Params{
			Algorithm:      noise.Algorithm(m.Noise.Algorithm),
			Seed:           m.Noise.Seed,
			LargestFeature: m.Noise.LargestFeature,
			Persistence:    m.Noise.Persistence,
		}
	}

	if len(m.Colors) > 0 {
		p.Colors = make([]core.Vec3, len(m.Colors))
		for i, c := range m.Colors {
			p.Colors[i] = core.Vec3{float32(c[0]) / 255, float32(c[1]) / 255, float32(c[2]) / 255}
		}
	}
	if m.Palette != "" {
		stops := m.PaletteStops
		if stops == 0 {
			stops = 3
		}
		colors, err := LoadPalette(m.Palette, stops)
		if err != nil {
			return core.Params{}, err
		}
		p.Colors = colors
	}
	if m.Blend != nil {
		p.Blend = *m.Blend
	}

	if m.ShellBase != nil {
		b := *m.ShellBase
		p.ShellBase = core.Vec3{float32(b[0]), float32(b[1]), float32(b[2])}
	}
	if m.ShellJitter != nil {
		p.ShellJitter = *m.ShellJitter
	}
	if m.ShellScale != nil {
		p.ShellScale = *m.ShellScale
	}

	if m.AlphaScale != nil {
		p.AlphaScale = *m.AlphaScale
	}
	if m.AlphaOffset != nil {
		p.AlphaOffset = *m.AlphaOffset
	}
	if m.AlphaAmplitude != nil {
		p.AlphaAmplitude = *m.AlphaAmplitude
	}
	if m.AlphaCutoff != nil {
		p.AlphaCutoff = *m.AlphaCutoff
	}
	return p, nil
}
