package config

import (
	"bytes"
	"errors"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"planetgen/core"
	"planetgen/noise"
)

func intPtr(v int) *int             { return &v }
func float32Ptr(v float32) *float32 { return &v }
func boolPtr(v bool) *bool          { return &v }

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	var buf bytes.Buffer
	s, err := Load(filepath.Join(t.TempDir(), "settings.json"), log.New(&buf, "", 0))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(s, Default()) {
		t.Errorf("got %+v, want defaults", s)
	}
	if !strings.Contains(buf.String(), "using defaults") {
		t.Errorf("expected a log line, got %q", buf.String())
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	want := Default()
	want.Workers = 3
	want.Meshes = []MeshSettings{
		{
			Name:      "rock",
			Preset:    "random",
			Seed:      60902,
			Depth:     intPtr(2),
			Amplitude: float32Ptr(0.5),
			Colors:    [][3]int{{10, 20, 30}, {40, 50, 60}},
			Blend:     boolPtr(false),
		},
		{
			Name:    "haze",
			Kind:    "atmosphere",
			Normals: "radial",
			Radius:  float32Ptr(2.5),
			Noise:   &NoiseSettings{Algorithm: "simplex", Seed: 2, LargestFeature: 11, Persistence: 0.5},
		},
		{
			Name:      "shell",
			Preset:    "colorshell",
			ShellBase: &[3]int{1, 2, 3},
		},
	}

	for _, name := range []string{"settings.json", "settings.yaml", "settings.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			if err := want.Save(path); err != nil {
				t.Fatal(err)
			}
			got, err := Load(path, nil)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
			}
		})
	}
}

func TestLoadYAMLKeepsDefaultsForMissingSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planet.yaml")
	data := "server:\n  port: 9000\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if s.Server.Port != 9000 {
		t.Errorf("port = %d", s.Server.Port)
	}
	if !reflect.DeepEqual(s.Meshes, DefaultMeshes()) || s.Preview != Default().Preview {
		t.Errorf("defaults lost: %+v", s)
	}
}

func TestLoadRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}

	if _, err := Load(write("a.toml", "x = 1"), nil); !errors.Is(err, ErrInvalidSettings) {
		t.Errorf("toml: got %v", err)
	}
	if _, err := Load(write("b.json", "{"), nil); err == nil {
		t.Error("broken json accepted")
	}
	if _, err := Load(write("c.json", `{"meshes":[{"preset":"moon"}]}`), nil); !errors.Is(err, ErrInvalidSettings) {
		t.Errorf("unknown preset: got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Settings)
	}{
		{"no meshes", func(s *Settings) { s.Meshes = nil }},
		{"depth too large", func(s *Settings) { s.Meshes[0].Depth = intPtr(core.MaxDepth + 1) }},
		{"negative radius", func(s *Settings) { s.Meshes[0].Radius = float32Ptr(-1) }},
		{"zero radius", func(s *Settings) { s.Meshes[0].Radius = float32Ptr(0) }},
		{"bad kind", func(s *Settings) { s.Meshes[0].Kind = "ring" }},
		{"bad normals", func(s *Settings) { s.Meshes[0].Normals = "smooth" }},
		{"no preset or kind", func(s *Settings) { s.Meshes[0].Preset = "" }},
		{"color out of range", func(s *Settings) { s.Meshes[0].Colors = [][3]int{{0, 0, 300}} }},
		{"colors and palette", func(s *Settings) {
			s.Meshes[0].Colors = [][3]int{{0, 0, 0}}
			s.Meshes[0].Palette = "p.png"
		}},
		{"port", func(s *Settings) { s.Server.Port = 70000 }},
		{"workers", func(s *Settings) { s.Workers = -1 }},
		{"preview size", func(s *Settings) { s.Preview.Width = 0 }},
		{"supersample", func(s *Settings) { s.Preview.Supersample = 0 }},
		{"preview format", func(s *Settings) { s.Preview.Format = "gif" }},
	}
	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := Default()
			tc.mutate(s)
			if err := s.Validate(); !errors.Is(err, ErrInvalidSettings) {
				t.Errorf("got %v, want ErrInvalidSettings", err)
			}
		})
	}
}

func TestMeshSettingsParams(t *testing.T) {
	t.Run("preset only", func(t *testing.T) {
		p, err := MeshSettings{Preset: "terrain"}.Params()
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(p, core.DefaultTerrain()) {
			t.Errorf("got %+v", p)
		}
	})

	t.Run("overrides", func(t *testing.T) {
		m := MeshSettings{
			Preset:    "terrain",
			Radius:    float32Ptr(3),
			Depth:     intPtr(0),
			Amplitude: float32Ptr(0),
			Colors:    [][3]int{{255, 0, 0}, {0, 0, 255}},
			Blend:     boolPtr(false),
			Normals:   "radial",
			Noise:     &NoiseSettings{Algorithm: "simplex", Seed: 4, LargestFeature: 8, Persistence: 0.5},
		}
		p, err := m.Params()
		if err != nil {
			t.Fatal(err)
		}
		if p.Radius != 3 || p.Depth != 0 || p.Amplitude != 0 || p.Blend || p.Normals != core.NormalsRadial {
			t.Errorf("overrides not applied: %+v", p)
		}
		if len(p.Colors) != 2 || p.Colors[0] != (core.Vec3{1, 0, 0}) || p.Colors[1] != (core.Vec3{0, 0, 1}) {
			t.Errorf("colors %v", p.Colors)
		}
		if p.Noise != (noise.Params{Algorithm: noise.AlgorithmSimplex, Seed: 4, LargestFeature: 8, Persistence: 0.5}) {
			t.Errorf("noise %+v", p.Noise)
		}
	})

	t.Run("explicit zeros", func(t *testing.T) {
		m := MeshSettings{
			Preset:         "atmosphere",
			Scale:          float32Ptr(0),
			Offset:         float32Ptr(0),
			AlphaScale:     float32Ptr(0),
			AlphaOffset:    float32Ptr(0),
			AlphaAmplitude: float32Ptr(0),
			AlphaCutoff:    float32Ptr(0),
			ShellJitter:    float32Ptr(0),
			ShellScale:     float32Ptr(0),
		}
		p, err := m.Params()
		if err != nil {
			t.Fatal(err)
		}
		if p.Scale != 0 || p.Offset != 0 || p.ShellJitter != 0 || p.ShellScale != 0 {
			t.Errorf("zero overrides ignored: %+v", p)
		}
		if p.AlphaScale != 0 || p.AlphaOffset != 0 || p.AlphaAmplitude != 0 || p.AlphaCutoff != 0 {
			t.Errorf("zero alpha overrides ignored: %+v", p)
		}
	})

	t.Run("explicit zeros from yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "flat.yaml")
		body := "meshes:\n  - name: flat\n    preset: terrain\n    offset: 0\n    alphaCutoff: 0\n"
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		s, err := Load(path, nil)
		if err != nil {
			t.Fatal(err)
		}
		if s.Meshes[0].Offset == nil || s.Meshes[0].AlphaCutoff == nil {
			t.Fatalf("zero keys dropped: %+v", s.Meshes[0])
		}
		p, err := s.Meshes[0].Params()
		if err != nil {
			t.Fatal(err)
		}
		if core.DefaultTerrain().Offset == 0 {
			t.Fatal("terrain preset offset is already zero")
		}
		if p.Offset != 0 || p.AlphaCutoff != 0 {
			t.Errorf("got offset %v cutoff %v", p.Offset, p.AlphaCutoff)
		}
	})

	t.Run("kind without preset", func(t *testing.T) {
		p, err := MeshSettings{Kind: "colorshell", ShellBase: &[3]int{10, 20, 30}}.Params()
		if err != nil {
			t.Fatal(err)
		}
		if p.Kind != core.KindColorShell || p.ShellBase != (core.Vec3{10, 20, 30}) || p.ShellJitter != core.DefaultColorShell().ShellJitter {
			t.Errorf("got %+v", p)
		}
	})

	t.Run("generates", func(t *testing.T) {
		params, err := Default().Params()
		if err != nil {
			t.Fatal(err)
		}
		if len(params) != 2 || params[0].Kind != core.KindTerrain || params[1].Kind != core.KindAtmosphere {
			t.Fatalf("got %+v", params)
		}
		g := core.NewGenerator(nil)
		for _, p := range params {
			p.Depth = 1
			if _, err := g.Generate(p); err != nil {
				t.Errorf("%s: %v", p.Kind, err)
			}
		}
	})
}
