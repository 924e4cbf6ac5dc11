package config

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"

	"planetgen/core"
)

// strip is a 5x3 image: red, green, blue, white, black columns.
func strip() *image.NRGBA {
	cols := []color.NRGBA{
		{255, 0, 0, 255},
		{0, 255, 0, 255},
		{0, 0, 255, 255},
		{255, 255, 255, 255},
		{0, 0, 0, 255},
	}
	img := image.NewNRGBA(image.Rect(0, 0, len(cols), 3))
	for y := 0; y < 3; y++ {
		for x, c := range cols {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestPaletteFromImage(t *testing.T) {
	got, err := PaletteFromImage(strip(), 3)
	if err != nil {
		t.Fatal(err)
	}
	want := []core.Vec3{{1, 0, 0}, {0, 0, 1}, {0, 0, 0}}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("stop %d: got %v, want %v", i, got[i], want[i])
		}
	}

	if _, err := PaletteFromImage(strip(), 1); err == nil {
		t.Error("single stop accepted")
	}
	if _, err := PaletteFromImage(image.NewNRGBA(image.Rect(0, 0, 0, 0)), 2); err == nil {
		t.Error("empty image accepted")
	}
}

func TestLoadPaletteFormats(t *testing.T) {
	encoders := map[string]func(f *os.File, img image.Image) error{
		"palette.png":  func(f *os.File, img image.Image) error { return png.Encode(f, img) },
		"palette.bmp":  func(f *os.File, img image.Image) error { return bmp.Encode(f, img) },
		"palette.webp": func(f *os.File, img image.Image) error { return nativewebp.Encode(f, img, nil) },
		"palette.tga":  func(f *os.File, img image.Image) error { return tga.Encode(f, img) },
		"PALETTE.PNG":  func(f *os.File, img image.Image) error { return png.Encode(f, img) },
	}

	for name, encode := range encoders {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			f, err := os.Create(path)
			if err != nil {
				t.Fatal(err)
			}
			if err := encode(f, strip()); err != nil {
				f.Close()
				t.Fatal(err)
			}
			if err := f.Close(); err != nil {
				t.Fatal(err)
			}

			got, err := LoadPalette(path, 5)
			if err != nil {
				t.Fatal(err)
			}
			if got[1] != (core.Vec3{0, 1, 0}) || got[3] != (core.Vec3{1, 1, 1}) {
				t.Errorf("got %v", got)
			}
		})
	}
}

func TestLoadPaletteRejectsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "palette.gif")
	if err := os.WriteFile(path, []byte("GIF89a"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPalette(path, 3); !errors.Is(err, ErrInvalidSettings) {
		t.Errorf("got %v", err)
	}
}

func TestMeshSettingsPaletteRelativeToFile(t *testing.T) {
	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, "sunset.png"))
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, strip()); err != nil {
		t.Fatal(err)
	}
	f.Close()

	cfg := filepath.Join(dir, "planet.yaml")
	body := "meshes:\n  - name: dusk\n    preset: terrain\n    palette: sunset.png\n    paletteStops: 5\n"
	if err := os.WriteFile(cfg, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	params, err := s.Params()
	if err != nil {
		t.Fatal(err)
	}
	if len(params[0].Colors) != 5 || params[0].Colors[4] != (core.Vec3{0, 0, 0}) {
		t.Errorf("palette colors %v", params[0].Colors)
	}
}
