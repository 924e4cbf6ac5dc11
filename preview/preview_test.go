package preview

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/webp"

	"planetgen/config"
	"planetgen/core"
)

func generate(t *testing.T, p core.Params) *core.Mesh {
	t.Helper()
	m, err := core.NewGenerator(nil).Generate(p)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

// near allows the one-step rounding the downsample filter may introduce.
func near(a, b color.NRGBA) bool {
	for _, d := range []int{int(a.R) - int(b.R), int(a.G) - int(b.G), int(a.B) - int(b.B)} {
		if d > 1 || d < -1 {
			return false
		}
	}
	return true
}

func smallOptions() Options {
	o := DefaultOptions()
	o.Width, o.Height = 48, 48
	return o
}

func TestRenderDrawsPlanetInCenter(t *testing.T) {
	p := core.DefaultTerrain()
	p.Depth = 2
	opt := smallOptions()

	img, err := Render([]*core.Mesh{generate(t, p)}, opt)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != image.Rect(0, 0, 48, 48) {
		t.Fatalf("bounds %v", img.Bounds())
	}
	if c := img.NRGBAAt(24, 24); near(c, opt.Background) {
		t.Error("center pixel is background")
	}
	if c := img.NRGBAAt(0, 0); !near(c, opt.Background) {
		t.Errorf("corner pixel %v, want background", c)
	}
}

func TestRenderBlendsTranslucentShell(t *testing.T) {
	p := core.DefaultAtmosphere(1)
	p.Depth = 2
	p.AlphaAmplitude = 0
	p.AlphaCutoff = -0.5 // constant alpha 0.5
	shell := generate(t, p)
	if !shell.Translucent() {
		t.Fatal("expected a translucent shell")
	}

	opt := smallOptions()
	opt.Supersample = 1
	opt.Background = color.NRGBA{0, 0, 0, 255}
	img, err := Render([]*core.Mesh{shell}, opt)
	if err != nil {
		t.Fatal(err)
	}
	c := img.NRGBAAt(24, 24)
	if c.R == 0 || c.R == 255 {
		t.Errorf("center %v is not a blend of white over black", c)
	}
}

func TestRenderNothing(t *testing.T) {
	if _, err := Render(nil, smallOptions()); !errors.Is(err, ErrNothingToRender) {
		t.Errorf("got %v", err)
	}
}

func TestDownsampleSolidColor(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	want := color.NRGBA{200, 100, 50, 255}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			src.SetNRGBA(x, y, want)
		}
	}
	dst := Downsample(src, 4, 4)
	if dst.Bounds().Dx() != 4 || dst.Bounds().Dy() != 4 {
		t.Fatalf("bounds %v", dst.Bounds())
	}
	got := dst.NRGBAAt(2, 2)
	for i, pair := range [][2]uint8{{got.R, want.R}, {got.G, want.G}, {got.B, want.B}, {got.A, want.A}} {
		if d := int(pair[0]) - int(pair[1]); d > 1 || d < -1 {
			t.Errorf("channel %d: got %d, want %d", i, pair[0], pair[1])
		}
	}
	if Downsample(src, 8, 8) != src {
		t.Error("same-size downsample should return the input")
	}
}

func TestWriteFile(t *testing.T) {
	p := core.DefaultColorShell()
	p.Depth = 1
	img, err := Render([]*core.Mesh{generate(t, p)}, smallOptions())
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	for name, decode := range map[string]func(*os.File) (image.Image, error){
		"shell.png":     func(f *os.File) (image.Image, error) { return png.Decode(f) },
		"nested/a.webp": func(f *os.File) (image.Image, error) { return webp.Decode(f) },
		"nested/b.WEBP": func(f *os.File) (image.Image, error) { return webp.Decode(f) },
	} {
		path := filepath.Join(dir, name)
		if err := WriteFile(path, img); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		f, err := os.Open(path)
		if err != nil {
			t.Fatal(err)
		}
		got, err := decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("%s: decode: %v", name, err)
		}
		if got.Bounds() != img.Bounds() {
			t.Errorf("%s: bounds %v", name, got.Bounds())
		}
	}
}

func TestEncodeRejectsUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 1, 1)), "gif"); err == nil {
		t.Error("gif accepted")
	}
}

func TestOptionsFromSettings(t *testing.T) {
	o := OptionsFromSettings(config.Default().Preview)
	if o.Width != 512 || o.Supersample != 2 || o.Background != (color.NRGBA{8, 8, 16, 255}) {
		t.Errorf("got %+v", o)
	}
}
