package config

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"

	"planetgen/core"
)

// paletteDecoders is keyed by file extension. TGA has no magic number, so
// the decoder is picked by name rather than sniffed with image.Decode.
var paletteDecoders = map[string]func(io.Reader) (image.Image, error){
	".png":  png.Decode,
	".tga":  tga.Decode,
	".bmp":  bmp.Decode,
	".webp": webp.Decode,
}

// LoadPalette decodes a PNG, TGA, BMP or WebP strip and samples it into
// gradient stops. See PaletteFromImage.
func LoadPalette(path string, stops int) ([]core.Vec3, error) {
	ext := strings.ToLower(filepath.Ext(path))
	decode, ok := paletteDecoders[ext]
	if !ok {
		return nil, fmt.Errorf("%w: palette %s: unsupported format %q", ErrInvalidSettings, path, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("palette: read %s: %w", path, err)
	}
	defer f.Close()

	img, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("palette: decode %s: %w", path, err)
	}
	colors, err := PaletteFromImage(img, stops)
	if err != nil {
		return nil, fmt.Errorf("palette: %s: %w", path, err)
	}
	return colors, nil
}

// PaletteFromImage samples stops evenly spaced pixels from left to right along
// the middle row of img. The first and last stops are the edge pixels.
func PaletteFromImage(img image.Image, stops int) ([]core.Vec3, error) {
	if stops < 2 {
		return nil, fmt.Errorf("%w: got %d", core.ErrTooFewStops, stops)
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: empty palette image", ErrInvalidSettings)
	}

	y := b.Min.Y + b.Dy()/2
	out := make([]core.Vec3, stops)
	for i := range out {
		x := b.Min.X + i*(b.Dx()-1)/(stops-1)
		c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
		out[i] = core.Vec3{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255}
	}
	return out, nil
}
