package core

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"planetgen/noise"
)

// Colorizer assigns an RGBA color to each corner of a face.
type Colorizer interface {
	Colorize(corners [3]Vec3) [3]mgl32.Vec4
}

// GradientColorizer colors terrain by height above Radius, normalized so that
// MaxHeight maps to 1. The parameter is not clamped.
type GradientColorizer struct {
	Fader     *ColorFader
	Radius    float32
	MaxHeight float32
	// Blend interpolates per corner; without it the whole face takes the
	// first corner's color.
	Blend bool
}

// HeightParam returns (|p| - Radius) / (MaxHeight - Radius). An undisplaced
// sphere (MaxHeight == Radius) maps every point to 0.
func (g GradientColorizer) HeightParam(p Vec3) float32 {
	span := g.MaxHeight - g.Radius
	if span == 0 {
		return 0
	}
	return (Length(p) - g.Radius) / span
}

func (g GradientColorizer) Colorize(corners [3]Vec3) [3]mgl32.Vec4 {
	var out [3]mgl32.Vec4
	first := g.Fader.ColorAt(g.HeightParam(corners[0])).Vec4(1)
	out[0] = first
	for i := 1; i < 3; i++ {
		if g.Blend {
			out[i] = g.Fader.ColorAt(g.HeightParam(corners[i])).Vec4(1)
		} else {
			out[i] = first
		}
	}
	return out
}

// ShellColorizer tints a shell with a base color jittered by noise. Red is
// driven by the first corner, green by the second and blue by the third; the
// whole face shares the result.
type ShellColorizer struct {
	Base   Vec3 // 0..255 per channel
	Jitter float32
	Scale  float32
	Field  noise.Field
}

func (s ShellColorizer) Colorize(corners [3]Vec3) [3]mgl32.Vec4 {
	var c mgl32.Vec4
	for ch := 0; ch < 3; ch++ {
		p := corners[ch]
		n := s.Field.Eval(float64(s.Scale*p[0]), float64(s.Scale*p[1]), float64(s.Scale*p[2]))
		v := clamp(s.Base[ch]+s.Jitter*float32(n), 0, 255)
		c[ch] = v / 255
	}
	c[3] = 1
	return [3]mgl32.Vec4{c, c, c}
}

// AtmosphereColorizer paints a white shell whose alpha comes from its own noise
// field sampled at the first corner.
type AtmosphereColorizer struct {
	Field     noise.Field
	Scale     float32
	Offset    float32
	Amplitude float32
	// Cutoff is subtracted before clamping so thin haze disappears.
	Cutoff float32
}

// Alpha returns the clamped opacity at p.
func (a AtmosphereColorizer) Alpha(p Vec3) float32 {
	n := a.Field.Eval(
		float64(p[0]*a.Scale+a.Offset),
		float64(p[1]*a.Scale+a.Offset),
		float64(p[2]*a.Scale+a.Offset),
	)
	return clamp(a.Amplitude*float32(n)-a.Cutoff, 0, 1)
}

func (a AtmosphereColorizer) Colorize(corners [3]Vec3) [3]mgl32.Vec4 {
	c := mgl32.Vec4{1, 1, 1, a.Alpha(corners[0])}
	return [3]mgl32.Vec4{c, c, c}
}

func clamp(v, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(hi, v))
}
