package core

import "planetgen/noise"

// Displacement configures the radial noise pass.
type Displacement struct {
	Radius    float32 // base radius (water level)
	Amplitude float32 // peak height added where noise is 1
	Scale     float32 // multiplies coordinates before sampling
	Offset    float32 // added to every coordinate after scaling
}

// Displace moves every welded vertex of sphere radially to
// Radius + Amplitude·max(noise, 0) and returns the largest resulting length.
// Because faces share vertex slots, a shared corner moves once for all of them.
// A nil field leaves positions untouched.
func Displace(sphere *Icosphere, p Displacement, field noise.Field) float32 {
	var maxHeight float32
	for i, v := range sphere.Vertices {
		if field != nil {
			n := field.Eval(
				float64(v[0]*p.Scale+p.Offset),
				float64(v[1]*p.Scale+p.Offset),
				float64(v[2]*p.Scale+p.Offset),
			)
			if n < 0 {
				n = 0
			}
			v = NormalizeTo(v, p.Radius+p.Amplitude*float32(n))
			sphere.Vertices[i] = v
		}
		if l := Length(v); l > maxHeight {
			maxHeight = l
		}
	}
	return maxHeight
}
