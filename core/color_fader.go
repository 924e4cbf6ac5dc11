package core

import "fmt"

// ColorFader maps a scalar to a color by piecewise-linear interpolation between
// evenly spaced control colors. With three colors the breakpoints are 0, 0.5
// and 1. The parameter is never clamped: values outside [0, 1] extrapolate
// along the first or last segment.
type ColorFader struct {
	stops  []Vec3
	breaks []float32
	// invSpan[i] is 1/(breaks[i+1]-breaks[i])
	invSpan []float32
}

// NewColorFader builds the three-color fader used for terrain.
func NewColorFader(c1, c2, c3 Vec3) *ColorFader {
	f, _ := NewColorFaderN(c1, c2, c3)
	return f
}

// NewColorFaderN builds a fader over two or more colors.
func NewColorFaderN(stops ...Vec3) (*ColorFader, error) {
	if len(stops) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewStops, len(stops))
	}

	n := len(stops)
	f := &ColorFader{
		stops:   append([]Vec3(nil), stops...),
		breaks:  make([]float32, n),
		invSpan: make([]float32, n-1),
	}
	for i := range f.breaks {
		f.breaks[i] = float32(i) / float32(n-1)
	}
	f.breaks[n-1] = 1
	for i := range f.invSpan {
		f.invSpan[i] = 1 / (f.breaks[i+1] - f.breaks[i])
	}
	return f, nil
}

// Stops returns a copy of the control colors.
func (f *ColorFader) Stops() []Vec3 {
	return append([]Vec3(nil), f.stops...)
}

// ColorAt returns the color at parameter x.
func (f *ColorFader) ColorAt(x float32) Vec3 {
	seg := f.segment(x)
	t := (x - f.breaks[seg]) * f.invSpan[seg]
	a, b := f.stops[seg], f.stops[seg+1]

	// (1-t)a + tb reproduces both endpoints exactly
	s := 1 - t
	return Vec3{
		s*a[0] + t*b[0],
		s*a[1] + t*b[1],
		s*a[2] + t*b[2],
	}
}

// segment picks the segment whose left breakpoint is the largest one <= x.
// Anything below the first interior breakpoint uses the first segment and
// anything at or past the last interior breakpoint uses the last one.
func (f *ColorFader) segment(x float32) int {
	last := len(f.invSpan) - 1
	for i := last; i > 0; i-- {
		if x >= f.breaks[i] {
			return i
		}
	}
	return 0
}
