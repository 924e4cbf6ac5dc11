package core

import (
	"errors"
	"testing"
)

func closeVec(a, b Vec3, eps float32) bool {
	for i := range a {
		if d := a[i] - b[i]; d > eps || d < -eps {
			return false
		}
	}
	return true
}

func TestColorFaderHitsControlColors(t *testing.T) {
	c1 := Vec3{0.46, 0.56, 0.72}
	c2 := Vec3{0.06, 0.07, 0.36}
	c3 := Vec3{0.64, 0.4, 0.89}
	f := NewColorFader(c1, c2, c3)

	tests := []struct {
		x    float32
		want Vec3
	}{
		{0, c1},
		{0.5, c2},
		{1, c3},
	}
	for _, tc := range tests {
		if got := f.ColorAt(tc.x); got != tc.want {
			t.Errorf("ColorAt(%v) = %v, want %v", tc.x, got, tc.want)
		}
	}
}

func TestColorFaderQuarterPoint(t *testing.T) {
	f := NewColorFader(Vec3{0, 0, 0}, Vec3{128, 128, 128}, Vec3{255, 255, 255})
	if got := f.ColorAt(0.25); got != (Vec3{64, 64, 64}) {
		t.Errorf("ColorAt(0.25) = %v, want (64,64,64)", got)
	}
	if got := f.ColorAt(0.75); !closeVec(got, Vec3{191.5, 191.5, 191.5}, 1e-4) {
		t.Errorf("ColorAt(0.75) = %v", got)
	}
}

func TestColorFaderContinuousAtBreakpoint(t *testing.T) {
	f := NewColorFader(Vec3{1, 0, 0}, Vec3{0, 1, 0}, Vec3{0, 0, 1})
	below := f.ColorAt(0.5 - 1e-5)
	at := f.ColorAt(0.5)
	if !closeVec(below, at, 1e-3) {
		t.Errorf("jump at 0.5: %v vs %v", below, at)
	}
}

func TestColorFaderExtrapolates(t *testing.T) {
	f := NewColorFader(Vec3{0, 0, 0}, Vec3{10, 10, 10}, Vec3{30, 30, 30})

	// below 0 continues the first segment, above 1 the last
	if got := f.ColorAt(-0.5); !closeVec(got, Vec3{-10, -10, -10}, 1e-4) {
		t.Errorf("ColorAt(-0.5) = %v, want (-10,-10,-10)", got)
	}
	if got := f.ColorAt(1.5); !closeVec(got, Vec3{50, 50, 50}, 1e-4) {
		t.Errorf("ColorAt(1.5) = %v, want (50,50,50)", got)
	}
}

func TestColorFaderN(t *testing.T) {
	if _, err := NewColorFaderN(Vec3{1, 1, 1}); !errors.Is(err, ErrTooFewStops) {
		t.Errorf("one stop: got %v", err)
	}

	f, err := NewColorFaderN(Vec3{0, 0, 0}, Vec3{1, 1, 1})
	if err != nil {
		t.Fatal(err)
	}
	if got := f.ColorAt(0.5); got != (Vec3{0.5, 0.5, 0.5}) {
		t.Errorf("two-stop midpoint = %v", got)
	}

	stops := []Vec3{{0, 0, 0}, {3, 0, 0}, {3, 3, 0}, {3, 3, 3}}
	f, err = NewColorFaderN(stops...)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range stops {
		x := float32(i) / 3
		if got := f.ColorAt(x); !closeVec(got, want, 1e-5) {
			t.Errorf("stop %d at %v: got %v, want %v", i, x, got, want)
		}
	}

	stops[0] = Vec3{9, 9, 9}
	if f.Stops()[0] == stops[0] {
		t.Error("fader aliases caller's slice")
	}
}
