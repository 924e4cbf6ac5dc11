package camera

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"planetgen/core"
)

func TestPositionStartsOnXAxis(t *testing.T) {
	o := NewOrbit(800, 600, 2)
	if got := o.Position(); !got.ApproxEqual(mgl32.Vec3{6, 0, 0}) {
		t.Errorf("got %v", got)
	}
}

func TestRotateClampsPitch(t *testing.T) {
	o := NewOrbit(800, 600, 1)
	o.Rotate(0, 1000, 0.01)
	if o.Pitch != pitchLimit {
		t.Errorf("pitch %v", o.Pitch)
	}
	o.Rotate(0, -5000, 0.01)
	if o.Pitch != -pitchLimit {
		t.Errorf("pitch %v", o.Pitch)
	}
	if d := o.Position().Len(); math32.Abs(d-o.Distance) > 1e-4 {
		t.Errorf("distance %v after rotate, want %v", d, o.Distance)
	}
}

func TestZoomClamps(t *testing.T) {
	o := NewOrbit(800, 600, 1)
	for i := 0; i < 100; i++ {
		o.Zoom(1)
	}
	if o.Distance != o.MinDistance {
		t.Errorf("zoomed in to %v", o.Distance)
	}
	for i := 0; i < 100; i++ {
		o.Zoom(-1)
	}
	if o.Distance != o.MaxDistance {
		t.Errorf("zoomed out to %v", o.Distance)
	}
}

func TestCenterRayHitsOrigin(t *testing.T) {
	o := NewOrbit(640, 480, 1)
	o.Rotate(40, 25, 0.01)

	origin, dir := o.Ray(320, 240)
	if d := dir.Len(); math32.Abs(d-1) > 1e-5 {
		t.Errorf("dir length %v", d)
	}
	toCenter := origin.Mul(-1).Normalize()
	if dot := dir.Dot(toCenter); dot < 0.9999 {
		t.Errorf("center ray misses the origin, dot %v", dot)
	}
}

func TestRayPicksFacingSurface(t *testing.T) {
	p := core.DefaultTerrain()
	p.Depth = 2
	p.Amplitude = 0
	m, err := core.NewGenerator(nil).Generate(p)
	if err != nil {
		t.Fatal(err)
	}

	o := NewOrbit(400, 400, 1)
	origin, dir := o.Ray(200, 200)
	hit, ok := core.PickTriangle(m, origin, dir)
	if !ok {
		t.Fatal("no hit through the center of the view")
	}
	// The camera sits on +X so the nearest surface faces it.
	if hit.Point[0] < 0.9 {
		t.Errorf("hit %v is not on the near side", hit.Point)
	}

	origin, dir = o.Ray(0, 0)
	if _, ok := core.PickTriangle(m, origin, dir); ok {
		t.Error("corner ray hit the planet")
	}
}
