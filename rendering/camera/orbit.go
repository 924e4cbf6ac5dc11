// Package camera holds the orbit camera shared by the interactive viewers.
// It has no GL dependency so the projection and picking math can be tested
// headless.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// pitchLimit keeps the camera off the poles where LookAt degenerates.
const pitchLimit = 1.5

// Orbit circles the origin at Distance, steered by Yaw and Pitch in radians.
type Orbit struct {
	Yaw, Pitch  float32
	Distance    float32
	MinDistance float32
	MaxDistance float32
	FOV         float32 // vertical, degrees
	Width       int
	Height      int
}

// NewOrbit frames a scene of the given bounding radius.
func NewOrbit(width, height int, bound float32) *Orbit {
	if bound <= 0 {
		bound = 1
	}
	return &Orbit{
		Distance:    bound * 3,
		MinDistance: bound * 1.05,
		MaxDistance: bound * 50,
		FOV:         45,
		Width:       width,
		Height:      height,
	}
}

// Position returns the eye point in world space.
func (o *Orbit) Position() mgl32.Vec3 {
	return mgl32.Vec3{
		o.Distance * math32.Cos(o.Pitch) * math32.Cos(o.Yaw),
		o.Distance * math32.Sin(o.Pitch),
		o.Distance * math32.Cos(o.Pitch) * math32.Sin(o.Yaw),
	}
}

func (o *Orbit) View() mgl32.Mat4 {
	return mgl32.LookAtV(o.Position(), mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
}

func (o *Orbit) Projection() mgl32.Mat4 {
	aspect := float32(1)
	if o.Height > 0 {
		aspect = float32(o.Width) / float32(o.Height)
	}
	return mgl32.Perspective(mgl32.DegToRad(o.FOV), aspect, o.Distance*0.01, o.Distance+o.MaxDistance)
}

func (o *Orbit) ViewProjection() mgl32.Mat4 {
	return o.Projection().Mul4(o.View())
}

// Rotate turns the camera by a drag of dx, dy pixels.
func (o *Orbit) Rotate(dx, dy, sensitivity float32) {
	o.Yaw += dx * sensitivity
	o.Pitch += dy * sensitivity
	if o.Pitch > pitchLimit {
		o.Pitch = pitchLimit
	}
	if o.Pitch < -pitchLimit {
		o.Pitch = -pitchLimit
	}
}

// Zoom scales the distance by one scroll step, clamped to the limits.
func (o *Orbit) Zoom(yoff float64) {
	o.Distance *= float32(1.0 - yoff*0.1)
	o.Distance = math32.Max(o.MinDistance, math32.Min(o.MaxDistance, o.Distance))
}

func (o *Orbit) Resize(width, height int) {
	o.Width, o.Height = width, height
}

// Ray unprojects a window position (pixels, y down) into a world-space ray
// from the near plane.
func (o *Orbit) Ray(x, y float64) (origin, dir mgl32.Vec3) {
	ndcX := (2.0*float32(x))/float32(o.Width) - 1.0
	ndcY := 1.0 - (2.0*float32(y))/float32(o.Height)

	invViewProj := o.ViewProjection().Inv()
	near := invViewProj.Mul4x1(mgl32.Vec4{ndcX, ndcY, -1, 1})
	far := invViewProj.Mul4x1(mgl32.Vec4{ndcX, ndcY, 1, 1})
	near = near.Mul(1 / near[3])
	far = far.Mul(1 / far[3])

	origin = near.Vec3()
	return origin, far.Vec3().Sub(origin).Normalize()
}
