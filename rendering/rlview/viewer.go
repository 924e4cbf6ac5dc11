// Package rlview is a raylib window viewer for generated planet meshes. It
// bakes directional lighting into vertex colors and draws with raylib's
// default shader.
package rlview

import (
	"fmt"
	"io"
	"log"
	"runtime"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"planetgen/core"
	"planetgen/rendering/camera"
	"planetgen/rendering/scene"
)

const dragSensitivity = float32(0.008)

type model struct {
	model       rl.Model
	translucent bool
}

// Viewer owns the raylib window and the uploaded scene.
type Viewer struct {
	logger *log.Logger

	models []model
	meshes []*core.Mesh
	radii  []float32

	orbit  *camera.Orbit
	framed bool

	Wireframe bool
	Light     mgl32.Vec3
	Ambient   float32

	dragged  bool
	status   string
	triCount int
}

// New opens the window. A nil logger discards output.
func New(width, height int, title string, logger *log.Logger) *Viewer {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	rl.SetConfigFlags(rl.FlagMsaa4xHint | rl.FlagWindowResizable)
	rl.InitWindow(int32(width), int32(height), title)
	rl.SetTargetFPS(60)

	return &Viewer{
		logger:  logger,
		orbit:   camera.NewOrbit(width, height, 1),
		Light:   mgl32.Vec3{1, 1, 1}.Normalize(),
		Ambient: 0.25,
	}
}

// SetMeshes replaces the uploaded scene.
func (v *Viewer) SetMeshes(meshes []*core.Mesh, radii []float32) {
	v.unload()

	var bound float32
	v.triCount = 0
	for _, m := range meshes {
		v.models = append(v.models, model{
			model:       rl.LoadModelFromMesh(v.upload(m)),
			translucent: m.Translucent(),
		})
		bound = max(bound, m.Stats.MaxHeight)
		v.triCount += m.TriangleCount()
	}
	v.meshes = meshes
	v.radii = radii
	v.status = ""

	fresh := camera.NewOrbit(v.orbit.Width, v.orbit.Height, bound)
	v.orbit.MinDistance, v.orbit.MaxDistance = fresh.MinDistance, fresh.MaxDistance
	if !v.framed || v.orbit.Distance < fresh.MinDistance || v.orbit.Distance > fresh.MaxDistance {
		v.orbit.Distance = fresh.Distance
		v.framed = true
	}
}

// upload sends m to the GPU as a non-indexed raylib mesh. The CPU arrays are
// pinned for the upload and detached afterwards so raylib never frees Go
// memory on unload.
func (v *Viewer) upload(m *core.Mesh) rl.Mesh {
	n := len(m.Vertices)
	if n == 0 {
		return rl.Mesh{}
	}
	positions := make([]float32, 0, 3*n)
	normals := make([]float32, 0, 3*n)
	for _, vx := range m.Vertices {
		positions = append(positions, vx.Position[:]...)
		normals = append(normals, vx.Normal[:]...)
	}
	colors := BakeColors(m, v.Light, v.Ambient)

	mesh := rl.Mesh{
		VertexCount:   int32(n),
		TriangleCount: int32(n / 3),
		Vertices:      &positions[0],
		Normals:       &normals[0],
		Colors:        &colors[0],
	}
	var pinner runtime.Pinner
	pinner.Pin(&positions[0])
	pinner.Pin(&normals[0])
	pinner.Pin(&colors[0])
	rl.UploadMesh(&mesh, false)
	pinner.Unpin()
	mesh.Vertices, mesh.Normals, mesh.Colors = nil, nil, nil
	return mesh
}

// BakeColors converts vertex colors to RGBA bytes with lambert shading
// toward light applied.
func BakeColors(m *core.Mesh, light mgl32.Vec3, ambient float32) []uint8 {
	light = light.Normalize()
	out := make([]uint8, 0, 4*len(m.Vertices))
	for _, vx := range m.Vertices {
		shade := ambient + (1-ambient)*math32.Max(0, vx.Normal.Dot(light))
		out = append(out,
			to8(vx.Color[0]*shade),
			to8(vx.Color[1]*shade),
			to8(vx.Color[2]*shade),
			to8(vx.Color[3]),
		)
	}
	return out
}

func to8(c float32) uint8 {
	return uint8(math32.Max(0, math32.Min(1, c))*255 + 0.5)
}

func (v *Viewer) unload() {
	for _, m := range v.models {
		rl.UnloadModel(m.model)
	}
	v.models = v.models[:0]
}

// ShouldClose reports whether the window was closed or Escape pressed.
func (v *Viewer) ShouldClose() bool {
	return rl.WindowShouldClose()
}

// HandleInput updates the camera from the mouse and returns the scene
// actions requested this frame.
func (v *Viewer) HandleInput() []scene.Action {
	if rl.IsWindowResized() {
		v.orbit.Resize(rl.GetScreenWidth(), rl.GetScreenHeight())
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		v.orbit.Zoom(float64(wheel))
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		v.dragged = false
	}
	if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		d := rl.GetMouseDelta()
		if d.X != 0 || d.Y != 0 {
			v.dragged = true
			v.orbit.Rotate(d.X, d.Y, dragSensitivity)
		}
	}
	if rl.IsMouseButtonReleased(rl.MouseButtonLeft) && !v.dragged {
		p := rl.GetMousePosition()
		v.pick(float64(p.X), float64(p.Y))
	}

	var actions []scene.Action
	switch {
	case rl.IsKeyPressed(rl.KeyR):
		actions = append(actions, scene.ActionReroll)
	case rl.IsKeyPressed(rl.KeyEqual), rl.IsKeyPressed(rl.KeyKpAdd):
		actions = append(actions, scene.ActionDeeper)
	case rl.IsKeyPressed(rl.KeyMinus), rl.IsKeyPressed(rl.KeyKpSubtract):
		actions = append(actions, scene.ActionShallower)
	case rl.IsKeyPressed(rl.KeyW):
		v.Wireframe = !v.Wireframe
	}
	return actions
}

func (v *Viewer) pick(x, y float64) {
	origin, dir := v.orbit.Ray(x, y)
	index, hit, ok := core.PickScene(v.meshes, origin, dir)
	if !ok {
		v.status = ""
		return
	}
	var radius float32
	if index < len(v.radii) {
		radius = v.radii[index]
	}
	g := hit.Geographic(radius)
	v.status = fmt.Sprintf("mesh %d triangle %d  %.2f°, %.2f°  alt %.4f",
		index, hit.Triangle, core.RadiansToDegrees(g.Lat), core.RadiansToDegrees(g.Lon), g.Alt)
	v.logger.Println("Picked", v.status)
}

func (v *Viewer) camera3D() rl.Camera3D {
	p := v.orbit.Position()
	return rl.Camera3D{
		Position:   rl.NewVector3(p[0], p[1], p[2]),
		Target:     rl.NewVector3(0, 0, 0),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       v.orbit.FOV,
		Projection: rl.CameraPerspective,
	}
}

// Draw renders one frame: opaque models, then translucent ones.
func (v *Viewer) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(8, 8, 16, 255))

	rl.BeginMode3D(v.camera3D())
	origin := rl.NewVector3(0, 0, 0)
	for _, translucent := range []bool{false, true} {
		for _, m := range v.models {
			if m.translucent != translucent {
				continue
			}
			if v.Wireframe {
				rl.DrawModelWires(m.model, origin, 1, rl.White)
			} else {
				rl.DrawModel(m.model, origin, 1, rl.White)
			}
		}
	}
	rl.EndMode3D()

	rl.DrawText(fmt.Sprintf("%d meshes, %d triangles", len(v.models), v.triCount), 10, 10, 20, rl.RayWhite)
	if v.status != "" {
		rl.DrawText(v.status, 10, 34, 20, rl.Yellow)
	}
	rl.DrawFPS(10, int32(rl.GetScreenHeight())-30)
	rl.EndDrawing()
}

// Close unloads the scene and closes the window.
func (v *Viewer) Close() {
	v.unload()
	rl.CloseWindow()
}
