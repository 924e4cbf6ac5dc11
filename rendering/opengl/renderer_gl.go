// Package opengl is the native window viewer for generated planet meshes.
package opengl

import (
	"fmt"
	"io"
	"log"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"planetgen/core"
	"planetgen/rendering/camera"
	"planetgen/rendering/opengl/shaders"
	"planetgen/rendering/scene"
)

const (
	dragSensitivity = float32(0.008)
	spinSpeed       = float32(0.2) // radians per second
)

// gpuMesh is one uploaded mesh.
type gpuMesh struct {
	vao, vbo    uint32
	count       int32
	translucent bool
}

// MeshRenderer draws planet meshes in a GLFW window with an orbit camera.
type MeshRenderer struct {
	window  *glfw.Window
	program *shaders.MeshProgram
	logger  *log.Logger
	title   string

	meshes []*core.Mesh
	radii  []float32
	gpu    []gpuMesh

	camera *camera.Orbit
	framed bool

	// Render settings
	Wireframe  bool
	Lit        bool
	AutoRotate bool
	Light      mgl32.Vec3
	Ambient    float32

	// Mouse state for camera control
	MouseDown  bool
	dragged    bool
	lastMouseX float64
	lastMouseY float64

	actions []scene.Action

	// LastHit is the most recent click pick, nil until something is hit.
	LastHit *Pick
}

// NewMeshRenderer opens a window with an OpenGL 4.1 core context.
// A nil logger discards output.
func NewMeshRenderer(width, height int, title string, logger *log.Logger) (*MeshRenderer, error) {
	runtime.LockOSThread()
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	// Initialize GLFW
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	// Configure OpenGL context
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Samples, 4)

	window, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	if err := gl.Init(); err != nil {
		window.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	logger.Println("OpenGL version:", gl.GoStr(gl.GetString(gl.VERSION)))

	program, err := shaders.CreateMeshProgram()
	if err != nil {
		window.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("failed to build mesh shader: %w", err)
	}

	r := &MeshRenderer{
		window:  window,
		program: program,
		logger:  logger,
		title:   title,
		camera:  camera.NewOrbit(width, height, 1),
		Lit:     true,
		Light:   mgl32.Vec3{1, 1, 1}.Normalize(),
		Ambient: 0.25,
	}

	// Setup OpenGL state
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.Enable(gl.MULTISAMPLE)
	gl.ClearColor(0.03, 0.03, 0.06, 1.0)
	fbw, fbh := window.GetFramebufferSize()
	gl.Viewport(0, 0, int32(fbw), int32(fbh))

	// Setup callbacks
	window.SetSizeCallback(func(w *glfw.Window, width, height int) {
		r.camera.Resize(width, height)
	})
	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		gl.Viewport(0, 0, int32(width), int32(height))
	})
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		r.onKey(key, action)
	})
	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		r.camera.Zoom(yoff)
	})
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		r.onMouseButton(button, action)
	})
	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		r.onMouseMove(xpos, ypos)
	})

	return r, nil
}

// SetMeshes replaces the scene. radii[i] is the base radius of meshes[i] and
// is used to report pick altitudes.
func (r *MeshRenderer) SetMeshes(meshes []*core.Mesh, radii []float32) {
	r.release()

	var bound float32
	triangles := 0
	for _, m := range meshes {
		r.gpu = append(r.gpu, upload(m))
		bound = max(bound, m.Stats.MaxHeight)
		triangles += m.TriangleCount()
	}
	r.meshes = meshes
	r.radii = radii
	r.LastHit = nil

	fresh := camera.NewOrbit(r.camera.Width, r.camera.Height, bound)
	r.camera.MinDistance, r.camera.MaxDistance = fresh.MinDistance, fresh.MaxDistance
	if !r.framed || r.camera.Distance < fresh.MinDistance || r.camera.Distance > fresh.MaxDistance {
		r.camera.Distance = fresh.Distance
		r.framed = true
	}
	r.window.SetTitle(fmt.Sprintf("%s - %d meshes, %d triangles", r.title, len(meshes), triangles))
}

// upload copies m into a new VAO/VBO with the interleaved layout.
func upload(m *core.Mesh) gpuMesh {
	data := m.Interleaved()
	g := gpuMesh{count: int32(len(m.Vertices)), translucent: m.Translucent()}

	gl.GenVertexArrays(1, &g.vao)
	gl.GenBuffers(1, &g.vbo)
	gl.BindVertexArray(g.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	}

	stride := int32(core.FloatsPerVertex * 4)
	gl.VertexAttribPointer(shaders.PositionLocation, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(shaders.PositionLocation)
	gl.VertexAttribPointer(shaders.ColorLocation, 4, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(shaders.ColorLocation)
	gl.VertexAttribPointer(shaders.NormalLocation, 3, gl.FLOAT, false, stride, gl.PtrOffset(7*4))
	gl.EnableVertexAttribArray(shaders.NormalLocation)

	gl.BindVertexArray(0)
	return g
}

func (r *MeshRenderer) release() {
	for _, g := range r.gpu {
		gl.DeleteVertexArrays(1, &g.vao)
		gl.DeleteBuffers(1, &g.vbo)
	}
	r.gpu = r.gpu[:0]
}

// Update advances the auto-rotation by dt seconds.
func (r *MeshRenderer) Update(dt float32) {
	if r.AutoRotate && !r.MouseDown {
		r.camera.Yaw += spinSpeed * dt
	}
}

// Render draws opaque meshes first, then translucent ones blended on top
// without depth writes.
func (r *MeshRenderer) Render() {
	if err := gl.GetError(); err != gl.NO_ERROR {
		r.logger.Printf("OpenGL error before render: 0x%x", err)
	}
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.UseProgram(r.program.ID)
	viewProj := r.camera.ViewProjection()
	gl.UniformMatrix4fv(r.program.ViewProj, 1, false, &viewProj[0])
	light := r.Light.Normalize()
	gl.Uniform3f(r.program.LightDir, light[0], light[1], light[2])
	gl.Uniform1f(r.program.Ambient, r.Ambient)
	lit := int32(0)
	if r.Lit {
		lit = 1
	}
	gl.Uniform1i(r.program.Lit, lit)

	if r.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	}

	for _, g := range r.gpu {
		if !g.translucent {
			r.draw(g)
		}
	}

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.DepthMask(false)
	for _, g := range r.gpu {
		if g.translucent {
			r.draw(g)
		}
	}
	gl.DepthMask(true)
	gl.Disable(gl.BLEND)

	if r.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}

	r.window.SwapBuffers()
}

func (r *MeshRenderer) draw(g gpuMesh) {
	gl.BindVertexArray(g.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, g.count)
	gl.BindVertexArray(0)
}

// Actions returns and clears the queued keyboard requests. The renderer only
// queues them; the caller regenerates and hands back new meshes.
func (r *MeshRenderer) Actions() []scene.Action {
	a := r.actions
	r.actions = nil
	return a
}

func (r *MeshRenderer) onKey(key glfw.Key, action glfw.Action) {
	if action != glfw.Press {
		return
	}

	switch key {
	case glfw.KeyEscape:
		r.window.SetShouldClose(true)
	case glfw.KeyR:
		r.actions = append(r.actions, scene.ActionReroll)
	case glfw.KeyEqual, glfw.KeyKPAdd:
		r.actions = append(r.actions, scene.ActionDeeper)
	case glfw.KeyMinus, glfw.KeyKPSubtract:
		r.actions = append(r.actions, scene.ActionShallower)
	case glfw.KeyW:
		r.Wireframe = !r.Wireframe
		r.logger.Printf("Wireframe: %v", r.Wireframe)
	case glfw.KeyL:
		r.Lit = !r.Lit
		r.logger.Printf("Lighting: %v", r.Lit)
	case glfw.KeySpace:
		r.AutoRotate = !r.AutoRotate
	}
}

// onMouseButton starts a drag on press; a release without movement is a click.
func (r *MeshRenderer) onMouseButton(button glfw.MouseButton, action glfw.Action) {
	if button != glfw.MouseButtonLeft {
		return
	}
	switch action {
	case glfw.Press:
		r.MouseDown = true
		r.dragged = false
		r.lastMouseX, r.lastMouseY = r.window.GetCursorPos()
	case glfw.Release:
		r.MouseDown = false
		if !r.dragged {
			r.HandleMouseClick(r.lastMouseX, r.lastMouseY)
		}
	}
}

func (r *MeshRenderer) onMouseMove(xpos, ypos float64) {
	if !r.MouseDown {
		return
	}
	dx := float32(xpos - r.lastMouseX)
	dy := float32(ypos - r.lastMouseY)
	if dx*dx+dy*dy < 4 && !r.dragged {
		return
	}
	r.dragged = true

	// Scale with distance so drags feel the same at every zoom
	scale := r.camera.Distance / (r.camera.MinDistance * 3)
	r.camera.Rotate(dx, dy, dragSensitivity*min(max(scale, 0.2), 1))

	r.lastMouseX = xpos
	r.lastMouseY = ypos
}

// ShouldClose returns true if the window should close
func (r *MeshRenderer) ShouldClose() bool {
	return r.window.ShouldClose()
}

// PollEvents processes pending window events
func (r *MeshRenderer) PollEvents() {
	glfw.PollEvents()
}

// Terminate releases GL resources and closes the window
func (r *MeshRenderer) Terminate() {
	r.release()
	r.program.Delete()
	r.window.Destroy()
	glfw.Terminate()
}
