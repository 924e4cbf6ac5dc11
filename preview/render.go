// Package preview rasterizes generated meshes into still images without a GPU.
package preview

import (
	"errors"
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"planetgen/config"
	"planetgen/core"
)

// ErrNothingToRender is returned when no mesh has any vertices.
var ErrNothingToRender = errors.New("preview: nothing to render")

type Options struct {
	Width, Height int
	// Supersample renders at this multiple of the output size and scales down.
	Supersample int
	Yaw, Pitch  float32 // degrees
	FOV         float32 // vertical field of view, degrees
	Background  color.NRGBA
	Light       mgl32.Vec3 // world-space direction toward the light
	Ambient     float32
}

func DefaultOptions() Options {
	return Options{
		Width:       512,
		Height:      512,
		Supersample: 2,
		Yaw:         30,
		Pitch:       20,
		FOV:         45,
		Background:  color.NRGBA{8, 8, 16, 255},
		Light:       mgl32.Vec3{1, 1, 1}.Normalize(),
		Ambient:     0.25,
	}
}

// OptionsFromSettings applies preview settings over DefaultOptions.
func OptionsFromSettings(p config.PreviewSettings) Options {
	o := DefaultOptions()
	o.Width, o.Height = p.Width, p.Height
	o.Supersample = p.Supersample
	o.Yaw, o.Pitch = p.Yaw, p.Pitch
	o.Background = color.NRGBA{uint8(p.Background[0]), uint8(p.Background[1]), uint8(p.Background[2]), 255}
	return o
}

// Render draws meshes in order: opaque ones with depth writes first, then
// translucent ones blended over them. The camera looks at the origin from far
// enough away to frame the largest mesh.
func Render(meshes []*core.Mesh, opt Options) (*image.NRGBA, error) {
	if opt.Supersample < 1 {
		opt.Supersample = 1
	}
	var bound float32
	for _, m := range meshes {
		if m == nil {
			continue
		}
		for _, v := range m.Vertices {
			bound = math32.Max(bound, core.Length(v.Position))
		}
	}
	if bound == 0 {
		return nil, ErrNothingToRender
	}

	w, h := opt.Width*opt.Supersample, opt.Height*opt.Supersample
	r := newRaster(w, h, opt.Background)

	fov := mgl32.DegToRad(opt.FOV)
	distance := bound / math32.Sin(fov/2) * 1.05
	model := mgl32.HomogRotate3DX(mgl32.DegToRad(opt.Pitch)).Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(-opt.Yaw)))
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, distance}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	near := distance - bound*1.5
	if near <= 0 {
		near = distance * 0.01
	}
	proj := mgl32.Perspective(fov, float32(w)/float32(h), near, distance+bound*1.5)

	sh := shader{
		mvp:     proj.Mul4(view).Mul4(model),
		model:   model,
		light:   opt.Light.Normalize(),
		ambient: opt.Ambient,
	}

	for _, translucent := range []bool{false, true} {
		for _, m := range meshes {
			if m == nil || m.Translucent() != translucent {
				continue
			}
			for i := 0; i+2 < len(m.Vertices); i += 3 {
				tri := [3]screenVertex{
					sh.project(m.Vertices[i], w, h),
					sh.project(m.Vertices[i+1], w, h),
					sh.project(m.Vertices[i+2], w, h),
				}
				r.fill(tri, translucent)
			}
		}
	}

	if opt.Supersample == 1 {
		return r.img, nil
	}
	return Downsample(r.img, opt.Width, opt.Height), nil
}

type shader struct {
	mvp, model mgl32.Mat4
	light      mgl32.Vec3
	ambient    float32
}

type screenVertex struct {
	x, y, z float32
	color   mgl32.Vec4
	clipped bool
}

func (s shader) project(v core.Vertex, w, h int) screenVertex {
	clip := s.mvp.Mul4x1(v.Position.Vec4(1))
	if clip[3] <= 0 {
		return screenVertex{clipped: true}
	}
	ndc := clip.Vec3().Mul(1 / clip[3])

	n := s.model.Mul4x1(v.Normal.Vec4(0)).Vec3()
	lambert := math32.Max(0, n.Dot(s.light))
	shade := s.ambient + (1-s.ambient)*lambert

	return screenVertex{
		x: (ndc[0] + 1) * 0.5 * float32(w),
		y: (1 - ndc[1]) * 0.5 * float32(h),
		z: ndc[2],
		color: mgl32.Vec4{
			v.Color[0] * shade,
			v.Color[1] * shade,
			v.Color[2] * shade,
			v.Color[3],
		},
		clipped: ndc[2] < -1 || ndc[2] > 1,
	}
}

type raster struct {
	img   *image.NRGBA
	depth []float32
	w, h  int
}

func newRaster(w, h int, bg color.NRGBA) *raster {
	r := &raster{
		img:   image.NewNRGBA(image.Rect(0, 0, w, h)),
		depth: make([]float32, w*h),
		w:     w,
		h:     h,
	}
	for i := range r.depth {
		r.depth[i] = math32.Inf(1)
	}
	for i := 0; i < len(r.img.Pix); i += 4 {
		r.img.Pix[i], r.img.Pix[i+1], r.img.Pix[i+2], r.img.Pix[i+3] = bg.R, bg.G, bg.B, bg.A
	}
	return r
}

func edge(a, b screenVertex, x, y float32) float32 {
	return (b.x-a.x)*(y-a.y) - (b.y-a.y)*(x-a.x)
}

// fill rasterizes one triangle. Faces wound clockwise on screen (y down) face
// the camera; the rest are culled.
func (r *raster) fill(t [3]screenVertex, blend bool) {
	if t[0].clipped || t[1].clipped || t[2].clipped {
		return
	}
	area := edge(t[0], t[1], t[2].x, t[2].y)
	if area >= 0 {
		return
	}

	minX := int(math32.Max(0, math32.Floor(math32.Min(t[0].x, math32.Min(t[1].x, t[2].x)))))
	maxX := int(math32.Min(float32(r.w-1), math32.Ceil(math32.Max(t[0].x, math32.Max(t[1].x, t[2].x)))))
	minY := int(math32.Max(0, math32.Floor(math32.Min(t[0].y, math32.Min(t[1].y, t[2].y)))))
	maxY := int(math32.Min(float32(r.h-1), math32.Ceil(math32.Max(t[0].y, math32.Max(t[1].y, t[2].y)))))

	for y := minY; y <= maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5
			w0 := edge(t[1], t[2], px, py) / area
			w1 := edge(t[2], t[0], px, py) / area
			w2 := edge(t[0], t[1], px, py) / area
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			z := w0*t[0].z + w1*t[1].z + w2*t[2].z
			i := y*r.w + x
			if z >= r.depth[i] {
				continue
			}
			c := t[0].color.Mul(w0).Add(t[1].color.Mul(w1)).Add(t[2].color.Mul(w2))
			if blend {
				r.blend(i, c)
			} else {
				r.depth[i] = z
				r.set(i, c)
			}
		}
	}
}

func (r *raster) set(i int, c mgl32.Vec4) {
	p := r.img.Pix[i*4 : i*4+4]
	p[0], p[1], p[2], p[3] = to8(c[0]), to8(c[1]), to8(c[2]), 255
}

// blend composites c over the pixel with straight alpha.
func (r *raster) blend(i int, c mgl32.Vec4) {
	a := math32.Max(0, math32.Min(1, c[3]))
	p := r.img.Pix[i*4 : i*4+4]
	for k := 0; k < 3; k++ {
		dst := float32(p[k]) / 255
		p[k] = to8(c[k]*a + dst*(1-a))
	}
}

func to8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
