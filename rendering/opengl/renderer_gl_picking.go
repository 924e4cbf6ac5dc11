package opengl

import (
	"planetgen/core"
)

// Pick is a click hit on one mesh of the scene.
type Pick struct {
	Mesh int
	core.Hit
	Location core.Geographic
}

// HandleMouseClick casts a ray through the cursor and selects the nearest
// opaque triangle. Translucent shells are skipped so clicks reach the ground.
func (r *MeshRenderer) HandleMouseClick(xpos, ypos float64) {
	origin, dir := r.camera.Ray(xpos, ypos)

	index, hit, ok := core.PickScene(r.meshes, origin, dir)
	if !ok {
		return
	}
	var radius float32
	if index < len(r.radii) {
		radius = r.radii[index]
	}
	pick := Pick{Mesh: index, Hit: hit, Location: hit.Geographic(radius)}
	r.LastHit = &pick

	v := r.meshes[pick.Mesh].Vertices[3*pick.Triangle]
	r.logger.Printf("Picked mesh %d triangle %d at %.2f°, %.2f° altitude %.4f color (%.2f, %.2f, %.2f)",
		pick.Mesh, pick.Triangle,
		core.RadiansToDegrees(pick.Location.Lat), core.RadiansToDegrees(pick.Location.Lon), pick.Location.Alt,
		v.Color[0], v.Color[1], v.Color[2])
}
