package shaders

import (
	"github.com/go-gl/gl/v4.1-core/gl"
)

// Attribute locations matching the interleaved mesh layout.
const (
	PositionLocation = 0
	ColorLocation    = 1
	NormalLocation   = 2
)

const meshVertexShader = `#version 410 core

layout(location = 0) in vec3 position;
layout(location = 1) in vec4 color;
layout(location = 2) in vec3 normal;

uniform mat4 viewProj;

out vec4 fragColor;
out vec3 fragNormal;

void main() {
    gl_Position = viewProj * vec4(position, 1.0);
    fragColor = color;
    fragNormal = normal;
}
`

const meshFragmentShader = `#version 410 core

in vec4 fragColor;
in vec3 fragNormal;

uniform vec3 lightDir;
uniform float ambient;
uniform bool lit;

out vec4 outColor;

void main() {
    float shade = 1.0;
    if (lit) {
        shade = ambient + (1.0 - ambient) * max(dot(normalize(fragNormal), lightDir), 0.0);
    }
    outColor = vec4(fragColor.rgb * shade, fragColor.a);
}
`

// MeshProgram is the compiled mesh shader with its uniform locations.
type MeshProgram struct {
	ID       uint32
	ViewProj int32
	LightDir int32
	Ambient  int32
	Lit      int32
}

// CreateMeshProgram builds the lit vertex-color program used for planet meshes.
func CreateMeshProgram() (*MeshProgram, error) {
	id, err := buildProgram(meshVertexShader, meshFragmentShader)
	if err != nil {
		return nil, err
	}
	return &MeshProgram{
		ID:       id,
		ViewProj: gl.GetUniformLocation(id, gl.Str("viewProj\x00")),
		LightDir: gl.GetUniformLocation(id, gl.Str("lightDir\x00")),
		Ambient:  gl.GetUniformLocation(id, gl.Str("ambient\x00")),
		Lit:      gl.GetUniformLocation(id, gl.Str("lit\x00")),
	}, nil
}

func (p *MeshProgram) Delete() {
	gl.DeleteProgram(p.ID)
}
