package gldevice

import (
	"fmt"
	"strings"

	"scenerender/internal/scene"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Effect is GLSL source plus the names of its uniform inputs, listed in the
// field order of the uniform layout that feeds it.
type Effect struct {
	VertexSource   string
	FragmentSource string
	Uniforms       []UniformInput
}

// UniformInput names the GLSL uniform or uniform block of one layout field.
type UniformInput struct {
	Name string
	Type scene.DataType
}

type uniform struct {
	location int32
	unit     int32
	target   uint32
	block    uint32
}

type program struct {
	id       uint32
	uniforms []uniform
}

func linkEffect(e Effect) (*program, error) {
	id, err := compileProgram(e.VertexSource, e.FragmentSource)
	if err != nil {
		return nil, err
	}
	p := &program{id: id, uniforms: make([]uniform, len(e.Uniforms))}
	gl.UseProgram(id)
	var nextUnit int32
	for i, in := range e.Uniforms {
		u := uniform{location: -1, unit: -1, block: gl.INVALID_INDEX}
		name := gl.Str(in.Name + "\x00")
		switch {
		case in.Type == scene.DataTypeUniformBuffer:
			u.block = gl.GetUniformBlockIndex(id, name)
			if u.block != gl.INVALID_INDEX {
				gl.UniformBlockBinding(id, u.block, uint32(i))
			}
		case in.Type.IsTexture():
			u.location = gl.GetUniformLocation(id, name)
			u.unit = nextUnit
			u.target = textureTarget(in.Type)
			nextUnit++
			gl.Uniform1i(u.location, u.unit)
		default:
			u.location = gl.GetUniformLocation(id, name)
		}
		p.uniforms[i] = u
	}
	gl.UseProgram(0)
	return p, nil
}

func textureTarget(t scene.DataType) uint32 {
	switch t {
	case scene.DataTypeTextureSampler3D:
		return gl.TEXTURE_3D
	case scene.DataTypeTextureSamplerCube:
		return gl.TEXTURE_CUBE_MAP
	default:
		return gl.TEXTURE_2D
	}
}

func compileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertexShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fragmentShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)
	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)

		return 0, fmt.Errorf("link program: %s", strings.TrimRight(log, "\x00"))
	}
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)

		return 0, fmt.Errorf("compile shader: %s", strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}
