package gldevice

import (
	"fmt"

	"scenerender/internal/renderapi"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Geometry is interleaved vertex data with an optional index buffer.
// Attribute i has Components[i] floats; attributes are bound to locations
// 0, 1, ... in order.
type Geometry struct {
	Vertices   []float32
	Components []int32
	Indices    []uint32
}

type geometry struct {
	vao, vbo, ebo uint32
}

func (g geometry) delete() {
	gl.DeleteVertexArrays(1, &g.vao)
	gl.DeleteBuffers(1, &g.vbo)
	if g.ebo != 0 {
		gl.DeleteBuffers(1, &g.ebo)
	}
}

// UploadGeometry builds the vertex array drawn for renderable.
func (r *Resources) UploadGeometry(renderable renderapi.RenderableHandle, scene renderapi.SceneID, geo Geometry) error {
	var stride int32
	for _, c := range geo.Components {
		stride += c
	}
	if stride == 0 || len(geo.Vertices)%int(stride) != 0 {
		return fmt.Errorf("renderable %d: %d floats do not fit a stride of %d", renderable, len(geo.Vertices), stride)
	}

	var g geometry
	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(geo.Vertices)*4, gl.Ptr(geo.Vertices), gl.STATIC_DRAW)

	var offset uintptr
	for i, c := range geo.Components {
		gl.EnableVertexAttribArray(uint32(i))
		gl.VertexAttribPointerWithOffset(uint32(i), c, gl.FLOAT, false, stride*4, offset)
		offset += uintptr(c) * 4
	}

	if len(geo.Indices) > 0 {
		gl.GenBuffers(1, &g.ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(geo.Indices)*4, gl.Ptr(geo.Indices), gl.STATIC_DRAW)
	}
	gl.BindVertexArray(0)

	k := key[renderapi.RenderableHandle]{scene, renderable}
	if old, ok := r.vertexArrays[k]; ok {
		old.delete()
	}
	r.vertexArrays[k] = g
	return nil
}

// UploadSceneUniformBuffer creates or refills a scene-provided uniform buffer.
func (r *Resources) UploadSceneUniformBuffer(b renderapi.UniformBufferHandle, scene renderapi.SceneID, data []byte) {
	k := key[renderapi.UniformBufferHandle]{scene, b}
	buf, ok := r.uniformBuffers[k]
	if !ok {
		gl.GenBuffers(1, &buf)
		r.uniformBuffers[k] = buf
	}
	gl.BindBuffer(gl.UNIFORM_BUFFER, buf)
	if len(data) > 0 {
		gl.BufferData(gl.UNIFORM_BUFFER, len(data), gl.Ptr(data), gl.DYNAMIC_DRAW)
	}
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
}

// SetExternalBuffer makes texture the content of an external buffer. The
// texture stays owned by the caller.
func (r *Resources) SetExternalBuffer(b renderapi.ExternalBufferHandle, texture uint32) {
	r.externalBuffers[b] = texture
}
