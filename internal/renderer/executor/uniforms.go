package executor

import (
	"scenerender/internal/renderapi"
	"scenerender/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

type bindingKind uint8

const (
	bindConstant bindingKind = iota
	bindSemanticConstant
	bindTexture
	bindExternalTexture
	bindUniformBuffer
)

// binding is one resolved uniform input of the renderable being drawn.
type binding struct {
	kind     bindingKind
	field    renderapi.DataFieldHandle
	dataType scene.DataType
	semantic scene.Semantic
	value    any
	handle   renderapi.DeviceHandle
	sampler  renderapi.DeviceHandle
}

// resolveUniforms fills e.bindings in field order. It returns false if any
// referenced resource is not resident.
func (e *Executor) resolveUniforms(s Scene, r renderapi.RenderableHandle, inst renderapi.DataInstanceHandle, camera renderapi.CameraHandle) bool {
	e.bindings = e.bindings[:0]
	animated := false
	layout := s.DataLayout(s.DataInstance(inst).Layout)
	for i, f := range layout.Fields {
		field := renderapi.DataFieldHandle(i)
		b := binding{field: field, dataType: f.Type, semantic: f.Semantic}

		switch f.Semantic {
		case scene.SemanticModelBlock, scene.SemanticCameraBlock, scene.SemanticModelCameraBlock:
			b.kind = bindUniformBuffer
			b.handle = s.SemanticUniformBufferDeviceHandle(semanticBufferHandle(f.Semantic, r, camera))
			if !b.handle.IsValid() {
				return false
			}
			e.bindings = append(e.bindings, b)
			continue
		case scene.SemanticTimeMs:
			b.kind = bindSemanticConstant
			b.value = []int32{scene.EffectTimeMs(s.EffectTimeSync(), e.frameTime)}
			animated = true
			e.bindings = append(e.bindings, b)
			continue
		case scene.SemanticNone:
		default:
			b.kind = bindSemanticConstant
			e.bindings = append(e.bindings, b)
			continue
		}

		v := s.ResolveField(inst, field)
		switch {
		case f.Type == scene.DataTypeTextureSamplerExternal:
			b.kind = bindExternalTexture
			if b.handle = e.resources.ExternalBufferDeviceHandle(v.ExternalBuffer); !b.handle.IsValid() {
				return false
			}
		case f.Type.IsTexture():
			b.kind = bindTexture
			if !s.HasTextureSampler(v.Sampler) {
				return false
			}
			b.handle = e.resources.ResourceDeviceHandle(s.TextureSampler(v.Sampler).Texture)
			b.sampler = e.resources.TextureSamplerDeviceHandle(v.Sampler, s.ID())
			if !b.handle.IsValid() || !b.sampler.IsValid() {
				return false
			}
		case f.Type == scene.DataTypeUniformBuffer:
			b.kind = bindUniformBuffer
			if b.handle = e.resources.UniformBufferDeviceHandle(v.UniformBuffer, s.ID()); !b.handle.IsValid() {
				return false
			}
		case f.Type.IsResource():
			continue
		default:
			if scene.ConstantLen(v.Constant) == 0 {
				continue
			}
			b.kind = bindConstant
			b.value = v.Constant
		}
		e.bindings = append(e.bindings, b)
	}
	if animated {
		s.SetActiveShaderAnimation(true)
	}
	return true
}

func semanticBufferHandle(sem scene.Semantic, r renderapi.RenderableHandle, c renderapi.CameraHandle) renderapi.SemanticUniformBufferHandle {
	switch sem {
	case scene.SemanticModelBlock:
		return renderapi.ModelBufferHandle(r)
	case scene.SemanticCameraBlock:
		return renderapi.CameraBufferHandle(c)
	default:
		return renderapi.ModelCameraBufferHandle(r, c)
	}
}

func (e *Executor) bindUniforms(ctx *RenderingContext) {
	d := e.device
	for _, b := range e.bindings {
		switch b.kind {
		case bindConstant:
			d.SetConstant(b.field, b.value)
		case bindSemanticConstant:
			d.SetConstant(b.field, e.semanticValue(ctx, b))
		case bindTexture:
			d.ActivateTexture(b.handle, b.field)
			d.ActivateTextureSamplerObject(b.sampler, b.field)
		case bindExternalTexture:
			d.ActivateTexture(b.handle, b.field)
		case bindUniformBuffer:
			d.ActivateUniformBuffer(b.handle, b.field)
		}
	}
}

func (e *Executor) semanticValue(ctx *RenderingContext, b binding) any {
	st := e.state
	switch b.semantic {
	case scene.SemanticModelMatrix:
		return []mgl32.Mat4{st.ModelMatrix()}
	case scene.SemanticViewMatrix:
		return []mgl32.Mat4{st.ViewMatrix()}
	case scene.SemanticProjectionMatrix:
		return []mgl32.Mat4{st.ProjectionMatrix()}
	case scene.SemanticModelViewMatrix:
		return []mgl32.Mat4{st.ModelViewMatrix()}
	case scene.SemanticModelViewMatrix33:
		return []mgl32.Mat3{st.ModelViewMatrix().Mat3()}
	case scene.SemanticModelViewProjectionMatrix:
		return []mgl32.Mat4{st.ModelViewProjectionMatrix()}
	case scene.SemanticNormalMatrix:
		if b.dataType == scene.DataTypeMatrix33F {
			return []mgl32.Mat3{st.NormalMatrix().Mat3()}
		}
		return []mgl32.Mat4{st.NormalMatrix()}
	case scene.SemanticCameraWorldPosition:
		return []mgl32.Vec3{st.CameraWorldPosition()}
	case scene.SemanticDisplayBufferResolution:
		return []mgl32.Vec2{{float32(ctx.ViewportWidth), float32(ctx.ViewportHeight)}}
	case scene.SemanticTimeMs:
		return b.value
	}
	return nil
}
