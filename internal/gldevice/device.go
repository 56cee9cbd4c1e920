// Package gldevice implements the render device and resource manager on
// OpenGL 4.1 core.
//
// Device handles are GL object names. The display framebuffer is handle 0.
// All methods must be called on the thread that owns the GL context.
package gldevice

import (
	"scenerender/internal/renderapi"
	"scenerender/internal/scene"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// DisplayFramebuffer is the device handle of the window framebuffer.
const DisplayFramebuffer renderapi.DeviceHandle = 0

// Device issues executor commands to the current GL context.
type Device struct {
	res     *Resources
	program *program
	mode    uint32
}

var _ renderapi.Device = (*Device)(nil)

// New returns a device that resolves shader uniform tables through res.
func New(res *Resources) *Device {
	return &Device{res: res, mode: gl.TRIANGLES}
}

func enable(capability uint32, on bool) {
	if on {
		gl.Enable(capability)
	} else {
		gl.Disable(capability)
	}
}

func (d *Device) SetScissorTest(test renderapi.ScissorTest, region renderapi.ScissorRegion) {
	enable(gl.SCISSOR_TEST, test == renderapi.ScissorTestEnabled)
	if test == renderapi.ScissorTestEnabled {
		gl.Scissor(region.X, region.Y, int32(region.Width), int32(region.Height))
	}
}

func (d *Device) SetDepthFunc(fn renderapi.DepthFunc) {
	enable(gl.DEPTH_TEST, fn != renderapi.DepthFuncDisabled)
	if fn != renderapi.DepthFuncDisabled {
		gl.DepthFunc(depthFunc(fn))
	}
}

func (d *Device) SetDepthWrite(write renderapi.DepthWrite) {
	gl.DepthMask(write == renderapi.DepthWriteEnabled)
}

func (d *Device) SetStencilFunc(fn renderapi.StencilFunc, ref, mask uint8) {
	enable(gl.STENCIL_TEST, fn != renderapi.StencilFuncDisabled)
	if fn != renderapi.StencilFuncDisabled {
		gl.StencilFuncSeparate(gl.FRONT_AND_BACK, stencilFunc(fn), int32(ref), uint32(mask))
	}
}

func (d *Device) SetStencilOp(fail, depthFail, depthPass renderapi.StencilOp) {
	gl.StencilOpSeparate(gl.FRONT_AND_BACK, stencilOp(fail), stencilOp(depthFail), stencilOp(depthPass))
}

func (d *Device) SetBlendOperations(color, alpha renderapi.BlendOperation) {
	on := color != renderapi.BlendOperationDisabled || alpha != renderapi.BlendOperationDisabled
	enable(gl.BLEND, on)
	if on {
		gl.BlendEquationSeparate(blendOperation(color), blendOperation(alpha))
	}
}

func (d *Device) SetBlendFactors(srcColor, dstColor, srcAlpha, dstAlpha renderapi.BlendFactor) {
	gl.BlendFuncSeparate(blendFactor(srcColor), blendFactor(dstColor), blendFactor(srcAlpha), blendFactor(dstAlpha))
}

func (d *Device) SetBlendColor(c mgl32.Vec4) {
	gl.BlendColor(c[0], c[1], c[2], c[3])
}

func (d *Device) SetColorMask(mask renderapi.ColorWriteMask) {
	gl.ColorMask(
		mask&renderapi.ColorWriteRed != 0,
		mask&renderapi.ColorWriteGreen != 0,
		mask&renderapi.ColorWriteBlue != 0,
		mask&renderapi.ColorWriteAlpha != 0,
	)
}

func (d *Device) SetCullMode(mode renderapi.CullMode) {
	face, on := cullFace(mode)
	enable(gl.CULL_FACE, on)
	if on {
		gl.CullFace(face)
	}
}

// SetDrawMode sets the primitive used by the following draws.
func (d *Device) SetDrawMode(mode renderapi.DrawMode) {
	d.mode = primitive(mode)
}

func (d *Device) SetViewport(x, y int32, width, height uint32) {
	gl.Viewport(x, y, int32(width), int32(height))
}

func (d *Device) ClearColor(c mgl32.Vec4) {
	gl.ClearColor(c[0], c[1], c[2], c[3])
}

func (d *Device) Clear(flags renderapi.ClearFlags) {
	gl.Clear(clearMask(flags))
}

func (d *Device) ActivateRenderTarget(target renderapi.DeviceHandle) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(target))
}

func (d *Device) ActivateShader(shader renderapi.DeviceHandle) {
	d.program = d.res.programs[shader]
	gl.UseProgram(uint32(shader))
}

func (d *Device) ActivateVertexArray(vertexArray renderapi.DeviceHandle) {
	gl.BindVertexArray(uint32(vertexArray))
}

// ActivateTexture binds texture to the unit assigned to field at link time.
func (d *Device) ActivateTexture(texture renderapi.DeviceHandle, field renderapi.DataFieldHandle) {
	u, ok := d.uniform(field)
	if !ok || u.unit < 0 {
		return
	}
	gl.ActiveTexture(gl.TEXTURE0 + uint32(u.unit))
	gl.BindTexture(u.target, uint32(texture))
}

func (d *Device) ActivateTextureSamplerObject(sampler renderapi.DeviceHandle, field renderapi.DataFieldHandle) {
	u, ok := d.uniform(field)
	if !ok || u.unit < 0 {
		return
	}
	gl.BindSampler(uint32(u.unit), uint32(sampler))
}

// ActivateUniformBuffer binds buffer to the binding point of field's block.
func (d *Device) ActivateUniformBuffer(buffer renderapi.DeviceHandle, field renderapi.DataFieldHandle) {
	u, ok := d.uniform(field)
	if !ok || u.block == gl.INVALID_INDEX {
		return
	}
	gl.BindBufferBase(gl.UNIFORM_BUFFER, uint32(field), uint32(buffer))
}

func (d *Device) SetConstant(field renderapi.DataFieldHandle, value any) {
	u, ok := d.uniform(field)
	if !ok || u.location < 0 || scene.ConstantLen(value) == 0 {
		return
	}
	loc := u.location
	switch v := value.(type) {
	case []float32:
		gl.Uniform1fv(loc, int32(len(v)), &v[0])
	case []int32:
		gl.Uniform1iv(loc, int32(len(v)), &v[0])
	case []mgl32.Vec2:
		gl.Uniform2fv(loc, int32(len(v)), &v[0][0])
	case []mgl32.Vec3:
		gl.Uniform3fv(loc, int32(len(v)), &v[0][0])
	case []mgl32.Vec4:
		gl.Uniform4fv(loc, int32(len(v)), &v[0][0])
	case [][2]int32:
		gl.Uniform2iv(loc, int32(len(v)), &v[0][0])
	case [][3]int32:
		gl.Uniform3iv(loc, int32(len(v)), &v[0][0])
	case [][4]int32:
		gl.Uniform4iv(loc, int32(len(v)), &v[0][0])
	case []mgl32.Mat2:
		gl.UniformMatrix2fv(loc, int32(len(v)), false, &v[0][0])
	case []mgl32.Mat3:
		gl.UniformMatrix3fv(loc, int32(len(v)), false, &v[0][0])
	case []mgl32.Mat4:
		gl.UniformMatrix4fv(loc, int32(len(v)), false, &v[0][0])
	}
}

// DrawIndexedTriangles draws with 32 bit indices; startOffset counts indices.
func (d *Device) DrawIndexedTriangles(startOffset, elementCount, instanceCount uint32) {
	gl.DrawElementsInstancedBaseVertex(d.mode, int32(elementCount), gl.UNSIGNED_INT, gl.PtrOffset(int(startOffset)*4), int32(instanceCount), 0)
}

func (d *Device) DrawTriangles(startOffset, elementCount, instanceCount uint32) {
	gl.DrawArraysInstanced(d.mode, int32(startOffset), int32(elementCount), int32(instanceCount))
}

// BlitRenderTargets copies between two framebuffers and leaves the read and
// draw bindings pointing at them.
func (d *Device) BlitRenderTargets(src, dst renderapi.DeviceHandle, srcRect, dstRect renderapi.PixelRectangle, colorOnly bool) {
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, uint32(src))
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, uint32(dst))
	gl.BlitFramebuffer(
		srcRect.X, srcRect.Y, srcRect.X+srcRect.Width, srcRect.Y+srcRect.Height,
		dstRect.X, dstRect.Y, dstRect.X+dstRect.Width, dstRect.Y+dstRect.Height,
		blitMask(colorOnly), gl.NEAREST,
	)
}

// DiscardDepthStencil is a no-op: framebuffer invalidation needs GL 4.3.
func (d *Device) DiscardDepthStencil() {}

func (d *Device) uniform(field renderapi.DataFieldHandle) (uniform, bool) {
	if d.program == nil || int(field) >= len(d.program.uniforms) {
		return uniform{}, false
	}
	return d.program.uniforms[field], true
}
