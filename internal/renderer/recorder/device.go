// Package recorder provides a Device that records every command and a
// ResourceManager backed by plain maps. Both are meant for tests and for
// dumping the command stream of a frame.
package recorder

import (
	"fmt"
	"strings"

	"scenerender/internal/renderapi"

	"github.com/go-gl/mathgl/mgl32"
)

// Call is one recorded device command.
type Call struct {
	Name string
	Args []any
}

func (c Call) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = fmt.Sprint(a)
	}
	return c.Name + "(" + strings.Join(parts, ", ") + ")"
}

// NewCall builds a Call, mostly for expectations in tests.
func NewCall(name string, args ...any) Call {
	return Call{Name: name, Args: args}
}

// Device records commands in issue order.
type Device struct {
	calls []Call
}

var _ renderapi.Device = (*Device)(nil)

// NewDevice returns an empty recording device.
func NewDevice() *Device { return &Device{} }

// Calls returns the recorded commands.
func (d *Device) Calls() []Call { return d.calls }

// Names returns the names of the recorded commands.
func (d *Device) Names() []string {
	out := make([]string, len(d.calls))
	for i, c := range d.calls {
		out[i] = c.Name
	}
	return out
}

// Count returns how often a command was recorded.
func (d *Device) Count(name string) int {
	n := 0
	for _, c := range d.calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// Reset drops all recorded commands.
func (d *Device) Reset() { d.calls = d.calls[:0] }

func (d *Device) record(name string, args ...any) {
	d.calls = append(d.calls, Call{Name: name, Args: args})
}

func (d *Device) SetScissorTest(test renderapi.ScissorTest, region renderapi.ScissorRegion) {
	d.record("SetScissorTest", test, region)
}

func (d *Device) SetDepthFunc(fn renderapi.DepthFunc) { d.record("SetDepthFunc", fn) }

func (d *Device) SetDepthWrite(write renderapi.DepthWrite) { d.record("SetDepthWrite", write) }

func (d *Device) SetStencilFunc(fn renderapi.StencilFunc, ref, mask uint8) {
	d.record("SetStencilFunc", fn, ref, mask)
}

func (d *Device) SetStencilOp(fail, depthFail, depthPass renderapi.StencilOp) {
	d.record("SetStencilOp", fail, depthFail, depthPass)
}

func (d *Device) SetBlendOperations(color, alpha renderapi.BlendOperation) {
	d.record("SetBlendOperations", color, alpha)
}

func (d *Device) SetBlendFactors(srcColor, dstColor, srcAlpha, dstAlpha renderapi.BlendFactor) {
	d.record("SetBlendFactors", srcColor, dstColor, srcAlpha, dstAlpha)
}

func (d *Device) SetBlendColor(color mgl32.Vec4) { d.record("SetBlendColor", color) }

func (d *Device) SetColorMask(mask renderapi.ColorWriteMask) { d.record("SetColorMask", mask) }

func (d *Device) SetCullMode(mode renderapi.CullMode) { d.record("SetCullMode", mode) }

func (d *Device) SetDrawMode(mode renderapi.DrawMode) { d.record("SetDrawMode", mode) }

func (d *Device) SetViewport(x, y int32, width, height uint32) {
	d.record("SetViewport", x, y, width, height)
}

func (d *Device) ClearColor(color mgl32.Vec4) { d.record("ClearColor", color) }

func (d *Device) Clear(flags renderapi.ClearFlags) { d.record("Clear", flags) }

func (d *Device) ActivateRenderTarget(target renderapi.DeviceHandle) {
	d.record("ActivateRenderTarget", target)
}

func (d *Device) ActivateShader(shader renderapi.DeviceHandle) { d.record("ActivateShader", shader) }

func (d *Device) ActivateVertexArray(vertexArray renderapi.DeviceHandle) {
	d.record("ActivateVertexArray", vertexArray)
}

func (d *Device) ActivateTexture(texture renderapi.DeviceHandle, field renderapi.DataFieldHandle) {
	d.record("ActivateTexture", texture, field)
}

func (d *Device) ActivateTextureSamplerObject(sampler renderapi.DeviceHandle, field renderapi.DataFieldHandle) {
	d.record("ActivateTextureSamplerObject", sampler, field)
}

func (d *Device) ActivateUniformBuffer(buffer renderapi.DeviceHandle, field renderapi.DataFieldHandle) {
	d.record("ActivateUniformBuffer", buffer, field)
}

func (d *Device) SetConstant(field renderapi.DataFieldHandle, value any) {
	d.record("SetConstant", field, value)
}

func (d *Device) DrawIndexedTriangles(startOffset, elementCount, instanceCount uint32) {
	d.record("DrawIndexedTriangles", startOffset, elementCount, instanceCount)
}

func (d *Device) DrawTriangles(startOffset, elementCount, instanceCount uint32) {
	d.record("DrawTriangles", startOffset, elementCount, instanceCount)
}

func (d *Device) BlitRenderTargets(src, dst renderapi.DeviceHandle, srcRect, dstRect renderapi.PixelRectangle, colorOnly bool) {
	d.record("BlitRenderTargets", src, dst, srcRect, dstRect, colorOnly)
}

func (d *Device) DiscardDepthStencil() { d.record("DiscardDepthStencil") }
