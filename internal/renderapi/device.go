package renderapi

import "github.com/go-gl/mathgl/mgl32"

// Device is the GPU command surface consumed by the render executor.
// Uniform locations are addressed by the field index of the active
// effect's uniform layout; backends map them to program locations.
type Device interface {
	SetScissorTest(test ScissorTest, region ScissorRegion)
	SetDepthFunc(fn DepthFunc)
	SetDepthWrite(write DepthWrite)
	SetStencilFunc(fn StencilFunc, ref, mask uint8)
	SetStencilOp(fail, depthFail, depthPass StencilOp)
	SetBlendOperations(color, alpha BlendOperation)
	SetBlendFactors(srcColor, dstColor, srcAlpha, dstAlpha BlendFactor)
	SetBlendColor(color mgl32.Vec4)
	SetColorMask(mask ColorWriteMask)
	SetCullMode(mode CullMode)
	SetDrawMode(mode DrawMode)
	SetViewport(x, y int32, width, height uint32)

	ClearColor(color mgl32.Vec4)
	Clear(flags ClearFlags)

	ActivateRenderTarget(target DeviceHandle)
	ActivateShader(shader DeviceHandle)
	ActivateVertexArray(vertexArray DeviceHandle)
	ActivateTexture(texture DeviceHandle, field DataFieldHandle)
	ActivateTextureSamplerObject(sampler DeviceHandle, field DataFieldHandle)
	ActivateUniformBuffer(buffer DeviceHandle, field DataFieldHandle)

	// SetConstant uploads a uniform value. value is one of []float32, []int32,
	// []mgl32.Vec2, []mgl32.Vec3, []mgl32.Vec4, [][2]int32, [][3]int32,
	// [][4]int32, []mgl32.Mat2, []mgl32.Mat3 or []mgl32.Mat4.
	SetConstant(field DataFieldHandle, value any)

	DrawIndexedTriangles(startOffset, elementCount, instanceCount uint32)
	DrawTriangles(startOffset, elementCount, instanceCount uint32)

	BlitRenderTargets(src, dst DeviceHandle, srcRect, dstRect PixelRectangle, colorOnly bool)
	DiscardDepthStencil()
}

// ResourceManager resolves scene resources to device handles and owns the
// lifetime of semantic uniform buffers. Lookups return InvalidDeviceHandle
// for resources that are not resident yet.
type ResourceManager interface {
	RenderTargetDeviceHandle(target RenderTargetHandle, scene SceneID) DeviceHandle
	BlitPassRenderTargets(pass BlitPassHandle, scene SceneID) (src, dst DeviceHandle)
	ResourceDeviceHandle(hash ResourceContentHash) DeviceHandle
	VertexArrayDeviceHandle(renderable RenderableHandle, scene SceneID) DeviceHandle
	TextureSamplerDeviceHandle(sampler TextureSamplerHandle, scene SceneID) DeviceHandle
	ExternalBufferDeviceHandle(buffer ExternalBufferHandle) DeviceHandle
	UniformBufferDeviceHandle(buffer UniformBufferHandle, scene SceneID) DeviceHandle

	UploadUniformBuffer(handle SemanticUniformBufferHandle, size uint32, scene SceneID) DeviceHandle
	UpdateUniformBuffer(handle SemanticUniformBufferHandle, data []byte, scene SceneID)
	UnloadUniformBuffer(handle SemanticUniformBufferHandle, scene SceneID)
}
