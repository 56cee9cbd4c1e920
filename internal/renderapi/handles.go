package renderapi

import "fmt"

// SceneID identifies a scene towards the resource manager.
type SceneID uint64

// DeviceHandle references a GPU-side object owned by a device backend.
type DeviceHandle uint32

// InvalidDeviceHandle marks a resource that is not resident on the device.
const InvalidDeviceHandle = ^DeviceHandle(0)

// IsValid reports whether h references a device object.
func (h DeviceHandle) IsValid() bool { return h != InvalidDeviceHandle }

// ResourceContentHash identifies an uploaded client resource (effect, buffer, texture).
type ResourceContentHash struct {
	Low, High uint64
}

// IsValid reports whether the hash references a resource.
func (h ResourceContentHash) IsValid() bool { return h != ResourceContentHash{} }

func (h ResourceContentHash) String() string {
	return fmt.Sprintf("%016x%016x", h.High, h.Low)
}

// Scene object handles. Each kind uses ^uint32(0) as its invalid value.
type (
	NodeHandle           uint32
	CameraHandle         uint32
	RenderableHandle     uint32
	RenderStateHandle    uint32
	DataLayoutHandle     uint32
	DataInstanceHandle   uint32
	DataFieldHandle      uint32
	RenderGroupHandle    uint32
	RenderPassHandle     uint32
	BlitPassHandle       uint32
	RenderTargetHandle   uint32
	RenderBufferHandle   uint32
	TextureSamplerHandle uint32
	UniformBufferHandle  uint32
	ExternalBufferHandle uint32
)

const (
	InvalidNode           = ^NodeHandle(0)
	InvalidCamera         = ^CameraHandle(0)
	InvalidRenderable     = ^RenderableHandle(0)
	InvalidRenderState    = ^RenderStateHandle(0)
	InvalidDataLayout     = ^DataLayoutHandle(0)
	InvalidDataInstance   = ^DataInstanceHandle(0)
	InvalidRenderGroup    = ^RenderGroupHandle(0)
	InvalidRenderPass     = ^RenderPassHandle(0)
	InvalidBlitPass       = ^BlitPassHandle(0)
	InvalidRenderTarget   = ^RenderTargetHandle(0)
	InvalidRenderBuffer   = ^RenderBufferHandle(0)
	InvalidTextureSampler = ^TextureSamplerHandle(0)
	InvalidUniformBuffer  = ^UniformBufferHandle(0)
	InvalidExternalBuffer = ^ExternalBufferHandle(0)
)

// SemanticUniformBufferKind selects which derived transform block a buffer holds.
type SemanticUniformBufferKind uint8

const (
	SemanticModel SemanticUniformBufferKind = iota
	SemanticCamera
	SemanticModelCamera
)

func (k SemanticUniformBufferKind) String() string {
	switch k {
	case SemanticModel:
		return "Model"
	case SemanticCamera:
		return "Camera"
	case SemanticModelCamera:
		return "ModelCamera"
	default:
		return fmt.Sprintf("SemanticUniformBufferKind(%d)", uint8(k))
	}
}

// SemanticUniformBufferHandle is the composite key of a derived uniform buffer.
// Unused members are set to their invalid value, so the struct is usable as a map key.
type SemanticUniformBufferHandle struct {
	Kind       SemanticUniformBufferKind
	Renderable RenderableHandle
	Camera     CameraHandle
}

// ModelBufferHandle keys the model block of a renderable.
func ModelBufferHandle(r RenderableHandle) SemanticUniformBufferHandle {
	return SemanticUniformBufferHandle{Kind: SemanticModel, Renderable: r, Camera: InvalidCamera}
}

// CameraBufferHandle keys the camera block of a camera.
func CameraBufferHandle(c CameraHandle) SemanticUniformBufferHandle {
	return SemanticUniformBufferHandle{Kind: SemanticCamera, Renderable: InvalidRenderable, Camera: c}
}

// ModelCameraBufferHandle keys the model-camera block of a renderable seen through a camera.
func ModelCameraBufferHandle(r RenderableHandle, c CameraHandle) SemanticUniformBufferHandle {
	return SemanticUniformBufferHandle{Kind: SemanticModelCamera, Renderable: r, Camera: c}
}

func (h SemanticUniformBufferHandle) String() string {
	switch h.Kind {
	case SemanticModel:
		return fmt.Sprintf("Model{r:%d}", h.Renderable)
	case SemanticCamera:
		return fmt.Sprintf("Camera{c:%d}", h.Camera)
	default:
		return fmt.Sprintf("ModelCamera{r:%d c:%d}", h.Renderable, h.Camera)
	}
}
