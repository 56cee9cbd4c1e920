package recorder

import (
	"slices"

	"scenerender/internal/renderapi"
)

// OpKind is a semantic uniform buffer operation.
type OpKind uint8

const (
	OpUpload OpKind = iota
	OpUpdate
	OpUnload
)

func (k OpKind) String() string {
	switch k {
	case OpUpload:
		return "upload"
	case OpUpdate:
		return "update"
	default:
		return "unload"
	}
}

// BufferOp is one recorded semantic uniform buffer operation.
type BufferOp struct {
	Kind   OpKind
	Handle renderapi.SemanticUniformBufferHandle
	Size   uint32
	Data   []byte
	Scene  renderapi.SceneID
}

// ResourceManager answers residency lookups from its maps. Missing entries
// resolve to InvalidDeviceHandle. Semantic uniform buffers get increasing
// device handles starting at FirstBufferHandle.
type ResourceManager struct {
	RenderTargets   map[renderapi.RenderTargetHandle]renderapi.DeviceHandle
	BlitPasses      map[renderapi.BlitPassHandle][2]renderapi.DeviceHandle
	Resources       map[renderapi.ResourceContentHash]renderapi.DeviceHandle
	VertexArrays    map[renderapi.RenderableHandle]renderapi.DeviceHandle
	Samplers        map[renderapi.TextureSamplerHandle]renderapi.DeviceHandle
	ExternalBuffers map[renderapi.ExternalBufferHandle]renderapi.DeviceHandle
	UniformBuffers  map[renderapi.UniformBufferHandle]renderapi.DeviceHandle

	ops        []BufferOp
	nextBuffer renderapi.DeviceHandle
	buffers    map[renderapi.SemanticUniformBufferHandle]renderapi.DeviceHandle
}

// FirstBufferHandle is the device handle of the first uploaded semantic buffer.
const FirstBufferHandle renderapi.DeviceHandle = 1000

var _ renderapi.ResourceManager = (*ResourceManager)(nil)

// NewResourceManager returns a resource manager with nothing resident.
func NewResourceManager() *ResourceManager {
	return &ResourceManager{
		RenderTargets:   make(map[renderapi.RenderTargetHandle]renderapi.DeviceHandle),
		BlitPasses:      make(map[renderapi.BlitPassHandle][2]renderapi.DeviceHandle),
		Resources:       make(map[renderapi.ResourceContentHash]renderapi.DeviceHandle),
		VertexArrays:    make(map[renderapi.RenderableHandle]renderapi.DeviceHandle),
		Samplers:        make(map[renderapi.TextureSamplerHandle]renderapi.DeviceHandle),
		ExternalBuffers: make(map[renderapi.ExternalBufferHandle]renderapi.DeviceHandle),
		UniformBuffers:  make(map[renderapi.UniformBufferHandle]renderapi.DeviceHandle),
		nextBuffer:      FirstBufferHandle,
		buffers:         make(map[renderapi.SemanticUniformBufferHandle]renderapi.DeviceHandle),
	}
}

func lookup[K comparable](m map[K]renderapi.DeviceHandle, k K) renderapi.DeviceHandle {
	if h, ok := m[k]; ok {
		return h
	}
	return renderapi.InvalidDeviceHandle
}

func (rm *ResourceManager) RenderTargetDeviceHandle(target renderapi.RenderTargetHandle, _ renderapi.SceneID) renderapi.DeviceHandle {
	return lookup(rm.RenderTargets, target)
}

func (rm *ResourceManager) BlitPassRenderTargets(pass renderapi.BlitPassHandle, _ renderapi.SceneID) (src, dst renderapi.DeviceHandle) {
	if h, ok := rm.BlitPasses[pass]; ok {
		return h[0], h[1]
	}
	return renderapi.InvalidDeviceHandle, renderapi.InvalidDeviceHandle
}

func (rm *ResourceManager) ResourceDeviceHandle(hash renderapi.ResourceContentHash) renderapi.DeviceHandle {
	return lookup(rm.Resources, hash)
}

func (rm *ResourceManager) VertexArrayDeviceHandle(renderable renderapi.RenderableHandle, _ renderapi.SceneID) renderapi.DeviceHandle {
	return lookup(rm.VertexArrays, renderable)
}

func (rm *ResourceManager) TextureSamplerDeviceHandle(sampler renderapi.TextureSamplerHandle, _ renderapi.SceneID) renderapi.DeviceHandle {
	return lookup(rm.Samplers, sampler)
}

func (rm *ResourceManager) ExternalBufferDeviceHandle(buffer renderapi.ExternalBufferHandle) renderapi.DeviceHandle {
	return lookup(rm.ExternalBuffers, buffer)
}

func (rm *ResourceManager) UniformBufferDeviceHandle(buffer renderapi.UniformBufferHandle, _ renderapi.SceneID) renderapi.DeviceHandle {
	return lookup(rm.UniformBuffers, buffer)
}

func (rm *ResourceManager) UploadUniformBuffer(h renderapi.SemanticUniformBufferHandle, size uint32, scene renderapi.SceneID) renderapi.DeviceHandle {
	dev := rm.nextBuffer
	rm.nextBuffer++
	rm.buffers[h] = dev
	rm.ops = append(rm.ops, BufferOp{Kind: OpUpload, Handle: h, Size: size, Scene: scene})
	return dev
}

func (rm *ResourceManager) UpdateUniformBuffer(h renderapi.SemanticUniformBufferHandle, data []byte, scene renderapi.SceneID) {
	rm.ops = append(rm.ops, BufferOp{Kind: OpUpdate, Handle: h, Size: uint32(len(data)), Data: slices.Clone(data), Scene: scene})
}

func (rm *ResourceManager) UnloadUniformBuffer(h renderapi.SemanticUniformBufferHandle, scene renderapi.SceneID) {
	delete(rm.buffers, h)
	rm.ops = append(rm.ops, BufferOp{Kind: OpUnload, Handle: h, Scene: scene})
}

// Ops returns the recorded semantic buffer operations.
func (rm *ResourceManager) Ops() []BufferOp { return rm.ops }

// OpsOf returns the recorded operations of one kind.
func (rm *ResourceManager) OpsOf(kind OpKind) []BufferOp {
	var out []BufferOp
	for _, op := range rm.ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// ResetOps drops the recorded operations.
func (rm *ResourceManager) ResetOps() { rm.ops = nil }

// Resident reports whether h is currently uploaded.
func (rm *ResourceManager) Resident(h renderapi.SemanticUniformBufferHandle) bool {
	_, ok := rm.buffers[h]
	return ok
}
