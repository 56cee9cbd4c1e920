package semanticubo

import (
	"encoding/binary"
	"math"

	"scenerender/internal/renderapi"
	"scenerender/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

// Block sizes in bytes.
const (
	ModelBlockSize       = 64
	CameraBlockSize      = 140
	ModelCameraBlockSize = 192
)

// NewModelCache returns the cache of per-renderable model matrix blocks.
func NewModelCache(opts ...Option) *Cache { return newCache(modelKind{}, opts) }

// NewCameraCache returns the cache of per-camera projection, view and position blocks.
func NewCameraCache(opts ...Option) *Cache { return newCache(cameraKind{}, opts) }

// NewModelCameraCache returns the cache of per-(renderable, camera) MVP, MV and normal matrix blocks.
func NewModelCameraCache(opts ...Option) *Cache { return newCache(modelCameraKind{}, opts) }

// eachRenderedPass calls fn for every enabled render pass that renders something.
func eachRenderedPass(s Scene, fn func(pass scene.RenderPass, renderables []renderapi.RenderableHandle)) {
	for _, info := range s.SortedPasses() {
		if info.Kind != scene.RenderPassKind {
			continue
		}
		pass := s.RenderPass(info.RenderPass)
		if !pass.Enabled || pass.Camera == renderapi.InvalidCamera {
			continue
		}
		renderables := s.OrderedRenderables(info.RenderPass)
		if len(renderables) == 0 {
			continue
		}
		fn(pass, renderables)
	}
}

func usesSemantic(s Scene, r renderapi.RenderableHandle, sem scene.Semantic) bool {
	inst := s.Renderable(r).Uniforms
	if !s.HasDataInstance(inst) {
		return false
	}
	return s.DataLayout(s.DataInstance(inst).Layout).HasSemantic(sem)
}

func viewMatrix(s Scene, cam scene.Camera) mgl32.Mat4 {
	return s.WorldMatrix(cam.Node).Inv()
}

// NormalMatrix returns the transposed inverse of a model-view matrix.
func NormalMatrix(mv mgl32.Mat4) mgl32.Mat4 {
	return mv.Inv().Transpose()
}

type modelKind struct{}

func (modelKind) semantic() renderapi.SemanticUniformBufferKind { return renderapi.SemanticModel }
func (modelKind) size() uint32                                  { return ModelBlockSize }

func (modelKind) collect(s Scene, mark func(renderapi.SemanticUniformBufferHandle)) {
	eachRenderedPass(s, func(_ scene.RenderPass, renderables []renderapi.RenderableHandle) {
		for _, r := range renderables {
			if usesSemantic(s, r, scene.SemanticModelBlock) {
				mark(renderapi.ModelBufferHandle(r))
			}
		}
	})
}

func (modelKind) stamps(s Scene, h renderapi.SemanticUniformBufferHandle) stamps {
	return stamps{s.ChangeStamp(s.Renderable(h.Renderable).Node)}
}

func (modelKind) pack(s Scene, h renderapi.SemanticUniformBufferHandle, buf []byte) []byte {
	return appendMat4(buf, s.WorldMatrix(s.Renderable(h.Renderable).Node))
}

type cameraKind struct{}

func (cameraKind) semantic() renderapi.SemanticUniformBufferKind { return renderapi.SemanticCamera }
func (cameraKind) size() uint32                                  { return CameraBlockSize }

func (cameraKind) collect(s Scene, mark func(renderapi.SemanticUniformBufferHandle)) {
	eachRenderedPass(s, func(pass scene.RenderPass, _ []renderapi.RenderableHandle) {
		mark(renderapi.CameraBufferHandle(pass.Camera))
	})
}

func (cameraKind) stamps(s Scene, h renderapi.SemanticUniformBufferHandle) stamps {
	return stamps{s.ChangeStamp(s.Camera(h.Camera).Node), s.ProjectionStamp(h.Camera)}
}

func (cameraKind) pack(s Scene, h renderapi.SemanticUniformBufferHandle, buf []byte) []byte {
	cam := s.Camera(h.Camera)
	buf = appendMat4(buf, cam.ProjectionMatrix())
	buf = appendMat4(buf, viewMatrix(s, cam))
	pos := s.WorldMatrix(cam.Node).Col(3)
	return appendFloats(buf, pos.X(), pos.Y(), pos.Z())
}

type modelCameraKind struct{}

func (modelCameraKind) semantic() renderapi.SemanticUniformBufferKind {
	return renderapi.SemanticModelCamera
}
func (modelCameraKind) size() uint32 { return ModelCameraBlockSize }

func (modelCameraKind) collect(s Scene, mark func(renderapi.SemanticUniformBufferHandle)) {
	eachRenderedPass(s, func(pass scene.RenderPass, renderables []renderapi.RenderableHandle) {
		for _, r := range renderables {
			if usesSemantic(s, r, scene.SemanticModelCameraBlock) {
				mark(renderapi.ModelCameraBufferHandle(r, pass.Camera))
			}
		}
	})
}

func (modelCameraKind) stamps(s Scene, h renderapi.SemanticUniformBufferHandle) stamps {
	return stamps{
		s.ChangeStamp(s.Renderable(h.Renderable).Node),
		s.ChangeStamp(s.Camera(h.Camera).Node),
		s.ProjectionStamp(h.Camera),
	}
}

func (modelCameraKind) pack(s Scene, h renderapi.SemanticUniformBufferHandle, buf []byte) []byte {
	cam := s.Camera(h.Camera)
	model := s.WorldMatrix(s.Renderable(h.Renderable).Node)
	mv := viewMatrix(s, cam).Mul4(model)
	buf = appendMat4(buf, cam.ProjectionMatrix().Mul4(mv))
	buf = appendMat4(buf, mv)
	return appendMat4(buf, NormalMatrix(mv))
}

func appendMat4(buf []byte, m mgl32.Mat4) []byte {
	return appendFloats(buf, m[:]...)
}

func appendFloats(buf []byte, fs ...float32) []byte {
	for _, f := range fs {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
	}
	return buf
}
