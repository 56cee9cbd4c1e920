package executor

import (
	"scenerender/internal/renderapi"
	"scenerender/internal/renderer/frametimer"
	"scenerender/internal/renderer/statetracker"
	"scenerender/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

// MatrixSource is the part of a scene the internal state derives matrices from.
type MatrixSource interface {
	Camera(c renderapi.CameraHandle) scene.Camera
	Renderable(r renderapi.RenderableHandle) scene.Renderable
	WorldMatrix(n renderapi.NodeHandle) mgl32.Mat4
}

// InternalState is the mutable context of one frame's execution: the pipeline
// state trackers, the iterator and the matrices of the current camera and
// renderable.
type InternalState struct {
	Scissor         statetracker.Tracker[renderapi.Scissor]
	DepthFunc       statetracker.Tracker[renderapi.DepthFunc]
	DepthWrite      statetracker.Tracker[renderapi.DepthWrite]
	StencilFunc     statetracker.Tracker[renderapi.StencilFuncState]
	StencilOps      statetracker.Tracker[renderapi.StencilOps]
	BlendOperations statetracker.Tracker[renderapi.BlendOperations]
	BlendFactors    statetracker.Tracker[renderapi.BlendFactors]
	BlendColor      statetracker.Tracker[mgl32.Vec4]
	ColorMask       statetracker.Tracker[renderapi.ColorWriteMask]
	CullMode        statetracker.Tracker[renderapi.CullMode]
	DrawMode        statetracker.Tracker[renderapi.DrawMode]
	Shader          statetracker.Tracker[renderapi.DeviceHandle]
	VertexArray     statetracker.Tracker[renderapi.DeviceHandle]
	RenderTarget    statetracker.Tracker[renderapi.DeviceHandle]
	RenderPass      statetracker.Tracker[renderapi.RenderPassHandle]
	Viewport        statetracker.Tracker[renderapi.Viewport]

	Iterator Iterator

	source MatrixSource
	timer  *frametimer.Timer

	projection mgl32.Mat4
	view       mgl32.Mat4
	cameraPos  mgl32.Vec3
	model      mgl32.Mat4

	mv, mvp, normal            mgl32.Mat4
	mvValid, mvpValid, nmValid bool
}

// NewInternalState returns a state with identity matrices and unprimed trackers.
func NewInternalState(source MatrixSource, timer *frametimer.Timer) *InternalState {
	return &InternalState{
		source:     source,
		timer:      timer,
		projection: mgl32.Ident4(),
		view:       mgl32.Ident4(),
		model:      mgl32.Ident4(),
	}
}

func (s *InternalState) setSource(source MatrixSource) { s.source = source }

// SetCamera loads the projection and view of c.
func (s *InternalState) SetCamera(c renderapi.CameraHandle) {
	cam := s.source.Camera(c)
	world := s.source.WorldMatrix(cam.Node)
	s.projection = cam.ProjectionMatrix()
	s.view = world.Inv()
	s.cameraPos = world.Col(3).Vec3()
	s.invalidateDerived()
}

// SetRenderable loads the model matrix of r.
func (s *InternalState) SetRenderable(r renderapi.RenderableHandle) {
	s.model = s.source.WorldMatrix(s.source.Renderable(r).Node)
	s.invalidateDerived()
}

func (s *InternalState) invalidateDerived() {
	s.mvValid, s.mvpValid, s.nmValid = false, false, false
}

func (s *InternalState) ModelMatrix() mgl32.Mat4      { return s.model }
func (s *InternalState) ViewMatrix() mgl32.Mat4       { return s.view }
func (s *InternalState) ProjectionMatrix() mgl32.Mat4 { return s.projection }

// CameraWorldPosition is the world translation of the current camera node.
func (s *InternalState) CameraWorldPosition() mgl32.Vec3 { return s.cameraPos }

// ModelViewMatrix returns V·M, cached until the camera or renderable changes.
func (s *InternalState) ModelViewMatrix() mgl32.Mat4 {
	if !s.mvValid {
		s.mv = s.view.Mul4(s.model)
		s.mvValid = true
	}
	return s.mv
}

// ModelViewProjectionMatrix returns P·V·M.
func (s *InternalState) ModelViewProjectionMatrix() mgl32.Mat4 {
	if !s.mvpValid {
		s.mvp = s.projection.Mul4(s.ModelViewMatrix())
		s.mvpValid = true
	}
	return s.mvp
}

// NormalMatrix returns the transposed inverse of the model-view matrix.
func (s *InternalState) NormalMatrix() mgl32.Mat4 {
	if !s.nmValid {
		s.normal = s.ModelViewMatrix().Inv().Transpose()
		s.nmValid = true
	}
	return s.normal
}

// SetRenderTargetInvalid makes the next render pass activate its target again.
func (s *InternalState) SetRenderTargetInvalid() {
	s.RenderTarget.SetState(renderapi.InvalidDeviceHandle)
}

// HasExceededTimeBudgetForRendering checks the offscreen render budget.
func (s *InternalState) HasExceededTimeBudgetForRendering() bool {
	return s.timer.IsTimeBudgetExceededForSection(frametimer.OffscreenBufferRender)
}
