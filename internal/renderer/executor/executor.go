// Package executor turns a scene's passes into device commands.
//
// Execute walks the sorted passes, flattens each render pass into renderables
// and issues only the pipeline state that changed since the previous draw. It
// checks the offscreen render budget every few renderables and returns a
// non-zero Iterator when the budget ran out; passing that iterator back in
// continues the frame with exactly the commands an uninterrupted run would
// have issued.
package executor

import (
	"time"

	"scenerender/internal/logging"
	"scenerender/internal/profiling"
	"scenerender/internal/renderapi"
	"scenerender/internal/renderer/frametimer"
	"scenerender/internal/renderer/statetracker"
	"scenerender/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultNumRenderablesToRenderInBetweenTimeBudgetChecks is the default batch size.
const DefaultNumRenderablesToRenderInBetweenTimeBudgetChecks = 10

// Scene is the scene surface consumed by the executor. Apart from the shader
// animation flag it is only read.
type Scene interface {
	MatrixSource

	ID() renderapi.SceneID
	SortedPasses() []scene.PassInfo
	RenderPass(p renderapi.RenderPassHandle) scene.RenderPass
	BlitPass(b renderapi.BlitPassHandle) scene.BlitPass
	OrderedRenderables(p renderapi.RenderPassHandle) []renderapi.RenderableHandle
	RenderState(h renderapi.RenderStateHandle) renderapi.RenderState
	HasDataInstance(i renderapi.DataInstanceHandle) bool
	DataInstance(i renderapi.DataInstanceHandle) scene.DataInstance
	DataLayout(l renderapi.DataLayoutHandle) scene.DataLayout
	ResolveField(i renderapi.DataInstanceHandle, f renderapi.DataFieldHandle) scene.FieldValue
	HasTextureSampler(h renderapi.TextureSamplerHandle) bool
	TextureSampler(h renderapi.TextureSamplerHandle) scene.TextureSampler
	RenderBuffer(b renderapi.RenderBufferHandle) scene.RenderBuffer
	DepthBuffer(t renderapi.RenderTargetHandle) (renderapi.RenderBufferHandle, bool)
	SemanticUniformBufferDeviceHandle(h renderapi.SemanticUniformBufferHandle) renderapi.DeviceHandle
	EffectTimeSync() time.Time
	SetActiveShaderAnimation(active bool)
}

// Executor issues the commands of a frame to a device.
type Executor struct {
	device    renderapi.Device
	resources renderapi.ResourceManager
	timer     *frametimer.Timer
	batchSize uint32
	stats     *profiling.Collector

	state     *InternalState
	bindings  []binding
	frameTime time.Time
}

// Option configures an Executor.
type Option func(*Executor)

// WithBatchSize sets how many renderables are processed between budget checks.
func WithBatchSize(n uint32) Option {
	return func(e *Executor) {
		if n > 0 {
			e.batchSize = n
		}
	}
}

// WithStats makes the executor count its commands into stats.
func WithStats(stats *profiling.Collector) Option {
	return func(e *Executor) { e.stats = stats }
}

// New returns an executor for device whose resources are resolved through rm.
func New(device renderapi.Device, rm renderapi.ResourceManager, timer *frametimer.Timer, opts ...Option) *Executor {
	e := &Executor{
		device:    device,
		resources: rm,
		timer:     timer,
		batchSize: DefaultNumRenderablesToRenderInBetweenTimeBudgetChecks,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ResetDeviceState forgets the tracked device state, so the next call
// re-issues every state. Call it when something else used the device between
// an interrupted call and its resumption.
func (e *Executor) ResetDeviceState() {
	e.state = nil
}

// Execute renders s from ctx.RenderFrom on. It returns the zero iterator when
// the frame is complete, or the position to resume from.
func (e *Executor) Execute(s Scene, ctx *RenderingContext) Iterator {
	defer e.stats.Track("executor.Execute")()

	if ctx.RenderFrom.Done() {
		s.SetActiveShaderAnimation(false)
		e.frameTime = ctx.FrameTime
		if e.frameTime.IsZero() {
			e.frameTime = time.Now()
		}
	}
	if ctx.RenderFrom.Done() || e.state == nil {
		e.state = NewInternalState(s, e.timer)
	}
	st := e.state
	st.setSource(s)
	st.Iterator = ctx.RenderFrom

	passes := s.SortedPasses()
	lastFramebufferPass := lastFramebufferPassIdx(s, passes)
	for int(st.Iterator.RenderPassIdx()) < len(passes) {
		idx := int(st.Iterator.RenderPassIdx())
		info := passes[idx]
		switch info.Kind {
		case scene.BlitPassKind:
			e.executeBlitPass(s, info.BlitPass)
		case scene.RenderPassKind:
			if e.executeRenderPass(s, ctx, passes, idx, idx == lastFramebufferPass) {
				e.stats.Inc(profiling.Interruptions)
				logging.Logger().Debug("render budget exceeded",
					"scene", uint64(s.ID()),
					"pass", st.Iterator.RenderPassIdx(),
					"renderable", st.Iterator.RenderableIdx())
				return st.Iterator
			}
		}
		st.Iterator.IncrementRenderPassIdx()
	}
	return Iterator{}
}

// executeRenderPass reports whether it stopped because the budget ran out.
func (e *Executor) executeRenderPass(s Scene, ctx *RenderingContext, passes []scene.PassInfo, idx int, lastFramebufferPass bool) bool {
	st := e.state
	h := passes[idx].RenderPass
	pass := s.RenderPass(h)
	if !pass.Enabled || pass.Camera == renderapi.InvalidCamera {
		return false
	}
	offscreen := pass.RenderTarget != renderapi.InvalidRenderTarget
	target := ctx.DisplayBufferDeviceHandle
	if offscreen {
		target = e.resources.RenderTargetDeviceHandle(pass.RenderTarget, s.ID())
		if !target.IsValid() {
			return false
		}
	}

	st.SetCamera(pass.Camera)
	st.RenderTarget.SetState(target)
	if st.RenderTarget.HasChanged() {
		e.device.ActivateRenderTarget(target)
	}
	st.Viewport.SetState(s.Camera(pass.Camera).Viewport)
	if st.Viewport.HasChanged() {
		vp := st.Viewport.State()
		e.device.SetViewport(vp.X, vp.Y, vp.Width, vp.Height)
		e.stats.Inc(profiling.StateChanges)
	}
	st.RenderPass.SetState(h)
	if st.RenderPass.HasChanged() && st.Iterator.RenderableIdx() == 0 {
		switch {
		case offscreen:
			e.clear(pass.ClearFlags, pass.ClearColor)
		case ctx.DisplayBufferClearPending != renderapi.ClearNone:
			e.clear(ctx.DisplayBufferClearPending, ctx.DisplayBufferClearColor)
			ctx.DisplayBufferClearPending = renderapi.ClearNone
		}
	}

	renderables := s.OrderedRenderables(h)
	for int(st.Iterator.RenderableIdx()) < len(renderables) {
		e.executeRenderable(s, ctx, renderables[st.Iterator.RenderableIdx()], pass.Camera)
		st.Iterator.IncrementRenderableIdx()
		if st.Iterator.FlattenedRenderableIdx()%e.batchSize == 0 && st.HasExceededTimeBudgetForRendering() {
			return true
		}
	}

	if !ctx.DepthStencilDiscard {
		return false
	}
	if (offscreen && e.canDiscardDepthStencil(s, passes, idx, pass.RenderTarget)) || (!offscreen && lastFramebufferPass) {
		e.device.DiscardDepthStencil()
		e.stats.Inc(profiling.DepthStencilDiscards)
	}
	return false
}

// canDiscardDepthStencil walks the passes following idx, wrapping into the
// next frame, up to the next use of target's depth buffer.
func (e *Executor) canDiscardDepthStencil(s Scene, passes []scene.PassInfo, idx int, target renderapi.RenderTargetHandle) bool {
	depth, ok := s.DepthBuffer(target)
	if !ok {
		return false
	}
	for step := 1; step <= len(passes); step++ {
		info := passes[(idx+step)%len(passes)]
		switch info.Kind {
		case scene.BlitPassKind:
			if bp := s.BlitPass(info.BlitPass); bp.Enabled && bp.Source == depth {
				return false
			}
		case scene.RenderPassKind:
			rp := s.RenderPass(info.RenderPass)
			if !rp.Enabled || rp.RenderTarget != target {
				continue
			}
			return rp.ClearFlags.Has(renderapi.ClearDepth | renderapi.ClearStencil)
		}
	}
	return false
}

func lastFramebufferPassIdx(s Scene, passes []scene.PassInfo) int {
	last := -1
	for i, info := range passes {
		if info.Kind != scene.RenderPassKind {
			continue
		}
		rp := s.RenderPass(info.RenderPass)
		if rp.Enabled && rp.Camera != renderapi.InvalidCamera && rp.RenderTarget == renderapi.InvalidRenderTarget {
			last = i
		}
	}
	return last
}

func (e *Executor) clear(flags renderapi.ClearFlags, color mgl32.Vec4) {
	if flags == renderapi.ClearNone {
		return
	}
	st := e.state
	if flags.Has(renderapi.ClearColor) {
		e.device.SetColorMask(renderapi.ColorWriteAll)
		e.device.ClearColor(color)
	}
	if flags.Has(renderapi.ClearDepth) {
		e.device.SetDepthWrite(renderapi.DepthWriteEnabled)
	}
	e.device.SetScissorTest(renderapi.ScissorTestDisabled, renderapi.ScissorRegion{})
	e.device.Clear(flags)
	e.stats.Inc(profiling.Clears)

	st.Scissor.Reset()
	st.DepthWrite.Reset()
	st.ColorMask.Reset()
}

func (e *Executor) executeBlitPass(s Scene, h renderapi.BlitPassHandle) {
	bp := s.BlitPass(h)
	if !bp.Enabled {
		return
	}
	src, dst := e.resources.BlitPassRenderTargets(h, s.ID())
	if !src.IsValid() || !dst.IsValid() {
		return
	}
	colorOnly := s.RenderBuffer(bp.Source).Type == scene.ColorBuffer
	e.device.BlitRenderTargets(src, dst, bp.SourceRegion, bp.DestinationRegion, colorOnly)
	e.stats.Inc(profiling.Blits)
	e.state.SetRenderTargetInvalid()
}

func (e *Executor) executeRenderable(s Scene, ctx *RenderingContext, r renderapi.RenderableHandle, camera renderapi.CameraHandle) {
	rend := s.Renderable(r)
	shader, vertexArray, indexed, ok := e.resolveRenderable(s, ctx, r, rend, camera)
	if !ok {
		e.stats.Inc(profiling.SkippedRenderables)
		logging.Logger().Debug("renderable skipped", "scene", uint64(s.ID()), "renderable", uint32(r))
		return
	}

	rs := renderapi.DefaultRenderState()
	if rend.RenderState != renderapi.InvalidRenderState {
		rs = s.RenderState(rend.RenderState)
	}
	e.applyRenderState(rs, shader, vertexArray)
	e.bindUniforms(ctx)

	if indexed {
		e.device.DrawIndexedTriangles(rend.StartIndex, rend.IndexCount, rend.InstanceCount)
	} else {
		e.device.DrawTriangles(rend.StartVertex, rend.IndexCount, rend.InstanceCount)
	}
	e.stats.Inc(profiling.DrawCalls)
}

// resolveRenderable looks up every device resource a renderable needs. It
// touches no device state, so a renderable it rejects leaves no trace.
func (e *Executor) resolveRenderable(s Scene, ctx *RenderingContext, r renderapi.RenderableHandle, rend scene.Renderable, camera renderapi.CameraHandle) (shader, vertexArray renderapi.DeviceHandle, indexed, ok bool) {
	if rend.Visibility != scene.Visible || !s.HasDataInstance(rend.Geometry) || !s.HasDataInstance(rend.Uniforms) {
		return
	}
	geometry := s.DataInstance(rend.Geometry)
	geometryLayout := s.DataLayout(geometry.Layout)
	if shader = e.resources.ResourceDeviceHandle(geometryLayout.Effect); !shader.IsValid() {
		return
	}
	if vertexArray = e.resources.VertexArrayDeviceHandle(r, s.ID()); !vertexArray.IsValid() {
		return
	}
	for i, f := range geometryLayout.Fields {
		if f.Type == scene.DataTypeIndices && s.ResolveField(rend.Geometry, renderapi.DataFieldHandle(i)).Resource.IsValid() {
			indexed = true
			break
		}
	}
	e.state.SetRenderable(r)
	if !e.resolveUniforms(s, r, rend.Uniforms, camera) {
		return
	}
	return shader, vertexArray, indexed, true
}

func apply[T comparable](e *Executor, tr *statetracker.Tracker[T], v T, issue func(T)) {
	tr.SetState(v)
	if tr.HasChanged() {
		issue(v)
		e.stats.Inc(profiling.StateChanges)
	}
}

func (e *Executor) applyRenderState(rs renderapi.RenderState, shader, vertexArray renderapi.DeviceHandle) {
	st, d := e.state, e.device
	apply(e, &st.Scissor, rs.Scissor, func(v renderapi.Scissor) { d.SetScissorTest(v.Test, v.Region) })
	apply(e, &st.DepthFunc, rs.DepthFunc, d.SetDepthFunc)
	apply(e, &st.DepthWrite, rs.DepthWrite, d.SetDepthWrite)
	apply(e, &st.StencilFunc, rs.StencilFunc, func(v renderapi.StencilFuncState) { d.SetStencilFunc(v.Func, v.Ref, v.RefMask) })
	apply(e, &st.StencilOps, rs.StencilOps, func(v renderapi.StencilOps) { d.SetStencilOp(v.Fail, v.DepthFail, v.DepthPass) })
	apply(e, &st.BlendOperations, rs.BlendOperations, func(v renderapi.BlendOperations) { d.SetBlendOperations(v.Color, v.Alpha) })
	apply(e, &st.BlendFactors, rs.BlendFactors, func(v renderapi.BlendFactors) {
		d.SetBlendFactors(v.SrcColor, v.DstColor, v.SrcAlpha, v.DstAlpha)
	})
	apply(e, &st.BlendColor, rs.BlendColor, d.SetBlendColor)
	apply(e, &st.ColorMask, rs.ColorWriteMask, d.SetColorMask)
	apply(e, &st.CullMode, rs.CullMode, d.SetCullMode)
	apply(e, &st.DrawMode, rs.DrawMode, d.SetDrawMode)
	apply(e, &st.Shader, shader, d.ActivateShader)
	apply(e, &st.VertexArray, vertexArray, d.ActivateVertexArray)
}
