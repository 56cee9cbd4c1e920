package executor_test

import (
	"testing"
	"time"

	"scenerender/internal/profiling"
	"scenerender/internal/renderapi"
	"scenerender/internal/renderer/cachedscene"
	"scenerender/internal/renderer/executor"
	"scenerender/internal/renderer/frametimer"
	"scenerender/internal/renderer/recorder"
	"scenerender/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	displayBuffer renderapi.DeviceHandle = 1
	shaderHandle  renderapi.DeviceHandle = 50
	vertexArray   renderapi.DeviceHandle = 100
)

var (
	effectHash  = renderapi.ResourceContentHash{Low: 0xeff}
	indicesHash = renderapi.ResourceContentHash{Low: 0x1d}
	color       = []mgl32.Vec4{{1, 0, 0, 1}}
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

type fixture struct {
	t      *testing.T
	scene  *scene.Scene
	cached *cachedscene.Scene
	dev    *recorder.Device
	rm     *recorder.ResourceManager
	timer  *frametimer.Timer
	stats  *profiling.Collector

	cam            renderapi.CameraHandle
	geometryLayout renderapi.DataLayoutHandle
	arraysLayout   renderapi.DataLayoutHandle
	uniformLayout  renderapi.DataLayoutHandle
	state          renderapi.RenderStateHandle
}

func newFixture(t *testing.T) *fixture {
	s := scene.New(5)
	clock := &fakeClock{now: time.Unix(100, 0)}
	f := &fixture{
		t:      t,
		scene:  s,
		cached: cachedscene.New(s),
		dev:    recorder.NewDevice(),
		rm:     recorder.NewResourceManager(),
		timer:  frametimer.New(frametimer.WithClock(clock.Now)),
		stats:  profiling.NewCollector(),
	}
	f.cam = s.AllocateCamera(scene.Perspective, s.AllocateNode())
	f.geometryLayout = s.AllocateDataLayout([]scene.DataField{
		{Type: scene.DataTypeIndices, ElementCount: 1},
		{Type: scene.DataTypeVertexAttribute, ElementCount: 1},
	}, effectHash)
	f.arraysLayout = s.AllocateDataLayout([]scene.DataField{
		{Type: scene.DataTypeVertexAttribute, ElementCount: 1},
	}, effectHash)
	f.uniformLayout = s.AllocateDataLayout([]scene.DataField{
		{Type: scene.DataTypeVector4F, ElementCount: 1},
	}, effectHash)
	f.state = s.AllocateRenderState(renderapi.DefaultRenderState())
	f.rm.Resources[effectHash] = shaderHandle
	return f
}

func (f *fixture) newExecutor(opts ...executor.Option) *executor.Executor {
	return executor.New(f.dev, f.rm, f.timer, append([]executor.Option{executor.WithStats(f.stats)}, opts...)...)
}

func (f *fixture) context() *executor.RenderingContext {
	return &executor.RenderingContext{
		DisplayBufferDeviceHandle: displayBuffer,
		ViewportWidth:             640,
		ViewportHeight:            480,
	}
}

func (f *fixture) addPass(target renderapi.RenderTargetHandle, order int32) (renderapi.RenderPassHandle, renderapi.RenderGroupHandle) {
	pass := f.scene.AllocateRenderPass(f.cam)
	if target != renderapi.InvalidRenderTarget {
		f.scene.SetRenderPassRenderTarget(pass, target)
	}
	f.scene.SetRenderPassRenderOrder(pass, order)
	group := f.scene.AllocateRenderGroup()
	f.scene.AddGroupToPass(pass, group, 0)
	return pass, group
}

// addRenderable adds a drawable renderable with the default render state, an
// index buffer and a uniform instance of layout.
func (f *fixture) addRenderable(group renderapi.RenderGroupHandle, layout renderapi.DataLayoutHandle) renderapi.RenderableHandle {
	s := f.scene
	r := s.AllocateRenderable(s.AllocateNode())
	geometry := s.AllocateDataInstance(f.geometryLayout)
	s.SetDataResource(geometry, 0, indicesHash)
	s.SetRenderableDataInstance(r, scene.GeometrySlot, geometry)
	uniforms := s.AllocateDataInstance(layout)
	if layout == f.uniformLayout {
		s.SetDataConstant(uniforms, 0, color)
	}
	s.SetRenderableDataInstance(r, scene.UniformsSlot, uniforms)
	s.SetRenderableRenderState(r, f.state)
	s.SetRenderableIndexRange(r, 0, 6)
	f.rm.VertexArrays[r] = vertexArray
	s.AddRenderableToGroup(group, r, 0)
	return r
}

func (f *fixture) withState(r renderapi.RenderableHandle, edit func(*renderapi.RenderState)) {
	rs := renderapi.DefaultRenderState()
	edit(&rs)
	f.scene.SetRenderableRenderState(r, f.scene.AllocateRenderState(rs))
}

func (f *fixture) addRenderTarget(withDepth bool) (renderapi.RenderTargetHandle, renderapi.RenderBufferHandle, renderapi.RenderBufferHandle) {
	colorBuffer := f.scene.AllocateRenderBuffer(16, 16, scene.ColorBuffer)
	depthBuffer := renderapi.InvalidRenderBuffer
	buffers := []renderapi.RenderBufferHandle{colorBuffer}
	if withDepth {
		depthBuffer = f.scene.AllocateRenderBuffer(16, 16, scene.DepthStencilBuffer)
		buffers = append(buffers, depthBuffer)
	}
	rt := f.scene.AllocateRenderTarget(buffers...)
	f.rm.RenderTargets[rt] = targetHandle(rt)
	return rt, colorBuffer, depthBuffer
}

func targetHandle(rt renderapi.RenderTargetHandle) renderapi.DeviceHandle {
	return renderapi.DeviceHandle(200 + rt)
}

// render runs a whole frame, resuming until the executor reports completion.
func (f *fixture) render(e *executor.Executor, ctx *executor.RenderingContext) int {
	f.t.Helper()
	f.cached.UpdateFrame(f.rm)
	calls := 0
	for {
		it := e.Execute(f.cached, ctx)
		calls++
		if it.Done() {
			return calls
		}
		if calls > 1000 {
			f.t.Fatal("frame does not complete")
		}
		ctx.RenderFrom = it
	}
}

func passSetupCalls(target renderapi.DeviceHandle) []recorder.Call {
	return []recorder.Call{
		recorder.NewCall("ActivateRenderTarget", target),
		recorder.NewCall("SetViewport", int32(0), int32(0), uint32(16), uint32(16)),
	}
}

func defaultStateCalls() []recorder.Call {
	rs := renderapi.DefaultRenderState()
	return []recorder.Call{
		recorder.NewCall("SetScissorTest", rs.Scissor.Test, rs.Scissor.Region),
		recorder.NewCall("SetDepthFunc", rs.DepthFunc),
		recorder.NewCall("SetDepthWrite", rs.DepthWrite),
		recorder.NewCall("SetStencilFunc", rs.StencilFunc.Func, rs.StencilFunc.Ref, rs.StencilFunc.RefMask),
		recorder.NewCall("SetStencilOp", rs.StencilOps.Fail, rs.StencilOps.DepthFail, rs.StencilOps.DepthPass),
		recorder.NewCall("SetBlendOperations", rs.BlendOperations.Color, rs.BlendOperations.Alpha),
		recorder.NewCall("SetBlendFactors", rs.BlendFactors.SrcColor, rs.BlendFactors.DstColor, rs.BlendFactors.SrcAlpha, rs.BlendFactors.DstAlpha),
		recorder.NewCall("SetBlendColor", rs.BlendColor),
		recorder.NewCall("SetColorMask", rs.ColorWriteMask),
		recorder.NewCall("SetCullMode", rs.CullMode),
		recorder.NewCall("SetDrawMode", rs.DrawMode),
		recorder.NewCall("ActivateShader", shaderHandle),
		recorder.NewCall("ActivateVertexArray", vertexArray),
	}
}

func drawCalls() []recorder.Call {
	return []recorder.Call{
		recorder.NewCall("SetConstant", renderapi.DataFieldHandle(0), color),
		recorder.NewCall("DrawIndexedTriangles", uint32(0), uint32(6), uint32(1)),
	}
}

func concat(parts ...[]recorder.Call) []recorder.Call {
	var out []recorder.Call
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
