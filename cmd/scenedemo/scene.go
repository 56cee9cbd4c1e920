package main

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"scenerender/internal/config"
	"scenerender/internal/gldevice"
	"scenerender/internal/profiling"
	"scenerender/internal/renderapi"
	"scenerender/internal/renderer/cachedscene"
	"scenerender/internal/renderer/executor"
	"scenerender/internal/renderer/frametimer"
	"scenerender/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/draw"
)

const (
	sceneID      renderapi.SceneID = 1
	offscreenRes                   = 256
	checkerTiles                   = 8
)

var (
	quadEffectHash   = renderapi.ResourceContentHash{Low: 0x01}
	screenEffectHash = renderapi.ResourceContentHash{Low: 0x02}
	quadIndicesHash  = renderapi.ResourceContentHash{Low: 0x10}
	quadVerticesHash = renderapi.ResourceContentHash{Low: 0x11}
	checkerHash      = renderapi.ResourceContentHash{Low: 0x20}
	offscreenHash    = renderapi.ResourceContentHash{Low: 0x21}
	copyHash         = renderapi.ResourceContentHash{Low: 0x22}
)

// Interleaved xyz + uv, two triangles.
var (
	quadVertices = []float32{
		-0.5, -0.5, 0, 0, 0,
		0.5, -0.5, 0, 1, 0,
		0.5, 0.5, 0, 1, 1,
		-0.5, 0.5, 0, 0, 1,
	}
	quadIndices = []uint32{0, 1, 2, 2, 3, 0}
)

type demo struct {
	settings *config.RendererSettings
	scene    *scene.Scene
	cached   *cachedscene.Scene
	res      *gldevice.Resources
	exec     *executor.Executor
	timer    *frametimer.Timer
	stats    *profiling.Collector
	ctx      executor.RenderingContext

	spinner   renderapi.NodeHandle
	screenCam renderapi.CameraHandle
	angle     float32
}

func newDemo(settings *config.RendererSettings) (*demo, error) {
	d := &demo{
		settings: settings,
		scene:    scene.New(sceneID),
		res:      gldevice.NewResources(),
		timer:    frametimer.New(),
		stats:    profiling.NewCollector(),
	}
	d.cached = cachedscene.New(d.scene,
		cachedscene.WithDecayCount(int(settings.DecayCount())),
		cachedscene.WithStats(d.stats))
	d.exec = executor.New(gldevice.New(d.res), d.res, d.timer,
		executor.WithBatchSize(settings.BatchSize()),
		executor.WithStats(d.stats))
	d.ctx = executor.RenderingContext{
		DisplayBufferDeviceHandle: gldevice.DisplayFramebuffer,
		DisplayBufferClearColor:   settings.ClearColor(),
		DepthStencilDiscard:       settings.DepthStencilDiscard(),
	}

	if err := d.uploadEffects(); err != nil {
		d.res.Dispose()
		return nil, err
	}
	d.res.UploadTexture(checkerHash, checkerTexture(offscreenRes))
	if err := d.build(); err != nil {
		d.res.Dispose()
		return nil, err
	}
	return d, nil
}

func (d *demo) uploadEffects() error {
	if err := d.res.UploadEffect(quadEffectHash, gldevice.Effect{
		VertexSource:   quadVertexShader,
		FragmentSource: quadFragmentShader,
		Uniforms: []gldevice.UniformInput{
			{Name: "ModelCamera", Type: scene.DataTypeUniformBuffer},
			{Name: "checker", Type: scene.DataTypeTextureSampler2D},
			{Name: "tint", Type: scene.DataTypeVector4F},
		},
	}); err != nil {
		return err
	}
	return d.res.UploadEffect(screenEffectHash, gldevice.Effect{
		VertexSource:   screenVertexShader,
		FragmentSource: screenFragmentShader,
		Uniforms: []gldevice.UniformInput{
			{Name: "mvp", Type: scene.DataTypeMatrix44F},
			{Name: "image", Type: scene.DataTypeTextureSampler2D},
			{Name: "resolution", Type: scene.DataTypeVector2F},
		},
	})
}

// build lays out three passes: the spinning quad into an offscreen target,
// a blit of its color buffer into a second target, and a screen quad that
// samples the copy.
func (d *demo) build() error {
	s := d.scene
	s.SetEffectTimeSync(time.Now())

	offscreenColor := s.AllocateRenderBuffer(offscreenRes, offscreenRes, scene.ColorBuffer)
	offscreenDepth := s.AllocateRenderBuffer(offscreenRes, offscreenRes, scene.DepthStencilBuffer)
	offscreen := s.AllocateRenderTarget(offscreenColor, offscreenDepth)
	copyColor := s.AllocateRenderBuffer(offscreenRes, offscreenRes, scene.ColorBuffer)
	copyTarget := s.AllocateRenderTarget(copyColor)
	if err := d.res.CreateRenderTarget(offscreen, sceneID, offscreenHash, offscreenRes, offscreenRes, true); err != nil {
		return err
	}
	if err := d.res.CreateRenderTarget(copyTarget, sceneID, copyHash, offscreenRes, offscreenRes, false); err != nil {
		return err
	}

	// offscreen pass
	camNode := s.AllocateNode()
	s.SetTranslation(camNode, mgl32.Vec3{0, 0, 2})
	cam := s.AllocateCamera(scene.Perspective, camNode)
	s.SetPerspective(cam, 60, 1, 0.1, 10)
	s.SetViewport(cam, renderapi.Viewport{Width: offscreenRes, Height: offscreenRes})
	pass := s.AllocateRenderPass(cam)
	s.SetRenderPassRenderTarget(pass, offscreen)
	s.SetRenderPassClearColor(pass, mgl32.Vec4{0.1, 0.1, 0.15, 1})
	group := s.AllocateRenderGroup()
	s.AddGroupToPass(pass, group, 0)

	d.spinner = s.AllocateNode()
	quadUniforms := s.AllocateDataLayout([]scene.DataField{
		{Type: scene.DataTypeUniformBuffer, ElementCount: 1, Semantic: scene.SemanticModelCameraBlock},
		{Type: scene.DataTypeTextureSampler2D, ElementCount: 1},
		{Type: scene.DataTypeVector4F, ElementCount: 1},
	}, quadEffectHash)
	spinning, err := d.addQuad(group, d.spinner, quadEffectHash, quadUniforms)
	if err != nil {
		return err
	}
	inst := s.Renderable(spinning).Uniforms
	checker := s.AllocateTextureSampler(checkerHash)
	d.res.CreateSampler(checker, sceneID, false)
	s.SetDataTextureSampler(inst, 1, checker)
	s.SetDataConstant(inst, 2, []mgl32.Vec4{{1, 0.9, 0.8, 1}})
	state := renderapi.DefaultRenderState()
	state.CullMode = renderapi.CullModeDisabled
	s.SetRenderableRenderState(spinning, s.AllocateRenderState(state))

	// blit pass
	blit := s.AllocateBlitPass(offscreenColor, copyColor)
	s.SetBlitPassRenderOrder(blit, 1)
	d.res.RegisterBlitPass(blit, sceneID, offscreen, copyTarget)

	// screen pass
	d.screenCam = s.AllocateCamera(scene.Orthographic, s.AllocateNode())
	s.SetFrustum(d.screenCam, scene.Frustum{Left: -1, Right: 1, Bottom: -1, Top: 1, Near: -1, Far: 1})
	screenPass := s.AllocateRenderPass(d.screenCam)
	s.SetRenderPassRenderOrder(screenPass, 2)
	screenGroup := s.AllocateRenderGroup()
	s.AddGroupToPass(screenPass, screenGroup, 0)

	screenNode := s.AllocateNode()
	s.SetScale(screenNode, mgl32.Vec3{1.5, 1.5, 1})
	screenUniforms := s.AllocateDataLayout([]scene.DataField{
		{Type: scene.DataTypeMatrix44F, ElementCount: 1, Semantic: scene.SemanticModelViewProjectionMatrix},
		{Type: scene.DataTypeTextureSampler2D, ElementCount: 1},
		{Type: scene.DataTypeVector2F, ElementCount: 1, Semantic: scene.SemanticDisplayBufferResolution},
		{Type: scene.DataTypeInt32, ElementCount: 1, Semantic: scene.SemanticTimeMs},
	}, screenEffectHash)
	screen, err := d.addQuad(screenGroup, screenNode, screenEffectHash, screenUniforms)
	if err != nil {
		return err
	}
	copySampler := s.AllocateTextureSampler(copyHash)
	d.res.CreateSampler(copySampler, sceneID, true)
	s.SetDataTextureSampler(s.Renderable(screen).Uniforms, 1, copySampler)
	return nil
}

func (d *demo) addQuad(group renderapi.RenderGroupHandle, node renderapi.NodeHandle, effect renderapi.ResourceContentHash, uniforms renderapi.DataLayoutHandle) (renderapi.RenderableHandle, error) {
	s := d.scene
	geometryLayout := s.AllocateDataLayout([]scene.DataField{
		{Type: scene.DataTypeIndices, ElementCount: 1},
		{Type: scene.DataTypeVertexAttribute, ElementCount: 1},
	}, effect)
	geometry := s.AllocateDataInstance(geometryLayout)
	s.SetDataResource(geometry, 0, quadIndicesHash)
	s.SetDataResource(geometry, 1, quadVerticesHash)

	r := s.AllocateRenderable(node)
	s.SetRenderableDataInstance(r, scene.GeometrySlot, geometry)
	s.SetRenderableDataInstance(r, scene.UniformsSlot, s.AllocateDataInstance(uniforms))
	s.SetRenderableIndexRange(r, 0, uint32(len(quadIndices)))
	s.AddRenderableToGroup(group, r, 0)

	err := d.res.UploadGeometry(r, sceneID, gldevice.Geometry{
		Vertices:   quadVertices,
		Components: []int32{3, 2},
		Indices:    quadIndices,
	})
	if err != nil {
		return r, fmt.Errorf("quad geometry: %w", err)
	}
	return r, nil
}

// Resize follows the framebuffer size of the window.
func (d *demo) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	d.ctx.ViewportWidth = uint32(width)
	d.ctx.ViewportHeight = uint32(height)
	aspect := float32(width) / float32(height)
	d.scene.SetFrustum(d.screenCam, scene.Frustum{Left: -aspect, Right: aspect, Bottom: -1, Top: 1, Near: -1, Far: 1})
	d.scene.SetViewport(d.screenCam, renderapi.Viewport{Width: uint32(width), Height: uint32(height)})
}

// Dispose releases the GL objects of the demo.
func (d *demo) Dispose() {
	d.res.Dispose()
}

// checkerTexture draws a small checker board and scales it up to size pixels.
func checkerTexture(size int) *image.RGBA {
	small := image.NewRGBA(image.Rect(0, 0, checkerTiles, checkerTiles))
	light := color.RGBA{R: 230, G: 230, B: 230, A: 255}
	dark := color.RGBA{R: 40, G: 90, B: 160, A: 255}
	for y := 0; y < checkerTiles; y++ {
		for x := 0; x < checkerTiles; x++ {
			c := dark
			if (x+y)%2 == 0 {
				c = light
			}
			small.SetRGBA(x, y, c)
		}
	}
	out := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.NearestNeighbor.Scale(out, out.Bounds(), small, small.Bounds(), draw.Src, nil)
	return out
}
