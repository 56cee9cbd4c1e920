package gldevice

import (
	"fmt"
	"image"

	"scenerender/internal/logging"
	"scenerender/internal/renderapi"

	"github.com/go-gl/gl/v4.1-core/gl"
	"golang.org/x/image/draw"
)

type key[H comparable] struct {
	scene renderapi.SceneID
	h     H
}

type renderTarget struct {
	fbo          uint32
	color        uint32
	depthStencil uint32
}

// Resources owns the GL objects backing scene resources and serves the
// executor's device handle lookups.
type Resources struct {
	programs        map[renderapi.DeviceHandle]*program
	effects         map[renderapi.ResourceContentHash]renderapi.DeviceHandle
	textures        map[renderapi.ResourceContentHash]uint32
	vertexArrays    map[key[renderapi.RenderableHandle]]geometry
	targets         map[key[renderapi.RenderTargetHandle]]renderTarget
	blits           map[key[renderapi.BlitPassHandle]][2]renderapi.DeviceHandle
	samplers        map[key[renderapi.TextureSamplerHandle]]uint32
	uniformBuffers  map[key[renderapi.UniformBufferHandle]]uint32
	externalBuffers map[renderapi.ExternalBufferHandle]uint32
	semantic        map[key[renderapi.SemanticUniformBufferHandle]]uint32
}

var _ renderapi.ResourceManager = (*Resources)(nil)

// NewResources returns an empty resource set.
func NewResources() *Resources {
	return &Resources{
		programs:        make(map[renderapi.DeviceHandle]*program),
		effects:         make(map[renderapi.ResourceContentHash]renderapi.DeviceHandle),
		textures:        make(map[renderapi.ResourceContentHash]uint32),
		vertexArrays:    make(map[key[renderapi.RenderableHandle]]geometry),
		targets:         make(map[key[renderapi.RenderTargetHandle]]renderTarget),
		blits:           make(map[key[renderapi.BlitPassHandle]][2]renderapi.DeviceHandle),
		samplers:        make(map[key[renderapi.TextureSamplerHandle]]uint32),
		uniformBuffers:  make(map[key[renderapi.UniformBufferHandle]]uint32),
		externalBuffers: make(map[renderapi.ExternalBufferHandle]uint32),
		semantic:        make(map[key[renderapi.SemanticUniformBufferHandle]]uint32),
	}
}

// UploadEffect compiles and links an effect under hash.
func (r *Resources) UploadEffect(hash renderapi.ResourceContentHash, e Effect) error {
	p, err := linkEffect(e)
	if err != nil {
		return fmt.Errorf("effect %s: %w", hash, err)
	}
	h := renderapi.DeviceHandle(p.id)
	r.programs[h] = p
	r.effects[hash] = h
	logging.Logger().Debug("effect uploaded", "hash", hash.String(), "program", p.id)
	return nil
}

// UploadTexture uploads img as an RGBA 2D texture under hash.
func (r *Resources) UploadTexture(hash renderapi.ResourceContentHash, img image.Image) {
	rgba, ok := img.(*image.RGBA)
	if !ok {
		rgba = image.NewRGBA(img.Bounds())
		draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	}
	size := rgba.Rect.Size()

	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D, texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(size.X), int32(size.Y), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	r.textures[hash] = texture
}

// CreateSampler creates a sampler object for a scene texture sampler.
func (r *Resources) CreateSampler(s renderapi.TextureSamplerHandle, scene renderapi.SceneID, linear bool) {
	filter := int32(gl.NEAREST)
	minFilter := int32(gl.NEAREST_MIPMAP_NEAREST)
	if linear {
		filter = gl.LINEAR
		minFilter = gl.LINEAR_MIPMAP_LINEAR
	}
	var sampler uint32
	gl.GenSamplers(1, &sampler)
	gl.SamplerParameteri(sampler, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.SamplerParameteri(sampler, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.SamplerParameteri(sampler, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.SamplerParameteri(sampler, gl.TEXTURE_MAG_FILTER, filter)
	r.samplers[key[renderapi.TextureSamplerHandle]{scene, s}] = sampler
}

// CreateRenderTarget allocates a framebuffer with an RGBA color texture and,
// when withDepth is set, a depth-stencil renderbuffer. The color texture is
// registered as a texture resource under colorHash so later passes can
// sample it.
func (r *Resources) CreateRenderTarget(t renderapi.RenderTargetHandle, scene renderapi.SceneID, colorHash renderapi.ResourceContentHash, width, height int32, withDepth bool) error {
	var rt renderTarget
	gl.GenFramebuffers(1, &rt.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, rt.fbo)

	gl.GenTextures(1, &rt.color)
	gl.BindTexture(gl.TEXTURE_2D, rt.color)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, width, height, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAX_LEVEL, 0)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, rt.color, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if withDepth {
		gl.GenRenderbuffers(1, &rt.depthStencil)
		gl.BindRenderbuffer(gl.RENDERBUFFER, rt.depthStencil)
		gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH24_STENCIL8, width, height)
		gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_STENCIL_ATTACHMENT, gl.RENDERBUFFER, rt.depthStencil)
		gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
	}

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		r.deleteTarget(rt)
		return fmt.Errorf("render target %d: framebuffer incomplete (0x%x)", t, status)
	}
	r.targets[key[renderapi.RenderTargetHandle]{scene, t}] = rt
	r.textures[colorHash] = rt.color
	return nil
}

// RegisterBlitPass makes pass copy from the framebuffer of src to that of
// dst. Both targets must exist.
func (r *Resources) RegisterBlitPass(pass renderapi.BlitPassHandle, scene renderapi.SceneID, src, dst renderapi.RenderTargetHandle) {
	r.blits[key[renderapi.BlitPassHandle]{scene, pass}] = [2]renderapi.DeviceHandle{
		r.RenderTargetDeviceHandle(src, scene),
		r.RenderTargetDeviceHandle(dst, scene),
	}
}

func lookup[K comparable](m map[K]uint32, k K) renderapi.DeviceHandle {
	if v, ok := m[k]; ok {
		return renderapi.DeviceHandle(v)
	}
	return renderapi.InvalidDeviceHandle
}

func (r *Resources) RenderTargetDeviceHandle(t renderapi.RenderTargetHandle, scene renderapi.SceneID) renderapi.DeviceHandle {
	if rt, ok := r.targets[key[renderapi.RenderTargetHandle]{scene, t}]; ok {
		return renderapi.DeviceHandle(rt.fbo)
	}
	return renderapi.InvalidDeviceHandle
}

func (r *Resources) BlitPassRenderTargets(pass renderapi.BlitPassHandle, scene renderapi.SceneID) (src, dst renderapi.DeviceHandle) {
	if b, ok := r.blits[key[renderapi.BlitPassHandle]{scene, pass}]; ok {
		return b[0], b[1]
	}
	return renderapi.InvalidDeviceHandle, renderapi.InvalidDeviceHandle
}

// ResourceDeviceHandle resolves effects to programs and textures to texture names.
func (r *Resources) ResourceDeviceHandle(hash renderapi.ResourceContentHash) renderapi.DeviceHandle {
	if h, ok := r.effects[hash]; ok {
		return h
	}
	return lookup(r.textures, hash)
}

func (r *Resources) VertexArrayDeviceHandle(renderable renderapi.RenderableHandle, scene renderapi.SceneID) renderapi.DeviceHandle {
	if g, ok := r.vertexArrays[key[renderapi.RenderableHandle]{scene, renderable}]; ok {
		return renderapi.DeviceHandle(g.vao)
	}
	return renderapi.InvalidDeviceHandle
}

func (r *Resources) TextureSamplerDeviceHandle(s renderapi.TextureSamplerHandle, scene renderapi.SceneID) renderapi.DeviceHandle {
	return lookup(r.samplers, key[renderapi.TextureSamplerHandle]{scene, s})
}

func (r *Resources) ExternalBufferDeviceHandle(b renderapi.ExternalBufferHandle) renderapi.DeviceHandle {
	return lookup(r.externalBuffers, b)
}

func (r *Resources) UniformBufferDeviceHandle(b renderapi.UniformBufferHandle, scene renderapi.SceneID) renderapi.DeviceHandle {
	return lookup(r.uniformBuffers, key[renderapi.UniformBufferHandle]{scene, b})
}

func (r *Resources) UploadUniformBuffer(h renderapi.SemanticUniformBufferHandle, size uint32, scene renderapi.SceneID) renderapi.DeviceHandle {
	var buf uint32
	gl.GenBuffers(1, &buf)
	gl.BindBuffer(gl.UNIFORM_BUFFER, buf)
	gl.BufferData(gl.UNIFORM_BUFFER, int(size), nil, gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
	r.semantic[key[renderapi.SemanticUniformBufferHandle]{scene, h}] = buf
	return renderapi.DeviceHandle(buf)
}

func (r *Resources) UpdateUniformBuffer(h renderapi.SemanticUniformBufferHandle, data []byte, scene renderapi.SceneID) {
	buf, ok := r.semantic[key[renderapi.SemanticUniformBufferHandle]{scene, h}]
	if !ok || len(data) == 0 {
		return
	}
	gl.BindBuffer(gl.UNIFORM_BUFFER, buf)
	gl.BufferSubData(gl.UNIFORM_BUFFER, 0, len(data), gl.Ptr(data))
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
}

func (r *Resources) UnloadUniformBuffer(h renderapi.SemanticUniformBufferHandle, scene renderapi.SceneID) {
	k := key[renderapi.SemanticUniformBufferHandle]{scene, h}
	if buf, ok := r.semantic[k]; ok {
		gl.DeleteBuffers(1, &buf)
		delete(r.semantic, k)
	}
}

func (r *Resources) deleteTarget(rt renderTarget) {
	gl.DeleteFramebuffers(1, &rt.fbo)
	gl.DeleteTextures(1, &rt.color)
	if rt.depthStencil != 0 {
		gl.DeleteRenderbuffers(1, &rt.depthStencil)
	}
}

// Dispose deletes every GL object owned by r.
func (r *Resources) Dispose() {
	for _, p := range r.programs {
		gl.DeleteProgram(p.id)
	}
	for _, g := range r.vertexArrays {
		g.delete()
	}
	owned := make(map[uint32]bool)
	for _, rt := range r.targets {
		owned[rt.color] = true
		r.deleteTarget(rt)
	}
	for _, tex := range r.textures {
		if !owned[tex] {
			gl.DeleteTextures(1, &tex)
		}
	}
	for _, s := range r.samplers {
		gl.DeleteSamplers(1, &s)
	}
	for _, buf := range r.semantic {
		gl.DeleteBuffers(1, &buf)
	}
	for _, buf := range r.uniformBuffers {
		gl.DeleteBuffers(1, &buf)
	}
	clear(r.programs)
	clear(r.effects)
	clear(r.textures)
	clear(r.vertexArrays)
	clear(r.targets)
	clear(r.blits)
	clear(r.samplers)
	clear(r.semantic)
	clear(r.uniformBuffers)
	clear(r.externalBuffers)
}
