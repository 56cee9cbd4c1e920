// Package scene is the renderer-side scene model: nodes with cached world
// transforms, cameras, data layouts and instances, renderables, and the
// pass/group structure that orders them.
//
// All objects are addressed by integer handles. Queries with unknown handles
// panic; scenes reaching the renderer are validated upstream.
package scene

import (
	"time"

	"scenerender/internal/renderapi"
)

// Scene holds all renderer-side objects of one scene.
type Scene struct {
	id    renderapi.SceneID
	stamp uint64

	nodes         pool[renderapi.NodeHandle, node]
	cameras       pool[renderapi.CameraHandle, Camera]
	layouts       pool[renderapi.DataLayoutHandle, DataLayout]
	instances     pool[renderapi.DataInstanceHandle, DataInstance]
	samplers      pool[renderapi.TextureSamplerHandle, TextureSampler]
	renderables   pool[renderapi.RenderableHandle, Renderable]
	renderStates  pool[renderapi.RenderStateHandle, renderapi.RenderState]
	groups        pool[renderapi.RenderGroupHandle, renderGroup]
	renderPasses  pool[renderapi.RenderPassHandle, RenderPass]
	blitPasses    pool[renderapi.BlitPassHandle, BlitPass]
	renderTargets pool[renderapi.RenderTargetHandle, RenderTarget]
	renderBuffers pool[renderapi.RenderBufferHandle, RenderBuffer]

	orderedCache map[renderapi.RenderPassHandle][]renderapi.RenderableHandle
	sortedPasses []PassInfo

	effectTimeSync        time.Time
	activeShaderAnimation bool
}

// New returns an empty scene.
func New(id renderapi.SceneID) *Scene {
	return &Scene{
		id:            id,
		nodes:         newPool[renderapi.NodeHandle, node]("node"),
		cameras:       newPool[renderapi.CameraHandle, Camera]("camera"),
		layouts:       newPool[renderapi.DataLayoutHandle, DataLayout]("data layout"),
		instances:     newPool[renderapi.DataInstanceHandle, DataInstance]("data instance"),
		samplers:      newPool[renderapi.TextureSamplerHandle, TextureSampler]("texture sampler"),
		renderables:   newPool[renderapi.RenderableHandle, Renderable]("renderable"),
		renderStates:  newPool[renderapi.RenderStateHandle, renderapi.RenderState]("render state"),
		groups:        newPool[renderapi.RenderGroupHandle, renderGroup]("render group"),
		renderPasses:  newPool[renderapi.RenderPassHandle, RenderPass]("render pass"),
		blitPasses:    newPool[renderapi.BlitPassHandle, BlitPass]("blit pass"),
		renderTargets: newPool[renderapi.RenderTargetHandle, RenderTarget]("render target"),
		renderBuffers: newPool[renderapi.RenderBufferHandle, RenderBuffer]("render buffer"),
	}
}

// ID returns the scene identifier.
func (s *Scene) ID() renderapi.SceneID {
	return s.id
}
