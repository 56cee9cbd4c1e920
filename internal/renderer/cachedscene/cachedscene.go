// Package cachedscene pairs a scene with its semantic uniform buffer caches.
package cachedscene

import (
	"scenerender/internal/profiling"
	"scenerender/internal/renderapi"
	"scenerender/internal/renderer/semanticubo"
	"scenerender/internal/scene"
)

// Scene is a scene whose semantic uniform buffers are kept on the device.
// It satisfies the scene surface of the executor.
type Scene struct {
	*scene.Scene

	model       *semanticubo.Cache
	camera      *semanticubo.Cache
	modelCamera *semanticubo.Cache
	stats       *profiling.Collector
}

// Option configures a Scene.
type Option func(*options)

type options struct {
	decayCount int
	stats      *profiling.Collector
}

// WithDecayCount sets the decay count of all three caches.
func WithDecayCount(n int) Option {
	return func(o *options) { o.decayCount = n }
}

// WithStats reports cache activity and phase durations into stats.
func WithStats(stats *profiling.Collector) Option {
	return func(o *options) { o.stats = stats }
}

// New wraps s.
func New(s *scene.Scene, opts ...Option) *Scene {
	o := options{decayCount: semanticubo.DefaultDecayCountToDeallocate}
	for _, opt := range opts {
		opt(&o)
	}
	cacheOpts := []semanticubo.Option{semanticubo.WithDecayCount(o.decayCount), semanticubo.WithStats(o.stats)}
	return &Scene{
		Scene:       s,
		model:       semanticubo.NewModelCache(cacheOpts...),
		camera:      semanticubo.NewCameraCache(cacheOpts...),
		modelCamera: semanticubo.NewModelCameraCache(cacheOpts...),
		stats:       o.stats,
	}
}

func (s *Scene) caches() [3]*semanticubo.Cache {
	return [3]*semanticubo.Cache{s.model, s.camera, s.modelCamera}
}

// CollectDirtySemanticUniformBuffers marks the buffers rendered with this frame.
func (s *Scene) CollectDirtySemanticUniformBuffers() {
	defer s.stats.Track("cachedscene.Collect")()
	for _, c := range s.caches() {
		c.Collect(s.Scene)
	}
}

// UpdateSemanticUniformBuffers recomputes the data of changed buffers.
func (s *Scene) UpdateSemanticUniformBuffers() {
	defer s.stats.Track("cachedscene.Update")()
	for _, c := range s.caches() {
		c.Update(s.Scene)
	}
}

// UploadSemanticUniformBuffers syncs changed buffers to the device and unloads decayed ones.
func (s *Scene) UploadSemanticUniformBuffers(rm renderapi.ResourceManager) {
	defer s.stats.Track("cachedscene.Upload")()
	for _, c := range s.caches() {
		c.Upload(rm, s.ID())
	}
}

// UpdateFrame runs collect, update and upload in order. Call it once per
// frame before the first Execute of that frame.
func (s *Scene) UpdateFrame(rm renderapi.ResourceManager) {
	s.CollectDirtySemanticUniformBuffers()
	s.UpdateSemanticUniformBuffers()
	s.UploadSemanticUniformBuffers(rm)
}

// SemanticUniformBufferDeviceHandle returns the device buffer of h, or InvalidDeviceHandle.
func (s *Scene) SemanticUniformBufferDeviceHandle(h renderapi.SemanticUniformBufferHandle) renderapi.DeviceHandle {
	switch h.Kind {
	case renderapi.SemanticModel:
		return s.model.DeviceHandle(h)
	case renderapi.SemanticCamera:
		return s.camera.DeviceHandle(h)
	default:
		return s.modelCamera.DeviceHandle(h)
	}
}

// Cache returns the cache holding buffers of kind k.
func (s *Scene) Cache(k renderapi.SemanticUniformBufferKind) *semanticubo.Cache {
	switch k {
	case renderapi.SemanticModel:
		return s.model
	case renderapi.SemanticCamera:
		return s.camera
	default:
		return s.modelCamera
	}
}
