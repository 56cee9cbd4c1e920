// Package semanticubo derives, uploads and evicts the uniform buffers that back
// the ModelBlock, CameraBlock and ModelCameraBlock uniform semantics.
//
// Each frame runs Collect, Update and Upload in that order on the render thread.
// Entries left unused decay on frames where their cache changed something, and
// are unloaded once the decay count reaches the configured threshold.
package semanticubo

import (
	"scenerender/internal/logging"
	"scenerender/internal/profiling"
	"scenerender/internal/renderapi"
	"scenerender/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultDecayCountToDeallocate is the number of changed frames an entry may stay unused.
const DefaultDecayCountToDeallocate = 3

// Scene is the read-only scene surface the caches derive their data from.
type Scene interface {
	ID() renderapi.SceneID
	SortedPasses() []scene.PassInfo
	RenderPass(p renderapi.RenderPassHandle) scene.RenderPass
	OrderedRenderables(p renderapi.RenderPassHandle) []renderapi.RenderableHandle
	Renderable(r renderapi.RenderableHandle) scene.Renderable
	HasDataInstance(i renderapi.DataInstanceHandle) bool
	DataInstance(i renderapi.DataInstanceHandle) scene.DataInstance
	DataLayout(l renderapi.DataLayoutHandle) scene.DataLayout
	Camera(c renderapi.CameraHandle) scene.Camera
	ProjectionStamp(c renderapi.CameraHandle) uint64
	WorldMatrix(n renderapi.NodeHandle) mgl32.Mat4
	ChangeStamp(n renderapi.NodeHandle) uint64
}

// stamps are the change stamps an entry's data was computed from.
type stamps [3]uint64

type entry struct {
	device renderapi.DeviceHandle
	data   []byte
	stamps stamps

	used     bool
	wasUsed  bool
	computed bool
	dirty    bool
	decay    int
}

// kind holds what differs between the three caches.
type kind interface {
	semantic() renderapi.SemanticUniformBufferKind
	size() uint32
	// collect calls mark for every buffer the scene renders with this frame.
	collect(s Scene, mark func(renderapi.SemanticUniformBufferHandle))
	stamps(s Scene, h renderapi.SemanticUniformBufferHandle) stamps
	pack(s Scene, h renderapi.SemanticUniformBufferHandle, buf []byte) []byte
}

// Cache is one semantic uniform buffer cache.
type Cache struct {
	kind       kind
	decayCount int
	stats      *profiling.Collector

	entries map[renderapi.SemanticUniformBufferHandle]*entry
	changed bool
}

// Option configures a Cache.
type Option func(*Cache)

// WithDecayCount sets the number of changed frames after which an unused entry is unloaded.
func WithDecayCount(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.decayCount = n
		}
	}
}

// WithStats makes the cache count uploads, updates and unloads into stats.
func WithStats(stats *profiling.Collector) Option {
	return func(c *Cache) { c.stats = stats }
}

func newCache(k kind, opts []Option) *Cache {
	c := &Cache{
		kind:       k,
		decayCount: DefaultDecayCountToDeallocate,
		entries:    make(map[renderapi.SemanticUniformBufferHandle]*entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Kind returns the semantic kind of the buffers held by c.
func (c *Cache) Kind() renderapi.SemanticUniformBufferKind { return c.kind.semantic() }

// BufferSize returns the byte size of each buffer of c.
func (c *Cache) BufferSize() uint32 { return c.kind.size() }

// Len returns the number of live entries.
func (c *Cache) Len() int { return len(c.entries) }

// Has reports whether an entry exists for h.
func (c *Cache) Has(h renderapi.SemanticUniformBufferHandle) bool {
	_, ok := c.entries[h]
	return ok
}

// Collect marks the entries used by the scene this frame, creating missing ones.
func (c *Cache) Collect(s Scene) {
	for _, e := range c.entries {
		e.wasUsed = e.used
		e.used = false
	}
	c.kind.collect(s, func(h renderapi.SemanticUniformBufferHandle) {
		e, ok := c.entries[h]
		if !ok {
			e = &entry{device: renderapi.InvalidDeviceHandle}
			c.entries[h] = e
		}
		e.used = true
		e.decay = 0
	})
}

// Update recomputes the data of used entries whose inputs changed. An entry
// coming back into use is recomputed, as its source objects may have been
// recreated meanwhile.
func (c *Cache) Update(s Scene) {
	for h, e := range c.entries {
		if !e.used {
			continue
		}
		st := c.kind.stamps(s, h)
		if e.computed && e.wasUsed && st == e.stamps {
			continue
		}
		e.data = c.kind.pack(s, h, e.data[:0])
		e.stamps = st
		e.computed = true
		e.dirty = true
		c.changed = true
	}
}

// Upload pushes dirty entries to the device and decays unused ones. Decay only
// advances when this frame created or updated an entry.
func (c *Cache) Upload(rm renderapi.ResourceManager, id renderapi.SceneID) {
	for h, e := range c.entries {
		if !e.dirty {
			continue
		}
		if !e.device.IsValid() {
			e.device = rm.UploadUniformBuffer(h, c.kind.size(), id)
			c.stats.Inc(profiling.UniformBufferUploads)
		}
		rm.UpdateUniformBuffer(h, e.data, id)
		c.stats.Inc(profiling.UniformBufferUpdates)
		e.dirty = false
	}
	if !c.changed {
		return
	}
	c.changed = false
	for h, e := range c.entries {
		if e.used {
			continue
		}
		e.decay++
		if e.decay < c.decayCount {
			continue
		}
		if e.device.IsValid() {
			rm.UnloadUniformBuffer(h, id)
			c.stats.Inc(profiling.UniformBufferUnloads)
		}
		logging.Logger().Debug("semantic uniform buffer unloaded", "buffer", h.String(), "scene", uint64(id))
		delete(c.entries, h)
	}
}

// DeviceHandle returns the device buffer of h, or InvalidDeviceHandle if it was not uploaded.
func (c *Cache) DeviceHandle(h renderapi.SemanticUniformBufferHandle) renderapi.DeviceHandle {
	if e, ok := c.entries[h]; ok {
		return e.device
	}
	return renderapi.InvalidDeviceHandle
}

// DecayCount returns the current decay counter of h and whether the entry exists.
func (c *Cache) DecayCount(h renderapi.SemanticUniformBufferHandle) (int, bool) {
	e, ok := c.entries[h]
	if !ok {
		return 0, false
	}
	return e.decay, true
}
