package scene

import "scenerender/internal/renderapi"

// Visibility controls whether a renderable is drawn and collected.
type Visibility uint8

const (
	// Visible renderables are drawn.
	Visible Visibility = iota
	// Invisible renderables keep their caches but issue no draw.
	Invisible
	// Off renderables are skipped entirely.
	Off
)

// DataSlot selects one of the two data instances of a renderable.
type DataSlot uint8

const (
	GeometrySlot DataSlot = iota
	UniformsSlot
)

// Renderable is a single drawable unit.
type Renderable struct {
	Node          renderapi.NodeHandle
	RenderState   renderapi.RenderStateHandle
	Geometry      renderapi.DataInstanceHandle
	Uniforms      renderapi.DataInstanceHandle
	StartIndex    uint32
	IndexCount    uint32
	StartVertex   uint32
	InstanceCount uint32
	Visibility    Visibility
}

func newRenderable(n renderapi.NodeHandle) Renderable {
	return Renderable{
		Node:          n,
		RenderState:   renderapi.InvalidRenderState,
		Geometry:      renderapi.InvalidDataInstance,
		Uniforms:      renderapi.InvalidDataInstance,
		InstanceCount: 1,
	}
}

// AllocateRenderable creates a renderable placed at node n.
func (s *Scene) AllocateRenderable(n renderapi.NodeHandle) renderapi.RenderableHandle {
	s.nodes.get(n)
	return s.renderables.allocate(newRenderable(n))
}

// AllocateRenderableWithHandle creates a renderable under a caller-chosen,
// currently unused handle, e.g. to recreate a released one.
func (s *Scene) AllocateRenderableWithHandle(h renderapi.RenderableHandle, n renderapi.NodeHandle) renderapi.RenderableHandle {
	s.nodes.get(n)
	return s.renderables.allocateAt(h, newRenderable(n))
}

// ReleaseRenderable removes r from all groups and frees its handle.
func (s *Scene) ReleaseRenderable(r renderapi.RenderableHandle) {
	s.renderables.get(r)
	s.groups.each(func(g renderapi.RenderGroupHandle, grp *renderGroup) {
		grp.remove(entryRenderable, uint32(r))
	})
	s.renderables.release(r)
	s.invalidateOrdering()
}

// Renderable returns a copy of renderable r.
func (s *Scene) Renderable(r renderapi.RenderableHandle) Renderable {
	return *s.renderables.get(r)
}

// HasRenderable reports whether r is allocated.
func (s *Scene) HasRenderable(r renderapi.RenderableHandle) bool {
	return s.renderables.has(r)
}

// SetRenderableRenderState assigns the render state of r.
func (s *Scene) SetRenderableRenderState(r renderapi.RenderableHandle, state renderapi.RenderStateHandle) {
	s.renderStates.get(state)
	s.renderables.get(r).RenderState = state
}

// SetRenderableDataInstance assigns a geometry or uniform instance. InvalidDataInstance clears it.
func (s *Scene) SetRenderableDataInstance(r renderapi.RenderableHandle, slot DataSlot, inst renderapi.DataInstanceHandle) {
	rend := s.renderables.get(r)
	if inst != renderapi.InvalidDataInstance {
		s.instances.get(inst)
	}
	switch slot {
	case GeometrySlot:
		rend.Geometry = inst
	case UniformsSlot:
		rend.Uniforms = inst
	}
}

// SetRenderableIndexRange sets the first index and the number of indices or vertices drawn.
func (s *Scene) SetRenderableIndexRange(r renderapi.RenderableHandle, startIndex, indexCount uint32) {
	rend := s.renderables.get(r)
	rend.StartIndex = startIndex
	rend.IndexCount = indexCount
}

// SetRenderableStartVertex sets the first vertex of non-indexed draws.
func (s *Scene) SetRenderableStartVertex(r renderapi.RenderableHandle, startVertex uint32) {
	s.renderables.get(r).StartVertex = startVertex
}

// SetRenderableInstanceCount sets the number of instances drawn.
func (s *Scene) SetRenderableInstanceCount(r renderapi.RenderableHandle, count uint32) {
	s.renderables.get(r).InstanceCount = count
}

// SetRenderableVisibility sets the visibility mode of r.
func (s *Scene) SetRenderableVisibility(r renderapi.RenderableHandle, v Visibility) {
	s.renderables.get(r).Visibility = v
	s.invalidateOrdering()
}

// AllocateRenderState registers a render state.
func (s *Scene) AllocateRenderState(state renderapi.RenderState) renderapi.RenderStateHandle {
	return s.renderStates.allocate(state)
}

// SetRenderState replaces the content of render state h.
func (s *Scene) SetRenderState(h renderapi.RenderStateHandle, state renderapi.RenderState) {
	*s.renderStates.get(h) = state
}

// RenderState returns the content of render state h.
func (s *Scene) RenderState(h renderapi.RenderStateHandle) renderapi.RenderState {
	return *s.renderStates.get(h)
}
