package scene

import (
	"fmt"
	"slices"

	"scenerender/internal/renderapi"

	"github.com/go-gl/mathgl/mgl32"
)

// RenderPass renders a list of groups through one camera into one target.
type RenderPass struct {
	Camera       renderapi.CameraHandle
	RenderTarget renderapi.RenderTargetHandle
	ClearFlags   renderapi.ClearFlags
	ClearColor   mgl32.Vec4
	Enabled      bool
	RenderOrder  int32

	groups []orderedEntry
}

// BlitPass copies a region of one render buffer into another.
type BlitPass struct {
	Source            renderapi.RenderBufferHandle
	Destination       renderapi.RenderBufferHandle
	SourceRegion      renderapi.PixelRectangle
	DestinationRegion renderapi.PixelRectangle
	RenderOrder       int32
	Enabled           bool
}

// BufferType is the attachment kind of a render buffer.
type BufferType uint8

const (
	ColorBuffer BufferType = iota
	DepthBuffer
	DepthStencilBuffer
)

// RenderBuffer is a single attachment of a render target.
type RenderBuffer struct {
	Width, Height uint32
	Type          BufferType
}

// RenderTarget is an offscreen framebuffer made of render buffers.
type RenderTarget struct {
	Buffers []renderapi.RenderBufferHandle
}

// PassKind tells render passes and blit passes apart in the sorted pass list.
type PassKind uint8

const (
	RenderPassKind PassKind = iota
	BlitPassKind
)

// PassInfo is one entry of the sorted pass list.
type PassInfo struct {
	Kind       PassKind
	RenderPass renderapi.RenderPassHandle
	BlitPass   renderapi.BlitPassHandle
}

type entryKind uint8

const (
	entryRenderable entryKind = iota
	entryGroup
)

type orderedEntry struct {
	kind   entryKind
	handle uint32
	order  int32
}

type renderGroup struct {
	entries []orderedEntry
}

func (g *renderGroup) remove(kind entryKind, h uint32) bool {
	n := len(g.entries)
	g.entries = slices.DeleteFunc(g.entries, func(e orderedEntry) bool { return e.kind == kind && e.handle == h })
	return len(g.entries) != n
}

// AllocateRenderPass creates an enabled pass rendering into the framebuffer.
func (s *Scene) AllocateRenderPass(camera renderapi.CameraHandle) renderapi.RenderPassHandle {
	if camera != renderapi.InvalidCamera {
		s.cameras.get(camera)
	}
	h := s.renderPasses.allocate(RenderPass{
		Camera:       camera,
		RenderTarget: renderapi.InvalidRenderTarget,
		ClearFlags:   renderapi.ClearAll,
		Enabled:      true,
	})
	s.invalidatePassOrder()
	return h
}

// RenderPass returns a copy of pass p.
func (s *Scene) RenderPass(p renderapi.RenderPassHandle) RenderPass {
	return *s.renderPasses.get(p)
}

// SetRenderPassCamera sets the camera of p.
func (s *Scene) SetRenderPassCamera(p renderapi.RenderPassHandle, camera renderapi.CameraHandle) {
	s.cameras.get(camera)
	s.renderPasses.get(p).Camera = camera
}

// SetRenderPassEnabled enables or disables p.
func (s *Scene) SetRenderPassEnabled(p renderapi.RenderPassHandle, enabled bool) {
	s.renderPasses.get(p).Enabled = enabled
}

// SetRenderPassClearFlags sets the buffers cleared before p renders into an offscreen target.
func (s *Scene) SetRenderPassClearFlags(p renderapi.RenderPassHandle, flags renderapi.ClearFlags) {
	s.renderPasses.get(p).ClearFlags = flags
}

// SetRenderPassClearColor sets the clear color of p.
func (s *Scene) SetRenderPassClearColor(p renderapi.RenderPassHandle, color mgl32.Vec4) {
	s.renderPasses.get(p).ClearColor = color
}

// SetRenderPassRenderTarget routes p into target. InvalidRenderTarget selects the framebuffer.
func (s *Scene) SetRenderPassRenderTarget(p renderapi.RenderPassHandle, target renderapi.RenderTargetHandle) {
	if target != renderapi.InvalidRenderTarget {
		s.renderTargets.get(target)
	}
	s.renderPasses.get(p).RenderTarget = target
}

// SetRenderPassRenderOrder sets the position of p among all passes.
func (s *Scene) SetRenderPassRenderOrder(p renderapi.RenderPassHandle, order int32) {
	s.renderPasses.get(p).RenderOrder = order
	s.invalidatePassOrder()
}

// AddGroupToPass appends group g to pass p with the given order key.
func (s *Scene) AddGroupToPass(p renderapi.RenderPassHandle, g renderapi.RenderGroupHandle, order int32) {
	s.groups.get(g)
	rp := s.renderPasses.get(p)
	rp.groups = append(rp.groups, orderedEntry{kind: entryGroup, handle: uint32(g), order: order})
	s.invalidateOrdering()
}

// RemoveGroupFromPass detaches g from p.
func (s *Scene) RemoveGroupFromPass(p renderapi.RenderPassHandle, g renderapi.RenderGroupHandle) {
	rp := s.renderPasses.get(p)
	rp.groups = slices.DeleteFunc(rp.groups, func(e orderedEntry) bool { return e.handle == uint32(g) })
	s.invalidateOrdering()
}

// AllocateRenderGroup creates an empty group.
func (s *Scene) AllocateRenderGroup() renderapi.RenderGroupHandle {
	return s.groups.allocate(renderGroup{})
}

// AddRenderableToGroup appends r to g with the given order key.
func (s *Scene) AddRenderableToGroup(g renderapi.RenderGroupHandle, r renderapi.RenderableHandle, order int32) {
	s.renderables.get(r)
	grp := s.groups.get(g)
	grp.entries = append(grp.entries, orderedEntry{kind: entryRenderable, handle: uint32(r), order: order})
	s.invalidateOrdering()
}

// RemoveRenderableFromGroup detaches r from g.
func (s *Scene) RemoveRenderableFromGroup(g renderapi.RenderGroupHandle, r renderapi.RenderableHandle) {
	if s.groups.get(g).remove(entryRenderable, uint32(r)) {
		s.invalidateOrdering()
	}
}

// AddGroupToGroup nests child inside parent with the given order key.
func (s *Scene) AddGroupToGroup(parent, child renderapi.RenderGroupHandle, order int32) {
	s.groups.get(child)
	if parent == child || s.groupContains(child, parent) {
		panic(fmt.Sprintf("scene: nesting group %d into %d would create a cycle", child, parent))
	}
	grp := s.groups.get(parent)
	grp.entries = append(grp.entries, orderedEntry{kind: entryGroup, handle: uint32(child), order: order})
	s.invalidateOrdering()
}

// RemoveGroupFromGroup detaches child from parent.
func (s *Scene) RemoveGroupFromGroup(parent, child renderapi.RenderGroupHandle) {
	if s.groups.get(parent).remove(entryGroup, uint32(child)) {
		s.invalidateOrdering()
	}
}

// groupContains reports whether needle is nested (at any depth) inside g.
func (s *Scene) groupContains(g, needle renderapi.RenderGroupHandle) bool {
	for _, e := range s.groups.get(g).entries {
		if e.kind != entryGroup {
			continue
		}
		if renderapi.RenderGroupHandle(e.handle) == needle || s.groupContains(renderapi.RenderGroupHandle(e.handle), needle) {
			return true
		}
	}
	return false
}

// OrderedRenderables returns the flattened draw order of p. Groups expand in
// place, their children interleaved by order key with ties kept in insertion
// order. Renderables that are Off are left out.
func (s *Scene) OrderedRenderables(p renderapi.RenderPassHandle) []renderapi.RenderableHandle {
	if cached, ok := s.orderedCache[p]; ok {
		return cached
	}
	rp := s.renderPasses.get(p)
	var out []renderapi.RenderableHandle
	s.flatten(rp.groups, &out)
	if s.orderedCache == nil {
		s.orderedCache = make(map[renderapi.RenderPassHandle][]renderapi.RenderableHandle)
	}
	s.orderedCache[p] = out
	return out
}

func (s *Scene) flatten(entries []orderedEntry, out *[]renderapi.RenderableHandle) {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b orderedEntry) int {
		switch {
		case a.order < b.order:
			return -1
		case a.order > b.order:
			return 1
		}
		return 0
	})
	for _, e := range sorted {
		switch e.kind {
		case entryRenderable:
			r := renderapi.RenderableHandle(e.handle)
			if s.renderables.get(r).Visibility != Off {
				*out = append(*out, r)
			}
		case entryGroup:
			s.flatten(s.groups.get(renderapi.RenderGroupHandle(e.handle)).entries, out)
		}
	}
}

// AllocateRenderBuffer creates a render buffer description.
func (s *Scene) AllocateRenderBuffer(width, height uint32, t BufferType) renderapi.RenderBufferHandle {
	return s.renderBuffers.allocate(RenderBuffer{Width: width, Height: height, Type: t})
}

// RenderBuffer returns render buffer b.
func (s *Scene) RenderBuffer(b renderapi.RenderBufferHandle) RenderBuffer {
	return *s.renderBuffers.get(b)
}

// AllocateRenderTarget creates a target from existing render buffers.
func (s *Scene) AllocateRenderTarget(buffers ...renderapi.RenderBufferHandle) renderapi.RenderTargetHandle {
	for _, b := range buffers {
		s.renderBuffers.get(b)
	}
	return s.renderTargets.allocate(RenderTarget{Buffers: slices.Clone(buffers)})
}

// RenderTarget returns render target t.
func (s *Scene) RenderTarget(t renderapi.RenderTargetHandle) RenderTarget {
	return *s.renderTargets.get(t)
}

// DepthBuffer returns the depth or depth-stencil buffer of t, if it has one.
func (s *Scene) DepthBuffer(t renderapi.RenderTargetHandle) (renderapi.RenderBufferHandle, bool) {
	for _, b := range s.renderTargets.get(t).Buffers {
		if typ := s.renderBuffers.get(b).Type; typ == DepthBuffer || typ == DepthStencilBuffer {
			return b, true
		}
	}
	return renderapi.InvalidRenderBuffer, false
}

// AllocateBlitPass creates an enabled blit pass copying src into dst.
func (s *Scene) AllocateBlitPass(src, dst renderapi.RenderBufferHandle) renderapi.BlitPassHandle {
	sb := s.renderBuffers.get(src)
	s.renderBuffers.get(dst)
	full := renderapi.PixelRectangle{Width: int32(sb.Width), Height: int32(sb.Height)}
	h := s.blitPasses.allocate(BlitPass{
		Source:            src,
		Destination:       dst,
		SourceRegion:      full,
		DestinationRegion: full,
		Enabled:           true,
	})
	s.invalidatePassOrder()
	return h
}

// BlitPass returns blit pass b.
func (s *Scene) BlitPass(b renderapi.BlitPassHandle) BlitPass {
	return *s.blitPasses.get(b)
}

// SetBlitPassRegions sets the source and destination rectangles of b.
func (s *Scene) SetBlitPassRegions(b renderapi.BlitPassHandle, src, dst renderapi.PixelRectangle) {
	bp := s.blitPasses.get(b)
	bp.SourceRegion = src
	bp.DestinationRegion = dst
}

// SetBlitPassEnabled enables or disables b.
func (s *Scene) SetBlitPassEnabled(b renderapi.BlitPassHandle, enabled bool) {
	s.blitPasses.get(b).Enabled = enabled
}

// SetBlitPassRenderOrder sets the position of b among all passes.
func (s *Scene) SetBlitPassRenderOrder(b renderapi.BlitPassHandle, order int32) {
	s.blitPasses.get(b).RenderOrder = order
	s.invalidatePassOrder()
}

// SortedPasses returns render and blit passes stable-sorted by render order.
// On equal order, render passes come first, each kind in allocation order.
func (s *Scene) SortedPasses() []PassInfo {
	if s.sortedPasses != nil {
		return s.sortedPasses
	}
	type keyed struct {
		info  PassInfo
		order int32
	}
	var all []keyed
	s.renderPasses.each(func(h renderapi.RenderPassHandle, rp *RenderPass) {
		all = append(all, keyed{PassInfo{Kind: RenderPassKind, RenderPass: h, BlitPass: renderapi.InvalidBlitPass}, rp.RenderOrder})
	})
	s.blitPasses.each(func(h renderapi.BlitPassHandle, bp *BlitPass) {
		all = append(all, keyed{PassInfo{Kind: BlitPassKind, RenderPass: renderapi.InvalidRenderPass, BlitPass: h}, bp.RenderOrder})
	})
	slices.SortStableFunc(all, func(a, b keyed) int {
		switch {
		case a.order < b.order:
			return -1
		case a.order > b.order:
			return 1
		}
		return 0
	})
	s.sortedPasses = make([]PassInfo, 0, len(all))
	for _, k := range all {
		s.sortedPasses = append(s.sortedPasses, k.info)
	}
	return s.sortedPasses
}

func (s *Scene) invalidateOrdering() {
	s.orderedCache = nil
}

func (s *Scene) invalidatePassOrder() {
	s.sortedPasses = nil
}
