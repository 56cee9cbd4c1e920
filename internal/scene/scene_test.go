package scene_test

import (
	"math"
	"testing"
	"time"

	"scenerender/internal/renderapi"
	"scenerender/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPassWithGroup(s *scene.Scene) (renderapi.RenderPassHandle, renderapi.RenderGroupHandle) {
	cam := s.AllocateCamera(scene.Perspective, s.AllocateNode())
	pass := s.AllocateRenderPass(cam)
	group := s.AllocateRenderGroup()
	s.AddGroupToPass(pass, group, 0)
	return pass, group
}

func TestGroupsFlattenByOrderKey(t *testing.T) {
	s := scene.New(1)
	pass, group := newPassWithGroup(s)
	n := s.AllocateNode()
	r0 := s.AllocateRenderable(n)
	r1 := s.AllocateRenderable(n)
	r2 := s.AllocateRenderable(n)

	s.AddRenderableToGroup(group, r0, 5)
	s.AddRenderableToGroup(group, r1, -1)
	s.AddRenderableToGroup(group, r2, 5)

	assert.Equal(t, []renderapi.RenderableHandle{r1, r0, r2}, s.OrderedRenderables(pass))
}

func TestNestedGroupsExpandAtTheirPosition(t *testing.T) {
	s := scene.New(1)
	pass, outer := newPassWithGroup(s)
	n := s.AllocateNode()
	m1 := s.AllocateRenderable(n)
	m2 := s.AllocateRenderable(n)
	m3 := s.AllocateRenderable(n)

	inner := s.AllocateRenderGroup()
	s.AddRenderableToGroup(inner, m1, 0)
	s.AddGroupToGroup(outer, inner, 1)
	s.AddRenderableToGroup(outer, m2, 2)
	s.AddRenderableToGroup(outer, m3, 1)

	// inner and m3 share order 1; insertion order puts the group first
	assert.Equal(t, []renderapi.RenderableHandle{m1, m3, m2}, s.OrderedRenderables(pass))
}

// A nested group is placed by its own order key among its siblings, so a
// renderable with a lower key is drawn before the group's content.
func TestNestedGroupContentFollowsLowerOrderSiblings(t *testing.T) {
	s := scene.New(1)
	cam := s.AllocateCamera(scene.Perspective, s.AllocateNode())
	pass := s.AllocateRenderPass(cam)
	n := s.AllocateNode()
	m1 := s.AllocateRenderable(n)
	m2 := s.AllocateRenderable(n)

	g1 := s.AllocateRenderGroup()
	g2 := s.AllocateRenderGroup()
	s.AddGroupToPass(pass, g2, 1)
	s.AddGroupToGroup(g2, g1, 2)
	s.AddRenderableToGroup(g1, m1, 0)
	s.AddRenderableToGroup(g2, m2, 1)

	assert.Equal(t, []renderapi.RenderableHandle{m2, m1}, s.OrderedRenderables(pass))

	s.RemoveGroupFromGroup(g2, g1)
	s.AddGroupToGroup(g2, g1, 0)
	assert.Equal(t, []renderapi.RenderableHandle{m1, m2}, s.OrderedRenderables(pass))
}

func TestGroupCyclesPanic(t *testing.T) {
	s := scene.New(1)
	a := s.AllocateRenderGroup()
	b := s.AllocateRenderGroup()
	s.AddGroupToGroup(a, b, 0)
	assert.Panics(t, func() { s.AddGroupToGroup(b, a, 0) })
	assert.Panics(t, func() { s.AddGroupToGroup(a, a, 0) })
}

func TestOrderedRenderablesFollowMutations(t *testing.T) {
	s := scene.New(1)
	pass, group := newPassWithGroup(s)
	n := s.AllocateNode()
	r0 := s.AllocateRenderable(n)
	r1 := s.AllocateRenderable(n)
	s.AddRenderableToGroup(group, r0, 0)
	s.AddRenderableToGroup(group, r1, 1)
	require.Len(t, s.OrderedRenderables(pass), 2)

	s.SetRenderableVisibility(r0, scene.Off)
	assert.Equal(t, []renderapi.RenderableHandle{r1}, s.OrderedRenderables(pass))

	s.SetRenderableVisibility(r0, scene.Invisible)
	assert.Equal(t, []renderapi.RenderableHandle{r0, r1}, s.OrderedRenderables(pass))

	s.ReleaseRenderable(r1)
	assert.Equal(t, []renderapi.RenderableHandle{r0}, s.OrderedRenderables(pass))
	assert.False(t, s.HasRenderable(r1))

	s.RemoveRenderableFromGroup(group, r0)
	assert.Empty(t, s.OrderedRenderables(pass))
}

func TestAllocateRenderableWithHandleReusesReleasedSlot(t *testing.T) {
	s := scene.New(1)
	n := s.AllocateNode()
	r := s.AllocateRenderable(n)
	assert.Panics(t, func() { s.AllocateRenderableWithHandle(r, n) })

	s.ReleaseRenderable(r)
	assert.Equal(t, r, s.AllocateRenderableWithHandle(r, n))
	assert.True(t, s.HasRenderable(r))
}

func TestSortedPassesPutRenderPassesFirstOnTies(t *testing.T) {
	s := scene.New(1)
	cam := s.AllocateCamera(scene.Perspective, s.AllocateNode())
	buf := s.AllocateRenderBuffer(8, 8, scene.ColorBuffer)
	blit := s.AllocateBlitPass(buf, buf)
	p0 := s.AllocateRenderPass(cam)
	p1 := s.AllocateRenderPass(cam)
	s.SetRenderPassRenderOrder(p0, 1)

	got := s.SortedPasses()
	require.Len(t, got, 3)
	assert.Equal(t, scene.PassInfo{Kind: scene.RenderPassKind, RenderPass: p1, BlitPass: renderapi.InvalidBlitPass}, got[0])
	assert.Equal(t, scene.PassInfo{Kind: scene.BlitPassKind, RenderPass: renderapi.InvalidRenderPass, BlitPass: blit}, got[1])
	assert.Equal(t, scene.PassInfo{Kind: scene.RenderPassKind, RenderPass: p0, BlitPass: renderapi.InvalidBlitPass}, got[2])

	s.SetBlitPassRenderOrder(blit, 1)
	got = s.SortedPasses()
	assert.Equal(t, p1, got[0].RenderPass)
	assert.Equal(t, p0, got[1].RenderPass)
	assert.Equal(t, blit, got[2].BlitPass)
}

func TestDepthBufferLookup(t *testing.T) {
	s := scene.New(1)
	color := s.AllocateRenderBuffer(4, 4, scene.ColorBuffer)
	depth := s.AllocateRenderBuffer(4, 4, scene.DepthStencilBuffer)

	withDepth := s.AllocateRenderTarget(color, depth)
	b, ok := s.DepthBuffer(withDepth)
	assert.True(t, ok)
	assert.Equal(t, depth, b)

	_, ok = s.DepthBuffer(s.AllocateRenderTarget(color))
	assert.False(t, ok)
}

func TestWorldMatrixComposesParents(t *testing.T) {
	s := scene.New(1)
	parent := s.AllocateNode()
	child := s.AllocateNode()
	s.SetParent(child, parent)
	s.SetTranslation(parent, mgl32.Vec3{1, 2, 3})
	s.SetScale(child, mgl32.Vec3{2, 2, 2})

	world := s.WorldMatrix(child)
	p := world.Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.InDelta(t, 3, p.X(), 1e-6)
	assert.InDelta(t, 2, p.Y(), 1e-6)
	assert.InDelta(t, 3, p.Z(), 1e-6)

	s.SetRotation(parent, mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 0, 1}))
	p = s.WorldMatrix(child).Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.InDelta(t, 1, p.X(), 1e-5)
	assert.InDelta(t, 4, p.Y(), 1e-5)
}

func TestChangeStampsPropagateToDescendants(t *testing.T) {
	s := scene.New(1)
	root := s.AllocateNode()
	child := s.AllocateNode()
	other := s.AllocateNode()
	s.SetParent(child, root)

	rootStamp, childStamp, otherStamp := s.ChangeStamp(root), s.ChangeStamp(child), s.ChangeStamp(other)
	s.SetTranslation(root, mgl32.Vec3{0, 1, 0})

	assert.NotEqual(t, rootStamp, s.ChangeStamp(root))
	assert.NotEqual(t, childStamp, s.ChangeStamp(child))
	assert.Equal(t, otherStamp, s.ChangeStamp(other))
}

func TestParentingCyclePanics(t *testing.T) {
	s := scene.New(1)
	a := s.AllocateNode()
	b := s.AllocateNode()
	s.SetParent(b, a)
	assert.Panics(t, func() { s.SetParent(a, b) })
}

func TestPerspectiveProjectionMatchesReference(t *testing.T) {
	s := scene.New(1)
	cam := s.AllocateCamera(scene.Perspective, s.AllocateNode())
	before := s.ProjectionStamp(cam)
	s.SetPerspective(cam, 19, 0.5, 0.1, 1500)
	s.SetViewport(cam, renderapi.Viewport{X: 15, Y: 16, Width: 17, Height: 18})
	assert.NotEqual(t, before, s.ProjectionStamp(cam))

	f := float32(1 / math.Tan(19*math.Pi/360))
	near, far := float32(0.1), float32(1500)
	expected := mgl32.Mat4{
		f / 0.5, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) / (near - far), -1,
		0, 0, 2 * far * near / (near - far), 0,
	}
	got := s.ProjectionMatrix(cam)
	for i := range expected {
		if expected[i] == 0 {
			assert.Zero(t, got[i], "element %d", i)
			continue
		}
		assert.InEpsilon(t, expected[i], got[i], 1e-7, "element %d", i)
	}
	assert.Equal(t, renderapi.Viewport{X: 15, Y: 16, Width: 17, Height: 18}, s.Camera(cam).Viewport)
}

func TestOrthographicProjection(t *testing.T) {
	s := scene.New(1)
	cam := s.AllocateCamera(scene.Orthographic, s.AllocateNode())
	s.SetFrustum(cam, scene.Frustum{Left: -2, Right: 2, Bottom: -1, Top: 1, Near: 1, Far: 11})
	got := s.ProjectionMatrix(cam)
	assert.InDelta(t, 0.5, got[0], 1e-6)
	assert.InDelta(t, 1, got[5], 1e-6)
	assert.InDelta(t, -0.2, got[10], 1e-6)
	assert.InDelta(t, -1.2, got[14], 1e-6)
}

func TestDataInstanceFields(t *testing.T) {
	s := scene.New(1)
	layout := s.AllocateDataLayout([]scene.DataField{
		{Type: scene.DataTypeVector4F, ElementCount: 1},
		{Type: scene.DataTypeTextureSampler2D, ElementCount: 1},
		{Type: scene.DataTypeMatrix44F, ElementCount: 1, Semantic: scene.SemanticModelViewProjectionMatrix},
	}, renderapi.ResourceContentHash{Low: 7})
	inst := s.AllocateDataInstance(layout)

	s.SetDataConstant(inst, 0, []mgl32.Vec4{{1, 2, 3, 4}})
	assert.Panics(t, func() { s.SetDataConstant(inst, 0, []float32{1}) })
	assert.Panics(t, func() { s.SetDataUniformBuffer(inst, 1, 0) })

	sampler := s.AllocateTextureSampler(renderapi.ResourceContentHash{Low: 9})
	s.SetDataTextureSampler(inst, 1, sampler)
	assert.Equal(t, sampler, s.ResolveField(inst, 1).Sampler)
	assert.True(t, s.DataLayout(layout).HasSemantic(scene.SemanticModelViewProjectionMatrix))
	assert.False(t, s.DataLayout(layout).HasSemantic(scene.SemanticModelBlock))

	refLayout := s.AllocateDataLayout([]scene.DataField{{Type: scene.DataTypeVector4F, ElementCount: 1}}, renderapi.ResourceContentHash{})
	ref := s.AllocateDataInstance(refLayout)
	s.SetDataConstant(ref, 0, []mgl32.Vec4{{9, 9, 9, 9}})
	s.SetDataReference(inst, 0, ref)
	assert.Equal(t, []mgl32.Vec4{{9, 9, 9, 9}}, s.ResolveField(inst, 0).Constant)
}

func TestConstantLen(t *testing.T) {
	assert.Zero(t, scene.ConstantLen(nil))
	assert.Zero(t, scene.ConstantLen([]mgl32.Vec4{}))
	assert.Zero(t, scene.ConstantLen("not a constant"))
	assert.Equal(t, 2, scene.ConstantLen([]float32{1, 2}))
	assert.Equal(t, 1, scene.ConstantLen([]mgl32.Mat3{mgl32.Ident3()}))
}

func TestEffectTimeMs(t *testing.T) {
	sync := time.Unix(50, 0)
	assert.Equal(t, int32(0), scene.EffectTimeMs(sync, sync))
	assert.Equal(t, int32(2500), scene.EffectTimeMs(sync, sync.Add(2500*time.Millisecond)))
	assert.Equal(t, int32(7000), scene.EffectTimeMs(time.Time{}, time.UnixMilli(7000)))

	wrapped := sync.Add(time.Duration(math.MaxInt32+1) * time.Millisecond)
	assert.Equal(t, int32(math.MinInt32), scene.EffectTimeMs(sync, wrapped))
}

func TestEffectTimeSyncDoesNotChangeStamps(t *testing.T) {
	s := scene.New(1)
	n := s.AllocateNode()
	cam := s.AllocateCamera(scene.Perspective, n)
	node, projection := s.ChangeStamp(n), s.ProjectionStamp(cam)
	s.SetEffectTimeSync(time.Unix(10, 0))
	s.SetActiveShaderAnimation(true)
	assert.Equal(t, node, s.ChangeStamp(n))
	assert.Equal(t, projection, s.ProjectionStamp(cam))
	assert.Equal(t, time.Unix(10, 0), s.EffectTimeSync())
	assert.True(t, s.HasActiveShaderAnimation())
}
