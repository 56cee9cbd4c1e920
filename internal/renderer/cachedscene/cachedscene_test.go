package cachedscene_test

import (
	"testing"

	"scenerender/internal/renderapi"
	"scenerender/internal/renderer/cachedscene"
	"scenerender/internal/renderer/executor"
	"scenerender/internal/renderer/recorder"
	"scenerender/internal/scene"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ executor.Scene = (*cachedscene.Scene)(nil)

func TestUpdateFrameUploadsAndExposesDeviceHandles(t *testing.T) {
	s := scene.New(3)
	cam := s.AllocateCamera(scene.Perspective, s.AllocateNode())
	pass := s.AllocateRenderPass(cam)
	group := s.AllocateRenderGroup()
	s.AddGroupToPass(pass, group, 0)
	layout := s.AllocateDataLayout([]scene.DataField{
		{Type: scene.DataTypeUniformBuffer, ElementCount: 1, Semantic: scene.SemanticModelCameraBlock},
	}, renderapi.ResourceContentHash{Low: 1})
	r := s.AllocateRenderable(s.AllocateNode())
	s.SetRenderableDataInstance(r, scene.UniformsSlot, s.AllocateDataInstance(layout))
	s.AddRenderableToGroup(group, r, 0)

	cs := cachedscene.New(s, cachedscene.WithDecayCount(1))
	rm := recorder.NewResourceManager()
	mc := renderapi.ModelCameraBufferHandle(r, cam)
	assert.Equal(t, renderapi.InvalidDeviceHandle, cs.SemanticUniformBufferDeviceHandle(mc))

	cs.UpdateFrame(rm)
	require.Len(t, rm.OpsOf(recorder.OpUpload), 2)
	assert.True(t, cs.SemanticUniformBufferDeviceHandle(mc).IsValid())
	assert.True(t, cs.SemanticUniformBufferDeviceHandle(renderapi.CameraBufferHandle(cam)).IsValid())
	assert.False(t, cs.SemanticUniformBufferDeviceHandle(renderapi.ModelBufferHandle(r)).IsValid())
	assert.Equal(t, 1, cs.Cache(renderapi.SemanticModelCamera).Len())
	assert.Zero(t, cs.Cache(renderapi.SemanticModel).Len())

	// with a decay count of one, a single changed frame evicts unused entries
	s.SetRenderPassEnabled(pass, false)
	other := s.AllocateRenderPass(cam)
	otherGroup := s.AllocateRenderGroup()
	s.AddGroupToPass(other, otherGroup, 0)
	r2 := s.AllocateRenderable(s.AllocateNode())
	s.SetRenderableDataInstance(r2, scene.UniformsSlot, s.AllocateDataInstance(layout))
	s.AddRenderableToGroup(otherGroup, r2, 0)
	cs.UpdateFrame(rm)

	assert.Equal(t, []recorder.BufferOp{{Kind: recorder.OpUnload, Handle: mc, Scene: 3}}, rm.OpsOf(recorder.OpUnload))
	assert.False(t, cs.SemanticUniformBufferDeviceHandle(mc).IsValid())
}
