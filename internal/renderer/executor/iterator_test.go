package executor_test

import (
	"testing"

	"scenerender/internal/renderer/executor"

	"github.com/stretchr/testify/assert"
)

func TestIterator(t *testing.T) {
	var it executor.Iterator
	assert.True(t, it.Done())

	it.IncrementRenderableIdx()
	it.IncrementRenderableIdx()
	assert.False(t, it.Done())
	assert.Equal(t, executor.NewIterator(0, 2, 2), it)

	it.IncrementRenderPassIdx()
	it.IncrementRenderableIdx()
	assert.Equal(t, uint32(1), it.RenderPassIdx())
	assert.Equal(t, uint32(1), it.RenderableIdx())
	assert.Equal(t, uint32(3), it.FlattenedRenderableIdx())
}
