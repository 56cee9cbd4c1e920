package statetracker_test

import (
	"testing"

	"scenerender/internal/renderapi"
	"scenerender/internal/renderer/statetracker"

	"github.com/stretchr/testify/assert"
)

func TestTrackerReportsFirstSetAsChange(t *testing.T) {
	var tr statetracker.Tracker[int]
	tr.SetState(0)
	assert.True(t, tr.HasChanged())
	assert.Equal(t, 0, tr.State())
}

func TestTrackerDetectsValueChanges(t *testing.T) {
	var tr statetracker.Tracker[renderapi.DepthFunc]
	steps := []struct {
		value   renderapi.DepthFunc
		changed bool
	}{
		{renderapi.DepthFuncLess, true},
		{renderapi.DepthFuncLess, false},
		{renderapi.DepthFuncGreater, true},
		{renderapi.DepthFuncGreater, false},
		{renderapi.DepthFuncLess, true},
	}
	for i, s := range steps {
		tr.SetState(s.value)
		assert.Equal(t, s.changed, tr.HasChanged(), "step %d", i)
		assert.Equal(t, s.value, tr.State(), "step %d", i)
	}
}

func TestTrackerComparesStructsByValue(t *testing.T) {
	var tr statetracker.Tracker[renderapi.Scissor]
	region := renderapi.ScissorRegion{X: 1, Y: 2, Width: 3, Height: 4}

	tr.SetState(renderapi.Scissor{Test: renderapi.ScissorTestEnabled, Region: region})
	assert.True(t, tr.HasChanged())

	tr.SetState(renderapi.Scissor{Test: renderapi.ScissorTestEnabled, Region: region})
	assert.False(t, tr.HasChanged())

	region.Width = 10
	tr.SetState(renderapi.Scissor{Test: renderapi.ScissorTestEnabled, Region: region})
	assert.True(t, tr.HasChanged())
}

func TestTrackerResetForcesChange(t *testing.T) {
	var tr statetracker.Tracker[renderapi.DeviceHandle]
	tr.SetState(5)
	tr.SetState(5)
	assert.False(t, tr.HasChanged())

	tr.Reset()
	tr.SetState(5)
	assert.True(t, tr.HasChanged())

	tr.SetState(5)
	assert.False(t, tr.HasChanged())
}
