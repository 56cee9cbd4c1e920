package profiling_test

import (
	"testing"
	"time"

	"scenerender/internal/profiling"

	"github.com/stretchr/testify/assert"
)

func TestCountersAccumulateAndReset(t *testing.T) {
	c := profiling.NewCollector()
	c.Inc(profiling.DrawCalls)
	c.Inc(profiling.DrawCalls)
	c.Add(profiling.UniformBufferUpdates, 5)

	assert.Equal(t, uint64(2), c.Count(profiling.DrawCalls))
	assert.Equal(t, map[string]uint64{"drawCalls": 2, "uboUpdates": 5}, c.Counters())

	c.ResetFrame()
	assert.Zero(t, c.Count(profiling.DrawCalls))
	assert.Empty(t, c.Counters())
}

func TestNilCollectorIsInert(t *testing.T) {
	var c *profiling.Collector
	c.Inc(profiling.Clears)
	c.Track("x")()
	c.ResetFrame()
	assert.Zero(t, c.Count(profiling.Clears))
	assert.Empty(t, c.TopN(3))
}

func TestTrackRecordsDurations(t *testing.T) {
	c := profiling.NewCollector()
	stop := c.Track("executor.Execute")
	time.Sleep(2 * time.Millisecond)
	stop()

	snap := c.Snapshot()
	assert.GreaterOrEqual(t, snap["executor.Execute"], 2*time.Millisecond)
	assert.Contains(t, c.TopN(1), "executor.Execute:")
}

func TestTopNOrdersByDuration(t *testing.T) {
	c := profiling.NewCollector()
	c.Track("fast")()
	stop := c.Track("slow")
	time.Sleep(3 * time.Millisecond)
	stop()

	top := c.TopN(5)
	assert.Regexp(t, `^slow:\d+(\.\d)?ms, fast:`, top)
}
