package frametimer_test

import (
	"math"
	"testing"
	"time"

	"scenerender/internal/renderer/frametimer"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func newTimer() (*frametimer.Timer, *fakeClock) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	return frametimer.New(frametimer.WithClock(clock.Now)), clock
}

func TestBudgetsDefaultToUnlimited(t *testing.T) {
	timer, clock := newTimer()
	clock.advance(time.Hour)
	for s := frametimer.SceneActionsApply; s <= frametimer.OffscreenBufferRender; s++ {
		assert.Equal(t, uint64(math.MaxUint64), timer.TimeBudgetForSection(s), s.String())
		assert.False(t, timer.IsTimeBudgetExceededForSection(s), s.String())
	}
}

func TestZeroBudgetIsAlwaysExceeded(t *testing.T) {
	timer, _ := newTimer()
	timer.SetSectionTimeBudget(frametimer.OffscreenBufferRender, 0)
	timer.StartFrame()
	assert.True(t, timer.IsTimeBudgetExceededForSection(frametimer.OffscreenBufferRender))
	assert.False(t, timer.IsTimeBudgetExceededForSection(frametimer.ResourcesUpload))
}

func TestBudgetExpiresWithElapsedTime(t *testing.T) {
	timer, clock := newTimer()
	timer.SetSectionTimeBudget(frametimer.SceneResourcesUpload, 500)
	assert.Equal(t, uint64(500), timer.TimeBudgetForSection(frametimer.SceneResourcesUpload))

	timer.StartFrame()
	clock.advance(499 * time.Microsecond)
	assert.False(t, timer.IsTimeBudgetExceededForSection(frametimer.SceneResourcesUpload))

	clock.advance(time.Microsecond)
	assert.True(t, timer.IsTimeBudgetExceededForSection(frametimer.SceneResourcesUpload))
	assert.Equal(t, 500*time.Microsecond, timer.TimeSinceFrameStart())

	timer.StartFrame()
	assert.False(t, timer.IsTimeBudgetExceededForSection(frametimer.SceneResourcesUpload))
}

func TestMaxBudgetIsNeverExceeded(t *testing.T) {
	timer, clock := newTimer()
	timer.SetSectionTimeBudget(frametimer.ClientResourcesUpload, math.MaxUint64)
	clock.advance(1000 * time.Hour)
	assert.False(t, timer.IsTimeBudgetExceededForSection(frametimer.ClientResourcesUpload))
}
