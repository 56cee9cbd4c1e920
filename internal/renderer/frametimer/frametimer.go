package frametimer

import (
	"math"
	"time"
)

// Section names a budgeted phase of a renderer frame.
type Section uint8

const (
	SceneActionsApply Section = iota
	ResourcesUpload
	ClientResourcesUpload
	SceneResourcesUpload
	OffscreenBufferRender

	sectionCount
)

func (s Section) String() string {
	switch s {
	case SceneActionsApply:
		return "SceneActionsApply"
	case ResourcesUpload:
		return "ResourcesUpload"
	case ClientResourcesUpload:
		return "ClientResourcesUpload"
	case SceneResourcesUpload:
		return "SceneResourcesUpload"
	case OffscreenBufferRender:
		return "OffscreenBufferRender"
	default:
		return "Unknown"
	}
}

// Unlimited is the budget of a section that never runs out.
const Unlimited = math.MaxUint64

// Timer measures wall-clock time since the frame start against per-section budgets.
type Timer struct {
	now        func() time.Time
	frameStart time.Time
	budgets    [sectionCount]uint64
}

// Option configures a Timer.
type Option func(*Timer)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(t *Timer) { t.now = now }
}

// New returns a timer with unlimited budgets whose frame starts now.
func New(opts ...Option) *Timer {
	t := &Timer{now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	for i := range t.budgets {
		t.budgets[i] = Unlimited
	}
	t.frameStart = t.now()
	return t
}

// StartFrame marks the beginning of a new frame.
func (t *Timer) StartFrame() {
	t.frameStart = t.now()
}

// SetSectionTimeBudget sets the budget of a section in microseconds.
func (t *Timer) SetSectionTimeBudget(s Section, micros uint64) {
	t.budgets[s] = micros
}

// TimeBudgetForSection returns the budget of a section in microseconds.
func (t *Timer) TimeBudgetForSection(s Section) uint64 {
	return t.budgets[s]
}

// TimeSinceFrameStart returns the elapsed time of the current frame.
func (t *Timer) TimeSinceFrameStart() time.Duration {
	return t.now().Sub(t.frameStart)
}

// IsTimeBudgetExceededForSection reports whether the frame ran at least as
// long as the section's budget.
func (t *Timer) IsTimeBudgetExceededForSection(s Section) bool {
	budget := t.budgets[s]
	if budget == Unlimited {
		return false
	}
	elapsed := t.TimeSinceFrameStart().Microseconds()
	if elapsed < 0 {
		elapsed = 0
	}
	return uint64(elapsed) >= budget
}
