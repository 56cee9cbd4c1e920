package main

import (
	"time"

	"scenerender/internal/renderer/frametimer"
)

// presentReserve is kept out of the render budget for event polling and the
// buffer swap.
const presentReserve = time.Millisecond

// pacer splits time into display periods of 1/limit seconds. Each loop
// iteration owns one period: the executor renders within what is left of it
// and the loop then sleeps until it ends. A frame that does not fit is
// resumed in the next period.
type pacer struct {
	period time.Duration
	end    time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

func newPacer(limit int) *pacer {
	p := &pacer{now: time.Now, sleep: time.Sleep}
	if limit > 0 {
		p.period = time.Second / time.Duration(limit)
	}
	return p
}

// Begin opens the next period and returns the offscreen render budget for it
// in microseconds. configured caps the budget, 0 leaves it to the period.
// Without a frame cap the configured budget is used as is.
func (p *pacer) Begin(configured uint64) uint64 {
	if p.period == 0 {
		if configured == 0 {
			return frametimer.Unlimited
		}
		return configured
	}

	now := p.now()
	if p.end.IsZero() || now.Sub(p.end) > p.period {
		// a whole period was lost; restart the grid at now
		p.end = now.Add(p.period)
	} else {
		p.end = p.end.Add(p.period)
	}

	budget := uint64(max(p.end.Sub(now)-presentReserve, 0).Microseconds())
	if configured > 0 && configured < budget {
		budget = configured
	}
	return budget
}

// End blocks until the current period is over.
func (p *pacer) End() {
	if p.period == 0 {
		return
	}
	if left := p.end.Sub(p.now()); left > 0 {
		p.sleep(left)
	}
}
