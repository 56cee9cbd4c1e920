package profiling

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Counter names a renderer statistic.
type Counter uint8

const (
	DrawCalls Counter = iota
	SkippedRenderables
	StateChanges
	Clears
	Blits
	DepthStencilDiscards
	UniformBufferUploads
	UniformBufferUpdates
	UniformBufferUnloads
	Interruptions

	counterCount
)

var counterNames = [counterCount]string{
	"drawCalls", "skippedRenderables", "stateChanges", "clears", "blits",
	"depthStencilDiscards", "uboUploads", "uboUpdates", "uboUnloads", "interruptions",
}

func (c Counter) String() string {
	if c >= counterCount {
		return "unknown"
	}
	return counterNames[c]
}

// Collector accumulates per-frame renderer statistics. It is owned by the
// render thread and passed explicitly to the components that report into it.
// A nil *Collector ignores all calls.
type Collector struct {
	counters    [counterCount]uint64
	frameTotals map[string]time.Duration
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{frameTotals: make(map[string]time.Duration)}
}

// Add increments a counter by n.
func (c *Collector) Add(counter Counter, n uint64) {
	if c == nil {
		return
	}
	c.counters[counter] += n
}

// Inc increments a counter by one.
func (c *Collector) Inc(counter Counter) { c.Add(counter, 1) }

// Count returns the current value of a counter.
func (c *Collector) Count(counter Counter) uint64 {
	if c == nil {
		return 0
	}
	return c.counters[counter]
}

// Track returns a stop function that records the elapsed time under the given name.
// Usage: defer stats.Track("executor.Execute")()
func (c *Collector) Track(name string) func() {
	if c == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		c.frameTotals[name] += time.Since(start)
	}
}

// ResetFrame clears counters and durations. Call at the start of each frame.
func (c *Collector) ResetFrame() {
	if c == nil {
		return
	}
	c.counters = [counterCount]uint64{}
	clear(c.frameTotals)
}

// Snapshot returns a copy of current per-frame durations.
func (c *Collector) Snapshot() map[string]time.Duration {
	if c == nil {
		return nil
	}
	out := make(map[string]time.Duration, len(c.frameTotals))
	for k, v := range c.frameTotals {
		out[k] = v
	}
	return out
}

// Counters returns the non-zero counters keyed by name.
func (c *Collector) Counters() map[string]uint64 {
	out := make(map[string]uint64)
	if c == nil {
		return out
	}
	for i, v := range c.counters {
		if v != 0 {
			out[Counter(i).String()] = v
		}
	}
	return out
}

// TopN formats top N durations from the current frame totals.
// Example: "executor.Execute:4.2ms, cachedscene.Update:0.3ms"
func (c *Collector) TopN(n int) string {
	ss := c.Snapshot()
	type pair struct {
		name string
		dur  time.Duration
	}
	list := make([]pair, 0, len(ss))
	for k, v := range ss {
		list = append(list, pair{name: k, dur: v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].dur == list[j].dur {
			return list[i].name < list[j].name
		}
		return list[i].dur > list[j].dur
	})
	if n > len(list) {
		n = len(list)
	}
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ms := float64(list[i].dur.Microseconds()) / 1000.0
		parts = append(parts, list[i].name+":"+formatMs(ms))
	}
	return strings.Join(parts, ", ")
}

func formatMs(ms float64) string {
	// one decimal, .0 dropped
	return strconv.FormatFloat(float64(int64(ms*10+0.0001))/10, 'f', -1, 64) + "ms"
}
