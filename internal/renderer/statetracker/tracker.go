package statetracker

// Tracker caches the last value of a piece of pipeline state and reports
// whether the most recent SetState changed it.
type Tracker[T comparable] struct {
	state   T
	changed bool
	primed  bool
}

// SetState stores v and updates the changed flag.
func (t *Tracker[T]) SetState(v T) {
	t.changed = !t.primed || v != t.state
	t.state = v
	t.primed = true
}

// HasChanged reports whether the last SetState was the first one since
// construction or Reset, or stored a different value.
func (t *Tracker[T]) HasChanged() bool {
	return t.changed
}

// State returns the last stored value.
func (t *Tracker[T]) State() T {
	return t.state
}

// Reset makes the next SetState report a change regardless of the value.
func (t *Tracker[T]) Reset() {
	t.primed = false
	t.changed = false
}
