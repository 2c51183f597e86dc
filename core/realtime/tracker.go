package realtime

import "sync"

// responseTracker records whether a response is in flight. Each method is
// atomic so check-then-set sequences cannot interleave.
type responseTracker struct {
	mu     sync.Mutex
	active bool
}

// tryBegin marks a response active unless one already is. It reports
// whether the caller should request a new response.
func (t *responseTracker) tryBegin() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active {
		return false
	}
	t.active = true
	return true
}

func (t *responseTracker) begin() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active = true
}

func (t *responseTracker) end() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active = false
}

// takeActive clears the active flag and reports whether it was set.
func (t *responseTracker) takeActive() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	wasActive := t.active
	t.active = false
	return wasActive
}

func (t *responseTracker) isActive() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}
