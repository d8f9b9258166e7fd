// Package timer schedules a single deferred callback per game code.
//
// Two registry instances back the game runtime: one for turn timeouts, one
// for round restarts. A callback carries no authority of its own; by the
// time it fires the game may have moved on, so the dispatch layer re-fetches
// state and re-validates stage and subject before acting.
package timer

import (
	"sync"
	"time"
)

type entry struct {
	subjectID string
	deadline  time.Time
	timer     *time.Timer
}

// Registry holds at most one pending callback per game code. Starting a new
// timer for a code replaces any existing one.
type Registry struct {
	mu     sync.Mutex
	clock  func() time.Time
	timers map[string]*entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		clock:  time.Now,
		timers: make(map[string]*entry),
	}
}

// Start schedules fn to run once after delay, replacing any pending timer
// for the code. It returns the deadline the callback will fire at. The
// subject ID records who the timer concerns (the player on the clock, or
// empty for round restarts) and can be read back with Subject.
func (r *Registry) Start(code, subjectID string, delay time.Duration, fn func()) time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.timers[code]; ok {
		existing.timer.Stop()
		delete(r.timers, code)
	}

	e := &entry{
		subjectID: subjectID,
		deadline:  r.clock().UTC().Add(delay),
	}
	e.timer = time.AfterFunc(delay, func() {
		// A replacement or cancellation may have lost the race with the
		// runtime firing; only the still-registered entry may proceed.
		r.mu.Lock()
		current, ok := r.timers[code]
		if !ok || current != e {
			r.mu.Unlock()
			return
		}
		delete(r.timers, code)
		r.mu.Unlock()

		fn()
	})
	r.timers[code] = e
	return e.deadline
}

// Cancel stops any pending timer for the code and reports whether one was
// active.
func (r *Registry) Cancel(code string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.timers[code]
	if !ok {
		return false
	}
	e.timer.Stop()
	delete(r.timers, code)
	return true
}

// Deadline reports when the pending timer for the code fires, if any.
func (r *Registry) Deadline(code string) (time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.timers[code]
	if !ok {
		return time.Time{}, false
	}
	return e.deadline, true
}

// Subject reports who the pending timer for the code concerns, if any.
func (r *Registry) Subject(code string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.timers[code]
	if !ok {
		return "", false
	}
	return e.subjectID, true
}

// Stop cancels every pending timer. Used during process shutdown.
func (r *Registry) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for code, e := range r.timers {
		e.timer.Stop()
		delete(r.timers, code)
	}
}
