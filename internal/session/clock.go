package session

import "sync/atomic"

// Clock is the session's monotonic revision counter.
//
// Every dispatched action gets a strictly increasing revision, and each
// persisted snapshot is stamped with it. The store refuses writes whose
// revision is not newer than the stored one, so fire-and-forget writes
// that land out of order can never roll progress back.
//
// Thread-safety: safe for concurrent use (atomic operations), although
// dispatch itself is serialized by the session mutex.
type Clock struct {
	rev atomic.Int64
}

// NewClock creates a clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock starting at a specific revision.
// Used when resuming a session from a stored save slot.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.rev.Store(start)
	return c
}

// Next returns the next revision and increments the clock.
func (c *Clock) Next() int64 {
	return c.rev.Add(1)
}

// Current returns the current revision without incrementing.
func (c *Clock) Current() int64 {
	return c.rev.Load()
}
