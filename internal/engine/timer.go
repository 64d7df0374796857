package engine

import "time"

// Clock returns the current time in milliseconds. Injectable so timer
// behavior is testable without sleeping.
type Clock func() int64

// WallClock is the Clock used outside of tests.
func WallClock() int64 {
	return time.Now().UnixMilli()
}

// Timer is a single-shot polled countdown. When the deadline passes it
// posts its event into the queue exactly once and disarms; it stays
// disarmed until the next Start. A length of zero or less disables the
// timer entirely: Start becomes a no-op.
type Timer struct {
	length   int64
	event    Event
	queue    *Queue
	now      Clock
	deadline int64
	armed    bool
}

func NewTimer(lengthMS int64, ev Event, q *Queue, now Clock) *Timer {
	return &Timer{length: lengthMS, event: ev, queue: q, now: now}
}

// Start arms the timer to fire lengthMS from now. Restarting a running
// timer moves its deadline.
func (t *Timer) Start() {
	if t.length <= 0 {
		return
	}
	t.deadline = t.now() + t.length
	t.armed = true
}

// Reset cancels the timer without firing.
func (t *Timer) Reset() {
	t.armed = false
}

func (t *Timer) Running() bool { return t.armed }

// Poll fires the timer's event into the queue if the deadline has
// passed. Safe to call every frame; does nothing while disarmed.
func (t *Timer) Poll() {
	if !t.armed {
		return
	}
	if t.now() >= t.deadline {
		t.armed = false
		t.queue.Post(t.event)
	}
}
