package engine

import (
	"fmt"

	"github.com/rs/zerolog"
)

// EventType tags the events the loop consumes. User input, timer expiry
// and media-completion reports all travel through the same queue and are
// distinguished only by this tag.
type EventType int

const (
	EventQuit EventType = iota
	EventKey
	EventClick
	EventAnimationEnd
	EventAnswerTimeout
	EventAudioEnd
)

var eventNames = [...]string{
	"Quit",
	"Key",
	"Click",
	"AnimationEnd",
	"AnswerTimeout",
	"AudioEnd",
}

func (t EventType) String() string {
	if t < EventQuit || t > EventAudioEnd {
		return fmt.Sprintf("EventType(%d)", int(t))
	}
	return eventNames[t]
}

// Key identifies the game keys the dispatcher reacts to.
type Key int

const (
	KeyNone Key = iota
	KeyEndGame
	KeyTriggerAudio
	KeyPlayer1
	KeyPlayer2
	KeyPlayer3
	KeySkip
	KeyCorrect
	KeyIncorrect
)

// Event is one queued input or system signal.
type Event struct {
	Type  EventType
	Key   Key
	Shift bool // modifier for the end-game key
	X, Y  int  // pointer position for EventClick
}

// Queue is the single funnel for every event the loop consumes. Post is
// safe from any goroutine; draining happens only on the loop goroutine.
type Queue struct {
	ch  chan Event
	log zerolog.Logger
}

func NewQueue(size int, logger zerolog.Logger) *Queue {
	return &Queue{ch: make(chan Event, size), log: logger}
}

// Post enqueues ev without blocking. Events are dropped with a warning
// if the queue is full, which only happens when the loop has stalled.
func (q *Queue) Post(ev Event) {
	select {
	case q.ch <- ev:
	default:
		q.log.Warn().Stringer("type", ev.Type).Msg("event queue full, dropping event")
	}
}

// Poll removes and returns the oldest queued event. The second return is
// false when the queue is empty.
func (q *Queue) Poll() (Event, bool) {
	select {
	case ev := <-q.ch:
		return ev, true
	default:
		return Event{}, false
	}
}
