package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/buzzboard/buzzboard/internal/game"
)

// Presenter is the presentation side of the engine. Update and Draw are
// called once per frame, in that order. Implementations turn state
// transitions into animations, audio and drawing, and report completion
// back by posting AnimationEnd/AudioEnd events into the queue.
type Presenter interface {
	Update(m *game.Machine, d *game.Data)
	Draw()
}

// Loop drives the game a frame at a time. Within one frame the order is
// fixed: poll timers, drain and dispatch queued events in arrival order,
// apply the ledger update for the new state, let the presenter observe
// the state, apply linear transitions, apply branching transitions, then
// draw. The presenter runs before the transition steps so it observes
// the short-lived dispatch-set states (ClickClue, PlayClueAudio, BuzzIn)
// that the same frame's steps immediately move past; those states are
// what tell it to start animations and audio. Timer expirations enter
// through the queue like any other event, so timeout handling shares the
// one dispatch path with user input.
type Loop struct {
	queue      *Queue
	dispatcher *Dispatcher
	machine    *game.Machine
	data       *game.Data
	presenter  Presenter

	clueTimer   *Timer
	answerTimer *Timer

	fps int
	log zerolog.Logger
}

func NewLoop(q *Queue, disp *Dispatcher, m *game.Machine, d *game.Data, p Presenter, clueTimer, answerTimer *Timer, fps int, logger zerolog.Logger) *Loop {
	if fps <= 0 {
		fps = 60
	}
	return &Loop{
		queue:       q,
		dispatcher:  disp,
		machine:     m,
		data:        d,
		presenter:   p,
		clueTimer:   clueTimer,
		answerTimer: answerTimer,
		fps:         fps,
		log:         logger,
	}
}

// Frame runs one iteration of the loop. A returned error indicates an
// internally inconsistent dispatch table or transition step, never a
// condition that occurs in normal play.
func (l *Loop) Frame() error {
	l.clueTimer.Poll()
	l.answerTimer.Poll()

	for {
		ev, ok := l.queue.Poll()
		if !ok {
			break
		}
		if err := l.dispatcher.Dispatch(ev); err != nil {
			return fmt.Errorf("dispatch %s: %w", ev.Type, err)
		}
		if l.machine.State() == game.Quit {
			return nil
		}
	}

	if err := l.data.Update(l.machine); err != nil {
		return fmt.Errorf("data update in %s: %w", l.machine.State(), err)
	}
	l.dispatcher.SyncTimers()
	l.presenter.Update(l.machine, l.data)
	if err := l.machine.StepLinear(l.data); err != nil {
		return fmt.Errorf("linear step: %w", err)
	}
	if err := l.machine.StepBranching(l.data); err != nil {
		return fmt.Errorf("branching step: %w", err)
	}

	l.presenter.Draw()
	return nil
}

// Run frames the game at the configured rate until it reaches GameEnd or
// Quit, returning the terminal state.
func (l *Loop) Run(ctx context.Context) (game.State, error) {
	ticker := time.NewTicker(time.Second / time.Duration(l.fps))
	defer ticker.Stop()

	for {
		if err := l.Frame(); err != nil {
			return l.machine.State(), err
		}
		switch l.machine.State() {
		case game.GameEnd:
			l.log.Info().Msg("game over")
			return game.GameEnd, nil
		case game.Quit:
			l.log.Info().Msg("game aborted")
			return game.Quit, nil
		}

		select {
		case <-ctx.Done():
			return l.machine.State(), ctx.Err()
		case <-ticker.C:
		}
	}
}
