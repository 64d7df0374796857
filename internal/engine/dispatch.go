package engine

import (
	"github.com/rs/zerolog"

	"github.com/buzzboard/buzzboard/internal/game"
)

// BoardGeometry resolves a pointer position to a board cell. It is
// implemented by the presentation side, which knows the cell layout and
// which cells are still clickable.
type BoardGeometry interface {
	ClueAt(x, y int) (game.Coord, bool)
}

// Dispatcher maps queued events onto state transitions. Each event
// causes at most one transition; any (event, state) pair not in the
// table below is a no-op.
type Dispatcher struct {
	machine *game.Machine
	data    *game.Data
	board   BoardGeometry

	clueTimer   *Timer
	answerTimer *Timer

	log zerolog.Logger
}

func NewDispatcher(m *game.Machine, d *game.Data, board BoardGeometry, clueTimer, answerTimer *Timer, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		machine:     m,
		data:        d,
		board:       board,
		clueTimer:   clueTimer,
		answerTimer: answerTimer,
		log:         logger,
	}
}

// Dispatch applies ev to the machine. A returned error means the
// dispatch table and the machine disagree, which is a wiring bug, not a
// condition to recover from.
func (d *Dispatcher) Dispatch(ev Event) error {
	m := d.machine

	switch ev.Type {
	case EventQuit:
		return m.Set(game.Quit)

	case EventKey:
		return d.dispatchKey(ev)

	case EventClick:
		if m.State() != game.WaitChooseClue {
			return nil
		}
		coord, ok := d.board.ClueAt(ev.X, ev.Y)
		if !ok {
			return nil
		}
		return m.SetArg(game.ClickClue, coord)

	case EventAnimationEnd:
		switch m.State() {
		case game.WaitBoardFill:
			return m.Set(game.WaitChooseClue)
		case game.WaitClueOpen:
			return m.SetArg(game.ClueOpen, m.Arg())
		}

	case EventAnswerTimeout:
		switch m.State() {
		case game.WaitBuzzIn:
			return m.Set(game.AnswerTimeout)
		case game.WaitAnswer:
			return m.SetArg(game.AnswerIncorrect, m.Arg())
		}

	case EventAudioEnd:
		if m.State() != game.WaitClueRead {
			return nil
		}
		coord, ok := m.Arg().(game.Coord)
		if !ok {
			return nil
		}
		if d.data.Catalog.IsAudioClue(coord) {
			return m.SetArg(game.PlayClueAudio, coord)
		}
		return m.SetArg(game.StartClueTimer, game.Amount{Value: d.data.Catalog.AmountAt(coord.Row)})
	}
	return nil
}

func (d *Dispatcher) dispatchKey(ev Event) error {
	m := d.machine

	switch ev.Key {
	case KeyEndGame:
		if ev.Shift {
			return m.Set(game.Quit)
		}
		return m.Set(game.GameEnd)

	case KeyTriggerAudio:
		if m.State() == game.WaitTriggerAudio {
			return m.SetArg(game.PlayClueAudio, m.Arg())
		}

	case KeyPlayer1, KeyPlayer2, KeyPlayer3:
		if m.State() != game.WaitBuzzIn {
			return nil
		}
		player := int(ev.Key - KeyPlayer1)
		if d.data.Roster.Answered(player) {
			return nil
		}
		amount, ok := m.Arg().(game.Amount)
		if !ok {
			return nil
		}
		return m.SetArg(game.BuzzIn, game.Answer{Player: player, Amount: amount.Value})

	case KeySkip:
		if m.State() == game.WaitBuzzIn {
			return m.Set(game.AnswerTimeout)
		}

	case KeyCorrect:
		if m.State() == game.WaitAnswer {
			return m.SetArg(game.AnswerCorrect, m.Arg())
		}

	case KeyIncorrect:
		if m.State() == game.WaitAnswer {
			return m.SetArg(game.AnswerIncorrect, m.Arg())
		}
	}
	return nil
}

// SyncTimers arms and cancels the countdowns from the current state. The
// loop calls it every frame, between event dispatch and the transition
// steps, so the short-lived StartClueTimer and BuzzIn states are always
// observed. A timer never outlives the state that armed it: every exit
// path from WaitBuzzIn and WaitAnswer lands in a case below.
func (d *Dispatcher) SyncTimers() {
	s := d.machine.State()
	switch {
	case s == game.StartClueTimer:
		d.clueTimer.Start()
	case s == game.BuzzIn:
		d.clueTimer.Reset()
		d.answerTimer.Start()
	case game.IsAnswerState(s), s == game.GameEnd, s == game.Quit:
		d.clueTimer.Reset()
		d.answerTimer.Reset()
	}
}
