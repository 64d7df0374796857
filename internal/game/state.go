package game

import (
	"fmt"

	"github.com/rs/zerolog"
)

// State is one step of a game. The zero value is BoardFill, the state a
// fresh game starts in.
type State int

const (
	BoardFill State = iota
	WaitBoardFill
	WaitChooseClue
	ClickClue
	WaitClueOpen
	ClueOpen
	WaitClueRead
	WaitTriggerAudio
	PlayClueAudio
	StartClueTimer
	WaitBuzzIn
	BuzzIn
	WaitAnswer
	AnswerCorrect
	AnswerIncorrect
	AnswerTimeout
	AnswerNone
	Delay
	GameEnd
	Quit
)

var stateNames = [...]string{
	"BoardFill",
	"WaitBoardFill",
	"WaitChooseClue",
	"ClickClue",
	"WaitClueOpen",
	"ClueOpen",
	"WaitClueRead",
	"WaitTriggerAudio",
	"PlayClueAudio",
	"StartClueTimer",
	"WaitBuzzIn",
	"BuzzIn",
	"WaitAnswer",
	"AnswerCorrect",
	"AnswerIncorrect",
	"AnswerTimeout",
	"AnswerNone",
	"Delay",
	"GameEnd",
	"Quit",
}

func (s State) String() string {
	if s < BoardFill || s > Quit {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// IsAnswerState reports whether s is one of the answer-resolution states.
func IsAnswerState(s State) bool {
	switch s {
	case AnswerCorrect, AnswerIncorrect, AnswerTimeout, AnswerNone:
		return true
	}
	return false
}

// Arg is the payload attached to a state. Each variant carries exactly the
// fields its consumers read; a bare transition carries nil.
type Arg interface {
	isArg()
}

// Coord addresses one board cell as (category column, amount row).
type Coord struct {
	Col int
	Row int
}

// Amount is a dollar value at stake, carried through the buzz-in states.
type Amount struct {
	Value int
}

// Answer pairs the player attempting an answer with the amount at stake.
type Answer struct {
	Player int
	Amount int
}

func (Coord) isArg()  {}
func (Amount) isArg() {}
func (Answer) isArg() {}

// SelfTransitionPolicy decides what setting the machine to its current
// state does. The default treats it as a silent no-op; strict mode turns
// it into a StateTransitionError, which is useful to surface dispatcher
// wiring bugs during development.
type SelfTransitionPolicy int

const (
	SelfTransitionNoop SelfTransitionPolicy = iota
	SelfTransitionError
)

// StateSetError reports an attempt to set the machine to a value outside
// the defined states. The machine is left unchanged.
type StateSetError struct {
	Value State
}

func (e *StateSetError) Error() string {
	return fmt.Sprintf("no state with value %d; use the named State constants", int(e.Value))
}

// StateTransitionError reports a re-entrant transition under the strict
// self-transition policy.
type StateTransitionError struct {
	State State
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("transition to current state %s", e.State)
}

// Machine holds the current game state, the previous state, and the
// payload supplied with the last transition. It is owned by the event
// loop goroutine and is not safe for concurrent use.
type Machine struct {
	state    State
	previous State
	hasPrev  bool
	arg      Arg
	policy   SelfTransitionPolicy
	log      zerolog.Logger
}

// NewMachine returns a machine in the BoardFill state with no previous
// state and no payload.
func NewMachine(logger zerolog.Logger, policy SelfTransitionPolicy) *Machine {
	return &Machine{
		state:  BoardFill,
		policy: policy,
		log:    logger,
	}
}

func (m *Machine) State() State { return m.state }

// Previous returns the state before the last successful transition. The
// second return is false until the first transition happens.
func (m *Machine) Previous() (State, bool) { return m.previous, m.hasPrev }

// Arg returns the payload set with the current state, or nil if the
// current state was entered without one.
func (m *Machine) Arg() Arg { return m.arg }

// Set transitions to s and clears the payload.
func (m *Machine) Set(s State) error { return m.apply(s, nil) }

// SetArg transitions to s and attaches arg in the same step, so consumers
// never observe a state without its payload.
func (m *Machine) SetArg(s State, arg Arg) error { return m.apply(s, arg) }

func (m *Machine) apply(s State, arg Arg) error {
	if s < BoardFill || s > Quit {
		return &StateSetError{Value: s}
	}
	if s == m.state {
		if m.policy == SelfTransitionError {
			return &StateTransitionError{State: s}
		}
		// Silent no-op: state, previous and payload all keep their values.
		return nil
	}
	m.previous = m.state
	m.hasPrev = true
	m.state = s
	m.arg = arg
	m.log.Debug().Stringer("from", m.previous).Stringer("to", s).Msg("state change")
	return nil
}

// StepLinear applies the transitions that always fire immediately and
// have a single successor. It is a no-op unless the current state is one
// of the linear sources. Transitions triggered by events, or whose next
// state branches on data, happen elsewhere.
func (m *Machine) StepLinear(data *Data) error {
	switch m.state {
	case BoardFill:
		return m.Set(WaitBoardFill)

	case ClickClue:
		return m.SetArg(WaitClueOpen, m.arg)

	case StartClueTimer:
		return m.SetArg(WaitBuzzIn, m.arg)

	case PlayClueAudio:
		coord, err := m.coordArg()
		if err != nil {
			return err
		}
		return m.SetArg(WaitBuzzIn, Amount{Value: data.Catalog.AmountAt(coord.Row)})

	case BuzzIn:
		return m.SetArg(WaitAnswer, m.arg)

	case AnswerCorrect:
		return m.Set(Delay)

	case AnswerNone, AnswerTimeout, Delay:
		return m.Set(WaitChooseClue)
	}
	return nil
}

// StepBranching applies the transitions whose successor depends on clue
// metadata or on the players' answered flags.
func (m *Machine) StepBranching(data *Data) error {
	switch m.state {
	case ClueOpen:
		coord, err := m.coordArg()
		if err != nil {
			return err
		}
		switch {
		case data.Catalog.HasReading(coord):
			return m.SetArg(WaitClueRead, coord)
		case data.Catalog.IsAudioClue(coord):
			return m.SetArg(WaitTriggerAudio, coord)
		default:
			return m.SetArg(StartClueTimer, Amount{Value: data.Catalog.AmountAt(coord.Row)})
		}

	case AnswerIncorrect:
		if data.Roster.AllAnswered() {
			return m.Set(AnswerNone)
		}
		ans, err := m.answerArg()
		if err != nil {
			return err
		}
		return m.SetArg(StartClueTimer, Amount{Value: ans.Amount})
	}
	return nil
}

func (m *Machine) coordArg() (Coord, error) {
	coord, ok := m.arg.(Coord)
	if !ok {
		return Coord{}, fmt.Errorf("state %s: expected coordinate payload, have %T", m.state, m.arg)
	}
	return coord, nil
}

func (m *Machine) answerArg() (Answer, error) {
	ans, ok := m.arg.(Answer)
	if !ok {
		return Answer{}, fmt.Errorf("state %s: expected answer payload, have %T", m.state, m.arg)
	}
	return ans, nil
}
