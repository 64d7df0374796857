package engine

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/buzzboard/buzzboard/internal/game"
)

type recordingPresenter struct {
	states []game.State
	draws  int
}

func (p *recordingPresenter) Update(m *game.Machine, d *game.Data) {
	p.states = append(p.states, m.State())
}

func (p *recordingPresenter) Draw() { p.draws++ }

func newLoopFixture(t *testing.T) (*fixture, *Loop, *recordingPresenter) {
	t.Helper()
	f := newFixture(t)
	p := &recordingPresenter{}
	loop := NewLoop(f.queue, f.dispatcher, f.machine, f.data, p, f.clueTimer, f.answerTimer, 60, zerolog.Nop())
	return f, loop, p
}

func frame(t *testing.T, l *Loop) {
	t.Helper()
	if err := l.Frame(); err != nil {
		t.Fatalf("frame failed: %v", err)
	}
}

func TestLoopClueSelectionScenario(t *testing.T) {
	f, loop, _ := newLoopFixture(t)
	f.machine.Set(game.WaitChooseClue)

	// A valid click lands in ClickClue and the same frame's linear step
	// carries the coordinate into WaitClueOpen.
	f.queue.Post(Event{Type: EventClick, X: 1, Y: 2})
	frame(t, loop)
	if f.machine.State() != game.WaitClueOpen {
		t.Fatalf("expected %s, got %s", game.WaitClueOpen, f.machine.State())
	}
	if coord, ok := f.machine.Arg().(game.Coord); !ok || coord != (game.Coord{Col: 1, Row: 2}) {
		t.Fatalf("coordinate should survive the linear step, got %v", f.machine.Arg())
	}

	// The open animation completes; (1,2) is a plain text clue, so the
	// branching step queues up the clue timer with row 2's amount.
	f.queue.Post(Event{Type: EventAnimationEnd})
	frame(t, loop)
	if f.machine.State() != game.StartClueTimer {
		t.Fatalf("expected %s, got %s", game.StartClueTimer, f.machine.State())
	}
	if amt, ok := f.machine.Arg().(game.Amount); !ok || amt.Value != 600 {
		t.Fatalf("expected amount 600, got %v", f.machine.Arg())
	}

	// Next frame arms the timer and opens the buzz-in window.
	frame(t, loop)
	if f.machine.State() != game.WaitBuzzIn {
		t.Fatalf("expected %s, got %s", game.WaitBuzzIn, f.machine.State())
	}
	if !f.clueTimer.Running() {
		t.Fatal("clue timer should be armed during WaitBuzzIn")
	}
}

func TestLoopBuzzAndScoreScenario(t *testing.T) {
	f, loop, _ := newLoopFixture(t)
	f.machine.SetArg(game.WaitBuzzIn, game.Amount{Value: 400})

	f.queue.Post(Event{Type: EventKey, Key: KeyPlayer2})
	frame(t, loop)
	if f.machine.State() != game.WaitAnswer {
		t.Fatalf("expected %s, got %s", game.WaitAnswer, f.machine.State())
	}
	if ans, ok := f.machine.Arg().(game.Answer); !ok || ans != (game.Answer{Player: 1, Amount: 400}) {
		t.Fatalf("expected answer payload (1, 400), got %v", f.machine.Arg())
	}
	if !f.answerTimer.Running() {
		t.Fatal("answer timer should be armed during WaitAnswer")
	}

	f.queue.Post(Event{Type: EventKey, Key: KeyCorrect})
	frame(t, loop)
	if f.machine.State() != game.Delay {
		t.Fatalf("expected %s, got %s", game.Delay, f.machine.State())
	}
	p, _ := f.data.Roster.Player(1)
	if p.Score() != 400 {
		t.Fatalf("expected player 1 score 400, got %d", p.Score())
	}
	if f.answerTimer.Running() {
		t.Fatal("answer timer should be canceled after resolution")
	}

	frame(t, loop)
	if f.machine.State() != game.WaitChooseClue {
		t.Fatalf("expected %s, got %s", game.WaitChooseClue, f.machine.State())
	}
}

func TestLoopClueTimeoutScenario(t *testing.T) {
	f, loop, _ := newLoopFixture(t)
	f.machine.SetArg(game.StartClueTimer, game.Amount{Value: 200})

	frame(t, loop) // arms the clue timer, moves to WaitBuzzIn
	if f.machine.State() != game.WaitBuzzIn {
		t.Fatalf("expected %s, got %s", game.WaitBuzzIn, f.machine.State())
	}

	f.now = 4999
	frame(t, loop)
	if f.machine.State() != game.WaitBuzzIn {
		t.Fatalf("timer fired early, got %s", f.machine.State())
	}

	// The expiry posts a timeout event through the same queue as input,
	// and the same frame resolves it through to WaitChooseClue.
	f.now = 5001
	frame(t, loop)
	if f.machine.State() != game.WaitChooseClue {
		t.Fatalf("expected %s after timeout, got %s", game.WaitChooseClue, f.machine.State())
	}
	if f.clueTimer.Running() {
		t.Fatal("clue timer should be disarmed after firing")
	}
}

func TestLoopIncorrectAnswerRetry(t *testing.T) {
	f, loop, _ := newLoopFixture(t)
	f.machine.SetArg(game.WaitAnswer, game.Answer{Player: 0, Amount: 200})

	f.queue.Post(Event{Type: EventKey, Key: KeyIncorrect})
	frame(t, loop)
	// Player 0 is marked answered and penalized; the clue goes back to
	// the timer for the remaining players.
	if f.machine.State() != game.StartClueTimer {
		t.Fatalf("expected %s, got %s", game.StartClueTimer, f.machine.State())
	}
	p, _ := f.data.Roster.Player(0)
	if p.Score() != -200 {
		t.Fatalf("expected score -200, got %d", p.Score())
	}
	if !f.data.Roster.Answered(0) {
		t.Fatal("player 0 should be locked out")
	}

	frame(t, loop)
	if f.machine.State() != game.WaitBuzzIn {
		t.Fatalf("expected %s, got %s", game.WaitBuzzIn, f.machine.State())
	}

	// Player 0 cannot buzz again; player 1 can.
	f.queue.Post(Event{Type: EventKey, Key: KeyPlayer1})
	f.queue.Post(Event{Type: EventKey, Key: KeyPlayer2})
	frame(t, loop)
	if f.machine.State() != game.WaitAnswer {
		t.Fatalf("expected %s, got %s", game.WaitAnswer, f.machine.State())
	}
	if ans, ok := f.machine.Arg().(game.Answer); !ok || ans.Player != 1 {
		t.Fatalf("player 1 should hold the buzzer, got %v", f.machine.Arg())
	}
}

func TestLoopQuitStopsFrame(t *testing.T) {
	f, loop, p := newLoopFixture(t)
	f.machine.Set(game.WaitChooseClue)

	f.queue.Post(Event{Type: EventQuit})
	f.queue.Post(Event{Type: EventClick, X: 0, Y: 0}) // never processed
	frame(t, loop)
	if f.machine.State() != game.Quit {
		t.Fatalf("expected %s, got %s", game.Quit, f.machine.State())
	}
	if len(p.states) != 0 {
		t.Fatal("a quitting frame should not reach the presenter")
	}
}

func TestLoopPresenterSeesDispatchStates(t *testing.T) {
	f, loop, p := newLoopFixture(t)
	f.machine.Set(game.WaitChooseClue)

	// The click lands in ClickClue and the same frame's linear step moves
	// on, but the presenter must still observe ClickClue: it is what
	// starts the open animation and marks the cell as played.
	f.queue.Post(Event{Type: EventClick, X: 1, Y: 2})
	frame(t, loop)
	if len(p.states) != 1 || p.states[0] != game.ClickClue {
		t.Fatalf("presenter should observe ClickClue, saw %v", p.states)
	}
	if f.machine.State() != game.WaitClueOpen {
		t.Fatalf("expected %s after the frame, got %s", game.WaitClueOpen, f.machine.State())
	}

	// Same for PlayClueAudio: the audio only starts if a frame surfaces
	// the state before it collapses into WaitBuzzIn.
	f.machine.SetArg(game.WaitTriggerAudio, game.Coord{Col: 1, Row: 0})
	f.queue.Post(Event{Type: EventKey, Key: KeyTriggerAudio})
	frame(t, loop)
	if p.states[len(p.states)-1] != game.PlayClueAudio {
		t.Fatalf("presenter should observe PlayClueAudio, saw %s", p.states[len(p.states)-1])
	}
	if f.machine.State() != game.WaitBuzzIn {
		t.Fatalf("expected %s after the frame, got %s", game.WaitBuzzIn, f.machine.State())
	}
}

func TestLoopPresenterCalledEachFrame(t *testing.T) {
	f, loop, p := newLoopFixture(t)
	f.machine.Set(game.WaitChooseClue)

	frame(t, loop)
	frame(t, loop)
	if len(p.states) != 2 || p.draws != 2 {
		t.Fatalf("expected 2 presenter updates and draws, got %d/%d", len(p.states), p.draws)
	}
}
