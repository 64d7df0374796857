package game

import (
	"testing"
)

func TestDataUpdateAnswerCorrect(t *testing.T) {
	data := testData(t)
	m := newTestMachine(SelfTransitionNoop)

	data.Roster.MarkAnswered(0)
	m.SetArg(AnswerCorrect, Answer{Player: 1, Amount: 400})
	if err := data.Update(m); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	p, _ := data.Roster.Player(1)
	if p.Score() != 400 {
		t.Fatalf("expected score 400, got %d", p.Score())
	}
	if data.Roster.Answered(0) {
		t.Fatal("a correct answer ends the round and clears answered flags")
	}
}

func TestDataUpdateAnswerIncorrectSubtracts(t *testing.T) {
	data := testData(t)
	m := newTestMachine(SelfTransitionNoop)

	m.SetArg(AnswerIncorrect, Answer{Player: 2, Amount: 200})
	if err := data.Update(m); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	p, _ := data.Roster.Player(2)
	if p.Score() != -200 {
		t.Fatalf("expected score -200, got %d", p.Score())
	}
	if !data.Roster.Answered(2) {
		t.Fatal("an incorrect answer marks the player answered")
	}
}

func TestDataUpdateAnswerIncorrectNoSubtract(t *testing.T) {
	data := testData(t)
	data.SubtractOnIncorrect = false
	m := newTestMachine(SelfTransitionNoop)

	m.SetArg(AnswerIncorrect, Answer{Player: 2, Amount: 200})
	if err := data.Update(m); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	p, _ := data.Roster.Player(2)
	if p.Score() != 0 {
		t.Fatalf("score should be unchanged, got %d", p.Score())
	}
	if !data.Roster.Answered(2) {
		t.Fatal("the player is still marked answered")
	}
}

func TestDataUpdateTimeoutClearsFlags(t *testing.T) {
	data := testData(t)
	m := newTestMachine(SelfTransitionNoop)

	data.Roster.MarkAnswered(0)
	data.Roster.MarkAnswered(1)
	m.Set(AnswerTimeout)
	if err := data.Update(m); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if data.Roster.Answered(0) || data.Roster.Answered(1) {
		t.Fatal("timeout ends the round and clears answered flags")
	}
}

func TestDataUpdateIgnoresOtherStates(t *testing.T) {
	data := testData(t)
	m := newTestMachine(SelfTransitionNoop)

	m.SetArg(WaitBuzzIn, Amount{Value: 400})
	if err := data.Update(m); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	for i := 0; i < NumPlayers; i++ {
		p, _ := data.Roster.Player(i)
		if p.Score() != 0 {
			t.Fatalf("player %d score should be untouched, got %d", i, p.Score())
		}
	}
}
