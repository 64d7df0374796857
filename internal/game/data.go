package game

// Data bundles the mutable player ledger with the immutable clue
// catalog. This and Machine are the two interfaces between the event
// loop and the game logic.
type Data struct {
	Roster  *Roster
	Catalog *Catalog

	// SubtractOnIncorrect controls whether an incorrect answer costs the
	// player the clue's amount.
	SubtractOnIncorrect bool
}

// Update applies the ledger effects of the machine's current state. The
// loop calls it once per frame, after event dispatch and before the
// transition steps.
func (d *Data) Update(m *Machine) error {
	switch m.State() {
	case AnswerCorrect:
		ans, err := m.answerArg()
		if err != nil {
			return err
		}
		d.Roster.ClearAnswered()
		return d.Roster.AddScore(ans.Player, ans.Amount)

	case AnswerTimeout, AnswerNone:
		d.Roster.ClearAnswered()

	case AnswerIncorrect:
		ans, err := m.answerArg()
		if err != nil {
			return err
		}
		if err := d.Roster.MarkAnswered(ans.Player); err != nil {
			return err
		}
		if d.SubtractOnIncorrect {
			return d.Roster.AddScore(ans.Player, -ans.Amount)
		}
	}
	return nil
}
