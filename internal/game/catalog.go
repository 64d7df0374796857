package game

import (
	"errors"
	"fmt"
)

var (
	ErrNoCategories = errors.New("no categories")
	ErrNoAmounts    = errors.New("no amounts")
)

// Clue is the content behind one board cell. Empty text is allowed; the
// media references are optional and empty when absent.
type Clue struct {
	Lines        []string
	Image        string
	AudioReading string // pre-recorded reading of the clue text
	AudioClue    string // the clue itself is a sound
}

// Catalog is the immutable category × amount lookup table built once at
// game start.
type Catalog struct {
	categories []string
	amounts    []int
	clues      [][]Clue // [category][row]
}

// NewCatalog maps the flat clue list (all of category 0's clues first,
// then category 1's, and so on) onto a 2D table. The clue count must be
// exactly len(categories) * len(amounts), and every amount must be a
// positive integer.
func NewCatalog(categories []string, amounts []int, clues []Clue) (*Catalog, error) {
	if len(categories) == 0 {
		return nil, ErrNoCategories
	}
	if len(amounts) == 0 {
		return nil, ErrNoAmounts
	}
	for i, a := range amounts {
		if a <= 0 {
			return nil, fmt.Errorf("amount at row %d must be positive, got %d", i, a)
		}
	}
	if len(clues) != len(categories)*len(amounts) {
		return nil, fmt.Errorf("have %d clues, need %d (%d categories x %d amounts)",
			len(clues), len(categories)*len(amounts), len(categories), len(amounts))
	}

	rows := len(amounts)
	mapped := make([][]Clue, len(categories))
	for c := range categories {
		mapped[c] = clues[c*rows : (c+1)*rows]
	}
	return &Catalog{categories: categories, amounts: amounts, clues: mapped}, nil
}

// Categories returns the category titles in board order.
func (c *Catalog) Categories() []string {
	out := make([]string, len(c.categories))
	copy(out, c.categories)
	return out
}

// Amounts returns the dollar value of each row, top to bottom.
func (c *Catalog) Amounts() []int {
	out := make([]int, len(c.amounts))
	copy(out, c.amounts)
	return out
}

func (c *Catalog) NumCategories() int { return len(c.categories) }
func (c *Catalog) NumRows() int       { return len(c.amounts) }

// Contains reports whether coord addresses a cell on the board.
func (c *Catalog) Contains(coord Coord) bool {
	return coord.Col >= 0 && coord.Col < len(c.categories) &&
		coord.Row >= 0 && coord.Row < len(c.amounts)
}

// ClueAt returns the clue at coord. The second return is false off the
// board.
func (c *Catalog) ClueAt(coord Coord) (Clue, bool) {
	if !c.Contains(coord) {
		return Clue{}, false
	}
	return c.clues[coord.Col][coord.Row], true
}

// AmountAt returns the dollar value of row, or 0 off the board.
func (c *Catalog) AmountAt(row int) int {
	if row < 0 || row >= len(c.amounts) {
		return 0
	}
	return c.amounts[row]
}

// HasReading reports whether the clue at coord has a pre-recorded
// reading. Absence is normal, not an error.
func (c *Catalog) HasReading(coord Coord) bool {
	clue, ok := c.ClueAt(coord)
	return ok && clue.AudioReading != ""
}

// IsAudioClue reports whether the clue at coord is itself a sound.
func (c *Catalog) IsAudioClue(coord Coord) bool {
	clue, ok := c.ClueAt(coord)
	return ok && clue.AudioClue != ""
}
