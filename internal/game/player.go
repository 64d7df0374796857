package game

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// NumPlayers is fixed: the board has exactly three podia.
const NumPlayers = 3

var ErrInvalidIndex = errors.New("player index out of range")

// ScoreError reports an attempt to assign a score that cannot be coerced
// to an integer. It carries the offending player and raw value for
// diagnostics.
type ScoreError struct {
	Player string
	Value  any
}

func (e *ScoreError) Error() string {
	return fmt.Sprintf("player %q: score must be an integer or coercible to one, got %T(%v)", e.Player, e.Value, e.Value)
}

// Player is one contestant or team.
type Player struct {
	name        string
	score       int
	hasAnswered bool
}

func (p *Player) Name() string      { return p.name }
func (p *Player) Score() int        { return p.score }
func (p *Player) HasAnswered() bool { return p.hasAnswered }

// Roster holds the game's players. Scores and answered flags are mutated
// only from the event loop goroutine.
type Roster struct {
	players [NumPlayers]Player
}

// NewRoster builds exactly NumPlayers players from names. Missing names
// are filled in as "Player N"; extras are dropped with a warning.
func NewRoster(names []string, logger zerolog.Logger) *Roster {
	if len(names) > NumPlayers {
		logger.Warn().Int("given", len(names)).Int("kept", NumPlayers).
			Msg("too many player names, extras ignored")
		names = names[:NumPlayers]
	}
	r := &Roster{}
	for i := 0; i < NumPlayers; i++ {
		if i < len(names) {
			r.players[i] = Player{name: names[i]}
		} else {
			r.players[i] = Player{name: "Player " + strconv.Itoa(i+1)}
		}
	}
	return r
}

// Player returns the player at index i.
func (r *Roster) Player(i int) (*Player, error) {
	if i < 0 || i >= NumPlayers {
		return nil, fmt.Errorf("%w: %d", ErrInvalidIndex, i)
	}
	return &r.players[i], nil
}

// AddScore adds amount (which may be negative) to player i's score.
func (r *Roster) AddScore(i, amount int) error {
	p, err := r.Player(i)
	if err != nil {
		return err
	}
	p.score += amount
	return nil
}

// SetScore assigns player i's score from any integer-coercible value:
// integer kinds, whole floats, and numeric strings all work.
func (r *Roster) SetScore(i int, v any) error {
	p, err := r.Player(i)
	if err != nil {
		return err
	}
	n, ok := coerceScore(v)
	if !ok {
		return &ScoreError{Player: p.name, Value: v}
	}
	p.score = n
	return nil
}

func coerceScore(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		if uint64(n) > math.MaxInt {
			return 0, false
		}
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		if n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	case float32:
		return coerceScore(float64(n))
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

// FormatScore renders player i's score as "$N", or "-$N" for negative
// scores: the sign precedes the currency symbol.
func (r *Roster) FormatScore(i int) (string, error) {
	p, err := r.Player(i)
	if err != nil {
		return "", err
	}
	neg := ""
	score := p.score
	if score < 0 {
		neg = "-"
		score = -score
	}
	return fmt.Sprintf("%s$%d", neg, score), nil
}

// Answered reports whether player i has already attempted the current
// clue. Out-of-range indices report true so callers never hand the buzzer
// to a player that does not exist.
func (r *Roster) Answered(i int) bool {
	if i < 0 || i >= NumPlayers {
		return true
	}
	return r.players[i].hasAnswered
}

// MarkAnswered sets player i's answered flag for the current clue.
func (r *Roster) MarkAnswered(i int) error {
	p, err := r.Player(i)
	if err != nil {
		return err
	}
	p.hasAnswered = true
	return nil
}

// ClearAnswered resets every answered flag, called when a clue round ends.
func (r *Roster) ClearAnswered() {
	for i := range r.players {
		r.players[i].hasAnswered = false
	}
}

// AllAnswered reports whether every player has attempted the current clue.
func (r *Roster) AllAnswered() bool {
	for i := range r.players {
		if !r.players[i].hasAnswered {
			return false
		}
	}
	return true
}

// Winner is one entry of the final standings.
type Winner struct {
	Index int
	Name  string
}

// Winners returns the player(s) holding the highest score. Ties keep all
// tied players.
func (r *Roster) Winners() []Winner {
	high := r.players[0].score
	for i := 1; i < NumPlayers; i++ {
		if r.players[i].score > high {
			high = r.players[i].score
		}
	}
	var out []Winner
	for i := range r.players {
		if r.players[i].score == high {
			out = append(out, Winner{Index: i, Name: r.players[i].name})
		}
	}
	return out
}
