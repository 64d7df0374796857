package web

import (
	"sync"
	"time"

	"github.com/google/uuid"
	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/zerolog"

	"github.com/buzzboard/buzzboard/internal/engine"
	"github.com/buzzboard/buzzboard/internal/game"
)

const room = "board"

// Server bridges the engine to browser clients over Socket.IO. It is the
// game's Presenter: after every frame it snapshots machine and ledger,
// and broadcasts when something changed. Clients render the board, run
// the requested animations and audio, and report completion back; those
// reports and all operator input are funneled into the engine queue, so
// the loop goroutine stays the only mutator of game state.
type Server struct {
	queue *engine.Queue
	data  *game.Data
	log   zerolog.Logger

	session string
	io      *socketio.Server

	mu        sync.RWMutex
	snapshot  Snapshot
	opened    map[game.Coord]bool
	dirty     bool
	lastFrame time.Time
}

// PlayerView is the client-facing slice of one podium.
type PlayerView struct {
	Index       int    `json:"index"`
	Name        string `json:"name"`
	Score       int    `json:"score"`
	ScoreText   string `json:"scoreText"`
	HasAnswered bool   `json:"hasAnswered"`
}

// ClueView is the content of the currently open clue, if any.
type ClueView struct {
	Col       int      `json:"col"`
	Row       int      `json:"row"`
	Lines     []string `json:"lines"`
	Image     string   `json:"image,omitempty"`
	AudioClue string   `json:"audioClue,omitempty"`
	Reading   string   `json:"reading,omitempty"`
}

// Snapshot is the full board state pushed to clients.
type Snapshot struct {
	Session    string       `json:"session"`
	State      string       `json:"state"`
	Previous   string       `json:"previous,omitempty"`
	Players    []PlayerView `json:"players"`
	Categories []string     `json:"categories"`
	Amounts    []int        `json:"amounts"`
	Opened     [][2]int     `json:"opened"`
	Clue       *ClueView    `json:"clue,omitempty"`
	Player     int          `json:"player"` // buzzed-in player, -1 when none
	Amount     int          `json:"amount"` // amount at stake, 0 when none
}

func New(q *engine.Queue, d *game.Data, logger zerolog.Logger) *Server {
	return &Server{
		queue:   q,
		data:    d,
		log:     logger,
		session: uuid.NewString(),
		opened:  make(map[game.Coord]bool),
	}
}

// ClueAt implements engine.BoardGeometry. Clients send cell coordinates
// directly; a cell is clickable while on the board and not yet played.
func (srv *Server) ClueAt(x, y int) (game.Coord, bool) {
	coord := game.Coord{Col: x, Row: y}
	if !srv.data.Catalog.Contains(coord) {
		return game.Coord{}, false
	}
	srv.mu.RLock()
	played := srv.opened[coord]
	srv.mu.RUnlock()
	if played {
		return game.Coord{}, false
	}
	return coord, true
}

// Update implements engine.Presenter. Runs on the loop goroutine,
// before the frame's transition steps, so it observes the dispatch-set
// states (ClickClue, PlayClueAudio) the steps immediately move past.
func (srv *Server) Update(m *game.Machine, d *game.Data) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	now := time.Now()
	if !srv.lastFrame.IsZero() {
		frameDuration.Observe(now.Sub(srv.lastFrame).Seconds())
	}
	srv.lastFrame = now

	if m.State() == game.ClickClue {
		if coord, ok := m.Arg().(game.Coord); ok {
			srv.opened[coord] = true
		}
	}

	next := srv.buildSnapshot(m, d)
	if !snapshotsEqual(srv.snapshot, next) {
		srv.snapshot = next
		srv.dirty = true
		transitionsTotal.WithLabelValues(next.State).Inc()
	}
}

// Draw implements engine.Presenter, broadcasting the snapshot to the
// board room when Update changed it.
func (srv *Server) Draw() {
	srv.mu.Lock()
	if !srv.dirty {
		srv.mu.Unlock()
		return
	}
	srv.dirty = false
	snap := srv.snapshot
	srv.mu.Unlock()

	if srv.io != nil {
		srv.io.BroadcastToRoom("/", room, "board:state", snap)
	}
}

func (srv *Server) buildSnapshot(m *game.Machine, d *game.Data) Snapshot {
	snap := Snapshot{
		Session:    srv.session,
		State:      m.State().String(),
		Categories: d.Catalog.Categories(),
		Amounts:    d.Catalog.Amounts(),
		Opened:     make([][2]int, 0, len(srv.opened)),
		Player:     -1,
	}
	if prev, ok := m.Previous(); ok {
		snap.Previous = prev.String()
	}
	for coord := range srv.opened {
		snap.Opened = append(snap.Opened, [2]int{coord.Col, coord.Row})
	}
	for i := 0; i < game.NumPlayers; i++ {
		p, _ := d.Roster.Player(i)
		text, _ := d.Roster.FormatScore(i)
		snap.Players = append(snap.Players, PlayerView{
			Index:       i,
			Name:        p.Name(),
			Score:       p.Score(),
			ScoreText:   text,
			HasAnswered: p.HasAnswered(),
		})
	}
	switch arg := m.Arg().(type) {
	case game.Coord:
		if clue, ok := d.Catalog.ClueAt(arg); ok {
			snap.Clue = &ClueView{
				Col:       arg.Col,
				Row:       arg.Row,
				Lines:     clue.Lines,
				Image:     clue.Image,
				AudioClue: clue.AudioClue,
				Reading:   clue.AudioReading,
			}
		}
	case game.Amount:
		snap.Amount = arg.Value
	case game.Answer:
		snap.Player = arg.Player
		snap.Amount = arg.Amount
	}
	return snap
}

func snapshotsEqual(a, b Snapshot) bool {
	// State, previous state, scores, answered flags and opened count
	// cover every change a frame can produce.
	if a.State != b.State || a.Previous != b.Previous ||
		a.Player != b.Player || a.Amount != b.Amount ||
		len(a.Opened) != len(b.Opened) || len(a.Players) != len(b.Players) {
		return false
	}
	for i := range a.Players {
		if a.Players[i] != b.Players[i] {
			return false
		}
	}
	return true
}
