package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/buzzboard/buzzboard/internal/engine"
	"github.com/buzzboard/buzzboard/static"
)

var keyNames = map[string]engine.Key{
	"end":     engine.KeyEndGame,
	"trigger": engine.KeyTriggerAudio,
	"player1": engine.KeyPlayer1,
	"player2": engine.KeyPlayer2,
	"player3": engine.KeyPlayer3,
	"skip":    engine.KeySkip,
	"correct": engine.KeyCorrect,
	"wrong":   engine.KeyIncorrect,
}

// Mount attaches the Socket.IO server and the HTTP surface to the given
// Gin engine. Handlers only translate client messages into engine events
// and post them; they never touch game state directly.
func (srv *Server) Mount(r *gin.Engine) *socketio.Server {
	io := socketio.NewServer(nil)
	srv.io = io

	io.OnConnect("/", func(s socketio.Conn) error {
		s.Join(room)
		connectedClients.Inc()
		srv.log.Info().Str("sid", s.ID()).Msg("client connected")

		srv.mu.RLock()
		snap := srv.snapshot
		srv.mu.RUnlock()
		s.Emit("board:state", snap)
		return nil
	})

	io.OnDisconnect("/", func(s socketio.Conn, reason string) {
		connectedClients.Dec()
		srv.log.Info().Str("sid", s.ID()).Str("reason", reason).Msg("client disconnected")
	})

	io.OnError("/", func(s socketio.Conn, err error) {
		srv.log.Warn().Err(err).Msg("socket error")
	})

	// input:key carries operator keys and player buzzers.
	io.OnEvent("/", "input:key", func(s socketio.Conn, payload struct {
		Key   string `json:"key"`
		Shift bool   `json:"shift"`
	}) {
		key, ok := keyNames[payload.Key]
		if !ok {
			srv.log.Debug().Str("key", payload.Key).Msg("unknown key ignored")
			return
		}
		eventsTotal.WithLabelValues("input:key").Inc()
		srv.queue.Post(engine.Event{Type: engine.EventKey, Key: key, Shift: payload.Shift})
	})

	// input:click reports a clue cell clicked on the board view.
	io.OnEvent("/", "input:click", func(s socketio.Conn, payload struct {
		Col int `json:"col"`
		Row int `json:"row"`
	}) {
		eventsTotal.WithLabelValues("input:click").Inc()
		srv.queue.Post(engine.Event{Type: engine.EventClick, X: payload.Col, Y: payload.Row})
	})

	// report:animation means a client finished the requested animation.
	io.OnEvent("/", "report:animation", func(s socketio.Conn) {
		eventsTotal.WithLabelValues("report:animation").Inc()
		srv.queue.Post(engine.Event{Type: engine.EventAnimationEnd})
	})

	// report:audio means a client finished playing the requested sound.
	io.OnEvent("/", "report:audio", func(s socketio.Conn) {
		eventsTotal.WithLabelValues("report:audio").Inc()
		srv.queue.Post(engine.Event{Type: engine.EventAudioEnd})
	})

	// game:quit aborts from the operator console.
	io.OnEvent("/", "game:quit", func(s socketio.Conn) {
		eventsTotal.WithLabelValues("game:quit").Inc()
		srv.queue.Post(engine.Event{Type: engine.EventQuit})
	})

	go func() {
		if err := io.Serve(); err != nil {
			srv.log.Error().Err(err).Msg("socket.io serve")
		}
	}()

	r.GET("/socket.io/*any", gin.WrapH(io))
	r.POST("/socket.io/*any", gin.WrapH(io))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/api/state", func(c *gin.Context) {
		srv.mu.RLock()
		snap := srv.snapshot
		srv.mu.RUnlock()
		c.JSON(http.StatusOK, snap)
	})

	r.NoRoute(func(c *gin.Context) {
		static.Handler().ServeHTTP(c.Writer, c.Request)
	})

	return io
}
