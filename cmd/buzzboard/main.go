package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zerologlog "github.com/rs/zerolog/log"

	"github.com/buzzboard/buzzboard/internal/config"
	"github.com/buzzboard/buzzboard/internal/engine"
	"github.com/buzzboard/buzzboard/internal/game"
	"github.com/buzzboard/buzzboard/internal/loader"
	"github.com/buzzboard/buzzboard/internal/web"
)

const version = "v1.0.0-dev"

// Startup flags. Arguments map onto these fixed values; anything
// unrecognized is ignored.
type startFlag int

const (
	flagFullscreen startFlag = iota
	flagWindowed
	flagDebug
	flagSkipIntro
)

var flagWords = map[string]startFlag{
	"fullscreen": flagFullscreen,
	"windowed":   flagWindowed,
	"debug":      flagDebug,
	"skip-intro": flagSkipIntro,
}

func parseFlags(args []string, logger zerolog.Logger) map[startFlag]bool {
	flags := make(map[startFlag]bool)
	for _, arg := range args {
		word := strings.TrimLeft(arg, "-")
		if word == "help" {
			usage()
			os.Exit(0)
		}
		if word == "version" {
			fmt.Printf("buzzboard %s\n", version)
			os.Exit(0)
		}
		f, ok := flagWords[word]
		if !ok {
			logger.Warn().Str("arg", arg).Msg("unrecognized argument ignored")
			continue
		}
		flags[f] = true
	}
	return flags
}

func usage() {
	fmt.Printf(`Buzzboard - trivia game presentation engine

Usage: %s [flags]

Flags:
  fullscreen   Ask clients to present fullscreen
  windowed     Ask clients to present windowed
  debug        Enable debug logging
  skip-intro   Skip the intro sequence
  help         Show this help message
  version      Show version information

Environment Variables:
  HTTP_ADDR              Listen address (default: :8080)
  DATA_DIR               Game data directory (default: data)
  FPS                    Frame rate of the game loop (default: 60)
  CLUE_TIMEOUT_MS        Buzz-in window in ms, <=0 disables (default: 0)
  ANSWER_TIME_MS         Answer window in ms, must be positive (default: 8000)
  SUBTRACT_ON_INCORRECT  Deduct points on wrong answers (default: true)

Visit http://localhost:8080 after starting to open the board.
`, os.Args[0])
}

func main() {
	// zerolog setup (human-friendly console)
	zerolog.TimeFieldFormat = time.RFC3339
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerologlog.Output(cw)
	zerologlog.Logger = logger

	flags := parseFlags(os.Args[1:], logger)
	level := zerolog.InfoLevel
	if flags[flagDebug] {
		level = zerolog.DebugLevel
	}
	logger = logger.Level(level)
	zerologlog.Logger = logger

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("bad configuration")
	}

	catalog, names, err := loader.Load(cfg.DataDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("loading game data")
	}

	roster := game.NewRoster(names, logger)
	data := &game.Data{
		Roster:              roster,
		Catalog:             catalog,
		SubtractOnIncorrect: cfg.SubtractOnIncorrect,
	}

	policy := game.SelfTransitionNoop
	if flags[flagDebug] {
		policy = game.SelfTransitionError
	}
	machine := game.NewMachine(logger, policy)

	queue := engine.NewQueue(256, logger)
	clueTimer := engine.NewTimer(cfg.ClueTimeoutMS,
		engine.Event{Type: engine.EventAnswerTimeout}, queue, engine.WallClock)
	answerTimer := engine.NewTimer(cfg.AnswerTimeMS,
		engine.Event{Type: engine.EventAnswerTimeout}, queue, engine.WallClock)

	bridge := web.New(queue, data, logger)
	dispatcher := engine.NewDispatcher(machine, data, bridge, clueTimer, answerTimer, logger)
	loop := engine.NewLoop(queue, dispatcher, machine, data, bridge, clueTimer, answerTimer, cfg.FPS, logger)

	// Gin setup with custom logger (skip /socket.io noise)
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/socket.io") {
			return
		}
		logger.Info().Str("path", path).Int("status", c.Writer.Status()).
			Dur("dur", time.Since(start)).Msg("http")
	})

	io := bridge.Mount(r)
	defer io.Close()

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("listening")
		if err := r.Run(cfg.HTTPAddr); err != nil {
			logger.Fatal().Err(err).Msg("http server")
		}
	}()

	logger.Info().
		Bool("fullscreen", flags[flagFullscreen] && !flags[flagWindowed]).
		Bool("skipIntro", flags[flagSkipIntro]).
		Int("categories", catalog.NumCategories()).
		Int("rows", catalog.NumRows()).
		Msg("game ready")

	final, err := loop.Run(context.Background())
	if err != nil {
		logger.Fatal().Err(err).Msg("game loop")
	}

	if final == game.GameEnd {
		for _, w := range roster.Winners() {
			text, _ := roster.FormatScore(w.Index)
			logger.Info().Str("player", w.Name).Str("score", text).Msg("winner")
		}
	}
}
