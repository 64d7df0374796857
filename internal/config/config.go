package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the runtime settings consumed by the engine and the web
// bridge. Everything comes from the environment; cmd/buzzboard loads a
// .env file first so a data pack can ship its own settings.
type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
	DataDir  string `env:"DATA_DIR" envDefault:"data"`
	FPS      int    `env:"FPS" envDefault:"60"`

	// ClueTimeoutMS bounds how long players have to buzz in after a clue
	// opens. Zero or negative disables the countdown.
	ClueTimeoutMS int64 `env:"CLUE_TIMEOUT_MS" envDefault:"0"`

	// AnswerTimeMS bounds how long a buzzed-in player has to answer.
	AnswerTimeMS int64 `env:"ANSWER_TIME_MS" envDefault:"8000"`

	SubtractOnIncorrect bool `env:"SUBTRACT_ON_INCORRECT" envDefault:"true"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.AnswerTimeMS <= 0 {
		return nil, fmt.Errorf("ANSWER_TIME_MS must be positive, got %d", cfg.AnswerTimeMS)
	}
	if cfg.FPS <= 0 {
		return nil, fmt.Errorf("FPS must be positive, got %d", cfg.FPS)
	}
	return &cfg, nil
}
