// Package config reads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port        string `env:"QUESTBOARD_PORT" envDefault:"8080"`
	DBPath      string `env:"QUESTBOARD_DB_PATH" envDefault:"questboard.db"`
	LogLevel    string `env:"QUESTBOARD_LOG_LEVEL" envDefault:"info"`
	DefaultHero string `env:"QUESTBOARD_DEFAULT_HERO" envDefault:"Hero"`
	SeedRewards bool   `env:"QUESTBOARD_SEED_REWARDS" envDefault:"true"`
	// PINRateLimit caps parent PIN attempts per client per minute.
	PINRateLimit int           `env:"QUESTBOARD_PIN_RATE_LIMIT" envDefault:"10"`
	ShutdownWait time.Duration `env:"QUESTBOARD_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// Load reads an optional .env file from the working directory, then parses
// the environment. Variables already set win over the file.
func Load() (Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit dotenv path. A missing file is not an
// error.
func LoadFile(path string) (Config, error) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", path, err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.PINRateLimit < 1 {
		return Config{}, fmt.Errorf("QUESTBOARD_PIN_RATE_LIMIT must be positive, got %d", cfg.PINRateLimit)
	}
	return cfg, nil
}

func (c Config) Addr() string {
	return ":" + c.Port
}
