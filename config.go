package main

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is read from the environment (and an optional .env file).
type Config struct {
	Port         string `env:"PORT" envDefault:"5175"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	ClientOrigin string `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	JWTSecret    string `env:"JWT_SECRET" envDefault:"dev_secret_change_me"`
	CookieName   string `env:"COOKIE_NAME" envDefault:"wordscramble_token"`

	// Word lists; empty means the embedded defaults.
	StartFile      string `env:"WORDS_START_FILE"`
	DictionaryFile string `env:"WORDS_DICTIONARY_FILE"`
	Language       string `env:"DICTIONARY_LANGUAGE" envDefault:"en"`

	// DictionaryBackend is "sqlite" or "memory".
	DictionaryBackend string `env:"DICTIONARY_BACKEND" envDefault:"sqlite"`
	DBPath            string `env:"DB_PATH" envDefault:"./data/wordscramble.db"`

	DailySalt      string        `env:"DAILY_SALT" envDefault:"local_dev_salt"`
	SessionIdleTTL time.Duration `env:"SESSION_IDLE_TTL" envDefault:"2h"`
	HTTPTimeout    time.Duration `env:"HTTP_TIMEOUT" envDefault:"10s"`
}

// loadConfig loads .env (if present) and parses the environment.
func loadConfig() (Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	switch cfg.DictionaryBackend {
	case "sqlite", "memory":
	default:
		return Config{}, fmt.Errorf("DICTIONARY_BACKEND must be sqlite or memory, got %q", cfg.DictionaryBackend)
	}
	return cfg, nil
}
