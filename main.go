package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordscramble/apps/go-server/internal/game"
	"github.com/robalobadob/wordscramble/apps/go-server/internal/httpserver"
	"github.com/robalobadob/wordscramble/apps/go-server/internal/store"
	"github.com/robalobadob/wordscramble/apps/go-server/internal/words"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if isTerminal() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	corpus, err := words.LoadCorpus(cfg.StartFile, cfg.Language)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load root word list")
	}
	if len(corpus) == 0 {
		log.Warn().Str("fallback", game.FallbackRootWord).Msg("root word list is empty")
	}
	dictWords, err := words.LoadDictionary(cfg.DictionaryFile, cfg.Language)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load dictionary")
	}

	dict, stats, closeDict := buildDictionary(cfg, dictWords)
	defer closeDict()

	mem := store.NewMemoryStore()
	go pruneSessions(mem, cfg.SessionIdleTTL)

	srv := httpserver.New(mem, httpserver.Options{
		Corpus:       corpus,
		Dictionary:   dict,
		Language:     cfg.Language,
		DailySalt:    cfg.DailySalt,
		JWTSecret:    cfg.JWTSecret,
		CookieName:   cfg.CookieName,
		ClientOrigin: cfg.ClientOrigin,
		Timeout:      cfg.HTTPTimeout,
		Stats:        stats,
	})
	log.Info().Str("port", cfg.Port).Int("rootWords", len(corpus)).
		Str("dictionary", cfg.DictionaryBackend).Msg("starting go-server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// buildDictionary returns the configured dictionary, a stats reporter and a closer.
func buildDictionary(cfg Config, list []string) (game.Dictionary, func() map[string]int, func()) {
	if cfg.DictionaryBackend == "memory" {
		d := words.NewSetDictionary(cfg.Language, list)
		return d, func() map[string]int {
			return map[string]int{"dictionary": d.Len(cfg.Language)}
		}, func() {}
	}

	db, err := openDB(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	if err := migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}
	d := words.NewSQLDictionary(db)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := seedDictionary(ctx, d, cfg.Language, list); err != nil {
		log.Fatal().Err(err).Msg("seed dictionary")
	}
	stats := func() map[string]int {
		n, err := d.Count(context.Background(), cfg.Language)
		if err != nil {
			log.Warn().Err(err).Msg("count dictionary")
		}
		return map[string]int{"dictionary": n}
	}
	return d, stats, func() { _ = db.Close() }
}

// pruneSessions drops idle games every few minutes.
func pruneSessions(st store.Store, idle time.Duration) {
	if idle <= 0 {
		return
	}
	t := time.NewTicker(idle / 4)
	defer t.Stop()
	for range t.C {
		if n := st.Prune(context.Background(), idle); n > 0 {
			log.Info().Int("pruned", n).Msg("idle sessions removed")
		}
	}
}

func isTerminal() bool {
	fi, err := os.Stderr.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
