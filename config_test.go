package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "5175", cfg.Port)
	assert.Equal(t, "en", cfg.Language)
	assert.Equal(t, "sqlite", cfg.DictionaryBackend)
	assert.Equal(t, 2*time.Hour, cfg.SessionIdleTTL)
	assert.Empty(t, cfg.StartFile)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DICTIONARY_BACKEND", "memory")
	t.Setenv("SESSION_IDLE_TTL", "15m")
	t.Setenv("WORDS_START_FILE", "/tmp/start.txt")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "memory", cfg.DictionaryBackend)
	assert.Equal(t, 15*time.Minute, cfg.SessionIdleTTL)
	assert.Equal(t, "/tmp/start.txt", cfg.StartFile)
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	t.Setenv("DICTIONARY_BACKEND", "redis")
	_, err := loadConfig()
	assert.Error(t, err)
}

func TestBuildDictionaryMemory(t *testing.T) {
	d, stats, closeFn := buildDictionary(Config{DictionaryBackend: "memory", Language: "en"}, []string{"silk", "worm"})
	defer closeFn()
	assert.True(t, d.IsValidWord("silk", "en"))
	assert.Equal(t, map[string]int{"dictionary": 2}, stats())
}
