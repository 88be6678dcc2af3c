// apps/go-server/internal/words/sqldict.go
//
// SQLite-backed dictionary.
// Words live in the dictionary_words table (see sql/001_dictionary.sql):
//
//	dictionary_words(language TEXT, word TEXT, PRIMARY KEY(language, word))
//
// Lookups are memoized so a (word, language) pair answers the same way
// for the lifetime of the process, even if the table changes underneath.

package words

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// SQLDictionary answers IsValidWord from a database table.
type SQLDictionary struct {
	db *sql.DB

	mu    sync.RWMutex
	cache map[string]bool // language + "\x00" + word
}

// NewSQLDictionary wraps an already migrated database.
func NewSQLDictionary(db *sql.DB) *SQLDictionary {
	return &SQLDictionary{db: db, cache: make(map[string]bool)}
}

// Import inserts list under lang in one transaction. Existing rows are kept.
// Returns the number of rows actually inserted.
func (d *SQLDictionary) Import(ctx context.Context, lang string, list []string) (int, error) {
	key := CanonicalLanguage(lang)
	lower := LowerCaser(lang)
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO dictionary_words (language, word) VALUES (?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare import: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, w := range list {
		w = lower.String(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		res, err := stmt.ExecContext(ctx, key, w)
		if err != nil {
			return 0, fmt.Errorf("insert %q: %w", w, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return inserted, nil
}

// Count returns how many words are stored for lang.
func (d *SQLDictionary) Count(ctx context.Context, lang string) (int, error) {
	var n int
	err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM dictionary_words WHERE language=?`, CanonicalLanguage(lang),
	).Scan(&n)
	return n, err
}

// IsValidWord reports whether word is stored for lang.
// Query errors are logged and answered as "not a word" without being cached.
// The lock is not held during the query; the first cached answer wins.
func (d *SQLDictionary) IsValidWord(word, lang string) bool {
	key := CanonicalLanguage(lang)
	ck := key + "\x00" + word

	d.mu.RLock()
	ok, hit := d.cache[ck]
	d.mu.RUnlock()
	if hit {
		return ok
	}

	var one int
	err := d.db.QueryRow(`SELECT 1 FROM dictionary_words WHERE language=? AND word=?`, key, word).Scan(&one)
	switch {
	case err == nil:
		ok = true
	case errors.Is(err, sql.ErrNoRows):
		ok = false
	default:
		log.Error().Err(err).Str("word", word).Str("language", key).Msg("dictionary lookup")
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if prev, hit := d.cache[ck]; hit {
		return prev
	}
	d.cache[ck] = ok
	return ok
}
