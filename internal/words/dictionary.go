// apps/go-server/internal/words/dictionary.go
//
// In-memory dictionary keyed by language.
// Satisfies game.Dictionary without importing the game package.

package words

import (
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SetDictionary is a set of known words per language.
// Safe for concurrent use; lookups take a read lock.
type SetDictionary struct {
	mu    sync.RWMutex
	words map[string]map[string]struct{} // language -> word set
}

// NewSetDictionary builds a dictionary holding list under lang.
func NewSetDictionary(lang string, list []string) *SetDictionary {
	d := &SetDictionary{words: make(map[string]map[string]struct{})}
	d.Add(lang, list...)
	return d
}

// Add registers words under lang, lowercased by lang's casing rules.
func (d *SetDictionary) Add(lang string, list ...string) {
	key := CanonicalLanguage(lang)
	lower := LowerCaser(lang)
	d.mu.Lock()
	defer d.mu.Unlock()
	set, ok := d.words[key]
	if !ok {
		set = make(map[string]struct{}, len(list))
		d.words[key] = set
	}
	for _, w := range list {
		if w = lower.String(strings.TrimSpace(w)); w != "" {
			set[w] = struct{}{}
		}
	}
}

// IsValidWord reports whether word is known in lang.
func (d *SetDictionary) IsValidWord(word, lang string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.words[CanonicalLanguage(lang)][word]
	return ok
}

// Len returns the number of words known in lang.
func (d *SetDictionary) Len(lang string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.words[CanonicalLanguage(lang)])
}

// CanonicalLanguage normalizes a language tag ("EN", "en" → "en").
// Unparseable tags are lowercased as-is so lookups stay consistent.
func CanonicalLanguage(lang string) string {
	lang = strings.TrimSpace(lang)
	if t, err := language.Parse(lang); err == nil {
		return t.String()
	}
	return strings.ToLower(lang)
}

// LowerCaser returns a lowercasing Caser for lang, the same rules the game
// engine applies to submissions. Unparseable tags get the root locale.
// A Caser is stateful; use one per goroutine.
func LowerCaser(lang string) cases.Caser {
	t, err := language.Parse(strings.TrimSpace(lang))
	if err != nil {
		t = language.Und
	}
	return cases.Lower(t)
}
