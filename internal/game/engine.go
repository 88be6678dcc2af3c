// apps/go-server/internal/game/engine.go
//
// Core game engine for a single Word Scramble session.
// Responsibilities:
//   - Pick a root word from the injected corpus (with a hardcoded fallback).
//   - Validate submitted words: originality, available letters, dictionary, length.
//   - Track score and used words; reset both on restart.
//
// Notes:
//   - An Engine is one session. It is not safe for concurrent use; the
//     session store serializes calls for the HTTP host.
//   - Rejections are returned as Outcome values, never as errors.
package game

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/robalobadob/wordscramble/apps/go-server/internal/words"
)

const (
	// MinWordLength is exclusive: accepted words have more runes than this.
	MinWordLength = 2

	// FallbackRootWord is used whenever the corpus yields nothing.
	FallbackRootWord = "silkworm"

	DefaultLanguage = "en"
)

// Config wires an Engine to its collaborators.
type Config struct {
	Corpus     []string   // candidate root words
	Selector   Selector   // defaults to words.NewSelector()
	Dictionary Dictionary // nil rejects every word as not real
	Language   string     // BCP 47 tag passed to the dictionary; defaults to "en"
}

// Engine owns the mutable state of one game.
type Engine struct {
	id       string
	corpus   []string
	selector Selector
	dict     Dictionary
	lang     string
	lower    cases.Caser

	started   bool
	rootWord  string
	usedWords []string // most recent first
	score     int
	last      *Outcome

	observers []func(Snapshot)
}

// New constructs an Engine in the NotStarted state.
// Call Start before presenting the root word.
func New(cfg Config) *Engine {
	tag := language.English
	if cfg.Language != "" {
		if t, err := language.Parse(cfg.Language); err == nil {
			tag = t
		} else {
			log.Warn().Str("language", cfg.Language).Err(err).Msg("unknown language tag, using en")
		}
	}
	sel := cfg.Selector
	if sel == nil {
		sel = words.NewSelector()
	}
	dict := cfg.Dictionary
	if dict == nil {
		dict = DictionaryFunc(func(string, string) bool { return false })
	}
	return &Engine{
		id:        uuid.NewString(),
		corpus:    cfg.Corpus,
		selector:  sel,
		dict:      dict,
		lang:      tag.String(),
		lower:     cases.Lower(tag),
		usedWords: []string{},
	}
}

// Start selects a fresh root word and clears score and history.
// It never fails: an empty corpus or selector error falls back to FallbackRootWord.
func (e *Engine) Start() {
	root, err := e.selector.Select(e.corpus)
	root = e.lower.String(strings.TrimSpace(root))
	if err != nil || root == "" {
		log.Warn().Err(err).Str("gameId", e.id).Str("fallback", FallbackRootWord).Msg("root word selection failed")
		root = FallbackRootWord
	}
	e.rootWord = root
	e.usedWords = []string{}
	e.score = 0
	e.last = nil
	e.started = true
	e.notify()
}

// Restart is equivalent to Start.
func (e *Engine) Restart() { e.Start() }

// Submit runs a candidate word through the validation pipeline.
//
// Order (first failure wins):
//  1. blank after normalization → Ignored (no state change)
//  2. already used              → ReasonDuplicateWord
//  3. not spellable from root   → ReasonLettersNotAvailable
//  4. not in dictionary         → ReasonNotARealWord
//  5. MinWordLength runes or fewer → ReasonTooShort
//
// Otherwise the word is prepended to the used list and score grows by one.
func (e *Engine) Submit(raw string) Outcome {
	word := e.normalize(raw)
	if word == "" {
		return Outcome{Status: StatusIgnored, Score: e.score}
	}
	if !e.started {
		e.Start()
	}

	var out Outcome
	switch {
	case !e.isOriginal(word):
		out = e.reject(word, ReasonDuplicateWord)
	case !e.isPossible(word):
		out = e.reject(word, ReasonLettersNotAvailable)
	case !e.dict.IsValidWord(word, e.lang):
		out = e.reject(word, ReasonNotARealWord)
	case !isLonger(word, MinWordLength):
		out = e.reject(word, ReasonTooShort)
	default:
		e.score++
		e.usedWords = slices.Insert(e.usedWords, 0, word)
		out = Outcome{Status: StatusAccepted, Word: word, Score: e.score}
	}

	e.last = &out
	e.notify()
	return out
}

func (e *Engine) reject(word string, r Reason) Outcome {
	return Outcome{Status: StatusRejected, Word: word, Score: e.score, Reason: r}
}

// normalize trims surrounding whitespace and lowercases for the engine's language.
func (e *Engine) normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	return e.lower.String(s)
}

func (e *Engine) isOriginal(word string) bool {
	return !slices.Contains(e.usedWords, word)
}

// isPossible consumes one root letter per word letter; repeated letters
// need repeated occurrences in the root.
func (e *Engine) isPossible(word string) bool {
	pool := []rune(e.rootWord)
	for _, r := range word {
		i := slices.Index(pool, r)
		if i < 0 {
			return false
		}
		pool = slices.Delete(pool, i, i+1)
	}
	return true
}

func isLonger(word string, n int) bool {
	return utf8.RuneCountInString(word) > n
}

// Observe registers fn to receive a Snapshot after every state change.
// fn runs synchronously on the caller's goroutine and must not call back
// into the engine.
func (e *Engine) Observe(fn func(Snapshot)) {
	if fn != nil {
		e.observers = append(e.observers, fn)
	}
}

func (e *Engine) notify() {
	if len(e.observers) == 0 {
		return
	}
	snap := e.Snapshot()
	for _, fn := range e.observers {
		fn(snap)
	}
}

// --- read accessors ---

func (e *Engine) ID() string       { return e.id }
func (e *Engine) RootWord() string { return e.rootWord }
func (e *Engine) Score() int       { return e.score }
func (e *Engine) Started() bool    { return e.started }
func (e *Engine) Language() string { return e.lang }

// UsedWords returns a copy of the accepted words, most recent first.
func (e *Engine) UsedWords() []string { return slices.Clone(e.usedWords) }

// Last returns the most recent accepted or rejected outcome, if any.
func (e *Engine) Last() (Outcome, bool) {
	if e.last == nil {
		return Outcome{}, false
	}
	return *e.last, true
}

// Snapshot copies the current state for presentation.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		ID:        e.id,
		RootWord:  e.rootWord,
		Score:     e.score,
		UsedWords: slices.Clone(e.usedWords),
		Started:   e.started,
		Language:  e.lang,
	}
	if e.last != nil {
		last := *e.last
		s.Last = &last
		if last.Rejected() {
			s.Title, s.Message = last.Reason.Title(), last.Reason.Message()
		}
	}
	return s
}
