// apps/go-server/internal/words/words.go
//
// Word list loading and root word selection.
//
// Responsibilities:
//   - Load the root word corpus and the dictionary word list from files or
//     fall back to embedded defaults.
//   - Pick a root word uniformly at random (Selector).
//
// Word Lists:
//   - "start":      candidate root words, one per line.
//   - "dictionary": words accepted as real, one per line.
//
// Constraints:
//   • Entries are trimmed and lowercased with the list language's rules.
//   • Blank lines, '#' comments and entries with non-letters are dropped.

package words

import (
	"bufio"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	mrand "math/rand/v2"
	"os"
	"strings"
	"unicode"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"

	"github.com/robalobadob/wordscramble/apps/go-server/assets"
)

// ErrEmptyCorpus is returned when there is nothing to select from.
var ErrEmptyCorpus = errors.New("words: corpus is empty")

// LoadCorpus reads candidate root words in lang from path, or the embedded
// start list when path is empty.
func LoadCorpus(path, lang string) ([]string, error) {
	if path == "" {
		return normalizeLines(strings.NewReader(assets.StartWords), LowerCaser(lang))
	}
	return readWordFile(path, lang)
}

// LoadDictionary reads dictionary words in lang from path, or the embedded
// default dictionary when path is empty.
func LoadDictionary(path, lang string) ([]string, error) {
	if path == "" {
		return normalizeLines(strings.NewReader(assets.DictionaryWords), LowerCaser(lang))
	}
	return readWordFile(path, lang)
}

// readWordFile loads one word per line from a file.
func readWordFile(path, lang string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word list: %w", err)
	}
	defer f.Close()
	out, err := normalizeLines(f, LowerCaser(lang))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return out, nil
}

// normalizeLines keeps lowercase alphabetic words, one per line.
func normalizeLines(r io.Reader, lower cases.Caser) ([]string, error) {
	out := []string{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		w := lower.String(strings.TrimSpace(sc.Text()))
		if w == "" || strings.HasPrefix(w, "#") || !isAlpha(w) {
			continue
		}
		out = append(out, w)
	}
	return out, sc.Err()
}

// isAlpha reports whether s is made of letters only.
func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// Selector picks a root word uniformly at random.
// Every call draws independently; nothing is cached between calls.
type Selector struct {
	intn func(n int) int
}

// NewSelector returns a Selector backed by crypto/rand.
func NewSelector() *Selector {
	return &Selector{intn: cryptoIntn}
}

// NewSeededSelector returns a reproducible Selector for tests and replays.
func NewSeededSelector(seed uint64) *Selector {
	r := mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return &Selector{intn: r.IntN}
}

// Select returns one element of corpus, or ErrEmptyCorpus.
func (s *Selector) Select(corpus []string) (string, error) {
	if len(corpus) == 0 {
		return "", ErrEmptyCorpus
	}
	return corpus[s.intn(len(corpus))], nil
}

// randReader is swapped in tests.
var randReader io.Reader = rand.Reader

func cryptoIntn(n int) int {
	nBig, err := rand.Int(randReader, big.NewInt(int64(n)))
	if err != nil {
		log.Error().Err(err).Int("n", n).Msg("crypto/rand failed, using first word")
		return 0
	}
	return int(nBig.Int64())
}
