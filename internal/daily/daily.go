// Package daily picks the same root word for every player on a given UTC day.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/robalobadob/wordscramble/apps/go-server/internal/words"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WordIndex returns a deterministic index for a date using HMAC(salt, YYYY-MM-DD) % n.
func WordIndex(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for modulus distribution
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}

// Selector chooses the day's root word. It satisfies game.Selector.
type Selector struct {
	Salt string
	Now  func() time.Time // defaults to time.Now
}

// Select returns corpus[WordIndex(today)], or words.ErrEmptyCorpus.
func (s Selector) Select(corpus []string) (string, error) {
	if len(corpus) == 0 {
		return "", words.ErrEmptyCorpus
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return corpus[WordIndex(now(), s.Salt, len(corpus))], nil
}
