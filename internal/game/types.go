// apps/go-server/internal/game/types.go
//
// Core type definitions for the Word Scramble game engine.
// Defines:
//   - Reason: why a submitted word was rejected.
//   - Status / Outcome: the per-submission result handed to the caller.
//   - Snapshot: read model of a session for presentation layers.
//   - Dictionary / Selector: collaborators injected into the engine.

package game

// Reason identifies which check rejected a submitted word.
// Values are stable strings so they can be sent over the wire as-is.
type Reason string

const (
	ReasonDuplicateWord       Reason = "duplicate_word"
	ReasonLettersNotAvailable Reason = "letters_not_available"
	ReasonNotARealWord        Reason = "not_a_real_word"
	ReasonTooShort            Reason = "too_short"
)

// Title is the short heading shown in an error dialog.
func (r Reason) Title() string {
	switch r {
	case ReasonDuplicateWord:
		return "Used word"
	case ReasonLettersNotAvailable:
		return "Not possible"
	case ReasonNotARealWord:
		return "Not a real word"
	case ReasonTooShort:
		return "Too short"
	}
	return ""
}

// Message is the body text shown in an error dialog.
func (r Reason) Message() string {
	switch r {
	case ReasonDuplicateWord:
		return "try and create something new"
	case ReasonLettersNotAvailable:
		return "Use the provided letters"
	case ReasonNotARealWord:
		return "Do not try to invent a word"
	case ReasonTooShort:
		return "Think of something longer than 2 letters"
	}
	return ""
}

// Status is the coarse result of a submission.
type Status string

const (
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	StatusIgnored  Status = "ignored" // blank input, no dialog
)

// Outcome is the result of a single Submit call.
//   - Accepted: Score holds the new score.
//   - Rejected: Reason holds the first failing check.
//   - Ignored:  nothing happened.
type Outcome struct {
	Status Status `json:"status"`
	Word   string `json:"word,omitempty"`   // normalized word
	Score  int    `json:"score"`            // score after this submission
	Reason Reason `json:"reason,omitempty"` // set only when rejected
}

func (o Outcome) Accepted() bool { return o.Status == StatusAccepted }
func (o Outcome) Rejected() bool { return o.Status == StatusRejected }
func (o Outcome) Ignored() bool  { return o.Status == StatusIgnored }

// Snapshot is a copy of a session's state for rendering.
// Mutating it has no effect on the engine.
type Snapshot struct {
	ID        string   `json:"id"`
	RootWord  string   `json:"rootWord"`
	Score     int      `json:"score"`
	UsedWords []string `json:"usedWords"` // most recent first
	Started   bool     `json:"started"`
	Language  string   `json:"language"`
	Last      *Outcome `json:"last,omitempty"`
	Title     string   `json:"title,omitempty"`   // dialog title for Last, if rejected
	Message   string   `json:"message,omitempty"` // dialog message for Last, if rejected
}

// Dictionary reports whether word is spelled correctly in language.
// Implementations must answer consistently for the same pair within a session.
type Dictionary interface {
	IsValidWord(word, language string) bool
}

// DictionaryFunc adapts a plain function to the Dictionary interface.
type DictionaryFunc func(word, language string) bool

func (f DictionaryFunc) IsValidWord(word, language string) bool { return f(word, language) }

// Selector picks a root word from a corpus.
type Selector interface {
	Select(corpus []string) (string, error)
}
