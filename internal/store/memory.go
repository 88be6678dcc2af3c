// apps/go-server/internal/store/memory.go
//
// In-memory session store for game engines.
//
// Characteristics:
//   - Stores *game.Engine values keyed by engine ID.
//   - Map access is guarded by an RWMutex; each session has its own mutex
//     so one game's calls are serialized without blocking other games.
//   - Idle sessions can be pruned; state is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/wordscramble/apps/go-server/internal/game"
)

// ErrNotFound is returned for unknown game IDs.
var ErrNotFound = errors.New("store: game not found")

// Store defines the session interface used by the HTTP layer.
type Store interface {
	// Save adds or replaces a game.
	Save(ctx context.Context, g *game.Engine) error

	// Get retrieves a game by ID. Callers that mutate or read the engine
	// should prefer With, which holds the session lock.
	Get(ctx context.Context, id string) (*game.Engine, error)

	// With runs fn while holding the session's lock.
	With(ctx context.Context, id string, fn func(g *game.Engine) error) error

	// Delete removes a game. Unknown IDs are not an error.
	Delete(ctx context.Context, id string) error

	// Prune drops sessions untouched for longer than idle and returns how many.
	Prune(ctx context.Context, idle time.Duration) int

	// Len reports the number of live sessions.
	Len() int
}

type session struct {
	mu       sync.Mutex
	engine   *game.Engine
	lastUsed time.Time
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu    sync.RWMutex
	games map[string]*session
	now   func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{games: make(map[string]*session), now: time.Now}
}

func (m *memory) Save(ctx context.Context, g *game.Engine) error {
	if g == nil {
		return errors.New("store: nil game")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.ID()] = &session{engine: g, lastUsed: m.now()}
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*game.Engine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.games[id]; ok {
		return s.engine, nil
	}
	return nil, ErrNotFound
}

func (m *memory) With(ctx context.Context, id string, fn func(g *game.Engine) error) error {
	m.mu.RLock()
	s, ok := m.games[id]
	m.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = m.now()
	return fn(s.engine)
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.games, id)
	return nil
}

func (m *memory) Prune(ctx context.Context, idle time.Duration) int {
	cutoff := m.now().Add(-idle)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.games {
		s.mu.Lock()
		stale := s.lastUsed.Before(cutoff)
		s.mu.Unlock()
		if stale {
			delete(m.games, id)
			n++
		}
	}
	return n
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}
