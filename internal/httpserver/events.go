// apps/go-server/internal/httpserver/events.go
//
// Live state stream for presentation clients.
//   - GET /game/{id}/events upgrades to a websocket.
//   - The current snapshot is sent immediately, then one frame per state
//     change (start, restart, accepted or rejected submission).
//   - Subscribers that fall behind lose frames; the engine never waits on them.

package httpserver

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordscramble/apps/go-server/internal/game"
)

const (
	subscriberBuffer = 16
	writeWait        = 5 * time.Second
	pingPeriod       = 30 * time.Second
)

// hub fans snapshots out to subscribers of each game.
type hub struct {
	mu   sync.Mutex
	subs map[string]map[chan game.Snapshot]struct{} // gameID -> subscribers
}

func newHub() *hub {
	return &hub{subs: make(map[string]map[chan game.Snapshot]struct{})}
}

// subscribe registers a buffered channel for gameID.
// The returned func unregisters it; call it exactly once.
func (h *hub) subscribe(gameID string) (<-chan game.Snapshot, func()) {
	ch := make(chan game.Snapshot, subscriberBuffer)
	h.mu.Lock()
	set, ok := h.subs[gameID]
	if !ok {
		set = make(map[chan game.Snapshot]struct{})
		h.subs[gameID] = set
	}
	set[ch] = struct{}{}
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs[gameID], ch)
		if len(h.subs[gameID]) == 0 {
			delete(h.subs, gameID)
		}
	}
}

// publish delivers snap without blocking; full subscribers miss it.
func (h *hub) publish(snap game.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[snap.ID] {
		select {
		case ch <- snap:
		default:
			log.Warn().Str("gameId", snap.ID).Msg("event subscriber lagging, frame dropped")
		}
	}
}

// handleEvents streams snapshots for one game over a websocket.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.authorize(w, r, id) {
		return
	}

	// Subscribe before reading the initial snapshot so no change slips between them.
	events, unsubscribe := s.hub.subscribe(id)
	defer unsubscribe()

	var initial game.Snapshot
	if err := s.store.With(r.Context(), id, func(g *game.Engine) error {
		initial = g.Snapshot()
		return nil
	}); err != nil {
		s.storeError(w, err, id)
		return
	}

	up := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			o := r.Header.Get("Origin")
			return o == "" || o == s.opts.ClientOrigin
		},
	}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("gameId", id).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	// Reader: we ignore client frames but need to notice the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := writeSnapshot(conn, initial); err != nil {
		return
	}

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()
	for {
		select {
		case snap := <-events:
			if err := writeSnapshot(conn, snap); err != nil {
				log.Debug().Err(err).Str("gameId", id).Msg("event write")
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-closed:
			return
		case <-r.Context().Done():
			return
		}
	}
}

func writeSnapshot(conn *websocket.Conn, snap game.Snapshot) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(snap)
}
