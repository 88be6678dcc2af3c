// apps/go-server/internal/httpserver/server.go
//
// HTTP server wiring for the Word Scramble backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Daily root word endpoints: mounted under /daily.
//   - Game endpoints: POST /game/new, POST /game/submit, POST /game/restart,
//     GET /game/{id}, GET /game/{id}/events (websocket).
//
// Notes:
//   - Every game is guarded by a session token (JWT bound to the game ID)
//     returned by /game/new and also set as a cookie.
//   - Rejected words are normal 200 responses; the outcome carries the reason.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordscramble/apps/go-server/internal/game"
	"github.com/robalobadob/wordscramble/apps/go-server/internal/store"
	"github.com/robalobadob/wordscramble/apps/go-server/internal/words"
)

// Options configures the game endpoints.
type Options struct {
	Corpus       []string        // root word candidates
	Dictionary   game.Dictionary // realness check
	Language     string          // passed to the dictionary
	Selector     game.Selector   // random-mode selector; nil uses words.NewSelector()
	DailySalt    string          // HMAC salt for daily mode
	JWTSecret    string
	TokenTTL     time.Duration // default 24h
	CookieName   string        // default "wordscramble_token"
	ClientOrigin string        // CORS + websocket origin; default http://localhost:5173
	Timeout      time.Duration // per-request budget for plain HTTP routes; default 10s
	Stats        func() map[string]int
	Now          func() time.Time // clock for daily mode; defaults to time.Now
}

func (o *Options) defaults() {
	if o.Selector == nil {
		o.Selector = words.NewSelector()
	}
	if o.Language == "" {
		o.Language = game.DefaultLanguage
	}
	if o.JWTSecret == "" {
		o.JWTSecret = "dev_secret_change_me"
	}
	if o.TokenTTL <= 0 {
		o.TokenTTL = 24 * time.Hour
	}
	if o.CookieName == "" {
		o.CookieName = "wordscramble_token"
	}
	if o.ClientOrigin == "" {
		o.ClientOrigin = "http://localhost:5173"
	}
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
}

// Server bundles router, session store and event hub.
type Server struct {
	r      *chi.Mux
	store  store.Store
	opts   Options
	tokens *tokenIssuer
	hub    *hub
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, opts Options) *Server {
	opts.defaults()
	s := &Server{
		r:      chi.NewRouter(),
		store:  st,
		opts:   opts,
		tokens: &tokenIssuer{secret: []byte(opts.JWTSecret), ttl: opts.TokenTTL},
		hub:    newHub(),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)         // add X-Request-ID
	s.r.Use(chimw.RealIP)            // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)           // zerolog access log
	s.r.Use(chimw.Recoverer)         // recover from panics
	s.r.Use(cors(opts.ClientOrigin)) // credentials-friendly CORS

	// Plain JSON routes get a bounded handler time; the event stream does not.
	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(opts.Timeout))
		r.Use(jsonContentType)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"service":"wordscramble-go","endpoints":["/health","POST /game/new","POST /game/submit","POST /game/restart","GET /game/{id}","GET /game/{id}/events"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"ok":true}`))
		})
		r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
			stats := map[string]int{"corpus": len(s.opts.Corpus), "sessions": s.store.Len()}
			if s.opts.Stats != nil {
				for k, v := range s.opts.Stats() {
					stats[k] = v
				}
			}
			_ = json.NewEncoder(w).Encode(stats)
		})

		r.Post("/game/new", s.handleNewGame)
		r.Post("/game/submit", s.handleSubmit)
		r.Post("/game/restart", s.handleRestart)
		r.Get("/game/{id}", s.handleGetGame)

		s.mountDaily(r)
	})

	s.r.Get("/game/{id}/events", s.handleEvents)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ------------------------------ GAME ---------------------------------------

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Mode string `json:"mode"` // "random" (default) | "daily"
}
type newGameRes struct {
	GameID string        `json:"gameId"`
	Token  string        `json:"token"`
	State  game.Snapshot `json:"state"`
}

// handleNewGame creates and starts a game, stores it, and issues its session token.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req) // empty body means defaults

	var sel game.Selector
	switch req.Mode {
	case "", "random":
		req.Mode = "random"
		sel = s.opts.Selector
	case "daily":
		sel = s.dailySelector()
	default:
		writeError(w, http.StatusBadRequest, "unknown_mode")
		return
	}
	s.createGame(w, r, sel, req.Mode)
}

// createGame builds and starts an engine with sel, stores it, issues its
// session token and writes the newGameRes.
func (s *Server) createGame(w http.ResponseWriter, r *http.Request, sel game.Selector, mode string) {
	g := game.New(game.Config{
		Corpus:     s.opts.Corpus,
		Selector:   sel,
		Dictionary: s.opts.Dictionary,
		Language:   s.opts.Language,
	})
	g.Observe(s.hub.publish)
	g.Start()

	if err := s.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	tok, exp, err := s.tokens.sign(g.ID())
	if err != nil {
		log.Error().Err(err).Str("gameId", g.ID()).Msg("sign session token")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	s.setSessionCookie(w, tok, exp)

	log.Info().Str("gameId", g.ID()).Str("mode", mode).Msg("game started")
	log.Debug().Str("gameId", g.ID()).Str("rootWord", g.RootWord()).Msg("root word")
	_ = json.NewEncoder(w).Encode(newGameRes{GameID: g.ID(), Token: tok, State: g.Snapshot()})
}

// submitReq/Res payloads for POST /game/submit.
type submitReq struct {
	GameID string `json:"gameId"`
	Word   string `json:"word"`
}
type submitRes struct {
	Outcome game.Outcome  `json:"outcome"`
	Title   string        `json:"title,omitempty"`   // dialog title when rejected
	Message string        `json:"message,omitempty"` // dialog message when rejected
	State   game.Snapshot `json:"state"`
}

// handleSubmit runs a word through the game's validation pipeline.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if !s.authorize(w, r, req.GameID) {
		return
	}

	var res submitRes
	err := s.store.With(r.Context(), req.GameID, func(g *game.Engine) error {
		res.Outcome = g.Submit(req.Word)
		res.State = g.Snapshot()
		return nil
	})
	if err != nil {
		s.storeError(w, err, req.GameID)
		return
	}
	if res.Outcome.Rejected() {
		res.Title, res.Message = res.Outcome.Reason.Title(), res.Outcome.Reason.Message()
	}
	log.Debug().Str("gameId", req.GameID).Str("status", string(res.Outcome.Status)).
		Str("reason", string(res.Outcome.Reason)).Int("score", res.Outcome.Score).Msg("submit")
	_ = json.NewEncoder(w).Encode(res)
}

type restartReq struct {
	GameID string `json:"gameId"`
}
type stateRes struct {
	State game.Snapshot `json:"state"`
}

// handleRestart clears history and picks a new root word.
func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	var req restartReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if !s.authorize(w, r, req.GameID) {
		return
	}
	var res stateRes
	err := s.store.With(r.Context(), req.GameID, func(g *game.Engine) error {
		g.Restart()
		res.State = g.Snapshot()
		return nil
	})
	if err != nil {
		s.storeError(w, err, req.GameID)
		return
	}
	log.Info().Str("gameId", req.GameID).Msg("game restarted")
	log.Debug().Str("gameId", req.GameID).Str("rootWord", res.State.RootWord).Msg("root word")
	_ = json.NewEncoder(w).Encode(res)
}

// handleGetGame returns the current snapshot.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.authorize(w, r, id) {
		return
	}
	var res stateRes
	err := s.store.With(r.Context(), id, func(g *game.Engine) error {
		res.State = g.Snapshot()
		return nil
	})
	if err != nil {
		s.storeError(w, err, id)
		return
	}
	_ = json.NewEncoder(w).Encode(res)
}

// ------------------------------- helpers -----------------------------------

// authorize checks the session token against gameID and writes 401 on mismatch.
func (s *Server) authorize(w http.ResponseWriter, r *http.Request, gameID string) bool {
	if gameID == "" {
		writeError(w, http.StatusBadRequest, "missing_game_id")
		return false
	}
	gid, err := s.tokens.verify(bearerOrCookie(r, s.opts.CookieName))
	if err != nil || gid != gameID {
		writeError(w, http.StatusUnauthorized, "invalid_token")
		return false
	}
	return true
}

func (s *Server) storeError(w http.ResponseWriter, err error, gameID string) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	log.Error().Err(err).Str("gameId", gameID).Msg("session access")
	writeError(w, http.StatusInternalServerError, "server_error")
}

// writeError writes {"error":code} with status.
func writeError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}
