// apps/go-server/internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily" mode.
// Exposes two endpoints under /daily:
//   - GET  /daily     → today's date key and root word
//   - POST /daily/new → start a game on today's root word (same as mode "daily")
//
// Everyone playing on the same UTC day gets the same root word; the word is
// chosen by HMAC(salt, date) over the root word corpus.

package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/wordscramble/apps/go-server/internal/daily"
	"github.com/robalobadob/wordscramble/apps/go-server/internal/game"
)

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Get("/", s.handleDailyInfo)
		r.Post("/new", s.handleDailyNew)
	})
}

func (s *Server) dailySelector() daily.Selector {
	return daily.Selector{Salt: s.opts.DailySalt, Now: s.now}
}

// dailyInfoRes is returned by GET /daily.
type dailyInfoRes struct {
	Date     string `json:"date"`
	RootWord string `json:"rootWord"`
}

// handleDailyInfo reports today's root word without creating a game.
// An empty corpus reports the engine's fallback word.
func (s *Server) handleDailyInfo(w http.ResponseWriter, r *http.Request) {
	root, err := s.dailySelector().Select(s.opts.Corpus)
	if err != nil {
		root = game.FallbackRootWord
	}
	_ = json.NewEncoder(w).Encode(dailyInfoRes{Date: daily.DateKey(s.now()), RootWord: root})
}

// handleDailyNew starts a game on today's root word.
func (s *Server) handleDailyNew(w http.ResponseWriter, r *http.Request) {
	s.createGame(w, r, s.dailySelector(), "daily")
}

func (s *Server) now() time.Time {
	if s.opts.Now != nil {
		return s.opts.Now()
	}
	return time.Now()
}
