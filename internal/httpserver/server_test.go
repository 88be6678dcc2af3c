package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordscramble/apps/go-server/internal/game"
	"github.com/robalobadob/wordscramble/apps/go-server/internal/store"
	"github.com/robalobadob/wordscramble/apps/go-server/internal/words"
)

func newTestServer(t *testing.T, corpus []string) *Server {
	t.Helper()
	return New(store.NewMemoryStore(), Options{
		Corpus:     corpus,
		Dictionary: words.NewSetDictionary("en", []string{"silk", "worm", "milk", "mirror", "ow", "owl"}),
		JWTSecret:  "test-secret",
	})
}

func do(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func newGame(t *testing.T, s *Server, mode string) newGameRes {
	t.Helper()
	w := do(t, s, http.MethodPost, "/game/new", "", newGameReq{Mode: mode})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res newGameRes
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	require.NotEmpty(t, res.GameID)
	require.NotEmpty(t, res.Token)
	return res
}

func submit(t *testing.T, s *Server, g newGameRes, word string) submitRes {
	t.Helper()
	w := do(t, s, http.MethodPost, "/game/submit", g.Token, submitReq{GameID: g.GameID, Word: word})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res submitRes
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	return res
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	w := do(t, s, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
}

func TestNotFoundIsJSON(t *testing.T) {
	s := newTestServer(t, nil)
	w := do(t, s, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"not_found"}`, w.Body.String())
}

func TestNewGame(t *testing.T) {
	s := newTestServer(t, []string{"silkworm"})
	w := do(t, s, http.MethodPost, "/game/new", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var res newGameRes
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	assert.Equal(t, res.GameID, res.State.ID)
	assert.Equal(t, "silkworm", res.State.RootWord)
	assert.Equal(t, 0, res.State.Score)
	assert.Empty(t, res.State.UsedWords)
	assert.True(t, res.State.Started)

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "wordscramble_token" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, res.Token, cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestNewGameEmptyCorpusFallsBack(t *testing.T) {
	s := newTestServer(t, nil)
	g := newGame(t, s, "")
	assert.Equal(t, game.FallbackRootWord, g.State.RootWord)
}

func TestNewGameDailyMode(t *testing.T) {
	corpus := []string{"silkworm", "mountain", "painters", "gardener"}
	s := newTestServer(t, corpus)
	a := newGame(t, s, "daily")
	b := newGame(t, s, "daily")
	assert.NotEqual(t, a.GameID, b.GameID)
	assert.Equal(t, a.State.RootWord, b.State.RootWord, "everyone gets the same daily root word")
	assert.Contains(t, corpus, a.State.RootWord)
}

func TestNewGameUnknownMode(t *testing.T) {
	s := newTestServer(t, nil)
	w := do(t, s, http.MethodPost, "/game/new", "", newGameReq{Mode: "hard"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"unknown_mode"}`, w.Body.String())
}

func TestSubmitFlow(t *testing.T) {
	s := newTestServer(t, []string{"silkworm"})
	g := newGame(t, s, "")

	res := submit(t, s, g, " Worm ")
	assert.Equal(t, game.StatusAccepted, res.Outcome.Status)
	assert.Equal(t, 1, res.Outcome.Score)
	assert.Equal(t, []string{"worm"}, res.State.UsedWords)
	assert.Empty(t, res.Title)

	res = submit(t, s, g, "worm")
	assert.Equal(t, game.StatusRejected, res.Outcome.Status)
	assert.Equal(t, game.ReasonDuplicateWord, res.Outcome.Reason)
	assert.Equal(t, "Used word", res.Title)
	assert.Equal(t, "try and create something new", res.Message)

	res = submit(t, s, g, "mirror")
	assert.Equal(t, game.ReasonLettersNotAvailable, res.Outcome.Reason)

	res = submit(t, s, g, "silkw")
	assert.Equal(t, game.ReasonNotARealWord, res.Outcome.Reason)

	res = submit(t, s, g, "ow")
	assert.Equal(t, game.ReasonTooShort, res.Outcome.Reason)
	assert.Equal(t, "Think of something longer than 2 letters", res.Message)

	res = submit(t, s, g, "   ")
	assert.Equal(t, game.StatusIgnored, res.Outcome.Status)
	require.NotNil(t, res.State.Last, "ignored input keeps the previous outcome")
	assert.Equal(t, game.ReasonTooShort, res.State.Last.Reason)

	res = submit(t, s, g, "silk")
	assert.Equal(t, 2, res.State.Score)
	assert.Equal(t, []string{"silk", "worm"}, res.State.UsedWords)
}

func TestSubmitRequiresMatchingToken(t *testing.T) {
	s := newTestServer(t, []string{"silkworm"})
	a := newGame(t, s, "")
	b := newGame(t, s, "")

	w := do(t, s, http.MethodPost, "/game/submit", "", submitReq{GameID: a.GameID, Word: "worm"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, s, http.MethodPost, "/game/submit", b.Token, submitReq{GameID: a.GameID, Word: "worm"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, s, http.MethodPost, "/game/submit", "garbage", submitReq{GameID: a.GameID, Word: "worm"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	other := &tokenIssuer{secret: []byte("other"), ttl: time.Hour}
	forged, _, err := other.sign(a.GameID)
	require.NoError(t, err)
	w = do(t, s, http.MethodPost, "/game/submit", forged, submitReq{GameID: a.GameID, Word: "worm"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSubmitAcceptsCookieToken(t *testing.T) {
	s := newTestServer(t, []string{"silkworm"})
	g := newGame(t, s, "")

	body := strings.NewReader(`{"gameId":"` + g.GameID + `","word":"worm"}`)
	req := httptest.NewRequest(http.MethodPost, "/game/submit", body)
	req.AddCookie(&http.Cookie{Name: "wordscramble_token", Value: g.Token})
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSubmitErrors(t *testing.T) {
	s := newTestServer(t, []string{"silkworm"})

	req := httptest.NewRequest(http.MethodPost, "/game/submit", strings.NewReader("{"))
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodPost, "/game/submit", "", submitReq{Word: "worm"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// valid token for a game the store no longer has
	tok, _, err := s.tokens.sign("gone")
	require.NoError(t, err)
	w = do(t, s, http.MethodPost, "/game/submit", tok, submitReq{GameID: "gone", Word: "worm"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRestartAndGet(t *testing.T) {
	s := newTestServer(t, []string{"silkworm"})
	g := newGame(t, s, "")
	submit(t, s, g, "worm")
	submit(t, s, g, "silk")

	w := do(t, s, http.MethodPost, "/game/restart", g.Token, restartReq{GameID: g.GameID})
	require.Equal(t, http.StatusOK, w.Code)
	var res stateRes
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	assert.Equal(t, 0, res.State.Score)
	assert.Empty(t, res.State.UsedWords)
	assert.Equal(t, "silkworm", res.State.RootWord)

	// worm is fresh again after restart
	assert.True(t, submit(t, s, g, "worm").Outcome.Accepted())

	w = do(t, s, http.MethodGet, "/game/"+g.GameID, g.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	assert.Equal(t, 1, res.State.Score)

	w = do(t, s, http.MethodGet, "/game/"+g.GameID, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDebugWords(t *testing.T) {
	s := New(store.NewMemoryStore(), Options{
		Corpus: []string{"silkworm", "mountain"},
		Stats:  func() map[string]int { return map[string]int{"dictionary": 7} },
	})
	w := do(t, s, http.MethodGet, "/debug/words", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"corpus":2,"sessions":0,"dictionary":7}`, w.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, nil)
	w := do(t, s, http.MethodOptions, "/game/new", "", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestEventsStream(t *testing.T) {
	s := newTestServer(t, []string{"silkworm"})
	ts := httptest.NewServer(s.Router())
	defer ts.Close()
	g := newGame(t, s, "")

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/game/" + g.GameID + "/events"
	hdr := http.Header{"Authorization": []string{"Bearer " + g.Token}}
	conn, resp, err := websocket.DefaultDialer.Dial(url, hdr)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var snap game.Snapshot
	require.NoError(t, conn.ReadJSON(&snap))
	assert.Equal(t, g.GameID, snap.ID)
	assert.Equal(t, 0, snap.Score)

	submit(t, s, g, "worm")
	require.NoError(t, conn.ReadJSON(&snap))
	assert.Equal(t, 1, snap.Score)
	assert.Equal(t, []string{"worm"}, snap.UsedWords)

	submit(t, s, g, "mirror")
	require.NoError(t, conn.ReadJSON(&snap))
	assert.Equal(t, "Not possible", snap.Title)
}

func TestEventsRequireToken(t *testing.T) {
	s := newTestServer(t, []string{"silkworm"})
	ts := httptest.NewServer(s.Router())
	defer ts.Close()
	g := newGame(t, s, "")

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/game/" + g.GameID + "/events"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHubDropsForSlowSubscribers(t *testing.T) {
	h := newHub()
	ch, unsubscribe := h.subscribe("g1")
	for i := 0; i < subscriberBuffer+5; i++ {
		h.publish(game.Snapshot{ID: "g1", Score: i})
	}
	assert.Len(t, ch, subscriberBuffer)

	h.publish(game.Snapshot{ID: "other"})
	assert.Len(t, ch, subscriberBuffer)

	unsubscribe()
	assert.Empty(t, h.subs)
}

func TestDailyRoutes(t *testing.T) {
	corpus := []string{"silkworm", "mountain", "painters", "gardener"}
	day := time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)
	s := New(store.NewMemoryStore(), Options{
		Corpus:    corpus,
		DailySalt: "salt",
		Now:       func() time.Time { return day },
	})

	w := do(t, s, http.MethodGet, "/daily", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var info dailyInfoRes
	require.NoError(t, json.NewDecoder(w.Body).Decode(&info))
	assert.Equal(t, "2026-10-19", info.Date)
	assert.Contains(t, corpus, info.RootWord)

	w = do(t, s, http.MethodPost, "/daily/new", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var g newGameRes
	require.NoError(t, json.NewDecoder(w.Body).Decode(&g))
	assert.Equal(t, info.RootWord, g.State.RootWord)

	// restart in daily mode lands on the same word
	w = do(t, s, http.MethodPost, "/game/restart", g.Token, restartReq{GameID: g.GameID})
	require.Equal(t, http.StatusOK, w.Code)
	var res stateRes
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	assert.Equal(t, info.RootWord, res.State.RootWord)
}

func TestDailyInfoEmptyCorpus(t *testing.T) {
	s := newTestServer(t, nil)
	w := do(t, s, http.MethodGet, "/daily", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var info dailyInfoRes
	require.NoError(t, json.NewDecoder(w.Body).Decode(&info))
	assert.Equal(t, game.FallbackRootWord, info.RootWord)
}

func TestGameLogsHideRootWordAtInfo(t *testing.T) {
	var buf bytes.Buffer
	saved := log.Logger
	log.Logger = zerolog.New(&buf).Level(zerolog.InfoLevel)
	t.Cleanup(func() { log.Logger = saved })

	s := newTestServer(t, []string{"silkworm"})
	g := newGame(t, s, "")
	w := do(t, s, http.MethodPost, "/game/restart", g.Token, restartReq{GameID: g.GameID})
	require.Equal(t, http.StatusOK, w.Code)

	out := buf.String()
	assert.Contains(t, out, `"message":"game started"`)
	assert.Contains(t, out, `"mode":"random"`)
	assert.Contains(t, out, `"message":"game restarted"`)
	assert.NotContains(t, out, "silkworm")
}
