package app

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/attaboy/blackjack/internal/auth"
	"github.com/attaboy/blackjack/internal/infra"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRouter(t *testing.T, rateLimit int) chi.Router {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &infra.Config{
		JWTSecret:                       "test-secret-at-least-32-characters!!",
		JWTExpirationHours:              1,
		MaxPlayers:                      10,
		MinPlayers:                      1,
		RateLimitRequestsPerMinute:      rateLimit,
		InvitationDefaultTimeoutSeconds: 300,
		InvitationMaxTimeoutSeconds:     3600,
		CORSAllowedOrigins:              "*",
		APIVersionDeprecationMonths:     6,
	}
	jwtMgr := auth.NewJWTManager(cfg.JWTSecret, time.Hour)
	return NewRouter(Deps{
		Config: cfg,
		JWTMgr: jwtMgr,
		Hub:    infra.NewWSHub(logger),
		Logger: logger,
	})
}

type testClient struct {
	t      *testing.T
	router chi.Router
	token  string
}

func (c *testClient) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	r := httptest.NewRequest(method, path, &buf)
	r.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		r.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, r)
	return w
}

func (c *testClient) decode(w *httptest.ResponseRecorder, dst any) {
	c.t.Helper()
	require.NoError(c.t, json.NewDecoder(w.Body).Decode(dst))
}

func (c *testClient) signup(email string) {
	c.t.Helper()
	w := c.do(http.MethodPost, "/api/v1/auth/register",
		map[string]string{"email": email, "password": "Str0ng!pass"})
	require.Equal(c.t, http.StatusCreated, w.Code, w.Body.String())

	w = c.do(http.MethodPost, "/api/v1/auth/login",
		map[string]string{"email": email, "password": "Str0ng!pass"})
	require.Equal(c.t, http.StatusOK, w.Code, w.Body.String())

	var out struct {
		Token string `json:"token"`
	}
	c.decode(w, &out)
	require.NotEmpty(c.t, out.Token)
	c.token = out.Token
}

func TestAPI_FullGameFlow(t *testing.T) {
	router := testRouter(t, 1000)
	creator := &testClient{t: t, router: router}
	bob := &testClient{t: t, router: router}
	creator.signup("creator@example.com")
	bob.signup("bob@example.com")

	// Create a game.
	w := creator.do(http.MethodPost, "/api/v1/games/",
		map[string]int64{"enrollment_timeout_seconds": 600})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID string `json:"id"`
	}
	creator.decode(w, &created)
	gamePath := "/api/v1/games/" + created.ID

	// Bob sees it in the open list and enrolls.
	w = bob.do(http.MethodGet, "/api/v1/games/open", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var open struct {
		Games []struct {
			ID string `json:"id"`
		} `json:"games"`
	}
	bob.decode(w, &open)
	require.Len(t, open.Games, 1)
	assert.Equal(t, created.ID, open.Games[0].ID)

	w = bob.do(http.MethodPost, gamePath+"/enroll", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Only the creator can close enrollment.
	w = bob.do(http.MethodPost, gamePath+"/close", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = creator.do(http.MethodPost, gamePath+"/close", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var closed struct {
		TurnOrder []string `json:"turn_order"`
	}
	creator.decode(w, &closed)
	assert.Equal(t, []string{"creator@example.com", "bob@example.com"}, closed.TurnOrder)

	// Drawing out of turn is refused.
	w = bob.do(http.MethodPost, gamePath+"/draw", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	var outOfTurn struct {
		Code string `json:"code"`
	}
	bob.decode(w, &outOfTurn)
	assert.Equal(t, "NOT_YOUR_TURN", outOfTurn.Code)

	// Creator draws one card, then both stand.
	w = creator.do(http.MethodPost, gamePath+"/draw", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var draw struct {
		CurrentPoints  int `json:"current_points"`
		CardsRemaining int `json:"cards_remaining"`
	}
	creator.decode(w, &draw)
	assert.Positive(t, draw.CurrentPoints)
	assert.Equal(t, 51, draw.CardsRemaining)

	w = bob.do(http.MethodPost, gamePath+"/stand", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = creator.do(http.MethodPost, gamePath+"/stand", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var state struct {
		Finished bool   `json:"finished"`
		Phase    string `json:"phase"`
	}
	creator.decode(w, &state)
	assert.True(t, state.Finished)
	assert.Equal(t, "finished", state.Phase)

	// Results are available and include both players.
	w = bob.do(http.MethodGet, gamePath+"/results", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var results struct {
		PlayerResults map[string]struct {
			Outcome string `json:"outcome"`
		} `json:"player_results"`
	}
	bob.decode(w, &results)
	assert.Len(t, results.PlayerResults, 2)

	// Stats reflect the settled game.
	w = bob.do(http.MethodGet, "/api/v1/users/me/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats struct {
		Stats struct {
			GamesPlayed int `json:"games_played"`
		} `json:"stats"`
	}
	bob.decode(w, &stats)
	assert.Equal(t, 1, stats.Stats.GamesPlayed)
}

func TestAPI_InvitationFlow(t *testing.T) {
	router := testRouter(t, 1000)
	creator := &testClient{t: t, router: router}
	bob := &testClient{t: t, router: router}
	creator.signup("creator@example.com")
	bob.signup("bob@example.com")

	w := creator.do(http.MethodPost, "/api/v1/games/", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID string `json:"id"`
	}
	creator.decode(w, &created)

	// Creator invites bob.
	w = creator.do(http.MethodPost, "/api/v1/invitations/",
		map[string]string{"game_id": created.ID, "invitee_email": "bob@example.com"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Bob lists and accepts.
	w = bob.do(http.MethodGet, "/api/v1/invitations/pending", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var pending struct {
		Invitations []struct {
			ID string `json:"id"`
		} `json:"invitations"`
	}
	bob.decode(w, &pending)
	require.Len(t, pending.Invitations, 1)

	w = bob.do(http.MethodPost, "/api/v1/invitations/"+pending.Invitations[0].ID+"/accept", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var accepted struct {
		TurnOrder []string `json:"turn_order"`
	}
	bob.decode(w, &accepted)
	assert.Contains(t, accepted.TurnOrder, "bob@example.com")

	// The creator cannot accept someone else's invitation.
	w = creator.do(http.MethodPost, "/api/v1/invitations/"+pending.Invitations[0].ID+"/decline", nil)
	// Already accepted, terminal either way.
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_AuthEdges(t *testing.T) {
	router := testRouter(t, 1000)
	client := &testClient{t: t, router: router}

	t.Run("invalid token is a hard 401", func(t *testing.T) {
		client.token = "garbage"
		w := client.do(http.MethodGet, "/api/v1/games/open", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		client.token = ""
	})

	t.Run("anonymous can browse open games", func(t *testing.T) {
		w := client.do(http.MethodGet, "/api/v1/games/open", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("anonymous cannot create a game", func(t *testing.T) {
		w := client.do(http.MethodPost, "/api/v1/games/", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("health is public", func(t *testing.T) {
		w := client.do(http.MethodGet, "/api/v1/health", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAPI_RateLimit(t *testing.T) {
	router := testRouter(t, 3)
	client := &testClient{t: t, router: router}
	client.signup("alice@example.com")

	for i := 0; i < 3; i++ {
		w := client.do(http.MethodGet, "/api/v1/games/open", nil)
		require.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}
	w := client.do(http.MethodGet, "/api/v1/games/open", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// Anonymous requests bypass the limiter.
	client.token = ""
	w = client.do(http.MethodGet, "/api/v1/games/open", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
