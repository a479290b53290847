package api_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/bankroll/internal/api"
	"github.com/mcoot/bankroll/internal/api/handler"
	"github.com/mcoot/bankroll/internal/api/middleware"
	"github.com/mcoot/bankroll/internal/api/response"
	"github.com/mcoot/bankroll/internal/factory"
	"github.com/mcoot/bankroll/internal/services/auth"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.App
}

func newTestServer(t *testing.T, limiter *middleware.RateLimiter) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// API tests are integration tests - use production factory with real random/clock
	app, err := factory.New(t.Context(), factory.Config{
		AuthConfig: factoryAuthConfig(),
		Logger:     logger,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	router := api.NewRouter(api.RouterConfig{
		Logger:       logger,
		AuthService:  app.AuthService,
		Store:        app.Store,
		PokerEngine:  app.PokerEngine,
		SportsEngine: app.SportsEngine,
		LoginLimiter: limiter,
	})

	return &testServer{
		handler: router,
		app:     app,
	}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t, nil)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t, nil)

	registerBody := map[string]string{
		"username":         "alice",
		"password":         "secret123",
		"confirm_password": "secret123",
	}
	rr := ts.request(http.MethodPost, "/api/v1/users/register", registerBody, "")
	assert.Equal(t, http.StatusCreated, rr.Code)

	var registerResp response.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &registerResp))
	assert.Equal(t, "alice", registerResp.Username)
	assert.NotEmpty(t, registerResp.SessionToken)

	loginBody := map[string]string{
		"username": "alice",
		"password": "secret123",
	}
	rr = ts.request(http.MethodPost, "/api/v1/users/login", loginBody, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var loginResp response.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &loginResp))
	assert.Equal(t, "alice", loginResp.Username)
	assert.NotEqual(t, registerResp.SessionToken, loginResp.SessionToken)
}

func TestRegisterErrors(t *testing.T) {
	ts := newTestServer(t, nil)
	registerUser(t, ts, "alice")

	tests := []struct {
		name   string
		body   map[string]string
		status int
		code   string
	}{
		{"duplicate", map[string]string{"username": "alice", "password": "secret123"}, http.StatusConflict, "USERNAME_EXISTS"},
		{"short password", map[string]string{"username": "bob", "password": "abc"}, http.StatusBadRequest, "PASSWORD_TOO_SHORT"},
		{"bad username", map[string]string{"username": "bob smith", "password": "secret123"}, http.StatusBadRequest, "INVALID_USERNAME"},
		{"mismatched confirm", map[string]string{"username": "bob", "password": "secret123", "confirm_password": "secret124"}, http.StatusBadRequest, "INVALID_REQUEST"},
		{"missing password", map[string]string{"username": "bob"}, http.StatusBadRequest, "INVALID_REQUEST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.request(http.MethodPost, "/api/v1/users/register", tt.body, "")
			assert.Equal(t, tt.status, rr.Code)

			var errResp handler.ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errResp))
			assert.Equal(t, tt.code, errResp.Error.Code)
		})
	}
}

func TestLoginWrongPassword(t *testing.T) {
	ts := newTestServer(t, nil)
	registerUser(t, ts, "alice")

	body := map[string]string{"username": "alice", "password": "wrongpass"}
	rr := ts.request(http.MethodPost, "/api/v1/users/login", body, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	body = map[string]string{"username": "nobody", "password": "secret123"}
	rr = ts.request(http.MethodPost, "/api/v1/users/login", body, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestGetMe(t *testing.T) {
	ts := newTestServer(t, nil)
	token := registerUser(t, ts, "bob")

	rr := ts.request(http.MethodGet, "/api/v1/users/me", nil, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var meResp response.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &meResp))
	assert.Equal(t, "bob", meResp.Username)
	assert.Equal(t, 1000.0, meResp.PokerRating)
	assert.Equal(t, 1000.0, meResp.SportsRating)
}

func TestSessionCookieAuthenticates(t *testing.T) {
	ts := newTestServer(t, nil)
	token := registerUser(t, ts, "carol")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	ts := newTestServer(t, nil)
	token := registerUser(t, ts, "dave")

	rr := ts.request(http.MethodPost, "/api/v1/users/logout", nil, token)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/users/me", nil, token)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestUnauthorizedWithoutToken(t *testing.T) {
	ts := newTestServer(t, nil)

	for _, path := range []string{"/api/v1/users/me", "/api/v1/poker/sessions", "/api/v1/sports/stats"} {
		rr := ts.request(http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
	}

	rr := ts.request(http.MethodGet, "/api/v1/poker/stats", nil, "sess_bogus")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestPokerSessionFlow(t *testing.T) {
	ts := newTestServer(t, nil)
	token := registerUser(t, ts, "alice")

	rr := ts.request(http.MethodPost, "/api/v1/poker/sessions", pokerSession("2024-05-01T20:00", 100, 125, 2), token)
	require.Equal(t, http.StatusCreated, rr.Code)

	var change response.RatingChange
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &change))
	assert.InDelta(t, 8.75, change.RatingChange, 1e-9)

	rr = ts.request(http.MethodPost, "/api/v1/poker/sessions", pokerSession("2024-05-02T20:00", 100, 90, 1), token)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/poker/sessions", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)

	var sessions []response.PokerSession
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &sessions))
	require.Len(t, sessions, 2)
	assert.Equal(t, 0, sessions[0].Index)
	assert.Equal(t, -10.0, sessions[0].ProfitLoss)
	assert.Equal(t, 15.0, sessions[0].CumulativeProfit)
	assert.Equal(t, 25.0, sessions[1].ProfitLoss)

	rr = ts.request(http.MethodGet, "/api/v1/poker/stats", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)

	var stats response.PokerStats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.TotalGames)
	assert.Equal(t, 15.0, stats.TotalProfit)
	assert.Equal(t, 50.0, stats.WinRate)
	assert.InDelta(t, 1003.75, stats.CurrentRating, 1e-9)

	// Remove the newest (the loss)
	rr = ts.request(http.MethodDelete, "/api/v1/poker/sessions/0", nil, token)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/users/me", nil, token)
	var me response.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &me))
	assert.InDelta(t, 1008.75, me.PokerRating, 1e-9)
	assert.Equal(t, 1000.0, me.SportsRating)
}

func TestPokerAdvancedStats(t *testing.T) {
	ts := newTestServer(t, nil)
	token := registerUser(t, ts, "alice")

	rr := ts.request(http.MethodGet, "/api/v1/poker/stats/advanced", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)

	var empty response.PokerAdvancedStats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &empty))
	assert.False(t, empty.Degraded)
	assert.Empty(t, empty.AdvancedStats.SessionLengthAnalysis.SessionCount)

	rr = ts.request(http.MethodPost, "/api/v1/poker/sessions", pokerSession("2024-05-01T20:00", 100, 125, 3), token)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/poker/stats/advanced", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)

	var adv response.PokerAdvancedStats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &adv))
	assert.Equal(t, 1, adv.BasicStats.TotalGames)
	assert.Equal(t, 1, adv.AdvancedStats.LocationStats.Sessions["Casino A"])
	assert.Equal(t, 25.0, adv.AdvancedStats.StakeDistribution.TotalProfit["1.0,2.0"])
	assert.Equal(t, 100.0, adv.AdvancedStats.StakeWinrates["1.0,2.0"].ProfitLoss)
	assert.Len(t, adv.AdvancedStats.SessionLengthAnalysis.SessionCount, 5)
	assert.Equal(t, 1, adv.AdvancedStats.SessionLengthAnalysis.SessionCount["2-4h"])
	assert.Equal(t, 0, adv.AdvancedStats.SessionLengthAnalysis.SessionCount["0-2h"])
}

func TestPokerSessionValidation(t *testing.T) {
	ts := newTestServer(t, nil)
	token := registerUser(t, ts, "alice")

	missing := map[string]any{"location": "Casino A", "small_blind": 1, "big_blind": 2, "buy_in": 100}
	rr := ts.request(http.MethodPost, "/api/v1/poker/sessions", missing, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "buy_out is required")

	zeroBlind := pokerSession("2024-05-01T20:00", 100, 125, 2)
	zeroBlind["big_blind"] = 0
	rr = ts.request(http.MethodPost, "/api/v1/poker/sessions", zeroBlind, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "INVALID_STAKE")

	rr = ts.request(http.MethodDelete, "/api/v1/poker/sessions/0", nil, token)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = ts.request(http.MethodDelete, "/api/v1/poker/sessions/first", nil, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSportsBetFlow(t *testing.T) {
	ts := newTestServer(t, nil)
	token := registerUser(t, ts, "alice")

	body := map[string]any{
		"sport":           "NBA",
		"pick_count":      3,
		"bet_amount":      20,
		"amount_won_lost": -20,
		"datetime":        "2024-05-01T20:00",
	}
	rr := ts.request(http.MethodPost, "/api/v1/sports/bets", body, token)
	require.Equal(t, http.StatusCreated, rr.Code)

	var change response.RatingChange
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &change))
	assert.InDelta(t, 15.2, change.RatingChange, 1e-9)

	rr = ts.request(http.MethodGet, "/api/v1/sports/bets", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)

	var bets []response.Bet
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &bets))
	require.Len(t, bets, 1)
	assert.Equal(t, "NBA", bets[0].Sport)

	rr = ts.request(http.MethodGet, "/api/v1/sports/stats/advanced", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)

	var adv response.SportsAdvancedStats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &adv))
	assert.Equal(t, 1, adv.AdvancedStats.SportsStats.Sessions["NBA"])
	assert.Equal(t, 1, adv.AdvancedStats.BetAmountStats.SessionCount["$10-20"])
	assert.InDelta(t, 1015.2, adv.BasicStats.CurrentRating, 1e-9)

	rr = ts.request(http.MethodDelete, "/api/v1/sports/bets/0", nil, token)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/sports/stats", nil, token)
	var stats response.SportsStats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
	assert.Equal(t, 0, stats.TotalBets)
	assert.InDelta(t, 1000.0, stats.CurrentRating, 1e-9)
}

func TestLedgersAreScopedToUser(t *testing.T) {
	ts := newTestServer(t, nil)
	alice := registerUser(t, ts, "alice")
	bob := registerUser(t, ts, "bob")

	rr := ts.request(http.MethodPost, "/api/v1/poker/sessions", pokerSession("2024-05-01T20:00", 100, 125, 2), alice)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/poker/sessions", nil, bob)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())
}

func TestLoginIsRateLimited(t *testing.T) {
	limiter := middleware.NewRateLimiter(middleware.RateLimitConfig{PerMinute: 1, Burst: 2}, slog.New(slog.DiscardHandler))
	ts := newTestServer(t, limiter)
	registerUser(t, ts, "alice")

	body := map[string]string{"username": "alice", "password": "wrongpass"}
	for i := 0; i < 2; i++ {
		rr := ts.request(http.MethodPost, "/api/v1/users/login", body, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	}

	rr := ts.request(http.MethodPost, "/api/v1/users/login", body, "")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Contains(t, rr.Body.String(), "RATE_LIMITED")

	// Registration is not throttled
	rr = ts.request(http.MethodPost, "/api/v1/users/register", map[string]string{"username": "bob", "password": "secret123"}, "")
	assert.Equal(t, http.StatusCreated, rr.Code)
}

// Helper functions

func factoryAuthConfig() auth.Config {
	return auth.Config{BcryptCost: bcrypt.MinCost}
}

func registerUser(t *testing.T, ts *testServer, username string) string {
	t.Helper()

	body := map[string]string{"username": username, "password": "secret123"}
	rr := ts.request(http.MethodPost, "/api/v1/users/register", body, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp response.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	return resp.SessionToken
}

func pokerSession(datetime string, buyIn, buyOut, duration float64) map[string]any {
	return map[string]any{
		"location":    "Casino A",
		"small_blind": 1,
		"big_blind":   2,
		"buy_in":      buyIn,
		"buy_out":     buyOut,
		"duration":    duration,
		"datetime":    datetime,
	}
}
