package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/bankroll/internal/api/handler"
	"github.com/mcoot/bankroll/internal/api/middleware"
	"github.com/mcoot/bankroll/internal/api/response"
	"github.com/mcoot/bankroll/internal/services/auth"
	"github.com/mcoot/bankroll/internal/services/ledger"
	"github.com/mcoot/bankroll/internal/services/poker"
	"github.com/mcoot/bankroll/internal/services/sports"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger       *slog.Logger
	AuthService  *auth.Service
	Store        *ledger.Store
	PokerEngine  *poker.Engine
	SportsEngine *sports.Engine
	// LoginLimiter throttles login attempts per client; nil disables it
	LoginLimiter *middleware.RateLimiter
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	userHandler := handler.NewUserHandler(cfg.AuthService, cfg.Store)
	pokerHandler := handler.NewPokerHandler(cfg.PokerEngine)
	sportsHandler := handler.NewSportsHandler(cfg.SportsEngine)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.RequestID())
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	// User routes (no auth required for registering/logging in)
	api.HandleFunc("/users/register", userHandler.Register).Methods(http.MethodPost)
	login := http.Handler(http.HandlerFunc(userHandler.Login))
	if cfg.LoginLimiter != nil {
		login = cfg.LoginLimiter.Middleware(login)
	}
	api.Handle("/users/login", login).Methods(http.MethodPost)

	// Protected user routes
	users := api.PathPrefix("/users").Subrouter()
	users.Use(authMiddleware)
	users.HandleFunc("/logout", userHandler.Logout).Methods(http.MethodPost)
	users.HandleFunc("/me", userHandler.GetMe).Methods(http.MethodGet)

	// Poker routes (all require auth)
	pokerRoutes := api.PathPrefix("/poker").Subrouter()
	pokerRoutes.Use(authMiddleware)
	pokerRoutes.HandleFunc("/sessions", pokerHandler.List).Methods(http.MethodGet)
	pokerRoutes.HandleFunc("/sessions", pokerHandler.Add).Methods(http.MethodPost)
	pokerRoutes.HandleFunc("/sessions/{index}", pokerHandler.Remove).Methods(http.MethodDelete)
	pokerRoutes.HandleFunc("/stats", pokerHandler.Stats).Methods(http.MethodGet)
	pokerRoutes.HandleFunc("/stats/advanced", pokerHandler.AdvancedStats).Methods(http.MethodGet)

	// Sports routes (all require auth)
	sportsRoutes := api.PathPrefix("/sports").Subrouter()
	sportsRoutes.Use(authMiddleware)
	sportsRoutes.HandleFunc("/bets", sportsHandler.List).Methods(http.MethodGet)
	sportsRoutes.HandleFunc("/bets", sportsHandler.Add).Methods(http.MethodPost)
	sportsRoutes.HandleFunc("/bets/{index}", sportsHandler.Remove).Methods(http.MethodDelete)
	sportsRoutes.HandleFunc("/stats", sportsHandler.Stats).Methods(http.MethodGet)
	sportsRoutes.HandleFunc("/stats/advanced", sportsHandler.AdvancedStats).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}
