package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/mcoot/bankroll/internal/api/apierr"
	"github.com/mcoot/bankroll/internal/middleware"
)

// RateLimitConfig configures per-client request throttling
type RateLimitConfig struct {
	// PerMinute is the sustained number of requests allowed per client
	PerMinute int
	// Burst is the number of requests a client may make at once
	Burst int
	// IdleTTL is how long an unused client limiter is kept
	IdleTTL time.Duration
}

// DefaultRateLimitConfig returns the login throttling defaults
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		PerMinute: 10,
		Burst:     5,
		IdleTTL:   10 * time.Minute,
	}
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles requests per client address
type RateLimiter struct {
	cfg    RateLimitConfig
	logger *slog.Logger

	mu      sync.Mutex
	clients map[string]*clientLimiter
}

// NewRateLimiter creates a RateLimiter
func NewRateLimiter(cfg RateLimitConfig, logger *slog.Logger) *RateLimiter {
	defaults := DefaultRateLimitConfig()
	if cfg.PerMinute <= 0 {
		cfg.PerMinute = defaults.PerMinute
	}
	if cfg.Burst <= 0 {
		cfg.Burst = defaults.Burst
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = defaults.IdleTTL
	}
	return &RateLimiter{
		cfg:     cfg,
		logger:  logger,
		clients: make(map[string]*clientLimiter),
	}
}

// Middleware rejects requests from clients over their limit with 429
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := clientAddr(r)
		if !l.allow(client, time.Now()) {
			l.logger.Warn("rate limited",
				slog.String("client", client),
				slog.String("path", r.URL.Path),
				slog.String("request_id", middleware.GetRequestID(r.Context())),
			)
			apierr.WriteError(w, apierr.NewRateLimitedError())
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *RateLimiter) allow(client string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for addr, c := range l.clients {
		if now.Sub(c.lastSeen) > l.cfg.IdleTTL {
			delete(l.clients, addr)
		}
	}

	c, ok := l.clients[client]
	if !ok {
		every := rate.Every(time.Minute / time.Duration(l.cfg.PerMinute))
		c = &clientLimiter{limiter: rate.NewLimiter(every, l.cfg.Burst)}
		l.clients[client] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
