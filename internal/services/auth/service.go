package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/bankroll/internal/dependencies/clock"
	"github.com/mcoot/bankroll/internal/dependencies/random"
	"github.com/mcoot/bankroll/internal/model"
	"github.com/mcoot/bankroll/internal/services/ledger"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
)

const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Session represents an authenticated session
type Session struct {
	Token     string
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Service handles registration, password checks and session management
type Service struct {
	store  *ledger.Store
	clock  clock.Clock
	random random.Random
	logger *slog.Logger
	cfg    Config

	mu       sync.RWMutex
	sessions map[string]*Session
}

// Config holds configuration for the auth service
type Config struct {
	SessionDuration   time.Duration
	MinPasswordLength int
	BcryptCost        int
	TokenLength       int
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration:   24 * time.Hour,
		MinPasswordLength: 6,
		BcryptCost:        bcrypt.DefaultCost,
		TokenLength:       32,
	}
}

// New creates a new auth Service
func New(store *ledger.Store, clock clock.Clock, random random.Random, cfg Config, logger *slog.Logger) *Service {
	defaults := DefaultConfig()
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = defaults.SessionDuration
	}
	if cfg.MinPasswordLength == 0 {
		cfg.MinPasswordLength = defaults.MinPasswordLength
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = defaults.BcryptCost
	}
	if cfg.TokenLength == 0 {
		cfg.TokenLength = defaults.TokenLength
	}
	return &Service{
		store:    store,
		clock:    clock,
		random:   random,
		logger:   logger,
		cfg:      cfg,
		sessions: make(map[string]*Session),
	}
}

// ValidateUsername reports whether username can be registered: non-empty,
// letters and digits only
func ValidateUsername(username string) error {
	if username == "" {
		return model.ErrInvalidUsername
	}
	for _, r := range username {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return model.ErrInvalidUsername
		}
	}
	return nil
}

// CreateUser registers a user with both ratings at the default
func (s *Service) CreateUser(ctx context.Context, username, password string) error {
	if err := ValidateUsername(username); err != nil {
		return err
	}
	if len(password) < s.cfg.MinPasswordLength {
		return model.ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return err
	}

	if err := s.store.CreateUser(ctx, model.NewUser(username, string(hash), s.clock.Now())); err != nil {
		return err
	}

	s.logger.Info("user registered", slog.String("username", username))
	return nil
}

// Register creates a user and logs them in
func (s *Service) Register(ctx context.Context, username, password string) (*Session, error) {
	if err := s.CreateUser(ctx, username, password); err != nil {
		return nil, err
	}
	return s.createSession(username), nil
}

// VerifyUser reports whether password matches the user's stored hash.
// Unknown users do not match. A matching legacy hash is replaced with a
// bcrypt hash.
func (s *Service) VerifyUser(ctx context.Context, username, password string) (bool, error) {
	user, err := s.store.User(username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}

	if isBcryptHash(user.PasswordHash) {
		return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil, nil
	}

	matched, err := checkLegacyHash(user.PasswordHash, password)
	if err != nil {
		s.logger.Warn("unrecognised password hash",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return false, nil
	}
	if matched {
		s.upgradeHash(ctx, user, password)
	}
	return matched, nil
}

// Login authenticates a user and creates a session
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	ok, err := s.VerifyUser(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return s.createSession(username), nil
}

// ValidateSession checks if a session token is valid and returns the session
func (s *Service) ValidateSession(token string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidSession
	}

	if s.clock.Now().After(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, ErrInvalidSession
	}

	return session, nil
}

// InvalidateSession removes a session
func (s *Service) InvalidateSession(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// CleanExpiredSessions removes expired sessions (call periodically)
func (s *Service) CleanExpiredSessions() int {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

func (s *Service) createSession(username string) *Session {
	now := s.clock.Now()
	session := &Session{
		Token:     "sess_" + s.random.String(s.cfg.TokenLength, tokenAlphabet),
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.SessionDuration),
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	return session
}

// upgradeHash replaces a verified legacy hash. Failure keeps the old hash.
func (s *Service) upgradeHash(ctx context.Context, user model.User, password string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err == nil {
		user.PasswordHash = string(hash)
		err = s.store.UpdateUser(ctx, user)
	}
	if err != nil {
		s.logger.Error("failed to upgrade legacy password hash",
			slog.String("username", user.Username),
			slog.String("error", err.Error()),
		)
		return
	}
	s.logger.Info("upgraded legacy password hash", slog.String("username", user.Username))
}

func isBcryptHash(hash string) bool {
	return strings.HasPrefix(hash, "$2")
}
