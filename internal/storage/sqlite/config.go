package sqlite

import "time"

// Config holds SQLite connection settings
type Config struct {
	// Path is the database file; ":memory:" is accepted for tests
	Path string

	// Pool settings
	MaxOpenConns int
	MaxIdleConns int

	PingTimeout time.Duration
}

// DefaultConfig returns sensible defaults for SQLite configuration
func DefaultConfig() Config {
	return Config{
		Path:         "bankroll.db",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		PingTimeout:  5 * time.Second,
	}
}
