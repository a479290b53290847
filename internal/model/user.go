package model

import "time"

// DefaultRating is the rating every user starts each subsystem with
const DefaultRating = 1000.0

// User is a registry entry. Each subsystem keeps its own running rating.
type User struct {
	Username     string // login username (immutable, alphanumeric)
	PasswordHash string // bcrypt hash
	PokerRating  float64
	SportsRating float64
	CreatedAt    time.Time
}

// NewUser returns a user with both ratings at DefaultRating
func NewUser(username, passwordHash string, now time.Time) *User {
	return &User{
		Username:     username,
		PasswordHash: passwordHash,
		PokerRating:  DefaultRating,
		SportsRating: DefaultRating,
		CreatedAt:    now,
	}
}
