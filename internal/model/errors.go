package model

import "errors"

// Common errors used across the application
var (
	// User errors
	ErrUserNotFound     = errors.New("user not found")
	ErrUsernameExists   = errors.New("username already exists")
	ErrInvalidUsername  = errors.New("username must be letters and numbers only")
	ErrPasswordTooShort = errors.New("password is too short")

	// Record errors
	ErrInvalidInput    = errors.New("invalid record input")
	ErrInvalidStake    = errors.New("big blind must be greater than zero")
	ErrIndexOutOfRange = errors.New("record index out of range")
	ErrRecordNotFound  = errors.New("record not found")
)
