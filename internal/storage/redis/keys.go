package redis

import "fmt"

// Key prefix for all bankroll data
const keyPrefix = "bankroll"

// userKey returns the Redis key for a User
func userKey(username string) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, username)
}

// usersIndexKey returns the Redis key for the SET of all usernames
func usersIndexKey() string {
	return fmt.Sprintf("%s:idx:users", keyPrefix)
}

// pokerLedgerKey returns the Redis key for a user's poker sessions
func pokerLedgerKey(username string) string {
	return fmt.Sprintf("%s:poker:%s", keyPrefix, username)
}

// betLedgerKey returns the Redis key for a user's sports bets
func betLedgerKey(username string) string {
	return fmt.Sprintf("%s:sports:%s", keyPrefix, username)
}
