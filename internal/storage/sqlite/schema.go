package sqlite

const schema = `
CREATE TABLE IF NOT EXISTS users (
	username      TEXT PRIMARY KEY,
	password_hash TEXT NOT NULL,
	poker_rating  REAL NOT NULL,
	sports_rating REAL NOT NULL,
	created_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS poker_sessions (
	username          TEXT NOT NULL,
	position          INTEGER NOT NULL,
	id                TEXT NOT NULL,
	date              TEXT NOT NULL,
	location          TEXT NOT NULL,
	small_blind       REAL NOT NULL,
	big_blind         REAL NOT NULL,
	buy_in            REAL NOT NULL,
	buy_out           REAL NOT NULL,
	duration          REAL NOT NULL,
	profit_loss       REAL NOT NULL,
	bb_won            REAL NOT NULL,
	rating_delta      REAL NOT NULL,
	hourly_rate       REAL NOT NULL,
	cumulative_profit REAL NOT NULL,
	PRIMARY KEY (username, position)
);

CREATE TABLE IF NOT EXISTS bets (
	username          TEXT NOT NULL,
	position          INTEGER NOT NULL,
	id                TEXT NOT NULL,
	date              TEXT NOT NULL,
	sport             TEXT NOT NULL,
	pick_count        REAL NOT NULL,
	bet_amount        REAL NOT NULL,
	amount_won_lost   REAL NOT NULL,
	rating_delta      REAL NOT NULL,
	cumulative_profit REAL NOT NULL,
	PRIMARY KEY (username, position)
);
`

const (
	queryGetUser = `SELECT username, password_hash, poker_rating, sports_rating, created_at
		FROM users WHERE username = ?`

	queryLoadUsers = `SELECT username, password_hash, poker_rating, sports_rating, created_at
		FROM users`

	queryUpsertUser = `INSERT INTO users (username, password_hash, poker_rating, sports_rating, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET
			password_hash = excluded.password_hash,
			poker_rating = excluded.poker_rating,
			sports_rating = excluded.sports_rating,
			created_at = excluded.created_at`

	queryLoadPokerSessions = `SELECT id, date, location, small_blind, big_blind, buy_in, buy_out,
			duration, profit_loss, bb_won, rating_delta, hourly_rate, cumulative_profit
		FROM poker_sessions WHERE username = ? ORDER BY position`

	queryDeletePokerSessions = `DELETE FROM poker_sessions WHERE username = ?`

	queryInsertPokerSession = `INSERT INTO poker_sessions (username, position, id, date, location,
			small_blind, big_blind, buy_in, buy_out, duration, profit_loss, bb_won,
			rating_delta, hourly_rate, cumulative_profit)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryLoadBets = `SELECT id, date, sport, pick_count, bet_amount, amount_won_lost,
			rating_delta, cumulative_profit
		FROM bets WHERE username = ? ORDER BY position`

	queryDeleteBets = `DELETE FROM bets WHERE username = ?`

	queryInsertBet = `INSERT INTO bets (username, position, id, date, sport, pick_count,
			bet_amount, amount_won_lost, rating_delta, cumulative_profit)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
)
