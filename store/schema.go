package store

// schema is executed statement by statement when a store is opened. Types are
// chosen to be accepted by both SQLite and PostgreSQL.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	days INTEGER NOT NULL,
	created_at TEXT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS snapshots (
	account_id TEXT NOT NULL REFERENCES accounts(id),
	day INTEGER NOT NULL,
	PRIMARY KEY (account_id, day)
)`,
	`CREATE TABLE IF NOT EXISTS positions (
	account_id TEXT NOT NULL REFERENCES accounts(id),
	day INTEGER NOT NULL,
	symbol TEXT NOT NULL,
	quantity DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (account_id, day, symbol)
)`,
	`CREATE TABLE IF NOT EXISTS transactions (
	account_id TEXT NOT NULL REFERENCES accounts(id),
	day INTEGER NOT NULL,
	seq INTEGER NOT NULL,
	symbol TEXT NOT NULL,
	operation TEXT NOT NULL,
	quantity DOUBLE PRECISION NOT NULL,
	value DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (account_id, day, seq)
)`,
	`CREATE INDEX IF NOT EXISTS idx_accounts_name ON accounts(name)`,
}
