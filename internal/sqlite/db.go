package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations creates the marketplace schema. CHECK constraints back the
// accounting invariants: available + sold always equals total, and no
// holding or wallet balance goes negative.
func (db *DB) RunMigrations() error {
	migration := `
-- Projects: fixed-supply primary sale counters
CREATE TABLE projects (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    creator TEXT NOT NULL,
    name TEXT NOT NULL,
    total_credits INTEGER NOT NULL CHECK(total_credits > 0),
    available_credits INTEGER NOT NULL CHECK(available_credits >= 0),
    sold_credits INTEGER NOT NULL DEFAULT 0 CHECK(sold_credits >= 0),
    credit_price INTEGER NOT NULL CHECK(credit_price > 0),
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    CHECK(available_credits + sold_credits = total_credits)
);
CREATE INDEX idx_project_creator ON projects(creator);

-- Credit holdings per (project, holder); escrowed credits are debited out
CREATE TABLE holdings (
    project_id INTEGER NOT NULL,
    holder TEXT NOT NULL,
    amount INTEGER NOT NULL DEFAULT 0 CHECK(amount >= 0),
    PRIMARY KEY (project_id, holder),
    FOREIGN KEY (project_id) REFERENCES projects(id)
);
CREATE INDEX idx_holder ON holdings(holder);

-- Secondary-market listings
CREATE TABLE listings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    project_id INTEGER NOT NULL,
    seller TEXT NOT NULL,
    amount INTEGER NOT NULL CHECK(amount > 0),
    price INTEGER NOT NULL,
    active INTEGER NOT NULL DEFAULT 1,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (project_id) REFERENCES projects(id)
);
CREATE INDEX idx_project_listings ON listings(project_id);
CREATE INDEX idx_active_listings ON listings(active);

-- Payment tokens accepted for purchases
CREATE TABLE supported_tokens (
    token_id TEXT PRIMARY KEY,
    added_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- External payment-asset balances per (token, account)
CREATE TABLE wallet_balances (
    token_id TEXT NOT NULL,
    account TEXT NOT NULL,
    amount INTEGER NOT NULL DEFAULT 0 CHECK(amount >= 0),
    PRIMARY KEY (token_id, account)
);

-- Append-only event log for audit and downstream consumers
CREATE TABLE event_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    event_type TEXT NOT NULL,
    project_id INTEGER,
    listing_id INTEGER,
    account TEXT,
    amount INTEGER,
    price INTEGER,
    token_id TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX idx_event_type ON event_log(event_type);
CREATE INDEX idx_event_project ON event_log(project_id);
CREATE INDEX idx_event_created_at ON event_log(created_at);

-- API keys for authentication
CREATE TABLE api_keys (
    key_hash TEXT PRIMARY KEY,
    account TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    last_used TIMESTAMP,
    description TEXT
);
CREATE INDEX idx_account_keys ON api_keys(account);
`

	_, err := db.Exec(migration)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
