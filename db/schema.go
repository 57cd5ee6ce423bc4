// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
//
// The two UNIQUE constraints on votes are the correctness backstop for
// concurrent admission: the ledger's pre-checks are an optimization, the
// constraints are what actually prevent a duplicate.
func CreateSchema(db *sql.DB, databaseType string) error {
	schema := sqliteSchema
	if databaseType == "postgres" {
		schema = postgresSchema
	}
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

const sqliteSchema = `
-- Votes: one row per (telegram_id, nomination)
CREATE TABLE IF NOT EXISTS votes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL,
    telegram_id BIGINT,
    nomination TEXT NOT NULL,
    nominee TEXT NOT NULL,
    is_custom BOOLEAN NOT NULL DEFAULT FALSE,
    request_id TEXT UNIQUE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (telegram_id, nomination)
);

CREATE INDEX IF NOT EXISTS idx_votes_request_id ON votes(request_id);
CREATE INDEX IF NOT EXISTS idx_votes_user_nomination ON votes(telegram_id, nomination);

-- Registered users
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    telegram_id BIGINT UNIQUE,
    username TEXT,
    first_name TEXT,
    last_name TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_users_telegram_id ON users(telegram_id);

-- Admin allowlist
CREATE TABLE IF NOT EXISTS admins (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT UNIQUE NOT NULL,
    telegram_id BIGINT UNIQUE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_admins_telegram_id ON admins(telegram_id);

-- Append-only audit trail of admin actions
CREATE TABLE IF NOT EXISTS admin_logs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    admin_id BIGINT NOT NULL,
    action TEXT NOT NULL,
    details TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS votes (
    id BIGSERIAL PRIMARY KEY,
    username TEXT NOT NULL,
    telegram_id BIGINT,
    nomination TEXT NOT NULL,
    nominee TEXT NOT NULL,
    is_custom BOOLEAN NOT NULL DEFAULT FALSE,
    request_id TEXT UNIQUE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    UNIQUE (telegram_id, nomination)
);

CREATE INDEX IF NOT EXISTS idx_votes_request_id ON votes(request_id);
CREATE INDEX IF NOT EXISTS idx_votes_user_nomination ON votes(telegram_id, nomination);

CREATE TABLE IF NOT EXISTS users (
    id BIGSERIAL PRIMARY KEY,
    telegram_id BIGINT UNIQUE,
    username TEXT,
    first_name TEXT,
    last_name TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_users_telegram_id ON users(telegram_id);

CREATE TABLE IF NOT EXISTS admins (
    id BIGSERIAL PRIMARY KEY,
    username TEXT UNIQUE NOT NULL,
    telegram_id BIGINT UNIQUE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_admins_telegram_id ON admins(telegram_id);

CREATE TABLE IF NOT EXISTS admin_logs (
    id BIGSERIAL PRIMARY KEY,
    admin_id BIGINT NOT NULL,
    action TEXT NOT NULL,
    details TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);
`
