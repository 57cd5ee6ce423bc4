// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connection and schema creation.

# Drivers

Open selects the driver from the configured database type:

	conn, err := db.Open("sqlite", "file:votes.db")
	conn, err := db.Open("postgres", "postgres://...")

sqlite (modernc.org/sqlite, cgo-free) is the default deployment; sqlite
connections get busy_timeout(5000), WAL, and foreign_keys pragmas plus a
single-writer connection pool.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn, cfg.DatabaseType); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - votes: the ledger; one row per (telegram_id, nomination)
  - users: registered identities
  - admins: admin allowlist
  - admin_logs: append-only audit trail

# Constraints

votes carries the two uniqueness constraints vote admission relies on:

  - UNIQUE (telegram_id, nomination): at most one vote per voter per
    nomination
  - UNIQUE (request_id): a retried request_id can never insert twice

# Indexes

Performance indexes on:

  - votes.request_id
  - votes.(telegram_id, nomination)
  - users.telegram_id
  - admins.telegram_id
*/
package db
