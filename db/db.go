// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Open connects with the configured driver. databaseType is "sqlite" or
// "postgres"; cliparse has already validated it.
func Open(databaseType, databaseURL string) (*sql.DB, error) {
	switch databaseType {
	case "postgres":
		return sql.Open("postgres", databaseURL)
	case "sqlite":
		conn, err := sql.Open("sqlite", sqliteDSN(databaseURL))
		if err != nil {
			return nil, err
		}
		// A single writer connection sidesteps SQLITE_BUSY between
		// pooled connections; writes are short transactions anyway.
		conn.SetMaxOpenConns(1)
		return conn, nil
	}
	return nil, fmt.Errorf("unknown database type %q", databaseType)
}

// sqliteDSN appends the options the ledger depends on: transactions begin
// IMMEDIATE so concurrent admissions queue on the write lock up front
// (instead of failing a read-to-write upgrade), a 5s busy timeout so queued
// writers wait instead of erroring, WAL, and foreign keys.
func sqliteDSN(url string) string {
	if strings.Contains(url, "_pragma=") {
		return url
	}
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep +
		"_txlock=immediate&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
}
