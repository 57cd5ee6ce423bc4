// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/streamnight/nominations/cliparse"
	"github.com/streamnight/nominations/db"
)

// SetupTestDB creates a fresh sqlite database with the full schema in a
// per-test temp directory.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "votes.db")
	conn, err := db.Open("sqlite", "file:"+path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn, "sqlite"); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration with per-test dirs
func GetTestConfig(t *testing.T) cliparse.Config {
	t.Helper()
	dir := t.TempDir()
	return cliparse.Config{
		Port:          8000,
		DatabaseURL:   "file:" + filepath.Join(dir, "votes.db"),
		DatabaseType:  "sqlite",
		AdminPassword: "test-admin-password",
		NomineesFile:  filepath.Join(dir, "allowed_nominees.txt"),
		DataDir:       dir,
	}
}

// TelegramID builds the pointer form request payloads carry.
func TelegramID(v int64) *int64 {
	return &v
}

// RegisterTestUser inserts a registered user row
func RegisterTestUser(t *testing.T, db *sql.DB, telegramID int64, username string) {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO users (telegram_id, username, first_name, last_name, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, telegramID, username, "Test", "User", time.Now())
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
}

// InsertTestVote inserts a ledger row directly, bypassing admission
func InsertTestVote(t *testing.T, db *sql.DB, telegramID int64, username, nomination, nominee string) {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO votes (username, telegram_id, nomination, nominee, is_custom, request_id, created_at)
		VALUES ($1, $2, $3, $4, FALSE, $5, $6)
	`, username, telegramID, nomination, nominee, uuid.NewString(), time.Now())
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}
}

// MakeTestAdmin puts a user on the admin allowlist
func MakeTestAdmin(t *testing.T, db *sql.DB, telegramID int64, username string) {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO admins (username, telegram_id, created_at) VALUES ($1, $2, $3)
	`, username, telegramID, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test admin: %v", err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
