// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"
)

var (
	// ErrUserNotFound: the username to elevate has never registered.
	ErrUserNotFound = errors.New("ledger: user not found")
	// ErrAlreadyAdmin: the user is already on the allowlist.
	ErrAlreadyAdmin = errors.New("ledger: already an admin")
)

// PasswordAdminID is the admin_logs actor recorded for actions authorized
// by the shared password rather than by a specific admin.
const PasswordAdminID = 0

// IsAdmin reports whether the telegram id is on the admin allowlist.
func (s *Store) IsAdmin(ctx context.Context, telegramID int64) (bool, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM admins WHERE telegram_id = $1
	`, telegramID).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, classifyError(err)
	}
	return true, nil
}

// AddAdmin elevates a registered user, resolving their telegram_id from the
// users table. The password gate lives at the HTTP layer; this only enforces
// existence and non-duplication.
func (s *Store) AddAdmin(ctx context.Context, username string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classifyError(err)
	}
	defer tx.Rollback()

	var telegramID sql.NullInt64
	err = tx.QueryRowContext(ctx, `
		SELECT telegram_id FROM users WHERE username = $1
	`, username).Scan(&telegramID)
	if err == sql.ErrNoRows {
		return ErrUserNotFound
	}
	if err != nil {
		return classifyError(err)
	}

	var existing int64
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM admins WHERE username = $1 OR telegram_id = $2
	`, username, telegramID).Scan(&existing)
	if err == nil {
		return ErrAlreadyAdmin
	}
	if err != sql.ErrNoRows {
		return classifyError(err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO admins (username, telegram_id, created_at) VALUES ($1, $2, $3)
	`, username, telegramID, time.Now())
	if err != nil {
		if _, ok := uniqueViolationOutcome(err); ok {
			return ErrAlreadyAdmin
		}
		return classifyError(err)
	}

	if err := tx.Commit(); err != nil {
		return classifyError(err)
	}

	slog.Info("admin added", "username", username)
	return nil
}

// LogAdminAction appends to the audit trail. Write-only: nothing in the
// core reads it back, so callers treat failures as best-effort.
func (s *Store) LogAdminAction(ctx context.Context, adminID int64, action, details string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO admin_logs (admin_id, action, details, created_at) VALUES ($1, $2, $3, $4)
	`, adminID, action, details, time.Now())
	return classifyError(err)
}
