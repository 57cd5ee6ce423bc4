// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"database/sql"
	"time"

	"github.com/streamnight/nominations/models"
)

// RegistrationResult tells the caller what the upsert did, so the mirror is
// only refreshed when something actually changed.
type RegistrationResult int

const (
	RegistrationCreated RegistrationResult = iota
	RegistrationUpdated
	RegistrationUnchanged
)

// RegisterUser upserts a registered identity keyed by telegram_id. Mutable
// fields (username, first/last name) are updated in place when they differ;
// an identical re-registration is a no-op.
func (s *Store) RegisterUser(ctx context.Context, req models.RegisterUserRequest) (RegistrationResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, classifyError(err)
	}
	defer tx.Rollback()

	var username, firstName, lastName sql.NullString
	err = tx.QueryRowContext(ctx, `
		SELECT username, first_name, last_name FROM users WHERE telegram_id = $1
	`, req.TelegramID).Scan(&username, &firstName, &lastName)

	switch {
	case err == sql.ErrNoRows:
		_, err = tx.ExecContext(ctx, `
			INSERT INTO users (telegram_id, username, first_name, last_name, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, req.TelegramID, req.Username, req.FirstName, req.LastName, time.Now())
		if err != nil {
			return 0, classifyError(err)
		}
		if err := tx.Commit(); err != nil {
			return 0, classifyError(err)
		}
		return RegistrationCreated, nil

	case err != nil:
		return 0, classifyError(err)
	}

	if username.String == req.Username && firstName.String == req.FirstName && lastName.String == req.LastName {
		return RegistrationUnchanged, nil
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE users SET username = $1, first_name = $2, last_name = $3 WHERE telegram_id = $4
	`, req.Username, req.FirstName, req.LastName, req.TelegramID)
	if err != nil {
		return 0, classifyError(err)
	}
	if err := tx.Commit(); err != nil {
		return 0, classifyError(err)
	}
	return RegistrationUpdated, nil
}

// AllUsers returns every registered user, newest first.
func (s *Store) AllUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, telegram_id, username, first_name, last_name, created_at
		FROM users
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, classifyError(err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		var telegramID sql.NullInt64
		var username, firstName, lastName sql.NullString
		if err := rows.Scan(&u.ID, &telegramID, &username, &firstName, &lastName, &u.CreatedAt); err != nil {
			return nil, err
		}
		u.TelegramID = telegramID.Int64
		u.Username = username.String
		u.FirstName = firstName.String
		u.LastName = lastName.String
		users = append(users, u)
	}
	return users, rows.Err()
}
