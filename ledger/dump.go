// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Dump writes every row of every table as SQL INSERT statements, for the
// export archive. The output restores into a fresh schema; it is not a
// schema dump.
func (s *Store) Dump(ctx context.Context) (string, error) {
	var b strings.Builder

	votes, err := s.AllVotes(ctx)
	if err != nil {
		return "", err
	}
	for _, v := range votes {
		telegramID := "NULL"
		if v.TelegramID != nil {
			telegramID = fmt.Sprintf("%d", *v.TelegramID)
		}
		fmt.Fprintf(&b, "INSERT INTO votes (id, username, telegram_id, nomination, nominee, is_custom, request_id, created_at) VALUES (%d, %s, %s, %s, %s, %t, %s, %s);\n",
			v.ID, quote(v.Username), telegramID, quote(v.Nomination), quote(v.Nominee), v.IsCustom, quote(v.RequestID), quote(formatTime(v.CreatedAt)))
	}

	users, err := s.AllUsers(ctx)
	if err != nil {
		return "", err
	}
	for _, u := range users {
		fmt.Fprintf(&b, "INSERT INTO users (id, telegram_id, username, first_name, last_name, created_at) VALUES (%d, %d, %s, %s, %s, %s);\n",
			u.ID, u.TelegramID, quote(u.Username), quote(u.FirstName), quote(u.LastName), quote(formatTime(u.CreatedAt)))
	}

	if err := s.dumpAdmins(ctx, &b); err != nil {
		return "", err
	}
	if err := s.dumpAdminLogs(ctx, &b); err != nil {
		return "", err
	}

	return b.String(), nil
}

func (s *Store) dumpAdmins(ctx context.Context, b *strings.Builder) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, telegram_id, created_at FROM admins ORDER BY id
	`)
	if err != nil {
		return classifyError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, telegramID int64
		var username string
		var createdAt time.Time
		if err := rows.Scan(&id, &username, &telegramID, &createdAt); err != nil {
			return err
		}
		fmt.Fprintf(b, "INSERT INTO admins (id, username, telegram_id, created_at) VALUES (%d, %s, %d, %s);\n",
			id, quote(username), telegramID, quote(formatTime(createdAt)))
	}
	return rows.Err()
}

func (s *Store) dumpAdminLogs(ctx context.Context, b *strings.Builder) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, admin_id, action, details, created_at FROM admin_logs ORDER BY id
	`)
	if err != nil {
		return classifyError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, adminID int64
		var action string
		var details sql.NullString
		var createdAt time.Time
		if err := rows.Scan(&id, &adminID, &action, &details, &createdAt); err != nil {
			return err
		}
		fmt.Fprintf(b, "INSERT INTO admin_logs (id, admin_id, action, details, created_at) VALUES (%d, %d, %s, %s, %s);\n",
			id, adminID, quote(action), quote(details.String), quote(formatTime(createdAt)))
	}
	return rows.Err()
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05")
}
