// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/streamnight/nominations/models"
)

// ErrBusy marks storage contention (lock wait exhausted the busy timeout).
// Retryable by the caller; never folded into a duplicate-vote outcome.
var ErrBusy = errors.New("ledger: storage busy")

// Store is the authoritative vote ledger.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// RecordVote admits one vote for (identity, nomination).
//
// Order of checks inside a single short transaction:
//  1. phantom identities are dropped before any storage is touched
//  2. a missing request_id gets a fresh UUID, so every accepted vote is
//     idempotency-addressable after the fact
//  3. an existing vote for the nomination by telegram_id OR username wins:
//     AlreadyVoted
//  4. an existing row with this request_id wins: AlreadyProcessed (replay)
//  5. otherwise insert and commit: Accepted
//
// The pre-checks are an optimization. Under a race both transactions can
// pass them; the UNIQUE constraints on (telegram_id, nomination) and
// request_id then reject the loser at insert/commit, and that rejection is
// mapped to the same AlreadyVoted/AlreadyProcessed outcomes - never an
// error to the caller.
func (s *Store) RecordVote(ctx context.Context, id models.Identity, nomination, nominee string, isCustom bool, requestID string) (models.Outcome, error) {
	if !id.Valid() {
		return models.OutcomePhantom, nil
	}
	if requestID == "" {
		requestID = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, classifyError(err)
	}
	defer tx.Rollback()

	// Username is a deliberate fallback identity key for pre-registration
	// clients. Known risk: a reused username can match a different person's
	// vote here.
	var existingID int64
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM votes
		WHERE nomination = $1 AND (telegram_id = $2 OR username = $3)
	`, nomination, *id.TelegramID, id.Username).Scan(&existingID)

	if err == nil {
		return models.OutcomeAlreadyVoted, nil
	}
	if err != sql.ErrNoRows {
		return 0, classifyError(err)
	}

	err = tx.QueryRowContext(ctx, `
		SELECT id FROM votes WHERE request_id = $1
	`, requestID).Scan(&existingID)

	if err == nil {
		return models.OutcomeAlreadyProcessed, nil
	}
	if err != sql.ErrNoRows {
		return 0, classifyError(err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO votes (username, telegram_id, nomination, nominee, is_custom, request_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, id.Username, *id.TelegramID, nomination, nominee, isCustom, requestID, time.Now())

	if err != nil {
		if outcome, ok := uniqueViolationOutcome(err); ok {
			return outcome, nil
		}
		return 0, classifyError(err)
	}

	if err := tx.Commit(); err != nil {
		if outcome, ok := uniqueViolationOutcome(err); ok {
			return outcome, nil
		}
		return 0, classifyError(err)
	}

	slog.Info("vote recorded", "username", id.Username, "nomination", nomination, "custom", isCustom)
	return models.OutcomeAccepted, nil
}

// ReviseVote supersedes any prior vote in the nomination: delete-then-insert
// in one transaction, no prior-vote check. This is the explicit "change my
// vote" path, so an absent prior vote is not an error.
func (s *Store) ReviseVote(ctx context.Context, id models.Identity, nomination, nominee string, isCustom bool, requestID string) (models.Outcome, error) {
	if !id.Valid() {
		return models.OutcomePhantom, nil
	}
	if requestID == "" {
		requestID = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, classifyError(err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		DELETE FROM votes WHERE nomination = $1 AND telegram_id = $2
	`, nomination, *id.TelegramID)
	if err != nil {
		return 0, classifyError(err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO votes (username, telegram_id, nomination, nominee, is_custom, request_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, id.Username, *id.TelegramID, nomination, nominee, isCustom, requestID, time.Now())

	if err != nil {
		if outcome, ok := uniqueViolationOutcome(err); ok {
			return outcome, nil
		}
		return 0, classifyError(err)
	}

	if err := tx.Commit(); err != nil {
		if outcome, ok := uniqueViolationOutcome(err); ok {
			return outcome, nil
		}
		return 0, classifyError(err)
	}

	slog.Info("vote revised", "username", id.Username, "nomination", nomination, "custom", isCustom)
	return models.OutcomeAccepted, nil
}

// Results aggregates vote counts grouped by (nomination, nominee).
func (s *Store) Results(ctx context.Context) ([]models.ResultRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT nomination, nominee, COUNT(*) AS votes
		FROM votes
		GROUP BY nomination, nominee
	`)
	if err != nil {
		return nil, classifyError(err)
	}
	defer rows.Close()

	results := []models.ResultRow{}
	for rows.Next() {
		var row models.ResultRow
		if err := rows.Scan(&row.Nomination, &row.Nominee, &row.Votes); err != nil {
			return nil, err
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// VotesFor returns the voter's last-known nominee per nomination.
func (s *Store) VotesFor(ctx context.Context, telegramID int64) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT nomination, nominee FROM votes WHERE telegram_id = $1
	`, telegramID)
	if err != nil {
		return nil, classifyError(err)
	}
	defer rows.Close()

	votes := map[string]string{}
	for rows.Next() {
		var nomination, nominee string
		if err := rows.Scan(&nomination, &nominee); err != nil {
			return nil, err
		}
		votes[nomination] = nominee
	}
	return votes, rows.Err()
}

// PurgeMalformed deletes rows whose identity is missing or a sentinel
// placeholder. These predate the boundary phantom filter; the normal vote
// path can no longer create them. Idempotent: a second run removes nothing.
func (s *Store) PurgeMalformed(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM votes
		WHERE telegram_id IS NULL OR telegram_id = 0 OR username = $1
	`, models.SentinelUsername)
	if err != nil {
		return 0, classifyError(err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		slog.Info("purged malformed votes", "deleted", deleted)
	}
	return deleted, nil
}

// AllVotes returns every ledger row, newest first.
func (s *Store) AllVotes(ctx context.Context) ([]models.Vote, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, telegram_id, nomination, nominee, is_custom, request_id, created_at
		FROM votes
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, classifyError(err)
	}
	defer rows.Close()

	votes := []models.Vote{}
	for rows.Next() {
		var v models.Vote
		var telegramID sql.NullInt64
		var requestID sql.NullString
		if err := rows.Scan(&v.ID, &v.Username, &telegramID, &v.Nomination, &v.Nominee, &v.IsCustom, &requestID, &v.CreatedAt); err != nil {
			return nil, err
		}
		if telegramID.Valid {
			v.TelegramID = &telegramID.Int64
		}
		v.RequestID = requestID.String
		votes = append(votes, v)
	}
	return votes, rows.Err()
}

// classifyError maps driver-level contention onto ErrBusy so the HTTP layer
// can answer "try again" instead of a hard failure.
func classifyError(err error) error {
	if isBusy(err) {
		return fmt.Errorf("%w: %v", ErrBusy, err)
	}
	return err
}

func isBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || // sqlite
		strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "55P03") || // pq: lock_not_available
		strings.Contains(msg, "canceling statement due to lock timeout")
}

// uniqueViolationOutcome maps a uniqueness-constraint violation onto the
// business outcome the violated constraint stands for. Follows the driver
// error text the same way the pre-checks follow the indexes.
func uniqueViolationOutcome(err error) (models.Outcome, bool) {
	if err == nil {
		return 0, false
	}
	msg := err.Error()
	unique := strings.Contains(msg, "UNIQUE constraint failed") || // modernc sqlite
		strings.Contains(msg, "duplicate key value violates unique constraint") // pq
	if !unique {
		return 0, false
	}
	if strings.Contains(msg, "request_id") {
		return models.OutcomeAlreadyProcessed, true
	}
	return models.OutcomeAlreadyVoted, true
}
