// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"

	"github.com/streamnight/nominations/db"
	"github.com/streamnight/nominations/ledger"
	"github.com/streamnight/nominations/models"
	"github.com/streamnight/nominations/testutil"
)

func voter(telegramID int64, username string) models.Identity {
	return models.Identity{Username: username, TelegramID: &telegramID}
}

func countVotes(t *testing.T, conn *sql.DB) int {
	t.Helper()
	var n int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM votes`).Scan(&n); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	return n
}

func TestRecordVote(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	store := ledger.New(conn)
	ctx := context.Background()

	outcome, err := store.RecordVote(ctx, voter(100, "alice"), "Best Actor", "Alice", false, "req-1")
	if err != nil {
		t.Fatalf("RecordVote failed: %v", err)
	}
	if outcome != models.OutcomeAccepted {
		t.Fatalf("Expected Accepted, got %v", outcome)
	}
	if countVotes(t, conn) != 1 {
		t.Errorf("Expected 1 vote row, got %d", countVotes(t, conn))
	}
}

func TestRecordVoteSynthesizesRequestID(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	store := ledger.New(conn)

	outcome, err := store.RecordVote(context.Background(), voter(100, "alice"), "Best Actor", "Alice", false, "")
	if err != nil {
		t.Fatalf("RecordVote failed: %v", err)
	}
	if outcome != models.OutcomeAccepted {
		t.Fatalf("Expected Accepted, got %v", outcome)
	}

	var requestID string
	if err := conn.QueryRow(`SELECT request_id FROM votes`).Scan(&requestID); err != nil {
		t.Fatalf("Failed to read request_id: %v", err)
	}
	if requestID == "" {
		t.Error("Accepted vote should carry a synthesized request_id")
	}
	if _, err := uuid.Parse(requestID); err != nil {
		t.Errorf("Synthesized request_id is not a UUID: %q", requestID)
	}
}

func TestRecordVoteDuplicate(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	store := ledger.New(conn)
	ctx := context.Background()

	tests := []struct {
		name   string
		second models.Identity
	}{
		{"same telegram id", voter(100, "alice")},
		{"same telegram id, renamed", voter(100, "alice_new")},
		{"same username, different telegram id", voter(999, "alice")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := conn.Exec(`DELETE FROM votes`); err != nil {
				t.Fatalf("Failed to reset votes: %v", err)
			}
			if _, err := store.RecordVote(ctx, voter(100, "alice"), "Best Actor", "Alice", false, ""); err != nil {
				t.Fatalf("First vote failed: %v", err)
			}

			outcome, err := store.RecordVote(ctx, tt.second, "Best Actor", "Bob", false, "")
			if err != nil {
				t.Fatalf("Second vote failed: %v", err)
			}
			if outcome != models.OutcomeAlreadyVoted {
				t.Errorf("Expected AlreadyVoted, got %v", outcome)
			}

			// First nominee stands
			var nominee string
			if err := conn.QueryRow(`SELECT nominee FROM votes`).Scan(&nominee); err != nil {
				t.Fatalf("Failed to read nominee: %v", err)
			}
			if nominee != "Alice" {
				t.Errorf("Duplicate must not change the recorded nominee, got %q", nominee)
			}
		})
	}
}

func TestRecordVoteDifferentNominations(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	store := ledger.New(conn)
	ctx := context.Background()

	for _, nomination := range []string{"Best Actor", "Best Film"} {
		outcome, err := store.RecordVote(ctx, voter(100, "alice"), nomination, "X", false, "")
		if err != nil {
			t.Fatalf("RecordVote(%s) failed: %v", nomination, err)
		}
		if outcome != models.OutcomeAccepted {
			t.Errorf("Vote in %s: expected Accepted, got %v", nomination, outcome)
		}
	}
	if countVotes(t, conn) != 2 {
		t.Errorf("Expected 2 vote rows, got %d", countVotes(t, conn))
	}
}

func TestRecordVoteReplay(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	store := ledger.New(conn)
	ctx := context.Background()

	if _, err := store.RecordVote(ctx, voter(100, "alice"), "Best Actor", "Alice", false, "req-7"); err != nil {
		t.Fatalf("First vote failed: %v", err)
	}

	// Same token from a different voter: delivery retry, not a new ballot
	outcome, err := store.RecordVote(ctx, voter(200, "bob"), "Best Actor", "Bob", false, "req-7")
	if err != nil {
		t.Fatalf("Replay failed: %v", err)
	}
	if outcome != models.OutcomeAlreadyProcessed {
		t.Errorf("Expected AlreadyProcessed, got %v", outcome)
	}
	if countVotes(t, conn) != 1 {
		t.Errorf("Replay must not add rows, got %d", countVotes(t, conn))
	}
}

func TestRecordVotePhantom(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	store := ledger.New(conn)
	ctx := context.Background()

	zero := int64(0)
	hundred := int64(100)
	tests := []struct {
		name string
		id   models.Identity
	}{
		{"nil telegram id", models.Identity{Username: "alice"}},
		{"zero telegram id", models.Identity{Username: "alice", TelegramID: &zero}},
		{"empty username", models.Identity{Username: "", TelegramID: &hundred}},
		{"sentinel username", models.Identity{Username: models.SentinelUsername, TelegramID: &hundred}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, err := store.RecordVote(ctx, tt.id, "Best Actor", "Alice", false, "")
			if err != nil {
				t.Fatalf("RecordVote failed: %v", err)
			}
			if outcome != models.OutcomePhantom {
				t.Errorf("Expected Phantom, got %v", outcome)
			}
		})
	}

	if countVotes(t, conn) != 0 {
		t.Errorf("Phantom votes must not reach storage, got %d rows", countVotes(t, conn))
	}
}

func TestReviseVote(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	store := ledger.New(conn)
	ctx := context.Background()

	if _, err := store.RecordVote(ctx, voter(100, "alice"), "Best Actor", "Alice", false, ""); err != nil {
		t.Fatalf("Initial vote failed: %v", err)
	}

	outcome, err := store.ReviseVote(ctx, voter(100, "alice"), "Best Actor", "Bob", false, "")
	if err != nil {
		t.Fatalf("ReviseVote failed: %v", err)
	}
	if outcome != models.OutcomeAccepted {
		t.Fatalf("Expected Accepted, got %v", outcome)
	}

	if countVotes(t, conn) != 1 {
		t.Fatalf("Revote must leave exactly one row, got %d", countVotes(t, conn))
	}
	var nominee string
	if err := conn.QueryRow(`SELECT nominee FROM votes`).Scan(&nominee); err != nil {
		t.Fatalf("Failed to read nominee: %v", err)
	}
	if nominee != "Bob" {
		t.Errorf("Expected nominee Bob after revote, got %q", nominee)
	}
}

func TestReviseVoteWithoutPrior(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	store := ledger.New(conn)

	outcome, err := store.ReviseVote(context.Background(), voter(100, "alice"), "Best Actor", "Alice", false, "")
	if err != nil {
		t.Fatalf("ReviseVote failed: %v", err)
	}
	if outcome != models.OutcomeAccepted {
		t.Errorf("Revote with no prior vote should still record, got %v", outcome)
	}
	if countVotes(t, conn) != 1 {
		t.Errorf("Expected 1 vote row, got %d", countVotes(t, conn))
	}
}

func TestReviseVoteReplay(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	store := ledger.New(conn)
	ctx := context.Background()

	if _, err := store.RecordVote(ctx, voter(100, "alice"), "Best Actor", "Alice", false, "req-9"); err != nil {
		t.Fatalf("Initial vote failed: %v", err)
	}

	// Reusing another ballot's token trips the request_id constraint
	outcome, err := store.ReviseVote(ctx, voter(200, "bob"), "Best Actor", "Bob", false, "req-9")
	if err != nil {
		t.Fatalf("ReviseVote failed: %v", err)
	}
	if outcome != models.OutcomeAlreadyProcessed {
		t.Errorf("Expected AlreadyProcessed, got %v", outcome)
	}
}

func TestResults(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	store := ledger.New(conn)

	testutil.InsertTestVote(t, conn, 100, "alice", "Best Actor", "Alice")
	testutil.InsertTestVote(t, conn, 200, "bob", "Best Actor", "Alice")
	testutil.InsertTestVote(t, conn, 300, "carol", "Best Actor", "Bob")
	testutil.InsertTestVote(t, conn, 100, "alice", "Best Film", "Movie X")

	results, err := store.Results(context.Background())
	if err != nil {
		t.Fatalf("Results failed: %v", err)
	}

	counts := map[[2]string]int{}
	for _, r := range results {
		counts[[2]string{r.Nomination, r.Nominee}] = r.Votes
	}
	expected := map[[2]string]int{
		{"Best Actor", "Alice"}:  2,
		{"Best Actor", "Bob"}:    1,
		{"Best Film", "Movie X"}: 1,
	}
	if len(counts) != len(expected) {
		t.Fatalf("Expected %d result rows, got %d: %v", len(expected), len(counts), results)
	}
	for key, want := range expected {
		if counts[key] != want {
			t.Errorf("%v: expected %d votes, got %d", key, want, counts[key])
		}
	}
}

func TestVotesFor(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	store := ledger.New(conn)

	testutil.InsertTestVote(t, conn, 100, "alice", "Best Actor", "Alice")
	testutil.InsertTestVote(t, conn, 100, "alice", "Best Film", "Movie X")
	testutil.InsertTestVote(t, conn, 200, "bob", "Best Actor", "Bob")

	votes, err := store.VotesFor(context.Background(), 100)
	if err != nil {
		t.Fatalf("VotesFor failed: %v", err)
	}
	if len(votes) != 2 {
		t.Fatalf("Expected 2 nominations, got %d: %v", len(votes), votes)
	}
	if votes["Best Actor"] != "Alice" || votes["Best Film"] != "Movie X" {
		t.Errorf("Unexpected voter ballot: %v", votes)
	}
}

func TestPurgeMalformed(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	store := ledger.New(conn)
	ctx := context.Background()

	testutil.InsertTestVote(t, conn, 100, "alice", "Best Actor", "Alice")

	// Legacy rows the boundary filter no longer admits
	mustExec(t, conn, `
		INSERT INTO votes (username, telegram_id, nomination, nominee, is_custom, request_id, created_at)
		VALUES ('ghost', NULL, 'Best Actor', 'X', FALSE, 'p-1', CURRENT_TIMESTAMP)
	`)
	mustExec(t, conn, `
		INSERT INTO votes (username, telegram_id, nomination, nominee, is_custom, request_id, created_at)
		VALUES ('ghost2', 0, 'Best Film', 'X', FALSE, 'p-2', CURRENT_TIMESTAMP)
	`)
	mustExec(t, conn, `
		INSERT INTO votes (username, telegram_id, nomination, nominee, is_custom, request_id, created_at)
		VALUES ('Default User', 300, 'Best Film', 'X', FALSE, 'p-3', CURRENT_TIMESTAMP)
	`)

	deleted, err := store.PurgeMalformed(ctx)
	if err != nil {
		t.Fatalf("PurgeMalformed failed: %v", err)
	}
	if deleted != 3 {
		t.Errorf("Expected 3 deleted, got %d", deleted)
	}
	if countVotes(t, conn) != 1 {
		t.Errorf("Valid vote should survive the purge, got %d rows", countVotes(t, conn))
	}

	deleted, err = store.PurgeMalformed(ctx)
	if err != nil {
		t.Fatalf("Second PurgeMalformed failed: %v", err)
	}
	if deleted != 0 {
		t.Errorf("Purge should be idempotent, got %d", deleted)
	}
}

func TestAllVotes(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	store := ledger.New(conn)

	testutil.InsertTestVote(t, conn, 100, "alice", "Best Actor", "Alice")
	mustExec(t, conn, `
		INSERT INTO votes (username, telegram_id, nomination, nominee, is_custom, request_id, created_at)
		VALUES ('ghost', NULL, 'Best Film', 'X', FALSE, 'p-1', CURRENT_TIMESTAMP)
	`)

	votes, err := store.AllVotes(context.Background())
	if err != nil {
		t.Fatalf("AllVotes failed: %v", err)
	}
	if len(votes) != 2 {
		t.Fatalf("Expected 2 votes, got %d", len(votes))
	}

	var sawNil bool
	for _, v := range votes {
		if v.TelegramID == nil {
			sawNil = true
		}
		if v.RequestID == "" {
			t.Errorf("Vote %d missing request_id", v.ID)
		}
	}
	if !sawNil {
		t.Error("NULL telegram_id should surface as a nil pointer")
	}
}

// Contested admission: many concurrent attempts for the same voter and
// nomination, over independent connections, must admit exactly one and
// answer everyone without a storage error.
func TestRecordVoteConcurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "votes.db")

	open := func() *sql.DB {
		conn, err := db.Open("sqlite", "file:"+path)
		if err != nil {
			t.Fatalf("Failed to open database: %v", err)
		}
		t.Cleanup(func() { conn.Close() })
		return conn
	}

	first := open()
	if err := db.CreateSchema(first, "sqlite"); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	stores := []*ledger.Store{ledger.New(first), ledger.New(open())}

	const attempts = 10
	var accepted, rejected atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcome, err := stores[i%len(stores)].RecordVote(
				context.Background(), voter(100, "alice"), "Best Actor", "Alice", false, "")
			if err != nil {
				t.Errorf("Concurrent RecordVote failed: %v", err)
				return
			}
			switch outcome {
			case models.OutcomeAccepted:
				accepted.Add(1)
			case models.OutcomeAlreadyVoted, models.OutcomeAlreadyProcessed:
				rejected.Add(1)
			default:
				t.Errorf("Unexpected outcome %v", outcome)
			}
		}(i)
	}
	wg.Wait()

	if accepted.Load() != 1 {
		t.Errorf("Expected exactly 1 accepted vote, got %d", accepted.Load())
	}
	if rejected.Load() != attempts-1 {
		t.Errorf("Expected %d duplicate outcomes, got %d", attempts-1, rejected.Load())
	}
	if n := countVotes(t, first); n != 1 {
		t.Errorf("Expected 1 vote row, got %d", n)
	}
}

func TestRecordVoteConcurrentDistinctVoters(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	store := ledger.New(conn)

	const voters = 20
	var accepted atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcome, err := store.RecordVote(
				context.Background(), voter(int64(1000+i), "user"+string(rune('a'+i))), "Best Actor", "Alice", false, "")
			if err != nil {
				t.Errorf("Concurrent RecordVote failed: %v", err)
				return
			}
			if outcome == models.OutcomeAccepted {
				accepted.Add(1)
			}
		}(i)
	}
	wg.Wait()

	if accepted.Load() != voters {
		t.Errorf("Expected all %d votes accepted, got %d", voters, accepted.Load())
	}
}

func mustExec(t *testing.T, conn *sql.DB, query string, args ...interface{}) {
	t.Helper()
	if _, err := conn.Exec(query, args...); err != nil {
		t.Fatalf("Exec failed: %v", err)
	}
}
