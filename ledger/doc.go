// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ledger is the authoritative, transactional vote store.

# Vote Admission

RecordVote decides, under concurrent submission, whether a vote is stored:

	outcome, err := store.RecordVote(ctx, identity, nomination, nominee, isCustom, requestID)

Outcomes: Accepted, AlreadyVoted (a vote exists for the voter+nomination),
AlreadyProcessed (request_id replay), Phantom (unusable identity, nothing
stored). Phantom is decided before any transaction is opened.

ReviseVote is the explicit correction path: it unconditionally deletes any
prior vote in the nomination and inserts the new one in one transaction.

# Concurrency Model

Each admission runs as one short transaction: a duplicate pre-check, a
replay pre-check, an insert. The pre-checks are an optimization; the
correctness backstop is the pair of UNIQUE constraints in the schema
(telegram_id+nomination, request_id). A constraint violation at insert or
commit time is translated back into AlreadyVoted/AlreadyProcessed, so a
lost race is indistinguishable from a lost pre-check.

Lock contention (sqlite busy, postgres lock timeout) surfaces as ErrBusy,
which the HTTP layer maps to 503 - a busy ledger is transient, not a
duplicate vote.

Per-pair state machine:

	NoVote → Voted    (RecordVote)
	Voted  → Voted'   (ReviseVote, supersedes)
	Voted  → NoVote   (PurgeMalformed only; no user-facing retract)

# Queries and Maintenance

	Results(ctx)         - (nomination, nominee, count) aggregate
	VotesFor(ctx, id)    - nomination → nominee for one voter
	AllVotes / AllUsers  - admin listings, newest first
	PurgeMalformed(ctx)  - delete sentinel/missing-identity rows, idempotent
	Dump(ctx)            - SQL INSERT dump for the export archive

# Users and Admins

RegisterUser upserts a registered identity and reports Created / Updated /
Unchanged so the mirror is refreshed only when needed. IsAdmin, AddAdmin
and LogAdminAction back the admin allowlist and its append-only audit
trail; the shared-password gate itself lives at the HTTP layer.
*/
package ledger
