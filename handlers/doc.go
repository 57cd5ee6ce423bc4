// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the nominations API.

# Handler Types

Each handler is a struct with its dependencies injected:

  - VotingHandler: vote / revote / custom-vote admission
  - UserHandler: identity registration and per-user vote lookup
  - ResultsHandler: result aggregation and nominee search
  - AdminHandler: audit, export, cleanup, elevation, catalog reload

Handlers are created via constructor functions:

	votingHandler := handlers.NewVotingHandler(svc)

# Voting Flow

	POST /vote          → Vote
	POST /revote        → Revote (supersedes the prior vote)
	POST /vote-custom   → VoteCustom (free-text nominee)
	POST /revote-custom → RevoteCustom

All four return 200 with a human-readable status message for every
business outcome (accepted, duplicate, replay, phantom); only validation
failures (400), ledger contention (503) and storage faults (500) use
error statuses. Callers distinguish outcomes by message text - an
acknowledged design weakness inherited from the API contract.

# Admin Operations

	GET  /admin/votes         } behind RequireAdmin
	GET  /admin/users         } (X-Telegram-ID header against
	POST /admin/clean-votes   }  the admins allowlist)
	POST /admin/reload-nominees
	GET  /admin/download-data

	POST /admin/add   - password-gated elevation, no allowlist needed
	GET  /admin/check - public allowlist probe

DownloadData builds a zip (votes.xlsx, users.xlsx, database_dump.sql)
in memory and streams it with a timestamped filename.
*/
package handlers
