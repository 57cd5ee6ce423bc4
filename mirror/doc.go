// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package mirror keeps a best-effort xlsx mirror of the ledger for offline
consumption: votes.xlsx and users.xlsx, built with excelize.

# Consistency Model

The mirror is derived and advisory only. Every mutation happens strictly
after the originating ledger transaction committed; on any disagreement the
ledger wins. Methods return errors, but the admission service logs and
swallows them - a mirror failure never rolls back or fails a vote.

# Interface

	e, err := mirror.New(dataDir)   // creates workbooks with headers
	e.AppendVote(vote)              // vote accepted
	e.ReplaceVote(tid, nom, vote)   // revote superseded a row
	e.UpsertUser(user)              // registration created/updated

Keyed operations match on (Telegram ID, Nomination) for votes and on
Telegram ID for users. An internal mutex serializes writers; each call
reopens and saves the workbook, so a skipped or failed call can't corrupt
previously written content.
*/
package mirror
