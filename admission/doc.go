// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package admission orchestrates vote submission.

Four entry points map 1:1 onto the ledger's record/revise operations,
parameterized by whether the nominee is catalog-selected or free text:

	Vote(ctx, req)         - record a vote
	Revote(ctx, req)       - supersede a prior vote
	VoteCustom(ctx, req)   - record a free-text vote
	RevoteCustom(ctx, req) - supersede with a free-text vote

Per call: phantom identities are dropped first (nothing stored, nothing
validated); custom nominees must be non-blank and allowed by the catalog
(ErrInvalidNominee, raised before the ledger is touched); the ledger
transaction runs; and only after it committed with Accepted is the mirror
updated, best-effort - mirror errors are logged here and never surfaced.
*/
package admission
