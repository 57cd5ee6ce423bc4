// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Identity

Identity carries the voter's username and optional Telegram ID exactly as
the client supplied them. Identity.Valid is the single place that decides
whether a request is a phantom (missing or placeholder identity); nothing
downstream inspects sentinel strings.

# Outcomes

Vote admission returns one of four outcomes:

	OutcomeAccepted         - vote stored
	OutcomeAlreadyVoted     - a vote already exists for this voter+nomination
	OutcomeAlreadyProcessed - the request_id was seen before (replay)
	OutcomePhantom          - unusable identity, dropped without storage

# Request Types

Types for parsing incoming JSON:

  - VoteRequest: vote and revote payloads (nominee may be custom)
  - CustomVoteRequest: free-text nominee payloads
  - SearchRequest: nominee search within a nomination
  - RegisterUserRequest: identity registration upsert
  - AddAdminRequest: password-gated admin elevation

# Response Types

  - MessageResponse: human-readable status message
  - SearchResponse: matching nominees in catalog order
  - ResultRow: (nomination, nominee, votes) aggregate
  - AdminCheckResponse, PurgeResponse, RegisterUserResponse
  - ErrorResponse: error, message

# Domain Types

  - Vote: one ledger row, nominee stored in display form
    (custom votes are wrapped as "CUSTOM(<value>)")
  - User: registered identity
  - Admin: allowlisted administrator
*/
package models
