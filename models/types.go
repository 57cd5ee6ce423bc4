// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Outcome classifies a vote admission attempt.
type Outcome int

const (
	OutcomeAccepted Outcome = iota
	OutcomeAlreadyVoted
	OutcomeAlreadyProcessed
	OutcomePhantom
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeAlreadyVoted:
		return "already_voted"
	case OutcomeAlreadyProcessed:
		return "already_processed"
	case OutcomePhantom:
		return "phantom"
	}
	return "unknown"
}

// SentinelUsername is the placeholder some clients send when they never
// learned who the user is. Requests carrying it are phantoms.
const SentinelUsername = "Default User"

// Identity is the voter identity as supplied by the client. TelegramID is
// nil when the client didn't have one; validation happens once, at the
// admission boundary, instead of sentinel-sniffing downstream.
type Identity struct {
	Username   string
	TelegramID *int64
}

// Valid reports whether the identity is usable for a ledger row.
func (id Identity) Valid() bool {
	if id.Username == "" || id.Username == SentinelUsername {
		return false
	}
	return id.TelegramID != nil && *id.TelegramID != 0
}

// CustomNomineeDisplay wraps a free-text nominee in the display form stored
// in the ledger and shown in results.
func CustomNomineeDisplay(value string) string {
	return "CUSTOM(" + value + ")"
}

// Request types

type VoteRequest struct {
	Username   string `json:"username"`
	TelegramID *int64 `json:"telegram_id"`
	Nomination string `json:"nomination"`
	Nominee    string `json:"nominee"`
	IsCustom   bool   `json:"is_custom"`
	RequestID  string `json:"request_id"`
}

func (r VoteRequest) Identity() Identity {
	return Identity{Username: r.Username, TelegramID: r.TelegramID}
}

type CustomVoteRequest struct {
	Username      string `json:"username"`
	TelegramID    *int64 `json:"telegram_id"`
	Nomination    string `json:"nomination"`
	CustomNominee string `json:"custom_nominee"`
	RequestID     string `json:"request_id"`
}

func (r CustomVoteRequest) Identity() Identity {
	return Identity{Username: r.Username, TelegramID: r.TelegramID}
}

type SearchRequest struct {
	Query      string `json:"query"`
	Nomination string `json:"nomination"`
}

type RegisterUserRequest struct {
	TelegramID int64  `json:"telegram_id"`
	Username   string `json:"username"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
}

type AddAdminRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Response types

type MessageResponse struct {
	Message string `json:"message"`
}

type SearchResponse struct {
	Results []string `json:"results"`
}

type ResultRow struct {
	Nomination string `json:"nomination"`
	Nominee    string `json:"nominee"`
	Votes      int    `json:"votes"`
}

type RegisterUserResponse struct {
	Message string              `json:"message"`
	User    RegisterUserRequest `json:"user"`
}

type AdminCheckResponse struct {
	IsAdmin bool `json:"is_admin"`
}

type PurgeResponse struct {
	Message string `json:"message"`
	Deleted int64  `json:"deleted"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Domain types

type Vote struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	TelegramID *int64    `json:"telegram_id"`
	Nomination string    `json:"nomination"`
	Nominee    string    `json:"nominee"`
	IsCustom   bool      `json:"is_custom"`
	RequestID  string    `json:"request_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type User struct {
	ID         int64     `json:"id"`
	TelegramID int64     `json:"telegram_id"`
	Username   string    `json:"username"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	CreatedAt  time.Time `json:"created_at"`
}

type Admin struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	TelegramID int64     `json:"telegram_id"`
	CreatedAt  time.Time `json:"created_at"`
}
