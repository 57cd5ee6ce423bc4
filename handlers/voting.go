// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/streamnight/nominations/admission"
	"github.com/streamnight/nominations/ledger"
	"github.com/streamnight/nominations/middleware"
	"github.com/streamnight/nominations/models"
)

type VotingHandler struct {
	svc *admission.Service
}

func NewVotingHandler(svc *admission.Service) *VotingHandler {
	return &VotingHandler{svc: svc}
}

// Vote handles POST /vote
func (h *VotingHandler) Vote(w http.ResponseWriter, r *http.Request) {
	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Nomination == "" || req.Nominee == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "nomination and nominee are required")
		return
	}

	outcome, err := h.svc.Vote(r.Context(), req)
	if err != nil {
		writeVoteError(w, err)
		return
	}
	respondOutcome(w, r, outcome, "Vote recorded")
}

// Revote handles POST /revote
func (h *VotingHandler) Revote(w http.ResponseWriter, r *http.Request) {
	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Nomination == "" || req.Nominee == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "nomination and nominee are required")
		return
	}

	outcome, err := h.svc.Revote(r.Context(), req)
	if err != nil {
		writeVoteError(w, err)
		return
	}
	respondOutcome(w, r, outcome, "Revote recorded")
}

// VoteCustom handles POST /vote-custom
func (h *VotingHandler) VoteCustom(w http.ResponseWriter, r *http.Request) {
	var req models.CustomVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Nomination == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "nomination is required")
		return
	}

	outcome, err := h.svc.VoteCustom(r.Context(), req)
	if err != nil {
		writeVoteError(w, err)
		return
	}
	respondOutcome(w, r, outcome, "Custom vote recorded")
}

// RevoteCustom handles POST /revote-custom
func (h *VotingHandler) RevoteCustom(w http.ResponseWriter, r *http.Request) {
	var req models.CustomVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Nomination == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "nomination is required")
		return
	}

	outcome, err := h.svc.RevoteCustom(r.Context(), req)
	if err != nil {
		writeVoteError(w, err)
		return
	}
	respondOutcome(w, r, outcome, "Custom revote recorded")
}

// respondOutcome maps an admission outcome onto the human-readable status
// messages clients key on. Business-rule rejections are 200s, not errors.
func respondOutcome(w http.ResponseWriter, r *http.Request, outcome models.Outcome, acceptedMsg string) {
	switch outcome {
	case models.OutcomeAccepted:
		middleware.MessageResponse(w, http.StatusOK, acceptedMsg)
	case models.OutcomeAlreadyVoted:
		middleware.MessageResponse(w, http.StatusOK, "You have already voted in this nomination")
	case models.OutcomeAlreadyProcessed:
		middleware.MessageResponse(w, http.StatusOK, "Vote already counted")
	case models.OutcomePhantom:
		slog.Warn("phantom request dropped", "path", r.URL.Path, "client_ip", middleware.GetClientIP(r))
		middleware.MessageResponse(w, http.StatusOK, "Phantom request dropped")
	default:
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Unknown outcome")
	}
}

func writeVoteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, admission.ErrInvalidNominee):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Nominee is not allowed for this nomination")
	case errors.Is(err, ledger.ErrBusy):
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Ledger busy, please retry")
	default:
		slog.Error("vote admission failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
	}
}
