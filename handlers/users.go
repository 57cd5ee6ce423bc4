// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/streamnight/nominations/ledger"
	"github.com/streamnight/nominations/middleware"
	"github.com/streamnight/nominations/models"
)

// UserMirror is the slice of the exporter the registration path needs.
type UserMirror interface {
	UpsertUser(u models.RegisterUserRequest) error
}

type UserHandler struct {
	store  *ledger.Store
	mirror UserMirror
}

func NewUserHandler(store *ledger.Store, mirror UserMirror) *UserHandler {
	return &UserHandler{store: store, mirror: mirror}
}

// Register handles POST /register-user
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterUserRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.TelegramID == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "telegram_id is required")
		return
	}

	result, err := h.store.RegisterUser(r.Context(), req)
	if err != nil {
		slog.Error("failed to register user", "telegram_id", req.TelegramID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var message string
	switch result {
	case ledger.RegistrationCreated:
		message = "User registered"
	case ledger.RegistrationUpdated:
		message = "User details updated"
	case ledger.RegistrationUnchanged:
		message = "User already registered"
	}

	// Mirror refresh only when the ledger actually changed
	if result != ledger.RegistrationUnchanged {
		if err := h.mirror.UpsertUser(req); err != nil {
			slog.Warn("mirror user upsert failed", "telegram_id", req.TelegramID, "error", err)
		}
	}

	slog.Info("user registration", "telegram_id", req.TelegramID, "result", message)
	middleware.JSONResponse(w, http.StatusOK, models.RegisterUserResponse{Message: message, User: req})
}

// GetUserVotes handles GET /user-votes/{telegram_id}
// Returns the voter's last-known nominee per nomination.
func (h *UserHandler) GetUserVotes(w http.ResponseWriter, r *http.Request) {
	telegramID, err := strconv.ParseInt(r.PathValue("telegram_id"), 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "telegram_id must be an integer")
		return
	}

	votes, err := h.store.VotesFor(r.Context(), telegramID)
	if err != nil {
		slog.Error("failed to query user votes", "telegram_id", telegramID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, votes)
}
