// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/streamnight/nominations/auth"
	"github.com/streamnight/nominations/catalog"
	"github.com/streamnight/nominations/cliparse"
	"github.com/streamnight/nominations/ledger"
	"github.com/streamnight/nominations/middleware"
	"github.com/streamnight/nominations/mirror"
	"github.com/streamnight/nominations/models"
)

type AdminHandler struct {
	store   *ledger.Store
	catalog *catalog.Catalog
	cfg     cliparse.Config
}

func NewAdminHandler(store *ledger.Store, cat *catalog.Catalog, cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{store: store, catalog: cat, cfg: cfg}
}

// RequireAdmin guards a handler behind the admin allowlist. The caller
// identifies via the X-Telegram-ID header.
func (h *AdminHandler) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		telegramID, ok := adminTelegramID(r)
		if !ok {
			middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Telegram-ID header required")
			return
		}

		isAdmin, err := h.store.IsAdmin(r.Context(), telegramID)
		if err != nil {
			slog.Error("failed to verify admin", "telegram_id", telegramID, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if !isAdmin {
			middleware.ErrorResponse(w, http.StatusForbidden, "Admin access required")
			return
		}

		next(w, r)
	}
}

func adminTelegramID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.Header.Get("X-Telegram-ID"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// ListVotes handles GET /admin/votes
func (h *AdminHandler) ListVotes(w http.ResponseWriter, r *http.Request) {
	votes, err := h.store.AllVotes(r.Context())
	if err != nil {
		slog.Error("failed to list votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, votes)
}

// ListUsers handles GET /admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.AllUsers(r.Context())
	if err != nil {
		slog.Error("failed to list users", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, users)
}

// CleanVotes handles POST /admin/clean-votes
// Deletes ledger rows with missing or sentinel identities.
func (h *AdminHandler) CleanVotes(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.store.PurgeMalformed(r.Context())
	if err != nil {
		slog.Error("failed to purge malformed votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	h.audit(r, "CLEAN_VOTES", fmt.Sprintf("removed %d malformed votes", deleted))
	middleware.JSONResponse(w, http.StatusOK, models.PurgeResponse{
		Message: fmt.Sprintf("Removed %d malformed votes", deleted),
		Deleted: deleted,
	})
}

// ReloadNominees handles POST /admin/reload-nominees
// Reload fails soft, so the endpoint always reports success; a bad file
// leaves the previous catalog live and a log line behind.
func (h *AdminHandler) ReloadNominees(w http.ResponseWriter, r *http.Request) {
	h.catalog.Reload(h.cfg.NomineesFile)
	h.audit(r, "RELOAD_NOMINEES", h.cfg.NomineesFile)
	middleware.MessageResponse(w, http.StatusOK, "Nominee catalog reloaded")
}

// AddAdmin handles POST /admin/add
// Password-gated elevation of a registered user.
func (h *AdminHandler) AddAdmin(w http.ResponseWriter, r *http.Request) {
	var req models.AddAdminRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Username == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "username is required")
		return
	}

	if err := auth.CheckAdminPassword(req.Password, h.cfg.AdminPassword); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid password")
		return
	}

	err := h.store.AddAdmin(r.Context(), req.Username)
	switch {
	case errors.Is(err, ledger.ErrUserNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	case errors.Is(err, ledger.ErrAlreadyAdmin):
		middleware.ErrorResponse(w, http.StatusBadRequest, "User is already an administrator")
		return
	case err != nil:
		slog.Error("failed to add admin", "username", req.Username, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	// Password-authorized action: no admin identity to attribute it to
	if err := h.store.LogAdminAction(r.Context(), ledger.PasswordAdminID, "ADD_ADMIN_BY_PASSWORD", "added administrator: "+req.Username); err != nil {
		slog.Warn("failed to write admin log", "error", err)
	}

	middleware.MessageResponse(w, http.StatusOK, fmt.Sprintf("User %s added as administrator", req.Username))
}

// CheckAdmin handles GET /admin/check?telegram_id=...
func (h *AdminHandler) CheckAdmin(w http.ResponseWriter, r *http.Request) {
	telegramID, err := strconv.ParseInt(r.URL.Query().Get("telegram_id"), 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "telegram_id must be an integer")
		return
	}

	isAdmin, err := h.store.IsAdmin(r.Context(), telegramID)
	if err != nil {
		slog.Error("failed to check admin", "telegram_id", telegramID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.AdminCheckResponse{IsAdmin: isAdmin})
}

// DownloadData handles GET /admin/download-data
// Streams a zip of both mirror workbooks and a full SQL dump of the ledger.
func (h *AdminHandler) DownloadData(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, name := range []string{mirror.VotesFile, mirror.UsersFile} {
		data, err := os.ReadFile(filepath.Join(h.cfg.DataDir, name))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			slog.Error("failed to read mirror file", "file", name, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to build archive")
			return
		}
		f, err := zw.Create(name)
		if err == nil {
			_, err = f.Write(data)
		}
		if err != nil {
			slog.Error("failed to add mirror file to archive", "file", name, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to build archive")
			return
		}
	}

	dump, err := h.store.Dump(r.Context())
	if err != nil {
		slog.Error("failed to dump ledger", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to build archive")
		return
	}
	f, err := zw.Create("database_dump.sql")
	if err == nil {
		_, err = f.Write([]byte(dump))
	}
	if err == nil {
		err = zw.Close()
	}
	if err != nil {
		slog.Error("failed to finalize archive", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to build archive")
		return
	}

	filename := fmt.Sprintf("voting_data_%s.zip", time.Now().Format("20060102_150405"))
	h.audit(r, "DOWNLOAD_DATA", filename)
	slog.Info("export archive built", "file", filename, "size", humanize.Bytes(uint64(buf.Len())))

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("failed to write archive response", "error", err)
	}
}

// audit records the admin action best-effort, attributed to the caller's
// telegram id (guaranteed present behind RequireAdmin).
func (h *AdminHandler) audit(r *http.Request, action, details string) {
	adminID, _ := adminTelegramID(r)
	if err := h.store.LogAdminAction(r.Context(), adminID, action, details); err != nil {
		slog.Warn("failed to write admin log", "action", action, "error", err)
	}
}
