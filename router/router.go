// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/streamnight/nominations/admission"
	"github.com/streamnight/nominations/catalog"
	"github.com/streamnight/nominations/cliparse"
	"github.com/streamnight/nominations/handlers"
	"github.com/streamnight/nominations/ledger"
	"github.com/streamnight/nominations/middleware"
	"github.com/streamnight/nominations/mirror"
)

func NewRouter(store *ledger.Store, cat *catalog.Catalog, exp *mirror.Exporter, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	svc := admission.New(store, cat, exp)

	// Initialize handlers
	votingHandler := handlers.NewVotingHandler(svc)
	userHandler := handlers.NewUserHandler(store, exp)
	resultsHandler := handlers.NewResultsHandler(store, cat)
	adminHandler := handlers.NewAdminHandler(store, cat, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Identity registration
	mux.HandleFunc("POST /register-user", middleware.WithLogging(userHandler.Register))
	mux.HandleFunc("GET /user-votes/{telegram_id}", middleware.WithLogging(userHandler.GetUserVotes))

	// Vote admission
	mux.HandleFunc("POST /vote", middleware.WithLogging(votingHandler.Vote))
	mux.HandleFunc("POST /revote", middleware.WithLogging(votingHandler.Revote))
	mux.HandleFunc("POST /vote-custom", middleware.WithLogging(votingHandler.VoteCustom))
	mux.HandleFunc("POST /revote-custom", middleware.WithLogging(votingHandler.RevoteCustom))

	// Results and search (public)
	mux.HandleFunc("GET /results", middleware.WithLogging(resultsHandler.GetResults))
	mux.HandleFunc("POST /search-nominees", middleware.WithLogging(resultsHandler.SearchNominees))

	// Admin operations (allowlist-guarded)
	mux.HandleFunc("GET /admin/votes", middleware.WithLogging(adminHandler.RequireAdmin(adminHandler.ListVotes)))
	mux.HandleFunc("GET /admin/users", middleware.WithLogging(adminHandler.RequireAdmin(adminHandler.ListUsers)))
	mux.HandleFunc("POST /admin/clean-votes", middleware.WithLogging(adminHandler.RequireAdmin(adminHandler.CleanVotes)))
	mux.HandleFunc("POST /admin/reload-nominees", middleware.WithLogging(adminHandler.RequireAdmin(adminHandler.ReloadNominees)))
	mux.HandleFunc("GET /admin/download-data", middleware.WithLogging(adminHandler.RequireAdmin(adminHandler.DownloadData)))

	// Admin elevation (password-gated) and allowlist probe
	mux.HandleFunc("POST /admin/add", middleware.WithLogging(adminHandler.AddAdmin))
	mux.HandleFunc("GET /admin/check", middleware.WithLogging(adminHandler.CheckAdmin))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("nominations API v1"))
	})

	return mux
}
