// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/streamnight/nominations/catalog"
	"github.com/streamnight/nominations/ledger"
	"github.com/streamnight/nominations/middleware"
	"github.com/streamnight/nominations/models"
)

// searchLimit caps nominee search results per query.
const searchLimit = 10

type ResultsHandler struct {
	store   *ledger.Store
	catalog *catalog.Catalog
}

func NewResultsHandler(store *ledger.Store, cat *catalog.Catalog) *ResultsHandler {
	return &ResultsHandler{store: store, catalog: cat}
}

// GetResults handles GET /results
// Returns vote counts grouped by (nomination, nominee).
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.store.Results(r.Context())
	if err != nil {
		slog.Error("failed to aggregate results", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, results)
}

// SearchNominees handles POST /search-nominees
// Case-insensitive substring search over the nomination's curated list.
func (h *ResultsHandler) SearchNominees(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	results := h.catalog.Search(req.Nomination, req.Query, searchLimit)
	if results == nil {
		results = []string{}
	}
	middleware.JSONResponse(w, http.StatusOK, models.SearchResponse{Results: results})
}
