// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("POST /vote", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (duration_ms).

# CORS Middleware

Enable cross-origin requests for the voting frontend:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, PUT, DELETE, OPTIONS with headers
Content-Type, Authorization, X-Telegram-ID.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.MessageResponse(w, http.StatusOK, "Vote recorded")
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies:

	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Used when logging rejected phantom submissions.
*/
package middleware
