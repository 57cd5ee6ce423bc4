// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/streamnight/nominations/models"
)

func TestJSONResponse(t *testing.T) {
	w := httptest.NewRecorder()
	JSONResponse(w, http.StatusOK, map[string]string{"key": "value"})

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected JSON content type, got %q", ct)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if body["key"] != "value" {
		t.Errorf("Unexpected body: %v", body)
	}
}

func TestErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()
	ErrorResponse(w, http.StatusBadRequest, "nomination is required")

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}

	var body models.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if body.Error != "Bad Request" || body.Message != "nomination is required" {
		t.Errorf("Unexpected body: %+v", body)
	}
}

func TestMessageResponse(t *testing.T) {
	w := httptest.NewRecorder()
	MessageResponse(w, http.StatusOK, "Vote recorded")

	var body models.MessageResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if body.Message != "Vote recorded" {
		t.Errorf("Unexpected message: %q", body.Message)
	}
}

func TestParseJSONBody(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"message":"hi"}`))
	var body models.MessageResponse
	if err := ParseJSONBody(req, &body); err != nil {
		t.Fatalf("ParseJSONBody failed: %v", err)
	}
	if body.Message != "hi" {
		t.Errorf("Unexpected message: %q", body.Message)
	}

	req = httptest.NewRequest("POST", "/", strings.NewReader(`not json`))
	if err := ParseJSONBody(req, &body); err == nil {
		t.Error("Expected error for malformed JSON")
	}
}

func TestCORS(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	// Preflight short-circuits
	w := httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/vote", nil)
	req.Header.Set("Origin", "https://example.com")
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Preflight should return 200, got %d", w.Code)
	}
	if origin := w.Header().Get("Access-Control-Allow-Origin"); origin != "https://example.com" {
		t.Errorf("Expected echoed origin, got %q", origin)
	}
	if headers := w.Header().Get("Access-Control-Allow-Headers"); !strings.Contains(headers, "X-Telegram-ID") {
		t.Errorf("Admin identity header must be allowed, got %q", headers)
	}

	// Non-preflight passes through
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/results", nil))
	if w.Code != http.StatusTeapot {
		t.Errorf("Expected handler to run, got %d", w.Code)
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		remote   string
		expected string
	}{
		{"X-Forwarded-For single", map[string]string{"X-Forwarded-For": "1.2.3.4"}, "9.9.9.9:1234", "1.2.3.4"},
		{"X-Forwarded-For chain", map[string]string{"X-Forwarded-For": "1.2.3.4, 5.6.7.8"}, "9.9.9.9:1234", "1.2.3.4"},
		{"X-Real-IP", map[string]string{"X-Real-IP": "5.6.7.8"}, "9.9.9.9:1234", "5.6.7.8"},
		{"RemoteAddr fallback", nil, "9.9.9.9:1234", "9.9.9.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := GetClientIP(req); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}
