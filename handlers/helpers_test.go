// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers_test

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/streamnight/nominations/catalog"
	"github.com/streamnight/nominations/cliparse"
	"github.com/streamnight/nominations/ledger"
	"github.com/streamnight/nominations/mirror"
	"github.com/streamnight/nominations/models"
	"github.com/streamnight/nominations/router"
	"github.com/streamnight/nominations/testutil"
)

const testNominees = `Best Actor:
Alice
Bob

Best Film:
Movie X
Movie Y
`

type testServer struct {
	mux  *http.ServeMux
	conn *sql.DB
	cfg  cliparse.Config
	cat  *catalog.Catalog
}

// setupServer wires the full stack against a fresh sqlite database, a
// curated two-nomination catalog, and a real xlsx mirror in a temp dir.
func setupServer(t *testing.T) *testServer {
	t.Helper()

	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig(t)

	if err := os.WriteFile(cfg.NomineesFile, []byte(testNominees), 0o644); err != nil {
		t.Fatalf("Failed to write nominees file: %v", err)
	}
	cat := catalog.New()
	cat.Reload(cfg.NomineesFile)

	exp, err := mirror.New(cfg.DataDir)
	if err != nil {
		t.Fatalf("Failed to create mirror: %v", err)
	}

	return &testServer{
		mux:  router.NewRouter(ledger.New(conn), cat, exp, cfg),
		conn: conn,
		cfg:  cfg,
		cat:  cat,
	}
}

func (s *testServer) do(method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.mux.ServeHTTP(w, testutil.MakeRequest(method, path, body, headers))
	return w
}

func adminHeaders(telegramID string) map[string]string {
	return map[string]string{"X-Telegram-ID": telegramID}
}

func assertMessage(t *testing.T, w *httptest.ResponseRecorder, expected string) {
	t.Helper()
	var resp models.MessageResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Message != expected {
		t.Errorf("Expected message %q, got %q", expected, resp.Message)
	}
}
