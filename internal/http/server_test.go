package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"finboard/internal/service"
	"finboard/internal/store"
)

const testAuthKey = "test-secret"

// midMonth is a date where neither monthly trigger fires, so handler
// assertions see the seed document untouched.
var midMonth = time.Date(2025, time.August, 15, 10, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	ledger, err := service.NewLedger(context.Background(), store.NewMemory(),
		service.WithClock(func() time.Time { return midMonth }))
	if err != nil {
		t.Fatalf("NewLedger: %v", err)
	}
	srv := NewServer(":0", testAuthKey, ledger)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path, body string, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("X-Auth-Key", testAuthKey)
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestIndexAndHealth(t *testing.T) {
	srv := newTestServer(t)

	rr := doJSON(t, srv, http.MethodGet, "/", "", false)
	if rr.Code != 200 {
		t.Fatalf("index status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Finboard") {
		t.Fatal("index body missing heading")
	}

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := doJSON(t, srv, http.MethodGet, path, "", false)
		if rr.Code != 200 {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestAuthRequiredOnMutations(t *testing.T) {
	srv := newTestServer(t)
	body := `{"category":"purchases","item":{"name":"Desk","amount":10}}`

	// Missing key
	rr := doJSON(t, srv, http.MethodPost, "/api/add", body, false)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without key, got %d", rr.Code)
	}

	// Wrong key
	req := httptest.NewRequest(http.MethodPost, "/api/add", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Auth-Key", "wrong")
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong key, got %d", rec.Code)
	}

	// Correct key
	rr = doJSON(t, srv, http.MethodPost, "/api/add", body, true)
	if rr.Code != 200 {
		t.Fatalf("expected 200 with key, got %d", rr.Code)
	}
}

func TestDataIsReadableWithoutAuth(t *testing.T) {
	srv := newTestServer(t)

	rr := doJSON(t, srv, http.MethodGet, "/api/data", "", false)
	if rr.Code != 200 {
		t.Fatalf("expected 200 without key, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "currentBalance") {
		t.Fatal("data response missing totals")
	}
}

func TestEmptyAuthKeyDisablesCheck(t *testing.T) {
	ledger, err := service.NewLedger(context.Background(), store.NewMemory(),
		service.WithClock(func() time.Time { return midMonth }))
	if err != nil {
		t.Fatalf("NewLedger: %v", err)
	}
	srv := NewServer(":0", "", ledger)
	defer srv.Shutdown(context.Background())

	body := `{"category":"purchases","item":{"name":"Desk","amount":10}}`
	rr := doJSON(t, srv, http.MethodPost, "/api/add", body, false)
	if rr.Code != 200 {
		t.Fatalf("expected 200 with auth disabled, got %d", rr.Code)
	}
}

func TestDataMergesDocumentAndTotals(t *testing.T) {
	srv := newTestServer(t)

	rr := doJSON(t, srv, http.MethodGet, "/api/data", "", true)
	if rr.Code != 200 {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}

	var payload map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, field := range []string{
		"income", "expenses", "investments", "debts", "purchases", "one_time_inflows", "metadata",
		"currentBalance", "totalIncomeRate", "totalOutflow", "remainingBalance", "isPositive",
	} {
		if _, ok := payload[field]; !ok {
			t.Errorf("response missing %q", field)
		}
	}
	if payload["currentBalance"].(float64) != 1000 {
		t.Fatalf("currentBalance = %v, want 1000", payload["currentBalance"])
	}
}

func TestAddReturnsTotals(t *testing.T) {
	srv := newTestServer(t)

	body := `{"category":"purchases","item":{"name":"Desk","amount":250}}`
	rr := doJSON(t, srv, http.MethodPost, "/api/add", body, true)
	if rr.Code != 200 {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}

	var payload struct {
		Success        bool    `json:"success"`
		CurrentBalance float64 `json:"currentBalance"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !payload.Success {
		t.Fatal("success = false")
	}
	if payload.CurrentBalance != 750 {
		t.Fatalf("currentBalance = %v, want 750", payload.CurrentBalance)
	}
}

func TestAddValidation(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"unknown category", `{"category":"savings","item":{"name":"x"}}`, http.StatusBadRequest},
		{"missing category", `{"item":{"name":"x"}}`, http.StatusBadRequest},
		{"malformed JSON", `{"category":`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doJSON(t, srv, http.MethodPost, "/api/add", tt.body, true)
			if rr.Code != tt.want {
				t.Fatalf("status=%d, want %d; body=%s", rr.Code, tt.want, rr.Body.String())
			}
		})
	}
}

func TestUpdateProtectedItem(t *testing.T) {
	srv := newTestServer(t)

	body := `{"category":"income","id":"inc2","field":"name","value":"Hacked"}`
	rr := doJSON(t, srv, http.MethodPost, "/api/update", body, true)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("status=%d, want 403; body=%s", rr.Code, rr.Body.String())
	}
}

func TestUpdateMissingFieldName(t *testing.T) {
	srv := newTestServer(t)

	body := `{"category":"expenses","id":"exp1","value":50}`
	rr := doJSON(t, srv, http.MethodPost, "/api/update", body, true)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400; body=%s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "missing required field") {
		t.Fatalf("error body should name the problem: %s", rr.Body.String())
	}
}

func TestUpdateUnknownField(t *testing.T) {
	srv := newTestServer(t)

	body := `{"category":"expenses","id":"exp1","field":"date","value":"2025-01-01"}`
	rr := doJSON(t, srv, http.MethodPost, "/api/update", body, true)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400; body=%s", rr.Code, rr.Body.String())
	}
}

func TestDeleteMissingItem(t *testing.T) {
	srv := newTestServer(t)

	body := `{"category":"debts","id":"nope"}`
	rr := doJSON(t, srv, http.MethodPost, "/api/delete", body, true)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status=%d, want 404; body=%s", rr.Code, rr.Body.String())
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	rr := doJSON(t, srv, http.MethodGet, "/api/add", "", true)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET /api/add status=%d, want 405", rr.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/data", strings.NewReader("{}"))
	req.Header.Set("X-Auth-Key", testAuthKey)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /api/data status=%d, want 405", rec.Code)
	}
}
