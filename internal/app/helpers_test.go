package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"opengov/api/internal/config"
	"opengov/api/internal/kv"
)

func newTestServer(t *testing.T) (*HTTPServer, *kv.Memory) {
	t.Helper()
	store := kv.NewMemory()
	svc := New(config.Config{MaxImages: 5}, store)
	return NewHTTPServer(svc, "*"), store
}

func doJSON(t *testing.T, server *HTTPServer, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewBuffer(encoded)
	} else {
		reader = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)
	return rr
}

func rawRequest(t *testing.T, server *HTTPServer, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)
	return rr
}

func parseBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse response %q: %v", rr.Body.String(), err)
	}
	return payload
}

func signupUser(t *testing.T, server *HTTPServer, email, name, role string) map[string]any {
	t.Helper()
	rr := doJSON(t, server, http.MethodPost, "/api/auth/signup", map[string]any{
		"email":    email,
		"password": "whatever",
		"name":     name,
		"role":     role,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("signup %s: expected status 201, got %d body=%s", email, rr.Code, rr.Body.String())
	}
	user, _ := parseBody(t, rr)["user"].(map[string]any)
	if user == nil {
		t.Fatalf("signup %s: expected user in response, got %s", email, rr.Body.String())
	}
	return user
}

func loginUser(t *testing.T, server *HTTPServer, email, role string) {
	t.Helper()
	rr := doJSON(t, server, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    email,
		"password": "anything at all",
		"role":     role,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("login %s: expected status 200, got %d body=%s", email, rr.Code, rr.Body.String())
	}
}

func createReport(t *testing.T, server *HTTPServer, title, category string) string {
	t.Helper()
	rr := doJSON(t, server, http.MethodPost, "/api/reports", map[string]any{
		"title":       title,
		"description": "details about " + title,
		"category":    category,
		"location":    "Main St & 5th Ave",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create report: expected status 201, got %d body=%s", rr.Code, rr.Body.String())
	}
	item, _ := parseBody(t, rr)["report"].(map[string]any)
	id, _ := item["id"].(string)
	if id == "" {
		t.Fatalf("create report: expected id, got %s", rr.Body.String())
	}
	return id
}

func assertErrorCode(t *testing.T, rr *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("expected status %d, got %d body=%s", status, rr.Code, rr.Body.String())
	}
	if got := parseBody(t, rr)["code"]; got != code {
		t.Fatalf("expected code %s, got %v", code, got)
	}
}
