package app

import (
	"net/http"
	"strings"
	"testing"
)

func TestSettingsDefaultsAndPartialUpdate(t *testing.T) {
	server, _ := newTestServer(t)
	signupUser(t, server, "officer@city.gov", "Officer Diaz", "authority")

	rr := doJSON(t, server, http.MethodGet, "/api/settings", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	payload := parseBody(t, rr)
	if payload["language"] != "en" {
		t.Fatalf("expected default language en, got %v", payload["language"])
	}
	if payload["mapboxToken"] != "" {
		t.Fatalf("expected empty mapbox token, got %v", payload["mapboxToken"])
	}

	rr = doJSON(t, server, http.MethodPut, "/api/settings", map[string]any{
		"language": "es",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	payload = parseBody(t, rr)
	if payload["language"] != "es" {
		t.Fatalf("expected language es, got %v", payload["language"])
	}

	// Updating the token alone leaves the language untouched.
	rr = doJSON(t, server, http.MethodPut, "/api/settings", map[string]any{
		"mapboxToken": "pk.test-token",
	})
	payload = parseBody(t, rr)
	if payload["language"] != "es" {
		t.Fatalf("expected language preserved, got %v", payload["language"])
	}
	if payload["mapboxToken"] != "pk.test-token" {
		t.Fatalf("expected mapbox token stored, got %v", payload["mapboxToken"])
	}
}

func TestSettingsRejectsUnsupportedLanguage(t *testing.T) {
	server, _ := newTestServer(t)
	signupUser(t, server, "officer@city.gov", "Officer Diaz", "authority")

	rr := doJSON(t, server, http.MethodPut, "/api/settings", map[string]any{
		"language": "de",
	})
	assertErrorCode(t, rr, http.StatusUnprocessableEntity, "VALIDATION_ERROR")
}

func TestOnboardingTrackedPerRole(t *testing.T) {
	server, _ := newTestServer(t)
	signupUser(t, server, "maria@example.com", "Maria", "citizen")

	rr := doJSON(t, server, http.MethodGet, "/api/onboarding", nil)
	if parseBody(t, rr)["seen"] != false {
		t.Fatalf("expected unseen tour for fresh citizen, got %s", rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodPost, "/api/onboarding/seen", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	rr = doJSON(t, server, http.MethodGet, "/api/onboarding", nil)
	if parseBody(t, rr)["seen"] != true {
		t.Fatalf("expected seen tour after marking, got %s", rr.Body.String())
	}

	// The flag is per role, so the authority tour is still pending.
	signupUser(t, server, "officer@city.gov", "Officer Diaz", "authority")
	rr = doJSON(t, server, http.MethodGet, "/api/onboarding", nil)
	if parseBody(t, rr)["seen"] != false {
		t.Fatalf("expected unseen tour for authority role, got %s", rr.Body.String())
	}
}

func TestCSVExportEndpoint(t *testing.T) {
	server, _ := newTestServer(t)
	signupUser(t, server, "officer@city.gov", "Officer Diaz", "authority")
	createReport(t, server, "Pothole on Main St", "infrastructure")

	req := doJSON(t, server, http.MethodGet, "/api/reports/export?format=csv", nil)
	if req.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", req.Code, req.Body.String())
	}
	if got := req.Header().Get("Content-Type"); got != "text/csv; charset=utf-8" {
		t.Fatalf("expected text/csv, got %q", got)
	}
	if got := req.Header().Get("Content-Disposition"); !strings.Contains(got, "reports.csv") {
		t.Fatalf("expected attachment filename, got %q", got)
	}
	body := req.Body.String()
	if !strings.Contains(body, "Pothole on Main St") {
		t.Fatalf("expected report row in CSV, got %q", body)
	}
	if !strings.HasPrefix(body, "Title,Category,Status,Location,Citizen") {
		t.Fatalf("expected CSV header, got %q", body)
	}
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	server, _ := newTestServer(t)
	signupUser(t, server, "officer@city.gov", "Officer Diaz", "authority")

	rr := doJSON(t, server, http.MethodGet, "/api/reports/export?format=xlsx", nil)
	assertErrorCode(t, rr, http.StatusUnprocessableEntity, "VALIDATION_ERROR")
}
