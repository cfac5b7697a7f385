package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/witple/witple/internal/config"
)

type fakeChecker struct {
	err error
}

func (f *fakeChecker) Ping(context.Context) error {
	return f.err
}

func testConfig() *config.Config {
	return &config.Config{
		AppName:    "Witple Backend API",
		AppVersion: "1.0.0",
		AppEnv:     "test",
	}
}

func TestHealthHandler_Health(t *testing.T) {
	h := NewHealthHandler(testConfig(), nil, nil)

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("unexpected status: %s", resp["status"])
	}
	if resp["message"] != "Backend is running" {
		t.Errorf("unexpected message: %s", resp["message"])
	}
	if resp["environment"] != "test" {
		t.Errorf("unexpected environment: %s", resp["environment"])
	}
}

func TestHealthHandler_Version(t *testing.T) {
	h := NewHealthHandler(testConfig(), nil, nil)

	rec := httptest.NewRecorder()
	h.Version(rec, httptest.NewRequest(http.MethodGet, "/api/v1/version", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["version"] != "1.0.0" {
		t.Errorf("unexpected version: %s", resp["version"])
	}
	if resp["app_name"] != "Witple Backend API" {
		t.Errorf("unexpected app_name: %s", resp["app_name"])
	}
}

func TestHealthHandler_Readyz(t *testing.T) {
	tests := []struct {
		name       string
		db         HealthChecker
		cache      HealthChecker
		wantStatus int
	}{
		{"all healthy", &fakeChecker{}, &fakeChecker{}, http.StatusOK},
		{"db down", &fakeChecker{err: errors.New("connection refused")}, &fakeChecker{}, http.StatusServiceUnavailable},
		{"cache down", &fakeChecker{}, &fakeChecker{err: errors.New("connection refused")}, http.StatusServiceUnavailable},
		{"cache not configured", &fakeChecker{}, nil, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(testConfig(), tt.db, tt.cache)

			rec := httptest.NewRecorder()
			h.Readyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}
