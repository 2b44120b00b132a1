package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHealthHandlerHealth(t *testing.T) {
	handler := NewHealthHandler("test", func() error { return nil }, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	rr := httptest.NewRecorder()

	handler.Health(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Health() status = %v, want %v", rr.Code, http.StatusOK)
	}

	ct := rr.Header().Get("Content-Type")
	if ct != "application/json" {
		t.Errorf("Health() Content-Type = %v, want application/json", ct)
	}

	body := rr.Body.String()
	expectedKeys := []string{"status", "env", "uptime", "go_version"}
	for _, key := range expectedKeys {
		if !strings.Contains(body, key) {
			t.Errorf("Health() body should contain %q, got %s", key, body)
		}
	}

	// Redis absent = "disabled", pas une erreur
	if !strings.Contains(body, `"redis_status":"disabled"`) {
		t.Errorf("Health() body should report redis disabled, got %s", body)
	}
}

func TestHealthHandlerHealth_dbError(t *testing.T) {
	handler := NewHealthHandler("test", func() error { return errors.New("down") }, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	rr := httptest.NewRecorder()

	handler.Health(rr, req)

	// Le endpoint reste 200, le statut de la base passe en "error"
	if rr.Code != http.StatusOK {
		t.Errorf("Health() status = %v, want %v", rr.Code, http.StatusOK)
	}
	if !strings.Contains(rr.Body.String(), `"db_status":"error"`) {
		t.Errorf("Health() body should report db error, got %s", rr.Body.String())
	}
}
