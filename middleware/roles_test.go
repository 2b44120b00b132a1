package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"avantages-backend/utils"
)

// chainAuth enchaîne Auth puis RequireRole comme le fait le routeur
func chainAuth(role string, next http.Handler) http.Handler {
	return Auth(testAuthSecret)(RequireRole(role)(next))
}

func TestRequireRoleSansClaims(t *testing.T) {
	handler := RequireRole("admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Code = %v, attendu 401", rr.Code)
	}
}

func TestRequireRoleMauvaisRole(t *testing.T) {
	token, _ := utils.GenerateToken("stu_1", "student", "acme", "stu_1", testAuthSecret, time.Hour)

	handler := chainAuth("partner", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/redeem", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("Code = %v, attendu 403", rr.Code)
	}
}

func TestRequireRoleBonRole(t *testing.T) {
	token, _ := utils.GenerateToken("ptn_1", "partner", "acme", "ptn_1", testAuthSecret, time.Hour)

	handler := chainAuth("partner", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/redeem", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Code = %v, attendu 200", rr.Code)
	}
}
