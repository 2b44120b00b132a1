package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"avantages-backend/redis"
)

func newTestLimiter(t *testing.T, limit int, window time.Duration) (*RateLimiter, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := redis.Connect(mr.Addr(), "", 0)
	if err != nil {
		t.Fatalf("connexion Redis de test: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	return NewRateLimiter(client, limit, window, "test"), mr
}

func TestRateLimiterBloqueAuDela(t *testing.T) {
	rl, _ := newTestLimiter(t, 5, time.Minute)

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// Les 5 premières requêtes passent
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/redeem", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("requête %d: Code = %v, attendu 200", i+1, rr.Code)
		}
	}

	// La 6ème est refusée
	req := httptest.NewRequest(http.MethodPost, "/redeem", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("Code = %v, attendu 429", rr.Code)
	}
	if got := rr.Header().Get("X-RateLimit-Remaining"); got != "0" {
		t.Errorf("X-RateLimit-Remaining = %v, attendu 0", got)
	}
}

func TestRateLimiterParIP(t *testing.T) {
	rl, _ := newTestLimiter(t, 1, time.Minute)

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req1 := httptest.NewRequest(http.MethodPost, "/redeem", nil)
	req1.RemoteAddr = "10.0.0.1:1234"
	rr1 := httptest.NewRecorder()
	handler.ServeHTTP(rr1, req1)

	// Une autre IP a son propre compteur
	req2 := httptest.NewRequest(http.MethodPost, "/redeem", nil)
	req2.RemoteAddr = "10.0.0.2:1234"
	rr2 := httptest.NewRecorder()
	handler.ServeHTTP(rr2, req2)

	if rr1.Code != http.StatusOK || rr2.Code != http.StatusOK {
		t.Errorf("Codes = %v / %v, attendu 200 / 200", rr1.Code, rr2.Code)
	}
}

func TestRateLimiterFenetreExpire(t *testing.T) {
	rl, mr := newTestLimiter(t, 1, time.Minute)

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/redeem", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	if code := send(); code != http.StatusOK {
		t.Fatalf("Code = %v, attendu 200", code)
	}
	if code := send(); code != http.StatusTooManyRequests {
		t.Fatalf("Code = %v, attendu 429", code)
	}

	// Avancer le temps au-delà de la fenêtre
	mr.FastForward(2 * time.Minute)

	if code := send(); code != http.StatusOK {
		t.Errorf("Code = %v, attendu 200 après expiration de la fenêtre", code)
	}
}

func TestRateLimiterDesactive(t *testing.T) {
	rl := NewRateLimiter(nil, 0, 0, "")

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodPost, "/redeem", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("Code = %v, le limiteur désactivé doit tout laisser passer", rr.Code)
		}
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		want       string
	}{
		{"RemoteAddr simple", "10.0.0.1:1234", "", "10.0.0.1"},
		{"X-Forwarded-For", "10.0.0.1:1234", "203.0.113.7", "203.0.113.7"},
		{"X-Forwarded-For liste", "10.0.0.1:1234", "203.0.113.7, 10.0.0.1", "203.0.113.7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if got := ClientIP(req); got != tt.want {
				t.Errorf("ClientIP() = %v, attendu %v", got, tt.want)
			}
		})
	}
}
