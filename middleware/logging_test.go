package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"avantages-backend/services"
)

// slackRelayTest monte le middleware devant un handler qui répond avec
// le code donné et compte les appels reçus par le webhook
func slackRelayTest(t *testing.T, statusCode int) int32 {
	t.Helper()

	var calls int32
	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer webhook.Close()

	slack := services.NewSlackService(webhook.URL)
	handler := Logging(slack)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(statusCode)
	}))

	req := httptest.NewRequest("GET", "/v1/partner/redeem", nil)
	req.Header.Set("Origin", "https://app.portail.test")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	return atomic.LoadInt32(&calls)
}

func TestLoggingRelaie500SurSlack(t *testing.T) {
	if calls := slackRelayTest(t, http.StatusInternalServerError); calls != 1 {
		t.Errorf("calls = %d, attendu 1 pour un 500", calls)
	}
}

func TestLoggingRelaie403SurSlack(t *testing.T) {
	if calls := slackRelayTest(t, http.StatusForbidden); calls != 1 {
		t.Errorf("calls = %d, attendu 1 pour un 403", calls)
	}
}

func TestLoggingIgnoreLes4xxUtilisateur(t *testing.T) {
	for _, code := range []int{http.StatusBadRequest, http.StatusNotFound, http.StatusGone, http.StatusTooManyRequests} {
		if calls := slackRelayTest(t, code); calls != 0 {
			t.Errorf("calls = %d pour un %d, attendu 0", calls, code)
		}
	}
}
