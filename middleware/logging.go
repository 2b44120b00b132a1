package middleware

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"avantages-backend/services"
)

// responseWriter wrapper pour capturer le code de statut
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// isCriticalError détermine si une erreur doit être relayée sur Slack.
// Les 5xx le sont toujours, les 403 aussi (origine refusée, rôle
// insuffisant) ; les autres 4xx (mauvais code, CPF erroné, ...) sont des
// erreurs utilisateur normales.
func isCriticalError(statusCode int) bool {
	return statusCode >= http.StatusInternalServerError || statusCode == http.StatusForbidden
}

// Logging enregistre les requêtes HTTP et relaie les erreurs critiques sur Slack
func Logging(slackService *services.SlackService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Créer un wrapper pour capturer le code de statut
			rw := newResponseWriter(w)

			// Traiter la requête
			next.ServeHTTP(rw, r)

			duration := time.Since(start)
			statusCode := rw.statusCode

			// Logger toutes les erreurs
			if statusCode >= http.StatusBadRequest {
				log.Printf(
					"⚠️ %s %s -> %d (%s)",
					r.Method,
					r.RequestURI,
					statusCode,
					duration,
				)

				if isCriticalError(statusCode) && slackService != nil {
					origin := r.Header.Get("Origin")
					userAgent := r.Header.Get("User-Agent")
					if statusCode == http.StatusForbidden {
						slackService.SendCORSError(r.Method, r.RequestURI, origin, userAgent)
					} else {
						errorMessage := http.StatusText(statusCode)
						slackService.SendCriticalError(r.Method, r.RequestURI, strconv.Itoa(statusCode), errorMessage, origin, userAgent)
					}
				}
			}
		})
	}
}
