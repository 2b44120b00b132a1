package handlers

import (
	"net/http"
	"runtime"
	"time"

	"avantages-backend/utils"
)

var startTime = time.Now()

// HealthHandler gère les endpoints de santé
type HealthHandler struct {
	environment string
	pingMongo   func() error
	pingRedis   func() error
}

// NewHealthHandler crée un nouveau HealthHandler. Les fonctions de ping
// sont injectées par main (nil = dépendance absente, signalée "disabled").
func NewHealthHandler(environment string, pingMongo, pingRedis func() error) *HealthHandler {
	return &HealthHandler{
		environment: environment,
		pingMongo:   pingMongo,
		pingRedis:   pingRedis,
	}
}

// Health retourne l'état de santé du serveur avec métriques
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(startTime).String()

	dbStatus := checkStatus(h.pingMongo)
	redisStatus := checkStatus(h.pingRedis)

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "ok",
		"message":      "Le serveur fonctionne correctement",
		"env":          h.environment,
		"database":     "MongoDB",
		"db_status":    dbStatus,
		"redis_status": redisStatus,
		"uptime":       uptime,
		"go_version":   runtime.Version(),
	})
}

func checkStatus(ping func() error) string {
	if ping == nil {
		return "disabled"
	}
	if err := ping(); err != nil {
		return "error"
	}
	return "ok"
}
