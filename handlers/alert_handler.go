package handlers

import (
	"log"
	"net/http"

	"avantages-backend/constants"
	"avantages-backend/services"
	"avantages-backend/utils"
)

// AlertHandler relaie les rapports d'incidents du frontend vers Slack
type AlertHandler struct {
	slackService *services.SlackService
}

// NewAlertHandler crée une nouvelle instance
func NewAlertHandler(slackService *services.SlackService) *AlertHandler {
	return &AlertHandler{
		slackService: slackService,
	}
}

// CriticalAlertRequest représente un rapport d'incident côté client
type CriticalAlertRequest struct {
	ErrorType      string `json:"error_type"`
	ErrorMessage   string `json:"error_message"`
	EndpointFailed string `json:"endpoint_failed"`
	UserAgent      string `json:"user_agent"`
}

// SendCriticalAlert reçoit un rapport d'incident et le pousse sur Slack
func (h *AlertHandler) SendCriticalAlert(w http.ResponseWriter, r *http.Request) {
	var req CriticalAlertRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if req.ErrorType == "" || req.ErrorMessage == "" || req.EndpointFailed == "" {
		utils.RespondError(w, http.StatusUnprocessableEntity, constants.CodeValidationError, constants.ErrInvalidData)
		return
	}

	//cap la longueur des messages entrants
	if len(req.ErrorMessage) > 500 {
		req.ErrorMessage = req.ErrorMessage[:500]
	}

	if err := h.slackService.SendErrorNotification(
		getErrorTypeLabel(req.ErrorType),
		"FRONTEND",
		req.EndpointFailed,
		req.ErrorType,
		req.ErrorMessage,
		r.Header.Get("Origin"),
		req.UserAgent,
	); err != nil {
		log.Printf("❌ Erreur lors du relais Slack: %v", err)
	}

	log.Printf("🚨 Alerte frontend relayée: %s (%s)", req.ErrorType, req.EndpointFailed)

	utils.RespondData(w, http.StatusOK, map[string]interface{}{
		"relayed": true,
	})
}

// getErrorTypeLabel retourne le label français pour un type d'erreur
func getErrorTypeLabel(errorType string) string {
	switch errorType {
	case "SERVER_ERROR":
		return "Erreur Serveur"
	case "NETWORK_ERROR":
		return "Erreur Réseau"
	case "CONNECTION_ERROR":
		return "Erreur Connexion"
	default:
		return "Erreur Inconnue"
	}
}
