package handlers

import (
	"log"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"

	"avantages-backend/constants"
	"avantages-backend/database"
	"avantages-backend/middleware"
	"avantages-backend/models"
	"avantages-backend/utils"
)

// FCMHandler gère l'enregistrement des tokens d'appareils FCM
type FCMHandler struct {
	tokenRepo *database.FCMTokenRepository
}

// NewFCMHandler crée une nouvelle instance de FCMHandler
func NewFCMHandler(db *mongo.Database) *FCMHandler {
	return &FCMHandler{
		tokenRepo: database.NewFCMTokenRepository(db),
	}
}

// RegisterToken enregistre ou rafraîchit le token FCM du compte connecté
func (h *FCMHandler) RegisterToken(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		utils.RespondError(w, http.StatusUnauthorized, constants.CodeUnauthorized, constants.ErrNotAuthenticated)
		return
	}

	var req models.FCMTokenRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Token == "" {
		utils.RespondError(w, http.StatusUnprocessableEntity, constants.CodeValidationError, constants.ErrInvalidData)
		return
	}

	token := &models.FCMToken{
		UserID: claims.EntityID,
		Token:  req.Token,
		Device: req.Device,
	}

	if err := h.tokenRepo.Upsert(token); err != nil {
		log.Printf("Erreur lors de l'enregistrement du token FCM: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	log.Println("✓ Token FCM enregistré")
	utils.RespondData(w, http.StatusOK, map[string]interface{}{
		"registered": true,
	})
}

// UnregisterToken supprime un token FCM (déconnexion de l'appareil)
func (h *FCMHandler) UnregisterToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Token == "" {
		utils.RespondError(w, http.StatusUnprocessableEntity, constants.CodeValidationError, constants.ErrInvalidData)
		return
	}

	if err := h.tokenRepo.Delete(req.Token); err != nil {
		log.Printf("Erreur lors de la suppression du token: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	log.Println("✓ Token FCM supprimé")
	utils.RespondData(w, http.StatusOK, map[string]interface{}{
		"unregistered": true,
	})
}
