package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"avantages-backend/constants"
	"avantages-backend/database"
	"avantages-backend/models"
	"avantages-backend/utils"
)

// AuthHandler gère les requêtes d'authentification
type AuthHandler struct {
	userRepo  *database.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
}

// NewAuthHandler crée une nouvelle instance de AuthHandler
func NewAuthHandler(db *mongo.Database, jwtSecret string, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		userRepo:  database.NewUserRepository(db),
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

// Login gère la connexion d'un compte
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	// Décoder la requête
	var req models.LoginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	// Valider les données
	if err := utils.ValidateEmail(req.Email); err != nil {
		utils.RespondError(w, http.StatusUnprocessableEntity, constants.CodeValidationError, err.Error())
		return
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		utils.RespondError(w, http.StatusUnprocessableEntity, constants.CodeValidationError, err.Error())
		return
	}

	// Rechercher le compte par email
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := h.userRepo.FindByEmail(email)
	if err != nil {
		log.Printf("Erreur lors de la recherche du compte: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	// Même réponse pour compte inconnu et mot de passe incorrect
	if user == nil || !utils.CheckPassword(user.Password, req.Password) {
		utils.RespondError(w, http.StatusUnauthorized, constants.CodeUnauthorized, constants.ErrInvalidCredentials)
		return
	}

	// Générer le token JWT
	token, err := utils.GenerateToken(user.ID.Hex(), user.Role, user.TenantID, user.EntityID, h.jwtSecret, h.tokenTTL)
	if err != nil {
		log.Printf("Erreur lors de la génération du token: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	log.Printf("✓ Compte connecté: %s (rôle: %s)", user.Email, user.Role)

	utils.RespondData(w, http.StatusOK, models.AuthResponse{
		Token: token,
		User:  *user,
	})
}
