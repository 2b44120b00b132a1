package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"avantages-backend/constants"
	"avantages-backend/database"
	"avantages-backend/middleware"
	"avantages-backend/models"
	"avantages-backend/utils"
)

// borrowerProfile décrit ce qui varie entre les deux surfaces bénéficiaires:
// le rôle, la durée de vie des codes et la vérification d'activité
type borrowerProfile struct {
	role          string
	codeTTL       time.Duration
	inactiveCode  string
	inactiveMsg   string
	notFoundMsg   string
	checkBorrower func(entityID string, at time.Time) (found bool, active bool, err error)
}

// BorrowerHandler sert la surface commune aux étudiants et aux employés:
// catalogue de partenaires, codes de validation, historique et favoris
type BorrowerHandler struct {
	partnerRepo    *database.PartnerRepository
	promotionRepo  *database.PromotionRepository
	codeRepo       *database.ValidationCodeRepository
	redemptionRepo *database.RedemptionRepository
	favoriteRepo   *database.FavoriteRepository
	profile        borrowerProfile
}

// NewStudentHandler crée la surface /v1/student
func NewStudentHandler(db *mongo.Database, codeTTL time.Duration) *BorrowerHandler {
	studentRepo := database.NewStudentRepository(db)
	return newBorrowerHandler(db, borrowerProfile{
		role:         models.RoleStudent,
		codeTTL:      codeTTL,
		inactiveCode: constants.CodeInactiveStudent,
		inactiveMsg:  constants.ErrInactiveStudent,
		notFoundMsg:  constants.ErrStudentNotFound,
		checkBorrower: func(entityID string, at time.Time) (bool, bool, error) {
			id, err := primitive.ObjectIDFromHex(entityID)
			if err != nil {
				return false, false, nil
			}
			student, err := studentRepo.FindByID(id)
			if err != nil {
				return false, false, err
			}
			if student == nil {
				return false, false, nil
			}
			return true, student.IsActive(at), nil
		},
	})
}

// NewEmployeeHandler crée la surface /v1/employee
func NewEmployeeHandler(db *mongo.Database, codeTTL time.Duration) *BorrowerHandler {
	employeeRepo := database.NewEmployeeRepository(db)
	return newBorrowerHandler(db, borrowerProfile{
		role:         models.RoleEmployee,
		codeTTL:      codeTTL,
		inactiveCode: constants.CodeInactiveEmployee,
		inactiveMsg:  constants.ErrInactiveEmployee,
		notFoundMsg:  constants.ErrEmployeeNotFound,
		checkBorrower: func(entityID string, at time.Time) (bool, bool, error) {
			id, err := primitive.ObjectIDFromHex(entityID)
			if err != nil {
				return false, false, nil
			}
			employee, err := employeeRepo.FindByID(id)
			if err != nil {
				return false, false, err
			}
			if employee == nil {
				return false, false, nil
			}
			return true, employee.IsActive(at), nil
		},
	})
}

func newBorrowerHandler(db *mongo.Database, profile borrowerProfile) *BorrowerHandler {
	return &BorrowerHandler{
		partnerRepo:    database.NewPartnerRepository(db),
		promotionRepo:  database.NewPromotionRepository(db),
		codeRepo:       database.NewValidationCodeRepository(db),
		redemptionRepo: database.NewRedemptionRepository(db),
		favoriteRepo:   database.NewFavoriteRepository(db),
		profile:        profile,
	}
}

// ListPartners retourne les partenaires actifs, filtrables par catégorie
func (h *BorrowerHandler) ListPartners(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParsePagination(r)
	category := r.URL.Query().Get("category")
	orderBy := r.URL.Query().Get("order_by")

	partners, err := h.partnerRepo.FindActive(category, orderBy, limit, offset)
	if err != nil {
		log.Printf("Erreur lors de la recherche des partenaires: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	total, err := h.partnerRepo.CountActive(category)
	if err != nil {
		log.Printf("Erreur lors du comptage des partenaires: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	utils.RespondList(w, partners, total, limit, offset)
}

// GetPartner retourne la fiche d'un partenaire actif avec ses promotions valides
func (h *BorrowerHandler) GetPartner(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseObjectIDVar(w, mux.Vars(r), "id", constants.ErrInvalidID)
	if !ok {
		return
	}

	partner, err := h.partnerRepo.FindActiveByID(id)
	if err != nil {
		log.Printf("Erreur lors de la recherche du partenaire: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}
	if partner == nil {
		utils.RespondError(w, http.StatusNotFound, constants.CodeNotFound, constants.ErrPartnerNotFound)
		return
	}

	promotions, err := h.promotionRepo.FindValidByPartner(partner.ID.Hex(), time.Now())
	if err != nil {
		log.Printf("Erreur lors de la recherche des promotions: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	utils.RespondData(w, http.StatusOK, models.PartnerDetail{
		Partner:    *partner,
		Promotions: promotions,
	})
}

// CreateValidationCode émet un code à usage unique pour un partenaire donné.
// Le code en clair ne sort du serveur qu'ici.
func (h *BorrowerHandler) CreateValidationCode(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		utils.RespondError(w, http.StatusUnauthorized, constants.CodeUnauthorized, constants.ErrNotAuthenticated)
		return
	}

	var req models.CreateValidationCodeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.PartnerID == "" {
		utils.RespondError(w, http.StatusUnprocessableEntity, constants.CodeValidationError, constants.ErrPartnerIDRequired)
		return
	}

	partnerID, err := primitive.ObjectIDFromHex(req.PartnerID)
	if err != nil {
		utils.RespondError(w, http.StatusUnprocessableEntity, constants.CodeValidationError, constants.ErrInvalidID)
		return
	}

	// Le partenaire doit exister et être actif
	partner, err := h.partnerRepo.FindActiveByID(partnerID)
	if err != nil {
		log.Printf("Erreur lors de la recherche du partenaire: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}
	if partner == nil {
		utils.RespondError(w, http.StatusNotFound, constants.CodeNotFound, constants.ErrPartnerNotFound)
		return
	}

	// Le bénéficiaire doit exister et être actif
	now := time.Now()
	found, active, err := h.profile.checkBorrower(claims.EntityID, now)
	if err != nil {
		log.Printf("Erreur lors de la vérification du bénéficiaire: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}
	if !found {
		utils.RespondError(w, http.StatusNotFound, constants.CodeNotFound, h.profile.notFoundMsg)
		return
	}
	if !active {
		utils.RespondError(w, http.StatusForbidden, h.profile.inactiveCode, h.profile.inactiveMsg)
		return
	}

	// Générer le code à 6 chiffres; seule l'empreinte est persistée
	plainCode, err := utils.GenerateNumericCode(6)
	if err != nil {
		log.Printf("Erreur lors de la génération du code: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	code := &models.ValidationCode{
		TenantID:     claims.Tenant,
		PartnerID:    partner.ID.Hex(),
		BorrowerID:   claims.EntityID,
		BorrowerRole: h.profile.role,
		CodeHash:     utils.HashCode(plainCode),
		Expires:      now.Add(h.profile.codeTTL),
	}

	if err := h.codeRepo.Create(code); err != nil {
		log.Printf("Erreur lors de la création du code de validation: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	log.Printf("✓ Code de validation émis pour le partenaire %s (rôle: %s)", partner.TradeName, h.profile.role)

	utils.RespondData(w, http.StatusCreated, models.ValidationCodeResponse{
		Code:    plainCode,
		Expires: code.Expires,
	})
}

// History retourne les remises du bénéficiaire, les plus récentes d'abord
func (h *BorrowerHandler) History(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		utils.RespondError(w, http.StatusUnauthorized, constants.CodeUnauthorized, constants.ErrNotAuthenticated)
		return
	}

	limit, offset := ParsePagination(r)

	redemptions, total, err := h.redemptionRepo.FindByBorrower(claims.EntityID, limit, offset)
	if err != nil {
		log.Printf("Erreur lors de la recherche de l'historique: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	utils.RespondList(w, redemptions, total, limit, offset)
}

// ListFavorites retourne les partenaires favoris du bénéficiaire
func (h *BorrowerHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		utils.RespondError(w, http.StatusUnauthorized, constants.CodeUnauthorized, constants.ErrNotAuthenticated)
		return
	}

	favorite, err := h.favoriteRepo.Find(claims.EntityID)
	if err != nil {
		log.Printf("Erreur lors de la recherche des favoris: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	utils.RespondData(w, http.StatusOK, favorite)
}

// AddFavorite ajoute un partenaire aux favoris. Idempotent: réajouter un
// partenaire déjà présent laisse l'ensemble inchangé.
func (h *BorrowerHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		utils.RespondError(w, http.StatusUnauthorized, constants.CodeUnauthorized, constants.ErrNotAuthenticated)
		return
	}

	var req models.FavoriteRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.PartnerID == "" {
		utils.RespondError(w, http.StatusUnprocessableEntity, constants.CodeValidationError, constants.ErrPartnerIDRequired)
		return
	}

	partnerID, err := primitive.ObjectIDFromHex(req.PartnerID)
	if err != nil {
		utils.RespondError(w, http.StatusUnprocessableEntity, constants.CodeValidationError, constants.ErrInvalidID)
		return
	}

	partner, err := h.partnerRepo.FindActiveByID(partnerID)
	if err != nil {
		log.Printf("Erreur lors de la recherche du partenaire: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}
	if partner == nil {
		utils.RespondError(w, http.StatusNotFound, constants.CodeNotFound, constants.ErrPartnerNotFound)
		return
	}

	if err := h.favoriteRepo.Add(claims.EntityID, h.profile.role, partner.ID.Hex()); err != nil {
		log.Printf("Erreur lors de l'ajout du favori: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	favorite, err := h.favoriteRepo.Find(claims.EntityID)
	if err != nil {
		log.Printf("Erreur lors de la relecture des favoris: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	utils.RespondData(w, http.StatusOK, favorite)
}

// RemoveFavorite retire un partenaire des favoris
func (h *BorrowerHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		utils.RespondError(w, http.StatusUnauthorized, constants.CodeUnauthorized, constants.ErrNotAuthenticated)
		return
	}

	partnerID := mux.Vars(r)["id"]
	if partnerID == "" {
		utils.RespondError(w, http.StatusUnprocessableEntity, constants.CodeValidationError, constants.ErrPartnerIDRequired)
		return
	}

	removed, err := h.favoriteRepo.Remove(claims.EntityID, partnerID)
	if err != nil {
		log.Printf("Erreur lors du retrait du favori: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}
	if !removed {
		utils.RespondError(w, http.StatusNotFound, constants.CodeNotFound, constants.ErrFavoriteNotFound)
		return
	}

	utils.RespondData(w, http.StatusOK, map[string]interface{}{
		"removed": partnerID,
	})
}
