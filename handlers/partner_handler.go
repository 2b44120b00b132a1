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

// Sous-ensembles des dépôts utilisés par la surface partenaire. Les
// dépôts Mongo les satisfont; les tests injectent des implémentations
// en mémoire.
type validationCodeStore interface {
	FindByHash(codeHash, partnerID string) (*models.ValidationCode, error)
	Consume(codeHash, partnerID string, at time.Time) (*models.ValidationCode, error)
}

type partnerStore interface {
	FindActiveByID(id primitive.ObjectID) (*models.Partner, error)
}

type studentStore interface {
	FindByID(id primitive.ObjectID) (*models.Student, error)
}

type employeeStore interface {
	FindByID(id primitive.ObjectID) (*models.Employee, error)
}

type redemptionStore interface {
	Create(redemption *models.Redemption) error
	CountByPartnerBetween(partnerID string, from, to time.Time) (int64, error)
	CountPerDay(partnerID string, from, to time.Time) ([]models.DayCount, error)
	CountDistinctBorrowers(partnerID string, from, to time.Time) (int64, error)
}

type promotionStore interface {
	FindByID(id primitive.ObjectID) (*models.Promotion, error)
	FindByPartner(partnerID string) ([]models.Promotion, error)
	FindValidByPartner(partnerID string, at time.Time) ([]models.Promotion, error)
	Create(promotion *models.Promotion) error
	Update(promotion *models.Promotion) error
	SoftDelete(id primitive.ObjectID) error
}

// PartnerHandler sert la surface /v1/partner: remise des codes,
// gestion des promotions et rapports d'activité
type PartnerHandler struct {
	codeRepo       validationCodeStore
	partnerRepo    partnerStore
	redemptionRepo redemptionStore
	studentRepo    studentStore
	employeeRepo   employeeStore
	promotionRepo  promotionStore
}

// NewPartnerHandler crée une nouvelle instance de PartnerHandler
func NewPartnerHandler(db *mongo.Database) *PartnerHandler {
	return &PartnerHandler{
		codeRepo:       database.NewValidationCodeRepository(db),
		partnerRepo:    database.NewPartnerRepository(db),
		redemptionRepo: database.NewRedemptionRepository(db),
		studentRepo:    database.NewStudentRepository(db),
		employeeRepo:   database.NewEmployeeRepository(db),
		promotionRepo:  database.NewPromotionRepository(db),
	}
}

// Redeem consomme un code de validation présenté en caisse.
// La consommation est atomique: le même code présenté deux fois ne
// passe qu'une seule fois, même en cas de requêtes simultanées.
func (h *PartnerHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		utils.RespondError(w, http.StatusUnauthorized, constants.CodeUnauthorized, constants.ErrNotAuthenticated)
		return
	}

	var req models.RedeemRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	// 1. Format du document d'identité (CPF 11 chiffres, CNPJ 14 chiffres)
	document := utils.NormalizeDocument(req.Document)
	switch len(document) {
	case 11:
		if err := utils.ValidateCPF(document); err != nil {
			utils.RespondError(w, http.StatusBadRequest, constants.CodeInvalidCPF, constants.ErrInvalidCPF)
			return
		}
	case 14:
		if err := utils.ValidateCNPJ(document); err != nil {
			utils.RespondError(w, http.StatusBadRequest, constants.CodeInvalidCNPJ, constants.ErrInvalidCNPJ)
			return
		}
	default:
		utils.RespondError(w, http.StatusBadRequest, constants.CodeInvalidCPF, constants.ErrInvalidCPF)
		return
	}

	// 2. Un partenaire désactivé ne peut plus honorer de remises,
	// même pour un code émis avant sa désactivation
	partnerID, err := primitive.ObjectIDFromHex(claims.EntityID)
	if err != nil {
		utils.RespondError(w, http.StatusForbidden, constants.CodeInvalidPartner, constants.ErrPartnerInactive)
		return
	}
	partner, err := h.partnerRepo.FindActiveByID(partnerID)
	if err != nil {
		log.Printf("Erreur lors de la recherche du partenaire: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}
	if partner == nil {
		utils.RespondError(w, http.StatusForbidden, constants.CodeInvalidPartner, constants.ErrPartnerInactive)
		return
	}

	// 3. Pré-contrôle du code sans le consommer: un document erroné ou
	// un code expiré ne doit pas brûler le code. La requête se fait sur
	// le hash et le partenaire du token: un code émis pour un autre
	// partenaire reste invisible.
	now := time.Now()
	codeHash := utils.HashCode(req.Code)
	existing, err := h.codeRepo.FindByHash(codeHash, claims.EntityID)
	if err != nil {
		log.Printf("Erreur lors de la recherche du code: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}
	if existing == nil {
		utils.RespondError(w, http.StatusNotFound, constants.CodeInvalidCode, constants.ErrCodeNotFound)
		return
	}
	if existing.UsedAt != nil {
		utils.RespondError(w, http.StatusNotFound, constants.CodeCodeUsed, constants.ErrCodeNotFound)
		return
	}
	if existing.IsExpired(now) {
		utils.RespondError(w, http.StatusGone, constants.CodeExpired, constants.ErrCodeExpired)
		return
	}

	// 4-6. Charger le bénéficiaire, comparer le document, vérifier l'activité
	borrower, err := h.loadBorrower(existing, document, w, now)
	if borrower == nil {
		// loadBorrower a déjà répondu
		if err != nil {
			log.Printf("Erreur lors du chargement du bénéficiaire: %v", err)
		}
		return
	}

	// 7. Consommation atomique: le filtre exige used_at == null. Deux
	// remises simultanées du même code ne peuvent pas passer toutes les
	// deux, même après le pré-contrôle.
	code, err := h.codeRepo.Consume(codeHash, claims.EntityID, now)
	if err != nil {
		log.Printf("Erreur lors de la consommation du code: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}
	if code == nil {
		// Consommé entre le pré-contrôle et la consommation
		utils.RespondError(w, http.StatusNotFound, constants.CodeCodeUsed, constants.ErrCodeNotFound)
		return
	}

	// Promotion en cours du partenaire, si présente
	promotionTitle := ""
	promotions, err := h.promotionRepo.FindValidByPartner(claims.EntityID, now)
	if err != nil {
		log.Printf("Erreur lors de la recherche des promotions: %v", err)
	} else if len(promotions) > 0 {
		promotionTitle = promotions[0].Title
	}

	// 8. Enregistrer la remise
	redemption := &models.Redemption{
		ValidationCodeID: code.ID,
		TenantID:         code.TenantID,
		PartnerID:        code.PartnerID,
		BorrowerID:       code.BorrowerID,
		BorrowerRole:     code.BorrowerRole,
		PromotionTitle:   promotionTitle,
		Value:            req.Value,
		UsedAt:           now,
	}
	if err := h.redemptionRepo.Create(redemption); err != nil {
		log.Printf("Erreur lors de l'enregistrement de la remise: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	log.Printf("✓ Remise enregistrée: code %s, bénéficiaire %s (%s)", code.ID, borrower.name, code.BorrowerRole)

	utils.RespondData(w, http.StatusOK, models.RedeemResponse{
		BorrowerName:   borrower.name,
		BorrowerRole:   code.BorrowerRole,
		BorrowerDetail: borrower.detail,
		PromotionTitle: promotionTitle,
		RedemptionID:   redemption.ID,
	})
}

type borrowerInfo struct {
	name   string
	detail string
}

// loadBorrower charge le bénéficiaire d'un code, compare le document
// d'identité et vérifie l'activité. Répond lui-même en cas d'échec et
// retourne nil.
func (h *PartnerHandler) loadBorrower(code *models.ValidationCode, document string, w http.ResponseWriter, now time.Time) (*borrowerInfo, error) {
	entityID, err := primitive.ObjectIDFromHex(code.BorrowerID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, constants.CodeNotFound, constants.ErrUnknownEntity)
		return nil, nil
	}

	switch code.BorrowerRole {
	case models.RoleStudent:
		student, err := h.studentRepo.FindByID(entityID)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
			return nil, err
		}
		if student == nil {
			utils.RespondError(w, http.StatusNotFound, constants.CodeNotFound, constants.ErrStudentNotFound)
			return nil, nil
		}
		if !utils.CheckPassword(student.CPFHash, document) {
			utils.RespondError(w, http.StatusBadRequest, constants.CodeInvalidCPF, constants.ErrDocumentMismatch)
			return nil, nil
		}
		if !student.IsActive(now) {
			utils.RespondError(w, http.StatusForbidden, constants.CodeInactiveStudent, constants.ErrInactiveStudent)
			return nil, nil
		}
		return &borrowerInfo{name: student.Name, detail: student.Course}, nil

	case models.RoleEmployee:
		employee, err := h.employeeRepo.FindByID(entityID)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
			return nil, err
		}
		if employee == nil {
			utils.RespondError(w, http.StatusNotFound, constants.CodeNotFound, constants.ErrEmployeeNotFound)
			return nil, nil
		}
		if !utils.CheckPassword(employee.CNPJHash, document) {
			utils.RespondError(w, http.StatusBadRequest, constants.CodeInvalidCNPJ, constants.ErrDocumentMismatch)
			return nil, nil
		}
		if !employee.IsActive(now) {
			utils.RespondError(w, http.StatusForbidden, constants.CodeInactiveEmployee, constants.ErrInactiveEmployee)
			return nil, nil
		}
		return &borrowerInfo{name: employee.Name, detail: employee.Department}, nil

	default:
		utils.RespondError(w, http.StatusNotFound, constants.CodeNotFound, constants.ErrUnknownEntity)
		return nil, nil
	}
}

// ListPromotions retourne toutes les promotions du partenaire connecté
func (h *PartnerHandler) ListPromotions(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		utils.RespondError(w, http.StatusUnauthorized, constants.CodeUnauthorized, constants.ErrNotAuthenticated)
		return
	}

	promotions, err := h.promotionRepo.FindByPartner(claims.EntityID)
	if err != nil {
		log.Printf("Erreur lors de la recherche des promotions: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	utils.RespondData(w, http.StatusOK, promotions)
}

// CreatePromotion crée une promotion pour le partenaire connecté
func (h *PartnerHandler) CreatePromotion(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		utils.RespondError(w, http.StatusUnauthorized, constants.CodeUnauthorized, constants.ErrNotAuthenticated)
		return
	}

	var req models.PromotionRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if !validatePromotionRequest(w, &req) {
		return
	}

	promotion := &models.Promotion{
		PartnerID: claims.EntityID,
		Title:     req.Title,
		Type:      req.Type,
		ValidFrom: req.ValidFrom,
		ValidTo:   req.ValidTo,
		Active:    true,
		Audience:  req.Audience,
	}

	if err := h.promotionRepo.Create(promotion); err != nil {
		log.Printf("Erreur lors de la création de la promotion: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	log.Printf("✓ Promotion créée: %s (partenaire: %s)", promotion.Title, claims.EntityID)
	utils.RespondData(w, http.StatusCreated, promotion)
}

// UpdatePromotion modifie une promotion du partenaire connecté
func (h *PartnerHandler) UpdatePromotion(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		utils.RespondError(w, http.StatusUnauthorized, constants.CodeUnauthorized, constants.ErrNotAuthenticated)
		return
	}

	promotion, ok := h.ownedPromotion(w, r, claims.EntityID)
	if !ok {
		return
	}

	var req models.PromotionRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if !validatePromotionRequest(w, &req) {
		return
	}

	promotion.Title = req.Title
	promotion.Type = req.Type
	promotion.ValidFrom = req.ValidFrom
	promotion.ValidTo = req.ValidTo
	promotion.Audience = req.Audience

	if err := h.promotionRepo.Update(promotion); err != nil {
		log.Printf("Erreur lors de la mise à jour de la promotion: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	utils.RespondData(w, http.StatusOK, promotion)
}

// DeletePromotion désactive une promotion (soft delete, jamais de suppression physique)
func (h *PartnerHandler) DeletePromotion(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		utils.RespondError(w, http.StatusUnauthorized, constants.CodeUnauthorized, constants.ErrNotAuthenticated)
		return
	}

	promotion, ok := h.ownedPromotion(w, r, claims.EntityID)
	if !ok {
		return
	}

	if err := h.promotionRepo.SoftDelete(promotion.ID); err != nil {
		log.Printf("Erreur lors de la désactivation de la promotion: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	utils.RespondData(w, http.StatusOK, map[string]interface{}{
		"deleted": promotion.ID.Hex(),
	})
}

// ownedPromotion charge la promotion de l'URL et vérifie qu'elle appartient
// au partenaire connecté. Répond lui-même en cas d'échec.
func (h *PartnerHandler) ownedPromotion(w http.ResponseWriter, r *http.Request, partnerID string) (*models.Promotion, bool) {
	id, ok := ParseObjectIDVar(w, mux.Vars(r), "id", constants.ErrInvalidID)
	if !ok {
		return nil, false
	}

	promotion, err := h.promotionRepo.FindByID(id)
	if err != nil {
		log.Printf("Erreur lors de la recherche de la promotion: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return nil, false
	}
	if promotion == nil {
		utils.RespondError(w, http.StatusNotFound, constants.CodeNotFound, constants.ErrPromotionNotFound)
		return nil, false
	}
	if promotion.PartnerID != partnerID {
		utils.RespondError(w, http.StatusForbidden, constants.CodeInvalidPartner, constants.ErrNotPromotionOwner)
		return nil, false
	}

	return promotion, true
}

// validatePromotionRequest vérifie les règles d'écriture d'une promotion.
// Répond lui-même et retourne false si invalide.
func validatePromotionRequest(w http.ResponseWriter, req *models.PromotionRequest) bool {
	if req.Title == "" {
		utils.RespondError(w, http.StatusUnprocessableEntity, constants.CodeValidationError, constants.ErrInvalidData)
		return false
	}
	if !req.ValidFrom.Before(req.ValidTo) {
		utils.RespondError(w, http.StatusUnprocessableEntity, constants.CodeValidationError, constants.ErrInvalidDateRange)
		return false
	}
	return true
}

// Reports retourne le rapport d'activité du partenaire sur une période
// (30 derniers jours par défaut)
func (h *PartnerHandler) Reports(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		utils.RespondError(w, http.StatusUnauthorized, constants.CodeUnauthorized, constants.ErrNotAuthenticated)
		return
	}

	to := time.Now()
	from := to.AddDate(0, 0, -30)

	if v := r.URL.Query().Get("from"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			utils.RespondError(w, http.StatusUnprocessableEntity, constants.CodeValidationError, constants.ErrInvalidData)
			return
		}
		from = parsed
	}
	if v := r.URL.Query().Get("to"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			utils.RespondError(w, http.StatusUnprocessableEntity, constants.CodeValidationError, constants.ErrInvalidData)
			return
		}
		to = parsed
	}
	if !from.Before(to) {
		utils.RespondError(w, http.StatusUnprocessableEntity, constants.CodeValidationError, constants.ErrInvalidDateRange)
		return
	}

	total, err := h.redemptionRepo.CountByPartnerBetween(claims.EntityID, from, to)
	if err != nil {
		log.Printf("Erreur lors du comptage des remises: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	perDay, err := h.redemptionRepo.CountPerDay(claims.EntityID, from, to)
	if err != nil {
		log.Printf("Erreur lors de l'agrégation par jour: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	distinct, err := h.redemptionRepo.CountDistinctBorrowers(claims.EntityID, from, to)
	if err != nil {
		log.Printf("Erreur lors du comptage des bénéficiaires: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	utils.RespondData(w, http.StatusOK, models.PartnerReport{
		From:              from,
		To:                to,
		TotalRedemptions:  total,
		DistinctBorrowers: distinct,
		PerDay:            perDay,
	})
}
