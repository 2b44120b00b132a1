package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/mongo"

	"avantages-backend/constants"
	"avantages-backend/database"
	"avantages-backend/models"
	"avantages-backend/services"
	"avantages-backend/utils"
)

// AdminHandler sert la surface /v1/admin: gestion des annuaires,
// métriques globales et diffusion de notifications
type AdminHandler struct {
	studentRepo         *database.StudentRepository
	employeeRepo        *database.EmployeeRepository
	partnerRepo         *database.PartnerRepository
	promotionRepo       *database.PromotionRepository
	benefitRepo         *database.BenefitRepository
	userRepo            *database.UserRepository
	redemptionRepo      *database.RedemptionRepository
	codeRepo            *database.ValidationCodeRepository
	fcmTokenRepo        *database.FCMTokenRepository
	fcmService          *services.FCMService
	notificationHandler *NotificationHandler
}

// NewAdminHandler crée une nouvelle instance de AdminHandler
func NewAdminHandler(db *mongo.Database, fcmService *services.FCMService, notificationHandler *NotificationHandler) *AdminHandler {
	return &AdminHandler{
		studentRepo:         database.NewStudentRepository(db),
		employeeRepo:        database.NewEmployeeRepository(db),
		partnerRepo:         database.NewPartnerRepository(db),
		promotionRepo:       database.NewPromotionRepository(db),
		benefitRepo:         database.NewBenefitRepository(db),
		userRepo:            database.NewUserRepository(db),
		redemptionRepo:      database.NewRedemptionRepository(db),
		codeRepo:            database.NewValidationCodeRepository(db),
		fcmTokenRepo:        database.NewFCMTokenRepository(db),
		fcmService:          fcmService,
		notificationHandler: notificationHandler,
	}
}

// ========== ÉTUDIANTS ==========

// ListStudents retourne les étudiants paginés
func (h *AdminHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParsePagination(r)

	students, total, err := h.studentRepo.FindAll(limit, offset)
	if err != nil {
		log.Printf("Erreur lors de la recherche des étudiants: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	utils.RespondList(w, students, total, limit, offset)
}

// CreateStudent crée un étudiant. Le CPF est validé puis haché avec bcrypt:
// le document en clair n'est jamais persisté.
func (h *AdminHandler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var req models.StudentRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" || req.CPF == "" {
		utils.RespondError(w, http.StatusUnprocessableEntity, constants.CodeValidationError, constants.ErrInvalidData)
		return
	}

	cpf := utils.NormalizeDocument(req.CPF)
	if err := utils.ValidateCPF(cpf); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.CodeInvalidCPF, constants.ErrInvalidCPF)
		return
	}

	cpfHash, err := utils.HashPassword(cpf)
	if err != nil {
		log.Printf("Erreur lors du hachage du CPF: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	student := &models.Student{
		TenantID:    req.TenantID,
		Name:        req.Name,
		Course:      req.Course,
		CPFHash:     cpfHash,
		ActiveUntil: req.ActiveUntil,
	}

	if err := h.studentRepo.Create(student); err != nil {
		log.Printf("Erreur lors de la création de l'étudiant: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	log.Printf("✓ Étudiant créé: %s", student.Name)
	utils.RespondData(w, http.StatusCreated, student)
}

// UpdateStudent modifie un étudiant
func (h *AdminHandler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseObjectIDVar(w, mux.Vars(r), "id", constants.ErrInvalidID)
	if !ok {
		return
	}

	student, err := h.studentRepo.FindByID(id)
	if err != nil {
		log.Printf("Erreur lors de la recherche de l'étudiant: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}
	if student == nil {
		utils.RespondError(w, http.StatusNotFound, constants.CodeNotFound, constants.ErrStudentNotFound)
		return
	}

	var req models.StudentRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if req.Name != "" {
		student.Name = req.Name
	}
	if req.Course != "" {
		student.Course = req.Course
	}
	if req.TenantID != "" {
		student.TenantID = req.TenantID
	}
	if !req.ActiveUntil.IsZero() {
		student.ActiveUntil = req.ActiveUntil
	}

	// CPF fourni = nouveau hash, sinon le hash existant est conservé
	student.CPFHash = ""
	if req.CPF != "" {
		cpf := utils.NormalizeDocument(req.CPF)
		if err := utils.ValidateCPF(cpf); err != nil {
			utils.RespondError(w, http.StatusBadRequest, constants.CodeInvalidCPF, constants.ErrInvalidCPF)
			return
		}
		hash, err := utils.HashPassword(cpf)
		if err != nil {
			log.Printf("Erreur lors du hachage du CPF: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
			return
		}
		student.CPFHash = hash
	}

	if err := h.studentRepo.Update(student); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondError(w, http.StatusNotFound, constants.CodeNotFound, constants.ErrStudentNotFound)
			return
		}
		log.Printf("Erreur lors de la mise à jour de l'étudiant: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	utils.RespondData(w, http.StatusOK, student)
}

// DeleteStudent supprime un étudiant
func (h *AdminHandler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseObjectIDVar(w, mux.Vars(r), "id", constants.ErrInvalidID)
	if !ok {
		return
	}

	if err := h.studentRepo.Delete(id); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondError(w, http.StatusNotFound, constants.CodeNotFound, constants.ErrStudentNotFound)
			return
		}
		log.Printf("Erreur lors de la suppression de l'étudiant: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	utils.RespondData(w, http.StatusOK, map[string]interface{}{"deleted": id.Hex()})
}

// ========== EMPLOYÉS ==========

// ListEmployees retourne les employés paginés
func (h *AdminHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParsePagination(r)

	employees, total, err := h.employeeRepo.FindAll(limit, offset)
	if err != nil {
		log.Printf("Erreur lors de la recherche des employés: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	utils.RespondList(w, employees, total, limit, offset)
}

// CreateEmployee crée un employé (CNPJ validé puis haché avec bcrypt)
func (h *AdminHandler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req models.EmployeeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" || req.CNPJ == "" {
		utils.RespondError(w, http.StatusUnprocessableEntity, constants.CodeValidationError, constants.ErrInvalidData)
		return
	}

	cnpj := utils.NormalizeDocument(req.CNPJ)
	if err := utils.ValidateCNPJ(cnpj); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.CodeInvalidCNPJ, constants.ErrInvalidCNPJ)
		return
	}

	cnpjHash, err := utils.HashPassword(cnpj)
	if err != nil {
		log.Printf("Erreur lors du hachage du CNPJ: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	employee := &models.Employee{
		TenantID:    req.TenantID,
		Name:        req.Name,
		Department:  req.Department,
		CNPJHash:    cnpjHash,
		ActiveUntil: req.ActiveUntil,
	}

	if err := h.employeeRepo.Create(employee); err != nil {
		log.Printf("Erreur lors de la création de l'employé: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	log.Printf("✓ Employé créé: %s", employee.Name)
	utils.RespondData(w, http.StatusCreated, employee)
}

// UpdateEmployee modifie un employé
func (h *AdminHandler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseObjectIDVar(w, mux.Vars(r), "id", constants.ErrInvalidID)
	if !ok {
		return
	}

	employee, err := h.employeeRepo.FindByID(id)
	if err != nil {
		log.Printf("Erreur lors de la recherche de l'employé: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}
	if employee == nil {
		utils.RespondError(w, http.StatusNotFound, constants.CodeNotFound, constants.ErrEmployeeNotFound)
		return
	}

	var req models.EmployeeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if req.Name != "" {
		employee.Name = req.Name
	}
	if req.Department != "" {
		employee.Department = req.Department
	}
	if req.TenantID != "" {
		employee.TenantID = req.TenantID
	}
	if !req.ActiveUntil.IsZero() {
		employee.ActiveUntil = req.ActiveUntil
	}

	employee.CNPJHash = ""
	if req.CNPJ != "" {
		cnpj := utils.NormalizeDocument(req.CNPJ)
		if err := utils.ValidateCNPJ(cnpj); err != nil {
			utils.RespondError(w, http.StatusBadRequest, constants.CodeInvalidCNPJ, constants.ErrInvalidCNPJ)
			return
		}
		hash, err := utils.HashPassword(cnpj)
		if err != nil {
			log.Printf("Erreur lors du hachage du CNPJ: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
			return
		}
		employee.CNPJHash = hash
	}

	if err := h.employeeRepo.Update(employee); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondError(w, http.StatusNotFound, constants.CodeNotFound, constants.ErrEmployeeNotFound)
			return
		}
		log.Printf("Erreur lors de la mise à jour de l'employé: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	utils.RespondData(w, http.StatusOK, employee)
}

// DeleteEmployee supprime un employé
func (h *AdminHandler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseObjectIDVar(w, mux.Vars(r), "id", constants.ErrInvalidID)
	if !ok {
		return
	}

	if err := h.employeeRepo.Delete(id); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondError(w, http.StatusNotFound, constants.CodeNotFound, constants.ErrEmployeeNotFound)
			return
		}
		log.Printf("Erreur lors de la suppression de l'employé: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	utils.RespondData(w, http.StatusOK, map[string]interface{}{"deleted": id.Hex()})
}

// ========== PARTENAIRES ==========

// ListPartners retourne tous les partenaires, inactifs compris
func (h *AdminHandler) ListPartners(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParsePagination(r)

	partners, total, err := h.partnerRepo.FindAll(limit, offset)
	if err != nil {
		log.Printf("Erreur lors de la recherche des partenaires: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	utils.RespondList(w, partners, total, limit, offset)
}

// CreatePartner crée un partenaire
func (h *AdminHandler) CreatePartner(w http.ResponseWriter, r *http.Request) {
	var req models.PartnerRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.TradeName == "" {
		utils.RespondError(w, http.StatusUnprocessableEntity, constants.CodeValidationError, constants.ErrInvalidData)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	partner := &models.Partner{
		TenantID:  req.TenantID,
		TradeName: req.TradeName,
		Category:  req.Category,
		Address:   req.Address,
		Active:    active,
	}

	if err := h.partnerRepo.Create(partner); err != nil {
		log.Printf("Erreur lors de la création du partenaire: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	log.Printf("✓ Partenaire créé: %s", partner.TradeName)
	utils.RespondData(w, http.StatusCreated, partner)
}

// UpdatePartner modifie un partenaire
func (h *AdminHandler) UpdatePartner(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseObjectIDVar(w, mux.Vars(r), "id", constants.ErrInvalidID)
	if !ok {
		return
	}

	partner, err := h.partnerRepo.FindByID(id)
	if err != nil {
		log.Printf("Erreur lors de la recherche du partenaire: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}
	if partner == nil {
		utils.RespondError(w, http.StatusNotFound, constants.CodeNotFound, constants.ErrPartnerNotFound)
		return
	}

	var req models.PartnerRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if req.TradeName != "" {
		partner.TradeName = req.TradeName
	}
	if req.Category != "" {
		partner.Category = req.Category
	}
	if req.Address != "" {
		partner.Address = req.Address
	}
	if req.TenantID != "" {
		partner.TenantID = req.TenantID
	}
	if req.Active != nil {
		partner.Active = *req.Active
	}

	if err := h.partnerRepo.Update(partner); err != nil {
		log.Printf("Erreur lors de la mise à jour du partenaire: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	utils.RespondData(w, http.StatusOK, partner)
}

// DeletePartner désactive un partenaire (soft delete)
func (h *AdminHandler) DeletePartner(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseObjectIDVar(w, mux.Vars(r), "id", constants.ErrInvalidID)
	if !ok {
		return
	}

	if err := h.partnerRepo.SoftDelete(id); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondError(w, http.StatusNotFound, constants.CodeNotFound, constants.ErrPartnerNotFound)
			return
		}
		log.Printf("Erreur lors de la désactivation du partenaire: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	utils.RespondData(w, http.StatusOK, map[string]interface{}{"deleted": id.Hex()})
}

// ========== PROMOTIONS ==========

// AdminPromotionRequest représente l'écriture d'une promotion pour un
// partenaire arbitraire (l'admin fournit le partner_id)
type AdminPromotionRequest struct {
	models.PromotionRequest
	PartnerID string `json:"partner_id"`
}

// ListPromotions retourne toutes les promotions paginées
func (h *AdminHandler) ListPromotions(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParsePagination(r)

	promotions, total, err := h.promotionRepo.FindAll(limit, offset)
	if err != nil {
		log.Printf("Erreur lors de la recherche des promotions: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	utils.RespondList(w, promotions, total, limit, offset)
}

// CreatePromotion crée une promotion pour un partenaire donné
func (h *AdminHandler) CreatePromotion(w http.ResponseWriter, r *http.Request) {
	var req AdminPromotionRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.PartnerID == "" {
		utils.RespondError(w, http.StatusUnprocessableEntity, constants.CodeValidationError, constants.ErrPartnerIDRequired)
		return
	}
	if !validatePromotionRequest(w, &req.PromotionRequest) {
		return
	}

	promotion := &models.Promotion{
		PartnerID: req.PartnerID,
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

	log.Printf("✓ Promotion créée: %s", promotion.Title)
	utils.RespondData(w, http.StatusCreated, promotion)
}

// UpdatePromotion modifie une promotion, quel que soit son partenaire
func (h *AdminHandler) UpdatePromotion(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseObjectIDVar(w, mux.Vars(r), "id", constants.ErrInvalidID)
	if !ok {
		return
	}

	promotion, err := h.promotionRepo.FindByID(id)
	if err != nil {
		log.Printf("Erreur lors de la recherche de la promotion: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}
	if promotion == nil {
		utils.RespondError(w, http.StatusNotFound, constants.CodeNotFound, constants.ErrPromotionNotFound)
		return
	}

	var req AdminPromotionRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if !validatePromotionRequest(w, &req.PromotionRequest) {
		return
	}

	if req.PartnerID != "" {
		promotion.PartnerID = req.PartnerID
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

// DeletePromotion désactive une promotion (soft delete)
func (h *AdminHandler) DeletePromotion(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseObjectIDVar(w, mux.Vars(r), "id", constants.ErrInvalidID)
	if !ok {
		return
	}

	if err := h.promotionRepo.SoftDelete(id); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondError(w, http.StatusNotFound, constants.CodeNotFound, constants.ErrPromotionNotFound)
			return
		}
		log.Printf("Erreur lors de la désactivation de la promotion: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	utils.RespondData(w, http.StatusOK, map[string]interface{}{"deleted": id.Hex()})
}

// ========== AVANTAGES ==========

// ListBenefits retourne le catalogue d'avantages paginé
func (h *AdminHandler) ListBenefits(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParsePagination(r)

	benefits, total, err := h.benefitRepo.FindAll(limit, offset)
	if err != nil {
		log.Printf("Erreur lors de la recherche des avantages: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	utils.RespondList(w, benefits, total, limit, offset)
}

// CreateBenefit crée une entrée du catalogue
func (h *AdminHandler) CreateBenefit(w http.ResponseWriter, r *http.Request) {
	var req models.BenefitRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.PartnerID == "" || req.Title == "" {
		utils.RespondError(w, http.StatusUnprocessableEntity, constants.CodeValidationError, constants.ErrInvalidData)
		return
	}

	benefit := &models.Benefit{
		PartnerID:   req.PartnerID,
		Title:       req.Title,
		Description: req.Description,
		Active:      true,
	}

	if err := h.benefitRepo.Create(benefit); err != nil {
		log.Printf("Erreur lors de la création de l'avantage: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	utils.RespondData(w, http.StatusCreated, benefit)
}

// UpdateBenefit modifie une entrée du catalogue
func (h *AdminHandler) UpdateBenefit(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseObjectIDVar(w, mux.Vars(r), "id", constants.ErrInvalidID)
	if !ok {
		return
	}

	benefit, err := h.benefitRepo.FindByID(id)
	if err != nil {
		log.Printf("Erreur lors de la recherche de l'avantage: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}
	if benefit == nil {
		utils.RespondError(w, http.StatusNotFound, constants.CodeNotFound, constants.ErrBenefitNotFound)
		return
	}

	var req models.BenefitRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if req.PartnerID != "" {
		benefit.PartnerID = req.PartnerID
	}
	if req.Title != "" {
		benefit.Title = req.Title
	}
	if req.Description != "" {
		benefit.Description = req.Description
	}

	if err := h.benefitRepo.Update(benefit); err != nil {
		log.Printf("Erreur lors de la mise à jour de l'avantage: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	utils.RespondData(w, http.StatusOK, benefit)
}

// DeleteBenefit désactive une entrée du catalogue (soft delete)
func (h *AdminHandler) DeleteBenefit(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseObjectIDVar(w, mux.Vars(r), "id", constants.ErrInvalidID)
	if !ok {
		return
	}

	if err := h.benefitRepo.SoftDelete(id); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondError(w, http.StatusNotFound, constants.CodeNotFound, constants.ErrBenefitNotFound)
			return
		}
		log.Printf("Erreur lors de la désactivation de l'avantage: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	utils.RespondData(w, http.StatusOK, map[string]interface{}{"deleted": id.Hex()})
}

// ========== COMPTES ==========

// ListUsers retourne les comptes de connexion paginés
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParsePagination(r)

	users, total, err := h.userRepo.FindAll(limit, offset)
	if err != nil {
		log.Printf("Erreur lors de la recherche des comptes: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	utils.RespondList(w, users, total, limit, offset)
}

// CreateUser crée un compte de connexion (mot de passe haché avec bcrypt,
// email unique garanti par l'index)
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.UserRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := utils.ValidateEmail(req.Email); err != nil {
		utils.RespondError(w, http.StatusUnprocessableEntity, constants.CodeValidationError, err.Error())
		return
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		utils.RespondError(w, http.StatusUnprocessableEntity, constants.CodeValidationError, err.Error())
		return
	}
	switch req.Role {
	case models.RoleStudent, models.RoleEmployee, models.RolePartner, models.RoleAdmin:
	default:
		utils.RespondError(w, http.StatusUnprocessableEntity, constants.CodeValidationError, constants.ErrInvalidData)
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Printf("Erreur lors du hachage du mot de passe: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	user := &models.User{
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: hashedPassword,
		Role:     req.Role,
		TenantID: req.TenantID,
		EntityID: req.EntityID,
	}

	if err := h.userRepo.Create(user); err != nil {
		if err.Error() == constants.ErrEmailAlreadyUsed {
			utils.RespondError(w, http.StatusConflict, constants.CodeValidationError, constants.ErrEmailAlreadyUsed)
			return
		}
		log.Printf("Erreur lors de la création du compte: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	log.Printf("✓ Compte créé: %s (rôle: %s)", user.Email, user.Role)
	utils.RespondData(w, http.StatusCreated, user)
}

// UpdateUser modifie un compte de connexion
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseObjectIDVar(w, mux.Vars(r), "id", constants.ErrInvalidID)
	if !ok {
		return
	}

	user, err := h.userRepo.FindByID(id)
	if err != nil {
		log.Printf("Erreur lors de la recherche du compte: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}
	if user == nil {
		utils.RespondError(w, http.StatusNotFound, constants.CodeNotFound, constants.ErrUserNotFound)
		return
	}

	var req models.UserRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	user.ApplyUpdate(&req)

	if req.Password != "" {
		if err := utils.ValidatePassword(req.Password); err != nil {
			utils.RespondError(w, http.StatusUnprocessableEntity, constants.CodeValidationError, err.Error())
			return
		}
		hash, err := utils.HashPassword(req.Password)
		if err != nil {
			log.Printf("Erreur lors du hachage du mot de passe: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
			return
		}
		user.Password = hash
	}

	if err := h.userRepo.Update(user); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondError(w, http.StatusNotFound, constants.CodeNotFound, constants.ErrUserNotFound)
			return
		}
		log.Printf("Erreur lors de la mise à jour du compte: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	utils.RespondData(w, http.StatusOK, user)
}

// DeleteUser supprime un compte de connexion
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseObjectIDVar(w, mux.Vars(r), "id", constants.ErrInvalidID)
	if !ok {
		return
	}

	if err := h.userRepo.Delete(id); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondError(w, http.StatusNotFound, constants.CodeNotFound, constants.ErrUserNotFound)
			return
		}
		log.Printf("Erreur lors de la suppression du compte: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	utils.RespondData(w, http.StatusOK, map[string]interface{}{"deleted": id.Hex()})
}

// ========== MÉTRIQUES ==========

// GetMetrics retourne les compteurs globaux. Chaque compteur défaillant
// tombe à zéro plutôt que de faire échouer la réponse entière.
func (h *AdminHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	totalStudents, err := h.studentRepo.Count()
	if err != nil {
		log.Printf("Erreur comptage étudiants: %v", err)
		totalStudents = 0
	}

	totalEmployees, err := h.employeeRepo.Count()
	if err != nil {
		totalEmployees = 0
	}

	totalPartners, err := h.partnerRepo.Count()
	if err != nil {
		totalPartners = 0
	}

	activePartners, err := h.partnerRepo.CountActive("")
	if err != nil {
		activePartners = 0
	}

	totalPromotions, err := h.promotionRepo.Count()
	if err != nil {
		totalPromotions = 0
	}

	totalRedemptions, err := h.redemptionRepo.Count()
	if err != nil {
		totalRedemptions = 0
	}

	today := time.Now().Truncate(24 * time.Hour)
	redemptionsToday, err := h.redemptionRepo.CountSince(today)
	if err != nil {
		redemptionsToday = 0
	}

	codesToday, err := h.codeRepo.CountIssuedSince(today)
	if err != nil {
		codesToday = 0
	}

	utils.RespondData(w, http.StatusOK, models.MetricsResponse{
		TotalStudents:    totalStudents,
		TotalEmployees:   totalEmployees,
		TotalPartners:    totalPartners,
		ActivePartners:   activePartners,
		TotalPromotions:  totalPromotions,
		TotalRedemptions: totalRedemptions,
		RedemptionsToday: redemptionsToday,
		CodesIssuedToday: codesToday,
	})
}

// ========== NOTIFICATIONS ==========

// SendNotification diffuse une notification à tous les appareils (FCM)
// et à tous les navigateurs abonnés (Web Push)
func (h *AdminHandler) SendNotification(w http.ResponseWriter, r *http.Request) {
	var req models.NotificationRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	title := req.Title
	if title == "" {
		title = "Nouvelle notification"
	}
	body := req.Body
	if body == "" {
		body = "Vous avez reçu une nouvelle notification"
	}

	// FCM
	fcmSuccess, fcmFailed := 0, 0
	allTokens, err := h.fcmTokenRepo.FindAll()
	if err != nil {
		log.Printf("Erreur récupération tokens FCM: %v", err)
	} else if len(allTokens) > 0 {
		tokens := make([]string, len(allTokens))
		for i, t := range allTokens {
			tokens[i] = t.Token
		}

		var failedTokens []string
		fcmSuccess, fcmFailed, failedTokens = h.fcmService.SendToAll(tokens, title, body, nil)

		for _, failedToken := range failedTokens {
			if err := h.fcmTokenRepo.Delete(failedToken); err != nil {
				log.Printf("⚠️  Erreur suppression token invalide: %v", err)
			}
		}
	}

	// Web Push
	webSent, webFailed := h.notificationHandler.BroadcastWebPush(title, body, nil)

	log.Printf("📊 Diffusion admin: FCM %d/%d, Web Push %d/%d",
		fcmSuccess, fcmSuccess+fcmFailed, webSent, webSent+webFailed)

	utils.RespondData(w, http.StatusOK, map[string]interface{}{
		"fcm":      map[string]int{"sent": fcmSuccess, "failed": fcmFailed},
		"web_push": map[string]int{"sent": webSent, "failed": webFailed},
	})
}
