package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"avantages-backend/middleware"
	"avantages-backend/models"
	"avantages-backend/utils"
)

// CPF et CNPJ de test avec des chiffres de contrôle valides
const (
	testCPF      = "52998224725"
	testCPFAutre = "11144477735"
)

// Implémentations en mémoire des dépôts utilisés par Redeem

type fakeCodeStore struct {
	codes map[string]*models.ValidationCode // clé: code_hash
}

func (f *fakeCodeStore) FindByHash(codeHash, partnerID string) (*models.ValidationCode, error) {
	code, ok := f.codes[codeHash]
	if !ok || code.PartnerID != partnerID {
		return nil, nil
	}
	copie := *code
	return &copie, nil
}

func (f *fakeCodeStore) Consume(codeHash, partnerID string, at time.Time) (*models.ValidationCode, error) {
	code, ok := f.codes[codeHash]
	if !ok || code.PartnerID != partnerID || code.UsedAt != nil {
		return nil, nil
	}
	usedAt := at
	code.UsedAt = &usedAt
	copie := *code
	return &copie, nil
}

type fakePartnerStore struct {
	partners map[string]*models.Partner // clé: hex de l'ObjectID
}

func (f *fakePartnerStore) FindActiveByID(id primitive.ObjectID) (*models.Partner, error) {
	partner, ok := f.partners[id.Hex()]
	if !ok || !partner.Active {
		return nil, nil
	}
	return partner, nil
}

type fakeStudentStore struct {
	students map[string]*models.Student
}

func (f *fakeStudentStore) FindByID(id primitive.ObjectID) (*models.Student, error) {
	return f.students[id.Hex()], nil
}

type fakeEmployeeStore struct {
	employees map[string]*models.Employee
}

func (f *fakeEmployeeStore) FindByID(id primitive.ObjectID) (*models.Employee, error) {
	return f.employees[id.Hex()], nil
}

type fakeRedemptionStore struct {
	redemptions []*models.Redemption
}

func (f *fakeRedemptionStore) Create(redemption *models.Redemption) error {
	redemption.ID = primitive.NewObjectID().Hex()
	f.redemptions = append(f.redemptions, redemption)
	return nil
}

func (f *fakeRedemptionStore) CountByPartnerBetween(partnerID string, from, to time.Time) (int64, error) {
	return int64(len(f.redemptions)), nil
}

func (f *fakeRedemptionStore) CountPerDay(partnerID string, from, to time.Time) ([]models.DayCount, error) {
	return nil, nil
}

func (f *fakeRedemptionStore) CountDistinctBorrowers(partnerID string, from, to time.Time) (int64, error) {
	return 0, nil
}

type fakePromotionStore struct {
	valides []models.Promotion
}

func (f *fakePromotionStore) FindByID(id primitive.ObjectID) (*models.Promotion, error) {
	return nil, nil
}

func (f *fakePromotionStore) FindByPartner(partnerID string) ([]models.Promotion, error) {
	return f.valides, nil
}

func (f *fakePromotionStore) FindValidByPartner(partnerID string, at time.Time) ([]models.Promotion, error) {
	return f.valides, nil
}

func (f *fakePromotionStore) Create(promotion *models.Promotion) error { return nil }
func (f *fakePromotionStore) Update(promotion *models.Promotion) error { return nil }
func (f *fakePromotionStore) SoftDelete(id primitive.ObjectID) error   { return nil }

// redeemFixture monte un PartnerHandler sur les dépôts en mémoire, avec un
// partenaire actif et un étudiant inscrit
type redeemFixture struct {
	handler   *PartnerHandler
	codes     *fakeCodeStore
	reds      *fakeRedemptionStore
	partner   *models.Partner
	student   *models.Student
	partnerID primitive.ObjectID
	studentID primitive.ObjectID
}

func newRedeemFixture(t *testing.T) *redeemFixture {
	t.Helper()

	partnerID := primitive.NewObjectID()
	studentID := primitive.NewObjectID()

	cpfHash, err := utils.HashPassword(testCPF)
	if err != nil {
		t.Fatalf("HashPassword() erreur = %v", err)
	}

	partner := &models.Partner{
		ID:        partnerID,
		TradeName: "Cantina da Praça",
		Active:    true,
	}
	student := &models.Student{
		ID:          studentID,
		Name:        "Ana Souza",
		Course:      "Informatique",
		CPFHash:     cpfHash,
		ActiveUntil: time.Now().AddDate(1, 0, 0),
	}

	codes := &fakeCodeStore{codes: map[string]*models.ValidationCode{}}
	reds := &fakeRedemptionStore{}

	handler := &PartnerHandler{
		codeRepo:       codes,
		partnerRepo:    &fakePartnerStore{partners: map[string]*models.Partner{partnerID.Hex(): partner}},
		redemptionRepo: reds,
		studentRepo:    &fakeStudentStore{students: map[string]*models.Student{studentID.Hex(): student}},
		employeeRepo:   &fakeEmployeeStore{},
		promotionRepo:  &fakePromotionStore{valides: []models.Promotion{{Title: "Menu étudiant -20%"}}},
	}

	return &redeemFixture{
		handler:   handler,
		codes:     codes,
		reds:      reds,
		partner:   partner,
		student:   student,
		partnerID: partnerID,
		studentID: studentID,
	}
}

// issueCode enregistre un code émis pour l'étudiant de la fixture
func (f *redeemFixture) issueCode(code, partnerID string, expires time.Time) *models.ValidationCode {
	vc := &models.ValidationCode{
		ID:           "vc-" + code,
		PartnerID:    partnerID,
		BorrowerID:   f.studentID.Hex(),
		BorrowerRole: models.RoleStudent,
		CodeHash:     utils.HashCode(code),
		Expires:      expires,
		CreatedAt:    time.Now(),
	}
	f.codes.codes[vc.CodeHash] = vc
	return vc
}

// redeem présente un code en caisse au nom du partenaire de la fixture
func (f *redeemFixture) redeem(t *testing.T, code, document string) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(models.RedeemRequest{Code: code, Document: document})
	if err != nil {
		t.Fatalf("sérialisation de la requête: %v", err)
	}

	req := httptest.NewRequest("POST", "/v1/partner/redeem", bytes.NewReader(body))
	claims := &utils.Claims{Role: models.RolePartner, EntityID: f.partnerID.Hex()}
	req = req.WithContext(context.WithValue(req.Context(), middleware.UserContextKey, claims))

	rr := httptest.NewRecorder()
	f.handler.Redeem(rr, req)
	return rr
}

func decodeErrorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp models.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("décodage de la réponse d'erreur: %v", err)
	}
	return resp.Error.Code
}

func TestRedeemRemiseComplete(t *testing.T) {
	f := newRedeemFixture(t)
	f.issueCode("123456", f.partnerID.Hex(), time.Now().Add(3*time.Minute))

	rr := f.redeem(t, "123456", testCPF)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, attendu 200: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Data models.RedeemResponse `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("décodage de la réponse: %v", err)
	}
	if resp.Data.BorrowerName != "Ana Souza" {
		t.Errorf("borrower_name = %q, attendu Ana Souza", resp.Data.BorrowerName)
	}
	if resp.Data.BorrowerRole != models.RoleStudent {
		t.Errorf("borrower_role = %q, attendu student", resp.Data.BorrowerRole)
	}
	if resp.Data.PromotionTitle != "Menu étudiant -20%" {
		t.Errorf("promotion_title = %q", resp.Data.PromotionTitle)
	}

	if len(f.reds.redemptions) != 1 {
		t.Fatalf("remises enregistrées = %d, attendu 1", len(f.reds.redemptions))
	}
	if f.reds.redemptions[0].BorrowerID != f.studentID.Hex() {
		t.Errorf("la remise ne référence pas le bon bénéficiaire")
	}
	if f.codes.codes[utils.HashCode("123456")].UsedAt == nil {
		t.Error("le code doit être marqué consommé après la remise")
	}
}

func TestRedeemCodeDejaUtilise(t *testing.T) {
	f := newRedeemFixture(t)
	f.issueCode("123456", f.partnerID.Hex(), time.Now().Add(3*time.Minute))

	if rr := f.redeem(t, "123456", testCPF); rr.Code != http.StatusOK {
		t.Fatalf("première remise: status = %d, attendu 200", rr.Code)
	}

	rr := f.redeem(t, "123456", testCPF)
	if rr.Code != http.StatusNotFound {
		t.Errorf("deuxième remise: status = %d, attendu 404", rr.Code)
	}
	if code := decodeErrorCode(t, rr); code != "CODE_USED" {
		t.Errorf("code d'erreur = %s, attendu CODE_USED", code)
	}
	if len(f.reds.redemptions) != 1 {
		t.Errorf("remises enregistrées = %d, la deuxième ne doit rien créer", len(f.reds.redemptions))
	}
}

func TestRedeemCodeInconnu(t *testing.T) {
	f := newRedeemFixture(t)

	rr := f.redeem(t, "999999", testCPF)
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, attendu 404", rr.Code)
	}
	if code := decodeErrorCode(t, rr); code != "INVALID_CODE" {
		t.Errorf("code d'erreur = %s, attendu INVALID_CODE", code)
	}
}

func TestRedeemCodeExpire(t *testing.T) {
	f := newRedeemFixture(t)
	f.issueCode("123456", f.partnerID.Hex(), time.Now().Add(-time.Minute))

	rr := f.redeem(t, "123456", testCPF)
	if rr.Code != http.StatusGone {
		t.Errorf("status = %d, attendu 410", rr.Code)
	}
	if code := decodeErrorCode(t, rr); code != "EXPIRED" {
		t.Errorf("code d'erreur = %s, attendu EXPIRED", code)
	}
	if f.codes.codes[utils.HashCode("123456")].UsedAt != nil {
		t.Error("un code expiré refusé ne doit pas être marqué consommé")
	}
}

func TestRedeemCodeAutrePartenaire(t *testing.T) {
	f := newRedeemFixture(t)
	// Code émis pour un autre partenaire que celui du token
	f.issueCode("123456", primitive.NewObjectID().Hex(), time.Now().Add(3*time.Minute))

	rr := f.redeem(t, "123456", testCPF)
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, attendu 404", rr.Code)
	}
	if code := decodeErrorCode(t, rr); code != "INVALID_CODE" {
		t.Errorf("code d'erreur = %s, attendu INVALID_CODE", code)
	}
	if f.codes.codes[utils.HashCode("123456")].UsedAt != nil {
		t.Error("le code de l'autre partenaire ne doit pas être consommé")
	}
}

func TestRedeemPartenaireDesactive(t *testing.T) {
	f := newRedeemFixture(t)
	f.issueCode("123456", f.partnerID.Hex(), time.Now().Add(3*time.Minute))
	f.partner.Active = false

	rr := f.redeem(t, "123456", testCPF)
	if rr.Code != http.StatusForbidden {
		t.Errorf("status = %d, attendu 403", rr.Code)
	}
	if code := decodeErrorCode(t, rr); code != "INVALID_PARTNER" {
		t.Errorf("code d'erreur = %s, attendu INVALID_PARTNER", code)
	}
	if f.codes.codes[utils.HashCode("123456")].UsedAt != nil {
		t.Error("un partenaire désactivé ne doit pas consommer de code")
	}
	if len(f.reds.redemptions) != 0 {
		t.Error("aucune remise ne doit être enregistrée chez un partenaire désactivé")
	}
}

func TestRedeemDocumentErrone(t *testing.T) {
	f := newRedeemFixture(t)
	f.issueCode("123456", f.partnerID.Hex(), time.Now().Add(3*time.Minute))

	// CPF au format valide mais qui n'est pas celui du bénéficiaire
	rr := f.redeem(t, "123456", testCPFAutre)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, attendu 400", rr.Code)
	}
	if code := decodeErrorCode(t, rr); code != "INVALID_CPF" {
		t.Errorf("code d'erreur = %s, attendu INVALID_CPF", code)
	}
	if f.codes.codes[utils.HashCode("123456")].UsedAt != nil {
		t.Error("une faute de frappe sur le document ne doit pas brûler le code")
	}

	// L'étudiant représente; la remise passe avec le bon document
	if rr := f.redeem(t, "123456", testCPF); rr.Code != http.StatusOK {
		t.Errorf("remise après correction du document: status = %d, attendu 200", rr.Code)
	}
}

func TestRedeemBeneficiaireInactif(t *testing.T) {
	f := newRedeemFixture(t)
	f.issueCode("123456", f.partnerID.Hex(), time.Now().Add(3*time.Minute))
	f.student.ActiveUntil = time.Now().AddDate(0, 0, -1)

	rr := f.redeem(t, "123456", testCPF)
	if rr.Code != http.StatusForbidden {
		t.Errorf("status = %d, attendu 403", rr.Code)
	}
	if code := decodeErrorCode(t, rr); code != "INACTIVE_STUDENT" {
		t.Errorf("code d'erreur = %s, attendu INACTIVE_STUDENT", code)
	}
	if f.codes.codes[utils.HashCode("123456")].UsedAt != nil {
		t.Error("le code d'un bénéficiaire inactif ne doit pas être consommé")
	}
}

func TestRedeemFormatDocumentInvalide(t *testing.T) {
	f := newRedeemFixture(t)
	f.issueCode("123456", f.partnerID.Hex(), time.Now().Add(3*time.Minute))

	// Ni 11 ni 14 chiffres
	rr := f.redeem(t, "123456", "12345")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, attendu 400", rr.Code)
	}
	if code := decodeErrorCode(t, rr); code != "INVALID_CPF" {
		t.Errorf("code d'erreur = %s, attendu INVALID_CPF", code)
	}
}
