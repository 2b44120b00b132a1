package models

import (
	"time"
)

// Redemption représente la consommation enregistrée d'un code de validation.
// Document immuable, créé 1:1 avec un code consommé.
type Redemption struct {
	ID               string    `json:"id" bson:"_id"`
	ValidationCodeID string    `json:"validation_code_id" bson:"validation_code_id"`
	TenantID         string    `json:"tenant_id" bson:"tenant_id"`
	PartnerID        string    `json:"partner_id" bson:"partner_id"`
	BorrowerID       string    `json:"borrower_id" bson:"borrower_id"`
	BorrowerRole     string    `json:"borrower_role" bson:"borrower_role"`
	PromotionTitle   string    `json:"promotion_title" bson:"promotion_title"`
	Value            float64   `json:"value" bson:"value"`
	UsedAt           time.Time `json:"used_at" bson:"used_at"`
}

// RedeemRequest représente la demande de remise côté partenaire
type RedeemRequest struct {
	Code     string  `json:"code"`
	Document string  `json:"document"` // CPF (étudiant) ou CNPJ (employé)
	Value    float64 `json:"value,omitempty"`
}

// RedeemResponse renvoie les informations d'affichage de l'emprunteur
type RedeemResponse struct {
	BorrowerName   string `json:"borrower_name"`
	BorrowerRole   string `json:"borrower_role"`
	BorrowerDetail string `json:"borrower_detail"` // cursus ou service
	PromotionTitle string `json:"promotion_title,omitempty"`
	RedemptionID   string `json:"redemption_id"`
}
