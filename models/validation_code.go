package models

import (
	"time"
)

// Rôles des emprunteurs de codes de validation
const (
	RoleStudent  = "student"
	RoleEmployee = "employee"
	RolePartner  = "partner"
	RoleAdmin    = "admin"
)

// ValidationCode représente un code à usage unique autorisant une remise
// chez un partenaire. Le document n'est jamais supprimé : une fois consommé,
// used_at est renseigné et ne revient jamais à null.
type ValidationCode struct {
	ID           string     `json:"id" bson:"_id"`
	TenantID     string     `json:"tenant_id" bson:"tenant_id"`
	PartnerID    string     `json:"partner_id" bson:"partner_id"`
	BorrowerID   string     `json:"borrower_id" bson:"borrower_id"`
	BorrowerRole string     `json:"borrower_role" bson:"borrower_role"`
	CodeHash     string     `json:"-" bson:"code_hash"` // SHA-256 hex du code à 6 chiffres
	Expires      time.Time  `json:"expires" bson:"expires"`
	UsedAt       *time.Time `json:"used_at,omitempty" bson:"used_at"`
	CreatedAt    time.Time  `json:"created_at" bson:"created_at"`
}

// IsExpired indique si le code a dépassé sa date d'expiration
func (v *ValidationCode) IsExpired(at time.Time) bool {
	return !v.Expires.After(at)
}

// CreateValidationCodeRequest représente la demande d'un code de validation
type CreateValidationCodeRequest struct {
	PartnerID string `json:"partner_id"`
}

// ValidationCodeResponse renvoie le code en clair au demandeur.
// C'est la seule fois où le code sort du serveur.
type ValidationCodeResponse struct {
	Code    string    `json:"code"`
	Expires time.Time `json:"expires"`
}
