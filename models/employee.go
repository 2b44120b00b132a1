package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Employee représente un employé bénéficiaire
type Employee struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TenantID    string             `json:"tenant_id" bson:"tenant_id"`
	Name        string             `json:"name" bson:"name"`
	Department  string             `json:"department" bson:"department"`
	CNPJHash    string             `json:"-" bson:"cnpj_hash"`
	ActiveUntil time.Time          `json:"active_until" bson:"active_until"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}

// IsActive indique si le contrat de l'employé est encore valide à la date donnée
func (e *Employee) IsActive(at time.Time) bool {
	return !e.ActiveUntil.Before(truncateToDay(at))
}

// EmployeeRequest représente la création/modification d'un employé par un admin.
// Le CNPJ est transmis en clair et haché côté serveur; vide = inchangé.
type EmployeeRequest struct {
	Name        string    `json:"name"`
	Department  string    `json:"department"`
	CNPJ        string    `json:"cnpj,omitempty"`
	ActiveUntil time.Time `json:"active_until"`
	TenantID    string    `json:"tenant_id"`
}
