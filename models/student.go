package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Student représente un étudiant bénéficiaire
type Student struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TenantID    string             `json:"tenant_id" bson:"tenant_id"`
	Name        string             `json:"name" bson:"name"`
	Course      string             `json:"course" bson:"course"`
	CPFHash     string             `json:"-" bson:"cpf_hash"` // Le "-" empêche la sérialisation du hash
	ActiveUntil time.Time          `json:"active_until" bson:"active_until"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}

// IsActive indique si l'inscription de l'étudiant est encore valide à la date donnée
func (s *Student) IsActive(at time.Time) bool {
	return !s.ActiveUntil.Before(truncateToDay(at))
}

// truncateToDay ramène un instant au début de sa journée (la règle métier
// compare des dates, pas des instants)
func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StudentRequest représente la création/modification d'un étudiant par un admin.
// Le CPF est transmis en clair et haché côté serveur; vide = inchangé.
type StudentRequest struct {
	Name        string    `json:"name"`
	Course      string    `json:"course"`
	CPF         string    `json:"cpf,omitempty"`
	ActiveUntil time.Time `json:"active_until"`
	TenantID    string    `json:"tenant_id"`
}
