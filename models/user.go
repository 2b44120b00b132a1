package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User représente un compte de connexion. Chaque compte pointe vers une
// entité métier (étudiant, employé ou partenaire) via EntityID.
type User struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email     string             `json:"email" bson:"email"`
	Password  string             `json:"-" bson:"password"` // Le "-" empêche la sérialisation du mot de passe
	Role      string             `json:"role" bson:"role"`
	TenantID  string             `json:"tenant_id" bson:"tenant_id"`
	EntityID  string             `json:"entity_id" bson:"entity_id"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// LoginRequest représente la requête de connexion
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse représente la réponse d'authentification
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// UserRequest représente la création/modification d'un compte par un admin
type UserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	TenantID string `json:"tenant_id"`
	EntityID string `json:"entity_id"`
}

// ApplyUpdate applique les champs non vides d'une requête sur un compte
func (u *User) ApplyUpdate(req *UserRequest) {
	if req.Email != "" {
		u.Email = req.Email
	}
	if req.Role != "" {
		u.Role = req.Role
	}
	if req.TenantID != "" {
		u.TenantID = req.TenantID
	}
	if req.EntityID != "" {
		u.EntityID = req.EntityID
	}
}
