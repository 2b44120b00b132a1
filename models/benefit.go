package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Benefit représente une entrée du catalogue d'avantages d'un partenaire
type Benefit struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	PartnerID   string             `json:"partner_id" bson:"partner_id"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	Active      bool               `json:"active" bson:"active"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}

// BenefitRequest représente la création/modification d'un avantage par un admin
type BenefitRequest struct {
	PartnerID   string `json:"partner_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}
