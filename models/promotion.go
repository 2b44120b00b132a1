package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Promotion représente une offre d'un partenaire, valable sur une fenêtre de dates
type Promotion struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	PartnerID       string             `json:"partner_id" bson:"partner_id"`
	Title           string             `json:"title" bson:"title"`
	Type            string             `json:"type" bson:"type"`
	ValidFrom       time.Time          `json:"valid_from" bson:"valid_from"`
	ValidTo         time.Time          `json:"valid_to" bson:"valid_to"`
	Active          bool               `json:"active" bson:"active"`
	Audience        []string           `json:"audience" bson:"audience"`
	OpeningNotified bool               `json:"-" bson:"opening_notified"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
}

// IsValidAt indique si la promotion est active et dans sa fenêtre de validité
func (p *Promotion) IsValidAt(at time.Time) bool {
	return p.Active && !at.Before(p.ValidFrom) && at.Before(p.ValidTo)
}

// PromotionRequest représente le body de création/modification d'une promotion
type PromotionRequest struct {
	Title     string    `json:"title"`
	Type      string    `json:"type"`
	ValidFrom time.Time `json:"valid_from"`
	ValidTo   time.Time `json:"valid_to"`
	Audience  []string  `json:"audience"`
}
