package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Partner représente un commerce partenaire
type Partner struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TenantID  string             `json:"tenant_id" bson:"tenant_id"`
	TradeName string             `json:"trade_name" bson:"trade_name"`
	Category  string             `json:"category" bson:"category"`
	Address   string             `json:"address" bson:"address"`
	Active    bool               `json:"active" bson:"active"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// PartnerDetail est la fiche partenaire renvoyée au détail, avec ses
// promotions actuellement valides
type PartnerDetail struct {
	Partner    Partner     `json:"partner"`
	Promotions []Promotion `json:"promotions"`
}

// PartnerRequest représente la création/modification d'un partenaire par un admin
type PartnerRequest struct {
	TradeName string `json:"trade_name"`
	Category  string `json:"category"`
	Address   string `json:"address"`
	Active    *bool  `json:"active,omitempty"`
	TenantID  string `json:"tenant_id"`
}
