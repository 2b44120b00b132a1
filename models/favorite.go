package models

// Favorite représente la liste des partenaires favoris d'un bénéficiaire.
// Un document par propriétaire, quel que soit son rôle : le document est
// identifié par l'ID du propriétaire et porte l'ensemble des partenaires.
type Favorite struct {
	OwnerID    string   `json:"owner_id" bson:"_id"`
	Role       string   `json:"role" bson:"role"`
	PartnerIDs []string `json:"partner_ids" bson:"partner_ids"`
}

// FavoriteRequest représente l'ajout d'un partenaire aux favoris
type FavoriteRequest struct {
	PartnerID string `json:"partner_id"`
}
