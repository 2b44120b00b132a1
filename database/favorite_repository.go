package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"avantages-backend/models"
)

// FavoriteRepository gère les partenaires favoris des bénéficiaires.
// Une seule forme de stockage pour tous les rôles : un document par
// propriétaire portant l'ensemble des IDs de partenaires.
type FavoriteRepository struct {
	collection *mongo.Collection
}

// NewFavoriteRepository crée une nouvelle instance de FavoriteRepository
func NewFavoriteRepository(db *mongo.Database) *FavoriteRepository {
	return &FavoriteRepository{
		collection: db.Collection("favorites"),
	}
}

// Find retourne le document de favoris d'un propriétaire (jamais nil :
// un propriétaire sans document a un ensemble vide)
func (r *FavoriteRepository) Find(ownerID string) (*models.Favorite, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var favorite models.Favorite
	err := r.collection.FindOne(ctx, bson.M{"_id": ownerID}).Decode(&favorite)

	if err == mongo.ErrNoDocuments {
		return &models.Favorite{OwnerID: ownerID, PartnerIDs: []string{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche des favoris: %w", err)
	}

	if favorite.PartnerIDs == nil {
		favorite.PartnerIDs = []string{}
	}
	return &favorite, nil
}

// Add ajoute un partenaire aux favoris d'un propriétaire. $addToSet rend
// l'opération idempotente : un favori déjà présent n'est pas dupliqué.
func (r *FavoriteRepository) Add(ownerID, role, partnerID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"_id": ownerID}
	update := bson.M{
		"$addToSet": bson.M{"partner_ids": partnerID},
		"$set":      bson.M{"role": role},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("erreur lors de l'ajout du favori: %w", err)
	}
	return nil
}

// Remove retire un partenaire des favoris. Retourne false si le partenaire
// n'était pas dans l'ensemble.
func (r *FavoriteRepository) Remove(ownerID, partnerID string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": ownerID},
		bson.M{"$pull": bson.M{"partner_ids": partnerID}},
	)
	if err != nil {
		return false, fmt.Errorf("erreur lors du retrait du favori: %w", err)
	}

	return result.ModifiedCount > 0, nil
}

// FindOwnersByPartner retourne les propriétaires ayant un partenaire en favori
func (r *FavoriteRepository) FindOwnersByPartner(partnerID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"partner_ids": partnerID})
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche des favoris: %w", err)
	}
	defer cursor.Close(ctx)

	var favorites []models.Favorite
	if err = cursor.All(ctx, &favorites); err != nil {
		return nil, fmt.Errorf("erreur lors du décodage des favoris: %w", err)
	}

	owners := make([]string, 0, len(favorites))
	for _, favorite := range favorites {
		owners = append(owners, favorite.OwnerID)
	}
	return owners, nil
}
