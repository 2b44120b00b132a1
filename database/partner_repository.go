package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"avantages-backend/models"
)

// PartnerRepository gère les opérations sur les partenaires
type PartnerRepository struct {
	collection *mongo.Collection
}

// NewPartnerRepository crée une nouvelle instance de PartnerRepository
func NewPartnerRepository(db *mongo.Database) *PartnerRepository {
	return &PartnerRepository{
		collection: db.Collection("partners"),
	}
}

// activeFilter construit le filtre des partenaires visibles dans les listings
func activeFilter(category string) bson.M {
	filter := bson.M{"active": true}
	if category != "" {
		filter["category"] = category
	}
	return filter
}

// FindActive retourne les partenaires actifs, paginés, avec filtre de
// catégorie et tri optionnels
func (r *PartnerRepository) FindActive(category, orderBy string, limit, offset int64) ([]models.Partner, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sortField := "trade_name"
	if orderBy == "category" || orderBy == "created_at" {
		sortField = orderBy
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortField, Value: 1}}).
		SetSkip(offset).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, activeFilter(category), opts)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche des partenaires: %w", err)
	}
	defer cursor.Close(ctx)

	var partners []models.Partner
	if err = cursor.All(ctx, &partners); err != nil {
		return nil, fmt.Errorf("erreur lors du décodage des partenaires: %w", err)
	}

	return partners, nil
}

// CountActive compte les partenaires actifs correspondant au filtre
func (r *PartnerRepository) CountActive(category string) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, activeFilter(category))
	if err != nil {
		return 0, fmt.Errorf("erreur lors du comptage des partenaires: %w", err)
	}
	return count, nil
}

// FindByID recherche un partenaire par ID (actif ou non)
func (r *PartnerRepository) FindByID(id primitive.ObjectID) (*models.Partner, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var partner models.Partner
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&partner)

	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche du partenaire: %w", err)
	}

	return &partner, nil
}

// FindActiveByID recherche un partenaire actif par ID
func (r *PartnerRepository) FindActiveByID(id primitive.ObjectID) (*models.Partner, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var partner models.Partner
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "active": true}).Decode(&partner)

	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche du partenaire: %w", err)
	}

	return &partner, nil
}

// FindAll retourne tous les partenaires (vue admin, inactifs compris)
func (r *PartnerRepository) FindAll(limit, offset int64) ([]models.Partner, int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("erreur lors du comptage des partenaires: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(offset).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("erreur lors de la recherche des partenaires: %w", err)
	}
	defer cursor.Close(ctx)

	var partners []models.Partner
	if err = cursor.All(ctx, &partners); err != nil {
		return nil, 0, fmt.Errorf("erreur lors du décodage des partenaires: %w", err)
	}

	return partners, total, nil
}

// Create crée un nouveau partenaire
func (r *PartnerRepository) Create(partner *models.Partner) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	partner.ID = primitive.NewObjectID()
	partner.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, partner)
	if err != nil {
		return fmt.Errorf("erreur lors de la création du partenaire: %w", err)
	}
	return nil
}

// Update met à jour un partenaire
func (r *PartnerRepository) Update(partner *models.Partner) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"trade_name": partner.TradeName,
			"category":   partner.Category,
			"address":    partner.Address,
			"active":     partner.Active,
			"tenant_id":  partner.TenantID,
		},
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": partner.ID}, update)
	if err != nil {
		return fmt.Errorf("erreur lors de la mise à jour du partenaire: %w", err)
	}
	return nil
}

// SoftDelete désactive un partenaire (jamais de suppression physique)
func (r *PartnerRepository) SoftDelete(id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"active": false}})
	if err != nil {
		return fmt.Errorf("erreur lors de la désactivation du partenaire: %w", err)
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Count compte tous les partenaires
func (r *PartnerRepository) Count() (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("erreur lors du comptage des partenaires: %w", err)
	}
	return count, nil
}
