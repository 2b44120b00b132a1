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

// BenefitRepository gère les opérations sur le catalogue d'avantages
type BenefitRepository struct {
	collection *mongo.Collection
}

// NewBenefitRepository crée une nouvelle instance de BenefitRepository
func NewBenefitRepository(db *mongo.Database) *BenefitRepository {
	return &BenefitRepository{
		collection: db.Collection("benefits"),
	}
}

// FindByID recherche un avantage par ID
func (r *BenefitRepository) FindByID(id primitive.ObjectID) (*models.Benefit, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var benefit models.Benefit
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&benefit)

	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche de l'avantage: %w", err)
	}

	return &benefit, nil
}

// FindAll retourne les avantages paginés avec le total
func (r *BenefitRepository) FindAll(limit, offset int64) ([]models.Benefit, int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("erreur lors du comptage des avantages: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(offset).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("erreur lors de la recherche des avantages: %w", err)
	}
	defer cursor.Close(ctx)

	var benefits []models.Benefit
	if err = cursor.All(ctx, &benefits); err != nil {
		return nil, 0, fmt.Errorf("erreur lors du décodage des avantages: %w", err)
	}

	return benefits, total, nil
}

// Create crée un nouvel avantage
func (r *BenefitRepository) Create(benefit *models.Benefit) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	benefit.ID = primitive.NewObjectID()
	benefit.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, benefit)
	if err != nil {
		return fmt.Errorf("erreur lors de la création de l'avantage: %w", err)
	}
	return nil
}

// Update met à jour un avantage
func (r *BenefitRepository) Update(benefit *models.Benefit) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"partner_id":  benefit.PartnerID,
			"title":       benefit.Title,
			"description": benefit.Description,
			"active":      benefit.Active,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": benefit.ID}, update)
	if err != nil {
		return fmt.Errorf("erreur lors de la mise à jour de l'avantage: %w", err)
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SoftDelete désactive un avantage
func (r *BenefitRepository) SoftDelete(id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"active": false}})
	if err != nil {
		return fmt.Errorf("erreur lors de la désactivation de l'avantage: %w", err)
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
