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

// PromotionRepository gère les opérations sur les promotions
type PromotionRepository struct {
	collection *mongo.Collection
}

// NewPromotionRepository crée une nouvelle instance de PromotionRepository
func NewPromotionRepository(db *mongo.Database) *PromotionRepository {
	return &PromotionRepository{
		collection: db.Collection("promotions"),
	}
}

// FindByID recherche une promotion par ID
func (r *PromotionRepository) FindByID(id primitive.ObjectID) (*models.Promotion, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var promotion models.Promotion
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&promotion)

	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche de la promotion: %w", err)
	}

	return &promotion, nil
}

// FindByPartner retourne toutes les promotions d'un partenaire (actives ou non)
func (r *PromotionRepository) FindByPartner(partnerID string) ([]models.Promotion, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"partner_id": partnerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche des promotions: %w", err)
	}
	defer cursor.Close(ctx)

	var promotions []models.Promotion
	if err = cursor.All(ctx, &promotions); err != nil {
		return nil, fmt.Errorf("erreur lors du décodage des promotions: %w", err)
	}

	return promotions, nil
}

// FindValidByPartner retourne les promotions d'un partenaire actives et
// dans leur fenêtre de validité à l'instant donné
func (r *PromotionRepository) FindValidByPartner(partnerID string, at time.Time) ([]models.Promotion, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{
		"partner_id": partnerID,
		"active":     true,
		"valid_from": bson.M{"$lte": at},
		"valid_to":   bson.M{"$gt": at},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche des promotions valides: %w", err)
	}
	defer cursor.Close(ctx)

	var promotions []models.Promotion
	if err = cursor.All(ctx, &promotions); err != nil {
		return nil, fmt.Errorf("erreur lors du décodage des promotions: %w", err)
	}

	return promotions, nil
}

// FindAll retourne toutes les promotions paginées (vue admin)
func (r *PromotionRepository) FindAll(limit, offset int64) ([]models.Promotion, int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("erreur lors du comptage des promotions: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(offset).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("erreur lors de la recherche des promotions: %w", err)
	}
	defer cursor.Close(ctx)

	var promotions []models.Promotion
	if err = cursor.All(ctx, &promotions); err != nil {
		return nil, 0, fmt.Errorf("erreur lors du décodage des promotions: %w", err)
	}

	return promotions, total, nil
}

// FindOpening retourne les promotions actives dont la fenêtre de validité
// est ouverte et qui n'ont pas encore été annoncées
func (r *PromotionRepository) FindOpening(at time.Time) ([]models.Promotion, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{
		"active":           true,
		"opening_notified": false,
		"valid_from":       bson.M{"$lte": at},
		"valid_to":         bson.M{"$gt": at},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche des promotions à annoncer: %w", err)
	}
	defer cursor.Close(ctx)

	var promotions []models.Promotion
	if err = cursor.All(ctx, &promotions); err != nil {
		return nil, fmt.Errorf("erreur lors du décodage des promotions: %w", err)
	}

	return promotions, nil
}

// MarkOpeningNotified marque une promotion comme annoncée
func (r *PromotionRepository) MarkOpeningNotified(id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"opening_notified": true}})
	if err != nil {
		return fmt.Errorf("erreur lors du marquage de la promotion: %w", err)
	}
	return nil
}

// Create crée une nouvelle promotion
func (r *PromotionRepository) Create(promotion *models.Promotion) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	promotion.ID = primitive.NewObjectID()
	promotion.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, promotion)
	if err != nil {
		return fmt.Errorf("erreur lors de la création de la promotion: %w", err)
	}
	return nil
}

// Update met à jour une promotion
func (r *PromotionRepository) Update(promotion *models.Promotion) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"title":      promotion.Title,
			"type":       promotion.Type,
			"valid_from": promotion.ValidFrom,
			"valid_to":   promotion.ValidTo,
			"audience":   promotion.Audience,
			"active":     promotion.Active,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": promotion.ID}, update)
	if err != nil {
		return fmt.Errorf("erreur lors de la mise à jour de la promotion: %w", err)
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SoftDelete désactive une promotion (jamais de suppression physique)
func (r *PromotionRepository) SoftDelete(id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"active": false}})
	if err != nil {
		return fmt.Errorf("erreur lors de la désactivation de la promotion: %w", err)
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Count compte toutes les promotions
func (r *PromotionRepository) Count() (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("erreur lors du comptage des promotions: %w", err)
	}
	return count, nil
}
