package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"avantages-backend/models"
)

// RedemptionRepository gère les opérations sur les remises enregistrées
type RedemptionRepository struct {
	collection *mongo.Collection
}

// NewRedemptionRepository crée une nouvelle instance
func NewRedemptionRepository(db *mongo.Database) *RedemptionRepository {
	return &RedemptionRepository{
		collection: db.Collection("redemptions"),
	}
}

// Create enregistre une remise, identifiée par un UUID
func (r *RedemptionRepository) Create(redemption *models.Redemption) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	redemption.ID = uuid.NewString()

	_, err := r.collection.InsertOne(ctx, redemption)
	if err != nil {
		return fmt.Errorf("erreur lors de l'enregistrement de la remise: %w", err)
	}
	return nil
}

// FindByBorrower retourne l'historique des remises d'un bénéficiaire,
// de la plus récente à la plus ancienne
func (r *RedemptionRepository) FindByBorrower(borrowerID string, limit, offset int64) ([]models.Redemption, int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"borrower_id": borrowerID}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("erreur lors du comptage des remises: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "used_at", Value: -1}}).
		SetSkip(offset).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("erreur lors de la recherche des remises: %w", err)
	}
	defer cursor.Close(ctx)

	var redemptions []models.Redemption
	if err = cursor.All(ctx, &redemptions); err != nil {
		return nil, 0, fmt.Errorf("erreur lors du décodage des remises: %w", err)
	}

	return redemptions, total, nil
}

// partnerPeriodFilter construit le filtre des remises d'un partenaire sur une période
func partnerPeriodFilter(partnerID string, from, to time.Time) bson.M {
	return bson.M{
		"partner_id": partnerID,
		"used_at":    bson.M{"$gte": from, "$lt": to},
	}
}

// CountByPartnerBetween compte les remises d'un partenaire sur une période
func (r *RedemptionRepository) CountByPartnerBetween(partnerID string, from, to time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, partnerPeriodFilter(partnerID, from, to))
	if err != nil {
		return 0, fmt.Errorf("erreur lors du comptage des remises: %w", err)
	}
	return count, nil
}

// CountPerDay agrège les remises d'un partenaire par jour sur une période
func (r *RedemptionRepository) CountPerDay(partnerID string, from, to time.Time) ([]models.DayCount, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pipeline := []bson.M{
		{"$match": partnerPeriodFilter(partnerID, from, to)},
		{"$group": bson.M{
			"_id":   bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$used_at"}},
			"count": bson.M{"$sum": 1},
		}},
		{"$sort": bson.M{"_id": 1}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de l'agrégation des remises: %w", err)
	}
	defer cursor.Close(ctx)

	var days []models.DayCount
	if err = cursor.All(ctx, &days); err != nil {
		return nil, fmt.Errorf("erreur lors du décodage de l'agrégation: %w", err)
	}

	return days, nil
}

// CountDistinctBorrowers compte les bénéficiaires distincts d'un partenaire
// sur une période
func (r *RedemptionRepository) CountDistinctBorrowers(partnerID string, from, to time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	values, err := r.collection.Distinct(ctx, "borrower_id", partnerPeriodFilter(partnerID, from, to))
	if err != nil {
		return 0, fmt.Errorf("erreur lors du comptage des bénéficiaires: %w", err)
	}
	return int64(len(values)), nil
}

// CountSince compte toutes les remises depuis un instant donné
func (r *RedemptionRepository) CountSince(since time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"used_at": bson.M{"$gte": since}})
	if err != nil {
		return 0, fmt.Errorf("erreur lors du comptage des remises: %w", err)
	}
	return count, nil
}

// Count compte toutes les remises
func (r *RedemptionRepository) Count() (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("erreur lors du comptage des remises: %w", err)
	}
	return count, nil
}
